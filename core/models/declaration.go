package models

// ExtractedMethod is the flattened view of a C++ method declaration.
type ExtractedMethod struct {
	Name          string
	Access        string
	IsVirtual     bool
	IsPureVirtual bool
	IsStatic      bool
	Annotations   []string
}

// ExtractedClass is a class declaration together with the methods that
// survived filtering. Methods keep their declaration order.
type ExtractedClass struct {
	Name          string
	QualifiedName string
	Namespace     string
	IsStruct      bool
	Annotations   []string
	Methods       []ExtractedMethod
}

func (c ExtractedClass) HasAnnotation(name string) bool {
	for _, a := range c.Annotations {
		if a == name {
			return true
		}
	}
	return false
}

func (m ExtractedMethod) HasAnnotation(name string) bool {
	for _, a := range m.Annotations {
		if a == name {
			return true
		}
	}
	return false
}
