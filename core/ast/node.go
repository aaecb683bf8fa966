package ast

import (
	"fmt"
	"strings"
)

// Kind tags a Node. Front-ends map their native cursor or node types onto
// this enumeration; anything without a mapping becomes KindUnknown.
type Kind int

const (
	KindUnknown Kind = iota
	KindTranslationUnit
	KindNamespace
	KindClass
	KindStruct
	KindMethod
	KindConstructor
	KindDestructor
	KindAnnotation
)

func (k Kind) String() string {
	switch k {
	case KindTranslationUnit:
		return "TranslationUnit"
	case KindNamespace:
		return "Namespace"
	case KindClass:
		return "Class"
	case KindStruct:
		return "Struct"
	case KindMethod:
		return "Method"
	case KindConstructor:
		return "Constructor"
	case KindDestructor:
		return "Destructor"
	case KindAnnotation:
		return "Annotation"
	default:
		return "Unknown"
	}
}

type Access int

const (
	AccessInvalid Access = iota
	AccessPublic
	AccessProtected
	AccessPrivate
)

func (a Access) String() string {
	switch a {
	case AccessPublic:
		return "public"
	case AccessProtected:
		return "protected"
	case AccessPrivate:
		return "private"
	default:
		return ""
	}
}

// Node is a declaration in the neutral tree handed to the extractor.
type Node struct {
	Kind        Kind
	Name        string
	Access      Access
	Virtual     bool
	PureVirtual bool
	Static      bool
	Definition  bool // classes: the declaration has a body
	Line        int
	Children    []*Node
}

func (n *Node) Add(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// Dump renders the tree one node per line, indented by depth.
func Dump(n *Node) string {
	var sb strings.Builder
	dump(&sb, n, 0)
	return sb.String()
}

func dump(sb *strings.Builder, n *Node, depth int) {
	if n == nil {
		return
	}
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(n.Kind.String())
	if n.Name != "" {
		fmt.Fprintf(sb, " %s", n.Name)
	}
	if n.Access != AccessInvalid {
		fmt.Fprintf(sb, " [%s]", n.Access)
	}
	if n.Virtual {
		sb.WriteString(" virtual")
	}
	sb.WriteByte('\n')
	for _, c := range n.Children {
		dump(sb, c, depth+1)
	}
}
