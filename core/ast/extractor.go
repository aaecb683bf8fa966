package ast

import (
	"strings"

	"github.com/tristendillon/cppbind/core/logger"
	"github.com/tristendillon/cppbind/core/models"
)

type ExtractOptions struct {
	PublicOnly     bool
	IncludeStructs bool
}

func DefaultExtractOptions() ExtractOptions {
	return ExtractOptions{PublicOnly: true}
}

// ExtractClasses collects the class definitions of a translation unit in
// source order. Namespaces are flattened into the same list.
func ExtractClasses(root *Node, opts ExtractOptions) []models.ExtractedClass {
	classes := []models.ExtractedClass{}
	if root == nil {
		return classes
	}
	return buildClasses(root, nil, opts, classes)
}

func buildClasses(parent *Node, namespaces []string, opts ExtractOptions, result []models.ExtractedClass) []models.ExtractedClass {
	for _, child := range parent.Children {
		switch child.Kind {
		case KindClass, KindStruct:
			if child.Kind == KindStruct && !opts.IncludeStructs {
				continue
			}
			if !child.Definition || child.Name == "" {
				continue
			}
			result = append(result, extractClass(child, namespaces, opts))
		case KindNamespace:
			inner := namespaces
			if child.Name != "" {
				inner = append(append([]string{}, namespaces...), child.Name)
			}
			result = buildClasses(child, inner, opts, result)
		}
	}
	return result
}

func extractClass(node *Node, namespaces []string, opts ExtractOptions) models.ExtractedClass {
	ns := strings.Join(namespaces, "::")
	qualified := node.Name
	if ns != "" {
		qualified = ns + "::" + node.Name
	}

	class := models.ExtractedClass{
		Name:          node.Name,
		QualifiedName: qualified,
		Namespace:     ns,
		IsStruct:      node.Kind == KindStruct,
		Annotations:   Annotations(node),
		Methods:       []models.ExtractedMethod{},
	}

	for _, child := range node.Children {
		if child.Kind != KindMethod {
			continue
		}
		if opts.PublicOnly && child.Access != AccessPublic {
			continue
		}
		class.Methods = append(class.Methods, models.ExtractedMethod{
			Name:          child.Name,
			Access:        child.Access.String(),
			IsVirtual:     child.Virtual,
			IsPureVirtual: child.PureVirtual,
			IsStatic:      child.Static,
			Annotations:   Annotations(child),
		})
	}

	logger.Debug("Extracted class %s with %d methods", qualified, len(class.Methods))
	return class
}

// Annotations returns the display names of the annotation children of a
// node. The result is never nil.
func Annotations(node *Node) []string {
	annotations := []string{}
	for _, c := range node.Children {
		if c.Kind == KindAnnotation {
			annotations = append(annotations, c.Name)
		}
	}
	return annotations
}
