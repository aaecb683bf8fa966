// Package treesitter implements frontend.Parser on top of the tree-sitter
// C++ grammar. It needs no compiler installation, at the cost of not running
// the real preprocessor: only -D definitions, annotation and empty macros
// defined in the header itself, and export markers after a class key are
// handled.
package treesitter

import (
	"context"
	"fmt"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/tristendillon/cppbind/core/ast"
	"github.com/tristendillon/cppbind/core/frontend"
	"github.com/tristendillon/cppbind/core/logger"
)

// maxDiagnostics caps the syntax errors reported per header.
const maxDiagnostics = 20

type Parser struct {
	parser  *sitter.Parser
	defines []macro
}

// New creates a parser. defines are NAME or NAME=VALUE definitions applied
// to every header, as -D arguments would be.
func New(defines ...string) *Parser {
	p := sitter.NewParser()
	p.SetLanguage(cpp.GetLanguage())
	return &Parser{parser: p, defines: predefinedMacros(defines)}
}

func (p *Parser) Parse(path string) (*frontend.Unit, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", frontend.ErrParse, path, err)
	}
	return p.ParseSource(path, src)
}

// ParseSource parses src as if it had been read from path.
func (p *Parser) ParseSource(path string, src []byte) (*frontend.Unit, error) {
	src = preprocess(src, p.defines)

	tree, err := p.parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", frontend.ErrParse, path, err)
	}
	defer tree.Close()

	b := &builder{src: src, path: path}
	rootNode := tree.RootNode()
	root := &ast.Node{Kind: ast.KindTranslationUnit, Name: path}
	b.declarations(rootNode, root)

	if rootNode.HasError() {
		b.collectErrors(rootNode)
		logger.Debug("tree-sitter reported %d syntax errors in %s", len(b.diagnostics), path)
	}

	return &frontend.Unit{Path: path, Root: root, Diagnostics: b.diagnostics}, nil
}

func (p *Parser) Close() error {
	p.parser.Close()
	return nil
}

type builder struct {
	src         []byte
	path        string
	diagnostics []frontend.Diagnostic
}

func (b *builder) text(n *sitter.Node) string {
	return n.Content(b.src)
}

func line(n *sitter.Node) int {
	return int(n.StartPoint().Row) + 1
}

// declarations converts the children of a translation unit, namespace body
// or linkage block.
func (b *builder) declarations(n *sitter.Node, parent *ast.Node) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		b.declaration(n.NamedChild(i), parent)
	}
}

func (b *builder) declaration(n *sitter.Node, parent *ast.Node) {
	switch n.Type() {
	case "namespace_definition":
		b.namespace(n, parent)
	case "class_specifier", "struct_specifier":
		b.class(n, parent)
	case "declaration", "type_definition":
		if spec := n.ChildByFieldName("type"); spec != nil {
			switch spec.Type() {
			case "class_specifier", "struct_specifier":
				b.class(spec, parent)
			}
		}
	case "linkage_specification":
		if body := n.ChildByFieldName("body"); body != nil {
			b.declarations(body, parent)
		}
	case "declaration_list":
		b.declarations(n, parent)
	case "preproc_ifdef", "preproc_if", "preproc_else", "preproc_elif":
		b.preprocBlock(n, parent)
	}
}

// preprocBlock descends into the first branch of a conditional. Alternatives
// are skipped so a class guarded by #ifdef/#else is seen once.
func (b *builder) preprocBlock(n *sitter.Node, parent *ast.Node) {
	alternative := n.ChildByFieldName("alternative")
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if alternative != nil && child.StartByte() == alternative.StartByte() && child.EndByte() == alternative.EndByte() {
			continue
		}
		b.declaration(child, parent)
	}
}

func (b *builder) namespace(n *sitter.Node, parent *ast.Node) {
	node := &ast.Node{Kind: ast.KindNamespace, Line: line(n)}
	if name := n.ChildByFieldName("name"); name != nil {
		node.Name = b.text(name)
	}
	parent.Add(node)

	if body := n.ChildByFieldName("body"); body != nil {
		b.declarations(body, node)
	}
}

func (b *builder) class(n *sitter.Node, parent *ast.Node) {
	kind := ast.KindClass
	access := ast.AccessPrivate
	if n.Type() == "struct_specifier" {
		kind = ast.KindStruct
		access = ast.AccessPublic
	}

	node := &ast.Node{Kind: kind, Line: line(n)}
	if name := n.ChildByFieldName("name"); name != nil {
		node.Name = lastSegment(b.text(name))
	}
	parent.Add(node)

	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if isAttribute(child) {
			b.annotations(child, node)
		}
	}

	body := n.ChildByFieldName("body")
	if body == nil {
		return
	}
	node.Definition = true

	for i := 0; i < int(body.NamedChildCount()); i++ {
		member := body.NamedChild(i)
		switch member.Type() {
		case "access_specifier":
			access = parseAccess(b.text(member))
		case "field_declaration", "declaration", "function_definition":
			if m := b.method(member, node.Name, access); m != nil {
				node.Add(m)
			}
		}
	}
}

// method converts a member declaration when it declares a function.
func (b *builder) method(n *sitter.Node, className string, access ast.Access) *ast.Node {
	declarator := functionDeclarator(n.ChildByFieldName("declarator"))
	if declarator == nil {
		return nil
	}
	nameNode := declarator.ChildByFieldName("declarator")
	if nameNode == nil {
		return nil
	}

	name := b.text(nameNode)
	node := &ast.Node{Kind: ast.KindMethod, Name: lastSegment(name), Access: access, Line: line(n)}
	switch {
	case nameNode.Type() == "destructor_name" || strings.HasPrefix(name, "~"):
		node.Kind = ast.KindDestructor
	case node.Name == className:
		node.Kind = ast.KindConstructor
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		switch child.Type() {
		case "virtual", "virtual_function_specifier":
			node.Virtual = true
		case "storage_class_specifier":
			if b.text(child) == "static" {
				node.Static = true
			}
		}
		if isAttribute(child) {
			b.annotations(child, node)
		}
	}
	for i := 0; i < int(declarator.ChildCount()); i++ {
		child := declarator.Child(i)
		if child.Type() == "virtual_specifier" {
			// override and final only apply to virtual functions
			node.Virtual = true
		}
		if isAttribute(child) {
			b.annotations(child, node)
		}
	}

	if pureVirtual(n, b.src) {
		node.PureVirtual = true
		node.Virtual = true
	}
	return node
}

func (b *builder) annotations(n *sitter.Node, parent *ast.Node) {
	for _, name := range annotationNames(b.text(n)) {
		parent.Add(&ast.Node{Kind: ast.KindAnnotation, Name: name, Line: line(n)})
	}
}

func (b *builder) collectErrors(n *sitter.Node) {
	if len(b.diagnostics) >= maxDiagnostics {
		return
	}
	if n.IsError() || n.IsMissing() {
		msg := "syntax error near " + fmt.Sprintf("%q", firstLine(b.text(n)))
		if n.IsMissing() {
			msg = "missing " + n.Type()
		}
		b.diagnostics = append(b.diagnostics, frontend.Diagnostic{
			Severity: frontend.SeverityError,
			Message:  msg,
			File:     b.path,
			Line:     line(n),
			Column:   int(n.StartPoint().Column) + 1,
		})
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if child := n.Child(i); child.HasError() || child.IsMissing() {
			b.collectErrors(child)
		}
	}
}

// functionDeclarator unwraps pointer and reference declarators down to the
// function declarator, if any.
func functionDeclarator(n *sitter.Node) *sitter.Node {
	for n != nil {
		switch n.Type() {
		case "function_declarator":
			return n
		case "pointer_declarator", "reference_declarator", "parenthesized_declarator":
			inner := n.ChildByFieldName("declarator")
			if inner == nil && n.NamedChildCount() > 0 {
				inner = n.NamedChild(int(n.NamedChildCount()) - 1)
			}
			n = inner
		default:
			return nil
		}
	}
	return nil
}

// pureVirtual reports a "= 0" initializer, spelled pure_virtual_clause by
// current grammars and default_value by older ones.
func pureVirtual(n *sitter.Node, src []byte) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == "pure_virtual_clause" {
			return true
		}
	}
	def := n.ChildByFieldName("default_value")
	return def != nil && def.Content(src) == "0"
}

func isAttribute(n *sitter.Node) bool {
	switch n.Type() {
	case "attribute_specifier", "attribute_declaration", "ms_declspec_modifier":
		return true
	}
	return false
}

func parseAccess(text string) ast.Access {
	switch {
	case strings.Contains(text, "public"):
		return ast.AccessPublic
	case strings.Contains(text, "protected"):
		return ast.AccessProtected
	default:
		return ast.AccessPrivate
	}
}

// lastSegment strips namespace qualifiers and template arguments.
func lastSegment(name string) string {
	if i := strings.Index(name, "<"); i >= 0 {
		name = name[:i]
	}
	if i := strings.LastIndex(name, "::"); i >= 0 {
		name = name[i+2:]
	}
	return strings.TrimSpace(name)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
