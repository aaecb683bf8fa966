// Package libclang implements frontend.Parser with the libclang C API. It
// sees exactly what the compiler sees: macros are expanded, includes are
// resolved and annotate attributes are reported as attribute cursors.
package libclang

import (
	"fmt"

	"github.com/go-clang/clang-v15/clang"
	"github.com/tristendillon/cppbind/core/ast"
	"github.com/tristendillon/cppbind/core/config"
	"github.com/tristendillon/cppbind/core/frontend"
	"github.com/tristendillon/cppbind/core/logger"
)

type Parser struct {
	index        clang.Index
	args         []string
	mainFileOnly bool
}

// New checks that the configured compiler library exists and creates the
// index shared by every Parse call.
func New(cfg *config.Config) (*Parser, error) {
	lib, err := cfg.CompilerLibrary()
	if err != nil {
		return nil, err
	}
	logger.Debug("Using compiler library %s", lib)

	return &Parser{
		index:        clang.NewIndex(0, 0),
		args:         append([]string{}, cfg.ClangArgs...),
		mainFileOnly: cfg.MainFileOnly,
	}, nil
}

func (p *Parser) Parse(path string) (*frontend.Unit, error) {
	var tu clang.TranslationUnit
	if code := p.index.ParseTranslationUnit2(path, p.args, nil, 0, &tu); code != clang.Error_Success {
		return nil, fmt.Errorf("%w %s: libclang error code %d", frontend.ErrParse, path, code)
	}
	defer tu.Dispose()

	unit := &frontend.Unit{
		Path:        path,
		Root:        &ast.Node{Kind: ast.KindTranslationUnit, Name: path},
		Diagnostics: diagnostics(tu),
	}
	p.children(tu.TranslationUnitCursor(), unit.Root)
	return unit, nil
}

func (p *Parser) Close() error {
	p.index.Dispose()
	return nil
}

func (p *Parser) children(cursor clang.Cursor, parent *ast.Node) {
	cursor.Visit(func(c, _ clang.Cursor) clang.ChildVisitResult {
		if p.mainFileOnly && !c.Location().IsFromMainFile() {
			return clang.ChildVisit_Continue
		}

		node := convert(c)
		if node == nil {
			return clang.ChildVisit_Continue
		}
		parent.Add(node)

		switch node.Kind {
		case ast.KindNamespace, ast.KindClass, ast.KindStruct,
			ast.KindMethod, ast.KindConstructor, ast.KindDestructor:
			p.children(c, node)
		}
		return clang.ChildVisit_Continue
	})
}

func convert(c clang.Cursor) *ast.Node {
	_, line, _, _ := c.Location().FileLocation()
	node := &ast.Node{Name: c.Spelling(), Line: int(line)}

	switch c.Kind() {
	case clang.Cursor_Namespace:
		node.Kind = ast.KindNamespace
	case clang.Cursor_ClassDecl:
		node.Kind = ast.KindClass
		node.Definition = c.IsCursorDefinition()
	case clang.Cursor_StructDecl:
		node.Kind = ast.KindStruct
		node.Definition = c.IsCursorDefinition()
	case clang.Cursor_CXXMethod:
		node.Kind = ast.KindMethod
		node.Access = access(c.AccessSpecifier())
		node.Virtual = c.CXXMethod_IsVirtual()
		node.PureVirtual = c.CXXMethod_IsPureVirtual()
		node.Static = c.CXXMethod_IsStatic()
	case clang.Cursor_Constructor:
		node.Kind = ast.KindConstructor
		node.Access = access(c.AccessSpecifier())
	case clang.Cursor_Destructor:
		node.Kind = ast.KindDestructor
		node.Access = access(c.AccessSpecifier())
	case clang.Cursor_AnnotateAttr:
		node.Kind = ast.KindAnnotation
		node.Name = c.DisplayName()
	default:
		return nil
	}
	return node
}

func access(a clang.AccessSpecifier) ast.Access {
	switch a {
	case clang.AccessSpecifier_Public:
		return ast.AccessPublic
	case clang.AccessSpecifier_Protected:
		return ast.AccessProtected
	case clang.AccessSpecifier_Private:
		return ast.AccessPrivate
	default:
		return ast.AccessInvalid
	}
}

func diagnostics(tu clang.TranslationUnit) []frontend.Diagnostic {
	var out []frontend.Diagnostic
	for i := uint32(0); i < tu.NumDiagnostics(); i++ {
		d := tu.Diagnostic(i)
		file, line, column, _ := d.Location().FileLocation()
		out = append(out, frontend.Diagnostic{
			Severity: severity(d.Severity()),
			Message:  d.Spelling(),
			File:     file.Name(),
			Line:     int(line),
			Column:   int(column),
		})
		d.Dispose()
	}
	return out
}

func severity(s clang.DiagnosticSeverity) frontend.Severity {
	switch s {
	case clang.Diagnostic_Fatal:
		return frontend.SeverityFatal
	case clang.Diagnostic_Error:
		return frontend.SeverityError
	case clang.Diagnostic_Warning:
		return frontend.SeverityWarning
	default:
		return frontend.SeverityNote
	}
}
