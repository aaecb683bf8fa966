package treesitter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tristendillon/cppbind/core/ast"
	"github.com/tristendillon/cppbind/core/frontend"
)

func parse(t *testing.T, src string) *frontend.Unit {
	t.Helper()
	p := New()
	t.Cleanup(func() { p.Close() })

	unit, err := p.ParseSource("test.h", []byte(src))
	require.NoError(t, err)
	return unit
}

func TestParse_PublicMethods(t *testing.T) {
	unit := parse(t, `
class Foo {
public:
    void bar();
private:
    void baz();
};
`)

	classes := ast.ExtractClasses(unit.Root, ast.DefaultExtractOptions())
	require.Len(t, classes, 1)
	assert.Equal(t, "Foo", classes[0].Name)
	require.Len(t, classes[0].Methods, 1)
	assert.Equal(t, "bar", classes[0].Methods[0].Name)
	assert.Empty(t, unit.Diagnostics)
}

func TestParse_DefaultAccess(t *testing.T) {
	unit := parse(t, `
class Hidden {
    void secret();
};

struct Open {
    void visible();
};
`)

	all := ast.ExtractClasses(unit.Root, ast.ExtractOptions{PublicOnly: true, IncludeStructs: true})
	require.Len(t, all, 2)
	assert.Empty(t, all[0].Methods)
	require.Len(t, all[1].Methods, 1)
	assert.Equal(t, "visible", all[1].Methods[0].Name)
	assert.True(t, all[1].IsStruct)

	classesOnly := ast.ExtractClasses(unit.Root, ast.DefaultExtractOptions())
	require.Len(t, classesOnly, 1)
	assert.Equal(t, "Hidden", classesOnly[0].Name)
}

func TestParse_Namespaces(t *testing.T) {
	unit := parse(t, `
namespace juce {
class Button {
public:
    void click();
};

namespace detail {
class Impl {};
}
}

class Outer {};
`)

	classes := ast.ExtractClasses(unit.Root, ast.DefaultExtractOptions())
	require.Len(t, classes, 3)
	assert.Equal(t, "juce::Button", classes[0].QualifiedName)
	assert.Equal(t, "juce::detail::Impl", classes[1].QualifiedName)
	assert.Equal(t, "Outer", classes[2].QualifiedName)
}

func TestParse_MethodKinds(t *testing.T) {
	unit := parse(t, `
class Shape {
public:
    Shape();
    virtual ~Shape();
    virtual double area() const = 0;
    virtual void draw();
    static Shape* create();
    int sides() const { return 0; }
};
`)

	classes := ast.ExtractClasses(unit.Root, ast.DefaultExtractOptions())
	require.Len(t, classes, 1)

	methods := classes[0].Methods
	require.Len(t, methods, 4)
	assert.Equal(t, "area", methods[0].Name)
	assert.True(t, methods[0].IsPureVirtual)
	assert.True(t, methods[0].IsVirtual)
	assert.Equal(t, "draw", methods[1].Name)
	assert.True(t, methods[1].IsVirtual)
	assert.False(t, methods[1].IsPureVirtual)
	assert.Equal(t, "create", methods[2].Name)
	assert.True(t, methods[2].IsStatic)
	assert.Equal(t, "sides", methods[3].Name)
}

func TestParse_OverrideAndFinalAreVirtual(t *testing.T) {
	unit := parse(t, `
class Circle : public Shape {
public:
    double area() const override;
    void paint(Graphics& g) final;
    void resize();
};
`)

	classes := ast.ExtractClasses(unit.Root, ast.DefaultExtractOptions())
	require.Len(t, classes, 1)
	methods := classes[0].Methods
	require.Len(t, methods, 3)
	assert.True(t, methods[0].IsVirtual)
	assert.False(t, methods[0].IsPureVirtual)
	assert.True(t, methods[1].IsVirtual)
	assert.False(t, methods[2].IsVirtual)
}

func TestParse_ExportMarkerBeforeClassName(t *testing.T) {
	unit := parse(t, `
namespace juce {
class JUCE_API ArrowButton : public Button {
public:
    ArrowButton(const String& buttonName, float arrowDirection, Colour arrowColour);
    void paintButton(Graphics& g, bool shouldDrawButtonAsHighlighted, bool shouldDrawButtonAsDown) override;
};
}
`)

	assert.Empty(t, unit.Diagnostics)
	classes := ast.ExtractClasses(unit.Root, ast.DefaultExtractOptions())
	require.Len(t, classes, 1)
	assert.Equal(t, "ArrowButton", classes[0].Name)
	assert.Equal(t, "juce::ArrowButton", classes[0].QualifiedName)
	require.Len(t, classes[0].Methods, 1)
	assert.Equal(t, "paintButton", classes[0].Methods[0].Name)
	assert.True(t, classes[0].Methods[0].IsVirtual)
}

func TestParse_DefinesApplied(t *testing.T) {
	p := New("EXPORTED=__attribute__((annotate(\"exported\")))")
	t.Cleanup(func() { p.Close() })

	unit, err := p.ParseSource("test.h", []byte(`
class Widget {
public:
    void show() EXPORTED;
};
`))
	require.NoError(t, err)

	classes := ast.ExtractClasses(unit.Root, ast.DefaultExtractOptions())
	require.Len(t, classes, 1)
	require.Len(t, classes[0].Methods, 1)
	assert.Equal(t, []string{"exported"}, classes[0].Methods[0].Annotations)
}

func TestParse_ForwardDeclarationSkipped(t *testing.T) {
	unit := parse(t, `
class Later;
class Now {};
`)

	classes := ast.ExtractClasses(unit.Root, ast.DefaultExtractOptions())
	require.Len(t, classes, 1)
	assert.Equal(t, "Now", classes[0].Name)
}

func TestParse_MethodAnnotationMacro(t *testing.T) {
	unit := parse(t, `
#define HIDDEN __attribute__((annotate("hidden")))

class TextComponent {
public:
    void text();
    void superSecretFunction() HIDDEN;
};
`)

	classes := ast.ExtractClasses(unit.Root, ast.DefaultExtractOptions())
	require.Len(t, classes, 1)
	require.Len(t, classes[0].Methods, 2)
	assert.Empty(t, classes[0].Methods[0].Annotations)
	assert.Equal(t, []string{"hidden"}, classes[0].Methods[1].Annotations)
}

func TestParse_EmptyHeader(t *testing.T) {
	unit := parse(t, "#pragma once\n")
	assert.Empty(t, ast.ExtractClasses(unit.Root, ast.DefaultExtractOptions()))
	assert.Equal(t, ast.KindTranslationUnit, unit.Root.Kind)
}

func TestParse_SyntaxErrorsBecomeDiagnostics(t *testing.T) {
	unit := parse(t, "class Broken { public: void f( };\n")
	assert.True(t, unit.HasErrors())
	assert.ErrorIs(t, unit.Check(true), frontend.ErrParse)
}

func TestParse_FromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "juce_TextButton.h")
	require.NoError(t, os.WriteFile(path, []byte("class TextButton { public: void setText(); };\n"), 0644))

	p := New()
	defer p.Close()

	unit, err := p.Parse(path)
	require.NoError(t, err)
	assert.Equal(t, path, unit.Path)

	_, err = p.Parse(filepath.Join(t.TempDir(), "missing.h"))
	assert.ErrorIs(t, err, frontend.ErrParse)
}
