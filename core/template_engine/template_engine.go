package template_engine

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"text/template"

	"github.com/iancoleman/strcase"
	"github.com/tristendillon/cppbind/core/logger"
)

const (
	ExportFileTemplate   = "exportfile.tmpl"
	ExportModuleTemplate = "exportmodule.tmpl"

	DefaultBindingType = "boost_python"
)

var ErrMissingTemplate = errors.New("template not found")

// annotated is satisfied by extracted classes and methods.
type annotated interface {
	HasAnnotation(name string) bool
}

func getDefaultFuncMap() template.FuncMap {
	return template.FuncMap{
		"upper":      strings.ToUpper,
		"lower":      strings.ToLower,
		"title":      toTitle,
		"snake":      strcase.ToSnake,
		"camel":      strcase.ToCamel,
		"lowerCamel": strcase.ToLowerCamel,
		"trim":       strings.TrimSpace,
		"replace":    strings.ReplaceAll,
		"contains":   strings.Contains,
		"hasPrefix":  strings.HasPrefix,
		"hasSuffix":  strings.HasSuffix,
		"split":      strings.Split,
		"join":       strings.Join,

		"hasAnnotation": func(v annotated, name string) bool { return v.HasAnnotation(name) },

		"default": func(def, val interface{}) interface{} {
			if val == nil || val == "" {
				return def
			}
			return val
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },

		"first": func(v interface{}) interface{} {
			rv := reflect.ValueOf(v)
			if rv.Kind() == reflect.Slice && rv.Len() > 0 {
				return rv.Index(0).Interface()
			}
			return nil
		},
		"last": func(v interface{}) interface{} {
			rv := reflect.ValueOf(v)
			if rv.Kind() == reflect.Slice && rv.Len() > 0 {
				return rv.Index(rv.Len() - 1).Interface()
			}
			return nil
		},
	}
}

func toTitle(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

type TemplateEngine struct {
	funcMap template.FuncMap
}

func NewTemplateEngine() *TemplateEngine {
	return &TemplateEngine{
		funcMap: getDefaultFuncMap(),
	}
}

// TemplateSet is a parsed binding type: one template per header and one for
// the module manifest.
type TemplateSet struct {
	Name         string
	Source       string // directory on disk, or "builtin"
	ExportFile   *template.Template
	ExportModule *template.Template
}

// LoadBindingType resolves nameOrDir to a template set. It is tried as a
// directory on disk, then as a directory under templateDir, then as a
// built-in binding type. An empty name selects the default built-in type.
func (te *TemplateEngine) LoadBindingType(nameOrDir, templateDir string) (*TemplateSet, error) {
	if nameOrDir == "" {
		nameOrDir = DefaultBindingType
	}

	candidates := []string{nameOrDir}
	if templateDir != "" && !filepath.IsAbs(nameOrDir) {
		candidates = append(candidates, filepath.Join(templateDir, nameOrDir))
	}
	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			logger.Debug("Loading templates from %s", dir)
			return te.load(filepath.Base(dir), dir, os.DirFS(dir))
		}
	}

	builtin, err := fs.Sub(TemplateFS, "templates/"+nameOrDir)
	if err == nil {
		if _, statErr := fs.Stat(builtin, ExportFileTemplate); statErr == nil {
			logger.Debug("Using built-in binding type %s", nameOrDir)
			return te.load(nameOrDir, "builtin", builtin)
		}
	}

	return nil, fmt.Errorf("%w: %q is neither a template directory nor a built-in binding type (have %s)",
		ErrMissingTemplate, nameOrDir, strings.Join(builtinNames(), ", "))
}

func (te *TemplateEngine) load(name, source string, fsys fs.FS) (*TemplateSet, error) {
	exportFile, err := te.parse(fsys, source, ExportFileTemplate)
	if err != nil {
		return nil, err
	}
	exportModule, err := te.parse(fsys, source, ExportModuleTemplate)
	if err != nil {
		return nil, err
	}
	return &TemplateSet{
		Name:         name,
		Source:       source,
		ExportFile:   exportFile,
		ExportModule: exportModule,
	}, nil
}

func (te *TemplateEngine) parse(fsys fs.FS, source, name string) (*template.Template, error) {
	content, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s/%s", ErrMissingTemplate, source, name)
	}

	tmpl, err := template.New(name).Funcs(te.funcMap).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s/%s: %w", source, name, err)
	}
	return tmpl, nil
}

// Render executes tmpl fully in memory.
func Render(tmpl *template.Template, data interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template %s: %w", tmpl.Name(), err)
	}
	return buf.Bytes(), nil
}

// GenerateFile renders tmpl and writes the result to outputPath. Nothing is
// written when rendering fails.
func GenerateFile(tmpl *template.Template, outputPath string, data interface{}) error {
	content, err := Render(tmpl, data)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outputPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", outputPath, err)
	}
	return nil
}

// ListBindingTypes returns the names of the built-in binding types.
func ListBindingTypes() ([]string, error) {
	entries, err := fs.ReadDir(TemplateFS, "templates")
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

func builtinNames() []string {
	names, err := ListBindingTypes()
	if err != nil {
		return nil
	}
	return names
}

// GenerateFolder copies the templates of a built-in binding type into
// outputDir unrendered, so they can be customised.
func GenerateFolder(bindingType, outputDir string) error {
	templateDir := "templates/" + bindingType
	if _, err := fs.Stat(TemplateFS, templateDir); err != nil {
		return fmt.Errorf("%w: built-in binding type %q", ErrMissingTemplate, bindingType)
	}
	logger.Debug("Generating folder from built-in binding type: %s", bindingType)

	return fs.WalkDir(TemplateFS, templateDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath := strings.TrimPrefix(strings.TrimPrefix(path, templateDir), "/")
		outputPath := filepath.Join(outputDir, filepath.FromSlash(relPath))

		if d.IsDir() {
			return os.MkdirAll(outputPath, os.ModePerm)
		}

		content, err := TemplateFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", path, err)
		}
		logger.Debug("Writing template: %s", outputPath)
		return os.WriteFile(outputPath, content, 0644)
	})
}
