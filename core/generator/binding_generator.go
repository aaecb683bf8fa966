package generator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tristendillon/cppbind/core/ast"
	"github.com/tristendillon/cppbind/core/cache"
	"github.com/tristendillon/cppbind/core/config"
	"github.com/tristendillon/cppbind/core/frontend"
	"github.com/tristendillon/cppbind/core/logger"
	"github.com/tristendillon/cppbind/core/models"
	"github.com/tristendillon/cppbind/core/naming"
	"github.com/tristendillon/cppbind/core/template_engine"
	"github.com/tristendillon/cppbind/core/walker"
)

var ErrMissingInput = errors.New("input path does not exist")

// CheckInput fails with ErrMissingInput when inputPath does not exist.
func CheckInput(inputPath string) error {
	if _, err := os.Stat(inputPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrMissingInput, inputPath)
		}
		return fmt.Errorf("failed to stat input %s: %w", inputPath, err)
	}
	return nil
}

// ExportFileData is handed to the exportfile template of a binding type.
type ExportFileData struct {
	Classes      []models.ExtractedClass
	FunctionName string
	ModuleName   string
	Header       string
	IncludePath  string
}

// ExportModuleData is handed to the exportmodule template.
type ExportModuleData struct {
	ModuleName string
	Files      []models.BindingFile
}

type BindingGenerator struct {
	cfg       *config.Config
	parser    frontend.Parser
	templates *template_engine.TemplateSet
	Walker    walker.HeaderWalker
	cache     *cache.ParseCache
}

func NewBindingGenerator(cfg *config.Config, parser frontend.Parser, templates *template_engine.TemplateSet) *BindingGenerator {
	return &BindingGenerator{
		cfg:       cfg,
		parser:    parser,
		templates: templates,
		Walker:    walker.NewHeaderWalker(cfg),
	}
}

// WithCache makes the generator reuse extracted classes of unchanged
// headers between runs.
func (bg *BindingGenerator) WithCache(c *cache.ParseCache) *BindingGenerator {
	bg.cache = c
	return bg
}

// Generate binds every header under inputPath and writes the module
// manifest once all bindings are written.
func (bg *BindingGenerator) Generate(inputPath, moduleName string) (*models.ModuleManifest, error) {
	if err := CheckInput(inputPath); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(bg.cfg.OutputDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", bg.cfg.OutputDir, err)
	}

	headers, err := bg.Walker.Walk(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}
	logger.Debug("Discovered %d headers under %s", len(headers), inputPath)

	manifest := models.NewModuleManifest(moduleName)
	for _, header := range headers {
		file, err := bg.BindFile(header, moduleName)
		if err != nil {
			return nil, err
		}
		manifest.Add(*file)
	}

	if _, err := bg.WriteManifest(manifest); err != nil {
		return nil, err
	}

	if bg.cache != nil {
		bg.cache.LogStats()
	}
	return manifest, nil
}

// BindFile extracts the classes of one header and writes its binding file.
func (bg *BindingGenerator) BindFile(header models.DiscoveredHeader, moduleName string) (*models.BindingFile, error) {
	classes, err := bg.Extract(header.Path)
	if err != nil {
		return nil, err
	}

	outputName := naming.BindingFileName(bg.cfg.Prefix, header.Dir, header.Name, bg.cfg.Extension)
	file := &models.BindingFile{
		Header:     header.Path,
		RelPath:    header.RelPath,
		HeaderName: header.Name,
		OutputName: outputName,
		OutputPath: filepath.Join(bg.cfg.OutputDir, outputName),
		Symbol:     naming.ExportSymbol(header.Name),
		Classes:    len(classes),
	}

	data := ExportFileData{
		Classes:      classes,
		FunctionName: file.Symbol,
		ModuleName:   moduleName,
		Header:       header.Path,
		IncludePath:  bg.includePath(header.Path),
	}
	if err := template_engine.GenerateFile(bg.templates.ExportFile, file.OutputPath, data); err != nil {
		return nil, fmt.Errorf("failed to generate binding for %s: %w", header.Path, err)
	}

	logger.Info("Generated %s for %s (%d %s)", outputName, header.RelPath, len(classes), plural(len(classes)))
	return file, nil
}

// Extract returns the classes declared in the header at path, from the
// cache when the header is unchanged.
func (bg *BindingGenerator) Extract(path string) ([]models.ExtractedClass, error) {
	if bg.cache != nil {
		if classes, ok := bg.cache.ValidateAndGet(path); ok {
			return classes, nil
		}
	}

	unit, err := bg.parser.Parse(path)
	if err != nil {
		return nil, err
	}
	if err := unit.Check(bg.cfg.Strict); err != nil {
		return nil, err
	}

	classes := ast.ExtractClasses(unit.Root, ast.ExtractOptions{
		PublicOnly:     bg.cfg.PublicOnly,
		IncludeStructs: bg.cfg.IncludeStructs,
	})

	if bg.cache != nil {
		if err := bg.cache.Set(path, classes); err != nil {
			logger.Debug("Not caching %s: %v", path, err)
		}
	}
	return classes, nil
}

// WriteManifest renders the module manifest into the output directory and
// returns its path.
func (bg *BindingGenerator) WriteManifest(manifest *models.ModuleManifest) (string, error) {
	path := filepath.Join(bg.cfg.OutputDir, naming.ModuleFileName(manifest.ModuleName, bg.cfg.Extension))
	data := ExportModuleData{
		ModuleName: manifest.ModuleName,
		Files:      manifest.Files,
	}
	if err := template_engine.GenerateFile(bg.templates.ExportModule, path, data); err != nil {
		return "", fmt.Errorf("failed to generate module manifest: %w", err)
	}

	logger.Info("Generated module %s with %d bindings", path, manifest.Len())
	return path, nil
}

// includePath is the header path as seen from the output directory.
func (bg *BindingGenerator) includePath(header string) string {
	absHeader, err := filepath.Abs(header)
	if err != nil {
		return filepath.ToSlash(header)
	}
	absOut, err := filepath.Abs(bg.cfg.OutputDir)
	if err != nil {
		return filepath.ToSlash(header)
	}
	rel, err := filepath.Rel(absOut, absHeader)
	if err != nil {
		return filepath.ToSlash(header)
	}
	return filepath.ToSlash(rel)
}

func plural(n int) string {
	if n == 1 {
		return "class"
	}
	return "classes"
}
