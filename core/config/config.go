package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/tristendillon/cppbind/core/logger"
	"gopkg.in/yaml.v3"
)

const (
	ClangPathEnv = "CLANG_PATH"

	FrontendClang      = "clang"
	FrontendTreeSitter = "treesitter"
)

var (
	ErrMissingCompilerLibrary  = errors.New("compiler library location is not defined")
	ErrCompilerLibraryNotFound = errors.New("compiler library not found")
	ErrInvalidConfig           = errors.New("invalid configuration")
)

// ConfigFileNames are looked up in the working directory when no explicit
// config path is given.
var ConfigFileNames = []string{"cppbind.cfg", "cppbind.yaml", "cppbind.yml", "cppbind.toml"}

type Config struct {
	ClangPath        string   `mapstructure:"CLANG_PATH" yaml:"clang_path" toml:"clang_path"`
	LibClang         string   `mapstructure:"LIBCLANG" yaml:"libclang" toml:"libclang"`
	Prefix           string   `mapstructure:"PREFIX" yaml:"prefix" toml:"prefix"`
	OutputDir        string   `mapstructure:"OUTPUT_DIR" yaml:"output_dir" toml:"output_dir"`
	Extension        string   `mapstructure:"EXTENSION" yaml:"extension" toml:"extension"`
	HeaderExtensions []string `mapstructure:"HEADER_EXTENSIONS" yaml:"header_extensions" toml:"header_extensions"`
	Frontend         string   `mapstructure:"FRONTEND" yaml:"frontend" toml:"frontend"`
	ClangArgs        []string `mapstructure:"CLANG_ARGS" yaml:"clang_args" toml:"clang_args"`
	PublicOnly       bool     `mapstructure:"PUBLIC_ONLY" yaml:"public_only" toml:"public_only"`
	IncludeStructs   bool     `mapstructure:"INCLUDE_STRUCTS" yaml:"include_structs" toml:"include_structs"`
	MainFileOnly     bool     `mapstructure:"MAIN_FILE_ONLY" yaml:"main_file_only" toml:"main_file_only"`
	Strict           bool     `mapstructure:"STRICT" yaml:"strict" toml:"strict"`
	TemplateDir      string   `mapstructure:"TEMPLATE_DIR" yaml:"template_dir" toml:"template_dir"`
	Exclude          []string `mapstructure:"EXCLUDE" yaml:"exclude" toml:"exclude"`

	// Path of the file the values were read from, empty for defaults.
	Source string `mapstructure:"-" yaml:"-" toml:"-"`
}

func Default() *Config {
	return &Config{
		LibClang:         DefaultLibClang(),
		Prefix:           "P",
		OutputDir:        "output",
		Extension:        ".cpp",
		HeaderExtensions: []string{".h", ".hh", ".hpp", ".hxx"},
		Frontend:         FrontendClang,
		ClangArgs:        []string{"-x", "c++", "-std=c++11", "-D__BINDING_GENERATOR__"},
		PublicOnly:       true,
		MainFileOnly:     true,
		TemplateDir:      "templates",
		Exclude:          []string{".git"},
	}
}

func DefaultLibClang() string {
	switch runtime.GOOS {
	case "windows":
		return "libclang.dll"
	case "darwin":
		return "libclang.dylib"
	default:
		return "libclang.so"
	}
}

// Override adjusts a loaded configuration before it is validated, used for
// command-line flags.
type Override func(*Config)

// Load builds the configuration from defaults, the CLANG_PATH environment
// variable, the first config file found and the overrides, then validates
// it. An explicit path that does not exist is an error; a missing default
// file is not.
func Load(path string, overrides ...Override) (*Config, error) {
	cfg := Default()
	if env := os.Getenv(ClangPathEnv); env != "" {
		cfg.ClangPath = env
	}

	filePath, err := findConfigFile(path)
	if err != nil {
		return nil, err
	}

	if filePath == "" {
		logger.Debug("No config file found, using default config")
	} else {
		if err := cfg.loadFile(filePath); err != nil {
			return nil, err
		}
		logger.Debug("Config file found: %s", filePath)
	}

	for _, override := range overrides {
		override(cfg)
	}
	logger.Debug("Config: %+v", *cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findConfigFile(path string) (string, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("config file %s: %w", path, err)
		}
		return path, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("cannot determine working dir: %w", err)
	}

	for _, name := range ConfigFileNames {
		p := filepath.Join(wd, name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse yaml %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), c); err != nil {
			return fmt.Errorf("failed to parse toml %s: %w", path, err)
		}
	default:
		if err := c.decodeKeyValues(data); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	c.Source = path
	return nil
}

// decodeKeyValues reads plain "key = value" lines. Keys are matched case
// insensitively; list values are comma separated.
func (c *Config) decodeKeyValues(data []byte) error {
	values, err := godotenv.Parse(bytes.NewReader(data))
	if err != nil {
		return err
	}

	normalized := make(map[string]string, len(values))
	for k, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		normalized[strings.ToUpper(strings.TrimSpace(k))] = v
	}

	// ZeroFields makes a list from the file replace the default list
	// instead of overwriting its leading elements.
	var meta mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		WeaklyTypedInput: true,
		ZeroFields:       true,
		Metadata:         &meta,
		Result:           c,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(normalized); err != nil {
		return err
	}

	for _, key := range meta.Unused {
		logger.Warn("Unknown config key %q ignored", key)
	}

	for i, v := range c.HeaderExtensions {
		c.HeaderExtensions[i] = strings.TrimSpace(v)
	}
	for i, v := range c.Exclude {
		c.Exclude[i] = strings.TrimSpace(v)
	}
	return nil
}

// Validate checks the option values. The compiler library is only required
// by the clang front-end.
func (c *Config) Validate() error {
	switch c.Frontend {
	case FrontendClang, FrontendTreeSitter:
	default:
		return fmt.Errorf("%w: unknown frontend %q (want %s or %s)", ErrInvalidConfig, c.Frontend, FrontendClang, FrontendTreeSitter)
	}

	if !strings.HasPrefix(c.Extension, ".") {
		return fmt.Errorf("%w: extension %q must start with a dot", ErrInvalidConfig, c.Extension)
	}
	if strings.ContainsAny(c.Prefix, `/\`) {
		return fmt.Errorf("%w: prefix %q must not contain path separators", ErrInvalidConfig, c.Prefix)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("%w: output directory is empty", ErrInvalidConfig)
	}
	if len(c.HeaderExtensions) == 0 {
		return fmt.Errorf("%w: no header extensions configured", ErrInvalidConfig)
	}

	if c.Frontend == FrontendClang {
		if _, err := c.CompilerLibrary(); err != nil {
			return err
		}
	}
	return nil
}

// CompilerLibrary returns the full path of the libclang shared library.
func (c *Config) CompilerLibrary() (string, error) {
	if c.ClangPath == "" {
		return "", fmt.Errorf("%w: %s is not set; point it at the directory holding %s", ErrMissingCompilerLibrary, ClangPathEnv, c.LibClang)
	}

	lib := filepath.Join(c.ClangPath, c.LibClang)
	if _, err := os.Stat(lib); err != nil {
		return "", fmt.Errorf("%w: %s", ErrCompilerLibraryNotFound, lib)
	}
	return lib, nil
}

// IsHeader reports whether name has one of the configured header extensions.
func (c *Config) IsHeader(name string) bool {
	ext := filepath.Ext(name)
	for _, e := range c.HeaderExtensions {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// Write stores the configuration as "key = value" lines.
func (c *Config) Write(path string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "CLANG_PATH = %s\n", c.ClangPath)
	fmt.Fprintf(&b, "LIBCLANG = %s\n", c.LibClang)
	fmt.Fprintf(&b, "PREFIX = %s\n", c.Prefix)
	fmt.Fprintf(&b, "OUTPUT_DIR = %s\n", c.OutputDir)
	fmt.Fprintf(&b, "EXTENSION = %s\n", c.Extension)
	fmt.Fprintf(&b, "HEADER_EXTENSIONS = %s\n", strings.Join(c.HeaderExtensions, ","))
	fmt.Fprintf(&b, "FRONTEND = %s\n", c.Frontend)
	fmt.Fprintf(&b, "CLANG_ARGS = %s\n", strings.Join(c.ClangArgs, ","))
	fmt.Fprintf(&b, "PUBLIC_ONLY = %t\n", c.PublicOnly)
	fmt.Fprintf(&b, "INCLUDE_STRUCTS = %t\n", c.IncludeStructs)
	fmt.Fprintf(&b, "MAIN_FILE_ONLY = %t\n", c.MainFileOnly)
	fmt.Fprintf(&b, "STRICT = %t\n", c.Strict)
	fmt.Fprintf(&b, "TEMPLATE_DIR = %s\n", c.TemplateDir)
	fmt.Fprintf(&b, "EXCLUDE = %s\n", strings.Join(c.Exclude, ","))

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}
