package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClang creates a directory holding an empty libclang file.
func fakeClang(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultLibClang()), nil, 0644))
	return dir
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "P", cfg.Prefix)
	assert.Equal(t, "output", cfg.OutputDir)
	assert.Equal(t, ".cpp", cfg.Extension)
	assert.Equal(t, FrontendClang, cfg.Frontend)
	assert.True(t, cfg.PublicOnly)
	assert.Contains(t, cfg.ClangArgs, "-D__BINDING_GENERATOR__")
}

func TestLoad_KeyValueFile(t *testing.T) {
	clang := fakeClang(t)
	path := writeConfig(t, "cppbind.cfg", `
# binding generator settings
CLANG_PATH = `+clang+`
PREFIX=X
OUTPUT_DIR = generated
HEADER_EXTENSIONS = .h, .hpp
PUBLIC_ONLY = false
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "X", cfg.Prefix)
	assert.Equal(t, "generated", cfg.OutputDir)
	assert.Equal(t, clang, cfg.ClangPath)
	assert.Equal(t, []string{".h", ".hpp"}, cfg.HeaderExtensions)
	assert.False(t, cfg.PublicOnly)
	assert.Equal(t, ".cpp", cfg.Extension)
	assert.Equal(t, path, cfg.Source)
}

func TestLoad_YAMLAndTOMLMatchKeyValue(t *testing.T) {
	t.Setenv(ClangPathEnv, "")

	cfgFile := writeConfig(t, "a.cfg", "FRONTEND = treesitter\nPREFIX = Q\nINCLUDE_STRUCTS = true\n")
	yamlFile := writeConfig(t, "a.yaml", "frontend: treesitter\nprefix: Q\ninclude_structs: true\n")
	tomlFile := writeConfig(t, "a.toml", "frontend = \"treesitter\"\nprefix = \"Q\"\ninclude_structs = true\n")

	var loaded []*Config
	for _, p := range []string{cfgFile, yamlFile, tomlFile} {
		cfg, err := Load(p)
		require.NoError(t, err, p)
		cfg.Source = ""
		loaded = append(loaded, cfg)
	}

	assert.Equal(t, loaded[0], loaded[1])
	assert.Equal(t, loaded[0], loaded[2])
	assert.True(t, loaded[0].IncludeStructs)
}

func TestLoad_ShorterListsReplaceDefaults(t *testing.T) {
	t.Setenv(ClangPathEnv, "")
	cfgFile := writeConfig(t, "short.cfg", "FRONTEND = treesitter\nHEADER_EXTENSIONS = .hpp\nEXCLUDE = vendor\nCLANG_ARGS = -std=c++17\n")
	yamlFile := writeConfig(t, "short.yaml", "frontend: treesitter\nheader_extensions: [.hpp]\nexclude: [vendor]\nclang_args: [-std=c++17]\n")

	cfg, err := Load(cfgFile)
	require.NoError(t, err)
	assert.Equal(t, []string{".hpp"}, cfg.HeaderExtensions)
	assert.Equal(t, []string{"vendor"}, cfg.Exclude)
	assert.Equal(t, []string{"-std=c++17"}, cfg.ClangArgs)
	assert.False(t, cfg.IsHeader("a.h"))

	fromYAML, err := Load(yamlFile)
	require.NoError(t, err)
	cfg.Source, fromYAML.Source = "", ""
	assert.Equal(t, fromYAML, cfg)
}

func TestLoad_MissingClangPath(t *testing.T) {
	t.Setenv(ClangPathEnv, "")
	path := writeConfig(t, "cppbind.cfg", "PREFIX = P\n")

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrMissingCompilerLibrary)
}

func TestLoad_CompilerLibraryNotFound(t *testing.T) {
	t.Setenv(ClangPathEnv, t.TempDir())
	path := writeConfig(t, "cppbind.cfg", "PREFIX = P\n")

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrCompilerLibraryNotFound)
}

func TestLoad_ClangPathFromEnvironment(t *testing.T) {
	clang := fakeClang(t)
	t.Setenv(ClangPathEnv, clang)
	path := writeConfig(t, "cppbind.cfg", "PREFIX = P\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, clang, cfg.ClangPath)

	lib, err := cfg.CompilerLibrary()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(clang, DefaultLibClang()), lib)
}

func TestLoad_OverridesWinOverFile(t *testing.T) {
	t.Setenv(ClangPathEnv, "")
	path := writeConfig(t, "cppbind.cfg", "FRONTEND = treesitter\nPREFIX = File\n")

	cfg, err := Load(path, func(c *Config) { c.Prefix = "Flag" })
	require.NoError(t, err)
	assert.Equal(t, "Flag", cfg.Prefix)
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.cfg"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown frontend", func(c *Config) { c.Frontend = "gcc" }},
		{"extension without dot", func(c *Config) { c.Extension = "cpp" }},
		{"prefix with separator", func(c *Config) { c.Prefix = "a/b" }},
		{"empty output dir", func(c *Config) { c.OutputDir = "" }},
		{"no header extensions", func(c *Config) { c.HeaderExtensions = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Frontend = FrontendTreeSitter
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestIsHeader(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.IsHeader("juce_Button.h"))
	assert.True(t, cfg.IsHeader("widget.HPP"))
	assert.False(t, cfg.IsHeader("widget.cpp"))
	assert.False(t, cfg.IsHeader("README"))
}

func TestWriteRoundTrip(t *testing.T) {
	t.Setenv(ClangPathEnv, "")
	cfg := Default()
	cfg.Frontend = FrontendTreeSitter
	cfg.Prefix = "B"
	cfg.Strict = true

	path := filepath.Join(t.TempDir(), "cppbind.cfg")
	require.NoError(t, cfg.Write(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	loaded.Source = ""
	assert.Equal(t, cfg, loaded)
}
