package walker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tristendillon/cppbind/core/config"
	"github.com/tristendillon/cppbind/core/models"
)

func touch(t *testing.T, root string, rel ...string) {
	t.Helper()
	for _, r := range rel {
		path := filepath.Join(root, filepath.FromSlash(r))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("#pragma once\n"), 0644))
	}
}

func relPaths(headers []models.DiscoveredHeader) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = h.RelPath
	}
	return out
}

func TestWalk_DiscoversHeadersInLexicalOrder(t *testing.T) {
	root := t.TempDir()
	touch(t, root,
		"juce_TextButton.h",
		"buttons/juce_ArrowButton.h",
		"buttons/juce_Button.hpp",
		"juce_TextButton.cpp",
		"README.md",
		"widgets/deep/Slider.hh",
	)

	w := NewHeaderWalker(config.Default())
	headers, err := w.Walk(root)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"buttons/juce_ArrowButton.h",
		"buttons/juce_Button.hpp",
		"juce_TextButton.h",
		"widgets/deep/Slider.hh",
	}, relPaths(headers))

	assert.Equal(t, filepath.Join(root, "buttons"), headers[0].Dir)
	assert.Equal(t, "juce_ArrowButton.h", headers[0].Name)
}

func TestWalk_EachHeaderOnce(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "a/x.h", "a/b/y.h", "a/b/c/z.h")

	headers, err := NewHeaderWalker(config.Default()).Walk(root)
	require.NoError(t, err)
	assert.Len(t, headers, 3)
}

func TestWalk_Excludes(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "src/a.h", ".git/b.h", "output/P_src_a.h", "third_party/c.h")

	cfg := config.Default()
	cfg.Exclude = append(cfg.Exclude, "third_party")
	cfg.OutputDir = filepath.Join(root, "output")

	headers, err := NewHeaderWalker(cfg).Walk(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.h"}, relPaths(headers))
}

func TestWalk_SingleFile(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "a/b/b.h")
	file := filepath.Join(root, "a", "b", "b.h")

	headers, err := NewHeaderWalker(config.Default()).Walk(file)
	require.NoError(t, err)
	require.Len(t, headers, 1)
	assert.Equal(t, file, headers[0].Path)
	assert.Equal(t, filepath.Join(root, "a", "b"), headers[0].Dir)
	assert.Equal(t, "b.h", headers[0].RelPath)
}

func TestWalk_MissingRoot(t *testing.T) {
	_, err := NewHeaderWalker(config.Default()).Walk(filepath.Join(t.TempDir(), "missing"))
	assert.True(t, os.IsNotExist(err))
}

func TestWalk_EmptyDirectory(t *testing.T) {
	headers, err := NewHeaderWalker(config.Default()).Walk(t.TempDir())
	require.NoError(t, err)
	assert.NotNil(t, headers)
	assert.Empty(t, headers)
}

func TestWalk_OutputDirMatchedByPathOnly(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "audio/Mixer.h", "audio/build/BuildInfo.h", "audio/output/AudioOutput.h")

	headers, err := NewHeaderWalker(config.Default()).Walk(root)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"audio/Mixer.h",
		"audio/build/BuildInfo.h",
		"audio/output/AudioOutput.h",
	}, relPaths(headers))

	cfg := config.Default()
	cfg.OutputDir = filepath.Join(root, "audio", "output")
	headers, err = NewHeaderWalker(cfg).Walk(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"audio/Mixer.h", "audio/build/BuildInfo.h"}, relPaths(headers))
}

func TestWalk_RelativeOutputDir(t *testing.T) {
	root := t.TempDir()
	chdir(t, root)
	touch(t, root, "output/P_stale.h", "src/output/Sink.h")

	headers, err := NewHeaderWalker(config.Default()).Walk(".")
	require.NoError(t, err)
	assert.Equal(t, []string{"src/output/Sink.h"}, relPaths(headers))
}

// chdir changes the working directory for the duration of the test
// (equivalent to testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
