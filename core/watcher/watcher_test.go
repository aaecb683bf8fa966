package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tristendillon/cppbind/core/config"
)

func newWatcher(t *testing.T, root string) *FileWatcher {
	t.Helper()
	cfg := config.Default()
	cfg.OutputDir = filepath.Join(root, "output")

	fw, err := NewFileWatcher(root, cfg)
	require.NoError(t, err)
	fw.Debounce = 20 * time.Millisecond
	return fw
}

func handle(fw *FileWatcher, path string) {
	fw.handle(fsnotify.Event{Name: path, Op: fsnotify.Write})
}

func TestWatch_RegeneratesOnHeaderChange(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "buttons"), 0755))

	fw := newWatcher(t, root)
	defer fw.Close()

	started := make(chan struct{})
	changed := make(chan struct{}, 10)
	var events atomic.Int32
	fw.OnStart = func() error { close(started); return nil }
	fw.OnChange = func() error { changed <- struct{}{}; return nil }
	fw.OnHeaderEvent = func(string) { events.Add(1) }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- fw.Watch(ctx) }()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("OnStart was not called")
	}

	require.NoError(t, os.WriteFile(filepath.Join(root, "buttons", "juce_Button.h"), []byte("class Button {};\n"), 0644))

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("OnChange was not called after a header write")
	}
	assert.Positive(t, events.Load())

	cancel()
	assert.NoError(t, <-done)
}

func TestHandle_IgnoresNonHeadersAndExcludedPaths(t *testing.T) {
	root := t.TempDir()
	fw := newWatcher(t, root)
	defer fw.Close()

	var events atomic.Int32
	fw.OnHeaderEvent = func(string) { events.Add(1) }
	fw.OnChange = func() error { return nil }

	handle(fw, filepath.Join(root, "notes.txt"))
	handle(fw, filepath.Join(root, "output", "P_a.h"))
	handle(fw, filepath.Join(root, ".git", "HEAD.h"))
	assert.Equal(t, int32(0), events.Load())

	handle(fw, filepath.Join(root, "a.h"))
	assert.Equal(t, int32(1), events.Load())
}

func TestShouldExcludePath(t *testing.T) {
	root := t.TempDir()
	fw := newWatcher(t, root)
	defer fw.Close()

	assert.True(t, fw.shouldExcludePath(filepath.Join(root, "output")))
	assert.True(t, fw.shouldExcludePath(filepath.Join(root, "output", "x.cpp")))
	assert.True(t, fw.shouldExcludePath(filepath.Join(root, ".git", "HEAD.h")))
	assert.True(t, fw.shouldExcludePath(filepath.Join(root, "src", ".git", "x.h")))
	assert.False(t, fw.shouldExcludePath(filepath.Join(root, "src", "a.h")))
	assert.False(t, fw.shouldExcludePath(filepath.Join(root, "build", "BuildInfo.h")))
	assert.False(t, fw.shouldExcludePath(filepath.Join(root, "audio", "output", "AudioOutput.h")))
}
