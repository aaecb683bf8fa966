package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tristendillon/cppbind/core/config"
	"github.com/tristendillon/cppbind/core/logger"
)

const DefaultDebounce = 500 * time.Millisecond

// FileWatcher regenerates bindings when headers under RootDir change.
// Events are debounced and runs of OnChange never overlap.
type FileWatcher struct {
	Watcher      *fsnotify.Watcher
	RootDir      string
	ExcludePaths []string // directory names
	OutputDir    string   // absolute
	Debounce     time.Duration

	// OnStart runs once before events are processed, OnChange after each
	// debounced burst of header events, OnHeaderEvent for every header event.
	OnStart       func() error
	OnChange      func() error
	OnHeaderEvent func(path string)

	isHeader      func(name string) bool
	file          string // set when RootDir is a single header
	timerMutex    sync.Mutex
	debounceTimer *time.Timer
	runMutex      sync.Mutex
}

func NewFileWatcher(rootDir string, cfg *config.Config) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	exclude := append([]string{}, cfg.Exclude...)
	var outputDir string
	if cfg.OutputDir != "" {
		if outputDir, err = filepath.Abs(cfg.OutputDir); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to resolve output dir: %w", err)
		}
	}
	logger.Debug("Excluding directories %v and %s", exclude, outputDir)

	var file string
	if info, err := os.Stat(rootDir); err == nil && !info.IsDir() {
		file = filepath.Clean(rootDir)
	}

	return &FileWatcher{
		Watcher:       watcher,
		RootDir:       rootDir,
		ExcludePaths:  exclude,
		OutputDir:     outputDir,
		Debounce:      DefaultDebounce,
		OnStart:       func() error { return nil },
		OnChange:      func() error { return fmt.Errorf("OnChange not set") },
		OnHeaderEvent: func(string) {},
		isHeader:      cfg.IsHeader,
		file:          file,
	}, nil
}

// Watch blocks until ctx is cancelled or the underlying watcher fails.
func (fw *FileWatcher) Watch(ctx context.Context) error {
	if err := fw.addWatchersRecursively(fw.RootDir); err != nil {
		return fmt.Errorf("failed to add watchers: %w", err)
	}

	if err := fw.run(fw.OnStart); err != nil {
		logger.Error("Initial generation failed: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			fw.handle(event)

		case err, ok := <-fw.Watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			logger.Error("Watcher error: %v", err)
		}
	}
}

func (fw *FileWatcher) handle(event fsnotify.Event) {
	if fw.shouldExcludePath(event.Name) {
		return
	}

	if event.Has(fsnotify.Create) {
		if stat, err := os.Stat(event.Name); err == nil && stat.IsDir() {
			logger.Debug("Adding watcher for new directory: %s", event.Name)
			if err := fw.addWatchersRecursively(event.Name); err != nil {
				logger.Warn("Failed to watch %s: %v", event.Name, err)
			}
			fw.debounceGenerate()
			return
		}
	}

	if !fw.isHeader(event.Name) || event.Op == fsnotify.Chmod {
		return
	}
	if fw.file != "" && filepath.Clean(event.Name) != fw.file {
		return
	}

	logger.Debug("File event: %s %s", event.Op, event.Name)
	fw.OnHeaderEvent(event.Name)
	fw.debounceGenerate()
}

func (fw *FileWatcher) debounceGenerate() {
	fw.timerMutex.Lock()
	defer fw.timerMutex.Unlock()

	if fw.debounceTimer != nil {
		fw.debounceTimer.Stop()
	}

	fw.debounceTimer = time.AfterFunc(fw.Debounce, func() {
		logger.Info("Header changes detected, regenerating...")
		if err := fw.run(fw.OnChange); err != nil {
			logger.Error("Regeneration failed: %v", err)
		}
	})
}

func (fw *FileWatcher) run(fn func() error) error {
	fw.runMutex.Lock()
	defer fw.runMutex.Unlock()
	return fn()
}

func (fw *FileWatcher) Close() error {
	fw.timerMutex.Lock()
	if fw.debounceTimer != nil {
		fw.debounceTimer.Stop()
	}
	fw.timerMutex.Unlock()

	// wait for a regeneration in flight
	fw.runMutex.Lock()
	defer fw.runMutex.Unlock()

	return fw.Watcher.Close()
}

// shouldExcludePath reports paths inside the output directory and paths
// with an excluded directory name below RootDir.
func (fw *FileWatcher) shouldExcludePath(path string) bool {
	if fw.OutputDir != "" {
		if absPath, err := filepath.Abs(path); err == nil {
			if absPath == fw.OutputDir || strings.HasPrefix(absPath, fw.OutputDir+string(filepath.Separator)) {
				return true
			}
		}
	}

	relPath, err := filepath.Rel(fw.RootDir, path)
	if err != nil {
		return false
	}

	parts := strings.Split(filepath.ToSlash(filepath.Clean(relPath)), "/")
	for _, part := range parts[:len(parts)-1] {
		for _, excludePath := range fw.ExcludePaths {
			if part == excludePath {
				return true
			}
		}
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		for _, excludePath := range fw.ExcludePaths {
			if parts[len(parts)-1] == excludePath {
				return true
			}
		}
	}

	return false
}

func (fw *FileWatcher) addWatchersRecursively(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		// a single header: watch its directory, events are filtered by name
		root = filepath.Dir(root)
		logger.Debug("Adding watcher for: %s", root)
		return fw.Watcher.Add(root)
	}

	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() {
			return nil
		}

		if path != fw.RootDir && fw.shouldExcludePath(path) {
			logger.Debug("Excluding directory: %s", path)
			return filepath.SkipDir
		}

		logger.Debug("Adding watcher for: %s", path)
		if err := fw.Watcher.Add(path); err != nil {
			return fmt.Errorf("failed to add watcher for %s: %w", path, err)
		}

		return nil
	})
}
