package walker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tristendillon/cppbind/core/config"
	"github.com/tristendillon/cppbind/core/logger"
	"github.com/tristendillon/cppbind/core/models"
)

type HeaderWalker interface {
	Walk(root string) ([]models.DiscoveredHeader, error)
}

// HeaderWalkerImpl skips directories whose name is listed in Exclude and
// the directory at OutputDir, an absolute path.
type HeaderWalkerImpl struct {
	Exclude   []string
	OutputDir string
	isHeader  func(name string) bool
}

func NewHeaderWalker(cfg *config.Config) *HeaderWalkerImpl {
	w := &HeaderWalkerImpl{
		Exclude:  append([]string{}, cfg.Exclude...),
		isHeader: cfg.IsHeader,
	}
	if cfg.OutputDir != "" {
		if abs, err := filepath.Abs(cfg.OutputDir); err == nil {
			w.OutputDir = abs
		}
	}
	return w
}

// Walk returns the headers under root in lexical order. When root is a
// file it is returned on its own, whatever its extension.
func (w *HeaderWalkerImpl) Walk(root string) ([]models.DiscoveredHeader, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return []models.DiscoveredHeader{newHeader(root, filepath.Base(root))}, nil
	}

	discovered := []models.DiscoveredHeader{}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		if d.IsDir() {
			if relPath != "." && w.excluded(path, d.Name()) {
				logger.Debug("Excluding directory: %s", path)
				return filepath.SkipDir
			}
			return nil
		}

		if !w.isHeader(d.Name()) {
			return nil
		}

		discovered = append(discovered, newHeader(path, filepath.ToSlash(relPath)))
		logger.Debug("Discovered header: %s", relPath)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	return discovered, nil
}

func (w *HeaderWalkerImpl) excluded(path, name string) bool {
	for _, ex := range w.Exclude {
		if ex != "" && name == ex {
			return true
		}
	}
	if w.OutputDir == "" {
		return false
	}
	abs, err := filepath.Abs(path)
	return err == nil && abs == w.OutputDir
}

func newHeader(path, relPath string) models.DiscoveredHeader {
	return models.DiscoveredHeader{
		Path:    path,
		Dir:     filepath.Dir(path),
		Name:    filepath.Base(path),
		RelPath: relPath,
	}
}
