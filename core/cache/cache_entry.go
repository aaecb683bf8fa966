package cache

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/tristendillon/cppbind/core/models"
)

// CacheEntry holds the classes extracted from a header together with the
// file state they were extracted from.
type CacheEntry struct {
	FilePath  string
	ModTime   time.Time
	Size      int64
	FileHash  uint64
	Classes   []models.ExtractedClass
	CreatedAt time.Time
}

func NewCacheEntry(filePath string, classes []models.ExtractedClass) (*CacheEntry, error) {
	stat, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file %s: %w", filePath, err)
	}

	hash, err := calculateFileHash(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate hash for file %s: %w", filePath, err)
	}

	return &CacheEntry{
		FilePath:  filePath,
		ModTime:   stat.ModTime(),
		Size:      stat.Size(),
		FileHash:  hash,
		Classes:   classes,
		CreatedAt: time.Now(),
	}, nil
}

// IsValid reports whether the header still has the content the entry was
// built from. Size and modification time are compared first; the content
// hash decides when they differ.
func (ce *CacheEntry) IsValid() (bool, error) {
	stat, err := os.Stat(ce.FilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat file %s: %w", ce.FilePath, err)
	}

	if stat.ModTime().Equal(ce.ModTime) && stat.Size() == ce.Size {
		return true, nil
	}

	currentHash, err := calculateFileHash(ce.FilePath)
	if err != nil {
		return false, fmt.Errorf("failed to calculate current hash for file %s: %w", ce.FilePath, err)
	}

	if currentHash == ce.FileHash {
		ce.ModTime = stat.ModTime()
		ce.Size = stat.Size()
		return true, nil
	}

	return false, nil
}

func calculateFileHash(filePath string) (uint64, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	hash := xxhash.New()
	if _, err := io.Copy(hash, file); err != nil {
		return 0, err
	}

	return hash.Sum64(), nil
}
