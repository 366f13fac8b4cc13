package caching

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Cache provides a simple file-based cache with a TTL.
type Cache struct {
	path string
	ttl  time.Duration
}

// NewCache creates a new Cache instance.
// The cache path will be created if it doesn't exist.
// A zero ttl never expires entries.
func NewCache(path string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{
		path: path,
		ttl:  ttl,
	}, nil
}

// Key derives the cache key for the flat text of a raw document. variant
// distinguishes different renderings of the same bytes, such as a PDF page
// range.
func Key(raw []byte, variant string) string {
	h := sha256.New()
	h.Write(raw)
	h.Write([]byte{0})
	h.Write([]byte(variant))
	return fmt.Sprintf("%x", h.Sum(nil))
}

func (c *Cache) file(key string) string {
	return filepath.Join(c.path, key+".txt")
}

func (c *Cache) expired(info os.FileInfo) bool {
	return c.ttl > 0 && time.Since(info.ModTime()) > c.ttl
}

// Get returns the cached flat text for key. Missing, expired or unreadable
// entries are all misses.
func (c *Cache) Get(key string) ([]byte, bool) {
	filePath := c.file(key)

	info, err := os.Stat(filePath)
	if err != nil || c.expired(info) {
		return nil, false
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Prune removes expired entries and returns how many were deleted.
func (c *Cache) Prune() (int, error) {
	if c.ttl <= 0 {
		return 0, nil
	}

	entries, err := os.ReadDir(c.path)
	if err != nil {
		return 0, fmt.Errorf("failed to read cache directory: %w", err)
	}

	var removed int
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".txt" {
			continue
		}
		info, err := entry.Info()
		if err != nil || !c.expired(info) {
			continue
		}
		if err := os.Remove(filepath.Join(c.path, entry.Name())); err != nil && !os.IsNotExist(err) {
			return removed, fmt.Errorf("failed to prune cache: %w", err)
		}
		removed++
	}
	return removed, nil
}

// Set adds an item to the cache.
func (c *Cache) Set(key string, data []byte) error {
	tmp, err := os.CreateTemp(c.path, key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}

	// Readers in other workers never see a partial entry
	if err := os.Rename(tmp.Name(), c.file(key)); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	return nil
}
