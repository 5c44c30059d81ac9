// Package caching stores extracted feature strings on disk, keyed by the
// content of the document they came from.
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
	path    string
	ttl     time.Duration
	version string
}

// NewCache creates a new Cache instance.
// The cache path will be created if it doesn't exist. A zero ttl never expires.
// Entries written under a different version are never returned.
func NewCache(path string, ttl time.Duration, version string) (*Cache, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Cache{
		path:    path,
		ttl:     ttl,
		version: version,
	}, nil
}

// key hashes the extractor version and the raw document.
func (c *Cache) key(content []byte) string {
	h := sha256.New()
	h.Write([]byte(c.version))
	h.Write([]byte{0})
	h.Write(content)
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Get returns the cached feature string for a document and true on a hit.
func (c *Cache) Get(content []byte) (string, bool) {
	filePath := filepath.Join(c.path, c.key(content))

	info, err := os.Stat(filePath)
	if err != nil {
		return "", false // Cache miss
	}

	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		return "", false // Cache miss (expired)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", false
	}

	return string(data), true
}

// Set stores the feature string extracted from content.
func (c *Cache) Set(content []byte, features string) error {
	filePath := filepath.Join(c.path, c.key(content))
	if err := os.WriteFile(filePath, []byte(features), 0644); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	return nil
}
