// Package storage keeps downloaded book files on disk so a book opens
// offline after its first read.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"bookbuddy/internal/util"
)

// Cache stores downloaded files under a base directory, one folder per book.
type Cache struct {
	basePath string
}

// NewCache creates the base directory if missing.
func NewCache(basePath string) (*Cache, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, fmt.Errorf("cache base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &Cache{basePath: basePath}, nil
}

// Put writes a downloaded file under the book's folder and returns its path.
func (c *Cache) Put(bookID, filename string, r io.Reader) (string, error) {
	targetDir := filepath.Join(c.basePath, bookID)
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return "", fmt.Errorf("create book dir: %w", err)
	}
	target := filepath.Join(targetDir, safeFilename(filename))

	// Write through a temp file so a torn download never shows up as a
	// cached book.
	tmp := target + "." + util.NewID() + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("close file: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("commit file: %w", err)
	}
	return target, nil
}

// Get returns the cached path for a book's file, or ok=false when it has not
// been downloaded yet.
func (c *Cache) Get(bookID, filename string) (path string, ok bool) {
	target := filepath.Join(c.basePath, bookID, safeFilename(filename))
	if _, err := os.Stat(target); err != nil {
		return "", false
	}
	return target, true
}

// Remove drops all cached files for a book.
func (c *Cache) Remove(bookID string) error {
	targetDir := filepath.Join(c.basePath, bookID)
	if _, err := os.Stat(targetDir); os.IsNotExist(err) {
		return nil
	}
	return os.RemoveAll(targetDir)
}

func safeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, string(os.PathSeparator), "_")
	name = strings.TrimSpace(name)
	if name == "" {
		return "book"
	}
	return name
}
