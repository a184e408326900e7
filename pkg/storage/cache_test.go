package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCachePutGetRemove(t *testing.T) {
	cache, err := NewCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}

	if _, ok := cache.Get("b1", "dune.pdf"); ok {
		t.Fatal("cold cache must miss")
	}

	saved, err := cache.Put("b1", "dune.pdf", strings.NewReader("%PDF-bytes"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	data, err := os.ReadFile(saved)
	if err != nil || string(data) != "%PDF-bytes" {
		t.Fatalf("cached content mismatch: %q err=%v", data, err)
	}

	got, ok := cache.Get("b1", "dune.pdf")
	if !ok || got != saved {
		t.Fatalf("get = %q ok=%v, want %q", got, ok, saved)
	}

	if err := cache.Remove("b1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok := cache.Get("b1", "dune.pdf"); ok {
		t.Fatal("removed entry must miss")
	}
	// Removing twice is fine.
	if err := cache.Remove("b1"); err != nil {
		t.Fatalf("second remove: %v", err)
	}
}

func TestCacheSanitizesFilenames(t *testing.T) {
	base := filepath.Join(t.TempDir(), "cache")
	cache, err := NewCache(base)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	saved, err := cache.Put("b1", "../../escape.pdf", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	rel, err := filepath.Rel(base, saved)
	if err != nil || strings.HasPrefix(rel, "..") {
		t.Fatalf("cached file escaped the base dir: %q", saved)
	}
}

func TestCacheRequiresBasePath(t *testing.T) {
	if _, err := NewCache("  "); err == nil {
		t.Fatal("expected error for blank base path")
	}
}
