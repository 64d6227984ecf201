package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/matzehuels/nodetrees/pkg/observability"
)

// keyTypeDocument labels index lookups in cache hooks.
const keyTypeDocument = "document"

// Index remembers the content hash last written for each document.
//
// Keys are derived from the absolute project root and the document's
// relative path, so two checkouts sharing a backend do not collide.
type Index struct {
	cache Cache
	root  string
	ttl   time.Duration
}

// NewIndex creates an index over c for the project at root. A nil c
// disables change detection.
func NewIndex(c Cache, root string, ttl time.Duration) *Index {
	if c == nil {
		c = NewNullCache()
	}
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return &Index{cache: c, root: root, ttl: ttl}
}

// DocumentKey returns the cache key for a document path under root.
func DocumentKey(root, path string) string {
	return hashKey("doc", filepath.ToSlash(root), path)
}

// Lookup returns the remembered hash for path, or ErrCacheMiss.
func (i *Index) Lookup(ctx context.Context, path string) (string, error) {
	hooks := observability.Cache()
	data, ok, err := i.cache.Get(ctx, DocumentKey(i.root, path))
	if err != nil {
		return "", fmt.Errorf("lookup %s: %w", path, err)
	}
	if !ok {
		hooks.OnCacheMiss(ctx, keyTypeDocument)
		return "", ErrCacheMiss
	}
	hooks.OnCacheHit(ctx, keyTypeDocument)
	return string(data), nil
}

// Unchanged reports whether hash equals the remembered hash for path.
// A document whose file no longer exists on disk is never unchanged.
func (i *Index) Unchanged(ctx context.Context, path, hash string) (bool, error) {
	prev, err := i.Lookup(ctx, path)
	if err == ErrCacheMiss {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if prev != hash {
		return false, nil
	}
	if _, err := os.Stat(filepath.Join(i.root, filepath.FromSlash(path))); err != nil {
		return false, nil
	}
	return true, nil
}

// Record remembers hash as the current content of path.
func (i *Index) Record(ctx context.Context, path, hash string) error {
	if err := i.cache.Set(ctx, DocumentKey(i.root, path), []byte(hash), i.ttl); err != nil {
		return fmt.Errorf("record %s: %w", path, err)
	}
	observability.Cache().OnCacheSet(ctx, keyTypeDocument, len(hash))
	return nil
}

// Forget drops the remembered hash for path.
func (i *Index) Forget(ctx context.Context, path string) error {
	return i.cache.Delete(ctx, DocumentKey(i.root, path))
}

// Close closes the underlying cache.
func (i *Index) Close() error {
	return i.cache.Close()
}
