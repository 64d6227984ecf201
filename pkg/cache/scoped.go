package cache

import (
	"context"
	"time"
)

// ScopedCache wraps a Cache with a key prefix so several projects can
// share one backend without seeing each other's entries.
//
// Example usage:
//
//	shared, _ := NewRedisCache(RedisOptions{URL: url})
//	c := NewScopedCache(shared, "nodetrees:")
type ScopedCache struct {
	inner  Cache
	prefix string
}

// NewScopedCache creates a cache that prepends prefix to every key. A nil
// inner cache is replaced by a NullCache.
func NewScopedCache(inner Cache, prefix string) *ScopedCache {
	if inner == nil {
		inner = NewNullCache()
	}
	return &ScopedCache{inner: inner, prefix: prefix}
}

// Get retrieves a prefixed key.
func (c *ScopedCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return c.inner.Get(ctx, c.prefix+key)
}

// Set stores a prefixed key.
func (c *ScopedCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.inner.Set(ctx, c.prefix+key, data, ttl)
}

// Delete removes a prefixed key.
func (c *ScopedCache) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, c.prefix+key)
}

// Close closes the wrapped cache.
func (c *ScopedCache) Close() error {
	return c.inner.Close()
}

var _ Cache = (*ScopedCache)(nil)
