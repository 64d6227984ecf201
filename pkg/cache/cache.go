// Package cache stores small byte blobs keyed by string, with optional
// expiry.
//
// The serializer uses it as a change-detection index: after a document is
// written, its content hash is remembered under a key derived from the
// project root and the document path. The next pass compares the freshly
// computed hash with the remembered one and skips the write when they match.
//
// Three backends are provided:
//   - [FileCache] keeps entries as JSON files, one per key, for a single
//     workstation.
//   - [RedisCache] shares the index between machines that write into the
//     same project checkout.
//   - [NullCache] remembers nothing and forces every document to be written.
package cache

import (
	"context"
	"time"
)

// Cache is a key/value store for byte slices.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. A zero ttl passed to Set means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
