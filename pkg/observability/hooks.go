// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about serialization passes, group inlining, texture
// relocation and hash-index operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, which keeps the core
// packages free of any metrics backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnSerializeStart(ctx, name, kind)
//	// ... walk the graph ...
//	observability.Pipeline().OnSerializeComplete(ctx, name, kind, nodeCount, duration, err)
//
// Serializer and asset hooks take no context: a serialization pass is
// synchronous and never cancelled midway.
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from pass orchestration.
type PipelineHooks interface {
	// Pass events
	OnPassStart(ctx context.Context, passID string, targets int)
	OnPassComplete(ctx context.Context, passID string, written, unchanged int, duration time.Duration, err error)

	// Per-graph events
	OnSerializeStart(ctx context.Context, tree, kind string)
	OnSerializeComplete(ctx context.Context, tree, kind string, nodeCount int, duration time.Duration, err error)
}

// =============================================================================
// Serializer Hooks
// =============================================================================

// SerializerHooks receives events from inside a graph walk.
type SerializerHooks interface {
	// OnGroupInlined records a node group added to the internal-trees table.
	OnGroupInlined(group string, nodeCount int)

	// OnLinkDropped records a link whose reroute chain had no real endpoint.
	OnLinkDropped(tree, node, socket string)

	// OnSpaceConflict records disagreeing vector spaces at a group boundary.
	OnSpaceConflict(group, socket string)
}

// =============================================================================
// Asset Hooks
// =============================================================================

// AssetHooks receives events from texture relocation.
type AssetHooks interface {
	// OnAssetStored records an image copied into the textures directory.
	OnAssetStored(name string, size int64)

	// OnAssetSkipped records an image that was already in place.
	OnAssetSkipped(name string)

	// OnAssetFailed records an image that could not be stored.
	OnAssetFailed(name string, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnPassStart(context.Context, string, int) {}
func (NoopPipelineHooks) OnPassComplete(context.Context, string, int, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnSerializeStart(context.Context, string, string) {}
func (NoopPipelineHooks) OnSerializeComplete(context.Context, string, string, int, time.Duration, error) {
}

// NoopSerializerHooks is a no-op implementation of SerializerHooks.
type NoopSerializerHooks struct{}

func (NoopSerializerHooks) OnGroupInlined(string, int)           {}
func (NoopSerializerHooks) OnLinkDropped(string, string, string) {}
func (NoopSerializerHooks) OnSpaceConflict(string, string)       {}

// NoopAssetHooks is a no-op implementation of AssetHooks.
type NoopAssetHooks struct{}

func (NoopAssetHooks) OnAssetStored(string, int64) {}
func (NoopAssetHooks) OnAssetSkipped(string)       {}
func (NoopAssetHooks) OnAssetFailed(string, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks   PipelineHooks   = NoopPipelineHooks{}
	serializerHooks SerializerHooks = NoopSerializerHooks{}
	assetHooks      AssetHooks      = NoopAssetHooks{}
	cacheHooks      CacheHooks      = NoopCacheHooks{}
	hooksMu         sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pass runs.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetSerializerHooks registers custom serializer hooks.
func SetSerializerHooks(h SerializerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		serializerHooks = h
	}
}

// SetAssetHooks registers custom asset hooks.
func SetAssetHooks(h AssetHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		assetHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Serializer returns the registered serializer hooks.
func Serializer() SerializerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return serializerHooks
}

// Asset returns the registered asset hooks.
func Asset() AssetHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return assetHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	serializerHooks = NoopSerializerHooks{}
	assetHooks = NoopAssetHooks{}
	cacheHooks = NoopCacheHooks{}
}
