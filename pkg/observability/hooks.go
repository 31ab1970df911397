// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about texture loading, render execution, cache operations,
// and memory cleanup passes.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetRenderHooks(&myRenderHooks{})
//	    observability.SetTextureHooks(&myTextureHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Texture().OnLoadStart(ctx, templateID, tier)
//	// ... do loading ...
//	observability.Texture().OnLoadComplete(ctx, templateID, tier, size, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Texture Hooks
// =============================================================================

// TextureHooks receives events from texture loading and processing.
type TextureHooks interface {
	// Load events. Tier is "low", "high", or "placeholder".
	OnLoadStart(ctx context.Context, templateID, tier string)
	OnLoadComplete(ctx context.Context, templateID, tier string, size int, duration time.Duration, err error)

	// Processing events
	OnProcessStart(ctx context.Context, templateID string)
	OnProcessComplete(ctx context.Context, templateID string, duration time.Duration, err error)
}

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events from document rendering.
type RenderHooks interface {
	// OnRenderStart records the beginning of a render job.
	OnRenderStart(ctx context.Context, jobID string, textLen int)

	// OnChunkComplete records completion of one progressive chunk.
	OnChunkComplete(ctx context.Context, jobID string, chunkIndex int, percent float64)

	// OnRenderComplete records the end of a render job.
	OnRenderComplete(ctx context.Context, jobID string, chunks int, duration time.Duration, err error)
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

	// OnCacheEvict records an eviction.
	OnCacheEvict(ctx context.Context, keyType string, size int)
}

// =============================================================================
// Memory Hooks
// =============================================================================

// MemoryHooks receives events from memory budget management.
type MemoryHooks interface {
	// OnPressure records a pressure level change ("normal", "elevated", "critical").
	OnPressure(ctx context.Context, level string, estimatedBytes, budgetBytes int64)

	// OnCleanup records a completed cleanup pass.
	OnCleanup(ctx context.Context, freedBytes int64, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopTextureHooks is a no-op implementation of TextureHooks.
type NoopTextureHooks struct{}

func (NoopTextureHooks) OnLoadStart(context.Context, string, string) {}
func (NoopTextureHooks) OnLoadComplete(context.Context, string, string, int, time.Duration, error) {
}
func (NoopTextureHooks) OnProcessStart(context.Context, string)                          {}
func (NoopTextureHooks) OnProcessComplete(context.Context, string, time.Duration, error) {}

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnRenderStart(context.Context, string, int)                          {}
func (NoopRenderHooks) OnChunkComplete(context.Context, string, int, float64)               {}
func (NoopRenderHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)        {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)       {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int)   {}
func (NoopCacheHooks) OnCacheEvict(context.Context, string, int) {}

// NoopMemoryHooks is a no-op implementation of MemoryHooks.
type NoopMemoryHooks struct{}

func (NoopMemoryHooks) OnPressure(context.Context, string, int64, int64) {}
func (NoopMemoryHooks) OnCleanup(context.Context, int64, time.Duration)  {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	textureHooks TextureHooks = NoopTextureHooks{}
	renderHooks  RenderHooks  = NoopRenderHooks{}
	cacheHooks   CacheHooks   = NoopCacheHooks{}
	memoryHooks  MemoryHooks  = NoopMemoryHooks{}
	hooksMu      sync.RWMutex
)

// SetTextureHooks registers custom texture hooks.
// This should be called once at application startup before any texture operations.
func SetTextureHooks(h TextureHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		textureHooks = h
	}
}

// SetRenderHooks registers custom render hooks.
// This should be called once at application startup before any render operations.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
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

// SetMemoryHooks registers custom memory hooks.
// This should be called once at application startup before the memory manager runs.
func SetMemoryHooks(h MemoryHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		memoryHooks = h
	}
}

// Texture returns the registered texture hooks.
func Texture() TextureHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return textureHooks
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Memory returns the registered memory hooks.
func Memory() MemoryHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return memoryHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	textureHooks = NoopTextureHooks{}
	renderHooks = NoopRenderHooks{}
	cacheHooks = NoopCacheHooks{}
	memoryHooks = NoopMemoryHooks{}
}
