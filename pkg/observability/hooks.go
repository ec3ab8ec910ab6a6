// Package observability provides hooks for metrics and tracing.
//
// This package enables optional instrumentation without adding hard
// dependencies to the core packages. The pipeline reports what it does
// through hooks registered at startup; the default hooks do nothing.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// [Prometheus] implements every hook interface on top of a Prometheus
// registry and can dump the registry as a node-exporter textfile.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    m := observability.NewPrometheus(prometheus.NewRegistry())
//	    observability.SetPipelineHooks(m)
//	    observability.SetCacheHooks(m)
//	    // ... run application
//	    m.WriteTextfile("corridor.prom")
//	}
//
// The pipeline calls hooks to emit events:
//
//	observability.Pipeline().OnPrecomputeStart(ctx, runID, len(targets))
//	// ... contract ...
//	observability.Pipeline().OnPrecomputeComplete(ctx, runID, len(results), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the precomputation pipeline.
type PipelineHooks interface {
	// Load events
	OnLoad(ctx context.Context, nodes, arcs, options int, duration time.Duration, err error)

	// Evaluation events
	OnEvaluate(ctx context.Context, nodes int, duration time.Duration, err error)

	// Precompute events. OnTargetReduced is called once per target, possibly
	// from several goroutines at once.
	OnPrecomputeStart(ctx context.Context, runID string, targets int)
	OnTargetReduced(ctx context.Context, runID string, nodesBefore, nodesAfter, arcsBefore, arcsAfter int)
	OnPrecomputeComplete(ctx context.Context, runID string, targets int, duration time.Duration, err error)

	// Verification events. maxError is the largest absolute flow difference
	// seen over all checks.
	OnVerify(ctx context.Context, checks int, maxError float64)
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

func (NoopPipelineHooks) OnLoad(context.Context, int, int, int, time.Duration, error) {}
func (NoopPipelineHooks) OnEvaluate(context.Context, int, time.Duration, error)       {}
func (NoopPipelineHooks) OnPrecomputeStart(context.Context, string, int)              {}
func (NoopPipelineHooks) OnTargetReduced(context.Context, string, int, int, int, int) {}
func (NoopPipelineHooks) OnPrecomputeComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnVerify(context.Context, int, float64) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
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
	cacheHooks = NoopCacheHooks{}
}
