// Package observability provides hooks for metrics and tracing.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. The CLI registers hooks at
// startup to receive events about pipeline stages, deduction steps and the
// canonical-form memo.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so the deduction core never
// imports a metrics framework.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetDeductionHooks(&myDeductionHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnProveStart(ctx, goal)
//	// ... derive the goal ...
//	observability.Pipeline().OnProveComplete(ctx, goal, proved, duration, err)
//
// Deduction hooks are called synchronously from the closure operations and
// must be cheap.
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the proving pipeline.
type PipelineHooks interface {
	// Load events
	OnLoadStart(ctx context.Context, problem string)
	OnLoadComplete(ctx context.Context, problem string, premises, goals int, duration time.Duration, err error)

	// Prove events, one pair per goal
	OnProveStart(ctx context.Context, goal string)
	OnProveComplete(ctx context.Context, goal string, proved bool, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Deduction Hooks
// =============================================================================

// DeductionHooks receives events from the deduction core. Predicate names
// are the statement tokens (eqratio, para, ...).
type DeductionHooks interface {
	// OnCheck records a derivability query.
	OnCheck(predicate string, holds bool)

	// OnAdd records an assertion. err is non-nil for rejected assertions.
	OnAdd(predicate string, err error)

	// OnWhy records a derived fact and the number of facts it cites.
	OnWhy(predicate string, antecedents int)

	// OnContradiction records a contradiction in the table of the given
	// quantity kind (length or angle).
	OnContradiction(kind string)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadStart(context.Context, string) {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, string, int, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnProveStart(context.Context, string)                                {}
func (NoopPipelineHooks) OnProveComplete(context.Context, string, bool, time.Duration, error) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                             {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)    {}

// NoopDeductionHooks is a no-op implementation of DeductionHooks.
type NoopDeductionHooks struct{}

func (NoopDeductionHooks) OnCheck(string, bool)   {}
func (NoopDeductionHooks) OnAdd(string, error)    {}
func (NoopDeductionHooks) OnWhy(string, int)      {}
func (NoopDeductionHooks) OnContradiction(string) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(string)      {}
func (NoopCacheHooks) OnCacheMiss(string)     {}
func (NoopCacheHooks) OnCacheSet(string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks  PipelineHooks  = NoopPipelineHooks{}
	deductionHooks DeductionHooks = NoopDeductionHooks{}
	cacheHooks     CacheHooks     = NoopCacheHooks{}
	hooksMu        sync.RWMutex
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

// SetDeductionHooks registers custom deduction hooks.
// Implementations must be safe for concurrent use: parallel proof branches
// report through the same hooks.
func SetDeductionHooks(h DeductionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		deductionHooks = h
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

// Deduction returns the registered deduction hooks.
func Deduction() DeductionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return deductionHooks
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
	deductionHooks = NoopDeductionHooks{}
	cacheHooks = NoopCacheHooks{}
}
