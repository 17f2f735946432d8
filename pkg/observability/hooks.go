// Package observability provides hooks for metrics and tracing.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about comparison runs and graph processing.
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetComparisonHooks(&myComparisonHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Comparison().OnEdgesComplete(ctx, rows, rejected, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// ComparisonHooks receives events from snapshot comparisons.
type ComparisonHooks interface {
	// Category test events
	OnCategoriesStart(ctx context.Context, categories int)
	OnCategoriesComplete(ctx context.Context, categories int, reject bool, duration time.Duration, err error)

	// Edge test events
	OnEdgesStart(ctx context.Context, rows int)
	OnEdgesComplete(ctx context.Context, rows, rejected int, duration time.Duration, err error)
}

// GraphHooks receives events from graph parsing and rendering.
type GraphHooks interface {
	// OnParse records a parsed graph file.
	OnParse(ctx context.Context, path string, nodes, edges int, err error)

	// OnRender records a rendered graph.
	OnRender(ctx context.Context, format string, duration time.Duration, err error)
}

// NoopComparisonHooks is a no-op implementation of ComparisonHooks.
type NoopComparisonHooks struct{}

func (NoopComparisonHooks) OnCategoriesStart(context.Context, int)                                {}
func (NoopComparisonHooks) OnCategoriesComplete(context.Context, int, bool, time.Duration, error) {}
func (NoopComparisonHooks) OnEdgesStart(context.Context, int)                                     {}
func (NoopComparisonHooks) OnEdgesComplete(context.Context, int, int, time.Duration, error)       {}

// NoopGraphHooks is a no-op implementation of GraphHooks.
type NoopGraphHooks struct{}

func (NoopGraphHooks) OnParse(context.Context, string, int, int, error)       {}
func (NoopGraphHooks) OnRender(context.Context, string, time.Duration, error) {}

var (
	comparisonHooks ComparisonHooks = NoopComparisonHooks{}
	graphHooks      GraphHooks      = NoopGraphHooks{}
	hooksMu         sync.RWMutex
)

// SetComparisonHooks registers custom comparison hooks.
// This should be called once at application startup before any comparisons.
func SetComparisonHooks(h ComparisonHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		comparisonHooks = h
	}
}

// SetGraphHooks registers custom graph hooks.
// This should be called once at application startup before any graph work.
func SetGraphHooks(h GraphHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		graphHooks = h
	}
}

// Comparison returns the registered comparison hooks.
func Comparison() ComparisonHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return comparisonHooks
}

// Graph returns the registered graph hooks.
func Graph() GraphHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return graphHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	comparisonHooks = NoopComparisonHooks{}
	graphHooks = NoopGraphHooks{}
}
