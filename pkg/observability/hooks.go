// Package observability provides hooks for metrics and logging.
//
// Libraries emit events through small hook interfaces; the binary decides
// at startup which implementation receives them. Until something is
// registered every hook is a no-op, so tests and library users pay nothing.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    p := observability.NewPrometheus(prometheus.DefaultRegisterer)
//	    observability.SetSiteHooks(p)
//	    observability.SetCacheHooks(p)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Site().OnDictionaryStart(ctx, "mmcif_pdbx_v50")
//	// ... generate pages and figures ...
//	observability.Site().OnDictionaryComplete(ctx, "mmcif_pdbx_v50", pages, figures, elapsed, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Site Hooks
// =============================================================================

// SiteHooks receives events from site generation.
type SiteHooks interface {
	// Dictionary events
	OnDictionaryStart(ctx context.Context, dictionary string)
	OnDictionaryComplete(ctx context.Context, dictionary string, pages, figures int, duration time.Duration, err error)

	// OnPageWritten records one generated HTML page.
	OnPageWritten(ctx context.Context, dictionary, contentType string, size int)

	// Figure events. usage is the coverage context name, or "" for the
	// unfiltered figure.
	OnFigureRendered(ctx context.Context, dictionary, usage string, duration time.Duration, err error)
	OnFigureSkipped(ctx context.Context, dictionary, usage, reason string)
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
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the preview server.
type HTTPHooks interface {
	// OnResponse records a served request. route is the matched route
	// pattern, not the raw path.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)

	// OnError records a request that failed while being served.
	OnError(ctx context.Context, method, route string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSiteHooks is a no-op implementation of SiteHooks.
type NoopSiteHooks struct{}

func (NoopSiteHooks) OnDictionaryStart(context.Context, string) {}
func (NoopSiteHooks) OnDictionaryComplete(context.Context, string, int, int, time.Duration, error) {
}
func (NoopSiteHooks) OnPageWritten(context.Context, string, string, int)                    {}
func (NoopSiteHooks) OnFigureRendered(context.Context, string, string, time.Duration, error) {}
func (NoopSiteHooks) OnFigureSkipped(context.Context, string, string, string)                {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	siteHooks  SiteHooks  = NoopSiteHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	httpHooks  HTTPHooks  = NoopHTTPHooks{}
	hooksMu    sync.RWMutex
)

// SetSiteHooks registers custom site hooks.
// This should be called once at application startup before any build runs.
func SetSiteHooks(h SiteHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		siteHooks = h
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

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Site returns the registered site hooks.
func Site() SiteHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return siteHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	siteHooks = NoopSiteHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
