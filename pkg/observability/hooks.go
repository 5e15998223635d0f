// Package observability carries conversion, cache and request events to
// whatever metrics backend the process has registered.
//
// Each event category has an interface, a no-op implementation used until
// something is registered, and a package-level getter. The serve command
// registers a Prometheus registry; the other commands leave the no-ops in
// place, so the pipeline never imports a metrics backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	reg := metrics.NewRegistry()
//	observability.SetPipelineHooks(reg)
//	observability.SetCacheHooks(reg)
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnParse(ctx, "tags", 4, 2, elapsed)
//	observability.Pipeline().OnRenderStart(ctx, "graphviz", "png")
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks receives events from the conversion pipeline.
type PipelineHooks interface {
	// OnParse records a finished parse. source names the tier that supplied
	// the components ("tags", "list", "phrases", "heuristic", "none").
	OnParse(ctx context.Context, source string, components, relations int, duration time.Duration)

	// Render events cover the external or embedded image renderer.
	OnRenderStart(ctx context.Context, engine, format string)
	OnRenderComplete(ctx context.Context, engine, format string, duration time.Duration, err error)
}

// CacheHooks receives image cache lookups and writes. keyType is the key
// family, currently always "artifact"; size is the stored byte count.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks brackets each API request. route is the chi pattern that
// matched, not the raw path.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, status int, elapsed time.Duration)
}

// The Noop types discard every event. Embed one to implement only the
// methods you need.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnParse(context.Context, string, int, int, time.Duration)                 {}
func (NoopPipelineHooks) OnRenderStart(context.Context, string, string)                            {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, string, time.Duration, error) {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// slot holds one registered hook. Reads happen on every conversion and
// request, so they go through an atomic load instead of a lock.
type slot[T any] struct {
	v    atomic.Pointer[T]
	noop T
}

func newSlot[T any](noop T) *slot[T] {
	return &slot[T]{noop: noop}
}

func (s *slot[T]) load() T {
	if p := s.v.Load(); p != nil {
		return *p
	}
	return s.noop
}

func (s *slot[T]) store(h T) { s.v.Store(&h) }
func (s *slot[T]) reset()    { s.v.Store(nil) }

var (
	pipelineSlot = newSlot[PipelineHooks](NoopPipelineHooks{})
	cacheSlot    = newSlot[CacheHooks](NoopCacheHooks{})
	httpSlot     = newSlot[HTTPHooks](NoopHTTPHooks{})
)

// SetPipelineHooks registers pipeline hooks. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		pipelineSlot.store(h)
	}
}

// SetCacheHooks registers cache hooks. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		cacheSlot.store(h)
	}
}

// SetHTTPHooks registers HTTP hooks. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		httpSlot.store(h)
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks { return pipelineSlot.load() }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return cacheSlot.load() }

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return httpSlot.load() }

// Reset restores the no-op hooks. serve calls it on shutdown; tests call it
// between cases.
func Reset() {
	pipelineSlot.reset()
	cacheSlot.reset()
	httpSlot.reset()
}
