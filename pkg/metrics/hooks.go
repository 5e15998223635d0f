package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/matzehuels/agendagraph/pkg/errors"
	"github.com/matzehuels/agendagraph/pkg/observability"
)

var (
	_ observability.PipelineHooks = (*Registry)(nil)
	_ observability.CacheHooks    = (*Registry)(nil)
	_ observability.HTTPHooks     = (*Registry)(nil)
)

// OnParse records a finished parse.
func (r *Registry) OnParse(_ context.Context, source string, components, relations int, duration time.Duration) {
	r.ParsesTotal.WithLabelValues(source).Inc()
	r.ParseDuration.Observe(duration.Seconds())
	r.ParsedComponents.Observe(float64(components))
	r.ParsedRelations.Observe(float64(relations))
}

// OnRenderStart marks an image render as in flight.
func (r *Registry) OnRenderStart(_ context.Context, engine, _ string) {
	r.RendersInFlight.WithLabelValues(engine).Inc()
}

// OnRenderComplete records the outcome of an image render.
func (r *Registry) OnRenderComplete(_ context.Context, engine, format string, duration time.Duration, err error) {
	r.RendersInFlight.WithLabelValues(engine).Dec()
	r.RendersTotal.WithLabelValues(engine, format, renderStatus(err)).Inc()
	r.RenderDuration.WithLabelValues(engine, format).Observe(duration.Seconds())
}

func renderStatus(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, errors.ErrCodeRendererNotFound):
		return "not_found"
	default:
		return "failed"
	}
}

// OnCacheHit records a cache hit.
func (r *Registry) OnCacheHit(_ context.Context, keyType string) {
	r.CacheHitsTotal.WithLabelValues(keyType).Inc()
}

// OnCacheMiss records a cache miss.
func (r *Registry) OnCacheMiss(_ context.Context, keyType string) {
	r.CacheMissesTotal.WithLabelValues(keyType).Inc()
}

// OnCacheSet records bytes written to the cache.
func (r *Registry) OnCacheSet(_ context.Context, keyType string, size int) {
	r.CacheWriteBytes.WithLabelValues(keyType).Add(float64(size))
}

// OnRequest marks an HTTP request as in flight.
func (r *Registry) OnRequest(context.Context, string, string) {
	r.HTTPRequestsInFlight.Inc()
}

// OnResponse records a served HTTP request.
func (r *Registry) OnResponse(_ context.Context, method, route string, statusCode int, duration time.Duration) {
	r.HTTPRequestsInFlight.Dec()
	r.RecordHTTPRequest(method, route, strconv.Itoa(statusCode), duration)
}

// RecordHTTPRequest records an HTTP request with its duration.
func (r *Registry) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}
