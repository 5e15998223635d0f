// Package metrics exposes agendagraph activity as Prometheus metrics.
//
// A [Registry] owns a private Prometheus registry and implements the
// observability hook interfaces, so registering it once at startup is enough
// to instrument parsing, rendering, caching and the HTTP server:
//
//	reg := metrics.NewRegistry()
//	observability.SetPipelineHooks(reg)
//	observability.SetCacheHooks(reg)
//	observability.SetHTTPHooks(reg)
//	http.Handle("/metrics", reg.Handler())
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry holds every agendagraph metric.
type Registry struct {
	registry *prometheus.Registry

	// Parsing
	ParsesTotal      *prometheus.CounterVec
	ParseDuration    prometheus.Histogram
	ParsedComponents prometheus.Histogram
	ParsedRelations  prometheus.Histogram

	// Image rendering
	RendersInFlight *prometheus.GaugeVec
	RendersTotal    *prometheus.CounterVec
	RenderDuration  *prometheus.HistogramVec

	// Cache
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec
	CacheWriteBytes  *prometheus.CounterVec

	// HTTP
	HTTPRequestsInFlight prometheus.Gauge
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
}
