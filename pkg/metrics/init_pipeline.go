package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initPipelineMetrics() {
	r.ParsesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "agendagraph_parses_total",
			Help: "Total number of parsed agendas by component source",
		},
		[]string{"source"}, // tags, list, phrases, heuristic, none
	)

	r.ParseDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "agendagraph_parse_duration_seconds",
			Help:    "Time spent parsing agenda text",
			Buckets: []float64{.00001, .0001, .001, .01, .1},
		},
	)

	r.ParsedComponents = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "agendagraph_parsed_components",
			Help:    "Number of components per parsed agenda",
			Buckets: []float64{0, 1, 2, 4, 8, 16, 32, 64},
		},
	)

	r.ParsedRelations = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "agendagraph_parsed_relations",
			Help:    "Number of relations per parsed agenda",
			Buckets: []float64{0, 1, 2, 4, 8, 16, 32, 64},
		},
	)

	r.RendersInFlight = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "agendagraph_renders_in_flight",
			Help: "Image renders currently running",
		},
		[]string{"engine"},
	)

	r.RendersTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "agendagraph_renders_total",
			Help: "Total number of image renders",
		},
		[]string{"engine", "format", "status"}, // status: ok, not_found, failed
	)

	r.RenderDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agendagraph_render_duration_seconds",
			Help:    "Duration of image renders in seconds",
			Buckets: []float64{.01, .05, .1, .5, 1, 2, 5, 10, 30},
		},
		[]string{"engine", "format"},
	)
}

func (r *Registry) initCacheMetrics() {
	r.CacheHitsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "agendagraph_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"key_type"},
	)

	r.CacheMissesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "agendagraph_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"key_type"},
	)

	r.CacheWriteBytes = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "agendagraph_cache_write_bytes_total",
			Help: "Bytes written to the cache",
		},
		[]string{"key_type"},
	)
}
