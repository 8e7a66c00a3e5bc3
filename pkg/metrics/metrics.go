// Package metrics provides Prometheus instrumentation for decora.
//
// It pre-defines the ingestion metrics the pipeline reports and exposes a
// Handler you can mount on the admin endpoint:
//
//	r.Get("/metrics", metrics.Handler().ServeHTTP)
//
// Then scrape the admin address (decora ingest --metrics-addr :9102) during
// long-running bulk loads.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ─────────────────────────────────────────────
// Built-in ingestion metrics
// ─────────────────────────────────────────────

var (
	// ObjectsProcessed counts every listed object by terminal outcome:
	// "ingested", "skipped", "rejected", "failed".
	ObjectsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "decora",
			Subsystem: "ingest",
			Name:      "objects_processed_total",
			Help:      "Total objects processed, by outcome.",
		},
		[]string{"outcome"},
	)

	// ObjectDuration tracks the per-object processing latency, which is
	// dominated by the 3-6 relational writes each object needs.
	ObjectDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "decora",
			Subsystem: "ingest",
			Name:      "object_duration_seconds",
			Help:      "Time spent ingesting one object.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
	)

	// ListDuration tracks the full bucket listing, pagination included.
	ListDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "decora",
			Subsystem: "ingest",
			Name:      "list_duration_seconds",
			Help:      "Time spent listing the source bucket.",
			Buckets:   []float64{.1, .5, 1, 5, 15, 60, 300},
		},
	)

	// CategoryCacheHits / CategoryCacheMisses track resolver cache
	// effectiveness. A healthy taxonomy prefix distribution keeps the hit
	// rate well above 90%.
	CategoryCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "decora",
		Subsystem: "ingest",
		Name:      "category_cache_hits_total",
		Help:      "Category resolutions served from the in-run cache.",
	})
	CategoryCacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "decora",
		Subsystem: "ingest",
		Name:      "category_cache_misses_total",
		Help:      "Category resolutions that required a store round-trip.",
	})
)

// ─────────────────────────────────────────────
// Registry
// ─────────────────────────────────────────────

// DefaultRegistry is the Prometheus registry used by decora.
// Register your own metrics against this.
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	// Go runtime metrics (GC, goroutines, memory)
	DefaultRegistry.MustRegister(collectors.NewGoCollector())
	// OS process metrics (CPU, open FDs)
	DefaultRegistry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	DefaultRegistry.MustRegister(
		ObjectsProcessed,
		ObjectDuration,
		ListDuration,
		CategoryCacheHits,
		CategoryCacheMisses,
	)
}

// Register lets you add your own prometheus.Collector to the decora registry.
func Register(c prometheus.Collector) error {
	return DefaultRegistry.Register(c)
}

// MustRegister panics if registration fails.
func MustRegister(c ...prometheus.Collector) {
	DefaultRegistry.MustRegister(c...)
}

// Handler returns the HTTP handler that serves the registry in the
// Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{})
}
