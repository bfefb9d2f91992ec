// Package metrics provides Prometheus metrics for the server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's Prometheus collectors on a private registry so
// tests and embedded use never collide with the global default registry.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec

	entriesCreated  prometheus.Counter
	recommendations *prometheus.CounterVec
	digestRuns      *prometheus.CounterVec

	cacheHits   *prometheus.CounterVec
	cacheMisses *prometheus.CounterVec
}

// New creates and registers all collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{registry: registry}

	m.httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "moodtracker",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	m.httpLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "moodtracker",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "path"},
	)

	m.entriesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "moodtracker",
			Name:      "entries_created_total",
			Help:      "Total number of mood entries created",
		},
	)

	m.recommendations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "moodtracker",
			Name:      "recommendations_total",
			Help:      "Total recommendation requests by result source",
		},
		[]string{"source"},
	)

	m.digestRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "moodtracker",
			Name:      "digest_runs_total",
			Help:      "Total daily digest deliveries",
		},
		[]string{"status"},
	)

	m.cacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "moodtracker",
			Name:      "cache_hits_total",
			Help:      "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	m.cacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "moodtracker",
			Name:      "cache_misses_total",
			Help:      "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	registry.MustRegister(
		m.httpRequests,
		m.httpLatency,
		m.entriesCreated,
		m.recommendations,
		m.digestRuns,
		m.cacheHits,
		m.cacheMisses,
	)

	return m
}

// RecordHTTPRequest records one served request.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, latency time.Duration) {
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpLatency.WithLabelValues(method, path).Observe(latency.Seconds())
}

// RecordEntryCreated records a new mood entry.
func (m *Metrics) RecordEntryCreated() {
	m.entriesCreated.Inc()
}

// RecordRecommendation records a recommendation request by its result source
// (llm, cache, stale_cache, static).
func (m *Metrics) RecordRecommendation(source string) {
	m.recommendations.WithLabelValues(source).Inc()
}

// RecordDigestRun records a digest delivery attempt.
func (m *Metrics) RecordDigestRun(success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	m.digestRuns.WithLabelValues(status).Inc()
}

// RecordCacheHit records a cache hit.
func (m *Metrics) RecordCacheHit(cacheType string) {
	m.cacheHits.WithLabelValues(cacheType).Inc()
}

// RecordCacheMiss records a cache miss.
func (m *Metrics) RecordCacheMiss(cacheType string) {
	m.cacheMisses.WithLabelValues(cacheType).Inc()
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the HTTP handler serving the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
