// Package metrics exposes engine counters in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so independent instances never collide.
// It satisfies both cache.Recorder and sky.Recorder.
type Metrics struct {
	registry *prometheus.Registry

	cacheRequests *prometheus.CounterVec
	bodyFailures  *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec
}

// New creates a Metrics with the Go runtime and process collectors
// registered alongside the engine series.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		cacheRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lssky_cache_requests_total",
				Help: "Cache lookups by namespace and result.",
			},
			[]string{"namespace", "result"},
		),
		bodyFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lssky_body_failures_total",
				Help: "Bodies omitted from a result, by failure kind.",
			},
			[]string{"body", "kind"},
		),
		queryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lssky_query_duration_seconds",
				Help:    "Engine query duration in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
	}
	m.registry.MustRegister(
		m.cacheRequests,
		m.bodyFailures,
		m.queryDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// CacheResult counts one cache lookup.
func (m *Metrics) CacheResult(namespace, result string) {
	m.cacheRequests.WithLabelValues(namespace, result).Inc()
}

// BodyFailure counts one omitted body.
func (m *Metrics) BodyFailure(body, kind string) {
	m.bodyFailures.WithLabelValues(body, kind).Inc()
}

// ObserveQuery records the duration of one engine operation.
func (m *Metrics) ObserveQuery(op string, d time.Duration) {
	m.queryDuration.WithLabelValues(op).Observe(d.Seconds())
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus metrics HTTP handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
