// Package metrics holds the Prometheus instruments of the orders service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics. A nil *Metrics is valid and records nothing.
type Metrics struct {
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	CacheHitsTotal                 *prometheus.CounterVec
	CacheMissesTotal               *prometheus.CounterVec
	CacheErrorsTotal               *prometheus.CounterVec
	CacheInvalidationFailuresTotal prometheus.Counter

	OrderTransitionsTotal *prometheus.CounterVec
}

// New creates a Metrics instance registered on reg.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "orders"
	}
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),
		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "hits_total",
				Help:      "Total number of cache hits",
			},
			[]string{"key"},
		),
		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "misses_total",
				Help:      "Total number of cache misses",
			},
			[]string{"key"},
		),
		CacheErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "errors_total",
				Help:      "Total number of failed cache operations",
			},
			[]string{"operation"},
		),
		CacheInvalidationFailuresTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "invalidation_failures_total",
				Help:      "Total number of cache invalidations that exhausted their retries",
			},
		),
		OrderTransitionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "orders",
				Name:      "transitions_total",
				Help:      "Total number of order status transitions",
			},
			[]string{"from", "to"},
		),
	}
}

// RecordHTTPRequest records a finished HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordCacheHit records a cache hit for key.
func (m *Metrics) RecordCacheHit(key string) {
	if m == nil {
		return
	}
	m.CacheHitsTotal.WithLabelValues(key).Inc()
}

// RecordCacheMiss records a cache miss for key.
func (m *Metrics) RecordCacheMiss(key string) {
	if m == nil {
		return
	}
	m.CacheMissesTotal.WithLabelValues(key).Inc()
}

// RecordCacheError records a failed cache operation (get, set, delete).
func (m *Metrics) RecordCacheError(operation string) {
	if m == nil {
		return
	}
	m.CacheErrorsTotal.WithLabelValues(operation).Inc()
}

// RecordInvalidationFailure records an invalidation that gave up retrying.
func (m *Metrics) RecordInvalidationFailure() {
	if m == nil {
		return
	}
	m.CacheInvalidationFailuresTotal.Inc()
}

// RecordTransition records an order status transition.
func (m *Metrics) RecordTransition(from, to string) {
	if m == nil {
		return
	}
	m.OrderTransitionsTotal.WithLabelValues(from, to).Inc()
}
