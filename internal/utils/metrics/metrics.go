package metrics

import (
	"time"

	"github.com/homerent/server/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Subscription metrics
	TransitionsTotal *prometheus.CounterVec
	SweepRunsTotal   *prometheus.CounterVec
	SweepItemsTotal  *prometheus.CounterVec
	SweepDuration    *prometheus.HistogramVec

	// Notification metrics
	EmailsTotal *prometheus.CounterVec

	// Cache metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec
}

// New creates a new Metrics instance registered with the default registry.
func New(namespace string) *Metrics {
	return NewWithRegistry(namespace, prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a new Metrics instance registered with reg.
func NewWithRegistry(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "homerent"
	}
	factory := promauto.With(reg)

	return &Metrics{
		// HTTP metrics
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
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
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

		// Subscription metrics
		TransitionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "subscription",
				Name:      "transitions_total",
				Help:      "Total number of recorded subscription lifecycle transitions",
			},
			[]string{"action"},
		),
		SweepRunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "sweeper",
				Name:      "runs_total",
				Help:      "Total number of sweeper runs",
			},
			[]string{"job", "outcome"}, // outcome: ok, partial
		),
		SweepItemsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "sweeper",
				Name:      "items_total",
				Help:      "Total number of subscriptions processed by sweeps",
			},
			[]string{"job", "result"}, // result: succeeded, skipped, failed
		),
		SweepDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "sweeper",
				Name:      "duration_seconds",
				Help:      "Sweeper run duration in seconds",
				Buckets:   []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60, 300},
			},
			[]string{"job"},
		),

		// Notification metrics
		EmailsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "email",
				Name:      "sent_total",
				Help:      "Total number of notification emails by outcome",
			},
			[]string{"template", "outcome"}, // outcome: sent, failed, rejected
		),

		// Cache metrics
		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "hits_total",
				Help:      "Total number of cache hits",
			},
			[]string{"cache"},
		),
		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "misses_total",
				Help:      "Total number of cache misses",
			},
			[]string{"cache"},
		),
	}
}

// --- Convenience methods ---

// RecordHTTPRequest records an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	statusStr := statusCodeToString(status)
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveTransition records a subscription lifecycle transition.
func (m *Metrics) ObserveTransition(action model.HistoryAction) {
	m.TransitionsTotal.WithLabelValues(action.String()).Inc()
}

// ObserveSweep records the outcome of a sweeper run.
func (m *Metrics) ObserveSweep(result *model.SweepResult) {
	outcome := "ok"
	if result.Failed > 0 {
		outcome = "partial"
	}
	m.SweepRunsTotal.WithLabelValues(result.Job, outcome).Inc()
	m.SweepItemsTotal.WithLabelValues(result.Job, "succeeded").Add(float64(result.Succeeded))
	m.SweepItemsTotal.WithLabelValues(result.Job, "skipped").Add(float64(result.Skipped))
	m.SweepItemsTotal.WithLabelValues(result.Job, "failed").Add(float64(result.Failed))
	m.SweepDuration.WithLabelValues(result.Job).Observe(result.Duration.Seconds())
}

// RecordEmail records a notification email attempt.
func (m *Metrics) RecordEmail(template, outcome string) {
	m.EmailsTotal.WithLabelValues(template, outcome).Inc()
}

// RecordCacheHit records a cache hit.
func (m *Metrics) RecordCacheHit(cache string) {
	m.CacheHitsTotal.WithLabelValues(cache).Inc()
}

// RecordCacheMiss records a cache miss.
func (m *Metrics) RecordCacheMiss(cache string) {
	m.CacheMissesTotal.WithLabelValues(cache).Inc()
}

// statusCodeToString converts an HTTP status code to a string category.
func statusCodeToString(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}
