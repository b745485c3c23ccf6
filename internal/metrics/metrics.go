// Package metrics exposes Prometheus collectors for the extraction run.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Page status label values.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Metrics holds the collectors registered for one run.
type Metrics struct {
	registry       *prometheus.Registry
	pagesTotal     *prometheus.CounterVec
	fetchAttempts  prometheus.Counter
	rateLimitRetry prometheus.Counter
	backoffSeconds prometheus.Histogram
	activeWorkers  prometheus.Gauge
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		pagesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "store_pages_total",
				Help: "Total number of store pages processed, labeled by outcome.",
			},
			[]string{"status"},
		),
		fetchAttempts: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "store_fetch_attempts_total",
				Help: "Total number of HTTP attempts made for store pages.",
			},
		),
		rateLimitRetry: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "store_rate_limit_retries_total",
				Help: "Total number of retries scheduled after a 429 response.",
			},
		),
		backoffSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "store_backoff_seconds",
				Help:    "Histogram of backoff waits before retrying a rate-limited page.",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40},
			},
		),
		activeWorkers: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "store_active_workers",
				Help: "Number of workers currently processing a store page.",
			},
		),
	}
}

// Handler returns an http.Handler exposing this run's collectors.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObservePage counts one finished page.
func (m *Metrics) ObservePage(status string) {
	m.pagesTotal.WithLabelValues(status).Inc()
}

// ObserveAttempt counts one HTTP attempt.
func (m *Metrics) ObserveAttempt() {
	m.fetchAttempts.Inc()
}

// ObserveRetry records a scheduled retry and its wait.
func (m *Metrics) ObserveRetry(delay time.Duration) {
	m.rateLimitRetry.Inc()
	m.backoffSeconds.Observe(delay.Seconds())
}

// IncActiveWorkers increments the active workers gauge.
func (m *Metrics) IncActiveWorkers() {
	m.activeWorkers.Inc()
}

// DecActiveWorkers decrements the active workers gauge.
func (m *Metrics) DecActiveWorkers() {
	m.activeWorkers.Dec()
}
