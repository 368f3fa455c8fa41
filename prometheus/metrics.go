// Package prometheus exports scrape metrics with the Prometheus client.
package prometheus

import (
	"context"
	"net/http"
	"time"

	"github.com/fwojciec/dossier"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values of dossier_scrapes_total.
const (
	OutcomeSuccess = "success"
	OutcomeCached  = "cached"
	OutcomeFailed  = "failed"
	OutcomeInvalid = "invalid"
)

var _ dossier.Scraper = (*MetricsScraper)(nil)

// Metrics holds the collectors shared by instrumented components.
type Metrics struct {
	registry *prometheus.Registry

	scrapes          *prometheus.CounterVec
	duration         prometheus.Histogram
	profiles         prometheus.Counter
	strategyFailures *prometheus.CounterVec
}

// NewMetrics registers the dossier collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		scrapes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dossier_scrapes_total",
			Help: "Scrape requests by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dossier_scrape_duration_seconds",
			Help:    "Wall-clock duration of scrape requests.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		profiles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dossier_profiles_resolved_total",
			Help: "Resolved profiles returned to callers.",
		}),
		strategyFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dossier_strategy_failures_total",
			Help: "Extraction strategy failures by strategy.",
		}, []string{"strategy"}),
	}
	m.registry.MustRegister(m.scrapes, m.duration, m.profiles, m.strategyFailures)
	return m
}

// Registry returns the registry holding the dossier collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the collected metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observe(result *dossier.ScrapeResult, err error, elapsed time.Duration) {
	m.duration.Observe(elapsed.Seconds())
	switch {
	case err != nil:
		m.scrapes.WithLabelValues(OutcomeInvalid).Inc()
		return
	case !result.Success:
		m.scrapes.WithLabelValues(OutcomeFailed).Inc()
	case result.Diagnostics.Cached:
		m.scrapes.WithLabelValues(OutcomeCached).Inc()
	default:
		m.scrapes.WithLabelValues(OutcomeSuccess).Inc()
	}
	m.profiles.Add(float64(len(result.Profiles)))
	for _, s := range result.Diagnostics.StrategiesFailed {
		m.strategyFailures.WithLabelValues(s).Inc()
	}
}

// MetricsScraper wraps a Scraper and records every request.
type MetricsScraper struct {
	next    dossier.Scraper
	metrics *Metrics
}

// NewMetricsScraper creates a new MetricsScraper.
func NewMetricsScraper(next dossier.Scraper, metrics *Metrics) *MetricsScraper {
	return &MetricsScraper{next: next, metrics: metrics}
}

// Scrape delegates to the wrapped scraper and records the outcome.
func (s *MetricsScraper) Scrape(ctx context.Context, req dossier.ScrapeRequest) (*dossier.ScrapeResult, error) {
	begin := time.Now()
	result, err := s.next.Scrape(ctx, req)
	s.metrics.observe(result, err, time.Since(begin))
	return result, err
}
