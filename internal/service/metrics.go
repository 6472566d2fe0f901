package service

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"stdsdb/internal/domain"
	"stdsdb/internal/etl"
	"stdsdb/internal/publish"
)

// ─────────────────────────────────────────────────────────────
// Metrics: Prometheus counters for loads, publishes and runs
// ─────────────────────────────────────────────────────────────

// Metrics owns a private Prometheus registry. All methods are safe on a nil
// receiver.
type Metrics struct {
	registry       *prometheus.Registry
	records        *prometheus.CounterVec
	filesPublished *prometheus.CounterVec
	publishErrors  *prometheus.CounterVec
	runs           *prometheus.CounterVec
	runDuration    *prometheus.HistogramVec
}

// NewMetrics registers the stdsdb collectors plus the Go runtime collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stdsdb_records_total",
			Help: "Seed records processed by table and outcome.",
		}, []string{"table", "outcome"}),
		filesPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stdsdb_files_published_total",
			Help: "Data files written by sink driver.",
		}, []string{"sink"}),
		publishErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stdsdb_publish_errors_total",
			Help: "Failed data file writes by sink driver.",
		}, []string{"sink"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stdsdb_runs_total",
			Help: "Pipeline runs by kind and final status.",
		}, []string{"kind", "status"}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stdsdb_run_duration_seconds",
			Help:    "Histogram of pipeline run durations by kind.",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
	}
	m.registry.MustRegister(
		m.records,
		m.filesPublished,
		m.publishErrors,
		m.runs,
		m.runDuration,
		collectors.NewGoCollector(),
	)
	return m
}

// Registry exposes the underlying registry for tests and custom handlers.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRecord implements etl.OutcomeObserver.
func (m *Metrics) ObserveRecord(table string, outcome etl.Outcome) {
	if m == nil {
		return
	}
	m.records.WithLabelValues(table, string(outcome)).Inc()
}

// ObserveRun counts a finished run.
func (m *Metrics) ObserveRun(kind domain.RunKind, status domain.RunStatus, d time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(string(kind), string(status)).Inc()
	m.runDuration.WithLabelValues(string(kind)).Observe(d.Seconds())
}

// WrapSink counts every Put that goes through sink.
func (m *Metrics) WrapSink(sink publish.Sink) publish.Sink {
	if m == nil {
		return sink
	}
	return &countingSink{Sink: sink, metrics: m}
}

type countingSink struct {
	publish.Sink
	metrics *Metrics
}

func (s *countingSink) Put(ctx context.Context, key string, payload []byte, contentType string) error {
	driver := string(s.Sink.Driver())
	if err := s.Sink.Put(ctx, key, payload, contentType); err != nil {
		s.metrics.publishErrors.WithLabelValues(driver).Inc()
		return err
	}
	s.metrics.filesPublished.WithLabelValues(driver).Inc()
	return nil
}
