package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics handles application metrics and monitoring
type Metrics struct {
	registry *prometheus.Registry

	cyclesTotal      *prometheus.CounterVec
	cycleDuration    prometheus.Histogram
	pagesFetched     prometheus.Counter
	recordsFetched   prometheus.Counter
	recordsProcessed *prometheus.CounterVec
	writeDuration    prometheus.Histogram
}

// NewMetrics creates a new metrics instance backed by its own registry
func NewMetrics(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		cyclesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_cycles_total",
			Help:      "Number of completed sync cycles by status.",
		}, []string{"status"}),
		cycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sync_cycle_duration_seconds",
			Help:      "Duration of a full sync cycle.",
			Buckets:   prometheus.DefBuckets,
		}),
		pagesFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_pages_fetched_total",
			Help:      "Number of feed pages fetched.",
		}),
		recordsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_records_fetched_total",
			Help:      "Number of records returned by the feed.",
		}),
		recordsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_processed_total",
			Help:      "Number of records written to the graph by status.",
		}, []string{"status"}),
		writeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "graph_write_duration_seconds",
			Help:      "Duration of a single record's write transaction.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	registry.MustRegister(
		m.cyclesTotal,
		m.cycleDuration,
		m.pagesFetched,
		m.recordsFetched,
		m.recordsProcessed,
		m.writeDuration,
	)

	return m
}

// Registry exposes the underlying registry for the metrics endpoint
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordCycle records the outcome and duration of one sync cycle
func (m *Metrics) RecordCycle(duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.cyclesTotal.WithLabelValues(status).Inc()
	m.cycleDuration.Observe(duration.Seconds())
}

// RecordFetch records one fetched page and the records it carried
func (m *Metrics) RecordFetch(records int) {
	m.pagesFetched.Inc()
	m.recordsFetched.Add(float64(records))
}

// RecordWrite records the outcome and duration of one record's transaction
func (m *Metrics) RecordWrite(duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.recordsProcessed.WithLabelValues(status).Inc()
	m.writeDuration.Observe(duration.Seconds())
}
