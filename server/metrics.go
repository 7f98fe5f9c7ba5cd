package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus instrumentation for the report pipeline.
type Metrics struct {
	registry *prometheus.Registry

	// ReportsTotal counts processed report submissions by outcome:
	// ok, validation_error, resolution_error, drift_error, bad_request.
	ReportsTotal *prometheus.CounterVec

	// ProcessDuration observes end-to-end pipeline latency in seconds.
	ProcessDuration prometheus.Histogram

	// KBSystems and KBOrganizations track the size of the current
	// knowledge base index.
	KBSystems       prometheus.Gauge
	KBOrganizations prometheus.Gauge
}

// NewMetrics creates and registers the pipeline metrics on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: registry,
		ReportsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aifr",
			Name:      "reports_total",
			Help:      "Processed flaw report submissions by outcome.",
		}, []string{"outcome"}),
		ProcessDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "aifr",
			Name:      "report_process_duration_seconds",
			Help:      "End-to-end report pipeline latency.",
			Buckets:   prometheus.DefBuckets,
		}),
		KBSystems: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "aifr",
			Name:      "kb_systems",
			Help:      "AI systems in the current knowledge base index.",
		}),
		KBOrganizations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "aifr",
			Name:      "kb_organizations",
			Help:      "Organizations in the current knowledge base index.",
		}),
	}

	registry.MustRegister(m.ReportsTotal, m.ProcessDuration, m.KBSystems, m.KBOrganizations)
	return m
}

// Handler returns the /metrics endpoint handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
