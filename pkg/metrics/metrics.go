// Package metrics defines the Prometheus collectors of an analyzer run and
// exposes them over HTTP or pushes them to a Pushgateway when the run ends.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for a run.
type Metrics struct {
	DocumentsIngestedTotal prometheus.Counter
	TokensTotal            prometheus.Counter
	UniqueTerms            prometheus.Gauge
	PhaseDuration          *prometheus.HistogramVec
	ExportTotal            *prometheus.CounterVec

	registry *prometheus.Registry
}

// New creates the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		DocumentsIngestedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "tfidf_documents_ingested_total",
				Help: "Total documents folded into the corpus statistics.",
			},
		),
		TokensTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "tfidf_tokens_total",
				Help: "Total tokens produced by the tokenizer.",
			},
		),
		UniqueTerms: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "tfidf_unique_terms",
				Help: "Distinct terms observed across the corpus.",
			},
		),
		PhaseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tfidf_phase_duration_seconds",
				Help:    "Duration of each pipeline phase in seconds.",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 15, 60, 300},
			},
			[]string{"phase"},
		),
		ExportTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tfidf_export_total",
				Help: "Export attempts by sink and status.",
			},
			[]string{"sink", "status"},
		),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.DocumentsIngestedTotal,
		m.TokensTotal,
		m.UniqueTerms,
		m.PhaseDuration,
		m.ExportTotal,
	)

	return m
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus scrape HTTP handler for this run.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
