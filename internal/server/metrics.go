package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics are the server's Prometheus collectors. Each server owns its
// registry so several servers can live in one process.
type Metrics struct {
	registry       *prometheus.Registry
	SessionsActive prometheus.Gauge
	Edits          *prometheus.CounterVec
	Conversions    *prometheus.CounterVec
	DFAStates      prometheus.Histogram
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		SessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "nfa2dfa_sessions_active",
			Help: "Number of live editing sessions",
		}),
		Edits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nfa2dfa_edits_total",
				Help: "Total number of successful edits",
			},
			[]string{"op"},
		),
		Conversions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nfa2dfa_conversions_total",
				Help: "Total number of conversion requests",
			},
			[]string{"result"},
		),
		DFAStates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "nfa2dfa_dfa_states",
			Help:    "Number of states in converted automata",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
	m.registry.MustRegister(
		m.SessionsActive,
		m.Edits,
		m.Conversions,
		m.DFAStates,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
