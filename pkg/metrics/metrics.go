// Package metrics exposes the explainer's Prometheus instruments.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeRejected      = "rejected"
	OutcomeGraphAnswered = "graph_answered"
	OutcomeWebFallback   = "web_fallback"
	OutcomeNoInformation = "no_information"
)

var (
	// QueriesTotal counts finished query cycles by terminal outcome.
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cpf_explainer_queries_total",
			Help: "Total number of questions answered, by outcome",
		},
		[]string{"outcome"},
	)

	// StageDuration spans embedding lookups through LLM generation, hence
	// the wide buckets.
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cpf_explainer_stage_duration_seconds",
			Help:    "Duration of each pipeline stage in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"stage"},
	)

	SchemaTerms = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cpf_explainer_schema_terms",
			Help: "Number of indexed schema terms, by kind",
		},
		[]string{"kind"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cpf_explainer_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)
)

/*
Stage starts timing a pipeline stage; call the returned func when it ends.
*/
func Stage(name string) func() {
	start := time.Now()

	return func() {
		StageDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}
}
