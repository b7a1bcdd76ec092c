// Package metrics provides Prometheus metrics for the manuals service
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "manuals_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "manuals_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	PanicsRecoveredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "manuals_http_panics_recovered_total",
			Help: "Handler panics caught by the recovery middleware",
		},
		[]string{"method"},
	)

	// Export metrics
	ExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "manuals_exports_total",
			Help: "Total number of document exports",
		},
		[]string{"format", "status"},
	)

	ExportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "manuals_export_duration_seconds",
			Help:    "Time taken to build an export",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"format"},
	)

	MergeFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "manuals_translation_merge_failures_total",
			Help: "Modules whose translation could not be merged",
		},
		[]string{"module_type"},
	)

	PostProcessRulesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "manuals_postprocess_rule_applied_total",
			Help: "Times an export post-processing rule changed the output",
		},
		[]string{"rule"},
	)

	// Translation metrics
	TranslationSuggestionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "manuals_translation_suggestions_total",
			Help: "Machine translation suggestions requested",
		},
		[]string{"entity", "status"},
	)
)
