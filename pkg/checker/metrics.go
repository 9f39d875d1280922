package checker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	validationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ncqc_validation_duration_seconds",
			Help:    "Duration of a complete validation run in seconds",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 10, 30, 60},
		},
	)

	validationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ncqc_validation_total",
			Help: "Total number of validation runs",
		},
		[]string{"status"}, // pass, fail or aborted
	)

	findingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ncqc_findings_total",
			Help: "Total number of validation findings",
		},
		[]string{"severity"}, // error or warning
	)
)
