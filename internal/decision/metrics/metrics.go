// Package metrics instruments the access decision path.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values for the decisions counter.
const (
	OutcomeGranted    = "granted"
	OutcomeDenied     = "denied"
	OutcomeUnresolved = "unresolved"
	OutcomeError      = "error"
)

// Metrics holds the decision path collectors.
type Metrics struct {
	Decisions       *prometheus.CounterVec
	EvaluateLatency prometheus.Histogram
	AuditFailures   prometheus.Counter
}

// New creates and registers the decision path metrics.
func New() *Metrics {
	return &Metrics{
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "aforo_access_decisions_total",
			Help: "Access decisions by outcome",
		}, []string{"outcome"}),
		EvaluateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "aforo_access_evaluate_seconds",
			Help:    "Latency of the full decision procedure",
			Buckets: prometheus.DefBuckets,
		}),
		AuditFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aforo_access_audit_failures_total",
			Help: "Audit entries that could not be persisted",
		}),
	}
}
