package payout

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

const (
	// MetricsSubsystem is a subsystem shared by all metrics exposed by this
	// package.
	MetricsSubsystem = "payout"
)

// Metrics contains metrics exposed by this package.
type Metrics struct {
	// Number of batches that reached the requested commitment.
	BatchesFulfilled metrics.Counter
	// Number of batches that failed permanently.
	BatchesRejected metrics.Counter
	// Number of submission retries across all batches.
	SubmissionRetries metrics.Counter
	// Reconciliations that found the transaction finalized.
	ReconcileFinalized metrics.Counter
	// Reconciliations that found the transaction not finalized.
	ReconcileNotFinalized metrics.Counter
	// Reconciliations where the status lookup itself failed.
	ReconcileUnknown metrics.Counter
	// Time to drive one batch to a terminal outcome.
	SubmitSeconds metrics.Histogram
}

// PrometheusMetrics returns Metrics built using the Prometheus client
// library. Optionally, labels can be provided along with their values
// ("foo", "fooValue").
func PrometheusMetrics(namespace string, labelsAndValues ...string) *Metrics {
	labels := []string{}
	for i := 0; i < len(labelsAndValues); i += 2 {
		labels = append(labels, labelsAndValues[i])
	}
	return &Metrics{
		BatchesFulfilled: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "batches_fulfilled_total",
			Help:      "Number of batches that reached the requested commitment.",
		}, labels).With(labelsAndValues...),
		BatchesRejected: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "batches_rejected_total",
			Help:      "Number of batches that failed permanently.",
		}, labels).With(labelsAndValues...),
		SubmissionRetries: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "submission_retries_total",
			Help:      "Number of submission retries across all batches.",
		}, labels).With(labelsAndValues...),
		ReconcileFinalized: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "reconcile_finalized_total",
			Help:      "Reconciliations that found the transaction finalized.",
		}, labels).With(labelsAndValues...),
		ReconcileNotFinalized: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "reconcile_not_finalized_total",
			Help:      "Reconciliations that found the transaction not finalized.",
		}, labels).With(labelsAndValues...),
		ReconcileUnknown: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "reconcile_unknown_total",
			Help:      "Reconciliations where the status lookup itself failed.",
		}, labels).With(labelsAndValues...),
		SubmitSeconds: prometheus.NewHistogramFrom(stdprometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "submit_seconds",
			Help:      "Time to drive one batch to a terminal outcome.",
			Buckets:   stdprometheus.ExponentialBuckets(0.1, 2, 12),
		}, labels).With(labelsAndValues...),
	}
}

// NopMetrics returns no-op Metrics.
func NopMetrics() *Metrics {
	return &Metrics{
		BatchesFulfilled:      discard.NewCounter(),
		BatchesRejected:       discard.NewCounter(),
		SubmissionRetries:     discard.NewCounter(),
		ReconcileFinalized:    discard.NewCounter(),
		ReconcileNotFinalized: discard.NewCounter(),
		ReconcileUnknown:      discard.NewCounter(),
		SubmitSeconds:         discard.NewHistogram(),
	}
}
