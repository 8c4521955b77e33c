package stateless

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

const (
	// MetricsSubsystem is a subsystem shared by all metrics exposed by this
	// package.
	MetricsSubsystem = "client"
)

// Metrics contains metrics exposed by this package.
type Metrics struct {
	// Number of responses that passed attestation verification.
	VerifiedResponses metrics.Counter
	// Number of responses rejected for missing the attestation threshold.
	RejectedResponses metrics.Counter
	// Number of calls whose state was proven before the call was trusted.
	ProofVerifications metrics.Counter
	// Number of calls aborted by a failed state proof.
	ProofFailures metrics.Counter
	// Time spent serving a request, verification included.
	RequestDurationSeconds metrics.Histogram
}

// PrometheusMetrics returns Metrics built using Prometheus client library.
// Optionally, labels can be provided along with their values ("foo",
// "fooValue").
func PrometheusMetrics(namespace string, labelsAndValues ...string) *Metrics {
	labels := []string{}
	for i := 0; i < len(labelsAndValues); i += 2 {
		labels = append(labels, labelsAndValues[i])
	}
	return &Metrics{
		VerifiedResponses: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "verified_responses",
			Help:      "Number of responses that passed attestation verification.",
		}, labels).With(labelsAndValues...),
		RejectedResponses: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "rejected_responses",
			Help:      "Number of responses rejected for missing the attestation threshold.",
		}, labels).With(labelsAndValues...),
		ProofVerifications: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "proof_verifications",
			Help:      "Number of calls whose state was proven before the call was trusted.",
		}, labels).With(labelsAndValues...),
		ProofFailures: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "proof_failures",
			Help:      "Number of calls aborted by a failed state proof.",
		}, labels).With(labelsAndValues...),
		RequestDurationSeconds: prometheus.NewHistogramFrom(stdprometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "request_duration_seconds",
			Help:      "Time spent serving a request, verification included.",
		}, labels).With(labelsAndValues...),
	}
}

// NopMetrics returns no-op Metrics.
func NopMetrics() *Metrics {
	return &Metrics{
		VerifiedResponses:      discard.NewCounter(),
		RejectedResponses:      discard.NewCounter(),
		ProofVerifications:     discard.NewCounter(),
		ProofFailures:          discard.NewCounter(),
		RequestDurationSeconds: discard.NewHistogram(),
	}
}
