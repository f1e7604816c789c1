// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// WizardTransitions counts wizard operations by outcome (ok, error or a
	// validation reason).
	WizardTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradewinds_wizard_transitions_total",
			Help: "Inquiry wizard operations by outcome",
		},
		[]string{"op", "outcome"},
	)
	InquirySessions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradewinds_inquiry_sessions_total",
			Help: "Inquiry sessions by lifecycle event",
		},
		[]string{"event"},
	)
	ConciergeSends = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradewinds_concierge_sends_total",
			Help: "Concierge messages by outcome",
		},
		[]string{"outcome"},
	)
	ProviderLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tradewinds_provider_latency_seconds",
			Help:    "Latency of generative provider calls",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
		},
	)
	AuthTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tradewinds_concierge_auth_total",
			Help: "Concierge credential validations by resulting state",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(WizardTransitions, InquirySessions, ConciergeSends, ProviderLatency, AuthTransitions)
}
