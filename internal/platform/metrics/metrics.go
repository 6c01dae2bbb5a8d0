package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Command outcomes.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeRejected  = "rejected"
	OutcomeErrored   = "errored"
)

// Metrics provides observability for command handling and eviction sweeps.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Command outcomes by command name and outcome
	CommandOutcome *prometheus.CounterVec

	// Eviction cycles by outcome (completed, cancelled, errored)
	EvictionCycles *prometheus.CounterVec

	// Per-property eviction attempts by result (evicted, failed)
	EvictionAttempts *prometheus.CounterVec

	// Duration of a full eviction cycle
	EvictionCycleLatency prometheus.Histogram
}

// New creates a Metrics instance registered on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CommandOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "persona_ledger_command_outcomes_total",
			Help: "Total command outcomes by command and outcome",
		}, []string{"command", "outcome"}),

		EvictionCycles: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "persona_ledger_eviction_cycles_total",
			Help: "Total eviction cycles by outcome",
		}, []string{"outcome"}),

		EvictionAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "persona_ledger_eviction_attempts_total",
			Help: "Total per-property eviction attempts by result",
		}, []string{"result"}),

		EvictionCycleLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "persona_ledger_eviction_cycle_duration_seconds",
			Help:    "Duration of a full eviction cycle",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
}

// IncrementCommandOutcome records one handled command.
func (m *Metrics) IncrementCommandOutcome(command, outcome string) {
	if m != nil {
		m.CommandOutcome.WithLabelValues(command, outcome).Inc()
	}
}

// IncrementEvictionCycle records a finished cycle.
func (m *Metrics) IncrementEvictionCycle(outcome string) {
	if m != nil {
		m.EvictionCycles.WithLabelValues(outcome).Inc()
	}
}

// IncrementEvictionAttempt records one property eviction attempt.
func (m *Metrics) IncrementEvictionAttempt(result string) {
	if m != nil {
		m.EvictionAttempts.WithLabelValues(result).Inc()
	}
}

// ObserveEvictionCycleLatency records the duration of a cycle.
func (m *Metrics) ObserveEvictionCycleLatency(d time.Duration) {
	if m != nil {
		m.EvictionCycleLatency.Observe(d.Seconds())
	}
}
