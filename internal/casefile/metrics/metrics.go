package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the casefile module.
type Metrics struct {
	// Events appended by type
	EventsAppended *prometheus.CounterVec

	// Command outcomes by command and result
	CommandOutcome *prometheus.CounterVec

	// Command handling latency by command
	CommandLatency *prometheus.HistogramVec

	// Events replayed per load
	ReplayDepth prometheus.Histogram

	// Snapshot hits and misses on load
	SnapshotLookup *prometheus.CounterVec
}

// New creates a new Metrics instance with all casefile module metrics registered.
func New() *Metrics {
	return &Metrics{
		EventsAppended: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "caseflow_events_appended_total",
			Help: "Total events appended to case streams by event type",
		}, []string{"type"}),

		CommandOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "caseflow_command_outcomes_total",
			Help: "Total command outcomes by command and result",
		}, []string{"command", "result"}), // result: "ok", "rejected", "conflict", "error"

		CommandLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "caseflow_command_duration_seconds",
			Help:    "Duration of command handling including load, decide and append",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"command"}),

		ReplayDepth: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "caseflow_replay_events_per_load",
			Help:    "Events replayed per aggregate load after snapshot",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),

		SnapshotLookup: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "caseflow_snapshot_lookups_total",
			Help: "Snapshot lookups on aggregate load by result",
		}, []string{"result"}), // result: "hit", "miss", "error"
	}
}

// IncrementEventAppended records one appended event of the given type.
func (m *Metrics) IncrementEventAppended(eventType string) {
	if m != nil {
		m.EventsAppended.WithLabelValues(eventType).Inc()
	}
}

// IncrementCommandOutcome records a command result.
func (m *Metrics) IncrementCommandOutcome(command, result string) {
	if m != nil {
		m.CommandOutcome.WithLabelValues(command, result).Inc()
	}
}

// ObserveCommandLatency records the duration of one command.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveCommandLatency(command string, start time.Time) {
	if m != nil {
		m.CommandLatency.WithLabelValues(command).Observe(time.Since(start).Seconds())
	}
}

// ObserveReplayDepth records how many events a load replayed.
func (m *Metrics) ObserveReplayDepth(n int) {
	if m != nil {
		m.ReplayDepth.Observe(float64(n))
	}
}

// IncrementSnapshotLookup records a snapshot lookup result.
func (m *Metrics) IncrementSnapshotLookup(result string) {
	if m != nil {
		m.SnapshotLookup.WithLabelValues(result).Inc()
	}
}
