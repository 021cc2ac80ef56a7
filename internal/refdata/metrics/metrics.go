package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the reference data lookup metrics. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	Lookups *prometheus.CounterVec
}

// New creates and registers the reference data metrics.
func New() *Metrics {
	return &Metrics{
		Lookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "caseflow_refdata_lookups_total",
			Help: "Reference data lookups by resource and cache outcome",
		}, []string{"resource", "outcome"}),
	}
}

// IncrementLookup records one lookup. Outcome is hit, miss, not_found or
// error.
func (m *Metrics) IncrementLookup(resource, outcome string) {
	if m != nil {
		m.Lookups.WithLabelValues(resource, outcome).Inc()
	}
}
