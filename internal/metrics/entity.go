package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// EntityMetrics counts entity writes and rejected payloads per resource.
type EntityMetrics struct {
	writes     *prometheus.CounterVec
	violations *prometheus.CounterVec
}

// NewEntityMetrics registers the entity metrics on the provided registerer.
// A nil registerer yields a no-op collector.
func NewEntityMetrics(reg prometheus.Registerer) *EntityMetrics {
	if reg == nil {
		return &EntityMetrics{}
	}
	writes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "usersdb",
		Name:      "entity_writes_total",
		Help:      "Committed entity writes by resource and operation.",
	}, []string{"resource", "op"})
	violations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "usersdb",
		Name:      "validation_failures_total",
		Help:      "Payloads rejected by validation, by resource.",
	}, []string{"resource"})
	reg.MustRegister(writes, violations)
	return &EntityMetrics{
		writes:     writes,
		violations: violations,
	}
}

// IncWrite increments the write counter for resource and op (create, update, delete).
func (m *EntityMetrics) IncWrite(resource, op string) {
	if m == nil || m.writes == nil {
		return
	}
	m.writes.WithLabelValues(normalizeLabel(resource), normalizeLabel(op)).Inc()
}

// IncViolation increments the validation failure counter for resource.
func (m *EntityMetrics) IncViolation(resource string) {
	if m == nil || m.violations == nil {
		return
	}
	m.violations.WithLabelValues(normalizeLabel(resource)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
