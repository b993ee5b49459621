package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the onboarding module. All methods are
// safe on a nil receiver.
type Metrics struct {
	EntitiesCreated prometheus.Counter

	// Lifecycle transitions by source status, target status and action
	Transitions *prometheus.CounterVec

	// Forensic verdicts: verified or flagged
	DocumentVerdicts *prometheus.CounterVec

	// Routing outcome after screening finalization
	Routing *prometheus.CounterVec

	// Collaborator calls by collaborator and result source
	CollaboratorLatency *prometheus.HistogramVec
}

// New creates a Metrics instance registered with the default registry.
func New() *Metrics {
	return &Metrics{
		EntitiesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "kycflow_entities_created_total",
			Help: "Total number of entities created",
		}),

		Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kycflow_lifecycle_transitions_total",
			Help: "Lifecycle transitions by from, to and action",
		}, []string{"from", "to", "action"}),

		DocumentVerdicts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kycflow_document_verdicts_total",
			Help: "Forensic document verdicts",
		}, []string{"verdict"}),

		Routing: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "kycflow_screening_routing_total",
			Help: "Queue chosen when screening is finalized",
		}, []string{"queue"}),

		CollaboratorLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kycflow_collaborator_duration_seconds",
			Help:    "Duration of collaborator calls by collaborator and result source",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"collaborator", "source"}),
	}
}

func (m *Metrics) IncrementEntitiesCreated() {
	if m != nil {
		m.EntitiesCreated.Inc()
	}
}

func (m *Metrics) IncrementTransition(from, to, action string) {
	if m != nil {
		m.Transitions.WithLabelValues(from, to, action).Inc()
	}
}

func (m *Metrics) IncrementDocumentVerdict(verdict string) {
	if m != nil {
		m.DocumentVerdicts.WithLabelValues(verdict).Inc()
	}
}

func (m *Metrics) IncrementRouting(queue string) {
	if m != nil {
		m.Routing.WithLabelValues(queue).Inc()
	}
}

// ObserveCollaboratorCall satisfies collaborators.Observer.
func (m *Metrics) ObserveCollaboratorCall(collaborator, source string, d time.Duration) {
	if m != nil {
		m.CollaboratorLatency.WithLabelValues(collaborator, source).Observe(d.Seconds())
	}
}
