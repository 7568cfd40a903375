package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the application layer.
type Metrics struct {
	UseCaseOutcomes     *prometheus.CounterVec
	AuditPersistFailures prometheus.Counter
	InvitesSent         prometheus.Counter
	DocumentsUploaded   prometheus.Counter
}

// New creates and registers all collectors on the default registry.
func New() *Metrics {
	return &Metrics{
		UseCaseOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fellgate_usecase_outcomes_total",
			Help: "Terminal use-case outcomes by operation and result.",
		}, []string{"operation", "result"}),
		AuditPersistFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fellgate_audit_persist_failures_total",
			Help: "Audit events that could not be persisted.",
		}),
		InvitesSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fellgate_invites_sent_total",
			Help: "Organisation invitations sent, including re-invites.",
		}),
		DocumentsUploaded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fellgate_documents_uploaded_total",
			Help: "Supporting and authority documents stored.",
		}),
	}
}

// ObserveOutcome records one terminal branch of a use case.
func (m *Metrics) ObserveOutcome(operation, result string) {
	if m == nil {
		return
	}
	m.UseCaseOutcomes.WithLabelValues(operation, result).Inc()
}
