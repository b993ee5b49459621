package service

import (
	"context"

	"kycflow/internal/onboarding/models"
	audit "kycflow/pkg/platform/audit"
	"kycflow/pkg/requestcontext"
)

// logAudit writes the structured log line and publishes the audit event.
// Publishing failures are logged; they never fail the operation.
func (s *Service) logAudit(ctx context.Context, event audit.AuditEvent, e *models.Entity, fill func(*audit.Event)) {
	ev := audit.Event{
		Category:  event.Category(),
		Timestamp: requestcontext.Now(ctx),
		EntityID:  e.ID,
		Action:    string(event),
		ActorID:   requestcontext.Operator(ctx),
		RequestID: requestcontext.RequestID(ctx),
	}
	if fill != nil {
		fill(&ev)
	}

	s.logger.InfoContext(ctx, string(event),
		"request_id", ev.RequestID,
		"entity_id", e.ID.String(),
		"actor", ev.ActorID,
		"from", ev.From,
		"to", ev.To,
		"subject", ev.Subject,
		"log_type", "audit",
	)
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, ev); err != nil {
		s.logger.WarnContext(ctx, "failed to publish audit event",
			"request_id", ev.RequestID,
			"action", ev.Action,
			"error", err,
		)
	}
}

func (s *Service) logTransition(ctx context.Context, e *models.Entity, from models.Status, action, reason string) {
	s.metrics.IncrementTransition(string(from), string(e.Status), action)
	s.logAudit(ctx, audit.EventStatusChanged, e, func(ev *audit.Event) {
		ev.From = string(from)
		ev.To = string(e.Status)
		ev.Decision = action
		ev.Reason = reason
	})
}
