package service

import (
	"context"

	"kycflow/internal/collaborators/risk"
	"kycflow/internal/lifecycle"
	"kycflow/internal/onboarding/models"
	"kycflow/internal/screening"
	id "kycflow/pkg/domain"
	dErrors "kycflow/pkg/domain-errors"
	audit "kycflow/pkg/platform/audit"
	"kycflow/pkg/requestcontext"
)

// Decision is the result of finalizing screening.
type Decision struct {
	Entity  *models.Entity    `json:"entity"`
	Outcome screening.Outcome `json:"outcome"`
	Action  lifecycle.Action  `json:"action"`
}

// canSubmitScreening is the Draft exit check: the documents gate plus a legal
// submit_screening transition.
func canSubmitScreening(e *models.Entity) error {
	if err := lifecycle.CanApply(e, lifecycle.Command{Action: lifecycle.ActionSubmitScreening}); err != nil {
		return err
	}
	return e.DocumentsComplete()
}

// RunScreening sends the entity to risk analysis and records the result,
// moving the entity to PendingScreening. The analysis runs outside the store
// lock, so the gate is checked again before the result is written.
func (s *Service) RunScreening(ctx context.Context, entityID id.EntityID) (*models.Entity, error) {
	current, err := s.Get(ctx, entityID)
	if err != nil {
		return nil, err
	}
	if err := canSubmitScreening(current); err != nil {
		return nil, err
	}

	assessment, err := s.risk.Analyze(ctx, risk.Request{
		EntityName: current.Name,
		EntityType: current.Type,
		Attributes: current.Attributes.Clone(),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "risk analysis failed, using fallback assessment",
			"request_id", requestcontext.RequestID(ctx),
			"entity_id", entityID.String(),
			"error", err,
		)
		assessment = risk.Fallback()
	}

	now := requestcontext.Now(ctx)
	from := current.Status
	e, err := s.entities.Execute(ctx, entityID,
		canSubmitScreening,
		func(e *models.Entity) {
			screening.Ingest(e, assessment)
			lifecycle.ApplyTransition(e, lifecycle.Command{Action: lifecycle.ActionSubmitScreening}, now)
		},
	)
	if err != nil {
		return nil, wrapStoreErr(err, "record screening")
	}

	s.logAudit(ctx, audit.EventScreeningIngested, e, func(ev *audit.Event) {
		ev.Subject = string(e.RiskLevel)
		ev.Reason = e.Screening.Summary
	})
	s.logTransition(ctx, e, from, string(lifecycle.ActionSubmitScreening), "")
	return e, nil
}

// DispositionHit records the operator's outcome for one screening hit.
func (s *Service) DispositionHit(ctx context.Context, entityID id.EntityID, hitID id.HitID, outcome models.HitStatus) (*models.Entity, error) {
	if err := requireEntityID(entityID.IsNil()); err != nil {
		return nil, err
	}
	if hitID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "hit id is required")
	}
	now := requestcontext.Now(ctx)
	var from models.HitStatus
	e, err := s.entities.Execute(ctx, entityID,
		func(e *models.Entity) error {
			return screening.CanDisposition(e, hitID, outcome)
		},
		func(e *models.Entity) {
			if hit, err := e.Hit(hitID); err == nil {
				from = hit.Status
			}
			screening.ApplyDisposition(e, hitID, outcome)
			e.Touch(now)
		},
	)
	if err != nil {
		return nil, wrapStoreErr(err, "disposition hit")
	}

	hit, _ := e.Hit(hitID)
	s.logAudit(ctx, audit.EventHitDispositioned, e, func(ev *audit.Event) {
		ev.Subject = hit.Name
		ev.From = string(from)
		ev.To = string(outcome)
	})
	return e, nil
}

// Finalize computes the final risk determination and routes the entity: High
// to EDD, clean to automated approval, anything else to peer review. Setting
// forcePeerReview sends clean entities to peer review instead.
func (s *Service) Finalize(ctx context.Context, entityID id.EntityID, forcePeerReview bool) (*Decision, error) {
	if err := requireEntityID(entityID.IsNil()); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	var (
		outcome screening.Outcome
		action  lifecycle.Action
		from    models.Status
	)
	e, err := s.entities.Execute(ctx, entityID,
		func(e *models.Entity) error {
			if e.Status != models.StatusPendingScreening {
				return lifecycle.CanApply(e, lifecycle.Command{Action: lifecycle.ActionRoutePeerReview})
			}
			if err := e.DocumentsComplete(); err != nil {
				return err
			}
			out, err := screening.Finalize(e)
			if err != nil {
				return err
			}
			outcome = out
			action = lifecycle.InitialAction(out.RiskLevel, out.Clean, forcePeerReview)
			from = e.Status
			return lifecycle.CanApply(e, lifecycle.Command{Action: action})
		},
		func(e *models.Entity) {
			screening.ApplyOutcome(e, outcome)
			lifecycle.ApplyTransition(e, lifecycle.Command{Action: action}, now)
		},
	)
	if err != nil {
		return nil, wrapStoreErr(err, "finalize screening")
	}

	s.metrics.IncrementRouting(string(e.Status))
	s.logAudit(ctx, audit.EventScreeningFinalized, e, func(ev *audit.Event) {
		ev.Subject = string(outcome.RiskLevel)
		ev.Decision = outcome.Hint
	})
	s.logTransition(ctx, e, from, string(action), "")
	return &Decision{Entity: e, Outcome: outcome, Action: action}, nil
}
