package service

import (
	"context"

	"kycflow/internal/lifecycle"
	"kycflow/internal/onboarding/models"
	id "kycflow/pkg/domain"
	"kycflow/pkg/requestcontext"
)

// Transition applies a downstream lifecycle action such as approve,
// request_waiver or confirm_offboarding. Intake actions are driven by
// RunScreening and Finalize and are rejected here.
func (s *Service) Transition(ctx context.Context, entityID id.EntityID, action, reason string) (*models.Entity, error) {
	if err := requireEntityID(entityID.IsNil()); err != nil {
		return nil, err
	}
	a, err := lifecycle.ParseAction(action)
	if err != nil {
		return nil, err
	}
	cmd := lifecycle.Command{Action: a, Reason: reason}

	now := requestcontext.Now(ctx)
	var from models.Status
	e, err := s.entities.Execute(ctx, entityID,
		func(e *models.Entity) error {
			from = e.Status
			return lifecycle.CanApply(e, cmd)
		},
		func(e *models.Entity) {
			lifecycle.ApplyTransition(e, cmd, now)
		},
	)
	if err != nil {
		return nil, wrapStoreErr(err, "transition entity")
	}

	s.logTransition(ctx, e, from, string(a), reasonFor(e, a))
	return e, nil
}

func reasonFor(e *models.Entity, a lifecycle.Action) string {
	switch a {
	case lifecycle.ActionRequestWaiver:
		return e.WaiverReason
	case lifecycle.ActionStartPeriodicReview:
		return e.ReviewTrigger
	case lifecycle.ActionRequestOffboarding:
		return e.OffboardingReason
	}
	return ""
}

// ActionsFor lists the actions an operator can request for the entity in its
// current status.
func (s *Service) ActionsFor(e *models.Entity) []lifecycle.Action {
	actions := []lifecycle.Action{}
	for _, a := range lifecycle.Available(e.Status) {
		if _, err := lifecycle.ParseAction(string(a)); err == nil {
			actions = append(actions, a)
		}
	}
	return actions
}

func (s *Service) AvailableActions(ctx context.Context, entityID id.EntityID) ([]lifecycle.Action, error) {
	e, err := s.Get(ctx, entityID)
	if err != nil {
		return nil, err
	}
	return s.ActionsFor(e), nil
}
