// Package lifecycle owns the entity status field. Every status change goes
// through Apply, which consults a single transition table and performs the
// side effects that belong to the transition.
package lifecycle

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"kycflow/internal/onboarding/models"
	dErrors "kycflow/pkg/domain-errors"
)

// Action is an operator or system decision that may move an entity.
type Action string

const (
	// Intake.
	ActionSubmitScreening Action = "submit_screening"
	ActionRouteEDD        Action = "route_edd"
	ActionRoutePeerReview Action = "route_peer_review"
	ActionAutoApprove     Action = "auto_approve"

	// Queue decisions.
	ActionApprove             Action = "approve"
	ActionReject              Action = "reject"
	ActionRequestWaiver       Action = "request_waiver"
	ActionGrantWaiver         Action = "grant_waiver"
	ActionDenyWaiver          Action = "deny_waiver"
	ActionConfirmReview       Action = "confirm_review"
	ActionRetriggerReview     Action = "retrigger_review"
	ActionStartPeriodicReview Action = "start_periodic_review"
	ActionRequestOffboarding  Action = "request_offboarding"
	ActionConfirmOffboarding  Action = "confirm_offboarding"
)

// ErrIllegalTransition is wrapped by every rejection from Apply that is due
// to the transition table.
var ErrIllegalTransition = errors.New("illegal transition")

// IllegalTransitionError names the rejected (status, action) pair.
type IllegalTransitionError struct {
	From   models.Status
	Action Action
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal transition (%s, %s)", e.From, e.Action)
}

func (e *IllegalTransitionError) Unwrap() error { return ErrIllegalTransition }

// Command is one requested transition.
type Command struct {
	Action Action
	Reason string
}

type effect func(e *models.Entity, cmd Command, now time.Time)

type transition struct {
	to          models.Status
	needsReason bool
	effect      effect
}

var (
	approveByAnalyst effect = func(e *models.Entity, _ Command, _ time.Time) {
		e.ApprovedBy = models.ApprovedByAnalyst
	}
	approveByAgent effect = func(e *models.Entity, _ Command, _ time.Time) {
		e.ApprovedBy = models.ApprovedByAutomatedAgent
	}
	clearApproval effect = func(e *models.Entity, _ Command, _ time.Time) {
		e.ApprovedBy = models.ApprovedByNone
	}
)

var table = map[models.Status]map[Action]transition{
	models.StatusDraft: {
		ActionSubmitScreening: {to: models.StatusPendingScreening},
	},
	models.StatusPendingScreening: {
		ActionRouteEDD:        {to: models.StatusEDDReview, effect: clearApproval},
		ActionRoutePeerReview: {to: models.StatusPeerReview, effect: clearApproval},
		ActionAutoApprove:     {to: models.StatusApproved, effect: approveByAgent},
	},
	models.StatusEDDReview: {
		ActionApprove: {to: models.StatusApproved, effect: approveByAnalyst},
		ActionReject:  {to: models.StatusRejected, effect: clearApproval},
		ActionRequestWaiver: {to: models.StatusWaiverRequested, needsReason: true, effect: func(e *models.Entity, cmd Command, _ time.Time) {
			e.WaiverReason = cmd.Reason
		}},
	},
	models.StatusPeerReview: {
		ActionApprove: {to: models.StatusApproved, effect: approveByAnalyst},
		ActionReject:  {to: models.StatusRejected, effect: clearApproval},
	},
	models.StatusWaiverRequested: {
		ActionGrantWaiver: {to: models.StatusApproved, effect: approveByAnalyst},
		ActionDenyWaiver:  {to: models.StatusRejected, effect: clearApproval},
	},
	models.StatusPeriodicReview: {
		ActionConfirmReview: {to: models.StatusApproved, effect: func(e *models.Entity, _ Command, now time.Time) {
			e.ApprovedBy = models.ApprovedByAnalyst
			reviewed := now
			e.LastReviewDate = &reviewed
		}},
		ActionRetriggerReview: {to: models.StatusEDDReview, effect: clearApproval},
		ActionReject:          {to: models.StatusRejected, effect: clearApproval},
	},
	models.StatusOffboardingRequested: {
		ActionConfirmOffboarding: {to: models.StatusOffboarded},
	},
	models.StatusApproved: {
		ActionStartPeriodicReview: {to: models.StatusPeriodicReview, needsReason: true, effect: func(e *models.Entity, cmd Command, _ time.Time) {
			e.ReviewTrigger = cmd.Reason
		}},
		ActionRequestOffboarding: {to: models.StatusOffboardingRequested, needsReason: true, effect: func(e *models.Entity, cmd Command, _ time.Time) {
			e.OffboardingReason = cmd.Reason
		}},
	},
}

// Target returns the status an action leads to from a status, or an
// IllegalTransitionError.
func Target(from models.Status, action Action) (models.Status, error) {
	t, ok := table[from][action]
	if !ok {
		return "", illegal(from, action)
	}
	return t.to, nil
}

// CanApply validates a command against the entity without mutating it.
func CanApply(e *models.Entity, cmd Command) error {
	t, ok := table[e.Status][cmd.Action]
	if !ok {
		return illegal(e.Status, cmd.Action)
	}
	if t.needsReason && strings.TrimSpace(cmd.Reason) == "" {
		return dErrors.Newf(dErrors.CodeValidation, "%s requires a reason", cmd.Action)
	}
	return nil
}

// ApplyTransition performs a validated command. Call CanApply first.
func ApplyTransition(e *models.Entity, cmd Command, now time.Time) {
	t := table[e.Status][cmd.Action]
	cmd.Reason = strings.TrimSpace(cmd.Reason)
	if t.effect != nil {
		t.effect(e, cmd, now)
	}
	e.Status = t.to
	e.Touch(now)
}

// Apply validates and applies a command in one call. On error the entity is
// unchanged.
func Apply(e *models.Entity, cmd Command, now time.Time) error {
	if err := CanApply(e, cmd); err != nil {
		return err
	}
	ApplyTransition(e, cmd, now)
	return nil
}

// Available lists the actions legal from a status, sorted for stable output.
func Available(from models.Status) []Action {
	actions := make([]Action, 0, len(table[from]))
	for a := range table[from] {
		actions = append(actions, a)
	}
	slices.Sort(actions)
	return actions
}

// InitialAction routes a finalized entity: High goes to EDD, clean goes to
// automated approval unless the operator forces peer review, anything else
// goes to peer review.
func InitialAction(level models.RiskLevel, clean, forcePeerReview bool) Action {
	switch {
	case level == models.RiskHigh:
		return ActionRouteEDD
	case clean && !forcePeerReview:
		return ActionAutoApprove
	default:
		return ActionRoutePeerReview
	}
}

// ParseAction validates a downstream action name from the API. Intake
// actions are driven by the service and cannot be requested directly.
func ParseAction(s string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	switch a {
	case ActionApprove, ActionReject, ActionRequestWaiver, ActionGrantWaiver, ActionDenyWaiver,
		ActionConfirmReview, ActionRetriggerReview, ActionStartPeriodicReview,
		ActionRequestOffboarding, ActionConfirmOffboarding:
		return a, nil
	}
	return "", dErrors.Newf(dErrors.CodeValidation, "unknown action %q", s)
}

func illegal(from models.Status, action Action) error {
	return dErrors.Wrap(&IllegalTransitionError{From: from, Action: action}, dErrors.CodeIllegalTransition,
		fmt.Sprintf("cannot %s from %s", action, from))
}
