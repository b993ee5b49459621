package models

import (
	"strings"
	"time"

	id "kycflow/pkg/domain"
	dErrors "kycflow/pkg/domain-errors"
)

// Entity is the aggregate root for one onboarding applicant.
//
// Invariants:
//   - ID, Type and CreatedAt never change after construction
//   - Documents are unique by Name
//   - ApprovedBy is set only by a transition into Approved and survives
//     the exits to PeriodicReview and OffboardingRequested
//   - Attributes[AttrName] mirrors Name
//
// Status is owned by the lifecycle package; nothing else assigns it.
type Entity struct {
	ID                id.EntityID           `json:"id"`
	Type              EntityType            `json:"type"`
	Name              string                `json:"name"`
	Attributes        Attributes            `json:"attributes"`
	Documents         []DocumentRequirement `json:"documents"`
	RiskScore         int                   `json:"risk_score"`
	RiskLevel         RiskLevel             `json:"risk_level,omitempty"`
	RiskFactors       []RiskFactor          `json:"risk_factors"`
	Screening         *ScreeningResult      `json:"screening_result,omitempty"`
	EnrichedSummary   string                `json:"enriched_summary,omitempty"`
	Status            Status                `json:"status"`
	ApprovedBy        ApprovedBy            `json:"approved_by,omitempty"`
	WaiverReason      string                `json:"waiver_reason,omitempty"`
	OffboardingReason string                `json:"offboarding_reason,omitempty"`
	ReviewTrigger     string                `json:"review_trigger,omitempty"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
	LastReviewDate    *time.Time            `json:"last_review_date,omitempty"`
	Version           int                   `json:"version"`
}

// RiskFactor is one contributor to the risk score.
type RiskFactor struct {
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Score       int       `json:"score"`
	Severity    RiskLevel `json:"severity"`
}

// ScreeningResult is the sanctions/PEP/adverse-media outcome.
type ScreeningResult struct {
	SanctionsHit      bool           `json:"sanctions_hit"`
	PEPStatus         bool           `json:"pep_status"`
	AdverseMediaFound bool           `json:"adverse_media_found"`
	Summary           string         `json:"summary"`
	Hits              []ScreeningHit `json:"hits"`
}

// ScreeningHit is one candidate match awaiting disposition.
type ScreeningHit struct {
	ID          id.HitID  `json:"id"`
	Name        string    `json:"name"`
	Type        HitType   `json:"type"`
	Score       int       `json:"score"`
	Description string    `json:"description"`
	ListSource  string    `json:"list_source"`
	Status      HitStatus `json:"status"`
}

// RiskAssessment is the risk-analysis collaborator's answer.
type RiskAssessment struct {
	RiskScore       int             `json:"riskScore"`
	RiskLevel       RiskLevel       `json:"riskLevel"`
	RiskFactors     []RiskFactor    `json:"riskFactors"`
	Screening       ScreeningResult `json:"screeningResult"`
	EnrichedSummary string          `json:"enrichedSummary"`
}

// NewEntity builds a Draft entity. The checklist is filled in by the caller
// once the policy engine has run.
func NewEntity(entityID id.EntityID, t EntityType, name string, attrs Attributes, now time.Time) (*Entity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "entity name cannot be empty")
	}
	if len(name) > 256 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "entity name must be 256 characters or less")
	}
	if !t.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "unknown entity type %q", t)
	}
	if attrs == nil {
		attrs = Attributes{}
	}
	attrs = attrs.Clone()
	attrs[AttrName] = name
	if err := ValidateAttributes(t, attrs); err != nil {
		return nil, err
	}
	return &Entity{
		ID:          entityID,
		Type:        t,
		Name:        name,
		Attributes:  attrs,
		Documents:   []DocumentRequirement{},
		RiskFactors: []RiskFactor{},
		Status:      StatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// CanEditAttributes allows intake edits only while the entity is a Draft;
// the checklist is frozen once screening starts.
func (e *Entity) CanEditAttributes(patch Attributes) error {
	if e.Status != StatusDraft {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "attributes are frozen in status %s", e.Status)
	}
	if v, ok := patch[AttrName]; ok && strings.TrimSpace(v) == "" {
		return dErrors.New(dErrors.CodeValidation, "name cannot be cleared")
	}
	return ValidateAttributes(e.Type, e.Attributes.Merge(patch))
}

// ApplyAttributes merges patch and replaces the checklist.
// Call CanEditAttributes first.
func (e *Entity) ApplyAttributes(patch Attributes, checklist []DocumentRequirement, now time.Time) {
	e.Attributes = e.Attributes.Merge(patch)
	e.Name = e.Attributes.Get(AttrName)
	e.Documents = checklist
	e.Touch(now)
}

// Touch records a mutation.
func (e *Entity) Touch(now time.Time) {
	e.UpdatedAt = now
	e.Version++
}

// Hit returns the screening hit with the given id.
func (e *Entity) Hit(hitID id.HitID) (*ScreeningHit, error) {
	if e.Screening != nil {
		for i := range e.Screening.Hits {
			if e.Screening.Hits[i].ID == hitID {
				return &e.Screening.Hits[i], nil
			}
		}
	}
	return nil, dErrors.New(dErrors.CodeNotFound, "screening hit not found")
}

// Clone returns a deep copy so store readers never share slices with writers.
func (e *Entity) Clone() *Entity {
	if e == nil {
		return nil
	}
	out := *e
	out.Attributes = e.Attributes.Clone()
	out.Documents = make([]DocumentRequirement, len(e.Documents))
	for i, d := range e.Documents {
		out.Documents[i] = d.clone()
	}
	out.RiskFactors = append([]RiskFactor{}, e.RiskFactors...)
	if e.Screening != nil {
		s := *e.Screening
		s.Hits = append([]ScreeningHit{}, e.Screening.Hits...)
		out.Screening = &s
	}
	if e.LastReviewDate != nil {
		t := *e.LastReviewDate
		out.LastReviewDate = &t
	}
	return &out
}
