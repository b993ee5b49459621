// Package screening ingests risk-analysis output, tracks the operator's
// disposition of screening hits, and computes the final risk determination.
package screening

import (
	"kycflow/internal/onboarding/models"
	id "kycflow/pkg/domain"
	dErrors "kycflow/pkg/domain-errors"
)

// CleanScoreThreshold is the exclusive upper bound on the final score for
// automated approval.
const CleanScoreThreshold = 25

// MatchedScoreFloor is the minimum final score once any hit is confirmed.
const MatchedScoreFloor = 95

// Status hints returned by Finalize.
const (
	HintEnhancedDueDiligence = "requires enhanced due diligence"
	HintAutoApprovalEligible = "eligible for automated approval"
	HintPeerReview           = "requires peer review"
)

// Outcome is the final risk determination.
type Outcome struct {
	RiskLevel models.RiskLevel `json:"risk_level"`
	RiskScore int              `json:"risk_score"`
	Hint      string           `json:"hint"`
	Clean     bool             `json:"clean"`
}

// Ingest copies a risk assessment onto the entity. Every hit starts as
// Potential regardless of what the collaborator sent, and hits without an id
// get one.
func Ingest(e *models.Entity, result models.RiskAssessment) {
	hits := make([]models.ScreeningHit, len(result.Screening.Hits))
	for i, h := range result.Screening.Hits {
		if h.ID.IsNil() {
			h.ID = id.NewHitID()
		}
		h.Status = models.HitPotential
		hits[i] = h
	}

	screening := result.Screening
	screening.Hits = hits

	e.RiskScore = clampScore(result.RiskScore)
	e.RiskLevel = result.RiskLevel
	e.RiskFactors = append([]models.RiskFactor{}, result.RiskFactors...)
	e.Screening = &screening
	e.EnrichedSummary = result.EnrichedSummary
}

// PendingHits returns the hits still awaiting disposition.
func PendingHits(e *models.Entity) []models.ScreeningHit {
	var pending []models.ScreeningHit
	if e.Screening == nil {
		return pending
	}
	for _, h := range e.Screening.Hits {
		if h.Status == models.HitPotential {
			pending = append(pending, h)
		}
	}
	return pending
}

// AllResolved reports whether no hit remains Potential.
func AllResolved(e *models.Entity) bool {
	return len(PendingHits(e)) == 0
}

// CanDisposition checks that the entity is awaiting screening review, the
// hit exists, and the outcome is final.
func CanDisposition(e *models.Entity, hitID id.HitID, outcome models.HitStatus) error {
	if e.Status != models.StatusPendingScreening {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "hits can only be dispositioned in %s, entity is %s", models.StatusPendingScreening, e.Status)
	}
	if _, err := models.ParseHitOutcome(string(outcome)); err != nil {
		return err
	}
	_, err := e.Hit(hitID)
	return err
}

// ApplyDisposition records the operator's decision. Re-dispositioning a hit
// before finalization is allowed.
func ApplyDisposition(e *models.Entity, hitID id.HitID, outcome models.HitStatus) {
	if h, err := e.Hit(hitID); err == nil {
		h.Status = outcome
	}
}

// Finalize computes the final risk from the raw score and the dispositions.
// It fails while any hit is still Potential.
func Finalize(e *models.Entity) (Outcome, error) {
	if !AllResolved(e) {
		return Outcome{}, dErrors.Newf(dErrors.CodeValidation, "%d screening hit(s) still need a disposition", len(PendingHits(e)))
	}

	matched, unresolved := countDispositions(e)
	out := Outcome{RiskLevel: e.RiskLevel, RiskScore: e.RiskScore}

	switch {
	case matched > 0:
		out.RiskLevel = models.RiskHigh
		out.RiskScore = max(e.RiskScore, MatchedScoreFloor)
		out.Hint = HintEnhancedDueDiligence
	case unresolved > 0:
		// Unresolved hits escalate the level only; the score stays as reported.
		out.RiskLevel = models.RiskHigh
		out.Hint = HintEnhancedDueDiligence
	}

	out.Clean = IsClean(out.RiskLevel, out.RiskScore, matched, unresolved)
	if out.Hint == "" {
		if out.RiskLevel == models.RiskHigh {
			out.Hint = HintEnhancedDueDiligence
		} else if out.Clean {
			out.Hint = HintAutoApprovalEligible
		} else {
			out.Hint = HintPeerReview
		}
	}
	return out, nil
}

// ApplyOutcome writes the final determination onto the entity.
func ApplyOutcome(e *models.Entity, out Outcome) {
	e.RiskLevel = out.RiskLevel
	e.RiskScore = out.RiskScore
}

// IsClean is the automated-approval rule: Low level, no confirmed or
// unresolved hits, score strictly below CleanScoreThreshold.
func IsClean(level models.RiskLevel, score, matched, unresolved int) bool {
	return level == models.RiskLow &&
		matched == 0 &&
		unresolved == 0 &&
		score < CleanScoreThreshold
}

func countDispositions(e *models.Entity) (matched, unresolved int) {
	if e.Screening == nil {
		return 0, 0
	}
	for _, h := range e.Screening.Hits {
		switch h.Status {
		case models.HitMatched:
			matched++
		case models.HitUnableToResolve:
			unresolved++
		}
	}
	return matched, unresolved
}

func clampScore(s int) int {
	return min(max(s, 0), 100)
}
