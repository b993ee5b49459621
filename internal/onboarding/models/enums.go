package models

import (
	"strings"

	dErrors "kycflow/pkg/domain-errors"
)

// EntityType determines the base document set and the intake form.
type EntityType string

const (
	EntityTypeIndividual   EntityType = "Individual"
	EntityTypeCompany      EntityType = "Company"
	EntityTypeNGO          EntityType = "NGO"
	EntityTypePartnership  EntityType = "Partnership"
	EntityTypeTrust        EntityType = "Trust"
	EntityTypeJointVenture EntityType = "JointVenture"
)

// EntityTypes lists every supported type in display order.
func EntityTypes() []EntityType {
	return []EntityType{
		EntityTypeIndividual,
		EntityTypeCompany,
		EntityTypeNGO,
		EntityTypePartnership,
		EntityTypeTrust,
		EntityTypeJointVenture,
	}
}

// ParseEntityType accepts the canonical name case-insensitively. "Joint Venture"
// is accepted as an alias.
func ParseEntityType(s string) (EntityType, error) {
	norm := strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	for _, t := range EntityTypes() {
		if strings.EqualFold(string(t), norm) {
			return t, nil
		}
	}
	return "", dErrors.Newf(dErrors.CodeValidation, "unknown entity type %q", s)
}

func (t EntityType) IsValid() bool {
	_, err := ParseEntityType(string(t))
	return err == nil && t != ""
}

// Status is the entity's lifecycle state.
type Status string

const (
	StatusDraft                Status = "Draft"
	StatusPendingScreening     Status = "PendingScreening"
	StatusPeerReview           Status = "PeerReview"
	StatusEDDReview            Status = "EDDReview"
	StatusWaiverRequested      Status = "WaiverRequested"
	StatusPeriodicReview       Status = "PeriodicReview"
	StatusOffboardingRequested Status = "OffboardingRequested"
	StatusApproved             Status = "Approved"
	StatusRejected             Status = "Rejected"
	StatusOffboarded           Status = "Offboarded"
)

// Statuses returns every lifecycle state in workflow order.
func Statuses() []Status {
	return []Status{
		StatusDraft,
		StatusPendingScreening,
		StatusPeerReview,
		StatusEDDReview,
		StatusWaiverRequested,
		StatusPeriodicReview,
		StatusOffboardingRequested,
		StatusApproved,
		StatusRejected,
		StatusOffboarded,
	}
}

// ParseStatus validates a status filter from the API.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses() {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, nil
		}
	}
	return "", dErrors.Newf(dErrors.CodeValidation, "unknown status %q", s)
}

// IsTerminal reports whether no transition leaves this state.
func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusOffboarded
}

// RiskLevel is the coarse risk bucket.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

func (l RiskLevel) IsValid() bool {
	return l == RiskLow || l == RiskMedium || l == RiskHigh
}

// ApprovedBy records who last approved the entity.
type ApprovedBy string

const (
	ApprovedByNone           ApprovedBy = ""
	ApprovedByAutomatedAgent ApprovedBy = "AutomatedAgent"
	ApprovedByAnalyst        ApprovedBy = "Analyst"
)

// DocumentCategory groups checklist rows by the rule family that added them.
type DocumentCategory string

const (
	CategoryStandard     DocumentCategory = "Standard"
	CategoryRisk         DocumentCategory = "Risk"
	CategoryProduct      DocumentCategory = "Product"
	CategoryJurisdiction DocumentCategory = "Jurisdiction"
)

// VerificationStatus tracks a document through forensic scanning.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "Pending"
	VerificationScanning VerificationStatus = "Scanning"
	VerificationVerified VerificationStatus = "Verified"
	VerificationFlagged  VerificationStatus = "Flagged"
)

// HitType classifies a screening hit by the list it came from.
type HitType string

const (
	HitSanction              HitType = "Sanction"
	HitPEP                   HitType = "PEP"
	HitAdverseMedia          HitType = "AdverseMedia"
	HitRelatedCloseAssociate HitType = "RelatedCloseAssociate"
)

// HitStatus is the operator's disposition of a hit.
type HitStatus string

const (
	HitPotential       HitStatus = "Potential"
	HitMatched         HitStatus = "Matched"
	HitUnmatched       HitStatus = "Unmatched"
	HitUnableToResolve HitStatus = "UnableToResolve"
)

// ParseHitOutcome accepts only the final dispositions; Potential is not an outcome.
func ParseHitOutcome(s string) (HitStatus, error) {
	for _, st := range []HitStatus{HitMatched, HitUnmatched, HitUnableToResolve} {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, nil
		}
	}
	return "", dErrors.Newf(dErrors.CodeValidation, "outcome must be Matched, Unmatched or UnableToResolve, got %q", s)
}
