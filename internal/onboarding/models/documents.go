package models

import (
	"strings"

	id "kycflow/pkg/domain"
	dErrors "kycflow/pkg/domain-errors"
)

// DocumentRequirement is one row of an entity's checklist.
type DocumentRequirement struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	Description        string             `json:"description"`
	Category           DocumentCategory   `json:"category"`
	TriggerReason      string             `json:"trigger_reason"`
	Uploaded           bool               `json:"uploaded"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	ForensicAnalysis   *ForensicAnalysis  `json:"forensic_analysis,omitempty"`

	// ScanID is the outstanding or most recent scan. Nil until the first
	// upload and after removal.
	ScanID id.ScanID `json:"-"`
}

// ForensicAnalysis is the document-forensics collaborator's verdict.
type ForensicAnalysis struct {
	IsForged bool            `json:"isForged"`
	Score    int             `json:"score"`
	Factors  ForensicFactors `json:"factors"`
	Reason   string          `json:"reason"`
}

// ForensicFactors are the per-signal findings behind a verdict.
type ForensicFactors struct {
	Metadata             string `json:"metadata"`
	CompressionArtifacts string `json:"compressionArtifacts"`
	Typography           string `json:"typography"`
	PixelPattern         string `json:"pixelPattern"`
}

func (d DocumentRequirement) clone() DocumentRequirement {
	if d.ForensicAnalysis != nil {
		fa := *d.ForensicAnalysis
		d.ForensicAnalysis = &fa
	}
	return d
}

// IsComplete reports whether the document satisfies the gate.
func (d *DocumentRequirement) IsComplete() bool {
	return d.Uploaded && d.VerificationStatus == VerificationVerified
}

// CanBeginVerification allows upload only from Pending. A verified or
// flagged document must be removed first.
func (d *DocumentRequirement) CanBeginVerification() error {
	switch d.VerificationStatus {
	case VerificationPending:
		return nil
	case VerificationScanning:
		return dErrors.Newf(dErrors.CodeConflict, "%s is already being scanned", d.Name)
	default:
		return dErrors.Newf(dErrors.CodeConflict, "%s is %s; remove it before uploading again", d.Name, d.VerificationStatus)
	}
}

// ApplyBeginVerification moves the document to Scanning under a new scan.
func (d *DocumentRequirement) ApplyBeginVerification(scan id.ScanID) {
	d.Uploaded = true
	d.VerificationStatus = VerificationScanning
	d.ForensicAnalysis = nil
	d.ScanID = scan
}

// CanCompleteVerification requires that scan is the one outstanding.
func (d *DocumentRequirement) CanCompleteVerification(scan id.ScanID) error {
	if d.VerificationStatus != VerificationScanning {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "%s is not being scanned", d.Name)
	}
	if scan.IsNil() || d.ScanID != scan {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "%s is awaiting a different scan", d.Name)
	}
	return nil
}

// ApplyCompleteVerification records the verdict: forged documents are
// Flagged, everything else Verified.
func (d *DocumentRequirement) ApplyCompleteVerification(result ForensicAnalysis) {
	d.ForensicAnalysis = &result
	if result.IsForged {
		d.VerificationStatus = VerificationFlagged
		return
	}
	d.VerificationStatus = VerificationVerified
}

// CanRemove rejects removal while a scan is outstanding.
func (d *DocumentRequirement) CanRemove() error {
	if d.VerificationStatus == VerificationScanning {
		return dErrors.Newf(dErrors.CodeConflict, "%s is being scanned; wait for the result", d.Name)
	}
	return nil
}

// ApplyRemove resets the document to Pending.
func (d *DocumentRequirement) ApplyRemove() {
	d.Uploaded = false
	d.VerificationStatus = VerificationPending
	d.ForensicAnalysis = nil
	d.ScanID = id.ScanID{}
}

// Document returns the checklist row with the given id.
func (e *Entity) Document(docID string) (*DocumentRequirement, error) {
	for i := range e.Documents {
		if e.Documents[i].ID == docID {
			return &e.Documents[i], nil
		}
	}
	return nil, dErrors.New(dErrors.CodeNotFound, "document not found")
}

// DocumentByName returns the checklist row with the given name. Names are the
// checklist's identity across re-evaluations; ids may change when a different
// rule becomes the first to require the same document.
func (e *Entity) DocumentByName(name string) (*DocumentRequirement, error) {
	for i := range e.Documents {
		if e.Documents[i].Name == name {
			return &e.Documents[i], nil
		}
	}
	return nil, dErrors.New(dErrors.CodeNotFound, "document not found")
}

// CanUploadDocument checks the entity and document state for an upload.
func (e *Entity) CanUploadDocument(docID string) error {
	if e.Status != StatusDraft {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "documents are frozen in status %s", e.Status)
	}
	doc, err := e.Document(docID)
	if err != nil {
		return err
	}
	return doc.CanBeginVerification()
}

// CanRemoveDocument checks the entity and document state for a removal.
func (e *Entity) CanRemoveDocument(docID string) error {
	if e.Status != StatusDraft {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "documents are frozen in status %s", e.Status)
	}
	doc, err := e.Document(docID)
	if err != nil {
		return err
	}
	return doc.CanRemove()
}

// DocumentsComplete is the documentation gate: every required document must
// be uploaded and Verified. The error names the blocking documents.
func (e *Entity) DocumentsComplete() error {
	var blocking []string
	for i := range e.Documents {
		d := &e.Documents[i]
		if !d.IsComplete() {
			blocking = append(blocking, d.Name+" ("+string(d.VerificationStatus)+")")
		}
	}
	if len(blocking) > 0 {
		return dErrors.New(dErrors.CodeValidation, "documents not verified: "+strings.Join(blocking, ", "))
	}
	return nil
}
