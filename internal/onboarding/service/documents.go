package service

import (
	"context"
	"errors"

	"kycflow/internal/collaborators/forensics"
	"kycflow/internal/onboarding/models"
	"kycflow/internal/onboarding/verification"
	id "kycflow/pkg/domain"
	dErrors "kycflow/pkg/domain-errors"
	audit "kycflow/pkg/platform/audit"
	"kycflow/pkg/requestcontext"
)

// errScanSuperseded marks a forensic verdict whose scan is no longer the one
// outstanding: the document was removed, dropped from the checklist or
// uploaded again.
var errScanSuperseded = dErrors.New(dErrors.CodeConflict, "document is no longer awaiting verification")

// UploadDocument marks a document as uploaded and Scanning, then queues the
// forensic check. The returned Pending resolves with the document as it
// stands after the verdict.
func (s *Service) UploadDocument(ctx context.Context, entityID id.EntityID, docID string, suspicious bool) (*models.Entity, *verification.Pending, error) {
	if err := requireEntityID(entityID.IsNil()); err != nil {
		return nil, nil, err
	}
	now := requestcontext.Now(ctx)
	scan := id.NewScanID()
	e, err := s.entities.Execute(ctx, entityID,
		func(e *models.Entity) error {
			return e.CanUploadDocument(docID)
		},
		func(e *models.Entity) {
			doc, _ := e.Document(docID)
			doc.ApplyBeginVerification(scan)
			e.Touch(now)
		},
	)
	if err != nil {
		return nil, nil, wrapStoreErr(err, "upload document")
	}
	doc, _ := e.Document(docID)

	pending, err := s.pool.Submit(verification.Job{
		EntityID:     entityID,
		DocumentID:   docID,
		DocumentName: doc.Name,
		ScanID:       scan,
		Suspicious:   forensics.IsSuspicious(doc.Name, suspicious),
		RequestID:    requestcontext.RequestID(ctx),
	})
	if err != nil {
		s.revertUpload(ctx, entityID, doc.Name, scan)
		return nil, nil, wrapStoreErr(err, "queue verification")
	}

	s.logAudit(ctx, audit.EventDocumentUploaded, e, func(ev *audit.Event) {
		ev.Subject = doc.Name
		ev.To = string(doc.VerificationStatus)
	})
	return e, pending, nil
}

// revertUpload puts a document that could not be queued back to Pending.
func (s *Service) revertUpload(ctx context.Context, entityID id.EntityID, name string, scan id.ScanID) {
	now := requestcontext.Now(ctx)
	_, err := s.entities.Execute(ctx, entityID,
		func(e *models.Entity) error {
			doc, err := e.DocumentByName(name)
			if err != nil {
				return err
			}
			return doc.CanCompleteVerification(scan)
		},
		func(e *models.Entity) {
			doc, _ := e.DocumentByName(name)
			doc.ApplyRemove()
			e.Touch(now)
		},
	)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to revert upload",
			"request_id", requestcontext.RequestID(ctx),
			"entity_id", entityID.String(),
			"document", name,
			"error", err,
		)
	}
}

// completeVerification is the worker handler. The verdict is applied by
// document name and dropped unless the job's scan is still outstanding.
func (s *Service) completeVerification(ctx context.Context, job verification.Job) (*models.DocumentRequirement, error) {
	ctx = requestcontext.WithRequestID(ctx, job.RequestID)

	result, err := s.forensics.Analyze(ctx, forensics.Request{
		DocumentName:   job.DocumentName,
		SuspiciousHint: job.Suspicious,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "forensics failed, using fallback verdict",
			"request_id", job.RequestID,
			"document", job.DocumentName,
			"error", err,
		)
		result = forensics.Fallback(job.Suspicious)
	}

	now := requestcontext.Now(ctx)
	e, err := s.entities.Execute(ctx, job.EntityID,
		func(e *models.Entity) error {
			doc, err := e.DocumentByName(job.DocumentName)
			if err != nil {
				return errScanSuperseded
			}
			if doc.CanCompleteVerification(job.ScanID) != nil {
				return errScanSuperseded
			}
			return nil
		},
		func(e *models.Entity) {
			doc, _ := e.DocumentByName(job.DocumentName)
			doc.ApplyCompleteVerification(result)
			e.Touch(now)
		},
	)
	if err != nil {
		if errors.Is(err, errScanSuperseded) {
			s.logger.InfoContext(ctx, "verification result discarded",
				"request_id", job.RequestID,
				"entity_id", job.EntityID.String(),
				"document", job.DocumentName,
				"scan_id", job.ScanID.String(),
			)
		}
		return nil, wrapStoreErr(err, "complete verification")
	}

	doc, _ := e.DocumentByName(job.DocumentName)
	out := *doc
	event := audit.EventDocumentVerified
	if doc.VerificationStatus == models.VerificationFlagged {
		event = audit.EventDocumentFlagged
	}
	s.metrics.IncrementDocumentVerdict(string(doc.VerificationStatus))
	s.logAudit(ctx, event, e, func(ev *audit.Event) {
		ev.Subject = doc.Name
		ev.From = string(models.VerificationScanning)
		ev.To = string(doc.VerificationStatus)
		ev.Reason = result.Reason
	})
	return &out, nil
}

// RemoveDocument clears an upload so the document can be uploaded again.
func (s *Service) RemoveDocument(ctx context.Context, entityID id.EntityID, docID string) (*models.Entity, error) {
	if err := requireEntityID(entityID.IsNil()); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	var name string
	var from models.VerificationStatus
	e, err := s.entities.Execute(ctx, entityID,
		func(e *models.Entity) error {
			return e.CanRemoveDocument(docID)
		},
		func(e *models.Entity) {
			doc, _ := e.Document(docID)
			name, from = doc.Name, doc.VerificationStatus
			doc.ApplyRemove()
			e.Touch(now)
		},
	)
	if err != nil {
		return nil, wrapStoreErr(err, "remove document")
	}

	s.logAudit(ctx, audit.EventDocumentRemoved, e, func(ev *audit.Event) {
		ev.Subject = name
		ev.From = string(from)
		ev.To = string(models.VerificationPending)
	})
	return e, nil
}
