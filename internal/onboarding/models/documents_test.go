package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	id "kycflow/pkg/domain"
	dErrors "kycflow/pkg/domain-errors"
)

type DocumentTrackerSuite struct {
	suite.Suite
	entity *Entity
	scan   id.ScanID
}

func TestDocumentTrackerSuite(t *testing.T) {
	suite.Run(t, new(DocumentTrackerSuite))
}

func (s *DocumentTrackerSuite) SetupTest() {
	e, err := NewEntity(id.NewEntityID(), EntityTypeIndividual, "Jane Doe", nil, time.Now())
	s.Require().NoError(err)
	e.Documents = []DocumentRequirement{
		{ID: "base-proof-of-identity", Name: "Proof of Identity", Category: CategoryStandard, VerificationStatus: VerificationPending},
		{ID: "base-proof-of-address", Name: "Proof of Address", Category: CategoryStandard, VerificationStatus: VerificationPending},
	}
	s.entity = e
	s.scan = id.NewScanID()
}

func (s *DocumentTrackerSuite) verify(docID string, forged bool) {
	s.Require().NoError(s.entity.CanUploadDocument(docID))
	doc, err := s.entity.Document(docID)
	s.Require().NoError(err)
	scan := id.NewScanID()
	doc.ApplyBeginVerification(scan)
	s.Require().NoError(doc.CanCompleteVerification(scan))
	doc.ApplyCompleteVerification(ForensicAnalysis{IsForged: forged, Score: 90})
}

func (s *DocumentTrackerSuite) TestVerificationTransitions() {
	s.Run("pending document can be uploaded and enters scanning", func() {
		doc, err := s.entity.Document("base-proof-of-identity")
		s.Require().NoError(err)
		s.Require().NoError(doc.CanBeginVerification())
		doc.ApplyBeginVerification(s.scan)
		s.True(doc.Uploaded)
		s.Equal(VerificationScanning, doc.VerificationStatus)
	})

	s.Run("only the outstanding scan can complete", func() {
		doc, _ := s.entity.Document("base-proof-of-identity")
		s.True(dErrors.HasCode(doc.CanCompleteVerification(id.NewScanID()), dErrors.CodeInvariantViolation))
		s.True(dErrors.HasCode(doc.CanCompleteVerification(id.ScanID{}), dErrors.CodeInvariantViolation))
		s.NoError(doc.CanCompleteVerification(s.scan))
	})

	s.Run("scanning document cannot be uploaded or removed", func() {
		s.True(dErrors.HasCode(s.entity.CanUploadDocument("base-proof-of-identity"), dErrors.CodeConflict))
		s.True(dErrors.HasCode(s.entity.CanRemoveDocument("base-proof-of-identity"), dErrors.CodeConflict))
	})

	s.Run("authentic verdict verifies", func() {
		doc, _ := s.entity.Document("base-proof-of-identity")
		doc.ApplyCompleteVerification(ForensicAnalysis{IsForged: false, Score: 98})
		s.Equal(VerificationVerified, doc.VerificationStatus)
		s.Require().NotNil(doc.ForensicAnalysis)
	})

	s.Run("completion without a scan is rejected", func() {
		doc, _ := s.entity.Document("base-proof-of-address")
		s.True(dErrors.HasCode(doc.CanCompleteVerification(s.scan), dErrors.CodeInvariantViolation))
	})

	s.Run("verified document must be removed before re-upload", func() {
		s.True(dErrors.HasCode(s.entity.CanUploadDocument("base-proof-of-identity"), dErrors.CodeConflict))
		s.Require().NoError(s.entity.CanRemoveDocument("base-proof-of-identity"))
		doc, _ := s.entity.Document("base-proof-of-identity")
		doc.ApplyRemove()
		s.False(doc.Uploaded)
		s.Equal(VerificationPending, doc.VerificationStatus)
		s.Nil(doc.ForensicAnalysis)
		s.True(doc.ScanID.IsNil())
	})

	s.Run("unknown document is not found", func() {
		s.True(dErrors.HasCode(s.entity.CanUploadDocument("nope"), dErrors.CodeNotFound))
	})
}

func (s *DocumentTrackerSuite) TestGate() {
	s.Run("blocks while any document is pending", func() {
		err := s.entity.DocumentsComplete()
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("a single flagged document blocks progression", func() {
		s.verify("base-proof-of-identity", false)
		s.verify("base-proof-of-address", true)

		err := s.entity.DocumentsComplete()
		s.Require().Error(err)
		s.Contains(err.Error(), "Proof of Address (Flagged)")
	})

	s.Run("removing and re-verifying the flagged document opens the gate", func() {
		doc, _ := s.entity.Document("base-proof-of-address")
		s.Require().NoError(doc.CanRemove())
		doc.ApplyRemove()
		s.verify("base-proof-of-address", false)

		s.NoError(s.entity.DocumentsComplete())
	})

	s.Run("uploads are frozen outside Draft", func() {
		s.entity.Status = StatusPendingScreening
		s.True(dErrors.HasCode(s.entity.CanUploadDocument("base-proof-of-address"), dErrors.CodeInvariantViolation))
	})
}
