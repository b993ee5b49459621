package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "kycflow/pkg/domain"
	dErrors "kycflow/pkg/domain-errors"
	"kycflow/pkg/testutil"
)

func TestNewEntity(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	testutil.Given(t, "a valid company", func(t *testing.T) {
		e, err := NewEntity(id.NewEntityID(), EntityTypeCompany, "  Acme Mining  ", Attributes{AttrIndustry: "Mining and Quarrying"}, now)
		require.NoError(t, err)

		testutil.Then(t, "it starts as a draft with the name mirrored into attributes", func(t *testing.T) {
			assert.Equal(t, StatusDraft, e.Status)
			assert.Equal(t, "Acme Mining", e.Name)
			assert.Equal(t, "Acme Mining", e.Attributes.Get(AttrName))
			assert.Equal(t, now, e.CreatedAt)
			assert.Empty(t, e.ApprovedBy)
		})
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewEntity(id.NewEntityID(), EntityTypeIndividual, "  ", nil, now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := NewEntity(id.NewEntityID(), EntityType("Cooperative"), "Coop", nil, now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("rejects attributes of another type", func(t *testing.T) {
		_, err := NewEntity(id.NewEntityID(), EntityTypeIndividual, "Jane", Attributes{AttrChairman: "Bob"}, now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("keeps well-formed extra fields", func(t *testing.T) {
		e, err := NewEntity(id.NewEntityID(), EntityTypeTrust, "Family Trust", Attributes{"settlor_name": "Ann"}, now)
		require.NoError(t, err)
		assert.Equal(t, "Ann", e.Attributes.Get("settlor_name"))
	})
}

func TestAttributes(t *testing.T) {
	t.Run("merge deletes blank values", func(t *testing.T) {
		a := Attributes{AttrCountry: "Panama", AttrProduct: "Trade Finance"}
		merged := a.Merge(Attributes{AttrCountry: "", AttrOccupation: " Engineer "})

		assert.False(t, merged.Has(AttrCountry))
		assert.Equal(t, "Engineer", merged.Get(AttrOccupation))
		assert.Equal(t, "Panama", a.Get(AttrCountry), "merge must not mutate the receiver")
	})

	t.Run("missing intake fields by type", func(t *testing.T) {
		assert.Equal(t,
			[]AttributeKey{AttrEmail, AttrProduct, AttrNationality},
			MissingIntakeFields(EntityTypeIndividual, Attributes{AttrName: "Jane"}))
		assert.Equal(t,
			[]AttributeKey{AttrIndustry},
			MissingIntakeFields(EntityTypeNGO, Attributes{AttrName: "Aid", AttrEmail: "a@b.c", AttrProduct: "Current Account"}))
	})
}

func TestEntityEdits(t *testing.T) {
	e, err := NewEntity(id.NewEntityID(), EntityTypeIndividual, "Jane", nil, time.Now())
	require.NoError(t, err)

	t.Run("name cannot be cleared", func(t *testing.T) {
		assert.True(t, dErrors.HasCode(e.CanEditAttributes(Attributes{AttrName: ""}), dErrors.CodeValidation))
	})

	t.Run("apply renames and bumps version", func(t *testing.T) {
		e.ApplyAttributes(Attributes{AttrName: "Jane Q. Doe"}, nil, time.Now())
		assert.Equal(t, "Jane Q. Doe", e.Name)
		assert.Equal(t, 1, e.Version)
	})

	t.Run("frozen after draft", func(t *testing.T) {
		e.Status = StatusApproved
		assert.True(t, dErrors.HasCode(e.CanEditAttributes(Attributes{AttrOccupation: "x"}), dErrors.CodeInvariantViolation))
	})
}

func TestClone_IsDeep(t *testing.T) {
	e, err := NewEntity(id.NewEntityID(), EntityTypeIndividual, "Jane", nil, time.Now())
	require.NoError(t, err)
	e.Documents = []DocumentRequirement{{ID: "d", Name: "D", ForensicAnalysis: &ForensicAnalysis{Score: 1}}}
	e.Screening = &ScreeningResult{Hits: []ScreeningHit{{ID: id.NewHitID(), Status: HitPotential}}}

	c := e.Clone()
	c.Documents[0].ForensicAnalysis.Score = 99
	c.Screening.Hits[0].Status = HitMatched
	c.Attributes[AttrOccupation] = "Pilot"

	assert.Equal(t, 1, e.Documents[0].ForensicAnalysis.Score)
	assert.Equal(t, HitPotential, e.Screening.Hits[0].Status)
	assert.False(t, e.Attributes.Has(AttrOccupation))
}
