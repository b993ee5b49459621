// Package risk enriches an entity profile and screens it against sanctions,
// PEP and adverse-media sources.
package risk

import (
	"context"

	"kycflow/internal/onboarding/models"
)

// Request is the profile handed to an analyzer.
type Request struct {
	EntityName string            `json:"entityName"`
	EntityType models.EntityType `json:"entityType"`
	Attributes models.Attributes `json:"attributes"`
}

// Analyzer scores an entity and reports candidate screening hits. Hits in the
// answer are candidates only; the caller forces them to Potential.
type Analyzer interface {
	Analyze(ctx context.Context, req Request) (models.RiskAssessment, error)
}
