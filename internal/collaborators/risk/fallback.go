package risk

import (
	"context"

	"kycflow/internal/collaborators"
	"kycflow/internal/onboarding/models"
)

// Fallback is the conservative assessment served when analysis is
// unavailable: Medium risk with a manual-review factor and no hits.
func Fallback() models.RiskAssessment {
	return models.RiskAssessment{
		RiskScore: 50,
		RiskLevel: models.RiskMedium,
		RiskFactors: []models.RiskFactor{{
			Category:    "System",
			Description: "AI Analysis Failed - Manual Review Required",
			Score:       50,
			Severity:    models.RiskMedium,
		}},
		Screening: models.ScreeningResult{
			Summary: "Automated screening unavailable.",
			Hits:    []models.ScreeningHit{},
		},
		EnrichedSummary: "Could not enrich profile due to system error.",
	}
}

// Guarded never fails: errors from the primary and an open breaker both
// produce Fallback.
type Guarded struct {
	primary Analyzer
	guard   *collaborators.Guard
}

func NewGuarded(primary Analyzer, guard *collaborators.Guard) *Guarded {
	return &Guarded{primary: primary, guard: guard}
}

func (g *Guarded) Analyze(ctx context.Context, req Request) (models.RiskAssessment, error) {
	out, _ := collaborators.Call(ctx, g.guard, func(ctx context.Context) (models.RiskAssessment, error) {
		return g.primary.Analyze(ctx, req)
	}, Fallback)
	return out, nil
}
