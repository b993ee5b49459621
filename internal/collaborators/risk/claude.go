package risk

import (
	"context"
	"encoding/json"
	"fmt"

	"kycflow/internal/collaborators/llm"
	"kycflow/internal/onboarding/models"
)

const systemPrompt = "You are a financial crime risk engine and KYC analyst. Output only valid JSON."

const promptTemplate = `Analyze the following entity for onboarding.

<entity_name>%s</entity_name>
<entity_type>%s</entity_type>
<attributes>%s</attributes>

1. Enrich the profile from what is publicly known about the entity.
2. Screen it for sanctions, politically exposed persons and adverse media. Report every candidate match as a hit with a name, a type (Sanction, PEP, AdverseMedia or RelatedCloseAssociate), a 0-100 match score, a description and the list source.
3. Score the overall risk from 0 to 100 using the entity type, industry, country and screening results.
4. List the specific risk factors.

Answer with a JSON object with the fields riskScore, riskLevel (Low, Medium or High), riskFactors, screeningResult and enrichedSummary.`

var levels = []any{"Low", "Medium", "High"}

var responseSchema = llm.MustCompileSchema("risk.json", map[string]any{
	"type":     "object",
	"required": []any{"riskScore", "riskLevel", "screeningResult"},
	"properties": map[string]any{
		"riskScore":       map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
		"riskLevel":       map[string]any{"enum": levels},
		"enrichedSummary": map[string]any{"type": "string"},
		"riskFactors": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{"category", "description"},
				"properties": map[string]any{
					"category":    map[string]any{"type": "string"},
					"description": map[string]any{"type": "string"},
					"score":       map[string]any{"type": "integer"},
					"severity":    map[string]any{"enum": levels},
				},
			},
		},
		"screeningResult": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"sanctionsHit":      map[string]any{"type": "boolean"},
				"pepStatus":         map[string]any{"type": "boolean"},
				"adverseMediaFound": map[string]any{"type": "boolean"},
				"summary":           map[string]any{"type": "string"},
				"hits": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type":     "object",
						"required": []any{"name", "type"},
						"properties": map[string]any{
							"name":        map[string]any{"type": "string"},
							"type":        map[string]any{"enum": []any{"Sanction", "PEP", "AdverseMedia", "RelatedCloseAssociate"}},
							"score":       map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
							"description": map[string]any{"type": "string"},
							"listSource":  map[string]any{"type": "string"},
						},
					},
				},
			},
		},
	},
})

type hitResponse struct {
	Name        string         `json:"name"`
	Type        models.HitType `json:"type"`
	Score       int            `json:"score"`
	Description string         `json:"description"`
	ListSource  string         `json:"listSource"`
}

type response struct {
	RiskScore       int                 `json:"riskScore"`
	RiskLevel       models.RiskLevel    `json:"riskLevel"`
	RiskFactors     []models.RiskFactor `json:"riskFactors"`
	EnrichedSummary string              `json:"enrichedSummary"`
	ScreeningResult struct {
		SanctionsHit      bool          `json:"sanctionsHit"`
		PEPStatus         bool          `json:"pepStatus"`
		AdverseMediaFound bool          `json:"adverseMediaFound"`
		Summary           string        `json:"summary"`
		Hits              []hitResponse `json:"hits"`
	} `json:"screeningResult"`
}

// Claude asks an LLM for the assessment.
type Claude struct {
	llm llm.Completer
}

func NewClaude(c llm.Completer) *Claude {
	return &Claude{llm: c}
}

func (c *Claude) Analyze(ctx context.Context, req Request) (models.RiskAssessment, error) {
	attrs, err := json.Marshal(req.Attributes)
	if err != nil {
		return models.RiskAssessment{}, fmt.Errorf("encode attributes: %w", err)
	}
	prompt := fmt.Sprintf(promptTemplate,
		llm.Escape(req.EntityName),
		llm.Escape(string(req.EntityType)),
		llm.Escape(string(attrs)),
	)

	resp, err := llm.Decode[response](ctx, c.llm, systemPrompt, prompt, responseSchema)
	if err != nil {
		return models.RiskAssessment{}, err
	}
	return resp.assessment(), nil
}

func (r response) assessment() models.RiskAssessment {
	hits := make([]models.ScreeningHit, 0, len(r.ScreeningResult.Hits))
	for _, h := range r.ScreeningResult.Hits {
		hits = append(hits, models.ScreeningHit{
			Name:        h.Name,
			Type:        h.Type,
			Score:       h.Score,
			Description: h.Description,
			ListSource:  h.ListSource,
			Status:      models.HitPotential,
		})
	}
	factors := r.RiskFactors
	if factors == nil {
		factors = []models.RiskFactor{}
	}
	return models.RiskAssessment{
		RiskScore:   r.RiskScore,
		RiskLevel:   r.RiskLevel,
		RiskFactors: factors,
		Screening: models.ScreeningResult{
			SanctionsHit:      r.ScreeningResult.SanctionsHit,
			PEPStatus:         r.ScreeningResult.PEPStatus,
			AdverseMediaFound: r.ScreeningResult.AdverseMediaFound,
			Summary:           r.ScreeningResult.Summary,
			Hits:              hits,
		},
		EnrichedSummary: r.EnrichedSummary,
	}
}
