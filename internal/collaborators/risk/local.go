package risk

import (
	"context"
	"fmt"
	"strings"

	"kycflow/internal/onboarding/models"
	"kycflow/internal/policy"
)

// Score contributions used by Local.
const (
	jurisdictionWeight = 40
	keywordWeight      = 15
	watchlistWeight    = 60

	highThreshold   = 70
	mediumThreshold = 25
)

var typeBaseline = map[models.EntityType]int{
	models.EntityTypeIndividual:   10,
	models.EntityTypeCompany:      15,
	models.EntityTypePartnership:  15,
	models.EntityTypeNGO:          20,
	models.EntityTypeJointVenture: 20,
	models.EntityTypeTrust:        30,
}

// watchlist is a tiny offline sanctions list so the local analyzer can
// produce hits without a network.
var watchlist = []struct {
	term   string
	kind   models.HitType
	source string
}{
	{"escobar", models.HitSanction, "OFAC SDN"},
	{"osama", models.HitSanction, "UN Consolidated List"},
	{"putin", models.HitPEP, "PEP Register"},
	{"oligarch", models.HitAdverseMedia, "Adverse Media Index"},
}

// Local is a deterministic analyzer driven by the policy tables. It is used
// when no API key is configured.
type Local struct {
	engine *policy.Engine
}

func NewLocal(engine *policy.Engine) *Local {
	return &Local{engine: engine}
}

func (l *Local) Analyze(_ context.Context, req Request) (models.RiskAssessment, error) {
	attrs := req.Attributes.Clone()
	if req.EntityName != "" {
		attrs[models.AttrName] = req.EntityName
	}

	score := typeBaseline[req.EntityType]
	factors := []models.RiskFactor{{
		Category:    "Entity Type",
		Description: fmt.Sprintf("%s baseline", req.EntityType),
		Score:       score,
		Severity:    models.RiskLow,
	}}

	if country := policy.Jurisdiction(attrs); country != "" && l.engine.IsHighRiskJurisdiction(country) {
		score += jurisdictionWeight
		factors = append(factors, models.RiskFactor{
			Category:    "Jurisdiction",
			Description: "High risk jurisdiction: " + country,
			Score:       jurisdictionWeight,
			Severity:    models.RiskHigh,
		})
	}

	for _, rule := range l.engine.MatchedKeywords(attrs) {
		score += keywordWeight
		factors = append(factors, models.RiskFactor{
			Category:    "Industry",
			Description: rule.Reason,
			Score:       keywordWeight,
			Severity:    models.RiskMedium,
		})
	}

	screening := models.ScreeningResult{Hits: []models.ScreeningHit{}}
	name := strings.ToLower(req.EntityName)
	for _, w := range watchlist {
		if !strings.Contains(name, w.term) {
			continue
		}
		screening.Hits = append(screening.Hits, models.ScreeningHit{
			Name:        req.EntityName,
			Type:        w.kind,
			Score:       90,
			Description: fmt.Sprintf("Name matches watchlist entry %q", w.term),
			ListSource:  w.source,
			Status:      models.HitPotential,
		})
		switch w.kind {
		case models.HitSanction:
			screening.SanctionsHit = true
		case models.HitPEP:
			screening.PEPStatus = true
		case models.HitAdverseMedia:
			screening.AdverseMediaFound = true
		}
	}
	if len(screening.Hits) > 0 {
		score += watchlistWeight
		factors = append(factors, models.RiskFactor{
			Category:    "Screening",
			Description: fmt.Sprintf("%d potential watchlist match(es)", len(screening.Hits)),
			Score:       watchlistWeight,
			Severity:    models.RiskHigh,
		})
		screening.Summary = "Potential watchlist matches require disposition."
	} else {
		screening.Summary = "No sanctions, PEP or adverse media matches."
	}

	score = min(score, 100)
	return models.RiskAssessment{
		RiskScore:       score,
		RiskLevel:       levelFor(score),
		RiskFactors:     factors,
		Screening:       screening,
		EnrichedSummary: fmt.Sprintf("%s (%s) assessed offline against policy tables.", req.EntityName, req.EntityType),
	}, nil
}

func levelFor(score int) models.RiskLevel {
	switch {
	case score >= highThreshold:
		return models.RiskHigh
	case score >= mediumThreshold:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}
