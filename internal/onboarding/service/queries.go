package service

import (
	"context"
	"strings"

	"kycflow/internal/collaborators/search"
	"kycflow/internal/onboarding/models"
	"kycflow/internal/onboarding/store"
	"kycflow/internal/policy"
	"kycflow/internal/workflow"
	id "kycflow/pkg/domain"
	dErrors "kycflow/pkg/domain-errors"
	audit "kycflow/pkg/platform/audit"
)

const maxQueryLen = 500

// SearchResult pairs the matched entities with the searcher's explanation.
type SearchResult struct {
	Entities []*models.Entity `json:"entities"`
	Reason   string           `json:"reason"`
}

// Catalogue is the reference data clients render as choices.
type Catalogue struct {
	PolicyVersion      string              `json:"policy_version"`
	EntityTypes        []models.EntityType `json:"entity_types"`
	ReviewTriggers     []string            `json:"review_triggers"`
	OffboardingReasons []string            `json:"offboarding_reasons"`
	WaiverReasons      []string            `json:"waiver_reasons"`
	TaxRegions         []policy.TaxRegion  `json:"tax_regions"`
}

// Search resolves a free-text query against every entity. Matches come back
// best first; unknown ids from the searcher are ignored.
func (s *Service) Search(ctx context.Context, query string) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "query is required")
	}
	if len(query) > maxQueryLen {
		return nil, dErrors.Newf(dErrors.CodeValidation, "query must be %d characters or less", maxQueryLen)
	}

	entities, err := s.List(ctx, store.Filter{})
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*models.Entity, len(entities))
	candidates := make([]search.Candidate, len(entities))
	for i, e := range entities {
		byID[e.ID.String()] = e
		candidates[i] = search.Candidate{
			ID:         e.ID.String(),
			Name:       e.Name,
			Type:       e.Type,
			Status:     e.Status,
			Attributes: e.Attributes,
		}
	}

	result, err := s.searcher.Search(ctx, query, candidates)
	if err != nil {
		result = search.Fallback()
	}
	out := &SearchResult{Entities: []*models.Entity{}, Reason: result.Reason}
	for _, matched := range result.MatchedIDs {
		if e, ok := byID[matched]; ok {
			out.Entities = append(out.Entities, e)
			delete(byID, matched)
		}
	}
	return out, nil
}

// Stats counts entities per status.
func (s *Service) Stats(ctx context.Context) (workflow.Stats, error) {
	entities, err := s.List(ctx, store.Filter{})
	if err != nil {
		return workflow.Stats{}, err
	}
	return workflow.Snapshot(entities), nil
}

// AuditTrail lists an entity's events, oldest first.
func (s *Service) AuditTrail(ctx context.Context, entityID id.EntityID) ([]audit.Event, error) {
	if _, err := s.Get(ctx, entityID); err != nil {
		return nil, err
	}
	if s.auditPublisher == nil {
		return []audit.Event{}, nil
	}
	events, err := s.auditPublisher.List(ctx, entityID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit events")
	}
	if events == nil {
		events = []audit.Event{}
	}
	return events, nil
}

func (s *Service) Catalogue() Catalogue {
	doc := s.engine.Document()
	return Catalogue{
		PolicyVersion:      s.engine.Version(),
		EntityTypes:        models.EntityTypes(),
		ReviewTriggers:     nonNil(doc.ReviewTriggers),
		OffboardingReasons: nonNil(doc.OffboardingReasons),
		WaiverReasons:      nonNil(doc.WaiverReasons),
		TaxRegions:         append([]policy.TaxRegion{}, doc.Tax...),
	}
}

func nonNil(s []string) []string {
	return append([]string{}, s...)
}
