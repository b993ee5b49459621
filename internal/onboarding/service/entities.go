package service

import (
	"context"
	"strings"

	"kycflow/internal/onboarding/models"
	"kycflow/internal/onboarding/store"
	id "kycflow/pkg/domain"
	dErrors "kycflow/pkg/domain-errors"
	audit "kycflow/pkg/platform/audit"
	"kycflow/pkg/requestcontext"
)

// CreateCommand carries the intake form.
type CreateCommand struct {
	Type       models.EntityType
	Name       string
	Attributes models.Attributes
}

// Intake reports which intake fields are still blank. It is advisory; only
// the documents gate blocks screening.
type Intake struct {
	MissingFields    []models.AttributeKey `json:"missing_fields"`
	MissingTaxFields []models.AttributeKey `json:"missing_tax_fields"`
	Complete         bool                  `json:"complete"`
}

// Create registers a Draft entity and computes its initial checklist.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*models.Entity, error) {
	e, err := models.NewEntity(id.NewEntityID(), cmd.Type, cmd.Name, cmd.Attributes, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	e.Documents = s.engine.Evaluate(e.Type, e.Attributes, nil)

	if err := s.entities.Create(ctx, e); err != nil {
		return nil, wrapStoreErr(err, "create entity")
	}

	s.metrics.IncrementEntitiesCreated()
	s.logAudit(ctx, audit.EventEntityCreated, e, func(ev *audit.Event) {
		ev.To = string(e.Status)
		ev.Subject = string(e.Type)
	})
	return e, nil
}

func (s *Service) Get(ctx context.Context, entityID id.EntityID) (*models.Entity, error) {
	if err := requireEntityID(entityID.IsNil()); err != nil {
		return nil, err
	}
	e, err := s.entities.FindByID(ctx, entityID)
	if err != nil {
		return nil, wrapStoreErr(err, "get entity")
	}
	return e, nil
}

// List returns entities in creation order, optionally narrowed by status.
func (s *Service) List(ctx context.Context, filter store.Filter) ([]*models.Entity, error) {
	entities, err := s.entities.List(ctx, filter)
	if err != nil {
		return nil, wrapStoreErr(err, "list entities")
	}
	return entities, nil
}

// UpdateAttributes merges patch into a Draft entity and re-evaluates the
// checklist. Documents still required keep their upload and verdict. An
// empty value deletes the key.
func (s *Service) UpdateAttributes(ctx context.Context, entityID id.EntityID, patch models.Attributes) (*models.Entity, error) {
	if err := requireEntityID(entityID.IsNil()); err != nil {
		return nil, err
	}
	if len(patch) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "no attributes to update")
	}

	now := requestcontext.Now(ctx)
	e, err := s.entities.Execute(ctx, entityID,
		func(e *models.Entity) error {
			return e.CanEditAttributes(patch)
		},
		func(e *models.Entity) {
			merged := e.Attributes.Merge(patch)
			e.ApplyAttributes(patch, s.engine.Evaluate(e.Type, merged, e.Documents), now)
		},
	)
	if err != nil {
		return nil, wrapStoreErr(err, "update attributes")
	}

	s.logAudit(ctx, audit.EventAttributesUpdated, e, func(ev *audit.Event) {
		ev.Subject = joinKeys(patch.Keys())
	})
	return e, nil
}

// IntakeFor computes the intake report for an entity.
func (s *Service) IntakeFor(e *models.Entity) Intake {
	in := Intake{
		MissingFields:    models.MissingIntakeFields(e.Type, e.Attributes),
		MissingTaxFields: s.engine.MissingTaxFields(e.Attributes),
	}
	if in.MissingFields == nil {
		in.MissingFields = []models.AttributeKey{}
	}
	if in.MissingTaxFields == nil {
		in.MissingTaxFields = []models.AttributeKey{}
	}
	in.Complete = len(in.MissingFields) == 0 && len(in.MissingTaxFields) == 0
	return in
}

// Intake loads the entity and reports its intake completeness.
func (s *Service) Intake(ctx context.Context, entityID id.EntityID) (Intake, error) {
	e, err := s.Get(ctx, entityID)
	if err != nil {
		return Intake{}, err
	}
	return s.IntakeFor(e), nil
}

func joinKeys(keys []models.AttributeKey) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = string(k)
	}
	return strings.Join(parts, ",")
}
