package handler

import (
	"strings"

	"kycflow/internal/onboarding/models"
	dErrors "kycflow/pkg/domain-errors"
	"kycflow/pkg/platform/validation"
)

var requestValidator = validation.New()

type CreateEntityRequest struct {
	Type       string            `json:"type" validate:"required"`
	Name       string            `json:"name" validate:"required,max=256"`
	Attributes map[string]string `json:"attributes" validate:"max=64,dive,keys,attr_key,endkeys,max=2000"`

	entityType models.EntityType
}

func (r *CreateEntityRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if err := requestValidator.Validate(r); err != nil {
		return err
	}
	t, err := models.ParseEntityType(r.Type)
	if err != nil {
		return err
	}
	r.entityType = t
	return nil
}

func (r *CreateEntityRequest) attributes() models.Attributes {
	return toAttributes(r.Attributes)
}

type UpdateAttributesRequest struct {
	Attributes map[string]string `json:"attributes" validate:"required,min=1,max=64,dive,keys,attr_key,endkeys,max=2000"`
}

func (r *UpdateAttributesRequest) Validate() error {
	return requestValidator.Validate(r)
}

type UploadDocumentRequest struct {
	Suspicious bool `json:"suspicious"`
}

func (r *UploadDocumentRequest) Validate() error { return nil }

type DispositionRequest struct {
	Outcome string `json:"outcome" validate:"required"`

	outcome models.HitStatus
}

func (r *DispositionRequest) Validate() error {
	if err := requestValidator.Validate(r); err != nil {
		return err
	}
	outcome, err := models.ParseHitOutcome(r.Outcome)
	if err != nil {
		return err
	}
	r.outcome = outcome
	return nil
}

type FinalizeRequest struct {
	ForcePeerReview bool `json:"force_peer_review"`
}

func (r *FinalizeRequest) Validate() error { return nil }

type TransitionRequest struct {
	Action string `json:"action" validate:"required,max=64"`
	Reason string `json:"reason" validate:"max=500"`
}

func (r *TransitionRequest) Validate() error {
	r.Action = strings.TrimSpace(r.Action)
	r.Reason = strings.TrimSpace(r.Reason)
	return requestValidator.Validate(r)
}

type SearchRequest struct {
	Query string `json:"query" validate:"required,max=500"`
}

func (r *SearchRequest) Validate() error {
	r.Query = strings.TrimSpace(r.Query)
	if r.Query == "" {
		return dErrors.New(dErrors.CodeValidation, "query is required")
	}
	return requestValidator.Validate(r)
}

func toAttributes(in map[string]string) models.Attributes {
	out := make(models.Attributes, len(in))
	for k, v := range in {
		out[models.AttributeKey(k)] = v
	}
	return out
}
