package handler

import (
	"kycflow/internal/lifecycle"
	"kycflow/internal/onboarding/models"
	"kycflow/internal/screening"
	audit "kycflow/pkg/platform/audit"
)

// EntityResponse is the entity view: the aggregate plus the derived intake
// gaps and the actions an operator can take next.
type EntityResponse struct {
	*models.Entity
	MissingFields    []models.AttributeKey `json:"missing_fields"`
	AvailableActions []lifecycle.Action    `json:"available_actions"`
}

type EntityListResponse struct {
	Entities []EntityResponse `json:"entities"`
	Count    int              `json:"count"`
}

type UploadResponse struct {
	Entity   EntityResponse              `json:"entity"`
	Document *models.DocumentRequirement `json:"document"`
}

type FinalizeResponse struct {
	Entity  EntityResponse    `json:"entity"`
	Outcome screening.Outcome `json:"outcome"`
	Action  lifecycle.Action  `json:"action"`
}

type SearchResponse struct {
	Entities []EntityResponse `json:"entities"`
	Reason   string           `json:"reason"`
}

type AuditResponse struct {
	Events []audit.Event `json:"events"`
}
