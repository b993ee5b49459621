package audit

import (
	"context"
	"time"

	id "kycflow/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
type EventCategory string

const (
	// CategoryCompliance covers decisions with regulatory significance:
	// approvals, rejections, waivers, forensic verdicts, hit dispositions.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers routine activity such as intake edits.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions on an entity.
type Event struct {
	Category  EventCategory `json:"category"`
	Timestamp time.Time     `json:"timestamp"`
	EntityID  id.EntityID   `json:"entity_id"`
	Action    string        `json:"action"`
	// From and To carry the status pair for transitions.
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
	// Subject names the document or hit the action applies to.
	Subject   string `json:"subject,omitempty"`
	Decision  string `json:"decision,omitempty"`
	Reason    string `json:"reason,omitempty"`
	ActorID   string `json:"actor_id,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type AuditEvent string

const (
	EventEntityCreated      AuditEvent = "entity_created"
	EventAttributesUpdated  AuditEvent = "attributes_updated"
	EventDocumentUploaded   AuditEvent = "document_uploaded"
	EventDocumentVerified   AuditEvent = "document_verified"
	EventDocumentFlagged    AuditEvent = "document_flagged"
	EventDocumentRemoved    AuditEvent = "document_removed"
	EventScreeningIngested  AuditEvent = "screening_ingested"
	EventHitDispositioned   AuditEvent = "hit_dispositioned"
	EventScreeningFinalized AuditEvent = "screening_finalized"
	EventStatusChanged      AuditEvent = "status_changed"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventDocumentVerified:   CategoryCompliance,
	EventDocumentFlagged:    CategoryCompliance,
	EventHitDispositioned:   CategoryCompliance,
	EventScreeningFinalized: CategoryCompliance,
	EventStatusChanged:      CategoryCompliance,

	EventEntityCreated:     CategoryOperations,
	EventAttributesUpdated: CategoryOperations,
	EventDocumentUploaded:  CategoryOperations,
	EventDocumentRemoved:   CategoryOperations,
	EventScreeningIngested: CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByEntity(ctx context.Context, entityID id.EntityID) ([]Event, error)
}
