package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "kycflow/pkg/domain-errors"
)

// EntityID identifies one onboarding applicant. Typed so it cannot be mixed
// up with screening hit ids or other UUIDs at call sites.
type EntityID uuid.UUID

// HitID identifies a screening hit within an entity.
type HitID uuid.UUID

// ScanID stamps one forensic scan of a document. A verdict is only applied
// to the scan that requested it.
type ScanID uuid.UUID

// NewEntityID returns a fresh random EntityID.
func NewEntityID() EntityID {
	return EntityID(uuid.New())
}

// NewHitID returns a fresh random HitID.
func NewHitID() HitID {
	return HitID(uuid.New())
}

func (id EntityID) String() string { return uuid.UUID(id).String() }
func (id EntityID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id HitID) String() string { return uuid.UUID(id).String() }
func (id HitID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

// NewScanID returns a fresh random ScanID.
func NewScanID() ScanID {
	return ScanID(uuid.New())
}

func (id ScanID) String() string { return uuid.UUID(id).String() }
func (id ScanID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

// MarshalText lets typed ids appear as plain strings in JSON.
func (id EntityID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *EntityID) UnmarshalText(b []byte) error {
	parsed, err := ParseEntityID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id HitID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// UnmarshalText accepts the nil UUID: candidate hits from collaborators
// carry no id until they are ingested.
func (id *HitID) UnmarshalText(b []byte) error {
	if u, err := uuid.ParseBytes(b); err == nil && u == uuid.Nil {
		*id = HitID(uuid.Nil)
		return nil
	}
	parsed, err := ParseHitID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ParseEntityID validates raw input at the API boundary.
func ParseEntityID(s string) (EntityID, error) {
	u, err := parseUUID(s, "entity id")
	return EntityID(u), err
}

// ParseHitID validates raw input at the API boundary.
func ParseHitID(s string) (HitID, error) {
	u, err := parseUUID(s, "hit id")
	return HitID(u), err
}

func parseUUID(s, label string) (uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" is required")
	}
	if len(s) > 64 {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" is too long")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid "+label)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be nil")
	}
	return u, nil
}
