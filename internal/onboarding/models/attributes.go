package models

import (
	"sort"
	"strings"

	dErrors "kycflow/pkg/domain-errors"
	"kycflow/pkg/platform/validation"
)

// AttributeKey names an intake field. Known keys are declared below; any
// other well-formed key is kept as an extra field.
type AttributeKey string

const (
	AttrName               AttributeKey = "name"
	AttrEmail              AttributeKey = "email"
	AttrProduct            AttributeKey = "product"
	AttrCountry            AttributeKey = "country"
	AttrNationality        AttributeKey = "nationality"
	AttrOccupation         AttributeKey = "occupation"
	AttrDateOfBirth        AttributeKey = "date_of_birth"
	AttrAddress            AttributeKey = "address"
	AttrIndustry           AttributeKey = "industry"
	AttrBusinessActivity   AttributeKey = "business_activity"
	AttrRegistrationNumber AttributeKey = "registration_number"
	AttrChairman           AttributeKey = "chairman"
	AttrUBODescription     AttributeKey = "ubo_description"
	AttrTaxRegion          AttributeKey = "tax_region"
)

const maxAttributeValueLen = 2000

// Attributes is the entity's intake data.
type Attributes map[AttributeKey]string

// Get returns the trimmed value or "".
func (a Attributes) Get(key AttributeKey) string {
	return strings.TrimSpace(a[key])
}

// Has reports whether key carries a non-blank value.
func (a Attributes) Has(key AttributeKey) bool {
	return a.Get(key) != ""
}

// Clone returns an independent copy.
func (a Attributes) Clone() Attributes {
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Merge applies patch; an empty value deletes the key.
func (a Attributes) Merge(patch Attributes) Attributes {
	out := a.Clone()
	for k, v := range patch {
		v = strings.TrimSpace(v)
		if v == "" {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}

// Keys returns the keys in sorted order.
func (a Attributes) Keys() []AttributeKey {
	keys := make([]AttributeKey, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// AttributeSchema declares which known keys apply to an entity type and
// which are needed before intake counts as complete.
type AttributeSchema struct {
	Allowed  []AttributeKey
	Required []AttributeKey
}

var commonKeys = []AttributeKey{AttrName, AttrEmail, AttrProduct, AttrCountry, AttrTaxRegion, AttrAddress}

var organisationKeys = []AttributeKey{AttrIndustry, AttrBusinessActivity, AttrRegistrationNumber, AttrChairman, AttrUBODescription}

var schemas = map[EntityType]AttributeSchema{
	EntityTypeIndividual: {
		Allowed:  append([]AttributeKey{AttrNationality, AttrOccupation, AttrDateOfBirth}, commonKeys...),
		Required: []AttributeKey{AttrName, AttrEmail, AttrProduct, AttrNationality},
	},
}

// SchemaFor returns the attribute schema of an entity type. Every
// non-individual type shares the organisation schema.
func SchemaFor(t EntityType) AttributeSchema {
	if s, ok := schemas[t]; ok {
		return s
	}
	return AttributeSchema{
		Allowed:  append(append([]AttributeKey{}, organisationKeys...), commonKeys...),
		Required: []AttributeKey{AttrName, AttrEmail, AttrProduct, AttrIndustry},
	}
}

func (s AttributeSchema) allows(key AttributeKey) bool {
	for _, k := range s.Allowed {
		if k == key {
			return true
		}
	}
	return false
}

// knownKey reports whether key belongs to any type's schema.
func knownKey(key AttributeKey) bool {
	for _, t := range EntityTypes() {
		if SchemaFor(t).allows(key) {
			return true
		}
	}
	return false
}

// ValidateAttributes rejects malformed keys, oversized values, and known
// keys that belong to another entity type (a "chairman" on an Individual).
// Unknown well-formed keys pass through as extras.
func ValidateAttributes(t EntityType, attrs Attributes) error {
	schema := SchemaFor(t)
	for _, key := range attrs.Keys() {
		if !validation.IsAttributeKey(string(key)) {
			return dErrors.Newf(dErrors.CodeValidation, "attribute key %q must be lower_snake_case", key)
		}
		if len(attrs[key]) > maxAttributeValueLen {
			return dErrors.Newf(dErrors.CodeValidation, "attribute %q exceeds %d characters", key, maxAttributeValueLen)
		}
		if knownKey(key) && !schema.allows(key) {
			return dErrors.Newf(dErrors.CodeValidation, "attribute %q does not apply to %s entities", key, t)
		}
	}
	return nil
}

// MissingIntakeFields lists required keys that are still blank.
func MissingIntakeFields(t EntityType, attrs Attributes) []AttributeKey {
	var missing []AttributeKey
	for _, key := range SchemaFor(t).Required {
		if !attrs.Has(key) {
			missing = append(missing, key)
		}
	}
	return missing
}
