// Package policy derives an entity's document checklist from its type and
// attributes using a layered, additive rule document.
//
// Rule families are evaluated in a fixed order: base, industry, product,
// jurisdiction, keywords. A document name seen twice keeps the id and
// trigger reason of its first occurrence.
package policy

import (
	"regexp"
	"strings"
)

// Trigger reasons and id prefixes per rule family.
const (
	reasonStandard = "Standard Policy"

	prefixBase         = "base"
	prefixIndustry     = "ind"
	prefixProduct      = "prod"
	prefixJurisdiction = "jur"
	prefixKeyword      = "key"
)

var slugSep = regexp.MustCompile(`[^a-z0-9]+`)

// DocumentID derives the stable checklist key for a rule family and name.
func DocumentID(prefix, name string) string {
	slug := strings.Trim(slugSep.ReplaceAllString(strings.ToLower(name), "-"), "-")
	return prefix + "-" + slug
}
