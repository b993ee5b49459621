package policy

import (
	"regexp"
	"strings"

	"kycflow/internal/onboarding/models"
)

var nacePrefix = regexp.MustCompile(`^[A-Za-z]\s+-\s+`)

// Engine evaluates a policy Document. It holds only immutable lookup tables
// and is safe for concurrent use.
type Engine struct {
	doc          *Document
	base         map[models.EntityType][]DocumentSpec
	industry     map[string][]DocumentSpec
	product      map[string][]DocumentSpec
	jurisdiction map[string]struct{}
	tax          map[string]TaxRegion
}

// NewEngine indexes a validated document.
func NewEngine(doc *Document) *Engine {
	e := &Engine{
		doc:          doc,
		base:         make(map[models.EntityType][]DocumentSpec, len(doc.Base)),
		industry:     make(map[string][]DocumentSpec, len(doc.Industry)),
		product:      make(map[string][]DocumentSpec, len(doc.Product)),
		jurisdiction: make(map[string]struct{}, len(doc.Jurisdiction.Countries)),
		tax:          make(map[string]TaxRegion, len(doc.Tax)),
	}
	for _, r := range doc.Base {
		e.base[r.EntityType] = r.Documents
	}
	for _, r := range doc.Industry {
		e.industry[industryKey(r.Match)] = r.Documents
	}
	for _, r := range doc.Product {
		e.product[normalize(r.Match)] = r.Documents
	}
	for _, c := range doc.Jurisdiction.Countries {
		e.jurisdiction[normalize(c)] = struct{}{}
	}
	for _, r := range doc.Tax {
		e.tax[normalize(r.Region)] = r
	}
	return e
}

// Document returns the underlying policy document.
func (e *Engine) Document() *Document {
	return e.doc
}

// Version identifies the rule set that produced a checklist.
func (e *Engine) Version() string {
	return e.doc.Version
}

// Evaluate returns the checklist for an entity type and attribute set,
// carrying upload and verification state forward from previous by document
// name. Requirements that no longer apply are dropped.
func (e *Engine) Evaluate(t models.EntityType, attrs models.Attributes, previous []models.DocumentRequirement) []models.DocumentRequirement {
	acc := newAccumulator()

	for _, spec := range e.base[t] {
		acc.add(prefixBase, spec, models.CategoryStandard, reasonStandard)
	}

	if v := attrs.Get(models.AttrIndustry); v != "" {
		for _, spec := range e.industry[industryKey(v)] {
			acc.add(prefixIndustry, spec, models.CategoryRisk, "Industry: "+v)
		}
	}

	if v := attrs.Get(models.AttrProduct); v != "" {
		for _, spec := range e.product[normalize(v)] {
			acc.add(prefixProduct, spec, models.CategoryProduct, "Product: "+v)
		}
	}

	if country := Jurisdiction(attrs); country != "" {
		if _, risky := e.jurisdiction[normalize(country)]; risky {
			for _, spec := range e.doc.Jurisdiction.Documents {
				acc.add(prefixJurisdiction, spec, models.CategoryJurisdiction, "High Risk Jurisdiction: "+country)
			}
		}
	}

	for _, rule := range e.MatchedKeywords(attrs) {
		for _, spec := range rule.Documents {
			acc.add(prefixKeyword, spec, models.CategoryRisk, rule.Reason)
		}
	}

	return merge(acc.docs, previous)
}

// MatchedKeywords returns the keyword rules whose keyword occurs in the
// entity's free text, in declaration order.
func (e *Engine) MatchedKeywords(attrs models.Attributes) []KeywordRule {
	haystack := Haystack(attrs)
	if haystack == "" {
		return nil
	}
	var matched []KeywordRule
	for _, rule := range e.doc.Keywords {
		if strings.Contains(haystack, strings.ToLower(rule.Keyword)) {
			matched = append(matched, rule)
		}
	}
	return matched
}

// IsHighRiskJurisdiction reports whether country is on the jurisdiction list.
func (e *Engine) IsHighRiskJurisdiction(country string) bool {
	_, ok := e.jurisdiction[normalize(country)]
	return ok
}

// TaxRequirements returns the tax fields for a region.
func (e *Engine) TaxRequirements(region string) (TaxRegion, bool) {
	r, ok := e.tax[normalize(region)]
	return r, ok
}

// MissingTaxFields lists required tax attributes that are blank for the
// entity's declared tax region.
func (e *Engine) MissingTaxFields(attrs models.Attributes) []models.AttributeKey {
	region, ok := e.TaxRequirements(attrs.Get(models.AttrTaxRegion))
	if !ok {
		return nil
	}
	var missing []models.AttributeKey
	for _, f := range region.Fields {
		if f.Required && !attrs.Has(models.AttributeKey(f.Key)) {
			missing = append(missing, models.AttributeKey(f.Key))
		}
	}
	return missing
}

// Jurisdiction is the country used for jurisdiction rules: the registered
// country, falling back to nationality.
func Jurisdiction(attrs models.Attributes) string {
	if c := attrs.Get(models.AttrCountry); c != "" {
		return c
	}
	return attrs.Get(models.AttrNationality)
}

// Haystack joins the free-text fields scanned by keyword rules.
func Haystack(attrs models.Attributes) string {
	parts := make([]string, 0, 3)
	for _, k := range []models.AttributeKey{models.AttrOccupation, models.AttrBusinessActivity, models.AttrName} {
		if v := attrs.Get(k); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}

type accumulator struct {
	docs []models.DocumentRequirement
	seen map[string]struct{}
}

func newAccumulator() *accumulator {
	return &accumulator{docs: []models.DocumentRequirement{}, seen: make(map[string]struct{})}
}

// add appends spec unless a document with the same name is already present;
// the first rule to require a document keeps its reason.
func (a *accumulator) add(prefix string, spec DocumentSpec, category models.DocumentCategory, reason string) {
	if _, dup := a.seen[spec.Name]; dup {
		return
	}
	a.seen[spec.Name] = struct{}{}
	a.docs = append(a.docs, models.DocumentRequirement{
		ID:                 DocumentID(prefix, spec.Name),
		Name:               spec.Name,
		Description:        spec.Description,
		Category:           category,
		TriggerReason:      reason,
		VerificationStatus: models.VerificationPending,
	})
}

func merge(next, previous []models.DocumentRequirement) []models.DocumentRequirement {
	if len(previous) == 0 {
		return next
	}
	byName := make(map[string]models.DocumentRequirement, len(previous))
	for _, d := range previous {
		byName[d.Name] = d
	}
	for i := range next {
		old, ok := byName[next[i].Name]
		if !ok {
			continue
		}
		next[i].Uploaded = old.Uploaded
		next[i].VerificationStatus = old.VerificationStatus
		next[i].ScanID = old.ScanID
		if old.ForensicAnalysis != nil {
			fa := *old.ForensicAnalysis
			next[i].ForensicAnalysis = &fa
		}
	}
	return next
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func industryKey(s string) string {
	return normalize(nacePrefix.ReplaceAllString(strings.TrimSpace(s), ""))
}
