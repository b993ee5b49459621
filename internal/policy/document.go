package policy

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"kycflow/internal/onboarding/models"
	dErrors "kycflow/pkg/domain-errors"
	"kycflow/pkg/platform/validation"
)

//go:embed policy.yaml
var defaultPolicy []byte

// Document is the versioned rule set the engine evaluates. It is loaded from
// YAML so rules can change without touching engine code.
type Document struct {
	Version            string           `yaml:"version" validate:"required"`
	Base               []BaseRule       `yaml:"base" validate:"dive"`
	Industry           []AttributeRule  `yaml:"industry" validate:"dive"`
	Product            []AttributeRule  `yaml:"product" validate:"dive"`
	Jurisdiction       JurisdictionRule `yaml:"jurisdiction"`
	Keywords           []KeywordRule    `yaml:"keywords" validate:"dive"`
	Tax                []TaxRegion      `yaml:"tax" validate:"dive"`
	ReviewTriggers     []string         `yaml:"review_triggers"`
	OffboardingReasons []string         `yaml:"offboarding_reasons"`
	WaiverReasons      []string         `yaml:"waiver_reasons"`
}

// DocumentSpec is a document a rule asks for.
type DocumentSpec struct {
	Name        string `yaml:"name" validate:"required,max=200"`
	Description string `yaml:"description" validate:"max=500"`
}

// BaseRule is the standard set for one entity type.
type BaseRule struct {
	EntityType models.EntityType `yaml:"entity_type" validate:"required"`
	Documents  []DocumentSpec    `yaml:"documents" validate:"dive"`
}

// AttributeRule fires when an attribute equals Match.
type AttributeRule struct {
	Match     string         `yaml:"match" validate:"required"`
	Documents []DocumentSpec `yaml:"documents" validate:"required,min=1,dive"`
}

// JurisdictionRule fires when the entity's country is in Countries.
type JurisdictionRule struct {
	Countries []string       `yaml:"countries" validate:"dive,required"`
	Documents []DocumentSpec `yaml:"documents" validate:"dive"`
}

// KeywordRule fires when Keyword occurs in the free-text haystack.
type KeywordRule struct {
	Keyword   string         `yaml:"keyword" validate:"required"`
	Reason    string         `yaml:"reason" validate:"required"`
	Documents []DocumentSpec `yaml:"documents" validate:"required,min=1,dive"`
}

// TaxRegion lists the tax attributes collected for a region.
type TaxRegion struct {
	Region string     `yaml:"region" json:"region" validate:"required"`
	Fields []TaxField `yaml:"fields" json:"fields" validate:"required,min=1,dive"`
}

// TaxField is one tax attribute.
type TaxField struct {
	Key         string `yaml:"key" json:"key" validate:"required,attr_key"`
	Label       string `yaml:"label" json:"label" validate:"required"`
	Description string `yaml:"description" json:"description"`
	Required    bool   `yaml:"required" json:"required"`
}

// Default returns the embedded policy document.
func Default() (*Document, error) {
	return Load(bytes.NewReader(defaultPolicy))
}

// LoadFile reads a policy document from disk.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open policy file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes and validates a policy document. Unknown YAML fields are
// rejected so a typo in a rule name does not silently drop the rule.
func Load(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "decode policy document")
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks struct tags and cross-field rules.
func (d *Document) Validate() error {
	if err := validation.New().Validate(d); err != nil {
		return err
	}

	seenTypes := make(map[models.EntityType]struct{}, len(d.Base))
	for _, rule := range d.Base {
		if !rule.EntityType.IsValid() {
			return dErrors.Newf(dErrors.CodeValidation, "base rule for unknown entity type %q", rule.EntityType)
		}
		if _, dup := seenTypes[rule.EntityType]; dup {
			return dErrors.Newf(dErrors.CodeValidation, "duplicate base rule for %s", rule.EntityType)
		}
		seenTypes[rule.EntityType] = struct{}{}
	}

	if err := uniqueKeys("industry", d.Industry, func(r AttributeRule) string { return industryKey(r.Match) }); err != nil {
		return err
	}
	if err := uniqueKeys("product", d.Product, func(r AttributeRule) string { return normalize(r.Match) }); err != nil {
		return err
	}
	if err := uniqueKeys("tax", d.Tax, func(r TaxRegion) string { return normalize(r.Region) }); err != nil {
		return err
	}
	return nil
}

func uniqueKeys[T any](table string, rules []T, key func(T) string) error {
	seen := make(map[string]struct{}, len(rules))
	for _, r := range rules {
		k := key(r)
		if _, dup := seen[k]; dup {
			return dErrors.Newf(dErrors.CodeValidation, "duplicate %s rule %q", table, k)
		}
		seen[k] = struct{}{}
	}
	return nil
}
