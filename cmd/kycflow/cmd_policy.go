package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"kycflow/internal/onboarding/models"
	"kycflow/internal/policy"
)

func policyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policy",
		Short: "Inspect the document policy",
	}
	cmd.AddCommand(policyEvaluateCmd(), policyValidateCmd())
	return cmd
}

// evaluation is the JSON printed by policy evaluate.
type evaluation struct {
	PolicyVersion    string                       `json:"policy_version"`
	EntityType       models.EntityType            `json:"entity_type"`
	Documents        []models.DocumentRequirement `json:"documents"`
	MissingFields    []models.AttributeKey        `json:"missing_fields"`
	MissingTaxFields []models.AttributeKey        `json:"missing_tax_fields"`
}

func policyEvaluateCmd() *cobra.Command {
	var (
		entityType string
		name       string
		attrs      []string
		file       string
	)
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Print the document checklist for an entity type and attributes",
		Example: `  kycflow policy evaluate --type Company --name "Isthmus Minerals SA" \
    --attr industry="Mining and Quarrying" --attr country=Panama`,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := models.ParseEntityType(entityType)
			if err != nil {
				return err
			}
			attributes, err := parseAttrFlags(attrs)
			if err != nil {
				return err
			}
			if name != "" {
				attributes[models.AttrName] = name
			}
			if err := models.ValidateAttributes(t, attributes); err != nil {
				return err
			}

			doc, err := loadPolicy(file)
			if err != nil {
				return fmt.Errorf("policy evaluate: %w", err)
			}
			engine := policy.NewEngine(doc)

			return writeJSON(cmd.OutOrStdout(), evaluation{
				PolicyVersion:    engine.Version(),
				EntityType:       t,
				Documents:        engine.Evaluate(t, attributes, nil),
				MissingFields:    nonNilKeys(models.MissingIntakeFields(t, attributes)),
				MissingTaxFields: nonNilKeys(engine.MissingTaxFields(attributes)),
			})
		},
	}
	cmd.Flags().StringVar(&entityType, "type", "", "entity type (Individual, Company, Trust, Partnership, Foundation, JointVenture)")
	cmd.Flags().StringVar(&name, "name", "", "entity name, scanned for policy keywords")
	cmd.Flags().StringArrayVar(&attrs, "attr", nil, "attribute as key=value, repeatable")
	cmd.Flags().StringVar(&file, "file", "", "policy file (defaults to the configured or embedded policy)")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func policyValidateCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Load and validate a policy document",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadPolicy(file)
			if err != nil {
				return fmt.Errorf("policy validate: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(),
				"policy %s is valid: %d base, %d industry, %d product, %d jurisdiction, %d keyword rules, %d tax regions\n",
				doc.Version, len(doc.Base), len(doc.Industry), len(doc.Product),
				len(doc.Jurisdiction.Countries), len(doc.Keywords), len(doc.Tax))
			return err
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "policy file (defaults to the configured or embedded policy)")
	return cmd
}

func parseAttrFlags(pairs []string) (models.Attributes, error) {
	attrs := models.Attributes{}
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("attribute %q must be key=value", p)
		}
		attrs[models.AttributeKey(key)] = value
	}
	return attrs, nil
}

func nonNilKeys(keys []models.AttributeKey) []models.AttributeKey {
	if keys == nil {
		return []models.AttributeKey{}
	}
	return keys
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
