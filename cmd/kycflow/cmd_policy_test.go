package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kycflow/internal/onboarding/models"
	"kycflow/internal/platform/config"
)

func runPolicy(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfg = &config.Config{}
	cmd := policyCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPolicyEvaluate(t *testing.T) {
	out, err := runPolicy(t, "evaluate",
		"--type", "Company",
		"--name", "Isthmus Minerals SA",
		"--attr", "industry=Mining and Quarrying",
		"--attr", "country=Panama",
	)
	require.NoError(t, err)

	var got evaluation
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, models.EntityTypeCompany, got.EntityType)
	assert.Len(t, got.Documents, 8)
	assert.Contains(t, got.MissingFields, models.AttrEmail)
	assert.Empty(t, got.MissingTaxFields)
}

func TestPolicyEvaluateRejectsBadInput(t *testing.T) {
	_, err := runPolicy(t, "evaluate", "--type", "Spaceship")
	assert.Error(t, err)

	_, err = runPolicy(t, "evaluate", "--type", "Individual", "--attr", "novalue")
	assert.Error(t, err)

	_, err = runPolicy(t, "evaluate", "--type", "Individual", "--attr", "chairman=Someone")
	assert.Error(t, err)
}

func TestPolicyValidate(t *testing.T) {
	out, err := runPolicy(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")

	bad := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("version: \"\"\nunknown_table: []\n"), 0o600))
	_, err = runPolicy(t, "validate", "--file", bad)
	assert.Error(t, err)
}
