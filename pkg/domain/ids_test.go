package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "kycflow/pkg/domain-errors"
)

// TestParseEntityID_Invariants checks the boundary rule that ids are valid,
// non-empty, non-nil UUIDs.
func TestParseEntityID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseEntityID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseEntityID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseEntityID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		raw := uuid.New()
		parsed, err := ParseEntityID(raw.String())
		require.NoError(t, err)
		assert.Equal(t, EntityID(raw), parsed)
	})
}

func TestParseID_HostileInput(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"path traversal", "../../../etc/passwd", true},
		{"null byte", "550e8400\x00-e29b-41d4-a716-446655440000", true},
		{"oversized", strings.Repeat("a", 1000), true},
		{"whitespace only", "   ", true},
		{"uppercase", "550E8400-E29B-41D4-A716-446655440000", false},
		{"lowercase", "550e8400-e29b-41d4-a716-446655440000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errEntity := ParseEntityID(tt.input)
			_, errHit := ParseHitID(tt.input)
			if tt.wantErr {
				require.Error(t, errEntity)
				require.Error(t, errHit)
				return
			}
			require.NoError(t, errEntity)
			require.NoError(t, errHit)
		})
	}
}

func TestEntityID_JSONRoundTrip(t *testing.T) {
	want := NewEntityID()
	body, err := json.Marshal(map[string]EntityID{"id": want})
	require.NoError(t, err)
	assert.Contains(t, string(body), want.String())

	var got map[string]EntityID
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, want, got["id"])
}
