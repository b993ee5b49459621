package forensics

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kycflow/internal/collaborators"
)

type stubCompleter struct {
	answer string
	err    error
}

func (s stubCompleter) Complete(context.Context, string, string) (string, error) {
	return s.answer, s.err
}

func TestFallbackIsKeyedOffTheHint(t *testing.T) {
	forged := Fallback(true)
	assert.True(t, forged.IsForged)
	assert.Equal(t, 35, forged.Score)
	assert.Equal(t, "Artifacts Detected", forged.Factors.PixelPattern)
	assert.Equal(t, "System detected anomalies (fallback).", forged.Reason)

	clean := Fallback(false)
	assert.False(t, clean.IsForged)
	assert.Equal(t, 98, clean.Score)
	assert.Equal(t, "Pass", clean.Factors.CompressionArtifacts)
	assert.Equal(t, "Forensic service passed (default).", clean.Reason)

	assert.Equal(t, Fallback(true), Fallback(true))
}

func TestIsSuspicious(t *testing.T) {
	assert.True(t, IsSuspicious("Passport", true))
	assert.True(t, IsSuspicious("FAKE utility bill", false))
	assert.False(t, IsSuspicious("Passport", false))
}

func TestClaude(t *testing.T) {
	ctx := context.Background()
	answer := `{"isForged": false, "score": 91, "reason": "clean",
		"factors": {"metadata": "Consistent", "compressionArtifacts": "Pass", "typography": "Consistent", "pixelPattern": "Natural"}}`

	got, err := NewClaude(stubCompleter{answer: answer}).Analyze(ctx, Request{DocumentName: "Passport"})
	require.NoError(t, err)
	assert.Equal(t, 91, got.Score)
	assert.Equal(t, "Natural", got.Factors.PixelPattern)

	_, err = NewClaude(stubCompleter{answer: `{"isForged": "maybe"}`}).Analyze(ctx, Request{DocumentName: "Passport"})
	assert.Error(t, err)
}

func TestGuardedFallsBackWithTheSameHint(t *testing.T) {
	failing := NewClaude(stubCompleter{err: errors.New("503")})
	g := NewGuarded(failing, collaborators.NewGuard("forensics"))

	suspicious, err := g.Analyze(context.Background(), Request{DocumentName: "Passport", SuspiciousHint: true})
	require.NoError(t, err)
	assert.Equal(t, Fallback(true), suspicious)

	clean, err := g.Analyze(context.Background(), Request{DocumentName: "Passport"})
	require.NoError(t, err)
	assert.Equal(t, Fallback(false), clean)
}
