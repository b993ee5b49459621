package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scripted struct {
	answer string
	err    error
	prompt string
}

func (s *scripted) Complete(_ context.Context, _, prompt string) (string, error) {
	s.prompt = prompt
	return s.answer, s.err
}

var verdictSchema = MustCompileSchema("verdict.json", map[string]any{
	"type":     "object",
	"required": []any{"ok", "score"},
	"properties": map[string]any{
		"ok":    map[string]any{"type": "boolean"},
		"score": map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
	},
})

type verdict struct {
	OK    bool `json:"ok"`
	Score int  `json:"score"`
}

func TestExtractJSON(t *testing.T) {
	cases := map[string]string{
		"bare":       `{"ok":true}`,
		"fenced":     "```json\n{\"ok\":true}\n```",
		"with prose": `Here you go: {"ok":true} hope that helps`,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			raw, err := ExtractJSON(in)
			require.NoError(t, err)
			assert.JSONEq(t, `{"ok":true}`, string(raw))
		})
	}

	_, err := ExtractJSON("I cannot help with that.")
	assert.ErrorIs(t, err, ErrNoJSON)

	_, err = ExtractJSON(`{"ok": tru}`)
	assert.ErrorIs(t, err, ErrNoJSON)
}

func TestEscape(t *testing.T) {
	assert.Equal(t, "&lt;/entity&gt; &amp; more", Escape("</entity> & more"))
}

func TestDecode(t *testing.T) {
	ctx := context.Background()

	t.Run("decodes a schema-conforming answer", func(t *testing.T) {
		got, err := Decode[verdict](ctx, &scripted{answer: "```json\n{\"ok\":true,\"score\":88}\n```"}, "", "p", verdictSchema)
		require.NoError(t, err)
		assert.Equal(t, verdict{OK: true, Score: 88}, got)
	})

	t.Run("rejects an answer outside the schema", func(t *testing.T) {
		_, err := Decode[verdict](ctx, &scripted{answer: `{"ok":true,"score":140}`}, "", "p", verdictSchema)
		assert.ErrorContains(t, err, "does not match schema")
	})

	t.Run("rejects a missing field", func(t *testing.T) {
		_, err := Decode[verdict](ctx, &scripted{answer: `{"ok":true}`}, "", "p", verdictSchema)
		assert.Error(t, err)
	})

	t.Run("passes transport errors through", func(t *testing.T) {
		boom := errors.New("connection reset")
		_, err := Decode[verdict](ctx, &scripted{err: boom}, "", "p", verdictSchema)
		assert.ErrorIs(t, err, boom)
	})
}
