package llm

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrNoJSON is returned when a response carries no JSON object.
var ErrNoJSON = errors.New("no JSON object in response")

// ExtractJSON pulls the outermost JSON object out of a model answer, which
// may be wrapped in a markdown fence or surrounded by prose.
func ExtractJSON(text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if after, ok := strings.CutPrefix(text, "```"); ok {
		after = strings.TrimPrefix(after, "json")
		if body, _, found := strings.Cut(after, "```"); found {
			text = strings.TrimSpace(body)
		}
	}
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end < start {
		return nil, ErrNoJSON
	}
	raw := []byte(text[start : end+1])
	if !json.Valid(raw) {
		return nil, fmt.Errorf("%w: malformed object", ErrNoJSON)
	}
	return raw, nil
}

// Escape replaces characters with special meaning in XML so user content can
// sit inside XML-delimited prompt sections.
func Escape(s string) string {
	var buf strings.Builder
	if err := xml.EscapeText(&buf, []byte(s)); err != nil {
		return s
	}
	return buf.String()
}

// Decode completes a prompt and decodes the answer into T after checking it
// against schema. Any failure along the way is returned; callers substitute
// their fallback.
func Decode[T any](ctx context.Context, c Completer, system, prompt string, schema *jsonschema.Schema) (T, error) {
	var out T
	text, err := c.Complete(ctx, system, prompt)
	if err != nil {
		return out, err
	}
	raw, err := ExtractJSON(text)
	if err != nil {
		return out, err
	}
	if schema != nil {
		if err := ValidateJSON(schema, raw); err != nil {
			return out, err
		}
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}
