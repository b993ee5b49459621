// Package search resolves free-text queries such as "that shipping company
// in Panama" to entity ids.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"kycflow/internal/collaborators"
	"kycflow/internal/collaborators/llm"
	"kycflow/internal/onboarding/models"
)

// Candidate is the summary of one entity offered to the searcher.
type Candidate struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Type       models.EntityType `json:"type"`
	Status     models.Status     `json:"status"`
	Attributes models.Attributes `json:"details"`
}

// Result lists the matching ids, best first, with a short explanation.
type Result struct {
	MatchedIDs []string `json:"matchedIds"`
	Reason     string   `json:"reason"`
}

type Searcher interface {
	Search(ctx context.Context, query string, candidates []Candidate) (Result, error)
}

// Fallback is served when search is unavailable.
func Fallback() Result {
	return Result{MatchedIDs: []string{}, Reason: "Search service unavailable."}
}

// Local ranks candidates by how many query tokens appear in their name,
// type, status and attribute values.
type Local struct{}

func NewLocal() Local { return Local{} }

func (Local) Search(_ context.Context, query string, candidates []Candidate) (Result, error) {
	tokens := tokenize(query)
	if len(tokens) == 0 {
		return Result{MatchedIDs: []string{}, Reason: "Empty query."}, nil
	}

	type scored struct {
		id    string
		score int
		order int
	}
	var hits []scored
	for i, c := range candidates {
		text := candidateText(c)
		n := 0
		for _, t := range tokens {
			if strings.Contains(text, t) {
				n++
			}
		}
		if n > 0 {
			hits = append(hits, scored{id: c.ID, score: n, order: i})
		}
	}
	slices.SortStableFunc(hits, func(a, b scored) int { return b.score - a.score })

	ids := make([]string, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, h.id)
	}
	reason := fmt.Sprintf("Matched %d of %d entities on %q.", len(ids), len(candidates), strings.Join(tokens, " "))
	return Result{MatchedIDs: ids, Reason: reason}, nil
}

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "in": {}, "of": {}, "that": {}, "with": {}, "and": {}, "for": {}, "from": {},
}

func tokenize(q string) []string {
	var out []string
	for _, f := range strings.FieldsFunc(strings.ToLower(q), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	}) {
		if _, stop := stopwords[f]; stop || len(f) < 2 {
			continue
		}
		out = append(out, f)
	}
	return out
}

func candidateText(c Candidate) string {
	parts := []string{c.Name, string(c.Type), string(c.Status)}
	for _, k := range c.Attributes.Keys() {
		parts = append(parts, c.Attributes[k])
	}
	return strings.ToLower(strings.Join(parts, " "))
}

const systemPrompt = "You are a database search assistant for a KYC onboarding team. Output only valid JSON."

const promptTemplate = `Find the entities that best match the query. The user may remember only fragments, so match on any metadata.

<query>%s</query>

<entities>%s</entities>

Answer with a JSON object with the fields matchedIds (entity ids, best first) and reason.`

var responseSchema = llm.MustCompileSchema("search.json", map[string]any{
	"type":     "object",
	"required": []any{"matchedIds"},
	"properties": map[string]any{
		"matchedIds": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"reason":     map[string]any{"type": "string"},
	},
})

// Claude asks an LLM to pick matches from the candidate list.
type Claude struct {
	llm llm.Completer
}

func NewClaude(c llm.Completer) *Claude {
	return &Claude{llm: c}
}

func (c *Claude) Search(ctx context.Context, query string, candidates []Candidate) (Result, error) {
	list, err := json.Marshal(candidates)
	if err != nil {
		return Result{}, fmt.Errorf("encode candidates: %w", err)
	}
	prompt := fmt.Sprintf(promptTemplate, llm.Escape(query), llm.Escape(string(list)))
	res, err := llm.Decode[Result](ctx, c.llm, systemPrompt, prompt, responseSchema)
	if err != nil {
		return Result{}, err
	}
	return res.restrictTo(candidates), nil
}

// restrictTo drops ids the model invented and duplicates.
func (r Result) restrictTo(candidates []Candidate) Result {
	known := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		known[c.ID] = struct{}{}
	}
	ids := make([]string, 0, len(r.MatchedIDs))
	for _, id := range r.MatchedIDs {
		if _, ok := known[id]; ok {
			ids = append(ids, id)
			delete(known, id)
		}
	}
	r.MatchedIDs = ids
	return r
}

// Guarded never fails.
type Guarded struct {
	primary Searcher
	guard   *collaborators.Guard
}

func NewGuarded(primary Searcher, guard *collaborators.Guard) *Guarded {
	return &Guarded{primary: primary, guard: guard}
}

func (g *Guarded) Search(ctx context.Context, query string, candidates []Candidate) (Result, error) {
	out, _ := collaborators.Call(ctx, g.guard, func(ctx context.Context) (Result, error) {
		return g.primary.Search(ctx, query, candidates)
	}, Fallback)
	return out, nil
}
