// Package forensics checks uploaded documents for signs of forgery.
package forensics

import (
	"context"
	"fmt"
	"strings"

	"kycflow/internal/collaborators"
	"kycflow/internal/collaborators/llm"
	"kycflow/internal/onboarding/models"
)

// Request names the document and carries the caller's suspicion hint.
type Request struct {
	DocumentName   string `json:"documentName"`
	SuspiciousHint bool   `json:"suspiciousHint"`
}

// Analyzer returns a forensic verdict for one document.
type Analyzer interface {
	Analyze(ctx context.Context, req Request) (models.ForensicAnalysis, error)
}

// IsSuspicious combines an explicit hint with the document name: names that
// declare themselves fake are always treated as suspicious.
func IsSuspicious(name string, hint bool) bool {
	return hint || strings.Contains(strings.ToLower(name), "fake")
}

// Fallback is the deterministic verdict for a hint. Local uses it directly and
// Guarded serves it when the remote analyzer fails.
func Fallback(suspicious bool) models.ForensicAnalysis {
	if suspicious {
		return models.ForensicAnalysis{
			IsForged: true,
			Score:    35,
			Factors: models.ForensicFactors{
				Metadata:             "Inconsistent",
				CompressionArtifacts: "Fail",
				Typography:           "Manipulation Detected",
				PixelPattern:         "Artifacts Detected",
			},
			Reason: "System detected anomalies (fallback).",
		}
	}
	return models.ForensicAnalysis{
		IsForged: false,
		Score:    98,
		Factors: models.ForensicFactors{
			Metadata:             "Consistent",
			CompressionArtifacts: "Pass",
			Typography:           "Consistent",
			PixelPattern:         "Natural",
		},
		Reason: "Forensic service passed (default).",
	}
}

// Local answers from the hint alone.
type Local struct{}

func NewLocal() Local { return Local{} }

func (Local) Analyze(_ context.Context, req Request) (models.ForensicAnalysis, error) {
	return Fallback(req.SuspiciousHint), nil
}

const systemPrompt = "You are a document forensics analyst. Output only valid JSON."

const promptTemplate = `Produce a forensic report for the uploaded document.

<document_name>%s</document_name>
<suspicious>%t</suspicious>

Evaluate:
1. metadata: Consistent, Inconsistent or Missing (creation dates, producing software)
2. compressionArtifacts: Pass, Fail or Inconclusive (error level analysis)
3. typography: Consistent or Manipulation Detected
4. pixelPattern: Natural or Artifacts Detected (cloning and healing)

Answer with a JSON object with the fields isForged, score (0-100 authenticity confidence), factors and reason.`

var responseSchema = llm.MustCompileSchema("forensics.json", map[string]any{
	"type":     "object",
	"required": []any{"isForged", "score", "factors"},
	"properties": map[string]any{
		"isForged": map[string]any{"type": "boolean"},
		"score":    map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
		"reason":   map[string]any{"type": "string"},
		"factors": map[string]any{
			"type":     "object",
			"required": []any{"metadata", "compressionArtifacts", "typography", "pixelPattern"},
			"properties": map[string]any{
				"metadata":             map[string]any{"enum": []any{"Consistent", "Inconsistent", "Missing"}},
				"compressionArtifacts": map[string]any{"enum": []any{"Pass", "Fail", "Inconclusive"}},
				"typography":           map[string]any{"enum": []any{"Consistent", "Manipulation Detected"}},
				"pixelPattern":         map[string]any{"enum": []any{"Natural", "Artifacts Detected"}},
			},
		},
	},
})

// Claude asks an LLM for the report.
type Claude struct {
	llm llm.Completer
}

func NewClaude(c llm.Completer) *Claude {
	return &Claude{llm: c}
}

func (c *Claude) Analyze(ctx context.Context, req Request) (models.ForensicAnalysis, error) {
	prompt := fmt.Sprintf(promptTemplate, llm.Escape(req.DocumentName), req.SuspiciousHint)
	return llm.Decode[models.ForensicAnalysis](ctx, c.llm, systemPrompt, prompt, responseSchema)
}

// Guarded never fails; the fallback is keyed off the same hint the primary
// was given, so it is reproducible.
type Guarded struct {
	primary Analyzer
	guard   *collaborators.Guard
}

func NewGuarded(primary Analyzer, guard *collaborators.Guard) *Guarded {
	return &Guarded{primary: primary, guard: guard}
}

func (g *Guarded) Analyze(ctx context.Context, req Request) (models.ForensicAnalysis, error) {
	out, _ := collaborators.Call(ctx, g.guard, func(ctx context.Context) (models.ForensicAnalysis, error) {
		return g.primary.Analyze(ctx, req)
	}, func() models.ForensicAnalysis { return Fallback(req.SuspiciousHint) })
	return out, nil
}
