// Package llm is the thin Anthropic layer shared by the collaborators.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultMaxTokens = 2048

// ErrEmptyResponse is returned when the model answers without a text block.
var ErrEmptyResponse = errors.New("empty response from Claude")

// Completer sends one prompt and returns the model's text answer.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Client is a Completer backed by the Anthropic Messages API.
type Client struct {
	client    *anthropic.Client
	model     string
	maxTokens int64
	logger    *slog.Logger
}

// NewClient creates a Claude client. A non-positive maxTokens uses the default.
func NewClient(apiKey, model string, maxTokens int64, logger *slog.Logger) *Client {
	c := anthropic.NewClient(option.WithAPIKey(apiKey))
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		client:    &c,
		model:     model,
		maxTokens: maxTokens,
		logger:    logger,
	}
}

func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("calling Claude API: %w", err)
	}

	var text string
	for i := range resp.Content {
		if resp.Content[i].Type == "text" {
			text = strings.TrimSpace(resp.Content[i].Text)
			break
		}
	}
	if text == "" {
		return "", ErrEmptyResponse
	}
	c.logger.DebugContext(ctx, "claude response", "model", c.model, "bytes", len(text))
	return text, nil
}
