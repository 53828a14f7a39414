package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"HealthNewsRelay/internal/ports"
)

const defaultAnthropicModel = "claude-3-5-haiku-latest"

// AnthropicProvider is a rewrite adapter over the official Anthropic client.
type AnthropicProvider struct {
	apiKey string
	model  string
	client anthropic.Client
}

var _ ports.RewriteProvider = (*AnthropicProvider)(nil)

// NewAnthropic builds the adapter.
func NewAnthropic(apiKey, model string) *AnthropicProvider {
	if model == "" {
		model = defaultAnthropicModel
	}
	return &AnthropicProvider{
		apiKey: apiKey,
		model:  model,
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
	}
}

// Name identifies the provider in chain audit logs.
func (a *AnthropicProvider) Name() string { return "anthropic" }

// Configured reports whether an API key is present.
func (a *AnthropicProvider) Configured() bool { return a.apiKey != "" }

// Invoke performs a single stylized-rewrite call.
func (a *AnthropicProvider) Invoke(ctx context.Context, req ports.RewriteRequest) (string, error) {
	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: 1500,
		System: []anthropic.TextBlockParam{
			{Text: req.SystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(rewritePrompt(req))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(text.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no response from anthropic")
	}
	return sb.String(), nil
}
