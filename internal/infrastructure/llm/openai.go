// Package llm holds the generation providers of the stylized-rewrite chain
// and the relevance classifier. SDK-backed vendors use their official Go
// clients; the rest speak the OpenAI-compatible wire format directly.
package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"HealthNewsRelay/internal/ports"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAIProvider is a rewrite adapter over the official OpenAI client. Two
// instances with distinct keys form the first two links of the chain.
type OpenAIProvider struct {
	name   string
	apiKey string
	model  string
	client openai.Client
}

var _ ports.RewriteProvider = (*OpenAIProvider)(nil)

// NewOpenAI builds a named adapter; the name distinguishes the primary and
// secondary key instances in audit logs.
func NewOpenAI(name, apiKey, model string) *OpenAIProvider {
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIProvider{
		name:   name,
		apiKey: apiKey,
		model:  model,
		client: openai.NewClient(option.WithAPIKey(apiKey)),
	}
}

// Name identifies the provider in chain audit logs.
func (o *OpenAIProvider) Name() string { return o.name }

// Configured reports whether an API key is present.
func (o *OpenAIProvider) Configured() bool { return o.apiKey != "" }

// Invoke performs a single stylized-rewrite call.
func (o *OpenAIProvider) Invoke(ctx context.Context, req ports.RewriteRequest) (string, error) {
	response, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.SystemPrompt),
			openai.UserMessage(rewritePrompt(req)),
		},
		Temperature: openai.Float(0.7),
		MaxTokens:   openai.Int(1500),
	})
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	if len(response.Choices) == 0 || response.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("no response from openai")
	}
	return response.Choices[0].Message.Content, nil
}

// rewritePrompt renders the uniform user message shared by all generation
// providers so a fallback switch never changes what the model sees.
func rewritePrompt(req ports.RewriteRequest) string {
	return fmt.Sprintf("Názov článku: %s\n\nText článku:\n%s", req.Title, req.Body)
}
