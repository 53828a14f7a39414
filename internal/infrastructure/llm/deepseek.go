package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"HealthNewsRelay/internal/ports"
)

const (
	defaultDeepSeekURL   = "https://api.deepseek.com/chat/completions"
	defaultDeepSeekModel = "deepseek-chat"
)

// DeepSeekProvider speaks the OpenAI-compatible chat completions format
// against the DeepSeek endpoint.
type DeepSeekProvider struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

var _ ports.RewriteProvider = (*DeepSeekProvider)(nil)

// NewDeepSeek builds the adapter; a nil client gets a 60s timeout default.
func NewDeepSeek(apiKey, model string, client *http.Client) *DeepSeekProvider {
	if model == "" {
		model = defaultDeepSeekModel
	}
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &DeepSeekProvider{apiKey: apiKey, model: model, baseURL: defaultDeepSeekURL, client: client}
}

// Name identifies the provider in chain audit logs.
func (d *DeepSeekProvider) Name() string { return "deepseek" }

// Configured reports whether an API key is present.
func (d *DeepSeekProvider) Configured() bool { return d.apiKey != "" }

// Invoke performs a single stylized-rewrite call.
func (d *DeepSeekProvider) Invoke(ctx context.Context, req ports.RewriteRequest) (string, error) {
	body, err := json.Marshal(map[string]any{
		"model": d.model,
		"messages": []map[string]string{
			{"role": "system", "content": req.SystemPrompt},
			{"role": "user", "content": rewritePrompt(req)},
		},
		"temperature": 0.7,
		"max_tokens":  1500,
	})
	if err != nil {
		return "", fmt.Errorf("marshal deepseek payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+d.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("deepseek request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("deepseek error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode deepseek response: %w", err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("no response from deepseek")
	}
	return parsed.Choices[0].Message.Content, nil
}
