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
	defaultGeminiURL   = "https://generativelanguage.googleapis.com/v1beta/models"
	defaultGeminiModel = "gemini-1.5-flash"
)

// GeminiProvider is the last link of the rewrite chain, speaking the
// generateContent REST format directly.
type GeminiProvider struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

var _ ports.RewriteProvider = (*GeminiProvider)(nil)

// NewGemini builds the adapter; a nil client gets a 60s timeout default.
func NewGemini(apiKey, model string, client *http.Client) *GeminiProvider {
	if model == "" {
		model = defaultGeminiModel
	}
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &GeminiProvider{apiKey: apiKey, model: model, baseURL: defaultGeminiURL, client: client}
}

// Name identifies the provider in chain audit logs.
func (g *GeminiProvider) Name() string { return "gemini" }

// Configured reports whether an API key is present.
func (g *GeminiProvider) Configured() bool { return g.apiKey != "" }

// Invoke performs a single stylized-rewrite call.
func (g *GeminiProvider) Invoke(ctx context.Context, req ports.RewriteRequest) (string, error) {
	body, err := json.Marshal(map[string]any{
		"systemInstruction": map[string]any{
			"parts": []map[string]string{{"text": req.SystemPrompt}},
		},
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": rewritePrompt(req)}}},
		},
		"generationConfig": map[string]any{
			"temperature":     0.7,
			"maxOutputTokens": 1500,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal gemini payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("gemini error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var parsed struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}
	if len(parsed.Candidates) == 0 {
		return "", fmt.Errorf("no response from gemini")
	}

	var sb strings.Builder
	for _, part := range parsed.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("gemini returned empty content")
	}
	return sb.String(), nil
}
