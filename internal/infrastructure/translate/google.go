package translate

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

const defaultGoogleURL = "https://translation.googleapis.com/language/translate/v2"

// GoogleProvider is the fallback translation adapter.
type GoogleProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

var _ ports.TranslationProvider = (*GoogleProvider)(nil)

// NewGoogle builds the adapter; a nil client gets a 30s timeout default.
func NewGoogle(apiKey string, client *http.Client) *GoogleProvider {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &GoogleProvider{apiKey: apiKey, baseURL: defaultGoogleURL, client: client}
}

// Name identifies the provider in chain audit logs.
func (g *GoogleProvider) Name() string { return "google-translate" }

// Configured reports whether an API key is present.
func (g *GoogleProvider) Configured() bool { return g.apiKey != "" }

// Invoke performs a single translation call.
func (g *GoogleProvider) Invoke(ctx context.Context, req ports.TranslateRequest) (string, error) {
	payload := map[string]any{
		"q":      req.Text,
		"target": strings.ToLower(req.TargetLang),
		"format": "text",
	}
	if req.SourceLang != "" {
		payload["source"] = strings.ToLower(req.SourceLang)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"?key="+g.apiKey, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("google translate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("google translate returned %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}

	var parsed struct {
		Data struct {
			Translations []struct {
				TranslatedText string `json:"translatedText"`
			} `json:"translations"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Data.Translations) == 0 || parsed.Data.Translations[0].TranslatedText == "" {
		return "", fmt.Errorf("google translate returned no translation")
	}
	return parsed.Data.Translations[0].TranslatedText, nil
}
