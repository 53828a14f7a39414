// Package translate holds the adapters of the translation fallback chain.
// Each adapter maps the uniform request onto one vendor API; missing
// credentials make the adapter report unconfigured so the chain skips it.
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

const defaultDeepLURL = "https://api-free.deepl.com/v2/translate"

// DeepLProvider is the primary translation adapter.
type DeepLProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

var _ ports.TranslationProvider = (*DeepLProvider)(nil)

// NewDeepL builds the adapter; a nil client gets a 30s timeout default.
func NewDeepL(apiKey string, client *http.Client) *DeepLProvider {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &DeepLProvider{apiKey: apiKey, baseURL: defaultDeepLURL, client: client}
}

// Name identifies the provider in chain audit logs.
func (d *DeepLProvider) Name() string { return "deepl" }

// Configured reports whether an API key is present.
func (d *DeepLProvider) Configured() bool { return d.apiKey != "" }

// Invoke performs a single translation call.
func (d *DeepLProvider) Invoke(ctx context.Context, req ports.TranslateRequest) (string, error) {
	payload := map[string]any{
		"text":        []string{req.Text},
		"target_lang": strings.ToUpper(req.TargetLang),
	}
	if req.SourceLang != "" {
		payload["source_lang"] = strings.ToUpper(req.SourceLang)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "DeepL-Auth-Key "+d.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("deepl request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("deepl returned %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}

	var parsed struct {
		Translations []struct {
			Text string `json:"text"`
		} `json:"translations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Translations) == 0 || parsed.Translations[0].Text == "" {
		return "", fmt.Errorf("deepl returned no translation")
	}
	return parsed.Translations[0].Text, nil
}
