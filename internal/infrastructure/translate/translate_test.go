package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"HealthNewsRelay/internal/ports"
)

func TestDeepLInvoke(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "DeepL-Auth-Key test-key" {
			t.Errorf("unexpected auth header: %q", got)
		}
		var payload struct {
			Text       []string `json:"text"`
			TargetLang string   `json:"target_lang"`
			SourceLang string   `json:"source_lang"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		if payload.TargetLang != "SK" || payload.SourceLang != "CS" {
			t.Errorf("unexpected langs: %+v", payload)
		}
		_, _ = w.Write([]byte(`{"translations":[{"detected_source_language":"CS","text":"preložené"}]}`))
	}))
	defer server.Close()

	p := NewDeepL("test-key", server.Client())
	p.baseURL = server.URL

	out, err := p.Invoke(context.Background(), ports.TranslateRequest{
		Text: "přeloženo", SourceLang: "cs", TargetLang: "sk",
	})
	if err != nil {
		t.Fatalf("Invoke error: %v", err)
	}
	if out != "preložené" {
		t.Fatalf("unexpected translation: %q", out)
	}
}

func TestDeepLErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"message":"quota exceeded"}`))
	}))
	defer server.Close()

	p := NewDeepL("k", server.Client())
	p.baseURL = server.URL

	_, err := p.Invoke(context.Background(), ports.TranslateRequest{Text: "x", TargetLang: "sk"})
	if err == nil || !strings.Contains(err.Error(), "quota") {
		t.Fatalf("expected quota error, got %v", err)
	}
}

func TestGoogleInvoke(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("key"); got != "g-key" {
			t.Errorf("unexpected key: %q", got)
		}
		var payload struct {
			Q      string `json:"q"`
			Target string `json:"target"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		if payload.Target != "sk" {
			t.Errorf("unexpected target: %q", payload.Target)
		}
		_, _ = w.Write([]byte(`{"data":{"translations":[{"translatedText":"preložený text"}]}}`))
	}))
	defer server.Close()

	p := NewGoogle("g-key", server.Client())
	p.baseURL = server.URL

	out, err := p.Invoke(context.Background(), ports.TranslateRequest{Text: "text", TargetLang: "SK"})
	if err != nil {
		t.Fatalf("Invoke error: %v", err)
	}
	if out != "preložený text" {
		t.Fatalf("unexpected translation: %q", out)
	}
}

func TestConfigured(t *testing.T) {
	t.Parallel()

	if NewDeepL("", nil).Configured() {
		t.Fatalf("deepl without key must be unconfigured")
	}
	if !NewDeepL("k", nil).Configured() {
		t.Fatalf("deepl with key must be configured")
	}
	if NewGoogle("", nil).Configured() {
		t.Fatalf("google without key must be unconfigured")
	}
	if !NewGoogle("k", nil).Configured() {
		t.Fatalf("google with key must be configured")
	}
}
