// Package transform builds full article records out of candidate references:
// extraction, language detection, translation into Slovak and the stylized
// rewrite, each external step backed by an ordered provider chain.
package transform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"HealthNewsRelay/internal/chain"
	"HealthNewsRelay/internal/domain"
	"HealthNewsRelay/internal/langdetect"
	"HealthNewsRelay/internal/ports"
)

const defaultMaxTranslateChars = 10000

// Config wires the transformer dependencies.
type Config struct {
	Extractor    ports.Extractor
	Translators  []ports.TranslationProvider
	Rewriters    []ports.RewriteProvider
	SystemPrompt string
	// MaxTranslateChars bounds the text sent to translation providers.
	MaxTranslateChars int
	Logger            *slog.Logger
	Now               func() time.Time
}

// Transformer implements ports.Transformer.
type Transformer struct {
	extractor    ports.Extractor
	translators  []ports.TranslationProvider
	rewriters    []ports.RewriteProvider
	systemPrompt string
	maxChars     int
	logger       *slog.Logger
	now          func() time.Time
}

var _ ports.Transformer = (*Transformer)(nil)

// New builds a transformer from the config, filling defaults.
func New(cfg Config) *Transformer {
	maxChars := cfg.MaxTranslateChars
	if maxChars <= 0 {
		maxChars = defaultMaxTranslateChars
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Transformer{
		extractor:    cfg.Extractor,
		translators:  cfg.Translators,
		rewriters:    cfg.Rewriters,
		systemPrompt: cfg.SystemPrompt,
		maxChars:     maxChars,
		logger:       logger,
		now:          now,
	}
}

// Transform downloads the article, translates it into Slovak when needed and
// produces the stylized summary with its educational appendix. Extraction
// failure aborts; translation exhaustion keeps the original text; rewrite
// exhaustion fills the failure placeholders so rendering always has content.
func (t *Transformer) Transform(ctx context.Context, ref domain.ArticleRef) (domain.ArticleRecord, error) {
	rec, err := t.extractor.Extract(ctx, ref.URL)
	if err != nil {
		return domain.ArticleRecord{}, fmt.Errorf("extract %s: %w", ref.URL, err)
	}
	rec.URL = ref.URL
	rec.SourceName = ref.Origin
	if rec.Title == "" {
		rec.Title = ref.Title
	}
	if rec.PublishedAt.IsZero() {
		rec.PublishedAt = ref.PublishedAt
	}
	if rec.Language == "" {
		rec.Language = langdetect.Detect(rec.Text)
	}

	title, body := t.translate(ctx, rec)
	rec.TranslatedTitle = title

	t.rewrite(ctx, &rec, title, body)

	rec.ProcessedAt = t.now()
	return rec, nil
}

// translate returns the Slovak title and body. Slovak input passes through
// untouched; for other languages the chain runs per field and exhaustion
// falls back to the original text.
func (t *Transformer) translate(ctx context.Context, rec domain.ArticleRecord) (title, body string) {
	title, body = rec.Title, rec.Text
	if rec.Language == langdetect.LangSlovak || len(t.translators) == 0 {
		return title, body
	}

	title = t.translateField(ctx, title, rec.Language, "title", rec.URL)
	body = t.translateField(ctx, boundedText(body, t.maxChars), rec.Language, "body", rec.URL)
	return title, body
}

func (t *Transformer) translateField(ctx context.Context, text, sourceLang, field, url string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	req := ports.TranslateRequest{Text: text, SourceLang: sourceLang, TargetLang: "SK"}
	out, attempts, err := chain.Run(ctx, t.logger, t.translators, req)
	if err != nil {
		t.logger.Warn("translation chain exhausted, keeping original text",
			"url", url, "field", field, "attempts", len(attempts), "error", err)
		return text
	}
	return out
}

// rewrite runs the generation chain and splits the result. Every provider
// failing is not a pipeline error; the record gets the placeholders instead.
func (t *Transformer) rewrite(ctx context.Context, rec *domain.ArticleRecord, title, body string) {
	req := ports.RewriteRequest{Title: title, Body: body, SystemPrompt: t.systemPrompt}
	out, attempts, err := chain.Run(ctx, t.logger, t.rewriters, req)
	if err != nil {
		if !errors.Is(err, chain.ErrExhausted) {
			t.logger.Error("rewrite chain error", "url", rec.URL, "error", err)
		}
		t.logger.Warn("stylized rewrite unavailable",
			"url", rec.URL, "attempts", len(attempts))
		rec.StylizedText = domain.SummaryFailedPlaceholder
		rec.SummaryText = domain.SummaryFailedPlaceholder
		rec.AppendixText = domain.AppendixFailedPlaceholder
		return
	}

	rec.StylizedText = strings.TrimSpace(out)
	rec.SummaryText, rec.AppendixText = SplitSummaryAppendix(rec.StylizedText)
}

// boundedText truncates rune-safe so multi-byte characters never split.
func boundedText(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}
