// Package extract downloads article pages and lifts them into records:
// title, visible body text, publish timestamp and detected language.
package extract

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"HealthNewsRelay/internal/domain"
	"HealthNewsRelay/internal/langdetect"
	"HealthNewsRelay/internal/ports"
)

const userAgent = "HealthNewsRelay/1.0"

// PageExtractor implements ports.Extractor over plain HTTP and goquery.
type PageExtractor struct {
	client *http.Client
}

var _ ports.Extractor = (*PageExtractor)(nil)

// New wires an HTTP client; a nil client gets a 20s timeout default.
func New(client *http.Client) *PageExtractor {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &PageExtractor{client: client}
}

// Extract downloads the page and builds the initial record. Title resolution
// prefers og:title over <title> over the first h1; the body prefers <article>
// paragraphs and falls back to all paragraphs on the page.
func (e *PageExtractor) Extract(ctx context.Context, pageURL string) (domain.ArticleRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return domain.ArticleRecord{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return domain.ArticleRecord{}, fmt.Errorf("request article: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.ArticleRecord{}, fmt.Errorf("article page returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return domain.ArticleRecord{}, fmt.Errorf("parse article: %w", err)
	}

	rec := domain.ArticleRecord{
		URL:         pageURL,
		Title:       extractTitle(doc),
		Text:        extractBody(doc),
		PublishedAt: extractPublished(doc),
	}
	if strings.TrimSpace(rec.Text) == "" {
		return domain.ArticleRecord{}, fmt.Errorf("no article text found at %s", pageURL)
	}
	rec.Language = langdetect.Detect(rec.Text)

	return rec, nil
}

func extractTitle(doc *goquery.Document) string {
	if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		if title := strings.TrimSpace(og); title != "" {
			return title
		}
	}
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	return strings.TrimSpace(doc.Find("h1").First().Text())
}

func extractBody(doc *goquery.Document) string {
	paragraphs := collectParagraphs(doc.Find("article p"))
	if len(paragraphs) == 0 {
		paragraphs = collectParagraphs(doc.Find("p"))
	}
	return strings.Join(paragraphs, "\n\n")
}

func collectParagraphs(sel *goquery.Selection) []string {
	var out []string
	sel.Each(func(_ int, p *goquery.Selection) {
		if text := strings.TrimSpace(p.Text()); text != "" {
			out = append(out, text)
		}
	})
	return out
}

func extractPublished(doc *goquery.Document) time.Time {
	raw, ok := doc.Find(`meta[property="article:published_time"]`).First().Attr("content")
	if !ok {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, strings.TrimSpace(raw)); err == nil {
			return ts
		}
	}
	return time.Time{}
}
