package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"HealthNewsRelay/internal/domain"
)

const defaultLinkSelector = "article a[href], h2 a[href], h3 a[href]"

// HTMLStrategy discovers articles by scraping anchor links out of a listing
// page. The source selector narrows which anchors count; without one a
// conventional default covers common news layouts.
type HTMLStrategy struct {
	client *http.Client
}

// NewHTMLStrategy builds the strategy; a nil client gets a 20s timeout default.
func NewHTMLStrategy(client *http.Client) *HTMLStrategy {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &HTMLStrategy{client: client}
}

// Name identifies the strategy inside the registry.
func (h *HTMLStrategy) Name() string {
	return domain.SourceKindHTML
}

// Fetch downloads the listing page and extracts candidate links. Relative
// hrefs are resolved against the listing URL; fragments and empty anchors are
// dropped.
func (h *HTMLStrategy) Fetch(ctx context.Context, src domain.Source) ([]domain.ArticleRef, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "HealthNewsRelay/1.0")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request listing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing %s returned %s", src.URL, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse listing: %w", err)
	}

	base, err := url.Parse(src.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid source url %s: %w", src.URL, err)
	}

	selector := src.Selector
	if selector == "" {
		selector = defaultLinkSelector
	}

	var refs []domain.ArticleRef
	doc.Find(selector).Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		link := resolveLink(base, href)
		if link == "" {
			return
		}
		refs = append(refs, domain.ArticleRef{
			URL:    link,
			Title:  strings.TrimSpace(a.Text()),
			Origin: src.Name,
		})
	})

	return refs, nil
}

func resolveLink(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
		return ""
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(parsed)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	resolved.Fragment = ""
	return resolved.String()
}
