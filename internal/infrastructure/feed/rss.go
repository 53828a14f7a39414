// Package feed holds the discovery strategies for the two web source kinds
// plus the raw page client used by the relevance gate.
package feed

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"HealthNewsRelay/internal/domain"
)

// RSSStrategy discovers articles through an RSS or Atom feed.
type RSSStrategy struct {
	parser *gofeed.Parser
}

// NewRSSStrategy builds the strategy; a nil client gets a 20s timeout default.
func NewRSSStrategy(client *http.Client) *RSSStrategy {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	parser := gofeed.NewParser()
	parser.Client = client
	parser.UserAgent = "HealthNewsRelay/1.0"
	return &RSSStrategy{parser: parser}
}

// Name identifies the strategy inside the registry.
func (r *RSSStrategy) Name() string {
	return domain.SourceKindRSS
}

// Fetch parses the feed and maps its items to candidate references.
func (r *RSSStrategy) Fetch(ctx context.Context, src domain.Source) ([]domain.ArticleRef, error) {
	parsed, err := r.parser.ParseURLWithContext(src.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", src.URL, err)
	}

	refs := make([]domain.ArticleRef, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil || item.Link == "" {
			continue
		}
		ref := domain.ArticleRef{
			URL:     item.Link,
			Title:   item.Title,
			Snippet: item.Description,
			Origin:  src.Name,
		}
		if item.PublishedParsed != nil {
			ref.PublishedAt = *item.PublishedParsed
		}
		refs = append(refs, ref)
	}
	return refs, nil
}
