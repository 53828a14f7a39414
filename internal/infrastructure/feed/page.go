package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"HealthNewsRelay/internal/ports"
)

// PageClient implements ports.PageFetcher over plain HTTP.
type PageClient struct {
	client *http.Client
}

var _ ports.PageFetcher = (*PageClient)(nil)

// NewPageClient wires an HTTP client; a nil client gets a 20s timeout default.
func NewPageClient(client *http.Client) *PageClient {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &PageClient{client: client}
}

// Download returns the raw page body.
func (p *PageClient) Download(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "HealthNewsRelay/1.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page %s returned %s", pageURL, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read page body: %w", err)
	}
	return string(body), nil
}
