package fetcher

import (
	"context"
	"errors"
	"testing"

	"HealthNewsRelay/internal/domain"
)

type fakeStrategy struct {
	name string
	refs []domain.ArticleRef
	err  error
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) Fetch(_ context.Context, _ domain.Source) ([]domain.ArticleRef, error) {
	return f.refs, f.err
}

func TestRegistryResolve(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(&fakeStrategy{name: "rss"})

	if _, err := reg.Resolve("rss"); err != nil {
		t.Fatalf("registered strategy must resolve: %v", err)
	}
	if _, err := reg.Resolve("atom"); err == nil {
		t.Fatalf("unknown kind must fail to resolve")
	}
}

func TestFetchSourceDeduplicatesAndTagsOrigin(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(&fakeStrategy{name: "rss", refs: []domain.ArticleRef{
		{URL: "http://example.org/a", Title: "A"},
		{URL: "http://example.org/a", Title: "A duplicate"},
		{URL: "", Title: "no url"},
		{URL: "http://example.org/b", Title: "B", Origin: "already-set"},
	}})

	src := NewRegistrySource(reg, []domain.Source{{Name: "zdravi", URL: "http://example.org", Kind: "rss"}}, nil)

	refs, err := src.FetchSource(context.Background(), src.Sources()[0])
	if err != nil {
		t.Fatalf("FetchSource error: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("expected 2 unique refs, got %d", len(refs))
	}
	if refs[0].Origin != "zdravi" {
		t.Fatalf("empty origin must be filled from the source name, got %q", refs[0].Origin)
	}
	if refs[1].Origin != "already-set" {
		t.Fatalf("existing origin must be preserved, got %q", refs[1].Origin)
	}
}

func TestFetchSourceStrategyError(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(&fakeStrategy{name: "html", err: errors.New("listing down")})

	src := NewRegistrySource(reg, nil, nil)
	if _, err := src.FetchSource(context.Background(), domain.Source{Name: "s", Kind: "html"}); err == nil {
		t.Fatalf("strategy failure must propagate")
	}
}
