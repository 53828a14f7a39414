package storage

import (
	"context"
	"testing"

	"HealthNewsRelay/internal/domain"
)

func TestNilDBBehavesAsEmpty(t *testing.T) {
	t.Parallel()

	store := NewPostgresStore(nil)

	seen, err := store.Seen(context.Background(), []string{"http://example.org/a"})
	if err != nil {
		t.Fatalf("Seen error: %v", err)
	}
	if len(seen) != 0 {
		t.Fatalf("nil db must report nothing as seen: %v", seen)
	}

	if err := store.MarkProcessed(context.Background(), domain.ArticleRecord{URL: "http://example.org/a"}); err != nil {
		t.Fatalf("MarkProcessed with nil db must be a no-op: %v", err)
	}
}
