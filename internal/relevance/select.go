package relevance

import (
	"sort"

	"HealthNewsRelay/internal/domain"
)

// SelectTop applies the daily-summary selection policy: when the accumulated
// set fits the cap everything is retained in insertion order; otherwise a
// stable sort by score descending keeps the top limit, ties resolved by
// insertion order. Runs against the full set every cycle, never
// incrementally.
func SelectTop(records []domain.ArticleRecord, limit int) []domain.ArticleRecord {
	if limit <= 0 || len(records) <= limit {
		return records
	}

	sorted := make([]domain.ArticleRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	return sorted[:limit]
}
