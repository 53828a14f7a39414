// Package storage persists processed article URLs so a cycle never handles
// the same article twice, even across restarts.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"HealthNewsRelay/internal/domain"
	"HealthNewsRelay/internal/ports"
)

// Schema, applied out of band:
//
//	CREATE TABLE processed_articles (
//	    url          TEXT PRIMARY KEY,
//	    source_name  TEXT NOT NULL DEFAULT '',
//	    title        TEXT NOT NULL DEFAULT '',
//	    score        INT  NOT NULL DEFAULT 0,
//	    relevant     BOOLEAN NOT NULL DEFAULT FALSE,
//	    processed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);

// PostgresStore implements ports.ProcessedStore over Postgres. A nil db makes
// every article look new, which keeps the pipeline usable without a database.
type PostgresStore struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.ProcessedStore = (*PostgresStore)(nil)

// NewPostgresStore wires a sql.DB implementation.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Seen returns a map with the URLs that already exist in storage.
func (s *PostgresStore) Seen(ctx context.Context, urls []string) (map[string]bool, error) {
	result := make(map[string]bool)
	if s.db == nil || len(urls) == 0 {
		return result, nil
	}

	query, args, err := s.builder.
		Select("url").
		From("processed_articles").
		Where(sq.Expr("url = ANY(?)", pq.StringArray(urls))).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build seen query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query seen urls: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("scan url: %w", err)
		}
		result[url] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return result, nil
}

// MarkProcessed upserts the processed article snapshot.
func (s *PostgresStore) MarkProcessed(ctx context.Context, rec domain.ArticleRecord) error {
	if s.db == nil {
		return nil
	}

	query, args, err := s.builder.
		Insert("processed_articles").
		Columns("url", "source_name", "title", "score", "relevant", "processed_at").
		Values(rec.URL, rec.SourceName, rec.Title, rec.Score, rec.Relevant, rec.ProcessedAt).
		Suffix(`ON CONFLICT (url) DO UPDATE
			SET score = EXCLUDED.score,
			    relevant = EXCLUDED.relevant,
			    processed_at = EXCLUDED.processed_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert processed: %w", err)
	}
	return nil
}
