package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the run ledger. It holds run metadata only, never uploaded content.
type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS analysis_runs (
	id               UUID PRIMARY KEY,
	target_year      INT NOT NULL,
	status           TEXT NOT NULL,
	error_kind       TEXT NOT NULL DEFAULT '',
	prompts          INT NOT NULL DEFAULT 0,
	year_prompts     INT NOT NULL DEFAULT 0,
	undated_prompts  INT NOT NULL DEFAULT 0,
	unique_keywords  INT NOT NULL DEFAULT 0,
	top_topic        TEXT NOT NULL DEFAULT '',
	topic_degraded   BOOLEAN NOT NULL DEFAULT false,
	mbti             TEXT NOT NULL DEFAULT '',
	chronotype       TEXT NOT NULL DEFAULT '',
	started_at       TIMESTAMPTZ NOT NULL,
	duration_ms      BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS analysis_runs_started_at_idx ON analysis_runs (started_at DESC);
`

// EnsureSchema creates the ledger table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
