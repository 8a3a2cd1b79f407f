package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/veonlok/Your-Search-Wrapped/internal/analysis"
)

var _ analysis.RunRecorder = (*Store)(nil)

// RecordRun inserts one finished analysis.
func (s *Store) RecordRun(ctx context.Context, run analysis.Run) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO analysis_runs (id, target_year, status, error_kind, prompts, year_prompts, undated_prompts,
			unique_keywords, top_topic, topic_degraded, mbti, chronotype, started_at, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		run.ID, run.TargetYear, run.Status, string(run.ErrorKind), run.Prompts, run.YearPrompts, run.UndatedPrompts,
		run.UniqueKeywords, run.TopTopic, run.TopicDegraded, run.MBTI, run.Chronotype, run.StartedAt, run.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// RecentRuns returns the latest runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]analysis.Run, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, target_year, status, error_kind, prompts, year_prompts, undated_prompts,
			unique_keywords, top_topic, topic_degraded, mbti, chronotype, started_at, duration_ms
		FROM analysis_runs
		ORDER BY started_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}

	runs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (analysis.Run, error) {
		var r analysis.Run
		var kind string
		var durationMS int64
		err := row.Scan(&r.ID, &r.TargetYear, &r.Status, &kind, &r.Prompts, &r.YearPrompts, &r.UndatedPrompts,
			&r.UniqueKeywords, &r.TopTopic, &r.TopicDegraded, &r.MBTI, &r.Chronotype, &r.StartedAt, &durationMS)
		r.ErrorKind = analysis.Kind(kind)
		r.Duration = time.Duration(durationMS) * time.Millisecond
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan runs: %w", err)
	}
	return runs, nil
}
