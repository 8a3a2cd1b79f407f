//go:build integration

package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/veonlok/Your-Search-Wrapped/internal/analysis"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	s, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}

	t.Cleanup(func() {
		s.Close()
	})
	return s
}

func TestIntegration_RecordAndListRuns(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	run := analysis.Run{
		ID:             uuid.New(),
		TargetYear:     2025,
		Status:         analysis.StatusCompleted,
		Prompts:        120,
		YearPrompts:    96,
		UndatedPrompts: 3,
		UniqueKeywords: 410,
		TopTopic:       "Programming",
		MBTI:           "INTJ",
		Chronotype:     "Night Owl",
		StartedAt:      time.Now().Add(time.Hour).UTC().Truncate(time.Millisecond),
		Duration:       1500 * time.Millisecond,
	}
	if err := s.RecordRun(ctx, run); err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}

	runs, err := s.RecentRuns(ctx, 1)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != run.ID {
		t.Fatalf("expected the newest run first, got %+v", runs)
	}
	got := runs[0]
	if got.TopTopic != "Programming" || got.MBTI != "INTJ" || got.Duration != run.Duration {
		t.Errorf("unexpected round trip %+v", got)
	}

	failed := analysis.Run{
		ID:         uuid.New(),
		TargetYear: 2025,
		Status:     analysis.StatusFailed,
		ErrorKind:  analysis.KindEmptyResult,
		StartedAt:  run.StartedAt.Add(time.Minute),
	}
	if err := s.RecordRun(ctx, failed); err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}
	runs, err = s.RecentRuns(ctx, 1)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if runs[0].ErrorKind != analysis.KindEmptyResult {
		t.Errorf("expected error kind round trip, got %q", runs[0].ErrorKind)
	}
}
