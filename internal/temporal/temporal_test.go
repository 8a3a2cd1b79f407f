package temporal

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/veonlok/Your-Search-Wrapped/internal/export"
)

var sgt = Zone(480)

func at(year int, month time.Month, day, hour int) export.PromptRecord {
	ts := time.Date(year, month, day, hour, 30, 0, 0, sgt).Unix()
	return export.PromptRecord{Text: "p", Timestamp: float64(ts)}
}

func TestZone(t *testing.T) {
	tests := []struct {
		offset int
		name   string
	}{
		{480, "UTC+08:00"},
		{-330, "UTC-05:30"},
		{0, "UTC+00:00"},
	}
	for _, tt := range tests {
		loc := Zone(tt.offset)
		if loc.String() != tt.name {
			t.Errorf("Zone(%d) = %s, want %s", tt.offset, loc, tt.name)
		}
	}
}

func TestBucketOf_ConvertsToZone(t *testing.T) {
	// 2024-12-31 20:15 UTC is 2025-01-01 04:15 in UTC+8, a Wednesday.
	ts := float64(time.Date(2024, 12, 31, 20, 15, 0, 0, time.UTC).Unix()) + 0.75
	b := BucketOf(ts, sgt)

	if b.Year != 2025 || b.Month != 1 || b.Hour != 4 {
		t.Errorf("expected 2025-01 hour 4, got %+v", b)
	}
	if Weekdays[b.Row] != "Wednesday" {
		t.Errorf("expected Wednesday, got %s", Weekdays[b.Row])
	}
}

func TestSummarize_FixedLengthsAndYearFilter(t *testing.T) {
	records := []export.PromptRecord{
		at(2025, time.March, 3, 9),
		at(2025, time.March, 4, 9),
		at(2025, time.December, 31, 23),
		at(2024, time.June, 1, 12),
		{Text: "undated"},
	}

	s := NewAggregator(sgt, 2025).Summarize(records)

	if s.Total != 3 {
		t.Errorf("expected 3 target-year records, got %d", s.Total)
	}
	if s.Undated != 1 {
		t.Errorf("expected 1 undated record, got %d", s.Undated)
	}
	if len(s.Monthly) != 12 || len(s.Hourly) != 24 {
		t.Fatalf("expected 12/24 buckets, got %d/%d", len(s.Monthly), len(s.Hourly))
	}
	if s.Monthly[2] != 2 || s.Monthly[11] != 1 || s.Monthly[5] != 0 {
		t.Errorf("unexpected monthly counts %v", s.Monthly)
	}
	if s.Hourly[9] != 2 || s.Hourly[23] != 1 || s.Hourly[12] != 0 {
		t.Errorf("unexpected hourly counts %v", s.Hourly)
	}
	// 2025-03-03 is a Monday, 2025-03-04 a Tuesday, 2025-12-31 a Wednesday.
	if s.Heatmap[0][9] != 1 || s.Heatmap[1][9] != 1 || s.Heatmap[2][23] != 1 {
		t.Errorf("unexpected heatmap %v", s.Heatmap)
	}
}

func TestChronotype(t *testing.T) {
	tests := []struct {
		name  string
		hours []int
		want  string
	}{
		{"day majority", []int{6, 7, 17, 18, 19}, EarlyBird},
		{"night majority", []int{5, 18, 23, 12}, NightOwl},
		{"balanced tie", []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23}, NightOwl},
		{"empty", nil, NightOwl},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var records []export.PromptRecord
			for _, h := range tt.hours {
				records = append(records, at(2025, time.May, 10, h))
			}
			s := NewAggregator(sgt, 2025).Summarize(records)
			if got := s.Chronotype(); got != tt.want {
				t.Errorf("expected %s, got %s (day=%d night=%d)", tt.want, got, s.Day, s.Night)
			}
		})
	}
}

func TestInYear_PreservesOrder(t *testing.T) {
	records := []export.PromptRecord{
		{Text: "b", Timestamp: at(2025, time.July, 1, 1).Timestamp},
		{Text: "old", Timestamp: at(2023, time.July, 1, 1).Timestamp},
		{Text: "nodate"},
		{Text: "a", Timestamp: at(2025, time.January, 1, 1).Timestamp},
	}
	got := NewAggregator(sgt, 2025).InYear(records)
	if len(got) != 2 || got[0].Text != "b" || got[1].Text != "a" {
		t.Errorf("unexpected subset %+v", got)
	}
}

func TestHeatmap_JSONOrder(t *testing.T) {
	var h Heatmap
	h[6][23] = 4
	h[0][0] = 1

	data, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)

	last := -1
	for _, day := range Weekdays {
		idx := strings.Index(s, `"`+day+`"`)
		if idx <= last {
			t.Fatalf("expected %s after previous weekday in %s", day, s)
		}
		last = idx
	}

	var back Heatmap
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != h {
		t.Errorf("expected heatmap to survive decoding, got %v", back)
	}
}
