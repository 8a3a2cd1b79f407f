package analysis

import (
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/veonlok/Your-Search-Wrapped/internal/keywords"
	"github.com/veonlok/Your-Search-Wrapped/internal/temporal"
	"github.com/veonlok/Your-Search-Wrapped/internal/topic"
)

// Bounds on bundle fields.
const (
	MaxTopicChars  = 100
	MaxTopKeywords = 8
	MaxTopSearches = 5
)

// MonthFrequency is the prompt count of one calendar month.
type MonthFrequency struct {
	MonthNumber int `json:"month_number"`
	Frequency   int `json:"frequency"`
}

// Bundle is the wrapped summary returned to the client.
type Bundle struct {
	AnalysisID uuid.UUID `json:"-"`

	TotalSearchesPastYear int              `json:"total_searches_past_year"`
	TopTopic              string           `json:"top_topic"`
	TopTopicPercentage    int              `json:"top_topic_percentage"`
	TopSearches           []string         `json:"top_searches"`
	TopKeywords           []keywords.Count `json:"top_keywords"`
	UniqueKeywords        int              `json:"unique_keywords"`
	SearchesByMonth       []MonthFrequency `json:"searches_by_month"`
	SearchesByHour        []int            `json:"searches_by_hour"`
	HeatmapData           temporal.Heatmap `json:"heatmap_data"`
	EarlyBirdNightOwl     string           `json:"early_bird_night_owl"`
	MBTI                  string           `json:"mbti"`
}

type parts struct {
	summary     temporal.Summary
	topSearches []string
	counts      *keywords.Counts
	topKeywords int
	topic       topic.Result
	mbti        string
}

// assemble builds a bundle from finished stage outputs and applies field bounds.
func assemble(id uuid.UUID, p parts) *Bundle {
	months := make([]MonthFrequency, 12)
	for i, n := range p.summary.Monthly {
		months[i] = MonthFrequency{MonthNumber: i + 1, Frequency: n}
	}

	searches := p.topSearches
	if len(searches) > MaxTopSearches {
		searches = searches[:MaxTopSearches]
	}
	if searches == nil {
		searches = []string{}
	}

	return &Bundle{
		AnalysisID:            id,
		TotalSearchesPastYear: p.summary.Total,
		TopTopic:              truncateRunes(p.topic.Label, MaxTopicChars),
		TopTopicPercentage:    min(max(p.topic.Percentage, 0), 100),
		TopSearches:           searches,
		TopKeywords:           p.counts.Top(min(max(p.topKeywords, 0), MaxTopKeywords)),
		UniqueKeywords:        p.counts.Len(),
		SearchesByMonth:       months,
		SearchesByHour:        append([]int(nil), p.summary.Hourly[:]...),
		HeatmapData:           p.summary.Heatmap,
		EarlyBirdNightOwl:     p.summary.Chronotype(),
		MBTI:                  p.mbti,
	}
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
