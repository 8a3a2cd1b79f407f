package api

import (
	"net/http"
	"strconv"
	"time"
)

type runView struct {
	AnalysisID     string `json:"analysis_id"`
	TargetYear     int    `json:"target_year"`
	Status         string `json:"status"`
	ErrorKind      string `json:"error_kind,omitempty"`
	Prompts        int    `json:"prompts"`
	YearPrompts    int    `json:"year_prompts"`
	UniqueKeywords int    `json:"unique_keywords"`
	TopTopic       string `json:"top_topic,omitempty"`
	MBTI           string `json:"mbti,omitempty"`
	StartedAt      string `json:"started_at"`
	DurationMS     int64  `json:"duration_ms"`
}

// listRuns handles GET /api/v1/search/runs?limit=N
func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 500 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be between 1 and 500"})
			return
		}
		limit = n
	}

	runs, err := s.runs.RecentRuns(r.Context(), limit)
	if err != nil {
		s.logger.Error("failed to list runs", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not list runs"})
		return
	}

	out := make([]runView, len(runs))
	for i, run := range runs {
		out[i] = runView{
			AnalysisID:     run.ID.String(),
			TargetYear:     run.TargetYear,
			Status:         run.Status,
			ErrorKind:      string(run.ErrorKind),
			Prompts:        run.Prompts,
			YearPrompts:    run.YearPrompts,
			UniqueKeywords: run.UniqueKeywords,
			TopTopic:       run.TopTopic,
			MBTI:           run.MBTI,
			StartedAt:      run.StartedAt.UTC().Format(time.RFC3339),
			DurationMS:     run.Duration.Milliseconds(),
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": out, "count": len(out)})
}
