package topic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/veonlok/Your-Search-Wrapped/internal/anthropic"
)

func TestAnthropicClassifier_Classify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			System   string `json:"system"`
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if !strings.Contains(req.System, "Natural Language Processing") {
			t.Errorf("expected label vocabulary in system prompt")
		}
		if len(req.Messages) != 1 || !strings.HasPrefix(req.Messages[0].Content, "1. budget tips") {
			t.Errorf("unexpected messages %+v", req.Messages)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]any{{"type": "text", "text": `{"labels": ["Finance and Economics", "Education"]}`}},
		})
	}))
	defer server.Close()

	c := NewAnthropicClassifier(anthropic.NewClient("key", "model").WithBaseURL(server.URL))
	got, err := c.Classify(context.Background(), []string{"budget tips", "teach me calculus"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != "Finance and Economics" {
		t.Errorf("unexpected labels %v", got)
	}
}

func TestAnthropicClassifier_APIErrorDegrades(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := NewAnthropicClassifier(anthropic.NewClient("key", "model").WithBaseURL(server.URL))
	res := NewDetector(c, 100, 500, nil).Detect(context.Background(), []string{"anything"})
	if res.Label != DefaultLabel || !res.Degraded {
		t.Errorf("expected degraded default, got %+v", res)
	}
}
