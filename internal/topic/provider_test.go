package topic

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func TestNewClassifier_Providers(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name    string
		cfg     ProviderConfig
		wantErr string
	}{
		{"default keyword", ProviderConfig{}, ""},
		{"openai without key", ProviderConfig{Provider: "openai"}, "OPENAI_API_KEY"},
		{"anthropic without key", ProviderConfig{Provider: "anthropic"}, "ANTHROPIC_API_KEY"},
		{"unknown provider", ProviderConfig{Provider: "huggingface"}, "unknown topic provider"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClassifier(tt.cfg, logger)
			labels, err := c.Classify(context.Background(), []string{"debug my golang code"})
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if len(labels) != 1 || labels[0] != "Programming" {
					t.Errorf("unexpected labels %v", labels)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestNewClassifier_BuildFailureDegrades(t *testing.T) {
	c := NewClassifier(ProviderConfig{Provider: "openai"}, nil)
	d := NewDetector(c, 10, 100, slog.New(slog.NewTextHandler(io.Discard, nil)))

	res := d.Detect(context.Background(), []string{"anything"})
	if res.Label != DefaultLabel || res.Percentage != 0 || !res.Degraded {
		t.Errorf("expected degraded default topic, got %+v", res)
	}
}
