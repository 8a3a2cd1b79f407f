package textnorm

import (
	"strings"
	"testing"
	"unicode"
)

type mapLemmatizer map[string]string

func (m mapLemmatizer) Lemma(w string) string {
	if l, ok := m[w]; ok {
		return l
	}
	return w
}

func TestNormalize_Pipeline(t *testing.T) {
	n := New(mapLemmatizer{"times": "time", "running": "run", "queries": "query"})

	tests := []struct {
		in   string
		want string
	}{
		{"Check http://a.com/x NOW! 123 times_please", "check time please"},
		{"The cats are RUNNING", "cats run"},
		{"see https://example.com/docs/page.html for queries", "see query"},
		{"c++ and c# tips", "c c tips"},
		{"   \t\n ", ""},
		{"2024 2025", ""},
		{"don't stop", "stop"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := n.Normalize(tt.in)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_RoundTripProperties(t *testing.T) {
	n := New(mapLemmatizer{"times": "time"})
	got := n.Normalize("Check http://a.com/x NOW! 123 times_please")

	if strings.Contains(got, "http") || strings.Contains(got, "a.com") || strings.Contains(got, "/") {
		t.Errorf("expected URL removed, got %q", got)
	}
	for _, r := range got {
		if unicode.IsDigit(r) {
			t.Errorf("expected no digits, got %q", got)
		}
		if r == '_' {
			t.Errorf("expected no underscore, got %q", got)
		}
		if unicode.IsUpper(r) {
			t.Errorf("expected lowercase only, got %q", got)
		}
	}
	for _, tok := range strings.Fields(got) {
		if IsStopword(tok) {
			t.Errorf("expected stopwords removed, found %q in %q", tok, got)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	// "data" -> "datum" -> "datum" settles; "ax" <-> "axe" never does.
	n := New(mapLemmatizer{"data": "datum", "ax": "axe", "axe": "ax", "doing": "do", "leaves": "leaf"})

	inputs := []string{
		"Check http://a.com/x NOW! 123 times_please",
		"Analyzing DATA with pandas dataframes",
		"ax grinding and doing leaves",
		"naïve café résumé",
		"x² + ½ = 3",
	}
	for _, in := range inputs {
		once := n.Normalize(in)
		twice := n.Normalize(once)
		if once != twice {
			t.Errorf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestNormalize_DropsStopwordLemmas(t *testing.T) {
	n := New(mapLemmatizer{"doing": "do", "is": "be"})
	if got := n.Normalize("doing things"); got != "things" {
		t.Errorf("expected stopword lemma dropped, got %q", got)
	}
}

func TestNormalize_NilLemmatizer(t *testing.T) {
	n := New(nil)
	if got := n.Normalize("Hello World"); got != "hello world" {
		t.Errorf("expected tokens unchanged, got %q", got)
	}
}

func TestNormalizeAll_ReturnsNewSlice(t *testing.T) {
	n := New(nil)
	in := []string{"Hello There", "General Kenobi"}
	out := n.NormalizeAll(in)
	if len(out) != 2 || out[0] != "hello" || out[1] != "general kenobi" {
		t.Errorf("unexpected output %v", out)
	}
	if in[0] != "Hello There" {
		t.Error("input slice was modified")
	}
}

func TestDefault_EnglishDictionary(t *testing.T) {
	n, err := Default()
	if err != nil {
		t.Fatalf("load default normalizer: %v", err)
	}
	again, _ := Default()
	if n != again {
		t.Error("expected the same process-wide normalizer")
	}
	if got := n.Normalize("cats"); got != "cat" {
		t.Errorf("expected cats lemmatized to cat, got %q", got)
	}
}
