package traits

import (
	"testing"

	"github.com/veonlok/Your-Search-Wrapped/internal/keywords"
	"github.com/veonlok/Your-Search-Wrapped/internal/lexicon"
)

type mapCounter map[string]int

func (m mapCounter) Get(w string) int { return m[w] }
func (m mapCounter) Len() int         { return len(m) }

func TestResolve(t *testing.T) {
	tests := []struct {
		name          string
		first, second int
		want          byte
	}{
		{"first wins", 5, 1, 'T'},
		{"second wins", 1, 5, 'F'},
		{"tie goes to second", 3, 3, 'F'},
		{"both zero", 0, 0, 'F'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve('T', 'F', tt.first, tt.second)
			if got != tt.want {
				t.Errorf("Resolve(%d, %d) = %c, want %c", tt.first, tt.second, got, tt.want)
			}
		})
	}
}

func TestInfer(t *testing.T) {
	s := NewScorer(lexicon.Default())

	tests := []struct {
		name   string
		counts mapCounter
		want   string
	}{
		{"empty mapping defaults", mapCounter{}, DefaultLabel},
		{"thinking over feeling", mapCounter{"analyze": 5, "feel": 1}, "ISTP"},
		{"no vocabulary hits resolves all ties", mapCounter{"golang": 9}, "ISFP"},
		{"all first letters", mapCounter{"team": 2, "idea": 2, "logic": 2, "plan": 2}, "ENTJ"},
		{"second letters win", mapCounter{"research": 1, "fact": 1, "care": 1, "explore": 1}, "ISFP"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Infer(tt.counts)
			if got != tt.want {
				t.Errorf("Infer(%v) = %s, want %s", tt.counts, got, tt.want)
			}
			if len(got) != 4 {
				t.Errorf("expected 4-letter label, got %q", got)
			}
		})
	}
}

func TestScore_TFAxis(t *testing.T) {
	scores := NewScorer(nil).Score(mapCounter{"analyze": 5, "feel": 1})
	tf := scores[2]
	if tf.Axis != "TF" || tf.First != 5 || tf.Second != 1 || tf.Letter != 'T' {
		t.Errorf("unexpected TF score %+v", tf)
	}
	// analyze also counts toward the introverted side.
	if scores[0].Second != 5 || scores[0].Letter != 'I' {
		t.Errorf("unexpected EI score %+v", scores[0])
	}
}

func TestInfer_NilCounter(t *testing.T) {
	if got := NewScorer(nil).Infer(nil); got != DefaultLabel {
		t.Errorf("expected default label, got %s", got)
	}
}

func TestInfer_TypedNilCounts(t *testing.T) {
	var counts *keywords.Counts
	if got := NewScorer(nil).Infer(counts); got != DefaultLabel {
		t.Errorf("expected default label, got %s", got)
	}
}
