package keywords

import (
	"reflect"
	"testing"
)

func TestCount_FiltersAndCounts(t *testing.T) {
	e := NewEngine(map[string]struct{}{"code": {}, "fix": {}})

	c := e.Count([]string{
		"fix code golang",
		"golang channel x² the",
		"channel golang",
	})

	if c.Get("golang") != 3 || c.Get("channel") != 2 {
		t.Errorf("unexpected counts golang=%d channel=%d", c.Get("golang"), c.Get("channel"))
	}
	for _, w := range []string{"code", "fix", "x²", "the"} {
		if c.Get(w) != 0 {
			t.Errorf("expected %q filtered, got %d", w, c.Get(w))
		}
	}
	if c.Len() != 2 {
		t.Errorf("expected 2 unique keywords, got %d", c.Len())
	}
	if c.Total() != 5 {
		t.Errorf("expected total 5, got %d", c.Total())
	}
}

func TestTop_TiesKeepFirstSeenOrder(t *testing.T) {
	c := NewEngine(nil).Count([]string{"beta alpha", "gamma alpha", "beta delta"})

	got := c.Top(3)
	want := []Count{{"beta", 2}, {"alpha", 2}, {"gamma", 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Top(3) = %v, want %v", got, want)
	}
	if len(c.Top(10)) != 4 {
		t.Errorf("expected all 4 when k exceeds size, got %d", len(c.Top(10)))
	}
	if len(c.Top(0)) != 0 {
		t.Error("expected empty result for k=0")
	}
}

func TestCount_Empty(t *testing.T) {
	c := NewEngine(nil).Count(nil)
	if c.Len() != 0 || c.Total() != 0 || len(c.Top(8)) != 0 {
		t.Errorf("expected empty counts, got len=%d total=%d", c.Len(), c.Total())
	}
}

func TestTopSearches(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
		n    int
		want []string
	}{
		{
			name: "exact text ranking",
			raw:  []string{"fix my code!", "fix my code", "fix my code"},
			n:    5,
			want: []string{"fix my code", "fix my code!"},
		},
		{
			name: "ties by first seen",
			raw:  []string{"b", "a", "c", "a", "b"},
			n:    2,
			want: []string{"b", "a"},
		},
		{
			name: "truncated",
			raw:  []string{"1", "2", "3", "4", "5", "6", "7"},
			n:    5,
			want: []string{"1", "2", "3", "4", "5"},
		},
		{
			name: "empty",
			raw:  nil,
			n:    5,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TopSearches(tt.raw, tt.n)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("TopSearches = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCounts_NilReceiver(t *testing.T) {
	var c *Counts
	if c.Len() != 0 || c.Get("go") != 0 || c.Total() != 0 {
		t.Error("expected a nil Counts to read as empty")
	}
	if top := c.Top(3); top == nil || len(top) != 0 {
		t.Errorf("expected empty non-nil top, got %v", top)
	}
}
