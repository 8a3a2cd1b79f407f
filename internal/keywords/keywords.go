package keywords

import (
	"sort"
	"strings"
	"unicode"

	"github.com/veonlok/Your-Search-Wrapped/internal/textnorm"
)

// Count is one keyword and how often it occurred.
type Count struct {
	Keyword   string `json:"keyword"`
	Frequency int    `json:"frequency"`
}

// Counts maps tokens to occurrences and remembers first-seen order.
type Counts struct {
	counts map[string]int
	order  []string
}

func newCounts() *Counts {
	return &Counts{counts: make(map[string]int)}
}

func (c *Counts) add(tok string) {
	if _, seen := c.counts[tok]; !seen {
		c.order = append(c.order, tok)
	}
	c.counts[tok]++
}

// Get returns the count for w, zero when absent. A nil *Counts is empty.
func (c *Counts) Get(w string) int {
	if c == nil {
		return 0
	}
	return c.counts[w]
}

// Len is the number of distinct tokens.
func (c *Counts) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// Total is the sum of all counts.
func (c *Counts) Total() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, v := range c.counts {
		n += v
	}
	return n
}

// Top returns the k most frequent tokens. Ties keep first-seen order.
func (c *Counts) Top(k int) []Count {
	if c == nil {
		return []Count{}
	}
	ranked := make([]Count, len(c.order))
	for i, w := range c.order {
		ranked[i] = Count{Keyword: w, Frequency: c.counts[w]}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Frequency > ranked[j].Frequency
	})
	if k >= 0 && len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}

// Engine counts keywords over normalized prompts.
type Engine struct {
	exclude map[string]struct{}
}

// NewEngine builds an engine that drops stopwords and the given domain exclusions.
func NewEngine(exclusions map[string]struct{}) *Engine {
	return &Engine{exclude: exclusions}
}

// Keep reports whether tok survives filtering.
func (e *Engine) Keep(tok string) bool {
	if !alphabetic(tok) || textnorm.IsStopword(tok) {
		return false
	}
	_, excluded := e.exclude[tok]
	return !excluded
}

// Count tokenizes each normalized prompt on whitespace and tallies surviving tokens.
func (e *Engine) Count(normalized []string) *Counts {
	c := newCounts()
	for _, p := range normalized {
		for _, tok := range strings.Fields(p) {
			if e.Keep(tok) {
				c.add(tok)
			}
		}
	}
	return c
}

// TopSearches ranks raw prompts by exact-text frequency. Ties keep first-seen order.
func TopSearches(raw []string, n int) []string {
	c := newCounts()
	for _, p := range raw {
		c.add(p)
	}
	top := c.Top(n)
	out := make([]string, len(top))
	for i, t := range top {
		out[i] = t.Keyword
	}
	return out
}

func alphabetic(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
