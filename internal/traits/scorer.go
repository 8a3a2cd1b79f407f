package traits

import "github.com/veonlok/Your-Search-Wrapped/internal/lexicon"

// DefaultLabel is returned when there are no keywords to score.
const DefaultLabel = "INTP"

// Counter is the keyword frequency lookup the scorer reads from.
type Counter interface {
	Get(word string) int
	Len() int
}

// AxisScore is the outcome of one axis.
type AxisScore struct {
	Axis   string
	First  int
	Second int
	Letter byte
}

type axis struct {
	name          string
	first, second []string
}

// Scorer turns keyword counts into a four-letter label.
type Scorer struct {
	axes [4]axis
}

func NewScorer(lex *lexicon.Lexicon) *Scorer {
	if lex == nil {
		lex = lexicon.Default()
	}
	var s Scorer
	for i, name := range lexicon.AxisOrder {
		words := lex.Traits[name]
		s.axes[i] = axis{name: name, first: words.First, second: words.Second}
	}
	return &s
}

// Resolve picks the first letter only when its side scores strictly higher.
// Ties go to the second letter on every axis.
func Resolve(first, second byte, firstScore, secondScore int) byte {
	if firstScore > secondScore {
		return first
	}
	return second
}

// Score resolves every axis in label order.
func (s *Scorer) Score(c Counter) [4]AxisScore {
	var out [4]AxisScore
	for i, ax := range s.axes {
		f := sum(c, ax.first)
		sec := sum(c, ax.second)
		out[i] = AxisScore{
			Axis:   ax.name,
			First:  f,
			Second: sec,
			Letter: Resolve(ax.name[0], ax.name[1], f, sec),
		}
	}
	return out
}

// Infer returns the four-letter label, or DefaultLabel for empty counts.
func (s *Scorer) Infer(c Counter) string {
	if c == nil || c.Len() == 0 {
		return DefaultLabel
	}
	scores := s.Score(c)
	label := make([]byte, len(scores))
	for i, sc := range scores {
		label[i] = sc.Letter
	}
	return string(label)
}

func sum(c Counter, words []string) int {
	total := 0
	for _, w := range words {
		total += c.Get(w)
	}
	return total
}
