package textnorm

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
)

var (
	urlPattern     = regexp.MustCompile(`https?://[a-zA-Z0-9./-]*(?:/[a-zA-Z0-9?=_.]*[_0-9.a-zA-Z/-]*)?`)
	digitPattern   = regexp.MustCompile(`\p{Nd}`)
	nonWordPattern = regexp.MustCompile(`[^\p{L}\p{N}_]+`)
	underPlus      = regexp.MustCompile(`[_+]`)
)

// maxLemmaSteps bounds the search for a lemma that maps to itself.
const maxLemmaSteps = 4

// Lemmatizer reduces a word to its dictionary base form.
type Lemmatizer interface {
	Lemma(word string) string
}

// Normalizer turns raw prompts into space-joined analysis tokens.
// It holds only read-only state and is safe for concurrent use.
type Normalizer struct {
	lem Lemmatizer
}

func New(lem Lemmatizer) *Normalizer {
	return &Normalizer{lem: lem}
}

var defaultNormalizer = sync.OnceValues(func() (*Normalizer, error) {
	lem, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("load english lemma dictionary: %w", err)
	}
	return New(lem), nil
})

// Default returns the process-wide normalizer backed by the English dictionary.
// The dictionary is loaded on first call.
func Default() (*Normalizer, error) {
	return defaultNormalizer()
}

// Normalize lowercases, strips URLs, digits and punctuation, drops stopwords
// and lemmatizes what remains. Normalize(Normalize(s)) == Normalize(s).
func (n *Normalizer) Normalize(s string) string {
	s = strings.ToLower(s)
	s = urlPattern.ReplaceAllString(s, " ")
	s = digitPattern.ReplaceAllString(s, " ")
	s = nonWordPattern.ReplaceAllString(s, " ")
	s = underPlus.ReplaceAllString(s, " ")

	fields := strings.Fields(s)
	out := make([]string, 0, len(fields))
	for _, tok := range fields {
		if IsStopword(tok) {
			continue
		}
		lemma := n.lemma(tok)
		if lemma == "" || IsStopword(lemma) {
			continue
		}
		out = append(out, lemma)
	}
	return strings.Join(out, " ")
}

// NormalizeAll returns a new slice with every prompt normalized.
func (n *Normalizer) NormalizeAll(prompts []string) []string {
	out := make([]string, len(prompts))
	for i, p := range prompts {
		out[i] = n.Normalize(p)
	}
	return out
}

// lemma follows the lemmatizer until it reaches a fixed point. Tokens that do
// not settle, or whose lemma is not a single lowercase word, are kept as is.
func (n *Normalizer) lemma(tok string) string {
	if n.lem == nil {
		return tok
	}
	cur := tok
	for i := 0; i < maxLemmaSteps; i++ {
		next := strings.ToLower(n.lem.Lemma(cur))
		if !isWord(next) {
			return tok
		}
		if next == cur {
			return cur
		}
		cur = next
	}
	return tok
}

func isWord(s string) bool {
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
