// Package lexicon holds the word lists behind keyword filtering and trait scoring.
package lexicon

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Axis names in label order. Each name is its two letters, first letter first.
var AxisOrder = [4]string{"EI", "NS", "TF", "JP"}

// AxisWords is the vocabulary for both sides of one trait axis.
type AxisWords struct {
	First  []string `yaml:"first"`
	Second []string `yaml:"second"`
}

// Lexicon is the domain exclusion list plus the four trait vocabularies.
type Lexicon struct {
	Exclusions []string             `yaml:"exclusions"`
	Traits     map[string]AxisWords `yaml:"traits"`
}

// Default returns the built-in lexicon.
func Default() *Lexicon {
	return &Lexicon{
		Exclusions: []string{
			"code", "script", "function", "write", "print", "help", "explain",
			"error", "fix", "output", "using", "use", "create", "make", "java",
			"python", "pandas", "dataframe", "list", "dictionary", "string",
			"variable", "import", "return", "class", "method", "give", "show",
			"tell", "find", "example", "will", "s",
		},
		Traits: map[string]AxisWords{
			"EI": {
				First:  []string{"people", "social", "team", "communicate", "party", "friends", "share"},
				Second: []string{"analyze", "think", "code", "algorithm", "study", "research", "alone"},
			},
			"NS": {
				First:  []string{"future", "innovation", "theory", "concept", "imagine", "possibility", "idea"},
				Second: []string{"practical", "detail", "fact", "current", "real", "specific", "actual"},
			},
			"TF": {
				First:  []string{"logic", "analyze", "reason", "objective", "efficient", "system", "solve"},
				Second: []string{"feel", "value", "empathy", "harmony", "personal", "care", "emotion"},
			},
			"JP": {
				First:  []string{"plan", "schedule", "organize", "structure", "deadline", "complete", "finish"},
				Second: []string{"explore", "flexible", "spontaneous", "adapt", "open", "option", "discover"},
			},
		},
	}
}

// Load reads a YAML override file. Sections the file omits keep their defaults.
func Load(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML lexicon overrides on top of Default.
func Parse(data []byte) (*Lexicon, error) {
	var override Lexicon
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("parse lexicon: %w", err)
	}

	lex := Default()
	if override.Exclusions != nil {
		lex.Exclusions = override.Exclusions
	}
	for name, words := range override.Traits {
		if _, ok := lex.Traits[name]; !ok {
			return nil, fmt.Errorf("unknown trait axis %q", name)
		}
		lex.Traits[name] = words
	}
	if err := lex.Validate(); err != nil {
		return nil, err
	}
	return lex, nil
}

// Validate checks that every axis has words on both sides and that the sides do not overlap.
func (l *Lexicon) Validate() error {
	for _, name := range AxisOrder {
		words, ok := l.Traits[name]
		if !ok {
			return fmt.Errorf("trait axis %s missing", name)
		}
		if len(words.First) == 0 || len(words.Second) == 0 {
			return fmt.Errorf("trait axis %s: both sides need words", name)
		}
		first := make(map[string]struct{}, len(words.First))
		for _, w := range words.First {
			first[w] = struct{}{}
		}
		for _, w := range words.Second {
			if _, dup := first[w]; dup {
				return fmt.Errorf("trait axis %s: %q on both sides", name, w)
			}
		}
	}
	return nil
}

// ExclusionSet returns the domain exclusions as a set.
func (l *Lexicon) ExclusionSet() map[string]struct{} {
	set := make(map[string]struct{}, len(l.Exclusions))
	for _, w := range l.Exclusions {
		set[w] = struct{}{}
	}
	return set
}
