package topic

import (
	"context"
	"strings"
)

type keywordRule struct {
	label string
	terms []string
}

// keywordRules are checked in order; the first rule with a matching term wins.
var keywordRules = []keywordRule{
	{"Programming", []string{
		"golang", "javascript", "typescript", "python", "java ", " rust ", "c++", "compile", "debug",
		"function", "variable", "syntax", "refactor", "unit test", "stack trace", "exception",
		"regex", "sql", " git ", "github", " api", "bug", "code",
	}},
	{"Data Analysis", []string{
		"dataset", "dataframe", "pandas", "excel", "spreadsheet", "statistic", "regression",
		"correlation", "visualiz", "chart", "plot", "pivot", "dashboard", "median",
	}},
	{"Natural Language Processing", []string{
		"nlp", "tokeniz", "lemmatiz", "sentiment", "embedding", "language model", "llm",
		"transformer", "bert", "gpt", "translate", "summariz", "text classification",
	}},
	{"Technology", []string{
		"software", "tech", "computer", " app ", " apps ", "server", "cloud", "database", "network",
		"machine learning", " ai ", "algorithm", "laptop", "phone", "internet", "docker",
	}},
	{"Finance and Economics", []string{
		"stock", "invest", "finance", "budget", "tax", "inflation", "economy", "economic",
		"interest rate", "loan", "mortgage", "crypto", "salary", "market",
	}},
	{"Education", []string{
		"learn", "tutorial", "course", "how to", "guide", "education", "study", "university",
		"college", "school", "exam", "homework", "assignment", "lecture",
	}},
	{"Personal Development", []string{
		"habit", "productivity", "motivation", "career", "resume", "interview", "goal",
		"self improvement", "confidence", "mindset", "time management", "wellbeing",
	}},
	{"Literature and Books", []string{
		"book", "novel", "poem", "poetry", "author", "literature", "story", "chapter",
		"character", "essay", "fiction",
	}},
	{"Philosophy", []string{
		"philosoph", "ethic", "moral", "meaning of life", "existential", "consciousness",
		"stoic", "metaphysic", "free will",
	}},
}

// KeywordClassifier labels prompts by substring rules. It needs no network
// and is the default when no model provider is configured.
type KeywordClassifier struct{}

func (KeywordClassifier) Classify(_ context.Context, prompts []string) ([]string, error) {
	out := make([]string, len(prompts))
	for i, p := range prompts {
		out[i] = classifyByKeyword(p)
	}
	return out, nil
}

func classifyByKeyword(prompt string) string {
	lower := " " + strings.ToLower(prompt) + " "
	for _, rule := range keywordRules {
		for _, term := range rule.terms {
			if strings.Contains(lower, term) {
				return rule.label
			}
		}
	}
	return DefaultLabel
}
