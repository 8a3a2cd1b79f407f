// Package topic picks the dominant subject of a user's prompts.
package topic

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
)

// DefaultLabel is reported when no classification is available.
const DefaultLabel = "General Knowledge"

// Labels is the closed vocabulary every classifier answers from.
var Labels = []string{
	"Technology",
	"Data Analysis",
	"Natural Language Processing",
	"Education",
	"Personal Development",
	"Literature and Books",
	"Finance and Economics",
	"Programming",
	"Philosophy",
	"General Knowledge",
}

// ErrLabelCount is returned when a classifier answers with the wrong number of labels.
var ErrLabelCount = errors.New("classifier returned wrong number of labels")

// Classifier assigns one label from Labels to each prompt.
type Classifier interface {
	Classify(ctx context.Context, prompts []string) ([]string, error)
}

// Canonical maps a label onto Labels, ignoring case and surrounding space.
// Anything unrecognised becomes DefaultLabel.
func Canonical(label string) string {
	label = strings.TrimSpace(label)
	for _, l := range Labels {
		if strings.EqualFold(l, label) {
			return l
		}
	}
	return DefaultLabel
}

// Sample takes the first n prompts and truncates each to maxChars characters.
func Sample(prompts []string, n, maxChars int) []string {
	if n > len(prompts) {
		n = len(prompts)
	}
	if n <= 0 {
		return nil
	}
	out := make([]string, n)
	for i, p := range prompts[:n] {
		out[i] = truncate(p, maxChars)
	}
	return out
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	i := 0
	for pos := range s {
		if i == limit {
			return s[:pos]
		}
		i++
	}
	return s
}

// Majority returns the most frequent label and its rounded share in percent.
// Ties go to the label seen first.
func Majority(labels []string) (string, int) {
	if len(labels) == 0 {
		return DefaultLabel, 0
	}
	counts := make(map[string]int, len(labels))
	best, bestCount := "", 0
	for _, l := range labels {
		counts[l]++
	}
	for _, l := range labels {
		if counts[l] > bestCount {
			best, bestCount = l, counts[l]
		}
	}
	pct := int(math.Round(float64(bestCount) * 100 / float64(len(labels))))
	return best, min(max(pct, 0), 100)
}

// Result is the dominant topic of a sample.
type Result struct {
	Label      string
	Percentage int
	Sampled    int
	// Degraded is set when the classifier failed and DefaultLabel was used.
	Degraded bool
}

// Detector samples prompts and runs one batch classification.
type Detector struct {
	classifier Classifier
	sampleSize int
	maxChars   int
	logger     *slog.Logger
}

func NewDetector(c Classifier, sampleSize, maxChars int, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{classifier: c, sampleSize: sampleSize, maxChars: maxChars, logger: logger}
}

// Detect never fails. An empty sample or classifier error yields DefaultLabel at 0%.
func (d *Detector) Detect(ctx context.Context, prompts []string) Result {
	sample := Sample(prompts, d.sampleSize, d.maxChars)
	if len(sample) == 0 || d.classifier == nil {
		return Result{Label: DefaultLabel}
	}

	labels, err := d.classifier.Classify(ctx, sample)
	if err == nil && len(labels) != len(sample) {
		err = fmt.Errorf("%w: sent %d, got %d", ErrLabelCount, len(sample), len(labels))
	}
	if err != nil {
		d.logger.Warn("topic classification failed, using default", "error", err, "sampled", len(sample))
		return Result{Label: DefaultLabel, Sampled: len(sample), Degraded: true}
	}

	canon := make([]string, len(labels))
	for i, l := range labels {
		canon[i] = Canonical(l)
	}
	label, pct := Majority(canon)
	return Result{Label: label, Percentage: pct, Sampled: len(sample)}
}

type lazyClassifier struct {
	get func() (Classifier, error)
}

// Lazy defers building a classifier until its first use. The build runs once;
// its result, or its error, is reused for the life of the process.
func Lazy(build func() (Classifier, error)) Classifier {
	return &lazyClassifier{get: sync.OnceValues(build)}
}

func (l *lazyClassifier) Classify(ctx context.Context, prompts []string) ([]string, error) {
	c, err := l.get()
	if err != nil {
		return nil, fmt.Errorf("init classifier: %w", err)
	}
	return c.Classify(ctx, prompts)
}
