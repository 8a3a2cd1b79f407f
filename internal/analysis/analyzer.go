// Package analysis turns a chat export archive into a wrapped summary.
package analysis

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/veonlok/Your-Search-Wrapped/internal/export"
	"github.com/veonlok/Your-Search-Wrapped/internal/keywords"
	"github.com/veonlok/Your-Search-Wrapped/internal/lexicon"
	"github.com/veonlok/Your-Search-Wrapped/internal/temporal"
	"github.com/veonlok/Your-Search-Wrapped/internal/textnorm"
	"github.com/veonlok/Your-Search-Wrapped/internal/topic"
	"github.com/veonlok/Your-Search-Wrapped/internal/traits"
)

// Options tune a run. Zero values fall back to DefaultOptions.
type Options struct {
	Location        *time.Location
	TopKeywords     int
	TopSearches     int
	TopicSampleSize int
	TopicMaxChars   int
	MaxExportBytes  int64
	// IncludeUndatedKeywords adds prompts without a usable timestamp to the
	// keyword and trait corpus. Temporal counts never include them.
	IncludeUndatedKeywords bool
}

func DefaultOptions() Options {
	return Options{
		Location:        temporal.Zone(480),
		TopKeywords:     MaxTopKeywords,
		TopSearches:     MaxTopSearches,
		TopicSampleSize: 100,
		TopicMaxChars:   500,
		MaxExportBytes:  export.DefaultMaxExportBytes,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Location == nil {
		o.Location = d.Location
	}
	if o.TopKeywords <= 0 {
		o.TopKeywords = d.TopKeywords
	}
	if o.TopSearches <= 0 {
		o.TopSearches = d.TopSearches
	}
	if o.TopicSampleSize <= 0 {
		o.TopicSampleSize = d.TopicSampleSize
	}
	if o.TopicMaxChars <= 0 {
		o.TopicMaxChars = d.TopicMaxChars
	}
	if o.MaxExportBytes <= 0 {
		o.MaxExportBytes = d.MaxExportBytes
	}
	return o
}

// Run is the metadata of one analysis. It never carries prompt text.
type Run struct {
	ID             uuid.UUID
	TargetYear     int
	Status         string
	ErrorKind      Kind
	Prompts        int
	YearPrompts    int
	UndatedPrompts int
	UniqueKeywords int
	TopTopic       string
	TopicDegraded  bool
	MBTI           string
	Chronotype     string
	StartedAt      time.Time
	Duration       time.Duration
}

const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// RunRecorder persists run metadata.
type RunRecorder interface {
	RecordRun(ctx context.Context, run Run) error
}

// RunPublisher announces finished runs.
type RunPublisher interface {
	PublishRun(run Run) error
}

// Deps are the collaborators of an Analyzer. Only Classifier is required for
// a meaningful topic; everything else has a default or is optional.
type Deps struct {
	// Normalizer defaults to the process-wide English normalizer.
	Normalizer *textnorm.Normalizer
	Lexicon    *lexicon.Lexicon
	Classifier topic.Classifier
	Recorder   RunRecorder
	Publishers []RunPublisher
	Logger     *slog.Logger
}

// Analyzer runs the extraction and aggregation pipeline.
// It is safe for concurrent use; each call works on its own data.
type Analyzer struct {
	opts       Options
	normalizer func() (*textnorm.Normalizer, error)
	engine     *keywords.Engine
	scorer     *traits.Scorer
	topics     *topic.Detector
	recorder   RunRecorder
	publishers []RunPublisher
	logger     *slog.Logger
}

func New(opts Options, deps Deps) *Analyzer {
	opts = opts.withDefaults()
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	lex := deps.Lexicon
	if lex == nil {
		lex = lexicon.Default()
	}
	normalizer := textnorm.Default
	if deps.Normalizer != nil {
		n := deps.Normalizer
		normalizer = func() (*textnorm.Normalizer, error) { return n, nil }
	}

	return &Analyzer{
		opts:       opts,
		normalizer: normalizer,
		engine:     keywords.NewEngine(lex.ExclusionSet()),
		scorer:     traits.NewScorer(lex),
		topics:     topic.NewDetector(deps.Classifier, opts.TopicSampleSize, opts.TopicMaxChars, logger),
		recorder:   deps.Recorder,
		publishers: deps.Publishers,
		logger:     logger,
	}
}

// AnalyzeHistory analyzes one export archive for targetYear. It returns a
// complete bundle or an *Error, never both.
func (a *Analyzer) AnalyzeHistory(ctx context.Context, archive []byte, targetYear int) (*Bundle, error) {
	run := Run{ID: uuid.New(), TargetYear: targetYear, StartedAt: time.Now()}
	log := a.logger.With("analysis_id", run.ID.String(), "target_year", targetYear)

	bundle, err := a.analyze(ctx, archive, &run, log)
	run.Duration = time.Since(run.StartedAt)
	if err != nil {
		run.Status = StatusFailed
		run.ErrorKind = KindOf(err)
		log.Warn("analysis failed", "kind", run.ErrorKind, "error", err)
	} else {
		run.Status = StatusCompleted
		log.Info("analysis complete",
			"prompts", run.Prompts,
			"year_prompts", run.YearPrompts,
			"unique_keywords", run.UniqueKeywords,
			"topic", run.TopTopic,
			"duration_ms", run.Duration.Milliseconds(),
		)
	}

	a.report(ctx, run, log)
	return bundle, err
}

func (a *Analyzer) analyze(ctx context.Context, archive []byte, run *Run, log *slog.Logger) (*Bundle, error) {
	doc, err := export.Load(archive, a.opts.MaxExportBytes)
	if err != nil {
		return nil, classifyLoadError(run.ID, err)
	}
	records, err := export.Walk(doc)
	if err != nil {
		return nil, classifyLoadError(run.ID, err)
	}
	run.Prompts = len(records)
	log.Debug("prompts extracted", "member", doc.Member, "prompts", len(records))

	agg := temporal.NewAggregator(a.opts.Location, run.TargetYear)
	summary := agg.Summarize(records)
	yearly := agg.InYear(records)
	run.YearPrompts = summary.Total
	run.UndatedPrompts = summary.Undated

	raw := texts(yearly)
	corpus := raw
	if a.opts.IncludeUndatedKeywords {
		corpus = keywordCorpus(records, agg)
	}

	normalizer, err := a.normalizer()
	if err != nil {
		return nil, &Error{Kind: KindInternal, Message: "Text normalizer unavailable", AnalysisID: run.ID, Err: err}
	}
	counts := a.engine.Count(normalizer.NormalizeAll(corpus))
	mbti := a.scorer.Infer(counts)
	topicResult := a.topics.Detect(ctx, raw)

	run.UniqueKeywords = counts.Len()
	run.TopTopic = topicResult.Label
	run.TopicDegraded = topicResult.Degraded
	run.MBTI = mbti
	run.Chronotype = summary.Chronotype()

	return assemble(run.ID, parts{
		summary:     summary,
		topSearches: keywords.TopSearches(raw, a.opts.TopSearches),
		counts:      counts,
		topKeywords: a.opts.TopKeywords,
		topic:       topicResult,
		mbti:        mbti,
	}), nil
}

// report hands run metadata to the optional sinks. Sink failures are logged only.
func (a *Analyzer) report(ctx context.Context, run Run, log *slog.Logger) {
	if a.recorder != nil {
		if err := a.recorder.RecordRun(ctx, run); err != nil {
			log.Warn("failed to record run", "error", err)
		}
	}
	for _, p := range a.publishers {
		if err := p.PublishRun(run); err != nil {
			log.Warn("failed to publish run", "error", err)
		}
	}
}

func texts(records []export.PromptRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Text
	}
	return out
}

// keywordCorpus is the target-year prompts plus undated ones, in traversal order.
func keywordCorpus(records []export.PromptRecord, agg *temporal.Aggregator) []string {
	var out []string
	for _, r := range records {
		if !r.Dated() || agg.Includes(r) {
			out = append(out, r.Text)
		}
	}
	return out
}
