package backfill

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/veonlok/Your-Search-Wrapped/internal/analysis"
)

// Analyzer is the subset of analysis.Analyzer the runner needs.
type Analyzer interface {
	AnalyzeHistory(ctx context.Context, archive []byte, targetYear int) (*analysis.Bundle, error)
}

// Config holds the backfill command configuration.
type Config struct {
	Dir         string
	OutDir      string // bundles are written as <archive>.json; empty means Dir
	Year        int
	Concurrency int
	DryRun      bool
	StatePath   string
}

// FileSummary is the outcome for one archive.
type FileSummary struct {
	Path       string
	Prompts    int
	MBTI       string
	Topic      string
	Chronotype string
	ErrorKind  analysis.Kind
	Duplicate  string
}

// Summary is the outcome of one Run.
type Summary struct {
	Discovered int
	Skipped    int
	Duplicates int
	Analyzed   int
	Failed     int
	Files      []FileSummary
	StatePath  string
	DryRun     bool
}

// Runner analyzes every export archive in a directory.
type Runner struct {
	cfg      Config
	analyzer Analyzer
	logger   *slog.Logger
}

func NewRunner(cfg Config, analyzer Analyzer, logger *slog.Logger) *Runner {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.OutDir == "" {
		cfg.OutDir = cfg.Dir
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{cfg: cfg, analyzer: analyzer, logger: logger}
}

// Run executes the backfill. State is saved after every archive so an
// interrupted run resumes where it stopped.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	state, err := LoadState(r.cfg.StatePath)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}

	files, err := r.discoverFiles()
	if err != nil {
		return nil, fmt.Errorf("discover files: %w", err)
	}

	sum := &Summary{Discovered: len(files), StatePath: state.Path(), DryRun: r.cfg.DryRun}
	var pending []string
	for _, f := range files {
		if state.IsProcessed(f) {
			sum.Skipped++
			continue
		}
		pending = append(pending, f)
	}
	state.FilesRemaining = len(pending)

	r.logger.Info("files to process",
		"discovered", len(files),
		"pending", len(pending),
		"skipped", sum.Skipped,
	)

	if !r.cfg.DryRun {
		if err := os.MkdirAll(r.cfg.OutDir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}

	var mu sync.Mutex
	// inflight holds digests claimed by running workers. It is never saved,
	// so an interrupted archive is analyzed again on resume.
	inflight := make(map[string]string)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Concurrency)

	for _, path := range pending {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			archive, err := os.ReadFile(path)
			if err != nil {
				mu.Lock()
				defer mu.Unlock()
				state.AddError(fmt.Sprintf("read %s: %v", path, err))
				sum.Failed++
				state.Failed++
				sum.Files = append(sum.Files, FileSummary{Path: path, ErrorKind: analysis.KindInternal})
				return nil
			}
			digest := Fingerprint(archive)

			// Claim the digest before analyzing so concurrent copies are skipped.
			mu.Lock()
			prev, dup := state.Duplicate(digest)
			if !dup {
				prev, dup = inflight[digest]
			}
			if dup {
				r.logger.Info("skipping duplicate archive", "path", path, "same_as", prev)
				sum.Duplicates++
				sum.Files = append(sum.Files, FileSummary{Path: path, Duplicate: prev})
				state.MarkProcessed(path, "")
				state.FilesRemaining--
				err := state.Save()
				mu.Unlock()
				return err
			}
			inflight[digest] = path
			mu.Unlock()

			fs := r.analyzeOne(gctx, path, archive)

			mu.Lock()
			defer mu.Unlock()
			delete(inflight, digest)
			if err := gctx.Err(); err != nil {
				// Interrupted mid-analysis: leave the archive pending.
				return err
			}
			sum.Files = append(sum.Files, fs)
			if fs.ErrorKind != "" {
				sum.Failed++
				state.Failed++
				state.AddError(fmt.Sprintf("analyze %s: %s", path, fs.ErrorKind))
			} else {
				sum.Analyzed++
				state.Analyzed++
			}
			state.MarkProcessed(path, digest)
			state.FilesRemaining--
			return state.Save()
		})
	}

	err = g.Wait()
	if saveErr := state.Save(); saveErr != nil && err == nil {
		err = saveErr
	}

	sort.Slice(sum.Files, func(i, j int) bool { return sum.Files[i].Path < sum.Files[j].Path })

	r.logger.Info("backfill complete",
		"analyzed", sum.Analyzed,
		"failed", sum.Failed,
		"duplicates", sum.Duplicates,
		"skipped", sum.Skipped,
		"dry_run", r.cfg.DryRun,
	)
	return sum, err
}

func (r *Runner) analyzeOne(ctx context.Context, path string, archive []byte) FileSummary {
	fs := FileSummary{Path: path}

	bundle, err := r.analyzer.AnalyzeHistory(ctx, archive, r.cfg.Year)
	if err != nil {
		r.logger.Warn("analysis failed", "path", path, "error", err)
		fs.ErrorKind = analysis.KindOf(err)
		return fs
	}
	fs.Prompts = bundle.TotalSearchesPastYear
	fs.MBTI = bundle.MBTI
	fs.Topic = bundle.TopTopic
	fs.Chronotype = bundle.EarlyBirdNightOwl

	if r.cfg.DryRun {
		return fs
	}
	if err := r.writeBundle(path, bundle); err != nil {
		r.logger.Error("write bundle failed", "path", path, "error", err)
		fs.ErrorKind = analysis.KindInternal
	}
	return fs
}

func (r *Runner) writeBundle(path string, bundle *analysis.Bundle) error {
	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal bundle: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".json"
	return os.WriteFile(filepath.Join(r.cfg.OutDir, name), data, 0o644)
}

// discoverFiles lists the .zip archives directly under Dir, sorted.
func (r *Runner) discoverFiles() ([]string, error) {
	if r.cfg.Dir == "" {
		return nil, fmt.Errorf("backfill directory is required")
	}
	entries, err := os.ReadDir(r.cfg.Dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".zip") {
			continue
		}
		files = append(files, filepath.Join(r.cfg.Dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// FormatSummary renders a Summary for terminal output.
func FormatSummary(s *Summary) string {
	var sb strings.Builder
	sb.WriteString("=== Backfill Summary ===\n")
	fmt.Fprintf(&sb, "Archives found: %d\n", s.Discovered)
	fmt.Fprintf(&sb, "Analyzed: %d\n", s.Analyzed)
	fmt.Fprintf(&sb, "Failed: %d\n", s.Failed)
	fmt.Fprintf(&sb, "Duplicates: %d\n", s.Duplicates)
	fmt.Fprintf(&sb, "Already processed: %d\n", s.Skipped)

	types := make(map[string]int)
	for _, f := range s.Files {
		if f.MBTI != "" {
			types[f.MBTI]++
		}
	}
	if len(types) > 0 {
		keys := make([]string, 0, len(types))
		for k := range types {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteString("Personality types:")
		for _, k := range keys {
			fmt.Fprintf(&sb, " %s=%d", k, types[k])
		}
		sb.WriteString("\n")
	}

	if s.DryRun {
		sb.WriteString("Mode: DRY RUN (no bundles written)\n")
	}
	fmt.Fprintf(&sb, "State file: %s\n", s.StatePath)
	return sb.String()
}
