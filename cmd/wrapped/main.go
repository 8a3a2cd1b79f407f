package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/veonlok/Your-Search-Wrapped/internal/analysis"
	"github.com/veonlok/Your-Search-Wrapped/internal/config"
	"github.com/veonlok/Your-Search-Wrapped/internal/lexicon"
	"github.com/veonlok/Your-Search-Wrapped/internal/temporal"
	"github.com/veonlok/Your-Search-Wrapped/internal/topic"
)

var rootCmd = &cobra.Command{
	Use:           "wrapped",
	Short:         "Year-in-review analytics for ChatGPT data exports",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.AddCommand(serveCmd, analyzeCmd, backfillCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildDeps assembles the parts of an analyzer shared by every command.
func buildDeps(cfg config.Config, logger *slog.Logger) (analysis.Options, analysis.Deps, error) {
	lex := lexicon.Default()
	if cfg.LexiconFile != "" {
		loaded, err := lexicon.Load(cfg.LexiconFile)
		if err != nil {
			return analysis.Options{}, analysis.Deps{}, fmt.Errorf("load lexicon: %w", err)
		}
		lex = loaded
		logger.Info("lexicon loaded", "path", cfg.LexiconFile)
	}

	opts := analysis.Options{
		Location:               temporal.Zone(cfg.TZOffsetMinutes),
		TopKeywords:            cfg.TopKeywords,
		TopSearches:            cfg.TopSearches,
		TopicSampleSize:        cfg.TopicSampleSize,
		TopicMaxChars:          cfg.TopicMaxChars,
		MaxExportBytes:         int64(cfg.MaxExportMB) << 20,
		IncludeUndatedKeywords: cfg.IncludeUndatedKeywords,
	}

	deps := analysis.Deps{
		Lexicon: lex,
		Classifier: topic.NewClassifier(topic.ProviderConfig{
			Provider:        cfg.TopicProvider,
			OpenAIAPIKey:    cfg.OpenAIAPIKey,
			OpenAIModel:     cfg.OpenAIModel,
			AnthropicAPIKey: cfg.AnthropicAPIKey,
			AnthropicModel:  cfg.AnthropicModel,
		}, logger),
		Logger: logger,
	}
	return opts, deps, nil
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
