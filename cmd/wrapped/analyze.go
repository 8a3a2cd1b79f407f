package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/veonlok/Your-Search-Wrapped/internal/analysis"
	"github.com/veonlok/Your-Search-Wrapped/internal/config"
)

var (
	analyzeYear int
	analyzeJSON bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <export.zip>",
	Short: "Analyze a ChatGPT export archive and print the wrapped summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		setupLogging(cfg.LogLevel)
		if analyzeYear == 0 {
			analyzeYear = cfg.TargetYear
		}

		archive, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading archive: %w", err)
		}

		opts, deps, err := buildDeps(cfg, slog.Default())
		if err != nil {
			return err
		}

		bundle, err := analysis.New(opts, deps).AnalyzeHistory(context.Background(), archive, analyzeYear)
		if err != nil {
			return err
		}

		if analyzeJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(bundle)
		}
		printSummary(cmd.OutOrStdout(), analyzeYear, bundle)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().IntVar(&analyzeYear, "year", 0, "Target year (default WRAPPED_TARGET_YEAR)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Output the raw summary as JSON")
}

var monthNames = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

func printSummary(w io.Writer, year int, b *analysis.Bundle) {
	fmt.Fprintf(w, "=== Your %d Wrapped ===\n", year)
	fmt.Fprintf(w, "Analysis:      %s\n", b.AnalysisID)
	fmt.Fprintf(w, "Prompts:       %d\n", b.TotalSearchesPastYear)
	fmt.Fprintf(w, "Top topic:     %s (%d%%)\n", b.TopTopic, b.TopTopicPercentage)
	fmt.Fprintf(w, "Personality:   %s\n", b.MBTI)
	fmt.Fprintf(w, "Chronotype:    %s\n", b.EarlyBirdNightOwl)
	fmt.Fprintf(w, "Unique words:  %d\n", b.UniqueKeywords)

	if len(b.TopKeywords) > 0 {
		fmt.Fprintln(w, "\nTop keywords:")
		for i, kw := range b.TopKeywords {
			fmt.Fprintf(w, "  %d. %-20s %d\n", i+1, kw.Keyword, kw.Frequency)
		}
	}

	if len(b.TopSearches) > 0 {
		fmt.Fprintln(w, "\nMost repeated prompts:")
		for i, s := range b.TopSearches {
			fmt.Fprintf(w, "  %d. %s\n", i+1, s)
		}
	}

	peak := 0
	for _, m := range b.SearchesByMonth {
		peak = max(peak, m.Frequency)
	}
	if peak > 0 {
		fmt.Fprintln(w, "\nBy month:")
		for _, m := range b.SearchesByMonth {
			bar := strings.Repeat("#", m.Frequency*30/peak)
			fmt.Fprintf(w, "  %s %-30s %d\n", monthNames[m.MonthNumber-1], bar, m.Frequency)
		}
	}
}
