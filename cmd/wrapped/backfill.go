package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/veonlok/Your-Search-Wrapped/internal/analysis"
	"github.com/veonlok/Your-Search-Wrapped/internal/backfill"
	"github.com/veonlok/Your-Search-Wrapped/internal/config"
)

var backfillCfg backfill.Config

var backfillCmd = &cobra.Command{
	Use:   "backfill <dir>",
	Short: "Analyze every export archive in a directory, resuming from saved state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		setupLogging(cfg.LogLevel)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		bcfg := backfillCfg
		bcfg.Dir = args[0]
		if bcfg.Year == 0 {
			bcfg.Year = cfg.TargetYear
		}
		if bcfg.Concurrency == 0 {
			bcfg.Concurrency = cfg.MaxConcurrentAnalyses
		}

		opts, deps, err := buildDeps(cfg, slog.Default())
		if err != nil {
			return err
		}

		sum, err := backfill.NewRunner(bcfg, analysis.New(opts, deps), slog.Default()).Run(ctx)
		if sum != nil {
			fmt.Fprint(cmd.OutOrStdout(), "\n"+backfill.FormatSummary(sum))
		}
		return err
	},
}

func init() {
	backfillCmd.Flags().StringVar(&backfillCfg.OutDir, "out", "", "Directory for bundle JSON files (default: the input directory)")
	backfillCmd.Flags().IntVar(&backfillCfg.Year, "year", 0, "Target year (default WRAPPED_TARGET_YEAR)")
	backfillCmd.Flags().IntVar(&backfillCfg.Concurrency, "concurrency", 0, "Archives analyzed in parallel (default MAX_CONCURRENT_ANALYSES)")
	backfillCmd.Flags().BoolVar(&backfillCfg.DryRun, "dry-run", false, "Analyze without writing bundles")
	backfillCmd.Flags().StringVar(&backfillCfg.StatePath, "state", backfill.DefaultStatePath, "Resume state file")
}
