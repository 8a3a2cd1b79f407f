package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/veonlok/Your-Search-Wrapped/internal/analysis"
	"github.com/veonlok/Your-Search-Wrapped/internal/api"
	"github.com/veonlok/Your-Search-Wrapped/internal/config"
	"github.com/veonlok/Your-Search-Wrapped/internal/hermes"
	"github.com/veonlok/Your-Search-Wrapped/internal/slack"
	"github.com/veonlok/Your-Search-Wrapped/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the upload API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if servePort > 0 {
			cfg.Port = servePort
		}
		setupLogging(cfg.LogLevel)
		return serve(cfg)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (overrides WRAPPED_PORT)")
}

func serve(cfg config.Config) error {
	slog.Info("wrapped starting", "port", cfg.Port, "target_year", cfg.TargetYear)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts, deps, err := buildDeps(cfg, slog.Default())
	if err != nil {
		return err
	}

	// Run ledger (optional)
	var runs api.RunLister
	if cfg.DatabaseURL != "" {
		db, err := store.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.EnsureSchema(ctx); err != nil {
			return err
		}
		deps.Recorder = db
		runs = db
		slog.Info("database connected")
	} else {
		slog.Warn("DATABASE_URL not set, running without run ledger")
	}

	// NATS/Hermes (optional)
	if cfg.NatsURL != "" {
		hermesClient, err := hermes.NewClient(ctx, cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			return err
		}
		defer hermesClient.Close()
		deps.Publishers = append(deps.Publishers, hermesClient)
		slog.Info("NATS connected", "url", cfg.NatsURL)
	}

	// Slack alerts (optional)
	if cfg.SlackBotToken != "" && cfg.SlackChannel != "" {
		deps.Publishers = append(deps.Publishers, slack.NewPoster(cfg.SlackBotToken, cfg.SlackChannel, cfg.SlackNotifyAll, slog.Default()))
		slog.Info("slack poster ready", "channel", cfg.SlackChannel)
	}

	analyzer := analysis.New(opts, deps)

	srv := api.NewServer(api.Options{
		Port:           cfg.Port,
		DefaultYear:    cfg.TargetYear,
		MaxUploadBytes: int64(cfg.MaxUploadMB) << 20,
		MaxConcurrent:  int64(cfg.MaxConcurrentAnalyses),
		AllowedOrigins: cfg.AllowedOrigins(),
		APIToken:       cfg.APIToken,
	}, analyzer, runs, slog.Default())

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	slog.Info("wrapped ready", "port", cfg.Port)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	slog.Info("wrapped stopped")
	return nil
}
