package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"spotlight/internal/app/bootstrap"
	"spotlight/internal/platform/config"

	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
)

// Worker process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring.
// 3) Relay the outbox to the bus and run the notification consumer.

const programName = "spotlight-worker"

func runCommand(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Relay outbox events and dispatch nominee notifications",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadFile(*envFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger := bootstrap.NewLogger(cfg, os.Stdout)
			slog.SetDefault(logger)
			if _, err := maxprocs.Set(maxprocs.Logger(func(format string, v ...any) {
				logger.Info(fmt.Sprintf(format, v...), "component", programName)
			})); err != nil {
				return err
			}
			if cfg.DatabaseDriver == config.DriverSQLite && cfg.SQLitePath == "" {
				logger.Warn("in-memory sqlite is private to this process; run the api with --embedded-worker instead",
					"event", "worker_memory_database",
				)
			}

			app, err := bootstrap.BuildWorker(cfg, logger)
			if err != nil {
				return fmt.Errorf("bootstrap worker: %w", err)
			}
			defer func() {
				if err := app.Close(); err != nil {
					logger.Error("worker shutdown close failed", "event", "worker_close_failed", "error", err.Error())
				}
			}()
			return app.Run(cmd.Context())
		},
	}
}

func main() {
	var envFile string
	rootCmd := &cobra.Command{
		Use:          programName,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "path to an optional dotenv file")
	rootCmd.AddCommand(runCommand(&envFile))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
