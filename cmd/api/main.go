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

// API process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring (ports + adapters + use cases), migrate and seed.
// 3) Start HTTP server, optionally with the outbox worker in-process.

const programName = "spotlight-api"

var globalFlags = struct {
	envFile string
}{}

func commonRun() (config.Config, *slog.Logger, error) {
	cfg, err := config.LoadFile(globalFlags.envFile)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	logger := bootstrap.NewLogger(cfg, os.Stdout)
	slog.SetDefault(logger)
	if _, err := maxprocs.Set(maxprocs.Logger(func(format string, v ...any) {
		logger.Info(fmt.Sprintf(format, v...), "component", programName)
	})); err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}

func serveCommand() *cobra.Command {
	var embeddedWorker bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := commonRun()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("embedded-worker") {
				embeddedWorker = cfg.DatabaseDriver == config.DriverSQLite
			}
			app, err := bootstrap.BuildAPI(cfg, logger, embeddedWorker)
			if err != nil {
				return fmt.Errorf("bootstrap api: %w", err)
			}
			defer func() {
				if err := app.Close(); err != nil {
					logger.Error("api shutdown close failed", "event", "api_close_failed", "error", err.Error())
				}
			}()
			return app.Run(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&embeddedWorker, "embedded-worker", false,
		"run the outbox relay and notification consumer in this process (default true for sqlite)")
	return cmd
}

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and apply the seed file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := commonRun()
			if err != nil {
				return err
			}
			runtime, err := bootstrap.Open(cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = runtime.Close() }()
			if err := runtime.Migrate(cmd.Context()); err != nil {
				return err
			}
			return runtime.SeedFromConfig(cmd.Context())
		},
	}
}

func main() {
	rootCmd := &cobra.Command{
		Use:          programName,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&globalFlags.envFile, "env-file", ".env", "path to an optional dotenv file")
	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(migrateCommand())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
