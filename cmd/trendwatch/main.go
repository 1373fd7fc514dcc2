// Package main provides the trendwatch CLI entry point.
package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"trendwatch/internal/batch"
	"trendwatch/internal/collector"
	"trendwatch/internal/config"
	"trendwatch/internal/csvout"
	"trendwatch/internal/notify"
	"trendwatch/internal/ranking"
	"trendwatch/internal/youtube"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd creates the root command for the trendwatch CLI.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "trendwatch",
		Short:   "Collect trending YouTube videos, comments and channel rankings",
		Long:    "Trendwatch periodically collects trending videos, their top comments and channel rankings per region and category, and exports each dataset as CSV.",
		Version: version,
	}

	rootCmd.SetVersionTemplate("trendwatch version {{.Version}}\n")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

// newRunCmd creates the run subcommand: a single batch pass.
func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute one collection pass and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, _, err := buildRunner()
			if err != nil {
				return err
			}
			return runner.Run(cmd.Context())
		},
	}

	return cmd
}

// newServeCmd creates the serve subcommand: the fixed-interval batch loop.
func newServeCmd() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run collection passes on a fixed interval until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, cfg, err := buildRunner()
			if err != nil {
				return err
			}
			if interval == 0 {
				interval = cfg.Interval
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			slog.Info("scheduler started", "interval", interval.String())
			runner.RunEvery(ctx, interval)
			slog.Info("scheduler stopped")
			return nil
		},
	}

	cmd.Flags().DurationVarP(&interval, "interval", "i", 0, "Time between passes (overrides BATCH_INTERVAL)")

	return cmd
}

// buildRunner loads configuration and wires the pipeline's collaborators.
func buildRunner() (*batch.Runner, config.Config, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, config.Config{}, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	videos := youtube.NewClient(cfg.APIKey)
	rankings := ranking.NewClient(logger)

	writerOpts := []csvout.WriterOption{}
	if cfg.Rotate {
		writerOpts = append(writerOpts, csvout.WithRotation())
	}
	writer := csvout.NewWriter(cfg.DataDir, writerOpts...)

	notifier := notify.NewClient(cfg.NotifyHost, cfg.NotifyPort)
	coll := collector.New(videos, rankings, cfg.Grid, logger)

	return batch.NewRunner(coll, writer, notifier, logger), cfg, nil
}
