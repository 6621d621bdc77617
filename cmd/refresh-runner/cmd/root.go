package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vmaslov/refresh-runner/internal/config"
	"github.com/vmaslov/refresh-runner/internal/domain/run"
	"github.com/vmaslov/refresh-runner/internal/logger"
	"github.com/vmaslov/refresh-runner/internal/service/runner"
	"github.com/vmaslov/refresh-runner/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string

	// logLevel is the minimum level for console logging.
	logLevel string

	// scheduled marks the run as started by the host scheduler.
	scheduled bool

	// rootCmd represents the base command running one update cycle.
	rootCmd = &cobra.Command{
		Use:   "refresh-runner",
		Short: "Run the update pipeline and push resulting changes",
		Long: "Provision the declared execution environment, run the update pipeline " +
			"with its access token, and commit and push any resulting changes with a " +
			"fixed identity. A run without changes is a successful no-op.",
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}

			trigger := run.TriggerManual
			if scheduled {
				trigger = run.TriggerSchedule
			}

			options := &runner.Options{
				ConfigPath: configPath,
				Trigger:    trigger,
			}

			_, err := runner.Run(ctx, options)

			return err
		},
	}
)

// Execute runs the refresh-runner CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info",
		fmt.Sprintf("logging level (current: %s)", logger.Level()))
	rootCmd.Flags().BoolVar(&scheduled, "scheduled", false, "mark the run as triggered by the host scheduler")
}
