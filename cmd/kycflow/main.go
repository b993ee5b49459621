package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"kycflow/internal/platform/config"
	"kycflow/internal/platform/logger"
	"kycflow/internal/policy"
)

var (
	cfg        *config.Config
	configFile string
)

// main wires the CLI. Business logic lives in internal service packages.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	rootCmd := &cobra.Command{
		Use:           "kycflow",
		Short:         "kycflow runs client onboarding: document checklists, screening and lifecycle",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if configFile != "" {
				cfg, err = config.LoadFile(configFile)
			} else {
				cfg, err = config.Load()
			}
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to a kycflow.yaml config file")

	rootCmd.AddCommand(
		serveCmd(),
		policyCmd(),
	)
	rootCmd.SetContext(ctx)

	err := rootCmd.Execute()
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	return logger.New(cfg.Logging.Level, cfg.Logging.Format)
}

// loadPolicy reads path, or the configured policy file, or the embedded
// default, in that order.
func loadPolicy(path string) (*policy.Document, error) {
	if path == "" {
		path = cfg.Policy.File
	}
	if path == "" {
		return policy.Default()
	}
	return policy.LoadFile(path)
}
