// Package cli defines the command-line interface for soadctl.
package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/soad-platform/soad-deploy/internal/logging"
	"github.com/soad-platform/soad-deploy/pkg/values"
)

const (
	// defaultReleaseName is the Helm release name used when none is provided.
	defaultReleaseName = "soad"
)

// Options stores global CLI options shared between commands.
type Options struct {
	ValuesPath string
	Release    string
	Namespace  string
	LogLevel   logging.Level
}

// Execute builds the root command, runs it with the provided args and logger, and returns any error.
func Execute(args []string, logger *slog.Logger) error {
	if logger == nil {
		logger = logging.NewLogger(os.Stderr, logging.LevelInfo)
	}

	rootOpts := &Options{
		Release:  defaultReleaseName,
		LogLevel: logging.LevelInfo,
	}

	rootCmd := newRootCommand(rootOpts, logger)
	rootCmd.SetArgs(args)

	return rootCmd.Execute()
}

// newRootCommand constructs the root cobra.Command with global flags and subcommands.
func newRootCommand(opts *Options, logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "soadctl",
		Short: "soadctl renders deployment manifests for the SOAD trading platform",
		Long:  "soadctl renders the platform Helm chart (order manager, sync worker, trading API) into concrete Kubernetes manifests from a values document.",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := logging.ParseLevel(cmd.Flag("log-level").Value.String())
			opts.LogLevel = level
			logger = logging.NewLogger(os.Stderr, level)
			cmd.SetContext(context.WithValue(cmd.Context(), loggerKey{}, logger))
			logger.Debug("logger initialized", "level", level)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ValuesPath, "values", "f", "", "Path to a values document merged over the chart defaults")
	cmd.PersistentFlags().StringVar(&opts.Release, "release", defaultReleaseName, "Helm release name")
	cmd.PersistentFlags().StringVar(&opts.Namespace, "namespace", "", "Target Kubernetes namespace")
	cmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		newRenderCommand(opts),
		newValuesCommand(opts),
	)

	return cmd
}

// loggerKey is a private context key used to store a logger in command contexts.
type loggerKey struct{}

// LoggerFromContext returns the logger stored in the context, or a default logger.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}

	return logging.NewLogger(os.Stderr, logging.LevelInfo)
}

// loadValues loads the effective values document for the current invocation:
// the chart defaults, overlaid with the --values file when given.
func loadValues(opts *Options) (*values.Values, error) {
	if opts.ValuesPath == "" {
		return values.Default(), nil
	}

	return values.Load(opts.ValuesPath)
}
