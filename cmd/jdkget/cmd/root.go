package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/jdkget/internal/config"
	"github.com/oshokin/jdkget/internal/logger"
	"github.com/oshokin/jdkget/internal/service/provisioner"
	"github.com/oshokin/jdkget/internal/version"
)

var (
	// configPath to the provisioning profile YAML file.
	configPath string

	// outputPath for the JSON report; empty prints to stdout.
	outputPath string

	// logLevel selects the minimum logged severity.
	logLevel string

	// logFile routes log output to a rotated file instead of stderr.
	logFile string

	// rootCmd represents the base command for provisioning JDK builds.
	rootCmd = &cobra.Command{
		Use:   "jdkget [destination-folder]",
		Short: "Download, verify and extract JDK builds from the Adoptium catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := setupLogger(); err != nil {
				return err
			}

			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			cmd.SilenceUsage = true

			options := &provisioner.Options{
				ConfigPath:     configPath,
				DestinationDir: args[0],
				OutputPath:     outputPath,
			}

			return provisioner.Run(ctx, options)
		},
	}
)

// Execute runs the jdkget CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupLogger applies the logging flags before any work starts.
func setupLogger() error {
	level, ok := logger.ParseLogLevel(logLevel)
	if !ok {
		return fmt.Errorf("unknown log level %q", logLevel)
	}

	if logFile == "" {
		logger.SetLogger(logger.New(level))
		return nil
	}

	fileLogger, err := logger.NewWithFile(level, logFile)
	if err != nil {
		return fmt.Errorf("setup log file: %w", err)
	}

	logger.SetLogger(fileLogger)

	return nil
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to provisioning profile")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "path for the JSON report (default: stdout)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "minimum log level (debug, info, warn, error)")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this rotated file instead of stderr")
}
