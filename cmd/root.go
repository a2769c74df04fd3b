package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"linkcopy/pkg/completions"
	"linkcopy/pkg/config"
	"linkcopy/pkg/errors"
	"linkcopy/pkg/logger"

	"github.com/spf13/cobra"
)

const (
	unknownValue = "unknown"

	// Commands carrying this annotation run without loading the config file.
	skipConfigAnnotation = "linkcopy/skip-config"
)

var (
	Version   string
	BuildTime string
	GitCommit string
)

var globalTimeout time.Duration
var outputFormat string
var configPath string
var logLevel string

// cfg is the effective configuration, loaded before every command runs.
var cfg = config.Default()

var rootCmd = &cobra.Command{
	Use:   "linkcopy",
	Short: "Copy page links as rich text and Markdown",
	Long: `Copy a page's title and URL to the clipboard as a rich-text hyperlink
(for rich-text editors) and a Markdown link (for plain-text editors) at once.

Pages are fetched from http(s) URLs, read from local HTML files or stdin,
or described directly with --title and --url.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[skipConfigAnnotation] != "" {
			return nil
		}

		loaded, err := loadConfig()
		if err != nil {
			return err
		}
		cfg = loaded

		// Explicit flags take precedence over config and environment.
		level := cfg.LogLevel
		if cmd.Flags().Changed("log-level") {
			level = logLevel
		}
		logger.SetLevel(level)

		if !cmd.Flags().Changed("timeout") {
			globalTimeout = cfg.Fetch.Timeout
		}
		if !cmd.Flags().Changed("format") {
			outputFormat = cfg.Output.Format
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		bt := BuildTime
		if bt == "" {
			bt = unknownValue
		}
		gc := GitCommit
		if gc == "" {
			gc = unknownValue
		}

		fmt.Fprintf(cmd.OutOrStdout(), "linkcopy version %s\n", version())
		fmt.Fprintf(cmd.OutOrStdout(), "Built: %s\n", bt)
		fmt.Fprintf(cmd.OutOrStdout(), "Git commit: %s\n", gc)
	},
}

func version() string {
	if Version == "" {
		return "dev"
	}
	return Version
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFrom(configPath)
	}
	return config.Load()
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Interrupted by the user; nothing worth printing.
		if errors.IsExitCode(err, errors.ExitCodeCancellation) {
			os.Exit(int(errors.HandleQuietReturn(err)))
		}
		exitCode := errors.HandleReturn(err)
		os.Exit(int(exitCode))
	}
}

func GetContext() (context.Context, context.CancelFunc) {
	timeout := globalTimeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

func init() {
	RegisterCommands(rootCmd)

	rootCmd.PersistentFlags().DurationVar(&globalTimeout, "timeout", config.DefaultTimeout, "Timeout for fetching pages (e.g., 15s, 1m)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", config.DefaultFormat, "Output format (table, json, yaml, markdown)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/linkcopy/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "Log level (debug, info, warn, error)")

	completions.RegisterCompletions(rootCmd, config.ValidFormats())
}
