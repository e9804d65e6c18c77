package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/amosWeiskopf/pagecrawl/internal/config"
	"github.com/amosWeiskopf/pagecrawl/internal/logger"
)

// NewRootCmd creates the root command with its own configuration registry.
func NewRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "pagecrawl",
		Short: "pagecrawl - bounded website crawler",
		Long: `pagecrawl walks a website depth-first from a start URL, following a limited
number of internal links per page, and reports per-page data (title, words,
images, links, load time, status) with aggregate statistics.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().String("config", "", "Config file path")
	cmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log-format", "console", "Log format (console, json)")
	_ = v.BindPFlag("logging.level", cmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("logging.format", cmd.PersistentFlags().Lookup("log-format"))

	cmd.AddCommand(NewCrawlCmd(v))
	cmd.AddCommand(NewExpectedCmd(v))

	return cmd
}

// loadConfig reads the --config file, environment and bound flags into a
// validated Config.
func loadConfig(cmd *cobra.Command, v *viper.Viper) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(v, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newLogger builds the application logger. The returned func closes a log
// file opened for output_path.
func newLogger(cfg config.LoggingConfig) (*logger.Logger, func() error, error) {
	level, err := logger.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var out io.Writer = os.Stderr
	closer := func() error { return nil }

	switch cfg.OutputPath {
	case "", "stderr":
	case "stdout":
		out = os.Stdout
	default:
		f, err := os.OpenFile(cfg.OutputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out, closer = f, f.Close
	}

	return logger.New(logger.Config{
		Level:  level,
		Pretty: cfg.Format == "console",
		Output: out,
	}), closer, nil
}
