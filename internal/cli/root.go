package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/stockview/config"
)

// Version is stamped at build time with -ldflags "-X ...cli.Version=...".
var Version = "dev"

// skipConfig marks commands that run without loading the configuration.
const skipConfig = "skip-config"

// RootConfig carries the global flags and, once PersistentPreRunE has run,
// the resolved configuration and logger.
type RootConfig struct {
	ConfigPath string
	LogLevel   string
	DataDir    string

	Config *config.Config
	Logger *slog.Logger
}

func NewRootCmd() *cobra.Command {
	rc := &RootConfig{}

	cmd := &cobra.Command{
		Use:           "stockview",
		Short:         "stockview: fetch, serve and chart daily stock prices",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global / persistent flags
	cmd.PersistentFlags().StringVar(&rc.ConfigPath, "config", "", "Path to config file (optional)")
	cmd.PersistentFlags().StringVar(&rc.LogLevel, "log-level", "", "Log level: debug|info|warn|error (overrides config)")
	cmd.PersistentFlags().StringVar(&rc.DataDir, "data-dir", "", "Directory holding {SYMBOL}_stock_data.csv files (overrides config)")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[skipConfig] != "" {
			return nil
		}
		return rc.load(cmd)
	}

	// Subcommands
	cmd.AddCommand(
		newFetchCmd(rc),
		newServeCmd(rc),
		newChartCmd(rc),
		newRunsCmd(rc),
		newConfigCmd(rc),
		newVersionCmd(),
	)

	return cmd
}

func (rc *RootConfig) load(cmd *cobra.Command) error {
	cfg, err := config.Load(rc.ConfigPath)
	if err != nil {
		return err
	}
	if rc.LogLevel != "" {
		cfg.Log.Level = rc.LogLevel
	}
	if rc.DataDir != "" {
		cfg.Data.Dir = rc.DataDir
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	level, err := cfg.Log.SlogLevel()
	if err != nil {
		return err
	}
	rc.Config = cfg
	rc.Logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Annotations: map[string]string{skipConfig: "true"},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "stockview %s\n", Version)
		},
	}
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
