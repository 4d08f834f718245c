package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/stockview/config"
)

func newConfigCmd(rc *RootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Generate or validate configuration files",
		Long: `Manage stockview configuration files.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  stockview config init --output stockview.yaml
  stockview config validate --file stockview.yaml`,
		Annotations: map[string]string{skipConfig: "true"},
	}

	cmd.AddCommand(newConfigInitCmd(), newConfigValidateCmd())

	_ = rc // config commands work on files, not on the loaded config

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Generate a default configuration file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if err := cfg.SaveToFile(output); err != nil {
				return fmt.Errorf("save config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Created default configuration: %s\n", output)
			fmt.Fprintln(out, "\nEdit the file and run with:")
			fmt.Fprintf(out, "  stockview --config %s serve\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "stockview.yaml", "output config file path")

	return cmd
}

func newConfigValidateCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:         "validate",
		Short:       "Validate a configuration file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromFile(file)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Configuration valid: %s\n", file)
			fmt.Fprintf(out, "  Data:     %s\n", cfg.Data.Dir)
			fmt.Fprintf(out, "  Server:   %s (origin %s)\n", cfg.Server.Addr, cfg.Server.AllowedOrigin)
			fmt.Fprintf(out, "  Provider: %s\n", cfg.Provider.Name)
			fmt.Fprintf(out, "  Journal:  %t\n", cfg.Journal.Enabled)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "path to config file (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
