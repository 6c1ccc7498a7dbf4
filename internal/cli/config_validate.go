package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/trajview/internal/config"
)

// newConfigValidateCmd creates the config validate command for validating configuration.
func newConfigValidateCmd(opts *rootOptions) *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the configuration file for syntax and semantic correctness.

This includes:
- YAML syntax and known top-level sections
- Schema version compatibility
- Window geometry (heights positive, buffer and threshold non-negative)
- Reveal delay and output format`,
		Example: `  # Validate current configuration
  trajview config validate

  # Validate and show detailed information
  trajview config validate --verbose`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, opts, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate reports the load error recorded by the root command, if any.
func runConfigValidate(cmd *cobra.Command, opts *rootOptions, verbose bool) error {
	if opts.cfgErr != nil {
		return fmt.Errorf("configuration validation failed: %w", opts.cfgErr)
	}

	cmd.Printf("✅ Configuration is valid\n")

	if verbose {
		printVerboseDetails(cmd, opts.cfgPath, opts.cfg)
	}
	return nil
}

// printVerboseDetails prints detailed configuration information.
func printVerboseDetails(cmd *cobra.Command, path string, cfg *config.Config) {
	cmd.Println()
	cmd.Println("Configuration details:")
	cmd.Printf("  Config file: %s\n", path)
	cmd.Printf("  Schema version: %s\n", cfg.Version)
	cmd.Printf("  Window: item %d, viewport %d, buffer %d, threshold %d\n",
		cfg.Window.ItemHeight, cfg.Window.ViewportHeight, cfg.Window.Buffer, cfg.Window.Threshold)
	cmd.Printf("  View: %d rows per item, highlight %t, theme %s\n",
		cfg.View.ItemRows, cfg.View.Highlight, cfg.View.Theme)
	cmd.Printf("  Reveal delay: %s\n", cfg.Details.RevealDelay)
	cmd.Printf("  Output format: %s\n", cfg.Output.DefaultFormat)
	cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
	cmd.Printf("  Log file: %s\n", cfg.Logging.File)
}
