package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/trajview/internal/config"
)

// newConfigInitCmd creates the config init command for initializing configuration.
func newConfigInitCmd(opts *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates a new configuration file with default values at the resolved config
path (--config, then $TRAJVIEW_CONFIG, then ~/.trajview/config.yaml).`,
		Example: `  # Create the default configuration
  trajview config init

  # Create configuration, overwriting existing
  trajview config init --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(cmd, opts.cfgPath, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")

	return cmd
}

// initConfig writes the default configuration to path.
func initConfig(cmd *cobra.Command, path string, force bool) error {
	if path == "" {
		return errors.New("cannot determine config path: set --config or TRAJVIEW_CONFIG")
	}

	if !force {
		_, err := os.Stat(path)
		if err == nil {
			return errors.New("configuration file already exists, use --force to overwrite")
		}
		if !os.IsNotExist(err) {
			return fmt.Errorf("cannot access config path %s: %w", path, err)
		}
	}

	if err := config.New().WriteFile(path); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	cmd.Printf("Configuration initialized at %s\n", path)
	return nil
}
