package cli

import (
	"github.com/spf13/cobra"
)

// newConfigShowCmd creates the config show command, which prints the effective
// configuration as YAML.
func newConfigShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long:  "Prints the configuration after defaults, the config file and environment overrides are applied.",
		Example: `  # Show the configuration
  trajview config show

  # Show it with an environment override
  TRAJVIEW_OUTPUT_FORMAT=json trajview config show`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.cfgErr != nil {
				return opts.cfgErr
			}
			data, err := opts.cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
