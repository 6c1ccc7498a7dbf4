package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/trajview/internal/config"
	"github.com/rshade/trajview/internal/logging"
	"github.com/rshade/trajview/internal/tui"
)

// Command annotations read by the root pre-run hook.
const (
	// annotationInteractive marks commands that may take over the terminal.
	annotationInteractive = "trajview/interactive"

	// annotationConfigErrors marks commands that report config errors themselves.
	annotationConfigErrors = "trajview/config-errors"
)

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// rootOptions carries persistent flags and the loaded configuration to subcommands.
type rootOptions struct {
	configPath string
	debug      bool
	plain      bool
	noColor    bool

	lookupEnv func(string) (string, bool)

	// detectMode picks the output mode; tests replace it.
	detectMode func(plain, noColor bool) tui.OutputMode

	cfg       *config.Config
	cfgPath   string
	cfgErr    error
	logResult *logging.LogPathResult
}

// outputMode returns how results reach the user for this invocation.
func (o *rootOptions) outputMode() tui.OutputMode {
	if o.detectMode == nil {
		return tui.DetectOutputMode(o.plain, o.noColor, false)
	}
	return o.detectMode(o.plain, o.noColor)
}

// NewRootCmd creates the root Cobra command for the trajview CLI.
func NewRootCmd(ver string) *cobra.Command {
	return NewRootCmdWithEnv(ver, os.LookupEnv)
}

// NewRootCmdWithEnv creates the root command with an explicit env lookup for testability.
func NewRootCmdWithEnv(ver string, lookupEnv func(string) (string, bool)) *cobra.Command {
	return newRootCmd(ver, &rootOptions{lookupEnv: lookupEnv})
}

func newRootCmd(ver string, opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "trajview",
		Short:         "Browse the tool results of agent trajectories",
		Long:          "trajview: Inspect the tool calls and results recorded in agent trajectory logs",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(cmd, opts); err != nil {
				return err
			}
			result := setupLogging(cmd, opts)
			opts.logResult = &result
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return cleanupLogging(opts.logResult)
		},
	}

	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "",
		"config file (default $TRAJVIEW_CONFIG or ~/.trajview/config.yaml)")
	cmd.PersistentFlags().BoolVar(&opts.plain, "plain", false, "plain text output, no interactive view")
	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	cmd.AddCommand(
		newViewCmd(opts), newListCmd(opts), newWindowCmd(opts),
		newExportCmd(opts), newConfigCmd(opts),
	)
	return cmd
}

// hasAnnotation reports whether cmd or one of its parents carries key.
func hasAnnotation(cmd *cobra.Command, key string) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if _, ok := c.Annotations[key]; ok {
			return true
		}
	}
	return false
}

// loadConfig resolves and loads the configuration. Commands annotated with
// annotationConfigErrors get defaults plus the recorded error instead of failing.
func loadConfig(cmd *cobra.Command, opts *rootOptions) error {
	opts.cfgPath = config.ResolvePath(opts.configPath, opts.lookupEnv)
	cfg, err := config.Load(opts.cfgPath, opts.lookupEnv)
	if err != nil {
		if !hasAnnotation(cmd, annotationConfigErrors) {
			return err
		}
		opts.cfgErr = err
		cfg = config.New()
	}
	opts.cfg = cfg
	return nil
}

const rootCmdExample = `  # Browse the tool results of a trajectory
  trajview view runs/claude-task-7.json

  # List error results across several trajectories as JSON
  trajview list runs/*.json --category error --output json

  # Show which items a windowed view renders at a scroll offset
  trajview window --count 25 --offset 400

  # Export trajectories to a single HTML page
  trajview export runs/*.json -o trajectories.html

  # Show the effective configuration
  trajview config show`

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "config",
		Short:       "Configuration management commands",
		Annotations: map[string]string{annotationConfigErrors: "true"},
	}
	cmd.AddCommand(newConfigInitCmd(opts), newConfigShowCmd(opts), newConfigValidateCmd(opts))
	return cmd
}
