package cli

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/trajview/internal/config"
	"github.com/rshade/trajview/internal/logging"
	"github.com/rshade/trajview/internal/render"
	"github.com/rshade/trajview/internal/trajectory"
	"github.com/rshade/trajview/internal/tui"
)

// defaultStyledWidth is used when the terminal width cannot be read.
const defaultStyledWidth = 100

// newViewCmd creates the view command, which opens one trajectory in the
// interactive viewer and falls back to static output off a terminal.
func newViewCmd(opts *rootOptions) *cobra.Command {
	var categories []string

	cmd := &cobra.Command{
		Use:   "view FILE",
		Short: "Browse the tool results of one trajectory",
		Long: `Opens a trajectory in a full-screen viewer. Tool results are listed with their
category; space or enter reveals the arguments and output of the selected result.

Trajectories with more results than window.threshold are drawn through a
windowed renderer that only draws the results near the viewport.

Without a terminal the results are printed instead: styled when stdout is a
terminal, a plain table otherwise or with --plain.`,
		Example: `  # Browse a trajectory
  trajview view runs/claude-task-7.json

  # Only the failed tool calls
  trajview view runs/claude-task-7.json --category error --category not_found`,
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{annotationInteractive: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd, opts, args[0], categories)
		},
	}

	cmd.Flags().StringSliceVar(&categories, "category", nil,
		"only show results in these categories (normal, error, overlong, not_found)")

	return cmd
}

func runView(cmd *cobra.Command, opts *rootOptions, path string, categories []string) error {
	ctx := cmd.Context()
	pages, err := loadPages(ctx, []string{path}, categories)
	if err != nil {
		return err
	}
	page := pages[0]

	mode := opts.outputMode()
	logging.FromContext(ctx).Debug().
		Str("mode", mode.String()).
		Int("results", len(page.Results)).
		Msg("rendering trajectory")

	switch mode {
	case tui.OutputModeInteractive:
		return tui.Run(ctx, page, viewOptions(opts.cfg))
	case tui.OutputModeStyled:
		return tui.RenderStyled(cmd.OutOrStdout(), page, terminalWidth())
	case tui.OutputModePlain:
		return render.RenderResults(cmd.OutOrStdout(), render.FormatTable, []*trajectory.Page{page})
	default:
		return render.RenderResults(cmd.OutOrStdout(), render.FormatTable, []*trajectory.Page{page})
	}
}

// viewOptions maps the configuration onto the viewer options.
func viewOptions(cfg *config.Config) tui.Options {
	opts := tui.DefaultOptions()
	opts.Window.Buffer = cfg.Window.Buffer
	opts.Window.Threshold = cfg.Window.Threshold
	opts.ItemRows = cfg.View.ItemRows
	opts.Highlight = cfg.View.Highlight
	opts.Theme = cfg.View.Theme
	if delay, err := cfg.Details.Delay(); err == nil {
		opts.RevealDelay = delay
	}
	opts.Logger = logging.ComponentLogger(logger, "tui")
	return opts
}

// terminalWidth returns the stdout width, or defaultStyledWidth.
func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultStyledWidth
	}
	return width
}
