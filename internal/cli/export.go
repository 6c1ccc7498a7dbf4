package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/trajview/internal/export"
)

// exportFileMode is the permission for written HTML pages.
const exportFileMode = 0o644

// newExportCmd creates the export command, which writes trajectories as an HTML page.
func newExportCmd(_ *rootOptions) *cobra.Command {
	var (
		output     string
		title      string
		categories []string
	)

	cmd := &cobra.Command{
		Use:   "export FILE...",
		Short: "Export trajectories to a standalone HTML page",
		Long: `Writes every tool result of the given trajectories into one HTML page. Each
result is a box colored by category with a checkbox that reveals its arguments
and output.`,
		Example: `  # Export to a file
  trajview export runs/*.json -o trajectories.html --title "Nightly runs"

  # Write to stdout
  trajview export runs/claude-task-7.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args, output, title, categories)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file, - for stdout")
	cmd.Flags().StringVar(&title, "title", export.DefaultTitle, "page title")
	cmd.Flags().StringSliceVar(&categories, "category", nil,
		"only export results in these categories (normal, error, overlong, not_found)")

	return cmd
}

func runExport(cmd *cobra.Command, paths []string, output, title string, categories []string) error {
	pages, err := loadPages(cmd.Context(), paths, categories)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if output != "" && output != "-" {
		f, createErr := os.OpenFile(output, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, exportFileMode)
		if createErr != nil {
			return fmt.Errorf("creating %s: %w", output, createErr)
		}
		defer f.Close()
		w = f
	}

	if err = export.Write(w, title, pages...); err != nil {
		return err
	}

	logger.Debug().Str("output", output).Int("trajectories", len(pages)).Msg("export written")
	if output != "" && output != "-" {
		cmd.PrintErrf("Wrote %s\n", output)
	}
	return nil
}
