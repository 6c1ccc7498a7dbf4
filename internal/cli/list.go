package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/trajview/internal/cli/pagination"
	"github.com/rshade/trajview/internal/render"
)

// listFlags holds the flags of the list command.
type listFlags struct {
	output     string
	categories []string
	sort       string
	params     pagination.PaginationParams
}

// newListCmd creates the list command for non-interactive output.
func newListCmd(opts *rootOptions) *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "list FILE...",
		Short: "Print the tool results of one or more trajectories",
		Long: `Prints the tool results of each trajectory as a table, JSON or NDJSON.

Results can be filtered by category, sorted by turn, tool, category or id,
and paged with --limit/--offset or --page/--page-size. Paging and sorting
apply to each trajectory separately.`,
		Example: `  # Table of every tool result
  trajview list runs/claude-task-7.json

  # Errors from many runs as NDJSON
  trajview list runs/*.json --category error --output ndjson

  # Second page of ten, latest turns first
  trajview list runs/claude-task-7.json --page 2 --page-size 10 --sort turn:desc`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, opts, args, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "",
		"output format: table, json or ndjson (default from output.default_format)")
	cmd.Flags().StringSliceVar(&flags.categories, "category", nil,
		"only list results in these categories (normal, error, overlong, not_found)")
	cmd.Flags().StringVar(&flags.sort, "sort", "", "sort by field[:asc|desc]; fields: turn, tool, category, id")
	cmd.Flags().IntVar(&flags.params.Limit, "limit", 0, "maximum results per trajectory (0 = all)")
	cmd.Flags().IntVar(&flags.params.Offset, "offset", 0, "results to skip per trajectory")
	cmd.Flags().IntVar(&flags.params.Page, "page", 0, "1-based page number")
	cmd.Flags().IntVar(&flags.params.PageSize, "page-size", 0, "results per page (requires --page)")

	return cmd
}

func runList(cmd *cobra.Command, opts *rootOptions, paths []string, flags listFlags) error {
	output := flags.output
	if output == "" {
		output = opts.cfg.Output.DefaultFormat
	}
	format, err := render.ParseFormat(output)
	if err != nil {
		return err
	}

	params := flags.params
	if err = params.Validate(); err != nil {
		return fmt.Errorf("invalid pagination: %w", err)
	}
	field, order, err := pagination.ParseSort(flags.sort)
	if err != nil {
		return err
	}
	sorter := pagination.NewResultSorter()
	if field != "" && !sorter.IsValidField(field) {
		return fmt.Errorf("%w: %q (valid: %v)", pagination.ErrInvalidSortField, field, sorter.GetValidFields())
	}

	pages, err := loadPages(cmd.Context(), paths, flags.categories)
	if err != nil {
		return err
	}

	total := 0
	for _, page := range pages {
		total = max(total, len(page.Results))
		page.Results = pagination.Apply(params, sorter.Sort(page.Results, field, order))
		if field != "" || params.IsPageBased() || params.Offset > 0 || params.Limit > 0 {
			// Reordered or partial results no longer line up with agent messages.
			page.Messages = nil
		}
	}

	if err = render.RenderResults(cmd.OutOrStdout(), format, pages); err != nil {
		return err
	}

	if params.IsPageBased() && format == render.FormatTable {
		meta := pagination.NewPaginationMeta(params, total)
		cmd.PrintErrf("page %d of %d (%d results per trajectory at most)\n",
			meta.CurrentPage, meta.TotalPages, meta.PageSize)
	}
	return nil
}
