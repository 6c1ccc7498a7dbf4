package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rshade/trajview/internal/render"
	"github.com/rshade/trajview/internal/window"
)

// probe is a stand-in element that records what the renderer did to it.
type probe struct {
	visible    bool
	top        int
	positioned bool
}

func (p *probe) SetVisible(visible bool) { p.visible = visible }

func (p *probe) SetTop(top int) {
	p.top = top
	p.positioned = true
}

// windowReport is the result of the window command.
type windowReport struct {
	Items          int  `json:"items"`
	ItemHeight     int  `json:"item_height"`
	ViewportHeight int  `json:"viewport_height"`
	Buffer         int  `json:"buffer"`
	Threshold      int  `json:"threshold"`
	Active         bool `json:"active"`
	Offset         int  `json:"offset"`
	VisibleCount   int  `json:"visible_count"`
	Start          int  `json:"start"`
	End            int  `json:"end"`
	Rendered       int  `json:"rendered"`
	Positioned     int  `json:"positioned"`
	LastTop        int  `json:"last_top"`
	ContentHeight  int  `json:"content_height"`
	MaxOffset      int  `json:"max_offset"`
}

// windowFlags holds the flags of the window command.
type windowFlags struct {
	count          int
	offset         int
	itemHeight     int
	viewportHeight int
	buffer         int
	threshold      int
	output         string
}

// newWindowCmd creates the window command, which runs the windowed renderer
// over a synthetic item sequence and reports the visible range.
func newWindowCmd(opts *rootOptions) *cobra.Command {
	var flags windowFlags

	cmd := &cobra.Command{
		Use:   "window",
		Short: "Show which items the windowed renderer draws at a scroll offset",
		Long: `Builds a windowed renderer over --count items of equal height, scrolls it to
--offset and reports the visible range. Parameters default to the window
section of the configuration.`,
		Example: `  # 25 items at the default 80px height in a 600px viewport, scrolled to 400
  trajview window --count 25 --offset 400

  # Below the threshold nothing is windowed
  trajview window --count 10

  # Custom geometry as JSON
  trajview window --count 500 --offset 12000 --item-height 40 --buffer 4 --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWindow(cmd, opts, flags)
		},
	}

	cmd.Flags().IntVar(&flags.count, "count", 0, "number of items")
	cmd.Flags().IntVar(&flags.offset, "offset", 0, "scroll offset")
	cmd.Flags().IntVar(&flags.itemHeight, "item-height", 0, "item height (default window.item_height)")
	cmd.Flags().IntVar(&flags.viewportHeight, "viewport-height", 0, "viewport height (default window.viewport_height)")
	cmd.Flags().IntVar(&flags.buffer, "buffer", 0, "extra items beyond the viewport (default window.buffer)")
	cmd.Flags().IntVar(&flags.threshold, "threshold", 0, "minimum count that enables windowing (default window.threshold)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "table", "output format: table or json")
	_ = cmd.MarkFlagRequired("count")

	return cmd
}

func runWindow(cmd *cobra.Command, opts *rootOptions, flags windowFlags) error {
	if flags.count < 0 {
		return fmt.Errorf("count must be >= 0, got %d", flags.count)
	}

	cfg := opts.cfg.Window.ToWindowConfig()
	fl := cmd.Flags()
	if fl.Changed("item-height") {
		cfg.ItemHeight = flags.itemHeight
	}
	if fl.Changed("viewport-height") {
		cfg.ViewportHeight = flags.viewportHeight
	}
	if fl.Changed("buffer") {
		cfg.Buffer = flags.buffer
	}
	if fl.Changed("threshold") {
		cfg.Threshold = flags.threshold
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid window parameters: %w", err)
	}

	report := buildWindowReport(cfg, flags.count, flags.offset)
	logger.Debug().
		Int("items", report.Items).
		Bool("active", report.Active).
		Int("start", report.Start).
		Int("end", report.End).
		Msg("window computed")

	switch flags.output {
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encoding window report: %w", err)
		}
		return nil
	case "table", "":
		return writeWindowReport(cmd.OutOrStdout(), report)
	default:
		return fmt.Errorf("%w: %q", render.ErrUnsupportedFormat, flags.output)
	}
}

// buildWindowReport activates a renderer over count probes and scrolls it.
func buildWindowReport(cfg window.Config, count, offset int) windowReport {
	probes := make([]*probe, count)
	items := make([]window.Element, count)
	for i := range probes {
		probes[i] = &probe{visible: true}
		items[i] = probes[i]
	}

	report := windowReport{
		Items:          count,
		ItemHeight:     cfg.ItemHeight,
		ViewportHeight: cfg.ViewportHeight,
		Buffer:         cfg.Buffer,
		Threshold:      cfg.Threshold,
		Offset:         max(offset, 0),
		VisibleCount:   count,
		End:            count,
	}

	h := window.Activate(items, cfg)
	if r := h.Instance(); r != nil {
		r.OnScroll(offset)
		rng := r.Range()
		report.Active = true
		report.Offset = r.Offset()
		report.VisibleCount = r.VisibleCount()
		report.Start = rng.Start
		report.End = rng.End
		report.ContentHeight = r.ContentHeight()
		report.MaxOffset = r.MaxOffset()
	}

	for _, p := range probes {
		if p.visible {
			report.Rendered++
		}
		if p.positioned {
			report.Positioned++
			report.LastTop = p.top
		}
	}
	return report
}

func writeWindowReport(w io.Writer, r windowReport) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	state := "inactive"
	if r.Active {
		state = "active"
	}
	rows := []struct{ k, v string }{
		{"items", render.FormatCount(r.Items)},
		{"threshold", render.FormatCount(r.Threshold)},
		{"windowing", state},
		{"geometry", fmt.Sprintf("item %d, viewport %d, buffer %d", r.ItemHeight, r.ViewportHeight, r.Buffer)},
		{"offset", render.FormatCount(r.Offset)},
		{"visible count", render.FormatCount(r.VisibleCount)},
		{"range", fmt.Sprintf("[%d, %d)", r.Start, r.End)},
		{"rendered", render.FormatCount(r.Rendered)},
		{"positioned", render.FormatCount(r.Positioned)},
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(tw, "%s:\t%s\n", row.k, row.v); err != nil {
			return fmt.Errorf("writing window report: %w", err)
		}
	}
	return tw.Flush()
}
