// Package render writes tool results in non-interactive formats.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/trajview/internal/trajectory"
)

// Format is an output format name.
type Format string

// Supported formats.
const (
	FormatTable  Format = "table"
	FormatJSON   Format = "json"
	FormatNDJSON Format = "ndjson"
)

// Table layout.
const (
	tabwriterMinWidth = 0
	tabwriterTabWidth = 4
	tabwriterPadding  = 2
	colWidthTool      = 48
)

// ErrUnsupportedFormat is returned for unknown formats.
var ErrUnsupportedFormat = errors.New("unsupported output format")

//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTable, FormatJSON, FormatNDJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// CategoryLabel turns a category into a title-cased label, e.g. "Error In Tool Call".
func CategoryLabel(c trajectory.Category) string {
	// Casers are stateful, so each call gets its own.
	return cases.Title(language.English).String(strings.ReplaceAll(string(c), "_", " "))
}

// FormatCount formats n with thousands separators.
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// ndjsonRecord is one line of NDJSON output.
type ndjsonRecord struct {
	Trajectory string `json:"trajectory"`
	trajectory.ToolResult
}

// RenderResults writes pages to w in the given format.
func RenderResults(w io.Writer, format Format, pages []*trajectory.Page) error {
	switch format {
	case FormatJSON:
		return renderJSON(w, pages)
	case FormatNDJSON:
		return renderNDJSON(w, pages)
	case FormatTable:
		return renderTable(w, pages)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func renderJSON(w io.Writer, pages []*trajectory.Page) error {
	if pages == nil {
		pages = []*trajectory.Page{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(pages); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

func renderNDJSON(w io.Writer, pages []*trajectory.Page) error {
	enc := json.NewEncoder(w)
	for _, page := range pages {
		for _, r := range page.Results {
			if err := enc.Encode(ndjsonRecord{Trajectory: page.Summary.Name, ToolResult: r}); err != nil {
				return fmt.Errorf("encoding NDJSON: %w", err)
			}
		}
	}
	return nil
}

func renderTable(w io.Writer, pages []*trajectory.Page) error {
	if len(pages) == 0 {
		_, err := fmt.Fprintln(w, "No trajectories to display")
		return err
	}

	for i, page := range pages {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, SummaryLine(page)); err != nil {
			return err
		}

		tw := tabwriter.NewWriter(w, tabwriterMinWidth, tabwriterTabWidth, tabwriterPadding, ' ', 0)
		_, _ = fmt.Fprintln(tw, "ID\tTURN\tCATEGORY\tTOOL")
		for _, r := range page.Results {
			_, _ = fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n",
				r.ID, r.Turn, CategoryLabel(r.Category), runewidth.Truncate(r.Title(), colWidthTool, "..."))
		}
		if err := tw.Flush(); err != nil {
			return fmt.Errorf("flushing table: %w", err)
		}
		if line := CategoryBreakdown(page); line != "" {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

// SummaryLine mirrors the page header cards: completion, tool calls and turns.
func SummaryLine(page *trajectory.Page) string {
	status := "Failed"
	if page.Summary.Pass {
		status = "Completed"
	}
	name := page.Summary.Name
	if name == "" {
		name = "trajectory"
	}
	return fmt.Sprintf("%s: %s, %s tool calls, %s turns",
		name, status, FormatCount(page.Summary.ToolCalls), FormatCount(page.Summary.Turns))
}

// CategoryBreakdown lists non-zero category counts in a stable order.
func CategoryBreakdown(page *trajectory.Page) string {
	counts := page.CountByCategory()
	if len(counts) == 0 {
		return ""
	}
	cats := make([]string, 0, len(counts))
	for c := range counts {
		cats = append(cats, string(c))
	}
	sort.Strings(cats)

	parts := make([]string, 0, len(cats))
	for _, c := range cats {
		cat := trajectory.Category(c)
		parts = append(parts, fmt.Sprintf("%s: %s", CategoryLabel(cat), FormatCount(counts[cat])))
	}
	return strings.Join(parts, "  ")
}
