package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/trajview/internal/details"
	"github.com/rshade/trajview/internal/render"
	"github.com/rshade/trajview/internal/trajectory"
)

const (
	// styledPreviewRows is the output preview under each entry in static output.
	styledPreviewRows = 3

	borderPadding = 2
)

// RenderSummary renders a boxed page summary with the per-category breakdown.
// The width parameter controls the total box width.
func RenderSummary(page *trajectory.Page, width int) string {
	lines := []string{titleStyle.Render(render.SummaryLine(page))}
	if breakdown := render.CategoryBreakdown(page); breakdown != "" {
		lines = append(lines, mutedStyle.Render(breakdown))
	}
	box := paneStyle.Width(max(width-borderPadding, 1))
	return box.Render(strings.Join(lines, "\n"))
}

// RenderStyled writes a static, styled listing of page for terminals that
// cannot host the interactive viewer. Every entry is drawn collapsed, with the
// agent messages in log order between them.
func RenderStyled(w io.Writer, page *trajectory.Page, width int) error {
	if width <= 0 {
		width = defaultWidth
	}

	parts := []string{RenderSummary(page, width)}
	for i, e := range NewEntries(page.Results) {
		if block := agentBlock(page.MessagesAt(i), width); block != "" {
			parts = append(parts, block)
		}
		lines := e.headerLines(width, false, details.Collapsed)
		lines = append(lines, e.previewLines(width, styledPreviewRows)...)
		parts = append(parts, strings.Join(lines, "\n"))
	}
	if block := agentBlock(page.TrailingMessages(), width); block != "" {
		parts = append(parts, block)
	}
	if len(page.Results) == 0 && len(page.Messages) == 0 {
		parts = append(parts, mutedStyle.Render("No tool results in this trajectory."))
	}

	if _, err := fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, parts...)); err != nil {
		return fmt.Errorf("writing styled output: %w", err)
	}
	return nil
}
