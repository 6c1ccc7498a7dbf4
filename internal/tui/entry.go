package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/rshade/trajview/internal/details"
	"github.com/rshade/trajview/internal/trajectory"
)

// Entry is one tool result on screen. It implements window.Element.
type Entry struct {
	// Index is the position in the page.
	Index int

	// Result is the tool call and output shown by this entry.
	Result trajectory.ToolResult

	// Visible is false while the entry is outside the rendered window.
	Visible bool

	// Top is the entry's first row within the windowed content area.
	Top int

	// Positioned is set once a windowed renderer has placed the entry.
	Positioned bool
}

// NewEntries wraps results in visible, unpositioned entries.
func NewEntries(results []trajectory.ToolResult) []*Entry {
	entries := make([]*Entry, len(results))
	for i, r := range results {
		entries[i] = &Entry{Index: i, Result: r, Visible: true}
	}
	return entries
}

// SetVisible implements window.Element.
func (e *Entry) SetVisible(visible bool) {
	e.Visible = visible
}

// SetTop implements window.Element.
func (e *Entry) SetTop(top int) {
	e.Top = top
	e.Positioned = true
}

// toggleMarker shows the panel state next to the title.
func toggleMarker(state details.State) string {
	switch state {
	case details.Expanded:
		return "[-]"
	case details.Loading:
		return "[…]"
	case details.Collapsed:
		return "[+]"
	default:
		return "[?]"
	}
}

// headerLines renders the entry's title and id lines, truncated to width.
func (e *Entry) headerLines(width int, selected bool, state details.State) []string {
	r := e.Result
	color := categoryColor(r.Category)
	bar := lipgloss.NewStyle().Foreground(color).Render("│ ")
	if selected {
		bar = lipgloss.NewStyle().Foreground(colorAccent).Render("▌ ")
	}

	inner := max(width-2, 1)
	title := fmt.Sprintf("%s %s  turn %d %s", CategoryIcon(r.Category), r.Title(), r.Turn, toggleMarker(state))
	title = runewidth.Truncate(title, inner, "…")
	if selected {
		title = selectedStyle.Render(title)
	} else {
		title = titleStyle.Render(title)
	}

	meta := runewidth.Truncate(r.ID+"  "+string(r.Category), inner, "…")
	return []string{bar + title, bar + mutedStyle.Render(meta)}
}

// previewLines returns the first lines of output for the collapsed view.
func (e *Entry) previewLines(width, n int) []string {
	if n <= 0 {
		return nil
	}
	inner := max(width-2, 1)
	bar := lipgloss.NewStyle().Foreground(categoryColor(e.Result.Category)).Render("│ ")

	var out []string
	for _, line := range strings.Split(e.Result.Output, "\n") {
		if len(out) == n {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, bar+mutedStyle.Render(runewidth.Truncate(line, inner, "…")))
	}
	return out
}

// agentLines renders an agent message under a turn header, wrapped to width.
func agentLines(m trajectory.AgentMessage, width int) []string {
	inner := max(width-2, 1)
	bar := agentStyle.Render("┆ ")
	head := agentStyle.Bold(true).Render(runewidth.Truncate(fmt.Sprintf("🧐 Agent  turn %d", m.Turn), inner, "…"))

	lines := []string{bar + head}
	body := lipgloss.NewStyle().Width(inner).Render(m.Text)
	for _, l := range strings.Split(body, "\n") {
		lines = append(lines, bar+l)
	}
	return lines
}

// agentBlock joins the rendered messages, or returns "" when there are none.
func agentBlock(msgs []trajectory.AgentMessage, width int) string {
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		parts = append(parts, strings.Join(agentLines(m, width), "\n"))
	}
	return strings.Join(parts, "\n\n")
}

// FixedLines renders the entry in exactly rows lines for windowed mode.
func (e *Entry) FixedLines(width, rows int, selected bool, state details.State) []string {
	lines := e.headerLines(width, selected, state)
	if rows > len(lines) {
		// Leave the last row blank as a separator.
		lines = append(lines, e.previewLines(width, rows-len(lines)-1)...)
	}
	for len(lines) < rows {
		lines = append(lines, "")
	}
	return lines[:rows]
}

// DetailText returns the arguments and output, highlighted when possible.
func (e *Entry) DetailText(h *Highlighter) string {
	r := e.Result
	argsLang := "json"
	if r.Server == "python-execute" {
		argsLang = "python"
	}
	outLang := "json"
	if r.Category != trajectory.CategoryNormal {
		outLang = "text"
	}

	var sb strings.Builder
	_, _ = sb.WriteString(sectionStyle.Render("arguments") + "\n")
	_, _ = sb.WriteString(h.Highlight(argsLang, r.Arguments) + "\n\n")
	label := "output"
	if r.Category != trajectory.CategoryNormal {
		label = "error message"
	}
	_, _ = sb.WriteString(sectionStyle.Render(label) + "\n")
	_, _ = sb.WriteString(h.Highlight(outLang, r.Output))
	return sb.String()
}
