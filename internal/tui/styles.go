package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/trajview/internal/trajectory"
)

// Category colors.
const (
	colorNormal   = lipgloss.Color("42")
	colorError    = lipgloss.Color("196")
	colorOverlong = lipgloss.Color("214")
	colorNotFound = lipgloss.Color("141")
	colorMuted    = lipgloss.Color("244")
	colorSelected = lipgloss.Color("57")
	colorAccent   = lipgloss.Color("229")
	colorAgent    = lipgloss.Color("99")
)

//nolint:gochecknoglobals // Read-only style definitions.
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			BorderBottom(true)

	mutedStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	selectedStyle = lipgloss.NewStyle().Foreground(colorAccent).Background(colorSelected).Bold(true)
	titleStyle    = lipgloss.NewStyle().Bold(true)
	paneStyle     = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	sectionStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	agentStyle   = lipgloss.NewStyle().Foreground(colorAgent)
)

// categoryColor returns the accent color for a category, matching the
// result, error and overlong boxes of the exported page.
func categoryColor(c trajectory.Category) lipgloss.Color {
	switch c {
	case trajectory.CategoryError:
		return colorError
	case trajectory.CategoryOverlong:
		return colorOverlong
	case trajectory.CategoryNameNotFound:
		return colorNotFound
	case trajectory.CategoryNormal:
		return colorNormal
	default:
		return colorMuted
	}
}

// CategoryIcon returns the marker shown before a tool title.
func CategoryIcon(c trajectory.Category) string {
	switch c {
	case trajectory.CategoryError:
		return "❌"
	case trajectory.CategoryOverlong:
		return "⚠️"
	case trajectory.CategoryNameNotFound:
		return "❓"
	case trajectory.CategoryNormal:
		return "🛠"
	default:
		return "•"
	}
}
