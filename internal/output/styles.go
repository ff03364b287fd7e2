package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette. Never use inline lipgloss.Color literals elsewhere.
var (
	ColorCyan       = lipgloss.Color("14")
	ColorGreen      = lipgloss.Color("82")
	ColorYellow     = lipgloss.Color("220")
	ColorRed        = lipgloss.Color("196")
	ColorGreenCheck = lipgloss.Color("10")
)

// Semantic styles.
var (
	// StyleNoun styles identifiable nouns (paths, project names).
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleDim styles structural chrome (prefixes, separators).
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleSummary styles completion and summary lines.
	StyleSummary = lipgloss.NewStyle().Bold(true)

	// StyleWarning styles non-fatal problems.
	StyleWarning = lipgloss.NewStyle().Foreground(ColorYellow)

	// StyleError styles the headline of a fatal error.
	StyleError = lipgloss.NewStyle().Bold(true).Foreground(ColorRed)
)

// File status labels used in the bootstrap summary.
const (
	StatusRewritten = "rewritten"
	StatusRenamed   = "renamed"
	StatusDiscarded = "discarded"
)

// StatusStyle returns the style for a file status label.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case StatusRewritten:
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case StatusRenamed:
		return lipgloss.NewStyle().Foreground(ColorYellow)
	case StatusDiscarded:
		return lipgloss.NewStyle().Faint(true)
	default:
		return lipgloss.NewStyle()
	}
}

const minPathColumnWidth = 40

// FormatFileLine renders a relative path with a right-aligned status suffix.
func FormatFileLine(path, status string) string {
	padding := minPathColumnWidth - len(path)
	if padding < 2 {
		padding = 2
	}
	return "  " + StyleNoun.Render(path) + strings.Repeat(" ", padding) + StatusStyle(status).Render(status)
}

// FormatCheckmark renders a green checkmark with a message.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(ColorGreenCheck).Render("✔")
	return check + " " + msg
}

// FormatWarning renders a warning bullet.
func FormatWarning(msg string) string {
	return StyleWarning.Render("!") + " " + msg
}

// FormatError renders an error headline followed by an optional hint.
func FormatError(err error, hint string) string {
	var b strings.Builder
	b.WriteString(StyleError.Render("Error:"))
	b.WriteString(" ")
	b.WriteString(err.Error())
	b.WriteString("\n")
	if hint != "" {
		fmt.Fprintf(&b, "\n%s %s\n", StyleDim.Render("Hint:"), hint)
	}
	return b.String()
}
