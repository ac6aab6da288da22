package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	ColorPrimary   = lipgloss.Color("#1D9BF0") // Blue
	ColorSecondary = lipgloss.Color("#6B7280") // Gray
	ColorSuccess   = lipgloss.Color("#10B981") // Green
	ColorDanger    = lipgloss.Color("#EF4444") // Red
	ColorMuted     = lipgloss.Color("#9CA3AF") // Light gray
)

// Text styles
var (
	Bold    = lipgloss.NewStyle().Bold(true)
	Muted   = lipgloss.NewStyle().Foreground(ColorMuted)
	Primary = lipgloss.NewStyle().Foreground(ColorPrimary)
	Success = lipgloss.NewStyle().Foreground(ColorSuccess)
	Danger  = lipgloss.NewStyle().Foreground(ColorDanger)
)

// Header style for section headers
var Header = lipgloss.NewStyle().
	Foreground(ColorPrimary).
	Bold(true)

// URL style - underlined link
var URL = lipgloss.NewStyle().
	Foreground(ColorPrimary).
	Underline(true)

// Label renders a fixed-width muted label followed by a value.
func Label(label, value string) string {
	return Muted.Width(12).Render(label) + value
}

// RenderError formats an error line for terminal output.
func RenderError(msg string) string {
	return Danger.Bold(true).Render("error:") + " " + msg
}
