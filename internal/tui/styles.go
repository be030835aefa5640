package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	primaryColor = lipgloss.Color("39")  // Cyan
	successColor = lipgloss.Color("82")  // Green
	warningColor = lipgloss.Color("214") // Orange/Yellow
	errorColor   = lipgloss.Color("196") // Red
	dimColor     = lipgloss.Color("240") // Gray
	userColor    = lipgloss.Color("255") // White
)

// Styles
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)

	headerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(primaryColor)

	headerModelStyle = lipgloss.NewStyle().
				Foreground(dimColor)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)

	statusKeyStyle = lipgloss.NewStyle().
			Foreground(dimColor)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(primaryColor)

	userStyle = lipgloss.NewStyle().
			Foreground(userColor).
			Bold(true)

	userPrefixStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(dimColor).
			Italic(true)
)

// Icons
const (
	iconUser    = ">"
	iconError   = "✗"
	iconWarning = "⚠"
	iconInfo    = "ℹ"
)

// truncate shortens s to maxLen runes, adding "..." if truncated
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
