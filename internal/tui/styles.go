package tui

import "github.com/charmbracelet/lipgloss"

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	noteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	keyStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1E6BFF")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Width(keyWidth).
			Align(lipgloss.Center)

	activeKeyStyle = keyStyle.
			Background(lipgloss.Color("#FF8C00")).
			Foreground(lipgloss.Color("#000000"))
)
