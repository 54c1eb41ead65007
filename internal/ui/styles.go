package ui

import "github.com/charmbracelet/lipgloss"

// Adaptive colors that hold up on both light and dark terminals.
var (
	colorPrimary   = lipgloss.AdaptiveColor{Light: "125", Dark: "205"}
	colorSecondary = lipgloss.AdaptiveColor{Light: "24", Dark: "33"}
	colorAccent    = lipgloss.AdaptiveColor{Light: "130", Dark: "214"}
	colorSuccess   = lipgloss.AdaptiveColor{Light: "22", Dark: "10"}
	colorError     = lipgloss.AdaptiveColor{Light: "160", Dark: "9"}
	colorMuted     = lipgloss.AdaptiveColor{Light: "245", Dark: "244"}
	colorBorder    = lipgloss.AdaptiveColor{Light: "250", Dark: "238"}
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Bold(true)

	optionStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	favoriteMarkerStyle = lipgloss.NewStyle().
				Foreground(colorAccent)
)
