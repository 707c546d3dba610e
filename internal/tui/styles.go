package tui

import "github.com/charmbracelet/lipgloss"

const (
	colorAccent = lipgloss.Color("#04B575")
	colorMuted  = lipgloss.Color("#626262")
	colorRed    = lipgloss.Color("#FF6B6B")
	colorGold   = lipgloss.Color("#FFD700")
)

// Static styles for content elements
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Bold(true).
			Padding(0, 1)

	GameLogStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	HandInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	ActionsStyle = lipgloss.NewStyle().
			Foreground(colorGold).
			Bold(true)

	RedCardStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	BlackCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true)

	CardBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FAFAFA")).
			Width(4).
			Align(lipgloss.Center)

	HiddenCardStyle = CardBoxStyle.
			BorderForeground(colorMuted).
			Foreground(colorMuted)

	ActiveHandStyle = lipgloss.NewStyle().
			Foreground(colorGold).
			Bold(true)

	PlayerInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)
