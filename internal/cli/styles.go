package cli

import "github.com/charmbracelet/lipgloss"

var (
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F59E0B"))
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	MutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	InsightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0F766E")).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#14B8A6")).
			PaddingLeft(1)
	LockedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")).Faint(true)
)
