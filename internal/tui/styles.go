package tui

import "github.com/charmbracelet/lipgloss"

var (
	brandGreen = lipgloss.AdaptiveColor{Light: "28", Dark: "42"}
	mutedGray  = lipgloss.AdaptiveColor{Light: "245", Dark: "240"}
	alertRed   = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}

	tabBorder = lipgloss.Border{Bottom: "─"}

	activeTabStyle = lipgloss.NewStyle().
			Foreground(brandGreen).
			Bold(true).
			Border(tabBorder, false, false, true, false).
			BorderForeground(brandGreen).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(mutedGray).
				Border(tabBorder, false, false, true, false).
				BorderForeground(mutedGray).
				Padding(0, 2)

	dangerStyle = lipgloss.NewStyle().Foreground(alertRed).Bold(true)

	statusStyle      = lipgloss.NewStyle().Foreground(brandGreen).PaddingLeft(2)
	errorStatusStyle = lipgloss.NewStyle().Foreground(alertRed).PaddingLeft(2)

	docStyle = lipgloss.NewStyle().Padding(1, 2, 0, 2)
)
