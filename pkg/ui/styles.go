package ui

import "github.com/charmbracelet/lipgloss"

// Palette. Adaptive colors keep the report legible on light terminals.
var (
	ColorPrimary   = lipgloss.AdaptiveColor{Light: "#0F766E", Dark: "#2DD4BF"}
	ColorSecondary = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#4ADE80"}
	ColorDanger    = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
	ColorWarning   = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}
	ColorMuted     = lipgloss.AdaptiveColor{Light: "#64748B", Dark: "#94A3B8"}
	ColorBorder    = lipgloss.AdaptiveColor{Light: "#CBD5E1", Dark: "#334155"}
)

func fg(c lipgloss.TerminalColor) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

var (
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	HeaderStyle = fg(ColorPrimary).Bold(true).Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#F8FAFC", Dark: "#042F2E"}).
			Background(ColorPrimary).
			Padding(0, 2)

	StatusRunning = fg(ColorWarning).Bold(true)
	StatusDone    = fg(ColorSecondary).Bold(true)
	StatusFailed  = fg(ColorDanger).Bold(true)

	PositiveValue = fg(ColorSecondary)
	NegativeValue = fg(ColorDanger)
	MutedValue    = fg(ColorMuted)

	// LabelStyle is the fixed-width left column of metric blocks.
	LabelStyle = fg(ColorMuted).Width(18)

	HelpStyle = fg(ColorMuted).Padding(0, 1)
)

// Signed renders text green when v is non-negative and red otherwise.
func Signed(v float64, text string) string {
	if v < 0 {
		return NegativeValue.Render(text)
	}
	return PositiveValue.Render(text)
}
