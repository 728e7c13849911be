package ui

import "github.com/charmbracelet/lipgloss"

type Styles struct {
	Title        lipgloss.Style
	Subtitle     lipgloss.Style
	Header       lipgloss.Style
	SourceTitle  lipgloss.Style
	SourceInfo   lipgloss.Style
	Success      lipgloss.Style
	Error        lipgloss.Style
	Warning      lipgloss.Style
	Faint        lipgloss.Style
	Box          lipgloss.Style
	Spinner      lipgloss.Style
	StageAttach  lipgloss.Style
	StageWatch   lipgloss.Style
	StageBuild   lipgloss.Style
	TrendSpedUp  lipgloss.Style
	TrendSlowed  lipgloss.Style
	TrendSteady  lipgloss.Style
}

func defaultStyles() Styles {
	base := lipgloss.NewStyle()
	return Styles{
		Title:       base.Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		Subtitle:    base.Faint(true),
		Header:      base.Bold(true),
		SourceTitle: base.Foreground(lipgloss.Color("#A3A3A3")),
		SourceInfo:  base.Foreground(lipgloss.Color("#D1D5DB")),
		Success:     base.Foreground(lipgloss.Color("#22C55E")),
		Error:       base.Foreground(lipgloss.Color("#EF4444")),
		Warning:     base.Foreground(lipgloss.Color("#F59E0B")),
		Faint:       base.Faint(true),
		Box:         base.Padding(0, 1),
		Spinner:     base.Foreground(lipgloss.Color("#22D3EE")),
		StageAttach: base.Foreground(lipgloss.Color("#60A5FA")),
		StageWatch:  base.Foreground(lipgloss.Color("#06B6D4")),
		StageBuild:  base.Foreground(lipgloss.Color("#D946EF")),
		TrendSpedUp: base.Foreground(lipgloss.Color("#22C55E")),
		TrendSlowed: base.Foreground(lipgloss.Color("#F59E0B")),
		TrendSteady: base.Foreground(lipgloss.Color("#D1D5DB")),
	}
}
