package tui

import "github.com/charmbracelet/lipgloss"

// Color palette.
const (
	colorAccent  = lipgloss.Color("39")
	colorMuted   = lipgloss.Color("245")
	colorText    = lipgloss.Color("252")
	colorWarning = lipgloss.Color("214")
	colorError   = lipgloss.Color("196")
	colorBorder  = lipgloss.Color("240")
)

// Shared styles.
//
//nolint:gochecknoglobals // lipgloss styles are immutable values used package-wide.
var (
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	LabelStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	ValueStyle  = lipgloss.NewStyle().Foreground(colorText).Bold(true)
	SubtleStyle = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)
	InfoStyle   = lipgloss.NewStyle().Foreground(colorText)

	WarningStyle  = lipgloss.NewStyle().Foreground(colorWarning)
	CriticalStyle = lipgloss.NewStyle().Foreground(colorError).Bold(true)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorAccent).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(colorBorder)
	TableSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	// FocusedLabelStyle marks the filter field that currently has focus.
	FocusedLabelStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
)
