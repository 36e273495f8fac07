// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Palette used by every command. Each color has a light and a dark terminal
// variant.
var (
	colorAccent  = lipgloss.AdaptiveColor{Light: "#6D28D9", Dark: "#A78BFA"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#4B5563", Dark: "#9CA3AF"}
	colorSuccess = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#34D399"}
	colorError   = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
	colorWarning = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}
)

var (
	// TitleStyle heads sections such as "Decorators".
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	// SubtitleStyle is for descriptions and status lines.
	SubtitleStyle = lipgloss.NewStyle().Foreground(colorMuted)

	SuccessStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	ErrorStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorError)
	WarningStyle = lipgloss.NewStyle().Foreground(colorWarning)

	// VerboseStyle is for paths and load chains.
	VerboseStyle = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)

	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	tableBorderStyle = lipgloss.NewStyle().Foreground(colorMuted)
)
