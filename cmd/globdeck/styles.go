// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/globdeck/globdeck/internal/render"

	"github.com/charmbracelet/lipgloss"
)

// Base styles - reusable lipgloss styles built from the shared render palette.
var (
	// TitleStyle is for primary headers and section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(render.ColorPrimary)

	// SubtitleStyle is for secondary headers and descriptions.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(render.ColorMuted)

	// SuccessStyle is for success messages and positive indicators.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(render.ColorSuccess)

	// ErrorStyle is for error messages and failure indicators.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(render.ColorError)

	// WarningStyle is for warning messages and caution indicators.
	WarningStyle = lipgloss.NewStyle().
			Foreground(render.ColorWarning)

	// CmdStyle is for commands, patterns and config keys.
	CmdStyle = lipgloss.NewStyle().
			Foreground(render.ColorHighlight)
)
