// SPDX-License-Identifier: MPL-2.0

package render

import "github.com/charmbracelet/lipgloss"

// Color palette shared by every renderer and the CLI.
const (
	// ColorPrimary is purple - used for titles and deck patterns.
	ColorPrimary = lipgloss.Color("#7C3AED")
	// ColorMuted is gray - used for items and secondary text.
	ColorMuted = lipgloss.Color("#6B7280")
	// ColorSuccess is green - used for counts that need no action.
	ColorSuccess = lipgloss.Color("#10B981")
	// ColorError is red - used for errors.
	ColorError = lipgloss.Color("#EF4444")
	// ColorWarning is amber - used for due counts and warnings.
	ColorWarning = lipgloss.Color("#F59E0B")
	// ColorHighlight is blue - used for new counts and interactive elements.
	ColorHighlight = lipgloss.Color("#3B82F6")
)

// Styles are the lipgloss styles used by the tree renderers.
type Styles struct {
	Enumerator lipgloss.Style
	Pattern    lipgloss.Style
	Count      lipgloss.Style
	Item       lipgloss.Style
	Due        lipgloss.Style
	New        lipgloss.Style
	Quiet      lipgloss.Style
}

// DefaultStyles returns the styles built from the shared palette.
func DefaultStyles() Styles {
	return Styles{
		Enumerator: lipgloss.NewStyle().Foreground(ColorMuted).MarginRight(1),
		Pattern:    lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary),
		Count:      lipgloss.NewStyle().Foreground(ColorMuted),
		Item:       lipgloss.NewStyle().Foreground(ColorMuted),
		Due:        lipgloss.NewStyle().Bold(true).Foreground(ColorWarning),
		New:        lipgloss.NewStyle().Foreground(ColorHighlight),
		Quiet:      lipgloss.NewStyle().Foreground(ColorSuccess),
	}
}

// PlainStyles returns styles that add no decoration, for tests and pipes.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Enumerator: plain.MarginRight(1),
		Pattern:    plain,
		Count:      plain,
		Item:       plain,
		Due:        plain,
		New:        plain,
		Quiet:      plain,
	}
}
