// SPDX-License-Identifier: MPL-2.0

package render

import (
	"fmt"
	"strings"

	"github.com/globdeck/globdeck/internal/review"

	"github.com/charmbracelet/glamour"
)

// Markdown builds a markdown review report: a table with one row per deck,
// indented by depth, followed by the study queue.
func Markdown(r review.Report, queue []string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Review for %s\n\n", r.At.Format("Mon, 02 Jan 2006"))
	fmt.Fprintf(&sb, "**%d** cards, **%d** due, **%d** new.\n\n", r.Totals.Total, r.Totals.Due, r.Totals.New)

	if len(r.Decks) > 0 {
		sb.WriteString("| Deck | Total | Due | New |\n")
		sb.WriteString("| --- | ---: | ---: | ---: |\n")
		var rows func(decks []review.DeckStats, depth int)
		rows = func(decks []review.DeckStats, depth int) {
			for _, d := range decks {
				indent := strings.Repeat("· ", depth)
				fmt.Fprintf(&sb, "| %s`%s` | %d | %d | %d |\n",
					indent, escapeTableCell(d.Pattern), d.Counts.Total, d.Counts.Due, d.Counts.New)
				rows(d.Children, depth+1)
			}
		}
		rows(r.Decks, 0)
		sb.WriteString("\n")
	}

	sb.WriteString("## Next up\n\n")
	if len(queue) == 0 {
		sb.WriteString("Nothing to review.\n")
		return sb.String()
	}
	for i, item := range queue {
		fmt.Fprintf(&sb, "%d. `%s`\n", i+1, item)
	}
	return sb.String()
}

func escapeTableCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// MarkdownOptions configures RenderMarkdown.
type MarkdownOptions struct {
	// Style is a glamour standard style ("dark", "light", "notty", ...);
	// empty or "auto" detects the terminal background.
	Style string
	// Width is the word wrap width (0 for the glamour default).
	Width int
}

// RenderMarkdown renders markdown for the terminal using glamour.
func RenderMarkdown(md string, opts MarkdownOptions) (string, error) {
	var rendererOpts []glamour.TermRendererOption
	switch opts.Style {
	case "", "auto":
		rendererOpts = append(rendererOpts, glamour.WithAutoStyle())
	default:
		rendererOpts = append(rendererOpts, glamour.WithStandardStyle(opts.Style))
	}
	if opts.Width > 0 {
		rendererOpts = append(rendererOpts, glamour.WithWordWrap(opts.Width))
	}

	renderer, err := glamour.NewTermRenderer(rendererOpts...)
	if err != nil {
		return "", fmt.Errorf("render: markdown renderer: %w", err)
	}
	out, err := renderer.Render(md)
	if err != nil {
		return "", fmt.Errorf("render: markdown: %w", err)
	}
	return out, nil
}
