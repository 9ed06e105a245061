// SPDX-License-Identifier: MPL-2.0

package render

import (
	"fmt"
	"strings"

	"github.com/globdeck/globdeck/pkg/deck"
)

// Mermaid produces a Mermaid flowchart of the forest, one node per deck
// labeled with its pattern and item count and one edge per parent-child
// link. Decks that matched no items are styled with the "empty" class.
func Mermaid(f *deck.Forest[string]) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	var empty []string
	f.Walk(func(d deck.Deck[string], _ int) bool {
		id := mermaidID(d)
		fmt.Fprintf(&sb, "    %s[\"%s (%d)\"]\n", id, escapeMermaidLabel(d.Pattern()), d.Len())
		for _, c := range d.Children() {
			fmt.Fprintf(&sb, "    %s --> %s\n", id, mermaidID(c))
		}
		if d.Len() == 0 {
			empty = append(empty, id)
		}
		return true
	})

	if len(empty) > 0 {
		sb.WriteString("\n    classDef empty fill:#f3f4f6,stroke:#6b7280,stroke-dasharray:4,color:#000;\n")
		fmt.Fprintf(&sb, "    class %s empty;\n", strings.Join(empty, ","))
	}
	return sb.String()
}

// mermaidID derives the node ID from the arena index; patterns contain
// characters Mermaid does not accept in IDs.
func mermaidID(d deck.Deck[string]) string {
	return fmt.Sprintf("d%d", d.Index())
}

func escapeMermaidLabel(s string) string {
	return strings.ReplaceAll(s, `"`, "#quot;")
}
