// SPDX-License-Identifier: MPL-2.0

package render

import (
	"fmt"
	"strings"

	"github.com/globdeck/globdeck/internal/review"
	"github.com/globdeck/globdeck/pkg/deck"

	"github.com/charmbracelet/lipgloss/tree"
)

// TreeOptions configures Tree.
type TreeOptions struct {
	// Items lists each deck's own items below it, excluding those already
	// shown under a child deck.
	Items  bool
	Styles Styles
}

// Tree renders a forest as a tree: one line per deck with its item count.
// Roots are rendered as siblings of an unlabeled top level.
func Tree(f *deck.Forest[string], opts TreeOptions) string {
	st := opts.Styles
	t := tree.New().
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(st.Enumerator)

	var add func(parent *tree.Tree, decks []deck.Deck[string])
	add = func(parent *tree.Tree, decks []deck.Deck[string]) {
		for _, d := range decks {
			label := st.Pattern.Render(d.Pattern()) + " " + st.Count.Render(fmt.Sprintf("(%d)", d.Len()))
			node := tree.Root(label).
				Enumerator(tree.RoundedEnumerator).
				EnumeratorStyle(st.Enumerator)
			add(node, d.Children())
			if opts.Items {
				for _, item := range ownItems(d) {
					node.Child(st.Item.Render(item))
				}
			}
			parent.Child(node)
		}
	}
	add(t, f.Roots())

	if len(f.Roots()) == 0 {
		return st.Count.Render("(no decks)") + "\n"
	}
	return t.String() + "\n"
}

// ownItems returns the deck's items that no child deck contains.
func ownItems(d deck.Deck[string]) []string {
	children := d.Children()
	var own []string
	for _, item := range d.Items() {
		shown := false
		for _, c := range children {
			if c.Contains(item) {
				shown = true
				break
			}
		}
		if !shown {
			own = append(own, item)
		}
	}
	return own
}

// ReviewTree renders a review report as a tree with total, due and new
// counts per deck.
func ReviewTree(r review.Report, st Styles) string {
	if len(r.Decks) == 0 {
		return st.Count.Render("(no decks)") + "\n"
	}

	t := tree.New().
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(st.Enumerator)

	var add func(parent *tree.Tree, decks []review.DeckStats)
	add = func(parent *tree.Tree, decks []review.DeckStats) {
		for _, d := range decks {
			node := tree.Root(st.Pattern.Render(d.Pattern) + "  " + countsLabel(d.Counts, st)).
				Enumerator(tree.RoundedEnumerator).
				EnumeratorStyle(st.Enumerator)
			add(node, d.Children)
			parent.Child(node)
		}
	}
	add(t, r.Decks)

	var sb strings.Builder
	sb.WriteString(t.String())
	sb.WriteString("\n\n")
	sb.WriteString(st.Pattern.Render("total") + "  " + countsLabel(r.Totals, st) + "\n")
	return sb.String()
}

func countsLabel(c review.Counts, st Styles) string {
	if c.Due == 0 && c.New == 0 {
		return st.Quiet.Render(fmt.Sprintf("%d cards, nothing due", c.Total))
	}
	return st.Count.Render(fmt.Sprintf("%d cards", c.Total)) + ", " +
		st.Due.Render(fmt.Sprintf("%d due", c.Due)) + ", " +
		st.New.Render(fmt.Sprintf("%d new", c.New))
}
