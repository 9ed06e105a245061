// SPDX-License-Identifier: MPL-2.0

package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/globdeck/globdeck/pkg/deck"
)

type (
	// Document is the JSON export of a forest.
	Document struct {
		Root  string `json:"root,omitempty"`
		Items int    `json:"items"`
		Decks []Node `json:"decks"`
	}

	// Node is one deck in a Document.
	Node struct {
		Pattern  string   `json:"pattern"`
		Items    []string `json:"items"`
		Children []Node   `json:"children,omitempty"`
	}
)

// NewDocument converts a forest into its exportable form. itemCount is the
// number of scanned items, which may exceed what the decks cover.
func NewDocument(root string, itemCount int, f *deck.Forest[string]) Document {
	var convert func(decks []deck.Deck[string]) []Node
	convert = func(decks []deck.Deck[string]) []Node {
		nodes := make([]Node, len(decks))
		for i, d := range decks {
			items := d.Items()
			if items == nil {
				items = []string{}
			}
			nodes[i] = Node{
				Pattern:  d.Pattern(),
				Items:    items,
				Children: convert(d.Children()),
			}
		}
		if len(nodes) == 0 {
			return nil
		}
		return nodes
	}

	decks := convert(f.Roots())
	if decks == nil {
		decks = []Node{}
	}
	return Document{Root: root, Items: itemCount, Decks: decks}
}

// JSON writes doc as indented JSON.
func JSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("render: encode json: %w", err)
	}
	return nil
}
