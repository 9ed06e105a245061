// SPDX-License-Identifier: MPL-2.0

package deck

import (
	"cmp"
	"slices"
)

type (
	// Entry is one input to Build: a pattern and the items it matched.
	// Item order is irrelevant and duplicates are collapsed.
	Entry[K cmp.Ordered] struct {
		Pattern string
		Items   []K
	}

	// Deck is a read-only handle to one node of a Forest. The zero value is
	// not usable; obtain handles from Forest methods.
	Deck[K cmp.Ordered] struct {
		forest *Forest[K]
		index  int
	}

	// node is an arena entry. Children are indices into the same arena and are
	// owned by the arena rather than by the parent node.
	node[K cmp.Ordered] struct {
		pattern  string
		items    []K
		set      map[K]struct{}
		children []int
	}
)

func newNode[K cmp.Ordered](e Entry[K]) node[K] {
	set := make(map[K]struct{}, len(e.Items))
	for _, item := range e.Items {
		set[item] = struct{}{}
	}
	items := make([]K, 0, len(set))
	for item := range set {
		items = append(items, item)
	}
	slices.Sort(items)
	return node[K]{
		pattern: e.Pattern,
		items:   items,
		set:     set,
	}
}

// Index returns the arena index of the deck, stable for the life of its Forest.
func (d Deck[K]) Index() int {
	return d.index
}

// Pattern returns the deck's pattern.
func (d Deck[K]) Pattern() string {
	return d.node().pattern
}

// Items returns a sorted copy of the deck's distinct items.
func (d Deck[K]) Items() []K {
	return slices.Clone(d.node().items)
}

// Len returns the number of distinct items in the deck.
func (d Deck[K]) Len() int {
	return len(d.node().items)
}

// Contains reports whether item belongs to the deck.
func (d Deck[K]) Contains(item K) bool {
	_, ok := d.node().set[item]
	return ok
}

// Children returns the deck's direct children in canonical order.
func (d Deck[K]) Children() []Deck[K] {
	return d.forest.handles(d.node().children)
}

// IsLeaf reports whether the deck has no children.
func (d Deck[K]) IsLeaf() bool {
	return len(d.node().children) == 0
}

func (d Deck[K]) node() *node[K] {
	return &d.forest.nodes[d.index]
}
