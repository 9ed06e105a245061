// SPDX-License-Identifier: MPL-2.0

package deck

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/globdeck/globdeck/internal/dag"
)

// ErrCorruptForest is wrapped by every error returned from Verify.
var ErrCorruptForest = errors.New("corrupt deck forest")

// Forest is the result of Build: an arena of decks plus the list of roots.
// A Forest is never modified after Build returns, so it is safe for
// concurrent readers.
type Forest[K cmp.Ordered] struct {
	nodes []node[K]
	roots []int
}

// Len returns the number of decks in the forest.
func (f *Forest[K]) Len() int {
	return len(f.nodes)
}

// Roots returns the top-level decks in canonical order.
func (f *Forest[K]) Roots() []Deck[K] {
	return f.handles(f.roots)
}

// Deck returns the deck at the given arena index.
func (f *Forest[K]) Deck(index int) (Deck[K], bool) {
	if index < 0 || index >= len(f.nodes) {
		return Deck[K]{}, false
	}
	return Deck[K]{forest: f, index: index}, true
}

// Find returns every deck with the given pattern, in arena order.
func (f *Forest[K]) Find(p string) []Deck[K] {
	var found []Deck[K]
	for i := range f.nodes {
		if f.nodes[i].pattern == p {
			found = append(found, Deck[K]{forest: f, index: i})
		}
	}
	return found
}

// Walk visits every deck top-down, parents before children, passing the
// deck's depth (0 for roots). Returning false from fn skips the deck's
// subtree.
func (f *Forest[K]) Walk(fn func(d Deck[K], depth int) bool) {
	var visit func(indices []int, depth int)
	visit = func(indices []int, depth int) {
		for _, i := range indices {
			if fn(Deck[K]{forest: f, index: i}, depth) {
				visit(f.nodes[i].children, depth+1)
			}
		}
	}
	visit(f.roots, 0)
}

// PostOrder returns every deck with all children before their parent, the
// order needed for bottom-up aggregation.
func (f *Forest[K]) PostOrder() []Deck[K] {
	order, err := f.graph(childToParent).TopologicalSort()
	if err != nil {
		// Build never produces cycles; fall back to a plain reversed walk.
		var decks []Deck[K]
		f.Walk(func(d Deck[K], _ int) bool {
			decks = append(decks, d)
			return true
		})
		slices.Reverse(decks)
		return decks
	}
	return f.handles(order)
}

// Parent returns the deck whose children include d.
func (f *Forest[K]) Parent(d Deck[K]) (Deck[K], bool) {
	for i := range f.nodes {
		if slices.Contains(f.nodes[i].children, d.index) {
			return Deck[K]{forest: f, index: i}, true
		}
	}
	return Deck[K]{}, false
}

// Verify checks the forest invariants: every deck has exactly one slot (a
// root or a single parent's child), no deck is its own descendant, and every
// deck is reachable from a root.
func (f *Forest[K]) Verify() error {
	slots := make([]int, len(f.nodes))
	count := func(indices []int) error {
		for _, i := range indices {
			if i < 0 || i >= len(f.nodes) {
				return fmt.Errorf("%w: index %d out of range", ErrCorruptForest, i)
			}
			slots[i]++
		}
		return nil
	}

	if err := count(f.roots); err != nil {
		return err
	}
	for i := range f.nodes {
		if slices.Contains(f.nodes[i].children, i) {
			return fmt.Errorf("%w: deck %q is its own child", ErrCorruptForest, f.nodes[i].pattern)
		}
		if err := count(f.nodes[i].children); err != nil {
			return err
		}
	}

	var errs []error
	for i, n := range slots {
		if n != 1 {
			errs = append(errs, fmt.Errorf("%w: deck %q has %d slots", ErrCorruptForest, f.nodes[i].pattern, n))
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	if _, err := f.graph(parentToChild).TopologicalSort(); err != nil {
		return fmt.Errorf("%w: %w", ErrCorruptForest, err)
	}

	reached := dag.New[int]()
	f.Walk(func(d Deck[K], _ int) bool {
		reached.AddNode(d.index)
		return true
	})
	for i := range f.nodes {
		if !reached.HasNode(i) {
			errs = append(errs, fmt.Errorf("%w: deck %q is not reachable from a root", ErrCorruptForest, f.nodes[i].pattern))
		}
	}
	return errors.Join(errs...)
}

// Equal reports whether two forests have the same shape: the same root
// decks, each with the same pattern, items and children, recursively.
// Arena indices are not compared.
func (f *Forest[K]) Equal(other *Forest[K]) bool {
	if f == nil || other == nil {
		return f == other
	}
	if len(f.nodes) != len(other.nodes) {
		return false
	}
	return equalLevel(f.Roots(), other.Roots())
}

func equalLevel[K cmp.Ordered](a, b []Deck[K]) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Pattern() != b[i].Pattern() || !slices.Equal(a[i].node().items, b[i].node().items) {
			return false
		}
		if !equalLevel(a[i].Children(), b[i].Children()) {
			return false
		}
	}
	return true
}

type edgeDirection bool

const (
	parentToChild edgeDirection = false
	childToParent edgeDirection = true
)

// graph mirrors the forest into a dag keyed by arena index. Nodes are added
// in walk order so topological output is deterministic.
func (f *Forest[K]) graph(dir edgeDirection) *dag.Graph[int] {
	g := dag.New[int]()
	f.Walk(func(d Deck[K], _ int) bool {
		g.AddNode(d.index)
		return true
	})
	for i := range f.nodes {
		g.AddNode(i)
		for _, c := range f.nodes[i].children {
			if dir == childToParent {
				g.AddEdge(c, i)
			} else {
				g.AddEdge(i, c)
			}
		}
	}
	return g
}

func (f *Forest[K]) handles(indices []int) []Deck[K] {
	decks := make([]Deck[K], len(indices))
	for i, idx := range indices {
		decks[i] = Deck[K]{forest: f, index: idx}
	}
	return decks
}
