// SPDX-License-Identifier: MPL-2.0

package deck

import (
	"cmp"
	"slices"

	"github.com/globdeck/globdeck/pkg/pattern"
)

type (
	// Comparator reports whether child is a strict specialization of parent.
	Comparator func(child, parent string) bool

	// BuildOption configures Build.
	BuildOption func(*buildOptions)

	buildOptions struct {
		isSubset Comparator
	}

	// relationTable records, for every ordered pair (a, b), whether a is a
	// child of b. It is filled once and never changes during the fold.
	relationTable struct {
		n     int
		child []bool
	}
)

// WithComparator replaces the pattern comparator used when item sets cannot
// decide a pair. The default is pattern.IsSubset.
func WithComparator(c Comparator) BuildOption {
	return func(o *buildOptions) {
		if c != nil {
			o.isSubset = c
		}
	}
}

// Build places every entry into a new Forest. It never fails: a pair that
// cannot be classified stays at the same level. Entries are not retained;
// the Forest owns copies of their items.
func Build[K cmp.Ordered](entries []Entry[K], opts ...BuildOption) *Forest[K] {
	options := buildOptions{isSubset: pattern.IsSubset}
	for _, opt := range opts {
		opt(&options)
	}

	f := &Forest[K]{nodes: make([]node[K], len(entries))}
	for i, e := range entries {
		f.nodes[i] = newNode(e)
	}

	table := classify(f.nodes, options.isSubset)
	f.fold(table)
	return f
}

// classify evaluates every ordered pair. It is pure: the forest is built
// afterwards from the finished table, so no decision depends on the order
// pairs are visited in.
func classify[K cmp.Ordered](nodes []node[K], isSubset Comparator) relationTable {
	t := relationTable{n: len(nodes), child: make([]bool, len(nodes)*len(nodes))}
	for a := range nodes {
		for b := range nodes {
			if a != b && isChildOf(&nodes[a], &nodes[b], isSubset) {
				t.child[a*t.n+b] = true
			}
		}
	}

	// A pair claiming both directions has no usable order.
	for a := range nodes {
		for b := a + 1; b < len(nodes); b++ {
			if t.childOf(a, b) && t.childOf(b, a) {
				t.child[a*t.n+b] = false
				t.child[b*t.n+a] = false
			}
		}
	}
	return t
}

// isChildOf decides whether a belongs under b. Item membership wins whenever
// both decks have items; the pattern comparator only breaks ties between
// equal item sets or decides when a side has no items.
func isChildOf[K cmp.Ordered](a, b *node[K], isSubset Comparator) bool {
	if len(a.items) > len(b.items) {
		return false
	}
	if len(a.items) == 0 || len(b.items) == 0 {
		return isSubset(a.pattern, b.pattern)
	}
	for _, item := range a.items {
		if _, ok := b.set[item]; !ok {
			return false
		}
	}
	if len(a.items) < len(b.items) {
		return true
	}
	return isSubset(a.pattern, b.pattern)
}

func (t relationTable) childOf(a, b int) bool {
	return t.child[a*t.n+b]
}

func (t relationTable) ancestors(a int) int {
	count := 0
	for b := range t.n {
		if t.childOf(a, b) {
			count++
		}
	}
	return count
}

// fold turns the relation table into the forest. Decks with no ancestor are
// inserted first; every deck is then inserted from the top level down.
func (f *Forest[K]) fold(t relationTable) {
	ancestors := make([]int, t.n)
	order := make([]int, t.n)
	for i := range t.n {
		ancestors[i] = t.ancestors(i)
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		if c := cmp.Compare(ancestors[a], ancestors[b]); c != 0 {
			return c
		}
		return f.compare(a, b)
	})

	for _, i := range order {
		f.roots = f.insert(f.roots, i, t)
	}

	f.sortLevel(f.roots)
	for i := range f.nodes {
		f.sortLevel(f.nodes[i].children)
	}
}

// insert places c among siblings and returns the updated sibling list. If c
// is a child of an existing sibling it descends into that sibling instead.
// Otherwise c joins this level and every sibling that is a child of c moves
// underneath it.
func (f *Forest[K]) insert(siblings []int, c int, t relationTable) []int {
	for _, e := range siblings {
		if t.childOf(c, e) {
			f.nodes[e].children = f.insert(f.nodes[e].children, c, t)
			return siblings
		}
	}

	kept := make([]int, 0, len(siblings)+1)
	var moved []int
	for _, d := range siblings {
		if t.childOf(d, c) {
			moved = append(moved, d)
		} else {
			kept = append(kept, d)
		}
	}
	kept = append(kept, c)

	for _, d := range moved {
		f.nodes[c].children = f.insert(f.nodes[c].children, d, t)
	}
	return kept
}

func (f *Forest[K]) sortLevel(level []int) {
	slices.SortStableFunc(level, f.compare)
}

// compare orders decks by pattern, then item count, then items.
func (f *Forest[K]) compare(a, b int) int {
	na, nb := &f.nodes[a], &f.nodes[b]
	if c := cmp.Compare(na.pattern, nb.pattern); c != 0 {
		return c
	}
	if c := cmp.Compare(len(na.items), len(nb.items)); c != 0 {
		return c
	}
	return slices.Compare(na.items, nb.items)
}
