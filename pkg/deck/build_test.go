// SPDX-License-Identifier: MPL-2.0

package deck

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// shape is a plain-value mirror of a forest used for readable diffs.
type shape struct {
	Pattern  string
	Items    []string
	Children []shape
}

func shapeOf(f *Forest[string]) []shape {
	var level func(decks []Deck[string]) []shape
	level = func(decks []Deck[string]) []shape {
		if len(decks) == 0 {
			return nil
		}
		out := make([]shape, len(decks))
		for i, d := range decks {
			out[i] = shape{Pattern: d.Pattern(), Items: d.Items(), Children: level(d.Children())}
		}
		return out
	}
	return level(f.Roots())
}

func patternsOnly(patterns ...string) []Entry[string] {
	entries := make([]Entry[string], len(patterns))
	for i, p := range patterns {
		entries[i] = Entry[string]{Pattern: p}
	}
	return entries
}

func TestBuild_PatternOnlyForest(t *testing.T) {
	t.Parallel()

	f := Build(patternsOnly("**", "**/*", "*", "Work/**", "README.md"))

	want := []shape{{
		Pattern: "**",
		Items:   []string{},
		Children: []shape{{
			Pattern: "**/*",
			Items:   []string{},
			Children: []shape{
				{
					Pattern:  "*",
					Items:    []string{},
					Children: []shape{{Pattern: "README.md", Items: []string{}}},
				},
				{Pattern: "Work/**", Items: []string{}},
			},
		}},
	}}

	if diff := cmp.Diff(want, shapeOf(f)); diff != "" {
		t.Errorf("forest mismatch (-want +got):\n%s", diff)
	}
	if err := f.Verify(); err != nil {
		t.Errorf("Verify() = %v", err)
	}
}

func TestBuild_ItemSubsets(t *testing.T) {
	t.Parallel()

	entries := []Entry[string]{
		{Pattern: "Work/Math/**", Items: []string{"Work/Math/y.md"}},
		{Pattern: "*.md", Items: []string{"a.md", "b.md"}},
		{Pattern: "**", Items: []string{"a.md", "b.md", "Work/x.md", "Work/Math/y.md"}},
		{Pattern: "Work/**", Items: []string{"Work/x.md", "Work/Math/y.md"}},
	}
	f := Build(entries)

	want := []shape{{
		Pattern: "**",
		Items:   []string{"Work/Math/y.md", "Work/x.md", "a.md", "b.md"},
		Children: []shape{
			{Pattern: "*.md", Items: []string{"a.md", "b.md"}},
			{
				Pattern:  "Work/**",
				Items:    []string{"Work/Math/y.md", "Work/x.md"},
				Children: []shape{{Pattern: "Work/Math/**", Items: []string{"Work/Math/y.md"}}},
			},
		},
	}}

	if diff := cmp.Diff(want, shapeOf(f)); diff != "" {
		t.Errorf("forest mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_TransitivityPreserved(t *testing.T) {
	t.Parallel()

	f := Build(patternsOnly("Work/Math/Algebra/**", "**", "Work/Math/**", "Work/**"))

	roots := f.Roots()
	if len(roots) != 1 || roots[0].Pattern() != "**" {
		t.Fatalf("roots = %v, want [**]", patternsOf(roots))
	}
	chain := []string{"**"}
	d := roots[0]
	for !d.IsLeaf() {
		children := d.Children()
		if len(children) != 1 {
			t.Fatalf("%q has children %v, want exactly one", d.Pattern(), patternsOf(children))
		}
		d = children[0]
		chain = append(chain, d.Pattern())
	}
	want := []string{"**", "Work/**", "Work/Math/**", "Work/Math/Algebra/**"}
	if !slices.Equal(chain, want) {
		t.Errorf("chain = %v, want %v", chain, want)
	}
}

func TestBuild_EqualItemsUnresolvedPatterns(t *testing.T) {
	t.Parallel()

	items := []string{"Notes/n.md"}
	f := Build([]Entry[string]{
		{Pattern: "*.md", Items: items},
		{Pattern: "Notes/**", Items: items},
	})

	if got := patternsOf(f.Roots()); !slices.Equal(got, []string{"*.md", "Notes/**"}) {
		t.Errorf("roots = %v, want both decks at the top level", got)
	}
	for _, r := range f.Roots() {
		if !r.IsLeaf() {
			t.Errorf("%q has children %v, want none", r.Pattern(), patternsOf(r.Children()))
		}
	}
}

func TestBuild_EqualItemsResolvedByPattern(t *testing.T) {
	t.Parallel()

	items := []string{"README.md"}
	f := Build([]Entry[string]{
		{Pattern: "README.md", Items: items},
		{Pattern: "*.md", Items: items},
	})

	roots := f.Roots()
	if len(roots) != 1 || roots[0].Pattern() != "*.md" {
		t.Fatalf("roots = %v, want [*.md]", patternsOf(roots))
	}
	if got := patternsOf(roots[0].Children()); !slices.Equal(got, []string{"README.md"}) {
		t.Errorf("children = %v, want [README.md]", got)
	}
}

func TestBuild_DisjointItemsStayApart(t *testing.T) {
	t.Parallel()

	// Item overlap decides before pattern shape whenever both sides have items.
	f := Build([]Entry[string]{
		{Pattern: "Work/**", Items: []string{"Work/w.md"}},
		{Pattern: "Work/Math/**", Items: []string{"Elsewhere/z.md"}},
	})

	if got := patternsOf(f.Roots()); !slices.Equal(got, []string{"Work/**", "Work/Math/**"}) {
		t.Errorf("roots = %v, want both decks at the top level", got)
	}
}

func TestBuild_EmptySideFallsBackToPattern(t *testing.T) {
	t.Parallel()

	f := Build([]Entry[string]{
		{Pattern: "Work/**", Items: []string{"Work/w.md"}},
		{Pattern: "Work/Math/**"},
	})

	roots := f.Roots()
	if len(roots) != 1 || roots[0].Pattern() != "Work/**" {
		t.Fatalf("roots = %v, want [Work/**]", patternsOf(roots))
	}
	if got := patternsOf(roots[0].Children()); !slices.Equal(got, []string{"Work/Math/**"}) {
		t.Errorf("children = %v, want [Work/Math/**]", got)
	}
}

func TestIsChildOf_CardinalityGuard(t *testing.T) {
	t.Parallel()

	always := func(string, string) bool { return true }
	big := newNode(Entry[string]{Pattern: "a", Items: []string{"1", "2", "3"}})
	small := newNode(Entry[string]{Pattern: "b", Items: []string{"1", "2"}})
	empty := newNode(Entry[string]{Pattern: "c"})

	if isChildOf(&big, &small, always) {
		t.Error("deck with 3 items classified as child of deck with 2 items")
	}
	if isChildOf(&small, &empty, always) {
		t.Error("deck with items classified as child of empty deck")
	}
	if !isChildOf(&small, &big, always) {
		t.Error("subset deck not classified as child")
	}
}

func TestBuild_DuplicateItemsCollapse(t *testing.T) {
	t.Parallel()

	f := Build([]Entry[string]{
		{Pattern: "*.md", Items: []string{"a.md", "a.md", "b.md"}},
		{Pattern: "a*", Items: []string{"a.md", "a.md", "a.md"}},
	})

	roots := f.Roots()
	if len(roots) != 1 || roots[0].Len() != 2 {
		t.Fatalf("roots = %v, want one root with 2 items", patternsOf(roots))
	}
	if got := roots[0].Children(); len(got) != 1 || got[0].Len() != 1 {
		t.Errorf("children = %v, want one child with 1 item", patternsOf(got))
	}
}

func TestBuild_Idempotent(t *testing.T) {
	t.Parallel()

	entries := sampleEntries()
	first := Build(entries)
	second := Build(entries)

	if !first.Equal(second) {
		t.Errorf("two builds differ:\n%s", cmp.Diff(shapeOf(first), shapeOf(second)))
	}
}

func TestBuild_OrderIndependent(t *testing.T) {
	t.Parallel()

	entries := sampleEntries()
	want := Build(entries)

	rng := rand.New(rand.NewPCG(7, 11))
	for range 50 {
		shuffled := slices.Clone(entries)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		got := Build(shuffled)
		if !want.Equal(got) {
			t.Fatalf("shuffled build differs (-want +got):\n%s", cmp.Diff(shapeOf(want), shapeOf(got)))
		}
	}
}

func TestBuild_RandomInputsVerify(t *testing.T) {
	t.Parallel()

	patterns := []string{
		"**", "**/*", "*", "*.md", "*.go", "README.md", "Work/**", "Work/**/*",
		"Work/Math/**", "Work/Math/*.md", "Workshop/**", "Notes/*.md", "test_*.go",
		"Notes/**", "**/*.md", "",
	}
	files := []string{
		"README.md", "main.go", "test_a.go", "Work/x.md", "Work/Math/y.md",
		"Workshop/z.md", "Notes/n.md",
	}

	rng := rand.New(rand.NewPCG(3, 5))
	for round := range 200 {
		var entries []Entry[string]
		for _, p := range patterns {
			if rng.IntN(3) == 0 {
				continue
			}
			var items []string
			for _, file := range files {
				if rng.IntN(2) == 0 {
					items = append(items, file)
				}
			}
			entries = append(entries, Entry[string]{Pattern: p, Items: items})
		}

		f := Build(entries)
		if err := f.Verify(); err != nil {
			t.Fatalf("round %d: Verify() = %v", round, err)
		}
		if f.Len() != len(entries) {
			t.Fatalf("round %d: Len() = %d, want %d", round, f.Len(), len(entries))
		}
	}
}

func TestBuild_WithComparator(t *testing.T) {
	t.Parallel()

	never := func(string, string) bool { return false }
	f := Build(patternsOnly("**", "*", "README.md"), WithComparator(never))

	if got := patternsOf(f.Roots()); !slices.Equal(got, []string{"*", "**", "README.md"}) {
		t.Errorf("roots = %v, want every deck at the top level", got)
	}
}

func TestBuild_Empty(t *testing.T) {
	t.Parallel()

	f := Build[string](nil)
	if f.Len() != 0 || len(f.Roots()) != 0 {
		t.Errorf("empty build has %d decks and %d roots", f.Len(), len(f.Roots()))
	}
	if err := f.Verify(); err != nil {
		t.Errorf("Verify() = %v", err)
	}
}

func TestInsert_ReparentsMoreSpecificSiblings(t *testing.T) {
	t.Parallel()

	// Insert the most specific deck first so both re-parenting steps run:
	// 0 = Work/Math/**, 1 = **, 2 = Work/**.
	f := &Forest[string]{nodes: []node[string]{
		newNode(Entry[string]{Pattern: "Work/Math/**"}),
		newNode(Entry[string]{Pattern: "**"}),
		newNode(Entry[string]{Pattern: "Work/**"}),
	}}
	table := classify(f.nodes, func(child, parent string) bool {
		switch {
		case child == "Work/Math/**":
			return parent == "**" || parent == "Work/**"
		case child == "Work/**":
			return parent == "**"
		default:
			return false
		}
	})

	for _, i := range []int{0, 1, 2} {
		f.roots = f.insert(f.roots, i, table)
	}

	if !slices.Equal(f.roots, []int{1}) {
		t.Fatalf("roots = %v, want [1]", f.roots)
	}
	if !slices.Equal(f.nodes[1].children, []int{2}) {
		t.Errorf("** children = %v, want [2]", f.nodes[1].children)
	}
	if !slices.Equal(f.nodes[2].children, []int{0}) {
		t.Errorf("Work/** children = %v, want [0]", f.nodes[2].children)
	}
	if err := f.Verify(); err != nil {
		t.Errorf("Verify() = %v", err)
	}
}

func TestClassify_ClearsMutualClaims(t *testing.T) {
	t.Parallel()

	nodes := []node[string]{
		newNode(Entry[string]{Pattern: "a"}),
		newNode(Entry[string]{Pattern: "b"}),
	}
	table := classify(nodes, func(string, string) bool { return true })

	if table.childOf(0, 1) || table.childOf(1, 0) {
		t.Error("mutual claims were not cleared")
	}
}

func sampleEntries() []Entry[string] {
	return []Entry[string]{
		{Pattern: "**", Items: []string{"README.md", "main.go", "Work/x.md", "Work/Math/y.md", "Notes/n.md"}},
		{Pattern: "**/*.md", Items: []string{"README.md", "Work/x.md", "Work/Math/y.md", "Notes/n.md"}},
		{Pattern: "*", Items: []string{"README.md", "main.go"}},
		{Pattern: "*.md", Items: []string{"README.md"}},
		{Pattern: "README.md", Items: []string{"README.md"}},
		{Pattern: "Work/**", Items: []string{"Work/x.md", "Work/Math/y.md"}},
		{Pattern: "Work/Math/**", Items: []string{"Work/Math/y.md"}},
		{Pattern: "Notes/**", Items: []string{"Notes/n.md"}},
		{Pattern: "Archive/**"},
		{Pattern: "Work/Physics/**"},
	}
}

func patternsOf(decks []Deck[string]) []string {
	out := make([]string, len(decks))
	for i, d := range decks {
		out[i] = d.Pattern()
	}
	return out
}
