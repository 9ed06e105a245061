// SPDX-License-Identifier: MPL-2.0

package pattern

import (
	"slices"
	"testing"
)

// corpus is a mixed bag of deck patterns used by the property tests.
var corpus = []string{
	"**",
	"**/*",
	"*",
	"*.md",
	"*.js",
	"README.md",
	"Work/**",
	"Work/**/*",
	"Work/Math/**",
	"Work/Math/*.md",
	"Workshop/**",
	"Notes/*.md",
	"Notes/**",
	"test_*.go",
	"test_unit_*.go",
	"t*",
	"a?c",
	"a*",
	"**/*.md",
	"docs/[ab].md",
	"docs/*.md",
}

func TestIsSubset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		child  string
		parent string
		want   bool
	}{
		{"nested directory tree", "Work/Math/**", "Work/**", true},
		{"parent directory tree is not a child", "Work/**", "Work/Math/**", false},
		{"identical recursive", "**", "**", false},
		{"single level under recursive", "*", "**", true},
		{"recursive under single level", "**", "*", false},
		{"exact file under extension", "README.md", "*.md", true},
		{"differing extensions", "*.md", "*.js", false},
		{"substring directory", "Workshop/**", "Work/**", false},
		{"recursive files under recursive", "**/*", "**", true},
		{"recursive under recursive files", "**", "**/*", false},
		{"single level under recursive files", "*", "**/*", true},
		{"directory tree under recursive files", "Work/**", "**/*", true},
		{"recursive files under directory tree", "**/*", "Work/**", false},
		{"file under single level", "README.md", "*", true},
		{"directory tree under single level", "Work/**", "*", false},
		{"single level under directory tree", "*", "Work/**", false},
		{"file outside directory", "README.md", "Work/**", false},
		{"explicit files under trailing recursive", "Work/**/*", "Work/**", true},
		{"trailing recursive under explicit files", "Work/**", "Work/**/*", false},
		{"longer filename prefix", "test_unit_*.go", "test_*.go", true},
		{"shorter filename prefix", "test_*.go", "test_unit_*.go", false},
		{"prefix not extended", "t*", "test_*", false},
		{"question mark under star", "a?c", "a*", true},
		{"star under question mark", "a*", "a?c", false},
		{"files in directory under directory tree", "Notes/*.md", "Notes/**", true},
		{"directory tree under files in directory", "Notes/**", "Notes/*.md", false},
		{"nested markdown under any markdown", "Work/Math/*.md", "**/*.md", true},
		{"opaque segment under wildcard", "docs/[ab].md", "docs/*.md", true},
		{"wildcard under opaque segment", "docs/*.md", "docs/[ab].md", false},
		{"class is one character, not its text", "[ab].md", "????.md", false},
		{"class under single character wildcard", "[ab].md", "?.md", true},
		{"class against literal", "[ab].md", "a.md", false},
		{"brace group under star", "{a,bc}.md", "*.md", true},
		{"brace group under question mark", "{a,b}.md", "?.md", false},
		{"brace group text not literal", "{ab}.md", "?????.md", false},
		{"empty child", "", "**", false},
		{"empty parent", "**", "", false},
		{"both empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsSubset(tt.child, tt.parent); got != tt.want {
				t.Errorf("IsSubset(%q, %q) = %v, want %v", tt.child, tt.parent, got, tt.want)
			}
		})
	}
}

func TestIsSubset_Irreflexive(t *testing.T) {
	t.Parallel()
	for _, p := range corpus {
		if IsSubset(p, p) {
			t.Errorf("IsSubset(%q, %q) = true, want false", p, p)
		}
	}
}

func TestIsSubset_Antisymmetric(t *testing.T) {
	t.Parallel()
	for _, a := range corpus {
		for _, b := range corpus {
			if IsSubset(a, b) && IsSubset(b, a) {
				t.Errorf("both IsSubset(%q, %q) and IsSubset(%q, %q) are true", a, b, b, a)
			}
		}
	}
}

func TestIsSubset_Transitive(t *testing.T) {
	t.Parallel()
	for _, a := range corpus {
		for _, b := range corpus {
			if !IsSubset(a, b) {
				continue
			}
			for _, c := range corpus {
				if IsSubset(b, c) && !IsSubset(a, c) {
					t.Errorf("%q < %q < %q but IsSubset(%q, %q) = false", a, b, c, a, c)
				}
			}
		}
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want Relation
	}{
		{"README.md", "*.md", ChildOf},
		{"*.md", "README.md", ParentOf},
		{"*.md", "*.js", Unrelated},
		{"Workshop/**", "Work/**", Unrelated},
		{"**", "**", Unrelated},
		{"", "*", Unrelated},
	}

	for _, tt := range tests {
		if got := Classify(tt.a, tt.b); got != tt.want {
			t.Errorf("Classify(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestRelation_String(t *testing.T) {
	t.Parallel()
	got := []string{Unrelated.String(), ChildOf.String(), ParentOf.String(), Relation(42).String()}
	want := []string{"unrelated", "child of", "parent of", "unrelated"}
	if !slices.Equal(got, want) {
		t.Errorf("String() = %v, want %v", got, want)
	}
}

func TestSplit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want []string
	}{
		{"**", []string{"**"}},
		{"**/*", []string{"**", "*"}},
		{"Work/**", []string{"Work", "**", "*"}},
		{"Work/**/**/x", []string{"Work", "**", "x"}},
		{"a/b.md", []string{"a", "b.md"}},
	}

	for _, tt := range tests {
		if got := split(tt.in); !slices.Equal(got, tt.want) {
			t.Errorf("split(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRank(t *testing.T) {
	t.Parallel()

	ordered := []string{"**", "*", "*.md", "README.md"}
	for i := 1; i < len(ordered); i++ {
		if rank(ordered[i-1]) >= rank(ordered[i]) {
			t.Errorf("rank(%q) = %d, want less than rank(%q) = %d",
				ordered[i-1], rank(ordered[i-1]), ordered[i], rank(ordered[i]))
		}
	}
}
