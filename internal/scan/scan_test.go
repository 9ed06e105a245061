// SPDX-License-Identifier: MPL-2.0

package scan

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/globdeck/globdeck/internal/testutil"
)

func TestFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.Touch(t, root,
		"README.md",
		"globdeck.cue",
		"Work/plan.md",
		"Work/Math/algebra.md",
		"Work/draft.md.swp",
		".git/HEAD",
		"node_modules/x/index.js",
		".globdeck/reviews.toml",
		"Personal/.DS_Store",
		"Personal/tmp/scratch.txt",
	)

	ig, err := NewIgnorer([]string{"**/tmp/**"})
	if err != nil {
		t.Fatal(err)
	}

	got, err := Files(context.Background(), root, ig)
	if err != nil {
		t.Fatalf("Files() error: %v", err)
	}
	want := []string{"README.md", "Work/Math/algebra.md", "Work/plan.md"}
	if !slices.Equal(got, want) {
		t.Errorf("Files() = %v, want %v", got, want)
	}
}

func TestFiles_NilIgnorer(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.Touch(t, root, "a.md", ".git/config")

	got, err := Files(context.Background(), root, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, []string{"a.md"}) {
		t.Errorf("Files() = %v", got)
	}
}

func TestFiles_Errors(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.Touch(t, root, "file.md")

	if _, err := Files(context.Background(), filepath.Join(root, "missing"), nil); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing root: %v", err)
	}
	if _, err := Files(context.Background(), filepath.Join(root, "file.md"), nil); !errors.Is(err, ErrNotDirectory) {
		t.Errorf("file root: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Files(ctx, root, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("canceled: %v", err)
	}
}

func TestIgnorer(t *testing.T) {
	t.Parallel()

	if _, err := NewIgnorer([]string{"[oops"}); err == nil {
		t.Error("NewIgnorer should reject invalid globs")
	}

	ig, err := NewIgnorer([]string{"drafts/**"})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path    string
		dir     bool
		ignored bool
	}{
		{".git", true, true},
		{"sub/.git/objects", true, true},
		{"node_modules", true, true},
		{".globdeck", true, true},
		{"notes.md~", false, true},
		{"drafts/a.md", false, true},
		{"drafts", true, true},
		{"Work", true, false},
		{"Work/plan.md", false, false},
		{"globdeck.cue", false, true},
		{"Work/globdeck.cue", false, false},
	}
	for _, tt := range tests {
		got := ig.Ignored(tt.path)
		if tt.dir {
			got = ig.IgnoredDir(tt.path)
		}
		if got != tt.ignored {
			t.Errorf("ignored(%q) = %v, want %v", tt.path, got, tt.ignored)
		}
	}

	if n := len(ig.Patterns()); n != len(DefaultIgnores())+1 {
		t.Errorf("Patterns() has %d entries", n)
	}
}
