// SPDX-License-Identifier: MPL-2.0

// Package scan enumerates the files of a library root. Paths are returned
// relative to the root, slash-separated and sorted, which is the item form
// every matcher and the deck builder consume.
package scan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
)

// StateDir is the directory globdeck keeps its own state in. It is always
// ignored so review state never becomes an item.
const StateDir = ".globdeck"

// localConfigFile is the library configuration file at the root.
const localConfigFile = "globdeck.cue"

// defaultIgnores lists path patterns that are always excluded, regardless of
// user-supplied ignore patterns: VCS metadata, dependency caches, editor swap
// files, OS metadata and globdeck's own state and configuration.
var defaultIgnores = []string{
	"**/.git/**",
	"**/node_modules/**",
	"**/__pycache__/**",
	"**/*.swp",
	"**/*.swo",
	"**/*~",
	"**/.DS_Store",
	"**/" + StateDir + "/**",
	localConfigFile,
}

// ErrNotDirectory is returned when the scan root is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// Ignorer decides whether a root-relative path is excluded.
type Ignorer struct {
	patterns []string
}

// NewIgnorer merges extra with the built-in ignores. Invalid globs are
// rejected here so they never fail silently at match time.
func NewIgnorer(extra []string) (*Ignorer, error) {
	for _, pat := range extra {
		if !doublestar.ValidatePattern(pat) {
			return nil, fmt.Errorf("scan: invalid ignore pattern %q", pat)
		}
	}
	patterns := make([]string, 0, len(defaultIgnores)+len(extra))
	patterns = append(patterns, defaultIgnores...)
	patterns = append(patterns, extra...)
	return &Ignorer{patterns: patterns}, nil
}

// Ignored reports whether rel (relative to the root, any separator) matches
// an ignore pattern. Directories are also tested with a trailing slash so
// "**/.git/**" excludes the .git directory itself.
func (i *Ignorer) Ignored(rel string) bool {
	normalized := filepath.ToSlash(rel)
	for _, pat := range i.patterns {
		if doublestar.MatchUnvalidated(pat, normalized) {
			return true
		}
	}
	return false
}

// IgnoredDir is Ignored for a directory path.
func (i *Ignorer) IgnoredDir(rel string) bool {
	return i.Ignored(rel) || i.Ignored(rel+"/")
}

// Patterns returns a copy of the effective ignore patterns.
func (i *Ignorer) Patterns() []string {
	return slices.Clone(i.patterns)
}

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	return slices.Clone(defaultIgnores)
}

// Files walks root and returns every regular, non-ignored file as a sorted
// slash-separated path relative to root. Unreadable subdirectories are
// skipped; an unreadable root is an error. A nil ignorer applies only the
// built-in ignores.
func Files(ctx context.Context, root string, ig *Ignorer) ([]string, error) {
	if ig == nil {
		ig = &Ignorer{patterns: defaultIgnores}
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan: %s: %w", root, ErrNotDirectory)
	}

	var files []string
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkDirErr error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if walkDirErr != nil {
			if path == root {
				return walkDirErr
			}
			return nil //nolint:nilerr // skip inaccessible paths
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil || rel == "." {
			return nil //nolint:nilerr // root itself or paths that cannot be made relative
		}

		if d.IsDir() {
			if ig.IgnoredDir(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || ig.Ignored(rel) {
			return nil
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("scan: walk %s: %w", root, walkErr)
	}

	slices.Sort(files)
	return files, nil
}
