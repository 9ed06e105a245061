// SPDX-License-Identifier: MPL-2.0

package pattern

import "strings"

const (
	// Separator splits a pattern into path segments.
	Separator = "/"
	// Recursive is the segment matching any number of directories.
	Recursive = "**"

	// recursiveSuffix marks a pattern that selects a whole directory tree.
	recursiveSuffix = Separator + Recursive
)

// IsSubset reports whether child is a strict specialization of parent: every
// path child could match is also matched by parent, and the two patterns are
// not the same. Empty patterns are never related to anything.
//
// The checks run in a fixed order. A directory-tree shortcut handles the
// common "Dir/Sub/**" under "Dir/**" case, a set of cheap incompatibility
// tests rejects pairs whose fixed parts disagree, and only then is the full
// segment-wise containment evaluated.
func IsSubset(child, parent string) bool {
	if child == parent {
		return false
	}
	if child == "" || parent == "" {
		return false
	}

	if childDir, parentDir, ok := directoryTrees(child, parent); ok {
		return strings.HasPrefix(childDir, parentDir+Separator)
	}

	childSegs := split(child)
	parentSegs := split(parent)

	if incompatible(childSegs, parentSegs) {
		return false
	}

	if !contains(childSegs, parentSegs) {
		return false
	}

	// Equivalent languages (e.g. "Work/**" and "Work/**/*") are ordered by
	// wildcard class so that exactly one direction holds, or neither.
	if contains(parentSegs, childSegs) {
		return rank(child) > rank(parent)
	}
	return true
}

// directoryTrees returns the bare directories of two "<dir>/**" patterns when
// both directories are free of wildcards.
func directoryTrees(child, parent string) (childDir, parentDir string, ok bool) {
	childDir, childOK := strings.CutSuffix(child, recursiveSuffix)
	parentDir, parentOK := strings.CutSuffix(parent, recursiveSuffix)
	if !childOK || !parentOK {
		return "", "", false
	}
	if hasMeta(childDir) || hasMeta(parentDir) || childDir == "" || parentDir == "" {
		return "", "", false
	}
	return childDir, parentDir, true
}

// incompatible reports pairs whose fixed parts cannot line up: differing
// literal directories at the same position, differing fixed file extensions,
// or filename prefixes where the child does not extend the parent's prefix.
// A literal that merely contains the other ("Workshop" vs "Work") is a
// mismatch like any other.
func incompatible(child, parent []string) bool {
	for i := range min(len(child), len(parent)) {
		c, p := child[i], parent[i]
		if c == Recursive || p == Recursive {
			break
		}
		if isLiteral(c) && isLiteral(p) && c != p {
			return true
		}
	}

	childName := child[len(child)-1]
	parentName := parent[len(parent)-1]

	if ce, ok := fixedExtension(childName); ok {
		if pe, ok := fixedExtension(parentName); ok && ce != pe {
			return true
		}
	}

	if cp, ok := wildcardPrefix(childName); ok {
		if pp, ok := wildcardPrefix(parentName); ok && !strings.HasPrefix(cp, pp) {
			return true
		}
	}

	return false
}

// split breaks a pattern into segments. Repeated "**" segments collapse into
// one, and a trailing "**" after other segments becomes "**/*" because deck
// patterns select files: "Work/**" and "Work/**/*" match the same paths.
func split(p string) []string {
	raw := strings.Split(p, Separator)
	segs := make([]string, 0, len(raw)+1)
	for _, s := range raw {
		if s == Recursive && len(segs) > 0 && segs[len(segs)-1] == Recursive {
			continue
		}
		segs = append(segs, s)
	}
	if len(segs) > 1 && segs[len(segs)-1] == Recursive {
		segs = append(segs, "*")
	}
	return segs
}

// rank scores how narrow a pattern is by wildcard class: "**" adds 0, a bare
// "*" adds 1, any other wildcard segment ("*.md", "test_*") adds 2 and a
// literal segment adds 3.
func rank(p string) int {
	total := 0
	for _, s := range strings.Split(p, Separator) {
		switch {
		case s == Recursive:
		case s == "*":
			total++
		case hasMeta(s):
			total += 2
		default:
			total += 3
		}
	}
	return total
}

// fixedExtension returns the extension of a filename segment when it is
// literal text, e.g. "md" for both "README.md" and "*.md".
func fixedExtension(seg string) (string, bool) {
	if seg == Recursive {
		return "", false
	}
	i := strings.LastIndexByte(seg, '.')
	if i < 0 {
		return "", false
	}
	ext := seg[i+1:]
	if ext == "" || hasMeta(ext) {
		return "", false
	}
	return ext, true
}

// wildcardPrefix returns the literal text before the first wildcard of a
// filename segment, e.g. "test_" for "test_*.go". Segments without a
// wildcard or starting with one have no prefix.
func wildcardPrefix(seg string) (string, bool) {
	i := strings.IndexAny(seg, "*?")
	if i <= 0 || isOpaque(seg[:i]) {
		return "", false
	}
	return seg[:i], true
}

func hasMeta(s string) bool {
	return strings.ContainsAny(s, "*?[]{}")
}

func isLiteral(seg string) bool {
	return !hasMeta(seg)
}

// isOpaque reports segments using syntax the comparator does not interpret.
func isOpaque(seg string) bool {
	return strings.ContainsAny(seg, "[]{}")
}
