// SPDX-License-Identifier: MPL-2.0

// Package pattern decides specificity between glob-like deck patterns.
//
// The central question is "is every path pattern A could ever match also
// matchable by pattern B, with A strictly narrower?". IsSubset answers it
// without touching the filesystem, so it can order patterns that currently
// match nothing. Matching patterns against real paths is not done here; see
// internal/matcher.
//
// Supported syntax is the doublestar subset used for deck definitions:
// "/" separated segments, "**" for any number of directories, "*" and "?"
// inside a segment. Segments containing character classes or brace
// alternatives are treated as opaque text.
//
// # Usage
//
//	pattern.IsSubset("Work/Math/**", "Work/**") // true
//	pattern.IsSubset("Workshop/**", "Work/**")  // false
//	pattern.Classify("README.md", "*.md")       // pattern.ChildOf
package pattern
