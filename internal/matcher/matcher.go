// SPDX-License-Identifier: MPL-2.0

package matcher

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gobwas/glob"
)

const (
	// EngineDoublestar selects the Doublestar matcher.
	EngineDoublestar Engine = "doublestar"
	// EngineGlob selects the Compiled (gobwas/glob) matcher.
	EngineGlob Engine = "glob"
)

var (
	// ErrInvalidPattern is wrapped by every pattern validation failure.
	ErrInvalidPattern = errors.New("invalid pattern")
	// ErrUnknownEngine is returned by New for an unrecognized engine name.
	ErrUnknownEngine = errors.New("unknown matcher engine")
)

type (
	// Matcher returns the subset of items a pattern selects. Items are
	// slash-separated paths relative to the library root. The result keeps
	// the input order.
	Matcher interface {
		Match(pattern string, items []string) ([]string, error)
	}

	// Engine names a Matcher implementation.
	Engine string

	// Doublestar matches with github.com/bmatcuk/doublestar/v4.
	Doublestar struct{}

	// Compiled matches with github.com/gobwas/glob, caching compiled
	// patterns. The zero value is ready to use and safe for concurrent use.
	Compiled struct {
		mu    sync.Mutex
		cache map[string]glob.Glob
	}
)

// New returns the Matcher for engine. An empty engine selects Doublestar.
func New(engine Engine) (Matcher, error) {
	switch engine {
	case "", EngineDoublestar:
		return Doublestar{}, nil
	case EngineGlob:
		return &Compiled{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (valid: doublestar, glob)", ErrUnknownEngine, string(engine))
	}
}

// Validate rejects empty and malformed patterns.
func Validate(pattern string) error {
	if pattern == "" {
		return fmt.Errorf("%w: empty pattern", ErrInvalidPattern)
	}
	if !doublestar.ValidatePattern(pattern) {
		return fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
	}
	return nil
}

// Match implements Matcher.
func (Doublestar) Match(pattern string, items []string) ([]string, error) {
	if err := Validate(pattern); err != nil {
		return nil, err
	}
	var out []string
	for _, item := range items {
		// Validated above.
		if doublestar.MatchUnvalidated(pattern, item) {
			out = append(out, item)
		}
	}
	return out, nil
}

// Match implements Matcher.
func (c *Compiled) Match(pattern string, items []string) ([]string, error) {
	if err := Validate(pattern); err != nil {
		return nil, err
	}
	g, err := c.compile(pattern)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, item := range items {
		if g.Match(item) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (c *Compiled) compile(pattern string) (glob.Glob, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if g, ok := c.cache[pattern]; ok {
		return g, nil
	}
	g, err := glob.Compile(globPattern(pattern), '/')
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidPattern, pattern, err)
	}
	if c.cache == nil {
		c.cache = make(map[string]glob.Glob)
	}
	c.cache[pattern] = g
	return g, nil
}

// globPattern adapts doublestar's "**/" (zero or more directories) to gobwas,
// where "**/" requires at least one directory. An inner "/**/" becomes
// "{/,/**/}" and a leading "**/x" becomes "{x,**/x}".
func globPattern(pattern string) string {
	const prefix = "**/"
	if strings.HasPrefix(pattern, prefix) && len(pattern) > len(prefix) {
		rest := globPattern(pattern[len(prefix):])
		return "{" + rest + "," + prefix + rest + "}"
	}
	return strings.ReplaceAll(pattern, "/**/", "{/,/**/}")
}

// MatchAll resolves every pattern, returning item sets keyed by pattern.
// Each set is sorted.
func MatchAll(m Matcher, patterns, items []string) (map[string][]string, error) {
	sets := make(map[string][]string, len(patterns))
	for _, p := range patterns {
		matched, err := m.Match(p, items)
		if err != nil {
			return nil, err
		}
		slices.Sort(matched)
		sets[p] = matched
	}
	return sets, nil
}
