// SPDX-License-Identifier: MPL-2.0

// Package library turns a directory and a list of deck patterns into a deck
// forest: it scans the root, resolves every pattern to its items and builds
// the hierarchy.
//
// Each Rebuild publishes a new immutable Snapshot. Readers call Snapshot at
// any time and never observe a partially built forest; a snapshot is never
// modified after it is published.
package library

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/globdeck/globdeck/internal/issue"
	"github.com/globdeck/globdeck/internal/matcher"
	"github.com/globdeck/globdeck/internal/scan"
	"github.com/globdeck/globdeck/pkg/deck"

	"github.com/charmbracelet/log"
)

type (
	// Options configures a Library.
	Options struct {
		// Root is the directory scanned for items.
		Root string
		// Decks are the deck patterns in configuration order.
		Decks []string
		// Ignore are extra ignore globs merged with the built-in ones.
		Ignore []string
		// Matcher resolves patterns; nil means matcher.Doublestar.
		Matcher matcher.Matcher
		// Logger receives build diagnostics; nil discards them.
		Logger *log.Logger
		// Now is the clock stamped on snapshots; nil means time.Now.
		Now func() time.Time
	}

	// Snapshot is one immutable build result together with its inputs.
	Snapshot struct {
		// Seq increases by one with every published snapshot, starting at 1.
		Seq  uint64
		Root string
		// Items are every scanned item, sorted.
		Items []string
		// Decks are the deck patterns in configuration order.
		Decks  []string
		Forest *deck.Forest[string]
		// Built is when the snapshot was published.
		Built time.Time
		// Elapsed is how long the scan, match and build took.
		Elapsed time.Duration
	}

	// Library rebuilds and publishes snapshots. It is safe for concurrent use;
	// concurrent Rebuild calls each publish a complete snapshot and the last
	// one to finish wins.
	Library struct {
		root    string
		decks   []string
		ignorer *scan.Ignorer
		matcher matcher.Matcher
		logger  *log.Logger
		now     func() time.Time

		seq     atomic.Uint64
		current atomic.Pointer[Snapshot]
	}
)

// New validates the options and returns a Library with no snapshot yet.
func New(opts Options) (*Library, error) {
	for _, p := range opts.Decks {
		if err := matcher.Validate(p); err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("configure decks").
				WithResource(p).
				WithSuggestion("Deck patterns are doublestar globs such as 'Work/**' or '*.md'").
				WithSuggestion("Check for unbalanced '[' or '{'").
				Wrap(err).
				BuildError()
		}
	}

	ignorer, err := scan.NewIgnorer(opts.Ignore)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("configure ignore patterns").
			WithSuggestion("Ignore patterns are doublestar globs such as '**/drafts/**'").
			Wrap(err).
			BuildError()
	}

	m := opts.Matcher
	if m == nil {
		m = matcher.Doublestar{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Library{
		root:    opts.Root,
		decks:   append([]string(nil), opts.Decks...),
		ignorer: ignorer,
		matcher: m,
		logger:  logger,
		now:     now,
	}, nil
}

// Root returns the scanned directory.
func (l *Library) Root() string { return l.root }

// Ignorer returns the effective ignore rules, shared with the watcher so
// both agree on what is part of the library.
func (l *Library) Ignorer() *scan.Ignorer { return l.ignorer }

// Snapshot returns the latest published snapshot, or nil before the first
// successful Rebuild.
func (l *Library) Snapshot() *Snapshot { return l.current.Load() }

// Rebuild scans the root, matches every deck and publishes a new snapshot.
// On error the previous snapshot stays current.
func (l *Library) Rebuild(ctx context.Context) (*Snapshot, error) {
	start := l.now()

	items, err := scan.Files(ctx, l.root, l.ignorer)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("scan library").
			WithResource(l.root).
			WithSuggestion("Check that the root directory exists and is readable").
			WithSuggestion("Set 'root' in globdeck.cue or pass --root").
			Wrap(err).
			BuildError()
	}

	sets, err := matcher.MatchAll(l.matcher, l.decks, items)
	if err != nil {
		return nil, issue.WrapWithContext(err, "match decks", l.root)
	}

	entries := make([]deck.Entry[string], len(l.decks))
	for i, p := range l.decks {
		entries[i] = deck.Entry[string]{Pattern: p, Items: sets[p]}
		if len(sets[p]) == 0 {
			l.logger.Warn("deck matches no items", "pattern", p)
		}
	}

	forest := deck.Build(entries)
	if err := forest.Verify(); err != nil {
		return nil, fmt.Errorf("library: %w", err)
	}

	built := l.now()
	snap := &Snapshot{
		Seq:     l.seq.Add(1),
		Root:    l.root,
		Items:   items,
		Decks:   append([]string(nil), l.decks...),
		Forest:  forest,
		Built:   built,
		Elapsed: built.Sub(start),
	}
	l.current.Store(snap)

	l.logger.Debug("library rebuilt",
		"seq", snap.Seq,
		"items", len(items),
		"decks", forest.Len(),
		"roots", len(forest.Roots()),
		"elapsed", snap.Elapsed,
	)
	return snap, nil
}

// Unplaced returns the scanned items that no deck matched.
func (s *Snapshot) Unplaced() []string {
	var out []string
	for _, item := range s.Items {
		placed := false
		s.Forest.Walk(func(d deck.Deck[string], _ int) bool {
			if d.Contains(item) {
				placed = true
			}
			return !placed
		})
		if !placed {
			out = append(out, item)
		}
	}
	return out
}
