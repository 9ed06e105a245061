// SPDX-License-Identifier: MPL-2.0

// Package review aggregates spaced-repetition state over a deck forest.
//
// A deck's counts cover its own items together with the items of every
// descendant, so a parent never reports fewer cards than its children even
// when it was placed above them by pattern alone.
package review

import (
	"cmp"
	"slices"
	"time"

	"github.com/globdeck/globdeck/internal/schedule"
	"github.com/globdeck/globdeck/pkg/deck"
)

type (
	// Scheduler exposes per-item review state. *schedule.Store implements it.
	Scheduler interface {
		State(item string) (schedule.Card, bool)
	}

	// Counts summarizes a set of items.
	Counts struct {
		// Total is the number of distinct items.
		Total int `json:"total"`
		// Due counts reviewed items whose due time has passed.
		Due int `json:"due"`
		// New counts items with no review state.
		New int `json:"new"`
	}

	// DeckStats is the aggregate for one deck and its subtree.
	DeckStats struct {
		Pattern  string      `json:"pattern"`
		Counts   Counts      `json:"counts"`
		Children []DeckStats `json:"children,omitempty"`
	}

	// Report is the aggregate for a whole forest.
	Report struct {
		At    time.Time   `json:"at"`
		Decks []DeckStats `json:"decks"`
		// Totals covers the union of every deck's items.
		Totals Counts `json:"totals"`
	}
)

// Aggregate computes per-deck counts at now. Decks are processed bottom-up so
// each subtree union is built once from its children.
func Aggregate(f *deck.Forest[string], s Scheduler, now time.Time) Report {
	unions := make([]map[string]struct{}, f.Len())
	counts := make([]Counts, f.Len())

	for _, d := range f.PostOrder() {
		union := make(map[string]struct{}, d.Len())
		for _, item := range d.Items() {
			union[item] = struct{}{}
		}
		for _, c := range d.Children() {
			for item := range unions[c.Index()] {
				union[item] = struct{}{}
			}
		}
		unions[d.Index()] = union
		counts[d.Index()] = count(union, s, now)
	}

	all := make(map[string]struct{})
	for _, r := range f.Roots() {
		for item := range unions[r.Index()] {
			all[item] = struct{}{}
		}
	}

	var build func(decks []deck.Deck[string]) []DeckStats
	build = func(decks []deck.Deck[string]) []DeckStats {
		if len(decks) == 0 {
			return nil
		}
		out := make([]DeckStats, len(decks))
		for i, d := range decks {
			out[i] = DeckStats{
				Pattern:  d.Pattern(),
				Counts:   counts[d.Index()],
				Children: build(d.Children()),
			}
		}
		return out
	}

	return Report{
		At:     now,
		Decks:  build(f.Roots()),
		Totals: count(all, s, now),
	}
}

func count(items map[string]struct{}, s Scheduler, now time.Time) Counts {
	c := Counts{Total: len(items)}
	for item := range items {
		card, ok := s.State(item)
		switch {
		case !ok:
			c.New++
		case card.IsDue(now):
			c.Due++
		}
	}
	return c
}

// Queue returns the items to study at now: every due item, most overdue
// first, followed by up to newLimit new items in path order. A negative
// newLimit means no limit.
func Queue(items []string, s Scheduler, now time.Time, newLimit int) []string {
	type dueItem struct {
		item string
		due  time.Time
	}

	var (
		due   []dueItem
		fresh []string
	)
	for _, item := range items {
		card, ok := s.State(item)
		switch {
		case !ok:
			fresh = append(fresh, item)
		case card.IsDue(now):
			due = append(due, dueItem{item: item, due: card.Due})
		}
	}

	slices.SortFunc(due, func(a, b dueItem) int {
		return cmp.Or(a.due.Compare(b.due), cmp.Compare(a.item, b.item))
	})
	slices.Sort(fresh)
	fresh = slices.Compact(fresh)
	if newLimit >= 0 && len(fresh) > newLimit {
		fresh = fresh[:newLimit]
	}

	out := make([]string, 0, len(due)+len(fresh))
	for _, d := range due {
		out = append(out, d.item)
	}
	return append(out, fresh...)
}
