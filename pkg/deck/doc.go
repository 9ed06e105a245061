// SPDX-License-Identifier: MPL-2.0

// Package deck builds a forest of decks from patterns and the items they match.
//
// A deck is one pattern plus the items it matched. Build places every deck in
// a forest so that each deck's children are its direct specializations: a
// deck nests under another when its items are a subset of the other's items,
// or, when either side has no items, when its pattern is a strict
// specialization of the other's (see package pattern).
//
// Building happens in two passes. The first classifies every ordered pair of
// decks into a relation table without touching the forest. The second folds
// the table into the forest with a recursive insert that descends into the
// most specific existing ancestor and re-parents siblings that turn out to
// be more specific than the newly inserted deck. Decks are folded in a
// canonical order, so the result does not depend on input order.
//
// File organization:
//   - deck.go: Entry, Deck handle and the arena node
//   - build.go: relation table and fold
//   - forest.go: Forest queries, traversal and verification
package deck
