// SPDX-License-Identifier: MPL-2.0

// Package matcher resolves a deck pattern against the scanned library,
// producing the item set that pkg/deck uses as the primary containment
// signal.
//
// Two engines are provided. Doublestar (the default) follows the same glob
// dialect as pkg/pattern. Compiled uses github.com/gobwas/glob with '/' as
// the separator and caches compiled patterns, which pays off in watch mode
// where the same decks are matched on every rebuild.
package matcher
