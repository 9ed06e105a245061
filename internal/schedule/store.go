// SPDX-License-Identifier: MPL-2.0

package schedule

import (
	"cmp"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const stateVersion = 1

type (
	// Store holds the cards of one library and persists them to a TOML file.
	// It is safe for concurrent use.
	Store struct {
		path  string
		mu    sync.RWMutex
		cards map[string]Card
	}

	stateFile struct {
		Version int    `toml:"version"`
		Cards   []Card `toml:"card"`
	}
)

// Open loads the state file at path. A missing file yields an empty store
// that is created on the first Save.
func Open(path string) (*Store, error) {
	s := &Store{path: path, cards: make(map[string]Card)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read review state: %w", err)
	}

	var state stateFile
	if err := toml.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse review state %s: %w", path, err)
	}
	if state.Version > stateVersion {
		return nil, fmt.Errorf("review state %s has version %d, newest supported is %d", path, state.Version, stateVersion)
	}
	for _, c := range state.Cards {
		if c.Item == "" {
			continue
		}
		s.cards[c.Item] = c
	}
	return s, nil
}

// Path returns the state file location.
func (s *Store) Path() string { return s.path }

// Len returns the number of items with review state.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cards)
}

// State returns the card for item and whether it has any review state.
func (s *Store) State(item string) (Card, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cards[item]
	return c, ok
}

// Grade records a review of item at now and returns the updated card.
// Items without state start from NewCard.
func (s *Store) Grade(item string, g Grade, now time.Time) (Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cards[item]
	if !ok {
		c = NewCard(item, now)
	}
	next, err := c.Review(g, now)
	if err != nil {
		return c, err
	}
	s.cards[item] = next
	return next, nil
}

// Prune drops the state of every item for which keep returns false and
// returns how many were dropped.
func (s *Store) Prune(keep func(item string) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := 0
	for item := range s.cards {
		if !keep(item) {
			delete(s.cards, item)
			dropped++
		}
	}
	return dropped
}

// Items returns the items with review state, sorted.
func (s *Store) Items() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.cards))
}

// Save writes the store to its path atomically using a temp file + rename.
// Cards are written in item order so the file diffs cleanly.
func (s *Store) Save() error {
	s.mu.RLock()
	state := stateFile{
		Version: stateVersion,
		Cards:   slices.SortedFunc(maps.Values(s.cards), func(a, b Card) int { return cmp.Compare(a.Item, b.Item) }),
	}
	s.mu.RUnlock()

	data, err := toml.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode review state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()        // Best-effort cleanup
		_ = os.Remove(tmpPath) // Best-effort cleanup of temp file
		return fmt.Errorf("failed to write review state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath) // Best-effort cleanup of temp file
		return fmt.Errorf("failed to write review state: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath) // Best-effort cleanup of temp file
		return fmt.Errorf("failed to rename review state: %w", err)
	}
	return nil
}
