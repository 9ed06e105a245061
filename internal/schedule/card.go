// SPDX-License-Identifier: MPL-2.0

// Package schedule implements SM-2 spaced repetition for library items and
// persists review state as TOML.
package schedule

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"
)

const (
	// InitialEase is the ease factor of a card that was never reviewed.
	InitialEase = 2.5
	// MinEase is the floor the ease factor never drops below.
	MinEase = 1.3

	// GradePass is the lowest passing grade; lower grades reset a card.
	GradePass Grade = 3
	// MaxGrade is a perfect recall.
	MaxGrade Grade = 5

	day = 24 * time.Hour
)

// ErrInvalidGrade is returned for grades outside 0..5.
var ErrInvalidGrade = errors.New("invalid grade")

type (
	// Grade is the quality of a recall, 0 (blackout) to 5 (perfect).
	Grade int

	// Card is the scheduling state of one item.
	Card struct {
		Item string `toml:"item"`
		// Due is when the item should next be reviewed.
		Due time.Time `toml:"due"`
		// Interval is the current spacing in days.
		Interval int     `toml:"interval"`
		Ease     float64 `toml:"ease"`
		// Reps counts consecutive successful reviews.
		Reps   int `toml:"reps"`
		Lapses int `toml:"lapses"`
		// Reviewed is the time of the last review.
		Reviewed time.Time `toml:"reviewed"`
	}
)

// ParseGrade parses a decimal grade and validates its range.
func ParseGrade(s string) (Grade, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidGrade, s)
	}
	g := Grade(n)
	if err := g.Validate(); err != nil {
		return 0, err
	}
	return g, nil
}

// Validate returns an error wrapping ErrInvalidGrade outside 0..5.
func (g Grade) Validate() error {
	if g < 0 || g > MaxGrade {
		return fmt.Errorf("%w: %d (valid: 0-5)", ErrInvalidGrade, int(g))
	}
	return nil
}

// String returns the decimal grade.
func (g Grade) String() string { return strconv.Itoa(int(g)) }

// NewCard returns the state of an item that was never reviewed; it is due now.
func NewCard(item string, now time.Time) Card {
	return Card{Item: item, Due: now, Ease: InitialEase}
}

// IsNew reports whether the card was never reviewed.
func (c Card) IsNew() bool { return c.Reviewed.IsZero() }

// IsDue reports whether the card should be reviewed at now.
func (c Card) IsDue(now time.Time) bool { return !c.Due.After(now) }

// Review applies one SM-2 step. A failing grade restarts the repetition
// sequence with a one-day interval and counts a lapse; a passing grade grows
// the interval 1, 6, then interval*ease days. The ease factor moves with
// every grade and never drops below MinEase.
func (c Card) Review(g Grade, now time.Time) (Card, error) {
	if err := g.Validate(); err != nil {
		return c, err
	}
	if c.Ease == 0 {
		c.Ease = InitialEase
	}

	if g < GradePass {
		c.Reps = 0
		c.Interval = 1
		c.Lapses++
	} else {
		switch c.Reps {
		case 0:
			c.Interval = 1
		case 1:
			c.Interval = 6
		default:
			c.Interval = int(math.Round(float64(c.Interval) * c.Ease))
		}
		c.Reps++
	}

	q := float64(MaxGrade - g)
	c.Ease = max(MinEase, c.Ease+0.1-q*(0.08+q*0.02))

	c.Reviewed = now
	c.Due = now.Add(time.Duration(c.Interval) * day)
	return c, nil
}
