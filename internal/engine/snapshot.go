// Package engine computes habit activity, day verdicts, and streak
// statistics over an immutable snapshot of habit data. Everything in this
// package is a pure, synchronous derivation: no I/O, no retained state, and
// no mutation of the snapshot. Callers take a consistent read snapshot from
// storage, build a Snapshot, and re-build it after any write.
package engine

import (
	"sort"
	"time"

	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/utils"
)

// Snapshot is an immutable view of one habit, its pattern history, and its
// completion records, taken at a single point in time. All engine queries
// run against a Snapshot; it is safe for concurrent readers as long as the
// underlying data is not mutated mid-scan.
type Snapshot struct {
	Habit    models.Habit
	patterns []models.RecurrencePattern // sorted by EffectiveFrom ascending
	ledger   Ledger

	start    time.Time // habit start date, UTC midnight
	hasStart bool
}

// NewSnapshot builds a snapshot from raw store output. Patterns are sorted by
// EffectiveFrom (ties broken by CreatedAt, most recent last so it wins
// resolution); completion records are indexed by day. A habit with an
// unparseable or empty start date is treated as never active.
func NewSnapshot(habit models.Habit, patterns []models.RecurrencePattern, records []models.CompletionRecord) *Snapshot {
	s := &Snapshot{
		Habit:    habit,
		patterns: make([]models.RecurrencePattern, len(patterns)),
		ledger:   NewLedger(records),
	}
	copy(s.patterns, patterns)

	sort.SliceStable(s.patterns, func(i, j int) bool {
		if s.patterns[i].EffectiveFrom != s.patterns[j].EffectiveFrom {
			return s.patterns[i].EffectiveFrom < s.patterns[j].EffectiveFrom
		}
		return s.patterns[i].CreatedAt.Before(s.patterns[j].CreatedAt)
	})

	if start, err := utils.ParseDay(habit.StartDate); err == nil {
		s.start = start
		s.hasStart = true
	}

	return s
}

// Start returns the habit's start date as a UTC midnight, and whether the
// habit has a usable start date at all.
func (s *Snapshot) Start() (time.Time, bool) {
	return s.start, s.hasStart
}

// Ledger exposes the snapshot's completion ledger.
func (s *Snapshot) Ledger() Ledger {
	return s.ledger
}

// Patterns returns the sorted pattern history.
func (s *Snapshot) Patterns() []models.RecurrencePattern {
	return s.patterns
}
