package engine

import (
	"sort"
	"time"

	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/utils"
)

// EffectivePattern selects the pattern governing the habit on the given
// date: among all patterns whose EffectiveFrom <= date, the one with the
// greatest EffectiveFrom. It returns nil when the date precedes the habit's
// start date or the earliest pattern. Two patterns sharing an EffectiveFrom
// should not happen, but when they do the most recently created one wins
// (the snapshot sorts ties by CreatedAt).
//
// The second return value is the rule anchor for the resolved pattern: its
// effective-from date, or the habit start date for the first pattern.
func (s *Snapshot) EffectivePattern(date time.Time) (*models.RecurrencePattern, time.Time) {
	if !s.hasStart || date.Before(s.start) || len(s.patterns) == 0 {
		return nil, time.Time{}
	}

	dayKey := utils.FormatDay(date)

	// Binary search for the first pattern with EffectiveFrom > date; the
	// effective pattern is the one just before it. O(log P) over P versions.
	idx := sort.Search(len(s.patterns), func(i int) bool {
		return s.patterns[i].EffectiveFrom > dayKey
	})
	if idx == 0 {
		return nil, time.Time{}
	}

	pattern := &s.patterns[idx-1]

	anchor, err := utils.ParseDay(pattern.EffectiveFrom)
	if err != nil {
		return nil, time.Time{}
	}
	if idx == 1 {
		// Interval counting for the first pattern begins at the habit start
		anchor = s.start
	}

	return pattern, anchor
}
