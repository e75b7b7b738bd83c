package engine

import (
	"time"

	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/utils"
)

// Verdict produces the structured day verdict for one date: whether the
// habit was scheduled, whether the day was skipped, how much progress was
// logged against the target, and whether the day counts as completed.
//
// The function is total: dates before the habit start date, dates with no
// effective pattern, and degenerate configurations all yield a neutral
// inactive verdict rather than an error.
func (s *Snapshot) Verdict(date time.Time) models.DayVerdict {
	verdict := models.DayVerdict{Day: utils.FormatDay(date)}

	pattern, anchor := s.EffectivePattern(date)
	if pattern == nil {
		return verdict
	}
	if !IsScheduled(pattern.Rule, anchor, date) {
		// Inactive regardless of any logged data
		return verdict
	}
	verdict.IsActive = true

	if s.ledger.IsSkipped(date) {
		verdict.IsSkipped = true
		return verdict
	}

	target := pattern.Target()
	count := 0
	switch pattern.Modality {
	case constants.ModalityDuration:
		count = s.ledger.DurationLogged(date)
	case constants.ModalityQuantity:
		count = s.ledger.QuantityLogged(date)
	default:
		count = s.ledger.RepetitionsLogged(date)
	}

	ratio := float64(count) / float64(target)
	if ratio > 1 {
		ratio = 1
	}
	verdict.Progress = models.Progress{Count: count, Target: target, Ratio: ratio}

	if s.Habit.BadHabit {
		// Inverted semantics: the day is successful when the undesired
		// behavior was not logged at all.
		verdict.IsCompleted = !s.ledger.HasRecords(date)
	} else {
		verdict.IsCompleted = count >= target
	}

	return verdict
}
