package engine

import (
	"time"

	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/utils"
)

// Streak semantics, shared by every scan in this file:
//
//   - inactive days are transparent: they neither break nor extend a run
//   - active skipped days pause a run: skip is neither completion nor failure
//   - active completed days extend the run by one
//   - active incomplete days break the run, except that the current-streak
//     scan treats a miss under a follow-up pattern as a pause instead of a
//     break (the miss still counts as overdue and still breaks best-streak
//     runs)

// CurrentStreak returns the length of the most recent unbroken run of
// completed days ending at or before upto, scanning from the habit start.
func (s *Snapshot) CurrentStreak(upto time.Time) int {
	run := 0
	s.walk(upto, func(date time.Time, v models.DayVerdict) {
		switch {
		case !v.IsActive || v.IsSkipped:
			// transparent / pause
		case v.IsCompleted:
			run++
		default:
			if pattern, _ := s.EffectivePattern(date); pattern != nil && pattern.FollowUp {
				return // follow-up relaxation: miss pauses instead of breaking
			}
			run = 0
		}
	})
	return run
}

// BestStreak returns the longest run of completed days within [from, upto].
// Ties keep the earliest-found run; a trailing run that reaches upto
// undefeated is still eligible. The zero StreakRange means no completed run
// exists in the window.
func (s *Snapshot) BestStreak(from, upto time.Time) models.StreakRange {
	var best models.StreakRange
	var runStart, runEnd time.Time
	run := 0

	closeOut := func() {
		if run > best.Length {
			best = models.StreakRange{
				Start:  utils.FormatDay(runStart),
				End:    utils.FormatDay(runEnd),
				Length: run,
			}
		}
		run = 0
	}

	s.walk(upto, func(date time.Time, v models.DayVerdict) {
		if date.Before(from) {
			return
		}
		switch {
		case !v.IsActive || v.IsSkipped:
			// transparent / pause
		case v.IsCompleted:
			if run == 0 {
				runStart = date
			}
			run++
			runEnd = date
		default:
			closeOut()
		}
	})
	closeOut()

	return best
}

// OverdueDays counts the active, non-completed, non-skipped days strictly
// between the habit's last fully completed day and the given date. It
// returns nil when the habit has no completed day yet, or when it is not
// overdue at all.
func (s *Snapshot) OverdueDays(on time.Time) *int {
	var lastCompleted time.Time
	found := false
	var misses []time.Time

	s.walk(on, func(date time.Time, v models.DayVerdict) {
		if !v.IsActive || v.IsSkipped {
			return
		}
		if v.IsCompleted {
			lastCompleted = date
			found = true
		} else {
			misses = append(misses, date)
		}
	})

	if !found {
		return nil
	}

	count := 0
	for _, miss := range misses {
		if miss.After(lastCompleted) && miss.Before(on) {
			count++
		}
	}
	if count == 0 {
		return nil
	}
	return &count
}

// IsOverdue reports whether the habit has at least one missed active day
// since its last completion.
func (s *Snapshot) IsOverdue(on time.Time) bool {
	return s.OverdueDays(on) != nil
}

// Consistency returns the fraction of active, non-skipped days in
// [from, upto] that were completed, in [0, 1]. A window with no active days
// yields 0. Bad-habit inversion flows through Verdict, so no special case
// is needed here.
func (s *Snapshot) Consistency(from, upto time.Time) float64 {
	active, completed := 0, 0
	s.walk(upto, func(date time.Time, v models.DayVerdict) {
		if date.Before(from) || !v.IsActive || v.IsSkipped {
			return
		}
		active++
		if v.IsCompleted {
			completed++
		}
	})
	if active == 0 {
		return 0
	}
	return float64(completed) / float64(active)
}

// walk visits every date from the habit start through upto inclusive, in
// chronological order, with the date's verdict. It visits nothing when the
// habit has no usable start date or upto precedes it, which makes every
// scan total over out-of-range input.
func (s *Snapshot) walk(upto time.Time, visit func(date time.Time, v models.DayVerdict)) {
	if !s.hasStart || upto.Before(s.start) {
		return
	}
	for date := s.start; !date.After(upto); date = date.AddDate(0, 0, 1) {
		visit(date, s.Verdict(date))
	}
}
