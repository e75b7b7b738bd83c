package engine

import (
	"time"

	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/utils"
)

// Ledger answers aggregate questions about a habit's completion records,
// keyed by normalized local day. It is a pure read-side index: records are
// grouped once at construction and never mutated.
type Ledger struct {
	byDay map[string][]models.CompletionRecord
}

// NewLedger indexes completion records by day key. Soft-deleted records are
// excluded; deleting a record from the store and rebuilding the snapshot is
// how "last completion" and streaks move backwards.
func NewLedger(records []models.CompletionRecord) Ledger {
	byDay := make(map[string][]models.CompletionRecord, len(records))
	for _, rec := range records {
		if rec.DeletedAt != nil {
			continue
		}
		day := rec.Day
		if day == "" {
			// Fall back to the logged-at timestamp's calendar day
			day = utils.FormatDay(rec.LoggedAt)
		}
		byDay[day] = append(byDay[day], rec)
	}
	return Ledger{byDay: byDay}
}

// RepetitionsLogged returns the count of non-skip completion records on a day.
func (l Ledger) RepetitionsLogged(date time.Time) int {
	count := 0
	for _, rec := range l.byDay[utils.FormatDay(date)] {
		if !rec.Skipped {
			count++
		}
	}
	return count
}

// DurationLogged returns the summed duration payload (minutes) on a day.
func (l Ledger) DurationLogged(date time.Time) int {
	total := 0
	for _, rec := range l.byDay[utils.FormatDay(date)] {
		if !rec.Skipped {
			total += rec.DurationMin
		}
	}
	return total
}

// QuantityLogged returns the summed quantity payload on a day.
func (l Ledger) QuantityLogged(date time.Time) int {
	total := 0
	for _, rec := range l.byDay[utils.FormatDay(date)] {
		if !rec.Skipped {
			total += rec.Quantity
		}
	}
	return total
}

// IsSkipped reports whether any record on the day carries the skip flag.
// Skip and completion are mutually exclusive per day in the data model; if
// both somehow exist, skip takes precedence.
func (l Ledger) IsSkipped(date time.Time) bool {
	for _, rec := range l.byDay[utils.FormatDay(date)] {
		if rec.Skipped {
			return true
		}
	}
	return false
}

// HasRecords reports whether any non-skip record exists on the day.
func (l Ledger) HasRecords(date time.Time) bool {
	for _, rec := range l.byDay[utils.FormatDay(date)] {
		if !rec.Skipped {
			return true
		}
	}
	return false
}
