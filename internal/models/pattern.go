package models

import (
	"time"

	"github.com/julianstephens/habitkit/internal/constants"
)

// RecurrenceRule is one shape of schedule carried inside a pattern. The Type
// tag selects which fields are meaningful; evaluation is an exhaustive switch
// in the engine.
type RecurrenceRule struct {
	Type constants.RuleType `json:"type"`

	// daily-interval: match every IntervalDays days from the anchor
	IntervalDays int `json:"interval_days,omitempty"`

	// daily-specific-days: repeating bitset of length 7*WeeksInRotation,
	// Monday=0 within each rotation week
	DaysMask        []bool `json:"days_mask,omitempty"`
	WeeksInRotation int    `json:"weeks_in_rotation,omitempty"`

	// weekly / weekly-interval: 7-bit weekday mask (Monday=0) plus week scope
	WeekdayMask   []bool `json:"weekday_mask,omitempty"`
	IntervalWeeks int    `json:"interval_weeks,omitempty"`

	// monthly / monthly-interval: 31-bit day-of-month mask plus month scope
	MonthDayMask   []bool `json:"month_day_mask,omitempty"`
	IntervalMonths int    `json:"interval_months,omitempty"`
}

// RecurrencePattern is one version of a habit's schedule. Patterns are
// totally ordered by EffectiveFrom and effective until superseded by the
// next one; the latest is open-ended.
type RecurrencePattern struct {
	ID            string             `json:"id"`
	HabitID       string             `json:"habit_id"`
	EffectiveFrom string             `json:"effective_from"` // YYYY-MM-DD format
	CreatedAt     time.Time          `json:"created_at"`
	RepeatsPerDay int                `json:"repeats_per_day"`
	Modality      constants.Modality `json:"modality"`

	// DurationTargetMin is the daily duration target in minutes (duration modality)
	DurationTargetMin int `json:"duration_target_min,omitempty"`
	// QuantityTarget and QuantityUnit describe the quantity modality target
	QuantityTarget int    `json:"quantity_target,omitempty"`
	QuantityUnit   string `json:"quantity_unit,omitempty"`

	// FollowUp relaxes streak breaking for missed days under this pattern
	FollowUp bool `json:"follow_up"`

	Rule RecurrenceRule `json:"rule"`
}

// Target returns the per-day completion target for the pattern's modality.
// Degenerate targets (<= 0) collapse to 1 so progress ratios stay defined.
func (p RecurrencePattern) Target() int {
	var target int
	switch p.Modality {
	case constants.ModalityRepetitions:
		target = p.RepeatsPerDay
	case constants.ModalityDuration:
		target = p.DurationTargetMin
	case constants.ModalityQuantity:
		target = p.QuantityTarget
	}
	if target <= 0 {
		target = 1
	}
	return target
}
