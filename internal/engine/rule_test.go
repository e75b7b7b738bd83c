package engine

import (
	"testing"
	"time"

	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/utils"
)

func mustDay(t *testing.T, day string) time.Time {
	t.Helper()
	parsed, err := utils.ParseDay(day)
	if err != nil {
		t.Fatalf("failed to parse day %q: %v", day, err)
	}
	return parsed
}

func weekdayMask(days ...time.Weekday) []bool {
	mask := make([]bool, constants.DaysPerWeek)
	for _, wd := range days {
		mask[utils.MondayIndex(wd)] = true
	}
	return mask
}

func monthDayMask(days ...int) []bool {
	mask := make([]bool, constants.MaxMonthDays)
	for _, d := range days {
		mask[d-1] = true
	}
	return mask
}

func TestIsScheduled_DailyEveryDay(t *testing.T) {
	rule := models.RecurrenceRule{Type: constants.RuleDailyEveryDay}
	anchor := mustDay(t, "2024-01-01")

	if !IsScheduled(rule, anchor, mustDay(t, "2024-01-01")) {
		t.Error("Expected daily rule to match its anchor date")
	}
	if !IsScheduled(rule, anchor, mustDay(t, "2025-06-15")) {
		t.Error("Expected daily rule to match any later date")
	}
	if IsScheduled(rule, anchor, mustDay(t, "2023-12-31")) {
		t.Error("Expected daily rule not to match dates before the anchor")
	}
}

func TestIsScheduled_DailyInterval(t *testing.T) {
	rule := models.RecurrenceRule{Type: constants.RuleDailyInterval, IntervalDays: 3}
	anchor := mustDay(t, "2024-01-01")

	active := []string{"2024-01-01", "2024-01-04", "2024-01-07"}
	inactive := []string{"2024-01-02", "2024-01-03", "2024-01-05"}

	for _, day := range active {
		if !IsScheduled(rule, anchor, mustDay(t, day)) {
			t.Errorf("Expected interval(3) rule to match %s", day)
		}
	}
	for _, day := range inactive {
		if IsScheduled(rule, anchor, mustDay(t, day)) {
			t.Errorf("Expected interval(3) rule not to match %s", day)
		}
	}
}

func TestIsScheduled_DailyInterval_NonPositiveInterval(t *testing.T) {
	// N <= 0 is treated as every day
	rule := models.RecurrenceRule{Type: constants.RuleDailyInterval, IntervalDays: 0}
	anchor := mustDay(t, "2024-01-01")

	for _, day := range []string{"2024-01-01", "2024-01-02", "2024-01-03"} {
		if !IsScheduled(rule, anchor, mustDay(t, day)) {
			t.Errorf("Expected interval(0) rule to behave as daily on %s", day)
		}
	}
}

func TestIsScheduled_SpecificDays_Rotation(t *testing.T) {
	// Two-week rotation: week 0 = Monday only, week 1 = Friday only.
	mask := make([]bool, 14)
	mask[0] = true // week 0, Monday
	mask[7+4] = true // week 1, Friday
	rule := models.RecurrenceRule{Type: constants.RuleDailySpecificDays, DaysMask: mask, WeeksInRotation: 2}
	anchor := mustDay(t, "2024-01-01") // a Monday

	if !IsScheduled(rule, anchor, mustDay(t, "2024-01-01")) {
		t.Error("Expected Monday of week 0 to be active")
	}
	if IsScheduled(rule, anchor, mustDay(t, "2024-01-08")) {
		t.Error("Expected Monday of week 1 to be inactive (Friday-only week)")
	}
	if !IsScheduled(rule, anchor, mustDay(t, "2024-01-12")) {
		t.Error("Expected Friday of week 1 to be active")
	}
	if !IsScheduled(rule, anchor, mustDay(t, "2024-01-15")) {
		t.Error("Expected Monday of week 2 to be active (rotation wraps to week 0)")
	}
}

func TestIsScheduled_SpecificDays_AnchorMidWeek(t *testing.T) {
	// Rotation weeks are anchored to the Monday of the anchor's week, so a
	// Wednesday anchor still puts that whole week at rotation index 0.
	mask := make([]bool, 14)
	mask[4] = true // week 0, Friday
	rule := models.RecurrenceRule{Type: constants.RuleDailySpecificDays, DaysMask: mask, WeeksInRotation: 2}
	anchor := mustDay(t, "2024-01-03") // a Wednesday

	if !IsScheduled(rule, anchor, mustDay(t, "2024-01-05")) {
		t.Error("Expected Friday of the anchor week to be active")
	}
	if IsScheduled(rule, anchor, mustDay(t, "2024-01-12")) {
		t.Error("Expected Friday of the following week to be inactive")
	}
}

func TestIsScheduled_SpecificDays_MalformedMask(t *testing.T) {
	anchor := mustDay(t, "2024-01-01")
	tests := []struct {
		name string
		mask []bool
	}{
		{"empty mask", nil},
		{"too short", make([]bool, 5)},
		{"not multiple of seven", make([]bool, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := models.RecurrenceRule{Type: constants.RuleDailySpecificDays, DaysMask: tt.mask}
			for i := 0; i < 14; i++ {
				date := anchor.AddDate(0, 0, i)
				if IsScheduled(rule, anchor, date) {
					t.Errorf("Expected malformed mask to select no days, matched %s", utils.FormatDay(date))
				}
			}
		})
	}
}

func TestIsScheduled_Weekly(t *testing.T) {
	rule := models.RecurrenceRule{
		Type:        constants.RuleWeekly,
		WeekdayMask: weekdayMask(time.Monday, time.Thursday),
	}
	anchor := mustDay(t, "2024-01-01")

	if !IsScheduled(rule, anchor, mustDay(t, "2024-01-01")) {
		t.Error("Expected Monday to be active")
	}
	if !IsScheduled(rule, anchor, mustDay(t, "2024-01-04")) {
		t.Error("Expected Thursday to be active")
	}
	if IsScheduled(rule, anchor, mustDay(t, "2024-01-02")) {
		t.Error("Expected Tuesday to be inactive")
	}
	if !IsScheduled(rule, anchor, mustDay(t, "2024-01-08")) {
		t.Error("Expected Monday of the next week to be active")
	}
}

func TestIsScheduled_WeeklyInterval(t *testing.T) {
	rule := models.RecurrenceRule{
		Type:          constants.RuleWeeklyInterval,
		WeekdayMask:   weekdayMask(time.Wednesday),
		IntervalWeeks: 2,
	}
	anchor := mustDay(t, "2024-01-01")

	if !IsScheduled(rule, anchor, mustDay(t, "2024-01-03")) {
		t.Error("Expected Wednesday of week 0 to be active")
	}
	if IsScheduled(rule, anchor, mustDay(t, "2024-01-10")) {
		t.Error("Expected Wednesday of week 1 to be inactive (out-of-scope week)")
	}
	if !IsScheduled(rule, anchor, mustDay(t, "2024-01-17")) {
		t.Error("Expected Wednesday of week 2 to be active")
	}
}

func TestIsScheduled_Monthly(t *testing.T) {
	rule := models.RecurrenceRule{
		Type:         constants.RuleMonthly,
		MonthDayMask: monthDayMask(1, 15, 31),
	}
	anchor := mustDay(t, "2024-01-01")

	if !IsScheduled(rule, anchor, mustDay(t, "2024-01-15")) {
		t.Error("Expected the 15th to be active")
	}
	if !IsScheduled(rule, anchor, mustDay(t, "2024-01-31")) {
		t.Error("Expected January 31st to be active")
	}
	if IsScheduled(rule, anchor, mustDay(t, "2024-01-16")) {
		t.Error("Expected the 16th to be inactive")
	}
	// April has 30 days, so the day-31 bit simply never fires that month
	if !IsScheduled(rule, anchor, mustDay(t, "2024-04-15")) {
		t.Error("Expected April 15th to be active")
	}
}

func TestIsScheduled_MonthlyInterval(t *testing.T) {
	rule := models.RecurrenceRule{
		Type:           constants.RuleMonthlyInterval,
		MonthDayMask:   monthDayMask(10),
		IntervalMonths: 3,
	}
	anchor := mustDay(t, "2024-01-01")

	if !IsScheduled(rule, anchor, mustDay(t, "2024-01-10")) {
		t.Error("Expected January 10th to be active")
	}
	if IsScheduled(rule, anchor, mustDay(t, "2024-02-10")) {
		t.Error("Expected February 10th to be inactive")
	}
	if !IsScheduled(rule, anchor, mustDay(t, "2024-04-10")) {
		t.Error("Expected April 10th to be active")
	}
}

func TestIsScheduled_UnknownRuleType(t *testing.T) {
	rule := models.RecurrenceRule{Type: "someday"}
	anchor := mustDay(t, "2024-01-01")
	if IsScheduled(rule, anchor, mustDay(t, "2024-01-01")) {
		t.Error("Expected unknown rule type never to match")
	}
}
