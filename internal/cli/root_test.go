package cli

import (
	"testing"

	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/models"
)

func TestParseWeekdays(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []int // indices expected to be set, Monday=0
		wantErr bool
	}{
		{"short names", "mon,wed,fri", []int{0, 2, 4}, false},
		{"long names", "monday,sunday", []int{0, 6}, false},
		{"mixed case and spaces", " Tue , SAT ", []int{1, 5}, false},
		{"invalid name", "mon,funday", nil, true},
		{"empty segments ignored", "mon,,fri", []int{0, 4}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mask, err := ParseWeekdays(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseWeekdays(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseWeekdays(%q) failed: %v", tt.input, err)
			}
			if len(mask) != constants.DaysPerWeek {
				t.Fatalf("mask length = %d, want %d", len(mask), constants.DaysPerWeek)
			}
			for i := range mask {
				want := false
				for _, idx := range tt.want {
					if i == idx {
						want = true
					}
				}
				if mask[i] != want {
					t.Errorf("mask[%d] = %v, want %v", i, mask[i], want)
				}
			}
		})
	}
}

func TestParseRotationDays(t *testing.T) {
	mask, err := ParseRotationDays("mon,wed,fri;tue,thu", 2)
	if err != nil {
		t.Fatalf("ParseRotationDays() failed: %v", err)
	}
	if len(mask) != 14 {
		t.Fatalf("mask length = %d, want 14", len(mask))
	}
	// Week 0: Mon, Wed, Fri
	for i, want := range []bool{true, false, true, false, true, false, false} {
		if mask[i] != want {
			t.Errorf("week 0 mask[%d] = %v, want %v", i, mask[i], want)
		}
	}
	// Week 1: Tue, Thu
	for i, want := range []bool{false, true, false, true, false, false, false} {
		if mask[7+i] != want {
			t.Errorf("week 1 mask[%d] = %v, want %v", i, mask[7+i], want)
		}
	}
}

func TestParseRotationDaysSegmentMismatch(t *testing.T) {
	if _, err := ParseRotationDays("mon;tue;wed", 2); err == nil {
		t.Error("expected error for 3 segments with --weeks 2")
	}
}

func TestParseRotationDaysInfersWeeks(t *testing.T) {
	mask, err := ParseRotationDays("mon;tue;wed", 0)
	if err != nil {
		t.Fatalf("ParseRotationDays() failed: %v", err)
	}
	if len(mask) != 21 {
		t.Errorf("mask length = %d, want 21", len(mask))
	}
}

func TestParseMonthDays(t *testing.T) {
	mask, err := ParseMonthDays("1,15,31")
	if err != nil {
		t.Fatalf("ParseMonthDays() failed: %v", err)
	}
	if len(mask) != constants.MaxMonthDays {
		t.Fatalf("mask length = %d, want %d", len(mask), constants.MaxMonthDays)
	}
	for i := range mask {
		want := i == 0 || i == 14 || i == 30
		if mask[i] != want {
			t.Errorf("mask[%d] = %v, want %v", i, mask[i], want)
		}
	}

	if _, err := ParseMonthDays("0"); err == nil {
		t.Error("expected error for day 0")
	}
	if _, err := ParseMonthDays("32"); err == nil {
		t.Error("expected error for day 32")
	}
	if _, err := ParseMonthDays("abc"); err == nil {
		t.Error("expected error for non-numeric day")
	}
}

func TestFormatRule(t *testing.T) {
	weekdayMask := func(days ...int) []bool {
		mask := make([]bool, 7)
		for _, d := range days {
			mask[d] = true
		}
		return mask
	}

	tests := []struct {
		name string
		rule models.RecurrenceRule
		want string
	}{
		{
			"daily",
			models.RecurrenceRule{Type: constants.RuleDailyEveryDay},
			"every day",
		},
		{
			"daily interval",
			models.RecurrenceRule{Type: constants.RuleDailyInterval, IntervalDays: 3},
			"every 3 days",
		},
		{
			"daily interval of one",
			models.RecurrenceRule{Type: constants.RuleDailyInterval, IntervalDays: 1},
			"every day",
		},
		{
			"weekly",
			models.RecurrenceRule{Type: constants.RuleWeekly, WeekdayMask: weekdayMask(0, 4)},
			"weekly on Mon,Fri",
		},
		{
			"weekly interval",
			models.RecurrenceRule{Type: constants.RuleWeeklyInterval, IntervalWeeks: 2, WeekdayMask: weekdayMask(2)},
			"every 2 weeks on Wed",
		},
		{
			"rotation",
			models.RecurrenceRule{
				Type:            constants.RuleDailySpecificDays,
				WeeksInRotation: 2,
				DaysMask:        append(weekdayMask(0), weekdayMask(4)...),
			},
			"2-week rotation: Mon / Fri",
		},
		{
			"unknown",
			models.RecurrenceRule{Type: "lunar"},
			"unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatRule(tt.rule); got != tt.want {
				t.Errorf("FormatRule() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatTarget(t *testing.T) {
	tests := []struct {
		name    string
		pattern models.RecurrencePattern
		want    string
	}{
		{
			"single repetition",
			models.RecurrencePattern{Modality: constants.ModalityRepetitions, RepeatsPerDay: 1},
			"1x",
		},
		{
			"multiple repetitions",
			models.RecurrencePattern{Modality: constants.ModalityRepetitions, RepeatsPerDay: 3},
			"3x",
		},
		{
			"duration",
			models.RecurrencePattern{Modality: constants.ModalityDuration, DurationTargetMin: 20},
			"20 min",
		},
		{
			"quantity with unit",
			models.RecurrencePattern{Modality: constants.ModalityQuantity, QuantityTarget: 8, QuantityUnit: "glasses"},
			"8 glasses",
		},
		{
			"quantity without unit",
			models.RecurrencePattern{Modality: constants.ModalityQuantity, QuantityTarget: 5},
			"5 units",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTarget(tt.pattern); got != tt.want {
				t.Errorf("FormatTarget() = %q, want %q", got, tt.want)
			}
		})
	}
}
