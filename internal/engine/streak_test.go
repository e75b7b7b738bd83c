package engine

import (
	"math"
	"testing"

	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/models"
)

// buildSnapshot creates a daily habit starting 2024-01-01 with one
// repetition per day and records/skips on the given days.
func buildSnapshot(t *testing.T, completedDays []string, skippedDays []string) *Snapshot {
	t.Helper()
	var records []models.CompletionRecord
	for _, day := range completedDays {
		records = append(records, repRecord(day, 1)...)
	}
	for _, day := range skippedDays {
		records = append(records, skipRecord(day))
	}
	return NewSnapshot(testHabit("2024-01-01"), []models.RecurrencePattern{
		dailyPattern("2024-01-01", 1),
	}, records)
}

func TestCurrentStreak_Simple(t *testing.T) {
	snap := buildSnapshot(t, []string{"2024-01-01", "2024-01-02", "2024-01-03"}, nil)
	if got := snap.CurrentStreak(mustDay(t, "2024-01-03")); got != 3 {
		t.Errorf("CurrentStreak = %d, want 3", got)
	}
}

func TestCurrentStreak_BrokenByMiss(t *testing.T) {
	snap := buildSnapshot(t, []string{"2024-01-01", "2024-01-02", "2024-01-04", "2024-01-05"}, nil)
	if got := snap.CurrentStreak(mustDay(t, "2024-01-05")); got != 2 {
		t.Errorf("CurrentStreak = %d, want 2 (miss on 01-03 breaks the run)", got)
	}
}

func TestCurrentStreak_SkipPreservesButDoesNotExtend(t *testing.T) {
	// Five-day window with day 3 skipped: the run survives the skip and the
	// four completed days all count. Skip != completion and skip != failure.
	snap := buildSnapshot(t,
		[]string{"2024-01-01", "2024-01-02", "2024-01-04", "2024-01-05"},
		[]string{"2024-01-03"})

	if got := snap.CurrentStreak(mustDay(t, "2024-01-05")); got != 4 {
		t.Errorf("CurrentStreak = %d, want 4 (skip preserves the run without extending it)", got)
	}
}

func TestCurrentStreak_InactiveDaysTransparent(t *testing.T) {
	// Every-3-days schedule: off days neither break nor extend
	pattern := dailyPattern("2024-01-01", 1)
	pattern.Rule = models.RecurrenceRule{Type: constants.RuleDailyInterval, IntervalDays: 3}
	records := append(repRecord("2024-01-01", 1), repRecord("2024-01-04", 1)...)
	records = append(records, repRecord("2024-01-07", 1)...)
	snap := NewSnapshot(testHabit("2024-01-01"), []models.RecurrencePattern{pattern}, records)

	if got := snap.CurrentStreak(mustDay(t, "2024-01-08")); got != 3 {
		t.Errorf("CurrentStreak = %d, want 3 (inactive days transparent)", got)
	}
}

func TestCurrentStreak_FollowUpPausesOnMiss(t *testing.T) {
	pattern := dailyPattern("2024-01-01", 1)
	pattern.FollowUp = true
	records := append(repRecord("2024-01-01", 1), repRecord("2024-01-02", 1)...)
	records = append(records, repRecord("2024-01-04", 1)...)
	snap := NewSnapshot(testHabit("2024-01-01"), []models.RecurrencePattern{pattern}, records)

	// Without follow-up the miss on 01-03 would reset to 1; with it the run pauses
	if got := snap.CurrentStreak(mustDay(t, "2024-01-04")); got != 3 {
		t.Errorf("CurrentStreak = %d, want 3 under follow-up relaxation", got)
	}
}

func TestCurrentStreak_BeforeStartDate(t *testing.T) {
	snap := buildSnapshot(t, []string{"2024-01-01"}, nil)
	if got := snap.CurrentStreak(mustDay(t, "2023-12-01")); got != 0 {
		t.Errorf("CurrentStreak before start = %d, want 0", got)
	}
}

func TestBestStreak_LaterShorterRunDoesNotWin(t *testing.T) {
	// completed x5, miss, completed x3 => best is the 5-day run
	snap := buildSnapshot(t, []string{
		"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05",
		"2024-01-07", "2024-01-08", "2024-01-09",
	}, nil)

	best := snap.BestStreak(mustDay(t, "2024-01-01"), mustDay(t, "2024-01-09"))
	if best.Length != 5 {
		t.Errorf("BestStreak length = %d, want 5", best.Length)
	}
	if best.Start != "2024-01-01" || best.End != "2024-01-05" {
		t.Errorf("BestStreak range = %s..%s, want 2024-01-01..2024-01-05", best.Start, best.End)
	}
}

func TestBestStreak_TieKeepsEarliestRun(t *testing.T) {
	// Two 2-day runs: ties keep the earliest-found best
	snap := buildSnapshot(t, []string{
		"2024-01-01", "2024-01-02",
		"2024-01-04", "2024-01-05",
	}, nil)

	best := snap.BestStreak(mustDay(t, "2024-01-01"), mustDay(t, "2024-01-05"))
	if best.Length != 2 || best.Start != "2024-01-01" {
		t.Errorf("BestStreak = %+v, want earliest 2-day run starting 2024-01-01", best)
	}
}

func TestBestStreak_TrailingRunClosedOut(t *testing.T) {
	// A run that reaches the boundary undefeated must still win
	snap := buildSnapshot(t, []string{
		"2024-01-01",
		"2024-01-03", "2024-01-04", "2024-01-05",
	}, nil)

	best := snap.BestStreak(mustDay(t, "2024-01-01"), mustDay(t, "2024-01-05"))
	if best.Length != 3 || best.Start != "2024-01-03" || best.End != "2024-01-05" {
		t.Errorf("BestStreak = %+v, want trailing 3-day run", best)
	}
}

func TestBestStreak_NoCompletions(t *testing.T) {
	snap := buildSnapshot(t, nil, nil)
	best := snap.BestStreak(mustDay(t, "2024-01-01"), mustDay(t, "2024-01-10"))
	if best.Length != 0 {
		t.Errorf("BestStreak length = %d, want 0", best.Length)
	}
}

func TestOverdueDays(t *testing.T) {
	tests := []struct {
		name      string
		completed []string
		on        string
		want      *int
	}{
		{
			name: "no completions yet",
			on:   "2024-01-05",
			want: nil,
		},
		{
			name:      "not overdue, completed yesterday and today pending",
			completed: []string{"2024-01-01", "2024-01-02"},
			on:        "2024-01-03",
			want:      nil,
		},
		{
			name:      "two missed days since last completion",
			completed: []string{"2024-01-01"},
			on:        "2024-01-04",
			want:      intPtr(2), // 01-02 and 01-03; 01-04 itself excluded
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := buildSnapshot(t, tt.completed, nil)
			got := snap.OverdueDays(mustDay(t, tt.on))
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("OverdueDays = %d, want nil", *got)
			case tt.want != nil && got == nil:
				t.Errorf("OverdueDays = nil, want %d", *tt.want)
			case tt.want != nil && got != nil && *got != *tt.want:
				t.Errorf("OverdueDays = %d, want %d", *got, *tt.want)
			}
		})
	}
}

func TestOverdueDays_SkippedDaysNotCounted(t *testing.T) {
	snap := buildSnapshot(t, []string{"2024-01-01"}, []string{"2024-01-02"})
	// 01-02 skipped, 01-03 missed; only the miss counts
	got := snap.OverdueDays(mustDay(t, "2024-01-04"))
	if got == nil || *got != 1 {
		t.Errorf("OverdueDays = %v, want 1", got)
	}
}

func TestIsOverdue(t *testing.T) {
	snap := buildSnapshot(t, []string{"2024-01-01"}, nil)
	if !snap.IsOverdue(mustDay(t, "2024-01-04")) {
		t.Error("Expected habit with misses since last completion to be overdue")
	}
	if snap.IsOverdue(mustDay(t, "2024-01-02")) {
		t.Error("Expected habit completed on the last active day not to be overdue")
	}
}

func TestConsistency(t *testing.T) {
	snap := buildSnapshot(t,
		[]string{"2024-01-01", "2024-01-02", "2024-01-04"},
		[]string{"2024-01-05"})

	// Window 01-01..01-05: active non-skipped days are 01-01..01-04 (4),
	// completed 3 of them; the skipped day is excluded from the denominator.
	got := snap.Consistency(mustDay(t, "2024-01-01"), mustDay(t, "2024-01-05"))
	if math.Abs(got-0.75) > 1e-9 {
		t.Errorf("Consistency = %f, want 0.75", got)
	}
}

func TestConsistency_EmptyWindow(t *testing.T) {
	snap := buildSnapshot(t, nil, nil)
	if got := snap.Consistency(mustDay(t, "2023-01-01"), mustDay(t, "2023-06-01")); got != 0 {
		t.Errorf("Consistency before start = %f, want 0", got)
	}
}

func TestStreak_BadHabitInversionFlowsThrough(t *testing.T) {
	habit := testHabit("2024-01-01")
	habit.BadHabit = true
	// Logged the bad habit on 01-03 only: runs are 2 (broken) then 2 up to 01-05
	snap := NewSnapshot(habit, []models.RecurrencePattern{dailyPattern("2024-01-01", 1)},
		repRecord("2024-01-03", 1))

	if got := snap.CurrentStreak(mustDay(t, "2024-01-05")); got != 2 {
		t.Errorf("CurrentStreak = %d, want 2 (01-04 and 01-05 clean)", got)
	}
	best := snap.BestStreak(mustDay(t, "2024-01-01"), mustDay(t, "2024-01-05"))
	if best.Length != 2 || best.Start != "2024-01-01" {
		t.Errorf("BestStreak = %+v, want earliest 2-day clean run", best)
	}
}

func intPtr(n int) *int { return &n }
