package validation

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/models"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictInvalidStartDate     ConflictType = "invalid_start_date"
	ConflictInvalidRepeats       ConflictType = "invalid_repeats"
	ConflictInvalidModality      ConflictType = "invalid_modality"
	ConflictInvalidRule          ConflictType = "invalid_rule"
	ConflictMalformedMask        ConflictType = "malformed_mask"
	ConflictPatternOrder         ConflictType = "pattern_order"
	ConflictDuplicatePatternDate ConflictType = "duplicate_pattern_date"
	ConflictSkipAndCompletion    ConflictType = "skip_and_completion"
	ConflictDuplicateHabitName   ConflictType = "duplicate_habit_name"
)

// Conflict represents a detected problem in habit configuration or data
type Conflict struct {
	Type        ConflictType
	Description string
	Items       []string // Habit/pattern/record IDs involved
}

// Result contains all detected conflicts
type Result struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (r *Result) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (r *Result) FormatReport() string {
	if !r.HasConflicts() {
		return "No conflicts detected."
	}

	report := "Conflicts detected:\n"
	for _, conflict := range r.Conflicts {
		report += fmt.Sprintf("- %s\n", conflict.Description)
	}
	return report
}

// Validator validates habits, patterns, and completion records
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateHabits checks a set of habits for duplicate names and bad start dates.
func (v *Validator) ValidateHabits(habits []models.Habit) Result {
	result := Result{Conflicts: []Conflict{}}

	nameCount := make(map[string][]string)
	for _, habit := range habits {
		if habit.DeletedAt != nil {
			continue
		}
		if habit.Name != "" {
			nameCount[habit.Name] = append(nameCount[habit.Name], habit.ID)
		}
		if _, err := time.Parse(constants.DateFormat, habit.StartDate); err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidStartDate,
				Description: fmt.Sprintf("habit %q has invalid start date %q (expected YYYY-MM-DD)", habit.Name, habit.StartDate),
				Items:       []string{habit.ID},
			})
		}
	}

	for name, ids := range nameCount {
		if len(ids) > 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateHabitName,
				Description: fmt.Sprintf("multiple habits share the name %q", name),
				Items:       ids,
			})
		}
	}

	return result
}

// ValidatePatterns checks one habit's pattern history: every pattern must be
// individually well-formed and the history must be strictly ordered by
// effective-from with no duplicates, so that exactly one pattern is effective
// for any date.
func (v *Validator) ValidatePatterns(habit models.Habit, patterns []models.RecurrencePattern) Result {
	result := Result{Conflicts: []Conflict{}}

	seen := make(map[string]string)
	prev := ""
	for _, pattern := range patterns {
		result.Conflicts = append(result.Conflicts, v.validatePattern(pattern)...)

		if firstID, dup := seen[pattern.EffectiveFrom]; dup {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicatePatternDate,
				Description: fmt.Sprintf("habit %q has two patterns effective from %s", habit.Name, pattern.EffectiveFrom),
				Items:       []string{firstID, pattern.ID},
			})
		}
		seen[pattern.EffectiveFrom] = pattern.ID

		if prev != "" && pattern.EffectiveFrom < prev {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictPatternOrder,
				Description: fmt.Sprintf("habit %q pattern history is not ordered at %s", habit.Name, pattern.EffectiveFrom),
				Items:       []string{pattern.ID},
			})
		}
		prev = pattern.EffectiveFrom
	}

	return result
}

func (v *Validator) validatePattern(pattern models.RecurrencePattern) []Conflict {
	var conflicts []Conflict

	if _, err := time.Parse(constants.DateFormat, pattern.EffectiveFrom); err != nil {
		conflicts = append(conflicts, Conflict{
			Type:        ConflictInvalidStartDate,
			Description: fmt.Sprintf("pattern %s has invalid effective-from %q", pattern.ID, pattern.EffectiveFrom),
			Items:       []string{pattern.ID},
		})
	}

	if pattern.RepeatsPerDay < 1 {
		conflicts = append(conflicts, Conflict{
			Type:        ConflictInvalidRepeats,
			Description: fmt.Sprintf("pattern %s requires at least 1 repeat per day, has %d", pattern.ID, pattern.RepeatsPerDay),
			Items:       []string{pattern.ID},
		})
	}

	switch pattern.Modality {
	case constants.ModalityRepetitions, constants.ModalityDuration, constants.ModalityQuantity:
	default:
		conflicts = append(conflicts, Conflict{
			Type:        ConflictInvalidModality,
			Description: fmt.Sprintf("pattern %s has unknown modality %q", pattern.ID, pattern.Modality),
			Items:       []string{pattern.ID},
		})
	}

	conflicts = append(conflicts, v.validateRule(pattern.ID, pattern.Rule)...)
	return conflicts
}

func (v *Validator) validateRule(patternID string, rule models.RecurrenceRule) []Conflict {
	var conflicts []Conflict

	malformed := func(desc string) {
		conflicts = append(conflicts, Conflict{
			Type:        ConflictMalformedMask,
			Description: fmt.Sprintf("pattern %s: %s", patternID, desc),
			Items:       []string{patternID},
		})
	}

	switch rule.Type {
	case constants.RuleDailyEveryDay:
	case constants.RuleDailyInterval:
		if rule.IntervalDays < 1 {
			malformed(fmt.Sprintf("daily interval must be positive, is %d", rule.IntervalDays))
		}
	case constants.RuleDailySpecificDays:
		if len(rule.DaysMask) < constants.DaysPerWeek || len(rule.DaysMask)%constants.DaysPerWeek != 0 {
			malformed(fmt.Sprintf("specific-days mask length %d is not a positive multiple of 7", len(rule.DaysMask)))
		} else if !anySet(rule.DaysMask) {
			malformed("specific-days mask selects no days")
		}
	case constants.RuleWeekly, constants.RuleWeeklyInterval:
		if len(rule.WeekdayMask) != constants.DaysPerWeek {
			malformed(fmt.Sprintf("weekday mask length %d, want 7", len(rule.WeekdayMask)))
		} else if !anySet(rule.WeekdayMask) {
			malformed("weekday mask selects no days")
		}
		if rule.Type == constants.RuleWeeklyInterval && rule.IntervalWeeks < 1 {
			malformed(fmt.Sprintf("weekly interval must be positive, is %d", rule.IntervalWeeks))
		}
	case constants.RuleMonthly, constants.RuleMonthlyInterval:
		if len(rule.MonthDayMask) != constants.MaxMonthDays {
			malformed(fmt.Sprintf("month-day mask length %d, want 31", len(rule.MonthDayMask)))
		} else if !anySet(rule.MonthDayMask) {
			malformed("month-day mask selects no days")
		}
		if rule.Type == constants.RuleMonthlyInterval && rule.IntervalMonths < 1 {
			malformed(fmt.Sprintf("monthly interval must be positive, is %d", rule.IntervalMonths))
		}
	default:
		conflicts = append(conflicts, Conflict{
			Type:        ConflictInvalidRule,
			Description: fmt.Sprintf("pattern %s has unknown rule type %q", patternID, rule.Type),
			Items:       []string{patternID},
		})
	}

	return conflicts
}

// ValidateRecords enforces the skip/completion exclusivity invariant the
// engine otherwise has to resolve by precedence at query time: no day may
// carry both a skip record and completion records.
func (v *Validator) ValidateRecords(habit models.Habit, records []models.CompletionRecord) Result {
	result := Result{Conflicts: []Conflict{}}

	type dayState struct {
		skipped   bool
		completed bool
		ids       []string
	}
	days := make(map[string]*dayState)
	for _, rec := range records {
		if rec.DeletedAt != nil {
			continue
		}
		state := days[rec.Day]
		if state == nil {
			state = &dayState{}
			days[rec.Day] = state
		}
		if rec.Skipped {
			state.skipped = true
		} else {
			state.completed = true
		}
		state.ids = append(state.ids, rec.ID)

		if rec.Skipped && rec.Completed {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictSkipAndCompletion,
				Description: fmt.Sprintf("record %s on %s is both skipped and completed", rec.ID, rec.Day),
				Items:       []string{rec.ID},
			})
		}
	}

	for day, state := range days {
		if state.skipped && state.completed {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictSkipAndCompletion,
				Description: fmt.Sprintf("habit %q has both a skip and completions on %s", habit.Name, day),
				Items:       state.ids,
			})
		}
	}

	return result
}

func anySet(mask []bool) bool {
	for _, set := range mask {
		if set {
			return true
		}
	}
	return false
}
