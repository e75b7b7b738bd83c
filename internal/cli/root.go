package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/engine"
	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/storage"
	"github.com/julianstephens/habitkit/internal/utils"
)

type Context struct {
	Store storage.Provider
	Cache *engine.VerdictCache
}

// Snapshot assembles the engine view of a habit from its stored patterns
// and completion records.
func (c *Context) Snapshot(habit models.Habit) (*engine.Snapshot, error) {
	patterns, err := c.Store.GetPatternsForHabit(habit.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load patterns for %q: %w", habit.Name, err)
	}
	records, err := c.Store.GetCompletionsForHabit(habit.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load completions for %q: %w", habit.Name, err)
	}
	return engine.NewSnapshot(habit, patterns, records), nil
}

// ResolveHabit looks a habit up by name.
func (c *Context) ResolveHabit(name string) (models.Habit, error) {
	habit, err := c.Store.GetHabitByName(name)
	if err != nil {
		return models.Habit{}, fmt.Errorf("habit %q not found", name)
	}
	return habit, nil
}

// Today returns the current calendar day in the configured timezone.
func (c *Context) Today() (time.Time, error) {
	settings, err := c.Store.GetSettings()
	if err != nil {
		return time.Time{}, err
	}
	day, err := utils.TodayInTimezone(settings.Timezone)
	if err != nil {
		return time.Time{}, err
	}
	return utils.ParseDay(day)
}

// ResolveDay parses an explicit YYYY-MM-DD argument, falling back to today.
func (c *Context) ResolveDay(arg string) (time.Time, error) {
	if arg == "" {
		return c.Today()
	}
	day, err := utils.ParseDay(arg)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", arg)
	}
	return day, nil
}

var weekdayNames = map[string]int{
	"mon": 0, "monday": 0,
	"tue": 1, "tuesday": 1,
	"wed": 2, "wednesday": 2,
	"thu": 3, "thursday": 3,
	"fri": 4, "friday": 4,
	"sat": 5, "saturday": 5,
	"sun": 6, "sunday": 6,
}

// ParseWeekdays parses a comma-separated list of weekday names into a
// Monday-first 7-day mask.
func ParseWeekdays(s string) ([]bool, error) {
	mask := make([]bool, constants.DaysPerWeek)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if part == "" {
			continue
		}
		idx, ok := weekdayNames[part]
		if !ok {
			return nil, fmt.Errorf("invalid weekday: %s", part)
		}
		mask[idx] = true
	}
	return mask, nil
}

// ParseRotationDays parses weekday lists for each week of a rotation,
// separated by semicolons, into a flat weeks*7 mask.
//
//	"mon,wed,fri;tue,thu" -> two-week rotation
func ParseRotationDays(s string, weeks int) ([]bool, error) {
	parts := strings.Split(s, ";")
	if weeks <= 0 {
		weeks = len(parts)
	}
	if len(parts) != weeks {
		return nil, fmt.Errorf("expected %d week segments, got %d", weeks, len(parts))
	}

	mask := make([]bool, 0, weeks*constants.DaysPerWeek)
	for _, part := range parts {
		weekMask, err := ParseWeekdays(part)
		if err != nil {
			return nil, err
		}
		mask = append(mask, weekMask...)
	}
	return mask, nil
}

// ParseMonthDays parses a comma-separated list of days of the month (1-31)
// into a 31-day mask.
func ParseMonthDays(s string) ([]bool, error) {
	mask := make([]bool, constants.MaxMonthDays)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		day, err := strconv.Atoi(part)
		if err != nil || day < 1 || day > constants.MaxMonthDays {
			return nil, fmt.Errorf("invalid day of month: %s", part)
		}
		mask[day-1] = true
	}
	return mask, nil
}

var weekdayShort = [constants.DaysPerWeek]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

func formatWeekdayMask(mask []bool) string {
	var days []string
	for i, set := range mask {
		if set && i < len(weekdayShort) {
			days = append(days, weekdayShort[i])
		}
	}
	return strings.Join(days, ",")
}

// FormatRule renders a recurrence rule as a short human-readable string.
func FormatRule(rule models.RecurrenceRule) string {
	switch rule.Type {
	case constants.RuleDailyEveryDay:
		return "every day"
	case constants.RuleDailyInterval:
		if rule.IntervalDays <= 1 {
			return "every day"
		}
		return fmt.Sprintf("every %d days", rule.IntervalDays)
	case constants.RuleDailySpecificDays:
		weeks := rule.WeeksInRotation
		if weeks <= 1 {
			return "on " + formatWeekdayMask(rule.DaysMask)
		}
		var segments []string
		for w := 0; w < weeks && (w+1)*constants.DaysPerWeek <= len(rule.DaysMask); w++ {
			segment := formatWeekdayMask(rule.DaysMask[w*constants.DaysPerWeek : (w+1)*constants.DaysPerWeek])
			if segment == "" {
				segment = "-"
			}
			segments = append(segments, segment)
		}
		return fmt.Sprintf("%d-week rotation: %s", weeks, strings.Join(segments, " / "))
	case constants.RuleWeekly:
		return "weekly on " + formatWeekdayMask(rule.WeekdayMask)
	case constants.RuleWeeklyInterval:
		return fmt.Sprintf("every %d weeks on %s", rule.IntervalWeeks, formatWeekdayMask(rule.WeekdayMask))
	case constants.RuleMonthly:
		return "monthly on day " + formatMonthDayMask(rule.MonthDayMask)
	case constants.RuleMonthlyInterval:
		return fmt.Sprintf("every %d months on day %s", rule.IntervalMonths, formatMonthDayMask(rule.MonthDayMask))
	default:
		return "unknown"
	}
}

func formatMonthDayMask(mask []bool) string {
	var days []string
	for i, set := range mask {
		if set {
			days = append(days, strconv.Itoa(i+1))
		}
	}
	return strings.Join(days, ",")
}

// FormatTarget renders a pattern's daily target for display.
func FormatTarget(p models.RecurrencePattern) string {
	switch p.Modality {
	case constants.ModalityDuration:
		return fmt.Sprintf("%d min", p.DurationTargetMin)
	case constants.ModalityQuantity:
		unit := p.QuantityUnit
		if unit == "" {
			unit = "units"
		}
		return fmt.Sprintf("%d %s", p.QuantityTarget, unit)
	default:
		if p.RepeatsPerDay > 1 {
			return fmt.Sprintf("%dx", p.RepeatsPerDay)
		}
		return "1x"
	}
}
