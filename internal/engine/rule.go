package engine

import (
	"time"

	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/logger"
	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/utils"
)

// IsScheduled decides whether a recurrence rule places an occurrence on the
// candidate date. The anchor is the date interval and rotation counting
// begins from: the pattern's effective-from date, or the habit start date
// for a habit's first pattern. Callers must already have resolved the
// correct pattern for the date; dates before the anchor never match.
func IsScheduled(rule models.RecurrenceRule, anchor, date time.Time) bool {
	if date.Before(anchor) {
		return false
	}

	switch rule.Type {
	case constants.RuleDailyEveryDay:
		return true
	case constants.RuleDailyInterval:
		return matchesDailyInterval(rule, anchor, date)
	case constants.RuleDailySpecificDays:
		return matchesSpecificDays(rule, anchor, date)
	case constants.RuleWeekly, constants.RuleWeeklyInterval:
		return matchesWeekly(rule, anchor, date)
	case constants.RuleMonthly, constants.RuleMonthlyInterval:
		return matchesMonthly(rule, anchor, date)
	default:
		logger.Warn("Unknown recurrence rule type", "type", rule.Type)
		return false
	}
}

func matchesDailyInterval(rule models.RecurrenceRule, anchor, date time.Time) bool {
	interval := rule.IntervalDays
	if interval <= 0 {
		interval = 1
	}
	return utils.DaysBetween(anchor, date)%interval == 0
}

func matchesSpecificDays(rule models.RecurrenceRule, anchor, date time.Time) bool {
	mask := rule.DaysMask
	// A mask that is not a whole number of weeks, or shorter than one week,
	// selects no days at all. Malformed schedules degrade to "never active"
	// instead of failing the scan.
	if len(mask) < constants.DaysPerWeek || len(mask)%constants.DaysPerWeek != 0 {
		logger.Warn("Malformed specific-days mask, treating as no days selected", "len", len(mask))
		return false
	}

	weeks := len(mask) / constants.DaysPerWeek
	weekIndex := utils.WeeksBetween(anchor, date) % weeks
	if weekIndex < 0 {
		weekIndex += weeks
	}
	dayIndex := utils.MondayIndex(date.Weekday())
	return mask[weekIndex*constants.DaysPerWeek+dayIndex]
}

func matchesWeekly(rule models.RecurrenceRule, anchor, date time.Time) bool {
	if len(rule.WeekdayMask) != constants.DaysPerWeek {
		logger.Warn("Malformed weekday mask, treating as no days selected", "len", len(rule.WeekdayMask))
		return false
	}

	interval := rule.IntervalWeeks
	if interval <= 0 {
		interval = 1
	}
	if utils.WeeksBetween(anchor, date)%interval != 0 {
		return false
	}
	return rule.WeekdayMask[utils.MondayIndex(date.Weekday())]
}

func matchesMonthly(rule models.RecurrenceRule, anchor, date time.Time) bool {
	if len(rule.MonthDayMask) != constants.MaxMonthDays {
		logger.Warn("Malformed month-day mask, treating as no days selected", "len", len(rule.MonthDayMask))
		return false
	}

	interval := rule.IntervalMonths
	if interval <= 0 {
		interval = 1
	}
	if utils.MonthsBetween(anchor, date)%interval != 0 {
		return false
	}
	// Day indices 29-31 only fire in months that actually have those days;
	// a shorter month never reaches those bit positions.
	return rule.MonthDayMask[date.Day()-1]
}
