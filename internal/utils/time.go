package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitkit/internal/constants"
)

// ParseDay parses a day key (YYYY-MM-DD) into a UTC midnight time.Time.
// All engine date arithmetic runs on UTC midnights so that whole-day and
// whole-week differences are exact regardless of DST in the user's zone.
func ParseDay(day string) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, day)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q: %w", day, err)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// FormatDay formats a time as a day key (YYYY-MM-DD).
func FormatDay(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// DayOf normalizes an arbitrary timestamp to its UTC midnight calendar day.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// TodayInTimezone returns today's day key (YYYY-MM-DD) in the specified
// timezone. "Today" is determined by the user's configured timezone, not by
// the system timezone.
func TodayInTimezone(timezone string) (string, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return "", fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return time.Now().In(loc).Format(constants.DateFormat), nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	if timezone == "" || timezone == "Local" {
		return true
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}

// DaysBetween returns the number of whole calendar days from a to b.
// Both arguments must be UTC midnights; the result is negative when b < a.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// MondayOfWeek returns the Monday of the week containing t, at UTC midnight.
func MondayOfWeek(t time.Time) time.Time {
	day := DayOf(t)
	offset := MondayIndex(day.Weekday())
	return day.AddDate(0, 0, -offset)
}

// MondayIndex maps a weekday onto a Monday-based index (Monday=0 .. Sunday=6).
func MondayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// WeeksBetween returns the number of whole weeks between the Mondays of the
// weeks containing a and b.
func WeeksBetween(a, b time.Time) int {
	return DaysBetween(MondayOfWeek(a), MondayOfWeek(b)) / 7
}

// MonthsBetween returns the number of whole calendar months from a's month
// to b's month, ignoring the day of month.
func MonthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

// DaysInMonth returns the number of days in the month containing t.
func DaysInMonth(t time.Time) int {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, 1, -1).Day()
}
