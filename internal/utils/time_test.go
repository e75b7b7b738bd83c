package utils

import (
	"testing"
	"time"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := ParseDay(s)
	if err != nil {
		t.Fatalf("ParseDay(%q) failed: %v", s, err)
	}
	return parsed
}

func TestParseDay(t *testing.T) {
	parsed, err := ParseDay("2024-03-15")
	if err != nil {
		t.Fatalf("ParseDay failed: %v", err)
	}
	if parsed.Year() != 2024 || parsed.Month() != time.March || parsed.Day() != 15 {
		t.Errorf("ParseDay = %v, want 2024-03-15", parsed)
	}
	if parsed.Location() != time.UTC || parsed.Hour() != 0 {
		t.Errorf("ParseDay should return a UTC midnight, got %v", parsed)
	}

	if _, err := ParseDay("03/15/2024"); err == nil {
		t.Error("Expected error for non YYYY-MM-DD input")
	}
	if _, err := ParseDay(""); err == nil {
		t.Error("Expected error for empty input")
	}
}

func TestFormatDayRoundTrip(t *testing.T) {
	for _, s := range []string{"2024-01-01", "2024-02-29", "2025-12-31"} {
		if got := FormatDay(day(t, s)); got != s {
			t.Errorf("FormatDay(ParseDay(%q)) = %q", s, got)
		}
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"2024-01-01", "2024-01-01", 0},
		{"2024-01-01", "2024-01-04", 3},
		{"2024-01-04", "2024-01-01", -3},
		{"2024-02-28", "2024-03-01", 2}, // leap year
		{"2023-02-28", "2023-03-01", 1},
	}

	for _, tt := range tests {
		if got := DaysBetween(day(t, tt.a), day(t, tt.b)); got != tt.want {
			t.Errorf("DaysBetween(%s, %s) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestMondayOfWeek(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-01-01", "2024-01-01"}, // Monday maps to itself
		{"2024-01-03", "2024-01-01"}, // Wednesday
		{"2024-01-07", "2024-01-01"}, // Sunday belongs to the Monday-started week
		{"2024-01-08", "2024-01-08"},
	}

	for _, tt := range tests {
		if got := FormatDay(MondayOfWeek(day(t, tt.in))); got != tt.want {
			t.Errorf("MondayOfWeek(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestMondayIndex(t *testing.T) {
	tests := []struct {
		wd   time.Weekday
		want int
	}{
		{time.Monday, 0},
		{time.Tuesday, 1},
		{time.Saturday, 5},
		{time.Sunday, 6},
	}

	for _, tt := range tests {
		if got := MondayIndex(tt.wd); got != tt.want {
			t.Errorf("MondayIndex(%v) = %d, want %d", tt.wd, got, tt.want)
		}
	}
}

func TestWeeksBetween(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"2024-01-01", "2024-01-07", 0}, // same Monday-started week
		{"2024-01-01", "2024-01-08", 1},
		{"2024-01-03", "2024-01-09", 1}, // Wednesday to next Tuesday crosses one Monday
		{"2024-01-01", "2024-01-29", 4},
		{"2024-01-08", "2024-01-01", -1},
	}

	for _, tt := range tests {
		if got := WeeksBetween(day(t, tt.a), day(t, tt.b)); got != tt.want {
			t.Errorf("WeeksBetween(%s, %s) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestMonthsBetween(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"2024-01-15", "2024-01-31", 0},
		{"2024-01-31", "2024-02-01", 1},
		{"2024-01-01", "2025-01-01", 12},
		{"2024-03-01", "2024-01-01", -2},
	}

	for _, tt := range tests {
		if got := MonthsBetween(day(t, tt.a), day(t, tt.b)); got != tt.want {
			t.Errorf("MonthsBetween(%s, %s) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"2024-01-10", 31},
		{"2024-02-10", 29}, // leap year
		{"2023-02-10", 28},
		{"2024-04-10", 30},
	}

	for _, tt := range tests {
		if got := DaysInMonth(day(t, tt.in)); got != tt.want {
			t.Errorf("DaysInMonth(%s) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestLoadLocation(t *testing.T) {
	if loc, err := LoadLocation(""); err != nil || loc != time.Local {
		t.Errorf("LoadLocation(\"\") = %v, %v; want local", loc, err)
	}
	if loc, err := LoadLocation("Local"); err != nil || loc != time.Local {
		t.Errorf("LoadLocation(\"Local\") = %v, %v; want local", loc, err)
	}
	if _, err := LoadLocation("America/New_York"); err != nil {
		t.Errorf("LoadLocation(America/New_York) failed: %v", err)
	}
	if _, err := LoadLocation("Not/AZone"); err == nil {
		t.Error("Expected error for invalid timezone")
	}
}

func TestValidateTimezone(t *testing.T) {
	if !ValidateTimezone("") || !ValidateTimezone("Local") || !ValidateTimezone("Europe/London") {
		t.Error("Expected valid timezones to validate")
	}
	if ValidateTimezone("Mars/OlympusMons") {
		t.Error("Expected invalid timezone to fail validation")
	}
}
