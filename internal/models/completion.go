package models

import "time"

// CompletionRecord is one logged event for a habit on a calendar day. A
// repetition event carries an implicit count of 1; duration and quantity
// events carry their payload in DurationMin / Quantity. A day is either
// skipped or may accumulate completion records, never both.
type CompletionRecord struct {
	ID          string    `json:"id"`
	HabitID     string    `json:"habit_id"`
	Day         string    `json:"day"` // YYYY-MM-DD format
	LoggedAt    time.Time `json:"logged_at"`
	Completed   bool      `json:"completed"`
	Skipped     bool      `json:"skipped"`
	DurationMin int       `json:"duration_min,omitempty"`
	Quantity    int       `json:"quantity,omitempty"`
	Note        string    `json:"note,omitempty"` // opaque to the engine
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}
