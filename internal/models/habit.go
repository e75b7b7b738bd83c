package models

import "time"

// Habit represents a recurring practice to track
type Habit struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Icon      string `json:"icon,omitempty"`
	Color     string `json:"color,omitempty"`
	StartDate string `json:"start_date"` // YYYY-MM-DD format, no activity before it
	// BadHabit inverts completion semantics: a day is successful when
	// nothing was logged against it.
	BadHabit   bool       `json:"bad_habit"`
	CreatedAt  time.Time  `json:"created_at"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
}
