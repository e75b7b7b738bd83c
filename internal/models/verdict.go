package models

// Progress describes how much of a day's target was logged.
type Progress struct {
	Count  int     `json:"count"`
	Target int     `json:"target"`
	Ratio  float64 `json:"ratio"` // clamped to [0, 1]
}

// DayVerdict is the derived per-date summary the engine produces for one
// (habit, date) pair. It is computed on demand and never persisted.
type DayVerdict struct {
	Day         string   `json:"day"` // YYYY-MM-DD format
	IsActive    bool     `json:"is_active"`
	IsSkipped   bool     `json:"is_skipped"`
	Progress    Progress `json:"progress"`
	IsCompleted bool     `json:"is_completed"`
}

// StreakRange is the date range of a completed run.
type StreakRange struct {
	Start  string `json:"start"` // YYYY-MM-DD format
	End    string `json:"end"`   // YYYY-MM-DD format
	Length int    `json:"length"`
}
