package models

// Settings represents application-wide settings
type Settings struct {
	Timezone       string `json:"timezone"`         // IANA timezone name, or "Local" for system timezone
	DefaultLogDays int    `json:"default_log_days"` // default window for grid/log output
	FirstDayMonday bool   `json:"first_day_monday"` // week starts on Monday in grid output
}
