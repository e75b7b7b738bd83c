package storage

import "github.com/julianstephens/habitkit/internal/models"

// Provider is the read/write surface the CLI and TUI use. The engine never
// touches a Provider directly: callers read a habit's patterns and
// completions, build an engine.Snapshot, and query that.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Habits
	AddHabit(models.Habit) error
	GetHabit(id string) (models.Habit, error)
	GetHabitByName(name string) (models.Habit, error)
	GetAllHabits(includeArchived, includeDeleted bool) ([]models.Habit, error)
	UpdateHabit(models.Habit) error
	ArchiveHabit(id string) error
	UnarchiveHabit(id string) error
	DeleteHabit(id string) error
	RestoreHabit(id string) error

	// Recurrence patterns (append-only history per habit)
	AddPattern(models.RecurrencePattern) error
	GetPatternsForHabit(habitID string) ([]models.RecurrencePattern, error)

	// Completion records
	AddCompletion(models.CompletionRecord) error
	GetCompletion(id string) (models.CompletionRecord, error)
	GetCompletionsForDay(habitID, day string) ([]models.CompletionRecord, error)
	GetCompletionsForHabit(habitID string) ([]models.CompletionRecord, error)
	DeleteCompletion(id string) error

	// Utils
	GetConfigPath() string
}
