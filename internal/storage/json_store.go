package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/julianstephens/habitkit/internal/models"
)

type Store struct {
	Version     int                                 `json:"version"`
	Settings    models.Settings                     `json:"settings"`
	Habits      map[string]models.Habit             `json:"habits"`
	Patterns    map[string][]models.RecurrencePattern `json:"patterns"`    // habit id -> history
	Completions map[string]models.CompletionRecord  `json:"completions"` // record id -> record
}

type JSONStore struct {
	path  string
	store *Store
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.store = &Store{
		Version: 1,
		Settings: models.Settings{
			Timezone:       "Local",
			DefaultLogDays: 14,
			FirstDayMonday: true,
		},
		Habits:      make(map[string]models.Habit),
		Patterns:    make(map[string][]models.RecurrencePattern),
		Completions: make(map[string]models.CompletionRecord),
	}

	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'habitkit init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	s.store = &Store{}
	if err := json.Unmarshal(data, s.store); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}

	if s.store.Habits == nil {
		s.store.Habits = make(map[string]models.Habit)
	}
	if s.store.Patterns == nil {
		s.store.Patterns = make(map[string][]models.RecurrencePattern)
	}
	if s.store.Completions == nil {
		s.store.Completions = make(map[string]models.CompletionRecord)
	}

	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	// Write to a temp file first, then rename for atomicity
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to replace storage: %w", err)
	}
	return nil
}

func (s *JSONStore) loaded() error {
	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	return nil
}

func (s *JSONStore) GetSettings() (models.Settings, error) {
	if err := s.loaded(); err != nil {
		return models.Settings{}, err
	}
	return s.store.Settings, nil
}

func (s *JSONStore) SaveSettings(settings models.Settings) error {
	if err := s.loaded(); err != nil {
		return err
	}
	s.store.Settings = settings
	return s.save()
}

func (s *JSONStore) AddHabit(habit models.Habit) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if _, exists := s.store.Habits[habit.ID]; exists {
		return fmt.Errorf("habit %s already exists", habit.ID)
	}
	s.store.Habits[habit.ID] = habit
	return s.save()
}

func (s *JSONStore) GetHabit(id string) (models.Habit, error) {
	if err := s.loaded(); err != nil {
		return models.Habit{}, err
	}
	habit, ok := s.store.Habits[id]
	if !ok || habit.DeletedAt != nil {
		return models.Habit{}, fmt.Errorf("habit %s not found", id)
	}
	return habit, nil
}

func (s *JSONStore) GetHabitByName(name string) (models.Habit, error) {
	if err := s.loaded(); err != nil {
		return models.Habit{}, err
	}
	for _, habit := range s.store.Habits {
		if habit.Name == name && habit.DeletedAt == nil {
			return habit, nil
		}
	}
	return models.Habit{}, fmt.Errorf("habit %q not found", name)
}

func (s *JSONStore) GetAllHabits(includeArchived, includeDeleted bool) ([]models.Habit, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	var habits []models.Habit
	for _, habit := range s.store.Habits {
		if habit.DeletedAt != nil && !includeDeleted {
			continue
		}
		if habit.ArchivedAt != nil && !includeArchived {
			continue
		}
		habits = append(habits, habit)
	}
	sortHabitsByCreation(habits)
	return habits, nil
}

func (s *JSONStore) UpdateHabit(habit models.Habit) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if _, ok := s.store.Habits[habit.ID]; !ok {
		return fmt.Errorf("habit %s not found", habit.ID)
	}
	s.store.Habits[habit.ID] = habit
	return s.save()
}

func (s *JSONStore) ArchiveHabit(id string) error {
	return s.stampHabit(id, func(h *models.Habit) {
		now := time.Now()
		h.ArchivedAt = &now
	})
}

func (s *JSONStore) UnarchiveHabit(id string) error {
	return s.stampHabit(id, func(h *models.Habit) {
		h.ArchivedAt = nil
	})
}

func (s *JSONStore) DeleteHabit(id string) error {
	return s.stampHabit(id, func(h *models.Habit) {
		now := time.Now()
		h.DeletedAt = &now
	})
}

func (s *JSONStore) RestoreHabit(id string) error {
	return s.stampHabit(id, func(h *models.Habit) {
		h.DeletedAt = nil
	})
}

func (s *JSONStore) stampHabit(id string, mutate func(*models.Habit)) error {
	if err := s.loaded(); err != nil {
		return err
	}
	habit, ok := s.store.Habits[id]
	if !ok {
		return fmt.Errorf("habit %s not found", id)
	}
	mutate(&habit)
	s.store.Habits[id] = habit
	return s.save()
}

func (s *JSONStore) AddPattern(pattern models.RecurrencePattern) error {
	if err := s.loaded(); err != nil {
		return err
	}
	s.store.Patterns[pattern.HabitID] = append(s.store.Patterns[pattern.HabitID], pattern)
	return s.save()
}

func (s *JSONStore) GetPatternsForHabit(habitID string) ([]models.RecurrencePattern, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	patterns := make([]models.RecurrencePattern, len(s.store.Patterns[habitID]))
	copy(patterns, s.store.Patterns[habitID])
	return patterns, nil
}

func (s *JSONStore) AddCompletion(rec models.CompletionRecord) error {
	if err := s.loaded(); err != nil {
		return err
	}
	if _, exists := s.store.Completions[rec.ID]; exists {
		return fmt.Errorf("completion %s already exists", rec.ID)
	}
	s.store.Completions[rec.ID] = rec
	return s.save()
}

func (s *JSONStore) GetCompletion(id string) (models.CompletionRecord, error) {
	if err := s.loaded(); err != nil {
		return models.CompletionRecord{}, err
	}
	rec, ok := s.store.Completions[id]
	if !ok || rec.DeletedAt != nil {
		return models.CompletionRecord{}, fmt.Errorf("completion %s not found", id)
	}
	return rec, nil
}

func (s *JSONStore) GetCompletionsForDay(habitID, day string) ([]models.CompletionRecord, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	var records []models.CompletionRecord
	for _, rec := range s.store.Completions {
		if rec.HabitID == habitID && rec.Day == day && rec.DeletedAt == nil {
			records = append(records, rec)
		}
	}
	sortCompletionsByDay(records)
	return records, nil
}

func (s *JSONStore) GetCompletionsForHabit(habitID string) ([]models.CompletionRecord, error) {
	if err := s.loaded(); err != nil {
		return nil, err
	}
	var records []models.CompletionRecord
	for _, rec := range s.store.Completions {
		if rec.HabitID == habitID && rec.DeletedAt == nil {
			records = append(records, rec)
		}
	}
	sortCompletionsByDay(records)
	return records, nil
}

func (s *JSONStore) DeleteCompletion(id string) error {
	if err := s.loaded(); err != nil {
		return err
	}
	rec, ok := s.store.Completions[id]
	if !ok {
		return fmt.Errorf("completion %s not found", id)
	}
	now := time.Now()
	rec.DeletedAt = &now
	s.store.Completions[id] = rec
	return s.save()
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
