package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/models"
	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{
		path: path,
	}
}

func (s *SQLiteStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if err := s.createSchema(); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	// Initialize default settings if not present
	if _, err := s.GetSettings(); err != nil {
		defaults := models.Settings{
			Timezone:       "Local",
			DefaultLogDays: 14,
			FirstDayMonday: true,
		}
		if err := s.SaveSettings(defaults); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}

	return nil
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'habitkit init' first")
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) createSchema() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS settings (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			data TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS habits (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			icon TEXT,
			color TEXT,
			start_date TEXT NOT NULL,
			bad_habit INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			archived_at TEXT,
			deleted_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS patterns (
			id TEXT PRIMARY KEY,
			habit_id TEXT NOT NULL REFERENCES habits(id),
			effective_from TEXT NOT NULL,
			created_at TEXT NOT NULL,
			repeats_per_day INTEGER NOT NULL,
			modality TEXT NOT NULL,
			duration_target_min INTEGER NOT NULL DEFAULT 0,
			quantity_target INTEGER NOT NULL DEFAULT 0,
			quantity_unit TEXT,
			follow_up INTEGER NOT NULL DEFAULT 0,
			rule TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS completions (
			id TEXT PRIMARY KEY,
			habit_id TEXT NOT NULL REFERENCES habits(id),
			day TEXT NOT NULL,
			logged_at TEXT NOT NULL,
			completed INTEGER NOT NULL DEFAULT 0,
			skipped INTEGER NOT NULL DEFAULT 0,
			duration_min INTEGER NOT NULL DEFAULT 0,
			quantity INTEGER NOT NULL DEFAULT 0,
			note TEXT,
			deleted_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_patterns_habit ON patterns(habit_id, effective_from)`,
		`CREATE INDEX IF NOT EXISTS idx_completions_habit_day ON completions(habit_id, day)`,
	}

	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) GetSettings() (models.Settings, error) {
	var data string
	err := s.db.QueryRow(`SELECT data FROM settings WHERE id = 1`).Scan(&data)
	if err != nil {
		return models.Settings{}, err
	}

	var settings models.Settings
	if err := json.Unmarshal([]byte(data), &settings); err != nil {
		return models.Settings{}, fmt.Errorf("failed to parse settings: %w", err)
	}
	return settings, nil
}

func (s *SQLiteStore) SaveSettings(settings models.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to serialize settings: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO settings (id, data) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data`, string(data))
	return err
}

func (s *SQLiteStore) AddHabit(habit models.Habit) error {
	_, err := s.db.Exec(`
		INSERT INTO habits (id, name, icon, color, start_date, bad_habit, created_at, archived_at, deleted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		habit.ID, habit.Name, habit.Icon, habit.Color, habit.StartDate,
		boolToInt(habit.BadHabit), habit.CreatedAt.Format(time.RFC3339),
		timePtrToNull(habit.ArchivedAt), timePtrToNull(habit.DeletedAt))
	return err
}

func (s *SQLiteStore) GetHabit(id string) (models.Habit, error) {
	row := s.db.QueryRow(`
		SELECT id, name, icon, color, start_date, bad_habit, created_at, archived_at, deleted_at
		FROM habits WHERE id = ? AND deleted_at IS NULL`, id)
	return scanHabit(row)
}

func (s *SQLiteStore) GetHabitByName(name string) (models.Habit, error) {
	row := s.db.QueryRow(`
		SELECT id, name, icon, color, start_date, bad_habit, created_at, archived_at, deleted_at
		FROM habits WHERE name = ? AND deleted_at IS NULL`, name)
	return scanHabit(row)
}

func (s *SQLiteStore) GetAllHabits(includeArchived, includeDeleted bool) ([]models.Habit, error) {
	query := `SELECT id, name, icon, color, start_date, bad_habit, created_at, archived_at, deleted_at
		FROM habits WHERE 1=1`
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}
	if !includeArchived {
		query += " AND archived_at IS NULL"
	}
	query += " ORDER BY created_at"

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		habit, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, habit)
	}
	return habits, rows.Err()
}

func (s *SQLiteStore) UpdateHabit(habit models.Habit) error {
	_, err := s.db.Exec(`
		UPDATE habits SET name = ?, icon = ?, color = ?, start_date = ?, bad_habit = ?,
			archived_at = ?, deleted_at = ?
		WHERE id = ?`,
		habit.Name, habit.Icon, habit.Color, habit.StartDate, boolToInt(habit.BadHabit),
		timePtrToNull(habit.ArchivedAt), timePtrToNull(habit.DeletedAt), habit.ID)
	return err
}

func (s *SQLiteStore) ArchiveHabit(id string) error {
	return s.setHabitTimestamp(id, "archived_at", time.Now())
}

func (s *SQLiteStore) UnarchiveHabit(id string) error {
	_, err := s.db.Exec(`UPDATE habits SET archived_at = NULL WHERE id = ?`, id)
	return err
}

func (s *SQLiteStore) DeleteHabit(id string) error {
	return s.setHabitTimestamp(id, "deleted_at", time.Now())
}

func (s *SQLiteStore) RestoreHabit(id string) error {
	_, err := s.db.Exec(`UPDATE habits SET deleted_at = NULL WHERE id = ?`, id)
	return err
}

func (s *SQLiteStore) setHabitTimestamp(id, column string, t time.Time) error {
	// column is always a compile-time constant here
	query := fmt.Sprintf(`UPDATE habits SET %s = ? WHERE id = ?`, column)
	_, err := s.db.Exec(query, t.Format(time.RFC3339), id)
	return err
}

func (s *SQLiteStore) AddPattern(pattern models.RecurrencePattern) error {
	rule, err := json.Marshal(pattern.Rule)
	if err != nil {
		return fmt.Errorf("failed to serialize rule: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO patterns (id, habit_id, effective_from, created_at, repeats_per_day,
			modality, duration_target_min, quantity_target, quantity_unit, follow_up, rule)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		pattern.ID, pattern.HabitID, pattern.EffectiveFrom,
		pattern.CreatedAt.Format(time.RFC3339), pattern.RepeatsPerDay,
		string(pattern.Modality), pattern.DurationTargetMin, pattern.QuantityTarget,
		pattern.QuantityUnit, boolToInt(pattern.FollowUp), string(rule))
	return err
}

func (s *SQLiteStore) GetPatternsForHabit(habitID string) ([]models.RecurrencePattern, error) {
	rows, err := s.db.Query(`
		SELECT id, habit_id, effective_from, created_at, repeats_per_day,
			modality, duration_target_min, quantity_target, quantity_unit, follow_up, rule
		FROM patterns WHERE habit_id = ?
		ORDER BY effective_from, created_at`, habitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var patterns []models.RecurrencePattern
	for rows.Next() {
		var p models.RecurrencePattern
		var createdAt, modality, rule string
		var quantityUnit sql.NullString
		var followUp int

		err := rows.Scan(&p.ID, &p.HabitID, &p.EffectiveFrom, &createdAt, &p.RepeatsPerDay,
			&modality, &p.DurationTargetMin, &p.QuantityTarget, &quantityUnit, &followUp, &rule)
		if err != nil {
			return nil, err
		}

		p.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		p.Modality = constants.Modality(modality)
		p.QuantityUnit = quantityUnit.String
		p.FollowUp = followUp != 0
		if err := json.Unmarshal([]byte(rule), &p.Rule); err != nil {
			return nil, fmt.Errorf("failed to parse rule for pattern %s: %w", p.ID, err)
		}

		patterns = append(patterns, p)
	}
	return patterns, rows.Err()
}

func (s *SQLiteStore) AddCompletion(rec models.CompletionRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO completions (id, habit_id, day, logged_at, completed, skipped,
			duration_min, quantity, note, deleted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.HabitID, rec.Day, rec.LoggedAt.Format(time.RFC3339),
		boolToInt(rec.Completed), boolToInt(rec.Skipped),
		rec.DurationMin, rec.Quantity, rec.Note, timePtrToNull(rec.DeletedAt))
	return err
}

func (s *SQLiteStore) GetCompletion(id string) (models.CompletionRecord, error) {
	row := s.db.QueryRow(`
		SELECT id, habit_id, day, logged_at, completed, skipped, duration_min, quantity, note, deleted_at
		FROM completions WHERE id = ? AND deleted_at IS NULL`, id)
	return scanCompletion(row)
}

func (s *SQLiteStore) GetCompletionsForDay(habitID, day string) ([]models.CompletionRecord, error) {
	return s.queryCompletions(`
		SELECT id, habit_id, day, logged_at, completed, skipped, duration_min, quantity, note, deleted_at
		FROM completions WHERE habit_id = ? AND day = ? AND deleted_at IS NULL
		ORDER BY logged_at`, habitID, day)
}

func (s *SQLiteStore) GetCompletionsForHabit(habitID string) ([]models.CompletionRecord, error) {
	return s.queryCompletions(`
		SELECT id, habit_id, day, logged_at, completed, skipped, duration_min, quantity, note, deleted_at
		FROM completions WHERE habit_id = ? AND deleted_at IS NULL
		ORDER BY day, logged_at`, habitID)
}

func (s *SQLiteStore) queryCompletions(query string, args ...interface{}) ([]models.CompletionRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.CompletionRecord
	for rows.Next() {
		rec, err := scanCompletion(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *SQLiteStore) DeleteCompletion(id string) error {
	_, err := s.db.Exec(`UPDATE completions SET deleted_at = ? WHERE id = ?`,
		time.Now().Format(time.RFC3339), id)
	return err
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanHabit(row scanner) (models.Habit, error) {
	var h models.Habit
	var icon, color sql.NullString
	var badHabit int
	var createdAt string
	var archivedAt, deletedAt sql.NullString

	err := row.Scan(&h.ID, &h.Name, &icon, &color, &h.StartDate, &badHabit,
		&createdAt, &archivedAt, &deletedAt)
	if err != nil {
		return models.Habit{}, err
	}

	h.Icon = icon.String
	h.Color = color.String
	h.BadHabit = badHabit != 0

	h.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if h.ArchivedAt, err = nullToTimePtr(archivedAt, "archived_at"); err != nil {
		return models.Habit{}, err
	}
	if h.DeletedAt, err = nullToTimePtr(deletedAt, "deleted_at"); err != nil {
		return models.Habit{}, err
	}

	return h, nil
}

func scanCompletion(row scanner) (models.CompletionRecord, error) {
	var rec models.CompletionRecord
	var loggedAt string
	var completed, skipped int
	var note, deletedAt sql.NullString

	err := row.Scan(&rec.ID, &rec.HabitID, &rec.Day, &loggedAt, &completed, &skipped,
		&rec.DurationMin, &rec.Quantity, &note, &deletedAt)
	if err != nil {
		return models.CompletionRecord{}, err
	}

	rec.Completed = completed != 0
	rec.Skipped = skipped != 0
	rec.Note = note.String

	rec.LoggedAt, err = time.Parse(time.RFC3339, loggedAt)
	if err != nil {
		return models.CompletionRecord{}, fmt.Errorf("failed to parse logged_at: %w", err)
	}
	if rec.DeletedAt, err = nullToTimePtr(deletedAt, "deleted_at"); err != nil {
		return models.CompletionRecord{}, err
	}

	return rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func timePtrToNull(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(time.RFC3339), Valid: true}
}

func nullToTimePtr(ns sql.NullString, field string) (*time.Time, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, ns.String)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", field, err)
	}
	return &t, nil
}
