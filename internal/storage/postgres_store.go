package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/keyring"
	"github.com/julianstephens/habitkit/internal/logger"
	"github.com/julianstephens/habitkit/internal/models"
)

// ConnectionEnvVar is the environment variable consulted for a postgres
// connection string before falling back to the OS keyring.
const ConnectionEnvVar = "HABITKIT_DB_CONNECTION"

type PostgresStore struct {
	connStr string
	db      *sql.DB
}

func NewPostgresStore(connStr string) *PostgresStore {
	return &PostgresStore{connStr: connStr}
}

// HasEmbeddedCredentials reports whether a postgres connection string
// carries a password. Credentials belong in the environment, .pgpass, or
// the OS keyring, never on the command line.
func HasEmbeddedCredentials(connStr string) bool {
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		u, err := url.Parse(connStr)
		if err != nil {
			return false
		}
		if u.User != nil {
			if _, set := u.User.Password(); set {
				return true
			}
		}
		return false
	}
	// DSN format: space-separated key=value pairs
	for _, part := range strings.Fields(connStr) {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 && strings.EqualFold(kv[0], "password") {
			return true
		}
	}
	return false
}

// ResolveConnectionString returns the connection string to use, preferring
// the environment variable, then the OS keyring, then the given fallback.
func ResolveConnectionString(fallback string) string {
	if env := os.Getenv(ConnectionEnvVar); env != "" {
		return env
	}
	if stored, err := keyring.GetConnectionString(); err == nil {
		return stored
	} else if err != keyring.ErrNotFound {
		logger.Warn("OS keyring unavailable", "error", err)
	}
	return fallback
}

func (s *PostgresStore) open() error {
	if s.db != nil {
		return nil
	}
	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = db
	return nil
}

func (s *PostgresStore) Init() error {
	if err := s.open(); err != nil {
		return err
	}

	schema := []string{
		`CREATE SCHEMA IF NOT EXISTS ` + constants.AppName,
		`CREATE TABLE IF NOT EXISTS ` + constants.AppName + `.settings (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			data TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS ` + constants.AppName + `.habits (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			icon TEXT,
			color TEXT,
			start_date TEXT NOT NULL,
			bad_habit BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TEXT NOT NULL,
			archived_at TEXT,
			deleted_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS ` + constants.AppName + `.patterns (
			id TEXT PRIMARY KEY,
			habit_id TEXT NOT NULL REFERENCES ` + constants.AppName + `.habits(id),
			effective_from TEXT NOT NULL,
			created_at TEXT NOT NULL,
			repeats_per_day INTEGER NOT NULL,
			modality TEXT NOT NULL,
			duration_target_min INTEGER NOT NULL DEFAULT 0,
			quantity_target INTEGER NOT NULL DEFAULT 0,
			quantity_unit TEXT,
			follow_up BOOLEAN NOT NULL DEFAULT FALSE,
			rule TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS ` + constants.AppName + `.completions (
			id TEXT PRIMARY KEY,
			habit_id TEXT NOT NULL REFERENCES ` + constants.AppName + `.habits(id),
			day TEXT NOT NULL,
			logged_at TEXT NOT NULL,
			completed BOOLEAN NOT NULL DEFAULT FALSE,
			skipped BOOLEAN NOT NULL DEFAULT FALSE,
			duration_min INTEGER NOT NULL DEFAULT 0,
			quantity INTEGER NOT NULL DEFAULT 0,
			note TEXT,
			deleted_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_patterns_habit ON ` + constants.AppName + `.patterns(habit_id, effective_from)`,
		`CREATE INDEX IF NOT EXISTS idx_completions_habit_day ON ` + constants.AppName + `.completions(habit_id, day)`,
	}

	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

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

func (s *PostgresStore) Load() error {
	return s.open()
}

func (s *PostgresStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *PostgresStore) table(name string) string {
	return constants.AppName + "." + name
}

func (s *PostgresStore) GetSettings() (models.Settings, error) {
	var data string
	err := s.db.QueryRow(`SELECT data FROM ` + s.table("settings") + ` WHERE id = 1`).Scan(&data)
	if err != nil {
		return models.Settings{}, err
	}

	var settings models.Settings
	if err := json.Unmarshal([]byte(data), &settings); err != nil {
		return models.Settings{}, fmt.Errorf("failed to parse settings: %w", err)
	}
	return settings, nil
}

func (s *PostgresStore) SaveSettings(settings models.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to serialize settings: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO `+s.table("settings")+` (id, data) VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`, string(data))
	return err
}

func (s *PostgresStore) AddHabit(habit models.Habit) error {
	_, err := s.db.Exec(`
		INSERT INTO `+s.table("habits")+` (id, name, icon, color, start_date, bad_habit, created_at, archived_at, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		habit.ID, habit.Name, habit.Icon, habit.Color, habit.StartDate, habit.BadHabit,
		habit.CreatedAt.Format(time.RFC3339),
		timePtrToNull(habit.ArchivedAt), timePtrToNull(habit.DeletedAt))
	return err
}

func (s *PostgresStore) GetHabit(id string) (models.Habit, error) {
	row := s.db.QueryRow(`
		SELECT id, name, icon, color, start_date, bad_habit, created_at, archived_at, deleted_at
		FROM `+s.table("habits")+` WHERE id = $1 AND deleted_at IS NULL`, id)
	return scanPgHabit(row)
}

func (s *PostgresStore) GetHabitByName(name string) (models.Habit, error) {
	row := s.db.QueryRow(`
		SELECT id, name, icon, color, start_date, bad_habit, created_at, archived_at, deleted_at
		FROM `+s.table("habits")+` WHERE name = $1 AND deleted_at IS NULL`, name)
	return scanPgHabit(row)
}

func (s *PostgresStore) GetAllHabits(includeArchived, includeDeleted bool) ([]models.Habit, error) {
	query := `SELECT id, name, icon, color, start_date, bad_habit, created_at, archived_at, deleted_at
		FROM ` + s.table("habits") + ` WHERE TRUE`
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
		habit, err := scanPgHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, habit)
	}
	return habits, rows.Err()
}

func (s *PostgresStore) UpdateHabit(habit models.Habit) error {
	_, err := s.db.Exec(`
		UPDATE `+s.table("habits")+` SET name = $1, icon = $2, color = $3, start_date = $4,
			bad_habit = $5, archived_at = $6, deleted_at = $7
		WHERE id = $8`,
		habit.Name, habit.Icon, habit.Color, habit.StartDate, habit.BadHabit,
		timePtrToNull(habit.ArchivedAt), timePtrToNull(habit.DeletedAt), habit.ID)
	return err
}

func (s *PostgresStore) ArchiveHabit(id string) error {
	_, err := s.db.Exec(`UPDATE `+s.table("habits")+` SET archived_at = $1 WHERE id = $2`,
		time.Now().Format(time.RFC3339), id)
	return err
}

func (s *PostgresStore) UnarchiveHabit(id string) error {
	_, err := s.db.Exec(`UPDATE `+s.table("habits")+` SET archived_at = NULL WHERE id = $1`, id)
	return err
}

func (s *PostgresStore) DeleteHabit(id string) error {
	_, err := s.db.Exec(`UPDATE `+s.table("habits")+` SET deleted_at = $1 WHERE id = $2`,
		time.Now().Format(time.RFC3339), id)
	return err
}

func (s *PostgresStore) RestoreHabit(id string) error {
	_, err := s.db.Exec(`UPDATE `+s.table("habits")+` SET deleted_at = NULL WHERE id = $1`, id)
	return err
}

func (s *PostgresStore) AddPattern(pattern models.RecurrencePattern) error {
	rule, err := json.Marshal(pattern.Rule)
	if err != nil {
		return fmt.Errorf("failed to serialize rule: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO `+s.table("patterns")+` (id, habit_id, effective_from, created_at,
			repeats_per_day, modality, duration_target_min, quantity_target, quantity_unit, follow_up, rule)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		pattern.ID, pattern.HabitID, pattern.EffectiveFrom,
		pattern.CreatedAt.Format(time.RFC3339), pattern.RepeatsPerDay,
		string(pattern.Modality), pattern.DurationTargetMin, pattern.QuantityTarget,
		pattern.QuantityUnit, pattern.FollowUp, string(rule))
	return err
}

func (s *PostgresStore) GetPatternsForHabit(habitID string) ([]models.RecurrencePattern, error) {
	rows, err := s.db.Query(`
		SELECT id, habit_id, effective_from, created_at, repeats_per_day,
			modality, duration_target_min, quantity_target, quantity_unit, follow_up, rule
		FROM `+s.table("patterns")+` WHERE habit_id = $1
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

		err := rows.Scan(&p.ID, &p.HabitID, &p.EffectiveFrom, &createdAt, &p.RepeatsPerDay,
			&modality, &p.DurationTargetMin, &p.QuantityTarget, &quantityUnit, &p.FollowUp, &rule)
		if err != nil {
			return nil, err
		}

		p.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		p.Modality = constants.Modality(modality)
		p.QuantityUnit = quantityUnit.String
		if err := json.Unmarshal([]byte(rule), &p.Rule); err != nil {
			return nil, fmt.Errorf("failed to parse rule for pattern %s: %w", p.ID, err)
		}

		patterns = append(patterns, p)
	}
	return patterns, rows.Err()
}

func (s *PostgresStore) AddCompletion(rec models.CompletionRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO `+s.table("completions")+` (id, habit_id, day, logged_at, completed,
			skipped, duration_min, quantity, note, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		rec.ID, rec.HabitID, rec.Day, rec.LoggedAt.Format(time.RFC3339),
		rec.Completed, rec.Skipped, rec.DurationMin, rec.Quantity, rec.Note,
		timePtrToNull(rec.DeletedAt))
	return err
}

func (s *PostgresStore) GetCompletion(id string) (models.CompletionRecord, error) {
	row := s.db.QueryRow(`
		SELECT id, habit_id, day, logged_at, completed, skipped, duration_min, quantity, note, deleted_at
		FROM `+s.table("completions")+` WHERE id = $1 AND deleted_at IS NULL`, id)
	return scanPgCompletion(row)
}

func (s *PostgresStore) GetCompletionsForDay(habitID, day string) ([]models.CompletionRecord, error) {
	return s.queryCompletions(`
		SELECT id, habit_id, day, logged_at, completed, skipped, duration_min, quantity, note, deleted_at
		FROM `+s.table("completions")+` WHERE habit_id = $1 AND day = $2 AND deleted_at IS NULL
		ORDER BY logged_at`, habitID, day)
}

func (s *PostgresStore) GetCompletionsForHabit(habitID string) ([]models.CompletionRecord, error) {
	return s.queryCompletions(`
		SELECT id, habit_id, day, logged_at, completed, skipped, duration_min, quantity, note, deleted_at
		FROM `+s.table("completions")+` WHERE habit_id = $1 AND deleted_at IS NULL
		ORDER BY day, logged_at`, habitID)
}

func (s *PostgresStore) queryCompletions(query string, args ...interface{}) ([]models.CompletionRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.CompletionRecord
	for rows.Next() {
		rec, err := scanPgCompletion(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *PostgresStore) DeleteCompletion(id string) error {
	_, err := s.db.Exec(`UPDATE `+s.table("completions")+` SET deleted_at = $1 WHERE id = $2`,
		time.Now().Format(time.RFC3339), id)
	return err
}

func (s *PostgresStore) GetConfigPath() string {
	return s.connStr
}

func scanPgHabit(row scanner) (models.Habit, error) {
	var h models.Habit
	var icon, color sql.NullString
	var createdAt string
	var archivedAt, deletedAt sql.NullString

	err := row.Scan(&h.ID, &h.Name, &icon, &color, &h.StartDate, &h.BadHabit,
		&createdAt, &archivedAt, &deletedAt)
	if err != nil {
		return models.Habit{}, err
	}

	h.Icon = icon.String
	h.Color = color.String

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

func scanPgCompletion(row scanner) (models.CompletionRecord, error) {
	var rec models.CompletionRecord
	var loggedAt string
	var note, deletedAt sql.NullString

	err := row.Scan(&rec.ID, &rec.HabitID, &rec.Day, &loggedAt, &rec.Completed, &rec.Skipped,
		&rec.DurationMin, &rec.Quantity, &note, &deletedAt)
	if err != nil {
		return models.CompletionRecord{}, err
	}

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
