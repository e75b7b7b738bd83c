package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/habitkit/internal/models"
)

func setupJSONStore(t *testing.T) *JSONStore {
	t.Helper()

	path := filepath.Join(t.TempDir(), "habitkit.json")
	store := NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}

	return store
}

func TestJSONInitTwiceFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habitkit.json")
	store := NewJSONStore(path)

	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	if err := store.Init(); err == nil {
		t.Error("second Init() should fail on existing storage")
	}
}

func TestJSONLoadUninitialized(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "missing.json"))

	if err := store.Load(); err == nil {
		t.Error("Load() on missing file should fail")
	}
}

func TestJSONPersistsAcrossLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habitkit.json")

	store := NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}

	habit := testStoreHabit("h1", "Floss")
	if err := store.AddHabit(habit); err != nil {
		t.Fatalf("AddHabit() failed: %v", err)
	}
	if err := store.AddPattern(testStorePattern("p1", "h1", "2024-01-01")); err != nil {
		t.Fatalf("AddPattern() failed: %v", err)
	}
	rec := models.CompletionRecord{
		ID:        "c1",
		HabitID:   "h1",
		Day:       "2024-01-02",
		LoggedAt:  time.Date(2024, 1, 2, 21, 0, 0, 0, time.UTC),
		Completed: true,
	}
	if err := store.AddCompletion(rec); err != nil {
		t.Fatalf("AddCompletion() failed: %v", err)
	}

	// Fresh store instance reading the same file
	reopened := NewJSONStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	got, err := reopened.GetHabit("h1")
	if err != nil {
		t.Fatalf("GetHabit() failed: %v", err)
	}
	if got.Name != "Floss" {
		t.Errorf("GetHabit().Name = %q, want Floss", got.Name)
	}

	patterns, err := reopened.GetPatternsForHabit("h1")
	if err != nil {
		t.Fatalf("GetPatternsForHabit() failed: %v", err)
	}
	if len(patterns) != 1 || patterns[0].ID != "p1" {
		t.Errorf("patterns = %+v, want single p1", patterns)
	}

	records, err := reopened.GetCompletionsForHabit("h1")
	if err != nil {
		t.Fatalf("GetCompletionsForHabit() failed: %v", err)
	}
	if len(records) != 1 || records[0].ID != "c1" {
		t.Errorf("records = %+v, want single c1", records)
	}
}

func TestJSONSoftDeleteVisibility(t *testing.T) {
	store := setupJSONStore(t)

	if err := store.AddHabit(testStoreHabit("h1", "Yoga")); err != nil {
		t.Fatalf("AddHabit() failed: %v", err)
	}
	if err := store.AddHabit(testStoreHabit("h2", "Swim")); err != nil {
		t.Fatalf("AddHabit() failed: %v", err)
	}

	if err := store.DeleteHabit("h1"); err != nil {
		t.Fatalf("DeleteHabit() failed: %v", err)
	}
	if _, err := store.GetHabit("h1"); err == nil {
		t.Error("GetHabit() on deleted habit should fail")
	}
	if _, err := store.GetHabitByName("Yoga"); err == nil {
		t.Error("GetHabitByName() on deleted habit should fail")
	}

	active, err := store.GetAllHabits(false, false)
	if err != nil {
		t.Fatalf("GetAllHabits() failed: %v", err)
	}
	if len(active) != 1 || active[0].ID != "h2" {
		t.Errorf("active habits = %v, want just h2", habitIDs(active))
	}

	if err := store.RestoreHabit("h1"); err != nil {
		t.Fatalf("RestoreHabit() failed: %v", err)
	}
	if _, err := store.GetHabit("h1"); err != nil {
		t.Errorf("GetHabit() after restore failed: %v", err)
	}
}

func TestJSONArchiveVisibility(t *testing.T) {
	store := setupJSONStore(t)

	if err := store.AddHabit(testStoreHabit("h1", "Cook")); err != nil {
		t.Fatalf("AddHabit() failed: %v", err)
	}
	if err := store.ArchiveHabit("h1"); err != nil {
		t.Fatalf("ArchiveHabit() failed: %v", err)
	}

	active, err := store.GetAllHabits(false, false)
	if err != nil {
		t.Fatalf("GetAllHabits() failed: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("archived habit still listed as active: %v", habitIDs(active))
	}

	withArchived, err := store.GetAllHabits(true, false)
	if err != nil {
		t.Fatalf("GetAllHabits(archived) failed: %v", err)
	}
	if len(withArchived) != 1 {
		t.Errorf("archived habit missing from inclusive listing")
	}

	if err := store.UnarchiveHabit("h1"); err != nil {
		t.Fatalf("UnarchiveHabit() failed: %v", err)
	}
	active, err = store.GetAllHabits(false, false)
	if err != nil {
		t.Fatalf("GetAllHabits() failed: %v", err)
	}
	if len(active) != 1 {
		t.Errorf("unarchived habit missing from active listing")
	}
}

func TestJSONCompletionSoftDelete(t *testing.T) {
	store := setupJSONStore(t)

	if err := store.AddHabit(testStoreHabit("h1", "Sketch")); err != nil {
		t.Fatalf("AddHabit() failed: %v", err)
	}
	rec := models.CompletionRecord{
		ID:       "c1",
		HabitID:  "h1",
		Day:      "2024-02-10",
		LoggedAt: time.Date(2024, 2, 10, 8, 0, 0, 0, time.UTC),
		Skipped:  true,
	}
	if err := store.AddCompletion(rec); err != nil {
		t.Fatalf("AddCompletion() failed: %v", err)
	}

	if err := store.DeleteCompletion("c1"); err != nil {
		t.Fatalf("DeleteCompletion() failed: %v", err)
	}
	if _, err := store.GetCompletion("c1"); err == nil {
		t.Error("GetCompletion() on deleted record should fail")
	}
	forDay, err := store.GetCompletionsForDay("h1", "2024-02-10")
	if err != nil {
		t.Fatalf("GetCompletionsForDay() failed: %v", err)
	}
	if len(forDay) != 0 {
		t.Errorf("deleted record still visible: %v", forDay)
	}
}

func TestJSONDuplicateCompletionRejected(t *testing.T) {
	store := setupJSONStore(t)

	if err := store.AddHabit(testStoreHabit("h1", "Piano")); err != nil {
		t.Fatalf("AddHabit() failed: %v", err)
	}
	rec := models.CompletionRecord{
		ID:       "c1",
		HabitID:  "h1",
		Day:      "2024-02-10",
		LoggedAt: time.Now(),
	}
	if err := store.AddCompletion(rec); err != nil {
		t.Fatalf("AddCompletion() failed: %v", err)
	}
	if err := store.AddCompletion(rec); err == nil {
		t.Error("AddCompletion() with duplicate ID should fail")
	}
}
