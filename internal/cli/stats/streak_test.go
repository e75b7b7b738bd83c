package stats

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitkit/internal/cli"
	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/engine"
	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/storage"
	"github.com/julianstephens/habitkit/internal/utils"
)

func setupStatsContext(t *testing.T) *cli.Context {
	t.Helper()

	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "habitkit.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}

	return &cli.Context{Store: store, Cache: engine.NewVerdictCache()}
}

func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() failed: %v", err)
	}
	os.Stdout = w

	runErr := fn()

	w.Close()
	os.Stdout = old
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("reading captured output failed: %v", err)
	}
	return string(out), runErr
}

func TestStreakCmdPrintsBestRange(t *testing.T) {
	ctx := setupStatsContext(t)

	today := utils.DayOf(time.Now())
	start := utils.FormatDay(today.AddDate(0, 0, -10))
	day1 := utils.FormatDay(today.AddDate(0, 0, -2))
	day2 := utils.FormatDay(today.AddDate(0, 0, -1))

	habit := models.Habit{
		ID:        "h1",
		Name:      "Read",
		StartDate: start,
		CreatedAt: time.Now(),
	}
	if err := ctx.Store.AddHabit(habit); err != nil {
		t.Fatalf("AddHabit() failed: %v", err)
	}
	pattern := models.RecurrencePattern{
		ID:            "p1",
		HabitID:       "h1",
		EffectiveFrom: start,
		CreatedAt:     time.Now(),
		RepeatsPerDay: 1,
		Modality:      constants.ModalityRepetitions,
		Rule:          models.RecurrenceRule{Type: constants.RuleDailyEveryDay},
	}
	if err := ctx.Store.AddPattern(pattern); err != nil {
		t.Fatalf("AddPattern() failed: %v", err)
	}
	for i, day := range []string{day1, day2} {
		rec := models.CompletionRecord{
			ID:        fmt.Sprintf("c%d", i+1),
			HabitID:   "h1",
			Day:       day,
			LoggedAt:  time.Now(),
			Completed: true,
		}
		if err := ctx.Store.AddCompletion(rec); err != nil {
			t.Fatalf("AddCompletion() failed: %v", err)
		}
	}

	cmd := &StreakCmd{Habit: "Read", Days: 365}
	out, err := captureStdout(t, func() error { return cmd.Run(ctx) })
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	// The best-streak range is printed as stored day keys.
	want := "(" + day1 + " to " + day2 + ")"
	if !strings.Contains(out, want) {
		t.Errorf("output missing best streak range %q:\n%s", want, out)
	}
	if !strings.Contains(out, "Best:    2 day(s)") {
		t.Errorf("output missing best streak length:\n%s", out)
	}
}
