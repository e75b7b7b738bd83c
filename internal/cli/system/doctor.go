package system

import (
	"fmt"
	"os"
	"strings"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/habitkit/internal/cli"
	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/keyring"
	"github.com/julianstephens/habitkit/internal/utils"
	"github.com/julianstephens/habitkit/internal/validation"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := false

	// Check 1: storage reachable
	if err := checkStorageReachable(ctx); err != nil {
		fmt.Printf("❌ Storage reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Storage reachable: OK\n")
		dbReachable = true
	}

	// Check 2: settings sanity (only if storage is reachable)
	if dbReachable {
		if err := checkSettings(ctx); err != nil {
			fmt.Printf("❌ Settings: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Settings: OK\n")
		}
	} else {
		fmt.Printf("⊘ Settings: SKIPPED (storage not reachable)\n")
	}

	// Check 3: data validation
	if dbReachable {
		if err := checkDataValidation(ctx); err != nil {
			fmt.Printf("❌ Data validation: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Data validation: OK\n")
		}
	} else {
		fmt.Printf("⊘ Data validation: SKIPPED (storage not reachable)\n")
	}

	// Check 4: every habit has a schedule
	if dbReachable {
		if err := checkSchedulesPresent(ctx); err != nil {
			fmt.Printf("⚠ Schedules present: WARNING\n")
			fmt.Printf("   %v\n", err)
		} else {
			fmt.Printf("✓ Schedules present: OK\n")
		}
	} else {
		fmt.Printf("⊘ Schedules present: SKIPPED (storage not reachable)\n")
	}

	// Check 5: clock/timezone sanity
	if err := checkClockTimezone(); err != nil {
		fmt.Printf("❌ Clock/timezone: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Clock/timezone: OK\n")
	}

	// Check 6: concurrent processes (warning only)
	if err := checkConcurrentProcesses(); err != nil {
		fmt.Printf("⚠ Concurrent processes: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Concurrent processes: OK\n")
	}

	// Check 7: OS keyring availability (warning only)
	if keyring.IsAvailable() {
		fmt.Printf("✓ OS keyring: OK\n")
	} else {
		fmt.Printf("⚠ OS keyring: WARNING\n")
		fmt.Printf("   OS keyring is not available; PostgreSQL credentials must come from the environment\n")
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkStorageReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	if _, err := ctx.Store.GetSettings(); err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	return nil
}

func checkSettings(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	if !utils.ValidateTimezone(settings.Timezone) {
		return fmt.Errorf("invalid timezone %q", settings.Timezone)
	}
	if settings.DefaultLogDays < 1 {
		return fmt.Errorf("default log days must be positive, got %d", settings.DefaultLogDays)
	}
	return nil
}

func checkDataValidation(ctx *cli.Context) error {
	habits, err := ctx.Store.GetAllHabits(true, true)
	if err != nil {
		return fmt.Errorf("failed to get habits: %w", err)
	}

	v := validation.New()
	if result := v.ValidateHabits(habits); result.HasConflicts() {
		return fmt.Errorf("habit validation failed:\n%s", result.FormatReport())
	}

	for _, habit := range habits {
		patterns, err := ctx.Store.GetPatternsForHabit(habit.ID)
		if err != nil {
			return fmt.Errorf("failed to get patterns for %q: %w", habit.Name, err)
		}
		if result := v.ValidatePatterns(habit, patterns); result.HasConflicts() {
			return fmt.Errorf("schedule validation failed for %q:\n%s", habit.Name, result.FormatReport())
		}

		records, err := ctx.Store.GetCompletionsForHabit(habit.ID)
		if err != nil {
			return fmt.Errorf("failed to get completions for %q: %w", habit.Name, err)
		}
		if result := v.ValidateRecords(habit, records); result.HasConflicts() {
			return fmt.Errorf("completion validation failed for %q:\n%s", habit.Name, result.FormatReport())
		}
	}

	return nil
}

func checkSchedulesPresent(ctx *cli.Context) error {
	habits, err := ctx.Store.GetAllHabits(false, false)
	if err != nil {
		return fmt.Errorf("failed to get habits: %w", err)
	}

	var missing []string
	for _, habit := range habits {
		patterns, err := ctx.Store.GetPatternsForHabit(habit.ID)
		if err != nil {
			return fmt.Errorf("failed to get patterns for %q: %w", habit.Name, err)
		}
		if len(patterns) == 0 {
			missing = append(missing, habit.Name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("habits without a schedule (never active): %s", strings.Join(missing, ", "))
	}

	return nil
}

func checkClockTimezone() error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

// checkConcurrentProcesses warns when another habitkit process is running,
// which can race on the SQLite database file.
func checkConcurrentProcesses() error {
	processes, err := ps.Processes()
	if err != nil {
		return fmt.Errorf("failed to list processes: %w", err)
	}

	self := os.Getpid()
	for _, p := range processes {
		if p.Pid() == self {
			continue
		}
		if strings.HasPrefix(p.Executable(), constants.AppName) {
			return fmt.Errorf("another %s process is running (pid %d); concurrent writes may conflict", constants.AppName, p.Pid())
		}
	}

	return nil
}
