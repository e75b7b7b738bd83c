package system

import (
	"fmt"

	"github.com/julianstephens/habitkit/internal/cli"
	"github.com/julianstephens/habitkit/internal/validation"
)

type ValidateCmd struct {
	Deleted bool `help:"Include deleted habits in validation."`
}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Store.GetAllHabits(true, c.Deleted)
	if err != nil {
		return err
	}

	v := validation.New()
	total := 0

	report := func(label string, result validation.Result) {
		if result.HasConflicts() {
			total += len(result.Conflicts)
			fmt.Printf("%s:\n%s\n", label, result.FormatReport())
		}
	}

	report("Habits", v.ValidateHabits(habits))

	for _, habit := range habits {
		patterns, err := ctx.Store.GetPatternsForHabit(habit.ID)
		if err != nil {
			return err
		}
		report(fmt.Sprintf("Schedules for %q", habit.Name), v.ValidatePatterns(habit, patterns))

		records, err := ctx.Store.GetCompletionsForHabit(habit.ID)
		if err != nil {
			return err
		}
		report(fmt.Sprintf("Completions for %q", habit.Name), v.ValidateRecords(habit, records))
	}

	if total > 0 {
		return fmt.Errorf("found %d conflict(s)", total)
	}

	fmt.Println("No conflicts found.")
	return nil
}
