package stats

import (
	"fmt"

	"github.com/julianstephens/habitkit/internal/cli"
	"github.com/julianstephens/habitkit/internal/utils"
)

type StatusCmd struct {
	Date string `help:"Date in YYYY-MM-DD format (default: today)."`
}

func (c *StatusCmd) Run(ctx *cli.Context) error {
	day, err := ctx.ResolveDay(c.Date)
	if err != nil {
		return err
	}

	habits, err := ctx.Store.GetAllHabits(false, false)
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	fmt.Printf("Habits for %s:\n\n", utils.FormatDay(day))

	completed := 0
	active := 0
	for _, habit := range habits {
		snap, err := ctx.Snapshot(habit)
		if err != nil {
			return err
		}
		verdict := ctx.Cache.Verdict(snap, day)

		name := habit.Name
		if habit.Icon != "" {
			name = habit.Icon + " " + name
		}

		if !verdict.IsActive {
			fmt.Printf("    %s (not scheduled)\n", name)
			continue
		}
		active++

		switch {
		case verdict.IsSkipped:
			fmt.Printf("[-] %s (skipped)\n", name)
		case verdict.IsCompleted:
			completed++
			if habit.BadHabit {
				fmt.Printf("[x] %s (avoided)\n", name)
			} else {
				fmt.Printf("[x] %s (%d/%d)\n", name, verdict.Progress.Count, verdict.Progress.Target)
			}
		default:
			if habit.BadHabit {
				fmt.Printf("[ ] %s (lapsed)\n", name)
			} else {
				fmt.Printf("[ ] %s (%d/%d)\n", name, verdict.Progress.Count, verdict.Progress.Target)
			}
		}
	}

	fmt.Printf("\nCompleted: %d/%d\n", completed, active)
	return nil
}
