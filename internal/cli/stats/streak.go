package stats

import (
	"fmt"

	"github.com/julianstephens/habitkit/internal/cli"
	"github.com/julianstephens/habitkit/internal/utils"
)

type StreakCmd struct {
	Habit string `arg:"" help:"Habit name."`
	Days  int    `help:"History window for the best streak." default:"365"`
}

func (c *StreakCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}

	today, err := ctx.Today()
	if err != nil {
		return err
	}

	snap, err := ctx.Snapshot(habit)
	if err != nil {
		return err
	}

	from := today.AddDate(0, 0, -(c.Days - 1))
	current := snap.CurrentStreak(today)
	best := snap.BestStreak(from, today)

	fmt.Printf("Streaks for %q:\n\n", c.Habit)
	fmt.Printf("  Current: %d day(s)\n", current)
	if best.Length > 0 {
		fmt.Printf("  Best:    %d day(s) (%s to %s)\n",
			best.Length, best.Start, best.End)
	} else {
		fmt.Printf("  Best:    none yet\n")
	}

	if overdue := snap.OverdueDays(today); overdue != nil && *overdue > 0 {
		fmt.Printf("  Overdue: %d missed scheduled day(s) since the last completion\n", *overdue)
	}

	return nil
}

type StatsCmd struct {
	Habit string `arg:"" optional:"" help:"Habit name (default: all active habits)."`
	Days  int    `short:"d" help:"Number of days to analyze." default:"30"`
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	today, err := ctx.Today()
	if err != nil {
		return err
	}
	from := today.AddDate(0, 0, -(c.Days - 1))

	habits, err := ctx.Store.GetAllHabits(false, false)
	if err != nil {
		return err
	}
	if c.Habit != "" {
		habit, err := ctx.ResolveHabit(c.Habit)
		if err != nil {
			return err
		}
		habits = habits[:0]
		habits = append(habits, habit)
	}
	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	fmt.Printf("Stats for the last %d days (%s to %s):\n\n",
		c.Days, utils.FormatDay(from), utils.FormatDay(today))

	for _, habit := range habits {
		snap, err := ctx.Snapshot(habit)
		if err != nil {
			return err
		}

		line := fmt.Sprintf("  %-24s %5.1f%% consistent, streak %d",
			habit.Name, snap.Consistency(from, today)*100, snap.CurrentStreak(today))
		if snap.IsOverdue(today) {
			line += " (overdue)"
		}
		fmt.Println(line)
	}

	return nil
}
