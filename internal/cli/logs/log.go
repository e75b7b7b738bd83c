package logs

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitkit/internal/cli"
	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/utils"
)

type LogCmd struct {
	Habit    string `arg:"" help:"Habit name."`
	Date     string `help:"Date in YYYY-MM-DD format (default: today)."`
	Count    int    `short:"c" help:"Repetitions to log." default:"1"`
	Duration int    `short:"d" help:"Minutes to log (duration habits)."`
	Quantity int    `short:"q" help:"Quantity to log (quantity habits)."`
	Note     string `short:"n" help:"Optional note."`
}

func (c *LogCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}

	day, err := ctx.ResolveDay(c.Date)
	if err != nil {
		return err
	}
	dayKey := utils.FormatDay(day)

	if habit.BadHabit {
		fmt.Printf("Note: %q is a bad habit; logging marks the day as a lapse.\n", c.Habit)
	}

	existing, err := ctx.Store.GetCompletionsForDay(habit.ID, dayKey)
	if err != nil {
		return err
	}
	for _, rec := range existing {
		if rec.Skipped {
			return fmt.Errorf("%s is skipped for %q; unlog it first", dayKey, c.Habit)
		}
	}

	rec := models.CompletionRecord{
		ID:          uuid.New().String(),
		HabitID:     habit.ID,
		Day:         dayKey,
		LoggedAt:    time.Now(),
		Completed:   true,
		DurationMin: c.Duration,
		Quantity:    c.Quantity,
		Note:        c.Note,
	}

	// Repetition habits log one record per repetition so partial progress
	// shows up in the day's ratio.
	count := c.Count
	if count < 1 {
		count = 1
	}
	for i := 0; i < count; i++ {
		if i > 0 {
			rec.ID = uuid.New().String()
		}
		if err := ctx.Store.AddCompletion(rec); err != nil {
			return err
		}
	}
	ctx.Cache.Invalidate(habit.ID)

	snap, err := ctx.Snapshot(habit)
	if err != nil {
		return err
	}
	verdict := snap.Verdict(day)

	if !verdict.IsActive {
		fmt.Printf("Logged %q for %s (not scheduled that day)\n", c.Habit, dayKey)
		return nil
	}
	if verdict.IsCompleted {
		fmt.Printf("Logged %q for %s: completed! (%d/%d)\n",
			c.Habit, dayKey, verdict.Progress.Count, verdict.Progress.Target)
	} else {
		fmt.Printf("Logged %q for %s (%d/%d)\n",
			c.Habit, dayKey, verdict.Progress.Count, verdict.Progress.Target)
	}
	return nil
}

type SkipCmd struct {
	Habit string `arg:"" help:"Habit name."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)."`
	Note  string `short:"n" help:"Optional reason."`
}

func (c *SkipCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}

	day, err := ctx.ResolveDay(c.Date)
	if err != nil {
		return err
	}
	dayKey := utils.FormatDay(day)

	existing, err := ctx.Store.GetCompletionsForDay(habit.ID, dayKey)
	if err != nil {
		return err
	}
	for _, rec := range existing {
		if rec.Skipped {
			return fmt.Errorf("%s is already skipped for %q", dayKey, c.Habit)
		}
	}
	if len(existing) > 0 {
		return fmt.Errorf("%q already has progress logged for %s; unlog it before skipping", c.Habit, dayKey)
	}

	rec := models.CompletionRecord{
		ID:       uuid.New().String(),
		HabitID:  habit.ID,
		Day:      dayKey,
		LoggedAt: time.Now(),
		Skipped:  true,
		Note:     c.Note,
	}
	if err := ctx.Store.AddCompletion(rec); err != nil {
		return err
	}
	ctx.Cache.Invalidate(habit.ID)

	fmt.Printf("Skipped %q for %s (streak preserved)\n", c.Habit, dayKey)
	return nil
}

type UnlogCmd struct {
	Habit string `arg:"" help:"Habit name."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)."`
}

func (c *UnlogCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.ResolveHabit(c.Habit)
	if err != nil {
		return err
	}

	day, err := ctx.ResolveDay(c.Date)
	if err != nil {
		return err
	}
	dayKey := day.Format(constants.DateFormat)

	records, err := ctx.Store.GetCompletionsForDay(habit.ID, dayKey)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("nothing logged for %q on %s", c.Habit, dayKey)
	}

	for _, rec := range records {
		if err := ctx.Store.DeleteCompletion(rec.ID); err != nil {
			return err
		}
	}
	ctx.Cache.Invalidate(habit.ID)

	fmt.Printf("Removed %d record(s) for %q on %s\n", len(records), c.Habit, dayKey)
	return nil
}
