package stats

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitkit/internal/cli"
	"github.com/julianstephens/habitkit/internal/models"
)

var (
	gridDoneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	gridPartialStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	gridMissStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	gridSkipStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	gridOffStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	gridLabelStyle   = lipgloss.NewStyle().Bold(true)
)

type GridCmd struct {
	Habit string `arg:"" optional:"" help:"Habit name (default: all active habits)."`
	Days  int    `short:"d" help:"Number of days to show." default:"30"`
}

func (c *GridCmd) Run(ctx *cli.Context) error {
	today, err := ctx.Today()
	if err != nil {
		return err
	}

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

	const maxNameLen = 20
	start := today.AddDate(0, 0, -(c.Days - 1))

	// Month markers above the grid
	header := strings.Repeat(" ", maxNameLen+1)
	lastMonth := ""
	for i := 0; i < c.Days; i++ {
		day := start.AddDate(0, 0, i)
		month := day.Format("Jan")
		if month != lastMonth {
			header += gridLabelStyle.Render(month[:1])
			lastMonth = month
		} else {
			header += " "
		}
	}
	fmt.Println(header)

	for _, habit := range habits {
		snap, err := ctx.Snapshot(habit)
		if err != nil {
			return err
		}

		name := habit.Name
		if len(name) > maxNameLen {
			name = name[:maxNameLen-3] + "..."
		}
		row := fmt.Sprintf("%-*s ", maxNameLen, name)

		for i := 0; i < c.Days; i++ {
			day := start.AddDate(0, 0, i)
			row += renderCell(ctx.Cache.Verdict(snap, day))
		}
		fmt.Println(row)
	}

	fmt.Println()
	fmt.Printf("  %s done  %s partial  %s missed  %s skipped  %s off\n",
		gridDoneStyle.Render("■"), gridPartialStyle.Render("◪"),
		gridMissStyle.Render("□"), gridSkipStyle.Render("◌"), gridOffStyle.Render("·"))
	return nil
}

func renderCell(v models.DayVerdict) string {
	switch {
	case !v.IsActive:
		return gridOffStyle.Render("·")
	case v.IsSkipped:
		return gridSkipStyle.Render("◌")
	case v.IsCompleted:
		return gridDoneStyle.Render("■")
	case v.Progress.Ratio > 0:
		return gridPartialStyle.Render("◪")
	default:
		return gridMissStyle.Render("□")
	}
}
