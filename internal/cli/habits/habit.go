package habits

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"

	"github.com/julianstephens/habitkit/internal/cli"
	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/utils"
	"github.com/julianstephens/habitkit/internal/validation"
)

type HabitCmd struct {
	Add         HabitAddCmd         `cmd:"" help:"Add a new habit."`
	List        HabitListCmd        `cmd:"" help:"List habits."`
	Archive     HabitArchiveCmd     `cmd:"" help:"Archive a habit."`
	Delete      HabitDeleteCmd      `cmd:"" help:"Delete a habit (soft delete)."`
	Restore     HabitRestoreCmd     `cmd:"" help:"Restore a deleted habit."`
	SetSchedule HabitSetScheduleCmd `cmd:"" name:"set-schedule" help:"Change a habit's schedule from a given date."`
}

// scheduleFlags are shared between 'habit add' and 'habit set-schedule'.
type scheduleFlags struct {
	Rule      string `short:"r" help:"Rule type (daily|daily-interval|daily-specific-days|weekly|weekly-interval|monthly|monthly-interval)." default:"daily"`
	Every     int    `short:"e" help:"Interval for daily-interval, weekly-interval, or monthly-interval rules." default:"1"`
	Days      string `short:"w" help:"Comma-separated weekdays (weekly rules) or semicolon-separated week segments (rotations)."`
	Weeks     int    `help:"Number of weeks in a specific-days rotation." default:"1"`
	MonthDays string `help:"Comma-separated days of month (1-31) for monthly rules."`
	Repeats   int    `help:"Repetitions per day to count as completed." default:"1"`
	Modality  string `short:"m" help:"How progress is measured (repetitions|duration|quantity)." default:"repetitions"`
	Duration  int    `short:"d" help:"Daily duration target in minutes (duration modality)."`
	Quantity  int    `short:"q" help:"Daily quantity target (quantity modality)."`
	Unit      string `help:"Unit label for the quantity target (e.g. pages, glasses)."`
	FollowUp  bool   `help:"Relaxed streaks: a missed day pauses the current streak instead of breaking it."`
}

func (f *scheduleFlags) buildRule() (models.RecurrenceRule, error) {
	switch constants.RuleType(f.Rule) {
	case constants.RuleDailyEveryDay:
		return models.RecurrenceRule{Type: constants.RuleDailyEveryDay}, nil

	case constants.RuleDailyInterval:
		if f.Every < 1 {
			return models.RecurrenceRule{}, fmt.Errorf("--every must be at least 1")
		}
		return models.RecurrenceRule{
			Type:         constants.RuleDailyInterval,
			IntervalDays: f.Every,
		}, nil

	case constants.RuleDailySpecificDays:
		if f.Days == "" {
			return models.RecurrenceRule{}, fmt.Errorf("--days must be specified for daily-specific-days")
		}
		mask, err := cli.ParseRotationDays(f.Days, f.Weeks)
		if err != nil {
			return models.RecurrenceRule{}, err
		}
		return models.RecurrenceRule{
			Type:            constants.RuleDailySpecificDays,
			WeeksInRotation: len(mask) / constants.DaysPerWeek,
			DaysMask:        mask,
		}, nil

	case constants.RuleWeekly, constants.RuleWeeklyInterval:
		if f.Days == "" {
			return models.RecurrenceRule{}, fmt.Errorf("--days must be specified for weekly rules")
		}
		mask, err := cli.ParseWeekdays(f.Days)
		if err != nil {
			return models.RecurrenceRule{}, err
		}
		rule := models.RecurrenceRule{Type: constants.RuleWeekly, WeekdayMask: mask}
		if constants.RuleType(f.Rule) == constants.RuleWeeklyInterval {
			if f.Every < 1 {
				return models.RecurrenceRule{}, fmt.Errorf("--every must be at least 1")
			}
			rule.Type = constants.RuleWeeklyInterval
			rule.IntervalWeeks = f.Every
		}
		return rule, nil

	case constants.RuleMonthly, constants.RuleMonthlyInterval:
		if f.MonthDays == "" {
			return models.RecurrenceRule{}, fmt.Errorf("--month-days must be specified for monthly rules")
		}
		mask, err := cli.ParseMonthDays(f.MonthDays)
		if err != nil {
			return models.RecurrenceRule{}, err
		}
		rule := models.RecurrenceRule{Type: constants.RuleMonthly, MonthDayMask: mask}
		if constants.RuleType(f.Rule) == constants.RuleMonthlyInterval {
			if f.Every < 1 {
				return models.RecurrenceRule{}, fmt.Errorf("--every must be at least 1")
			}
			rule.Type = constants.RuleMonthlyInterval
			rule.IntervalMonths = f.Every
		}
		return rule, nil

	default:
		return models.RecurrenceRule{}, fmt.Errorf("invalid rule type: %s", f.Rule)
	}
}

func (f *scheduleFlags) buildPattern(habitID, effectiveFrom string) (models.RecurrencePattern, error) {
	rule, err := f.buildRule()
	if err != nil {
		return models.RecurrencePattern{}, err
	}

	modality := constants.Modality(f.Modality)
	switch modality {
	case constants.ModalityRepetitions, constants.ModalityDuration, constants.ModalityQuantity:
	default:
		return models.RecurrencePattern{}, fmt.Errorf("invalid modality: %s", f.Modality)
	}
	if modality == constants.ModalityDuration && f.Duration <= 0 {
		return models.RecurrencePattern{}, fmt.Errorf("--duration must be positive for duration modality")
	}
	if modality == constants.ModalityQuantity && f.Quantity <= 0 {
		return models.RecurrencePattern{}, fmt.Errorf("--quantity must be positive for quantity modality")
	}
	if f.Repeats < 1 {
		return models.RecurrencePattern{}, fmt.Errorf("--repeats must be at least 1")
	}

	pattern := models.RecurrencePattern{
		ID:                uuid.New().String(),
		HabitID:           habitID,
		EffectiveFrom:     effectiveFrom,
		CreatedAt:         time.Now(),
		RepeatsPerDay:     f.Repeats,
		Modality:          modality,
		DurationTargetMin: f.Duration,
		QuantityTarget:    f.Quantity,
		QuantityUnit:      f.Unit,
		FollowUp:          f.FollowUp,
		Rule:              rule,
	}

	if conflicts := validation.New().ValidatePatterns(models.Habit{ID: habitID, StartDate: effectiveFrom}, []models.RecurrencePattern{pattern}); conflicts.HasConflicts() {
		return models.RecurrencePattern{}, fmt.Errorf("invalid schedule:\n%s", conflicts.FormatReport())
	}

	return pattern, nil
}

type HabitAddCmd struct {
	Name        string `arg:"" optional:"" help:"Habit name."`
	Icon        string `help:"Icon shown next to the habit."`
	Color       string `help:"Hex color for grid rendering."`
	Start       string `short:"s" help:"Start date (YYYY-MM-DD, default: today)."`
	Bad         bool   `help:"Track as a bad habit: a day counts when nothing is logged."`
	Interactive bool   `short:"i" help:"Build the schedule with an interactive form."`

	scheduleFlags `embed:""`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	if c.Interactive {
		if err := c.runForm(); err != nil {
			return err
		}
	}
	if c.Name == "" {
		return fmt.Errorf("habit name is required")
	}

	if _, err := ctx.Store.GetHabitByName(c.Name); err == nil {
		return fmt.Errorf("habit with name %q already exists", c.Name)
	}

	start := c.Start
	if start == "" {
		today, err := ctx.Today()
		if err != nil {
			return err
		}
		start = utils.FormatDay(today)
	} else if _, err := utils.ParseDay(start); err != nil {
		return fmt.Errorf("invalid start date: %s (expected YYYY-MM-DD)", start)
	}

	habit := models.Habit{
		ID:        uuid.New().String(),
		Name:      c.Name,
		Icon:      c.Icon,
		Color:     c.Color,
		StartDate: start,
		BadHabit:  c.Bad,
		CreatedAt: time.Now(),
	}

	pattern, err := c.buildPattern(habit.ID, start)
	if err != nil {
		return err
	}

	if err := ctx.Store.AddHabit(habit); err != nil {
		return err
	}
	if err := ctx.Store.AddPattern(pattern); err != nil {
		return err
	}

	fmt.Printf("Added habit: %s (%s)\n", c.Name, cli.FormatRule(pattern.Rule))
	return nil
}

// runForm fills in the command's fields via an interactive form. Flag values
// already provided are used as form defaults.
func (c *HabitAddCmd) runForm() error {
	every := strconv.Itoa(c.Every)
	repeats := strconv.Itoa(c.Repeats)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Name").
				Value(&c.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("habit name cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Icon").
				Description("Optional emoji shown next to the habit").
				Value(&c.Icon),
			huh.NewConfirm().
				Title("Bad habit?").
				Description("A bad habit counts as done on days with nothing logged").
				Value(&c.Bad),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Schedule").
				Options(
					huh.NewOption("Every day", string(constants.RuleDailyEveryDay)),
					huh.NewOption("Every N days", string(constants.RuleDailyInterval)),
					huh.NewOption("Specific days (rotation)", string(constants.RuleDailySpecificDays)),
					huh.NewOption("Weekly", string(constants.RuleWeekly)),
					huh.NewOption("Every N weeks", string(constants.RuleWeeklyInterval)),
					huh.NewOption("Monthly", string(constants.RuleMonthly)),
					huh.NewOption("Every N months", string(constants.RuleMonthlyInterval)),
				).
				Value(&c.Rule),
			huh.NewInput().
				Title("Interval").
				Description("For every-N rules").
				Value(&every).
				Validate(validatePositiveInt),
			huh.NewInput().
				Title("Days").
				Description("e.g. mon,wed,fri or mon,wed;tue,thu for rotations").
				Value(&c.Days),
			huh.NewInput().
				Title("Days of month").
				Description("e.g. 1,15 for monthly rules").
				Value(&c.MonthDays),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Progress measured by").
				Options(
					huh.NewOption("Repetitions", string(constants.ModalityRepetitions)),
					huh.NewOption("Duration (minutes)", string(constants.ModalityDuration)),
					huh.NewOption("Quantity", string(constants.ModalityQuantity)),
				).
				Value(&c.Modality),
			huh.NewInput().
				Title("Repetitions per day").
				Value(&repeats).
				Validate(validatePositiveInt),
			huh.NewConfirm().
				Title("Relaxed streaks?").
				Description("Missed days pause the streak instead of breaking it").
				Value(&c.FollowUp),
		),
	).WithTheme(huh.ThemeDracula())

	if err := form.Run(); err != nil {
		return err
	}

	c.Every, _ = strconv.Atoi(every)
	c.Repeats, _ = strconv.Atoi(repeats)
	return nil
}

func validatePositiveInt(s string) error {
	i, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if i < 1 {
		return fmt.Errorf("must be at least 1")
	}
	return nil
}

type HabitListCmd struct {
	Archived bool `help:"Include archived habits."`
	Deleted  bool `help:"Include deleted habits."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Store.GetAllHabits(c.Archived, c.Deleted)
	if err != nil {
		return err
	}

	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	today, err := ctx.Today()
	if err != nil {
		return err
	}

	for _, habit := range habits {
		status := ""
		if habit.DeletedAt != nil {
			status = " [DELETED]"
		} else if habit.ArchivedAt != nil {
			status = " [ARCHIVED]"
		}

		snap, err := ctx.Snapshot(habit)
		if err != nil {
			return err
		}

		schedule := "no schedule"
		if pattern, _ := snap.EffectivePattern(today); pattern != nil {
			schedule = fmt.Sprintf("%s, %s", cli.FormatRule(pattern.Rule), cli.FormatTarget(*pattern))
		}

		name := habit.Name
		if habit.Icon != "" {
			name = habit.Icon + " " + name
		}
		fmt.Printf("%s%s - %s (streak: %d)\n", name, status, schedule, snap.CurrentStreak(today))
	}

	return nil
}

type HabitArchiveCmd struct {
	Name      string `arg:"" help:"Habit name to archive."`
	Unarchive bool   `help:"Unarchive the habit instead."`
}

func (c *HabitArchiveCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.ResolveHabit(c.Name)
	if err != nil {
		return err
	}

	if c.Unarchive {
		if err := ctx.Store.UnarchiveHabit(habit.ID); err != nil {
			return err
		}
		fmt.Printf("Unarchived habit: %s\n", c.Name)
	} else {
		if err := ctx.Store.ArchiveHabit(habit.ID); err != nil {
			return err
		}
		fmt.Printf("Archived habit: %s\n", c.Name)
	}

	return nil
}

type HabitDeleteCmd struct {
	Name string `arg:"" help:"Habit name to delete."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.ResolveHabit(c.Name)
	if err != nil {
		return err
	}

	if err := ctx.Store.DeleteHabit(habit.ID); err != nil {
		return err
	}
	ctx.Cache.Invalidate(habit.ID)

	fmt.Printf("Deleted habit: %s\n", c.Name)
	fmt.Println("(This is a soft delete. Use 'habitkit habit restore' to undo)")
	return nil
}

type HabitRestoreCmd struct {
	Name string `arg:"" help:"Habit name to restore."`
}

func (c *HabitRestoreCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Store.GetAllHabits(true, true)
	if err != nil {
		return err
	}

	var habit *models.Habit
	for i, h := range habits {
		if h.Name == c.Name && h.DeletedAt != nil {
			habit = &habits[i]
			break
		}
	}
	if habit == nil {
		return fmt.Errorf("deleted habit %q not found", c.Name)
	}

	if err := ctx.Store.RestoreHabit(habit.ID); err != nil {
		return err
	}

	fmt.Printf("Restored habit: %s\n", c.Name)
	return nil
}

type HabitSetScheduleCmd struct {
	Name string `arg:"" help:"Habit name."`
	From string `short:"f" help:"Day the new schedule takes effect (YYYY-MM-DD, default: today)."`

	scheduleFlags `embed:""`
}

func (c *HabitSetScheduleCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.ResolveHabit(c.Name)
	if err != nil {
		return err
	}

	from, err := ctx.ResolveDay(c.From)
	if err != nil {
		return err
	}
	effectiveFrom := utils.FormatDay(from)

	// Earlier days keep their old verdicts: the new pattern only governs
	// days at or after its effective date.
	existing, err := ctx.Store.GetPatternsForHabit(habit.ID)
	if err != nil {
		return err
	}
	for _, p := range existing {
		if p.EffectiveFrom == effectiveFrom {
			return fmt.Errorf("a schedule change already exists for %s", effectiveFrom)
		}
	}

	pattern, err := c.buildPattern(habit.ID, effectiveFrom)
	if err != nil {
		return err
	}

	if err := ctx.Store.AddPattern(pattern); err != nil {
		return err
	}
	ctx.Cache.Invalidate(habit.ID)

	fmt.Printf("Schedule for %q from %s: %s, %s\n",
		c.Name, effectiveFrom, cli.FormatRule(pattern.Rule), cli.FormatTarget(pattern))
	return nil
}
