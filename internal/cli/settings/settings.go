package settings

import (
	"fmt"

	"github.com/julianstephens/habitkit/internal/cli"
	"github.com/julianstephens/habitkit/internal/utils"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Timezone       *string `help:"IANA timezone for day boundaries (e.g. Europe/Berlin, or 'Local')."`
	DefaultLogDays *int    `help:"Default number of days shown by grid and stats."`
	FirstDayMonday *bool   `help:"Start calendar weeks on Monday."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		fmt.Println("Current Settings:")
		fmt.Printf("  Timezone:         %s\n", settings.Timezone)
		fmt.Printf("  Default Log Days: %d\n", settings.DefaultLogDays)
		fmt.Printf("  First Day Monday: %v\n", settings.FirstDayMonday)
		return nil
	}

	updated := false
	if c.Timezone != nil {
		if !utils.ValidateTimezone(*c.Timezone) {
			return fmt.Errorf("invalid timezone: %s", *c.Timezone)
		}
		settings.Timezone = *c.Timezone
		updated = true
	}
	if c.DefaultLogDays != nil {
		if *c.DefaultLogDays < 1 {
			return fmt.Errorf("default log days must be at least 1")
		}
		settings.DefaultLogDays = *c.DefaultLogDays
		updated = true
	}
	if c.FirstDayMonday != nil {
		settings.FirstDayMonday = *c.FirstDayMonday
		updated = true
	}

	if updated {
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		fmt.Println("Settings updated successfully.")
	} else {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
	}

	return nil
}
