package settings

import (
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/validation"
)

type SettingsShowCmd struct{}

func (c *SettingsShowCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	ctx.Println("Current Settings:")
	ctx.Printf("  Timezone:              %s\n", settings.Timezone)
	ctx.Printf("  Fiber Target:          %g g\n", settings.FiberTarget)
	ctx.Printf("  Water Target:          %g L\n", settings.WaterTarget)
	ctx.Println("\nNotification Settings:")
	ctx.Printf("  Notifications Enabled: %v\n", settings.NotificationsEnabled)
	ctx.Printf("  Reminder Times:        %s\n", strings.Join(settings.ReminderTimes, ", "))
	if ctx.Config.Timezone != "" && ctx.Config.Timezone != settings.Timezone {
		ctx.Printf("\nTimezone overridden by environment: %s\n", ctx.Config.Timezone)
	}
	return nil
}

type SettingsSetCmd struct {
	Key   string `arg:"" help:"Setting name (timezone, fiber_target, water_target, reminder_times, notifications_enabled)."`
	Value string `arg:"" help:"New value."`
}

func (c *SettingsSetCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	values := models.SettingsToMap(settings)
	if _, ok := values[c.Key]; !ok {
		keys := make([]string, 0, len(values))
		for k := range values {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return fmt.Errorf("unknown setting %q (valid: %s)", c.Key, strings.Join(keys, ", "))
	}
	values[c.Key] = strings.TrimSpace(c.Value)

	updated, err := models.MapToSettings(values)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", c.Key, err)
	}
	result := validation.New().ValidateSettings(updated)
	if err := result.Err(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	if err := ctx.Store.SaveSettings(updated); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	ctx.Printf("✓ %s = %s\n", c.Key, models.SettingsToMap(updated)[c.Key])
	return nil
}
