package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/tally/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingTimezone:
			settings.Timezone = value
		case constants.SettingFiberTarget:
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing fiber_target: %w", err)
			}
			settings.FiberTarget = v
		case constants.SettingWaterTarget:
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing water_target: %w", err)
			}
			settings.WaterTarget = v
		case constants.SettingReminderTimes:
			settings.ReminderTimes = ParseReminderTimes(value)
		case constants.SettingNotificationsEnabled:
			settings.NotificationsEnabled = value == "true"
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingTimezone:             settings.Timezone,
		constants.SettingFiberTarget:          strconv.FormatFloat(settings.FiberTarget, 'f', -1, 64),
		constants.SettingWaterTarget:          strconv.FormatFloat(settings.WaterTarget, 'f', -1, 64),
		constants.SettingReminderTimes:        strings.Join(settings.ReminderTimes, ","),
		constants.SettingNotificationsEnabled: strconv.FormatBool(settings.NotificationsEnabled),
	}
}

// ParseReminderTimes splits a comma-separated list of HH:MM times.
func ParseReminderTimes(s string) []string {
	var times []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			times = append(times, part)
		}
	}
	return times
}

// DefaultSettings returns the settings written on init.
func DefaultSettings() Settings {
	return Settings{
		Timezone:             constants.DefaultTimezone,
		FiberTarget:          constants.DefaultFiberTarget,
		WaterTarget:          constants.DefaultWaterTarget,
		ReminderTimes:        ParseReminderTimes(constants.DefaultReminderTimes),
		NotificationsEnabled: constants.DefaultNotificationsEnabled,
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.Timezone == "" {
		settings.Timezone = constants.DefaultTimezone
	}
	if settings.FiberTarget == 0 {
		settings.FiberTarget = constants.DefaultFiberTarget
	}
	if settings.WaterTarget == 0 {
		settings.WaterTarget = constants.DefaultWaterTarget
	}
	if len(settings.ReminderTimes) == 0 {
		settings.ReminderTimes = ParseReminderTimes(constants.DefaultReminderTimes)
	}
}
