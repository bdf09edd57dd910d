package constants

const (
	SettingTimezone             = "timezone"
	SettingFiberTarget          = "fiber_target"
	SettingWaterTarget          = "water_target"
	SettingReminderTimes        = "reminder_times"
	SettingNotificationsEnabled = "notifications_enabled"

	// Default Settings Values
	DefaultTimezone             = "Local" // Use system local timezone by default
	DefaultReminderTimes        = "08:00,13:00,20:00"
	DefaultNotificationsEnabled = true
)
