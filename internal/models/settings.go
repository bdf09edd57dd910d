package models

// Settings represents application-wide settings
type Settings struct {
	Timezone             string   `json:"timezone"`              // IANA timezone name (e.g. "Europe/Bucharest", or "Local" for system timezone)
	FiberTarget          float64  `json:"fiber_target"`          // fiber goal in grams assigned to new entries
	WaterTarget          float64  `json:"water_target"`          // water goal in litres assigned to new entries
	ReminderTimes        []string `json:"reminder_times"`        // HH:MM times at which reminders fire
	NotificationsEnabled bool     `json:"notifications_enabled"` // whether unlocks and reminders notify
}
