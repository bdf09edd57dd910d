package models

// Streak is the cached result of the streak calculation.
type Streak struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// AchievementStats is the aggregate view achievements are evaluated against.
// It is never persisted.
type AchievementStats struct {
	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`
	TotalDays     int `json:"total_days"`
	PerfectDays   int `json:"perfect_days"`
	DaysAbove80   int `json:"days_above_80"`
}
