// Package achievements evaluates badge eligibility from aggregate history stats.
package achievements

import (
	"fmt"

	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/scoring"
)

var milestones = map[int]struct{}{
	7: {}, 14: {}, 21: {}, 30: {}, 60: {}, 90: {}, 180: {}, 365: {},
}

// ComputeStats aggregates entries into the stats achievements are checked against.
// Streak values are passed through unchanged.
func ComputeStats(entries []models.DailyEntry, tmpl models.Template, current, longest int) models.AchievementStats {
	stats := models.AchievementStats{
		CurrentStreak: current,
		LongestStreak: longest,
		TotalDays:     len(entries),
	}
	for _, e := range entries {
		score := scoring.DailyScore(e, tmpl)
		if score == 1 {
			stats.PerfectDays++
		}
		if score >= constants.CompletionThreshold {
			stats.DaysAbove80++
		}
	}
	return stats
}

// Value returns the stat the metric refers to.
func (m Metric) Value(stats models.AchievementStats) int {
	switch m {
	case MetricTotalDays:
		return stats.TotalDays
	case MetricLongestStreak:
		return stats.LongestStreak
	case MetricPerfectDays:
		return stats.PerfectDays
	case MetricDaysAbove80:
		return stats.DaysAbove80
	default:
		return 0
	}
}

// Eligible reports whether stats satisfy the achievement.
func (a Achievement) Eligible(stats models.AchievementStats) bool {
	return a.Metric.Value(stats) >= a.Threshold
}

// NewlyUnlocked returns the achievements that stats satisfy and that are not
// yet in unlockedIDs, in catalog order. unlockedIDs is not modified.
func NewlyUnlocked(stats models.AchievementStats, unlockedIDs []string) []Achievement {
	unlocked := make(map[string]struct{}, len(unlockedIDs))
	for _, id := range unlockedIDs {
		unlocked[id] = struct{}{}
	}

	var out []Achievement
	for _, a := range catalog {
		if _, ok := unlocked[a.ID]; ok {
			continue
		}
		if a.Eligible(stats) {
			out = append(out, a)
		}
	}
	return out
}

// StreakEmoji returns the flame badge shown next to a streak count.
func StreakEmoji(n int) string {
	switch {
	case n <= 0:
		return ""
	case n < 7:
		return "🔥"
	case n < 30:
		return "🔥🔥"
	default:
		return "🔥🔥🔥"
	}
}

// StreakMilestone returns a celebration message when n is exactly a milestone length.
func StreakMilestone(n int) (string, bool) {
	if _, ok := milestones[n]; !ok {
		return "", false
	}
	return fmt.Sprintf("%d zile la rând! Incredibil! 🎉", n), true
}
