package achievements

import "github.com/julianstephens/tally/internal/constants"

// Metric names the statistic an achievement threshold applies to.
type Metric string

const (
	MetricTotalDays     Metric = "total_days"
	MetricLongestStreak Metric = "longest_streak"
	MetricPerfectDays   Metric = "perfect_days"
	MetricDaysAbove80   Metric = "days_above_80"
)

// Achievement is a badge unlocked once its metric reaches Threshold.
type Achievement struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Emoji       string         `json:"emoji"`
	Tier        constants.Tier `json:"tier"`
	Metric      Metric         `json:"metric"`
	Threshold   int            `json:"threshold"`
}

var catalog = []Achievement{
	{ID: "prima-zi", Name: "Prima Zi", Description: "Completează prima zi", Emoji: "⭐", Tier: constants.TierBeginner, Metric: MetricTotalDays, Threshold: 1},
	{ID: "inceput-bun", Name: "Început Bun", Description: "3 zile la rând", Emoji: "🌱", Tier: constants.TierBeginner, Metric: MetricLongestStreak, Threshold: 3},
	{ID: "o-saptamana", Name: "O Săptămână!", Description: "7 zile la rând", Emoji: "💪", Tier: constants.TierBeginner, Metric: MetricLongestStreak, Threshold: 7},
	{ID: "doua-saptamani", Name: "Două Săptămâni", Description: "14 zile la rând", Emoji: "🔥", Tier: constants.TierIntermediate, Metric: MetricLongestStreak, Threshold: 14},
	{ID: "consistent", Name: "Consistent", Description: "21 zile la rând - formează un obicei", Emoji: "🎯", Tier: constants.TierIntermediate, Metric: MetricLongestStreak, Threshold: 21},
	{ID: "o-luna", Name: "O Lună Întreagă", Description: "30 zile la rând", Emoji: "🌟", Tier: constants.TierIntermediate, Metric: MetricLongestStreak, Threshold: 30},
	{ID: "dedicat", Name: "Dedicat", Description: "60 zile la rând", Emoji: "💎", Tier: constants.TierAdvanced, Metric: MetricLongestStreak, Threshold: 60},
	{ID: "expert", Name: "Expert", Description: "90 zile la rând", Emoji: "👑", Tier: constants.TierAdvanced, Metric: MetricLongestStreak, Threshold: 90},
	{ID: "campion", Name: "Campion", Description: "180 zile la rând", Emoji: "🏆", Tier: constants.TierAdvanced, Metric: MetricLongestStreak, Threshold: 180},
	{ID: "legenda", Name: "Legendă", Description: "365 zile la rând - un an complet!", Emoji: "🎖️", Tier: constants.TierAdvanced, Metric: MetricLongestStreak, Threshold: 365},
	{ID: "perfectionist", Name: "Perfectionist", Description: "Prima zi cu 100% completare", Emoji: "✨", Tier: constants.TierSpecial, Metric: MetricPerfectDays, Threshold: 1},
	{ID: "artist", Name: "Artist", Description: "10 zile perfecte", Emoji: "🎨", Tier: constants.TierSpecial, Metric: MetricPerfectDays, Threshold: 10},
	{ID: "transformare", Name: "Transformare", Description: "30 zile cu 80%+ completare", Emoji: "🚀", Tier: constants.TierSpecial, Metric: MetricDaysAbove80, Threshold: 30},
}

// Catalog returns every achievement in display order.
func Catalog() []Achievement {
	out := make([]Achievement, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the catalog entry with the given id.
func Lookup(id string) (Achievement, bool) {
	for _, a := range catalog {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}
