package tracker

import (
	"fmt"

	"github.com/julianstephens/tally/internal/achievements"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/scoring"
)

const recentDays = 14

// DayScore is one row of the recent history.
type DayScore struct {
	Date     string
	Percent  int
	Complete bool
}

// SectionRate is the completion rate of one template section.
type SectionRate struct {
	Section string
	Percent int
}

// Summary is the statistics view.
type Summary struct {
	Today        string
	TodayPercent int
	Streak       models.Streak
	Stats        models.AchievementStats
	Rate7        int
	Rate30       int
	Sections     []SectionRate // over the most recent window entries
	Recent       []DayScore
}

// Summary aggregates history. window bounds the per-section rates; a
// non-positive window uses 30.
func (t *Tracker) Summary(window int) (Summary, error) {
	if window <= 0 {
		window = 30
	}
	today, err := t.Today()
	if err != nil {
		return Summary{}, err
	}
	tmpl, err := t.store.GetTemplate()
	if err != nil {
		return Summary{}, fmt.Errorf("failed to load template: %w", err)
	}
	entries, err := t.store.GetEntries()
	if err != nil {
		return Summary{}, fmt.Errorf("failed to load entries: %w", err)
	}
	st, err := t.store.GetStreak()
	if err != nil {
		return Summary{}, fmt.Errorf("failed to load streak: %w", err)
	}

	todayEntry, err := t.entry(today, tmpl)
	if err != nil {
		return Summary{}, err
	}

	s := Summary{
		Today:        today,
		TodayPercent: scoring.Percent(todayEntry, tmpl),
		Streak:       st,
		Stats:        achievements.ComputeStats(entries, tmpl, st.Current, st.Longest),
		Rate7:        scoring.CompletionRate(entries, tmpl, 7),
		Rate30:       scoring.CompletionRate(entries, tmpl, 30),
	}
	for _, sec := range tmpl.Sections {
		s.Sections = append(s.Sections, SectionRate{
			Section: sec.Name,
			Percent: scoring.SectionCompletionRate(entries, tmpl, sec.Name, window),
		})
	}
	for _, e := range scoring.Recent(entries, recentDays) {
		s.Recent = append(s.Recent, DayScore{
			Date:     e.Date,
			Percent:  scoring.Percent(e, tmpl),
			Complete: scoring.DayComplete(e, tmpl),
		})
	}
	return s, nil
}

// AchievementStatus pairs a catalog entry with its unlock state.
type AchievementStatus struct {
	achievements.Achievement
	Unlocked bool
}

// Achievements returns the full catalog in display order.
func (t *Tracker) Achievements() ([]AchievementStatus, error) {
	ids, err := t.store.GetUnlockedAchievements()
	if err != nil {
		return nil, fmt.Errorf("failed to load achievements: %w", err)
	}
	unlocked := make(map[string]bool, len(ids))
	for _, id := range ids {
		unlocked[id] = true
	}

	catalog := achievements.Catalog()
	out := make([]AchievementStatus, 0, len(catalog))
	for _, a := range catalog {
		out = append(out, AchievementStatus{Achievement: a, Unlocked: unlocked[a.ID]})
	}
	return out, nil
}

// Progress reports today's percentage and completion, for reminders.
func (t *Tracker) Progress() (date string, percent int, complete bool, err error) {
	entry, tmpl, err := t.Entry("")
	if err != nil {
		return "", 0, false, err
	}
	return entry.Date, scoring.Percent(entry, tmpl), scoring.DayComplete(entry, tmpl), nil
}
