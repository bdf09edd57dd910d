package progress

import (
	"fmt"

	"github.com/julianstephens/tally/internal/achievements"
	"github.com/julianstephens/tally/internal/cli"
)

type StreakCmd struct{}

func (c *StreakCmd) Run(ctx *cli.Context) error {
	st, err := ctx.Store.GetStreak()
	if err != nil {
		return fmt.Errorf("failed to get streak: %w", err)
	}
	ctx.Printf("Current streak: %d %s\n", st.Current, achievements.StreakEmoji(st.Current))
	ctx.Printf("Longest streak: %d\n", st.Longest)
	return nil
}

type StatsCmd struct {
	Days int `help:"Window for per-section completion rates." default:"30"`
}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	s, err := ctx.Tracker.Summary(c.Days)
	if err != nil {
		return err
	}

	ctx.Printf("Today (%s): %d%%\n", s.Today, s.TodayPercent)
	ctx.Printf("Streak: %d current, %d longest %s\n", s.Streak.Current, s.Streak.Longest, achievements.StreakEmoji(s.Streak.Current))
	ctx.Printf("Days tracked: %d  perfect: %d  ≥80%%: %d\n", s.Stats.TotalDays, s.Stats.PerfectDays, s.Stats.DaysAbove80)
	ctx.Printf("Completion: %d%% last 7 entries, %d%% last 30 entries\n", s.Rate7, s.Rate30)

	ctx.Printf("\nSections (last %d entries):\n", c.Days)
	for _, r := range s.Sections {
		ctx.Printf("  %-12s %s %3d%%\n", r.Section, cli.Bar(r.Percent, 20), r.Percent)
	}

	if len(s.Recent) > 0 {
		ctx.Println("\nRecent days:")
		for _, d := range s.Recent {
			mark := " "
			if d.Complete {
				mark = "✓"
			}
			ctx.Printf("  %s %s %s %3d%%\n", d.Date, mark, cli.Bar(d.Percent, 20), d.Percent)
		}
	}
	return nil
}

type AchievementsCmd struct {
	All bool `help:"Include locked achievements."`
}

func (c *AchievementsCmd) Run(ctx *cli.Context) error {
	list, err := ctx.Tracker.Achievements()
	if err != nil {
		return err
	}

	unlocked := 0
	for _, a := range list {
		if a.Unlocked {
			unlocked++
		}
	}
	ctx.Printf("Achievements: %d/%d unlocked\n\n", unlocked, len(list))

	for _, a := range list {
		switch {
		case a.Unlocked:
			ctx.Printf("  %s %-18s %s\n", a.Emoji, a.Name, a.Description)
		case c.All:
			ctx.Printf("  🔒 %-18s %s (%s)\n", a.Name, a.Description, a.Tier)
		}
	}
	if unlocked == 0 && !c.All {
		ctx.Println("  None yet. Use --all to see what is available.")
	}
	return nil
}
