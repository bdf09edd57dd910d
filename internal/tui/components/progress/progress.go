package progress

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/tally/internal/achievements"
	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/tracker"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	completeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Model renders statistics and the achievement catalog.
type Model struct {
	summary  tracker.Summary
	statuses []tracker.AchievementStatus
	width    int
}

func New() Model {
	return Model{}
}

func (m *Model) SetData(summary tracker.Summary, statuses []tracker.AchievementStatus) {
	m.summary = summary
	m.statuses = statuses
}

func (m *Model) SetWidth(width int) {
	m.width = width
}

func (m Model) barWidth() int {
	if m.width > 0 && m.width < 60 {
		return 10
	}
	return 20
}

func (m Model) StatsView() string {
	s := m.summary
	var b strings.Builder

	b.WriteString(headerStyle.Render("Streak") + "\n")
	fmt.Fprintf(&b, "  current %d %s   longest %d\n\n", s.Streak.Current, achievements.StreakEmoji(s.Streak.Current), s.Streak.Longest)

	b.WriteString(headerStyle.Render("Completion") + "\n")
	fmt.Fprintf(&b, "  last 7   %s %3d%%\n", cli.Bar(s.Rate7, m.barWidth()), s.Rate7)
	fmt.Fprintf(&b, "  last 30  %s %3d%%\n", cli.Bar(s.Rate30, m.barWidth()), s.Rate30)
	fmt.Fprintf(&b, "  %d days tracked · %d perfect · %d at 80%%+\n\n", s.Stats.TotalDays, s.Stats.PerfectDays, s.Stats.DaysAbove80)

	b.WriteString(headerStyle.Render("Sections") + "\n")
	for _, r := range s.Sections {
		fmt.Fprintf(&b, "  %-12s %s %3d%%\n", r.Section, cli.Bar(r.Percent, m.barWidth()), r.Percent)
	}

	if len(s.Recent) > 0 {
		b.WriteString("\n" + headerStyle.Render("Recent") + "\n")
		for _, d := range s.Recent {
			line := fmt.Sprintf("  %s %s %3d%%", d.Date, cli.Bar(d.Percent, m.barWidth()), d.Percent)
			if d.Complete {
				line = completeStyle.Render(line + " ✓")
			}
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}

func (m Model) AchievementsView() string {
	var b strings.Builder
	unlocked := 0
	for _, a := range m.statuses {
		if a.Unlocked {
			unlocked++
		}
	}
	b.WriteString(headerStyle.Render(fmt.Sprintf("Achievements %d/%d", unlocked, len(m.statuses))) + "\n\n")
	for _, a := range m.statuses {
		if a.Unlocked {
			fmt.Fprintf(&b, "  %s %-18s %s\n", a.Emoji, a.Name, a.Description)
		} else {
			b.WriteString(mutedStyle.Render(fmt.Sprintf("  🔒 %-18s %s", a.Name, a.Description)) + "\n")
		}
	}
	return b.String()
}
