package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/tally/internal/achievements"
	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/models"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateChecklist:
		content = lipgloss.JoinVertical(lipgloss.Left, m.viewHeader(), m.checklist.View())
	case StateStats:
		content = docStyle.Render(m.progress.StatsView())
	case StateAchievements:
		content = docStyle.Render(m.progress.AchievementsView())
	case StateEditTarget, StateEditNote:
		content = docStyle.Render(m.form.View())
	}

	var status string
	if m.err != nil {
		status = dangerStyle.Render("Error: " + m.err.Error())
	} else if m.status != "" {
		status = statusStyle.Render(m.status)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		status,
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range tabTitles {
		if m.state == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewHeader() string {
	entry := m.checklist.Entry()
	day := m.date
	if m.date == m.today {
		day += " (today)"
	}

	score := fmt.Sprintf("%s %3d%%", cli.Bar(m.percent, 20), m.percent)
	if entry.DayComplete {
		score = completeStyle.Render(score + " ✓")
	}

	line := fmt.Sprintf("📅 %s   %s   streak %d %s", day, score, m.streak.Current, achievements.StreakEmoji(m.streak.Current))
	targets := fmt.Sprintf("%s   %s", targetLine("Fiber", "g", entry.FiberOrDefault()), targetLine("Water", "L", entry.WaterOrDefault()))
	if entry.Notes != "" {
		targets += "   📝 " + entry.Notes
	}
	return headerStyle.Render(lipgloss.JoinVertical(lipgloss.Left, line, targets))
}

func targetLine(name, unit string, t models.Target) string {
	s := fmt.Sprintf("%s %g/%g %s", name, t.Value, t.Target, unit)
	if t.Met() {
		return completeStyle.Render(s + " ✓")
	}
	return s
}
