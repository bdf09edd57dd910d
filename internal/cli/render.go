package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/julianstephens/tally/internal/achievements"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/scoring"
	"github.com/julianstephens/tally/internal/tracker"
)

// RenderEntry writes the checklist for one day.
func RenderEntry(w io.Writer, entry models.DailyEntry, tmpl models.Template) {
	fmt.Fprintf(w, "📅 %s  %d%%", entry.Date, scoring.Percent(entry, tmpl))
	if scoring.DayComplete(entry, tmpl) {
		fmt.Fprint(w, "  ✓ complete")
	}
	fmt.Fprintln(w)

	for _, ts := range tmpl.Sections {
		ds := entry.FindSection(ts.Name)
		checked := map[string]bool{}
		done := false
		if ds != nil {
			for _, it := range ds.Items {
				checked[it.ID] = it.Checked
			}
			done = scoring.SectionComplete(*ds, tmpl)
		}
		mark := " "
		if done {
			mark = "✓"
		}
		count := 0
		for _, it := range ts.Items {
			if checked[it.ID] {
				count++
			}
		}
		fmt.Fprintf(w, "\n[%s] %s (%d/%d, need %d)\n", mark, ts.Name, count, len(ts.Items), ts.Threshold())
		for _, it := range ts.Items {
			box := "[ ]"
			if checked[it.ID] {
				box = "[x]"
			}
			fmt.Fprintf(w, "  %s %-4s %s\n", box, it.ID, it.Label)
		}
	}

	fiber, water := entry.FiberOrDefault(), entry.WaterOrDefault()
	fmt.Fprintf(w, "\n%s Fiber: %g/%g g   %s Water: %g/%g L\n",
		metMark(fiber), fiber.Value, fiber.Target, metMark(water), water.Value, water.Target)
	if entry.Notes != "" {
		fmt.Fprintf(w, "📝 %s\n", entry.Notes)
	}
}

func metMark(t models.Target) string {
	if t.Met() {
		return "✓"
	}
	return "·"
}

// RenderUpdate reports the side effects of an edit.
func RenderUpdate(w io.Writer, u tracker.Update) {
	fmt.Fprintf(w, "%s: %d%%", u.Entry.Date, u.Percent)
	if u.Entry.DayComplete {
		fmt.Fprint(w, " ✓")
	}
	if u.Streak.Current > 0 {
		fmt.Fprintf(w, "  streak %d %s", u.Streak.Current, achievements.StreakEmoji(u.Streak.Current))
	}
	fmt.Fprintln(w)
	for _, a := range u.Unlocked {
		fmt.Fprintf(w, "🏅 Unlocked: %s %s (%s)\n", a.Emoji, a.Name, a.Description)
	}
	if u.Milestone != "" {
		fmt.Fprintln(w, u.Milestone)
	}
}

// Bar renders a percentage as a fixed-width bar.
func Bar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
