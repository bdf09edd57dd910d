package achievements

import (
	"strconv"
	"strings"
	"testing"

	"github.com/julianstephens/tally/internal/models"
)

func ids(list []Achievement) []string {
	out := make([]string, len(list))
	for i, a := range list {
		out[i] = a.ID
	}
	return out
}

func TestCatalogOrder(t *testing.T) {
	want := []string{
		"prima-zi", "inceput-bun", "o-saptamana", "doua-saptamani", "consistent", "o-luna",
		"dedicat", "expert", "campion", "legenda", "perfectionist", "artist", "transformare",
	}
	got := ids(Catalog())
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Catalog() = %v, want %v", got, want)
	}
}

func TestNewlyUnlocked(t *testing.T) {
	tests := []struct {
		name     string
		stats    models.AchievementStats
		unlocked []string
		want     []string
	}{
		{
			name:  "zero stats",
			stats: models.AchievementStats{},
			want:  nil,
		},
		{
			name:  "first day",
			stats: models.AchievementStats{TotalDays: 1},
			want:  []string{"prima-zi"},
		},
		{
			name:  "streak thresholds are inclusive",
			stats: models.AchievementStats{TotalDays: 14, LongestStreak: 14, CurrentStreak: 2},
			want:  []string{"prima-zi", "inceput-bun", "o-saptamana", "doua-saptamani"},
		},
		{
			name:  "just below threshold",
			stats: models.AchievementStats{TotalDays: 20, LongestStreak: 20, PerfectDays: 9, DaysAbove80: 29},
			want:  []string{"prima-zi", "inceput-bun", "o-saptamana", "doua-saptamani", "perfectionist"},
		},
		{
			name:     "already unlocked are skipped",
			stats:    models.AchievementStats{TotalDays: 5, LongestStreak: 3, PerfectDays: 1},
			unlocked: []string{"prima-zi", "perfectionist"},
			want:     []string{"inceput-bun"},
		},
		{
			name:  "current streak alone does not unlock",
			stats: models.AchievementStats{CurrentStreak: 30},
			want:  nil,
		},
		{
			name:  "days above 80",
			stats: models.AchievementStats{TotalDays: 40, DaysAbove80: 30},
			want:  []string{"prima-zi", "transformare"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(NewlyUnlocked(tt.stats, tt.unlocked))
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("NewlyUnlocked() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewlyUnlocked_Everything(t *testing.T) {
	stats := models.AchievementStats{
		CurrentStreak: 365, LongestStreak: 365, TotalDays: 365, PerfectDays: 365, DaysAbove80: 365,
	}
	all := NewlyUnlocked(stats, nil)
	if len(all) != len(Catalog()) {
		t.Fatalf("expected every achievement, got %d", len(all))
	}
	if got := NewlyUnlocked(stats, ids(Catalog())); len(got) != 0 {
		t.Errorf("expected nothing when everything is unlocked, got %v", ids(got))
	}
}

func TestNewlyUnlocked_Idempotent(t *testing.T) {
	stats := models.AchievementStats{TotalDays: 10, LongestStreak: 7, PerfectDays: 2}
	unlocked := []string{"prima-zi"}

	first := NewlyUnlocked(stats, unlocked)
	if len(first) == 0 {
		t.Fatal("expected new achievements on first call")
	}
	if len(unlocked) != 1 || unlocked[0] != "prima-zi" {
		t.Fatalf("input was mutated: %v", unlocked)
	}

	second := NewlyUnlocked(stats, append(unlocked, ids(first)...))
	if len(second) != 0 {
		t.Errorf("second call returned %v, want none", ids(second))
	}
}

func TestComputeStats(t *testing.T) {
	tmpl := models.Template{Sections: []models.Section{{
		Name:  "Diet",
		Items: []models.Item{{ID: "d1", Label: "a"}, {ID: "d2", Label: "b"}, {ID: "d3", Label: "c"}},
	}}}
	entry := func(checked int, targets bool) models.DailyEntry {
		e := models.DailyEntry{Date: "2025-10-10"}
		ds := models.DailySection{SectionName: "Diet"}
		for i := 0; i < 3; i++ {
			ds.Items = append(ds.Items, models.CheckedItem{ID: "d", Checked: i < checked})
		}
		e.Sections = []models.DailySection{ds}
		if targets {
			e.Fiber = &models.Target{Value: 25, Target: 25}
			e.Water = &models.Target{Value: 1.5, Target: 1.5}
		}
		return e
	}

	entries := []models.DailyEntry{
		entry(3, true),  // 5/5
		entry(2, true),  // 4/5
		entry(3, false), // 3/5
		entry(0, false), // 0/5
	}

	got := ComputeStats(entries, tmpl, 2, 9)
	want := models.AchievementStats{CurrentStreak: 2, LongestStreak: 9, TotalDays: 4, PerfectDays: 1, DaysAbove80: 2}
	if got != want {
		t.Errorf("ComputeStats() = %+v, want %+v", got, want)
	}

	if got := ComputeStats(nil, tmpl, 0, 0); got != (models.AchievementStats{}) {
		t.Errorf("ComputeStats(nil) = %+v, want zero", got)
	}
}

func TestStreakEmoji(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, ""},
		{1, "🔥"},
		{6, "🔥"},
		{7, "🔥🔥"},
		{29, "🔥🔥"},
		{30, "🔥🔥🔥"},
		{400, "🔥🔥🔥"},
	}
	for _, tt := range tests {
		if got := StreakEmoji(tt.n); got != tt.want {
			t.Errorf("StreakEmoji(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestStreakMilestone(t *testing.T) {
	for _, n := range []int{7, 14, 21, 30, 60, 90, 180, 365} {
		msg, ok := StreakMilestone(n)
		if !ok {
			t.Errorf("StreakMilestone(%d) not a milestone", n)
			continue
		}
		if !strings.Contains(msg, strconv.Itoa(n)) {
			t.Errorf("StreakMilestone(%d) = %q, missing the count", n, msg)
		}
	}
	for _, n := range []int{0, 1, 8, 29, 31, 366} {
		if msg, ok := StreakMilestone(n); ok || msg != "" {
			t.Errorf("StreakMilestone(%d) = %q, %v; want no milestone", n, msg, ok)
		}
	}
}

func TestLookup(t *testing.T) {
	a, ok := Lookup("legenda")
	if !ok || a.Threshold != 365 || a.Metric != MetricLongestStreak {
		t.Errorf("Lookup(legenda) = %+v, %v", a, ok)
	}
	if _, ok := Lookup("missing"); ok {
		t.Error("Lookup(missing) should fail")
	}
}
