// Package storagetest holds the behavioural tests every storage.Provider must pass.
package storagetest

import (
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/storage"
)

// NewFunc returns an initialized, empty provider. Cleanup is the caller's job.
type NewFunc func(t *testing.T) storage.Provider

func sampleEntry(date string) models.DailyEntry {
	ts := time.Date(2025, 10, 10, 8, 30, 0, 0, time.UTC)
	return models.DailyEntry{
		ID:   "entry-" + date,
		Date: date,
		Sections: []models.DailySection{{
			SectionName:     "Dietă",
			Items:           []models.CheckedItem{{ID: "d1", Checked: true, Timestamp: &ts}, {ID: "d2"}},
			SectionComplete: false,
		}},
		Notes:     "felt good",
		Fiber:     &models.Target{Value: 12.5, Target: 25},
		Water:     &models.Target{Value: 1.5, Target: 1.5},
		UpdatedAt: ts,
	}
}

// Run exercises the full Provider contract against stores created by newStore.
func Run(t *testing.T, newStore NewFunc) {
	t.Run("DefaultsAfterInit", func(t *testing.T) {
		s := newStore(t)

		settings, err := s.GetSettings()
		if err != nil {
			t.Fatalf("GetSettings: %v", err)
		}
		if settings.FiberTarget != 25 || settings.WaterTarget != 1.5 {
			t.Errorf("default targets = %v/%v, want 25/1.5", settings.FiberTarget, settings.WaterTarget)
		}
		if len(settings.ReminderTimes) != 3 {
			t.Errorf("default reminder times = %v", settings.ReminderTimes)
		}

		tmpl, err := s.GetTemplate()
		if err != nil {
			t.Fatalf("GetTemplate: %v", err)
		}
		if len(tmpl.Sections) != 3 || tmpl.ItemCount() != 15 {
			t.Errorf("default template has %d sections / %d items", len(tmpl.Sections), tmpl.ItemCount())
		}

		streak, err := s.GetStreak()
		if err != nil || streak != (models.Streak{}) {
			t.Errorf("GetStreak() = %+v, %v; want zero", streak, err)
		}
	})

	t.Run("Settings", func(t *testing.T) {
		s := newStore(t)
		want := models.Settings{
			Timezone:             "Europe/Bucharest",
			FiberTarget:          30,
			WaterTarget:          2,
			ReminderTimes:        []string{"07:30", "21:00"},
			NotificationsEnabled: false,
		}
		if err := s.SaveSettings(want); err != nil {
			t.Fatalf("SaveSettings: %v", err)
		}
		got, err := s.GetSettings()
		if err != nil {
			t.Fatalf("GetSettings: %v", err)
		}
		if got.Timezone != want.Timezone || got.FiberTarget != 30 || got.WaterTarget != 2 ||
			got.NotificationsEnabled || len(got.ReminderTimes) != 2 || got.ReminderTimes[1] != "21:00" {
			t.Errorf("GetSettings() = %+v, want %+v", got, want)
		}
	})

	t.Run("Template", func(t *testing.T) {
		s := newStore(t)
		tmpl := models.Template{Sections: []models.Section{{
			Name:        "Sleep",
			Items:       []models.Item{{ID: "s1", Label: "8 hours", Required: true}},
			MinRequired: 1,
		}}}
		if err := s.SaveTemplate(tmpl); err != nil {
			t.Fatalf("SaveTemplate: %v", err)
		}
		got, err := s.GetTemplate()
		if err != nil {
			t.Fatalf("GetTemplate: %v", err)
		}
		if len(got.Sections) != 1 || got.Sections[0].Name != "Sleep" || got.Sections[0].MinRequired != 1 {
			t.Errorf("GetTemplate() = %+v", got)
		}
	})

	t.Run("EntryRoundTrip", func(t *testing.T) {
		s := newStore(t)

		if _, err := s.GetEntry("2025-10-10"); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("GetEntry on empty store: want ErrNotFound, got %v", err)
		}

		want := sampleEntry("2025-10-10")
		if err := s.SaveEntry(want); err != nil {
			t.Fatalf("SaveEntry: %v", err)
		}
		got, err := s.GetEntry("2025-10-10")
		if err != nil {
			t.Fatalf("GetEntry: %v", err)
		}
		if got.ID != want.ID || got.Notes != want.Notes || got.DayComplete != want.DayComplete {
			t.Errorf("GetEntry() = %+v", got)
		}
		if got.Fiber == nil || *got.Fiber != *want.Fiber || got.Water == nil || *got.Water != *want.Water {
			t.Errorf("targets = %+v / %+v", got.Fiber, got.Water)
		}
		if len(got.Sections) != 1 || len(got.Sections[0].Items) != 2 {
			t.Fatalf("sections = %+v", got.Sections)
		}
		item := got.Sections[0].Items[0]
		if !item.Checked || item.Timestamp == nil || !item.Timestamp.Equal(*want.Sections[0].Items[0].Timestamp) {
			t.Errorf("checked item = %+v", item)
		}
		if !got.UpdatedAt.Equal(want.UpdatedAt) {
			t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, want.UpdatedAt)
		}
	})

	t.Run("EntryWithoutTargets", func(t *testing.T) {
		s := newStore(t)
		e := sampleEntry("2025-10-10")
		e.Fiber, e.Water = nil, nil
		if err := s.SaveEntry(e); err != nil {
			t.Fatalf("SaveEntry: %v", err)
		}
		got, err := s.GetEntry(e.Date)
		if err != nil {
			t.Fatalf("GetEntry: %v", err)
		}
		if got.Fiber != nil || got.Water != nil {
			t.Errorf("expected absent targets, got %+v / %+v", got.Fiber, got.Water)
		}
	})

	t.Run("UpsertByDate", func(t *testing.T) {
		s := newStore(t)
		for _, d := range []string{"2025-10-02", "2025-10-05", "2025-10-01"} {
			if err := s.SaveEntry(sampleEntry(d)); err != nil {
				t.Fatalf("SaveEntry(%s): %v", d, err)
			}
		}

		changed := sampleEntry("2025-10-02")
		changed.Notes = "updated"
		changed.DayComplete = true
		if err := s.SaveEntry(changed); err != nil {
			t.Fatalf("SaveEntry: %v", err)
		}

		entries, err := s.GetEntries()
		if err != nil {
			t.Fatalf("GetEntries: %v", err)
		}
		var dates []string
		for _, e := range entries {
			dates = append(dates, e.Date)
		}
		want := []string{"2025-10-05", "2025-10-02", "2025-10-01"}
		if len(dates) != len(want) {
			t.Fatalf("dates = %v, want %v", dates, want)
		}
		for i := range want {
			if dates[i] != want[i] {
				t.Fatalf("dates = %v, want %v", dates, want)
			}
		}
		if entries[1].Notes != "updated" || !entries[1].DayComplete {
			t.Errorf("entry not replaced: %+v", entries[1])
		}
	})

	t.Run("SaveEntries", func(t *testing.T) {
		s := newStore(t)
		batch := []models.DailyEntry{sampleEntry("2025-09-01"), sampleEntry("2025-09-02")}
		if err := s.SaveEntries(batch); err != nil {
			t.Fatalf("SaveEntries: %v", err)
		}
		entries, err := s.GetEntries()
		if err != nil || len(entries) != 2 {
			t.Errorf("GetEntries() = %d entries, %v; want 2", len(entries), err)
		}
	})

	t.Run("Streak", func(t *testing.T) {
		s := newStore(t)
		for _, want := range []models.Streak{{Current: 3, Longest: 7}, {Current: 0, Longest: 7}} {
			if err := s.SaveStreak(want); err != nil {
				t.Fatalf("SaveStreak: %v", err)
			}
			got, err := s.GetStreak()
			if err != nil || got != want {
				t.Errorf("GetStreak() = %+v, %v; want %+v", got, err, want)
			}
		}
	})

	t.Run("Achievements", func(t *testing.T) {
		s := newStore(t)
		base := time.Date(2025, 10, 10, 9, 0, 0, 0, time.UTC)
		if err := s.UnlockAchievement("prima-zi", base); err != nil {
			t.Fatalf("UnlockAchievement: %v", err)
		}
		if err := s.UnlockAchievement("inceput-bun", base.Add(time.Hour)); err != nil {
			t.Fatalf("UnlockAchievement: %v", err)
		}
		// unlocking twice keeps the original
		if err := s.UnlockAchievement("prima-zi", base.Add(2*time.Hour)); err != nil {
			t.Fatalf("UnlockAchievement (again): %v", err)
		}

		ids, err := s.GetUnlockedAchievements()
		if err != nil {
			t.Fatalf("GetUnlockedAchievements: %v", err)
		}
		if len(ids) != 2 || ids[0] != "prima-zi" || ids[1] != "inceput-bun" {
			t.Errorf("GetUnlockedAchievements() = %v", ids)
		}
	})

	t.Run("SyncRuns", func(t *testing.T) {
		s := newStore(t)
		started := time.Date(2025, 10, 10, 9, 0, 0, 0, time.UTC)
		run := models.SyncRun{ID: "run-1", Remote: "postgresql", StartedAt: started}
		if err := s.RecordSyncRun(run); err != nil {
			t.Fatalf("RecordSyncRun: %v", err)
		}
		finished := started.Add(2 * time.Second)
		run.FinishedAt = &finished
		run.Pulled, run.Pushed = 3, 5
		if err := s.RecordSyncRun(run); err != nil {
			t.Fatalf("RecordSyncRun (update): %v", err)
		}
		older := models.SyncRun{ID: "run-0", Remote: "postgresql", StartedAt: started.Add(-time.Hour), Error: "timeout"}
		if err := s.RecordSyncRun(older); err != nil {
			t.Fatalf("RecordSyncRun: %v", err)
		}

		runs, err := s.GetSyncRuns(10)
		if err != nil {
			t.Fatalf("GetSyncRuns: %v", err)
		}
		if len(runs) != 2 || runs[0].ID != "run-1" || runs[1].ID != "run-0" {
			t.Fatalf("GetSyncRuns() = %+v", runs)
		}
		if runs[0].Pulled != 3 || runs[0].Pushed != 5 || runs[0].FinishedAt == nil {
			t.Errorf("run-1 = %+v", runs[0])
		}
		if runs[1].Error != "timeout" {
			t.Errorf("run-0 error = %q", runs[1].Error)
		}

		limited, err := s.GetSyncRuns(1)
		if err != nil || len(limited) != 1 {
			t.Errorf("GetSyncRuns(1) = %d runs, %v", len(limited), err)
		}
	})

	t.Run("ClearData", func(t *testing.T) {
		s := newStore(t)
		if err := s.SaveEntry(sampleEntry("2025-10-10")); err != nil {
			t.Fatalf("SaveEntry: %v", err)
		}
		if err := s.SaveStreak(models.Streak{Current: 1, Longest: 1}); err != nil {
			t.Fatalf("SaveStreak: %v", err)
		}
		if err := s.UnlockAchievement("prima-zi", time.Now()); err != nil {
			t.Fatalf("UnlockAchievement: %v", err)
		}
		settings, _ := s.GetSettings()
		settings.FiberTarget = 40
		if err := s.SaveSettings(settings); err != nil {
			t.Fatalf("SaveSettings: %v", err)
		}

		if err := s.ClearData(); err != nil {
			t.Fatalf("ClearData: %v", err)
		}

		entries, err := s.GetEntries()
		if err != nil || len(entries) != 0 {
			t.Errorf("entries after clear = %d, %v", len(entries), err)
		}
		if streak, _ := s.GetStreak(); streak != (models.Streak{}) {
			t.Errorf("streak after clear = %+v", streak)
		}
		if ids, _ := s.GetUnlockedAchievements(); len(ids) != 0 {
			t.Errorf("achievements after clear = %v", ids)
		}
		if got, _ := s.GetSettings(); got.FiberTarget != 40 {
			t.Errorf("settings were cleared: %+v", got)
		}
		if tmpl, _ := s.GetTemplate(); len(tmpl.Sections) == 0 {
			t.Error("template was cleared")
		}
	})
}
