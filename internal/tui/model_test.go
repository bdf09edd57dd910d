package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/tally/internal/storage"
	"github.com/julianstephens/tally/internal/tracker"
)

func newTestModel(t *testing.T) (Model, *tracker.Tracker) {
	t.Helper()
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "tally.json"))
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}
	clock := func() time.Time { return time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC) }
	tr := tracker.New(store, tracker.WithClock(clock), tracker.WithTimezone("UTC"))

	m, err := NewModel(tr)
	if err != nil {
		t.Fatalf("NewModel() error = %v", err)
	}
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model), tr
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send delivers msg and feeds any resulting message back into the model.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd != nil {
		if out := cmd(); out != nil {
			next, _ = m.Update(out)
			m = next.(Model)
		}
	}
	return m
}

func TestModel_ToggleItem(t *testing.T) {
	m, tr := newTestModel(t)

	m = send(t, m, runes("x"))
	entry, tmpl, err := tr.Entry("2025-10-15")
	if err != nil {
		t.Fatal(err)
	}
	if !entry.Sections[0].Items[0].Checked {
		t.Fatalf("first item not checked after toggle: %+v", entry.Sections[0])
	}
	if m.percent != 6 {
		t.Errorf("percent = %d, want 6", m.percent)
	}
	if len(tmpl.Sections) != 3 {
		t.Fatal("unexpected template")
	}

	m = send(t, m, runes("x"))
	entry, _, _ = tr.Entry("2025-10-15")
	if entry.Sections[0].Items[0].Checked {
		t.Error("first item still checked after second toggle")
	}
	if !strings.Contains(m.View(), "2025-10-15 (today)") {
		t.Errorf("view missing date header:\n%s", m.View())
	}
}

func TestModel_SectionAndUnlock(t *testing.T) {
	m, tr := newTestModel(t)

	m = send(t, m, runes("s"))
	entry, _, _ := tr.Entry("")
	if !entry.Sections[0].SectionComplete {
		t.Fatal("section not completed")
	}

	// move the cursor into the second and third sections
	for i := 0; i < 4; i++ {
		m = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	m = send(t, m, runes("s"))
	for i := 0; i < 10; i++ {
		m = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	m = send(t, m, runes("s"))

	if m.percent != 88 {
		t.Errorf("percent = %d, want 88", m.percent)
	}
	if !strings.Contains(m.status, "Prima Zi") {
		t.Errorf("status = %q, want unlock of Prima Zi", m.status)
	}
	if m.streak.Current != 1 {
		t.Errorf("streak = %d, want 1", m.streak.Current)
	}
}

func TestModel_DayNavigation(t *testing.T) {
	m, _ := newTestModel(t)

	m = send(t, m, runes("l"))
	if m.date != "2025-10-15" {
		t.Errorf("moved past today to %s", m.date)
	}
	m = send(t, m, runes("h"))
	if m.date != "2025-10-14" {
		t.Errorf("date = %s, want 2025-10-14", m.date)
	}
	m = send(t, m, runes("t"))
	if m.date != "2025-10-15" {
		t.Errorf("date = %s, want today", m.date)
	}
}

func TestModel_Tabs(t *testing.T) {
	m, _ := newTestModel(t)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.state != StateStats || !strings.Contains(m.View(), "Completion") {
		t.Errorf("state = %v after tab", m.state)
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.state != StateAchievements || !strings.Contains(m.View(), "Achievements 0/13") {
		t.Errorf("state = %v after second tab", m.state)
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.state != StateChecklist {
		t.Errorf("state = %v, want checklist after wrapping", m.state)
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.state != StateAchievements {
		t.Errorf("state = %v after shift+tab", m.state)
	}
}

func TestModel_FormEscape(t *testing.T) {
	m, _ := newTestModel(t)

	next, _ := m.Update(runes("n"))
	m = next.(Model)
	if m.state != StateEditNote {
		t.Fatalf("state = %v, want note form", m.state)
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	if m.state != StateChecklist {
		t.Errorf("state = %v after esc", m.state)
	}

	next, _ = m.Update(runes("f"))
	m = next.(Model)
	if m.state != StateEditTarget {
		t.Fatalf("state = %v, want target form", m.state)
	}
}

func TestModel_Quit(t *testing.T) {
	m, _ := newTestModel(t)
	next, cmd := m.Update(runes("q"))
	if !next.(Model).quitting || cmd == nil {
		t.Error("q did not quit")
	}
}

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		in       string
		optional bool
		wantErr  bool
	}{
		{"12", false, false},
		{"1,5", false, false},
		{"", true, false},
		{"", false, true},
		{"-1", false, true},
		{"abc", true, true},
	}
	for _, tt := range tests {
		if err := validateAmount(tt.optional)(tt.in); (err != nil) != tt.wantErr {
			t.Errorf("validateAmount(%v)(%q) error = %v, wantErr %v", tt.optional, tt.in, err, tt.wantErr)
		}
	}
	if got := parseAmount("1,5"); got != 1.5 {
		t.Errorf("parseAmount(1,5) = %v", got)
	}
}
