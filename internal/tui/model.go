// Package tui is the interactive daily checklist.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/scoring"
	"github.com/julianstephens/tally/internal/tracker"
	"github.com/julianstephens/tally/internal/tui/components/checklist"
	"github.com/julianstephens/tally/internal/tui/components/progress"
)

type SessionState int

const (
	StateChecklist SessionState = iota
	StateStats
	StateAchievements
	StateEditTarget
	StateEditNote
)

var tabTitles = []string{"Today", "Stats", "Achievements"}

type TargetFormModel struct {
	Kind  string
	Value string
	Goal  string
}

type NoteFormModel struct {
	Text string
}

type Model struct {
	tracker   *tracker.Tracker
	state     SessionState
	keys      KeyMap
	help      help.Model
	checklist checklist.Model
	progress  progress.Model
	form      *huh.Form
	target    *TargetFormModel
	note      *NoteFormModel
	date      string
	today     string
	tmpl      models.Template
	percent   int
	streak    models.Streak
	status    string
	err       error
	quitting  bool
	width     int
	height    int
}

// NewModel opens the checklist on today's entry.
func NewModel(tr *tracker.Tracker) (Model, error) {
	today, err := tr.Today()
	if err != nil {
		return Model{}, err
	}
	m := Model{
		tracker:   tr,
		state:     StateChecklist,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		checklist: checklist.New(0, 0),
		progress:  progress.New(),
		date:      today,
		today:     today,
	}
	if err := m.reload(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// reload refreshes every view from the store.
func (m *Model) reload() error {
	entry, tmpl, err := m.tracker.Entry(m.date)
	if err != nil {
		return err
	}
	m.tmpl = tmpl
	m.percent = scoring.Percent(entry, tmpl)
	m.checklist.SetEntry(entry, tmpl)

	summary, err := m.tracker.Summary(0)
	if err != nil {
		return err
	}
	statuses, err := m.tracker.Achievements()
	if err != nil {
		return err
	}
	m.progress.SetData(summary, statuses)
	m.streak = summary.Streak
	return nil
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	if m.state == StateChecklist {
		keys = append(keys, checklist.DefaultKeyMap().Toggle, m.keys.Target, m.keys.Note)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	days := []key.Binding{m.keys.PrevDay, m.keys.NextDay, m.keys.Today}
	ck := checklist.DefaultKeyMap()
	actions := []key.Binding{ck.Toggle, ck.Section, m.keys.Target, m.keys.Note}
	return [][]key.Binding{global, days, actions}
}

func (m Model) Init() tea.Cmd {
	return m.checklist.Init()
}
