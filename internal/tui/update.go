package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/tracker"
	"github.com/julianstephens/tally/internal/tui/components/checklist"
	"github.com/julianstephens/tally/internal/utils"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == StateEditTarget || m.state == StateEditNote {
		return m.updateForm(msg)
	}

	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.checklist.SetSize(msg.Width-4, msg.Height-8)
		m.progress.SetWidth(msg.Width)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % SessionState(len(tabTitles))
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state + SessionState(len(tabTitles)) - 1) % SessionState(len(tabTitles))
			return m, nil
		}

		if m.state == StateChecklist {
			switch {
			case key.Matches(msg, m.keys.PrevDay):
				return m.moveDay(-1), nil
			case key.Matches(msg, m.keys.NextDay):
				return m.moveDay(1), nil
			case key.Matches(msg, m.keys.Today):
				m.date = m.today
				m.setErr(m.reload())
				return m, nil
			case key.Matches(msg, m.keys.Target):
				return m.openTargetForm()
			case key.Matches(msg, m.keys.Note):
				return m.openNoteForm()
			}
		}

	case checklist.ToggleItemMsg:
		u, err := m.tracker.Toggle(m.date, msg.ID)
		m.applyUpdate(u, err)
		return m, nil

	case checklist.SetSectionMsg:
		u, err := m.tracker.SetSection(m.date, msg.Section, msg.Checked)
		m.applyUpdate(u, err)
		return m, nil
	}

	if m.state == StateChecklist {
		var cmd tea.Cmd
		m.checklist, cmd = m.checklist.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// moveDay shifts the viewed date, never past today.
func (m Model) moveDay(delta int) Model {
	date, err := utils.AddDays(m.date, delta)
	if err != nil {
		m.setErr(err)
		return m
	}
	if date > m.today {
		return m
	}
	m.date = date
	m.status = ""
	m.setErr(m.reload())
	return m
}

func (m *Model) setErr(err error) {
	m.err = err
}

func (m *Model) applyUpdate(u tracker.Update, err error) {
	if err != nil {
		m.err = err
		return
	}
	m.err = nil

	var parts []string
	for _, a := range u.Unlocked {
		parts = append(parts, fmt.Sprintf("🏅 %s %s", a.Emoji, a.Name))
	}
	if u.Milestone != "" {
		parts = append(parts, u.Milestone)
	}
	m.status = strings.Join(parts, "  ")
	m.setErr(m.reload())
}

func (m Model) openTargetForm() (tea.Model, tea.Cmd) {
	m.target = &TargetFormModel{Kind: string(constants.TargetFiber)}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Target").
				Options(
					huh.NewOption("Fiber (g)", string(constants.TargetFiber)),
					huh.NewOption("Water (L)", string(constants.TargetWater)),
				).
				Value(&m.target.Kind),
			huh.NewInput().
				Title("Amount").
				Value(&m.target.Value).
				Validate(validateAmount(false)),
			huh.NewInput().
				Title("Goal").
				Description("Leave empty to keep the current goal.").
				Value(&m.target.Goal).
				Validate(validateAmount(true)),
		),
	)
	m.state = StateEditTarget
	return m, m.form.Init()
}

func (m Model) openNoteForm() (tea.Model, tea.Cmd) {
	m.note = &NoteFormModel{Text: m.checklist.Entry().Notes}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Notes for " + m.date).
				Value(&m.note.Text),
		),
	)
	m.state = StateEditNote
	return m, m.form.Init()
}

func validateAmount(optional bool) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" && optional {
			return nil
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
		if err != nil {
			return errors.New("enter a number")
		}
		if v < 0 {
			return errors.New("cannot be negative")
		}
		return nil
	}
}

func parseAmount(s string) float64 {
	v, _ := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	return v
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = StateChecklist
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		var (
			u   tracker.Update
			err error
		)
		if m.state == StateEditTarget {
			u, err = m.tracker.SetTarget(m.date, constants.TargetKind(m.target.Kind), parseAmount(m.target.Value), parseAmount(m.target.Goal))
		} else {
			u, err = m.tracker.SetNotes(m.date, strings.TrimSpace(m.note.Text))
		}
		m.state = StateChecklist
		m.applyUpdate(u, err)
		return m, nil
	case huh.StateAborted:
		m.state = StateChecklist
		return m, nil
	}
	return m, cmd
}
