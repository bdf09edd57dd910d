package checklist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/scoring"
)

type ToggleItemMsg struct {
	ID string
}

type SetSectionMsg struct {
	Section string
	Checked bool
}

type Item struct {
	ID       string
	Label    string
	Section  string
	Checked  bool
	Required bool
	// SectionDone is the completion of the item's section.
	SectionDone bool
}

func (i Item) Title() string {
	if i.Checked {
		return "✓ " + i.Label
	}
	return "○ " + i.Label
}

func (i Item) Description() string {
	desc := fmt.Sprintf("%s · %s", i.Section, i.ID)
	if i.SectionDone {
		desc += " · section complete"
	}
	return desc
}

func (i Item) FilterValue() string { return i.Label }

type KeyMap struct {
	Toggle  key.Binding
	Section key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space/x", "toggle"),
		),
		Section: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "check/uncheck section"),
		),
	}
}

type Model struct {
	list  list.Model
	keys  KeyMap
	entry models.DailyEntry
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Toggle, keys.Section}
	}
	return Model{list: l, keys: keys}
}

// SetEntry rebuilds the items from entry in template order, keeping the cursor.
func (m *Model) SetEntry(entry models.DailyEntry, tmpl models.Template) {
	m.entry = entry
	var items []list.Item
	for _, ts := range tmpl.Sections {
		checked := map[string]bool{}
		done := false
		if ds := entry.FindSection(ts.Name); ds != nil {
			for _, it := range ds.Items {
				checked[it.ID] = it.Checked
			}
			done = scoring.SectionComplete(*ds, tmpl)
		}
		for _, it := range ts.Items {
			items = append(items, Item{
				ID:          it.ID,
				Label:       it.Label,
				Section:     ts.Name,
				Checked:     checked[it.ID],
				Required:    it.Required,
				SectionDone: done,
			})
		}
	}
	idx := m.list.Index()
	m.list.SetItems(items)
	if idx < len(items) {
		m.list.Select(idx)
	}
}

func (m Model) Entry() models.DailyEntry {
	return m.entry
}

func (m Model) Selected() (Item, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i, ok
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Toggle):
			if i, ok := m.Selected(); ok {
				return m, func() tea.Msg { return ToggleItemMsg{ID: i.ID} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Section):
			if i, ok := m.Selected(); ok {
				return m, func() tea.Msg { return SetSectionMsg{Section: i.Section, Checked: !i.SectionDone} }
			}
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return "\n  The template has no items.\n  Import one with 'tally template import'."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
