package entries

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/gratilog/internal/models"
)

type AddEntryMsg struct{}

type InsightMsg struct {
	Entry models.JournalEntry
}

type Item struct {
	Entry models.JournalEntry
}

func (i Item) Title() string {
	first, _, _ := strings.Cut(strings.TrimSpace(i.Entry.Content), "\n")
	if i.Entry.HasInsight() {
		return "✨ " + first
	}
	return first
}

func (i Item) Description() string {
	desc := i.Entry.Date.Format("Mon Jan 2 2006 15:04")
	if len(i.Entry.Tags) > 0 {
		desc += fmt.Sprintf(" | #%s", strings.Join(i.Entry.Tags, " #"))
	}
	return desc
}

func (i Item) FilterValue() string { return i.Entry.Content }

type KeyMap struct {
	Add     key.Binding
	Insight key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Insight: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "insight"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(entries []models.JournalEntry, width, height int) Model {
	l := list.New(toItems(entries), list.NewDefaultDelegate(), width, height)
	l.Title = "Journal"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Insight}
	}

	return Model{list: l, keys: keys}
}

func toItems(entries []models.JournalEntry) []list.Item {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = Item{Entry: e}
	}
	return items
}

func (m *Model) SetEntries(entries []models.JournalEntry) {
	m.list.SetItems(toItems(entries))
}

// Selected returns the highlighted entry, if any.
func (m Model) Selected() (models.JournalEntry, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i.Entry, ok
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddEntryMsg{} }
		case key.Matches(msg, m.keys.Insight):
			if e, ok := m.Selected(); ok {
				return m, func() tea.Msg { return InsightMsg{Entry: e} }
			}
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No entries yet.\n  Press 'a' to write one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
