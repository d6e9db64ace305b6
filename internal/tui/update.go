package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/gratilog/internal/badges"
	"github.com/julianstephens/gratilog/internal/cli"
	"github.com/julianstephens/gratilog/internal/coach"
	"github.com/julianstephens/gratilog/internal/constants"
	"github.com/julianstephens/gratilog/internal/events"
	"github.com/julianstephens/gratilog/internal/models"
	"github.com/julianstephens/gratilog/internal/tui/components/entries"
	"github.com/julianstephens/gratilog/internal/validation"
)

type promptMsg string

type replyMsg struct {
	before []models.Badge
	err    error
}

type insightDoneMsg struct {
	id      string
	insight string
	err     error
}

// chrome is the number of rows used by header, tabs, status and help.
const chrome = 8

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		h := max(msg.Height-chrome, 3)
		m.entryList.SetSize(msg.Width-4, h)
		m.chatModel.SetSize(msg.Width-4, h-2)
		m.input.Width = msg.Width - 8
		return m, nil

	case promptMsg:
		m.prompt = string(msg)
		return m, nil

	case replyMsg:
		m.chatModel.SetPending(false)
		m.chatModel.SetMessages(m.conversation.Messages())
		if errors.Is(msg.err, coach.ErrNotConfigured) {
			m.err = nil
			m.status = "AI coach is not configured"
			return m, nil
		}
		m.afterWrite(msg.before, "", msg.err)
		return m, nil

	case insightDoneMsg:
		delete(m.annotating, msg.id)
		switch {
		case msg.err != nil:
			m.err = msg.err
		case msg.insight == "":
			m.err = nil
			m.status = "No insight available right now"
		default:
			m.refresh()
			m.err = nil
			m.status = "✨ Insight saved"
		}
		return m, nil

	case entries.AddEntryMsg:
		m.entryForm = &EntryFormModel{}
		m.form = NewEntryForm(m.entryForm, m.prompt)
		m.state = StateAddEntry
		return m, m.form.Init()

	case entries.InsightMsg:
		return m, m.startInsight(msg.Entry)
	}

	switch m.state {
	case StateAddEntry:
		return m, m.updateEntryForm(msg)
	case StateLogMood:
		return m, m.updateMoodForm(msg)
	case StateCoach:
		return m.updateCoach(msg)
	}

	var cmd tea.Cmd
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			return m, m.setState((m.state + 1) % tabCount)
		case key.Matches(msg, m.keys.ShiftTab):
			return m, m.setState((m.state - 1 + tabCount) % tabCount)
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			m.refresh()
			return m, nil
		case m.state == StateMood && key.Matches(msg, m.keys.LogMood):
			m.moodForm = &MoodFormModel{Value: 5}
			m.form = NewMoodForm(m.moodForm)
			m.state = StateLogMood
			return m, m.form.Init()
		}
	}

	if m.state == StateJournal {
		m.entryList, cmd = m.entryList.Update(msg)
	}
	return m, cmd
}

func (m *Model) setState(s SessionState) tea.Cmd {
	m.state = s
	if s == StateCoach {
		return m.input.Focus()
	}
	m.input.Blur()
	return nil
}

// afterWrite reloads state and reports the outcome of a ledger write,
// including any badges it unlocked.
func (m *Model) afterWrite(before []models.Badge, success string, err error) {
	m.refresh()
	if err != nil && !errors.Is(err, events.ErrHandlerFailed) {
		m.err = err
		return
	}
	m.err = nil
	parts := []string{}
	if success != "" {
		parts = append(parts, success)
	}
	if err != nil {
		parts = append(parts, "saved, but badges could not be updated")
	}
	for _, b := range badges.NewlyUnlocked(before, m.badges) {
		parts = append(parts, fmt.Sprintf("%s Badge unlocked: %s", b.Icon, b.Name))
	}
	m.status = strings.Join(parts, "  ")
}

func (m *Model) updateEntryForm(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = StateJournal
		return nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		before := m.badges
		entry, err := m.app.Journal.Add(m.app.Ctx, m.app.Now(), m.entryForm.Content, splitTags(m.entryForm.Tags))
		if err != nil && !errors.Is(err, events.ErrHandlerFailed) {
			// Stay in the form so the entry is not lost
			m.err = err
			m.form.State = huh.StateNormal
			return cmd
		}
		m.afterWrite(before, fmt.Sprintf("✓ Saved entry %s", cli.ShortID(entry.ID)), err)
		m.state = StateJournal
	case huh.StateAborted:
		m.state = StateJournal
	}
	return cmd
}

func (m *Model) updateMoodForm(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = StateMood
		return nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		before := m.badges
		logged, err := m.app.Moods.Add(m.app.Ctx, m.app.Now(), m.moodForm.Value, m.moodForm.Note)
		if err != nil && !errors.Is(err, events.ErrHandlerFailed) {
			m.err = err
			m.form.State = huh.StateNormal
			return cmd
		}
		m.afterWrite(before, fmt.Sprintf("✓ Logged %s %d/10", models.MoodEmoji(logged.Value), logged.Value), err)
		m.state = StateMood
	case huh.StateAborted:
		m.state = StateMood
	}
	return cmd
}

func (m Model) updateCoach(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case msg.Type == tea.KeyCtrlC:
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			return m, m.setState(StateJournal)
		case key.Matches(msg, m.keys.ShiftTab):
			return m, m.setState(StateBadges)
		case msg.Type == tea.KeyPgUp || msg.Type == tea.KeyPgDown:
			var cmd tea.Cmd
			m.chatModel, cmd = m.chatModel.Update(msg)
			return m, cmd
		case key.Matches(msg, m.keys.Send):
			return m, m.send()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// send starts an asynchronous coach reply. The typed message is shown
// immediately while the reply is pending.
func (m *Model) send() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.chatModel.Pending() {
		return nil
	}
	m.input.Reset()

	draft := append(m.conversation.Messages(), coach.Message{Role: coach.RoleUser, Text: text, Timestamp: m.app.Now()})
	m.chatModel.SetMessages(draft)
	m.chatModel.SetPending(true)

	app, conv, before := m.app, m.conversation, m.badges
	return func() tea.Msg {
		_, err := app.Coach.Reply(app.Ctx, conv, text)
		return replyMsg{before: before, err: err}
	}
}

func (m *Model) startInsight(entry models.JournalEntry) tea.Cmd {
	if !m.app.Coach.Configured() {
		m.status = "AI coach is not configured"
		return nil
	}
	if m.annotating[entry.ID] {
		m.status = "Insight already in progress"
		return nil
	}
	m.annotating[entry.ID] = true
	m.status = "Generating insight..."

	app := m.app
	return func() tea.Msg {
		insight, err := app.Coach.AnnotateEntry(app.Ctx, app.Journal, entry)
		return insightDoneMsg{id: entry.ID, insight: insight, err: err}
	}
}

// loadPrompt fetches today's gratitude prompt without blocking the UI.
func (m Model) loadPrompt() tea.Cmd {
	app := m.app
	return func() tea.Msg {
		recent, _ := app.Moods.Recent(app.Ctx, constants.RecentMoodDays)
		return promptMsg(app.Coach.GratitudePrompt(app.Ctx, recent))
	}
}

func NewEntryForm(f *EntryFormModel, prompt string) *huh.Form {
	if prompt == "" {
		prompt = constants.FallbackPrompt
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("What are you grateful for today?").
				Description(prompt).
				Validate(validation.EntryContent).
				Value(&f.Content),
			huh.NewInput().
				Title("Tags").
				Description("Comma-separated, optional").
				Value(&f.Tags),
		),
	)
}

func NewMoodForm(f *MoodFormModel) *huh.Form {
	options := make([]huh.Option[int], 0, constants.MoodMax)
	for v := constants.MoodMax; v >= constants.MoodMin; v-- {
		options = append(options, huh.NewOption(fmt.Sprintf("%s %d", models.MoodEmoji(v), v), v))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("How are you feeling today?").
				Options(options...).
				Value(&f.Value),
			huh.NewInput().
				Title("Note").
				Value(&f.Note),
		),
	)
}

func splitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, ",")
}
