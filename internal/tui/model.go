package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/gratilog/internal/cli"
	"github.com/julianstephens/gratilog/internal/coach"
	"github.com/julianstephens/gratilog/internal/constants"
	"github.com/julianstephens/gratilog/internal/logger"
	"github.com/julianstephens/gratilog/internal/models"
	"github.com/julianstephens/gratilog/internal/mood"
	"github.com/julianstephens/gratilog/internal/tui/components/chat"
	"github.com/julianstephens/gratilog/internal/tui/components/entries"
)

type SessionState int

const (
	StateJournal SessionState = iota
	StateMood
	StateBadges
	StateCoach
	StateAddEntry
	StateLogMood
)

// tabCount is the number of tab states; form states follow them.
const tabCount = 4

var tabTitles = []string{"Journal", "Mood", "Badges", "Coach"}

type EntryFormModel struct {
	Content string
	Tags    string
}

type MoodFormModel struct {
	Value int
	Note  string
}

type Model struct {
	app          *cli.Context
	state        SessionState
	keys         KeyMap
	help         help.Model
	entryList    entries.Model
	chatModel    chat.Model
	input        textinput.Model
	conversation *coach.Conversation
	form         *huh.Form
	entryForm    *EntryFormModel
	moodForm     *MoodFormModel
	prompt       string

	username    string
	streak      int
	loggedToday bool
	recentMoods []models.MoodLog
	stats       mood.Stats
	badges      []models.Badge
	annotating  map[string]bool

	status   string
	err      error
	quitting bool
	width    int
	height   int
}

func NewModel(app *cli.Context) Model {
	input := textinput.New()
	input.Placeholder = "What's on your mind?"
	input.CharLimit = 2000

	conv := coach.NewConversation()
	cm := chat.New(0, 0)
	cm.SetMessages(conv.Messages())

	m := Model{
		app:          app,
		state:        StateJournal,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		entryList:    entries.New(nil, 0, 0),
		chatModel:    cm,
		input:        input,
		conversation: conv,
		annotating:   make(map[string]bool),
	}
	if user, err := app.Session.Current(app.Ctx); err == nil {
		m.username = user.Username
	}
	m.refresh()
	return m
}

// refresh re-reads every collection after a write.
func (m *Model) refresh() {
	ctx := m.app.Ctx
	list, err := m.app.Journal.List(ctx)
	if err != nil {
		logger.For("tui").Warn("Failed to load journal", "error", err)
	}
	m.entryList.SetEntries(list)

	if m.streak, err = m.app.Journal.Streak(ctx, m.app.Now()); err != nil {
		m.streak = 0
	}
	m.loggedToday, _ = m.app.Moods.HasLoggedToday(ctx, m.app.Now())
	m.recentMoods, _ = m.app.Moods.Recent(ctx, constants.RecentMoodDays)
	m.stats, _ = m.app.Moods.Stats(ctx)
	m.badges = m.app.Snapshot()
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateJournal:
		keys = append(keys, m.keys.Add, m.keys.Insight)
	case StateMood:
		keys = append(keys, m.keys.LogMood)
	case StateCoach:
		keys = []key.Binding{m.keys.Tab, m.keys.Send}
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help, m.keys.Refresh}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}

	var actions []key.Binding
	switch m.state {
	case StateJournal:
		actions = []key.Binding{m.keys.Add, m.keys.Insight}
	case StateMood:
		actions = []key.Binding{m.keys.LogMood}
	case StateCoach:
		actions = []key.Binding{m.keys.Send}
	}

	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return m.loadPrompt()
}
