package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/gratilog/internal/coach"
	"github.com/julianstephens/gratilog/internal/constants"
)

var (
	coachStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("117"))

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

type Model struct {
	viewport viewport.Model
	messages []coach.Message
	pending  bool
	width    int
	height   int
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

func (m *Model) SetMessages(msgs []coach.Message) {
	m.messages = msgs
	m.Render()
}

// SetPending shows a thinking indicator while a reply is outstanding.
func (m *Model) SetPending(pending bool) {
	m.pending = pending
	m.Render()
}

func (m Model) Pending() bool {
	return m.pending
}

func (m *Model) Render() {
	wrap := lipgloss.NewStyle()
	if m.width > 4 {
		wrap = wrap.Width(m.width - 2)
	}

	var b strings.Builder
	for _, msg := range m.messages {
		stamp := timeStyle.Render(msg.Timestamp.Format(constants.TimeFormat))
		if msg.Role == coach.RoleUser {
			b.WriteString(stamp + " " + userStyle.Render("You") + "\n")
			b.WriteString(wrap.Render(msg.Text) + "\n\n")
			continue
		}
		b.WriteString(stamp + " " + coachStyle.Render("Coach") + "\n")
		b.WriteString(wrap.Render(msg.Text) + "\n\n")
	}
	if m.pending {
		b.WriteString(pendingStyle.Render("Coach is thinking...") + "\n")
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}
