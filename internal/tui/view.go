package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/gratilog/internal/constants"
	"github.com/julianstephens/gratilog/internal/models"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateJournal:
		content = docStyle.Render(m.entryList.View())
	case StateMood:
		content = docStyle.Render(m.viewMood())
	case StateBadges:
		content = docStyle.Render(m.viewBadges())
	case StateCoach:
		content = docStyle.Render(m.viewCoach())
	case StateAddEntry, StateLogMood:
		content = docStyle.Render(m.form.View())
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewHeader(),
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewHeader() string {
	name := m.username
	if name == "" {
		name = "friend"
	}
	return headerStyle.Render(fmt.Sprintf("🌱 %s · %s · 🔥 %d day streak", constants.AppName, name, m.streak))
}

func (m Model) viewTabs() string {
	// Form states render under the tab they were opened from
	active := m.state
	switch m.state {
	case StateAddEntry:
		active = StateJournal
	case StateLogMood:
		active = StateMood
	}

	var tabs []string
	for i, title := range tabTitles {
		if active == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatus() string {
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}
	return statusStyle.Render(m.status)
}

func (m Model) viewMood() string {
	var b strings.Builder
	if m.loggedToday {
		b.WriteString("Today: ✓ logged\n")
	} else {
		b.WriteString("Today: not logged yet. Press 'm' to check in.\n")
	}

	if m.stats.Count == 0 {
		b.WriteString(mutedStyle.Render("\nNo mood logs yet."))
		return b.String()
	}
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%d logs · avg %s · min %d · max %d",
		m.stats.Count, m.stats.Average.StringFixed(1), m.stats.Min, m.stats.Max)))
	b.WriteString("\n\n")

	for _, log := range m.recentMoods {
		b.WriteString(fmt.Sprintf("%s  %s %s %2d",
			log.Date.Format("Mon 01/02"),
			models.MoodEmoji(log.Value),
			barStyle.Render(fmt.Sprintf("%-10s", strings.Repeat("█", log.Value))),
			log.Value,
		))
		if log.Note != "" {
			b.WriteString("  " + mutedStyle.Render(log.Note))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewBadges() string {
	var b strings.Builder
	unlocked := 0
	for _, badge := range m.badges {
		if badge.Unlocked {
			unlocked++
			b.WriteString(unlockedStyle.Render(fmt.Sprintf("%s %s", badge.Icon, badge.Name)))
		} else {
			b.WriteString(lockedStyle.Render(fmt.Sprintf("🔒 %s", badge.Name)))
		}
		b.WriteString("  " + mutedStyle.Render(badge.Description) + "\n")
	}
	b.WriteString(fmt.Sprintf("\n%d/%d unlocked", unlocked, len(m.badges)))
	return b.String()
}

func (m Model) viewCoach() string {
	var parts []string
	if !m.app.Coach.Configured() {
		parts = append(parts, mutedStyle.Render(fmt.Sprintf("AI coach is offline. Set GEMINI_API_KEY or run '%s keyring set'.", constants.AppName)))
	}
	parts = append(parts, m.chatModel.View(), m.input.View())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
