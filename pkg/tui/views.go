package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Akram012388/skillissue-world/pkg/catalog"
)

// rowHeight is the number of lines FormatRow renders per skill.
const rowHeight = 4

// visibleRange returns the slice of rows to draw so that selected stays on screen.
func visibleRange(total, selected, capacity int) (start, end int) {
	if capacity <= 0 || total <= capacity {
		return 0, total
	}
	start = selected - capacity + 1
	if start < 0 {
		start = 0
	}
	end = start + capacity
	if end > total {
		end = total
		start = end - capacity
	}
	return start, end
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var body string
	switch {
	case m.showHelp:
		body = GetHelpText()
	case m.showDetail:
		if skill, ok := m.state.Selected(); ok {
			body = m.formatter.FormatDetail(skill, m.state.Agent, m.now())
		} else {
			body = m.listView()
		}
	default:
		body = m.listView()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		m.search.View(),
		"",
		body,
		"",
		m.statusView(),
	)
}

func (m Model) headerView() string {
	title := m.titleStyle.Render("skillissue")
	label := catalog.ResultLabel(m.state.Query, m.state.Tag)
	return fmt.Sprintf("%s  %s · %d skills · agent: %s", title, label, len(m.state.Skills), m.state.Agent.Label())
}

func (m Model) listView() string {
	if len(m.state.Skills) == 0 {
		if m.loading {
			return "Loading skills..."
		}
		return "No skills match " + catalog.ResultLabel(m.state.Query, m.state.Tag) + "."
	}

	capacity := 0
	if m.height > 0 {
		capacity = max((m.height-6)/rowHeight, 1)
	}
	start, end := visibleRange(len(m.state.Skills), m.state.SelectedIndex, capacity)

	now := m.now()
	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		rows = append(rows, m.formatter.FormatRow(m.state.Skills[i], m.state.Agent, i == m.state.SelectedIndex, now))
	}
	return strings.Join(rows, "\n\n")
}

// statusView renders the status bar
func (m Model) statusView() string {
	text := StatusHints
	if m.statusMessage != "" {
		text = m.statusMessage
	}
	return m.statusStyle.Render(text)
}
