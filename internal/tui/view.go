package tui

import (
	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateChecklists:
		content = docStyle.Render(m.checklistModel.View())
	case StateDeadlines:
		content = docStyle.Render(m.deadlineModel.View())
	case StateRoommates:
		content = docStyle.Render(m.roommateModel.View())
	case StateFilter:
		content = m.viewFilterForm()
	case StateConfirmReset:
		content = m.viewConfirmReset()
	}

	var status string
	switch {
	case m.statusIsError:
		status = errorStatusStyle.Render(m.status)
	case m.status != "":
		status = statusStyle.Render(m.status)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		status,
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	active := m.state
	if active >= numTabs {
		active = m.previousState
		if m.state == StateConfirmReset {
			active = StateChecklists
		}
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

func (m Model) viewFilterForm() string {
	view := m.form.View()
	if m.formError != "" {
		view = lipgloss.JoinVertical(lipgloss.Left, view, dangerStyle.Render(m.formError))
	}
	return docStyle.Render(view)
}

func (m Model) viewConfirmReset() string {
	return lipgloss.Place(m.width, max(m.height-4, 0),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render("Clear all checklist progress and selection?"),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
