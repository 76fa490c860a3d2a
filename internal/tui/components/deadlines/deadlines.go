package deadlines

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/campusmate/campusmate/internal/deadlines"
	"github.com/campusmate/campusmate/internal/utils"
)

var (
	monthStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	dateStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	kindStyle  = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("244"))
)

type Model struct {
	viewport viewport.Model
	groups   []deadlines.MonthGroup
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m *Model) SetGroups(groups []deadlines.MonthGroup) {
	m.groups = groups
	m.viewport.SetContent(render(groups))
	m.viewport.GotoTop()
}

func (m Model) Groups() []deadlines.MonthGroup {
	return m.groups
}

func render(groups []deadlines.MonthGroup) string {
	if len(groups) == 0 {
		return "No deadlines yet. Run 'campusmate init --seed' to load schools."
	}

	var b strings.Builder
	for i, group := range groups {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(monthStyle.Render(group.Label) + "\n")
		for _, item := range group.Items {
			name := item.School.Name
			if item.Programme != nil {
				name = fmt.Sprintf("%s - %s", item.School.Name, item.Programme.Name)
			}
			fmt.Fprintf(&b, "  %s  %s %s\n", dateStyle.Render(utils.FormatDate(item.Date)), name, kindStyle.Render(string(item.Kind)))
		}
	}
	return b.String()
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
	m.viewport.Width = width
	m.viewport.Height = height
}
