package checklist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/campusmate/campusmate/internal/models"
	"github.com/campusmate/campusmate/internal/service"
)

type ToggleStepMsg struct {
	StepID string
}

type ExportMsg struct{}

type Item struct {
	Step      models.ChecklistStep
	Checklist string
	Done      bool
}

func (i Item) Title() string {
	if i.Done {
		return "✓ " + i.Step.Title
	}
	return "○ " + i.Step.Title
}

func (i Item) Description() string {
	desc := fmt.Sprintf("%s | %s | %s priority", i.Checklist, i.Step.Category, i.Step.Priority)
	if i.Step.Deadline != "" {
		desc += " | " + i.Step.Deadline
	}
	return desc
}

func (i Item) FilterValue() string { return i.Step.Title }

type KeyMap struct {
	Toggle key.Binding
	Export key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle step"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export report"),
		),
	}
}

var headerStyle = lipgloss.NewStyle().Bold(true)

type Model struct {
	list     list.Model
	progress progress.Model
	report   service.ProgressReport
	keys     KeyMap
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	// Quitting is handled by the parent model.
	l.KeyMap.Quit.SetEnabled(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Toggle, keys.Export}
	}

	return Model{
		list:     l,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		keys:     keys,
	}
}

// SetReport replaces the items and keeps the cursor where it was.
func (m *Model) SetReport(report service.ProgressReport) {
	m.report = report

	var items []list.Item
	for _, view := range report.Checklists {
		for _, step := range view.Checklist.Steps {
			items = append(items, Item{
				Step:      step,
				Checklist: view.Checklist.Name,
				Done:      report.Completion.IsComplete(step.ID),
			})
		}
	}

	cursor := m.list.Index()
	m.list.SetItems(items)
	if cursor < len(items) {
		m.list.Select(cursor)
	}
}

func (m Model) Report() service.ProgressReport {
	return m.report
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Toggle):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return ToggleStepMsg{StepID: i.Step.ID} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Export):
			return m, func() tea.Msg { return ExportMsg{} }
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.report.Checklists) == 0 {
		return "\n  No checklists selected.\n  Use 'campusmate checklist select' to choose some."
	}

	overall := m.report.Overall
	header := headerStyle.Render(fmt.Sprintf("Overall progress: %d/%d steps (%d%%)", overall.Completed, overall.Total, overall.Percent))
	bar := m.progress.ViewAs(float64(overall.Percent) / 100)
	return lipgloss.JoinVertical(lipgloss.Left, header, bar, "", m.list.View())
}

func (m *Model) SetSize(width, height int) {
	// Header, bar and spacer take three lines.
	m.list.SetSize(width, max(height-3, 0))
	m.progress.Width = min(width, 60)
}
