package roommates

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/message"

	"github.com/campusmate/campusmate/internal/models"
	"github.com/campusmate/campusmate/internal/utils"
)

type EditFilterMsg struct{}

type Item struct {
	Profile models.RoommateProfile
	Budget  string
}

func (i Item) Title() string {
	if i.Profile.Verified {
		return i.Profile.FullName + " ✓"
	}
	return i.Profile.FullName
}

func (i Item) Description() string {
	parts := []string{}
	for _, p := range []string{i.Profile.University, i.Profile.Department, i.Budget, i.Profile.PreferredLocation} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " | ")
}

func (i Item) FilterValue() string { return i.Profile.FullName }

type KeyMap struct {
	Filter key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "edit filter"),
		),
	}
}

var summaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)

type Model struct {
	list    list.Model
	keys    KeyMap
	printer *message.Printer
	summary string
	// unavailable explains why no search could run, e.g. a missing viewer.
	unavailable string
}

func New(printer *message.Printer, width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	// Quitting is handled by the parent model.
	l.KeyMap.Quit.SetEnabled(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Filter}
	}

	return Model{list: l, keys: keys, printer: printer, summary: "no filters"}
}

// SetResults shows profiles under a one-line description of the filter.
func (m *Model) SetResults(profiles []models.RoommateProfile, summary string) {
	items := make([]list.Item, len(profiles))
	for i, p := range profiles {
		items[i] = Item{Profile: p, Budget: utils.FormatBudget(m.printer, p.BudgetMin, p.BudgetMax)}
	}
	m.list.SetItems(items)
	m.list.ResetSelected()
	m.summary = summary
	m.unavailable = ""
}

func (m *Model) SetUnavailable(reason string) {
	m.unavailable = reason
	m.list.SetItems(nil)
}

func (m Model) Items() []Item {
	out := make([]Item, 0, len(m.list.Items()))
	for _, it := range m.list.Items() {
		out = append(out, it.(Item))
	}
	return out
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Filter) {
		if m.unavailable != "" {
			return m, nil
		}
		return m, func() tea.Msg { return EditFilterMsg{} }
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.unavailable != "" {
		return "\n  " + m.unavailable
	}
	header := summaryStyle.Render("Filter: " + m.summary)
	if len(m.list.Items()) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header, "", "  No matching roommates. Press 'f' to change the filter.")
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, m.list.View())
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, max(height-1, 0))
}
