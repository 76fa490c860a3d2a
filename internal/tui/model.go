// Package tui is the interactive dashboard: checklist progress, upcoming
// deadlines and roommate search in one tabbed screen.
package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/campusmate/campusmate/internal/logger"
	"github.com/campusmate/campusmate/internal/roommates"
	"github.com/campusmate/campusmate/internal/service"
	"github.com/campusmate/campusmate/internal/tui/components/checklist"
	"github.com/campusmate/campusmate/internal/tui/components/deadlines"
	roommatelist "github.com/campusmate/campusmate/internal/tui/components/roommates"
	"github.com/campusmate/campusmate/internal/utils"
)

type SessionState int

const (
	StateChecklists SessionState = iota
	StateDeadlines
	StateRoommates
	StateFilter
	StateConfirmReset
)

const numTabs = 3

var tabTitles = []string{"Checklists", "Deadlines", "Roommates"}

type Model struct {
	svc    *service.Service
	ctx    context.Context
	viewer string

	state         SessionState
	previousState SessionState
	keys          KeyMap
	help          help.Model

	checklistModel checklist.Model
	deadlineModel  deadlines.Model
	roommateModel  roommatelist.Model

	form       *huh.Form
	filterForm *FilterFormModel

	status        string
	statusIsError bool
	formError     string
	exportDir string
	quitting  bool
	width     int
	height    int
}

// NewModel loads the initial data for every tab. Load errors are shown in the
// status line instead of aborting, so a partly broken store is still usable.
func NewModel(ctx context.Context, svc *service.Service, viewer string) Model {
	settings, _, err := svc.Settings(ctx)
	if err != nil {
		logger.Warn("Failed to load settings for the dashboard", "error", err)
	}

	m := Model{
		svc:            svc,
		ctx:            ctx,
		viewer:         viewer,
		state:          StateChecklists,
		keys:           DefaultKeyMap(),
		help:           help.New(),
		checklistModel: checklist.New(0, 0),
		deadlineModel:  deadlines.New(0, 0),
		roommateModel:  roommatelist.New(utils.NewPrinter(settings.Locale), 0, 0),
		filterForm:     newFilterFormModel(),
		exportDir:      ".",
	}

	m.reloadChecklists()
	m.reloadDeadlines()
	m.searchRoommates()
	return m
}

// SetExportDir changes where exported reports are written.
func (m *Model) SetExportDir(dir string) {
	m.exportDir = dir
}

func (m *Model) reloadChecklists() {
	report, err := m.svc.Progress(m.ctx, nil)
	if err != nil {
		m.setError("Failed to load checklists", err)
		return
	}
	m.checklistModel.SetReport(report)
}

func (m *Model) reloadDeadlines() {
	groups, err := m.svc.DeadlineGroups(m.ctx, true)
	if err != nil {
		m.setError("Failed to load deadlines", err)
		return
	}
	m.deadlineModel.SetGroups(groups)
}

func (m *Model) setStatus(msg string) {
	m.status = msg
	m.statusIsError = false
}

func (m *Model) setError(prefix string, err error) {
	m.status = prefix + ": " + err.Error()
	m.statusIsError = true
}

// searchRoommates runs the current filter. A filter that does not parse is
// returned so the form can show it.
func (m *Model) searchRoommates() error {
	f, err := roommates.FilterFromValues(m.filterForm.Values())
	if err != nil {
		return err
	}
	if err := f.Validate(); err != nil {
		return err
	}
	results, err := m.svc.SearchRoommates(m.ctx, m.viewer, f)
	switch {
	case errors.Is(err, service.ErrNoViewer):
		m.roommateModel.SetUnavailable("No viewer set. Start with --viewer <user-id> to browse roommates.")
		return nil
	case err != nil:
		m.roommateModel.SetUnavailable("Roommate search unavailable: " + err.Error())
		return nil
	}
	m.roommateModel.SetResults(results, m.filterForm.Summary())
	return nil
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateChecklists:
		keys = append(keys, m.keys.Toggle, m.keys.Export, m.keys.Reset)
	case StateRoommates:
		keys = append(keys, m.keys.Filter)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help, m.keys.Refresh}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}

	var actions []key.Binding
	switch m.state {
	case StateChecklists:
		actions = []key.Binding{m.keys.Toggle, m.keys.Export, m.keys.Reset}
	case StateRoommates:
		actions = []key.Binding{m.keys.Filter}
	}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}
