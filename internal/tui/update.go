package tui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/campusmate/campusmate/internal/logger"
	"github.com/campusmate/campusmate/internal/tui/components/checklist"
	roommatelist "github.com/campusmate/campusmate/internal/tui/components/roommates"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.state == StateFilter {
		return m.updateFilterForm(msg)
	}

	if m.state == StateConfirmReset {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch msg.String() {
			case "y", "Y":
				if err := m.svc.ResetChecklists(m.ctx); err != nil {
					m.setError("Failed to reset progress", err)
				} else {
					m.setStatus("Checklist progress reset.")
				}
				m.reloadChecklists()
				m.state = StateChecklists
			case "n", "N", "esc", "q":
				m.state = StateChecklists
			}
		}
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		// Tabs take two lines, status and help one each.
		h, v := docStyle.GetFrameSize()
		width, height := msg.Width-h, msg.Height-v-4
		m.checklistModel.SetSize(width, height)
		m.deadlineModel.SetSize(width, height)
		m.roommateModel.SetSize(width, height)
		return m, nil

	case checklist.ToggleStepMsg:
		done, err := m.svc.ToggleStep(m.ctx, msg.StepID)
		if err != nil {
			m.setError("Failed to update step", err)
			return m, nil
		}
		if done {
			m.setStatus("Marked step as done.")
		} else {
			m.setStatus("Marked step as not done.")
		}
		m.reloadChecklists()
		return m, nil

	case checklist.ExportMsg:
		filename, content, err := m.svc.Export(m.ctx)
		if err != nil {
			m.setError("Failed to export report", err)
			return m, nil
		}
		path := filepath.Join(m.exportDir, filename)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			logger.Error("Failed to write checklist report", "path", path, "error", err)
			m.setError("Failed to write report", err)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Report saved to %s", path))
		return m, nil

	case roommatelist.EditFilterMsg:
		m.formError = ""
		m.form = NewFilterForm(m.filterForm)
		m.previousState = m.state
		m.state = StateFilter
		return m, m.form.Init()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % numTabs
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + numTabs) % numTabs
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			m.setStatus("")
			m.reloadChecklists()
			m.reloadDeadlines()
			if err := m.searchRoommates(); err != nil {
				m.setError("Invalid filter", err)
			}
			return m, nil
		case m.state == StateChecklists && key.Matches(msg, m.keys.Reset):
			m.state = StateConfirmReset
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case StateChecklists:
		m.checklistModel, cmd = m.checklistModel.Update(msg)
		cmds = append(cmds, cmd)
	case StateDeadlines:
		m.deadlineModel, cmd = m.deadlineModel.Update(msg)
		cmds = append(cmds, cmd)
	case StateRoommates:
		m.roommateModel, cmd = m.roommateModel.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) updateFilterForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		m.state = m.previousState
		m.formError = ""
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if err := m.searchRoommates(); err != nil {
			m.formError = err.Error()
			m.form.State = huh.StateNormal
			return m, cmd
		}
		m.formError = ""
		m.state = StateRoommates
		return m, nil
	case huh.StateAborted:
		m.formError = ""
		m.state = m.previousState
		return m, nil
	}

	return m, cmd
}
