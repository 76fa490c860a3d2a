package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/campusmate/campusmate/internal/catalog"
	"github.com/campusmate/campusmate/internal/models"
	"github.com/campusmate/campusmate/internal/service"
	"github.com/campusmate/campusmate/internal/state"
	"github.com/campusmate/campusmate/internal/storage"
)

func setupModel(t *testing.T, viewer string) (Model, *service.Service) {
	t.Helper()
	ctx := context.Background()

	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "campusmate.json"))
	if err := store.Init(ctx); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	svc := service.New(store, state.New(state.NewMemoryBackend()))
	svc.Now = func() time.Time { return time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC) }

	seed, err := catalog.DefaultSeed()
	if err != nil {
		t.Fatal(err)
	}
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	seed.Roommates = []models.RoommateProfile{
		{ID: "p-ada", UserID: "ada", FullName: "Ada Obi", Gender: "female", University: "University of Lagos",
			BudgetMin: 50000, BudgetMax: 100000, Active: true, CreatedAt: base},
		{ID: "p-bisi", UserID: "bisi", FullName: "Bisi Ade", Gender: "female", University: "University of Lagos",
			BudgetMin: 150000, BudgetMax: 200000, Active: true, CreatedAt: base.Add(time.Hour)},
		{ID: "p-eno", UserID: "eno", FullName: "Eno Bassey", Gender: "female", University: "University of Ibadan",
			BudgetMin: 80000, BudgetMax: 120000, Active: true, CreatedAt: base.Add(2 * time.Hour)},
	}
	if _, err := svc.Import(ctx, seed); err != nil {
		t.Fatal(err)
	}

	m := NewModel(ctx, svc, viewer)
	m.SetExportDir(t.TempDir())
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model), svc
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key and feeds any resulting message back into the model.
func press(t *testing.T, m Model, s string) Model {
	t.Helper()
	next, cmd := m.Update(keyMsg(s))
	m = next.(Model)
	if cmd == nil {
		return m
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if c != nil {
				next, _ = m.Update(c())
				m = next.(Model)
			}
		}
		return m
	}
	next, _ = m.Update(msg)
	return next.(Model)
}

func TestTabCycling(t *testing.T) {
	m, _ := setupModel(t, "")

	tests := []struct {
		key  string
		want SessionState
	}{
		{"tab", StateDeadlines},
		{"tab", StateRoommates},
		{"tab", StateChecklists},
		{"shift+tab", StateRoommates},
		{"shift+tab", StateDeadlines},
	}
	for _, tt := range tests {
		m = press(t, m, tt.key)
		if m.state != tt.want {
			t.Fatalf("after %q state = %d, want %d", tt.key, m.state, tt.want)
		}
	}
}

func TestToggleStep(t *testing.T) {
	m, svc := setupModel(t, "")
	ctx := context.Background()

	report := m.checklistModel.Report()
	if len(report.Checklists) == 0 || len(report.Checklists[0].Checklist.Steps) == 0 {
		t.Fatal("expected the fallback selection to be loaded")
	}
	stepID := report.Checklists[0].Checklist.Steps[0].ID

	m = press(t, m, " ")
	completion, err := svc.Completion(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !completion.IsComplete(stepID) {
		t.Errorf("expected %s to be complete", stepID)
	}
	if m.checklistModel.Report().Overall.Completed != 1 {
		t.Errorf("expected the view to reload, got %d completed", m.checklistModel.Report().Overall.Completed)
	}

	m = press(t, m, " ")
	completion, _ = svc.Completion(ctx)
	if completion.IsComplete(stepID) {
		t.Errorf("expected %s to be cleared again", stepID)
	}
	if !strings.Contains(m.status, "not done") {
		t.Errorf("status = %q", m.status)
	}
}

func TestExport(t *testing.T) {
	m, _ := setupModel(t, "")

	m = press(t, m, "e")
	path := filepath.Join(m.exportDir, "admission-checklist-2025-05-01.txt")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected report at %s: %v (status %q)", path, err, m.status)
	}
	if !strings.Contains(string(data), "ADMISSION CHECKLIST PROGRESS REPORT") {
		t.Errorf("unexpected report:\n%s", data)
	}
	if !strings.Contains(m.status, path) {
		t.Errorf("status = %q, want the report path", m.status)
	}
}

func TestResetConfirmation(t *testing.T) {
	m, svc := setupModel(t, "")
	ctx := context.Background()

	m = press(t, m, " ")
	m = press(t, m, "X")
	if m.state != StateConfirmReset {
		t.Fatalf("state = %d, want confirm", m.state)
	}
	m = press(t, m, "n")
	if m.state != StateChecklists {
		t.Fatalf("state = %d after cancel", m.state)
	}
	completion, _ := svc.Completion(ctx)
	if len(completion) == 0 {
		t.Fatal("cancel must keep progress")
	}

	m = press(t, m, "X")
	m = press(t, m, "y")
	completion, _ = svc.Completion(ctx)
	if len(completion) != 0 {
		t.Errorf("expected progress to be cleared, got %v", completion)
	}
	if m.checklistModel.Report().Overall.Completed != 0 {
		t.Error("expected the view to reload after reset")
	}
}

func TestRoommates(t *testing.T) {
	t.Run("no viewer", func(t *testing.T) {
		m, _ := setupModel(t, "")
		m = press(t, m, "tab")
		m = press(t, m, "tab")
		m = press(t, m, "f")
		if m.state != StateRoommates {
			t.Errorf("filter form must not open without a viewer, state = %d", m.state)
		}
		if !strings.Contains(m.View(), "--viewer") {
			t.Error("expected a hint about --viewer")
		}
	})

	t.Run("results and filter", func(t *testing.T) {
		m, _ := setupModel(t, "ada")
		if got := userIDs(m); got != "eno,bisi" {
			t.Fatalf("results = %s, want eno,bisi", got)
		}

		m.filterForm.University = "ibadan"
		if err := m.searchRoommates(); err != nil {
			t.Fatal(err)
		}
		if got := userIDs(m); got != "eno" {
			t.Errorf("results = %s, want eno", got)
		}

		m.filterForm.MinBudget = "abc"
		if err := m.searchRoommates(); err == nil {
			t.Error("expected an error for a non-numeric budget")
		}
		m.filterForm.MinBudget = "200000"
		m.filterForm.MaxBudget = "100000"
		if err := m.searchRoommates(); err == nil {
			t.Error("expected an error for an inverted budget range")
		}
	})

	t.Run("filter form opens and closes", func(t *testing.T) {
		m, _ := setupModel(t, "ada")
		m = press(t, m, "shift+tab")
		m = press(t, m, "f")
		if m.state != StateFilter || m.form == nil {
			t.Fatalf("state = %d, want filter form", m.state)
		}
		m = press(t, m, "esc")
		if m.state != StateRoommates {
			t.Errorf("state = %d after esc, want roommates", m.state)
		}
	})
}

func TestFilterSummary(t *testing.T) {
	fm := newFilterFormModel()
	if got := fm.Summary(); got != "no filters" {
		t.Errorf("Summary() = %q", got)
	}
	fm.University = "Lagos"
	fm.Religion = "Islam"
	if got := fm.Summary(); got != "university=Lagos, religion=Islam" {
		t.Errorf("Summary() = %q", got)
	}
}

func TestQuit(t *testing.T) {
	m, _ := setupModel(t, "")
	next, cmd := m.Update(keyMsg("q"))
	if !next.(Model).quitting || cmd == nil {
		t.Fatal("expected q to quit")
	}
	if next.(Model).View() != "" {
		t.Error("expected an empty view after quitting")
	}
}

func userIDs(m Model) string {
	var ids []string
	for _, it := range m.roommateModel.Items() {
		ids = append(ids, it.Profile.UserID)
	}
	return strings.Join(ids, ",")
}
