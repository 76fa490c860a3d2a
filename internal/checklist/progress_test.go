package checklist

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/campusmate/campusmate/internal/models"
)

func makeChecklist(id string, n int) models.ChecklistDefinition {
	def := models.ChecklistDefinition{ID: id, Name: "Checklist " + id}
	for i := 0; i < n; i++ {
		def.Steps = append(def.Steps, models.ChecklistStep{
			ID:       fmt.Sprintf("%s-%d", id, i),
			Title:    fmt.Sprintf("Step %d", i),
			Category: "General",
			Priority: models.PriorityMedium,
		})
	}
	return def
}

func TestSelectChecklists(t *testing.T) {
	catalog := []models.ChecklistDefinition{makeChecklist("a", 1), makeChecklist("b", 1), makeChecklist("c", 1)}

	tests := []struct {
		name string
		ids  []string
		want []string
	}{
		{"catalog order", []string{"c", "a"}, []string{"a", "c"}},
		{"unknown dropped", []string{"zzz", "b"}, []string{"b"}},
		{"duplicates collapse", []string{"b", "b"}, []string{"b"}},
		{"empty", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := []string{}
			for _, def := range SelectChecklists(catalog, tt.ids) {
				got = append(got, def.ID)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SelectChecklists(%v) = %v, want %v", tt.ids, got, tt.want)
			}
		})
	}
}

func TestUnknownIDs(t *testing.T) {
	catalog := []models.ChecklistDefinition{makeChecklist("a", 1)}
	got := UnknownIDs(catalog, []string{"x", "a", "y"})
	if !reflect.DeepEqual(got, []string{"x", "y"}) {
		t.Errorf("UnknownIDs = %v", got)
	}
}

func TestToggleStep_IsCopyOnWrite(t *testing.T) {
	orig := models.CompletionState{"a-0": true}
	next := ToggleStep(orig, "a-1")

	if orig["a-1"] {
		t.Error("ToggleStep mutated its input")
	}
	if !next["a-1"] || !next["a-0"] {
		t.Errorf("next = %v", next)
	}
}

func TestToggleStep_TwiceRestores(t *testing.T) {
	states := []models.CompletionState{
		{},
		{"s": true},
		{"s": false, "other": true},
	}
	for _, orig := range states {
		twice := ToggleStep(ToggleStep(orig, "s"), "s")
		if twice["s"] != orig["s"] {
			t.Errorf("toggle twice on %v changed s to %v", orig, twice["s"])
		}
		if twice["other"] != orig["other"] {
			t.Errorf("toggle twice touched unrelated key")
		}
	}
}

func TestToggleStep_UnselectedStepAllowed(t *testing.T) {
	next := ToggleStep(nil, "not-in-any-checklist")
	if !next["not-in-any-checklist"] {
		t.Error("expected arbitrary step id to toggle on")
	}
}

func TestSetStep(t *testing.T) {
	orig := models.CompletionState{"s": true}
	next := SetStep(orig, "s", false)
	if next["s"] || !orig["s"] {
		t.Errorf("SetStep: orig=%v next=%v", orig, next)
	}
}

func TestOverallProgress_SevenStepsThreeDone(t *testing.T) {
	def := makeChecklist("a", 7)
	state := models.CompletionState{"a-0": true, "a-3": true, "a-6": true}

	got := OverallProgress([]models.ChecklistDefinition{def}, state)
	want := Progress{Completed: 3, Total: 7, Percent: 43}
	if got != want {
		t.Errorf("OverallProgress = %+v, want %+v", got, want)
	}
}

func TestOverallProgress_EmptySelection(t *testing.T) {
	got := OverallProgress(nil, models.CompletionState{"x": true})
	if got != (Progress{}) {
		t.Errorf("OverallProgress(empty) = %+v, want zero", got)
	}
}

func TestOverallProgress_IgnoresDanglingAndFalseKeys(t *testing.T) {
	def := makeChecklist("a", 2)
	state := models.CompletionState{"a-0": false, "ghost": true}
	got := OverallProgress([]models.ChecklistDefinition{def}, state)
	if got.Completed != 0 || got.Percent != 0 {
		t.Errorf("got %+v", got)
	}
}

func TestOverallProgress_AcrossChecklists(t *testing.T) {
	a, b := makeChecklist("a", 2), makeChecklist("b", 2)
	state := models.CompletionState{"a-0": true, "a-1": true, "b-0": true}

	got := OverallProgress([]models.ChecklistDefinition{a, b}, state)
	if got != (Progress{Completed: 3, Total: 4, Percent: 75}) {
		t.Errorf("got %+v", got)
	}
	if p := ChecklistProgress(a, state); p.Percent != 100 {
		t.Errorf("ChecklistProgress(a) = %+v", p)
	}
	if p := ChecklistProgress(b, state); p.Percent != 50 {
		t.Errorf("ChecklistProgress(b) = %+v", p)
	}
}

func TestOverallProgress_PercentBoundsAndCompleteness(t *testing.T) {
	defs := []models.ChecklistDefinition{makeChecklist("a", 3), makeChecklist("b", 4)}
	var ids []string
	for _, def := range defs {
		for _, s := range def.Steps {
			ids = append(ids, s.ID)
		}
	}

	// Walk every subset of the 7 step ids.
	for mask := 0; mask < 1<<len(ids); mask++ {
		state := models.CompletionState{}
		all := true
		for i, id := range ids {
			if mask&(1<<i) != 0 {
				state[id] = true
			} else {
				all = false
			}
		}

		p := OverallProgress(defs, state)
		if p.Percent < 0 || p.Percent > 100 {
			t.Fatalf("mask %b: percent %d out of range", mask, p.Percent)
		}
		if (p.Percent == 100) != all {
			t.Fatalf("mask %b: percent %d but all=%v", mask, p.Percent, all)
		}
	}
}

func TestChecklistProgress_NoSteps(t *testing.T) {
	if p := ChecklistProgress(models.ChecklistDefinition{ID: "empty"}, nil); p != (Progress{}) {
		t.Errorf("got %+v", p)
	}
}
