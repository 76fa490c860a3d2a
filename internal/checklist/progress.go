// Package checklist computes selection, completion and progress over the
// static checklist catalog. Every function takes immutable snapshots and
// returns new values; nothing here touches storage.
package checklist

import (
	"math"

	"github.com/campusmate/campusmate/internal/models"
)

// Progress is a completed/total pair with its rounded percentage.
type Progress struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
	Percent   int `json:"percent"`
}

// SelectChecklists returns the catalog entries whose IDs appear in ids, in
// catalog order. Unknown IDs are dropped.
func SelectChecklists(catalog []models.ChecklistDefinition, ids []string) []models.ChecklistDefinition {
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	selected := make([]models.ChecklistDefinition, 0, len(ids))
	for _, def := range catalog {
		if wanted[def.ID] {
			selected = append(selected, def)
		}
	}
	return selected
}

// UnknownIDs reports which ids are not in the catalog, in input order.
func UnknownIDs(catalog []models.ChecklistDefinition, ids []string) []string {
	known := make(map[string]bool, len(catalog))
	for _, def := range catalog {
		known[def.ID] = true
	}
	var unknown []string
	for _, id := range ids {
		if !known[id] {
			unknown = append(unknown, id)
		}
	}
	return unknown
}

// ToggleStep returns a copy of state with stepID flipped. The step is not
// checked against the catalog.
func ToggleStep(state models.CompletionState, stepID string) models.CompletionState {
	next := state.Clone()
	next[stepID] = !state[stepID]
	return next
}

// SetStep returns a copy of state with stepID set to done.
func SetStep(state models.CompletionState, stepID string, done bool) models.CompletionState {
	next := state.Clone()
	next[stepID] = done
	return next
}

// OverallProgress aggregates completion across every selected checklist.
func OverallProgress(selected []models.ChecklistDefinition, state models.CompletionState) Progress {
	var p Progress
	for _, def := range selected {
		c := ChecklistProgress(def, state)
		p.Completed += c.Completed
		p.Total += c.Total
	}
	p.Percent = percent(p.Completed, p.Total)
	return p
}

// ChecklistProgress computes completion for a single checklist.
func ChecklistProgress(def models.ChecklistDefinition, state models.CompletionState) Progress {
	p := Progress{Total: len(def.Steps)}
	for _, step := range def.Steps {
		if state[step.ID] {
			p.Completed++
		}
	}
	p.Percent = percent(p.Completed, p.Total)
	return p
}

func percent(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}
