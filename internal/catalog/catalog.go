// Package catalog holds the static checklist catalog and the bundled seed data
// for schools and programmes.
package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/campusmate/campusmate/internal/models"
	"github.com/campusmate/campusmate/internal/validation"
)

var (
	//go:embed data/checklists.yaml
	checklistsYAML []byte

	//go:embed data/seed.yaml
	seedYAML []byte
)

// FallbackSelection is shown on first load, before the user has ever saved a
// selection.
var FallbackSelection = []string{"jamb-utme", "document-preparation"}

var loadCatalog = sync.OnceValues(func() ([]models.ChecklistDefinition, error) {
	return Parse(checklistsYAML)
})

// All returns the built-in checklist catalog. The embedded data is validated by
// tests, so a failure here is a build defect and panics.
func All() []models.ChecklistDefinition {
	defs, err := loadCatalog()
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded checklists are invalid: %v", err))
	}
	out := make([]models.ChecklistDefinition, len(defs))
	copy(out, defs)
	return out
}

// Parse decodes a YAML (or JSON) checklist catalog and checks that every
// definition is well formed and that step IDs are unique across checklists.
func Parse(data []byte) ([]models.ChecklistDefinition, error) {
	var defs []models.ChecklistDefinition
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("failed to parse checklist catalog: %w", err)
	}

	seenChecklists := make(map[string]bool, len(defs))
	seenSteps := make(map[string]string)
	for _, def := range defs {
		if err := validation.Default().Struct(def); err != nil {
			return nil, fmt.Errorf("checklist %q: %w", def.ID, err)
		}
		if seenChecklists[def.ID] {
			return nil, fmt.Errorf("duplicate checklist id %q", def.ID)
		}
		seenChecklists[def.ID] = true

		for _, step := range def.Steps {
			if owner, ok := seenSteps[step.ID]; ok {
				return nil, fmt.Errorf("step id %q appears in both %q and %q", step.ID, owner, def.ID)
			}
			seenSteps[step.ID] = def.ID
		}
	}
	return defs, nil
}

// FindStep looks a step up across the whole catalog and returns the checklist
// that owns it.
func FindStep(defs []models.ChecklistDefinition, stepID string) (models.ChecklistStep, models.ChecklistDefinition, bool) {
	for _, def := range defs {
		for _, step := range def.Steps {
			if step.ID == stepID {
				return step, def, true
			}
		}
	}
	return models.ChecklistStep{}, models.ChecklistDefinition{}, false
}
