package catalog

import (
	"strings"
	"testing"
)

func TestAll_EmbeddedCatalogIsValid(t *testing.T) {
	defs, err := Parse(checklistsYAML)
	if err != nil {
		t.Fatalf("embedded catalog invalid: %v", err)
	}
	if len(defs) == 0 {
		t.Fatal("embedded catalog is empty")
	}

	all := All()
	if len(all) != len(defs) {
		t.Errorf("All() returned %d checklists, want %d", len(all), len(defs))
	}
}

func TestAll_ReturnsCopy(t *testing.T) {
	a := All()
	a[0].Name = "mutated"
	if All()[0].Name == "mutated" {
		t.Error("All() exposes shared backing array")
	}
}

func TestFallbackSelectionExists(t *testing.T) {
	ids := make(map[string]bool)
	for _, def := range All() {
		ids[def.ID] = true
	}
	for _, id := range FallbackSelection {
		if !ids[id] {
			t.Errorf("fallback checklist %q not in catalog", id)
		}
	}
}

func TestParse_DuplicateStepID(t *testing.T) {
	data := []byte(`
- id: a
  name: A
  steps:
    - {id: s1, title: One, category: X, priority: high}
- id: b
  name: B
  steps:
    - {id: s1, title: Again, category: X, priority: low}
`)
	_, err := Parse(data)
	if err == nil || !strings.Contains(err.Error(), `"s1"`) {
		t.Fatalf("expected duplicate step error, got %v", err)
	}
}

func TestParse_DuplicateChecklistID(t *testing.T) {
	data := []byte(`
- id: a
  name: A
  steps: [{id: s1, title: One, category: X, priority: high}]
- id: a
  name: Again
  steps: [{id: s2, title: Two, category: X, priority: high}]
`)
	if _, err := Parse(data); err == nil {
		t.Fatal("expected duplicate checklist error")
	}
}

func TestParse_InvalidPriority(t *testing.T) {
	data := []byte(`
- id: a
  name: A
  steps: [{id: s1, title: One, category: X, priority: urgent}]
`)
	if _, err := Parse(data); err == nil {
		t.Fatal("expected validation error for priority")
	}
}

func TestFindStep(t *testing.T) {
	defs := All()
	step, def, ok := FindStep(defs, "doc-passport-photos")
	if !ok {
		t.Fatal("step not found")
	}
	if def.ID != "document-preparation" || step.Priority != "low" {
		t.Errorf("got step %+v in %q", step, def.ID)
	}
	if _, _, ok := FindStep(defs, "nope"); ok {
		t.Error("unknown step reported found")
	}
}
