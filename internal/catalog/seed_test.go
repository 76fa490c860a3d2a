package catalog

import (
	"strings"
	"testing"
)

func TestDefaultSeed(t *testing.T) {
	seed, err := DefaultSeed()
	if err != nil {
		t.Fatalf("DefaultSeed: %v", err)
	}
	if len(seed.Schools) == 0 || len(seed.Programmes) == 0 {
		t.Fatalf("seed is empty: %+v", seed)
	}
}

func TestParseSeed_UnknownSchool(t *testing.T) {
	data := []byte(`
schools:
  - {id: ui, name: University of Ibadan, slug: ui}
programmes:
  - {id: p1, school_id: unilag, name: Law, slug: law}
`)
	_, err := ParseSeed(data)
	if err == nil || !strings.Contains(err.Error(), "unknown school") {
		t.Fatalf("expected unknown school error, got %v", err)
	}
}

func TestParseSeed_AssignsRoommateIDs(t *testing.T) {
	data := []byte(`{"roommates": [{"user_id": "u1", "full_name": "Ada Obi", "gender": "female", "budget_min": 1, "budget_max": 2}]}`)
	seed, err := ParseSeed(data)
	if err != nil {
		t.Fatalf("ParseSeed: %v", err)
	}
	r := seed.Roommates[0]
	if r.ID == "" {
		t.Error("roommate ID not assigned")
	}
	if r.CreatedAt.IsZero() {
		t.Error("roommate CreatedAt not assigned")
	}
}

func TestParseSeed_InvalidSlug(t *testing.T) {
	data := []byte(`schools: [{id: x, name: X, slug: "Not A Slug"}]`)
	if _, err := ParseSeed(data); err == nil {
		t.Fatal("expected slug validation error")
	}
}
