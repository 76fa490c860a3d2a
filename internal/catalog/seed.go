package catalog

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/campusmate/campusmate/internal/models"
	"github.com/campusmate/campusmate/internal/validation"
)

// Seed is the import document for reference data. It is also the format
// accepted by `campusmate import`.
type Seed struct {
	Schools    []models.School          `yaml:"schools"`
	Programmes []models.Programme       `yaml:"programmes"`
	Roommates  []models.RoommateProfile `yaml:"roommates"`
}

// DefaultSeed returns the bundled schools and programmes.
func DefaultSeed() (Seed, error) {
	return ParseSeed(seedYAML)
}

// ParseSeed decodes and validates a seed document. Programmes must reference a
// school declared in the same document. Roommate profiles without an ID get a
// fresh UUID and a creation timestamp.
func ParseSeed(data []byte) (Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return Seed{}, fmt.Errorf("failed to parse seed: %w", err)
	}

	v := validation.Default()
	schools := make(map[string]bool, len(seed.Schools))
	for _, s := range seed.Schools {
		if err := v.Struct(s); err != nil {
			return Seed{}, fmt.Errorf("school %q: %w", s.ID, err)
		}
		schools[s.ID] = true
	}

	for _, p := range seed.Programmes {
		if err := v.Struct(p); err != nil {
			return Seed{}, fmt.Errorf("programme %q: %w", p.ID, err)
		}
		if !schools[p.SchoolID] {
			return Seed{}, fmt.Errorf("programme %q references unknown school %q", p.ID, p.SchoolID)
		}
	}

	now := time.Now().UTC()
	for i := range seed.Roommates {
		r := &seed.Roommates[i]
		if err := v.Struct(*r); err != nil {
			return Seed{}, fmt.Errorf("roommate profile for %q: %w", r.UserID, err)
		}
		if r.ID == "" {
			r.ID = uuid.New().String()
		}
		if r.CreatedAt.IsZero() {
			r.CreatedAt = now
		}
	}

	return seed, nil
}
