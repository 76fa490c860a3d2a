// Package roommates narrows a pool of roommate profiles with a conjunction of
// optional predicates. Results are always scoped to the viewer's own gender.
package roommates

import (
	"math"
	"strings"

	"github.com/campusmate/campusmate/internal/models"
	"github.com/campusmate/campusmate/internal/validation"
)

// Filter holds one optional constraint per dimension. A nil field does not
// constrain the result.
type Filter struct {
	SearchQuery *string `json:"q,omitempty"`
	University  *string `json:"university,omitempty"`
	Faculty     *string `json:"faculty,omitempty"`
	Department  *string `json:"department,omitempty"`
	Gender      *string `json:"gender,omitempty"`
	MinAge      *int    `json:"min_age,omitempty" validate:"omitempty,min=0"`
	MaxAge      *int    `json:"max_age,omitempty" validate:"omitempty,min=0"`
	Religion    *string `json:"religion,omitempty"`
	MinBudget   *int64  `json:"min_budget,omitempty" validate:"omitempty,min=0"`
	MaxBudget   *int64  `json:"max_budget,omitempty" validate:"omitempty,min=0"`
	Location    *string `json:"location,omitempty"`
	YearOfStudy *int    `json:"year_of_study,omitempty" validate:"omitempty,min=1"`
}

// Validate rejects negative values and inverted ranges.
func (f Filter) Validate() error {
	if err := validation.Default().Struct(f); err != nil {
		return err
	}
	errs := validation.FieldErrors{}
	if f.MinAge != nil && f.MaxAge != nil && *f.MaxAge < *f.MinAge {
		errs["max_age"] = "max_age must be greater than or equal to min_age"
	}
	if f.MinBudget != nil && f.MaxBudget != nil && *f.MaxBudget < *f.MinBudget {
		errs["max_budget"] = "max_budget must be greater than or equal to min_budget"
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// IsEmpty reports whether no constraint is set.
func (f Filter) IsEmpty() bool {
	return f == Filter{}
}

// Scope keeps profiles that share the viewer's gender and are not the viewer's
// own. A viewer without a gender sees nothing.
func Scope(candidates []models.RoommateProfile, viewer models.Viewer) []models.RoommateProfile {
	out := make([]models.RoommateProfile, 0, len(candidates))
	if viewer.Gender == "" {
		return out
	}
	for _, p := range candidates {
		if p.Gender == viewer.Gender && p.UserID != viewer.UserID {
			out = append(out, p)
		}
	}
	return out
}

// Apply returns the candidates that satisfy every set predicate, preserving
// input order.
func Apply(candidates []models.RoommateProfile, f Filter) []models.RoommateProfile {
	out := make([]models.RoommateProfile, 0, len(candidates))
	for _, p := range candidates {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}

// Search scopes candidates to the viewer and then applies f.
func Search(candidates []models.RoommateProfile, viewer models.Viewer, f Filter) []models.RoommateProfile {
	return Apply(Scope(candidates, viewer), f)
}

// Matches evaluates every predicate against p in a fixed order.
func (f Filter) Matches(p models.RoommateProfile) bool {
	if f.SearchQuery != nil && !matchesQuery(p, *f.SearchQuery) {
		return false
	}
	if f.University != nil && !containsFold(p.University, *f.University) {
		return false
	}
	if f.Faculty != nil && p.Faculty != *f.Faculty {
		return false
	}
	if f.Department != nil && !containsFold(p.Department, *f.Department) {
		return false
	}
	if f.Gender != nil && p.Gender != *f.Gender {
		return false
	}
	if f.MinAge != nil && (p.Age == nil || *p.Age < *f.MinAge) {
		return false
	}
	if f.MaxAge != nil && (p.Age == nil || *p.Age > *f.MaxAge) {
		return false
	}
	if f.Religion != nil && p.Religion != *f.Religion {
		return false
	}
	if (f.MinBudget != nil || f.MaxBudget != nil) && !f.budgetOverlaps(p) {
		return false
	}
	if f.Location != nil && !containsFold(p.PreferredLocation, *f.Location) {
		return false
	}
	if f.YearOfStudy != nil && (p.YearOfStudy == nil || *p.YearOfStudy != *f.YearOfStudy) {
		return false
	}
	return true
}

// budgetOverlaps is an interval intersection test, not containment.
func (f Filter) budgetOverlaps(p models.RoommateProfile) bool {
	lo, hi := int64(0), int64(math.MaxInt64)
	if f.MinBudget != nil {
		lo = *f.MinBudget
	}
	if f.MaxBudget != nil {
		hi = *f.MaxBudget
	}
	return p.BudgetMax >= lo && p.BudgetMin <= hi
}

func matchesQuery(p models.RoommateProfile, q string) bool {
	if containsFold(p.FullName, q) ||
		containsFold(p.Bio, q) ||
		containsFold(p.CourseOfStudy, q) ||
		containsFold(p.Department, q) {
		return true
	}
	for _, interest := range p.Interests {
		if containsFold(interest, q) {
			return true
		}
	}
	return false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
