package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/campusmate/campusmate/internal/constants"
	"github.com/campusmate/campusmate/internal/roommates"
)

// FilterFormModel holds the roommate filter as typed into the form. Empty
// fields and "any" mean no constraint.
type FilterFormModel struct {
	Query       string
	University  string
	Faculty     string
	Department  string
	Location    string
	Religion    string
	MinBudget   string
	MaxBudget   string
	MinAge      string
	MaxAge      string
	YearOfStudy string
}

func newFilterFormModel() *FilterFormModel {
	return &FilterFormModel{Religion: constants.FilterSentinelAny, YearOfStudy: constants.FilterSentinelAny}
}

func (fm *FilterFormModel) Values() map[string]string {
	return map[string]string{
		roommates.KeyQuery:       fm.Query,
		roommates.KeyUniversity:  fm.University,
		roommates.KeyFaculty:     fm.Faculty,
		roommates.KeyDepartment:  fm.Department,
		roommates.KeyLocation:    fm.Location,
		roommates.KeyReligion:    fm.Religion,
		roommates.KeyMinBudget:   fm.MinBudget,
		roommates.KeyMaxBudget:   fm.MaxBudget,
		roommates.KeyMinAge:      fm.MinAge,
		roommates.KeyMaxAge:      fm.MaxAge,
		roommates.KeyYearOfStudy: fm.YearOfStudy,
	}
}

// Summary lists the active constraints in form order.
func (fm *FilterFormModel) Summary() string {
	var parts []string
	add := func(label, v string) {
		v = strings.TrimSpace(v)
		if v != "" && !strings.EqualFold(v, constants.FilterSentinelAny) && !strings.EqualFold(v, constants.FilterSentinelAll) {
			parts = append(parts, label+"="+v)
		}
	}
	add("q", fm.Query)
	add("university", fm.University)
	add("faculty", fm.Faculty)
	add("department", fm.Department)
	add("location", fm.Location)
	add("religion", fm.Religion)
	add("min budget", fm.MinBudget)
	add("max budget", fm.MaxBudget)
	add("min age", fm.MinAge)
	add("max age", fm.MaxAge)
	add("year", fm.YearOfStudy)
	if len(parts) == 0 {
		return "no filters"
	}
	return strings.Join(parts, ", ")
}

func optionalNumber(label string) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("%s must be a whole number", label)
		}
		if n < 0 {
			return fmt.Errorf("%s cannot be negative", label)
		}
		return nil
	}
}

// NewFilterForm builds the roommate filter form bound to fm.
func NewFilterForm(fm *FilterFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Search").
				Description("Name, course, department, bio or interests").
				Value(&fm.Query),
			huh.NewInput().
				Title("University").
				Value(&fm.University),
			huh.NewInput().
				Title("Faculty").
				Description("Exact match").
				Value(&fm.Faculty),
			huh.NewInput().
				Title("Department").
				Value(&fm.Department),
			huh.NewInput().
				Title("Preferred location").
				Value(&fm.Location),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Religion").
				Options(
					huh.NewOption("Any", constants.FilterSentinelAny),
					huh.NewOption("Christianity", "Christianity"),
					huh.NewOption("Islam", "Islam"),
					huh.NewOption("Traditional", "Traditional"),
					huh.NewOption("Other", "Other"),
				).
				Value(&fm.Religion),
			huh.NewInput().
				Title("Min budget (₦)").
				Value(&fm.MinBudget).
				Validate(optionalNumber("min budget")),
			huh.NewInput().
				Title("Max budget (₦)").
				Value(&fm.MaxBudget).
				Validate(optionalNumber("max budget")),
			huh.NewInput().
				Title("Min age").
				Value(&fm.MinAge).
				Validate(optionalNumber("min age")),
			huh.NewInput().
				Title("Max age").
				Value(&fm.MaxAge).
				Validate(optionalNumber("max age")),
			huh.NewSelect[string]().
				Title("Year of study").
				Options(
					huh.NewOption("Any", constants.FilterSentinelAny),
					huh.NewOption("1", "1"),
					huh.NewOption("2", "2"),
					huh.NewOption("3", "3"),
					huh.NewOption("4", "4"),
					huh.NewOption("5", "5"),
					huh.NewOption("6", "6"),
				).
				Value(&fm.YearOfStudy),
		),
	).WithTheme(huh.ThemeDracula())
}
