package roommates

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/campusmate/campusmate/internal/constants"
)

// Form keys understood by FilterFromValues. They match the query parameters of
// the HTTP API and the long flags of `roommate search`.
const (
	KeyQuery       = "q"
	KeyUniversity  = "university"
	KeyFaculty     = "faculty"
	KeyDepartment  = "department"
	KeyGender      = "gender"
	KeyMinAge      = "min_age"
	KeyMaxAge      = "max_age"
	KeyReligion    = "religion"
	KeyMinBudget   = "min_budget"
	KeyMaxBudget   = "max_budget"
	KeyLocation    = "location"
	KeyYearOfStudy = "year_of_study"
)

// FilterFromValues converts loosely typed form values into a Filter. Empty
// strings and the "all"/"any" sentinels mean "no filter"; numeric fields that
// do not parse are an error. Unknown keys are ignored.
func FilterFromValues(values map[string]string) (Filter, error) {
	var f Filter
	var err error

	str := func(key string) *string {
		v, ok := present(values, key)
		if !ok {
			return nil
		}
		return &v
	}

	f.SearchQuery = str(KeyQuery)
	f.University = str(KeyUniversity)
	f.Faculty = str(KeyFaculty)
	f.Department = str(KeyDepartment)
	f.Gender = str(KeyGender)
	f.Religion = str(KeyReligion)
	f.Location = str(KeyLocation)

	if f.MinAge, err = intValue(values, KeyMinAge); err != nil {
		return Filter{}, err
	}
	if f.MaxAge, err = intValue(values, KeyMaxAge); err != nil {
		return Filter{}, err
	}
	if f.YearOfStudy, err = intValue(values, KeyYearOfStudy); err != nil {
		return Filter{}, err
	}
	if f.MinBudget, err = int64Value(values, KeyMinBudget); err != nil {
		return Filter{}, err
	}
	if f.MaxBudget, err = int64Value(values, KeyMaxBudget); err != nil {
		return Filter{}, err
	}

	return f, nil
}

func present(values map[string]string, key string) (string, bool) {
	v := strings.TrimSpace(values[key])
	if v == "" || strings.EqualFold(v, constants.FilterSentinelAll) || strings.EqualFold(v, constants.FilterSentinelAny) {
		return "", false
	}
	return v, true
}

func intValue(values map[string]string, key string) (*int, error) {
	v, ok := present(values, key)
	if !ok {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: must be a whole number", key, v)
	}
	return &n, nil
}

func int64Value(values map[string]string, key string) (*int64, error) {
	v, ok := present(values, key)
	if !ok {
		return nil, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: must be a whole number", key, v)
	}
	return &n, nil
}
