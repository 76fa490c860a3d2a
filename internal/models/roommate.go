package models

import "time"

type RoommateProfile struct {
	ID                   string            `json:"id" yaml:"id"`
	UserID               string            `json:"user_id" yaml:"user_id" validate:"required"`
	FullName             string            `json:"full_name" yaml:"full_name" validate:"required"`
	Gender               string            `json:"gender" yaml:"gender" validate:"required"`
	Age                  *int              `json:"age,omitempty" yaml:"age,omitempty" validate:"omitempty,min=15,max=99"`
	University           string            `json:"university" yaml:"university"`
	Faculty              string            `json:"faculty" yaml:"faculty"`
	Department           string            `json:"department" yaml:"department"`
	CourseOfStudy        string            `json:"course_of_study" yaml:"course_of_study"`
	YearOfStudy          *int              `json:"year_of_study,omitempty" yaml:"year_of_study,omitempty" validate:"omitempty,min=1,max=7"`
	Religion             string            `json:"religion,omitempty" yaml:"religion,omitempty"`
	Bio                  string            `json:"bio,omitempty" yaml:"bio,omitempty"`
	BudgetMin            int64             `json:"budget_min" yaml:"budget_min" validate:"min=0"`
	BudgetMax            int64             `json:"budget_max" yaml:"budget_max" validate:"gtefield=BudgetMin"`
	PreferredLocation    string            `json:"preferred_location" yaml:"preferred_location"`
	Interests            []string          `json:"interests" yaml:"interests"`
	LifestylePreferences map[string]string `json:"lifestyle_preferences,omitempty" yaml:"lifestyle_preferences,omitempty"`
	Verified             bool              `json:"verified" yaml:"verified"`
	Active               bool              `json:"active" yaml:"active"`
	CreatedAt            time.Time         `json:"created_at" yaml:"created_at"`
}

// Viewer identifies who is browsing roommate profiles.
type Viewer struct {
	UserID string
	Gender string
}

// ViewerFromProfile derives the browsing identity from a user's own profile.
func ViewerFromProfile(p RoommateProfile) Viewer {
	return Viewer{UserID: p.UserID, Gender: p.Gender}
}
