package models

type School struct {
	ID           string `json:"id" yaml:"id" db:"id" validate:"required"`
	Name         string `json:"name" yaml:"name" db:"name" validate:"required"`
	Slug         string `json:"slug" yaml:"slug" db:"slug" validate:"required,slug"`
	City         string `json:"city" yaml:"city" db:"city"`
	State        string `json:"state" yaml:"state" db:"state"`
	NextDeadline string `json:"next_deadline,omitempty" yaml:"next_deadline,omitempty" db:"next_deadline"`
}

type Programme struct {
	ID           string   `json:"id" yaml:"id" db:"id" validate:"required"`
	SchoolID     string   `json:"school_id" yaml:"school_id" db:"school_id" validate:"required"`
	Name         string   `json:"name" yaml:"name" db:"name" validate:"required"`
	Slug         string   `json:"slug" yaml:"slug" db:"slug" validate:"required,slug"`
	Level        string   `json:"level" yaml:"level" db:"level"`
	Open         bool     `json:"open" yaml:"open" db:"open"`
	NextDeadline string   `json:"next_deadline,omitempty" yaml:"next_deadline,omitempty" db:"next_deadline"`
	Requirements []string `json:"requirements" yaml:"requirements" db:"-"`
}
