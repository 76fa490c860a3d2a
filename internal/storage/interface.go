package storage

import (
	"context"
	"errors"

	"github.com/campusmate/campusmate/internal/models"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrNotOwner is returned when a profile update comes from a user other
	// than the one who created it.
	ErrNotOwner = errors.New("profile belongs to another user")
	// ErrProfileExists is returned when a user who already owns a profile
	// tries to create a second one under a new ID.
	ErrProfileExists = errors.New("user already has a roommate profile")
)

type Provider interface {
	// Lifecycle
	Init(ctx context.Context) error
	Load(ctx context.Context) error
	Close() error

	// Settings
	GetSettings(ctx context.Context) (models.Settings, error)
	SaveSettings(ctx context.Context, settings models.Settings) error

	// Schools and programmes
	AddSchool(ctx context.Context, school models.School) error
	GetSchool(ctx context.Context, id string) (models.School, error)
	GetSchools(ctx context.Context) ([]models.School, error)
	AddProgramme(ctx context.Context, programme models.Programme) error
	GetProgrammesBySchool(ctx context.Context, schoolID string) ([]models.Programme, error)

	// Roommates
	// UpsertRoommateProfile creates the profile or updates the caller's own
	// one. A profile's owner never changes.
	UpsertRoommateProfile(ctx context.Context, profile models.RoommateProfile) (models.RoommateProfile, error)
	GetRoommateProfileByUser(ctx context.Context, userID string) (models.RoommateProfile, error)
	// GetVisibleRoommateProfiles returns active profiles of the viewer's
	// gender, excluding the viewer's own, newest first.
	GetVisibleRoommateProfiles(ctx context.Context, viewer models.Viewer) ([]models.RoommateProfile, error)

	// Key/value state
	GetValue(ctx context.Context, key string) (string, bool, error)
	SetValue(ctx context.Context, key, value string) error
	DeleteValue(ctx context.Context, key string) error

	// Utils
	GetConfigPath() string
}

// Versioned is implemented by SQL-backed providers that track a schema
// version.
type Versioned interface {
	SchemaVersion(ctx context.Context) (current, latest int, err error)
}
