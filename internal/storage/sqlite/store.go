package sqlite

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/campusmate/campusmate/internal/logger"
	"github.com/campusmate/campusmate/internal/migration"
	"github.com/campusmate/campusmate/internal/models"
	"github.com/campusmate/campusmate/internal/storage"
	"github.com/campusmate/campusmate/internal/storage/sqldb"
	"github.com/campusmate/campusmate/migrations"
)

type Store struct {
	*sqldb.Queries
	path string
	db   *sqlx.DB
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

func (s *Store) open() error {
	db, err := sqlx.Open("sqlite", s.path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db
	s.Queries = sqldb.New(db)
	return nil
}

func (s *Store) Init(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := s.open(); err != nil {
		return err
	}

	if err := s.runMigrations(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if _, err := s.GetSettings(ctx); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("failed to read settings: %w", err)
		}
		settings := models.Settings{}
		models.ApplyDefaultSettings(&settings)
		if err := s.SaveSettings(ctx, settings); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}

	return nil
}

func (s *Store) Load(ctx context.Context) error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'campusmate init' first")
	}

	if err := s.open(); err != nil {
		return err
	}

	return s.validateSchemaVersion(ctx)
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) runner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS), nil
}

func (s *Store) runMigrations(ctx context.Context) error {
	runner, err := s.runner()
	if err != nil {
		return err
	}
	_, err = runner.Apply(ctx, func(msg string) {
		logger.Info(msg)
	})
	return err
}

func (s *Store) validateSchemaVersion(ctx context.Context) error {
	runner, err := s.runner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion(ctx)
}

// SchemaVersion reports the applied and the latest bundled migration version.
func (s *Store) SchemaVersion(ctx context.Context) (current, latest int, err error) {
	runner, err := s.runner()
	if err != nil {
		return 0, 0, err
	}
	if current, err = runner.CurrentVersion(ctx); err != nil {
		return 0, 0, err
	}
	if latest, err = runner.LatestVersion(); err != nil {
		return 0, 0, err
	}
	return current, latest, nil
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// GetDB returns nil until Init or Load has been called.
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

var _ storage.Provider = (*Store)(nil)
