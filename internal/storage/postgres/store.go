package postgres

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	pq "github.com/lib/pq"

	"github.com/campusmate/campusmate/internal/constants"
	"github.com/campusmate/campusmate/internal/logger"
	"github.com/campusmate/campusmate/internal/migration"
	"github.com/campusmate/campusmate/internal/models"
	"github.com/campusmate/campusmate/internal/storage"
	"github.com/campusmate/campusmate/internal/storage/sqldb"
	"github.com/campusmate/campusmate/migrations"
)

var (
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")
	ErrEmbeddedCredentials     = errors.New("connection string must not contain a password")
)

type Store struct {
	*sqldb.Queries
	connStr string
	db      *sqlx.DB
}

// New returns a store for connStr with search_path defaulted to the
// application schema.
func New(connStr string) *Store {
	return &Store{connStr: withSearchPath(connStr)}
}

func isURL(connStr string) bool {
	return strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://")
}

// hasParam reports whether connStr sets key, in either URL query or
// key=value DSN form. Keys compare case-insensitively.
func hasParam(connStr, key string) bool {
	if isURL(connStr) {
		if u, err := url.Parse(connStr); err == nil {
			for k := range u.Query() {
				if strings.EqualFold(k, key) {
					return true
				}
			}
		}
		return false
	}
	for _, part := range strings.Fields(connStr) {
		k, _, ok := strings.Cut(part, "=")
		if ok && strings.EqualFold(k, key) {
			return true
		}
	}
	return false
}

func withSearchPath(connStr string) string {
	if hasParam(connStr, "search_path") {
		return connStr
	}
	if isURL(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			logger.Warn("Failed to parse Postgres connection string", "error", err)
			return connStr
		}
		q := u.Query()
		q.Set("search_path", constants.AppName)
		u.RawQuery = q.Encode()
		return u.String()
	}
	return strings.TrimSpace(connStr) + " search_path=" + constants.AppName
}

// ValidateConnString rejects strings lib/pq cannot parse and strings that
// carry a password. Credentials belong in the keyring or the environment.
func ValidateConnString(connStr string) error {
	if strings.TrimSpace(connStr) == "" {
		return fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}

	if _, err := pq.NewConnector(connStr); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
	}

	if isURL(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
		}
		if _, set := u.User.Password(); set {
			return ErrEmbeddedCredentials
		}
		if u.Host == "" && u.User == nil && (u.Path == "" || u.Path == "/") {
			return fmt.Errorf("%w: connection URL is incomplete", ErrInvalidConnectionString)
		}
		return nil
	}

	if hasParam(connStr, "password") {
		return ErrEmbeddedCredentials
	}
	return nil
}

func (s *Store) connect(ctx context.Context) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", s.connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		if strings.Contains(err.Error(), "SSL is not enabled on the server") && !hasParam(s.connStr, "sslmode") {
			return nil, fmt.Errorf("failed to connect to database: %w (hint: try adding sslmode=disable to your connection string)", err)
		}
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func (s *Store) Init(ctx context.Context) error {
	db, err := s.connect(ctx)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS "+constants.AppName); err != nil {
		db.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}
	s.db = db
	s.Queries = sqldb.New(db)

	runner, err := s.runner()
	if err != nil {
		return err
	}
	if _, err := runner.Apply(ctx, func(msg string) { logger.Info(msg) }); err != nil {
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

	db, err := s.connect(ctx)
	if err != nil {
		return err
	}
	s.db = db
	s.Queries = sqldb.New(db)

	runner, err := s.runner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion(ctx)
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) runner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		return nil, fmt.Errorf("failed to access postgres migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS), nil
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

// GetConfigPath never exposes the connection string.
func (s *Store) GetConfigPath() string {
	return "postgresql"
}

var _ storage.Provider = (*Store)(nil)

// GetDB returns nil until Init or Load has been called.
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}
