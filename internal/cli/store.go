package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/campusmate/campusmate/internal/config"
	"github.com/campusmate/campusmate/internal/constants"
	"github.com/campusmate/campusmate/internal/keyring"
	"github.com/campusmate/campusmate/internal/logger"
	"github.com/campusmate/campusmate/internal/state"
	"github.com/campusmate/campusmate/internal/storage"
	"github.com/campusmate/campusmate/internal/storage/postgres"
	"github.com/campusmate/campusmate/internal/storage/sqlite"
)

// ConnectionString resolves the PostgreSQL connection: the environment
// (already folded into cfg) wins, then the OS keyring. A connection string
// from the config file must not embed a password.
func ConnectionString(cfg *config.Config) (string, error) {
	if cfg.Storage.FromEnv && cfg.Storage.Connection != "" {
		return cfg.Storage.Connection, nil
	}

	connStr, err := keyring.GetConnectionString()
	switch {
	case err == nil:
		return connStr, nil
	case errors.Is(err, keyring.ErrNotFound):
	default:
		logger.Debug("Keyring lookup failed", "error", err)
	}

	if cfg.Storage.Connection == "" {
		return "", nil
	}
	if err := postgres.ValidateConnString(cfg.Storage.Connection); err != nil {
		if errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return "", fmt.Errorf("storage.connection must not contain a password; use %s, the OS keyring ('%s keyring set') or .pgpass instead",
				constants.EnvDBConnection, constants.AppName)
		}
		return "", err
	}
	return cfg.Storage.Connection, nil
}

// OpenStore picks PostgreSQL when a connection string resolves, the JSON
// store for a .json path, and SQLite otherwise. The store is not loaded.
func OpenStore(cfg *config.Config) (storage.Provider, error) {
	connStr, err := ConnectionString(cfg)
	if err != nil {
		return nil, err
	}
	if connStr != "" {
		return postgres.New(connStr), nil
	}
	if strings.HasSuffix(cfg.Storage.Path, ".json") {
		return storage.NewJSONStore(cfg.Storage.Path), nil
	}
	return sqlite.NewStore(cfg.Storage.Path), nil
}

// NewStateStore builds the persisted-state store for the configured backend.
func NewStateStore(cfg *config.Config, store storage.Provider) *state.Store {
	if cfg.State.Backend == constants.StateBackendDatabase {
		return state.New(state.NewProviderBackend(store))
	}
	return state.New(state.NewFileBackend(cfg.State.Dir))
}
