// Package config loads the YAML config file, an optional .env file and
// CAMPUSMATE_* environment overrides, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/campusmate/campusmate/internal/constants"
)

type StorageConfig struct {
	// Path is the SQLite database, or a .json file for the JSON store.
	Path string `mapstructure:"path" yaml:"path"`
	// Connection selects PostgreSQL when set. It must not carry a password.
	Connection string `mapstructure:"connection" yaml:"connection"`
	// FromEnv reports that Connection came from CAMPUSMATE_DB_CONNECTION.
	FromEnv bool `mapstructure:"-" yaml:"-"`
}

type StateConfig struct {
	// Backend is "file" (per-device JSON files) or "database".
	Backend string `mapstructure:"backend" yaml:"backend"`
	Dir     string `mapstructure:"dir" yaml:"dir"`
}

type ViewerConfig struct {
	UserID string `mapstructure:"user_id" yaml:"user_id"`
}

type ServerConfig struct {
	Address string `mapstructure:"address" yaml:"address"`
}

type LogConfig struct {
	Debug bool `mapstructure:"debug" yaml:"debug"`
}

type Config struct {
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	State   StateConfig   `mapstructure:"state" yaml:"state"`
	Viewer  ViewerConfig  `mapstructure:"viewer" yaml:"viewer"`
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`

	// Dir is the directory holding the config file. Not persisted.
	Dir string `mapstructure:"-" yaml:"-"`
}

type envOverrides struct {
	DBConnection  string `env:"CAMPUSMATE_DB_CONNECTION"`
	Debug         *bool  `env:"CAMPUSMATE_DEBUG"`
	Viewer        string `env:"CAMPUSMATE_VIEWER"`
	ServerAddress string `env:"CAMPUSMATE_SERVER_ADDRESS"`
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault("storage.path", filepath.Join(dir, constants.AppName+".db"))
	v.SetDefault("storage.connection", "")
	v.SetDefault("state.backend", constants.StateBackendFile)
	v.SetDefault("state.dir", filepath.Join(dir, constants.DefaultStateDirName))
	v.SetDefault("viewer.user_id", "")
	v.SetDefault("server.address", constants.DefaultServerAddress)
	v.SetDefault("log.debug", false)
}

// Load reads path (a missing file is fine), then .env from the config
// directory and the working directory, then the environment.
func Load(path string) (*Config, error) {
	path, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	setDefaults(v, dir)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.Dir = dir

	for _, dotenv := range []string{filepath.Join(dir, ".env"), ".env"} {
		if err := loadDotEnv(dotenv); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if cfg.Storage.Path, err = ExpandPath(cfg.Storage.Path); err != nil {
		return nil, err
	}
	if cfg.State.Dir, err = ExpandPath(cfg.State.Dir); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadDotEnv never overrides variables already set in the process.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("checking %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if overrides.DBConnection != "" {
		cfg.Storage.Connection = overrides.DBConnection
		cfg.Storage.FromEnv = true
	}
	if overrides.Debug != nil {
		cfg.Log.Debug = *overrides.Debug
	}
	if overrides.Viewer != "" {
		cfg.Viewer.UserID = overrides.Viewer
	}
	if overrides.ServerAddress != "" {
		cfg.Server.Address = overrides.ServerAddress
	}
	return nil
}

func (c *Config) validate() error {
	switch c.State.Backend {
	case constants.StateBackendFile, constants.StateBackendDatabase:
		return nil
	default:
		return fmt.Errorf("invalid state.backend %q: must be %q or %q",
			c.State.Backend, constants.StateBackendFile, constants.StateBackendDatabase)
	}
}

// Save writes cfg as YAML, creating the directory if needed.
func Save(path string, cfg *Config) error {
	path, err := ExpandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.Set("storage", map[string]any{"path": cfg.Storage.Path, "connection": cfg.Storage.Connection})
	v.Set("state", map[string]any{"backend": cfg.State.Backend, "dir": cfg.State.Dir})
	v.Set("viewer", map[string]any{"user_id": cfg.Viewer.UserID})
	v.Set("server", map[string]any{"address": cfg.Server.Address})
	v.Set("log", map[string]any{"debug": cfg.Log.Debug})

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}
