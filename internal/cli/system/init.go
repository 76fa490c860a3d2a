package system

import (
	"fmt"
	"os"

	"github.com/campusmate/campusmate/internal/catalog"
	"github.com/campusmate/campusmate/internal/cli"
	"github.com/campusmate/campusmate/internal/config"
)

type InitCmd struct {
	Force bool `help:"Force reset by deleting existing database before initialization."`
	Seed  bool `help:"Load the bundled schools and programmes after initialization."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		dbPath := ctx.Store.GetConfigPath()
		if _, err := os.Stat(dbPath); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			ctx.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(ctx.Context()); err != nil {
		return err
	}
	ctx.Printf("Initialized campusmate storage at: %s\n", ctx.Store.GetConfigPath())

	if err := c.writeConfig(ctx); err != nil {
		return err
	}

	if c.Seed {
		seed, err := catalog.DefaultSeed()
		if err != nil {
			return err
		}
		sum, err := ctx.Service.Import(ctx.Context(), seed)
		if err != nil {
			return fmt.Errorf("failed to load bundled data: %w", err)
		}
		ctx.Printf("✓ Loaded %d schools and %d programmes\n", sum.Schools, sum.Programmes)
	}

	return nil
}

// writeConfig saves the effective config on first run so it can be edited.
func (c *InitCmd) writeConfig(ctx *cli.Context) error {
	if ctx.ConfigPath == "" || ctx.Config == nil {
		return nil
	}
	path, err := config.ExpandPath(ctx.ConfigPath)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	// Never persist a connection string that only came from the environment.
	cfg := *ctx.Config
	if cfg.Storage.FromEnv {
		cfg.Storage.Connection = ""
	}
	if err := config.Save(path, &cfg); err != nil {
		return err
	}
	ctx.Printf("Wrote config to: %s\n", path)
	return nil
}
