package backups

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/campusmate/campusmate/internal/backup"
	"github.com/campusmate/campusmate/internal/cli"
	"github.com/campusmate/campusmate/internal/constants"
	"github.com/campusmate/campusmate/internal/logger"
)

var errNotSQLite = errors.New("backups are only available for the SQLite store")

func manager(ctx *cli.Context) (*backup.Manager, error) {
	mgr := ctx.BackupManager()
	if mgr == nil {
		return nil, errNotSQLite
	}
	return mgr, nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	backupPath, err := mgr.Create(ctx.Context())
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	ctx.Printf("✓ Backup created: %s\n", filepath.Base(backupPath))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		ctx.Println("No backups found.")
		ctx.Printf("Backups are stored in: %s\n", mgr.Dir())
		return nil
	}

	ctx.Printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), constants.MaxBackups)
	for _, b := range backups {
		sizeKB := float64(b.Size) / 1024.0
		ctx.Printf("  %s  %s  (%.1f KB)\n", b.Timestamp.Format("2006-01-02 15:04:05"), filepath.Base(b.Path), sizeKB)
	}
	ctx.Printf("\nBackup directory: %s\n", mgr.Dir())
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `help:"Skip the confirmation prompt." short:"y"`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}
	backupPath, err := resolve(c.BackupFile, mgr.Dir())
	if err != nil {
		return err
	}

	if !c.Yes {
		ctx.Println("⚠️  WARNING: This will replace your current database with the backup.")
		ctx.Println("⚠️  Stop the TUI and the API server before restoring.")
		ctx.Println("A backup of your current database will be created before restoring.")
		ctx.Printf("\nRestore from: %s\n", backupPath)
		ok, err := ctx.Confirm("Continue?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Restore cancelled.")
			return nil
		}
	}

	if err := ctx.Store.Close(); err != nil {
		logger.Warn("Failed to close database before restore", "error", err)
	}

	if err := mgr.Restore(ctx.Context(), backupPath); err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	ctx.Println("✓ Database restored successfully!")
	return nil
}

// resolve accepts an absolute path, a path relative to the working directory,
// or a bare filename inside the backup directory.
func resolve(name, backupDir string) (string, error) {
	if filepath.IsAbs(name) {
		if _, err := os.Stat(name); err != nil {
			return "", fmt.Errorf("backup file not found: %s", name)
		}
		return name, nil
	}
	if _, err := os.Stat(name); err == nil {
		abs, err := filepath.Abs(name)
		if err != nil {
			return "", fmt.Errorf("failed to resolve backup path: %w", err)
		}
		return abs, nil
	}
	candidate := filepath.Join(backupDir, name)
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}
	return "", fmt.Errorf("backup file not found: tried current directory and %s", backupDir)
}
