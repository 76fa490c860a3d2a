// Package backup snapshots the SQLite database before destructive operations
// such as re-initialising or bulk imports.
package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/campusmate/campusmate/internal/constants"
	"github.com/campusmate/campusmate/internal/logger"
)

const timestampLayout = "20060102-150405"

type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

type Manager struct {
	dbPath    string
	backupDir string
	now       func() time.Time
}

// NewManager keeps backups in a directory next to the database file.
func NewManager(dbPath string) *Manager {
	return &Manager{
		dbPath:    dbPath,
		backupDir: filepath.Join(filepath.Dir(dbPath), constants.BackupDirName),
		now:       time.Now,
	}
}

func (m *Manager) Dir() string {
	return m.backupDir
}

// Create writes a consistent copy of the database and prunes old copies
// beyond constants.MaxBackups.
func (m *Manager) Create(ctx context.Context) (string, error) {
	path, err := m.create(ctx)
	if err != nil {
		return "", err
	}
	if err := m.rotate(); err != nil {
		logger.Warn("Failed to rotate old backups", "error", err)
	}
	return path, nil
}

func (m *Manager) create(ctx context.Context) (string, error) {
	if _, err := os.Stat(m.dbPath); os.IsNotExist(err) {
		return "", fmt.Errorf("database does not exist: %s", m.dbPath)
	}
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	path, err := m.nextPath()
	if err != nil {
		return "", err
	}

	src, err := sqlx.Open("sqlite", m.dbPath+"?mode=ro")
	if err != nil {
		return "", fmt.Errorf("failed to open source database: %w", err)
	}
	defer src.Close()

	if err := verify(ctx, src); err != nil {
		return "", fmt.Errorf("source database appears to be corrupted: %w", err)
	}
	if _, err := src.ExecContext(ctx, "VACUUM INTO ?", path); err != nil {
		return "", fmt.Errorf("failed to backup database: %w", err)
	}

	logger.Info("Created database backup", "path", path)
	return path, nil
}

func (m *Manager) nextPath() (string, error) {
	stamp := m.now().Format(timestampLayout)
	name := constants.BackupFilePrefix + stamp + constants.BackupFileSuffix
	for i := 1; ; i++ {
		path := filepath.Join(m.backupDir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
		if i > 100 {
			return "", fmt.Errorf("failed to generate unique backup filename")
		}
		name = fmt.Sprintf("%s%s-%d%s", constants.BackupFilePrefix, stamp, i, constants.BackupFileSuffix)
	}
}

// parseName extracts the timestamp from prefix-YYYYMMDD-HHMMSS[-N].suffix.
func parseName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)
	if len(stamp) > len(timestampLayout) {
		stamp = stamp[:len(timestampLayout)]
	}
	t, err := time.ParseInLocation(timestampLayout, stamp, time.Local)
	return t, err == nil
}

// List returns backups newest first.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Info{}, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []Info{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ts, ok := parseName(entry.Name())
		if !ok {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{
			Path:      filepath.Join(m.backupDir, entry.Name()),
			Timestamp: ts,
			Size:      fi.Size(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		if !backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Timestamp.After(backups[j].Timestamp)
		}
		return backups[i].Path > backups[j].Path
	})
	return backups, nil
}

func (m *Manager) rotate() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	for i := constants.MaxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// Restore replaces the database with backupPath after snapshotting the
// current database. The snapshot is not rotated so it cannot evict itself.
func (m *Manager) Restore(ctx context.Context, backupPath string) error {
	if _, err := os.Stat(backupPath); err != nil {
		return fmt.Errorf("backup file does not exist: %s", backupPath)
	}

	db, err := sqlx.Open("sqlite", backupPath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open backup: %w", err)
	}
	err = verify(ctx, db)
	db.Close()
	if err != nil {
		return fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	if _, err := os.Stat(m.dbPath); err == nil {
		current, err := m.create(ctx)
		if err != nil {
			return fmt.Errorf("failed to backup current database before restore: %w", err)
		}
		logger.Info("Backed up current database before restore", "path", current)
	}

	tmp := m.dbPath + ".restore.tmp"
	if err := copyFile(backupPath, tmp); err != nil {
		return fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tmp, m.dbPath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to restore database: %w", err)
	}
	return nil
}

func verify(ctx context.Context, db *sqlx.DB) error {
	var count int
	return db.GetContext(ctx, &count, "SELECT COUNT(*) FROM sqlite_master")
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.ReadFrom(in); err != nil {
		return err
	}
	return out.Sync()
}
