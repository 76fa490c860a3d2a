package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/campusmate/campusmate/internal/constants"
)

func setupTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "campusmate.db")

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer db.Close()

	db.MustExec("CREATE TABLE schools (id TEXT PRIMARY KEY, name TEXT)")
	db.MustExec("INSERT INTO schools (id, name) VALUES ('unilag', 'University of Lagos')")
	return dbPath
}

func countSchools(t *testing.T, path string) int {
	t.Helper()
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer db.Close()
	var n int
	if err := db.Get(&n, "SELECT COUNT(*) FROM schools"); err != nil {
		t.Fatalf("failed to count schools: %v", err)
	}
	return n
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestCreate(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	path, err := mgr.Create(context.Background())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if filepath.Dir(path) != filepath.Join(filepath.Dir(dbPath), constants.BackupDirName) {
		t.Errorf("backup written to unexpected dir: %s", path)
	}
	if countSchools(t, path) != 1 {
		t.Error("backup does not contain source data")
	}
}

func TestCreate_NoDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.Create(context.Background()); err == nil {
		t.Error("expected error when database does not exist")
	}
}

func TestCreate_UniqueNames(t *testing.T) {
	mgr := NewManager(setupTestDB(t))
	mgr.now = fixedClock(time.Date(2025, 3, 1, 9, 30, 0, 0, time.Local))

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		path, err := mgr.Create(context.Background())
		if err != nil {
			t.Fatalf("Create #%d failed: %v", i, err)
		}
		if seen[path] {
			t.Fatalf("duplicate backup path %s", path)
		}
		seen[path] = true
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 3 {
		t.Errorf("expected 3 backups, got %d", len(backups))
	}
}

func TestRotation(t *testing.T) {
	mgr := NewManager(setupTestDB(t))
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.Local)

	total := constants.MaxBackups + 3
	for i := 0; i < total; i++ {
		mgr.now = fixedClock(base.AddDate(0, 0, i))
		if _, err := mgr.Create(context.Background()); err != nil {
			t.Fatalf("Create #%d failed: %v", i, err)
		}
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != constants.MaxBackups {
		t.Fatalf("expected %d backups after rotation, got %d", constants.MaxBackups, len(backups))
	}
	newest := base.AddDate(0, 0, total-1)
	if !backups[0].Timestamp.Equal(newest) {
		t.Errorf("expected newest backup first (%v), got %v", newest, backups[0].Timestamp)
	}
	oldestKept := base.AddDate(0, 0, total-constants.MaxBackups)
	if !backups[len(backups)-1].Timestamp.Equal(oldestKept) {
		t.Errorf("expected oldest kept %v, got %v", oldestKept, backups[len(backups)-1].Timestamp)
	}
}

func TestList_IgnoresForeignFiles(t *testing.T) {
	mgr := NewManager(setupTestDB(t))
	if err := os.MkdirAll(mgr.Dir(), 0700); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"notes.txt", constants.BackupFilePrefix + "garbage" + constants.BackupFileSuffix} {
		if err := os.WriteFile(filepath.Join(mgr.Dir(), name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected no backups, got %+v", backups)
	}
}

func TestParseName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{fmt.Sprintf("%s20250301-093000%s", constants.BackupFilePrefix, constants.BackupFileSuffix), true},
		{fmt.Sprintf("%s20250301-093000-2%s", constants.BackupFilePrefix, constants.BackupFileSuffix), true},
		{fmt.Sprintf("%s2025%s", constants.BackupFilePrefix, constants.BackupFileSuffix), false},
		{"other-20250301-093000.db", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := parseName(tt.name)
			if ok != tt.ok {
				t.Errorf("parseName(%q) ok = %v, want %v", tt.name, ok, tt.ok)
			}
		})
	}
}

func TestRestore(t *testing.T) {
	ctx := context.Background()
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	mgr.now = fixedClock(time.Date(2025, 3, 1, 9, 0, 0, 0, time.Local))

	snapshot, err := mgr.Create(ctx)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	db.MustExec("INSERT INTO schools (id, name) VALUES ('ui', 'University of Ibadan')")
	db.Close()

	if countSchools(t, dbPath) != 2 {
		t.Fatal("expected 2 schools before restore")
	}

	if err := mgr.Restore(ctx, snapshot); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if countSchools(t, dbPath) != 1 {
		t.Error("expected restore to bring back the single-school snapshot")
	}

	backups, _ := mgr.List()
	if len(backups) != 2 {
		t.Errorf("expected pre-restore snapshot alongside the original, got %d backups", len(backups))
	}
}

func TestRestore_CorruptBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	bad := filepath.Join(t.TempDir(), "bad.db")
	if err := os.WriteFile(bad, []byte("this is not a database"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := mgr.Restore(context.Background(), bad); err == nil {
		t.Error("expected error restoring a corrupt backup")
	}
	if countSchools(t, dbPath) != 1 {
		t.Error("database should be untouched after a failed restore")
	}
}
