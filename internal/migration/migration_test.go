package migration

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sqlx.DB {
	db, err := sqlx.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func migrationsFS(files map[string]string) fstest.MapFS {
	m := fstest.MapFS{}
	for name, content := range files {
		m[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return m
}

func TestCurrentVersion_FreshDatabase(t *testing.T) {
	runner := NewRunner(setupTestDB(t), migrationsFS(nil))

	version, err := runner.CurrentVersion(context.Background())
	if err != nil {
		t.Fatalf("CurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0, got %d", version)
	}
}

func TestReadMigrationFiles(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		want    []int
		wantErr string
	}{
		{
			name: "sorted by version",
			files: map[string]string{
				"002_second.sql": "SELECT 2;",
				"001_first.sql":  "SELECT 1;",
				"README.md":      "ignored",
			},
			want: []int{1, 2},
		},
		{
			name:    "bad filename",
			files:   map[string]string{"init.sql": "SELECT 1;"},
			wantErr: "invalid migration filename",
		},
		{
			name:    "non-numeric version",
			files:   map[string]string{"abc_init.sql": "SELECT 1;"},
			wantErr: "invalid version number",
		},
		{
			name:    "version zero",
			files:   map[string]string{"000_init.sql": "SELECT 1;"},
			wantErr: "must be at least 1",
		},
		{
			name: "duplicate version",
			files: map[string]string{
				"001_a.sql": "SELECT 1;",
				"01_b.sql":  "SELECT 1;",
			},
			wantErr: "duplicate migration version 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := NewRunner(setupTestDB(t), migrationsFS(tt.files))
			got, err := runner.ReadMigrationFiles()
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadMigrationFiles failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d migrations, got %d", len(tt.want), len(got))
			}
			for i, v := range tt.want {
				if got[i].Version != v {
					t.Errorf("migration %d: expected version %d, got %d", i, v, got[i].Version)
				}
			}
		})
	}
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	runner := NewRunner(db, migrationsFS(map[string]string{
		"001_users.sql": "CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT);",
		"002_posts.sql": "CREATE TABLE posts (id INTEGER PRIMARY KEY, user_id INTEGER);",
	}))

	var logs []string
	applied, err := runner.Apply(ctx, func(msg string) { logs = append(logs, msg) })
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if applied != 2 {
		t.Errorf("expected 2 migrations applied, got %d", applied)
	}
	if len(logs) == 0 {
		t.Error("expected progress messages")
	}

	version, _ := runner.CurrentVersion(ctx)
	if version != 2 {
		t.Errorf("expected version 2, got %d", version)
	}

	// Second run is a no-op.
	applied, err = runner.Apply(ctx, nil)
	if err != nil {
		t.Fatalf("second Apply failed: %v", err)
	}
	if applied != 0 {
		t.Errorf("expected 0 migrations applied, got %d", applied)
	}

	if _, err := db.Exec("INSERT INTO posts (user_id) VALUES (1)"); err != nil {
		t.Errorf("posts table should exist: %v", err)
	}
}

func TestApply_FailureKeepsPreviousVersion(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(setupTestDB(t), migrationsFS(map[string]string{
		"001_ok.sql":     "CREATE TABLE ok (id INTEGER);",
		"002_broken.sql": "CREATE TABLE broken (",
	}))

	applied, err := runner.Apply(ctx, nil)
	if err == nil {
		t.Fatal("expected error for broken migration")
	}
	if applied != 1 {
		t.Errorf("expected 1 migration applied before failure, got %d", applied)
	}

	version, _ := runner.CurrentVersion(ctx)
	if version != 1 {
		t.Errorf("expected version 1, got %d", version)
	}
}

func TestValidateVersion_NewerDatabase(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	runner := NewRunner(db, migrationsFS(map[string]string{
		"001_init.sql": "CREATE TABLE t (id INTEGER);",
	}))

	if _, err := runner.Apply(ctx, nil); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if err := runner.ValidateVersion(ctx); err != nil {
		t.Errorf("ValidateVersion failed on current schema: %v", err)
	}

	if _, err := db.Exec("UPDATE schema_version SET version = 9"); err != nil {
		t.Fatalf("failed to bump version: %v", err)
	}
	err := runner.ValidateVersion(ctx)
	if err == nil || !strings.Contains(err.Error(), "newer than supported") {
		t.Errorf("expected newer-than-supported error, got %v", err)
	}
}
