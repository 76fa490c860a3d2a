package postgres

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/campusmate/campusmate/internal/models"
	"github.com/campusmate/campusmate/internal/storage"
)

// Set POSTGRES_TEST_URL to run, e.g.
// POSTGRES_TEST_URL="postgres://postgres@localhost:5432/campusmate_test?sslmode=disable"
func TestStore_Integration(t *testing.T) {
	connStr := os.Getenv("POSTGRES_TEST_URL")
	if connStr == "" {
		t.Skip("POSTGRES_TEST_URL not set, skipping PostgreSQL integration test")
	}

	ctx := context.Background()
	store := New(connStr)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() {
		store.GetDB().MustExec("DELETE FROM roommate_profiles WHERE user_id LIKE 'it-%'")
		store.GetDB().MustExec("DELETE FROM kv_state WHERE key LIKE 'it-%'")
		store.Close()
	})

	owner, err := store.UpsertRoommateProfile(ctx, models.RoommateProfile{
		UserID: "it-owner", FullName: "Owner", Gender: "female", Active: true,
	})
	if err != nil {
		t.Fatalf("UpsertRoommateProfile failed: %v", err)
	}
	if _, err := store.UpsertRoommateProfile(ctx, models.RoommateProfile{
		UserID: "it-peer", FullName: "Peer", Gender: "female", Active: true,
	}); err != nil {
		t.Fatalf("UpsertRoommateProfile failed: %v", err)
	}

	_, err = store.UpsertRoommateProfile(ctx, models.RoommateProfile{
		ID: owner.ID, UserID: "it-other", FullName: "X", Gender: "female",
	})
	if !errors.Is(err, storage.ErrNotOwner) {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}

	visible, err := store.GetVisibleRoommateProfiles(ctx, models.Viewer{UserID: "it-owner", Gender: "female"})
	if err != nil {
		t.Fatalf("GetVisibleRoommateProfiles failed: %v", err)
	}
	for _, p := range visible {
		if p.UserID == "it-owner" || p.Gender != "female" {
			t.Errorf("profile %s should not be visible", p.UserID)
		}
	}

	if err := store.SetValue(ctx, "it-key", "v"); err != nil {
		t.Fatalf("SetValue failed: %v", err)
	}
	if v, found, err := store.GetValue(ctx, "it-key"); err != nil || !found || v != "v" {
		t.Errorf("GetValue = %q, %v, %v", v, found, err)
	}
}
