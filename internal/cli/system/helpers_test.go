package system

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/campusmate/campusmate/internal/cli"
	"github.com/campusmate/campusmate/internal/config"
	"github.com/campusmate/campusmate/internal/constants"
	"github.com/campusmate/campusmate/internal/state"
	"github.com/campusmate/campusmate/internal/storage/sqlite"
)

func setupTestContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()

	store := sqlite.NewStore(filepath.Join(dir, "test.db"))
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	cfg := &config.Config{Dir: dir}
	cfg.Storage.Path = store.GetConfigPath()
	cfg.State.Backend = constants.StateBackendFile
	cfg.State.Dir = filepath.Join(dir, "state")

	ctx := cli.NewContext(context.Background(), cfg, store, state.New(state.NewMemoryBackend()))
	out := &bytes.Buffer{}
	ctx.Out = out
	return ctx, out
}
