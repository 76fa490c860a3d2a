package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/campusmate/campusmate/internal/backup"
	"github.com/campusmate/campusmate/internal/config"
	"github.com/campusmate/campusmate/internal/logger"
	"github.com/campusmate/campusmate/internal/service"
	"github.com/campusmate/campusmate/internal/state"
	"github.com/campusmate/campusmate/internal/storage"
	"github.com/campusmate/campusmate/internal/storage/sqlite"
)

type Context struct {
	Ctx        context.Context
	Config     *config.Config
	ConfigPath string
	Store      storage.Provider
	State      *state.Store
	Service    *service.Service
	Out        io.Writer
	In         io.Reader
}

// NewContext wires the service over store and st on stdin and stdout.
func NewContext(ctx context.Context, cfg *config.Config, store storage.Provider, st *state.Store) *Context {
	return &Context{
		Ctx:     ctx,
		Config:  cfg,
		Store:   store,
		State:   st,
		Service: service.New(store, st),
		Out:     os.Stdout,
		In:      os.Stdin,
	}
}

func (c *Context) Context() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Out, args...)
}

// Confirm asks a yes/no question on In. Anything but y or yes is a no.
func (c *Context) Confirm(prompt string) (bool, error) {
	c.Printf("%s [y/N]: ", prompt)
	if c.In == nil {
		c.Println()
		return false, nil
	}
	response, err := bufio.NewReader(c.In).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// BackupManager is nil unless the store is a SQLite file.
func (c *Context) BackupManager() *backup.Manager {
	if s, ok := c.Store.(*sqlite.Store); ok {
		return backup.NewManager(s.GetConfigPath())
	}
	return nil
}

// PerformAutomaticBackup snapshots the database before a destructive command.
// Failures are logged, not returned.
func (c *Context) PerformAutomaticBackup() {
	mgr := c.BackupManager()
	if mgr == nil {
		return
	}
	if _, err := mgr.Create(c.Context()); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}
