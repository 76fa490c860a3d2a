package system

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campusmate/campusmate/internal/api"
	"github.com/campusmate/campusmate/internal/cli"
	"github.com/campusmate/campusmate/internal/logger"
)

const shutdownTimeout = 10 * time.Second

type ServeCmd struct {
	Address string `help:"Address to listen on. Defaults to server.address from the config."`
	Viewer  string `help:"Default viewer for /roommates. Defaults to viewer.user_id from the config."`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	opts := &api.Options{
		Address:       c.Address,
		DefaultViewer: c.Viewer,
		Service:       ctx.Service,
	}
	if ctx.Config != nil {
		if opts.Address == "" {
			opts.Address = ctx.Config.Server.Address
		}
		if opts.DefaultViewer == "" {
			opts.DefaultViewer = ctx.Config.Viewer.UserID
		}
		opts.Debug = ctx.Config.Log.Debug
	}

	ctx.PerformAutomaticBackup()

	sigCtx, stop := signal.NotifyContext(ctx.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := api.NewServer(opts)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()
	ctx.Printf("Serving campusmate API on http://%s\n", opts.Address)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("API server failed: %w", err)
		}
		return nil
	case <-sigCtx.Done():
	}

	logger.Info("Shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop API server: %w", err)
	}
	return <-errCh
}
