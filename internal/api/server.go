// Package api serves the checklist, deadline and roommate workflows over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/campusmate/campusmate/internal/logger"
	"github.com/campusmate/campusmate/internal/service"
)

type (
	Options struct {
		Address        string
		Debug          bool
		DisableReqLogs bool
		// DefaultViewer is used by /roommates when no viewer query parameter
		// is given.
		DefaultViewer string
		Service       *service.Service
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.HideBanner = true
	s.app.HidePort = true
	s.app.Debug = s.opts.Debug
	s.app.JSONSerializer = jsonSerializer{}
	s.app.HTTPErrorHandler = httpErrorHandler

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(requestLogger())
	}
	if !s.opts.Debug {
		s.app.Use(middleware.Recover())
	}

	s.app.GET("/healthz", healthz)

	registerChecklistAPI(s.app.Group("/checklists"), s.opts.Service)
	registerSchoolAPI(s.app.Group(""), s.opts.Service)
	registerRoommateAPI(s.app.Group("/roommates"), s.opts.Service, s.opts.DefaultViewer)
}

// Start blocks until the server stops. A clean shutdown returns nil.
func (s *server) Start() error {
	logger.Info("API server listening", "address", s.opts.Address)
	if err := s.app.Start(s.opts.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.app.ServeHTTP(w, r)
}

func healthz(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
