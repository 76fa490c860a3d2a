package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campusmate/campusmate/internal/logger"
	"github.com/campusmate/campusmate/internal/service"
	"github.com/campusmate/campusmate/internal/storage"
	"github.com/campusmate/campusmate/internal/validation"
)

var errMissingViewer = echo.NewHTTPError(http.StatusBadRequest, "viewer is required")

// httpErrorHandler maps domain errors onto status codes. Anything unknown is
// logged and reported as a 500 without details.
func httpErrorHandler(err error, ctx echo.Context) {
	code := http.StatusInternalServerError
	var message interface{} = http.StatusText(code)

	var httpErr *echo.HTTPError
	var fieldErrs validation.FieldErrors
	switch {
	case errors.As(err, &httpErr):
		code = httpErr.Code
		message = httpErr.Message
	case errors.As(err, &fieldErrs):
		code = http.StatusBadRequest
		message = echo.Map{"error": "validation failed", "fields": fieldErrs}
	case errors.Is(err, service.ErrNoViewer):
		code = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, service.ErrUnknownChecklist):
		code = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, service.ErrUnknownStep), errors.Is(err, storage.ErrNotFound):
		code = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, storage.ErrNotOwner):
		code = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, storage.ErrProfileExists):
		code = http.StatusConflict
		message = err.Error()
	default:
		logger.Error("Request failed", "method", ctx.Request().Method, "path", ctx.Path(), "error", err)
	}

	if ctx.Echo().Debug && code == http.StatusInternalServerError {
		message = err.Error()
	}
	if m, ok := message.(string); ok {
		message = echo.Map{"error": m}
	}

	if ctx.Response().Committed {
		return
	}
	if ctx.Request().Method == http.MethodHead {
		err = ctx.NoContent(code)
	} else {
		err = ctx.JSON(code, message)
	}
	if err != nil {
		logger.Error("Failed to write error response", "error", err)
	}
}
