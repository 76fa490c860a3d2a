package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/campusmate/campusmate/internal/logger"
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// ExitCode maps an error to a process exit status. Errors that carry their own
// code (see WithExitCode) keep it; everything else exits 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var coded *codedError
	if stderrors.As(err, &coded) {
		return coded.code
	}
	return 1
}

// WithExitCode attaches a process exit status to err.
func WithExitCode(err error, code int) error {
	if err == nil {
		return nil
	}
	return &codedError{err: err, code: code}
}

type codedError struct {
	err  error
	code int
}

func (e *codedError) Error() string { return e.err.Error() }
func (e *codedError) Unwrap() error { return e.err }

// Fatal logs an error and exits the program
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(ExitCode(err))
	}
}
