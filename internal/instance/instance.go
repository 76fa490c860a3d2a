// Package instance records which campusmate process is using a config
// directory. Checklist state is last-write-wins, so a second process is only
// warned about, never blocked.
package instance

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/campusmate/campusmate/internal/constants"
)

var (
	findProcessFunc = ps.FindProcess
	getpidFunc      = os.Getpid
)

// Other describes a live process holding the lockfile.
type Other struct {
	PID        int
	Command    string
	Executable string
}

func (o Other) String() string {
	return fmt.Sprintf("%s (pid %d, running %q)", o.Executable, o.PID, o.Command)
}

type Lock struct {
	path string
	pid  int
}

// Acquire writes this process into <dir>/campusmate.lock. When the lockfile
// names another live campusmate process, that process is returned so the
// caller can warn; the lock is taken over regardless.
func Acquire(dir, command string) (*Lock, *Other, error) {
	path := filepath.Join(dir, constants.InstanceLockfileName)

	other, err := Check(path)
	if err != nil {
		return nil, nil, err
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	pid := getpidFunc()
	content := fmt.Sprintf("%d|%s\n", pid, command)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return nil, nil, fmt.Errorf("failed to write lockfile: %w", err)
	}
	return &Lock{path: path, pid: pid}, other, nil
}

// Check reads the lockfile at path. It returns nil when the file is absent,
// malformed, stale, ours, or held by something that is not campusmate.
func Check(path string) (*Other, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read lockfile: %w", err)
	}

	pidStr, command, _ := strings.Cut(strings.TrimSpace(string(content)), "|")
	pid, err := strconv.Atoi(pidStr)
	if err != nil || pid <= 0 || pid == getpidFunc() {
		return nil, nil
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return nil, nil
	}
	if !strings.HasPrefix(process.Executable(), constants.AppName) {
		return nil, nil
	}

	return &Other{PID: pid, Command: command, Executable: process.Executable()}, nil
}

// Release removes the lockfile if it still belongs to this lock.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	content, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	pidStr, _, _ := strings.Cut(strings.TrimSpace(string(content)), "|")
	if pidStr != strconv.Itoa(l.pid) {
		return nil
	}
	return os.Remove(l.path)
}
