// Package state persists checklist completion and selection through a
// pluggable key/value backend.
package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/campusmate/campusmate/internal/constants"
	"github.com/campusmate/campusmate/internal/logger"
	"github.com/campusmate/campusmate/internal/models"
)

// ErrCorruptState is returned alongside a usable empty value when a stored
// entry is not valid JSON.
var ErrCorruptState = errors.New("stored state is corrupt")

// Backend is the minimal key/value contract the store needs.
type Backend interface {
	// Read returns found=false when the key has never been written.
	Read(ctx context.Context, key string) (data []byte, found bool, err error)
	Write(ctx context.Context, key string, data []byte) error
	Clear(ctx context.Context, key string) error
}

// Store reads and writes the two persisted checklist values. Last write wins;
// nothing reconciles concurrent writers.
type Store struct {
	backend Backend
}

func New(backend Backend) *Store {
	return &Store{backend: backend}
}

// LoadCompletion returns the saved completion map. Missing state is an empty
// map. Non-boolean entries are dropped (treated as not done).
func (s *Store) LoadCompletion(ctx context.Context) (models.CompletionState, error) {
	data, found, err := s.backend.Read(ctx, constants.StateKeyCompletion)
	if err != nil {
		return models.CompletionState{}, fmt.Errorf("failed to read completion state: %w", err)
	}
	if !found {
		return models.CompletionState{}, nil
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		logger.Warn("Discarding corrupt completion state", "error", err)
		return models.CompletionState{}, fmt.Errorf("%w: %s: %v", ErrCorruptState, constants.StateKeyCompletion, err)
	}

	state := make(models.CompletionState, len(raw))
	for id, v := range raw {
		if done, ok := v.(bool); ok && done {
			state[id] = true
		}
	}
	return state, nil
}

// SaveCompletion writes the whole completion map.
func (s *Store) SaveCompletion(ctx context.Context, state models.CompletionState) error {
	if state == nil {
		state = models.CompletionState{}
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to serialize completion state: %w", err)
	}
	if err := s.backend.Write(ctx, constants.StateKeyCompletion, data); err != nil {
		return fmt.Errorf("failed to write completion state: %w", err)
	}
	return nil
}

// LoadSelection returns the saved checklist IDs. found is false when no
// selection was ever saved, which is the caller's cue to use the fallback.
// Non-string entries are dropped.
func (s *Store) LoadSelection(ctx context.Context) (ids []string, found bool, err error) {
	data, found, err := s.backend.Read(ctx, constants.StateKeySelection)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read checklist selection: %w", err)
	}
	if !found {
		return nil, false, nil
	}

	var raw []interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		logger.Warn("Discarding corrupt checklist selection", "error", err)
		return nil, false, fmt.Errorf("%w: %s: %v", ErrCorruptState, constants.StateKeySelection, err)
	}

	ids = make([]string, 0, len(raw))
	for _, v := range raw {
		if id, ok := v.(string); ok {
			ids = append(ids, id)
		}
	}
	return ids, true, nil
}

// SaveSelection writes the selected checklist IDs.
func (s *Store) SaveSelection(ctx context.Context, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to serialize checklist selection: %w", err)
	}
	if err := s.backend.Write(ctx, constants.StateKeySelection, data); err != nil {
		return fmt.Errorf("failed to write checklist selection: %w", err)
	}
	return nil
}

// Reset clears both keys.
func (s *Store) Reset(ctx context.Context) error {
	for _, key := range []string{constants.StateKeyCompletion, constants.StateKeySelection} {
		if err := s.backend.Clear(ctx, key); err != nil {
			return fmt.Errorf("failed to clear %s: %w", key, err)
		}
	}
	return nil
}

// SelectionOrFallback loads the selection and substitutes fallback when none
// was ever saved or the stored value is corrupt. The corruption error is still
// returned so callers can report it.
func (s *Store) SelectionOrFallback(ctx context.Context, fallback []string) ([]string, error) {
	ids, found, err := s.LoadSelection(ctx)
	if err != nil && !errors.Is(err, ErrCorruptState) {
		return nil, err
	}
	if !found {
		out := make([]string, len(fallback))
		copy(out, fallback)
		return out, err
	}
	return ids, nil
}
