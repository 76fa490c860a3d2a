// Package service wires the pure engines to storage and persisted state. The
// CLI, HTTP API and TUI all go through it.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/campusmate/campusmate/internal/catalog"
	"github.com/campusmate/campusmate/internal/checklist"
	"github.com/campusmate/campusmate/internal/deadlines"
	"github.com/campusmate/campusmate/internal/logger"
	"github.com/campusmate/campusmate/internal/models"
	"github.com/campusmate/campusmate/internal/roommates"
	"github.com/campusmate/campusmate/internal/state"
	"github.com/campusmate/campusmate/internal/storage"
	"github.com/campusmate/campusmate/internal/utils"
)

var (
	ErrUnknownStep      = errors.New("unknown checklist step")
	ErrUnknownChecklist = errors.New("unknown checklist")
	ErrNoViewer         = errors.New("no viewer configured")
)

type Service struct {
	Store   storage.Provider
	State   *state.Store
	Catalog []models.ChecklistDefinition
	Now     func() time.Time
}

func New(store storage.Provider, st *state.Store) *Service {
	return &Service{
		Store:   store,
		State:   st,
		Catalog: catalog.All(),
		Now:     time.Now,
	}
}

// Settings returns stored settings with defaults applied and the resolved
// timezone. An invalid stored timezone falls back to UTC with a warning.
func (s *Service) Settings(ctx context.Context) (models.Settings, *time.Location, error) {
	settings, err := s.Store.GetSettings(ctx)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return models.Settings{}, nil, fmt.Errorf("failed to load settings: %w", err)
	}
	models.ApplyDefaultSettings(&settings)

	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		logger.Warn("Ignoring invalid timezone setting", "timezone", settings.Timezone, "error", err)
		loc = time.UTC
	}
	return settings, loc, nil
}

// Selection returns the persisted checklist selection. When nothing was ever
// saved it falls back to the configured default, then the built-in pair.
func (s *Service) Selection(ctx context.Context) ([]string, error) {
	fallback := catalog.FallbackSelection
	if settings, _, err := s.Settings(ctx); err == nil && len(settings.DefaultChecklists) > 0 {
		fallback = settings.DefaultChecklists
	}

	ids, err := s.State.SelectionOrFallback(ctx, fallback)
	if errors.Is(err, state.ErrCorruptState) {
		logger.Warn("Checklist selection was corrupt, using defaults", "error", err)
		return ids, nil
	}
	return ids, err
}

// SetSelection rejects IDs that are not in the catalog.
func (s *Service) SetSelection(ctx context.Context, ids []string) ([]string, error) {
	if unknown := checklist.UnknownIDs(s.Catalog, ids); len(unknown) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownChecklist, strings.Join(unknown, ", "))
	}
	seen := make(map[string]bool, len(ids))
	cleaned := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			cleaned = append(cleaned, id)
		}
	}
	if err := s.State.SaveSelection(ctx, cleaned); err != nil {
		return nil, err
	}
	return cleaned, nil
}

// Completion loads completion state. Corrupt state is reported as a warning
// and treated as empty.
func (s *Service) Completion(ctx context.Context) (models.CompletionState, error) {
	completion, err := s.State.LoadCompletion(ctx)
	if errors.Is(err, state.ErrCorruptState) {
		logger.Warn("Checklist progress was corrupt, starting fresh", "error", err)
		return completion, nil
	}
	return completion, err
}

// ToggleStep flips one step and persists the new map. It returns the step's
// new value.
func (s *Service) ToggleStep(ctx context.Context, stepID string) (bool, error) {
	if _, _, ok := catalog.FindStep(s.Catalog, stepID); !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownStep, stepID)
	}
	completion, err := s.Completion(ctx)
	if err != nil {
		return false, err
	}
	next := checklist.ToggleStep(completion, stepID)
	if err := s.State.SaveCompletion(ctx, next); err != nil {
		return false, err
	}
	return next.IsComplete(stepID), nil
}

// SetStep records an explicit value for one step.
func (s *Service) SetStep(ctx context.Context, stepID string, done bool) error {
	if _, _, ok := catalog.FindStep(s.Catalog, stepID); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownStep, stepID)
	}
	completion, err := s.Completion(ctx)
	if err != nil {
		return err
	}
	return s.State.SaveCompletion(ctx, checklist.SetStep(completion, stepID, done))
}

type ChecklistView struct {
	Checklist models.ChecklistDefinition `json:"checklist"`
	Progress  checklist.Progress         `json:"progress"`
}

type ProgressReport struct {
	Selected   []string               `json:"selected"`
	Checklists []ChecklistView        `json:"checklists"`
	Overall    checklist.Progress     `json:"overall"`
	Completion models.CompletionState `json:"completion"`
}

// Progress computes per-checklist and overall progress for ids, or for the
// persisted selection when ids is nil.
func (s *Service) Progress(ctx context.Context, ids []string) (ProgressReport, error) {
	if ids == nil {
		var err error
		if ids, err = s.Selection(ctx); err != nil {
			return ProgressReport{}, err
		}
	}
	completion, err := s.Completion(ctx)
	if err != nil {
		return ProgressReport{}, err
	}

	selected := checklist.SelectChecklists(s.Catalog, ids)
	views := make([]ChecklistView, 0, len(selected))
	for _, def := range selected {
		views = append(views, ChecklistView{Checklist: def, Progress: checklist.ChecklistProgress(def, completion)})
	}
	return ProgressReport{
		Selected:   ids,
		Checklists: views,
		Overall:    checklist.OverallProgress(selected, completion),
		Completion: completion,
	}, nil
}

// Export renders the text report for the persisted selection.
func (s *Service) Export(ctx context.Context) (filename, content string, err error) {
	report, err := s.Progress(ctx, nil)
	if err != nil {
		return "", "", err
	}
	_, loc, err := s.Settings(ctx)
	if err != nil {
		return "", "", err
	}

	now := s.Now().In(loc)
	defs := make([]models.ChecklistDefinition, 0, len(report.Checklists))
	for _, v := range report.Checklists {
		defs = append(defs, v.Checklist)
	}
	return checklist.ReportFilename(now), checklist.ExportReport(defs, report.Completion, now), nil
}

// ResetChecklists clears completion and selection.
func (s *Service) ResetChecklists(ctx context.Context) error {
	return s.State.Reset(ctx)
}

// Deadlines returns sorted deadline items, optionally only those not yet past.
func (s *Service) Deadlines(ctx context.Context, upcomingOnly bool) ([]deadlines.Item, error) {
	items, err := deadlines.Collect(ctx, s.Store)
	if err != nil {
		return nil, err
	}
	if upcomingOnly {
		items = deadlines.Upcoming(items, s.Now())
	}
	return items, nil
}

// DeadlineGroups buckets Deadlines by month in the configured timezone.
func (s *Service) DeadlineGroups(ctx context.Context, upcomingOnly bool) ([]deadlines.MonthGroup, error) {
	items, err := s.Deadlines(ctx, upcomingOnly)
	if err != nil {
		return nil, err
	}
	_, loc, err := s.Settings(ctx)
	if err != nil {
		return nil, err
	}
	return deadlines.GroupByMonth(items, loc), nil
}

// Viewer resolves the browsing identity from the user's own profile.
func (s *Service) Viewer(ctx context.Context, userID string) (models.Viewer, error) {
	if userID == "" {
		return models.Viewer{}, ErrNoViewer
	}
	profile, err := s.Store.GetRoommateProfileByUser(ctx, userID)
	if err != nil {
		return models.Viewer{}, fmt.Errorf("failed to resolve viewer %s: %w", userID, err)
	}
	return models.ViewerFromProfile(profile), nil
}

// SearchRoommates fetches the viewer's visible pool and applies f. The engine
// re-applies the gender scope on top of the storage predicate.
func (s *Service) SearchRoommates(ctx context.Context, userID string, f roommates.Filter) ([]models.RoommateProfile, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	viewer, err := s.Viewer(ctx, userID)
	if err != nil {
		return nil, err
	}
	candidates, err := s.Store.GetVisibleRoommateProfiles(ctx, viewer)
	if err != nil {
		return nil, fmt.Errorf("failed to load roommate profiles: %w", err)
	}
	return roommates.Search(candidates, viewer, f), nil
}

type ImportSummary struct {
	Schools    int
	Programmes int
	Roommates  int
}

// Import writes a validated seed document into the store. Schools go first so
// programmes can reference them.
func (s *Service) Import(ctx context.Context, seed catalog.Seed) (ImportSummary, error) {
	var sum ImportSummary
	for _, school := range seed.Schools {
		if err := s.Store.AddSchool(ctx, school); err != nil {
			return sum, err
		}
		sum.Schools++
	}
	for _, p := range seed.Programmes {
		if err := s.Store.AddProgramme(ctx, p); err != nil {
			return sum, err
		}
		sum.Programmes++
	}
	for _, r := range seed.Roommates {
		if _, err := s.Store.UpsertRoommateProfile(ctx, r); err != nil {
			return sum, fmt.Errorf("roommate profile for %s: %w", r.UserID, err)
		}
		sum.Roommates++
	}
	logger.Info("Imported reference data", "schools", sum.Schools, "programmes", sum.Programmes, "roommates", sum.Roommates)
	return sum, nil
}
