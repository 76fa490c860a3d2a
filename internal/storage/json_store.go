package storage

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/campusmate/campusmate/internal/models"
)

type document struct {
	Version    int                               `json:"version"`
	Settings   models.Settings                   `json:"settings"`
	Schools    map[string]models.School          `json:"schools"`
	Programmes map[string]models.Programme       `json:"programmes"`
	Roommates  map[string]models.RoommateProfile `json:"roommates"`
	Values     map[string]string                 `json:"values"`
}

// JSONStore keeps everything in a single JSON document rewritten on each
// change. It suits fixtures and small single-user setups.
type JSONStore struct {
	mu   sync.RWMutex
	path string
	doc  *document
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func newDocument() *document {
	settings := models.Settings{}
	models.ApplyDefaultSettings(&settings)
	return &document{
		Version:    1,
		Settings:   settings,
		Schools:    make(map[string]models.School),
		Programmes: make(map[string]models.Programme),
		Roommates:  make(map[string]models.RoommateProfile),
		Values:     make(map[string]string),
	}
}

// Init creates the document, or loads it when it already exists.
func (s *JSONStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(s.path); err == nil {
		return s.load()
	}

	doc := newDocument()
	if err := s.write(doc); err != nil {
		return err
	}
	s.doc = doc
	return nil
}

func (s *JSONStore) Load(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// load must be called with the write lock held.
func (s *JSONStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'campusmate init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	doc := newDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if doc.Schools == nil {
		doc.Schools = make(map[string]models.School)
	}
	if doc.Programmes == nil {
		doc.Programmes = make(map[string]models.Programme)
	}
	if doc.Roommates == nil {
		doc.Roommates = make(map[string]models.RoommateProfile)
	}
	if doc.Values == nil {
		doc.Values = make(map[string]string)
	}
	s.doc = doc
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}

// clone copies the document deeply enough that mutating the copy's maps
// leaves the original untouched.
func (d *document) clone() *document {
	c := *d
	c.Schools = maps.Clone(d.Schools)
	c.Programmes = maps.Clone(d.Programmes)
	c.Roommates = maps.Clone(d.Roommates)
	c.Values = maps.Clone(d.Values)
	return &c
}

// commit applies mutate to a copy of the document, persists it, and only
// then makes it current. A failed write leaves the in-memory state as it was.
// commit must be called with the write lock held.
func (s *JSONStore) commit(mutate func(doc *document)) error {
	next := s.doc.clone()
	mutate(next)
	if err := s.write(next); err != nil {
		return err
	}
	s.doc = next
	return nil
}

func (s *JSONStore) write(doc *document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

func (s *JSONStore) loaded() error {
	if s.doc == nil {
		return fmt.Errorf("storage not loaded")
	}
	return nil
}

func (s *JSONStore) GetSettings(_ context.Context) (models.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.loaded(); err != nil {
		return models.Settings{}, err
	}
	settings := s.doc.Settings
	models.ApplyDefaultSettings(&settings)
	return settings, nil
}

func (s *JSONStore) SaveSettings(_ context.Context, settings models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loaded(); err != nil {
		return err
	}
	return s.commit(func(doc *document) { doc.Settings = settings })
}

func (s *JSONStore) AddSchool(_ context.Context, school models.School) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loaded(); err != nil {
		return err
	}
	return s.commit(func(doc *document) { doc.Schools[school.ID] = school })
}

func (s *JSONStore) GetSchool(_ context.Context, id string) (models.School, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.loaded(); err != nil {
		return models.School{}, err
	}
	school, ok := s.doc.Schools[id]
	if !ok {
		return models.School{}, fmt.Errorf("school %s: %w", id, ErrNotFound)
	}
	return school, nil
}

func (s *JSONStore) GetSchools(_ context.Context) ([]models.School, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.loaded(); err != nil {
		return nil, err
	}
	schools := make([]models.School, 0, len(s.doc.Schools))
	for _, school := range s.doc.Schools {
		schools = append(schools, school)
	}
	sort.Slice(schools, func(i, j int) bool {
		if schools[i].Name != schools[j].Name {
			return schools[i].Name < schools[j].Name
		}
		return schools[i].ID < schools[j].ID
	})
	return schools, nil
}

func (s *JSONStore) AddProgramme(_ context.Context, programme models.Programme) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loaded(); err != nil {
		return err
	}
	if _, ok := s.doc.Schools[programme.SchoolID]; !ok {
		return fmt.Errorf("school %s: %w", programme.SchoolID, ErrNotFound)
	}
	return s.commit(func(doc *document) { doc.Programmes[programme.ID] = programme })
}

func (s *JSONStore) GetProgrammesBySchool(_ context.Context, schoolID string) ([]models.Programme, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.loaded(); err != nil {
		return nil, err
	}
	var programmes []models.Programme
	for _, p := range s.doc.Programmes {
		if p.SchoolID == schoolID {
			programmes = append(programmes, p)
		}
	}
	sort.Slice(programmes, func(i, j int) bool {
		if programmes[i].Name != programmes[j].Name {
			return programmes[i].Name < programmes[j].Name
		}
		return programmes[i].ID < programmes[j].ID
	})
	return programmes, nil
}

func (s *JSONStore) UpsertRoommateProfile(_ context.Context, profile models.RoommateProfile) (models.RoommateProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loaded(); err != nil {
		return models.RoommateProfile{}, err
	}

	if profile.ID == "" {
		for _, existing := range s.doc.Roommates {
			if existing.UserID == profile.UserID {
				profile.ID = existing.ID
				break
			}
		}
	}

	if existing, ok := s.doc.Roommates[profile.ID]; ok {
		if existing.UserID != profile.UserID {
			return models.RoommateProfile{}, ErrNotOwner
		}
		profile.CreatedAt = existing.CreatedAt
	} else {
		for _, other := range s.doc.Roommates {
			if other.UserID == profile.UserID {
				return models.RoommateProfile{}, fmt.Errorf("%w: user %s owns %s", ErrProfileExists, profile.UserID, other.ID)
			}
		}
		if profile.ID == "" {
			profile.ID = uuid.New().String()
		}
		if profile.CreatedAt.IsZero() {
			profile.CreatedAt = time.Now().UTC()
		}
	}

	if err := s.commit(func(doc *document) { doc.Roommates[profile.ID] = profile }); err != nil {
		return models.RoommateProfile{}, err
	}
	return profile, nil
}

func (s *JSONStore) GetRoommateProfileByUser(_ context.Context, userID string) (models.RoommateProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.loaded(); err != nil {
		return models.RoommateProfile{}, err
	}
	for _, p := range s.doc.Roommates {
		if p.UserID == userID {
			return p, nil
		}
	}
	return models.RoommateProfile{}, fmt.Errorf("roommate profile for %s: %w", userID, ErrNotFound)
}

func (s *JSONStore) GetVisibleRoommateProfiles(_ context.Context, viewer models.Viewer) ([]models.RoommateProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.loaded(); err != nil {
		return nil, err
	}

	profiles := []models.RoommateProfile{}
	if viewer.Gender == "" {
		return profiles, nil
	}
	for _, p := range s.doc.Roommates {
		if p.Active && p.Gender == viewer.Gender && p.UserID != viewer.UserID {
			profiles = append(profiles, p)
		}
	}
	sort.Slice(profiles, func(i, j int) bool {
		if !profiles[i].CreatedAt.Equal(profiles[j].CreatedAt) {
			return profiles[i].CreatedAt.After(profiles[j].CreatedAt)
		}
		return profiles[i].ID < profiles[j].ID
	})
	return profiles, nil
}

func (s *JSONStore) GetValue(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.loaded(); err != nil {
		return "", false, err
	}
	v, ok := s.doc.Values[key]
	return v, ok, nil
}

func (s *JSONStore) SetValue(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loaded(); err != nil {
		return err
	}
	return s.commit(func(doc *document) { doc.Values[key] = value })
}

func (s *JSONStore) DeleteValue(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loaded(); err != nil {
		return err
	}
	if _, ok := s.doc.Values[key]; !ok {
		return nil
	}
	return s.commit(func(doc *document) { delete(doc.Values, key) })
}
