package state

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
)

// MemoryBackend keeps values in process memory.
type MemoryBackend struct {
	mu     sync.Mutex
	values map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: make(map[string][]byte)}
}

func (m *MemoryBackend) Read(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemoryBackend) Write(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), data...)
	return nil
}

func (m *MemoryBackend) Clear(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

var safeKey = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// FileBackend stores each key as <dir>/<key>.json. Writes go through a temp
// file and rename so a crash never leaves a half-written value.
type FileBackend struct {
	dir string
}

func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{dir: dir}
}

func (f *FileBackend) path(key string) (string, error) {
	if !safeKey.MatchString(key) {
		return "", fmt.Errorf("invalid state key %q", key)
	}
	return filepath.Join(f.dir, key+".json"), nil
}

func (f *FileBackend) Read(_ context.Context, key string) ([]byte, bool, error) {
	p, err := f.path(key)
	if err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

func (f *FileBackend) Write(_ context.Context, key string, data []byte) error {
	p, err := f.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(f.dir, 0700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(f.dir, key+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), p)
}

func (f *FileBackend) Clear(_ context.Context, key string) error {
	p, err := f.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// KV is the key/value slice of the storage provider.
type KV interface {
	GetValue(ctx context.Context, key string) (string, bool, error)
	SetValue(ctx context.Context, key, value string) error
	DeleteValue(ctx context.Context, key string) error
}

// ProviderBackend keeps state in the storage provider's key/value table, so it
// follows the configured database (SQLite locally, PostgreSQL when shared).
type ProviderBackend struct {
	kv KV
}

func NewProviderBackend(kv KV) *ProviderBackend {
	return &ProviderBackend{kv: kv}
}

func (p *ProviderBackend) Read(ctx context.Context, key string) ([]byte, bool, error) {
	v, found, err := p.kv.GetValue(ctx, key)
	if err != nil || !found {
		return nil, found, err
	}
	return []byte(v), true, nil
}

func (p *ProviderBackend) Write(ctx context.Context, key string, data []byte) error {
	return p.kv.SetValue(ctx, key, string(data))
}

func (p *ProviderBackend) Clear(ctx context.Context, key string) error {
	return p.kv.DeleteValue(ctx, key)
}
