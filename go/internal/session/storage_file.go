package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// FileStorage persists the session as a small YAML document
type FileStorage struct {
	mu   sync.Mutex
	path string
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

func (f *FileStorage) GetAll(_ context.Context, keys []string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored, err := f.read()
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := stored[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (f *FileStorage) SetAll(_ context.Context, values map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored, err := f.read()
	if err != nil {
		return err
	}
	for k, v := range values {
		stored[k] = v
	}
	return f.write(stored)
}

func (f *FileStorage) Delete(_ context.Context, keys []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored, err := f.read()
	if err != nil && !errors.Is(err, ErrCorrupt) {
		return err
	}
	for _, k := range keys {
		delete(stored, k)
	}
	if len(stored) == 0 {
		if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove session file: %w", err)
		}
		return nil
	}
	return f.write(stored)
}

func (f *FileStorage) read() (map[string]string, error) {
	stored := make(map[string]string)
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return stored, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}
	if err := yaml.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return stored, nil
}

// write replaces the file via rename so readers never see a partial document
func (f *FileStorage) write(stored map[string]string) error {
	data, err := yaml.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".session-*")
	if err != nil {
		return fmt.Errorf("failed to create session file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}
