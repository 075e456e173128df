package session

import (
	"context"
	"sync"
)

// Fixed storage keys of the persisted session
const (
	KeyToken  = "token"
	KeyTeamID = "teamId"
	KeyUserID = "userId"
)

// Keys lists every persisted key
var Keys = []string{KeyToken, KeyTeamID, KeyUserID}

// Storage is durable key/value storage for the session triple.
// SetAll must write every value or none.
type Storage interface {
	GetAll(ctx context.Context, keys []string) (map[string]string, error)
	SetAll(ctx context.Context, values map[string]string) error
	Delete(ctx context.Context, keys []string) error
}

// MemoryStorage keeps the session in process memory only
type MemoryStorage struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (m *MemoryStorage) GetAll(_ context.Context, keys []string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := m.values[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (m *MemoryStorage) SetAll(_ context.Context, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range values {
		m.values[k] = v
	}
	return nil
}

func (m *MemoryStorage) Delete(_ context.Context, keys []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}
