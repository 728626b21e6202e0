package record

import (
	"context"
	"sync"
)

// MemoryStore keeps the session record in-process. Used by tests and by
// ephemeral runs that do not want a durable session.
type MemoryStore struct {
	mu      sync.RWMutex
	rec     SessionRecord
	present bool
}

// NewMemoryStore initializes an empty in-memory record store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Save(_ context.Context, rec SessionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = rec
	m.present = true
	return nil
}

func (m *MemoryStore) Load(_ context.Context) (SessionRecord, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rec, m.present, nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = SessionRecord{}
	m.present = false
	return nil
}
