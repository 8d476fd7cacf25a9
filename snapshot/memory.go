package snapshot

import (
	"context"
	"sync"

	"github.com/SHAH-MEER/tbatlas/core"
)

// MemoryStore keeps snapshots in process memory. It survives reloads within
// one process lifetime only and is the default for tests and dev setups.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]*core.Dataset
}

// NewMemoryStore creates an empty in-memory snapshot store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string]*core.Dataset)}
}

func (m *MemoryStore) Save(ctx context.Context, key string, ds *core.Dataset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[key] = ds
	return nil
}

func (m *MemoryStore) Load(ctx context.Context, key string) (*core.Dataset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ds, ok := m.snapshots[key]
	if !ok {
		return nil, ErrNotFound
	}
	return ds, nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snapshots, key)
	return nil
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots = make(map[string]*core.Dataset)
	return nil
}
