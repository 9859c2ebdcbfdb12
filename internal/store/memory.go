package store

import (
	"sync"

	"StockWatch/internal/model"
)

// MemoryStore keeps snapshots in process memory. Used for tests and dry runs.
type MemoryStore struct {
	mu    sync.Mutex
	order []string
	snaps map[string]model.Snapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snaps: make(map[string]model.Snapshot)}
}

func (m *MemoryStore) Exists(symbol string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.snaps[key(symbol)]
	return ok, nil
}

func (m *MemoryStore) Put(snap *model.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key(snap.Symbol)
	if _, ok := m.snaps[k]; !ok {
		m.order = append(m.order, k)
	}
	s := *snap
	s.Symbol = k
	s.Missing = append([]string(nil), snap.Missing...)
	m.snaps[k] = s
	return nil
}

func (m *MemoryStore) Get(symbol string) (*model.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.snaps[key(symbol)]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *MemoryStore) List() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.order...), nil
}

func (m *MemoryStore) Delete(symbol string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key(symbol)
	if _, ok := m.snaps[k]; !ok {
		return ErrNotFound
	}
	delete(m.snaps, k)
	for i, s := range m.order {
		if s == k {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemoryStore) Close() error { return nil }
