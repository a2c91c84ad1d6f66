package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"expired-listings/models"
)

// MemoryStore keeps the most recent runs in process memory, evicting the
// oldest once capacity is reached.
type MemoryStore struct {
	mu       sync.RWMutex
	capacity int
	order    []uuid.UUID
	runs     map[uuid.UUID]*models.Run
}

// NewMemoryStore creates a MemoryStore holding at most capacity runs.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity < 1 {
		capacity = 1
	}
	return &MemoryStore{capacity: capacity, runs: make(map[uuid.UUID]*models.Run)}
}

func (m *MemoryStore) SaveRun(_ context.Context, run *models.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.runs[run.ID]; !exists {
		m.order = append(m.order, run.ID)
	}
	m.runs[run.ID] = run

	for len(m.order) > m.capacity {
		oldest := m.order[0]
		m.order = m.order[1:]
		delete(m.runs, oldest)
	}
	return nil
}

func (m *MemoryStore) GetRun(_ context.Context, id uuid.UUID) (*models.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	run, ok := m.runs[id]
	if !ok {
		return nil, ErrRunNotFound
	}
	return run, nil
}

// ListRuns returns up to limit runs, newest first.
func (m *MemoryStore) ListRuns(_ context.Context, limit int) ([]*models.RunSummary, error) {
	limit = normalizeLimit(limit)

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*models.RunSummary, 0, min(limit, len(m.order)))
	for i := len(m.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, summarize(m.runs[m.order[i]]))
	}
	return out, nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) Close() error { return nil }
