package store

import (
	"context"
	"sync"
)

// MemoryRepository keeps round history for the life of the process.
type MemoryRepository struct {
	mu     sync.RWMutex
	rounds []Round
	nextID uint
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (m *MemoryRepository) SaveRound(_ context.Context, r *Round) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	r.ID = m.nextID
	m.rounds = append(m.rounds, *r)
	return nil
}

func (m *MemoryRepository) RecentRounds(_ context.Context, limit int) ([]Round, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if limit <= 0 {
		return []Round{}, nil
	}
	out := make([]Round, 0, min(limit, len(m.rounds)))
	for i := len(m.rounds) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.rounds[i])
	}
	return out, nil
}

func (m *MemoryRepository) Close() error { return nil }
