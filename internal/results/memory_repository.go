package results

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing and cache-only runs without a database.
type InMemoryRepository struct {
	mu   sync.RWMutex
	runs map[uuid.UUID][]Row
}

// NewInMemoryRepository creates a new in-memory results repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		runs: make(map[uuid.UUID][]Row),
	}
}

// SaveRows persists the rows of a run.
func (r *InMemoryRepository) SaveRows(_ context.Context, rows []Row) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range rows {
		r.runs[row.RunID] = append(r.runs[row.RunID], row)
	}
	return nil
}

// ListByRun retrieves every row of a run in insertion order.
func (r *InMemoryRepository) ListByRun(_ context.Context, runID uuid.UUID) ([]Row, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows, ok := r.runs[runID]
	if !ok || len(rows) == 0 {
		return nil, ErrRunNotFound
	}

	out := make([]Row, len(rows))
	copy(out, rows)
	return out, nil
}
