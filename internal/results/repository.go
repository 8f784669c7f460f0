package results

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrRunNotFound is returned when a run has no persisted rows.
var ErrRunNotFound = errors.New("run not found")

// Repository defines the interface for scoring-result persistence.
type Repository interface {
	// SaveRows persists the rows of a run.
	SaveRows(ctx context.Context, rows []Row) error

	// ListByRun retrieves every row of a run in insertion order.
	// Returns ErrRunNotFound when the run has no rows.
	ListByRun(ctx context.Context, runID uuid.UUID) ([]Row, error)
}
