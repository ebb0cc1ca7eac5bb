package ports

import (
	"context"

	"github.com/aretw0/delta/pkg/domain"
)

// RunStore persists evaluation records so a trace can be inspected after the
// fact (e.g. `delta runs show <id>` or GET /runs/{id}).
// Automata themselves are never stored, only the runs made against them.
type RunStore interface {
	// Save persists the run under run.ID, replacing any previous record.
	Save(ctx context.Context, run *domain.Run) error

	// Load retrieves a run.
	// Returns domain.ErrRunNotFound if the run does not exist.
	Load(ctx context.Context, runID string) (*domain.Run, error)

	// Delete removes a run. Deleting a missing run is not an error.
	Delete(ctx context.Context, runID string) error

	// List returns the IDs of stored runs, oldest CreatedAt first.
	// Runs created at the same instant are ordered by ID.
	List(ctx context.Context) ([]string, error)
}
