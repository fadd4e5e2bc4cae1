package ports

import (
	"context"

	"gobayes/domain/core"
)

// Experiment is anything the repository can hold. Both experiment kinds in
// the app package satisfy it.
type Experiment interface {
	ID() core.ExperimentID
	Version() uint64
}

// ExperimentRepository stores live experiments by ID
type ExperimentRepository interface {
	// Save inserts or replaces an experiment
	Save(ctx context.Context, exp Experiment) error

	// Get returns the stored experiment or a not-found error
	Get(ctx context.Context, id core.ExperimentID) (Experiment, error)

	// List returns every stored experiment ID in insertion order
	List(ctx context.Context) ([]core.ExperimentID, error)

	// Delete removes an experiment; deleting a missing ID is a not-found error
	Delete(ctx context.Context, id core.ExperimentID) error

	// WithLock runs fn while holding the experiment's exclusive lock, so
	// update and decide never interleave on one experiment
	WithLock(ctx context.Context, id core.ExperimentID, fn func(Experiment) error) error
}
