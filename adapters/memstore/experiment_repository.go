// Package memstore keeps experiments in process memory
package memstore

import (
	"context"
	"sync"

	"gobayes/domain/core"
	"gobayes/ports"
)

type entry struct {
	mu  sync.Mutex
	exp ports.Experiment
}

// ExperimentRepository is an in-memory ports.ExperimentRepository. The map
// is guarded by one RWMutex; each experiment has its own mutex for WithLock.
type ExperimentRepository struct {
	mu      sync.RWMutex
	entries map[core.ExperimentID]*entry
	order   []core.ExperimentID
}

// NewExperimentRepository creates an empty repository
func NewExperimentRepository() *ExperimentRepository {
	return &ExperimentRepository{entries: make(map[core.ExperimentID]*entry)}
}

var _ ports.ExperimentRepository = (*ExperimentRepository)(nil)

func (r *ExperimentRepository) Save(ctx context.Context, exp ports.Experiment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if exp == nil || exp.ID().String() == "" {
		return core.NewPreconditionError("experiment", "an experiment with an ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[exp.ID()]; ok {
		e.mu.Lock()
		e.exp = exp
		e.mu.Unlock()
		return nil
	}
	r.entries[exp.ID()] = &entry{exp: exp}
	r.order = append(r.order, exp.ID())
	return nil
}

func (r *ExperimentRepository) lookup(id core.ExperimentID) (*entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, core.NewExperimentNotFoundError(id.String())
	}
	return e, nil
}

func (r *ExperimentRepository) Get(ctx context.Context, id core.ExperimentID) (ports.Experiment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.exp, nil
}

func (r *ExperimentRepository) List(ctx context.Context) ([]core.ExperimentID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.ExperimentID, len(r.order))
	copy(out, r.order)
	return out, nil
}

func (r *ExperimentRepository) Delete(ctx context.Context, id core.ExperimentID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; !ok {
		return core.NewExperimentNotFoundError(id.String())
	}
	delete(r.entries, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *ExperimentRepository) WithLock(ctx context.Context, id core.ExperimentID, fn func(ports.Experiment) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e, err := r.lookup(id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.exp)
}
