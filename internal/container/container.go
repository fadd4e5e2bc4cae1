package container

import (
	"context"

	"gobayes/adapters/memstore"
	"gobayes/adapters/rng"
	"gobayes/app"
	"gobayes/internal"
	"gobayes/internal/config"
	apperrors "gobayes/internal/errors"
	"gobayes/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	RNG ports.RNGPort

	// Repositories (data access layer)
	ExperimentRepo ports.ExperimentRepository

	// Services
	Experiments *app.ExperimentService
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, apperrors.ConfigInvalid("config cannot be nil")
	}

	c := &Container{
		Config: cfg,
		Logger: internal.NewLogger(cfg.Log.Level),
	}
	c.initInfrastructure()
	c.initServices()

	c.Logger.Named("container").Info("initialized (seed %d, %d samples, %d workers)",
		cfg.Sampling.Seed, cfg.Sampling.NumSamples, cfg.Sampling.Workers)
	return c, nil
}

// initInfrastructure creates the RNG and the experiment store
func (c *Container) initInfrastructure() {
	c.RNG = rng.NewPCGAdapter(c.Config.Sampling.Seed)
	c.ExperimentRepo = memstore.NewExperimentRepository()
}

func (c *Container) initServices() {
	c.Experiments = app.NewExperimentService(c.ExperimentRepo, c.RNG, app.ServiceConfig{
		NumSamples:    c.Config.Sampling.NumSamples,
		Workers:       c.Config.Sampling.Workers,
		QuadRelTol:    c.Config.Quadrature.RelTol,
		QuadMaxPanels: c.Config.Quadrature.MaxPanels,
	}, c.Logger)
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	ids, err := c.ExperimentRepo.List(ctx)
	if err != nil {
		return apperrors.Wrapf(err, "shutdown with seed %d", c.Config.Sampling.Seed)
	}
	c.Logger.Named("container").Info("shutting down with %d live experiments", len(ids))
	return nil
}
