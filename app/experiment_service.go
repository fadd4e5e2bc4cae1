package app

import (
	"context"
	"fmt"

	"gobayes/domain/core"
	"gobayes/domain/suffstats"
	"gobayes/internal"
	"gobayes/ports"
)

// Experiment kinds as reported in summaries
const (
	TypeABN = "abn"
	TypeBF  = "bayes_factor"
)

// ServiceConfig holds the sampling and integration settings applied to
// every experiment the service creates
type ServiceConfig struct {
	NumSamples    int
	Workers       int
	QuadRelTol    float64
	QuadMaxPanels int
}

// ExperimentService creates experiments and serialises updates and
// decisions on each of them through the repository lock
type ExperimentService struct {
	repo   ports.ExperimentRepository
	rng    ports.RNGPort
	config ServiceConfig
	logger *internal.Logger
}

// VariantSpec names one arm and its model
type VariantSpec struct {
	Name  string    `json:"name"`
	Model ModelSpec `json:"model"`
}

// CreateABNRequest defines a multi-variant experiment
type CreateABNRequest struct {
	Rule     RuleSpec      `json:"rule"`
	Variants []VariantSpec `json:"variants"`
}

// CreateBFRequest defines a Bayes-factor experiment
type CreateBFRequest struct {
	Rule  RuleSpec       `json:"rule"`
	Model EffectSizeSpec `json:"model"`
}

// UpdateRequest carries one batch. Variants is used by A/B/N experiments,
// Statistics by Bayes-factor experiments.
type UpdateRequest struct {
	Variants   map[string]StatisticsSpec `json:"variants,omitempty"`
	Statistics *StatisticsSpec           `json:"statistics,omitempty"`
}

// ExperimentSummary describes a stored experiment
type ExperimentSummary struct {
	ID       core.ExperimentID `json:"id"`
	Type     string            `json:"type"`
	Rule     RuleSpec          `json:"rule"`
	Version  uint64            `json:"version"`
	Variants []string          `json:"variants,omitempty"`
	Winner   string            `json:"winner,omitempty"`
	Decided  bool              `json:"decided"`
}

// NewExperimentService creates an experiment service
func NewExperimentService(repo ports.ExperimentRepository, rng ports.RNGPort, config ServiceConfig, logger *internal.Logger) *ExperimentService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ExperimentService{
		repo:   repo,
		rng:    rng,
		config: config,
		logger: logger.Named("ExperimentService"),
	}
}

func (s *ExperimentService) options() ExperimentOptions {
	return ExperimentOptions{
		ID:         core.NewExperimentID(),
		NumSamples: s.config.NumSamples,
		Workers:    s.config.Workers,
		RNG:        s.rng,
		Logger:     s.logger,
	}
}

// CreateABN builds and stores a multi-variant experiment
func (s *ExperimentService) CreateABN(ctx context.Context, req CreateABNRequest) (ExperimentSummary, error) {
	rule, err := req.Rule.Build()
	if err != nil {
		return ExperimentSummary{}, err
	}
	variants := make([]Variant, len(req.Variants))
	for i, v := range req.Variants {
		m, err := v.Model.Build()
		if err != nil {
			return ExperimentSummary{}, fmt.Errorf("variant %q: %w", v.Name, err)
		}
		variants[i] = Variant{Name: v.Name, Model: m}
	}

	exp, err := NewExperimentABN(rule, len(variants), variants, s.options())
	if err != nil {
		return ExperimentSummary{}, err
	}
	if err := s.repo.Save(ctx, exp); err != nil {
		return ExperimentSummary{}, fmt.Errorf("failed to store experiment: %w", err)
	}
	s.logger.Info("created %s experiment %s with %d variants", rule, exp.ID(), len(variants))
	return summarize(exp), nil
}

// CreateBF builds and stores a Bayes-factor experiment
func (s *ExperimentService) CreateBF(ctx context.Context, req CreateBFRequest) (ExperimentSummary, error) {
	rule, err := req.Rule.Build()
	if err != nil {
		return ExperimentSummary{}, err
	}
	model, err := req.Model.Build(s.config.QuadRelTol, s.config.QuadMaxPanels)
	if err != nil {
		return ExperimentSummary{}, err
	}

	exp, err := NewExperimentBF(model, rule, s.options())
	if err != nil {
		return ExperimentSummary{}, err
	}
	if err := s.repo.Save(ctx, exp); err != nil {
		return ExperimentSummary{}, fmt.Errorf("failed to store experiment: %w", err)
	}
	s.logger.Info("created %s experiment %s with %s", rule, exp.ID(), model.Kind())
	return summarize(exp), nil
}

// Get summarises a stored experiment
func (s *ExperimentService) Get(ctx context.Context, id core.ExperimentID) (ExperimentSummary, error) {
	var out ExperimentSummary
	err := s.repo.WithLock(ctx, id, func(exp ports.Experiment) error {
		out = summarize(exp)
		return nil
	})
	return out, err
}

// List summarises every stored experiment
func (s *ExperimentService) List(ctx context.Context) ([]ExperimentSummary, error) {
	ids, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ExperimentSummary, 0, len(ids))
	for _, id := range ids {
		sum, err := s.Get(ctx, id)
		if core.IsNotFoundError(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	return out, nil
}

// Delete removes an experiment
func (s *ExperimentService) Delete(ctx context.Context, id core.ExperimentID) error {
	return s.repo.Delete(ctx, id)
}

// Update applies one batch and returns the experiment's new version
func (s *ExperimentService) Update(ctx context.Context, id core.ExperimentID, req UpdateRequest) (uint64, error) {
	var version uint64
	err := s.repo.WithLock(ctx, id, func(stored ports.Experiment) error {
		switch exp := stored.(type) {
		case *ExperimentABN:
			if req.Statistics != nil {
				return core.NewConfigurationError("A/B/N experiments take per-variant statistics")
			}
			batch := make(map[string]suffstats.Statistics, len(req.Variants))
			for name, spec := range req.Variants {
				st, err := spec.Build()
				if err != nil {
					return fmt.Errorf("variant %q: %w", name, err)
				}
				batch[name] = st
			}
			if err := exp.Update(batch); err != nil {
				return err
			}
		case *ExperimentBF:
			if req.Statistics == nil || len(req.Variants) > 0 {
				return core.NewConfigurationError("Bayes-factor experiments take a single statistics batch")
			}
			st, err := req.Statistics.Build()
			if err != nil {
				return err
			}
			if err := exp.Update(st); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unsupported experiment type %T", stored)
		}
		version = stored.Version()
		return nil
	})
	return version, err
}

// Metrics evaluates the metric the experiment's rule consumes
func (s *ExperimentService) Metrics(ctx context.Context, id core.ExperimentID) (Metrics, error) {
	var out Metrics
	err := s.repo.WithLock(ctx, id, func(stored ports.Experiment) error {
		var err error
		switch exp := stored.(type) {
		case *ExperimentABN:
			out, err = exp.Metrics(ctx)
		case *ExperimentBF:
			out, err = exp.Metrics()
		default:
			err = fmt.Errorf("unsupported experiment type %T", stored)
		}
		return err
	})
	return out, err
}

// Decide applies the experiment's stopping rule
func (s *ExperimentService) Decide(ctx context.Context, id core.ExperimentID) (Decision, error) {
	var out Decision
	err := s.repo.WithLock(ctx, id, func(stored ports.Experiment) error {
		var err error
		switch exp := stored.(type) {
		case *ExperimentABN:
			out, err = exp.Decide(ctx)
		case *ExperimentBF:
			out, err = exp.Decide()
		default:
			err = fmt.Errorf("unsupported experiment type %T", stored)
		}
		return err
	})
	if err == nil && out.Decided {
		s.logger.Info("experiment %s decided: %s", id, out.Winner)
	}
	return out, err
}

func summarize(stored ports.Experiment) ExperimentSummary {
	sum := ExperimentSummary{ID: stored.ID(), Version: stored.Version()}
	switch exp := stored.(type) {
	case *ExperimentABN:
		sum.Type = TypeABN
		sum.Rule = RuleSpec{Kind: exp.Rule().Kind.String(), Threshold: exp.Rule().Threshold}
		sum.Variants = exp.VariantNames()
		sum.Winner, sum.Decided = exp.Winner()
	case *ExperimentBF:
		sum.Type = TypeBF
		sum.Rule = RuleSpec{Kind: exp.Rule().Kind.String(), Threshold: exp.Rule().Threshold}
		sum.Winner, sum.Decided = exp.Winner()
	}
	return sum
}
