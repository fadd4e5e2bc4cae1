package app

import (
	"fmt"

	"gobayes/domain/core"
	"gobayes/domain/decision"
	"gobayes/domain/effectsize"
	"gobayes/domain/suffstats"
	"gobayes/internal"
)

// ExperimentBF tests a single effect against the null with a Bayes factor.
// Observations accumulate as NormalStats (one-sample) or TwoSample
// (difference of two groups); the first Update fixes which.
type ExperimentBF struct {
	opts    ExperimentOptions
	log     *internal.Logger
	model   effectsize.Model
	rule    decision.StoppingRule
	stats   suffstats.Statistics
	updates uint64
	winner  string
	decided bool
}

// NewExperimentBF requires a one- or two-sided Bayes-factor rule
func NewExperimentBF(model effectsize.Model, rule decision.StoppingRule, opts ExperimentOptions) (*ExperimentBF, error) {
	if model == nil {
		return nil, core.NewConfigurationError("effect-size model is required")
	}
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	if !rule.IsBayesFactor() {
		return nil, core.NewConfigurationError(fmt.Sprintf("%s applies to multi-variant experiments", rule.Kind))
	}
	e := &ExperimentBF{opts: opts.withDefaults(), model: model, rule: rule}
	e.log = e.opts.Logger.Named("ExperimentBF")
	return e, nil
}

func (e *ExperimentBF) ID() core.ExperimentID { return e.opts.ID }

func (e *ExperimentBF) Rule() decision.StoppingRule { return e.rule }

func (e *ExperimentBF) Model() effectsize.Model { return e.model }

// PriorProbNull is the prior probability of the null hypothesis
func (e *ExperimentBF) PriorProbNull() float64 { return e.model.PriorProbNull() }

// Version counts successful updates
func (e *ExperimentBF) Version() uint64 { return e.updates }

// Statistics returns the accumulated observations, or nil before any update
func (e *ExperimentBF) Statistics() suffstats.Statistics { return e.stats }

// Winner returns the hypothesis committed by the last Decide call
func (e *ExperimentBF) Winner() (string, bool) {
	return e.winner, e.decided
}

// Update merges a batch into the accumulated statistics
func (e *ExperimentBF) Update(batch suffstats.Statistics) error {
	var next suffstats.Statistics
	switch b := batch.(type) {
	case suffstats.NormalStats:
		if e.stats == nil {
			next = b
			break
		}
		old, ok := e.stats.(suffstats.NormalStats)
		if !ok {
			return core.NewPreconditionError("batch", fmt.Sprintf("experiment accumulates %s, got %s", e.stats.Family(), b.Family()))
		}
		merged, err := suffstats.Update(old, b)
		if err != nil {
			return err
		}
		next = merged
	case suffstats.TwoSample:
		if e.stats == nil {
			next = b
			break
		}
		old, ok := e.stats.(suffstats.TwoSample)
		if !ok {
			return core.NewPreconditionError("batch", fmt.Sprintf("experiment accumulates %s, got %s", e.stats.Family(), b.Family()))
		}
		merged, err := suffstats.UpdateTwoSample(old, b)
		if err != nil {
			return err
		}
		next = merged
	case nil:
		return core.NewPreconditionError("batch", "statistics are required")
	default:
		return core.NewPreconditionError("batch", fmt.Sprintf("Bayes-factor experiments take normal or two-sample statistics, got %s", b.Family()))
	}

	e.stats = next
	e.updates++
	e.log.Trace("%s merged batch (version %d)", e.opts.ID, e.updates)
	return nil
}

// BayesFactor returns BF10 for the accumulated statistics
func (e *ExperimentBF) BayesFactor() (float64, error) {
	if e.stats == nil {
		return 0, core.NewPreconditionError("statistics", "no observations yet")
	}
	return e.model.BayesFactor(e.stats)
}

func (e *ExperimentBF) Metrics() (Metrics, error) {
	bf, err := e.BayesFactor()
	if err != nil {
		return Metrics{}, err
	}
	return Metrics{Rule: e.rule.Kind, Values: map[string]float64{MetricBayesFactor: bf}}, nil
}

// Decide clears the committed hypothesis, recomputes BF10 and commits
// decision.Alternative or decision.Null if the rule allows it
func (e *ExperimentBF) Decide() (Decision, error) {
	e.winner, e.decided = "", false

	m, err := e.Metrics()
	if err != nil {
		return Decision{}, err
	}
	bf := m.Values[MetricBayesFactor]
	e.winner, e.decided = decision.EvaluateBayesFactor(e.rule, bf)
	if e.decided {
		e.log.Debug("%s decided %s under %s (bf10 %.6g)", e.opts.ID, e.winner, e.rule, bf)
	}
	return Decision{Winner: e.winner, Decided: e.decided, Metrics: m}, nil
}

// Clone copies the experiment. Statistics and models are values, so the
// copy is fully independent.
func (e *ExperimentBF) Clone() *ExperimentBF {
	cp := *e
	return &cp
}
