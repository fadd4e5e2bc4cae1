package app

import (
	"gobayes/adapters/rng"
	"gobayes/domain/core"
	"gobayes/domain/decision"
	"gobayes/internal"
	"gobayes/ports"
)

// ExperimentOptions carries the collaborators shared by both experiment kinds
type ExperimentOptions struct {
	ID         core.ExperimentID
	NumSamples int
	Workers    int
	RNG        ports.RNGPort
	Logger     *internal.Logger
}

// DefaultExperimentOptions samples 20000 draws per metric with a seed-42 RNG
func DefaultExperimentOptions() ExperimentOptions {
	return ExperimentOptions{
		NumSamples: 20000,
		Workers:    4,
		RNG:        rng.NewPCGAdapter(42),
		Logger:     internal.DefaultLogger,
	}
}

func (o ExperimentOptions) withDefaults() ExperimentOptions {
	d := DefaultExperimentOptions()
	if o.ID.String() == "" {
		o.ID = core.NewExperimentID()
	}
	if o.NumSamples <= 0 {
		o.NumSamples = d.NumSamples
	}
	if o.Workers <= 0 {
		o.Workers = d.Workers
	}
	if o.RNG == nil {
		o.RNG = d.RNG
	}
	if o.Logger == nil {
		o.Logger = d.Logger
	}
	return o
}

// Metrics are the numbers a decision was based on, keyed by variant name
// (or by "bf10" for Bayes-factor experiments)
type Metrics struct {
	Rule   decision.RuleKind
	Values map[string]float64
}

// Decision is the outcome of one Decide call. Winner is empty unless
// Decided is true.
type Decision struct {
	Winner  string
	Decided bool
	Metrics Metrics
}

// MetricBayesFactor keys the Bayes factor in Metrics.Values
const MetricBayesFactor = "bf10"

const decidePurpose = "decide"
