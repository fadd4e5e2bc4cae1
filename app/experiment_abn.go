package app

import (
	"context"
	"fmt"
	"sort"

	"gobayes/domain/conjugate"
	"gobayes/domain/core"
	"gobayes/domain/decision"
	"gobayes/domain/suffstats"
	"gobayes/internal"
)

// Variant is a named arm of an A/B/N experiment
type Variant struct {
	Name  string
	Model conjugate.Model
}

// ExperimentABN compares N conjugate models under one stopping rule. It is
// not safe for concurrent use; callers serialise access per experiment.
type ExperimentABN struct {
	opts     ExperimentOptions
	log      *internal.Logger
	rule     decision.StoppingRule
	variants []decision.Candidate
	index    map[string]int
	version  uint64
	winner   string
	decided  bool
}

// NewExperimentAB is NewExperimentABN with exactly two variants
func NewExperimentAB(rule decision.StoppingRule, a, b Variant, opts ExperimentOptions) (*ExperimentABN, error) {
	return NewExperimentABN(rule, 2, []Variant{a, b}, opts)
}

// NewExperimentABN validates that exactly numVariants (at least two)
// uniquely named variants were supplied and that the rule is a
// multi-variant rule. Variant order is kept for tie-breaking.
func NewExperimentABN(rule decision.StoppingRule, numVariants int, variants []Variant, opts ExperimentOptions) (*ExperimentABN, error) {
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	if rule.IsBayesFactor() {
		return nil, core.NewConfigurationError(fmt.Sprintf("%s applies to Bayes-factor experiments", rule.Kind))
	}
	if numVariants < 2 {
		return nil, core.NewConfigurationError(fmt.Sprintf("an experiment needs at least two variants, declared %d", numVariants))
	}
	if len(variants) != numVariants {
		return nil, core.NewConfigurationError(fmt.Sprintf("declared %d variants but got %d", numVariants, len(variants)))
	}

	e := &ExperimentABN{
		opts:     opts.withDefaults(),
		rule:     rule,
		variants: make([]decision.Candidate, 0, len(variants)),
		index:    make(map[string]int, len(variants)),
	}
	e.log = e.opts.Logger.Named("ExperimentABN")
	for _, v := range variants {
		name, err := core.ParseVariantName(v.Name)
		if err != nil {
			return nil, err
		}
		if _, dup := e.index[string(name)]; dup {
			return nil, core.NewConfigurationError(fmt.Sprintf("duplicate variant name %q", v.Name))
		}
		if v.Model == nil {
			return nil, core.NewConfigurationError(fmt.Sprintf("variant %q has no model", v.Name))
		}
		e.index[v.Name] = len(e.variants)
		e.variants = append(e.variants, decision.Candidate{Name: v.Name, Model: v.Model})
	}
	return e, nil
}

func (e *ExperimentABN) ID() core.ExperimentID { return e.opts.ID }

func (e *ExperimentABN) Rule() decision.StoppingRule { return e.rule }

// Version counts successful updates
func (e *ExperimentABN) Version() uint64 { return e.version }

// VariantNames returns the names in declaration order
func (e *ExperimentABN) VariantNames() []string {
	names := make([]string, len(e.variants))
	for i, v := range e.variants {
		names[i] = v.Name
	}
	return names
}

// Model returns the named variant's model for inspection
func (e *ExperimentABN) Model(name string) (conjugate.Model, bool) {
	i, ok := e.index[name]
	if !ok {
		return nil, false
	}
	return e.variants[i].Model, true
}

// Winner returns the committed winner of the last Decide call
func (e *ExperimentABN) Winner() (string, bool) {
	return e.winner, e.decided
}

// Update folds one batch of statistics per named variant into the models.
// Variants missing from the batch are left untouched. If any variant fails
// to update, no variant changes.
func (e *ExperimentABN) Update(batch map[string]suffstats.Statistics) error {
	if len(batch) == 0 {
		return nil
	}

	names := make([]string, 0, len(batch))
	for name := range batch {
		if _, ok := e.index[name]; !ok {
			return core.NewConfigurationError(fmt.Sprintf("unknown variant %q", name))
		}
		names = append(names, name)
	}
	sort.Strings(names)

	staged := make(map[int]conjugate.Model, len(batch))
	for _, name := range names {
		i := e.index[name]
		next := e.variants[i].Model.Clone()
		if err := next.Update(batch[name]); err != nil {
			return fmt.Errorf("update variant %s: %w", name, err)
		}
		staged[i] = next
	}

	for i, m := range staged {
		e.variants[i].Model = m
	}
	e.version++
	e.log.Trace("%s updated %d variants (version %d)", e.opts.ID, len(staged), e.version)
	return nil
}

func (e *ExperimentABN) sampler() decision.Sampler {
	return decision.Sampler{NumSamples: e.opts.NumSamples, Workers: e.opts.Workers}
}

// ExpectedLosses returns each variant's worst-rival expected uplift loss
func (e *ExperimentABN) ExpectedLosses(ctx context.Context) (map[string]float64, error) {
	src := e.opts.RNG.Stream(e.opts.ID.String(), decidePurpose, e.version)
	losses, err := e.sampler().ExpectedLosses(ctx, e.variants, src)
	if err != nil {
		return nil, err
	}
	return e.byName(losses), nil
}

// ProbabilitiesBeatAll returns each variant's probability of beating every
// rival in the same joint posterior draw
func (e *ExperimentABN) ProbabilitiesBeatAll(ctx context.Context) (map[string]float64, error) {
	src := e.opts.RNG.Stream(e.opts.ID.String(), decidePurpose, e.version)
	probs, err := e.sampler().ProbabilitiesBeatAll(ctx, e.variants, src)
	if err != nil {
		return nil, err
	}
	return e.byName(probs), nil
}

// Metrics computes the metric the stopping rule consumes. Without an
// intervening Update the values are identical between calls.
func (e *ExperimentABN) Metrics(ctx context.Context) (Metrics, error) {
	_, m, err := e.metricVector(ctx)
	return m, err
}

func (e *ExperimentABN) metricVector(ctx context.Context) ([]float64, Metrics, error) {
	src := e.opts.RNG.Stream(e.opts.ID.String(), decidePurpose, e.version)

	var (
		values []float64
		err    error
	)
	switch e.rule.Kind {
	case decision.RuleExpectedLoss:
		values, err = e.sampler().ExpectedLosses(ctx, e.variants, src)
	case decision.RuleProbabilityBeatAll:
		values, err = e.sampler().ProbabilitiesBeatAll(ctx, e.variants, src)
	default:
		err = core.NewConfigurationError(fmt.Sprintf("unsupported rule %s", e.rule.Kind))
	}
	if err != nil {
		return nil, Metrics{}, err
	}
	return values, Metrics{Rule: e.rule.Kind, Values: e.byName(values)}, nil
}

// Decide clears the winner, recomputes the rule's metric and commits a
// winner only if the rule's threshold is met
func (e *ExperimentABN) Decide(ctx context.Context) (Decision, error) {
	e.winner, e.decided = "", false

	values, metrics, err := e.metricVector(ctx)
	if err != nil {
		return Decision{}, err
	}

	var (
		best int
		ok   bool
	)
	if e.rule.Kind == decision.RuleExpectedLoss {
		best, ok = decision.SelectByExpectedLoss(values, e.rule.Threshold)
	} else {
		best, ok = decision.SelectByProbabilityBeatAll(values, e.rule.Threshold)
	}

	if ok {
		e.winner, e.decided = e.variants[best].Name, true
		e.log.Debug("%s decided %s under %s (metric %.6g)", e.opts.ID, e.winner, e.rule, values[best])
	} else {
		e.log.Trace("%s still running under %s (best %s at %.6g)", e.opts.ID, e.rule, e.variants[best].Name, values[best])
	}
	return Decision{Winner: e.winner, Decided: e.decided, Metrics: metrics}, nil
}

// Clone deep-copies the experiment, including its models and decision state.
// The copy shares the RNG port and logger.
func (e *ExperimentABN) Clone() *ExperimentABN {
	cp := *e
	cp.variants = make([]decision.Candidate, len(e.variants))
	for i, v := range e.variants {
		cp.variants[i] = decision.Candidate{Name: v.Name, Model: v.Model.Clone()}
	}
	cp.index = make(map[string]int, len(e.index))
	for k, v := range e.index {
		cp.index[k] = v
	}
	return &cp
}

func (e *ExperimentABN) byName(values []float64) map[string]float64 {
	out := make(map[string]float64, len(values))
	for i, v := range values {
		out[e.variants[i].Name] = v
	}
	return out
}
