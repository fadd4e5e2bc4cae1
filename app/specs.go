package app

import (
	"fmt"
	"math"

	"gobayes/domain/conjugate"
	"gobayes/domain/core"
	"gobayes/domain/decision"
	"gobayes/domain/effectsize"
	"gobayes/domain/suffstats"
)

// RuleSpec is the wire form of a stopping rule
type RuleSpec struct {
	Kind      string  `json:"kind"`
	Threshold float64 `json:"threshold"`
}

func (s RuleSpec) Build() (decision.StoppingRule, error) {
	kind, err := decision.ParseRuleKind(s.Kind)
	if err != nil {
		return decision.StoppingRule{}, err
	}
	rule := decision.StoppingRule{Kind: kind, Threshold: s.Threshold}
	return rule, rule.Validate()
}

// ModelSpec is the wire form of a conjugate model. Priors left nil fall
// back to the family default.
type ModelSpec struct {
	Kind      string                 `json:"kind"`
	Beta      *conjugate.BetaParams  `json:"beta,omitempty"`
	Gamma     *conjugate.GammaParams `json:"gamma,omitempty"`
	NIG       *conjugate.NIGParams   `json:"nig,omitempty"`
	Stages    []ModelSpec            `json:"stages,omitempty"`
	Operators []string               `json:"operators,omitempty"`
}

func (s ModelSpec) Build() (conjugate.Model, error) {
	switch s.Kind {
	case conjugate.KindBernoulli.String():
		prior := conjugate.DefaultBeta()
		if s.Beta != nil {
			prior = *s.Beta
		}
		return conjugate.NewBernoulliModel(prior)
	case conjugate.KindExponential.String():
		prior := conjugate.DefaultGamma()
		if s.Gamma != nil {
			prior = *s.Gamma
		}
		return conjugate.NewExponentialModel(prior)
	case conjugate.KindNormal.String(), conjugate.KindLogNormal.String():
		prior := conjugate.DefaultNIG()
		if s.NIG != nil {
			prior = *s.NIG
		}
		if s.Kind == conjugate.KindNormal.String() {
			return conjugate.NewNormalModel(prior)
		}
		return conjugate.NewLogNormalModel(prior)
	case conjugate.KindChained.String():
		stages := make([]conjugate.Model, len(s.Stages))
		for i, st := range s.Stages {
			m, err := st.Build()
			if err != nil {
				return nil, fmt.Errorf("stage %d: %w", i, err)
			}
			stages[i] = m
		}
		var ops []conjugate.Operator
		for _, name := range s.Operators {
			switch name {
			case conjugate.Multiply.String():
				ops = append(ops, conjugate.Multiply)
			case conjugate.Divide.String():
				ops = append(ops, conjugate.Divide)
			default:
				return nil, core.NewConfigurationError(fmt.Sprintf("unknown operator %q", name))
			}
		}
		return conjugate.NewChainedModel(stages, ops)
	}
	return nil, core.NewConfigurationError(fmt.Sprintf("unknown model kind %q", s.Kind))
}

// EffectSizeSpec is the wire form of a Bayes-factor model. A zero
// PriorProbNull means even prior odds.
type EffectSizeSpec struct {
	Kind          string  `json:"kind"`
	NullMean      float64 `json:"null_mean,omitempty"`
	PriorSD       float64 `json:"prior_sd,omitempty"`
	PriorScale    float64 `json:"prior_scale,omitempty"`
	Tolerance     float64 `json:"tolerance,omitempty"`
	PriorProbNull float64 `json:"prior_prob_null,omitempty"`
}

// Build uses tolerance and maxPanels when the spec leaves them unset
func (s EffectSizeSpec) Build(tolerance float64, maxPanels int) (effectsize.Model, error) {
	p0 := s.PriorProbNull
	if p0 == 0 {
		p0 = effectsize.DefaultPriorProbNull
	}
	switch s.Kind {
	case effectsize.KindNormal.String():
		return effectsize.NewNormalEffectSize(s.NullMean, s.PriorSD, p0)
	case effectsize.KindStudentT.String():
		r := s.PriorScale
		if r == 0 {
			r = effectsize.DefaultPriorScale
		}
		if s.Tolerance > 0 {
			tolerance = s.Tolerance
		}
		m, err := effectsize.NewStudentTEffectSize(r, tolerance, p0)
		if err != nil {
			return nil, err
		}
		if maxPanels > 0 {
			m.MaxPanels = maxPanels
		}
		return m, nil
	}
	return nil, core.NewConfigurationError(fmt.Sprintf("unknown effect-size model %q", s.Kind))
}

// StatisticsSpec is the wire form of one batch of sufficient statistics.
// Summary fields and raw Data/Outcomes are alternatives; raw data wins when
// present.
type StatisticsSpec struct {
	Family    string           `json:"family"`
	Successes int              `json:"successes,omitempty"`
	Trials    int              `json:"trials,omitempty"`
	N         float64          `json:"n,omitempty"`
	Mean      float64          `json:"mean,omitempty"`
	StdDev    float64          `json:"std_dev,omitempty"`
	MeanLog   float64          `json:"mean_log,omitempty"`
	SDLog     float64          `json:"sd_log,omitempty"`
	Outcomes  []bool           `json:"outcomes,omitempty"`
	Data      []float64        `json:"data,omitempty"`
	First     *StatisticsSpec  `json:"first,omitempty"`
	Second    *StatisticsSpec  `json:"second,omitempty"`
	Stages    []StatisticsSpec `json:"stages,omitempty"`
}

func (s StatisticsSpec) Build() (suffstats.Statistics, error) {
	switch s.Family {
	case suffstats.FamilyBernoulli.String():
		if s.Outcomes != nil {
			return suffstats.BernoulliFromData(s.Outcomes)
		}
		return suffstats.NewBernoulliStats(s.Successes, s.Trials)
	case suffstats.FamilyExponential.String():
		if s.Data != nil {
			return suffstats.ExponentialFromData(s.Data)
		}
		n, err := wholeCount(s.N)
		if err != nil {
			return nil, err
		}
		return suffstats.NewExponentialStats(n, s.Mean)
	case suffstats.FamilyNormal.String():
		return s.buildNormal()
	case suffstats.FamilyLogNormal.String():
		if s.Data != nil {
			return suffstats.LogNormalFromData(s.Data)
		}
		n, err := wholeCount(s.N)
		if err != nil {
			return nil, err
		}
		return suffstats.NewLogNormalStats(n, s.MeanLog, s.SDLog)
	case suffstats.FamilyTwoSample.String():
		if s.First == nil || s.Second == nil {
			return nil, core.NewPreconditionError("two_sample", "first and second groups are required")
		}
		first, err := s.First.buildNormal()
		if err != nil {
			return nil, fmt.Errorf("first group: %w", err)
		}
		second, err := s.Second.buildNormal()
		if err != nil {
			return nil, fmt.Errorf("second group: %w", err)
		}
		return suffstats.NewTwoSample(first, second)
	case suffstats.FamilyStaged.String():
		stages := make([]suffstats.Statistics, len(s.Stages))
		for i, st := range s.Stages {
			b, err := st.Build()
			if err != nil {
				return nil, fmt.Errorf("stage %d: %w", i, err)
			}
			stages[i] = b
		}
		return suffstats.NewStaged(stages...), nil
	}
	return nil, core.NewPreconditionError("family", fmt.Sprintf("unknown statistics family %q", s.Family))
}

// wholeCount converts a JSON sample size for families that count observations
func wholeCount(n float64) (int, error) {
	if n != math.Trunc(n) || n >= float64(math.MaxInt) || n < float64(math.MinInt) {
		return 0, core.NewPreconditionError("n", fmt.Sprintf("must be a whole number of observations, got %g", n))
	}
	return int(n), nil
}

func (s StatisticsSpec) buildNormal() (suffstats.NormalStats, error) {
	if s.Data != nil {
		return suffstats.NormalFromData(s.Data)
	}
	return suffstats.NewNormalStats(s.N, s.Mean, s.StdDev)
}
