// Package effectsize holds the Bayes-factor models that compare a point
// null effect size against a diffuse alternative.
package effectsize

import (
	"fmt"

	"gobayes/domain/core"
	"gobayes/domain/suffstats"
)

// Kind enumerates the effect-size models
type Kind int

const (
	KindNormal Kind = iota
	KindStudentT
)

func (k Kind) String() string {
	switch k {
	case KindNormal:
		return "normal_effect_size"
	case KindStudentT:
		return "student_t_effect_size"
	default:
		return "unknown"
	}
}

// Model computes BF10, the Bayes factor of the alternative over the null,
// already multiplied by the prior odds (1-p0)/p0. Models are immutable.
type Model interface {
	Kind() Kind
	PriorProbNull() float64
	BayesFactor(s suffstats.Statistics) (float64, error)
	isModel()
}

// DefaultPriorProbNull gives even prior odds
const DefaultPriorProbNull = 0.5

func validatePriorProbNull(p float64) error {
	if !(p > 0 && p < 1) {
		return core.NewPreconditionError("priorProbNull", fmt.Sprintf("must lie in (0, 1), got %g", p))
	}
	return nil
}

func priorOdds(p0 float64) float64 {
	return (1 - p0) / p0
}

// normalView reduces one- or two-group statistics to a single NormalStats
func normalView(s suffstats.Statistics) (suffstats.NormalStats, error) {
	switch v := s.(type) {
	case suffstats.NormalStats:
		return v, nil
	case suffstats.TwoSample:
		return v.Merge()
	case nil:
		return suffstats.NormalStats{}, core.NewPreconditionError("statistics", "nil statistics")
	default:
		return suffstats.NormalStats{}, core.NewPreconditionError("statistics", fmt.Sprintf("effect size models need normal or two-sample statistics, got %s", s.Family()))
	}
}
