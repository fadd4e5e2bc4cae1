package suffstats

import (
	"fmt"
	"math"

	"gobayes/domain/core"
)

// TwoSample is an ordered pair of independent groups. Contrasts are always
// taken as first minus second.
type TwoSample struct {
	first  NormalStats
	second NormalStats
}

// NewTwoSample pairs two validated groups
func NewTwoSample(first, second NormalStats) (TwoSample, error) {
	if !(first.n > 0) || !(second.n > 0) {
		return TwoSample{}, core.NewPreconditionError("n", "both groups need a positive size")
	}
	return TwoSample{first: first, second: second}, nil
}

func (s TwoSample) First() NormalStats  { return s.first }
func (s TwoSample) Second() NormalStats { return s.second }

// EffectiveN returns 1/(1/n1 + 1/n2)
func (s TwoSample) EffectiveN() float64 {
	return 1 / (1/s.first.n + 1/s.second.n)
}

// PooledStdDev returns the pooled standard deviation of both groups
func (s TwoSample) PooledStdDev() (float64, error) {
	dof := s.first.n + s.second.n - 2
	if !(dof > 0) {
		return 0, core.NewPreconditionError("n", fmt.Sprintf("pooling needs n1+n2 > 2, got %g", s.first.n+s.second.n))
	}
	ss := s.first.SumOfSquares() + s.second.SumOfSquares()
	return math.Sqrt(ss / dof), nil
}

// Merge collapses the pair into a single NormalStats whose mean is the
// difference of group means, whose standard deviation is the pooled one and
// whose size is the effective sample size.
func (s TwoSample) Merge() (NormalStats, error) {
	sd, err := s.PooledStdDev()
	if err != nil {
		return NormalStats{}, err
	}
	return NormalStats{
		n:      s.EffectiveN(),
		mean:   s.first.mean - s.second.mean,
		stddev: sd,
	}, nil
}

// UpdateTwoSample merges a new batch into each group independently
func UpdateTwoSample(old, batch TwoSample) (TwoSample, error) {
	first, err := Update(old.first, batch.first)
	if err != nil {
		return TwoSample{}, fmt.Errorf("first group: %w", err)
	}
	second, err := Update(old.second, batch.second)
	if err != nil {
		return TwoSample{}, fmt.Errorf("second group: %w", err)
	}
	return TwoSample{first: first, second: second}, nil
}

func (TwoSample) Family() Family { return FamilyTwoSample }
func (TwoSample) isStatistics()  {}
