package suffstats

import (
	"fmt"
	"math"

	"gobayes/domain/core"
)

// TStatistic is a t value together with its degrees of freedom and the
// sample size the Student-t Bayes factor scales the prior by
type TStatistic struct {
	T   float64
	DOF float64
	N   float64
}

// OneSampleT tests the mean of a single group against nullMean
func OneSampleT(s NormalStats, nullMean float64) (TStatistic, error) {
	if !(s.n > 1) {
		return TStatistic{}, core.NewPreconditionError("n", fmt.Sprintf("one-sample t needs n > 1, got %g", s.n))
	}
	d, err := EffectSize(s, nullMean)
	if err != nil {
		return TStatistic{}, err
	}
	return TStatistic{T: d * math.Sqrt(s.n), DOF: s.n - 1, N: s.n}, nil
}

// PooledT is the equal-variance two-sample t statistic
func PooledT(s TwoSample) (TStatistic, error) {
	merged, err := s.Merge()
	if err != nil {
		return TStatistic{}, err
	}
	d, err := EffectSize(merged, 0)
	if err != nil {
		return TStatistic{}, err
	}
	return TStatistic{
		T:   d * math.Sqrt(merged.n),
		DOF: s.first.n + s.second.n - 2,
		N:   merged.n,
	}, nil
}

// WelchT is the unequal-variance two-sample t statistic with
// Welch-Satterthwaite degrees of freedom
func WelchT(s TwoSample) (TStatistic, error) {
	if !(s.first.n > 1) || !(s.second.n > 1) {
		return TStatistic{}, core.NewPreconditionError("n", "Welch t needs more than one observation per group")
	}
	se1 := s.first.Variance() / s.first.n
	se2 := s.second.Variance() / s.second.n
	if !(se1+se2 > 0) {
		return TStatistic{}, core.NewPreconditionError("stddev", "Welch t needs a positive standard error")
	}

	t := (s.first.mean - s.second.mean) / math.Sqrt(se1+se2)
	dof := (se1 + se2) * (se1 + se2) / (se1*se1/(s.first.n-1) + se2*se2/(s.second.n-1))

	return TStatistic{T: t, DOF: dof, N: s.EffectiveN()}, nil
}
