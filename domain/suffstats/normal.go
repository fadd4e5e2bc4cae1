package suffstats

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"gobayes/domain/core"
)

// NormalStats summarises a real-valued sample by its size, mean and sample
// standard deviation (n-1 denominator). N may be fractional when it is an
// effective sample size produced by TwoSample.Merge. A sample with n <= 1
// carries no spread, so Update reports a zero standard deviation for any
// merge whose total size is at most 1.
type NormalStats struct {
	n      float64
	mean   float64
	stddev float64
}

// NewNormalStats validates n > 0 and stddev >= 0
func NewNormalStats(n, mean, stddev float64) (NormalStats, error) {
	if !(n > 0) || math.IsInf(n, 0) {
		return NormalStats{}, core.NewPreconditionError("n", fmt.Sprintf("must be positive and finite, got %g", n))
	}
	if math.IsNaN(mean) || math.IsInf(mean, 0) {
		return NormalStats{}, core.NewPreconditionError("mean", fmt.Sprintf("must be finite, got %g", mean))
	}
	if !(stddev >= 0) || math.IsInf(stddev, 0) {
		return NormalStats{}, core.NewPreconditionError("stddev", fmt.Sprintf("must be non-negative and finite, got %g", stddev))
	}
	return NormalStats{n: n, mean: mean, stddev: stddev}, nil
}

// NormalFromData computes size, mean and sample standard deviation.
// A single observation yields a zero standard deviation.
func NormalFromData(data []float64) (NormalStats, error) {
	mean, err := stats.Mean(data)
	if err != nil {
		return NormalStats{}, core.NewPreconditionError("data", err.Error())
	}
	sd := 0.0
	if len(data) > 1 {
		sd, err = stats.StandardDeviationSample(data)
		if err != nil {
			return NormalStats{}, core.NewPreconditionError("data", err.Error())
		}
	}
	return NewNormalStats(float64(len(data)), mean, sd)
}

func (s NormalStats) N() float64        { return s.n }
func (s NormalStats) Mean() float64     { return s.mean }
func (s NormalStats) StdDev() float64   { return s.stddev }
func (s NormalStats) Variance() float64 { return s.stddev * s.stddev }

// SumOfSquares returns the sum of squared deviations from the mean
func (s NormalStats) SumOfSquares() float64 {
	return s.stddev * s.stddev * (s.n - 1)
}

// Update merges a new batch into the running statistics. The result equals
// the statistics of the concatenated samples (Chan et al. pairwise update).
func Update(old, batch NormalStats) (NormalStats, error) {
	if !(old.n > 0) {
		return NormalStats{}, core.NewPreconditionError("old.n", fmt.Sprintf("must be positive, got %g", old.n))
	}
	if !(batch.n > 0) {
		return NormalStats{}, core.NewPreconditionError("batch.n", fmt.Sprintf("must be positive, got %g", batch.n))
	}

	n := old.n + batch.n
	w1 := old.n / n
	w2 := batch.n / n
	delta := batch.mean - old.mean
	mean := w1*old.mean + w2*batch.mean

	ss := old.SumOfSquares() + batch.SumOfSquares() + delta*delta*old.n*batch.n/n
	variance := 0.0
	if n > 1 && ss > 0 {
		variance = ss / (n - 1)
	}

	return NormalStats{n: n, mean: mean, stddev: math.Sqrt(variance)}, nil
}

// EffectSize returns the standardised distance of the mean from nullMean
func EffectSize(s NormalStats, nullMean float64) (float64, error) {
	if !(s.n > 0) {
		return 0, core.NewPreconditionError("n", fmt.Sprintf("must be positive, got %g", s.n))
	}
	if !(s.stddev > 0) {
		return 0, core.NewPreconditionError("stddev", fmt.Sprintf("effect size needs a positive standard deviation, got %g", s.stddev))
	}
	return (s.mean - nullMean) / s.stddev, nil
}

func (NormalStats) Family() Family { return FamilyNormal }
func (NormalStats) isStatistics()  {}
