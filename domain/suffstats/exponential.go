package suffstats

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"gobayes/domain/core"
)

// ExponentialStats summarises strictly positive waiting times or amounts
type ExponentialStats struct {
	n    int
	mean float64
}

// NewExponentialStats validates n > 0 and mean > 0
func NewExponentialStats(n int, mean float64) (ExponentialStats, error) {
	if n <= 0 {
		return ExponentialStats{}, core.NewPreconditionError("n", fmt.Sprintf("must be positive, got %d", n))
	}
	if !(mean > 0) || math.IsInf(mean, 0) {
		return ExponentialStats{}, core.NewPreconditionError("mean", fmt.Sprintf("must be positive and finite, got %g", mean))
	}
	return ExponentialStats{n: n, mean: mean}, nil
}

// ExponentialFromData computes the sample mean of non-negative observations
func ExponentialFromData(data []float64) (ExponentialStats, error) {
	for i, x := range data {
		if x < 0 || math.IsNaN(x) {
			return ExponentialStats{}, core.NewPreconditionError("data", fmt.Sprintf("observation %d is %g, exponential data must be non-negative", i, x))
		}
	}
	mean, err := stats.Mean(data)
	if err != nil {
		return ExponentialStats{}, core.NewPreconditionError("data", err.Error())
	}
	return NewExponentialStats(len(data), mean)
}

func (s ExponentialStats) N() int         { return s.n }
func (s ExponentialStats) Mean() float64  { return s.mean }
func (s ExponentialStats) Total() float64 { return float64(s.n) * s.mean }

func (ExponentialStats) Family() Family { return FamilyExponential }
func (ExponentialStats) isStatistics()  {}
