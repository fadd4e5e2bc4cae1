package suffstats

import (
	"fmt"

	"gobayes/domain/core"
)

// BernoulliStats counts successes out of a number of trials
type BernoulliStats struct {
	successes int
	trials    int
}

// NewBernoulliStats validates 0 <= successes <= trials
func NewBernoulliStats(successes, trials int) (BernoulliStats, error) {
	if successes < 0 {
		return BernoulliStats{}, core.NewPreconditionError("successes", fmt.Sprintf("must be non-negative, got %d", successes))
	}
	if trials < successes {
		return BernoulliStats{}, core.NewPreconditionError("trials", fmt.Sprintf("%d trials cannot hold %d successes", trials, successes))
	}
	return BernoulliStats{successes: successes, trials: trials}, nil
}

// BernoulliFromData counts the true outcomes
func BernoulliFromData(outcomes []bool) (BernoulliStats, error) {
	successes := 0
	for _, ok := range outcomes {
		if ok {
			successes++
		}
	}
	return NewBernoulliStats(successes, len(outcomes))
}

func (s BernoulliStats) Successes() int { return s.successes }
func (s BernoulliStats) Trials() int    { return s.trials }
func (s BernoulliStats) Failures() int  { return s.trials - s.successes }

// Add sums two batches of trials
func (s BernoulliStats) Add(other BernoulliStats) BernoulliStats {
	return BernoulliStats{
		successes: s.successes + other.successes,
		trials:    s.trials + other.trials,
	}
}

func (BernoulliStats) Family() Family { return FamilyBernoulli }
func (BernoulliStats) isStatistics()  {}
