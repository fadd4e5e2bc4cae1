// Package suffstats holds the sufficient statistics consumed by the
// conjugate models and the effect-size models. Every value is immutable:
// combinators return a new value and never touch their inputs.
package suffstats

// Family identifies the kind of data a Statistics value summarises
type Family int

const (
	FamilyBernoulli Family = iota
	FamilyExponential
	FamilyNormal
	FamilyLogNormal
	FamilyTwoSample
	FamilyStaged
)

func (f Family) String() string {
	switch f {
	case FamilyBernoulli:
		return "bernoulli"
	case FamilyExponential:
		return "exponential"
	case FamilyNormal:
		return "normal"
	case FamilyLogNormal:
		return "lognormal"
	case FamilyTwoSample:
		return "two_sample"
	case FamilyStaged:
		return "staged"
	default:
		return "unknown"
	}
}

// Statistics is the closed set of sufficient-statistics values.
// Implementations live in this package only.
type Statistics interface {
	Family() Family
	isStatistics()
}

// Staged carries one Statistics value per stage of a chained model, in
// stage order.
type Staged struct {
	stages []Statistics
}

// NewStaged copies the given stage statistics into a Staged value
func NewStaged(stages ...Statistics) Staged {
	cp := make([]Statistics, len(stages))
	copy(cp, stages)
	return Staged{stages: cp}
}

// Len returns the number of stages
func (s Staged) Len() int { return len(s.stages) }

// Stage returns the statistics of stage i
func (s Staged) Stage(i int) Statistics { return s.stages[i] }

func (Staged) Family() Family { return FamilyStaged }
func (Staged) isStatistics()  {}
