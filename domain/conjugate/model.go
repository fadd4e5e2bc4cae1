// Package conjugate implements the closed set of conjugate-prior models.
// Each model owns a single posterior parameter record which Update replaces
// wholesale; Sample only reads it.
package conjugate

import (
	"fmt"
	"math/rand/v2"

	"gobayes/domain/core"
	"gobayes/domain/suffstats"
)

// Kind enumerates the supported model families
type Kind int

const (
	KindBernoulli Kind = iota
	KindExponential
	KindNormal
	KindLogNormal
	KindChained
)

func (k Kind) String() string {
	switch k {
	case KindBernoulli:
		return "bernoulli"
	case KindExponential:
		return "exponential"
	case KindNormal:
		return "normal"
	case KindLogNormal:
		return "lognormal"
	case KindChained:
		return "chained"
	default:
		return "unknown"
	}
}

// Draws holds Monte Carlo posterior draws. Mean is the quantity variants are
// compared on (conversion rate, mean amount, composite value). Variance is
// only filled by the normal families.
type Draws struct {
	Mean     []float64
	Variance []float64
}

// Len returns the number of draws
func (d Draws) Len() int { return len(d.Mean) }

// Model is a conjugate model with mutable posterior state
type Model interface {
	Kind() Kind

	// Update folds one batch of sufficient statistics into the posterior
	Update(s suffstats.Statistics) error

	// Sample draws numSamples values from the current posterior
	Sample(numSamples int, src rand.Source) (Draws, error)

	// Clone returns an independent deep copy
	Clone() Model

	isModel()
}

func checkNumSamples(numSamples int) error {
	if numSamples <= 0 {
		return core.NewPreconditionError("numSamples", fmt.Sprintf("must be positive, got %d", numSamples))
	}
	return nil
}

func wrongFamily(k Kind, s suffstats.Statistics) error {
	if s == nil {
		return core.NewPreconditionError("statistics", fmt.Sprintf("%s model received nil statistics", k))
	}
	return core.NewPreconditionError("statistics", fmt.Sprintf("%s model cannot consume %s statistics", k, s.Family()))
}
