package conjugate

import (
	"fmt"
	"math"

	"gobayes/domain/core"
)

// BetaParams parameterises Beta(Alpha, Beta)
type BetaParams struct {
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
}

// Validate requires both shapes to be positive
func (p BetaParams) Validate() error {
	if !positive(p.Alpha) || !positive(p.Beta) {
		return core.NewPreconditionError("beta prior", fmt.Sprintf("shapes must be positive, got (%g, %g)", p.Alpha, p.Beta))
	}
	return nil
}

// GammaParams parameterises Gamma(Alpha, Theta) in shape/scale form
type GammaParams struct {
	Alpha float64 `json:"alpha"`
	Theta float64 `json:"theta"`
}

func (p GammaParams) Validate() error {
	if !positive(p.Alpha) || !positive(p.Theta) {
		return core.NewPreconditionError("gamma prior", fmt.Sprintf("shape and scale must be positive, got (%g, %g)", p.Alpha, p.Theta))
	}
	return nil
}

// NIGParams parameterises NormalInverseGamma(Mu, V, Alpha, Theta): the
// variance follows InverseGamma(Alpha, Theta) and the mean, given the
// variance, follows Normal(Mu, variance*V).
type NIGParams struct {
	Mu    float64 `json:"mu"`
	V     float64 `json:"v"`
	Alpha float64 `json:"alpha"`
	Theta float64 `json:"theta"`
}

func (p NIGParams) Validate() error {
	if math.IsNaN(p.Mu) || math.IsInf(p.Mu, 0) {
		return core.NewPreconditionError("normal-inverse-gamma prior", fmt.Sprintf("mu must be finite, got %g", p.Mu))
	}
	if !positive(p.V) || !positive(p.Alpha) || !positive(p.Theta) {
		return core.NewPreconditionError("normal-inverse-gamma prior", fmt.Sprintf("v, alpha and theta must be positive, got (%g, %g, %g)", p.V, p.Alpha, p.Theta))
	}
	return nil
}

func positive(x float64) bool {
	return x > 0 && !math.IsInf(x, 0)
}

// DefaultBeta is the uniform prior on a conversion rate
func DefaultBeta() BetaParams { return BetaParams{Alpha: 1, Beta: 1} }

// DefaultGamma is a weak prior on an exponential rate
func DefaultGamma() GammaParams { return GammaParams{Alpha: 1, Theta: 1} }

// DefaultNIG is a weak prior centred on zero
func DefaultNIG() NIGParams { return NIGParams{Mu: 0, V: 1, Alpha: 1, Theta: 1} }
