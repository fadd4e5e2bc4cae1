package effectsize

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"gobayes/domain/core"
	"gobayes/domain/suffstats"
)

// NormalEffectSize puts a Normal(0, PriorSD) prior on the standardised
// effect under the alternative and a point mass at zero under the null.
// The observed effect size is approximately Normal(delta, 1/sqrt(n)).
type NormalEffectSize struct {
	NullMean float64 `json:"null_mean"`
	PriorSD  float64 `json:"prior_sd"`
	ProbNull float64 `json:"prior_prob_null"`
}

func NewNormalEffectSize(nullMean, priorSD, priorProbNull float64) (NormalEffectSize, error) {
	m := NormalEffectSize{NullMean: nullMean, PriorSD: priorSD, ProbNull: priorProbNull}
	if err := m.Validate(); err != nil {
		return NormalEffectSize{}, err
	}
	return m, nil
}

func (m NormalEffectSize) Validate() error {
	if math.IsNaN(m.NullMean) || math.IsInf(m.NullMean, 0) {
		return core.NewPreconditionError("nullMean", fmt.Sprintf("must be finite, got %g", m.NullMean))
	}
	if !(m.PriorSD > 0) || math.IsInf(m.PriorSD, 0) {
		return core.NewPreconditionError("priorSD", fmt.Sprintf("must be positive, got %g", m.PriorSD))
	}
	return validatePriorProbNull(m.ProbNull)
}

func (m NormalEffectSize) Kind() Kind { return KindNormal }

func (m NormalEffectSize) PriorProbNull() float64 { return m.ProbNull }

// BayesFactor returns pdf(Normal(0, sqrt(sd0^2+1/n)), delta) /
// pdf(Normal(0, sqrt(1/n)), delta) times the prior odds
func (m NormalEffectSize) BayesFactor(s suffstats.Statistics) (float64, error) {
	if err := m.Validate(); err != nil {
		return 0, err
	}
	ns, err := normalView(s)
	if err != nil {
		return 0, err
	}
	delta, err := suffstats.EffectSize(ns, m.NullMean)
	if err != nil {
		return 0, err
	}

	invN := 1 / ns.N()
	alt := distuv.Normal{Mu: 0, Sigma: math.Sqrt(m.PriorSD*m.PriorSD + invN)}
	null := distuv.Normal{Mu: 0, Sigma: math.Sqrt(invN)}

	return math.Exp(alt.LogProb(delta)-null.LogProb(delta)) * priorOdds(m.ProbNull), nil
}

func (NormalEffectSize) isModel() {}
