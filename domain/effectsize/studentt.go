package effectsize

import (
	"fmt"
	"math"

	"gobayes/domain/core"
	"gobayes/domain/suffstats"
	"gobayes/internal/quadrature"
)

// DefaultPriorScale is the "medium" Cauchy scale sqrt(2)/2
var DefaultPriorScale = math.Sqrt2 / 2

// StudentTEffectSize is the JZS Bayes factor for t statistics: a Cauchy
// prior with scale R on the effect size, written as a Normal prior mixed
// over an inverse-gamma(1/2, 1/2) variance g.
type StudentTEffectSize struct {
	R         float64 `json:"prior_scale_r"`
	Tolerance float64 `json:"integration_tolerance"`
	MaxPanels int     `json:"max_panels"`
	ProbNull  float64 `json:"prior_prob_null"`
}

// NewStudentTEffectSize uses the default quadrature budget
func NewStudentTEffectSize(r, tolerance, priorProbNull float64) (StudentTEffectSize, error) {
	m := StudentTEffectSize{
		R:         r,
		Tolerance: tolerance,
		MaxPanels: quadrature.DefaultSettings().MaxPanels,
		ProbNull:  priorProbNull,
	}
	if err := m.Validate(); err != nil {
		return StudentTEffectSize{}, err
	}
	return m, nil
}

func (m StudentTEffectSize) Validate() error {
	if !(m.R > 0) || math.IsInf(m.R, 0) {
		return core.NewPreconditionError("priorScaleR", fmt.Sprintf("must be positive, got %g", m.R))
	}
	if !(m.Tolerance > 0) {
		return core.NewPreconditionError("integrationTolerance", fmt.Sprintf("must be positive, got %g", m.Tolerance))
	}
	if m.MaxPanels <= 0 {
		return core.NewPreconditionError("maxPanels", fmt.Sprintf("must be positive, got %d", m.MaxPanels))
	}
	return validatePriorProbNull(m.ProbNull)
}

func (m StudentTEffectSize) Kind() Kind { return KindStudentT }

func (m StudentTEffectSize) PriorProbNull() float64 { return m.ProbNull }

// BayesFactor derives a one-sample t statistic (against zero) from
// NormalStats or a pooled two-sample t statistic from TwoSample
func (m StudentTEffectSize) BayesFactor(s suffstats.Statistics) (float64, error) {
	var (
		ts  suffstats.TStatistic
		err error
	)
	switch v := s.(type) {
	case suffstats.NormalStats:
		ts, err = suffstats.OneSampleT(v, 0)
	case suffstats.TwoSample:
		ts, err = suffstats.PooledT(v)
	default:
		_, err = normalView(s)
	}
	if err != nil {
		return 0, err
	}
	return m.BayesFactorT(ts)
}

// BayesFactorT evaluates
//
//	BF10 = ∫ (1+n g r²)^-½ (1+t²/((1+n g r²) v))^-(v+1)/2 (2π)^-½ g^-3/2 e^(-1/(2g)) dg
//	       / (1+t²/v)^-(v+1)/2
//
// over g in (0, ∞), then multiplies by the prior odds.
func (m StudentTEffectSize) BayesFactorT(ts suffstats.TStatistic) (float64, error) {
	if err := m.Validate(); err != nil {
		return 0, err
	}
	if !(ts.N > 0) || !(ts.DOF > 0) || math.IsNaN(ts.T) || math.IsInf(ts.T, 0) {
		return 0, core.NewPreconditionError("t statistic", fmt.Sprintf("need finite t with positive n and dof, got t=%g n=%g dof=%g", ts.T, ts.N, ts.DOF))
	}

	t2, v, n := ts.T*ts.T, ts.DOF, ts.N
	r2 := m.R * m.R
	half := (v + 1) / 2
	logNull := -half * math.Log1p(t2/v)
	logNorm := 0.5 * math.Log(2*math.Pi)

	integrand := func(g float64) float64 {
		if g <= 0 {
			return 0
		}
		scale := 1 + n*g*r2
		logAlt := -0.5*math.Log(scale) - half*math.Log1p(t2/(scale*v))
		return math.Exp(logAlt - logNull - logNorm - 1.5*math.Log(g) - 1/(2*g))
	}

	res, err := quadrature.Integrate(integrand, 0, math.Inf(1), quadrature.Settings{
		RelTol:    m.Tolerance,
		AbsTol:    0,
		MaxPanels: m.MaxPanels,
	})
	if err != nil {
		return 0, fmt.Errorf("student-t bayes factor: %w", err)
	}
	return res.Value * priorOdds(m.ProbNull), nil
}

func (StudentTEffectSize) isModel() {}
