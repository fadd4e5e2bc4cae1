package conjugate

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"gobayes/domain/suffstats"
)

// BernoulliModel is the Beta-Bernoulli conjugate pair
type BernoulliModel struct {
	posterior BetaParams
}

// NewBernoulliModel starts from the given Beta prior
func NewBernoulliModel(prior BetaParams) (*BernoulliModel, error) {
	if err := prior.Validate(); err != nil {
		return nil, err
	}
	return &BernoulliModel{posterior: prior}, nil
}

func (m *BernoulliModel) Kind() Kind { return KindBernoulli }

// Posterior returns the current Beta parameters
func (m *BernoulliModel) Posterior() BetaParams { return m.posterior }

// Update adds successes to alpha and failures to beta
func (m *BernoulliModel) Update(s suffstats.Statistics) error {
	b, ok := s.(suffstats.BernoulliStats)
	if !ok {
		return wrongFamily(m.Kind(), s)
	}
	m.posterior = BetaParams{
		Alpha: m.posterior.Alpha + float64(b.Successes()),
		Beta:  m.posterior.Beta + float64(b.Failures()),
	}
	return nil
}

// Sample draws conversion rates from the Beta posterior
func (m *BernoulliModel) Sample(numSamples int, src rand.Source) (Draws, error) {
	if err := checkNumSamples(numSamples); err != nil {
		return Draws{}, err
	}
	dist := distuv.Beta{Alpha: m.posterior.Alpha, Beta: m.posterior.Beta, Src: src}
	out := make([]float64, numSamples)
	for i := range out {
		out[i] = dist.Rand()
	}
	return Draws{Mean: out}, nil
}

func (m *BernoulliModel) Clone() Model {
	cp := *m
	return &cp
}

func (*BernoulliModel) isModel() {}
