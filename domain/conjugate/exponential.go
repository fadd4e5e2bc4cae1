package conjugate

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"gobayes/domain/suffstats"
)

// ExponentialModel places a Gamma prior (shape/scale) on the rate of
// exponentially distributed observations. Draws are reported on the mean
// scale, the reciprocal of the rate.
type ExponentialModel struct {
	posterior GammaParams
}

func NewExponentialModel(prior GammaParams) (*ExponentialModel, error) {
	if err := prior.Validate(); err != nil {
		return nil, err
	}
	return &ExponentialModel{posterior: prior}, nil
}

func (m *ExponentialModel) Kind() Kind { return KindExponential }

func (m *ExponentialModel) Posterior() GammaParams { return m.posterior }

// Update applies alpha' = alpha + n and theta' = theta / (1 + theta*n*mean)
func (m *ExponentialModel) Update(s suffstats.Statistics) error {
	e, ok := s.(suffstats.ExponentialStats)
	if !ok {
		return wrongFamily(m.Kind(), s)
	}
	theta := m.posterior.Theta
	m.posterior = GammaParams{
		Alpha: m.posterior.Alpha + float64(e.N()),
		Theta: theta / (1 + theta*e.Total()),
	}
	return nil
}

// Sample draws rates from the Gamma posterior and returns their reciprocals
func (m *ExponentialModel) Sample(numSamples int, src rand.Source) (Draws, error) {
	if err := checkNumSamples(numSamples); err != nil {
		return Draws{}, err
	}
	// distuv.Gamma takes a rate, the reciprocal of our scale.
	dist := distuv.Gamma{Alpha: m.posterior.Alpha, Beta: 1 / m.posterior.Theta, Src: src}
	out := make([]float64, numSamples)
	for i := range out {
		out[i] = 1 / dist.Rand()
	}
	return Draws{Mean: out}, nil
}

func (m *ExponentialModel) Clone() Model {
	cp := *m
	return &cp
}

func (*ExponentialModel) isModel() {}
