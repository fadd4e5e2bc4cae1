package conjugate

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"gobayes/domain/suffstats"
)

// NormalModel is the Normal likelihood with unknown mean and variance under
// a Normal-Inverse-Gamma prior
type NormalModel struct {
	posterior NIGParams
}

func NewNormalModel(prior NIGParams) (*NormalModel, error) {
	if err := prior.Validate(); err != nil {
		return nil, err
	}
	return &NormalModel{posterior: prior}, nil
}

func (m *NormalModel) Kind() Kind { return KindNormal }

func (m *NormalModel) Posterior() NIGParams { return m.posterior }

func (m *NormalModel) Update(s suffstats.Statistics) error {
	ns, ok := s.(suffstats.NormalStats)
	if !ok {
		return wrongFamily(m.Kind(), s)
	}
	m.posterior = updateNIG(m.posterior, ns)
	return nil
}

// Sample draws (mean, variance) pairs jointly from the posterior
func (m *NormalModel) Sample(numSamples int, src rand.Source) (Draws, error) {
	if err := checkNumSamples(numSamples); err != nil {
		return Draws{}, err
	}
	return sampleNIG(m.posterior, numSamples, src), nil
}

func (m *NormalModel) Clone() Model {
	cp := *m
	return &cp
}

func (*NormalModel) isModel() {}

// LogNormalModel runs the Normal-Inverse-Gamma update on log-scale data and
// reports draws of the natural-scale mean and variance
type LogNormalModel struct {
	posterior NIGParams
}

func NewLogNormalModel(prior NIGParams) (*LogNormalModel, error) {
	if err := prior.Validate(); err != nil {
		return nil, err
	}
	return &LogNormalModel{posterior: prior}, nil
}

func (m *LogNormalModel) Kind() Kind { return KindLogNormal }

// Posterior returns the log-scale Normal-Inverse-Gamma parameters
func (m *LogNormalModel) Posterior() NIGParams { return m.posterior }

func (m *LogNormalModel) Update(s suffstats.Statistics) error {
	ls, ok := s.(suffstats.LogNormalStats)
	if !ok {
		return wrongFamily(m.Kind(), s)
	}
	m.posterior = updateNIG(m.posterior, ls.LogScale())
	return nil
}

func (m *LogNormalModel) Sample(numSamples int, src rand.Source) (Draws, error) {
	if err := checkNumSamples(numSamples); err != nil {
		return Draws{}, err
	}
	d := sampleNIG(m.posterior, numSamples, src)
	for i := range d.Mean {
		mu, s2 := d.Mean[i], d.Variance[i]
		d.Mean[i] = math.Exp(mu + s2/2)
		d.Variance[i] = math.Expm1(s2) * math.Exp(2*mu+s2)
	}
	return d, nil
}

func (m *LogNormalModel) Clone() Model {
	cp := *m
	return &cp
}

func (*LogNormalModel) isModel() {}

// updateNIG is the closed-form Normal-Inverse-Gamma posterior update for a
// batch summarised by (n, mean, sd). v' is needed by the theta' term, so it
// is computed first.
func updateNIG(prior NIGParams, s suffstats.NormalStats) NIGParams {
	n := s.N()
	xbar := s.Mean()
	delta2 := s.SumOfSquares()

	invV0 := 1 / prior.V
	invV := invV0 + n
	mu := (invV0*prior.Mu + n*xbar) / invV
	v := 1 / invV
	alpha := prior.Alpha + n/2
	dev := xbar - prior.Mu
	theta := prior.Theta + 0.5*(delta2+(n*invV0)*dev*dev*v)

	return NIGParams{Mu: mu, V: v, Alpha: alpha, Theta: theta}
}

// sampleNIG draws variance ~ InverseGamma(alpha, theta) and then
// mean ~ Normal(mu, sqrt(variance*v)) paired with the same variance draw
func sampleNIG(p NIGParams, numSamples int, src rand.Source) Draws {
	variance := distuv.InverseGamma{Alpha: p.Alpha, Beta: p.Theta, Src: src}
	unit := distuv.Normal{Mu: 0, Sigma: 1, Src: src}

	d := Draws{
		Mean:     make([]float64, numSamples),
		Variance: make([]float64, numSamples),
	}
	for i := 0; i < numSamples; i++ {
		s2 := variance.Rand()
		d.Variance[i] = s2
		d.Mean[i] = p.Mu + math.Sqrt(s2*p.V)*unit.Rand()
	}
	return d
}
