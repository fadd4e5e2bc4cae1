package testkit

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"gobayes/domain/suffstats"
)

// TrafficGeneratorConfig configures synthetic experiment traffic for one
// variant
type TrafficGeneratorConfig struct {
	Visitors          int     `json:"visitors"`
	ConversionRate    float64 `json:"conversion_rate"`
	OrderValueMeanLog float64 `json:"order_value_mean_log"`
	OrderValueSDLog   float64 `json:"order_value_sd_log"`
	SessionMeanSec    float64 `json:"session_mean_sec"`
	Seed              uint64  `json:"seed"`
}

// DefaultTrafficConfig returns a 15% converting variant with ~$55 orders
// and two-minute sessions
func DefaultTrafficConfig() TrafficGeneratorConfig {
	return TrafficGeneratorConfig{
		Visitors:          1000,
		ConversionRate:    0.15,
		OrderValueMeanLog: 4,
		OrderValueSDLog:   0.5,
		SessionMeanSec:    120,
		Seed:              42,
	}
}

// TrafficGenerator draws visitor outcomes for a single variant
type TrafficGenerator struct {
	config TrafficGeneratorConfig
	src    rand.Source
}

// NewTrafficGenerator creates a generator seeded from config.Seed
func NewTrafficGenerator(config TrafficGeneratorConfig) *TrafficGenerator {
	return newTrafficGenerator(config, rand.NewPCG(config.Seed, config.Seed^0x9e3779b97f4a7c15))
}

func newTrafficGenerator(config TrafficGeneratorConfig, src rand.Source) *TrafficGenerator {
	return &TrafficGenerator{config: config, src: src}
}

// Traffic is one batch of visitor outcomes. OrderValues holds one entry
// per converting visitor.
type Traffic struct {
	Conversions    []bool
	OrderValues    []float64
	SessionSeconds []float64
}

// Generate draws the next batch. Successive calls continue the same stream.
func (g *TrafficGenerator) Generate() Traffic {
	convert := distuv.Bernoulli{P: g.config.ConversionRate, Src: g.src}
	order := distuv.LogNormal{Mu: g.config.OrderValueMeanLog, Sigma: g.config.OrderValueSDLog, Src: g.src}
	session := distuv.Exponential{Rate: 1 / g.config.SessionMeanSec, Src: g.src}

	out := Traffic{
		Conversions:    make([]bool, g.config.Visitors),
		SessionSeconds: make([]float64, g.config.Visitors),
	}
	for i := 0; i < g.config.Visitors; i++ {
		out.SessionSeconds[i] = session.Rand()
		if convert.Rand() == 1 {
			out.Conversions[i] = true
			out.OrderValues = append(out.OrderValues, order.Rand())
		}
	}
	return out
}

func (t Traffic) ConversionStats() (suffstats.BernoulliStats, error) {
	return suffstats.BernoulliFromData(t.Conversions)
}

func (t Traffic) OrderValueStats() (suffstats.LogNormalStats, error) {
	return suffstats.LogNormalFromData(t.OrderValues)
}

func (t Traffic) SessionStats() (suffstats.ExponentialStats, error) {
	return suffstats.ExponentialFromData(t.SessionSeconds)
}

// NormalSample draws n values from N(mean, sd^2) with a fixed seed
func NormalSample(n int, mean, sd float64, seed uint64) []float64 {
	d := distuv.Normal{Mu: mean, Sigma: sd, Src: rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)}
	out := make([]float64, n)
	for i := range out {
		out[i] = d.Rand()
	}
	return out
}
