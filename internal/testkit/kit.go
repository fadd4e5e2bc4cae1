package testkit

import (
	"gobayes/adapters/rng"
	"gobayes/internal"
)

// TestKit provides deterministic collaborators for experiment tests
type TestKit struct {
	Seed   uint64
	RNG    *rng.PCGAdapter
	Logger *internal.Logger
}

// NewTestKit creates a kit whose streams all derive from seed. The logger
// only reports errors so test output stays quiet.
func NewTestKit(seed uint64) *TestKit {
	return &TestKit{
		Seed:   seed,
		RNG:    rng.NewPCGAdapter(seed),
		Logger: internal.NewLogger(internal.LogLevelError),
	}
}

// Traffic returns a generator for one variant, seeded from the kit
func (t *TestKit) Traffic(variant string, config TrafficGeneratorConfig) *TrafficGenerator {
	return newTrafficGenerator(config, t.RNG.SeededStream("traffic/"+variant, t.Seed))
}
