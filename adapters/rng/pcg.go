package rng

import (
	"math/rand/v2"

	"gobayes/domain/core"
	"gobayes/ports"
)

// PCGAdapter derives PCG streams from a base seed
type PCGAdapter struct {
	baseSeed uint64
}

var _ ports.RNGPort = (*PCGAdapter)(nil)

// NewPCGAdapter creates an adapter rooted at baseSeed
func NewPCGAdapter(baseSeed uint64) *PCGAdapter {
	return &PCGAdapter{baseSeed: baseSeed}
}

// BaseSeed returns the root seed
func (a *PCGAdapter) BaseSeed() uint64 { return a.baseSeed }

func (a *PCGAdapter) SeededStream(name string, seed uint64) rand.Source {
	return rand.NewPCG(seed, core.StreamSeed(seed, name, 0))
}

func (a *PCGAdapter) Stream(experimentKey, purpose string, version uint64) rand.Source {
	s1 := core.StreamSeed(a.baseSeed, experimentKey, version)
	s2 := core.StreamSeed(a.baseSeed, purpose, version)
	return rand.NewPCG(s1, s2)
}
