package ports

import (
	"math/rand/v2"
)

// RNGPort provides seeded random number generation for deterministic operations
type RNGPort interface {
	// SeededStream creates a deterministic source for a named operation
	SeededStream(name string, seed uint64) rand.Source

	// Stream creates the source an experiment uses for one evaluation. The
	// same (experiment, purpose, version) always yields the same draws, so
	// re-evaluating unchanged data reproduces its metrics.
	Stream(experimentKey, purpose string, version uint64) rand.Source
}
