//go:build property
// +build property

package suffstats

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestUpdateProperties checks the streaming merge against one-shot statistics
func TestUpdateProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	sample := gen.SliceOfN(12, gen.Float64Range(-100, 100))

	properties.Property("update equals statistics of the concatenation", prop.ForAll(
		func(xs, ys []float64) bool {
			if len(xs) == 0 || len(ys) == 0 {
				return true
			}
			a, err := NormalFromData(xs)
			if err != nil {
				return false
			}
			b, err := NormalFromData(ys)
			if err != nil {
				return false
			}
			merged, err := Update(a, b)
			if err != nil {
				return false
			}
			all, err := NormalFromData(append(append([]float64{}, xs...), ys...))
			if err != nil {
				return false
			}
			return closeTo(all.Mean(), merged.Mean()) &&
				closeTo(all.StdDev(), merged.StdDev()) &&
				all.N() == merged.N()
		},
		sample,
		sample,
	))

	properties.Property("update is commutative", prop.ForAll(
		func(n1, n2, m1, m2, s1, s2 float64) bool {
			a, err := NewNormalStats(n1, m1, s1)
			if err != nil {
				return false
			}
			b, err := NewNormalStats(n2, m2, s2)
			if err != nil {
				return false
			}
			ab, _ := Update(a, b)
			ba, _ := Update(b, a)
			return closeTo(ab.Mean(), ba.Mean()) && closeTo(ab.StdDev(), ba.StdDev())
		},
		gen.Float64Range(1, 1000),
		gen.Float64Range(1, 1000),
		gen.Float64Range(-10, 10),
		gen.Float64Range(-10, 10),
		gen.Float64Range(0, 5),
		gen.Float64Range(0, 5),
	))

	properties.TestingRun(t)
}

func closeTo(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}
