// Package decision turns posterior draws into comparison metrics and
// applies stopping rules to them.
package decision

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"gobayes/domain/conjugate"
	"gobayes/domain/core"
)

// LossFunc scores choosing a when b was the draw of the rival
type LossFunc func(a, b float64) float64

// UpliftLoss is max(b-a, 0): what is given up by picking a over a better b
func UpliftLoss(a, b float64) float64 {
	if b > a {
		return b - a
	}
	return 0
}

// ExpectedLoss averages loss(a[i], b[i]) over paired draws
func ExpectedLoss(a, b []float64, loss LossFunc) (float64, error) {
	if len(a) != len(b) {
		return 0, core.NewShapeMismatchError("expected loss draws", len(a), len(b))
	}
	if len(a) == 0 {
		return 0, core.NewPreconditionError("draws", "expected loss needs at least one draw")
	}
	if loss == nil {
		loss = UpliftLoss
	}
	sum := 0.0
	for i := range a {
		sum += loss(a[i], b[i])
	}
	return sum / float64(len(a)), nil
}

// Candidate is a named model taking part in a comparison
type Candidate struct {
	Name  string
	Model conjugate.Model
}

// Sampler configures Monte Carlo comparisons
type Sampler struct {
	NumSamples int
	Workers    int
	Loss       LossFunc
}

func (s Sampler) validate(cands []Candidate) error {
	if s.NumSamples <= 0 {
		return core.NewPreconditionError("numSamples", fmt.Sprintf("must be positive, got %d", s.NumSamples))
	}
	if len(cands) < 2 {
		return core.NewConfigurationError(fmt.Sprintf("comparisons need at least two candidates, got %d", len(cands)))
	}
	return nil
}

func (s Sampler) group(ctx context.Context) (*errgroup.Group, context.Context) {
	g, ctx := errgroup.WithContext(ctx)
	if s.Workers > 0 {
		g.SetLimit(s.Workers)
	}
	return g, ctx
}

// ExpectedLosses returns, for each candidate, the largest expected uplift
// loss against any rival. Every ordered pair draws fresh, independent
// posterior samples; the worst rival is used rather than an average.
func (s Sampler) ExpectedLosses(ctx context.Context, cands []Candidate, src rand.Source) ([]float64, error) {
	if err := s.validate(cands); err != nil {
		return nil, err
	}

	k := len(cands)
	pairLoss := make([][]float64, k)
	for i := range pairLoss {
		pairLoss[i] = make([]float64, k)
	}

	// Sources are split up front so results do not depend on scheduling.
	sources := Split(src, k*k)
	g, ctx := s.group(ctx)
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			if i == j {
				continue
			}
			pairSrc := sources[i*k+j]
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				a, err := cands[i].Model.Sample(s.NumSamples, pairSrc)
				if err != nil {
					return fmt.Errorf("sample %s: %w", cands[i].Name, err)
				}
				b, err := cands[j].Model.Sample(s.NumSamples, pairSrc)
				if err != nil {
					return fmt.Errorf("sample %s: %w", cands[j].Name, err)
				}
				l, err := ExpectedLoss(a.Mean, b.Mean, s.Loss)
				if err != nil {
					return err
				}
				pairLoss[i][j] = l
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]float64, k)
	for i := 0; i < k; i++ {
		worst := math.Inf(-1)
		for j := 0; j < k; j++ {
			if i != j && pairLoss[i][j] > worst {
				worst = pairLoss[i][j]
			}
		}
		out[i] = worst
	}
	return out, nil
}

// JointDraws samples every candidate into one column of a
// NumSamples x len(cands) matrix
func (s Sampler) JointDraws(ctx context.Context, cands []Candidate, src rand.Source) (*mat.Dense, error) {
	if err := s.validate(cands); err != nil {
		return nil, err
	}

	cols := make([][]float64, len(cands))
	sources := Split(src, len(cands))
	g, ctx := s.group(ctx)
	for i := range cands {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			d, err := cands[i].Model.Sample(s.NumSamples, sources[i])
			if err != nil {
				return fmt.Errorf("sample %s: %w", cands[i].Name, err)
			}
			cols[i] = d.Mean
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	draws := mat.NewDense(s.NumSamples, len(cands), nil)
	for i, col := range cols {
		draws.SetCol(i, col)
	}
	return draws, nil
}

// ProbabilitiesBeatAll returns, for each candidate, the share of joint draws
// in which it is at least as large as every rival in the same row
func (s Sampler) ProbabilitiesBeatAll(ctx context.Context, cands []Candidate, src rand.Source) ([]float64, error) {
	draws, err := s.JointDraws(ctx, cands, src)
	if err != nil {
		return nil, err
	}
	return ProbabilityBeatAll(draws), nil
}

// ProbabilityBeatAll counts, per column, the rows where that column holds
// a maximum. Tied maxima count for every tied column.
func ProbabilityBeatAll(draws mat.Matrix) []float64 {
	rows, cols := draws.Dims()
	wins := make([]float64, cols)
	if rows == 0 {
		return wins
	}
	row := make([]float64, cols)
	for r := 0; r < rows; r++ {
		mat.Row(row, r, draws)
		for ref := 0; ref < cols; ref++ {
			beats := true
			for other := 0; other < cols; other++ {
				if other != ref && row[ref] < row[other] {
					beats = false
					break
				}
			}
			if beats {
				wins[ref]++
			}
		}
	}
	for i := range wins {
		wins[i] /= float64(rows)
	}
	return wins
}

// Split derives n independent PCG sources from src, consuming src
// sequentially so the result is reproducible
func Split(src rand.Source, n int) []rand.Source {
	out := make([]rand.Source, n)
	for i := range out {
		out[i] = rand.NewPCG(src.Uint64(), src.Uint64())
	}
	return out
}
