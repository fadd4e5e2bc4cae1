package app

import (
	"context"
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"gobayes/domain/core"
	"gobayes/domain/suffstats"
)

// NoWinner marks a run that hit MaxSteps without a decision
const NoWinner = "none"

// SimulationConfig drives repeated independent runs of one experiment
type SimulationConfig struct {
	Runs     int
	MaxSteps int
	Workers  int
}

func (c SimulationConfig) validate() error {
	if c.Runs <= 0 {
		return core.NewConfigurationError(fmt.Sprintf("runs must be positive, got %d", c.Runs))
	}
	if c.MaxSteps <= 0 {
		return core.NewConfigurationError(fmt.Sprintf("max steps must be positive, got %d", c.MaxSteps))
	}
	return nil
}

// RunOutcome is the (stepCount, winner) pair recorded for one run
type RunOutcome struct {
	Run    int    `json:"run"`
	Steps  int    `json:"steps"`
	Winner string `json:"winner"`
}

// ABNBatchFunc returns the batch fed to run's experiment at step (1-based).
// It is called concurrently for different runs but never for the same run.
type ABNBatchFunc func(run, step int) (map[string]suffstats.Statistics, error)

// BFBatchFunc is ABNBatchFunc for Bayes-factor experiments
type BFBatchFunc func(run, step int) (suffstats.Statistics, error)

// SimulateABN runs cfg.Runs independent copies of template, alternating
// Update and Decide until a winner is committed or MaxSteps is reached.
// Every run owns its clone and its own random streams, so outcomes do not
// depend on scheduling.
func SimulateABN(ctx context.Context, template *ExperimentABN, cfg SimulationConfig, next ABNBatchFunc) ([]RunOutcome, error) {
	return simulate(ctx, cfg, func(ctx context.Context, run int) (RunOutcome, error) {
		exp := template.Clone()
		exp.opts.ID = runID(template.ID(), run)
		for step := 1; step <= cfg.MaxSteps; step++ {
			batch, err := next(run, step)
			if err != nil {
				return RunOutcome{}, err
			}
			if err := exp.Update(batch); err != nil {
				return RunOutcome{}, err
			}
			d, err := exp.Decide(ctx)
			if err != nil {
				return RunOutcome{}, err
			}
			if d.Decided {
				return RunOutcome{Run: run, Steps: step, Winner: d.Winner}, nil
			}
		}
		return RunOutcome{Run: run, Steps: cfg.MaxSteps, Winner: NoWinner}, nil
	})
}

// SimulateBF is SimulateABN for Bayes-factor experiments
func SimulateBF(ctx context.Context, template *ExperimentBF, cfg SimulationConfig, next BFBatchFunc) ([]RunOutcome, error) {
	return simulate(ctx, cfg, func(ctx context.Context, run int) (RunOutcome, error) {
		exp := template.Clone()
		exp.opts.ID = runID(template.ID(), run)
		for step := 1; step <= cfg.MaxSteps; step++ {
			if err := ctx.Err(); err != nil {
				return RunOutcome{}, err
			}
			batch, err := next(run, step)
			if err != nil {
				return RunOutcome{}, err
			}
			if err := exp.Update(batch); err != nil {
				return RunOutcome{}, err
			}
			d, err := exp.Decide()
			if err != nil {
				return RunOutcome{}, err
			}
			if d.Decided {
				return RunOutcome{Run: run, Steps: step, Winner: d.Winner}, nil
			}
		}
		return RunOutcome{Run: run, Steps: cfg.MaxSteps, Winner: NoWinner}, nil
	})
}

func runID(base core.ExperimentID, run int) core.ExperimentID {
	return core.ExperimentID(fmt.Sprintf("%s/run-%d", base, run))
}

func simulate(ctx context.Context, cfg SimulationConfig, runOne func(context.Context, int) (RunOutcome, error)) ([]RunOutcome, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	out := make([]RunOutcome, cfg.Runs)
	g, ctx := errgroup.WithContext(ctx)
	if cfg.Workers > 0 {
		g.SetLimit(cfg.Workers)
	}
	for run := 0; run < cfg.Runs; run++ {
		g.Go(func() error {
			o, err := runOne(ctx, run)
			if err != nil {
				return fmt.Errorf("run %d: %w", run, err)
			}
			out[run] = o
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// SimulationSummary aggregates run outcomes
type SimulationSummary struct {
	Runs        int                `json:"runs"`
	Decided     int                `json:"decided"`
	WinRates    map[string]float64 `json:"win_rates"`
	MeanSteps   float64            `json:"mean_steps"`
	MedianSteps float64            `json:"median_steps"`
	P90Steps    float64            `json:"p90_steps"`
}

// Summarize computes win rates over all runs (including NoWinner) and step
// statistics over every run
func Summarize(outcomes []RunOutcome) (SimulationSummary, error) {
	if len(outcomes) == 0 {
		return SimulationSummary{}, core.NewPreconditionError("outcomes", "at least one run is required")
	}
	sum := SimulationSummary{Runs: len(outcomes), WinRates: make(map[string]float64)}
	steps := make(stats.Float64Data, len(outcomes))
	for i, o := range outcomes {
		steps[i] = float64(o.Steps)
		sum.WinRates[o.Winner]++
		if o.Winner != NoWinner {
			sum.Decided++
		}
	}
	for k := range sum.WinRates {
		sum.WinRates[k] /= float64(len(outcomes))
	}

	var err error
	if sum.MeanSteps, err = steps.Mean(); err != nil {
		return SimulationSummary{}, err
	}
	if sum.MedianSteps, err = steps.Median(); err != nil {
		return SimulationSummary{}, err
	}
	if sum.P90Steps, err = steps.Percentile(90); err != nil {
		return SimulationSummary{}, err
	}
	return sum, nil
}

// Winners returns the distinct winners in sorted order
func (s SimulationSummary) Winners() []string {
	out := make([]string, 0, len(s.WinRates))
	for k := range s.WinRates {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
