package app

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gobayes/domain/decision"
	"gobayes/domain/effectsize"
	"gobayes/domain/suffstats"
	"gobayes/internal/testkit"
)

func trafficBatches(kit *testkit.TestKit, runs int, rates map[string]float64) ABNBatchFunc {
	gens := make([]map[string]*testkit.TrafficGenerator, runs)
	for run := range gens {
		gens[run] = make(map[string]*testkit.TrafficGenerator, len(rates))
		for name, rate := range rates {
			cfg := testkit.DefaultTrafficConfig()
			cfg.ConversionRate = rate
			gens[run][name] = kit.Traffic(fmt.Sprintf("%s/run-%d", name, run), cfg)
		}
	}
	return func(run, step int) (map[string]suffstats.Statistics, error) {
		batch := make(map[string]suffstats.Statistics, len(rates))
		for name, g := range gens[run] {
			s, err := g.Generate().ConversionStats()
			if err != nil {
				return nil, err
			}
			batch[name] = s
		}
		return batch, nil
	}
}

func TestSimulateABN_ReproducibleAcrossWorkerCounts(t *testing.T) {
	ctx := context.Background()
	rates := map[string]float64{"control": 0.10, "treatment": 0.13}

	run := func(workers int) []RunOutcome {
		kit := testkit.NewTestKit(42)
		template := newAB(t, kit, "sim", decision.ExpectedLossThresh(5e-4))
		template.opts.NumSamples = 4000
		out, err := SimulateABN(ctx, template, SimulationConfig{Runs: 8, MaxSteps: 40, Workers: workers},
			trafficBatches(kit, 8, rates))
		require.NoError(t, err)
		return out
	}

	serial := run(1)
	assert.Equal(t, serial, run(4))
	for i, o := range serial {
		assert.Equal(t, i, o.Run)
		assert.GreaterOrEqual(t, o.Steps, 1)
	}

	sum, err := Summarize(serial)
	require.NoError(t, err)
	assert.Equal(t, 8, sum.Runs)
	assert.Greater(t, sum.WinRates["treatment"], 0.5, "a three-point lift should usually win")
	total := 0.0
	for _, w := range sum.Winners() {
		total += sum.WinRates[w]
	}
	assert.InDelta(t, 1, total, 1e-12)
}

func TestSimulateABN_TemplateUntouched(t *testing.T) {
	ctx := context.Background()
	kit := testkit.NewTestKit(3)
	template := newAB(t, kit, "untouched", decision.ExpectedLossThresh(1e-9))
	template.opts.NumSamples = 1000

	out, err := SimulateABN(ctx, template, SimulationConfig{Runs: 2, MaxSteps: 3},
		trafficBatches(kit, 2, map[string]float64{"control": 0.1, "treatment": 0.1}))
	require.NoError(t, err)
	for _, o := range out {
		assert.Equal(t, NoWinner, o.Winner)
		assert.Equal(t, 3, o.Steps)
	}
	assert.Zero(t, template.Version())
}

func TestSimulateBF(t *testing.T) {
	ctx := context.Background()
	kit := testkit.NewTestKit(4)
	model, err := effectsize.NewStudentTEffectSize(effectsize.DefaultPriorScale, 1e-8, effectsize.DefaultPriorProbNull)
	require.NoError(t, err)
	template, err := NewExperimentBF(model, decision.OneSidedBFThresh(10), testOptions(kit, "bfsim"))
	require.NoError(t, err)

	next := func(run, step int) (suffstats.Statistics, error) {
		data := testkit.NormalSample(20, 0.8, 1, uint64(run*1000+step))
		return suffstats.NormalFromData(data)
	}
	out, err := SimulateBF(ctx, template, SimulationConfig{Runs: 4, MaxSteps: 10, Workers: 2}, next)
	require.NoError(t, err)
	for _, o := range out {
		assert.Equal(t, decision.Alternative, o.Winner, "run %d", o.Run)
	}
	assert.Nil(t, template.Statistics())
}

func TestSimulate_Validation(t *testing.T) {
	kit := testkit.NewTestKit(1)
	template := newAB(t, kit, "bad", decision.ExpectedLossThresh(1e-3))
	_, err := SimulateABN(context.Background(), template, SimulationConfig{Runs: 0, MaxSteps: 1}, nil)
	assert.Error(t, err)

	_, err = Summarize(nil)
	assert.Error(t, err)
}
