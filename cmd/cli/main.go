package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"gobayes/app"
	"gobayes/domain/conjugate"
	"gobayes/domain/core"
	"gobayes/domain/decision"
	"gobayes/domain/effectsize"
	"gobayes/domain/suffstats"
	"gobayes/internal"
	"gobayes/internal/testkit"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gobayes-cli",
		Short: "gobayes CLI for simulating Bayesian A/B experiments",
	}

	rootCmd.AddCommand(
		newSimulateABNCmd(),
		newSimulateBFCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type simulationFlags struct {
	seed     uint64
	runs     int
	maxSteps int
	workers  int
	samples  int
	verbose  bool
}

func (f *simulationFlags) register(cmd *cobra.Command) {
	cmd.Flags().Uint64Var(&f.seed, "seed", 42, "base seed for traffic and Monte Carlo streams")
	cmd.Flags().IntVar(&f.runs, "runs", 100, "number of independent runs")
	cmd.Flags().IntVar(&f.maxSteps, "max-steps", 50, "batches per run before giving up")
	cmd.Flags().IntVar(&f.workers, "workers", 4, "runs simulated concurrently")
	cmd.Flags().IntVar(&f.samples, "samples", 20000, "posterior draws per metric")
	cmd.Flags().BoolVar(&f.verbose, "verbose", false, "print every run outcome")
}

func (f *simulationFlags) kit() *testkit.TestKit {
	kit := testkit.NewTestKit(f.seed)
	if f.verbose {
		kit.Logger = internal.NewLogger(internal.LogLevelDebug)
	}
	return kit
}

func (f *simulationFlags) options(kit *testkit.TestKit) app.ExperimentOptions {
	return app.ExperimentOptions{
		ID:         core.ExperimentID("cli"),
		NumSamples: f.samples,
		Workers:    1,
		RNG:        kit.RNG,
		Logger:     kit.Logger,
	}
}

func (f *simulationFlags) config() app.SimulationConfig {
	return app.SimulationConfig{Runs: f.runs, MaxSteps: f.maxSteps, Workers: f.workers}
}

func newSimulateABNCmd() *cobra.Command {
	var flags simulationFlags
	var rates string
	var visitors int
	var rule string
	var threshold float64

	cmd := &cobra.Command{
		Use:   "simulate-abn",
		Short: "Simulate conversion experiments until a stopping rule commits",
		Long: `Simulate repeated A/B/N conversion experiments with Beta(1,1) priors.

Example: gobayes-cli simulate-abn --rates control=0.15,treatment=0.16 --rule expected_loss --threshold 2e-4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, rateByName, err := parseRates(rates)
			if err != nil {
				return err
			}
			kind, err := decision.ParseRuleKind(rule)
			if err != nil {
				return err
			}

			kit := flags.kit()
			variants := make([]app.Variant, len(names))
			for i, name := range names {
				m, err := conjugate.NewBernoulliModel(conjugate.DefaultBeta())
				if err != nil {
					return err
				}
				variants[i] = app.Variant{Name: name, Model: m}
			}
			template, err := app.NewExperimentABN(decision.StoppingRule{Kind: kind, Threshold: threshold}, len(variants), variants, flags.options(kit))
			if err != nil {
				return err
			}

			gens := make([]map[string]*testkit.TrafficGenerator, flags.runs)
			for run := range gens {
				gens[run] = make(map[string]*testkit.TrafficGenerator, len(names))
				for _, name := range names {
					cfg := testkit.DefaultTrafficConfig()
					cfg.Visitors = visitors
					cfg.ConversionRate = rateByName[name]
					gens[run][name] = kit.Traffic(fmt.Sprintf("%s/run-%d", name, run), cfg)
				}
			}
			next := func(run, step int) (map[string]suffstats.Statistics, error) {
				batch := make(map[string]suffstats.Statistics, len(names))
				for name, g := range gens[run] {
					s, err := g.Generate().ConversionStats()
					if err != nil {
						return nil, err
					}
					batch[name] = s
				}
				return batch, nil
			}

			outcomes, err := app.SimulateABN(cmd.Context(), template, flags.config(), next)
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), outcomes, kit.Logger)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&rates, "rates", "control=0.15,treatment=0.16", "true conversion rate per variant, name=rate pairs")
	cmd.Flags().IntVar(&visitors, "visitors", 1000, "visitors per variant per batch")
	cmd.Flags().StringVar(&rule, "rule", decision.RuleExpectedLoss.String(), "expected_loss or probability_beat_all")
	cmd.Flags().Float64Var(&threshold, "threshold", 2e-4, "stopping-rule threshold")
	return cmd
}

func newSimulateBFCmd() *cobra.Command {
	var flags simulationFlags
	var effect float64
	var batchSize int
	var twoSided bool
	var threshold float64
	var priorScale float64

	cmd := &cobra.Command{
		Use:   "simulate-bf",
		Short: "Simulate one-sample Bayes-factor tests on normal data",
		Long: `Simulate repeated Student-t Bayes-factor tests where each batch is drawn
from N(effect, 1).

Example: gobayes-cli simulate-bf --effect 0.2 --batch-size 50 --two-sided --threshold 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := effectsize.NewStudentTEffectSize(priorScale, 1e-8, effectsize.DefaultPriorProbNull)
			if err != nil {
				return err
			}
			rule := decision.OneSidedBFThresh(threshold)
			if twoSided {
				rule = decision.TwoSidedBFThresh(threshold)
			}

			kit := flags.kit()
			template, err := app.NewExperimentBF(model, rule, flags.options(kit))
			if err != nil {
				return err
			}
			next := func(run, step int) (suffstats.Statistics, error) {
				seed := core.StreamSeed(flags.seed, fmt.Sprintf("bf/run-%d", run), uint64(step))
				return suffstats.NormalFromData(testkit.NormalSample(batchSize, effect, 1, seed))
			}

			outcomes, err := app.SimulateBF(cmd.Context(), template, flags.config(), next)
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), outcomes, kit.Logger)
		},
	}

	flags.register(cmd)
	cmd.Flags().Float64Var(&effect, "effect", 0.2, "true standardised effect size")
	cmd.Flags().IntVar(&batchSize, "batch-size", 50, "observations per batch")
	cmd.Flags().BoolVar(&twoSided, "two-sided", false, "allow committing to the null")
	cmd.Flags().Float64Var(&threshold, "threshold", 10, "Bayes-factor threshold")
	cmd.Flags().Float64Var(&priorScale, "prior-scale", effectsize.DefaultPriorScale, "Cauchy prior scale r")
	return cmd
}

// parseRates reads "a=0.1,b=0.2", keeping declaration order
func parseRates(s string) ([]string, map[string]float64, error) {
	var names []string
	rates := make(map[string]float64)
	for _, pair := range strings.Split(s, ",") {
		name, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			return nil, nil, fmt.Errorf("invalid rate %q, expected name=rate", pair)
		}
		rate, err := strconv.ParseFloat(value, 64)
		if err != nil || rate < 0 || rate > 1 {
			return nil, nil, fmt.Errorf("invalid rate %q for %s", value, name)
		}
		if _, dup := rates[name]; dup {
			return nil, nil, fmt.Errorf("duplicate variant %s", name)
		}
		names = append(names, name)
		rates[name] = rate
	}
	return names, rates, nil
}

// report prints the summary, plus every run outcome when logging at debug
func report(w io.Writer, outcomes []app.RunOutcome, logger *internal.Logger) error {
	summary, err := app.Summarize(outcomes)
	if err != nil {
		return err
	}
	out := map[string]any{"summary": summary}
	if logger.GetLevel() >= internal.LogLevelDebug {
		out["runs"] = outcomes
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
