package decision

import (
	"fmt"
	"math"

	"gobayes/domain/core"
)

// RuleKind enumerates the stopping rules
type RuleKind int

const (
	RuleExpectedLoss RuleKind = iota
	RuleProbabilityBeatAll
	RuleOneSidedBayesFactor
	RuleTwoSidedBayesFactor
)

func (k RuleKind) String() string {
	switch k {
	case RuleExpectedLoss:
		return "expected_loss"
	case RuleProbabilityBeatAll:
		return "probability_beat_all"
	case RuleOneSidedBayesFactor:
		return "one_sided_bayes_factor"
	case RuleTwoSidedBayesFactor:
		return "two_sided_bayes_factor"
	default:
		return "unknown"
	}
}

// ParseRuleKind is the inverse of RuleKind.String
func ParseRuleKind(s string) (RuleKind, error) {
	for k := RuleExpectedLoss; k <= RuleTwoSidedBayesFactor; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, core.NewConfigurationError(fmt.Sprintf("unknown stopping rule %q", s))
}

// StoppingRule pairs a rule kind with its threshold
type StoppingRule struct {
	Kind      RuleKind
	Threshold float64
}

func ExpectedLossThresh(threshold float64) StoppingRule {
	return StoppingRule{Kind: RuleExpectedLoss, Threshold: threshold}
}

func ProbabilityBeatAllThresh(threshold float64) StoppingRule {
	return StoppingRule{Kind: RuleProbabilityBeatAll, Threshold: threshold}
}

func OneSidedBFThresh(threshold float64) StoppingRule {
	return StoppingRule{Kind: RuleOneSidedBayesFactor, Threshold: threshold}
}

func TwoSidedBFThresh(threshold float64) StoppingRule {
	return StoppingRule{Kind: RuleTwoSidedBayesFactor, Threshold: threshold}
}

// Validate checks the threshold range for the rule kind
func (r StoppingRule) Validate() error {
	if math.IsNaN(r.Threshold) || math.IsInf(r.Threshold, 0) {
		return core.NewConfigurationError(fmt.Sprintf("%s threshold must be finite, got %g", r.Kind, r.Threshold))
	}
	switch r.Kind {
	case RuleExpectedLoss:
		if r.Threshold <= 0 {
			return core.NewConfigurationError(fmt.Sprintf("expected loss threshold must be positive, got %g", r.Threshold))
		}
	case RuleProbabilityBeatAll:
		if r.Threshold <= 0 || r.Threshold >= 1 {
			return core.NewConfigurationError(fmt.Sprintf("probability threshold must lie in (0, 1), got %g", r.Threshold))
		}
	case RuleOneSidedBayesFactor, RuleTwoSidedBayesFactor:
		if r.Threshold <= 0 {
			return core.NewConfigurationError(fmt.Sprintf("bayes factor threshold must be positive, got %g", r.Threshold))
		}
	default:
		return core.NewConfigurationError(fmt.Sprintf("unknown stopping rule %d", int(r.Kind)))
	}
	return nil
}

// IsBayesFactor reports whether the rule applies to Bayes-factor experiments
func (r StoppingRule) IsBayesFactor() bool {
	return r.Kind == RuleOneSidedBayesFactor || r.Kind == RuleTwoSidedBayesFactor
}

func (r StoppingRule) String() string {
	return fmt.Sprintf("%s(%g)", r.Kind, r.Threshold)
}

// SelectByExpectedLoss picks the variant with the smallest expected loss and
// commits only if that loss is below the threshold. Ties keep the earliest
// variant.
func SelectByExpectedLoss(losses []float64, threshold float64) (int, bool) {
	if len(losses) == 0 {
		return -1, false
	}
	best := 0
	for i, l := range losses[1:] {
		if l < losses[best] {
			best = i + 1
		}
	}
	return best, losses[best] < threshold
}

// SelectByProbabilityBeatAll picks the variant most likely to beat all
// others and commits only if that probability exceeds the threshold. Ties
// keep the earliest variant.
func SelectByProbabilityBeatAll(probs []float64, threshold float64) (int, bool) {
	if len(probs) == 0 {
		return -1, false
	}
	best := 0
	for i, p := range probs[1:] {
		if p > probs[best] {
			best = i + 1
		}
	}
	return best, probs[best] > threshold
}

// Hypothesis outcomes of a Bayes-factor experiment
const (
	Alternative = "alternative"
	Null        = "null"
)

// EvaluateBayesFactor commits to the alternative when bf10 exceeds the
// threshold and, for two-sided rules, to the null when bf10 is below its
// reciprocal.
func EvaluateBayesFactor(rule StoppingRule, bf10 float64) (string, bool) {
	switch rule.Kind {
	case RuleOneSidedBayesFactor:
		if bf10 > rule.Threshold {
			return Alternative, true
		}
	case RuleTwoSidedBayesFactor:
		if bf10 > rule.Threshold {
			return Alternative, true
		}
		if bf10 < 1/rule.Threshold {
			return Null, true
		}
	}
	return "", false
}
