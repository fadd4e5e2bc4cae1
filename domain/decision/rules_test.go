package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gobayes/domain/core"
)

func TestSelectByExpectedLoss(t *testing.T) {
	idx, ok := SelectByExpectedLoss([]float64{0.01, 0.0001, 0.0001}, 2e-4)
	assert.Equal(t, 1, idx)
	assert.True(t, ok)

	idx, ok = SelectByExpectedLoss([]float64{0.01, 0.003}, 2e-4)
	assert.Equal(t, 1, idx)
	assert.False(t, ok)

	idx, ok = SelectByExpectedLoss(nil, 1)
	assert.Equal(t, -1, idx)
	assert.False(t, ok)
}

func TestSelectByProbabilityBeatAll(t *testing.T) {
	idx, ok := SelectByProbabilityBeatAll([]float64{0.02, 0.97, 0.01}, 0.95)
	assert.Equal(t, 1, idx)
	assert.True(t, ok)

	idx, ok = SelectByProbabilityBeatAll([]float64{0.5, 0.5}, 0.95)
	assert.Equal(t, 0, idx)
	assert.False(t, ok)
}

func TestEvaluateBayesFactor(t *testing.T) {
	cases := []struct {
		rule    StoppingRule
		bf      float64
		want    string
		decided bool
	}{
		{OneSidedBFThresh(3), 5, Alternative, true},
		{OneSidedBFThresh(3), 0.01, "", false},
		{TwoSidedBFThresh(3), 5, Alternative, true},
		{TwoSidedBFThresh(3), 0.2, Null, true},
		{TwoSidedBFThresh(3), 1, "", false},
		{ExpectedLossThresh(3), 5, "", false},
	}
	for _, tc := range cases {
		got, ok := EvaluateBayesFactor(tc.rule, tc.bf)
		assert.Equal(t, tc.want, got, tc.rule.String())
		assert.Equal(t, tc.decided, ok, tc.rule.String())
	}
}

func TestStoppingRule_Validate(t *testing.T) {
	assert.NoError(t, ExpectedLossThresh(2e-4).Validate())
	assert.NoError(t, ProbabilityBeatAllThresh(0.95).Validate())
	assert.NoError(t, TwoSidedBFThresh(10).Validate())

	assert.True(t, core.IsConfigurationError(ExpectedLossThresh(0).Validate()))
	assert.True(t, core.IsConfigurationError(ProbabilityBeatAllThresh(1).Validate()))
	assert.True(t, core.IsConfigurationError(OneSidedBFThresh(-1).Validate()))
	assert.True(t, core.IsConfigurationError(StoppingRule{Kind: RuleKind(42), Threshold: 1}.Validate()))
}

func TestParseRuleKind(t *testing.T) {
	k, err := ParseRuleKind("probability_beat_all")
	require.NoError(t, err)
	assert.Equal(t, RuleProbabilityBeatAll, k)

	_, err = ParseRuleKind("coin_flip")
	assert.True(t, core.IsConfigurationError(err))
}
