package app

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gobayes/domain/core"
	"gobayes/domain/decision"
	"gobayes/domain/effectsize"
	"gobayes/domain/suffstats"
	"gobayes/internal/testkit"
)

var sleepScores = []float64{-1.2, -2.4, -1.3, -1.3, 0.0, -1.0, -1.8, -0.8, -4.6, -1.4}

func newStudentT(t *testing.T) effectsize.Model {
	t.Helper()
	m, err := effectsize.NewStudentTEffectSize(effectsize.DefaultPriorScale, 1e-8, effectsize.DefaultPriorProbNull)
	require.NoError(t, err)
	return m
}

func TestNewExperimentBF_Validation(t *testing.T) {
	kit := testkit.NewTestKit(1)

	_, err := NewExperimentBF(nil, decision.OneSidedBFThresh(3), testOptions(kit, "bf"))
	assert.True(t, core.IsConfigurationError(err), "got %v", err)

	_, err = NewExperimentBF(newStudentT(t), decision.ExpectedLossThresh(1e-3), testOptions(kit, "bf"))
	assert.True(t, core.IsConfigurationError(err), "got %v", err)

	_, err = NewExperimentBF(newStudentT(t), decision.TwoSidedBFThresh(0.5), testOptions(kit, "bf"))
	assert.Error(t, err)
}

func TestExperimentBF_SleepScores(t *testing.T) {
	kit := testkit.NewTestKit(1)
	exp, err := NewExperimentBF(newStudentT(t), decision.TwoSidedBFThresh(10), testOptions(kit, "sleep"))
	require.NoError(t, err)

	_, err = exp.Decide()
	assert.True(t, core.IsPreconditionError(err), "deciding before any data: %v", err)

	// Two batches merge to the same statistics as the whole sample.
	first, err := suffstats.NormalFromData(sleepScores[:4])
	require.NoError(t, err)
	rest, err := suffstats.NormalFromData(sleepScores[4:])
	require.NoError(t, err)
	require.NoError(t, exp.Update(first))
	require.NoError(t, exp.Update(rest))
	assert.Equal(t, uint64(2), exp.Version())

	d, err := exp.Decide()
	require.NoError(t, err)
	bf := d.Metrics.Values[MetricBayesFactor]
	assert.InEpsilon(t, 17.259, bf, 1e-3)
	assert.True(t, d.Decided)
	assert.Equal(t, decision.Alternative, d.Winner)

	again, err := exp.Decide()
	require.NoError(t, err)
	assert.Equal(t, d, again)
	assert.Equal(t, 0.5, exp.PriorProbNull())
}

func TestExperimentBF_NormalEffectSize(t *testing.T) {
	kit := testkit.NewTestKit(1)
	model, err := effectsize.NewNormalEffectSize(0.5, 1/32.7, effectsize.DefaultPriorProbNull)
	require.NoError(t, err)
	exp, err := NewExperimentBF(model, decision.OneSidedBFThresh(3), testOptions(kit, "normal"))
	require.NoError(t, err)

	s, err := suffstats.NewNormalStats(1.0449e8, 0.500177, 0.5)
	require.NoError(t, err)
	require.NoError(t, exp.Update(s))

	d, err := exp.Decide()
	require.NoError(t, err)
	assert.InEpsilon(t, 2.2303, d.Metrics.Values[MetricBayesFactor], 1e-3)
	assert.False(t, d.Decided, "BF10 of 2.23 is below 3")
}

func TestExperimentBF_TwoSidedCommitsNull(t *testing.T) {
	kit := testkit.NewTestKit(1)
	exp, err := NewExperimentBF(newStudentT(t), decision.TwoSidedBFThresh(3), testOptions(kit, "null"))
	require.NoError(t, err)

	// A large sample centred exactly on zero carries strong evidence for the null.
	s, err := suffstats.NewNormalStats(400, 0, 1)
	require.NoError(t, err)
	require.NoError(t, exp.Update(s))

	d, err := exp.Decide()
	require.NoError(t, err)
	assert.Less(t, d.Metrics.Values[MetricBayesFactor], 1.0/3)
	assert.True(t, d.Decided)
	assert.Equal(t, decision.Null, d.Winner)
}

func TestExperimentBF_TwoSample(t *testing.T) {
	kit := testkit.NewTestKit(1)
	exp, err := NewExperimentBF(newStudentT(t), decision.OneSidedBFThresh(3), testOptions(kit, "twosample"))
	require.NoError(t, err)

	for seed := uint64(1); seed <= 3; seed++ {
		a, err := suffstats.NormalFromData(testkit.NormalSample(30, 1.0, 1, seed))
		require.NoError(t, err)
		b, err := suffstats.NormalFromData(testkit.NormalSample(30, 0.0, 1, seed+100))
		require.NoError(t, err)
		batch, err := suffstats.NewTwoSample(a, b)
		require.NoError(t, err)
		require.NoError(t, exp.Update(batch))
	}

	acc, ok := exp.Statistics().(suffstats.TwoSample)
	require.True(t, ok)
	assert.Equal(t, 90.0, acc.First().N())

	bf, err := exp.BayesFactor()
	require.NoError(t, err)
	assert.Greater(t, bf, 100.0, "a one-sd shift over 90 per group is decisive")
	assert.False(t, math.IsInf(bf, 0))

	single, err := suffstats.NewNormalStats(10, 0, 1)
	require.NoError(t, err)
	err = exp.Update(single)
	assert.True(t, core.IsPreconditionError(err), "mixing statistics kinds: %v", err)
}

func TestExperimentBF_RejectsOtherFamilies(t *testing.T) {
	kit := testkit.NewTestKit(1)
	exp, err := NewExperimentBF(newStudentT(t), decision.OneSidedBFThresh(3), testOptions(kit, "family"))
	require.NoError(t, err)

	s, err := suffstats.NewBernoulliStats(1, 2)
	require.NoError(t, err)
	assert.True(t, core.IsPreconditionError(exp.Update(s)))
	assert.True(t, core.IsPreconditionError(exp.Update(nil)))
	assert.Nil(t, exp.Statistics())
}

func TestExperimentBF_CloneIsIndependent(t *testing.T) {
	kit := testkit.NewTestKit(1)
	exp, err := NewExperimentBF(newStudentT(t), decision.OneSidedBFThresh(3), testOptions(kit, "clone"))
	require.NoError(t, err)
	s, err := suffstats.NormalFromData(sleepScores)
	require.NoError(t, err)
	require.NoError(t, exp.Update(s))

	cp := exp.Clone()
	require.NoError(t, cp.Update(s))
	assert.Equal(t, 10.0, exp.Statistics().(suffstats.NormalStats).N())
	assert.Equal(t, 20.0, cp.Statistics().(suffstats.NormalStats).N())
}
