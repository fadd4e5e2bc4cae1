package effectsize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gobayes/domain/core"
	"gobayes/domain/suffstats"
)

var sleepScores = []float64{-1.2, -2.4, -1.3, -1.3, 0.0, -1.0, -1.8, -0.8, -4.6, -1.4}

func TestNormalEffectSize_LargeSampleScenario(t *testing.T) {
	s, err := suffstats.NewNormalStats(1.0449e8, 0.500177, 0.5)
	require.NoError(t, err)
	m, err := NewNormalEffectSize(0.5, 1/32.7, DefaultPriorProbNull)
	require.NoError(t, err)

	bf, err := m.BayesFactor(s)
	require.NoError(t, err)
	assert.InEpsilon(t, 2.2303, bf, 1e-3)
}

func TestNormalEffectSize_PriorOddsScaleTheFactor(t *testing.T) {
	s, err := suffstats.NewNormalStats(400, 0.1, 1)
	require.NoError(t, err)

	even, err := NewNormalEffectSize(0, 0.5, 0.5)
	require.NoError(t, err)
	skeptical, err := NewNormalEffectSize(0, 0.5, 0.75)
	require.NoError(t, err)

	bfEven, err := even.BayesFactor(s)
	require.NoError(t, err)
	bfSkeptical, err := skeptical.BayesFactor(s)
	require.NoError(t, err)
	assert.InEpsilon(t, bfEven/3, bfSkeptical, 1e-12)
}

func TestNormalEffectSize_TwoSampleUsesMergedStatistics(t *testing.T) {
	a, err := suffstats.NewNormalStats(500, 1.2, 1)
	require.NoError(t, err)
	b, err := suffstats.NewNormalStats(500, 1.0, 1)
	require.NoError(t, err)
	pair, err := suffstats.NewTwoSample(a, b)
	require.NoError(t, err)
	merged, err := pair.Merge()
	require.NoError(t, err)

	m, err := NewNormalEffectSize(0, 0.5, 0.5)
	require.NoError(t, err)
	fromPair, err := m.BayesFactor(pair)
	require.NoError(t, err)
	fromMerged, err := m.BayesFactor(merged)
	require.NoError(t, err)
	assert.Equal(t, fromMerged, fromPair)
}

func TestStudentTEffectSize_SleepScenario(t *testing.T) {
	s, err := suffstats.NormalFromData(sleepScores)
	require.NoError(t, err)
	m, err := NewStudentTEffectSize(DefaultPriorScale, 1e-8, DefaultPriorProbNull)
	require.NoError(t, err)

	bf, err := m.BayesFactor(s)
	require.NoError(t, err)
	assert.InEpsilon(t, 17.259, bf, 1e-3)

	ts, err := suffstats.OneSampleT(s, 0)
	require.NoError(t, err)
	direct, err := m.BayesFactorT(ts)
	require.NoError(t, err)
	assert.Equal(t, bf, direct)
}

func TestStudentTEffectSize_NullDataFavoursNull(t *testing.T) {
	m, err := NewStudentTEffectSize(DefaultPriorScale, 1e-8, DefaultPriorProbNull)
	require.NoError(t, err)

	bf, err := m.BayesFactorT(suffstats.TStatistic{T: 0, DOF: 99, N: 100})
	require.NoError(t, err)
	assert.Less(t, bf, 1.0/3)
	assert.Greater(t, bf, 0.0)
}

func TestStudentTEffectSize_SurfacesNonConvergence(t *testing.T) {
	m, err := NewStudentTEffectSize(DefaultPriorScale, 1e-14, DefaultPriorProbNull)
	require.NoError(t, err)
	m.MaxPanels = 1

	_, err = m.BayesFactorT(suffstats.TStatistic{T: -4.06, DOF: 9, N: 10})
	require.Error(t, err)
	assert.True(t, core.IsNonConvergenceError(err))
}

func TestEffectSizeModels_Validation(t *testing.T) {
	_, err := NewNormalEffectSize(0, 0, 0.5)
	assert.True(t, core.IsPreconditionError(err))
	_, err = NewNormalEffectSize(0, 1, 1)
	assert.True(t, core.IsPreconditionError(err))
	_, err = NewStudentTEffectSize(-1, 1e-8, 0.5)
	assert.True(t, core.IsPreconditionError(err))
	_, err = NewStudentTEffectSize(1, 0, 0.5)
	assert.True(t, core.IsPreconditionError(err))

	m, err := NewStudentTEffectSize(1, 1e-8, 0.5)
	require.NoError(t, err)
	bern, err := suffstats.NewBernoulliStats(1, 2)
	require.NoError(t, err)
	_, err = m.BayesFactor(bern)
	assert.True(t, core.IsPreconditionError(err))
	_, err = m.BayesFactorT(suffstats.TStatistic{T: math.NaN(), DOF: 1, N: 2})
	assert.True(t, core.IsPreconditionError(err))
}
