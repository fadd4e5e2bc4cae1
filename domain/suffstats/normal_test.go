package suffstats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gobayes/domain/core"
)

var sleepScores = []float64{-1.2, -2.4, -1.3, -1.3, 0.0, -1.0, -1.8, -0.8, -4.6, -1.4}

func TestUpdate_MatchesConcatenatedSample(t *testing.T) {
	first := []float64{3.1, 2.7, 5.5, 4.0, 3.3, 2.9, 6.1}
	second := []float64{1.2, 8.4, 3.3}

	a, err := NormalFromData(first)
	require.NoError(t, err)
	b, err := NormalFromData(second)
	require.NoError(t, err)

	merged, err := Update(a, b)
	require.NoError(t, err)

	all, err := NormalFromData(append(append([]float64{}, first...), second...))
	require.NoError(t, err)

	assert.InDelta(t, all.N(), merged.N(), 1e-12)
	assert.InDelta(t, all.Mean(), merged.Mean(), 1e-12)
	assert.InDelta(t, all.StdDev(), merged.StdDev(), 1e-12)
}

func TestUpdate_SingleObservationBatches(t *testing.T) {
	data := []float64{0.4, -1.3, 2.2, 0.9, 1.1, -0.2}

	running, err := NormalFromData(data[:1])
	require.NoError(t, err)
	for _, x := range data[1:] {
		batch, err := NormalFromData([]float64{x})
		require.NoError(t, err)
		running, err = Update(running, batch)
		require.NoError(t, err)
	}

	oneShot, err := NormalFromData(data)
	require.NoError(t, err)
	assert.InDelta(t, oneShot.Mean(), running.Mean(), 1e-12)
	assert.InDelta(t, oneShot.StdDev(), running.StdDev(), 1e-12)
}

func TestUpdate_FractionalTotalHasNoSpread(t *testing.T) {
	a, err := NewNormalStats(0.4, 1, 2)
	require.NoError(t, err)
	b, err := NewNormalStats(0.5, 3, 2)
	require.NoError(t, err)

	got, err := Update(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 0.9, got.N(), 1e-12)
	assert.InDelta(t, (0.4*1+0.5*3)/0.9, got.Mean(), 1e-12)
	assert.Equal(t, 0.0, got.StdDev())
}

func TestUpdate_RejectsEmptyStatistics(t *testing.T) {
	var zero NormalStats
	ok, err := NewNormalStats(3, 1, 1)
	require.NoError(t, err)

	_, err = Update(zero, ok)
	assert.True(t, core.IsPreconditionError(err))
	_, err = Update(ok, zero)
	assert.True(t, core.IsPreconditionError(err))
}

func TestNewNormalStats_Validation(t *testing.T) {
	_, err := NewNormalStats(0, 1, 1)
	assert.True(t, core.IsPreconditionError(err))
	_, err = NewNormalStats(5, 1, -0.1)
	assert.True(t, core.IsPreconditionError(err))
	_, err = NewNormalStats(5, math.NaN(), 1)
	assert.True(t, core.IsPreconditionError(err))
	_, err = NormalFromData(nil)
	assert.True(t, core.IsPreconditionError(err))
}

func TestEffectSize(t *testing.T) {
	s, err := NewNormalStats(100, 0.6, 0.5)
	require.NoError(t, err)

	d, err := EffectSize(s, 0.5)
	require.NoError(t, err)
	assert.InDelta(t, 0.2, d, 1e-12)

	flat, err := NewNormalStats(10, 1, 0)
	require.NoError(t, err)
	_, err = EffectSize(flat, 0)
	assert.True(t, core.IsPreconditionError(err))
}

func TestOneSampleT_SleepScores(t *testing.T) {
	s, err := NormalFromData(sleepScores)
	require.NoError(t, err)

	ts, err := OneSampleT(s, 0)
	require.NoError(t, err)
	assert.InDelta(t, -4.0621, ts.T, 1e-4)
	assert.Equal(t, 9.0, ts.DOF)
	assert.Equal(t, 10.0, ts.N)
}

func TestLogNormalFromData(t *testing.T) {
	s, err := LogNormalFromData([]float64{1, math.E, math.E * math.E})
	require.NoError(t, err)
	assert.Equal(t, 3, s.N())
	assert.InDelta(t, 1.0, s.MeanLog(), 1e-12)
	assert.InDelta(t, 1.0, s.SDLog(), 1e-12)

	_, err = LogNormalFromData([]float64{1, 0, 2})
	assert.True(t, core.IsPreconditionError(err))
	_, err = LogNormalFromData([]float64{1, -3})
	assert.True(t, core.IsPreconditionError(err))
}

func TestBernoulliAndExponentialValidation(t *testing.T) {
	_, err := NewBernoulliStats(5, 4)
	assert.True(t, core.IsPreconditionError(err))
	_, err = NewBernoulliStats(-1, 4)
	assert.True(t, core.IsPreconditionError(err))

	b, err := BernoulliFromData([]bool{true, false, true, true})
	require.NoError(t, err)
	assert.Equal(t, 3, b.Successes())
	assert.Equal(t, 1, b.Failures())

	_, err = NewExponentialStats(0, 1)
	assert.True(t, core.IsPreconditionError(err))
	_, err = NewExponentialStats(3, 0)
	assert.True(t, core.IsPreconditionError(err))

	e, err := ExponentialFromData([]float64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 3, e.N())
	assert.InDelta(t, 2.0, e.Mean(), 1e-12)
}
