package suffstats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gobayes/domain/core"
)

func twoGroups(t *testing.T) TwoSample {
	t.Helper()
	a, err := NormalFromData([]float64{1, 2, 3, 4, 5})
	require.NoError(t, err)
	b, err := NormalFromData([]float64{2, 4, 6, 8, 10, 12})
	require.NoError(t, err)
	ts, err := NewTwoSample(a, b)
	require.NoError(t, err)
	return ts
}

func TestTwoSample_Merge(t *testing.T) {
	ts := twoGroups(t)

	merged, err := ts.Merge()
	require.NoError(t, err)

	assert.InDelta(t, 30.0/11.0, merged.N(), 1e-12)
	assert.InDelta(t, -4.0, merged.Mean(), 1e-12)
	assert.InDelta(t, math.Sqrt((4*2.5+5*14.0)/9), merged.StdDev(), 1e-12)
}

func TestPooledT(t *testing.T) {
	ts := twoGroups(t)

	pooled, err := PooledT(ts)
	require.NoError(t, err)

	sd := math.Sqrt((4*2.5 + 5*14.0) / 9)
	assert.InDelta(t, -4/sd*math.Sqrt(30.0/11.0), pooled.T, 1e-12)
	assert.Equal(t, 9.0, pooled.DOF)
}

func TestWelchT(t *testing.T) {
	ts := twoGroups(t)

	welch, err := WelchT(ts)
	require.NoError(t, err)

	se1, se2 := 2.5/5, 14.0/6
	assert.InDelta(t, -4/math.Sqrt(se1+se2), welch.T, 1e-12)
	assert.InDelta(t, (se1+se2)*(se1+se2)/(se1*se1/4+se2*se2/5), welch.DOF, 1e-12)
}

func TestTwoSample_PoolingNeedsDegreesOfFreedom(t *testing.T) {
	a, err := NewNormalStats(1, 3, 0)
	require.NoError(t, err)
	ts, err := NewTwoSample(a, a)
	require.NoError(t, err)

	_, err = ts.Merge()
	assert.True(t, core.IsPreconditionError(err))
	_, err = WelchT(ts)
	assert.True(t, core.IsPreconditionError(err))
}

func TestUpdateTwoSample_GroupsStayIndependent(t *testing.T) {
	ts := twoGroups(t)

	next, err := UpdateTwoSample(ts, ts)
	require.NoError(t, err)
	assert.Equal(t, 10.0, next.First().N())
	assert.Equal(t, 12.0, next.Second().N())
	assert.InDelta(t, 3.0, next.First().Mean(), 1e-12)
	assert.InDelta(t, 7.0, next.Second().Mean(), 1e-12)
}
