// Copyright 2026 Damo. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAverageOfNUnknownUntilWindowFull(t *testing.T) {
	c, err := NewAverageCalculator(5, false)
	require.NoError(t, err)
	for _, v := range []int64{500, 250, 150, 400} {
		require.NoError(t, c.AddTime(v))
	}
	avg, best, worst := c.CurrentAverage()
	assert.Equal(t, TimeUnknown, avg)
	assert.Equal(t, -1, best)
	assert.Equal(t, -1, worst)
}

// TestAo5WithOneDNF is spec §8 scenario 6, verbatim.
func TestAo5WithOneDNF(t *testing.T) {
	c, err := NewAverageCalculator(5, false)
	require.NoError(t, err)

	for _, v := range []int64{500, 250, 150, 400, 200} {
		require.NoError(t, c.AddTime(v))
	}
	avg, bestIdx, worstIdx := c.CurrentAverage()
	assert.Equal(t, int64(280), avg)
	assert.Equal(t, int64(150), c.orderedWindow()[bestIdx])
	assert.Equal(t, int64(500), c.orderedWindow()[worstIdx])

	require.NoError(t, c.AddTime(TimeDNF))
	require.NoError(t, c.AddTime(800))

	window := c.orderedWindow()
	assert.Equal(t, []int64{150, 400, 200, TimeDNF, 800}, window)

	avg, bestIdx, worstIdx = c.CurrentAverage()
	assert.Equal(t, int64(460), avg)
	assert.Equal(t, int64(150), window[bestIdx])
	assert.Equal(t, TimeDNF, window[worstIdx])
}

func TestPlainMeanForNLessThanOrEqual3(t *testing.T) {
	c, err := NewAverageCalculator(3, false)
	require.NoError(t, err)
	require.NoError(t, c.AddTime(1000))
	require.NoError(t, c.AddTime(2000))
	require.NoError(t, c.AddTime(3030))

	avg, bestIdx, worstIdx := c.CurrentAverage()
	assert.Equal(t, int64(2010), avg) // (1000+2000+3030)/3 = 2010, already a multiple of 10
	assert.Equal(t, -1, bestIdx)
	assert.Equal(t, -1, worstIdx)
}

func TestPlainMeanDisqualifiesOnAnyDNF(t *testing.T) {
	for _, disqualify := range []bool{true, false} {
		c, err := NewAverageCalculator(3, disqualify)
		require.NoError(t, err)
		require.NoError(t, c.AddTime(1000))
		require.NoError(t, c.AddTime(TimeDNF))
		require.NoError(t, c.AddTime(2000))

		avg, _, _ := c.CurrentAverage()
		assert.Equal(t, TimeDNF, avg)
	}
}

func TestN4TreatedAsN5(t *testing.T) {
	c, err := NewAverageCalculator(4, false)
	require.NoError(t, err)
	for _, v := range []int64{500, 250, 150, 400} {
		require.NoError(t, c.AddTime(v))
	}
	avg, bestIdx, worstIdx := c.CurrentAverage()
	// truncated mean: drop 150 (best) and 500 (worst), average (250+400)/2=325->320
	assert.Equal(t, int64(320), avg)
	assert.NotEqual(t, -1, bestIdx)
	assert.NotEqual(t, -1, worstIdx)
}

func TestDisqualifyOnDNFTrueRequiresTwoDNFsToDisqualifyAo5(t *testing.T) {
	c, err := NewAverageCalculator(5, true)
	require.NoError(t, err)
	require.NoError(t, c.AddTime(500))
	require.NoError(t, c.AddTime(250))
	require.NoError(t, c.AddTime(150))
	require.NoError(t, c.AddTime(400))
	require.NoError(t, c.AddTime(TimeDNF))

	avg, _, _ := c.CurrentAverage()
	assert.NotEqual(t, TimeDNF, avg) // one DNF: treated as worst, still computable

	require.NoError(t, c.AddTime(TimeDNF)) // window: 250,150,400,DNF,DNF
	avg, _, _ = c.CurrentAverage()
	assert.Equal(t, TimeDNF, avg)
}

func TestFallsToOneNonDNFKeepsBest(t *testing.T) {
	c, err := NewAverageCalculator(5, false)
	require.NoError(t, err)
	require.NoError(t, c.AddTime(300))
	require.NoError(t, c.AddTime(TimeDNF))
	require.NoError(t, c.AddTime(TimeDNF))
	require.NoError(t, c.AddTime(TimeDNF))
	require.NoError(t, c.AddTime(TimeDNF))

	avg, bestIdx, worstIdx := c.CurrentAverage()
	assert.Equal(t, int64(300), avg)
	assert.Equal(t, -1, bestIdx) // best not additionally dropped
	assert.NotEqual(t, -1, worstIdx)
}

func TestZeroNonDNFIsTimeDNF(t *testing.T) {
	c, err := NewAverageCalculator(5, false)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		require.NoError(t, c.AddTime(TimeDNF))
	}
	avg, _, _ := c.CurrentAverage()
	assert.Equal(t, TimeDNF, avg)
}

func TestBestWorstTotalCountAcrossAllAdds(t *testing.T) {
	c, err := NewAverageCalculator(3, false)
	require.NoError(t, err)
	require.NoError(t, c.AddTime(500))
	require.NoError(t, c.AddTime(TimeDNF))
	require.NoError(t, c.AddTime(300))
	require.NoError(t, c.AddTime(700))

	assert.Equal(t, int64(300), c.BestAll())
	assert.Equal(t, int64(700), c.WorstAll())
	assert.Equal(t, int64(500+300+700), c.TotalAll())
	assert.Equal(t, 4, c.CountAll())
	assert.Equal(t, 1, c.DNFCountAll())
}

func TestBestAverageTracksSmallestValidAverageEver(t *testing.T) {
	c, err := NewAverageCalculator(3, false)
	require.NoError(t, err)
	require.NoError(t, c.AddTime(1000))
	require.NoError(t, c.AddTime(1000))
	require.NoError(t, c.AddTime(1000))
	assert.Equal(t, int64(1000), c.BestAverage())

	require.NoError(t, c.AddTime(100))
	require.NoError(t, c.AddTime(100))
	require.NoError(t, c.AddTime(100))
	assert.Equal(t, int64(100), c.BestAverage())

	require.NoError(t, c.AddTime(5000))
	require.NoError(t, c.AddTime(5000))
	require.NoError(t, c.AddTime(5000))
	assert.Equal(t, int64(100), c.BestAverage()) // worse average never overwrites
}

func TestAddTimeRejectsNonPositiveNonDNF(t *testing.T) {
	c, err := NewAverageCalculator(3, false)
	require.NoError(t, err)
	require.Error(t, c.AddTime(0))
	require.Error(t, c.AddTime(-5))
}

func TestNewAverageCalculatorRejectsNonPositiveN(t *testing.T) {
	_, err := NewAverageCalculator(0, false)
	require.Error(t, err)
}

func TestResetClearsStateKeepsConfig(t *testing.T) {
	c, err := NewAverageCalculator(3, true)
	require.NoError(t, err)
	require.NoError(t, c.AddTime(1000))
	require.NoError(t, c.AddTime(2000))
	require.NoError(t, c.AddTime(3000))

	c.Reset()

	assert.Equal(t, 3, c.N())
	assert.True(t, c.DisqualifyOnDNF())
	assert.Equal(t, 0, c.CountAll())
	assert.Equal(t, TimeUnknown, c.BestAll())
	avg, _, _ := c.CurrentAverage()
	assert.Equal(t, TimeUnknown, avg)
}
