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

func TestStatisticsTracksEveryConfiguredWindow(t *testing.T) {
	s, err := NewStatistics([]int{3, 5}, false)
	require.NoError(t, err)

	for _, v := range []int64{500, 250, 150, 400, 200} {
		require.NoError(t, s.AddTime(v))
	}

	snap := s.Snapshot()
	assert.Contains(t, snap.Session, 3)
	assert.Contains(t, snap.Session, 5)
	assert.Equal(t, int64(280), snap.Session[5].Average)
}

func TestStatisticsBestWorstAcrossAllTime(t *testing.T) {
	s, err := NewStatistics([]int{3}, false)
	require.NoError(t, err)

	require.NoError(t, s.AddTime(500))
	require.NoError(t, s.AddTime(300))
	require.NoError(t, s.AddTime(700))

	snap := s.Snapshot()
	assert.Equal(t, int64(300), snap.BestAllTimeMs)
	assert.Equal(t, int64(700), snap.WorstAllTimeMs)
	assert.Equal(t, int64(300), snap.BestSessionMs)
	assert.Equal(t, int64(700), snap.WorstSessionMs)
}

func TestStatisticsResetSessionKeepsAllTimeRecords(t *testing.T) {
	s, err := NewStatistics([]int{3}, false)
	require.NoError(t, err)
	require.NoError(t, s.AddTime(500))
	require.NoError(t, s.AddTime(300))
	require.NoError(t, s.AddTime(700))

	s.ResetSession()

	snap := s.Snapshot()
	assert.Equal(t, int64(300), snap.BestAllTimeMs) // unaffected
	assert.Equal(t, TimeUnknown, snap.BestSessionMs) // cleared
}

func TestStatisticsNotifiesObservers(t *testing.T) {
	s, err := NewStatistics([]int{3}, false)
	require.NoError(t, err)

	var got []Snapshot
	unregister := s.RegisterObserver(func(snap Snapshot) { got = append(got, snap) })

	require.NoError(t, s.AddTime(500))
	require.Len(t, got, 1)

	unregister()
	require.NoError(t, s.AddTime(300))
	require.Len(t, got, 1) // no further notifications after unregister
}

func TestNewStatisticsRejectsEmptyWindows(t *testing.T) {
	_, err := NewStatistics(nil, false)
	require.Error(t, err)
}
