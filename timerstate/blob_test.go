package timerstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/damo/twistytimer-core/cue"
	"github.com/damo/twistytimer-core/penalty"
	"github.com/damo/twistytimer-core/solve"
	"github.com/damo/twistytimer-core/stage"
)

func TestBlobRoundTripRunningSolveAppliesWallDelta(t *testing.T) {
	ts := New(0, false)
	ts.SetPendingSolveTemplate(solve.Cube333, "normal", "scramble")
	require.NoError(t, ts.StartSolve(1000))
	ts.Mark(6000) // 5000ms elapsed at save
	ts.SetStage(stage.SolveStarted)

	data, err := ts.ToBlob(6000, 1_000_000)
	require.NoError(t, err)

	restored, err := FromBlob(data, 50_000, 1_003_000) // 3000ms wall delta, fresh mono base
	require.NoError(t, err)

	assert.True(t, restored.IsSolveRunning())
	assert.Equal(t, int64(5000+3000), restored.ElapsedSolveMs())
	assert.Equal(t, int64(50000), restored.LastMark())
	assert.Equal(t, DefaultSolveRefreshPeriodMs, restored.RefreshPeriodMs())
	assert.False(t, restored.HasCueFired(cue.SolveResumed))
	assert.True(t, restored.CanFireCue(cue.SolveResumed))
}

func TestBlobRoundTripPausedSolveIsUnaffectedByWallDelta(t *testing.T) {
	ts := New(0, false)
	require.NoError(t, ts.StartSolve(0))
	ts.Mark(4000)
	require.NoError(t, ts.PauseSolve(4000))

	data, err := ts.ToBlob(4000, 500_000)
	require.NoError(t, err)

	restored, err := FromBlob(data, 999, 700_000)
	require.NoError(t, err)

	assert.True(t, restored.IsSolvePaused())
	assert.Equal(t, int64(4000), restored.ElapsedSolveMs())
}

func TestBlobRoundTripStoppedSolveWithAttachedSolveAndPenalties(t *testing.T) {
	ts := New(15000, false)
	ts.SetPendingSolveTemplate(solve.Cube333, "normal", "R U R'")
	require.NoError(t, ts.StartInspection(0))
	ts.IncurPreStart(penalty.PlusTwo)
	require.NoError(t, ts.StopInspection(5000))
	require.NoError(t, ts.StartSolve(5000))
	require.NoError(t, ts.StopSolve(17300))
	_, err := ts.CommitSolve(42)
	require.NoError(t, err)
	ts.SetStage(stage.Stopped)

	data, err := ts.ToBlob(17300, 2_000_000)
	require.NoError(t, err)

	restored, err := FromBlob(data, 80_000, 2_100_000)
	require.NoError(t, err)

	assert.True(t, restored.IsStopped())
	s, ok := restored.AttachedSolve()
	require.True(t, ok)
	assert.Equal(t, int64(14300), s.ExactTimeMs())
	assert.Equal(t, 1, s.Penalties().PrePlusTwos())
	assert.Equal(t, "normal", s.Category())
	assert.Equal(t, solve.SolveId(42), s.ID())
}

func TestBlobRejectsTruncatedData(t *testing.T) {
	ts := New(0, false)
	data, err := ts.ToBlob(0, 0)
	require.NoError(t, err)

	_, err = FromBlob(data[:3], 0, 0)
	require.Error(t, err)
}

func TestBlobRejectsWrongVersion(t *testing.T) {
	ts := New(0, false)
	data, err := ts.ToBlob(0, 0)
	require.NoError(t, err)
	data[0] = 99

	_, err = FromBlob(data, 0, 0)
	require.Error(t, err)
}

func TestBlobPreservesPendingSolveTemplate(t *testing.T) {
	ts := New(0, false)
	ts.SetPendingSolveTemplate(solve.Cube444, "OH", "scramble-data")

	data, err := ts.ToBlob(0, 0)
	require.NoError(t, err)
	restored, err := FromBlob(data, 0, 0)
	require.NoError(t, err)

	assert.True(t, restored.HasPendingSolveTemplate())
}
