package timerstate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	twistytimer "github.com/damo/twistytimer-core"
	"github.com/damo/twistytimer-core/penalty"
	"github.com/damo/twistytimer-core/solve"
	"github.com/damo/twistytimer-core/stage"
)

func TestNewIsReset(t *testing.T) {
	ts := New(15000, false)
	assert.True(t, ts.IsReset())
	assert.False(t, ts.IsRunning())
	assert.True(t, ts.InspectionEnabled())
}

func TestInspectionLifecycle(t *testing.T) {
	ts := New(15000, false)
	require.NoError(t, ts.StartInspection(1000))
	assert.True(t, ts.IsInspectionRunning())

	ts.Mark(3000)
	assert.Equal(t, int64(2000), ts.ElapsedInspectionMs())

	require.Error(t, ts.StartInspection(3000))

	require.NoError(t, ts.StopInspection(16000))
	assert.False(t, ts.IsInspectionRunning())
	assert.Equal(t, int64(15000), ts.ElapsedInspectionMs())
}

func TestInspectionElapsedCapsAtOverrunWindow(t *testing.T) {
	ts := New(15000, false)
	require.NoError(t, ts.StartInspection(0))
	ts.Mark(999999)
	assert.Equal(t, int64(15000+OverrunWindowMs), ts.ElapsedInspectionMs())
}

func TestStopInspectionWithSentinelStopsAtOverrunEnd(t *testing.T) {
	ts := New(15000, false)
	require.NoError(t, ts.StartInspection(1000))
	require.NoError(t, ts.StopInspection(-1))
	assert.Equal(t, int64(15000+OverrunWindowMs), ts.ElapsedInspectionMs())
}

func TestStartSolveFailsWhileInspectionRunning(t *testing.T) {
	ts := New(15000, false)
	require.NoError(t, ts.StartInspection(0))
	err := ts.StartSolve(1000)
	require.Error(t, err)
	assert.True(t, errors.Is(err, twistytimer.ErrIllegalState))
}

func TestSolveLifecyclePauseResume(t *testing.T) {
	ts := New(0, false)
	require.NoError(t, ts.StartSolve(1000))
	assert.True(t, ts.IsSolveRunning())

	ts.Mark(3000)
	assert.Equal(t, int64(2000), ts.ElapsedSolveMs())

	require.NoError(t, ts.PauseSolve(3000))
	assert.True(t, ts.IsSolvePaused())

	// While paused, a later mark does not move elapsed time.
	ts.Mark(10000)
	assert.Equal(t, int64(2000), ts.ElapsedSolveMs())

	require.NoError(t, ts.ResumeSolve(10000))
	ts.Mark(11000)
	assert.Equal(t, int64(3000), ts.ElapsedSolveMs())

	require.NoError(t, ts.StopSolve(11000))
	assert.False(t, ts.IsSolveRunning())
	assert.Equal(t, int64(3000), ts.ElapsedSolveMs())

	// Stopping twice is illegal.
	require.Error(t, ts.StopSolve(12000))
}

func TestPauseSolveFailsWhenNotRunning(t *testing.T) {
	ts := New(0, false)
	require.Error(t, ts.PauseSolve(1000))
}

func TestGetROT(t *testing.T) {
	ts := New(15000, false)
	assert.Equal(t, int64(0), ts.GetROT())

	require.NoError(t, ts.StartInspection(500))
	assert.Equal(t, int64(500), ts.GetROT())

	require.NoError(t, ts.StopInspection(1000))
	require.NoError(t, ts.StartSolve(1000))
	assert.Equal(t, int64(1000), ts.GetROT())

	require.NoError(t, ts.PauseSolve(2000))
	assert.Equal(t, int64(0), ts.GetROT())

	require.NoError(t, ts.ResumeSolve(2500))
	assert.Equal(t, int64(2500), ts.GetROT())
}

func TestMarkDisciplineIgnoresRegressionWhenIdle(t *testing.T) {
	ts := New(0, false)
	ts.Mark(100)
	ts.Mark(50)
	assert.Equal(t, int64(100), ts.LastMark())
	ts.Mark(200)
	assert.Equal(t, int64(200), ts.LastMark())
}

func TestMarkDisciplineClampsToPhaseStartWhileRunning(t *testing.T) {
	ts := New(0, false)
	require.NoError(t, ts.StartSolve(1000))
	ts.Mark(500) // earlier than phase start
	assert.Equal(t, int64(1000), ts.LastMark())
}

func TestCommitSolveRequiresPendingTemplate(t *testing.T) {
	ts := New(0, false)
	require.NoError(t, ts.StartSolve(0))
	require.NoError(t, ts.StopSolve(5000))
	_, err := ts.CommitSolve(123)
	require.Error(t, err)
	assert.True(t, errors.Is(err, twistytimer.ErrIllegalState))
}

func TestCommitSolveIncludesPreStartTimePenalty(t *testing.T) {
	ts := New(15000, false)
	ts.SetPendingSolveTemplate(solve.Cube333, "normal", "R U R' U'")
	require.NoError(t, ts.StartInspection(0))
	ts.IncurPreStart(penalty.PlusTwo)
	require.NoError(t, ts.StopInspection(5000))
	require.NoError(t, ts.StartSolve(5000))
	require.NoError(t, ts.StopSolve(17300))

	s, err := ts.CommitSolve(999)
	require.NoError(t, err)
	assert.Equal(t, int64(12300+2000), s.ExactTimeMs())
	assert.Equal(t, 1, s.Penalties().PrePlusTwos())
	assert.False(t, ts.HasPendingSolveTemplate())

	attached, ok := ts.AttachedSolve()
	require.True(t, ok)
	assert.Equal(t, s, attached)
}

func TestPostStartPenaltyEditingAfterStopRoutesToAttachedSolve(t *testing.T) {
	ts := New(0, false)
	ts.SetPendingSolveTemplate(solve.Cube333, "normal", "")
	require.NoError(t, ts.StartSolve(0))
	require.NoError(t, ts.StopSolve(12300))
	_, err := ts.CommitSolve(1)
	require.NoError(t, err)
	ts.SetStage(stage.Stopped)

	ts.IncurPostStart(penalty.PlusTwo)
	s, ok := ts.AttachedSolve()
	require.True(t, ok)
	assert.Equal(t, int64(14300), s.ExactTimeMs())

	ts.AnnulPostStart(penalty.PlusTwo)
	s, ok = ts.AttachedSolve()
	require.True(t, ok)
	assert.Equal(t, int64(12300), s.ExactTimeMs())
}

func TestIncurPreStartBeforeAttachAffectsInProgressPenalties(t *testing.T) {
	ts := New(0, false)
	ts.IncurPreStart(penalty.PlusTwo)
	assert.Equal(t, 1, ts.Penalties().PrePlusTwos())
}

func TestRefreshPeriodDefaultsByRunningPhase(t *testing.T) {
	ts := New(15000, false)
	require.NoError(t, ts.StartInspection(0))
	assert.Equal(t, int64(DefaultInspectionRefreshPeriodMs), ts.RefreshPeriodMs())
	require.NoError(t, ts.StopInspection(15000))
	require.NoError(t, ts.StartSolve(15000))
	assert.Equal(t, int64(DefaultSolveRefreshPeriodMs), ts.RefreshPeriodMs())
}

func TestSetRefreshPeriodMsValidation(t *testing.T) {
	ts := New(0, false)
	require.NoError(t, ts.SetRefreshPeriodMs(50))
	assert.Equal(t, int64(50), ts.RefreshPeriodMs())

	err := ts.SetRefreshPeriodMs(0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, twistytimer.ErrInvalidArgument))

	require.NoError(t, ts.SetRefreshPeriodMs(RefreshPeriodDefault))
	assert.Equal(t, int64(DefaultSolveRefreshPeriodMs), ts.RefreshPeriodMs())
}

func TestResetRestoresConfigurationOnly(t *testing.T) {
	ts := New(15000, true)
	require.NoError(t, ts.StartInspection(0))
	ts.Reset()
	assert.True(t, ts.IsReset())
	assert.Equal(t, int64(15000), ts.InspectionDurationMs())
	assert.True(t, ts.HoldToStartEnabled())
}
