package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/damo/twistytimer-core/clock"
)

func TestOneShotFiresAtDeadline(t *testing.T) {
	c := clock.NewFakeClock(0, 0)
	s := New(c)
	fired := false
	s.ScheduleAt("x", 1000, func(now int64) { fired = true })

	s.Pump(500)
	assert.False(t, fired)

	s.Pump(1000)
	assert.True(t, fired)
}

func TestRescheduleReplacesPrevious(t *testing.T) {
	c := clock.NewFakeClock(0, 0)
	s := New(c)
	calls := 0
	s.ScheduleAt("x", 1000, func(now int64) { calls++ })
	s.ScheduleAt("x", 2000, func(now int64) { calls++ })

	s.Pump(1000)
	assert.Equal(t, 0, calls)
	s.Pump(2000)
	assert.Equal(t, 1, calls)
}

func TestCancelPreventsFiring(t *testing.T) {
	c := clock.NewFakeClock(0, 0)
	s := New(c)
	fired := false
	s.ScheduleAt("x", 1000, func(now int64) { fired = true })
	s.Cancel("x")
	s.Pump(5000)
	assert.False(t, fired)
}

func TestPeriodicFiresRepeatedly(t *testing.T) {
	c := clock.NewFakeClock(0, 0)
	s := New(c)
	count := 0
	s.SchedulePeriodic("tick", 100*time.Millisecond, func(now int64) { count++ })

	s.Pump(50)
	assert.Equal(t, 0, count)
	s.Pump(100)
	assert.Equal(t, 1, count)
	s.Pump(350)
	assert.Equal(t, 3, count)
}

func TestCancelAllClearsEverything(t *testing.T) {
	c := clock.NewFakeClock(0, 0)
	s := New(c)
	oneShotFired, periodicFired := false, false
	s.ScheduleAt("x", 100, func(now int64) { oneShotFired = true })
	s.SchedulePeriodic("tick", 10*time.Millisecond, func(now int64) { periodicFired = true })
	s.CancelAll()
	s.Pump(10000)
	assert.False(t, oneShotFired)
	assert.False(t, periodicFired)
}

func TestStartShutdownLifecycle(t *testing.T) {
	c := clock.NewFakeClock(0, 0)
	s := New(c)
	s.Start()
	s.Start() // idempotent
	s.Shutdown()
	s.Shutdown() // idempotent
}
