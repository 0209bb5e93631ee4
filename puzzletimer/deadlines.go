// Copyright 2026 Damo. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package puzzletimer

import (
	"github.com/damo/twistytimer-core/cue"
	"github.com/damo/twistytimer-core/penalty"
	"github.com/damo/twistytimer-core/stage"
)

// scheduleInspectionDeadlines registers the four cue deadlines of spec
// §4.4 "Inspection scheduling", anchored to the inspection start time t:
// duration-7000 and duration-3000 (remaining-time warnings, skipped
// entirely when the configured duration is too short for them to make
// sense — mirrors the eligibility rule already encoded in cue.NewState),
// duration (overrun: auto "+2"), and duration+2000 (DNF: auto-DNF and a
// forced stop).
func (pt *PuzzleTimer) scheduleInspectionDeadlines(t int64) {
	durationMs := pt.ts.InspectionDurationMs()

	if durationMs > 7000 {
		pt.sched.ScheduleAt(idInspection7s, t+durationMs-7000, func(now int64) {
			pt.fireCue(cue.Inspection7sRemaining)
		})
	}
	if durationMs > 3000 {
		pt.sched.ScheduleAt(idInspection3s, t+durationMs-3000, func(now int64) {
			pt.fireCue(cue.Inspection3sRemaining)
		})
	}
	pt.sched.ScheduleAt(idInspectionOverrun, t+durationMs, func(now int64) {
		pt.ts.IncurPreStart(penalty.PlusTwo)
		pt.fireCue(cue.InspectionOverrun)
	})
	pt.sched.ScheduleAt(idInspectionDNF, t+durationMs+OverrunWindowMs, func(now int64) {
		pt.onInspectionTimeout(now)
	})
}

// OverrunWindowMs has the same value as timerstate.OverrunWindowMs; it is
// kept as puzzletimer's own named constant because the DNF deadline is a
// scheduling concern of puzzletimer, not a property of TimerState's own
// elapsed-time math.
const OverrunWindowMs = 2000

func (pt *PuzzleTimer) onInspectionTimeout(now int64) {
	pt.sched.Cancel(idHold)
	pt.cancelInspectionDeadlines()
	pt.cancelRefresh()
	pt.ts.IncurPreStart(penalty.DNF)
	pt.fireCue(cue.InspectionTimeOut)
	_ = pt.ts.StopInspection(now)
	pt.enterStage(stage.Stopping)
	pt.commitAndPersist()
	pt.enterStage(stage.Stopped)
}

func (pt *PuzzleTimer) cancelInspectionDeadlines() {
	pt.sched.Cancel(idInspection7s)
	pt.sched.Cancel(idInspection3s)
	pt.sched.Cancel(idInspectionOverrun)
	pt.sched.Cancel(idInspectionDNF)
}

func (pt *PuzzleTimer) cancelRefresh() {
	pt.sched.Cancel(idRefresh)
}

func (pt *PuzzleTimer) cancelAllScheduled() {
	pt.sched.Cancel(idHold)
	pt.cancelInspectionDeadlines()
	pt.cancelRefresh()
}

// startRefreshLoop (re)starts the phase-aligned refresh loop described in
// spec §4.4: on_refresh fires every RefreshPeriodMs, phase-aligned to the
// ROT rather than to whatever instant startRefreshLoop happens to be
// called at. It self-reschedules one tick at a time (rather than using
// Scheduler.SchedulePeriodic, which anchors its first tick to "now") so
// that every tick lands exactly on rot + k*period.
func (pt *PuzzleTimer) startRefreshLoop(now int64) {
	if pt.sleeping {
		return
	}
	rot := pt.ts.GetROT()
	periodMs := pt.ts.RefreshPeriodMs()
	if periodMs <= 0 {
		periodMs = 1
	}
	k := (now-rot)/periodMs + 1
	firstTick := rot + k*periodMs
	pt.sched.ScheduleAt(idRefresh, firstTick, pt.emitRefreshTick)
}

func (pt *PuzzleTimer) emitRefreshTick(t int64) {
	if pt.sleeping || !(pt.ts.IsInspectionRunning() || pt.ts.IsSolveRunning()) {
		return
	}
	for _, l := range pt.refreshListeners {
		if l != nil {
			l(t)
		}
	}
	pt.startRefreshLoop(t)
}
