// Copyright 2026 Damo. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

// Package puzzletimer implements PuzzleTimer (spec §4.4): the
// touch-driven state machine that owns a TimerState, schedules inspection
// cue deadlines and the refresh loop against a schedule.Scheduler, and
// publishes cues/state/refresh notifications to registered listeners.
//
// A PuzzleTimer is not safe for concurrent mutation (spec §5): every
// method must be called from the single dispatcher goroutine that also
// pumps the owning Scheduler, the same discipline timerstate.TimerState
// already documents for itself.
package puzzletimer

import (
	"context"

	"github.com/damo/twistytimer-core/clock"
	"github.com/damo/twistytimer-core/cue"
	"github.com/damo/twistytimer-core/penalty"
	"github.com/damo/twistytimer-core/schedule"
	"github.com/damo/twistytimer-core/solve"
	"github.com/damo/twistytimer-core/stage"
	"github.com/damo/twistytimer-core/store"
	"github.com/damo/twistytimer-core/timerstate"
	"github.com/damo/twistytimer-core/xlog"
)

// HoldDurationMs is how long a touch must be held before a holding stage
// resolves to its ready-to-start counterpart. Spec §4.4 requires a
// hold-to-start gate but never names a duration; 300ms is this port's
// choice, long enough to reject an accidental tap, short enough not to
// feel laggy on an actual touch-to-start gesture.
const HoldDurationMs = 300

// Scheduler IDs. A PuzzleTimer owns its Scheduler exclusively and holds
// at most one pending deadline per ID below (six at once), so these need
// no per-instance namespacing.
const (
	idHold              = "hold"
	idInspection7s      = "inspection7s"
	idInspection3s      = "inspection3s"
	idInspectionOverrun = "inspectionOverrun"
	idInspectionDNF     = "inspectionDNF"
	idRefresh           = "refresh"
)

// CueListener is notified every time a cue fires.
type CueListener func(cue.Cue)

// StateListener is notified after every stage transition and after any
// out-of-band change to the attached Solve (spec §9 "Observer callbacks").
type StateListener func(ts *timerstate.TimerState)

// RefreshListener is notified once per refresh tick while a timer phase
// is actively running (spec §4.4 "Refresh loop").
type RefreshListener func(now int64)

// branchPair names the holding/ready-to-start stage pair a touch-down
// resolves into, depending on whether hold-to-start is enabled.
type branchPair struct {
	holding stage.Stage
	ready   stage.Stage
}

// PuzzleTimer is the state machine described in spec §4.4.
type PuzzleTimer struct {
	clk   clock.Clock
	sched *schedule.Scheduler
	ts    *timerstate.TimerState
	store store.SolveStore // nil if the caller doesn't want persistence

	// runOriginStage is the stage the current attempt began from —
	// Unused or Stopped — so Cancel can return to it (spec §4.4
	// "Cancelling ... returns to the stage that preceded the run").
	runOriginStage stage.Stage
	// preRunAttachedSolve/hadPreRunAttachedSolve snapshot whatever Solve
	// was attached before the current run began, so Cancel can restore it
	// when runOriginStage is Stopped rather than leaving it cleared.
	preRunAttachedSolve    solve.Solve
	hadPreRunAttachedSolve bool

	// revertStage is where a too-short hold or a touch-cancel during a
	// holding/ready-to-start stage falls back to (spec §4.4 "touch-up
	// before hold expires ... previous stable stage").
	revertStage stage.Stage

	sleeping bool

	// wantInspectionDurationMs/wantHoldToStartEnabled are the
	// most-recently-requested configuration; applied to ts immediately if
	// ts.IsReset(), otherwise queued until the next Unused entry (spec
	// §4.4 "Configuration setters called while running are queued").
	wantInspectionDurationMs int64
	wantHoldToStartEnabled   bool

	cueListeners     []CueListener
	stateListeners   []StateListener
	refreshListeners []RefreshListener
}

// New returns a PuzzleTimer driving ts's configuration, scheduling
// deadlines and refresh ticks against sched, and persisting committed
// solves through solveStore (pass nil to skip persistence entirely,
// useful for tests that only care about the state machine).
func New(clk clock.Clock, sched *schedule.Scheduler, inspectionDurationMs int64, holdToStartEnabled bool, solveStore store.SolveStore) *PuzzleTimer {
	return &PuzzleTimer{
		clk:                      clk,
		sched:                    sched,
		ts:                       timerstate.New(inspectionDurationMs, holdToStartEnabled),
		store:                    solveStore,
		runOriginStage:           stage.Unused,
		revertStage:              stage.Unused,
		wantInspectionDurationMs: inspectionDurationMs,
		wantHoldToStartEnabled:   holdToStartEnabled,
	}
}

// State returns the owned TimerState for direct inspection (elapsed
// times, penalties, attached solve, ...). PuzzleTimer owns all stage
// transitions; callers must not call TimerState.SetStage.
func (pt *PuzzleTimer) State() *timerstate.TimerState { return pt.ts }

// --- listener registration (spec §9 "capability set") -------------------

// RegisterCueListener adds l and returns a func that removes it.
func (pt *PuzzleTimer) RegisterCueListener(l CueListener) (unregister func()) {
	pt.cueListeners = append(pt.cueListeners, l)
	idx := len(pt.cueListeners) - 1
	return func() { pt.cueListeners[idx] = nil }
}

// RegisterStateListener adds l and returns a func that removes it.
func (pt *PuzzleTimer) RegisterStateListener(l StateListener) (unregister func()) {
	pt.stateListeners = append(pt.stateListeners, l)
	idx := len(pt.stateListeners) - 1
	return func() { pt.stateListeners[idx] = nil }
}

// RegisterRefreshListener adds l and returns a func that removes it.
func (pt *PuzzleTimer) RegisterRefreshListener(l RefreshListener) (unregister func()) {
	pt.refreshListeners = append(pt.refreshListeners, l)
	idx := len(pt.refreshListeners) - 1
	return func() { pt.refreshListeners[idx] = nil }
}

func (pt *PuzzleTimer) fireCue(c cue.Cue) {
	if !pt.ts.FireCue(c) {
		return
	}
	for _, l := range pt.cueListeners {
		if l != nil {
			l(c)
		}
	}
}

func (pt *PuzzleTimer) notifyState() {
	for _, l := range pt.stateListeners {
		if l != nil {
			l(pt.ts)
		}
	}
}

// cueForStage reports the cue sharing a stage's name, if one exists (spec
// §4.4's transition table: entering a stage fires the like-named cue —
// InspectionHoldingForStart, InspectionReadyToStart, InspectionStarted,
// SolveHoldingForStart, SolveReadyToStart, SolveStarted, Stopping and
// Cancelling all have both a stage and a cue of the same name; the two
// "in-between" stages InspectionSolveHoldingForStart and
// InspectionSolveReadyToStart do not, matching the table's "—" cue
// column for those rows).
func cueForStage(s stage.Stage) (cue.Cue, bool) {
	switch s {
	case stage.InspectionHoldingForStart:
		return cue.InspectionHoldingForStart, true
	case stage.InspectionReadyToStart:
		return cue.InspectionReadyToStart, true
	case stage.InspectionStarted:
		return cue.InspectionStarted, true
	case stage.SolveHoldingForStart:
		return cue.SolveHoldingForStart, true
	case stage.SolveReadyToStart:
		return cue.SolveReadyToStart, true
	case stage.SolveStarted:
		return cue.SolveStarted, true
	case stage.Stopping:
		return cue.Stopping, true
	case stage.Cancelling:
		return cue.Cancelling, true
	default:
		return 0, false
	}
}

// enterStage sets ts's stage to s, fires the like-named cue if any, then
// notifies state listeners — the ordering spec §5 requires ("first a cue
// (if any), then on_state").
func (pt *PuzzleTimer) enterStage(s stage.Stage) {
	pt.ts.SetStage(s)
	if c, ok := cueForStage(s); ok {
		pt.fireCue(c)
	}
	pt.notifyState()
}

// --- configuration (spec §4.4 "Configuration setters") -------------------

// SetInspectionDurationMs applies immediately if ts is reset, otherwise
// queues the change for the next Unused entry.
func (pt *PuzzleTimer) SetInspectionDurationMs(ms int64) {
	pt.wantInspectionDurationMs = ms
	if pt.ts.IsReset() {
		pt.ts.ApplyConfig(pt.wantInspectionDurationMs, pt.wantHoldToStartEnabled)
	}
}

// SetHoldToStartEnabled applies immediately if ts is reset, otherwise
// queues the change for the next Unused entry.
func (pt *PuzzleTimer) SetHoldToStartEnabled(enabled bool) {
	pt.wantHoldToStartEnabled = enabled
	if pt.ts.IsReset() {
		pt.ts.ApplyConfig(pt.wantInspectionDurationMs, pt.wantHoldToStartEnabled)
	}
}

// SetRefreshPeriodMs passes straight through to TimerState; unlike
// inspection duration and hold-to-start it has no effect on the stage
// machine itself, so there's nothing to queue.
func (pt *PuzzleTimer) SetRefreshPeriodMs(ms int64) error {
	return pt.ts.SetRefreshPeriodMs(ms)
}

// SetSolveTemplate records the puzzle/category/scramble the next
// committed Solve will carry (spec §4.3.2's "in-progress solve
// reference"). Call it before the run that should carry it reaches
// Stopped — typically right after a new scramble is generated, before
// the first touch-down of the attempt.
func (pt *PuzzleTimer) SetSolveTemplate(puzzleType solve.PuzzleType, category, scramble string) {
	pt.ts.SetPendingSolveTemplate(puzzleType, category, scramble)
}

func (pt *PuzzleTimer) applyQueuedConfigOnUnusedEntry() {
	pt.ts.ApplyConfig(pt.wantInspectionDurationMs, pt.wantHoldToStartEnabled)
}

// --- reset / cancel -------------------------------------------------------

// Reset fully reinitialises the state machine, keeping configuration
// (spec §4.4 input "reset").
func (pt *PuzzleTimer) Reset() {
	pt.cancelAllScheduled()
	pt.ts.Reset()
	pt.applyQueuedConfigOnUnusedEntry()
	pt.runOriginStage = stage.Unused
	pt.revertStage = stage.Unused
	pt.preRunAttachedSolve = solve.Solve{}
	pt.hadPreRunAttachedSolve = false
	pt.sleeping = false
	pt.notifyState()
}

// Cancel aborts the in-progress attempt with no commit and returns to
// whichever stage preceded it — Unused, or Stopped if this run followed
// an earlier completed solve (spec §4.4, §5 "cancel() is idempotent").
func (pt *PuzzleTimer) Cancel(t int64) {
	switch pt.ts.Stage() {
	case stage.Unused, stage.Stopped:
		return // idempotent: nothing in progress to cancel
	}

	pt.cancelAllScheduled()
	pt.fireCue(cue.Cancelling)

	origin := pt.runOriginStage
	snapshot := pt.preRunAttachedSolve
	hadSnapshot := pt.hadPreRunAttachedSolve

	pt.ts.Reset()
	pt.applyQueuedConfigOnUnusedEntry()
	if origin == stage.Stopped {
		pt.ts.SetStage(stage.Stopped)
		if hadSnapshot {
			pt.ts.SetAttachedSolve(snapshot)
		}
	}
	pt.runOriginStage = stage.Unused
	pt.revertStage = stage.Unused
	pt.notifyState()
}

// --- touch inputs (spec §4.4 transition table) ---------------------------

// OnTouchDown handles a touch-down at monotonic time t.
func (pt *PuzzleTimer) OnTouchDown(t int64) {
	switch pt.ts.Stage() {
	case stage.Unused, stage.Stopped:
		pt.runOriginStage = pt.ts.Stage()
		pt.preRunAttachedSolve, pt.hadPreRunAttachedSolve = pt.ts.AttachedSolve()
		pt.revertStage = pt.ts.Stage()
		pt.beginHoldOrReady(t, pt.firstBranch())
	case stage.InspectionStarted:
		// Inspection keeps running through the hold/ready-to-start gesture
		// — it is only actually stopped once the touch-up finalises the
		// transition into SolveStarted, so a too-short hold or a
		// touch-cancel can revert here with the inspection clock and its
		// scheduled deadlines undisturbed.
		pt.revertStage = stage.InspectionStarted
		pt.beginHoldOrReady(t, pt.secondBranch())
	case stage.SolveStarted:
		pt.stopAndCommit(t)
	default:
		// touch-down in a holding/ready/stopping/cancelling stage is
		// ignored, not an error (spec §4.4 "Failure semantics").
	}
}

func (pt *PuzzleTimer) firstBranch() branchPair {
	if pt.ts.InspectionEnabled() {
		return branchPair{holding: stage.InspectionHoldingForStart, ready: stage.InspectionReadyToStart}
	}
	return branchPair{holding: stage.SolveHoldingForStart, ready: stage.SolveReadyToStart}
}

func (pt *PuzzleTimer) secondBranch() branchPair {
	return branchPair{holding: stage.InspectionSolveHoldingForStart, ready: stage.InspectionSolveReadyToStart}
}

func (pt *PuzzleTimer) beginHoldOrReady(t int64, branch branchPair) {
	if !pt.ts.HoldToStartEnabled() {
		pt.enterStage(branch.ready)
		return
	}
	pt.enterStage(branch.holding)
	holdUntil := branch.holding
	pt.sched.ScheduleAt(idHold, t+HoldDurationMs, func(now int64) {
		if pt.ts.Stage() == holdUntil {
			pt.enterStage(branch.ready)
		}
	})
}

// OnTouchUp handles a touch-up at monotonic time t.
func (pt *PuzzleTimer) OnTouchUp(t int64) {
	switch pt.ts.Stage() {
	case stage.InspectionHoldingForStart, stage.InspectionSolveHoldingForStart, stage.SolveHoldingForStart:
		// released before the hold deadline: too-short hold, revert with
		// no cue (spec §4.4 "touch-up before hold expires ... no toast").
		pt.sched.Cancel(idHold)
		pt.ts.SetStage(pt.revertStage)
		pt.notifyState()
	case stage.InspectionReadyToStart:
		_ = pt.ts.StartInspection(t)
		pt.enterStage(stage.InspectionStarted)
		pt.scheduleInspectionDeadlines(t)
		pt.startRefreshLoop(t)
	case stage.InspectionSolveReadyToStart:
		pt.cancelInspectionDeadlines()
		pt.cancelRefresh()
		_ = pt.ts.StopInspection(t)
		_ = pt.ts.StartSolve(t)
		pt.enterStage(stage.SolveStarted)
		pt.startRefreshLoop(t)
	case stage.SolveReadyToStart:
		_ = pt.ts.StartSolve(t)
		pt.enterStage(stage.SolveStarted)
		pt.startRefreshLoop(t)
	default:
		// touch-up elsewhere is ignored.
	}
}

// OnTouchCancelled handles a cancelled touch gesture at monotonic time t.
func (pt *PuzzleTimer) OnTouchCancelled(t int64) {
	switch pt.ts.Stage() {
	case stage.InspectionHoldingForStart, stage.InspectionSolveHoldingForStart, stage.SolveHoldingForStart,
		stage.InspectionReadyToStart, stage.InspectionSolveReadyToStart, stage.SolveReadyToStart:
		pt.sched.Cancel(idHold)
		pt.ts.SetStage(pt.revertStage)
		pt.notifyState()
	default:
		// SolveStarted (the touch that already committed a stop) and any
		// other stage: no revert (spec §4.4 "SolveStarted | on_touch_cancelled
		// | no revert — keep stopped").
	}
}

func (pt *PuzzleTimer) stopAndCommit(t int64) {
	pt.cancelRefresh()
	pt.enterStage(stage.Stopping)
	_ = pt.ts.StopSolve(t)
	pt.commitAndPersist()
	pt.enterStage(stage.Stopped)
}

func (pt *PuzzleTimer) commitAndPersist() {
	s, err := pt.ts.CommitSolve(pt.clk.Wall())
	if err != nil {
		if xlog.ERRon() {
			xlog.ERR("puzzletimer: CommitSolve failed: %v\n", err)
		}
		return
	}
	pt.persist(s)
}

func (pt *PuzzleTimer) persist(s solve.Solve) {
	if pt.store == nil {
		return
	}
	id, err := pt.store.Add(context.Background(), s)
	if err != nil {
		if xlog.ERRon() {
			xlog.ERR("puzzletimer: store.Add failed: %v\n", err)
		}
		return
	}
	pt.ts.SetAttachedSolve(s.WithID(id))
	pt.notifyState()
}

// --- sleep / wake (spec §4.4 "Refresh loop") ------------------------------

// Sleep halts the refresh loop without altering any timer state.
func (pt *PuzzleTimer) Sleep() {
	pt.sleeping = true
	pt.cancelRefresh()
}

// Wake resumes the refresh loop (if a phase is running) and re-emits
// on_state so the UI can resynchronise.
func (pt *PuzzleTimer) Wake(now int64) {
	pt.sleeping = false
	if pt.ts.IsInspectionRunning() || pt.ts.IsSolveRunning() {
		pt.startRefreshLoop(now)
	}
	pt.notifyState()
}

// --- pause / resume --------------------------------------------------------
//
// Not part of spec §4.4's named input list (sleep/wake explicitly do NOT
// alter timer state), but timerstate.TimerState exposes pause/resume
// directly (spec §4.3.2) for whatever outer channel an embedding app
// wants to drive it from (e.g. backgrounding). PuzzleTimer exposes thin
// pass-throughs that also keep the refresh loop in sync, since a paused
// solve has no ROT to phase-align against.

// PauseSolve pauses the running solve timer and halts the refresh loop.
func (pt *PuzzleTimer) PauseSolve(t int64) error {
	if err := pt.ts.PauseSolve(t); err != nil {
		return err
	}
	pt.cancelRefresh()
	pt.notifyState()
	return nil
}

// ResumeSolve resumes a paused solve timer and restarts the refresh loop.
func (pt *PuzzleTimer) ResumeSolve(t int64) error {
	if err := pt.ts.ResumeSolve(t); err != nil {
		return err
	}
	if !pt.sleeping {
		pt.startRefreshLoop(t)
	}
	pt.notifyState()
	return nil
}

// --- solve store sync (spec §6) -------------------------------------------

// OnSolveChanged applies an asynchronous SolveStore notification to the
// attached Solve, keeping PuzzleTimer in sync with out-of-band changes
// (spec §6). Events about solves other than the currently attached one
// are a no-op: this single-PuzzleTimer core only ever tracks one attached
// Solve at a time, so anything else is the outer app's concern.
func (pt *PuzzleTimer) OnSolveChanged(ev store.Event) {
	switch e := ev.(type) {
	case store.OneSolveAdded:
		if s, ok := pt.ts.AttachedSolve(); ok && s.ID() == e.Solve.ID() {
			pt.ts.SetAttachedSolve(e.Solve)
			pt.notifyState()
		}
	case store.OneSolveUpdated:
		if s, ok := pt.ts.AttachedSolve(); ok && s.ID() == e.Solve.ID() {
			pt.ts.SetAttachedSolve(e.Solve)
			pt.notifyState()
		}
	case store.OneSolveDeleted:
		if s, ok := pt.ts.AttachedSolve(); ok && s.ID() == e.ID {
			pt.ts.ClearAttachedSolve()
			pt.notifyState()
		}
	case store.SolveVerified:
		if xlog.DBGon() {
			xlog.DBG("puzzletimer: solve %s verified\n", e.ID)
		}
	case store.SolveNotVerified:
		if xlog.DBGon() {
			xlog.DBG("puzzletimer: solve %s failed verification\n", e.ID)
		}
	case store.ManySolvesAdded, store.ManySolvesDeleted, store.SolvesMovedToHistory:
		// batch/history events don't name a single attached solve.
	}
}

// IncurPreStart/IncurPostStart/AnnulPostStart pass straight through to
// TimerState; PuzzleTimer adds no state-machine behaviour on top of the
// penalty algebra itself (spec §4.1/§4.3).

func (pt *PuzzleTimer) IncurPreStart(p penalty.Penalty)  { pt.ts.IncurPreStart(p) }
func (pt *PuzzleTimer) IncurPostStart(p penalty.Penalty) { pt.ts.IncurPostStart(p) }
func (pt *PuzzleTimer) AnnulPostStart(p penalty.Penalty) { pt.ts.AnnulPostStart(p) }
