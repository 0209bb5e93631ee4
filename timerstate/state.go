// Copyright 2026 Damo. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

// Package timerstate implements TimerState (spec §3.6, §4.3): the data
// carrier a PuzzleTimer owns and mutates — configuration, current stage,
// per-cue fire-state, in-progress penalties, the inspection and solve
// timers, the UI refresh mark, and the optional attached Solve.
package timerstate

import (
	"fmt"
	"math"

	twistytimer "github.com/damo/twistytimer-core"
	"github.com/damo/twistytimer-core/cue"
	"github.com/damo/twistytimer-core/penalty"
	"github.com/damo/twistytimer-core/solve"
	"github.com/damo/twistytimer-core/stage"
)

const (
	// OverrunWindowMs is the extra time after the configured inspection
	// duration during which a pre-start "+2" is in effect before a DNF
	// is incurred (spec §4.3.1).
	OverrunWindowMs = 2000

	// DefaultInspectionRefreshPeriodMs is the refresh cadence while the
	// inspection timer is running (spec §4.4 "Refresh loop").
	DefaultInspectionRefreshPeriodMs = 1000
	// DefaultSolveRefreshPeriodMs is the refresh cadence while the solve
	// timer is running.
	DefaultSolveRefreshPeriodMs = 31

	// RefreshPeriodDefault is the sentinel meaning "use the phase's
	// default refresh period" (spec §4.4: "-1 ... restore default").
	RefreshPeriodDefault int64 = -1
)

// noMark means "no mark has ever been accepted"; any real t > noMark.
const noMark = math.MinInt64

// TimerState is the mutable carrier object described in spec §3.6.
// It is not safe for concurrent use (spec §5: touched only by the
// dispatcher thread that also drives the owning PuzzleTimer).
type TimerState struct {
	inspectionDurationMs int64
	holdToStartEnabled   bool

	st   stage.Stage
	cues *cue.State

	inProgressPenalties penalty.Penalties

	inspection inspectionPhase
	solve      solvePhase

	lastMark int64

	refreshPeriodMs int64

	hasPendingTemplate bool
	pendingPuzzleType  solve.PuzzleType
	pendingCategory    string
	pendingScramble    string

	attachedSolve *solve.Solve
}

// New returns a freshly reset TimerState for the given configuration.
// inspectionDurationMs of 0 disables inspection (spec §4.3.1).
func New(inspectionDurationMs int64, holdToStartEnabled bool) *TimerState {
	return &TimerState{
		inspectionDurationMs: inspectionDurationMs,
		holdToStartEnabled:   holdToStartEnabled,
		st:                   stage.Unused,
		cues:                 cue.NewState(inspectionDurationMs, holdToStartEnabled),
		inProgressPenalties:  penalty.NoPenalties,
		lastMark:             noMark,
		refreshPeriodMs:      RefreshPeriodDefault,
	}
}

// Reset returns ts to its just-constructed state, keeping configuration.
func (ts *TimerState) Reset() {
	cfg := *ts
	*ts = *New(cfg.inspectionDurationMs, cfg.holdToStartEnabled)
}

// --- configuration ---------------------------------------------------

func (ts *TimerState) InspectionDurationMs() int64 { return ts.inspectionDurationMs }
func (ts *TimerState) HoldToStartEnabled() bool    { return ts.holdToStartEnabled }
func (ts *TimerState) InspectionEnabled() bool     { return ts.inspectionDurationMs > 0 }

// ApplyConfig updates the configuration and recomputes default cue
// eligibility. Callers (PuzzleTimer) are responsible for only applying
// queued configuration changes while ts.IsReset() (spec §4.4 "Configuration
// setters called while running are queued and take effect on the next
// Unused entry").
func (ts *TimerState) ApplyConfig(inspectionDurationMs int64, holdToStartEnabled bool) {
	ts.inspectionDurationMs = inspectionDurationMs
	ts.holdToStartEnabled = holdToStartEnabled
	ts.cues = cue.NewState(inspectionDurationMs, holdToStartEnabled)
}

// --- stage / booleans --------------------------------------------------

func (ts *TimerState) Stage() stage.Stage { return ts.st }

// SetStage is used by PuzzleTimer, which owns all stage-transition logic;
// TimerState itself only stores the current stage.
func (ts *TimerState) SetStage(s stage.Stage) { ts.st = s }

func (ts *TimerState) IsReset() bool   { return ts.st == stage.Unused }
func (ts *TimerState) IsStopped() bool { return ts.st == stage.Stopped }
func (ts *TimerState) IsRunning() bool { return ts.st.IsRunning() }

func (ts *TimerState) IsInspectionRunning() bool { return ts.inspection.running() }
func (ts *TimerState) IsSolveRunning() bool      { return ts.solve.running() }
func (ts *TimerState) IsSolvePaused() bool {
	return ts.solve.started && ts.solve.paused && !ts.solve.stopped
}

// --- cues ---------------------------------------------------------------

func (ts *TimerState) CanFireCue(c cue.Cue) bool  { return ts.cues.CanFire(c) }
func (ts *TimerState) FireCue(c cue.Cue) bool      { return ts.cues.Fire(c) }
func (ts *TimerState) ReloadCue(c cue.Cue)         { ts.cues.Reload(c) }
func (ts *TimerState) HasCueFired(c cue.Cue) bool  { return ts.cues.HasFired(c) }

// --- mark discipline (spec §4.3.3) --------------------------------------

// activeSegmentStart returns the start of the currently-active (running,
// not paused) segment and whether one exists.
func (ts *TimerState) activeSegmentStart() (int64, bool) {
	if ts.inspection.running() {
		return ts.inspection.startMono, true
	}
	if ts.solve.running() {
		return ts.solve.segmentStart, true
	}
	return 0, false
}

// Mark establishes the current wall of the timer for elapsed-time
// queries (spec §4.3.3). If a timer is actively running, the effective
// mark is max(t, previous_mark, phase_start); otherwise t is accepted
// only if it is strictly greater than the previous mark.
func (ts *TimerState) Mark(t int64) {
	if phaseStart, running := ts.activeSegmentStart(); running {
		eff := t
		if ts.lastMark > eff {
			eff = ts.lastMark
		}
		if phaseStart > eff {
			eff = phaseStart
		}
		ts.lastMark = eff
		return
	}
	if t > ts.lastMark {
		ts.lastMark = t
	}
}

// LastMark returns the most recently accepted mark.
func (ts *TimerState) LastMark() int64 { return ts.lastMark }

// setMark forces the mark directly, bypassing the acceptance rule —
// used only by restore (spec §4.3.4: "the restored mark equals the
// restore monotonic time").
func (ts *TimerState) setMark(t int64) { ts.lastMark = t }

// --- inspection timer (spec §4.3.1) -------------------------------------

func (ts *TimerState) StartInspection(t int64) error {
	if !ts.InspectionEnabled() {
		return fmt.Errorf("timerstate: StartInspection: inspection disabled: %w", twistytimer.ErrIllegalState)
	}
	if ts.inspection.running() {
		return fmt.Errorf("timerstate: StartInspection: already running: %w", twistytimer.ErrIllegalState)
	}
	ts.inspection = inspectionPhase{started: true, startMono: t}
	ts.lastMark = t
	return nil
}

// StopInspection stops the running inspection timer at t. If t == -1, it
// stops exactly at the end of the overrun period (spec §4.3.1).
func (ts *TimerState) StopInspection(t int64) error {
	if !ts.inspection.running() {
		return fmt.Errorf("timerstate: StopInspection: not running: %w", twistytimer.ErrIllegalState)
	}
	if t == -1 {
		t = ts.inspection.startMono + ts.inspectionDurationMs + OverrunWindowMs
	}
	ts.inspection.stopped = true
	ts.inspection.stopMono = t
	return nil
}

// ElapsedInspectionMs returns the elapsed inspection time, capped at
// duration+OverrunWindowMs regardless of wall-clock (spec §4.3.1).
func (ts *TimerState) ElapsedInspectionMs() int64 {
	raw := ts.inspection.elapsedMs(ts.lastMark)
	if raw < 0 {
		raw = 0
	}
	cap := ts.inspectionDurationMs + OverrunWindowMs
	if raw > cap {
		raw = cap
	}
	return raw
}

// RemainingInspectionMs returns the time remaining before the overrun
// window starts; this goes negative once inside the overrun window.
func (ts *TimerState) RemainingInspectionMs() int64 {
	return ts.inspectionDurationMs - ts.ElapsedInspectionMs()
}

// --- solve timer (spec §4.3.2) ------------------------------------------

func (ts *TimerState) StartSolve(t int64) error {
	if ts.InspectionEnabled() && !(ts.inspection.started && ts.inspection.stopped) {
		return fmt.Errorf("timerstate: StartSolve: inspection still running: %w", twistytimer.ErrIllegalState)
	}
	if ts.solve.started {
		return fmt.Errorf("timerstate: StartSolve: already started: %w", twistytimer.ErrIllegalState)
	}
	ts.solve = solvePhase{started: true, segmentStart: t}
	ts.lastMark = t
	return nil
}

func (ts *TimerState) PauseSolve(t int64) error {
	if !ts.solve.running() {
		return fmt.Errorf("timerstate: PauseSolve: not running: %w", twistytimer.ErrIllegalState)
	}
	ts.solve.runAccumMs += t - ts.solve.segmentStart
	ts.solve.paused = true
	ts.lastMark = t
	return nil
}

func (ts *TimerState) ResumeSolve(t int64) error {
	if !ts.solve.started || !ts.solve.paused || ts.solve.stopped {
		return fmt.Errorf("timerstate: ResumeSolve: not paused: %w", twistytimer.ErrIllegalState)
	}
	ts.solve.segmentStart = t
	ts.solve.paused = false
	ts.lastMark = t
	return nil
}

func (ts *TimerState) StopSolve(t int64) error {
	if !ts.solve.started || ts.solve.stopped {
		return fmt.Errorf("timerstate: StopSolve: not running: %w", twistytimer.ErrIllegalState)
	}
	if !ts.solve.paused {
		ts.solve.runAccumMs += t - ts.solve.segmentStart
	}
	ts.solve.stopped = true
	ts.solve.stopMono = t
	return nil
}

// ElapsedSolveMs returns the elapsed solve time, frozen while paused.
func (ts *TimerState) ElapsedSolveMs() int64 {
	raw := ts.solve.elapsedMs(ts.lastMark)
	if raw < 0 {
		raw = 0
	}
	return raw
}

// GetROT returns the refresh-origin time: the monotonic instant the
// currently running segment began, 0 while paused or not running (spec
// §3.6, §4.3.2).
func (ts *TimerState) GetROT() int64 {
	if ts.inspection.running() {
		return ts.inspection.startMono
	}
	if ts.solve.running() {
		return ts.solve.segmentStart
	}
	return 0
}

// --- pending solve template & commit (spec §4.3.2) ----------------------

// SetPendingSolveTemplate records the puzzle/category/scramble that will
// become the committed Solve's fields once CommitSolve is called. It must
// be set before CommitSolve is called for the commit to succeed.
func (ts *TimerState) SetPendingSolveTemplate(puzzleType solve.PuzzleType, category, scramble string) {
	ts.hasPendingTemplate = true
	ts.pendingPuzzleType = puzzleType
	ts.pendingCategory = category
	ts.pendingScramble = scramble
}

func (ts *TimerState) HasPendingSolveTemplate() bool { return ts.hasPendingTemplate }

// CommitSolve produces a new Solve from the elapsed solve time, the
// pre-start time penalties, and the in-progress penalties, attaching it
// to ts (spec §4.3.2). It fails if no pending solve template was set.
func (ts *TimerState) CommitSolve(dateMs int64) (solve.Solve, error) {
	if !ts.hasPendingTemplate {
		return solve.Solve{}, fmt.Errorf("timerstate: CommitSolve: no pending solve reference: %w", twistytimer.ErrIllegalState)
	}
	exact := ts.ElapsedSolveMs() + ts.inProgressPenalties.PreTimePenaltyMs()
	s, err := solve.New(exact, ts.pendingPuzzleType, ts.pendingCategory, dateMs, ts.pendingScramble, ts.inProgressPenalties, "")
	if err != nil {
		return solve.Solve{}, err
	}
	ts.attachedSolve = &s
	ts.hasPendingTemplate = false
	return s, nil
}

// AttachedSolve returns the Solve committed by the last CommitSolve (or
// restored from a blob, or set via SetAttachedSolve to reflect a
// SolveStore sync), if any.
func (ts *TimerState) AttachedSolve() (solve.Solve, bool) {
	if ts.attachedSolve == nil {
		return solve.Solve{}, false
	}
	return *ts.attachedSolve, true
}

// SetAttachedSolve overwrites the attached Solve — used when a SolveStore
// event (spec §6) reports the solve changed out from under the timer.
func (ts *TimerState) SetAttachedSolve(s solve.Solve) { ts.attachedSolve = &s }

// ClearAttachedSolve detaches the current Solve, e.g. on cancel or reset.
func (ts *TimerState) ClearAttachedSolve() { ts.attachedSolve = nil }

// --- penalties (spec §4.3 "Report penalties") ----------------------------

// Penalties reports the in-progress penalties while running, or the
// attached Solve's penalties once stopped — edits after stopping land on
// the Solve, not on the live timer.
func (ts *TimerState) Penalties() penalty.Penalties {
	if ts.st == stage.Stopped {
		if s, ok := ts.AttachedSolve(); ok {
			return s.Penalties()
		}
	}
	return ts.inProgressPenalties
}

// IncurPreStart incurs p against the in-progress pre-start phase. Only
// meaningful before a solve is attached; once stopped, pre-start
// penalties can never change (spec §4.1: there is no annul for pre-start).
func (ts *TimerState) IncurPreStart(p penalty.Penalty) {
	ts.inProgressPenalties = ts.inProgressPenalties.IncurPreStart(p)
}

// IncurPostStart incurs p against whichever carries the live post-start
// state: the in-progress penalties while running, or the attached
// Solve's penalties once stopped.
func (ts *TimerState) IncurPostStart(p penalty.Penalty) {
	if ts.st == stage.Stopped && ts.attachedSolve != nil {
		updated := ts.attachedSolve.WithPenaltiesAdjustingTime(ts.attachedSolve.Penalties().IncurPostStart(p))
		ts.attachedSolve = &updated
		return
	}
	ts.inProgressPenalties = ts.inProgressPenalties.IncurPostStart(p)
}

// AnnulPostStart is the inverse of IncurPostStart.
func (ts *TimerState) AnnulPostStart(p penalty.Penalty) {
	if ts.st == stage.Stopped && ts.attachedSolve != nil {
		updated := ts.attachedSolve.WithPenaltiesAdjustingTime(ts.attachedSolve.Penalties().AnnulPostStart(p))
		ts.attachedSolve = &updated
		return
	}
	ts.inProgressPenalties = ts.inProgressPenalties.AnnulPostStart(p)
}

// --- refresh period (spec §4.4 "Refresh loop") ---------------------------

// RefreshPeriodMs returns the configured refresh period, or the default
// for whichever timer is currently running if none was configured.
func (ts *TimerState) RefreshPeriodMs() int64 {
	if ts.refreshPeriodMs != RefreshPeriodDefault {
		return ts.refreshPeriodMs
	}
	if ts.inspection.running() {
		return DefaultInspectionRefreshPeriodMs
	}
	return DefaultSolveRefreshPeriodMs
}

// SetRefreshPeriodMs sets the refresh period; pass RefreshPeriodDefault
// (-1) to restore phase defaults. Any other value <= 0 is an error.
func (ts *TimerState) SetRefreshPeriodMs(ms int64) error {
	if ms == RefreshPeriodDefault {
		ts.refreshPeriodMs = RefreshPeriodDefault
		return nil
	}
	if ms <= 0 {
		return fmt.Errorf("timerstate: SetRefreshPeriodMs: %d: %w", ms, twistytimer.ErrInvalidArgument)
	}
	ts.refreshPeriodMs = ms
	return nil
}
