// Copyright 2026 Damo. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package cue

import "fmt"

// Cue is one of the closed set of one-shot notifications a TimerState
// fires to listeners (spec §3.5).
type Cue int

const (
	InspectionHoldingForStart Cue = iota
	InspectionReadyToStart
	InspectionStarted
	Inspection7sRemaining
	Inspection3sRemaining
	InspectionOverrun
	InspectionTimeOut
	InspectionResumed
	InspectionStopped
	SolveHoldingForStart
	SolveReadyToStart
	SolveStarted
	SolveResumed
	Stopping
	Cancelling

	numCues
)

var cueNames = [numCues]string{
	InspectionHoldingForStart: "InspectionHoldingForStart",
	InspectionReadyToStart:    "InspectionReadyToStart",
	InspectionStarted:         "InspectionStarted",
	Inspection7sRemaining:     "Inspection7sRemaining",
	Inspection3sRemaining:     "Inspection3sRemaining",
	InspectionOverrun:         "InspectionOverrun",
	InspectionTimeOut:         "InspectionTimeOut",
	InspectionResumed:         "InspectionResumed",
	InspectionStopped:         "InspectionStopped",
	SolveHoldingForStart:      "SolveHoldingForStart",
	SolveReadyToStart:         "SolveReadyToStart",
	SolveStarted:              "SolveStarted",
	SolveResumed:              "SolveResumed",
	Stopping:                  "Stopping",
	Cancelling:                "Cancelling",
}

func (c Cue) Valid() bool {
	return c >= InspectionHoldingForStart && c < numCues
}

func (c Cue) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Cue(%d)", int(c))
	}
	return cueNames[c]
}

// All returns every closed Cue variant, in declaration order.
func All() []Cue {
	out := make([]Cue, 0, numCues)
	for c := InspectionHoldingForStart; c < numCues; c++ {
		out = append(out, c)
	}
	return out
}

// isInspectionCue reports whether c only makes sense when inspection is
// enabled (spec §4.3.5: "All Inspection* cues ... eligible only when
// inspection is enabled").
func (c Cue) isInspectionCue() bool {
	switch c {
	case InspectionHoldingForStart, InspectionReadyToStart, InspectionStarted,
		Inspection7sRemaining, Inspection3sRemaining, InspectionOverrun,
		InspectionTimeOut, InspectionResumed, InspectionStopped:
		return true
	default:
		return false
	}
}

// State tracks, per cue, whether it is eligible to fire, has already
// fired, or is ineligible for the current TimerState configuration (spec
// §3.5). The bitset idiom is grounded on timers.go's small
// flag-constant-per-bit style, applied here to a fixed-size array
// instead of a single packed int — there is no concurrent mutation to
// guard against (spec §5: TimerState is touched only from the dispatcher
// thread), so the atomic CAS dance timers.go needs is unnecessary.
type State struct {
	fired     [numCues]bool
	eligible  [numCues]bool
}

// NewState computes the default eligibility for every cue given the
// timer's configuration (spec §4.3.5).
func NewState(inspectionDurationMs int64, holdToStartEnabled bool) *State {
	s := &State{}
	inspectionEnabled := inspectionDurationMs > 0
	for _, c := range All() {
		switch c {
		case SolveReadyToStart, SolveStarted, Cancelling, Stopping:
			s.eligible[c] = true
		case SolveHoldingForStart:
			s.eligible[c] = holdToStartEnabled
		case InspectionResumed:
			s.eligible[c] = false
		case Inspection7sRemaining:
			s.eligible[c] = inspectionEnabled && inspectionDurationMs > 7000
		case Inspection3sRemaining:
			s.eligible[c] = inspectionEnabled && inspectionDurationMs > 3000
		default:
			if c.isInspectionCue() {
				s.eligible[c] = inspectionEnabled
			} else {
				s.eligible[c] = true
			}
		}
	}
	return s
}

// CanFire reports whether c is currently eligible (not yet fired, and
// eligible for this configuration).
func (s *State) CanFire(c Cue) bool {
	return s.eligible[c] && !s.fired[c]
}

// Fire marks c as fired if it is eligible; returns true the first time,
// false on every subsequent attempt (spec §4.3.5 "fire(cue) succeeds
// once, then ignores further attempts").
func (s *State) Fire(c Cue) bool {
	if !s.CanFire(c) {
		return false
	}
	s.fired[c] = true
	return true
}

// HasFired reports whether c has already fired.
func (s *State) HasFired(c Cue) bool {
	return s.fired[c]
}

// Reload resets c to eligible (spec §4.3.5 "reload(cue) restores
// eligibility").
func (s *State) Reload(c Cue) {
	s.fired[c] = false
	s.eligible[c] = true
}

// Clone returns an independent copy of s, used by TimerState's blob
// restore (spec §4.3.4) to snapshot per-cue fire-state.
func (s *State) Clone() *State {
	c := &State{}
	c.fired = s.fired
	c.eligible = s.eligible
	return c
}

// RestoreState rebuilds a State from raw per-cue fired/eligible bitsets,
// used by TimerState's blob restore (spec §4.3.4) to reconstruct exactly
// what was serialised rather than recomputing defaults from
// configuration, which would lose anything already fired.
func RestoreState(fired, eligible func(Cue) bool) *State {
	s := &State{}
	for _, c := range All() {
		s.fired[c] = fired(c)
		s.eligible[c] = eligible(c)
	}
	return s
}
