// Copyright 2026 Damo. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

// Package stage declares TimerStage (spec §3.4): the closed set of 13
// stages a PuzzleTimer can be in. Split out from package cue — which
// declares the sibling TimerCue enum — because the two closed sets share
// several spec-mandated names (SolveStarted, Stopping, Cancelling, ...)
// that would collide as package-level identifiers if declared together.
package stage

import "fmt"

// Stage is one of the 13 stages a PuzzleTimer can be in (spec §3.4).
type Stage int

const (
	Unused Stage = iota
	Starting
	InspectionHoldingForStart
	InspectionReadyToStart
	InspectionStarted
	InspectionSolveHoldingForStart
	InspectionSolveReadyToStart
	SolveHoldingForStart
	SolveReadyToStart
	SolveStarted
	Stopping
	Stopped
	Cancelling

	numStages
)

var stageNames = [numStages]string{
	Unused:                         "Unused",
	Starting:                       "Starting",
	InspectionHoldingForStart:      "InspectionHoldingForStart",
	InspectionReadyToStart:         "InspectionReadyToStart",
	InspectionStarted:              "InspectionStarted",
	InspectionSolveHoldingForStart: "InspectionSolveHoldingForStart",
	InspectionSolveReadyToStart:    "InspectionSolveReadyToStart",
	SolveHoldingForStart:           "SolveHoldingForStart",
	SolveReadyToStart:              "SolveReadyToStart",
	SolveStarted:                   "SolveStarted",
	Stopping:                       "Stopping",
	Stopped:                        "Stopped",
	Cancelling:                     "Cancelling",
}

func (s Stage) Valid() bool {
	return s >= Unused && s < numStages
}

func (s Stage) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Stage(%d)", int(s))
	}
	return stageNames[s]
}

// IsRunning reports whether s is one of the "running" stages in which
// either the inspection or the solve timer is actively ticking (spec
// §4.3 is_running).
func (s Stage) IsRunning() bool {
	switch s {
	case InspectionStarted, InspectionSolveHoldingForStart, InspectionSolveReadyToStart, SolveStarted:
		return true
	default:
		return false
	}
}

// IsHolding reports whether s is one of the two hold-to-start branches.
func (s Stage) IsHolding() bool {
	return s == InspectionHoldingForStart || s == InspectionSolveHoldingForStart || s == SolveHoldingForStart
}
