// Copyright 2026 Damo. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package timerstate

// inspectionPhase tracks the single-segment inspection timer (spec
// §4.3.1). It never pauses.
type inspectionPhase struct {
	started  bool
	stopped  bool
	startMono int64
	stopMono  int64
}

func (p *inspectionPhase) running() bool { return p.started && !p.stopped }

// elapsedMs returns the elapsed inspection time as of "mark" (the
// caller's current notion of now), uncapped.
func (p *inspectionPhase) elapsedMs(mark int64) int64 {
	if !p.started {
		return 0
	}
	if p.stopped {
		return p.stopMono - p.startMono
	}
	return mark - p.startMono
}

// solvePhase tracks the pausable solve timer (spec §4.3.2). Elapsed time
// is kept as runAccumMs (time accumulated from completed active
// segments) plus, while the current segment is active, the distance from
// segmentStart to the caller's mark — so a pause simply stops advancing
// the second term, and a resume starts a fresh segment without having to
// rewrite history.
type solvePhase struct {
	started      bool
	paused       bool
	stopped      bool
	segmentStart int64
	runAccumMs   int64
	stopMono     int64
}

func (p *solvePhase) running() bool { return p.started && !p.paused && !p.stopped }

func (p *solvePhase) elapsedMs(mark int64) int64 {
	if !p.started {
		return 0
	}
	if p.stopped || p.paused {
		return p.runAccumMs
	}
	return p.runAccumMs + (mark - p.segmentStart)
}
