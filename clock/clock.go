// Copyright 2026 Damo. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

// Package clock provides the Clock boundary of spec §6: a monotonic and
// a wall-clock reading, both injected so the engine's tests can drive
// time explicitly instead of racing the real clock.
package clock

import (
	"time"

	"github.com/intuitivelabs/timestamp"
)

// Clock supplies the two time bases the engine needs: Mono, a
// monotonically increasing millisecond counter with no absolute meaning
// (used for all elapsed-time arithmetic), and Wall, the Unix-epoch
// millisecond timestamp (used only for Solve.DateMs and for the
// persistence blob's save-time stamp).
type Clock interface {
	Mono() int64
	Wall() int64
}

// SystemClock is the real Clock, backed by the process clock. Grounded
// on how the teacher's wtimer_ticker.go consumes timestamp.Now(): take a
// dual mono+wall reading once at construction as a reference point, then
// report Mono() as the monotonic delta against that reference — the
// reference is recreated only if the reported delta is ever negative
// (the process's monotonic clock cannot regress, but a fake or a system
// under heavy scheduling pressure still gets the same defensive check
// the teacher applies in ticker()).
type SystemClock struct {
	ref timestamp.TS
}

// NewSystemClock returns a SystemClock referenced to the current instant.
func NewSystemClock() *SystemClock {
	return &SystemClock{ref: timestamp.Now()}
}

// Mono returns milliseconds elapsed since the SystemClock was created.
func (c *SystemClock) Mono() int64 {
	now := timestamp.Now()
	if now.Before(c.ref) {
		// clock went backwards (e.g. NTP step); re-reference rather than
		// report a negative elapsed time.
		c.ref = now
		return 0
	}
	return now.Sub(c.ref).Milliseconds()
}

// Wall returns the current Unix-epoch millisecond timestamp.
func (c *SystemClock) Wall() int64 {
	return time.Now().UnixMilli()
}
