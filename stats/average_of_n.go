// Copyright 2026 Damo. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package stats

// AverageOfN is a snapshot view of an AverageCalculator's current window
// (spec §4.5 "AverageOfN view"): the window itself in chronological
// order, the computed average, and which window entries (if any) were
// dropped as best/worst to produce it.
type AverageOfN struct {
	N               int
	DisqualifyOnDNF bool
	Window          []int64 // chronological order, oldest first
	Average         int64   // TimeUnknown if the window isn't full yet
	DroppedBestIdx  int     // index within Window, or -1
	DroppedWorstIdx int     // index within Window, or -1
}

// Snapshot builds the current AverageOfN view for c.
func (c *AverageCalculator) Snapshot() AverageOfN {
	avg, bestIdx, worstIdx := c.CurrentAverage()
	return AverageOfN{
		N:               c.n,
		DisqualifyOnDNF: c.disqualifyOnDNF,
		Window:          c.orderedWindow(),
		Average:         avg,
		DroppedBestIdx:  bestIdx,
		DroppedWorstIdx: worstIdx,
	}
}
