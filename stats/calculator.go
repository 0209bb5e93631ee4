// Copyright 2026 Damo. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

// Package stats implements AverageCalculator and Statistics (spec §4.5,
// §X.1): rolling average-of-N windows with WCA DNF policy, plus the
// process-wide observer cache built on top of them.
package stats

import (
	"fmt"

	twistytimer "github.com/damo/twistytimer-core"
	"github.com/damo/twistytimer-core/solve"
)

// TimeUnknown marks the absence of a value (not enough times added yet,
// or no best-average observed yet).
const TimeUnknown int64 = 0

// TimeDNF marks a disqualified time.
const TimeDNF int64 = -1

// AverageCalculator maintains a rolling window of the last N times plus
// global best/worst/total/count/dnf-count across everything ever added
// (spec §4.5). Not safe for concurrent use; callers serialise through the
// same single dispatcher thread documented by timerstate/puzzletimer.
type AverageCalculator struct {
	n               int
	disqualifyOnDNF bool

	window []int64 // fixed-size ring, length n; unfilled slots hold TimeUnknown
	head   int      // index the next add_time writes to
	filled int      // number of valid entries currently in window, capped at n

	countAll    int
	dnfCountAll int
	totalAll    int64
	bestAll     int64 // TimeUnknown if no non-DNF time ever added
	worstAll    int64
	bestAverage int64 // TimeUnknown if no valid average ever computed
}

// NewAverageCalculator returns a calculator for a window of n times
// (n must be > 0) with the given DNF policy (spec §4.5 "disqualify_on_dnf").
func NewAverageCalculator(n int, disqualifyOnDNF bool) (*AverageCalculator, error) {
	if n <= 0 {
		return nil, fmt.Errorf("stats: n must be > 0, got %d: %w", n, twistytimer.ErrInvalidArgument)
	}
	return &AverageCalculator{
		n:               n,
		disqualifyOnDNF: disqualifyOnDNF,
		window:          make([]int64, n),
		bestAll:         TimeUnknown,
		worstAll:        TimeUnknown,
		bestAverage:     TimeUnknown,
	}, nil
}

// N returns the configured window size.
func (c *AverageCalculator) N() int { return c.n }

// DisqualifyOnDNF returns the configured DNF policy.
func (c *AverageCalculator) DisqualifyOnDNF() bool { return c.disqualifyOnDNF }

// AddTime records t (either a positive elapsed-time in ms, or TimeDNF).
// t is WCA-rounded at insertion (spec §4.5 "rounded at insertion") and the
// rounded value is what every subsequent computation — best, worst,
// total, averages — operates on.
func (c *AverageCalculator) AddTime(t int64) error {
	if t != TimeDNF && t <= 0 {
		return fmt.Errorf("stats: add_time requires t > 0 or TimeDNF, got %d: %w", t, twistytimer.ErrInvalidArgument)
	}
	rounded := t
	if t != TimeDNF {
		rounded = solve.WCARound(t)
	}

	c.window[c.head] = rounded
	c.head = (c.head + 1) % c.n
	if c.filled < c.n {
		c.filled++
	}

	c.countAll++
	if rounded == TimeDNF {
		c.dnfCountAll++
	} else {
		c.totalAll += rounded
		if c.bestAll == TimeUnknown || rounded < c.bestAll {
			c.bestAll = rounded
		}
		if rounded > c.worstAll {
			c.worstAll = rounded
		}
	}

	if avg, _, _ := c.CurrentAverage(); avg != TimeUnknown && avg != TimeDNF {
		if c.bestAverage == TimeUnknown || avg < c.bestAverage {
			c.bestAverage = avg
		}
	}
	return nil
}

// orderedWindow returns the current window's entries in chronological
// order (oldest first), however many are actually filled.
func (c *AverageCalculator) orderedWindow() []int64 {
	out := make([]int64, c.filled)
	start := (c.head - c.filled + c.n) % c.n
	for i := 0; i < c.filled; i++ {
		out[i] = c.window[(start+i)%c.n]
	}
	return out
}

// CurrentAverage computes the average-of-N over the current window (spec
// §4.5 "Average-of-N semantics"), returning the average (or TimeUnknown /
// TimeDNF) plus the indices, within the returned window, of the dropped
// best and worst entries (-1 if none were dropped).
func (c *AverageCalculator) CurrentAverage() (avg int64, droppedBestIdx, droppedWorstIdx int) {
	if c.filled < c.n {
		return TimeUnknown, -1, -1
	}
	w := c.orderedWindow()

	// N == 4 is unspecified by spec; this port treats it like N >= 5
	// (see DESIGN.md), so the effective window size for picking plain-mean
	// vs. truncated-mean is n, not a separately tracked "effective n".
	if c.n <= 3 {
		for _, v := range w {
			if v == TimeDNF {
				return TimeDNF, -1, -1
			}
		}
		return intMean(w), -1, -1
	}
	return c.truncatedMean(w)
}

func (c *AverageCalculator) truncatedMean(w []int64) (avg int64, droppedBestIdx, droppedWorstIdx int) {
	dnfCount := 0
	for _, v := range w {
		if v == TimeDNF {
			dnfCount++
		}
	}

	if dnfCount == 0 {
		bestIdx := argmin(w, -1)
		worstIdx := argmax(w, bestIdx)
		rest := dropIndices(w, bestIdx, worstIdx)
		return intMean(rest), bestIdx, worstIdx
	}

	if c.disqualifyOnDNF {
		if dnfCount >= 2 {
			return TimeDNF, -1, -1
		}
		worstIdx := indexOf(w, TimeDNF)
		bestIdx := argmin(w, worstIdx)
		rest := dropIndices(w, bestIdx, worstIdx)
		return intMean(rest), bestIdx, worstIdx
	}

	// disqualify_on_dnf == false: one DNF dropped as worst, any further
	// DNFs are simply excluded from the averaged set (spec §4.5 "further
	// DNFs are ignored").
	worstIdx := indexOf(w, TimeDNF)
	nonDNFCount := len(w) - dnfCount
	if nonDNFCount == 0 {
		return TimeDNF, -1, -1
	}
	if nonDNFCount == 1 {
		// "the best is not additionally dropped": the sole remaining
		// non-DNF value stands as the average itself.
		return w[indexOfNonDNF(w)], -1, worstIdx
	}
	bestIdx := argminExcludingDNF(w)
	rest := dropIndices(w, bestIdx, worstIdx, indicesOfOtherDNFs(w, worstIdx)...)
	return intMean(rest), bestIdx, worstIdx
}

// BestAll returns the smallest non-DNF rounded time ever added (TimeUnknown
// if none).
func (c *AverageCalculator) BestAll() int64 { return c.bestAll }

// WorstAll returns the largest non-DNF rounded time ever added
// (TimeUnknown if none).
func (c *AverageCalculator) WorstAll() int64 { return c.worstAll }

// TotalAll returns the sum of every non-DNF rounded time ever added.
func (c *AverageCalculator) TotalAll() int64 { return c.totalAll }

// CountAll returns the number of AddTime calls ever made, DNFs included.
func (c *AverageCalculator) CountAll() int { return c.countAll }

// DNFCountAll returns the number of DNFs ever added.
func (c *AverageCalculator) DNFCountAll() int { return c.dnfCountAll }

// BestAverage returns the smallest non-DNF current-average ever observed
// (TimeUnknown if the window has never been full enough to produce one).
func (c *AverageCalculator) BestAverage() int64 { return c.bestAverage }

// Reset clears all accumulated state except N and the DNF policy (spec
// §4.5 "reset() clears all state except N and the policy flag").
func (c *AverageCalculator) Reset() {
	for i := range c.window {
		c.window[i] = 0
	}
	c.head = 0
	c.filled = 0
	c.countAll = 0
	c.dnfCountAll = 0
	c.totalAll = 0
	c.bestAll = TimeUnknown
	c.worstAll = TimeUnknown
	c.bestAverage = TimeUnknown
}

func intMean(vals []int64) int64 {
	if len(vals) == 0 {
		return TimeUnknown
	}
	var sum int64
	for _, v := range vals {
		sum += v
	}
	return solve.WCARound(sum / int64(len(vals)))
}

// argmin returns the index of the smallest value in w, skipping index
// skip (-1 to skip nothing) and never considering TimeDNF entries. Ties
// resolve to the first (lowest-index) occurrence.
func argmin(w []int64, skip int) int {
	best := -1
	for i, v := range w {
		if i == skip || v == TimeDNF {
			continue
		}
		if best == -1 || v < w[best] {
			best = i
		}
	}
	return best
}

func argminExcludingDNF(w []int64) int {
	return argmin(w, -1)
}

// argmax returns the index of the largest value in w, skipping index
// skip and never considering TimeDNF entries. Ties resolve to the first
// (lowest-index) occurrence other than skip, giving the "first wins best,
// next wins worst" rule its deterministic result when every entry shares
// the same value.
func argmax(w []int64, skip int) int {
	best := -1
	for i, v := range w {
		if i == skip || v == TimeDNF {
			continue
		}
		if best == -1 || v > w[best] {
			best = i
		}
	}
	return best
}

func indexOfNonDNF(w []int64) int {
	for i, v := range w {
		if v != TimeDNF {
			return i
		}
	}
	return -1
}

func indexOf(w []int64, v int64) int {
	for i, x := range w {
		if x == v {
			return i
		}
	}
	return -1
}

func indicesOfOtherDNFs(w []int64, firstDNFIdx int) []int {
	var out []int
	for i, v := range w {
		if v == TimeDNF && i != firstDNFIdx {
			out = append(out, i)
		}
	}
	return out
}

func dropIndices(w []int64, indices ...int) []int64 {
	drop := make(map[int]bool, len(indices))
	for _, i := range indices {
		if i >= 0 {
			drop[i] = true
		}
	}
	out := make([]int64, 0, len(w))
	for i, v := range w {
		if !drop[i] {
			out = append(out, v)
		}
	}
	return out
}
