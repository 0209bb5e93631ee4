// Copyright 2026 Damo. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package stats

import (
	"fmt"

	twistytimer "github.com/damo/twistytimer-core"
)

// DefaultWindows are the average-of-N windows a typical cubing timer
// tracks: mean-of-3 plus the truncated Ao5/Ao12/Ao100 families (spec §4.5
// names Ao3/Ao5/Ao12 as examples without fixing the set; this is the
// port's concrete choice, see DESIGN.md).
var DefaultWindows = []int{3, 5, 12, 100}

// Observer is notified with a fresh Snapshot after every accepted
// AddTime (spec §X.1 "Statistics observer registry").
type Observer func(Snapshot)

// Snapshot is the value pushed to every registered Observer.
type Snapshot struct {
	Session AveragesByWindow
	AllTime AveragesByWindow

	BestSessionMs  int64
	WorstSessionMs int64
	BestAllTimeMs  int64
	WorstAllTimeMs int64
}

// AveragesByWindow maps a window size (3, 5, 12, ...) to its current
// AverageOfN view.
type AveragesByWindow map[int]AverageOfN

// Statistics is a process-wide cache of rolling averages for one
// puzzle/category combination (spec §4.5, §X.1), with independent
// session and all-time tracks so "today's best" and "personal best" can
// both be reported (spec §3.3's history flag is the reason an app needs
// this split at all). Only the owning dispatcher thread may call AddTime
// or ResetSession (spec §5 "Shared resources": "only the dispatcher
// thread publishes updates").
type Statistics struct {
	windows         []int
	disqualifyOnDNF bool

	session map[int]*AverageCalculator
	allTime map[int]*AverageCalculator

	// recordWindow is whichever tracked window's calculator supplies the
	// session/all-time single-solve best/worst — every calculator's
	// bestAll/worstAll already spans every AddTime ever made to it
	// regardless of window size, so any one of them serves; recordWindow
	// is just the first configured window size.
	recordWindow int

	observers []Observer
}

// NewStatistics returns a Statistics tracking the given window sizes
// (e.g. DefaultWindows) under a single DNF policy shared by every window.
func NewStatistics(windows []int, disqualifyOnDNF bool) (*Statistics, error) {
	if len(windows) == 0 {
		return nil, fmt.Errorf("stats: at least one window required: %w", twistytimer.ErrInvalidArgument)
	}
	s := &Statistics{
		windows:         append([]int(nil), windows...),
		disqualifyOnDNF: disqualifyOnDNF,
		session:         make(map[int]*AverageCalculator, len(windows)),
		allTime:         make(map[int]*AverageCalculator, len(windows)),
		recordWindow:    windows[0],
	}
	for _, n := range windows {
		sc, err := NewAverageCalculator(n, disqualifyOnDNF)
		if err != nil {
			return nil, err
		}
		ac, err := NewAverageCalculator(n, disqualifyOnDNF)
		if err != nil {
			return nil, err
		}
		s.session[n] = sc
		s.allTime[n] = ac
	}
	return s, nil
}

// RegisterObserver adds o and returns a func that removes it.
func (s *Statistics) RegisterObserver(o Observer) (unregister func()) {
	s.observers = append(s.observers, o)
	idx := len(s.observers) - 1
	return func() { s.observers[idx] = nil }
}

// AddTime records a completed solve's time (or TimeDNF) into every
// tracked window, in both the session and all-time tracks, and notifies
// observers with the resulting Snapshot.
func (s *Statistics) AddTime(t int64) error {
	if t != TimeDNF && t <= 0 {
		return fmt.Errorf("stats: add_time requires t > 0 or TimeDNF, got %d: %w", t, twistytimer.ErrInvalidArgument)
	}
	for _, n := range s.windows {
		if err := s.session[n].AddTime(t); err != nil {
			return err
		}
		if err := s.allTime[n].AddTime(t); err != nil {
			return err
		}
	}
	s.notify()
	return nil
}

func (s *Statistics) notify() {
	snap := s.Snapshot()
	for _, o := range s.observers {
		if o != nil {
			o(snap)
		}
	}
}

// Snapshot builds the current Snapshot without waiting for the next
// AddTime.
func (s *Statistics) Snapshot() Snapshot {
	session := make(AveragesByWindow, len(s.windows))
	allTime := make(AveragesByWindow, len(s.windows))
	for _, n := range s.windows {
		session[n] = s.session[n].Snapshot()
		allTime[n] = s.allTime[n].Snapshot()
	}
	return Snapshot{
		Session:        session,
		AllTime:        allTime,
		BestSessionMs:  s.session[s.recordWindow].BestAll(),
		WorstSessionMs: s.session[s.recordWindow].WorstAll(),
		BestAllTimeMs:  s.allTime[s.recordWindow].BestAll(),
		WorstAllTimeMs: s.allTime[s.recordWindow].WorstAll(),
	}
}

// ResetSession clears every session-track calculator, leaving the
// all-time track (and its records) untouched — for "start a new session"
// without losing lifetime records.
func (s *Statistics) ResetSession() {
	for _, n := range s.windows {
		s.session[n].Reset()
	}
	s.notify()
}
