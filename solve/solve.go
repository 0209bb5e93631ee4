// Copyright 2026 Damo. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

// Package solve implements the immutable Solve value object (spec §3.3,
// §4.2): the record produced once a PuzzleTimer commits a solve, and the
// WCA-mandated rounding applied when its time is read.
package solve

import (
	"fmt"
	"strings"

	twistytimer "github.com/damo/twistytimer-core"
	"github.com/damo/twistytimer-core/penalty"
)

// SolveId identifies a persisted Solve. NoID marks a Solve that has not
// yet been assigned an ID by a SolveStore.
type SolveId int64

// NoID is the sentinel SolveId of a not-yet-persisted Solve.
const NoID SolveId = -1

func (id SolveId) String() string {
	if id == NoID {
		return "<no-id>"
	}
	return fmt.Sprintf("%d", int64(id))
}

// wcaRoundThresholdMs is the boundary (spec §3.3 "Rounding"): below this,
// times truncate to the nearest 10ms; at or above it, times round to the
// nearest 1000ms.
const wcaRoundThresholdMs = 10 * 60 * 1000 // 10 minutes

// Solve is the immutable record of a completed solve attempt. Every
// mutator is a "with-style" copier returning a new Solve; there is no way
// to mutate one in place.
type Solve struct {
	id          SolveId
	exactTimeMs int64
	puzzleType  PuzzleType
	category    string
	dateMs      int64
	scramble    string
	penalties   penalty.Penalties
	comment     string
	history     bool
}

// New builds a Solve with NoID, not yet marked as history. category must
// be non-empty. scramble and comment are trimmed of surrounding
// whitespace and normalise to "" when absent.
func New(exactTimeMs int64, puzzleType PuzzleType, category string, dateMs int64, scramble string, penalties penalty.Penalties, comment string) (Solve, error) {
	if !puzzleType.Valid() {
		return Solve{}, fmt.Errorf("solve: invalid puzzle type %d: %w", int(puzzleType), twistytimer.ErrInvalidArgument)
	}
	category = strings.TrimSpace(category)
	if category == "" {
		return Solve{}, fmt.Errorf("solve: category must be non-empty: %w", twistytimer.ErrInvalidArgument)
	}
	return Solve{
		id:          NoID,
		exactTimeMs: exactTimeMs,
		puzzleType:  puzzleType,
		category:    category,
		dateMs:      dateMs,
		scramble:    strings.TrimSpace(scramble),
		penalties:   penalties,
		comment:     strings.TrimSpace(comment),
		history:     false,
	}, nil
}

func (s Solve) ID() SolveId                   { return s.id }
func (s Solve) ExactTimeMs() int64            { return s.exactTimeMs }
func (s Solve) PuzzleType() PuzzleType        { return s.puzzleType }
func (s Solve) Category() string              { return s.category }
func (s Solve) DateMs() int64                 { return s.dateMs }
func (s Solve) Scramble() string              { return s.scramble }
func (s Solve) Penalties() penalty.Penalties  { return s.penalties }
func (s Solve) Comment() string               { return s.comment }
func (s Solve) History() bool                 { return s.history }

// IsDNF reports whether the solve is disqualified.
func (s Solve) IsDNF() bool { return s.penalties.IsDNF() }

// GetTime returns the WCA-rounded time (Regulations 9f1/9f2), computed at
// read time from the raw exactTimeMs: durations under 10 minutes truncate
// down to the nearest 10ms; durations at or above 10 minutes round to the
// nearest 1000ms. The raw value is never overwritten, so a future rule
// change does not require a data migration.
func (s Solve) GetTime() int64 {
	return wcaRound(s.exactTimeMs)
}

func wcaRound(exactMs int64) int64 {
	if exactMs < wcaRoundThresholdMs {
		return (exactMs / 10) * 10
	}
	return ((exactMs + 500) / 1000) * 1000
}

// WCARound applies the same rounding rule as Solve.GetTime to a raw
// millisecond duration. Exported for stats.AverageCalculator, which
// rounds times at insertion (spec §4.5) rather than at read time.
func WCARound(exactMs int64) int64 {
	return wcaRound(exactMs)
}

// WithID returns a copy of s with its ID set.
func (s Solve) WithID(id SolveId) Solve {
	s.id = id
	return s
}

// WithDate returns a copy of s with its wall-clock date set.
func (s Solve) WithDate(dateMs int64) Solve {
	s.dateMs = dateMs
	return s
}

// WithHistory returns a copy of s with its history flag set.
func (s Solve) WithHistory(history bool) Solve {
	s.history = history
	return s
}

// WithComment returns a copy of s with its comment replaced (trimmed).
func (s Solve) WithComment(comment string) Solve {
	s.comment = strings.TrimSpace(comment)
	return s
}

// WithPenaltiesAdjustingTime returns a copy of s with its penalties
// replaced by p, adjusting exactTimeMs by the delta between the old and
// new total time-penalty (spec §4.2). Use this when the user is editing
// penalties on a stopped solve and the displayed time should move with
// the edit (e.g. adding a "+2" after the fact).
func (s Solve) WithPenaltiesAdjustingTime(p penalty.Penalties) Solve {
	delta := p.TimePenaltyMs() - s.penalties.TimePenaltyMs()
	s.exactTimeMs += delta
	s.penalties = p
	return s
}

// WithPenaltiesNotAdjustingTime returns a copy of s with its penalties
// replaced by p without touching exactTimeMs at all — for corrections
// that do not represent a change in elapsed wall time (e.g. toggling a
// DNF, which contributes no time either way).
func (s Solve) WithPenaltiesNotAdjustingTime(p penalty.Penalties) Solve {
	s.penalties = p
	return s
}

// WithTimeIncludingPenalties returns a copy of s whose exactTimeMs is set
// directly to t, which is assumed to already include any time penalties.
func (s Solve) WithTimeIncludingPenalties(t int64) Solve {
	s.exactTimeMs = t
	return s
}

// WithTimeExcludingPenalties returns a copy of s whose exactTimeMs is set
// to t plus the current penalties' time contribution.
func (s Solve) WithTimeExcludingPenalties(t int64) Solve {
	s.exactTimeMs = t + s.penalties.TimePenaltyMs()
	return s
}

// Equal reports structural equality over every field.
func (s Solve) Equal(other Solve) bool {
	return s == other
}

// Hash returns a hash consistent with Equal: equal Solves always hash
// equal. Memoised in a package-level cache keyed by the full value
// (unlike penalty.Penalties, Solve's value space is unbounded — comments
// and scrambles are free text — so the cache is capped and dropped
// wholesale once full rather than left to grow forever; see hashCacheCap
// in hash.go).
func (s Solve) Hash() uint64 {
	return hashSolve(s)
}

func (s Solve) String() string {
	return fmt.Sprintf("Solve{id:%s puzzle:%s cat:%q time:%dms pen:%s}", s.id, s.puzzleType, s.category, s.GetTime(), s.penalties)
}
