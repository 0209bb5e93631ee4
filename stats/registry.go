// Copyright 2026 Damo. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package stats

import (
	"sync"

	"github.com/damo/twistytimer-core/solve"
)

// trackKey identifies one puzzle-type/category combination's Statistics
// (spec §X.1 "Multiple concurrent puzzle/category tracks").
type trackKey struct {
	puzzleType solve.PuzzleType
	category   string
}

// Registry lazily creates and caches a Statistics per (puzzle type,
// category) pair, so switching puzzles or categories mid-session never
// cross-contaminates averages. Guarded by a mutex like store.MemStore's
// map, since unlike a single Statistics (mutated only from the
// dispatcher thread) a Registry may be consulted from any goroutine that
// wants to read a puzzle's records.
type Registry struct {
	windows         []int
	disqualifyOnDNF bool

	mu      sync.Mutex
	entries map[trackKey]*Statistics
}

// NewRegistry returns a Registry whose Statistics all track the same
// window sizes and DNF policy.
func NewRegistry(windows []int, disqualifyOnDNF bool) *Registry {
	return &Registry{
		windows:         append([]int(nil), windows...),
		disqualifyOnDNF: disqualifyOnDNF,
		entries:         make(map[trackKey]*Statistics),
	}
}

// For returns the Statistics for (puzzleType, category), creating it on
// first use.
func (r *Registry) For(puzzleType solve.PuzzleType, category string) (*Statistics, error) {
	key := trackKey{puzzleType: puzzleType, category: category}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.entries[key]; ok {
		return s, nil
	}
	s, err := NewStatistics(r.windows, r.disqualifyOnDNF)
	if err != nil {
		return nil, err
	}
	r.entries[key] = s
	return s, nil
}

// Track identifies one puzzle-type/category pair known to a Registry.
type Track struct {
	PuzzleType solve.PuzzleType
	Category   string
}

// Tracks returns the (puzzleType, category) pairs with a Statistics
// already created.
func (r *Registry) Tracks() []Track {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Track, 0, len(r.entries))
	for k := range r.entries {
		out = append(out, Track{PuzzleType: k.puzzleType, Category: k.category})
	}
	return out
}
