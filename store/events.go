// Copyright 2026 Damo. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

// Package store declares the SolveStore boundary (spec §6): the
// out-of-scope persistence collaborator PuzzleTimer consumes to persist
// solves and stay in sync with external changes, plus an in-memory
// reference implementation used by this module's own tests.
package store

import "github.com/damo/twistytimer-core/solve"

// Event is the closed set of asynchronous notifications a SolveStore
// delivers back to its consumer (spec §6). Every variant below
// implements it; callers type-switch on the concrete type.
type Event interface {
	isEvent()
}

// OneSolveAdded reports a single solve was persisted.
type OneSolveAdded struct{ Solve solve.Solve }

// OneSolveUpdated reports a single solve's fields changed.
type OneSolveUpdated struct{ Solve solve.Solve }

// OneSolveDeleted reports a single solve was removed.
type OneSolveDeleted struct{ ID solve.SolveId }

// SolveVerified reports a pending solve passed store-side verification
// (e.g. a server-side integrity check in a networked store).
type SolveVerified struct{ ID solve.SolveId }

// SolveNotVerified reports the opposite of SolveVerified.
type SolveNotVerified struct{ ID solve.SolveId }

// ManySolvesAdded reports a batch add, e.g. an import.
type ManySolvesAdded struct{ Solves []solve.Solve }

// ManySolvesDeleted reports a batch delete, e.g. clearing a session.
type ManySolvesDeleted struct{ IDs []solve.SolveId }

// SolvesMovedToHistory reports solves transitioning from the current
// session into archived history (spec §3.3 "history flag").
type SolvesMovedToHistory struct{ IDs []solve.SolveId }

func (OneSolveAdded) isEvent()        {}
func (OneSolveUpdated) isEvent()      {}
func (OneSolveDeleted) isEvent()      {}
func (SolveVerified) isEvent()        {}
func (SolveNotVerified) isEvent()     {}
func (ManySolvesAdded) isEvent()      {}
func (ManySolvesDeleted) isEvent()    {}
func (SolvesMovedToHistory) isEvent() {}
