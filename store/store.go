// Copyright 2026 Damo. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package store

import (
	"context"

	"github.com/damo/twistytimer-core/solve"
)

// SolveStore is the persistence boundary PuzzleTimer consumes (spec §6).
// All methods are async in spirit — a real implementation is expected to
// be backed by a database or network call — but the Go signature makes
// that explicit with a context and an error return rather than a
// separate callback registration; results that arrive out of band (from
// another client, a sync pass, a server-side check) are reported through
// Event via whatever notification channel the caller wires up.
type SolveStore interface {
	Add(ctx context.Context, s solve.Solve) (solve.SolveId, error)
	Update(ctx context.Context, s solve.Solve) error
	Delete(ctx context.Context, id solve.SolveId) error
	Exists(ctx context.Context, id solve.SolveId) (bool, error)
	Get(ctx context.Context, id solve.SolveId) (solve.Solve, bool, error)
}
