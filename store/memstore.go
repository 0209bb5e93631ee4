// Copyright 2026 Damo. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package store

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/google/uuid"

	twistytimer "github.com/damo/twistytimer-core"
	"github.com/damo/twistytimer-core/solve"
)

// MemStore is an in-memory SolveStore, used by this module's own tests
// and as a worked example of the boundary; it is not meant to back a
// real application (spec §6: the real persistence layer is out of
// scope). IDs are minted from a random UUID rather than a counter so the
// store behaves the way a networked store would — insertion order and
// count aren't recoverable from the ID alone.
type MemStore struct {
	mu     sync.Mutex
	solves map[solve.SolveId]solve.Solve
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{solves: make(map[solve.SolveId]solve.Solve)}
}

func mintSolveId(existing map[solve.SolveId]solve.Solve) solve.SolveId {
	for {
		u := uuid.New()
		raw := binary.BigEndian.Uint64(u[8:])
		id := solve.SolveId(raw &^ (1 << 63)) // force positive int64
		if id == solve.NoID {
			continue
		}
		if _, taken := existing[id]; taken {
			continue
		}
		return id
	}
}

func (m *MemStore) Add(ctx context.Context, s solve.Solve) (solve.SolveId, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := mintSolveId(m.solves)
	m.solves[id] = s.WithID(id)
	return id, nil
}

func (m *MemStore) Update(ctx context.Context, s solve.Solve) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.solves[s.ID()]; !ok {
		return fmt.Errorf("store: Update: solve %s not found: %w", s.ID(), twistytimer.ErrInvalidArgument)
	}
	m.solves[s.ID()] = s
	return nil
}

func (m *MemStore) Delete(ctx context.Context, id solve.SolveId) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.solves[id]; !ok {
		return fmt.Errorf("store: Delete: solve %s not found: %w", id, twistytimer.ErrInvalidArgument)
	}
	delete(m.solves, id)
	return nil
}

func (m *MemStore) Exists(ctx context.Context, id solve.SolveId) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.solves[id]
	return ok, nil
}

func (m *MemStore) Get(ctx context.Context, id solve.SolveId) (solve.Solve, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.solves[id]
	return s, ok, nil
}
