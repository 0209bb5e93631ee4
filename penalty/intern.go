// Copyright 2026 Damo. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package penalty

import "sync"

// The universe of valid Penalties values is small (at most
// (MaxPlusTwos+1)^2 * 3 - odd combinations, well under 200), so every
// valid value is interned: equal inputs always yield the same instance.
// This is a pure optimisation (spec §4.1 "Caching") and must never be
// observable through behaviour, only through == identity on the returned
// value.
var (
	internMu    sync.Mutex
	internTable = make(map[Penalties]Penalties, 64)
)

// intern assumes p has already been validated and returns the canonical
// instance equal to p, registering p as canonical if it is the first of
// its kind seen.
func intern(p Penalties) Penalties {
	internMu.Lock()
	defer internMu.Unlock()
	if canon, ok := internTable[p]; ok {
		return canon
	}
	internTable[p] = p
	return p
}
