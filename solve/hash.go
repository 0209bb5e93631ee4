// Copyright 2026 Damo. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package solve

import (
	"hash/fnv"
	"strconv"
	"sync"
)

// hashCacheCap bounds hashCache's size. Unlike penalty's interning table,
// Solve carries unbounded free text (scramble, comment), so the map key
// space is not bounded the same way — without a cap, every distinct
// Solve ever hashed would be retained forever. Once the cache reaches
// this size it is dropped wholesale rather than evicted entry-by-entry:
// Hash() is a convenience for comparisons/set membership, not a
// correctness-critical path, so an occasional cache-wide miss costs a
// re-hash, not a bug.
const hashCacheCap = 4096

var (
	hashCacheMu sync.Mutex
	hashCache   = make(map[Solve]uint64, 256)
)

func hashSolve(s Solve) uint64 {
	hashCacheMu.Lock()
	if h, ok := hashCache[s]; ok {
		hashCacheMu.Unlock()
		return h
	}
	hashCacheMu.Unlock()

	h := fnv.New64a()
	_, _ = h.Write(strconv.AppendInt(nil, int64(s.id), 10))
	_, _ = h.Write(strconv.AppendInt(nil, s.exactTimeMs, 10))
	_, _ = h.Write([]byte{byte(s.puzzleType)})
	_, _ = h.Write([]byte(s.category))
	_, _ = h.Write(strconv.AppendInt(nil, s.dateMs, 10))
	_, _ = h.Write([]byte(s.scramble))
	_, _ = h.Write(strconv.AppendUint(nil, uint64(s.penalties.Encode()), 10))
	_, _ = h.Write([]byte(s.comment))
	if s.history {
		_, _ = h.Write([]byte{1})
	}
	sum := h.Sum64()

	hashCacheMu.Lock()
	if len(hashCache) >= hashCacheCap {
		hashCache = make(map[Solve]uint64, 256)
	}
	hashCache[s] = sum
	hashCacheMu.Unlock()
	return sum
}
