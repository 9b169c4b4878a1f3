// sort.go -- parallel sort and optional index over a table's chains
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim is made to its
// suitability for any purpose.

package g7rainbow

import (
	"runtime"
	"sort"
	"sync"

	"github.com/opencoff/g7rainbow/internal/chdindex"
)

// keyedEntry pairs a precomputed sort key with its ChainEntry.
type keyedEntry struct {
	key   uint32
	entry ChainEntry
}

// SortTableParallel computes key(e) = lower32(GenHashFromSeed(e.EndSeed,
// c)) for every entry in parallel, then performs a single unstable sort
// on (key, entry) pairs. The input slice is sorted in place.
func SortTableParallel(entries []ChainEntry, c uint64) {
	n := len(entries)
	keyed := make([]keyedEntry, n)

	workers := runtime.GOMAXPROCS(0)
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	if workers <= 1 || n == 0 {
		for i, e := range entries {
			keyed[i] = keyedEntry{key: e.Key(c), entry: e}
		}
	} else {
		var wg sync.WaitGroup
		chunk := (n + workers - 1) / workers
		for w := 0; w < workers; w++ {
			lo := w * chunk
			hi := lo + chunk
			if hi > n {
				hi = n
			}
			if lo >= hi {
				continue
			}
			wg.Add(1)
			go func(lo, hi int) {
				defer wg.Done()
				for i := lo; i < hi; i++ {
					keyed[i] = keyedEntry{key: entries[i].Key(c), entry: entries[i]}
				}
			}(lo, hi)
		}
		wg.Wait()
	}

	sort.Slice(keyed, func(i, j int) bool {
		return keyed[i].key < keyed[j].key
	})

	for i, ke := range keyed {
		entries[i] = ke.entry
	}
}

// DeduplicateTable removes, for each maximal run of adjacent entries that
// share the same sort key, every entry but the first. entries must
// already be sorted by key (SortTableParallel). Returns the deduplicated
// slice; the stable order of the first-seen entry within a run is
// preserved.
func DeduplicateTable(entries []ChainEntry, c uint64) []ChainEntry {
	if len(entries) == 0 {
		return entries
	}

	out := entries[:1]
	lastKey := entries[0].Key(c)
	for _, e := range entries[1:] {
		k := e.Key(c)
		if k == lastKey {
			continue
		}
		out = append(out, e)
		lastKey = k
	}
	return out
}

// EndHashIndex is an optional alternative to binary search: a constant-
// time map from a table's end-hash to every start seed sharing that
// hash. It is backed by a minimal perfect hash (chdindex) over the
// table's distinct end-hashes, giving O(1) lookup instead of search.go's
// O(log m) binary search, at the cost of a one-time build pass and a
// seed-table roughly 1/load larger than the distinct key count.
type EndHashIndex struct {
	mph   *chdindex.MPH
	keys  []uint64
	seeds [][]uint32
}

// endHashLoadFactor is the load factor passed to chdindex.Freeze; 0.9
// keeps the seed table close to the distinct-key count while still
// converging quickly for the collision rates this reduction produces.
const endHashLoadFactor = 0.9

// BuildEndHashIndex constructs an EndHashIndex over entries, keyed by the
// full 64-bit GenHashFromSeed(e.EndSeed, c), not the truncated sort key.
func BuildEndHashIndex(entries []ChainEntry, c uint64) (*EndHashIndex, error) {
	groups := make(map[uint64][]uint32)
	for _, e := range entries {
		h := GenHashFromSeed(e.EndSeed, c)
		groups[h] = append(groups[h], e.StartSeed)
	}

	b := chdindex.New(rand64())
	for h := range groups {
		if err := b.Add(h); err != nil {
			return nil, err
		}
	}

	mph, err := b.Freeze(endHashLoadFactor)
	if err != nil {
		return nil, err
	}

	keys := make([]uint64, mph.Len())
	seeds := make([][]uint32, mph.Len())
	for h, ss := range groups {
		slot := mph.Find(h)
		keys[slot] = h
		seeds[slot] = ss
	}

	return &EndHashIndex{mph: mph, keys: keys, seeds: seeds}, nil
}

// Lookup returns every start seed recorded against end-hash h, or nil if
// h was not one of the keys BuildEndHashIndex was built from.
func (idx *EndHashIndex) Lookup(h uint64) []uint32 {
	slot := idx.mph.Find(h)
	if slot >= uint64(len(idx.keys)) || idx.keys[slot] != h {
		return nil
	}
	return idx.seeds[slot]
}
