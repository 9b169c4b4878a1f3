// search.go -- reverse search across chain columns
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim is made to its
// suitability for any purpose.

package g7rainbow

import (
	"runtime"
	"sort"
	"sync"
)

// walkToEnd computes the synthetic end-hash reached by starting from
// targetHash at column n = col and applying the reduction through
// n = length-1.
func walkToEnd(targetHash uint64, col int, c uint64, tableID uint32, length int) uint64 {
	h := targetHash
	for n := col; n < length; n++ {
		seed := ReduceHashWithSalt(h, uint32(n), tableID)
		h = GenHashFromSeed(seed, c)
	}
	return h
}

// findKeyRange returns the [lo, hi) slice bounds of entries in table
// (sorted by Key(c)) whose key equals target.
func findKeyRange(table []ChainEntry, c uint64, target uint32) (int, int) {
	lo := sort.Search(len(table), func(i int) bool {
		return table[i].Key(c) >= target
	})
	hi := lo
	for hi < len(table) && table[hi].Key(c) == target {
		hi++
	}
	return lo, hi
}

// searchColumn performs the column-local walk, binary search and verify
// steps for one column, appending any emitted seed to out via mu.
func searchColumn(col int, targetHash uint64, c uint64, tableID uint32, length int, table []ChainEntry, out *[]uint32, mu *sync.Mutex) {
	hEnd := walkToEnd(targetHash, col, c, tableID, length)
	key := uint32(hEnd)

	lo, hi := findKeyRange(table, c, key)
	for i := lo; i < hi; i++ {
		seed, ok := VerifyChain(table[i].StartSeed, col, targetHash, c, tableID)
		if ok {
			mu.Lock()
			*out = append(*out, seed)
			mu.Unlock()
		}
	}
}

// SearchSeeds inverts a needle vector against one sorted table,
// fanning the column loop out over goroutines. Edge cases: an empty
// table returns an empty slice; a needle vector is assumed already
// validated by the caller (every element <= 16).
func SearchSeeds(needle [NeedleCount]uint64, c uint64, table []ChainEntry, tableID uint32, length int) []uint32 {
	if len(table) == 0 {
		return nil
	}

	targetHash := GenHash(needle)

	var (
		mu  sync.Mutex
		out []uint32
		wg  sync.WaitGroup
	)

	sem := make(chan struct{}, maxConcurrentColumns())
	for col := 0; col < length; col++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(col int) {
			defer wg.Done()
			defer func() { <-sem }()
			searchColumn(col, targetHash, c, tableID, length, table, &out, &mu)
		}(col)
	}
	wg.Wait()

	return dedupUint32(out)
}

// searchColumnIndexed is searchColumn's rendition against an
// EndHashIndex instead of a binary search: the column-local walk is
// identical, but candidate lookup is a single O(1) expected MPH probe.
func searchColumnIndexed(col int, targetHash uint64, c uint64, tableID uint32, length int, idx *EndHashIndex, out *[]uint32, mu *sync.Mutex) {
	hEnd := walkToEnd(targetHash, col, c, tableID, length)

	for _, startSeed := range idx.Lookup(hEnd) {
		seed, ok := VerifyChain(startSeed, col, targetHash, c, tableID)
		if ok {
			mu.Lock()
			*out = append(*out, seed)
			mu.Unlock()
		}
	}
}

// SearchSeedsIndexed is SearchSeeds against a table's EndHashIndex
// (BuildEndHashIndex) rather than its sort order, trading the sort
// step's O(m log m) and search's O(L log m) binary searches for an
// O(m) index build and O(L) expected-constant lookups.
func SearchSeedsIndexed(needle [NeedleCount]uint64, c uint64, idx *EndHashIndex, tableID uint32, length int) []uint32 {
	targetHash := GenHash(needle)

	var (
		mu  sync.Mutex
		out []uint32
		wg  sync.WaitGroup
	)

	sem := make(chan struct{}, maxConcurrentColumns())
	for col := 0; col < length; col++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(col int) {
			defer wg.Done()
			defer func() { <-sem }()
			searchColumnIndexed(col, targetHash, c, tableID, length, idx, &out, &mu)
		}(col)
	}
	wg.Wait()

	return dedupUint32(out)
}

func maxConcurrentColumns() int {
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		n = 1
	}
	return n
}

func dedupUint32(v []uint32) []uint32 {
	if len(v) < 2 {
		return v
	}
	sort.Slice(v, func(i, j int) bool { return v[i] < v[j] })
	out := v[:1]
	for _, x := range v[1:] {
		if x != out[len(out)-1] {
			out = append(out, x)
		}
	}
	return out
}

// Table16 bundles 16 sorted tables (one per table_id) for the SIMD fan-out
// search variant.
type Table16 struct {
	Tables   [LaneWidth][]ChainEntry
	TableIDs [LaneWidth]uint32
}

// SearchSeedsTables16 performs the same column loop as SearchSeeds, but
// walks all 16 table_ids simultaneously via the 16-lane reduction at each
// column; per-lane binary search and verify proceed independently.
func SearchSeedsTables16(needle [NeedleCount]uint64, c uint64, tables Table16, length int) []uint32 {
	targetHash := GenHash(needle)

	var (
		mu  sync.Mutex
		out []uint32
		wg  sync.WaitGroup
	)

	sem := make(chan struct{}, maxConcurrentColumns())
	for col := 0; col < length; col++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(col int) {
			defer wg.Done()
			defer func() { <-sem }()

			var h [LaneWidth]uint64
			for lane := range h {
				h[lane] = targetHash
			}
			for n := col; n < length; n++ {
				var seeds [LaneWidth]uint32
				for lane := 0; lane < LaneWidth; lane++ {
					seeds[lane] = ReduceHashWithSalt(h[lane], uint32(n), tables.TableIDs[lane])
				}
				h = GenHashFromSeedX16(seeds, c)
			}

			for lane := 0; lane < LaneWidth; lane++ {
				table := tables.Tables[lane]
				if len(table) == 0 {
					continue
				}
				key := uint32(h[lane])
				lo, hi := findKeyRange(table, c, key)
				for i := lo; i < hi; i++ {
					seed, ok := VerifyChain(table[i].StartSeed, col, targetHash, c, tables.TableIDs[lane])
					if ok {
						mu.Lock()
						out = append(out, seed)
						mu.Unlock()
					}
				}
			}
		}(col)
	}
	wg.Wait()

	return dedupUint32(out)
}
