package g7rainbow

import "testing"

func needleFromSeed(seed uint32, c uint64) [NeedleCount]uint64 {
	s := NewSfmt(seed)
	s.Skip(c)
	var v [NeedleCount]uint64
	for i := range v {
		v[i] = s.NextU64()
	}
	return v
}

// TestSearchSeedsFindsKnownSeed is scenario S2: build a small table, and
// for every start seed in its range, searching with that seed's own
// needle vector must find it.
func TestSearchSeedsFindsKnownSeed(t *testing.T) {
	assert := newAsserter(t)

	const c = 417
	const length = 128
	const m = 32
	const numTables = 2

	for tableID := uint32(0); tableID < numTables; tableID++ {
		entries := make([]ChainEntry, m)
		for i := 0; i < m; i++ {
			entries[i] = ComputeChain(uint32(i), c, tableID, length)
		}
		SortTableParallel(entries, c)

		for seed := uint32(0); seed < m; seed++ {
			needle := needleFromSeed(seed, c)
			found := SearchSeeds(needle, c, entries, tableID, length)

			ok := false
			for _, s := range found {
				if s == seed {
					ok = true
					break
				}
			}
			assert(ok, "table %d: search for seed %d's needle did not return it (found %v)", tableID, seed, found)
		}
	}
}

// TestSearchSeedsNeverReturnsWrongSeed checks S1's negative half: no
// seed returned by SearchSeeds may fail to reproduce the target hash
// under GenHashFromSeed.
func TestSearchSeedsNeverReturnsWrongSeed(t *testing.T) {
	assert := newAsserter(t)

	const c = 417
	const length = 128
	const m = 32
	const tableID = 0

	entries := make([]ChainEntry, m)
	for i := 0; i < m; i++ {
		entries[i] = ComputeChain(uint32(i), c, tableID, length)
	}
	SortTableParallel(entries, c)

	needle := [NeedleCount]uint64{5, 10, 3, 8, 12, 1, 7, 15}
	targetHash := GenHash(needle)

	found := SearchSeeds(needle, c, entries, tableID, length)
	for _, s := range found {
		got := GenHashFromSeed(s, c)
		assert(got == targetHash, "search returned seed %d whose hash %d != target %d", s, got, targetHash)
	}
}

// TestSearchSeedsEmptyTable checks the empty-table edge case.
func TestSearchSeedsEmptyTable(t *testing.T) {
	assert := newAsserter(t)

	needle := [NeedleCount]uint64{1, 2, 3, 4, 5, 6, 7, 8}
	found := SearchSeeds(needle, 417, nil, 0, 128)
	assert(len(found) == 0, "search against an empty table returned %d results", len(found))
}

// TestSearchSeedsIndexedMatchesSearchSeeds checks that the MPH-indexed
// search path returns the same set of seeds as the binary-search path.
func TestSearchSeedsIndexedMatchesSearchSeeds(t *testing.T) {
	assert := newAsserter(t)

	const c = 417
	const length = 64
	const m = 64
	const tableID = 1

	entries := make([]ChainEntry, m)
	for i := 0; i < m; i++ {
		entries[i] = ComputeChain(uint32(i), c, tableID, length)
	}
	SortTableParallel(entries, c)

	idx, err := BuildEndHashIndex(entries, c)
	assert(err == nil, "BuildEndHashIndex failed: %s", err)

	for seed := uint32(0); seed < m; seed += 7 {
		needle := needleFromSeed(seed, c)

		viaSort := SearchSeeds(needle, c, entries, tableID, length)
		viaIndex := SearchSeedsIndexed(needle, c, idx, tableID, length)

		assert(len(viaSort) == len(viaIndex), "seed %d: sort path found %d, index path found %d", seed, len(viaSort), len(viaIndex))

		set := make(map[uint32]bool, len(viaSort))
		for _, s := range viaSort {
			set[s] = true
		}
		for _, s := range viaIndex {
			assert(set[s], "seed %d: index path found %d not present in sort path", seed, s)
		}
	}
}

// TestSearchSeedsTables16MatchesSearchSeeds checks the 16-table SIMD
// fan-out variant agrees with running SearchSeeds once per table.
func TestSearchSeedsTables16MatchesSearchSeeds(t *testing.T) {
	assert := newAsserter(t)

	const c = 417
	const length = 32
	const m = 16

	var bundle Table16
	tables := make([][]ChainEntry, LaneWidth)
	for lane := 0; lane < LaneWidth; lane++ {
		entries := make([]ChainEntry, m)
		for i := 0; i < m; i++ {
			entries[i] = ComputeChain(uint32(i), c, uint32(lane), length)
		}
		SortTableParallel(entries, c)
		tables[lane] = entries
		bundle.Tables[lane] = entries
		bundle.TableIDs[lane] = uint32(lane)
	}

	needle := needleFromSeed(3, c)

	want := make(map[uint32]bool)
	for lane := 0; lane < LaneWidth; lane++ {
		for _, s := range SearchSeeds(needle, c, tables[lane], uint32(lane), length) {
			want[s] = true
		}
	}

	got := SearchSeedsTables16(needle, c, bundle, length)
	gotSet := make(map[uint32]bool, len(got))
	for _, s := range got {
		gotSet[s] = true
	}

	assert(len(gotSet) == len(want), "Tables16 found %d seeds, per-table search found %d", len(gotSet), len(want))
	for s := range want {
		assert(gotSet[s], "Tables16 missed seed %d found by per-table search", s)
	}
}
