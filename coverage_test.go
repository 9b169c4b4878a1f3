package g7rainbow

import "testing"

// TestSeedBitmapReachableMissingComplement checks Testable Property 5:
// count_reachable + count_missing == 2^32 at all times, including the
// empty bitmap.
func TestSeedBitmapReachableMissingComplement(t *testing.T) {
	assert := newAsserter(t)

	bm := NewSeedBitmap()
	total := bm.CountReachable() + bm.CountMissing()
	assert(total == uint64(1)<<32, "empty bitmap: reachable+missing = %d, want 2^32", total)

	for _, p := range []uint32{0, 1, 12345, 0xFFFFFFFF} {
		bm.Set(p)
	}
	total = bm.CountReachable() + bm.CountMissing()
	assert(total == uint64(1)<<32, "after Set: reachable+missing = %d, want 2^32", total)
}

// TestSeedBitmapSetIsSet checks Set/IsSet agree, and that unset bits
// report false.
func TestSeedBitmapSetIsSet(t *testing.T) {
	assert := newAsserter(t)

	bm := NewSeedBitmap()
	assert(!bm.IsSet(42), "bit 42 set before any Set call")

	bm.Set(42)
	assert(bm.IsSet(42), "bit 42 not set after Set(42)")
	assert(!bm.IsSet(43), "Set(42) bled into bit 43")
}

// TestExtractMissingSeedsMatchesClearBits checks Testable Property 6 at
// small scale: extract_missing_seeds returns exactly the bits that are
// clear, with the right cardinality.
func TestExtractMissingSeedsMatchesClearBits(t *testing.T) {
	assert := newAsserter(t)

	bm := NewSeedBitmap()
	set := map[uint32]bool{0: true, 1: true, 70: true, 1 << 20: true}
	for p := range set {
		bm.Set(p)
	}

	missing := bm.ExtractMissingSeeds()
	assert(uint64(len(missing)) == bm.CountMissing(), "len(missing)=%d != CountMissing()=%d", len(missing), bm.CountMissing())

	// Spot-check: none of the set bits appear among the first 1000 missing
	// entries, and a handful of known-clear bits appear in the missing list.
	// The scan is in order, so a clear bit p sits at an index <= p.
	missingSet := make(map[uint32]bool, 0)
	for _, p := range missing[:1000] {
		missingSet[p] = true
	}
	for p := range set {
		assert(!missingSet[p], "set bit %d appeared in missing list", p)
	}
	for _, p := range []uint32{2, 3, 71, 1<<20 + 1} {
		assert(!set[p], "test setup error: %d should not be in `set`", p)
		found := false
		for _, m := range missing[:int(p)+1] {
			if m == p {
				found = true
				break
			}
		}
		assert(found, "clear bit %d did not appear in the missing list", p)
	}
}

// TestBuildSeedBitmapMarksChainSeeds builds a small table, runs
// BuildSeedBitmap, and checks that every seed enumerated by
// EnumerateChainSeeds for each chain is marked reachable (S5).
func TestBuildSeedBitmapMarksChainSeeds(t *testing.T) {
	assert := newAsserter(t)

	const c = 417
	const tableID = 0
	const length = 64
	const m = 200

	entries := make([]ChainEntry, m)
	for i := 0; i < m; i++ {
		entries[i] = ComputeChain(uint32(i), c, tableID, length)
	}

	bm := NewSeedBitmap()
	BuildSeedBitmap(bm, entries, c, tableID, length, nil)

	for i := 0; i < m; i += 13 {
		seq := EnumerateChainSeeds(entries[i].StartSeed, c, tableID, length)
		for _, s := range seq {
			assert(bm.IsSet(s), "seed %d from chain %d not marked reachable", s, i)
		}
	}

	reachable := bm.CountReachable()
	assert(reachable > 0, "CountReachable() is 0 after building a non-empty bitmap")
	assert(reachable < uint64(1)<<32, "CountReachable() claims every seed reachable from %d chains", m)
}

// TestBuildSeedBitmapPaddedTailIdempotent checks that a table whose
// length isn't a multiple of LaneWidth (forcing a padded tail chunk)
// still marks every real chain's seeds, without crashing on the padding.
func TestBuildSeedBitmapPaddedTailIdempotent(t *testing.T) {
	assert := newAsserter(t)

	const c = 417
	const tableID = 0
	const length = 16
	const m = LaneWidth + 3 // forces a short tail chunk

	entries := make([]ChainEntry, m)
	for i := 0; i < m; i++ {
		entries[i] = ComputeChain(uint32(i), c, tableID, length)
	}

	bm := NewSeedBitmap()
	BuildSeedBitmap(bm, entries, c, tableID, length, nil)

	for _, e := range entries {
		assert(bm.IsSet(e.StartSeed), "start seed %d not reachable", e.StartSeed)
		assert(bm.IsSet(e.EndSeed), "end seed %d not reachable", e.EndSeed)
	}
}
