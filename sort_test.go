package g7rainbow

import "testing"

func buildTestTable(n int, c uint64, tableID uint32, length int) []ChainEntry {
	entries := make([]ChainEntry, n)
	for i := 0; i < n; i++ {
		entries[i] = ComputeChain(uint32(i), c, tableID, length)
	}
	return entries
}

// TestSortTableParallelNonDecreasing checks Testable Property 4's first
// half: after sort, the key sequence is non-decreasing.
func TestSortTableParallelNonDecreasing(t *testing.T) {
	assert := newAsserter(t)

	const c = 417
	entries := buildTestTable(2000, c, 0, 16)

	SortTableParallel(entries, c)

	for i := 1; i < len(entries); i++ {
		assert(entries[i-1].Key(c) <= entries[i].Key(c),
			"index %d: key %d > next key %d", i, entries[i-1].Key(c), entries[i].Key(c))
	}
}

// TestDeduplicateTableNoAdjacentDuplicates checks Testable Property 4's
// second half: after dedup, no two adjacent entries share a key.
func TestDeduplicateTableNoAdjacentDuplicates(t *testing.T) {
	assert := newAsserter(t)

	const c = 417
	entries := buildTestTable(5000, c, 0, 8)
	SortTableParallel(entries, c)

	deduped := DeduplicateTable(entries, c)
	assert(len(deduped) <= len(entries), "dedup grew the table: %d > %d", len(deduped), len(entries))

	for i := 1; i < len(deduped); i++ {
		assert(deduped[i-1].Key(c) != deduped[i].Key(c),
			"adjacent duplicate key %d at index %d", deduped[i].Key(c), i)
	}

	// every deduped entry must have been present in the original, keyed by
	// start seed (dedup keeps the first entry of each run).
	present := make(map[uint32]bool, len(entries))
	for _, e := range entries {
		present[e.StartSeed] = true
	}
	for _, e := range deduped {
		assert(present[e.StartSeed], "deduped entry with start seed %d not in original table", e.StartSeed)
	}
}

// TestEndHashIndexMatchesGroups checks the chdindex-backed EndHashIndex
// returns exactly the start seeds recorded against each end-hash, via a
// plain map built independently.
func TestEndHashIndexMatchesGroups(t *testing.T) {
	assert := newAsserter(t)

	const c = 417
	const tableID = 3
	entries := buildTestTable(3000, c, tableID, 8)

	want := make(map[uint64][]uint32)
	for _, e := range entries {
		h := GenHashFromSeed(e.EndSeed, c)
		want[h] = append(want[h], e.StartSeed)
	}

	idx, err := BuildEndHashIndex(entries, c)
	assert(err == nil, "BuildEndHashIndex failed: %s", err)

	for h, seeds := range want {
		got := idx.Lookup(h)
		assert(len(got) == len(seeds), "hash %#x: got %d seeds, want %d", h, len(got), len(seeds))

		gotSet := make(map[uint32]bool, len(got))
		for _, s := range got {
			gotSet[s] = true
		}
		for _, s := range seeds {
			assert(gotSet[s], "hash %#x: expected start seed %d missing from index", h, s)
		}
	}

	// A hash that was never one of the recorded end-hashes must not
	// collide onto a non-empty bucket's contents.
	neverSeen := GenHashFromSeed(0xFFFFFFFE, c+1000003)
	if _, ok := want[neverSeen]; !ok {
		got := idx.Lookup(neverSeen)
		assert(len(got) == 0, "unrelated hash %#x unexpectedly matched %d seeds", neverSeen, len(got))
	}
}
