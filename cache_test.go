package g7rainbow

import "testing"

// TestSessionCacheGetPut checks basic memoization: a result stored under
// a needle vector is returned by a subsequent Get for the same vector.
func TestSessionCacheGetPut(t *testing.T) {
	assert := newAsserter(t)

	cache, err := NewSessionCache(16)
	assert(err == nil, "NewSessionCache failed: %s", err)

	hdr := &TableHeader{Consumption: 417, ChainLength: 64, ChainsPerTable: 100, CreatedAt: 1}
	cache.LoadTable(hdr)

	needle := [NeedleCount]uint64{1, 2, 3, 4, 5, 6, 7, 8}
	_, ok := cache.Get(needle)
	assert(!ok, "Get returned a hit before any Put")

	want := []uint32{42, 99}
	cache.Put(needle, want)

	got, ok := cache.Get(needle)
	assert(ok, "Get missed after Put")
	assert(len(got) == len(want) && got[0] == want[0] && got[1] == want[1], "Get returned %v, want %v", got, want)
}

// TestSessionCacheInvalidatesOnTableChange checks that loading a
// different table generation invalidates previously cached entries.
func TestSessionCacheInvalidatesOnTableChange(t *testing.T) {
	assert := newAsserter(t)

	cache, err := NewSessionCache(16)
	assert(err == nil, "NewSessionCache failed: %s", err)

	hdr1 := &TableHeader{Consumption: 417, ChainLength: 64, ChainsPerTable: 100, CreatedAt: 1}
	cache.LoadTable(hdr1)

	needle := [NeedleCount]uint64{1, 2, 3, 4, 5, 6, 7, 8}
	cache.Put(needle, []uint32{7})

	_, ok := cache.Get(needle)
	assert(ok, "Get missed immediately after Put")

	hdr2 := &TableHeader{Consumption: 417, ChainLength: 64, ChainsPerTable: 100, CreatedAt: 2}
	cache.LoadTable(hdr2)

	_, ok = cache.Get(needle)
	assert(!ok, "Get hit for a needle cached under a different table generation")
}
