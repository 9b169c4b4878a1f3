// chain.go -- rainbow chain primitives
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim is made to its
// suitability for any purpose.

package g7rainbow

// ChainEntry is a single rainbow-chain endpoint pair. It is 8 bytes,
// little-endian on disk, and immutable once computed.
type ChainEntry struct {
	StartSeed uint32
	EndSeed   uint32
}

// Key is the sort key for this entry: the lower 32 bits of
// GenHashFromSeed(EndSeed, c).
func (e ChainEntry) Key(c uint64) uint32 {
	return uint32(GenHashFromSeed(e.EndSeed, c))
}

// ComputeChain walks L steps from seed, applying the reduction at each
// column, and returns the (start, end) pair.
func ComputeChain(seed uint32, c uint64, tableID uint32, length int) ChainEntry {
	s := seed
	for n := 0; n < length; n++ {
		h := GenHashFromSeed(s, c)
		s = ReduceHashWithSalt(h, uint32(n), tableID)
	}
	return ChainEntry{StartSeed: seed, EndSeed: s}
}

// ComputeChainsX16 is the lane-parallel rendition of ComputeChain, driving
// the 16-lane SFMT and 16-lane reduction. ComputeChainsX16(seeds, c, t,
// L)[j] must equal ComputeChain(seeds[j], c, t, L) for every j.
func ComputeChainsX16(seeds [LaneWidth]uint32, c uint64, tableID uint32, length int) [LaneWidth]ChainEntry {
	s := seeds
	for n := 0; n < length; n++ {
		h := GenHashFromSeedX16(s, c)
		s = ReduceHashWithSaltX16(h, uint32(n), tableID)
	}

	var out [LaneWidth]ChainEntry
	for lane := 0; lane < LaneWidth; lane++ {
		out[lane] = ChainEntry{StartSeed: seeds[lane], EndSeed: s[lane]}
	}
	return out
}

// VerifyChain walks `column` steps forward from start and compares the
// hash at that point against targetHash. On a match it returns the seed
// reached and true; otherwise the zero value and false. Runs in
// O(column).
func VerifyChain(start uint32, column int, targetHash uint64, c uint64, tableID uint32) (uint32, bool) {
	s := start
	var h uint64
	for n := 0; n < column; n++ {
		h = GenHashFromSeed(s, c)
		s = ReduceHashWithSalt(h, uint32(n), tableID)
	}
	h = GenHashFromSeed(s, c)
	if h == targetHash {
		return s, true
	}
	return 0, false
}

// EnumerateChainSeeds yields the full length+1 sequence of seeds starting
// at seed, used by the coverage pass.
func EnumerateChainSeeds(seed uint32, c uint64, tableID uint32, length int) []uint32 {
	out := make([]uint32, length+1)
	s := seed
	out[0] = s
	for n := 0; n < length; n++ {
		h := GenHashFromSeed(s, c)
		s = ReduceHashWithSalt(h, uint32(n), tableID)
		out[n+1] = s
	}
	return out
}

// EnumerateChainSeedsX16 is the lane-parallel rendition of
// EnumerateChainSeeds, used by BuildSeedBitmap.
func EnumerateChainSeedsX16(seeds [LaneWidth]uint32, c uint64, tableID uint32, length int) [LaneWidth][]uint32 {
	var out [LaneWidth][]uint32
	for lane := 0; lane < LaneWidth; lane++ {
		out[lane] = make([]uint32, length+1)
		out[lane][0] = seeds[lane]
	}

	s := seeds
	for n := 0; n < length; n++ {
		h := GenHashFromSeedX16(s, c)
		s = ReduceHashWithSaltX16(h, uint32(n), tableID)
		for lane := 0; lane < LaneWidth; lane++ {
			out[lane][n+1] = s[lane]
		}
	}
	return out
}
