// hash.go -- base-17 hashing and salted reduction
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim is made to its
// suitability for any purpose.

package g7rainbow

// GenHash treats v as an 8-digit base-17 numeral and returns the value in
// [0, 17^8).
func GenHash(v [NeedleCount]uint64) uint64 {
	var r uint64
	for _, x := range v {
		r = r*NeedleStates + (x % NeedleStates)
	}
	return r
}

// GenHashFromSeed draws the SFMT(seed) stream, skips c values, draws the
// next NeedleCount values, and hashes them.
func GenHashFromSeed(seed uint32, c uint64) uint64 {
	s := NewSfmt(seed)
	s.Skip(c)

	var v [NeedleCount]uint64
	for i := range v {
		v[i] = s.NextU64()
	}
	return GenHash(v)
}

// GenHashFromSeedX16 is the 16-lane rendition of GenHashFromSeed.
func GenHashFromSeedX16(seeds [LaneWidth]uint32, c uint64) [LaneWidth]uint64 {
	s := NewSfmt16(seeds)
	s.Skip(c)

	var draws [NeedleCount][LaneWidth]uint64
	for i := 0; i < NeedleCount; i++ {
		draws[i] = s.NextU64x16()
	}

	var out [LaneWidth]uint64
	for lane := 0; lane < LaneWidth; lane++ {
		var v [NeedleCount]uint64
		for i := 0; i < NeedleCount; i++ {
			v[i] = draws[i][lane]
		}
		out[lane] = GenHash(v)
	}
	return out
}

func mix64(u uint64) uint64 {
	u = (u ^ (u >> 30)) * mixConst1
	u = (u ^ (u >> 27)) * mixConst2
	u = u ^ (u >> 31)
	return u
}

// ReduceHash is ReduceHashWithSalt with table_id 0.
func ReduceHash(h uint64, column uint32) uint32 {
	return ReduceHashWithSalt(h, column, 0)
}

// ReduceHashWithSalt maps a hash, column and table_id to a 32-bit seed
// using a column+salt preamble followed by the SplitMix64 finalizer.
func ReduceHashWithSalt(h uint64, column uint32, tableID uint32) uint32 {
	salted := h ^ (uint64(tableID) * SaltMultiplier)
	u := salted + uint64(column)
	u = mix64(u)
	return uint32(u)
}

// ReduceHashWithSaltX16 processes 16 (hash, column) pairs against the same
// table_id in parallel.
func ReduceHashWithSaltX16(h [LaneWidth]uint64, column uint32, tableID uint32) [LaneWidth]uint32 {
	var out [LaneWidth]uint32
	for lane := 0; lane < LaneWidth; lane++ {
		out[lane] = ReduceHashWithSalt(h[lane], column, tableID)
	}
	return out
}
