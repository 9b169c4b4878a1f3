// sfmt16.go -- 16-lane data-parallel rendition of the SFMT-19937 stream
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim is made to its
// suitability for any purpose.

package g7rainbow

// lane16 holds one u32 word for each of the 16 independent streams.
type lane16 = [LaneWidth]uint32

// Sfmt16 drives sixteen independent SFMT-19937 streams in an
// interleaved-lane layout: state[block][word] is a 16-wide vector whose
// lane j holds the value the scalar Sfmt would hold for seed[j] at that
// position. Every lane is required to byte-for-byte match a scalar Sfmt
// seeded with the same value (Testable Property 2).
type Sfmt16 struct {
	state [sfmtN][4]lane16
	idx   int
}

// NewSfmt16 initializes 16 independent streams from 16 seeds.
func NewSfmt16(seeds [LaneWidth]uint32) *Sfmt16 {
	s := &Sfmt16{}

	var flat [sfmtN32]lane16
	for lane := 0; lane < LaneWidth; lane++ {
		flat[0][lane] = seeds[lane]
	}
	for i := 1; i < sfmtN32; i++ {
		for lane := 0; lane < LaneWidth; lane++ {
			prev := flat[i-1][lane]
			flat[i][lane] = 1812433253*(prev^(prev>>30)) + uint32(i)
		}
	}

	for lane := 0; lane < LaneWidth; lane++ {
		var inner uint32
		for i := 0; i < 4; i++ {
			inner ^= flat[i][lane] & sfmtParity[i]
		}
		for i := uint(16); i > 0; i >>= 1 {
			inner ^= inner >> i
		}
		if inner&1 == 0 {
			flat[0][lane] ^= 1
		}
	}

	for b := 0; b < sfmtN; b++ {
		for w := 0; w < 4; w++ {
			s.state[b][w] = flat[4*b+w]
		}
	}

	s.generateBlock()
	s.idx = 0
	return s
}

func lshift128x16(in [4]lane16, shiftBytes uint) [4]lane16 {
	sh := shiftBytes * 8
	var out [4]lane16
	for lane := 0; lane < LaneWidth; lane++ {
		th := uint64(in[3][lane])<<32 | uint64(in[2][lane])
		tl := uint64(in[1][lane])<<32 | uint64(in[0][lane])
		oh := (th << sh) | (tl >> (64 - sh))
		ol := tl << sh
		out[0][lane] = uint32(ol)
		out[1][lane] = uint32(ol >> 32)
		out[2][lane] = uint32(oh)
		out[3][lane] = uint32(oh >> 32)
	}
	return out
}

func rshift128x16(in [4]lane16, shiftBytes uint) [4]lane16 {
	sh := shiftBytes * 8
	var out [4]lane16
	for lane := 0; lane < LaneWidth; lane++ {
		th := uint64(in[3][lane])<<32 | uint64(in[2][lane])
		tl := uint64(in[1][lane])<<32 | uint64(in[0][lane])
		oh := th >> sh
		ol := (tl >> sh) | (th << (64 - sh))
		out[0][lane] = uint32(ol)
		out[1][lane] = uint32(ol >> 32)
		out[2][lane] = uint32(oh)
		out[3][lane] = uint32(oh >> 32)
	}
	return out
}

func sfmtRecursionX16(a, b, c, d [4]lane16) [4]lane16 {
	x := lshift128x16(a, sfmtSL2)
	y := rshift128x16(c, sfmtSR2)
	var r [4]lane16
	for i := 0; i < 4; i++ {
		for lane := 0; lane < LaneWidth; lane++ {
			r[i][lane] = a[i][lane] ^ x[i][lane] ^ ((b[i][lane] >> sfmtSR1) & sfmtMask[i]) ^ y[i][lane] ^ (d[i][lane] << sfmtSL1)
		}
	}
	return r
}

func (s *Sfmt16) generateBlock() {
	r1 := s.state[sfmtN-2]
	r2 := s.state[sfmtN-1]

	i := 0
	for ; i < sfmtN-sfmtPOS1; i++ {
		a := s.state[i]
		b := s.state[i+sfmtPOS1]
		r := sfmtRecursionX16(a, b, r1, r2)
		s.state[i] = r
		r1, r2 = r2, r
	}
	for ; i < sfmtN; i++ {
		a := s.state[i]
		b := s.state[i+sfmtPOS1-sfmtN]
		r := sfmtRecursionX16(a, b, r1, r2)
		s.state[i] = r
		r1, r2 = r2, r
	}
}

// NextU64x16 draws the next u64 from each of the 16 lanes.
func (s *Sfmt16) NextU64x16() [LaneWidth]uint64 {
	if s.idx >= sfmtBlock64 {
		s.generateBlock()
		s.idx = 0
	}

	f := 2 * s.idx
	lo := s.state[f/4][f%4]
	f1 := f + 1
	hi := s.state[f1/4][f1%4]

	var out [LaneWidth]uint64
	for lane := 0; lane < LaneWidth; lane++ {
		out[lane] = uint64(lo[lane]) | uint64(hi[lane])<<32
	}
	s.idx++
	return out
}

// Skip advances all 16 lanes by n draws each.
func (s *Sfmt16) Skip(n uint64) {
	if n == 0 {
		return
	}

	remaining := uint64(sfmtBlock64 - s.idx)
	if n < remaining {
		s.idx += int(n)
		return
	}

	n -= remaining
	full := n / sfmtBlock64
	rem := n % sfmtBlock64

	for i := uint64(0); i < full; i++ {
		s.generateBlock()
	}

	if rem == 0 {
		s.idx = sfmtBlock64
	} else {
		s.generateBlock()
		s.idx = int(rem)
	}
}
