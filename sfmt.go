// sfmt.go -- bit-exact SFMT-19937 pseudo-random stream
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim is made to its
// suitability for any purpose.

package g7rainbow

// SFMT-19937 parameters. State is 156 128-bit blocks, i.e. 624 u32 words,
// i.e. 312 u64 words.
const (
	sfmtN       = 156 // number of 128-bit blocks
	sfmtN32     = sfmtN * 4
	sfmtBlock64 = sfmtN32 / 2 // 312

	sfmtPOS1 = 122
	sfmtSL1  = 18
	sfmtSR1  = 11
	sfmtSL2  = 1 // byte shift applied to the whole 128-bit block
	sfmtSR2  = 1
)

var sfmtMask = [4]uint32{0xdfffffef, 0xddfecb7f, 0xbffaffff, 0xbffffff6}
var sfmtParity = [4]uint32{1, 0, 0, 0x13c9e684}

// Sfmt is a single SFMT-19937 stream, deterministic from a 32-bit seed.
type Sfmt struct {
	state [sfmtN32]uint32
	idx   int // next u64 index in [0, sfmtBlock64]; sfmtBlock64 means "exhausted"
}

// NewSfmt creates and initializes a stream from a 32-bit seed.
func NewSfmt(seed uint32) *Sfmt {
	s := &Sfmt{}
	s.state[0] = seed
	for i := uint32(1); i < sfmtN32; i++ {
		prev := s.state[i-1]
		s.state[i] = 1812433253*(prev^(prev>>30)) + i
	}
	s.certifyPeriod()
	s.generateBlock()
	s.idx = 0
	return s
}

func (s *Sfmt) certifyPeriod() {
	var inner uint32
	for i := 0; i < 4; i++ {
		inner ^= s.state[i] & sfmtParity[i]
	}
	for i := uint(16); i > 0; i >>= 1 {
		inner ^= inner >> i
	}
	if inner&1 == 0 {
		s.state[0] ^= 1
	}
}

// block returns the 4-word block at index i (0 <= i < sfmtN) as a value
// copy; setBlock writes it back.
func (s *Sfmt) block(i int) [4]uint32 {
	o := i * 4
	return [4]uint32{s.state[o], s.state[o+1], s.state[o+2], s.state[o+3]}
}

func (s *Sfmt) setBlock(i int, b [4]uint32) {
	o := i * 4
	s.state[o], s.state[o+1], s.state[o+2], s.state[o+3] = b[0], b[1], b[2], b[3]
}

func lshift128(in [4]uint32, shiftBytes uint) [4]uint32 {
	sh := shiftBytes * 8
	th := uint64(in[3])<<32 | uint64(in[2])
	tl := uint64(in[1])<<32 | uint64(in[0])
	oh := (th << sh) | (tl >> (64 - sh))
	ol := tl << sh
	return [4]uint32{uint32(ol), uint32(ol >> 32), uint32(oh), uint32(oh >> 32)}
}

func rshift128(in [4]uint32, shiftBytes uint) [4]uint32 {
	sh := shiftBytes * 8
	th := uint64(in[3])<<32 | uint64(in[2])
	tl := uint64(in[1])<<32 | uint64(in[0])
	oh := th >> sh
	ol := (tl >> sh) | (th << (64 - sh))
	return [4]uint32{uint32(ol), uint32(ol >> 32), uint32(oh), uint32(oh >> 32)}
}

func sfmtRecursion(a, b, c, d [4]uint32) [4]uint32 {
	x := lshift128(a, sfmtSL2)
	y := rshift128(c, sfmtSR2)
	var r [4]uint32
	for i := 0; i < 4; i++ {
		r[i] = a[i] ^ x[i] ^ ((b[i] >> sfmtSR1) & sfmtMask[i]) ^ y[i] ^ (d[i] << sfmtSL1)
	}
	return r
}

// generateBlock runs the full 156-block recursive sweep, overwriting the
// state in place and leaving the read index at the start of it.
func (s *Sfmt) generateBlock() {
	r1 := s.block(sfmtN - 2)
	r2 := s.block(sfmtN - 1)

	i := 0
	for ; i < sfmtN-sfmtPOS1; i++ {
		a := s.block(i)
		b := s.block(i + sfmtPOS1)
		r := sfmtRecursion(a, b, r1, r2)
		s.setBlock(i, r)
		r1, r2 = r2, r
	}
	for ; i < sfmtN; i++ {
		a := s.block(i)
		b := s.block(i + sfmtPOS1 - sfmtN)
		r := sfmtRecursion(a, b, r1, r2)
		s.setBlock(i, r)
		r1, r2 = r2, r
	}
}

// NextU64 draws the next 64-bit value from the stream.
func (s *Sfmt) NextU64() uint64 {
	if s.idx >= sfmtBlock64 {
		s.generateBlock()
		s.idx = 0
	}
	lo := s.state[2*s.idx]
	hi := s.state[2*s.idx+1]
	s.idx++
	return uint64(lo) | uint64(hi)<<32
}

// Skip advances the stream by n draws without materializing them,
// producing the same post-state as n calls to NextU64.
func (s *Sfmt) Skip(n uint64) {
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
		// Land exactly on a block boundary; defer regeneration to the
		// next draw, same as a freshly exhausted block.
		s.idx = sfmtBlock64
	} else {
		s.generateBlock()
		s.idx = int(rem)
	}
}
