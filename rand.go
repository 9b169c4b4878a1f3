// rand.go -- crypto/rand-backed helpers for temp-file suffixes and salts
// (EndHashIndex displacement salts, the session cache's siphash key).
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim is made to its
// suitability for any purpose.

package g7rainbow

import (
	"crypto/rand"
	"encoding/binary"
	"io"
)

// readRandom fills b from crypto/rand. A failure here means the entropy
// source itself is unavailable -- a Programming-class condition (§7),
// not one any caller can recover from.
func readRandom(b []byte) {
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		panic("g7rainbow: crypto/rand unavailable: " + err.Error())
	}
}

func randbytes(n int) []byte {
	b := make([]byte, n)
	readRandom(b)
	return b
}

func rand32() uint32 {
	var b [4]byte
	readRandom(b[:])
	return binary.BigEndian.Uint32(b[:])
}

func rand64() uint64 {
	var b [8]byte
	readRandom(b[:])
	return binary.BigEndian.Uint64(b[:])
}
