// Package chdindex builds a minimal perfect hash function (MPH) over a
// fixed set of uint64 keys, using the Compress Hash Displace algorithm
// from http://cmph.sourceforge.net/papers/esa09.pdf. It gives O(1)
// lookups into a caller-owned value array once the key set is frozen;
// it does not store values itself and is not a general-purpose map.
//
// This is the in-memory half of opencoff/go-chd's Chd type — the
// durable constant-DB half (DBReader/DBWriter, byte-level marshalling)
// is dropped: callers here own their own on-disk table format and only
// need the hash function, not a second serialization layer.
package chdindex

import (
	"fmt"
	"sort"
)

// maxSeedTries bounds the per-bucket search for a displacement seed.
const maxSeedTries uint32 = 65536 * 2

// Builder accumulates a key set before Freeze produces a constant-time
// lookup table.
type Builder struct {
	seen map[uint64]bool
	salt uint64
}

// New creates a Builder. salt should come from a random source chosen
// by the caller (e.g. crypto/rand) so that repeated builds over
// colliding key sets don't retry with the same displacement sequence.
func New(salt uint64) *Builder {
	return &Builder{
		seen: make(map[uint64]bool),
		salt: salt,
	}
}

// Add registers a key. Returns an error on a duplicate key.
func (b *Builder) Add(key uint64) error {
	if b.seen[key] {
		return fmt.Errorf("chdindex: duplicate key %#x", key)
	}
	b.seen[key] = true
	return nil
}

// Len returns the number of distinct keys added so far.
func (b *Builder) Len() int {
	return len(b.seen)
}

type bucket struct {
	slot uint64
	keys []uint64
}

type buckets []bucket

func (b buckets) Len() int           { return len(b) }
func (b buckets) Less(i, j int) bool { return len(b[i].keys) > len(b[j].keys) }
func (b buckets) Swap(i, j int)      { b[i], b[j] = b[j], b[i] }

// Freeze builds the constant-time lookup table using a load factor in
// (0,1]; lower factors build faster at the cost of a larger table.
// Suggested range is 0.75-0.9.
func (b *Builder) Freeze(load float64) (*MPH, error) {
	if load <= 0 || load > 1 {
		return nil, fmt.Errorf("chdindex: invalid load factor %f", load)
	}

	m := nextpow2(uint64(float64(len(b.seen)) / load))
	if m == 0 {
		m = 1
	}
	bs := make(buckets, m)
	seeds := make([]uint32, m)
	for i := range bs {
		bs[i].slot = uint64(i)
	}

	for key := range b.seen {
		j := rhash(0, key, m, b.salt)
		bs[j].keys = append(bs[j].keys, key)
	}

	occ := newBitset(m)
	bOcc := newBitset(m)

	sort.Sort(bs)

	for i := range bs {
		bucket := &bs[i]
	trySeed:
		for s := uint32(1); s < maxSeedTries; s++ {
			bOcc.reset()
			for _, key := range bucket.keys {
				h := rhash(s, key, m, b.salt)
				if occ.isSet(h) || bOcc.isSet(h) {
					continue trySeed
				}
				bOcc.set(h)
			}
			occ.merge(bOcc)
			seeds[bucket.slot] = s
			goto done
		}
		return nil, fmt.Errorf("chdindex: no perfect hash found after %d tries", maxSeedTries)
	done:
	}

	return &MPH{seeds: seeds, salt: b.salt}, nil
}

// MPH is a frozen minimal perfect hash over the key set it was built
// from. Find is meaningful only for keys that were present at
// construction time; callers must verify the key at the returned slot
// matches, since a key outside the original set still maps somewhere.
type MPH struct {
	seeds []uint32
	salt  uint64
}

// Len returns the size of the lookup table (a power of two, generally
// larger than the number of keys by 1/load).
func (c *MPH) Len() int {
	return len(c.seeds)
}

// Find returns the slot for key k in [0, Len()).
func (c *MPH) Find(k uint64) uint64 {
	m := uint64(len(c.seeds))
	h := rhash(0, k, m, c.salt)
	return rhash(c.seeds[h], k, m, c.salt)
}

// mix is Zi Long Tan's superfast-hash compression step.
func mix(h uint64) uint64 {
	h ^= h >> 23
	h *= 0x2127599bf4325c37
	h ^= h >> 47
	return h
}

// rhash hashes key with displacement seed and salt, reduced mod sz (a
// power of two).
func rhash(seed uint32, key, sz, salt uint64) uint64 {
	const m uint64 = 0x880355f21e6d1965
	h := key

	h *= m
	h ^= mix(salt)
	h *= m
	h ^= mix(uint64(seed))
	h *= m
	return mix(h) & (sz - 1)
}

func nextpow2(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}
