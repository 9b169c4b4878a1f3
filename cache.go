// cache.go -- per-session search-result cache for the interactive CLI
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim is made to its
// suitability for any purpose.

package g7rainbow

import (
	"encoding/binary"

	"github.com/dchest/siphash"
	"github.com/opencoff/go-fasthash"
	lru "github.com/opencoff/golang-lru"
)

// SessionCache memoizes SearchSeeds results for repeated needle vectors
// within one interactive session. It never changes a search result --
// only avoids recomputing one for a needle vector already seen against
// the currently loaded table generation.
type SessionCache struct {
	cache  *lru.ARCCache
	epoch  uint64
	sipKey []byte
}

// NewSessionCache builds a cache holding up to size recent results.
func NewSessionCache(size int) (*SessionCache, error) {
	c, err := lru.NewARC(size)
	if err != nil {
		return nil, err
	}
	return &SessionCache{cache: c, sipKey: randbytes(16)}, nil
}

// fingerprint computes a siphash-2-4 digest over a table header's stable
// fields, used to detect when a different table generation was loaded.
func (s *SessionCache) fingerprint(h *TableHeader) uint64 {
	var buf [20]byte
	binary.LittleEndian.PutUint32(buf[0:4], uint32(h.Consumption))
	binary.LittleEndian.PutUint32(buf[4:8], h.ChainLength)
	binary.LittleEndian.PutUint32(buf[8:12], h.ChainsPerTable)
	binary.LittleEndian.PutUint64(buf[12:20], h.CreatedAt)
	return siphash.Hash(
		binary.LittleEndian.Uint64(s.sipKey[0:8]),
		binary.LittleEndian.Uint64(s.sipKey[8:16]),
		buf[:],
	)
}

// LoadTable records the epoch fingerprint of the table currently in use,
// invalidating every previously-cached entry (by simply making their
// keys miss, since the key folds in the epoch).
func (s *SessionCache) LoadTable(h *TableHeader) {
	s.epoch = s.fingerprint(h)
}

// key derives a cache key from the epoch and the needle vector's bytes.
func (s *SessionCache) key(needle [NeedleCount]uint64) uint64 {
	var buf [NeedleCount * 8]byte
	for i, v := range needle {
		binary.LittleEndian.PutUint64(buf[i*8:i*8+8], v)
	}
	return fasthash.Hash64(s.epoch, buf[:])
}

// Get returns a cached result for needle, if any.
func (s *SessionCache) Get(needle [NeedleCount]uint64) ([]uint32, bool) {
	v, ok := s.cache.Get(s.key(needle))
	if !ok {
		return nil, false
	}
	return v.([]uint32), true
}

// Put stores a result for needle under the current table epoch.
func (s *SessionCache) Put(needle [NeedleCount]uint64, result []uint32) {
	s.cache.Add(s.key(needle), result)
}
