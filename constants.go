// constants.go -- process-wide parameters for the rainbow table engine
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim is made to its
// suitability for any purpose.

package g7rainbow

// NeedleCount is k, the number of observed values that make up a needle
// vector.
const NeedleCount = 8

// NeedleStates is s, the number of distinct values (0..16) a single
// needle can take.
const NeedleStates = 17

// DefaultChainLength is L, the number of reduction steps per chain.
// Must be a power of two.
const DefaultChainLength = 4096

// DefaultChainsPerTable is m, the number of chains stored per table.
const DefaultChainsPerTable = 1 << 20

// DefaultNumTables is T, the number of independently salted tables built
// per consumption value.
const DefaultNumTables = 16

// LaneWidth is the width of the SIMD-style batched code paths (C1/C3/C4/C6).
const LaneWidth = 16

// SupportedConsumptions lists the historical consumption values the CLI
// knows about. The core itself accepts any non-negative consumption; this
// list only drives a warning, never a rejection, in the create/search
// adapters.
var SupportedConsumptions = []int32{417, 477, 487, 507, 597, 677}

// SaltMultiplier is the golden-ratio odd constant used to fold a table_id
// into the hash before reduction.
const SaltMultiplier uint64 = 0x9e3779b97f4a7c15

// SplitMix64 finalizer constants.
const (
	mixConst1 uint64 = 0xbf58476d1ce4e5b9
	mixConst2 uint64 = 0x94d049bb133111eb
)

// FNV-1a constants used to bind a missing-seeds file to its source table
// header.
const (
	fnvOffsetBasis uint64 = 0xcbf29ce484222325
	fnvPrime       uint64 = 0x100000001b3
)
