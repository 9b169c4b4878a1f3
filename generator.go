// generator.go -- parallel chain generation
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim is made to its
// suitability for any purpose.

package g7rainbow

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// ProgressFunc is invoked at coarse intervals during generation and once
// on completion. It must be safe to call from multiple goroutines.
type ProgressFunc func(current, total uint64)

// progressInterval is roughly how often ProgressFunc is invoked.
const progressInterval = 10000

// GenerateTableRange builds ChainEntry for the seed range [a, b) of one
// table, splitting the range into an unaligned prefix, a sequence of
// 16-seed aligned batches processed via ComputeChainsX16, and an
// unaligned suffix. Results are returned in start-seed order regardless
// of how work was scheduled across goroutines.
func GenerateTableRange(a, b uint32, c uint64, tableID uint32, length int, progress ProgressFunc) []ChainEntry {
	total := uint64(b) - uint64(a)
	out := make([]ChainEntry, total)

	prefixLen := uint32(LaneWidth-int(a%LaneWidth)) % LaneWidth
	if uint64(prefixLen) > total {
		prefixLen = uint32(total)
	}

	var done uint64

	report := func(delta uint64) {
		cur := atomic.AddUint64(&done, delta)
		if progress != nil && cur%progressInterval < delta {
			progress(cur, total)
		}
	}

	// Unaligned prefix: scalar.
	for i := uint32(0); i < prefixLen; i++ {
		seed := a + i
		out[i] = ComputeChain(seed, c, tableID, length)
	}
	report(uint64(prefixLen))

	alignedStart := a + prefixLen
	remaining := total - uint64(prefixLen)
	numBatches := remaining / LaneWidth
	suffixLen := remaining % LaneWidth

	workers := runtime.GOMAXPROCS(0)
	if workers < 1 {
		workers = 1
	}
	if uint64(workers) > numBatches && numBatches > 0 {
		workers = int(numBatches)
	}

	if numBatches > 0 {
		var wg sync.WaitGroup
		batchCh := make(chan uint64, workers)

		wg.Add(workers)
		for w := 0; w < workers; w++ {
			go func() {
				defer wg.Done()
				for batch := range batchCh {
					var seeds [LaneWidth]uint32
					base := alignedStart + uint32(batch*LaneWidth)
					for j := 0; j < LaneWidth; j++ {
						seeds[j] = base + uint32(j)
					}
					entries := ComputeChainsX16(seeds, c, tableID, length)
					off := uint64(prefixLen) + batch*LaneWidth
					for j := 0; j < LaneWidth; j++ {
						out[off+uint64(j)] = entries[j]
					}
					report(LaneWidth)
				}
			}()
		}

		for batch := uint64(0); batch < numBatches; batch++ {
			batchCh <- batch
		}
		close(batchCh)
		wg.Wait()
	}

	// Unaligned suffix: scalar.
	suffixStart := alignedStart + uint32(numBatches*LaneWidth)
	for i := uint32(0); i < uint32(suffixLen); i++ {
		seed := suffixStart + i
		out[uint64(prefixLen)+numBatches*LaneWidth+uint64(i)] = ComputeChain(seed, c, tableID, length)
	}
	report(suffixLen)

	if progress != nil {
		progress(total, total)
	}

	return out
}

// GenerateTable builds all m chains for one table, i.e.
// GenerateTableRange(0, m, c, tableID, length, progress).
func GenerateTable(m uint32, c uint64, tableID uint32, length int, progress ProgressFunc) []ChainEntry {
	return GenerateTableRange(0, m, c, tableID, length, progress)
}

// GenerateAllTables builds GenerateTable for each table_id in [0, T).
// Determinism: given fixed (c, m, L, T) and constants, output bytes are
// byte-identical across runs and architectures.
func GenerateAllTables(m uint32, c uint64, numTables uint32, length int, progress ProgressFunc) [][]ChainEntry {
	tables := make([][]ChainEntry, numTables)
	for t := uint32(0); t < numTables; t++ {
		tables[t] = GenerateTable(m, c, t, length, progress)
	}
	return tables
}
