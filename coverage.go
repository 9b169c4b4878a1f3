// coverage.go -- reachability bitmap construction and missing-seed extraction
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim is made to its
// suitability for any purpose.

package g7rainbow

import (
	"runtime"
	"sync"
)

// CoverageResult is the outcome of a coverage pass: reachable/missing
// counts, the coverage ratio, and the missing seeds themselves.
type CoverageResult struct {
	Reachable uint64
	Missing   uint64
	Coverage  float64
	Missing32 []uint32
}

// BuildSeedBitmap walks every chain in table to completion, marking each
// visited seed in bm. Entries are processed in 16-chunks: each chunk's
// start seeds are loaded into 16 lanes (padding a short tail by
// replicating lane 0), and EnumerateChainSeedsX16 walks all 16 at once.
// Only the valid lanes of a chunk are Set; the seeds walked by padded
// lanes are discarded.
func BuildSeedBitmap(bm *SeedBitmap, table []ChainEntry, c uint64, tableID uint32, length int, progress ProgressFunc) {
	n := len(table)
	if n == 0 {
		return
	}

	numChunks := (n + LaneWidth - 1) / LaneWidth

	workers := runtime.GOMAXPROCS(0)
	if workers < 1 {
		workers = 1
	}
	if workers > numChunks {
		workers = numChunks
	}

	var done uint64
	var mu sync.Mutex
	report := func(delta int) {
		mu.Lock()
		done += uint64(delta)
		cur := done
		mu.Unlock()
		if progress != nil {
			progress(cur, uint64(n))
		}
	}

	chunkCh := make(chan int, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for chunk := range chunkCh {
				lo := chunk * LaneWidth
				hi := lo + LaneWidth
				validCount := LaneWidth
				if hi > n {
					validCount = n - lo
					hi = n
				}

				var seeds [LaneWidth]uint32
				for lane := 0; lane < LaneWidth; lane++ {
					if lane < validCount {
						seeds[lane] = table[lo+lane].StartSeed
					} else {
						seeds[lane] = table[lo].StartSeed
					}
				}

				seqs := EnumerateChainSeedsX16(seeds, c, tableID, length)
				for lane := 0; lane < validCount; lane++ {
					for _, s := range seqs[lane] {
						bm.Set(s)
					}
				}
				report(validCount)
			}
		}()
	}

	for chunk := 0; chunk < numChunks; chunk++ {
		chunkCh <- chunk
	}
	close(chunkCh)
	wg.Wait()

	if progress != nil {
		progress(uint64(n), uint64(n))
	}
}

// BuildSeedBitmapUnion builds a single bitmap over a multi-table set,
// iterating tables sequentially, each contributing with its own salt
// (table_id).
func BuildSeedBitmapUnion(tables [][]ChainEntry, c uint64, length int, progress ProgressFunc) *SeedBitmap {
	bm := NewSeedBitmap()
	for tableID, table := range tables {
		BuildSeedBitmap(bm, table, c, uint32(tableID), length, progress)
	}
	return bm
}

// ExtractMissingSeeds summarizes the bitmap: reachable/missing counts,
// coverage ratio, and the list of missing seeds.
func ExtractMissingSeeds(bm *SeedBitmap) CoverageResult {
	reachable := bm.CountReachable()
	missing := bm.CountMissing()
	return CoverageResult{
		Reachable: reachable,
		Missing:   missing,
		Coverage:  float64(reachable) / float64(uint64(1)<<32),
		Missing32: bm.ExtractMissingSeeds(),
	}
}
