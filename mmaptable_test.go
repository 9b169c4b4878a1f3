package g7rainbow

import "testing"

// TestOpenMappedTableMatchesLoadTable checks that the memory-mapped
// loader's zero-copy view agrees entry-for-entry with the buffered
// LoadTable path over the same file.
func TestOpenMappedTableMatchesLoadTable(t *testing.T) {
	assert := newAsserter(t)

	dir := t.TempDir()
	const consumption = int32(417)
	const length = 16
	tables := smallTestTables(uint64(consumption), 2, 40, length)

	assert(SaveTable(dir, consumption, length, tables, true, 1) == nil, "setup: SaveTable failed")

	path := GetTablePath(dir, consumption)
	buffered, bufTables, err := LoadTable(path, ForSearch(consumption))
	assert(err == nil, "LoadTable failed: %s", err)

	mapped, err := OpenMappedTable(path, ForSearch(consumption))
	assert(err == nil, "OpenMappedTable failed: %s", err)
	defer mapped.Close()

	assert(mapped.NumTables() == int(buffered.NumTables), "NumTables mismatch: %d vs %d", mapped.NumTables(), buffered.NumTables)

	for ti := 0; ti < mapped.NumTables(); ti++ {
		view := mapped.Table(ti)
		assert(len(view) == len(bufTables[ti]), "table %d: mmap length %d != buffered %d", ti, len(view), len(bufTables[ti]))
		for i := range view {
			assert(view[i] == bufTables[ti][i], "table %d entry %d: mmap %+v != buffered %+v", ti, i, view[i], bufTables[ti][i])
		}
	}
}
