// tableio.go -- atomic save/load of table files
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim is made to its
// suitability for any purpose.

package g7rainbow

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// GetTablePath returns the canonical table file path for a consumption
// value within dir: "<dir>/<consumption>.g7rt".
func GetTablePath(dir string, consumption int32) string {
	return filepath.Join(dir, fmt.Sprintf("%d.g7rt", consumption))
}

// SaveTable writes a TableFile: header followed by num_tables contiguous
// blocks of chains_per_table ChainEntry, each in the order given. The
// write is atomic: data lands in a temp file in dir, is fsynced, then
// renamed into place.
func SaveTable(dir string, consumption int32, chainLength uint32, tables [][]ChainEntry, sorted bool, createdAt uint64) error {
	path := GetTablePath(dir, consumption)
	numTables := uint32(len(tables))
	var chainsPerTable uint32
	if numTables > 0 {
		chainsPerTable = uint32(len(tables[0]))
	}

	h := &TableHeader{
		Version:        FormatVersion,
		Consumption:    consumption,
		ChainLength:    chainLength,
		ChainsPerTable: chainsPerTable,
		NumTables:      numTables,
		CreatedAt:      createdAt,
	}
	if sorted {
		h.Flags |= FlagSorted
	}

	tmp := fmt.Sprintf("%s.tmp.%d", path, rand32())
	fd, err := os.OpenFile(tmp, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return &IoError{Message: err.Error()}
	}

	ok := false
	defer func() {
		if !ok {
			fd.Close()
			os.Remove(tmp)
		}
	}()

	hb := h.ToBytes()
	if _, err := fd.Write(hb[:]); err != nil {
		return &IoError{Message: err.Error()}
	}

	var entryBuf [8]byte
	for _, table := range tables {
		if uint32(len(table)) != chainsPerTable {
			return &IoError{Message: "inconsistent chains-per-table across tables"}
		}
		for _, e := range table {
			binary.LittleEndian.PutUint32(entryBuf[0:4], e.StartSeed)
			binary.LittleEndian.PutUint32(entryBuf[4:8], e.EndSeed)
			if _, err := fd.Write(entryBuf[:]); err != nil {
				return &IoError{Message: err.Error()}
			}
		}
	}

	if err := fd.Sync(); err != nil {
		return &IoError{Message: err.Error()}
	}
	if err := fd.Close(); err != nil {
		return &IoError{Message: err.Error()}
	}

	if err := os.Rename(tmp, path); err != nil {
		return &IoError{Message: err.Error()}
	}
	ok = true
	return nil
}

// LoadTable reads and validates a TableFile, returning its header and the
// per-table chain slices.
func LoadTable(path string, opts ValidationOptions) (*TableHeader, [][]ChainEntry, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, nil, &IoError{Message: err.Error()}
	}
	defer fd.Close()

	fi, err := fd.Stat()
	if err != nil {
		return nil, nil, &IoError{Message: err.Error()}
	}

	hb := make([]byte, headerSize)
	if _, err := io.ReadFull(fd, hb); err != nil {
		return nil, nil, &IoError{Message: err.Error()}
	}

	h, err := TableHeaderFromBytes(hb)
	if err != nil {
		return nil, nil, err
	}

	if err := ValidateHeader(h, opts); err != nil {
		return nil, nil, err
	}

	want := ExpectedTableFileSize(h)
	if fi.Size() != want {
		return nil, nil, &InvalidFileSizeError{Expected: want, Found: fi.Size()}
	}

	tables := make([][]ChainEntry, h.NumTables)
	buf := make([]byte, int(h.ChainsPerTable)*8)
	for t := uint32(0); t < h.NumTables; t++ {
		if _, err := io.ReadFull(fd, buf); err != nil {
			return nil, nil, &IoError{Message: err.Error()}
		}
		table := make([]ChainEntry, h.ChainsPerTable)
		for i := range table {
			o := i * 8
			table[i] = ChainEntry{
				StartSeed: binary.LittleEndian.Uint32(buf[o : o+4]),
				EndSeed:   binary.LittleEndian.Uint32(buf[o+4 : o+8]),
			}
		}
		tables[t] = table
	}

	return h, tables, nil
}
