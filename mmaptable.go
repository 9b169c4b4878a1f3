// mmaptable.go -- zero-copy, memory-mapped table loading
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim is made to its
// suitability for any purpose.

package g7rainbow

import (
	"fmt"
	"os"
	"syscall"
	"unsafe"
)

// MappedTable is a read-only, memory-mapped TableFile. Accessors return
// zero-copy []ChainEntry slices per table_id. Mapping is only attempted
// when host endianness is little-endian, matching the on-disk format;
// see endian_le.go/endian_be.go.
type MappedTable struct {
	Header *TableHeader

	fd   *os.File
	data []byte // mmap of the whole file
}

// OpenMappedTable opens path read-only, validates its header against
// opts, and maps the chain data region. It returns a Programming-class
// error (via panic, matching the taxonomy's "unrecoverable precondition")
// if the mapping base does not satisfy ChainEntry's 4-byte alignment --
// in practice this never happens since mmap bases are page-aligned.
func OpenMappedTable(path string, opts ValidationOptions) (*MappedTable, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, &IoError{Message: err.Error()}
	}

	fi, err := fd.Stat()
	if err != nil {
		fd.Close()
		return nil, &IoError{Message: err.Error()}
	}

	var hb [headerSize]byte
	if _, err := fd.ReadAt(hb[:], 0); err != nil {
		fd.Close()
		return nil, &IoError{Message: err.Error()}
	}

	h, err := TableHeaderFromBytes(hb[:])
	if err != nil {
		fd.Close()
		return nil, err
	}
	if err := ValidateHeader(h, opts); err != nil {
		fd.Close()
		return nil, err
	}

	want := ExpectedTableFileSize(h)
	if fi.Size() != want {
		fd.Close()
		return nil, &InvalidFileSizeError{Expected: want, Found: fi.Size()}
	}

	if !nativeIsLittleEndian {
		fd.Close()
		return nil, &IoError{Message: "memory-mapped load requires a little-endian host"}
	}

	data, err := syscall.Mmap(int(fd.Fd()), 0, int(fi.Size()), syscall.PROT_READ, syscall.MAP_SHARED)
	if err != nil {
		fd.Close()
		return nil, &IoError{Message: fmt.Sprintf("mmap: %s", err)}
	}

	if len(data) > 0 && uintptr(unsafe.Pointer(&data[0]))%4 != 0 {
		syscall.Munmap(data)
		fd.Close()
		panic("g7rainbow: mmap base is not 4-byte aligned")
	}

	return &MappedTable{Header: h, fd: fd, data: data}, nil
}

// NumTables returns the table count recorded in the header.
func (m *MappedTable) NumTables() int {
	return int(m.Header.NumTables)
}

// Table returns a zero-copy view of table_id's chain entries: the
// returned slice's backing array is the mmap itself.
func (m *MappedTable) Table(tableID int) []ChainEntry {
	perTable := int(m.Header.ChainsPerTable)
	tableBytes := perTable * 8
	off := headerSize + tableID*tableBytes

	return bsToChainEntrySlice(m.data[off : off+tableBytes])
}

// Close unmaps the file and releases the descriptor.
func (m *MappedTable) Close() error {
	if m.data != nil {
		if err := syscall.Munmap(m.data); err != nil {
			return &IoError{Message: err.Error()}
		}
		m.data = nil
	}
	return m.fd.Close()
}
