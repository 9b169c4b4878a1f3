// format.go -- versioned on-disk table and missing-seed header layouts
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim is made to its
// suitability for any purpose.

package g7rainbow

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	headerSize = 64

	// FlagSorted is bit 0 of TableHeader.Flags: the table's entries are
	// sorted by end-hash key.
	FlagSorted uint32 = 1 << 0

	// FormatVersion is the current table/missing-seeds format version.
	FormatVersion uint16 = 1
)

var (
	tableMagic   = [8]byte{'G', '7', 'R', 'B', 'O', 'W', 0, 0}
	missingMagic = [8]byte{'G', '7', 'M', 'I', 'S', 'S', 0, 0}
)

// ErrTableNotSorted is returned when search loading requests the sorted
// flag but the table header says otherwise.
var ErrTableNotSorted = errors.New("g7rainbow: table is not sorted")

// ErrInvalidMagic is returned when a file's magic bytes do not match the
// expected format.
var ErrInvalidMagic = errors.New("g7rainbow: invalid magic")

// UnsupportedVersionError is returned when a file's format version is not
// one this build knows how to read.
type UnsupportedVersionError struct {
	Version uint16
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("g7rainbow: unsupported format version %d", e.Version)
}

// ConsumptionMismatchError is returned when a table was generated for a
// different consumption than the one requested.
type ConsumptionMismatchError struct {
	Expected, Found int32
}

func (e *ConsumptionMismatchError) Error() string {
	return fmt.Sprintf("g7rainbow: consumption mismatch: expected %d, found %d", e.Expected, e.Found)
}

// ChainLengthMismatchError is returned when a table's chain length does
// not match what the caller expected.
type ChainLengthMismatchError struct {
	Expected, Found uint32
}

func (e *ChainLengthMismatchError) Error() string {
	return fmt.Sprintf("g7rainbow: chain length mismatch: expected %d, found %d", e.Expected, e.Found)
}

// ChainCountMismatchError is returned when a table's chains-per-table
// count does not match what the caller expected.
type ChainCountMismatchError struct {
	Expected, Found uint32
}

func (e *ChainCountMismatchError) Error() string {
	return fmt.Sprintf("g7rainbow: chain count mismatch: expected %d, found %d", e.Expected, e.Found)
}

// TableCountMismatchError is returned when a table's num_tables does not
// match what the caller expected.
type TableCountMismatchError struct {
	Expected, Found uint32
}

func (e *TableCountMismatchError) Error() string {
	return fmt.Sprintf("g7rainbow: table count mismatch: expected %d, found %d", e.Expected, e.Found)
}

// InvalidFileSizeError is returned when a file's size does not match the
// size its header implies.
type InvalidFileSizeError struct {
	Expected, Found int64
}

func (e *InvalidFileSizeError) Error() string {
	return fmt.Sprintf("g7rainbow: invalid file size: expected %d bytes, found %d", e.Expected, e.Found)
}

// SourceMismatchError is returned when a missing-seeds file's source
// checksum does not bind to the table header it is checked against.
type SourceMismatchError struct {
	Expected, Found uint64
}

func (e *SourceMismatchError) Error() string {
	return fmt.Sprintf("g7rainbow: source checksum mismatch: expected %#x, found %#x", e.Expected, e.Found)
}

// IoError wraps an I/O failure (open, read, write, fsync, mmap) with a
// message, per the error taxonomy's Io(message) variant.
type IoError struct {
	Message string
}

func (e *IoError) Error() string {
	return fmt.Sprintf("g7rainbow: I/O error: %s", e.Message)
}

// TableHeader is the 64-byte header preceding a TableFile's chain data.
type TableHeader struct {
	Version         uint16
	Consumption     int32
	ChainLength     uint32
	ChainsPerTable  uint32
	NumTables       uint32
	Flags           uint32
	CreatedAt       uint64
}

// Sorted reports whether FlagSorted is set.
func (h *TableHeader) Sorted() bool {
	return h.Flags&FlagSorted != 0
}

// ToBytes serializes the header to its 64-byte little-endian on-disk form.
func (h *TableHeader) ToBytes() [headerSize]byte {
	var b [headerSize]byte
	copy(b[0:8], tableMagic[:])
	binary.LittleEndian.PutUint16(b[8:10], h.Version)
	// b[10:12] reserved pad
	binary.LittleEndian.PutUint32(b[12:16], uint32(h.Consumption))
	binary.LittleEndian.PutUint32(b[16:20], h.ChainLength)
	binary.LittleEndian.PutUint32(b[20:24], h.ChainsPerTable)
	binary.LittleEndian.PutUint32(b[24:28], h.NumTables)
	binary.LittleEndian.PutUint32(b[28:32], h.Flags)
	binary.LittleEndian.PutUint64(b[32:40], h.CreatedAt)
	// b[40:64] reserved
	return b
}

// TableHeaderFromBytes parses a 64-byte header, validating only the
// magic; further validation is the caller's responsibility via
// ValidationOptions.
func TableHeaderFromBytes(b []byte) (*TableHeader, error) {
	if len(b) < headerSize {
		return nil, &InvalidFileSizeError{Expected: headerSize, Found: int64(len(b))}
	}
	if string(b[0:8]) != string(tableMagic[:]) {
		return nil, ErrInvalidMagic
	}

	h := &TableHeader{
		Version:        binary.LittleEndian.Uint16(b[8:10]),
		Consumption:    int32(binary.LittleEndian.Uint32(b[12:16])),
		ChainLength:    binary.LittleEndian.Uint32(b[16:20]),
		ChainsPerTable: binary.LittleEndian.Uint32(b[20:24]),
		NumTables:      binary.LittleEndian.Uint32(b[24:28]),
		Flags:          binary.LittleEndian.Uint32(b[28:32]),
		CreatedAt:      binary.LittleEndian.Uint64(b[32:40]),
	}
	return h, nil
}

// ExpectedTableFileSize returns 64 + num_tables*chains_per_table*8.
func ExpectedTableFileSize(h *TableHeader) int64 {
	return headerSize + int64(h.NumTables)*int64(h.ChainsPerTable)*8
}

// ValidationOptions controls how strictly a loaded header is checked
// against caller expectations.
type ValidationOptions struct {
	Consumption    int32
	ChainLength    uint32
	ChainsPerTable uint32
	NumTables      uint32
	RequireSorted  bool
	CheckConstants bool
}

// ForGeneration returns options appropriate for a freshly-generated
// table: no sortedness required yet, and constants not yet cross-checked.
func ForGeneration(consumption int32) ValidationOptions {
	return ValidationOptions{Consumption: consumption}
}

// ForSearch returns options appropriate for loading a table to search:
// the sorted flag is required.
func ForSearch(consumption int32) ValidationOptions {
	return ValidationOptions{Consumption: consumption, RequireSorted: true}
}

// ValidateHeader checks magic (already checked by the parser), version,
// consumption, the sorted flag (if required), and constants (if strict).
func ValidateHeader(h *TableHeader, opts ValidationOptions) error {
	if h.Version != FormatVersion {
		return &UnsupportedVersionError{Version: h.Version}
	}
	if h.Consumption != opts.Consumption {
		return &ConsumptionMismatchError{Expected: opts.Consumption, Found: h.Consumption}
	}
	if opts.RequireSorted && !h.Sorted() {
		return ErrTableNotSorted
	}
	if opts.CheckConstants {
		if opts.ChainLength != 0 && h.ChainLength != opts.ChainLength {
			return &ChainLengthMismatchError{Expected: opts.ChainLength, Found: h.ChainLength}
		}
		if opts.ChainsPerTable != 0 && h.ChainsPerTable != opts.ChainsPerTable {
			return &ChainCountMismatchError{Expected: opts.ChainsPerTable, Found: h.ChainsPerTable}
		}
		if opts.NumTables != 0 && h.NumTables != opts.NumTables {
			return &TableCountMismatchError{Expected: opts.NumTables, Found: h.NumTables}
		}
	}
	return nil
}

// MissingSeedsHeader is the 64-byte header preceding a MissingSeedsFile's
// seed list.
type MissingSeedsHeader struct {
	Version         uint16
	MissingCount    uint64
	SourceChecksum  uint64
	CreatedAt       uint64
}

// ToBytes serializes the header to its 64-byte little-endian on-disk form.
func (h *MissingSeedsHeader) ToBytes() [headerSize]byte {
	var b [headerSize]byte
	copy(b[0:8], missingMagic[:])
	binary.LittleEndian.PutUint16(b[8:10], h.Version)
	binary.LittleEndian.PutUint64(b[16:24], h.MissingCount)
	binary.LittleEndian.PutUint64(b[24:32], h.SourceChecksum)
	binary.LittleEndian.PutUint64(b[32:40], h.CreatedAt)
	return b
}

// MissingSeedsHeaderFromBytes parses a 64-byte missing-seeds header.
func MissingSeedsHeaderFromBytes(b []byte) (*MissingSeedsHeader, error) {
	if len(b) < headerSize {
		return nil, &InvalidFileSizeError{Expected: headerSize, Found: int64(len(b))}
	}
	if string(b[0:8]) != string(missingMagic[:]) {
		return nil, ErrInvalidMagic
	}

	h := &MissingSeedsHeader{
		Version:        binary.LittleEndian.Uint16(b[8:10]),
		MissingCount:   binary.LittleEndian.Uint64(b[16:24]),
		SourceChecksum: binary.LittleEndian.Uint64(b[24:32]),
		CreatedAt:      binary.LittleEndian.Uint64(b[32:40]),
	}
	return h, nil
}

// ExpectedMissingFileSize returns 64 + 4*missing_count.
func ExpectedMissingFileSize(h *MissingSeedsHeader) int64 {
	return headerSize + 4*int64(h.MissingCount)
}

// SourceChecksum computes the FNV-1a checksum over the stable fields of a
// TableHeader that a MissingSeedsHeader binds to: consumption,
// chain_length, chains_per_table, num_tables, created_at.
func SourceChecksum(h *TableHeader) uint64 {
	var buf [24]byte
	binary.LittleEndian.PutUint32(buf[0:4], uint32(h.Consumption))
	binary.LittleEndian.PutUint32(buf[4:8], h.ChainLength)
	binary.LittleEndian.PutUint32(buf[8:12], h.ChainsPerTable)
	binary.LittleEndian.PutUint32(buf[12:16], h.NumTables)
	binary.LittleEndian.PutUint64(buf[16:24], h.CreatedAt)
	return fnv1a(buf[:])
}

func fnv1a(data []byte) uint64 {
	h := fnvOffsetBasis
	for _, b := range data {
		h ^= uint64(b)
		h *= fnvPrime
	}
	return h
}

// VerifySource reports whether a MissingSeedsHeader's SourceChecksum
// binds to the given TableHeader.
func VerifySource(mh *MissingSeedsHeader, th *TableHeader) error {
	want := SourceChecksum(th)
	if mh.SourceChecksum != want {
		return &SourceMismatchError{Expected: want, Found: mh.SourceChecksum}
	}
	return nil
}
