// missingio.go -- atomic save/load of missing-seeds files
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

// GetMissingSeedsPath returns the canonical missing-seeds file path for a
// consumption value within dir: "<dir>/<consumption>.g7ms".
func GetMissingSeedsPath(dir string, consumption int32) string {
	return filepath.Join(dir, fmt.Sprintf("%d.g7ms", consumption))
}

// SaveMissingSeeds writes a MissingSeedsFile bound to sourceHeader, using
// the same temp-file-then-rename atomic write pattern as SaveTable.
func SaveMissingSeeds(dir string, consumption int32, seeds []uint32, sourceHeader *TableHeader, createdAt uint64) error {
	path := GetMissingSeedsPath(dir, consumption)

	h := &MissingSeedsHeader{
		Version:        FormatVersion,
		MissingCount:   uint64(len(seeds)),
		SourceChecksum: SourceChecksum(sourceHeader),
		CreatedAt:      createdAt,
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

	buf := make([]byte, 4*len(seeds))
	for i, s := range seeds {
		binary.LittleEndian.PutUint32(buf[4*i:4*i+4], s)
	}
	if _, err := fd.Write(buf); err != nil {
		return &IoError{Message: err.Error()}
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

// LoadMissingSeeds reads and validates a MissingSeedsFile, returning its
// header and the seed list.
func LoadMissingSeeds(path string) (*MissingSeedsHeader, []uint32, error) {
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

	h, err := MissingSeedsHeaderFromBytes(hb)
	if err != nil {
		return nil, nil, err
	}

	want := ExpectedMissingFileSize(h)
	if fi.Size() != want {
		return nil, nil, &InvalidFileSizeError{Expected: want, Found: fi.Size()}
	}

	buf := make([]byte, 4*h.MissingCount)
	if _, err := io.ReadFull(fd, buf); err != nil {
		return nil, nil, &IoError{Message: err.Error()}
	}

	seeds := make([]uint32, h.MissingCount)
	for i := range seeds {
		seeds[i] = binary.LittleEndian.Uint32(buf[4*i : 4*i+4])
	}

	return h, seeds, nil
}

// VerifyMissingSeedsSource loads a missing-seeds file and checks that it
// binds to sourceHeader, returning SourceMismatchError on mismatch.
func VerifyMissingSeedsSource(path string, sourceHeader *TableHeader) (*MissingSeedsHeader, []uint32, error) {
	h, seeds, err := LoadMissingSeeds(path)
	if err != nil {
		return nil, nil, err
	}
	if err := VerifySource(h, sourceHeader); err != nil {
		return nil, nil, err
	}
	return h, seeds, nil
}
