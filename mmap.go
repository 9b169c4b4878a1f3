// mmap.go -- reinterpret a mapped byte slice as a typed slice, in place
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim is made to its
// suitability for any purpose.

package g7rainbow

import (
	"reflect"
	"unsafe"
)

// bsToChainEntrySlice reinterprets a byte slice as a []ChainEntry without
// copying, relying on ChainEntry's in-memory layout matching two
// consecutive little-endian uint32 on the host. Only valid when
// nativeIsLittleEndian.
func bsToChainEntrySlice(b []byte) []ChainEntry {
	n := len(b) / 8
	bh := (*reflect.SliceHeader)(unsafe.Pointer(&b))
	var v []ChainEntry

	sh := (*reflect.SliceHeader)(unsafe.Pointer(&v))
	sh.Data = bh.Data
	sh.Len = n
	sh.Cap = n

	return v
}
