package malloc

import "unsafe"

// addressOfSlice returns the address of a byte slice's backing array.
// Tests use this to plant headers directly into Go-allocated buffers
// that stand in for arena/mapped memory without a real sbrk or mmap.
func addressOfSlice(b []byte) uintptr {
	if len(b) == 0 {
		panic("malloc: addressOfSlice of empty slice")
	}
	return uintptr(unsafe.Pointer(&b[0]))
}
