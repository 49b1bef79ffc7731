package sysmem

import "unsafe"

// addressOf returns the address of a byte slice's backing array. Used
// only by the fake backend to hand out stable addresses over Go-managed
// memory; the real backend never needs this since sbrk/mmap addresses
// come straight from the kernel.
func addressOf(b []byte) uintptr {
	if len(b) == 0 {
		panic("sysmem: addressOf of empty slice")
	}
	return uintptr(unsafe.Pointer(&b[0]))
}
