package malloc

import (
	"reflect"
	"unsafe"
)

// blockStatus records what a header's payload currently holds.
type blockStatus int32

const (
	statusFree blockStatus = iota
	statusAlloc
	statusMapped
)

func (s blockStatus) String() string {
	switch s {
	case statusFree:
		return "free"
	case statusAlloc:
		return "alloc"
	case statusMapped:
		return "mapped"
	}
	panic("malloc: unknown block status")
}

// header prefixes every block this package hands out, whether carved
// from the arena or backed by its own mmap region. It lives inline in
// raw OS memory, not on the Go heap, so its fields are read and written
// through unsafe.Pointer casts rather than normal Go allocation.
//
// size is the payload's usable size in bytes, excluding the header
// itself. For an arena block this is the padded carve size; for a
// mapped block it is the caller's requested size, unpadded — munmap
// needs the exact mapping length, which mmap always rounds up to full
// pages independently of any 8-byte alignment padding.
type header struct {
	size   int64
	status blockStatus
	_      int32 // pad: keeps prev/next 8-byte aligned
	prev   *header
	next   *header
}

// headerSize (H) is the fixed per-block metadata footprint.
const headerSize = int64(unsafe.Sizeof(header{}))

// headerAt views the header struct thought to be mastered at addr. addr
// must be a value this package itself produced (an arena or mapped
// block's address). No validation is done: a garbage addr yields a
// garbage header view.
func headerAt(addr uintptr) *header {
	return (*header)(unsafe.Pointer(addr))
}

// addrOf returns the address a header lives at.
func addrOf(h *header) uintptr {
	return uintptr(unsafe.Pointer(h))
}

// payloadAddr returns the address of the byte immediately following h,
// where h's payload begins.
func payloadAddr(h *header) uintptr {
	return addrOf(h) + uintptr(headerSize)
}

// blockEnd returns the address one past h's payload, i.e. where the
// next block's header would begin if blocks are laid out contiguously.
func blockEnd(h *header) uintptr {
	return payloadAddr(h) + uintptr(h.size)
}

// headerFromPayload recovers the header owning a payload pointer
// previously returned to a caller. This is the inverse of payloadAddr
// and is how Free/Reallocate locate a block's metadata from the
// unsafe.Pointer a caller hands back.
func headerFromPayload(p unsafe.Pointer) *header {
	return headerAt(uintptr(p) - uintptr(headerSize))
}

// payloadPointer returns the public-facing pointer for a block's
// payload, the value Allocate/Reallocate/ZeroAllocate return to callers.
func payloadPointer(h *header) unsafe.Pointer {
	return unsafe.Pointer(payloadAddr(h))
}

// bytesAt views n bytes starting at addr as a []byte, without copying.
// Used for zero-fill, poison-fill and payload-to-payload copies, all of
// which operate on raw OS memory this package owns directly.
func bytesAt(addr uintptr, n int64) []byte {
	var b []byte
	sh := (*reflect.SliceHeader)(unsafe.Pointer(&b))
	sh.Data = addr
	sh.Len = int(n)
	sh.Cap = int(n)
	return b
}

// payloadBytes views a block's entire payload as a []byte.
func payloadBytes(h *header) []byte {
	return bytesAt(payloadAddr(h), h.size)
}
