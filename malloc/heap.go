package malloc

import (
	"unsafe"

	"github.com/bnclabs/memalloc/malloc/internal/sysmem"
	"github.com/bnclabs/memalloc/log"
)

// Heap is one arena plus its mapped-block bookkeeping: the whole of
// this package's state. A Heap is not safe for concurrent use; callers
// needing that must serialize access themselves.
type Heap struct {
	backend sysmem.Backend
	cfg     Config

	mmapThreshold int64
	zeroThreshold int64

	arenaBase uintptr
	arenaSize int64

	usedList list
	freeList list

	mappedBytes int64
	mappedCount int64
}

// NewHeap constructs a Heap backed by the real OS sbrk/mmap primitives.
func NewHeap(cfg Config) *Heap {
	if cfg.debugEnabled() && !debugBuild {
		log.Warnf("malloc: config requests debug guards but binary was not built with -tags debug; poison-fill and double-free checks are disabled")
	}
	return newHeapWithBackend(cfg, sysmem.OS())
}

// newHeapWithBackend constructs a Heap over an injected backend, the
// seam tests use to exercise arena growth and mapping without a real
// process break.
func newHeapWithBackend(cfg Config, backend sysmem.Backend) *Heap {
	return &Heap{
		backend:       backend,
		cfg:           cfg,
		mmapThreshold: cfg.mmapThreshold(),
		zeroThreshold: cfg.zeroallocThreshold(),
	}
}

// Allocate returns a pointer to size freshly usable bytes, or an error
// if the OS backend refused to extend the arena or map a new region.
// Allocate(0) returns a nil pointer and a nil error, the Go analogue of
// malloc(0)'s implementation-defined behaviour.
func (h *Heap) Allocate(size int64) (unsafe.Pointer, error) {
	if size == 0 {
		return nil, nil
	}
	if size < 0 {
		panicerr("malloc: negative size %d", size)
	}
	blk, err := h.allocate(size, h.mmapThreshold)
	if err != nil {
		return nil, err
	}
	return payloadPointer(blk), nil
}

// ZeroAllocate behaves like Allocate but the returned memory is
// zero-filled and the arena/mmap cutoff is the system page size rather
// than the arena's general mmap threshold.
func (h *Heap) ZeroAllocate(size int64) (unsafe.Pointer, error) {
	if size == 0 {
		return nil, nil
	}
	if size < 0 {
		panicerr("malloc: negative size %d", size)
	}
	blk, err := h.allocate(size, h.zeroThreshold)
	if err != nil {
		return nil, err
	}
	fill(bytesAt(payloadAddr(blk), blk.size), 0)
	return payloadPointer(blk), nil
}

// allocate is Allocate/ZeroAllocate's shared core, parameterized on the
// mmap cutoff since the two public operations use different ones.
func (h *Heap) allocate(size, threshold int64) (*header, error) {
	need := alignUp(size)
	if headerSize+need >= threshold {
		return h.mapAlloc(size)
	}
	blk := h.bestFit(need)
	if blk == nil {
		var err error
		blk, err = h.growArena(need)
		if err != nil {
			return nil, err
		}
	}
	return h.carve(blk, need), nil
}

// Free releases a block previously returned by Allocate, ZeroAllocate,
// or Reallocate. Free(nil) is a no-op.
func (h *Heap) Free(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}
	blk := headerFromPayload(ptr)
	h.checkDoubleFree(blk)

	if blk.status == statusMapped {
		h.mapFree(blk)
		return
	}

	h.usedList.remove(blk)
	blk.status = statusFree
	h.fillOnFree(blk)
	h.freeList.insert(blk)
	h.coalesceAround(blk)
}

// Reallocate resizes the block at ptr to newSize bytes, in place when
// possible, migrating to a new block otherwise. A nil ptr behaves like
// Allocate; a zero newSize behaves like Free and returns a nil pointer.
// Calling Reallocate on a pointer whose block is already recorded as
// free returns a nil pointer rather than touching freed state — the
// same defensive-null contract realloc(3) gives a caller that races
// its own free.
func (h *Heap) Reallocate(ptr unsafe.Pointer, newSize int64) (unsafe.Pointer, error) {
	if ptr == nil {
		return h.Allocate(newSize)
	}
	if newSize == 0 {
		h.Free(ptr)
		return nil, nil
	}
	if newSize < 0 {
		panicerr("malloc: negative size %d", newSize)
	}

	blk := headerFromPayload(ptr)
	if blk.status == statusFree {
		return nil, nil
	}

	if blk.status == statusMapped {
		if newSize == blk.size {
			return ptr, nil
		}
		return h.migrate(blk, newSize)
	}

	want := alignUp(newSize)
	if want == blk.size {
		return ptr, nil
	}
	if want < blk.size {
		h.shrinkInPlace(blk, want)
		return ptr, nil
	}
	if h.growInPlace(blk, want) {
		return ptr, nil
	}
	return h.migrate(blk, newSize)
}

// shrinkInPlace reduces blk's payload to want bytes without moving it,
// first trying to hand the freed tail straight back to the OS when blk
// is the arena's own tail, otherwise splitting the remainder into the
// free list like an ordinary carve.
func (h *Heap) shrinkInPlace(blk *header, want int64) {
	if h.shrinkArenaTail(blk, want) {
		return
	}
	remainder := blk.size - want
	if remainder < headerSize+1 {
		return
	}
	blk.size = want
	rem := headerAt(blockEnd(blk))
	rem.size = remainder - headerSize
	rem.status = statusFree
	h.freeList.insert(rem)
	h.coalesceAround(rem)
}

// growInPlace tries to satisfy a growing Reallocate without moving blk:
// either blk is the arena's own tail and the break can simply move, or
// its immediate address successor is a free, adjacent block it can
// absorb. Reports whether it succeeded.
func (h *Heap) growInPlace(blk *header, want int64) bool {
	if blockEnd(blk) == h.arenaBase+uintptr(h.arenaSize) {
		delta := want - blk.size
		if _, err := h.backend.Sbrk(delta); err != nil {
			return false
		}
		h.arenaSize += delta
		blk.size = want
		log.Verbosef("malloc: arena grow +%d bytes (realloc in place), size now %d", delta, h.arenaSize)
		return true
	}

	next := h.nextBlock(addrOf(blk))
	if next == nil || next.status != statusFree || addrOf(next) != blockEnd(blk) {
		return false
	}
	combined := blk.size + headerSize + next.size
	if combined < want {
		return false
	}
	h.freeList.remove(next)
	blk.size = combined
	if remainder := blk.size - want; remainder >= headerSize+1 {
		blk.size = want
		rem := headerAt(blockEnd(blk))
		rem.size = remainder - headerSize
		rem.status = statusFree
		h.freeList.insert(rem)
	}
	return true
}

// migrate allocates a fresh block of newSize bytes, copies the smaller
// of the two sizes' worth of payload, frees the old block, and returns
// the new pointer.
func (h *Heap) migrate(blk *header, newSize int64) (unsafe.Pointer, error) {
	newPtr, err := h.Allocate(newSize)
	if err != nil {
		return nil, err
	}
	n := blk.size
	if newSize < n {
		n = newSize
	}
	if n > 0 {
		copy(bytesAt(uintptr(newPtr), n), bytesAt(payloadAddr(blk), n))
	}
	h.Free(payloadPointer(blk))
	return newPtr, nil
}
