// Package memalloc exposes the four classic C-style dynamic memory
// primitives — allocate, free, zero-allocate, reallocate — as
// package-level functions over a single process-wide heap, lazily
// constructed on first use with malloc.Defaultsettings(). Embedding
// code that wants its own configuration or wants to run several
// independent heaps should use malloc.NewHeap directly instead.
package memalloc

import (
	"sync"
	"unsafe"

	"github.com/bnclabs/memalloc/malloc"
)

var (
	once sync.Once
	heap *malloc.Heap
)

func defaultHeap() *malloc.Heap {
	once.Do(func() {
		heap = malloc.NewHeap(malloc.Defaultsettings())
	})
	return heap
}

// Allocate returns size freshly usable bytes, analogous to C's malloc.
func Allocate(size int64) (unsafe.Pointer, error) {
	return defaultHeap().Allocate(size)
}

// Free releases a block previously returned by Allocate, ZeroAllocate,
// or Reallocate, analogous to C's free.
func Free(ptr unsafe.Pointer) {
	defaultHeap().Free(ptr)
}

// ZeroAllocate returns size zero-filled bytes, analogous to C's calloc
// called with a single unit of that size.
func ZeroAllocate(size int64) (unsafe.Pointer, error) {
	return defaultHeap().ZeroAllocate(size)
}

// Reallocate resizes the block at ptr to newSize bytes, analogous to
// C's realloc.
func Reallocate(ptr unsafe.Pointer, newSize int64) (unsafe.Pointer, error) {
	return defaultHeap().Reallocate(ptr, newSize)
}

// Stats reports a snapshot of the process-wide heap's bookkeeping. It
// constructs the heap (with an empty arena) if nothing has been
// allocated yet.
func Stats() malloc.Stats {
	return defaultHeap().Stats()
}
