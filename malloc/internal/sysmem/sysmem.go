// Package sysmem isolates the two operating-system primitives the malloc
// package is built on: program-break extension ("sbrk") and anonymous
// private page mapping ("mmap"/"munmap"). Everything above this package
// talks to a Backend interface so arena and mapper logic can be exercised
// against a fake in test, per the allocator's design notes on injectable
// OS shims.
package sysmem

import "errors"

// ErrNoMemory is returned when the OS primitive backing this allocator
// reports it cannot satisfy a growth or mapping request.
var ErrNoMemory = errors.New("sysmem: out of memory")

// Backend is the OS surface the malloc package depends on. OS() returns
// the real backend; tests use NewFake.
type Backend interface {
	// Sbrk extends (delta > 0) or shrinks (delta < 0) the program break by
	// delta bytes and returns the break's value *before* the adjustment,
	// mirroring the C sbrk(2) contract. Sbrk(0) queries the current break
	// without moving it.
	Sbrk(delta int64) (prevBreak uintptr, err error)

	// Mmap creates a new anonymous private read-write mapping of size
	// bytes and returns its base address.
	Mmap(size int64) (base uintptr, err error)

	// Munmap releases a mapping previously returned by Mmap.
	Munmap(base uintptr, size int64) error

	// PageSize returns the system page size in bytes.
	PageSize() int
}
