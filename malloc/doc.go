// Package malloc is a drop-in replacement for the four classic C-style
// dynamic memory primitives — allocate, free, zero-allocate, reallocate —
// built directly on two operating-system primitives: program-break
// extension ("sbrk") for small requests and anonymous private mapping
// ("mmap"/"munmap") for large ones.
//
// Small requests are served out of a single growable arena: a best-fit
// free list carves and splits blocks, with eager coalescing of adjacent
// free neighbours on every free. Requests at or above a configurable
// threshold bypass the arena entirely and get their own mmap region,
// released back to the OS on free rather than recycled.
//
//   - Types and functions exported by this package are not thread safe.
//     A single *Heap serves one goroutine at a time; callers needing
//     concurrent access must serialize it themselves.
//   - There is no pointer re-write and no compaction; a block's address
//     never changes except across Reallocate, whose contract already
//     permits that.
//   - All returned addresses are 8-byte aligned regardless of the
//     requested size.
//   - Memory handed back by Free is not returned to the OS unless it was
//     a dedicated mmap region (unmapped directly); arena memory stays in
//     the arena's free list for reuse. The arena itself is only shrunk
//     via sbrk when Reallocate shrinks the block at the arena's tail.
package malloc
