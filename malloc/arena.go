package malloc

import "github.com/bnclabs/memalloc/log"

// ensureArena performs the arena's one-time prealloc: a single sbrk
// call big enough to seed the free list with one block, sized from
// Config's "arena.prealloc" (or gosigar's view of free system RAM).
func (h *Heap) ensureArena() error {
	if h.arenaBase != 0 {
		return nil
	}
	prealloc := h.cfg.arenaPrealloc()
	base, err := h.backend.Sbrk(prealloc)
	if err != nil {
		return ErrOutOfMemory
	}
	h.arenaBase = base
	h.arenaSize = prealloc
	log.Verbosef("malloc: arena prealloc %d bytes at %#x", prealloc, base)

	blk := headerAt(base)
	blk.size = prealloc - headerSize
	blk.status = statusFree
	h.freeList.insert(blk)
	return nil
}

// growArena guarantees the free list holds a block of at least need
// bytes at the arena's tail, extending the process break as necessary.
// It either enlarges the arena's existing tail free block in place, or
// sbrk's a brand new free block appended right after the current tail
// (used or free) when there is no free block to extend.
func (h *Heap) growArena(need int64) (*header, error) {
	if err := h.ensureArena(); err != nil {
		return nil, err
	}

	tailEnd := h.arenaBase + uintptr(h.arenaSize)
	if tail := h.freeList.tail(); tail != nil && blockEnd(tail) == tailEnd {
		if tail.size >= need {
			return tail, nil
		}
		delta := need - tail.size
		if _, err := h.backend.Sbrk(delta); err != nil {
			return nil, ErrOutOfMemory
		}
		h.arenaSize += delta
		tail.size += delta
		log.Verbosef("malloc: arena grow +%d bytes (extended tail), size now %d", delta, h.arenaSize)
		return tail, nil
	}

	delta := headerSize + need
	newBase, err := h.backend.Sbrk(delta)
	if err != nil {
		return nil, ErrOutOfMemory
	}
	h.arenaSize += delta
	log.Verbosef("malloc: arena grow +%d bytes (fresh block), size now %d", delta, h.arenaSize)

	blk := headerAt(newBase)
	blk.size = need
	blk.status = statusFree
	h.freeList.insert(blk)
	return blk, nil
}

// shrinkArenaTail attempts to give the bytes of a shrinking block beyond
// its first newPayloadSize back to the OS via sbrk(-delta), but only when blk is
// the arena's true tail — nothing else occupies the address space past
// it. It reports whether the shrink happened; on false the caller must
// fall back to the ordinary split-into-free-list shrink path, since a
// failing sbrk(-delta) must never fail the whole Reallocate call.
func (h *Heap) shrinkArenaTail(blk *header, newPayloadSize int64) bool {
	if h.arenaBase == 0 || blockEnd(blk) != h.arenaBase+uintptr(h.arenaSize) {
		return false
	}
	delta := blk.size - newPayloadSize
	if delta <= 0 {
		return false
	}
	if _, err := h.backend.Sbrk(-delta); err != nil {
		return false
	}
	h.arenaSize -= delta
	blk.size = newPayloadSize
	log.Verbosef("malloc: arena shrink -%d bytes, size now %d", delta, h.arenaSize)
	return true
}
