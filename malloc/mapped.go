package malloc

import "github.com/bnclabs/memalloc/log"

// mapSize returns the page-rounded mapping length for a block whose
// payload is payloadSize bytes. Mapped blocks store the caller's
// unpadded payload size in their header, not this rounded length —
// munmap's length argument is recomputed from it every time, so the
// two numbers must never drift apart.
func (h *Heap) mapSize(payloadSize int64) int64 {
	total := headerSize + payloadSize
	page := int64(h.backend.PageSize())
	return ((total + page - 1) / page) * page
}

// mapAlloc satisfies a request via a dedicated anonymous mapping rather
// than the arena, for requests at or above a configured threshold.
func (h *Heap) mapAlloc(size int64) (*header, error) {
	mapsize := h.mapSize(size)
	base, err := h.backend.Mmap(mapsize)
	if err != nil {
		return nil, ErrOutOfMemory
	}

	blk := headerAt(base)
	blk.size = size
	blk.status = statusMapped
	h.usedList.insert(blk)
	h.mappedBytes += mapsize
	h.mappedCount++
	h.fillOnAlloc(blk)
	log.Verbosef("malloc: mmap %d bytes at %#x", mapsize, base)
	return blk, nil
}

// mapFree unmaps a block previously produced by mapAlloc.
func (h *Heap) mapFree(blk *header) {
	mapsize := h.mapSize(blk.size)
	addr := addrOf(blk)
	h.usedList.remove(blk)
	if err := h.backend.Munmap(addr, mapsize); err != nil {
		panicerr("malloc: munmap of mapped block failed: %v", err)
	}
	h.mappedBytes -= mapsize
	h.mappedCount--
	log.Verbosef("malloc: munmap %d bytes at %#x", mapsize, addr)
}
