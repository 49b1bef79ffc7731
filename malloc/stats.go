package malloc

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Stats is a read-only snapshot of a Heap's accounting. It reports
// existing state; producing one never allocates, frees, grows, shrinks,
// maps, or unmaps anything.
type Stats struct {
	ArenaSize   int64
	ArenaUsed   int64
	ArenaFree   int64
	MappedCount int64
	MappedBytes int64
}

// Stats returns a snapshot of h's current bookkeeping.
func (h *Heap) Stats() Stats {
	var used, free int64
	h.usedList.each(func(b *header) bool {
		if b.status == statusAlloc {
			used += b.size + headerSize
		}
		return true
	})
	h.freeList.each(func(b *header) bool {
		free += b.size + headerSize
		return true
	})
	return Stats{
		ArenaSize:   h.arenaSize,
		ArenaUsed:   used,
		ArenaFree:   free,
		MappedCount: h.mappedCount,
		MappedBytes: h.mappedBytes,
	}
}

func (s Stats) String() string {
	return fmt.Sprintf(
		"arena %s (used %s, free %s) | mapped %d region(s), %s",
		humanize.Bytes(uint64(s.ArenaSize)),
		humanize.Bytes(uint64(s.ArenaUsed)),
		humanize.Bytes(uint64(s.ArenaFree)),
		s.MappedCount,
		humanize.Bytes(uint64(s.MappedBytes)),
	)
}
