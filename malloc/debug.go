// +build debug

package malloc

// Under the debug build tag, freshly carved and freshly freed payloads
// get poison-filled and double frees panic instead of corrupting the
// free list. None of this runs in a production build; it exists to
// catch caller bugs during development, per the allocator's own design
// notes on keeping such guards optional rather than a standing cost.

const (
	allocPoison = byte(0xcd) // matches the classic "uninitialized" fill
	freePoison  = byte(0xdd) // matches the classic "freed" fill
)

// debugBuild lets code outside this file's build tag tell which variant
// it is linked against, e.g. to warn when "debug" is set in Config but
// the binary was not built with -tags debug.
const debugBuild = true

func (h *Heap) fillOnAlloc(blk *header) {
	fill(payloadBytes(blk), allocPoison)
}

func (h *Heap) fillOnFree(blk *header) {
	fill(payloadBytes(blk), freePoison)
}

func (h *Heap) checkDoubleFree(blk *header) {
	if blk.status == statusFree {
		panicerr("malloc: double free at %#x", addrOf(blk))
	}
}
