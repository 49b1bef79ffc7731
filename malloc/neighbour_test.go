package malloc

import "testing"

func TestNextBlockCrossesBothLists(t *testing.T) {
	h, _ := newTestHeap(4096)
	if err := h.ensureArena(); err != nil {
		t.Fatalf("ensureArena: %v", err)
	}
	initial := h.freeList.head

	used := h.carve(initial, 64) // used, then a free remainder after it
	free := h.freeList.head

	if got := h.nextBlock(addrOf(used)); got != free {
		t.Errorf("expected the free remainder as used's next neighbour")
	}
	if got := h.nextBlock(addrOf(free)); got != nil {
		t.Errorf("expected nil neighbour past the arena tail, got %v", got)
	}
}

func TestPrevBlockCrossesBothLists(t *testing.T) {
	h, _ := newTestHeap(4096)
	if err := h.ensureArena(); err != nil {
		t.Fatalf("ensureArena: %v", err)
	}
	initial := h.freeList.head
	used := h.carve(initial, 64)
	free := h.freeList.head

	if got := h.prevBlock(addrOf(free)); got != used {
		t.Errorf("expected used block as the free remainder's prev neighbour")
	}
	if got := h.prevBlock(addrOf(used)); got != nil {
		t.Errorf("expected nil neighbour before the arena's first block, got %v", got)
	}
}
