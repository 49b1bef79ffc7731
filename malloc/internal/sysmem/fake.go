package sysmem

import "fmt"

// Fake is an in-memory Backend for exercising the arena manager and the
// large-block mapper without a real process break or real mmap calls.
// It backs sbrk growth with a single fixed-capacity byte slice allocated
// up front, so the returned addresses stay stable for the fake's
// lifetime — the one property real sbrk/mmap addresses also guarantee
// and that the arena/mapper logic above this package depends on.
type Fake struct {
	heap     []byte
	base     uintptr
	brk      int64 // offset from base, == current logical break
	pagesize int

	mapped map[uintptr][]byte

	// FailSbrkAbove, when non-zero, makes Sbrk fail once the requested
	// break offset would exceed it, simulating ENOMEM at a chosen point.
	FailSbrkAbove int64
	// FailMmap makes every Mmap call fail, simulating a mapping failure.
	FailMmap bool
}

// NewFake allocates a capacity-byte backing arena and returns a ready
// Backend. pagesize of 0 defaults to 4096.
func NewFake(capacity int64, pagesize int) *Fake {
	if pagesize == 0 {
		pagesize = 4096
	}
	heap := make([]byte, capacity)
	return &Fake{
		heap:     heap,
		base:     addressOf(heap),
		pagesize: pagesize,
		mapped:   make(map[uintptr][]byte),
	}
}

func (f *Fake) Sbrk(delta int64) (uintptr, error) {
	want := f.brk + delta
	if want < 0 {
		panic(fmt.Sprintf("sysmem: fake sbrk below zero: brk=%d delta=%d", f.brk, delta))
	}
	if want > int64(len(f.heap)) {
		return 0, ErrNoMemory
	}
	if f.FailSbrkAbove != 0 && want > f.FailSbrkAbove {
		return 0, ErrNoMemory
	}
	prev := f.base + uintptr(f.brk)
	f.brk = want
	return prev, nil
}

func (f *Fake) Mmap(size int64) (uintptr, error) {
	if f.FailMmap {
		return 0, ErrNoMemory
	}
	buf := make([]byte, size)
	addr := addressOf(buf)
	f.mapped[addr] = buf
	return addr, nil
}

func (f *Fake) Munmap(base uintptr, size int64) error {
	buf, ok := f.mapped[base]
	if !ok {
		return fmt.Errorf("sysmem: fake munmap of unmapped address %#x", base)
	}
	if int64(len(buf)) != size {
		return fmt.Errorf("sysmem: fake munmap size mismatch at %#x: have %d, want %d", base, len(buf), size)
	}
	delete(f.mapped, base)
	return nil
}

func (f *Fake) PageSize() int { return f.pagesize }

// Break reports the fake's current logical break address, for assertions
// in arena tests.
func (f *Fake) Break() uintptr { return f.base + uintptr(f.brk) }

// MappedCount reports how many live mappings Mmap has handed out, for
// assertions in mapper tests.
func (f *Fake) MappedCount() int { return len(f.mapped) }
