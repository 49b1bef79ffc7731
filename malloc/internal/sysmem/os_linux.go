// +build linux

package sysmem

import (
	"reflect"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
)

// OS returns the real, syscall-backed Backend. A process links against
// exactly one of these; sbrk is inherently process-global state, so the
// returned Backend is only safe to use from a single *malloc.Heap per
// process, matching spec.md's single-arena, non-reentrant design.
func OS() Backend {
	return &osBackend{}
}

// osBackend grows the process break with the raw SYS_BRK syscall, the
// same primitive the C library's sbrk(3) wraps, and maps/unmaps anonymous
// private pages through golang.org/x/sys/unix.
type osBackend struct {
	mu      sync.Mutex
	brk     uintptr
	started bool
}

func (b *osBackend) queryBreak() (uintptr, error) {
	addr, _, errno := unix.Syscall(unix.SYS_BRK, 0, 0, 0)
	if errno != 0 {
		return 0, errno
	}
	return addr, nil
}

func (b *osBackend) Sbrk(delta int64) (uintptr, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.started {
		cur, err := b.queryBreak()
		if err != nil {
			return 0, err
		}
		b.brk = cur
		b.started = true
	}

	prev := b.brk
	want := uintptr(int64(prev) + delta)
	got, _, errno := unix.Syscall(unix.SYS_BRK, want, 0, 0)
	if errno != 0 {
		return 0, errno
	}
	// brk(2) on Linux never fails with ENOMEM for a raw request that
	// overruns the address space; it silently leaves the break
	// unmoved instead. A request is only honoured if the kernel moved
	// the break to exactly what was asked.
	if got != want {
		return 0, ErrNoMemory
	}
	b.brk = got
	return prev, nil
}

func (b *osBackend) Mmap(size int64) (uintptr, error) {
	data, err := unix.Mmap(
		-1, 0, int(size),
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS,
	)
	if err != nil {
		return 0, err
	}
	return uintptr(unsafe.Pointer(&data[0])), nil
}

func (b *osBackend) Munmap(base uintptr, size int64) error {
	return unix.Munmap(sliceAt(base, size))
}

func (b *osBackend) PageSize() int {
	return unix.Getpagesize()
}

// sliceAt reconstructs the []byte header Munmap needs over memory this
// package obtained as a raw address, the same reflect.SliceHeader trick
// used throughout the allocator core to view raw OS memory as bytes.
func sliceAt(base uintptr, size int64) []byte {
	var data []byte
	sh := (*reflect.SliceHeader)(unsafe.Pointer(&data))
	sh.Data = base
	sh.Len = int(size)
	sh.Cap = int(size)
	return data
}
