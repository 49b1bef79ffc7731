package malloc

import (
	"fmt"
	"os"
)

// panicerr panics with a formatted error, the teacher's convention for
// flagging an internal invariant violation or caller misuse (bad
// pointer, double free, corrupt header) rather than a recoverable
// runtime condition.
func panicerr(fmsg string, args ...interface{}) {
	panic(fmt.Errorf(fmsg, args...))
}

// pageSize reports the system page size. Defaultsettings needs this
// before any Heap (and its sysmem.Backend) exists, so it goes straight
// to the standard library rather than through the backend abstraction —
// the one place in this package an OS query has no Heap to hang off of.
func pageSize() int {
	return os.Getpagesize()
}

// fill sets every byte of b to v. ZeroAllocate needs this unconditionally,
// not just under the debug poison-fill guards, so it lives here rather
// than alongside fillOnAlloc/fillOnFree in debug.go/production.go.
func fill(b []byte, v byte) {
	for i := range b {
		b[i] = v
	}
}
