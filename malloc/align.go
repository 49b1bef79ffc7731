package malloc

// alignment is the word size every payload is rounded up to, matching a
// typical C allocator's pointer alignment guarantee.
const alignment = int64(8)

// pad returns the number of filler bytes needed to round n up to the
// next multiple of alignment.
func pad(n int64) int64 {
	return (alignment - n%alignment) % alignment
}

// alignUp rounds n up to the next multiple of alignment.
func alignUp(n int64) int64 {
	return n + pad(n)
}
