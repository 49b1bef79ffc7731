package malloc

import "errors"

// ErrOutOfMemory is returned when the OS backend refuses to extend the
// arena or hand out a new mapping.
var ErrOutOfMemory = errors.New("malloc: out of memory")
