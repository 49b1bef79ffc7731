package malloc

import (
	"fmt"

	gs "github.com/prataprc/gosettings"
	"github.com/cloudfoundry/gosigar"
)

// Config carries the allocator's tunables, following the teacher's
// gosettings.Settings convention: a plain map with a handful of typed
// accessors layered on top.
type Config gs.Settings

const (
	defaultArenaPrealloc = int64(128 * 1024)
	defaultMmapThreshold = int64(128 * 1024)
	minArenaPrealloc     = int64(4 * 1024)
)

// Defaultsettings returns the allocator's default configuration:
//
// "arena.prealloc" (int64, default: 128KiB, or a fraction of free system
//
//	RAM when gosigar can read it)
//	How much address space to sbrk up front when the first arena
//	request arrives.
//
// "arena.mmapthreshold" (int64, default: 128KiB)
//
//	Requests whose header plus padded payload is at or above this
//	size bypass the arena and get their own mmap region.
//
// "zeroalloc.threshold" (int64, default: os page size)
//
//	ZeroAllocate uses the system page size, not arena.mmapthreshold,
//	as its own mmap cutoff.
//
// "debug" (bool, default: false)
//
//	Poison-fill of freed/freshly-carved payloads and the double-free
//	guard are compiled in by the debug build tag alone; this key does
//	not switch them on or off. NewHeap logs a warning when it is true
//	in a binary built without -tags debug.
func Defaultsettings() Config {
	prealloc := defaultArenaPrealloc
	if free := freeSystemMemory(); free > 0 {
		candidate := free / 1024 // 0.1% of free RAM
		if candidate > prealloc {
			prealloc = candidate
		}
	}
	return Config{
		"arena.prealloc":      prealloc,
		"arena.mmapthreshold": defaultMmapThreshold,
		"zeroalloc.threshold": int64(pageSize()),
		"debug":               false,
	}
}

// freeSystemMemory reports free system RAM in bytes via gosigar, or 0
// if sigar's /proc read fails (e.g. in a container without procfs) —
// the caller must treat 0 as "unavailable", never as a literal size.
func freeSystemMemory() int64 {
	mem := sigar.Mem{}
	if err := mem.Get(); err != nil {
		return 0
	}
	return int64(mem.Free)
}

func (c Config) int64(key string, def int64) int64 {
	v, ok := c[key]
	if !ok {
		return def
	}
	n, ok := v.(int64)
	if !ok {
		panic(fmt.Errorf("malloc: config %q must be int64, got %T", key, v))
	}
	return n
}

func (c Config) bool(key string, def bool) bool {
	v, ok := c[key]
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		panic(fmt.Errorf("malloc: config %q must be bool, got %T", key, v))
	}
	return b
}

func (c Config) arenaPrealloc() int64 {
	v := c.int64("arena.prealloc", defaultArenaPrealloc)
	if v < minArenaPrealloc {
		panicerr("malloc: arena.prealloc %v below minimum %v", v, minArenaPrealloc)
	}
	return alignUp(v)
}

func (c Config) mmapThreshold() int64 {
	return alignUp(c.int64("arena.mmapthreshold", defaultMmapThreshold))
}

func (c Config) zeroallocThreshold() int64 {
	return alignUp(c.int64("zeroalloc.threshold", int64(pageSize())))
}

func (c Config) debugEnabled() bool {
	return c.bool("debug", false)
}
