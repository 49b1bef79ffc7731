package main

import (
	"flag"
	"fmt"
	"math/rand"
	"unsafe"

	"github.com/bnclabs/memalloc/malloc"
)

var options struct {
	minblock int
	maxblock int
	ops      int
	seed     int64
}

func argParse() {
	flag.IntVar(&options.minblock, "minblock", 32, "minimum request size")
	flag.IntVar(&options.maxblock, "maxblock", 64*1024, "maximum request size")
	flag.IntVar(&options.ops, "ops", 200000, "number of allocate/free operations to drive")
	flag.Int64Var(&options.seed, "seed", 1, "PRNG seed for the synthetic workload")
	flag.Parse()
}

func main() {
	argParse()
	runWorkload()
}

// runWorkload drives the allocator through a synthetic mix of
// allocate, zero-allocate, reallocate and free calls, keeping every
// live pointer in a pool it can pick from at random, and reports
// utilization at the end.
func runWorkload() {
	h := malloc.NewHeap(malloc.Defaultsettings())
	rng := rand.New(rand.NewSource(options.seed))

	live := make([]unsafe.Pointer, 0, options.ops)
	spread := options.maxblock - options.minblock

	randSize := func() int64 {
		if spread <= 0 {
			return int64(options.minblock)
		}
		return int64(options.minblock + rng.Intn(spread))
	}

	for i := 0; i < options.ops; i++ {
		switch {
		case len(live) == 0 || rng.Intn(3) != 0:
			var p unsafe.Pointer
			var err error
			if rng.Intn(5) == 0 {
				p, err = h.ZeroAllocate(randSize())
			} else {
				p, err = h.Allocate(randSize())
			}
			if err != nil {
				fmt.Printf("allocate failed at op %d: %v\n", i, err)
				return
			}
			if p != nil {
				live = append(live, p)
			}

		case rng.Intn(2) == 0:
			idx := rng.Intn(len(live))
			p, err := h.Reallocate(live[idx], randSize())
			if err != nil {
				fmt.Printf("reallocate failed at op %d: %v\n", i, err)
				return
			}
			live[idx] = p

		default:
			idx := rng.Intn(len(live))
			h.Free(live[idx])
			live[idx] = live[len(live)-1]
			live = live[:len(live)-1]
		}
	}

	for _, p := range live {
		h.Free(p)
	}

	fmt.Println(h.Stats())
}
