package executor

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
)

// candidatesPerWorkgroup mirrors the data-parallel kernel's lane count
// (spec.md §4.3: "the reference packs 32 candidates per thread").
const candidatesPerWorkgroup = 32

// acceleratorBackend is the parallel, batched backend. No GPU compute
// binding appears anywhere in the retrieval pack this module was grounded
// on — the pack's one accelerator example (PretendoNetwork's Metal
// backend) ships only a thin cgo wrapper with no kernel source included —
// so this backend dispatches its 32-candidates-per-workgroup kernel across
// goroutines instead of GPU lanes. It keeps the same Backend contract, the
// same atomic-counter append-buffer match collection, and the same
// always-available Init() stub pattern PretendoNetwork's Metal backend
// uses (`Available() bool { return true }`), gated here on whether the
// host actually has more than one usable core.
type acceleratorBackend struct {
	workers int
}

// NewAcceleratorBackend returns the parallel backend. GOMAXPROCS workers
// are used to execute workgroups concurrently.
func NewAcceleratorBackend() Backend {
	return &acceleratorBackend{workers: runtime.GOMAXPROCS(0)}
}

func (b *acceleratorBackend) Name() string { return "accelerator" }

func (b *acceleratorBackend) Available() bool {
	return b.workers > 1
}

func (b *acceleratorBackend) Init() error {
	if !b.Available() {
		return fmt.Errorf("executor: accelerator unavailable on this host (GOMAXPROCS=%d)", b.workers)
	}
	return nil
}

func (b *acceleratorBackend) Destroy() {}

// Dispatch evaluates req.BatchSize candidates by splitting them into
// workgroups of candidatesPerWorkgroup lanes each, run across b.workers
// goroutines, and collecting matches into an append-only buffer guarded by
// an atomic counter — the host then reads the buffer back once every
// workgroup has completed, which is this call's only suspension point
// (spec.md §4.3, §5).
func (b *acceleratorBackend) Dispatch(ctx context.Context, req Request) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if req.BatchSize == 0 {
		return Result{}, nil
	}

	var matchBuf [MaxMatches]uint64
	var matchCount atomic.Uint64

	numWorkgroups := (req.BatchSize + candidatesPerWorkgroup - 1) / candidatesPerWorkgroup
	sem := make(chan struct{}, b.workers)
	var wg sync.WaitGroup

	for wgID := uint64(0); wgID < numWorkgroups; wgID++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(wgID uint64) {
			defer wg.Done()
			defer func() { <-sem }()

			base := wgID * candidatesPerWorkgroup
			for lane := uint64(0); lane < candidatesPerWorkgroup; lane++ {
				i := base + lane
				if i >= req.BatchSize {
					return
				}
				if !evaluate(req.Length, req.Offset+i, req.TargetHash, req.Ciphertext, req.Tag) {
					continue
				}
				slot := matchCount.Add(1) - 1
				if slot < MaxMatches {
					matchBuf[slot] = i
				}
			}
		}(wgID)
	}
	wg.Wait()

	n := matchCount.Load()
	truncated := n > MaxMatches
	if n > MaxMatches {
		n = MaxMatches
	}
	matches := make([]uint64, n)
	copy(matches, matchBuf[:n])
	// Workgroups complete out of order; sort so this backend's results are
	// indistinguishable from the portable backend's (spec.md §8, property
	// 8: backend equivalence).
	sort.Slice(matches, func(i, j int) bool { return matches[i] < matches[j] })

	return Result{Matches: matches, Truncated: truncated}, nil
}
