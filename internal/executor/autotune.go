package executor

import (
	"math"
	"time"
)

// AutoTuner implements the accelerator-only batch-size auto-tuning
// described in spec.md §4.3: on the first dispatch that hits the
// configured initial batch size, measure wall time; if it's nonzero, scale
// the batch size towards the target dispatch cadence, round to the
// nearest power of two not below the initial size, and freeze that value
// for the remainder of the crack. A single adjustment is deliberately all
// this does — continuous retuning oscillates under varying system load
// (spec.md §9).
type AutoTuner struct {
	target  time.Duration
	initial uint64
	current uint64
	tuned   bool
}

// NewAutoTuner returns a tuner seeded with the configured initial batch
// size and target dispatch duration (gpuDispatchMs in the public API,
// spec.md §6).
func NewAutoTuner(initialBatchSize uint64, target time.Duration) *AutoTuner {
	return &AutoTuner{target: target, initial: initialBatchSize, current: initialBatchSize}
}

// BatchSize returns the batch size to use for the next dispatch.
func (a *AutoTuner) BatchSize() uint64 {
	return a.current
}

// Observe records the wall time of a completed dispatch. It only ever
// acts once: the first time dispatchedSize equals the initial batch size
// and elapsed is nonzero.
func (a *AutoTuner) Observe(dispatchedSize uint64, elapsed time.Duration) {
	if a.tuned || dispatchedSize != a.initial || elapsed <= 0 {
		return
	}
	scaled := float64(dispatchedSize) * (float64(a.target) / float64(elapsed))
	a.current = roundToPowerOfTwoAtLeast(scaled, a.initial)
	a.tuned = true
}

// roundToPowerOfTwoAtLeast rounds x to the nearest power of two, then
// clamps the result up to min if rounding landed below it.
func roundToPowerOfTwoAtLeast(x float64, min uint64) uint64 {
	if x < 1 {
		return min
	}
	log2 := math.Log2(x)
	lower := math.Pow(2, math.Floor(log2))
	upper := math.Pow(2, math.Ceil(log2))
	nearest := lower
	if x-lower > upper-x {
		nearest = upper
	}
	rounded := uint64(nearest)
	if rounded < min {
		return min
	}
	return rounded
}
