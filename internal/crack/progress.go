package crack

import "time"

// progressEmitInterval is the minimum gap between onProgress calls
// (spec.md §5), except for forced reports.
const progressEmitInterval = 200 * time.Millisecond

// progressTracker accumulates the running totals a ProgressReport needs and
// throttles how often the caller's callback actually fires.
type progressTracker struct {
	onProgress func(ProgressReport)
	start      time.Time
	lastEmit   time.Time
	checked    uint64
	total      uint64
}

func newProgressTracker(onProgress func(ProgressReport), total uint64, now time.Time) *progressTracker {
	return &progressTracker{onProgress: onProgress, start: now, total: total}
}

// add records n more candidates checked and emits a report if either the
// throttle interval has elapsed or force is true (used for the final report
// on return).
func (p *progressTracker) add(n uint64, phase string, length int, position uint64, now time.Time, force bool) {
	p.checked += n
	if p.onProgress == nil {
		return
	}
	if !force && now.Sub(p.lastEmit) < progressEmitInterval {
		return
	}
	p.lastEmit = now

	elapsed := now.Sub(p.start).Seconds()
	var rate, eta float64
	if elapsed > 0 {
		rate = float64(p.checked) / elapsed
	}
	if rate > 0 && p.total > p.checked {
		eta = float64(p.total-p.checked) / rate
	}

	p.onProgress(ProgressReport{
		Phase:          phase,
		Length:         length,
		Position:       position,
		Checked:        p.checked,
		Total:          p.total,
		RatePerSecond:  rate,
		ElapsedSeconds: elapsed,
		EtaSeconds:     eta,
	})
}
