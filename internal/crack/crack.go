// Package crack implements the search orchestrator: Phase A (the fixed
// public room), Phase B (dictionary), and Phase C (brute force), with
// resume cursors, cooperative cancellation, and throttled progress
// reporting (spec.md §4.5).
package crack

import (
	"context"
	"time"

	"github.com/jkingsman/meshcore-hashtag-cracker/internal/dictionary"
	"github.com/jkingsman/meshcore-hashtag-cracker/internal/executor"
	"github.com/jkingsman/meshcore-hashtag-cracker/internal/filter"
	"github.com/jkingsman/meshcore-hashtag-cracker/internal/packet"
	"github.com/jkingsman/meshcore-hashtag-cracker/internal/primitives"
	"github.com/jkingsman/meshcore-hashtag-cracker/internal/roomname"
)

// defaultInitialBatchSize seeds both backends' dispatch size. The
// accelerator backend tunes it after its first full-sized dispatch; the
// portable backend keeps it for the whole call (spec.md §4.3).
const defaultInitialBatchSize = uint64(1) << 16

// cursor is the orchestrator's internal notion of "the last position
// inspected", threaded through every phase so that the result's
// ResumeFrom/ResumeType always reflects where this call actually stopped.
type cursor struct {
	value string
	kind  ResumeKind
}

// Crack runs one end-to-end search attempt against a hex-encoded packet
// (spec.md §4.5, §6). onProgress may be nil.
func (e *Engine) Crack(hexPacket string, opts Options, onProgress func(ProgressReport)) Result {
	pkt, err := packet.Decode(hexPacket)
	if err != nil {
		return Result{Error: err.Error()}
	}

	stop, release, ok := e.beginCrack()
	if !ok {
		return Result{Error: "crack: another crack() call is already in flight on this engine"}
	}
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-stop:
			cancel()
		case <-done:
		}
	}()

	backend, tuner := e.selectBackend(opts)
	if err := backend.Init(); err != nil {
		backend = e.portable
		tuner = nil
	}

	cfg := filter.Config{
		UseTimestampFilter: opts.UseTimestampFilter,
		ValidSeconds:       opts.ValidSeconds,
		UseUTF8Filter:      opts.UseUTF8Filter,
		UseSenderFilter:    opts.UseSenderFilter,
	}

	e.mu.Lock()
	index := e.index
	e.mu.Unlock()

	fresh := opts.StartFrom == ""
	cur := cursor{value: opts.StartFrom, kind: opts.StartFromType}
	if fresh {
		cur = cursor{value: PublicRoomName, kind: ResumeDictionary}
	}

	progress := newProgressTracker(onProgress, estimateTotal(opts, index), time.Now())

	// Phase A: the one fixed public-room check.
	if fresh {
		key := primitives.DeriveKey(PublicRoomName)
		if primitives.ChannelHash(key) == pkt.ChannelHash {
			if out, ok := filter.Apply(cfg, pkt.Ciphertext, pkt.CipherMac, key); ok {
				progress.add(1, "public", 0, 0, time.Now(), true)
				return success(PublicRoomName, key, out.Message, PublicRoomName, ResumeDictionary)
			}
		}
		progress.add(1, "public", 0, 0, time.Now(), false)
	}

	// Phase B: dictionary. Resuming only works correctly for cursors this
	// package itself returned: a returned cursor is always a bucket member
	// (spec.md §4.5 only ever reports a position it actually inspected), so
	// searching for it in the target bucket always finds it. An arbitrary
	// caller-supplied StartFrom that never hashed into this bucket won't be
	// found, and dictStart silently stays 0 rather than erroring — the
	// bucket restarts from its first match instead of resuming after an
	// unrecognized cursor.
	runDictionary := opts.UseDictionary && index != nil && (fresh || opts.StartFromType == ResumeDictionary)
	if runDictionary {
		target := pkt.ChannelHash
		bucket := index.Lookup(target)
		dictStart := 0
		if !fresh {
			for i, iw := range bucket {
				if iw.Word == opts.StartFrom {
					dictStart = i + 1
					break
				}
			}
		}

		for i := dictStart; i < len(bucket); i++ {
			select {
			case <-ctx.Done():
				return aborted(cur)
			default:
			}

			iw := bucket[i]
			out, ok := filter.Apply(cfg, pkt.Ciphertext, pkt.CipherMac, iw.Key)
			cur = cursor{value: iw.Word, kind: ResumeDictionary}
			progress.add(1, "dictionary", 0, uint64(i), time.Now(), false)
			if ok {
				return success(iw.Word, iw.Key, out.Message, cur.value, cur.kind)
			}
		}
	}

	// Phase C: brute force.
	startLength := opts.StartingLength
	var startOffset uint64
	if !fresh && opts.StartFromType == ResumeBruteforce {
		if l, idx, ok := roomname.RoomNameToIndex(opts.StartFrom); ok {
			startLength, startOffset = l, idx+1
			if startOffset >= roomname.CountNamesForLength(l) {
				startLength, startOffset = l+1, 0
			}
		}
	}
	if startLength < opts.StartingLength {
		startLength = opts.StartingLength
		startOffset = 0
	}

	batchSize := defaultInitialBatchSize

	for length := startLength; length <= opts.MaxLength; length++ {
		n := roomname.CountNamesForLength(length)
		offset := uint64(0)
		if length == startLength {
			offset = startOffset
		}

		for offset < n {
			select {
			case <-ctx.Done():
				return aborted(cur)
			default:
			}

			size := batchSize
			if tuner != nil {
				size = tuner.BatchSize()
			}
			if remaining := n - offset; size > remaining {
				size = remaining
			}

			dispatchStart := time.Now()
			res, dispErr := backend.Dispatch(ctx, executor.Request{
				TargetHash: pkt.ChannelHash,
				Length:     length,
				Offset:     offset,
				BatchSize:  size,
				Ciphertext: pkt.Ciphertext,
				Tag:        pkt.CipherMac,
			})
			elapsed := time.Since(dispatchStart)
			if dispErr != nil {
				return aborted(cur)
			}
			if tuner != nil {
				tuner.Observe(size, elapsed)
			}

			for _, i := range res.Matches {
				name, ok := roomname.IndexToRoomName(length, offset+i)
				if !ok {
					continue
				}
				key := primitives.DeriveKey(name)
				out, ok := filter.Apply(cfg, pkt.Ciphertext, pkt.CipherMac, key)
				if ok {
					return success(name, key, out.Message, name, ResumeBruteforce)
				}
			}

			cur = cursor{value: lastValidNameAtOrBefore(length, offset+size-1), kind: ResumeBruteforce}
			progress.add(size, "bruteforce", length, offset+size, time.Now(), false)
			offset += size
		}
	}

	progress.add(0, "bruteforce", opts.MaxLength, 0, time.Now(), true)
	return Result{Found: false, ResumeFrom: cur.value, ResumeType: cur.kind}
}

func success(name string, key primitives.Key, message, resumeFrom string, resumeType ResumeKind) Result {
	k := make([]byte, len(key))
	copy(k, key[:])
	return Result{
		Found:            true,
		RoomName:         name,
		Key:              k,
		DecryptedMessage: message,
		ResumeFrom:       resumeFrom,
		ResumeType:       resumeType,
	}
}

func aborted(cur cursor) Result {
	return Result{Aborted: true, ResumeFrom: cur.value, ResumeType: cur.kind}
}

// selectBackend resolves which executor.Backend (and auto-tuner, if any) to
// use for a call, per spec.md §9: ForceCPU always selects the portable
// backend without even probing the accelerator; otherwise the accelerator
// is tried and falls back to portable silently on failure.
func (e *Engine) selectBackend(opts Options) (executor.Backend, *executor.AutoTuner) {
	if opts.ForceCPU || !e.accel.Available() {
		return e.portable, nil
	}
	target := time.Duration(opts.GPUDispatchMs) * time.Millisecond
	return e.accel, executor.NewAutoTuner(defaultInitialBatchSize, target)
}

// lastValidNameAtOrBefore returns the room name at the latest index <= i
// that decodes to a legal name. Index 0 always decodes legally (an
// all-boundary-alphabet name contains no "--"), so this always terminates.
func lastValidNameAtOrBefore(length int, i uint64) string {
	for {
		if name, ok := roomname.IndexToRoomName(length, i); ok {
			return name
		}
		if i == 0 {
			break
		}
		i--
	}
	// Unreachable: index 0 is always a legal name.
	name, _ := roomname.IndexToRoomName(length, 0)
	return name
}

// estimateTotal computes a best-effort, non-tight denominator for progress
// reporting: the full brute-force space across every remaining length plus
// the dictionary's size (spec.md §5).
func estimateTotal(opts Options, index *dictionary.Index) uint64 {
	var total uint64
	for length := opts.StartingLength; length <= opts.MaxLength; length++ {
		total += roomname.CountNamesForLength(length)
	}
	if opts.UseDictionary && index != nil {
		total += uint64(index.Len())
	}
	return total
}
