// Package executor implements the batch executor contract (spec.md §4.3):
// given a target channel-hash byte and a batch of candidate indices, find
// the candidates whose derived key matches the hash and, when a ciphertext
// and tag are supplied, whose key also verifies the packet's tag.
//
// Two interchangeable backends satisfy the same Backend interface: an
// accelerator backend (parallel, batched, asynchronous) and a portable
// backend (single-threaded, synchronous). This mirrors the two-backend
// split in PretendoNetwork's access-key extractor (a platform accelerator
// plus an always-available CPU fallback): one interface, Available()
// probing, and graceful fallback when the accelerator can't initialize.
package executor

import (
	"context"

	"github.com/jkingsman/meshcore-hashtag-cracker/internal/primitives"
	"github.com/jkingsman/meshcore-hashtag-cracker/internal/roomname"
)

// MaxMatches bounds the number of within-batch indices a single dispatch
// can return. Surplus matches are dropped — vanishingly rare for a 1-byte
// hash plus a 2-byte tag — because the filter chain re-verifies every
// returned candidate anyway (spec.md §4.3).
const MaxMatches = 256

// Request describes one batch dispatch.
type Request struct {
	// TargetHash is the channel-hash byte the packet claims.
	TargetHash byte
	// Length is the room-name length being searched.
	Length int
	// Offset is the first candidate index in this batch.
	Offset uint64
	// BatchSize is the number of candidate indices to examine, starting
	// at Offset.
	BatchSize uint64
	// Ciphertext and Tag are optional. When both are non-nil, a
	// candidate must also pass tag verification to be reported.
	Ciphertext []byte
	Tag        []byte
}

// Result is the outcome of one batch dispatch.
type Result struct {
	// Matches holds within-batch indices i (0 <= i < BatchSize) of
	// candidates that passed every check the Request specified.
	Matches []uint64
	// Truncated is true if more matches existed than MaxMatches could
	// hold.
	Truncated bool
}

// Backend is the batch executor contract. Implementations are either the
// accelerator backend or the portable fallback; the orchestrator resolves
// which one to use once at the start of a crack (spec.md §9).
type Backend interface {
	// Name identifies the backend for diagnostics.
	Name() string
	// Available reports whether this backend can be used on the current
	// host, without actually acquiring any resources.
	Available() bool
	// Init acquires any resources the backend needs (accelerator
	// pipeline, command queues, buffers). It is safe to call Init on an
	// unavailable backend; it simply returns an error.
	Init() error
	// Dispatch evaluates one batch and returns the matching within-batch
	// indices. It blocks until the batch completes.
	Dispatch(ctx context.Context, req Request) (Result, error)
	// Destroy releases any resources acquired by Init. Only one crack
	// may be in flight per backend instance (spec.md §5).
	Destroy()
}

// evaluate is the shared single-candidate check both backends build on:
// grammar skip, then hash check, then (optionally) tag check, in that
// order (spec.md §4.3).
func evaluate(length int, candidateIndex uint64, targetHash byte, ciphertext, tag []byte) bool {
	name, ok := roomname.IndexToRoomName(length, candidateIndex)
	if !ok {
		return false
	}
	key := primitives.DeriveKey(name)
	if primitives.ChannelHash(key) != targetHash {
		return false
	}
	if ciphertext != nil && tag != nil {
		if !primitives.Verify(ciphertext, tag, key) {
			return false
		}
	}
	return true
}
