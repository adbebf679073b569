package executor

import "context"

// portableBackend is the single-threaded, synchronous fallback: a straight
// loop over the batch, grounded on the teacher's own sequential per-line
// check in processPassword (atomic_decryptor/process.go), minus the
// worker-pool fan-out — spec.md §4.3 requires the portable backend to be
// single-threaded.
type portableBackend struct{}

// NewPortableBackend returns the always-available CPU backend. It never
// auto-tunes (spec.md §4.3).
func NewPortableBackend() Backend {
	return &portableBackend{}
}

func (b *portableBackend) Name() string { return "portable" }

func (b *portableBackend) Available() bool { return true }

func (b *portableBackend) Init() error { return nil }

func (b *portableBackend) Destroy() {}

// Dispatch runs synchronously to completion once started: cancellation is
// observed between batches by the orchestrator, not mid-batch, so a
// dispatch already underway always finishes (spec.md §4.3, §5).
func (b *portableBackend) Dispatch(ctx context.Context, req Request) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	var res Result
	for i := uint64(0); i < req.BatchSize; i++ {
		if evaluate(req.Length, req.Offset+i, req.TargetHash, req.Ciphertext, req.Tag) {
			if len(res.Matches) >= MaxMatches {
				res.Truncated = true
				break
			}
			res.Matches = append(res.Matches, i)
		}
	}
	return res, nil
}
