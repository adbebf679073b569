package crack

import (
	"context"
	"sync"

	"github.com/jkingsman/meshcore-hashtag-cracker/internal/dictionary"
	"github.com/jkingsman/meshcore-hashtag-cracker/internal/executor"
	"github.com/jkingsman/meshcore-hashtag-cracker/internal/packet"
)

// Engine is the search orchestrator: the public surface spec.md §6
// describes as loadWordlist/setWordlist/decodePacket/crack/abort/
// isGpuAvailable/destroy. One Engine may have at most one crack() in
// flight at a time (spec.md §5); a second concurrent call returns an error
// immediately rather than queuing or racing the first.
type Engine struct {
	mu    sync.Mutex
	busy  bool
	index *dictionary.Index

	accel    executor.Backend
	portable executor.Backend

	stopChan chan struct{}
	stopOnce *sync.Once
}

// New returns an Engine with no word list loaded.
func New() *Engine {
	return &Engine{
		accel:    executor.NewAcceleratorBackend(),
		portable: executor.NewPortableBackend(),
	}
}

// SetWordlist installs an in-memory word list, mirroring the public API's
// setWordlist(words) (spec.md §6).
func (e *Engine) SetWordlist(words []string) {
	filtered := dictionary.SetWordlist(words)
	e.mu.Lock()
	e.index = dictionary.Build(filtered, nil)
	e.mu.Unlock()
}

// LoadWordlist fetches and installs a word list from url, mirroring the
// public API's loadWordlist(url) (spec.md §6).
func (e *Engine) LoadWordlist(ctx context.Context, url string) error {
	words, err := dictionary.LoadWordlist(ctx, url)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.index = dictionary.Build(words, nil)
	e.mu.Unlock()
	return nil
}

// DecodePacket parses a hex-encoded packet, mirroring the public API's
// decodePacket(hex) (spec.md §6).
func (e *Engine) DecodePacket(hex string) (packet.Packet, error) {
	return packet.Decode(hex)
}

// IsGpuAvailable reports whether the accelerator backend can be used on
// this host, mirroring the public API's isGpuAvailable() (spec.md §6).
func (e *Engine) IsGpuAvailable() bool {
	return e.accel.Available()
}

// Abort raises the cancellation flag for whichever crack() call is
// currently in flight. It is the only cross-thread signal this package
// exposes and is safe to call from any goroutine, any number of times, at
// any point, including before a crack has started or after one has already
// finished (spec.md §5).
func (e *Engine) Abort() {
	e.mu.Lock()
	sc, once := e.stopChan, e.stopOnce
	e.mu.Unlock()
	if sc != nil && once != nil {
		once.Do(func() { close(sc) })
	}
}

// Destroy releases both backends' resources. An Engine must not be used
// again after Destroy (spec.md §6).
func (e *Engine) Destroy() {
	e.portable.Destroy()
	e.accel.Destroy()
}

// beginCrack claims the engine for one crack() call, returning the stop
// channel Abort() will close and a release function the caller must defer.
// It returns ok=false if a crack is already in flight.
func (e *Engine) beginCrack() (stop chan struct{}, release func(), ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.busy {
		return nil, nil, false
	}
	e.busy = true
	e.stopChan = make(chan struct{})
	e.stopOnce = &sync.Once{}
	stop = e.stopChan
	release = func() {
		e.mu.Lock()
		e.busy = false
		e.mu.Unlock()
	}
	return stop, release, true
}
