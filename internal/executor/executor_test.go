package executor_test

import (
	"context"
	"testing"
	"time"

	"github.com/jkingsman/meshcore-hashtag-cracker/internal/executor"
	"github.com/jkingsman/meshcore-hashtag-cracker/internal/primitives"
	"github.com/jkingsman/meshcore-hashtag-cracker/internal/roomname"
)

// findTargetAtLength1 returns a channel hash byte and the index within
// length 1 of the room name that produces it, for use as a fixture.
func findTargetAtLength1(t *testing.T) (target byte, index uint64, name string) {
	t.Helper()
	n := roomname.CountNamesForLength(1)
	for i := uint64(0); i < n; i++ {
		nm, ok := roomname.IndexToRoomName(1, i)
		if !ok {
			continue
		}
		return primitives.ChannelHash(primitives.DeriveKey(nm)), i, nm
	}
	t.Fatal("no length-1 names")
	return 0, 0, ""
}

func testBackendFindsHashMatch(t *testing.T, backend executor.Backend) {
	t.Helper()
	if err := backend.Init(); err != nil {
		t.Skipf("backend unavailable: %v", err)
	}
	defer backend.Destroy()

	target, index, _ := findTargetAtLength1(t)
	n := roomname.CountNamesForLength(1)
	res, err := backend.Dispatch(context.Background(), executor.Request{
		TargetHash: target,
		Length:     1,
		Offset:     0,
		BatchSize:  n,
	})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	found := false
	for _, m := range res.Matches {
		if m == index {
			found = true
		}
	}
	if !found {
		t.Fatalf("Dispatch matches %v did not include expected index %d", res.Matches, index)
	}
}

func TestPortableBackendFindsHashMatch(t *testing.T) {
	testBackendFindsHashMatch(t, executor.NewPortableBackend())
}

func TestAcceleratorBackendFindsHashMatch(t *testing.T) {
	testBackendFindsHashMatch(t, executor.NewAcceleratorBackend())
}

func TestBackendEquivalence(t *testing.T) {
	accel := executor.NewAcceleratorBackend()
	if err := accel.Init(); err != nil {
		t.Skipf("accelerator unavailable: %v", err)
	}
	defer accel.Destroy()
	portable := executor.NewPortableBackend()

	target, _, _ := findTargetAtLength1(t)
	n := roomname.CountNamesForLength(1)
	req := executor.Request{TargetHash: target, Length: 1, Offset: 0, BatchSize: n}

	accelRes, err := accel.Dispatch(context.Background(), req)
	if err != nil {
		t.Fatalf("accelerator Dispatch: %v", err)
	}
	portableRes, err := portable.Dispatch(context.Background(), req)
	if err != nil {
		t.Fatalf("portable Dispatch: %v", err)
	}
	if len(accelRes.Matches) != len(portableRes.Matches) {
		t.Fatalf("match count differs: accelerator=%d portable=%d", len(accelRes.Matches), len(portableRes.Matches))
	}
	for i := range accelRes.Matches {
		if accelRes.Matches[i] != portableRes.Matches[i] {
			t.Fatalf("match %d differs: accelerator=%d portable=%d", i, accelRes.Matches[i], portableRes.Matches[i])
		}
	}
}

func TestAutoTunerLocksAfterFirstFullBatch(t *testing.T) {
	at := executor.NewAutoTuner(1024, 1000*time.Millisecond)
	if at.BatchSize() != 1024 {
		t.Fatalf("BatchSize() = %d, want 1024", at.BatchSize())
	}
	// A dispatch that took half the target duration should roughly double.
	at.Observe(1024, 500*time.Millisecond)
	got := at.BatchSize()
	if got < 1024 {
		t.Fatalf("BatchSize() after tuning = %d, want >= 1024", got)
	}
	// Further observations must not change the locked value.
	at.Observe(at.BatchSize(), 10*time.Second)
	if at.BatchSize() != got {
		t.Fatalf("BatchSize() changed after lock: %d != %d", at.BatchSize(), got)
	}
}

func TestAutoTunerIgnoresPartialBatches(t *testing.T) {
	at := executor.NewAutoTuner(1024, 1000*time.Millisecond)
	at.Observe(37, 10*time.Millisecond) // not a full-sized dispatch
	if at.BatchSize() != 1024 {
		t.Fatalf("BatchSize() = %d, want unchanged 1024", at.BatchSize())
	}
}
