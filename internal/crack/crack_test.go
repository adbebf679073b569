package crack_test

import (
	"encoding/hex"
	"testing"
	"time"

	"github.com/jkingsman/meshcore-hashtag-cracker/internal/crack"
	"github.com/jkingsman/meshcore-hashtag-cracker/internal/primitives"
)

// buildPacketHex assembles a hex-encoded group-text packet for roomName
// carrying message, the way a real sender would produce one.
func buildPacketHex(t *testing.T, roomName, message string) string {
	t.Helper()
	key := primitives.DeriveKey(roomName)
	frame := primitives.Frame{Timestamp: uint32(time.Now().Unix()), Sender: "alice", HasSender: true, Message: message}
	ciphertext, tag := primitives.Encrypt(key, frame)

	raw := make([]byte, 0, 1+len(ciphertext)+len(tag))
	raw = append(raw, primitives.ChannelHash(key))
	raw = append(raw, ciphertext...)
	raw = append(raw, tag...)
	return hex.EncodeToString(raw)
}

func TestCrackFindsDictionaryWord(t *testing.T) {
	e := crack.New()
	defer e.Destroy()
	e.SetWordlist([]string{"able", "baker", "charlie"})

	hexPacket := buildPacketHex(t, "able", "hello there")
	opts := crack.DefaultOptions()
	opts.MaxLength = 3 // force brute force to miss so only the dictionary can find it

	res := e.Crack(hexPacket, opts, nil)
	if !res.Found {
		t.Fatalf("Crack did not find the word: %+v", res)
	}
	if res.RoomName != "able" {
		t.Fatalf("RoomName = %q, want able", res.RoomName)
	}
	if res.DecryptedMessage != "alice: hello there" {
		t.Fatalf("DecryptedMessage = %q", res.DecryptedMessage)
	}
	if res.ResumeType != crack.ResumeDictionary || res.ResumeFrom != "able" {
		t.Fatalf("resume cursor = %q/%q, want able/dictionary", res.ResumeFrom, res.ResumeType)
	}
}

func TestCrackFindsBruteForceMatch(t *testing.T) {
	e := crack.New()
	defer e.Destroy()

	hexPacket := buildPacketHex(t, "ab", "hi")
	opts := crack.DefaultOptions()
	opts.UseDictionary = false
	opts.MaxLength = 3
	opts.ForceCPU = true

	res := e.Crack(hexPacket, opts, nil)
	if !res.Found {
		t.Fatalf("Crack did not find the room name: %+v", res)
	}
	if res.RoomName != "ab" {
		t.Fatalf("RoomName = %q, want ab", res.RoomName)
	}
	if res.ResumeType != crack.ResumeBruteforce || res.ResumeFrom != "ab" {
		t.Fatalf("resume cursor = %q/%q, want ab/bruteforce", res.ResumeFrom, res.ResumeType)
	}
}

func TestCrackResumeSkipsPastMatch(t *testing.T) {
	e := crack.New()
	defer e.Destroy()

	hexPacket := buildPacketHex(t, "zz", "hi")
	opts := crack.DefaultOptions()
	opts.UseDictionary = false
	opts.MaxLength = 2
	opts.ForceCPU = true

	first := e.Crack(hexPacket, opts, nil)
	if !first.Found || first.RoomName != "zz" {
		t.Fatalf("first call did not find zz: %+v", first)
	}

	resumeOpts := opts
	resumeOpts.StartFrom = first.ResumeFrom
	resumeOpts.StartFromType = first.ResumeType

	second := e.Crack(hexPacket, resumeOpts, nil)
	if second.Found {
		t.Fatalf("resumed call refound an already-reported match: %+v", second)
	}
}

func TestCrackIsDeterministic(t *testing.T) {
	e := crack.New()
	defer e.Destroy()
	e.SetWordlist([]string{"able"})

	hexPacket := buildPacketHex(t, "able", "hello")
	opts := crack.DefaultOptions()
	opts.MaxLength = 4

	a := e.Crack(hexPacket, opts, nil)
	b := e.Crack(hexPacket, opts, nil)
	if a.Found != b.Found || a.RoomName != b.RoomName || a.DecryptedMessage != b.DecryptedMessage {
		t.Fatalf("two identical calls diverged: %+v vs %+v", a, b)
	}
}

func TestCrackBackendEquivalence(t *testing.T) {
	e := crack.New()
	defer e.Destroy()

	hexPacket := buildPacketHex(t, "ab", "hi")
	optsCPU := crack.DefaultOptions()
	optsCPU.UseDictionary = false
	optsCPU.MaxLength = 3
	optsCPU.ForceCPU = true

	optsGPU := optsCPU
	optsGPU.ForceCPU = false

	cpu := e.Crack(hexPacket, optsCPU, nil)
	gpu := e.Crack(hexPacket, optsGPU, nil)
	if cpu.Found != gpu.Found || cpu.RoomName != gpu.RoomName {
		t.Fatalf("backend mismatch: cpu=%+v gpu=%+v", cpu, gpu)
	}
}

func TestCrackRejectsMalformedPacket(t *testing.T) {
	e := crack.New()
	defer e.Destroy()

	res := e.Crack("not-hex", crack.DefaultOptions(), nil)
	if res.Error == "" {
		t.Fatalf("expected an input error, got %+v", res)
	}
	if res.ResumeFrom != "" || res.ResumeType != "" {
		t.Fatalf("input error must not carry a resume cursor: %+v", res)
	}
}

func TestCrackAbortStopsSearch(t *testing.T) {
	e := crack.New()
	defer e.Destroy()

	// Default-sized space: big enough that the first batch can't exhaust
	// it, so only an actual abort can stop the call short of a match.
	hexPacket := buildPacketHex(t, "zzzzzzzz", "hi")
	opts := crack.DefaultOptions()
	opts.UseDictionary = false
	opts.ForceCPU = true

	res := e.Crack(hexPacket, opts, func(crack.ProgressReport) {
		e.Abort()
		time.Sleep(5 * time.Millisecond) // give the watcher goroutine time to propagate cancellation
	})
	if !res.Aborted {
		t.Fatalf("expected Aborted, got %+v", res)
	}
}
