package crack

// ResumeKind identifies which phase a ResumeCursor belongs to (spec.md §3).
type ResumeKind string

const (
	// ResumeDictionary marks a cursor into the dictionary phase.
	ResumeDictionary ResumeKind = "dictionary"
	// ResumeBruteforce marks a cursor into the brute-force phase.
	ResumeBruteforce ResumeKind = "bruteforce"
)

// PublicRoomName is the one fixed channel name Phase A tries directly
// (spec.md §4.5). It also doubles as the resume sentinel for "nothing past
// the public-room check has been inspected yet": it can never appear in a
// word list bucket (dictionary words are grammar-filtered and this name
// contains brackets), so resuming with {PublicRoomName, ResumeDictionary}
// always degrades to "start of dictionary" — exactly the position it's
// meant to mark.
const PublicRoomName = "[[public room]]"

// Options configures one crack() call (spec.md §6).
type Options struct {
	// MaxLength is the upper bound on Phase C room-name length.
	MaxLength int
	// StartingLength is the lower bound on Phase C room-name length.
	StartingLength int
	// UseDictionary enables Phase B when a word list has been loaded.
	UseDictionary bool
	// UseTimestampFilter enables the timestamp-window filter.
	UseTimestampFilter bool
	// ValidSeconds is the timestamp filter's window half-width.
	ValidSeconds int64
	// UseUTF8Filter enables the textual-plausibility filter.
	UseUTF8Filter bool
	// UseSenderFilter enables the sender-presence filter.
	UseSenderFilter bool
	// StartFrom is the resume cursor's room name, or "" to start fresh.
	StartFrom string
	// StartFromType identifies which phase StartFrom resumes into.
	StartFromType ResumeKind
	// ForceCPU bypasses the accelerator backend even when available.
	ForceCPU bool
	// GPUDispatchMs is the auto-tuner's target dispatch duration, in
	// milliseconds.
	GPUDispatchMs int
}

// DefaultOptions returns the public API's documented defaults (spec.md
// §6).
func DefaultOptions() Options {
	return Options{
		MaxLength:          8,
		StartingLength:     1,
		UseDictionary:      true,
		UseTimestampFilter: true,
		ValidSeconds:       2592000,
		UseUTF8Filter:      true,
		UseSenderFilter:    true,
		StartFromType:      ResumeBruteforce,
		ForceCPU:           false,
		GPUDispatchMs:      1000,
	}
}
