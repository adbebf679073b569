package crack

// Result is the outcome of one crack() call (spec.md §6).
type Result struct {
	// Found is true if a room name and key were recovered.
	Found bool
	// RoomName is the recovered channel name, set only when Found.
	RoomName string
	// Key is the recovered 16-byte channel key, set only when Found.
	Key []byte
	// DecryptedMessage is the filter chain's formatted message, set only
	// when Found.
	DecryptedMessage string
	// Aborted is true if Abort() stopped the search before it found or
	// exhausted the candidate space.
	Aborted bool
	// Error holds a description of an input error (a packet that failed
	// to decode) or of a call refused because another crack() is already
	// in flight on the same Engine. ResumeFrom and ResumeType are never
	// set alongside it (spec.md §7).
	Error string
	// ResumeFrom and ResumeType describe the position to resume from on
	// a subsequent call: set on every outcome that leaves Error empty.
	ResumeFrom string
	ResumeType ResumeKind
}

// ProgressReport is delivered to a crack() call's onProgress callback at
// most once every 200ms, apart from a final report when the call finds a
// match in the public phase or exhausts the search (spec.md §5).
type ProgressReport struct {
	// Phase is "public", "dictionary", or "bruteforce".
	Phase string
	// Length is the room-name length currently being searched. It is
	// meaningless during the public and dictionary phases.
	Length int
	// Position is the next candidate index to be dispatched within
	// Length. It is meaningless outside the bruteforce phase.
	Position uint64
	// Checked is the total number of candidates inspected so far across
	// this call, monotonically increasing.
	Checked uint64
	// Total is a best-effort denominator: the full brute-force candidate
	// space from StartingLength to MaxLength, plus the dictionary size. It
	// is computed once at the start of the call and stays the same in
	// every report. It is not tight — a resumed call still counts the
	// space it skips.
	Total uint64
	// RatePerSecond is the average checked-per-second rate since this
	// call started.
	RatePerSecond float64
	// ElapsedSeconds is time elapsed since this call started.
	ElapsedSeconds float64
	// EtaSeconds is a best-effort estimate of remaining time, computed
	// from RatePerSecond and the remaining Total. It is zero when the
	// rate is not yet known.
	EtaSeconds float64
}
