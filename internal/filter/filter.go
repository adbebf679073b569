// Package filter implements the false-positive filter chain that runs on
// every candidate the batch executor reports (spec.md §4.4). A 2-byte tag
// collides roughly 1 time in 65536; over a brute-force run of billions of
// guesses that adds up, so every enabled filter must pass before a
// candidate is accepted.
package filter

import (
	"time"
	"unicode/utf8"

	"github.com/jkingsman/meshcore-hashtag-cracker/internal/primitives"
)

// Config holds the filter chain's options (spec.md §6).
type Config struct {
	// UseTimestampFilter rejects frames whose timestamp falls outside
	// [now-ValidSeconds, now+ValidSeconds].
	UseTimestampFilter bool
	// ValidSeconds is the timestamp window's half-width, in seconds.
	ValidSeconds int64
	// UseUTF8Filter rejects frames whose message decodes with invalid
	// UTF-8.
	UseUTF8Filter bool
	// UseSenderFilter rejects frames with no sender field.
	UseSenderFilter bool
	// Now, if set, overrides time.Now for the timestamp filter. Tests
	// set this; production code leaves it nil.
	Now func() time.Time
}

// DefaultConfig returns the public API's default filter configuration
// (spec.md §6): all three filters on, a 30-day timestamp window.
func DefaultConfig() Config {
	return Config{
		UseTimestampFilter: true,
		ValidSeconds:       2592000,
		UseUTF8Filter:      true,
		UseSenderFilter:    true,
	}
}

// Outcome is what the filter chain delivers for a candidate that passed
// every enabled filter.
type Outcome struct {
	Timestamp uint32
	Message   string
}

func (c Config) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Apply decrypts ciphertext under key and runs the enabled filters in the
// order specified by spec.md §4.4: decrypt, timestamp, UTF-8 plausibility,
// sender presence. It returns ok=false the moment any enabled filter
// rejects; a false return is the expected, silent outcome of most tag
// collisions (spec.md §7) and is never itself an error.
func Apply(cfg Config, ciphertext, tag []byte, key primitives.Key) (Outcome, bool) {
	frame, err := primitives.Decrypt(ciphertext, tag, key)
	if err != nil {
		return Outcome{}, false
	}

	if cfg.UseTimestampFilter {
		now := cfg.now().Unix()
		ts := int64(frame.Timestamp)
		if ts < now-cfg.ValidSeconds || ts > now+cfg.ValidSeconds {
			return Outcome{}, false
		}
	}

	if cfg.UseUTF8Filter {
		if !utf8.ValidString(frame.Message) {
			return Outcome{}, false
		}
		if containsReplacementChar(frame.Message) {
			return Outcome{}, false
		}
	}

	message := frame.Message
	if cfg.UseSenderFilter {
		if !frame.HasSender {
			return Outcome{}, false
		}
		message = frame.Sender + ": " + frame.Message
	}

	return Outcome{Timestamp: frame.Timestamp, Message: message}, true
}

// containsReplacementChar reports whether s contains the literal U+FFFD
// replacement code point, which spec.md §4.4 names as the plausibility
// marker for "decoding was not clean".
func containsReplacementChar(s string) bool {
	for _, r := range s {
		if r == utf8.RuneError {
			return true
		}
	}
	return false
}
