// Package dictionary builds and serves the bucketed word-list index used
// by the dictionary-attack phase of the cracking engine (spec.md §4.2).
package dictionary

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/jkingsman/meshcore-hashtag-cracker/internal/primitives"
	"github.com/jkingsman/meshcore-hashtag-cracker/internal/roomname"
)

// buildProgressInterval is how often (in words processed) the build
// progress callback fires.
const buildProgressInterval = 10000

// IndexedWord is a word that survived the grammar filter, paired with its
// precomputed channel key.
type IndexedWord struct {
	Word string
	Key  primitives.Key
}

// Index is a 256-bucket, channel-hash-sorted view of a word list. Bucket b
// holds every indexed word whose channel hash equals b. It is built once
// and read by any number of callers without locking (spec.md §5).
type Index struct {
	buckets [256][]IndexedWord
	size    int
}

// Lookup returns bucket c in the order words were inserted during Build.
func (idx *Index) Lookup(c byte) []IndexedWord {
	if idx == nil {
		return nil
	}
	return idx.buckets[c]
}

// Len returns the total number of indexed words across all buckets.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return idx.size
}

// FilterWord lowercases and trims raw, then validates it against the
// room-name grammar (spec.md §3). It returns ok=false for words that are
// not legal room names; such words never enter the index.
func FilterWord(raw string) (word string, ok bool) {
	word = strings.ToLower(strings.TrimSpace(raw))
	if word == "" {
		return "", false
	}
	if !roomname.IsLegalRoomName(word) {
		return "", false
	}
	return word, true
}

// Build derives a channel key for every legal word in words and buckets it
// by channel hash. onProgress, if non-nil, is called roughly every 10,000
// words processed (spec.md §4.2); for a non-empty list its last call
// always has done == len(words). For an empty list it is never called.
func Build(words []string, onProgress func(done, total int)) *Index {
	idx := &Index{}
	total := len(words)
	for i, raw := range words {
		word, ok := FilterWord(raw)
		if ok {
			key := primitives.DeriveKey(word)
			c := primitives.ChannelHash(key)
			idx.buckets[c] = append(idx.buckets[c], IndexedWord{Word: word, Key: key})
			idx.size++
		}
		if onProgress != nil && (i+1)%buildProgressInterval == 0 {
			onProgress(i+1, total)
		}
	}
	if onProgress != nil && total%buildProgressInterval != 0 {
		onProgress(total, total)
	}
	return idx
}

// SetWordlist filters an in-memory sequence of words down to the ones
// legal under the room-name grammar, lowercased and trimmed. This mirrors
// the public API's setWordlist(words) (spec.md §6); it is a pure filter
// with no I/O.
func SetWordlist(words []string) []string {
	out := make([]string, 0, len(words))
	for _, raw := range words {
		if word, ok := FilterWord(raw); ok {
			out = append(out, word)
		}
	}
	return out
}

// LoadWordlist fetches a newline-delimited word list from url, filters it
// through the same grammar as SetWordlist, and returns the surviving
// words. It mirrors the public API's loadWordlist(url) (spec.md §6).
//
// No HTTP client library appears anywhere in the retrieval pack this
// module was grounded on, so this uses the stdlib client the same way
// spec.md's closest architectural relative (the relay client pattern)
// does for its own fetches.
func LoadWordlist(ctx context.Context, url string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dictionary: building request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dictionary: fetching wordlist: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("dictionary: fetching wordlist: unexpected status %s", resp.Status)
	}

	var words []string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		if word, ok := FilterWord(scanner.Text()); ok {
			words = append(words, word)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("dictionary: reading wordlist: %w", err)
	}
	return words, nil
}
