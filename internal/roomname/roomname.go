// Package roomname implements the candidate enumerator: a bijection between
// non-negative integers and legal MeshCore channel room names of a given
// length.
//
// Room names are drawn from a 37-symbol alphabet (a-z, 0-9, and '-'), but
// only 36 of those symbols are legal at the first and last position of a
// name: '-' may not open or close a name, and two '-' may never sit next to
// each other. Names of length 1 therefore draw from the 36-symbol boundary
// alphabet only.
package roomname

import "strings"

// boundaryAlphabet holds the 36 glyphs legal at the first and last
// position of a room name.
const boundaryAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// interiorAlphabet holds the 37 glyphs legal at interior positions: the
// boundary glyphs plus '-'.
const interiorAlphabet = boundaryAlphabet + "-"

const (
	boundaryRadix = uint64(len(boundaryAlphabet))
	interiorRadix = uint64(len(interiorAlphabet))
)

var (
	boundaryIndex [256]int8
	interiorIndex [256]int8
)

func init() {
	for i := range boundaryIndex {
		boundaryIndex[i] = -1
		interiorIndex[i] = -1
	}
	for i, c := range boundaryAlphabet {
		boundaryIndex[byte(c)] = int8(i)
	}
	for i, c := range interiorAlphabet {
		interiorIndex[byte(c)] = int8(i)
	}
}

// radixFor returns the glyph radix legal at position pos of a name of
// length l: boundary radix (36) at the first and last position, interior
// radix (37) everywhere else.
func radixFor(pos, l int) uint64 {
	if pos == 0 || pos == l-1 {
		return boundaryRadix
	}
	return interiorRadix
}

// CountNamesForLength returns the total candidate space enumerated for
// brute force at the given length.
//
// This follows the spec's documented convention: the simple product
// 36·37^(L-2)·36 rather than the exact grammar-respecting count, which
// would additionally need to subtract names containing "--". The two
// functions are consistent with each other: IndexToRoomName returns ok=false
// for indices in this space that decode to a forbidden "--" sequence, and
// callers are expected to treat that as a skipped gap rather than an error.
func CountNamesForLength(l int) uint64 {
	if l <= 0 {
		return 0
	}
	if l == 1 {
		return boundaryRadix
	}
	count := boundaryRadix * boundaryRadix
	for i := 0; i < l-2; i++ {
		count *= interiorRadix
	}
	return count
}

// IndexToRoomName decodes index i, in [0, CountNamesForLength(l)), into the
// room name at that position in the mixed-radix enumeration. ok is false
// when the index decodes to a name with two adjacent '-' characters; the
// index is a "skip" gap in the enumerated space, not an error.
func IndexToRoomName(l int, i uint64) (name string, ok bool) {
	if l <= 0 {
		return "", false
	}
	digits := make([]uint64, l)
	for pos := l - 1; pos >= 0; pos-- {
		r := radixFor(pos, l)
		digits[pos] = i % r
		i /= r
	}
	buf := make([]byte, l)
	for pos := 0; pos < l; pos++ {
		if pos == 0 || pos == l-1 {
			buf[pos] = boundaryAlphabet[digits[pos]]
		} else {
			buf[pos] = interiorAlphabet[digits[pos]]
		}
	}
	name = string(buf)
	if strings.Contains(name, "--") {
		return "", false
	}
	return name, true
}

// RoomNameToIndex is the inverse of IndexToRoomName: it returns the length
// of name and its index within that length's enumeration. ok is false if
// name is not a legal room name under the grammar in spec.md §3.
func RoomNameToIndex(name string) (length int, index uint64, ok bool) {
	l := len(name)
	if l == 0 {
		return 0, 0, false
	}
	if strings.Contains(name, "--") {
		return 0, 0, false
	}
	var idx uint64
	for pos := 0; pos < l; pos++ {
		c := name[pos]
		var digit int8
		if pos == 0 || pos == l-1 {
			digit = boundaryIndex[c]
		} else {
			digit = interiorIndex[c]
		}
		if digit < 0 {
			return 0, 0, false
		}
		idx = idx*radixFor(pos, l) + uint64(digit)
	}
	return l, idx, true
}

// IsLegalRoomName reports whether name satisfies the grammar in spec.md §3:
// non-empty, drawn from the alphabet, no leading/trailing '-', no "--".
func IsLegalRoomName(name string) bool {
	_, _, ok := RoomNameToIndex(name)
	return ok
}
