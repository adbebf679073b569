// Package packet decodes the hexadecimal wire representation of a
// MeshCore group-text packet into its three fields. This is the "external
// collaborator" referenced only by interface in spec.md §1 — a real
// MeshCore packet parser would additionally validate frame type, routing
// headers, and so on, but the cracking engine only needs the three fields
// below, so that's all this package extracts.
package packet

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Packet is a parsed group-text packet: a one-byte channel hash, an
// encrypted ciphertext of arbitrary length, and a short authentication
// tag. It is read-only once parsed.
type Packet struct {
	// ChannelHash is the wire-format offset-0 byte identifying the
	// channel this packet claims to belong to.
	ChannelHash byte
	// Ciphertext is the encrypted payload.
	Ciphertext []byte
	// CipherMac is the trailing authentication tag.
	CipherMac []byte
}

// Wire layout offsets.
const (
	offChannelHash  = 0
	offCiphertext   = offChannelHash + 1
	macSize         = 2
	minPacketLength = offCiphertext + macSize
)

// Decode parses a hex-encoded group-text packet. The hex string may use
// upper or lower case, carry an optional "0x" prefix, and contain internal
// whitespace, all of which are stripped before decoding (spec.md §6).
//
// It returns an error — never a panic — when the string is not valid hex
// or the decoded bytes are too short to hold a channel hash and a tag;
// spec.md §7 requires this be surfaced as an input error without touching
// the executor.
func Decode(input string) (Packet, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		default:
			return r
		}
	}, input)
	cleaned = strings.TrimPrefix(cleaned, "0x")
	cleaned = strings.TrimPrefix(cleaned, "0X")

	raw, err := hex.DecodeString(cleaned)
	if err != nil {
		return Packet{}, fmt.Errorf("invalid packet: %w", err)
	}
	if len(raw) < minPacketLength {
		return Packet{}, fmt.Errorf("invalid packet: too short to be a group-text frame (%d bytes)", len(raw))
	}

	p := Packet{
		ChannelHash: raw[offChannelHash],
		Ciphertext:  raw[offCiphertext : len(raw)-macSize],
		CipherMac:   raw[len(raw)-macSize:],
	}
	return p, nil
}
