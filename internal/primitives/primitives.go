// Package primitives implements the cryptographic collaborators that
// spec.md places out of scope but describes precisely enough to
// reconstruct: key derivation from a room name, the one-byte channel hash,
// tag verification, and decryption of a group-text frame.
//
// These are pure functions of their inputs (spec.md §8, property 2): two
// calls with equal inputs always yield equal outputs, and no package-level
// state is mutated.
package primitives

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// KeySize is the length in bytes of a derived channel key.
const KeySize = 16

// TagSize is the length in bytes of a packet's authentication tag.
const TagSize = 2

// tagPersonalization distinguishes the tag MAC from any other use of the
// channel key within this package.
var tagPersonalization = []byte("meshcore-hashtag-cracker.packet.tag")

// ivPersonalization distinguishes the CTR initialization vector derivation
// from the tag derivation above; the tag is an HMAC-SHA256 and the IV a
// SHAKE256 output, each keyed by the channel key and mixed with its own
// personalization string rather than sharing a single hash, so that
// recovering one never leaks the other.
var ivPersonalization = []byte("meshcore-hashtag-cracker.packet.iv")

// Key is a 16-byte secret derived from a room name.
type Key [KeySize]byte

// DeriveKey computes K = truncate16(H("#" + name)), the first 16 bytes of
// the 256-bit hash of the room name prefixed with '#'.
func DeriveKey(name string) Key {
	sum := sha3.Sum256(append([]byte("#"), name...))
	var k Key
	copy(k[:], sum[:KeySize])
	return k
}

// ChannelHash computes C = lsb(H(K)), the least-significant (last) byte of
// the 256-bit hash of the key.
func ChannelHash(key Key) byte {
	sum := sha3.Sum256(key[:])
	return sum[len(sum)-1]
}

// tag computes the packet's 2-byte authentication tag over the ciphertext,
// keyed by the channel key, truncating an HMAC-SHA256 down to TagSize. A
// 2-byte tag admits roughly 2^-16 collision probability per guess (spec.md
// §4.4), which is why the filter chain exists at all.
func tag(key Key, ciphertext []byte) [TagSize]byte {
	mac := hmac.New(sha256.New, key[:])
	mac.Write(tagPersonalization)
	mac.Write(ciphertext)
	sum := mac.Sum(nil)
	var out [TagSize]byte
	copy(out[:], sum[:TagSize])
	return out
}

// Verify reports whether tag authenticates ciphertext under key.
func Verify(ciphertext, wireTag []byte, key Key) bool {
	if len(wireTag) != TagSize {
		return false
	}
	want := tag(key, ciphertext)
	return subtle.ConstantTimeCompare(want[:], wireTag) == 1
}

// iv derives the AES-CTR initialization vector for a channel key.
func iv(key Key) [aes.BlockSize]byte {
	h := sha3.NewShake256()
	h.Write(key[:])
	h.Write(ivPersonalization)
	var out [aes.BlockSize]byte
	h.Read(out[:])
	return out
}

// Frame is the decoded payload of a group-text packet: a timestamp and a
// message, with an optional sender identity (spec.md §4.4, sender-presence
// filter).
type Frame struct {
	Timestamp uint32
	Sender    string
	HasSender bool
	Message   string
}

// Plaintext wire layout, matching the const-offset style used throughout
// this codebase for fixed binary records:
//
//	[timestamp(4, big-endian)] [senderLen(1)] [sender(senderLen)] [message(rest)]
const (
	offTimestamp = 0
	offSenderLen = offTimestamp + 4
	offSender    = offSenderLen + 1
	minFrameSize = offSender
)

// Decrypt verifies the tag, decrypts the ciphertext with AES-128-CTR under
// key, and parses the resulting plaintext into a Frame. It returns an
// error if the tag does not verify or the plaintext is too short to
// contain a timestamp and sender-length field.
func Decrypt(ciphertext, wireTag []byte, key Key) (Frame, error) {
	if !Verify(ciphertext, wireTag, key) {
		return Frame{}, fmt.Errorf("primitives: tag verification failed")
	}

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return Frame{}, fmt.Errorf("primitives: %w", err)
	}
	ivBytes := iv(key)
	stream := cipher.NewCTR(block, ivBytes[:])
	plaintext := make([]byte, len(ciphertext))
	stream.XORKeyStream(plaintext, ciphertext)

	if len(plaintext) < minFrameSize {
		return Frame{}, fmt.Errorf("primitives: decrypted frame too short")
	}

	frame := Frame{
		Timestamp: binary.BigEndian.Uint32(plaintext[offTimestamp:offSenderLen]),
	}
	senderLen := int(plaintext[offSenderLen])
	if offSender+senderLen > len(plaintext) {
		return Frame{}, fmt.Errorf("primitives: sender length exceeds frame")
	}
	if senderLen > 0 {
		frame.HasSender = true
		frame.Sender = string(plaintext[offSender : offSender+senderLen])
	}
	frame.Message = string(plaintext[offSender+senderLen:])
	return frame, nil
}

// Encrypt is the inverse of Decrypt. It is not used by the cracking engine
// itself but exists so tests (and any tooling that generates fixture
// packets) can construct self-consistent ciphertext/tag pairs without
// duplicating the wire format.
func Encrypt(key Key, frame Frame) (ciphertext, wireTag []byte) {
	senderBytes := []byte(frame.Sender)
	if !frame.HasSender {
		senderBytes = nil
	}
	plaintext := make([]byte, minFrameSize+len(senderBytes)+len(frame.Message))
	binary.BigEndian.PutUint32(plaintext[offTimestamp:offSenderLen], frame.Timestamp)
	plaintext[offSenderLen] = byte(len(senderBytes))
	copy(plaintext[offSender:], senderBytes)
	copy(plaintext[offSender+len(senderBytes):], frame.Message)

	block, err := aes.NewCipher(key[:])
	if err != nil {
		panic(err)
	}
	ivBytes := iv(key)
	stream := cipher.NewCTR(block, ivBytes[:])
	ciphertext = make([]byte, len(plaintext))
	stream.XORKeyStream(ciphertext, plaintext)

	t := tag(key, ciphertext)
	return ciphertext, t[:]
}
