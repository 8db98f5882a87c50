// Package legacy implements the text checksum scheme that predates the
// binary frame: the payload text followed by ':' and its SHA-256 hex digest.
// Kept for compatibility with archives produced by older tooling.
package legacy

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Encode appends the SHA-256 hex digest of text, separated by a colon.
func Encode(text string) string {
	sum := sha256.Sum256([]byte(text))
	return text + ":" + hex.EncodeToString(sum[:])
}

// Verify splits encoded on the last colon, recomputes the digest of the
// text part, and compares. Text containing colons is handled; the digest is
// always the part after the last one.
func Verify(encoded string) bool {
	i := strings.LastIndexByte(encoded, ':')
	if i < 0 {
		return false
	}
	text, want := encoded[:i], encoded[i+1:]
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:]) == want
}
