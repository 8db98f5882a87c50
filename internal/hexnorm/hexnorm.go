// Package hexnorm converts loosely formatted hexadecimal text into its
// canonical form: lowercase, no whitespace. Validation is structural only;
// the caller decides what the hex means.
package hexnorm

import (
	"errors"
	"fmt"
	"strings"
)

// HeaderHexLen is the number of hex characters covering the 8-byte frame
// header.
const HeaderHexLen = 16

var (
	ErrEmptyInput  = errors.New("hexnorm: empty input")
	ErrOddLength   = errors.New("hexnorm: odd number of hex characters")
	ErrInvalidChar = errors.New("hexnorm: non-hexadecimal character")
	ErrShortHeader = errors.New("hexnorm: incomplete frame header")
)

// Normalize strips whitespace, lowercases, and validates raw as hex text.
// The total length must be even: this is the unconditional rule used by the
// standalone publichex-verify capsule.
func Normalize(raw string) (string, error) {
	s, err := normalize(raw)
	if err != nil {
		return "", err
	}
	if len(s)%2 != 0 {
		return "", ErrOddLength
	}
	return s, nil
}

// NormalizeFrameHex is the variant used when hex text feeds the frame
// decoder: only the header prefix is length-checked here. An odd payload
// remainder is left for byte decoding to reject.
func NormalizeFrameHex(raw string) (string, error) {
	s, err := normalize(raw)
	if err != nil {
		return "", err
	}
	if len(s) < HeaderHexLen {
		return "", fmt.Errorf("%w: need %d hex characters, have %d", ErrShortHeader, HeaderHexLen, len(s))
	}
	return s, nil
}

func normalize(raw string) (string, error) {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch r {
		case ' ', '\t', '\n', '\r':
			continue
		}
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return "", fmt.Errorf("%w %q", ErrInvalidChar, r)
		}
		b.WriteRune(r)
	}
	if b.Len() == 0 {
		return "", ErrEmptyInput
	}
	return b.String(), nil
}
