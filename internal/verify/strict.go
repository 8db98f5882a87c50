package verify

import (
	"bytes"
	"unicode/utf8"

	"publichex/internal/frame"
)

// Strict invariant reasons. Stable, user-facing.
const (
	ReasonNotUTF8     = "payload is not valid utf-8 text"
	ReasonReencode    = "re-encoded frame differs from original wire bytes"
	ReasonLengthField = "length field does not match payload size"
	ReasonNullByte    = "payload contains null byte"
	ReasonWireSize    = "wire size does not equal header plus declared length"
)

// StrictCheck runs the self-consistency suite over a frame that already
// passed basic validation. Every check is evaluated; nothing short-circuits,
// so the caller sees all violated invariants in one pass, in order:
//
//  1. the payload must decode as UTF-8 text;
//  2. re-encoding the payload must reproduce the wire bytes exactly;
//  3. the length field must equal the payload byte length (re-asserted
//     independently of Validate as a guard against checker drift);
//  4. the payload must contain no null byte;
//  5. the total wire size must equal HeaderSize plus the declared length.
func StrictCheck(f frame.Frame, wire []byte) []string {
	var reasons []string
	if !utf8.Valid(f.Payload) {
		reasons = append(reasons, ReasonNotUTF8)
	}
	if !bytes.Equal(frame.Encode(f.Payload), wire) {
		reasons = append(reasons, ReasonReencode)
	}
	if uint64(f.Length) != uint64(len(f.Payload)) {
		reasons = append(reasons, ReasonLengthField)
	}
	if bytes.IndexByte(f.Payload, 0) >= 0 {
		reasons = append(reasons, ReasonNullByte)
	}
	if uint64(len(wire)) != uint64(frame.HeaderSize)+uint64(f.Length) {
		reasons = append(reasons, ReasonWireSize)
	}
	return reasons
}
