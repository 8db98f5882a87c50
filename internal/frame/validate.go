package frame

import "hash/crc32"

// Integrity reasons reported by Validate. These are user-facing strings
// carried into capsules, so they stay stable.
const (
	ReasonLengthField = "length field does not match payload size"
	ReasonChecksum    = "checksum mismatch"
)

// Validate re-derives length and checksum from the payload and compares them
// against the header. Both checks run independently; the returned reasons
// preserve encounter order. An empty result means the frame is intact.
//
// A non-empty result means the frame parsed but failed integrity, which is a
// different outcome class from a parse error.
func Validate(f Frame) []string {
	var reasons []string
	if uint64(f.Length) != uint64(len(f.Payload)) {
		reasons = append(reasons, ReasonLengthField)
	}
	if f.Checksum != crc32.ChecksumIEEE(f.Payload) {
		reasons = append(reasons, ReasonChecksum)
	}
	return reasons
}
