package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
)

const (
	HeaderSize = 8       // 4 (crc32) + 4 (length)
	MaxPayload = 1 << 20 // 1 MiB cap for stream reads
)

var (
	ErrTooShort        = errors.New("frame: too short")
	ErrLengthMismatch  = errors.New("frame: length mismatch")
	ErrPayloadTooLarge = errors.New("frame: payload too large")
)

// Frame is one decoded wire frame. The header carries a CRC-32 over the
// payload and the payload length; both are re-derived from the payload
// during validation, never trusted.
type Frame struct {
	Checksum uint32
	Length   uint32
	Payload  []byte
}

// Encode wraps payload in the wire layout:
// [4B crc32 LE][4B length LE][payload]. The checksum is CRC-32 (IEEE
// polynomial, same as zip/ethernet) so it matches bit-for-bit across
// platforms.
func Encode(payload []byte) []byte {
	buf := make([]byte, HeaderSize+len(payload))
	binary.LittleEndian.PutUint32(buf[0:4], crc32.ChecksumIEEE(payload))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(payload)))
	copy(buf[HeaderSize:], payload)
	return buf
}

// Decode parses a complete wire frame from wire. The payload aliases the
// input slice; callers must not mutate it afterwards.
//
// Decode checks structure only: the checksum is deliberately not verified
// here so that a parseable-but-corrupt frame stays distinguishable from an
// unparseable one. Use Validate for integrity.
func Decode(wire []byte) (Frame, error) {
	if len(wire) < HeaderSize {
		return Frame{}, ErrTooShort
	}
	f := Frame{
		Checksum: binary.LittleEndian.Uint32(wire[0:4]),
		Length:   binary.LittleEndian.Uint32(wire[4:8]),
		Payload:  wire[HeaderSize:],
	}
	if uint64(f.Length) != uint64(len(wire)-HeaderSize) {
		return Frame{}, ErrLengthMismatch
	}
	return f, nil
}

// WriteFrame encodes payload and writes the whole frame in a single Write.
func WriteFrame(w io.Writer, payload []byte) error {
	if len(payload) > MaxPayload {
		return fmt.Errorf("%w: %d > %d", ErrPayloadTooLarge, len(payload), MaxPayload)
	}
	_, err := w.Write(Encode(payload))
	return err
}

// ReadFrame reads one complete frame from r, validating the declared length
// against MaxPayload before allocating.
func ReadFrame(r io.Reader) (Frame, error) {
	var hdr [HeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Frame{}, ErrTooShort
		}
		return Frame{}, fmt.Errorf("reading frame header: %w", err)
	}

	f := Frame{
		Checksum: binary.LittleEndian.Uint32(hdr[0:4]),
		Length:   binary.LittleEndian.Uint32(hdr[4:8]),
	}
	if f.Length > MaxPayload {
		return Frame{}, fmt.Errorf("%w: %d > %d", ErrPayloadTooLarge, f.Length, MaxPayload)
	}

	f.Payload = make([]byte, f.Length)
	if _, err := io.ReadFull(r, f.Payload); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return Frame{}, ErrLengthMismatch
		}
		return Frame{}, fmt.Errorf("reading payload: %w", err)
	}
	return f, nil
}
