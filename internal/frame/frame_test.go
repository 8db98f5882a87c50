package frame_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"publichex/internal/frame"
)

func TestEncodeLayout(t *testing.T) {
	// CRC-32/IEEE check value: crc32("123456789") = 0xCBF43926.
	payload := []byte("123456789")
	wire := frame.Encode(payload)

	if len(wire) != frame.HeaderSize+len(payload) {
		t.Fatalf("wire size: got %d, want %d", len(wire), frame.HeaderSize+len(payload))
	}
	if got := binary.LittleEndian.Uint32(wire[0:4]); got != 0xCBF43926 {
		t.Errorf("checksum: got 0x%08X, want 0xCBF43926", got)
	}
	if got := binary.LittleEndian.Uint32(wire[4:8]); got != 9 {
		t.Errorf("length: got %d, want 9", got)
	}
	if !bytes.Equal(wire[8:], payload) {
		t.Errorf("payload bytes altered: got %q", wire[8:])
	}
}

func TestEncodeHello(t *testing.T) {
	// crc32("hello") = 0x3610A686.
	wire := frame.Encode([]byte("hello"))
	if got := binary.LittleEndian.Uint32(wire[0:4]); got != 0x3610A686 {
		t.Errorf("checksum: got 0x%08X, want 0x3610A686", got)
	}
}

func TestRoundTrip(t *testing.T) {
	payloads := [][]byte{
		[]byte("hello"),
		{},
		{0x00},
		{0xFF, 0x00, 0xFF},
		bytes.Repeat([]byte("x"), 1000),
	}
	for _, payload := range payloads {
		wire := frame.Encode(payload)
		f, err := frame.Decode(wire)
		if err != nil {
			t.Fatalf("Decode(%d bytes): %v", len(wire), err)
		}
		if !bytes.Equal(f.Payload, payload) {
			t.Errorf("payload mismatch: got %q, want %q", f.Payload, payload)
		}
		if reasons := frame.Validate(f); len(reasons) != 0 {
			t.Errorf("freshly encoded frame should validate, got %v", reasons)
		}
	}
}

func TestEmptyPayloadWire(t *testing.T) {
	wire := frame.Encode(nil)
	if len(wire) != frame.HeaderSize {
		t.Fatalf("empty payload wire: got %d bytes, want %d", len(wire), frame.HeaderSize)
	}
	f, err := frame.Decode(wire)
	if err != nil {
		t.Fatal(err)
	}
	if f.Length != 0 || len(f.Payload) != 0 {
		t.Errorf("expected empty frame, got length=%d payload=%d", f.Length, len(f.Payload))
	}
}

func TestDecodeTooShort(t *testing.T) {
	for _, n := range []int{0, 1, 5, 7} {
		_, err := frame.Decode(make([]byte, n))
		if err != frame.ErrTooShort {
			t.Errorf("Decode(%d bytes): got %v, want ErrTooShort", n, err)
		}
	}
}

func TestDecodeLengthMismatch(t *testing.T) {
	wire := frame.Encode([]byte("hello"))

	if _, err := frame.Decode(wire[:len(wire)-1]); err != frame.ErrLengthMismatch {
		t.Errorf("truncated wire: got %v, want ErrLengthMismatch", err)
	}
	if _, err := frame.Decode(append(append([]byte{}, wire...), 0x41)); err != frame.ErrLengthMismatch {
		t.Errorf("padded wire: got %v, want ErrLengthMismatch", err)
	}
}

func TestDecodeDoesNotVerifyChecksum(t *testing.T) {
	wire := frame.Encode([]byte("hello"))
	wire[0] ^= 0xFF // corrupt checksum byte

	f, err := frame.Decode(wire)
	if err != nil {
		t.Fatalf("corrupt checksum should still decode: %v", err)
	}
	if reasons := frame.Validate(f); len(reasons) != 1 || reasons[0] != frame.ReasonChecksum {
		t.Errorf("Validate: got %v, want [%q]", reasons, frame.ReasonChecksum)
	}
}

func TestValidateLengthField(t *testing.T) {
	// A length field that disagrees with the payload can only be built
	// directly; Decode rejects it structurally.
	f := frame.Frame{Checksum: 0, Length: 5, Payload: []byte("ab")}
	reasons := frame.Validate(f)
	if len(reasons) != 2 {
		t.Fatalf("expected both reasons, got %v", reasons)
	}
	if reasons[0] != frame.ReasonLengthField || reasons[1] != frame.ReasonChecksum {
		t.Errorf("reason order: got %v", reasons)
	}
}

func TestChecksumBitFlipSensitivity(t *testing.T) {
	payload := []byte("hi")
	for i := frame.HeaderSize; i < frame.HeaderSize+len(payload); i++ {
		for bit := 0; bit < 8; bit++ {
			wire := frame.Encode(payload)
			wire[i] ^= 1 << bit

			f, err := frame.Decode(wire)
			if err != nil {
				t.Fatalf("byte %d bit %d: decode failed: %v", i, bit, err)
			}
			found := false
			for _, r := range frame.Validate(f) {
				if r == frame.ReasonChecksum {
					found = true
				}
			}
			if !found {
				t.Errorf("byte %d bit %d: flip not detected", i, bit)
			}
		}
	}
}

func TestWriteReadFrame(t *testing.T) {
	payload := []byte("stream me")
	var buf bytes.Buffer

	if err := frame.WriteFrame(&buf, payload); err != nil {
		t.Fatal(err)
	}
	f, err := frame.ReadFrame(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(f.Payload, payload) {
		t.Fatalf("payload mismatch: got %q, want %q", f.Payload, payload)
	}
	if reasons := frame.Validate(f); len(reasons) != 0 {
		t.Errorf("expected valid frame, got %v", reasons)
	}
}

func TestReadFrameShortHeader(t *testing.T) {
	buf := bytes.NewReader([]byte{0x01, 0x02, 0x03})
	if _, err := frame.ReadFrame(buf); err != frame.ErrTooShort {
		t.Errorf("got %v, want ErrTooShort", err)
	}
}

func TestReadFrameOversizedLength(t *testing.T) {
	hdr := make([]byte, frame.HeaderSize)
	binary.LittleEndian.PutUint32(hdr[4:8], frame.MaxPayload+1)
	_, err := frame.ReadFrame(bytes.NewReader(hdr))
	if err == nil {
		t.Fatal("expected error for oversized declared length")
	}
}

func TestReadFrameTruncatedPayload(t *testing.T) {
	wire := frame.Encode([]byte("hello"))
	_, err := frame.ReadFrame(bytes.NewReader(wire[:len(wire)-2]))
	if err == nil {
		t.Fatal("expected error for truncated payload")
	}
}

func TestWriteFrameTooLarge(t *testing.T) {
	var buf bytes.Buffer
	err := frame.WriteFrame(&buf, make([]byte, frame.MaxPayload+1))
	if err == nil {
		t.Fatal("expected error for oversized payload")
	}
}
