package internal

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
)

// ErrIndeterminateLength is returned when the body of a packet has no
// self-describing length and therefore cannot be skipped.
var ErrIndeterminateLength = errors.New("packet body has indeterminate length")

// PacketHeader is the framing of one OpenPGP packet (RFC 9580, section 4.2).
type PacketHeader struct {
	// Tag is the packet type.
	Tag uint8
	// Length is the body length, or the length of the first chunk
	// when Partial is set. It is -1 when the length is indeterminate.
	Length int64
	// Partial is set for new format bodies split into partial lengths.
	Partial bool
	// OldFormat is set for legacy packet headers.
	OldFormat bool

	raw []byte
}

// Indeterminate reports whether the body extends to the end of the stream.
func (h *PacketHeader) Indeterminate() bool {
	return h.Length < 0
}

// ReadPacketHeader reads one packet header from r. It returns io.EOF only when
// r is exhausted before the first header byte.
func ReadPacketHeader(r io.Reader) (*PacketHeader, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:1]); err != nil {
		return nil, err
	}
	h := &PacketHeader{raw: []byte{buf[0]}}
	if buf[0]&0x80 == 0 {
		return nil, errors.Errorf("invalid packet tag byte 0x%02x", buf[0])
	}

	if buf[0]&0x40 == 0 {
		h.OldFormat = true
		h.Tag = (buf[0] & 0x3f) >> 2
		lengthType := buf[0] & 3
		if lengthType == 3 {
			h.Length = -1
			return h, nil
		}
		lengthBytes := 1 << lengthType
		if err := h.readRaw(r, buf[:lengthBytes]); err != nil {
			return nil, err
		}
		for i := 0; i < lengthBytes; i++ {
			h.Length = h.Length<<8 | int64(buf[i])
		}
		return h, nil
	}

	h.Tag = buf[0] & 0x3f
	length, partial, err := readBodyLength(r, &h.raw)
	if err != nil {
		return nil, err
	}
	h.Length = length
	h.Partial = partial
	return h, nil
}

// Replay returns a reader that yields the header bytes followed by r, so that
// a packet parser can read the packet from its first byte.
func (h *PacketHeader) Replay(r io.Reader) io.Reader {
	return io.MultiReader(bytes.NewReader(h.raw), r)
}

// Skip discards the packet body from r.
func (h *PacketHeader) Skip(r io.Reader) error {
	if h.Indeterminate() {
		return ErrIndeterminateLength
	}
	length, partial := h.Length, h.Partial
	for {
		if err := discard(r, length); err != nil {
			return err
		}
		if !partial {
			return nil
		}
		var err error
		length, partial, err = readBodyLength(r, nil)
		if err != nil {
			return err
		}
	}
}

func (h *PacketHeader) readRaw(r io.Reader, buf []byte) error {
	if _, err := io.ReadFull(r, buf); err != nil {
		return truncated(err)
	}
	h.raw = append(h.raw, buf...)
	return nil
}

// readBodyLength reads a new format length. Consumed octets are appended
// to raw when it is not nil.
func readBodyLength(r io.Reader, raw *[]byte) (length int64, partial bool, err error) {
	var buf [4]byte
	if _, err = io.ReadFull(r, buf[:1]); err != nil {
		return 0, false, truncated(err)
	}
	first := buf[0]
	if raw != nil {
		*raw = append(*raw, first)
	}
	switch {
	case first < 192:
		return int64(first), false, nil
	case first < 224:
		if _, err = io.ReadFull(r, buf[:1]); err != nil {
			return 0, false, truncated(err)
		}
		if raw != nil {
			*raw = append(*raw, buf[0])
		}
		return int64(first-192)<<8 + int64(buf[0]) + 192, false, nil
	case first < 255:
		return int64(1) << (first & 0x1f), true, nil
	}
	if _, err = io.ReadFull(r, buf[:4]); err != nil {
		return 0, false, truncated(err)
	}
	if raw != nil {
		*raw = append(*raw, buf[:4]...)
	}
	length = int64(buf[0])<<24 | int64(buf[1])<<16 | int64(buf[2])<<8 | int64(buf[3])
	return length, false, nil
}

func discard(r io.Reader, n int64) error {
	copied, err := io.CopyN(io.Discard, r, n)
	if err == io.EOF && copied < n {
		return errors.Wrapf(io.ErrUnexpectedEOF, "packet body truncated after %d of %d bytes", copied, n)
	}
	return err
}

func truncated(err error) error {
	if err == io.EOF {
		return errors.Wrap(io.ErrUnexpectedEOF, "packet header truncated")
	}
	return err
}
