package binio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"unicode/utf8"
)

// Reader errors.
var (
	// ErrUnexpectedEOF is returned when a read runs past the end of the data.
	ErrUnexpectedEOF = errors.New("binio: unexpected end of data")

	// ErrBadVarint is returned when a 7-bit encoded integer is longer than five bytes.
	ErrBadVarint = errors.New("binio: malformed 7-bit encoded integer")

	// ErrNegativeLength is returned when a length prefix is negative.
	ErrNegativeLength = errors.New("binio: negative length")

	// ErrInvalidUTF8 is returned when a string or char is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("binio: invalid UTF-8")
)

// Reader is a forward-only cursor over a fully buffered byte slice.
//
// Reader is not safe for concurrent use.
type Reader struct {
	buf []byte
	pos int
}

// NewReader returns a Reader positioned at the start of buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Pos returns the current offset from the start of the data.
func (r *Reader) Pos() int { return r.pos }

// Len returns the number of unread bytes.
func (r *Reader) Len() int { return len(r.buf) - r.pos }

// Remaining returns the unread bytes without advancing.
// The returned slice aliases the reader's buffer.
func (r *Reader) Remaining() []byte { return r.buf[r.pos:] }

// Skip advances the cursor by n bytes.
func (r *Reader) Skip(n int) error {
	_, err := r.take(n, "skip")
	return err
}

// take returns the next n bytes and advances.
func (r *Reader) take(n int, op string) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%s at offset %d: %w", op, r.pos, ErrNegativeLength)
	}
	if r.Len() < n {
		return nil, fmt.Errorf("%s at offset %d: need %d bytes, have %d: %w",
			op, r.pos, n, r.Len(), ErrUnexpectedEOF)
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadBytes returns the next n bytes as a new slice.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	b, err := r.take(n, "read bytes")
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// ReadUint8 reads one byte.
func (r *Reader) ReadUint8() (uint8, error) {
	b, err := r.take(1, "read uint8")
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadInt8 reads one signed byte.
func (r *Reader) ReadInt8() (int8, error) {
	v, err := r.ReadUint8()
	return int8(v), err
}

// ReadBool reads one byte; any non-zero value is true.
func (r *Reader) ReadBool() (bool, error) {
	v, err := r.ReadUint8()
	return v != 0, err
}

// ReadUint16 reads a little-endian uint16.
func (r *Reader) ReadUint16() (uint16, error) {
	b, err := r.take(2, "read uint16")
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadInt16 reads a little-endian int16.
func (r *Reader) ReadInt16() (int16, error) {
	v, err := r.ReadUint16()
	return int16(v), err
}

// ReadUint32 reads a little-endian uint32.
func (r *Reader) ReadUint32() (uint32, error) {
	b, err := r.take(4, "read uint32")
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadInt32 reads a little-endian int32.
func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

// ReadUint64 reads a little-endian uint64.
func (r *Reader) ReadUint64() (uint64, error) {
	b, err := r.take(8, "read uint64")
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadInt64 reads a little-endian int64.
func (r *Reader) ReadInt64() (int64, error) {
	v, err := r.ReadUint64()
	return int64(v), err
}

// ReadFloat32 reads a little-endian IEEE-754 single.
func (r *Reader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	return math.Float32frombits(v), err
}

// ReadFloat64 reads a little-endian IEEE-754 double.
func (r *Reader) ReadFloat64() (float64, error) {
	v, err := r.ReadUint64()
	return math.Float64frombits(v), err
}

// Read7BitEncodedInt reads a variable-length integer stored seven bits per
// byte, low group first, with the high bit of each byte flagging continuation.
func (r *Reader) Read7BitEncodedInt() (int, error) {
	start := r.pos
	var v uint32
	for shift := 0; shift < 35; shift += 7 {
		b, err := r.ReadUint8()
		if err != nil {
			return 0, err
		}
		v |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			return int(int32(v)), nil
		}
	}
	return 0, fmt.Errorf("read varint at offset %d: %w", start, ErrBadVarint)
}

// ReadString reads a 7-bit length-prefixed UTF-8 string.
func (r *Reader) ReadString() (string, error) {
	start := r.pos
	n, err := r.Read7BitEncodedInt()
	if err != nil {
		return "", err
	}
	if n < 0 {
		return "", fmt.Errorf("read string at offset %d: %w", start, ErrNegativeLength)
	}
	b, err := r.take(n, "read string")
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("read string at offset %d: %w", start, ErrInvalidUTF8)
	}
	return string(b), nil
}

// ReadChar reads one UTF-8 encoded code point.
func (r *Reader) ReadChar() (rune, error) {
	if r.Len() == 0 {
		return 0, fmt.Errorf("read char at offset %d: %w", r.pos, ErrUnexpectedEOF)
	}
	c, size := utf8.DecodeRune(r.buf[r.pos:])
	if c == utf8.RuneError && size <= 1 {
		return 0, fmt.Errorf("read char at offset %d: %w", r.pos, ErrInvalidUTF8)
	}
	r.pos += size
	return c, nil
}
