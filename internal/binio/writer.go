package binio

import (
	"bytes"
	"encoding/binary"
	"math"
	"unicode/utf8"
)

// Writer appends little-endian values to an in-memory buffer.
// The zero value is ready to use.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer { return &Writer{} }

// Bytes returns the written data. The slice aliases the writer's buffer
// until the next write.
func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

// Len returns the number of bytes written.
func (w *Writer) Len() int { return w.buf.Len() }

// WriteBytes appends raw bytes.
func (w *Writer) WriteBytes(b []byte) { w.buf.Write(b) }

// WriteUint8 appends one byte.
func (w *Writer) WriteUint8(v uint8) { w.buf.WriteByte(v) }

// WriteInt8 appends one signed byte.
func (w *Writer) WriteInt8(v int8) { w.buf.WriteByte(byte(v)) }

// WriteBool appends 1 for true and 0 for false.
func (w *Writer) WriteBool(v bool) {
	if v {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

// WriteUint16 appends a little-endian uint16.
func (w *Writer) WriteUint16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
}

// WriteInt16 appends a little-endian int16.
func (w *Writer) WriteInt16(v int16) { w.WriteUint16(uint16(v)) }

// WriteUint32 appends a little-endian uint32.
func (w *Writer) WriteUint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

// WriteInt32 appends a little-endian int32.
func (w *Writer) WriteInt32(v int32) { w.WriteUint32(uint32(v)) }

// WriteUint64 appends a little-endian uint64.
func (w *Writer) WriteUint64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

// WriteInt64 appends a little-endian int64.
func (w *Writer) WriteInt64(v int64) { w.WriteUint64(uint64(v)) }

// WriteFloat32 appends a little-endian IEEE-754 single.
func (w *Writer) WriteFloat32(v float32) { w.WriteUint32(math.Float32bits(v)) }

// WriteFloat64 appends a little-endian IEEE-754 double.
func (w *Writer) WriteFloat64(v float64) { w.WriteUint64(math.Float64bits(v)) }

// Write7BitEncodedInt appends v seven bits per byte, low group first.
func (w *Writer) Write7BitEncodedInt(v int) {
	u := uint32(v)
	for u >= 0x80 {
		w.buf.WriteByte(byte(u) | 0x80)
		u >>= 7
	}
	w.buf.WriteByte(byte(u))
}

// WriteString appends a 7-bit length-prefixed UTF-8 string.
func (w *Writer) WriteString(s string) {
	w.Write7BitEncodedInt(len(s))
	w.buf.WriteString(s)
}

// WriteChar appends one UTF-8 encoded code point.
func (w *Writer) WriteChar(c rune) {
	var b [utf8.UTFMax]byte
	n := utf8.EncodeRune(b[:], c)
	w.buf.Write(b[:n])
}
