// Package hashx provides FNV-1a helpers for structural cache keys.
package hashx

import (
	"encoding/binary"
	"hash"
	"hash/fnv"
)

// Hasher accumulates fixed-width values into a 64-bit FNV-1a hash.
type Hasher struct {
	h hash.Hash64
}

// New returns an empty Hasher.
func New() Hasher {
	return Hasher{h: fnv.New64a()}
}

// Uint32 writes v in little-endian order.
func (x Hasher) Uint32(v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, _ = x.h.Write(buf[:])
}

// Uint64 writes v in little-endian order.
func (x Hasher) Uint64(v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, _ = x.h.Write(buf[:])
}

// Int writes v as a 64-bit value.
func (x Hasher) Int(v int) { x.Uint64(uint64(v)) }

// String writes the length of s followed by its bytes.
//
//nolint:gosec // G115: key strings are short semantic and type names
func (x Hasher) String(s string) {
	x.Uint32(uint32(len(s)))
	_, _ = x.h.Write([]byte(s))
}

// Bool writes one byte.
func (x Hasher) Bool(v bool) {
	if v {
		_, _ = x.h.Write([]byte{1})
	} else {
		_, _ = x.h.Write([]byte{0})
	}
}

// Sum64 returns the current hash value.
func (x Hasher) Sum64() uint64 { return x.h.Sum64() }

// Bytes returns the FNV-1a hash of data.
func Bytes(data []byte) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(data)
	return h.Sum64()
}
