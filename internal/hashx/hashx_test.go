package hashx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasherDeterministic(t *testing.T) {
	sum := func() uint64 {
		h := New()
		h.String("TEXCOORD")
		h.Uint32(3)
		h.Bool(true)
		h.Int(-1)
		return h.Sum64()
	}
	assert.Equal(t, sum(), sum())
}

func TestHasherLengthPrefix(t *testing.T) {
	a := New()
	a.String("ab")
	a.String("c")

	b := New()
	b.String("a")
	b.String("bc")

	assert.NotEqual(t, a.Sum64(), b.Sum64())
}

func TestBytes(t *testing.T) {
	// FNV-1a 64 offset basis for empty input.
	assert.Equal(t, uint64(0xcbf29ce484222325), Bytes(nil))
	assert.NotEqual(t, Bytes([]byte{0}), Bytes([]byte{1}))
}
