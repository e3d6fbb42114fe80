package inputlayout

import (
	"github.com/gogpu/fx/internal/hashx"
	"github.com/gogpu/fx/vertex"
)

// Key is a mutable list of vertex stream bindings used for lookups.
// The zero value is an empty key.
type Key struct {
	decls []*vertex.Declaration
	freqs []int
}

// Reset empties the key, keeping its storage.
func (k *Key) Reset() {
	clear(k.decls)
	k.decls = k.decls[:0]
	k.freqs = k.freqs[:0]
}

// Add appends one stream.
func (k *Key) Add(decl *vertex.Declaration, instanceFrequency int) {
	k.decls = append(k.decls, decl)
	k.freqs = append(k.freqs, instanceFrequency)
}

// Set replaces the key's contents with bindings.
func (k *Key) Set(bindings ...vertex.Binding) {
	k.Reset()
	for _, b := range bindings {
		k.Add(b.Declaration, b.InstanceFrequency)
	}
}

// Count returns the number of streams.
func (k *Key) Count() int { return len(k.decls) }

// VertexDeclarations returns the declarations in binding order.
// The slice is only valid until the next change to k.
func (k *Key) VertexDeclarations() []*vertex.Declaration { return k.decls }

// InstanceFrequencies returns the frequencies in binding order.
// The slice is only valid until the next change to k.
func (k *Key) InstanceFrequencies() []int { return k.freqs }

// Hash computes the structural hash of the key.
func (k *Key) Hash() uint64 { return hashKey(k.decls, k.freqs) }

// Freeze returns an immutable copy of k.
func (k *Key) Freeze() *FrozenKey {
	f := &FrozenKey{
		decls: append([]*vertex.Declaration(nil), k.decls...),
		freqs: append([]int(nil), k.freqs...),
	}
	f.hash = hashKey(f.decls, f.freqs)
	return f
}

// FrozenKey is an immutable Key with a hash computed at construction.
type FrozenKey struct {
	decls []*vertex.Declaration
	freqs []int
	hash  uint64
}

// Count returns the number of streams.
func (f *FrozenKey) Count() int { return len(f.decls) }

// VertexDeclarations returns a copy of the declarations.
func (f *FrozenKey) VertexDeclarations() []*vertex.Declaration {
	return append([]*vertex.Declaration(nil), f.decls...)
}

// InstanceFrequencies returns a copy of the frequencies.
func (f *FrozenKey) InstanceFrequencies() []int {
	return append([]int(nil), f.freqs...)
}

// Hash returns the precomputed hash.
func (f *FrozenKey) Hash() uint64 { return f.hash }

// Equal reports whether f and o bind the same streams in the same order.
func (f *FrozenKey) Equal(o *FrozenKey) bool {
	if f.hash != o.hash {
		return false
	}
	return equalParts(f.decls, f.freqs, o.decls, o.freqs)
}

// Matches reports whether f equals the current contents of k.
func (f *FrozenKey) Matches(k *Key) bool {
	return equalParts(f.decls, f.freqs, k.decls, k.freqs)
}

func hashKey(decls []*vertex.Declaration, freqs []int) uint64 {
	h := hashx.New()
	h.Int(len(decls))
	for i, d := range decls {
		if d != nil {
			h.Uint64(d.Hash())
		} else {
			h.Uint64(0)
		}
		h.Int(freqs[i])
	}
	return h.Sum64()
}

func equalParts(ad []*vertex.Declaration, af []int, bd []*vertex.Declaration, bf []int) bool {
	if len(ad) != len(bd) {
		return false
	}
	for i := range ad {
		if af[i] != bf[i] || !ad[i].Equal(bd[i]) {
			return false
		}
	}
	return true
}
