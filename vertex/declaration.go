package vertex

import (
	"github.com/gogpu/fx/internal/hashx"
)

// Element is one attribute inside a vertex stream.
type Element struct {
	Offset     int
	Format     ElementFormat
	Usage      ElementUsage
	UsageIndex int
}

// Declaration is the immutable layout of one vertex stream.
type Declaration struct {
	elements []Element
	stride   int
	hash     uint64
}

// NewDeclaration creates a declaration whose stride is the end of the
// furthest element.
func NewDeclaration(elements ...Element) *Declaration {
	stride := 0
	for _, e := range elements {
		if end := e.Offset + e.Format.Size(); end > stride {
			stride = end
		}
	}
	return NewDeclarationWithStride(stride, elements...)
}

// NewDeclarationWithStride creates a declaration with an explicit stride.
func NewDeclarationWithStride(stride int, elements ...Element) *Declaration {
	d := &Declaration{
		elements: append([]Element(nil), elements...),
		stride:   stride,
	}
	d.hash = d.computeHash()
	return d
}

func (d *Declaration) computeHash() uint64 {
	h := hashx.New()
	h.Int(d.stride)
	h.Int(len(d.elements))
	for _, e := range d.elements {
		h.Int(e.Offset)
		h.Uint32(uint32(e.Format))
		h.Uint32(uint32(e.Usage))
		h.Int(e.UsageIndex)
	}
	return h.Sum64()
}

// Elements returns a copy of the declaration's elements.
func (d *Declaration) Elements() []Element {
	return append([]Element(nil), d.elements...)
}

// Element returns the i-th element.
func (d *Declaration) Element(i int) Element { return d.elements[i] }

// Len returns the number of elements.
func (d *Declaration) Len() int { return len(d.elements) }

// Stride returns the distance in bytes between consecutive vertices.
func (d *Declaration) Stride() int { return d.stride }

// Hash returns the structural hash computed at construction.
func (d *Declaration) Hash() uint64 { return d.hash }

// Equal reports whether d and o describe the same layout.
// Two nil declarations are equal.
func (d *Declaration) Equal(o *Declaration) bool {
	if d == o {
		return true
	}
	if d == nil || o == nil {
		return false
	}
	if d.hash != o.hash || d.stride != o.stride || len(d.elements) != len(o.elements) {
		return false
	}
	for i := range d.elements {
		if d.elements[i] != o.elements[i] {
			return false
		}
	}
	return true
}

// Binding pairs a stream's declaration with its instance frequency.
// A frequency of 0 advances per vertex; n > 0 advances once every n instances.
type Binding struct {
	Declaration       *Declaration
	InstanceFrequency int
}

// Common declarations.
var (
	PositionColor = NewDeclaration(
		Element{Offset: 0, Format: FormatVector3, Usage: UsagePosition},
		Element{Offset: 12, Format: FormatColor, Usage: UsageColor},
	)
	PositionTexture = NewDeclaration(
		Element{Offset: 0, Format: FormatVector3, Usage: UsagePosition},
		Element{Offset: 12, Format: FormatVector2, Usage: UsageTextureCoordinate},
	)
	PositionColorTexture = NewDeclaration(
		Element{Offset: 0, Format: FormatVector3, Usage: UsagePosition},
		Element{Offset: 12, Format: FormatColor, Usage: UsageColor},
		Element{Offset: 16, Format: FormatVector2, Usage: UsageTextureCoordinate},
	)
	PositionNormalTexture = NewDeclaration(
		Element{Offset: 0, Format: FormatVector3, Usage: UsagePosition},
		Element{Offset: 12, Format: FormatVector3, Usage: UsageNormal},
		Element{Offset: 24, Format: FormatVector2, Usage: UsageTextureCoordinate},
	)
)
