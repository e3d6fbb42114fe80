package effect

import (
	"fmt"
)

// ParameterClass is the shape of a parameter.
type ParameterClass uint8

// Parameter classes.
const (
	ClassScalar ParameterClass = iota
	ClassVector
	ClassMatrix
	ClassObject
	ClassStruct
)

var classNames = [...]string{"Scalar", "Vector", "Matrix", "Object", "Struct"}

func (c ParameterClass) valid() bool { return int(c) < len(classNames) }

func (c ParameterClass) String() string {
	if !c.valid() {
		return fmt.Sprintf("ParameterClass(%d)", c)
	}
	return classNames[c]
}

// ParameterType is the element type of a parameter.
type ParameterType uint8

// Parameter types.
const (
	TypeVoid ParameterType = iota
	TypeBool
	TypeInt32
	TypeSingle
	TypeString
	TypeTexture
	TypeTexture1D
	TypeTexture2D
	TypeTexture3D
	TypeTextureCube
)

var typeNames = [...]string{
	"Void", "Bool", "Int32", "Single", "String",
	"Texture", "Texture1D", "Texture2D", "Texture3D", "TextureCube",
}

func (t ParameterType) valid() bool { return int(t) < len(typeNames) }

func (t ParameterType) String() string {
	if !t.valid() {
		return fmt.Sprintf("ParameterType(%d)", t)
	}
	return typeNames[t]
}

// IsTexture reports whether t is one of the texture types.
func (t ParameterType) IsTexture() bool {
	return t >= TypeTexture && t <= TypeTextureCube
}

// IsNumeric reports whether values of t are stored as literal data.
func (t ParameterType) IsNumeric() bool {
	return t == TypeBool || t == TypeInt32 || t == TypeSingle
}

// Parameter is a node of the effect parameter tree.
//
// Arrays have Elements, structs have StructMembers. A leaf of numeric type
// holds its value in Data, which is a []int32 for Bool and Int32 or a
// []float32 for Single, with RowCount*ColumnCount entries. Bundles compiled
// for the OpenGL profile store Bool and Int32 leaves as []float32. Data is
// nil for every other node.
type Parameter struct {
	Class       ParameterClass
	Type        ParameterType
	Name        string
	Semantic    string
	Annotations []*Parameter

	RowCount    int
	ColumnCount int

	Elements      []*Parameter
	StructMembers []*Parameter

	Data any
}

// IsLeaf reports whether the parameter has neither elements nor members.
func (p *Parameter) IsLeaf() bool {
	return len(p.Elements) == 0 && len(p.StructMembers) == 0
}

// Member returns the struct member with the given name, or nil.
func (p *Parameter) Member(name string) *Parameter {
	return findParameter(p.StructMembers, name)
}

// Element returns the i-th array element, or nil when out of range.
func (p *Parameter) Element(i int) *Parameter {
	if i < 0 || i >= len(p.Elements) {
		return nil
	}
	return p.Elements[i]
}

// Annotation returns the annotation with the given name, or nil.
func (p *Parameter) Annotation(name string) *Parameter {
	return findParameter(p.Annotations, name)
}

// Floats returns the leaf value as floats, converting integer storage.
func (p *Parameter) Floats() []float32 {
	switch v := p.Data.(type) {
	case []float32:
		return v
	case []int32:
		out := make([]float32, len(v))
		for i, x := range v {
			out[i] = float32(x)
		}
		return out
	}
	return nil
}

// Ints returns the leaf value as integers, converting float storage.
func (p *Parameter) Ints() []int32 {
	switch v := p.Data.(type) {
	case []int32:
		return v
	case []float32:
		out := make([]int32, len(v))
		for i, x := range v {
			out[i] = int32(x)
		}
		return out
	}
	return nil
}

// SetFloats overwrites a Single leaf, or an integer leaf with float storage.
func (p *Parameter) SetFloats(v ...float32) error {
	dst, ok := p.Data.([]float32)
	if !ok {
		return fmt.Errorf("%w: %s %q is not float-backed", ErrTypeMismatch, p.Type, p.Name)
	}
	if len(v) != len(dst) {
		return fmt.Errorf("%w: %q takes %d values, got %d", ErrTypeMismatch, p.Name, len(dst), len(v))
	}
	copy(dst, v)
	return nil
}

// SetInts overwrites a Bool or Int32 leaf.
func (p *Parameter) SetInts(v ...int32) error {
	if p.Type != TypeBool && p.Type != TypeInt32 {
		return fmt.Errorf("%w: %s %q is not an integer", ErrTypeMismatch, p.Type, p.Name)
	}
	switch dst := p.Data.(type) {
	case []int32:
		if len(v) != len(dst) {
			return fmt.Errorf("%w: %q takes %d values, got %d", ErrTypeMismatch, p.Name, len(dst), len(v))
		}
		copy(dst, v)
	case []float32:
		if len(v) != len(dst) {
			return fmt.Errorf("%w: %q takes %d values, got %d", ErrTypeMismatch, p.Name, len(dst), len(v))
		}
		for i, x := range v {
			dst[i] = float32(x)
		}
	default:
		return fmt.Errorf("%w: %q has no value", ErrTypeMismatch, p.Name)
	}
	return nil
}

// SetBool sets a scalar Bool leaf.
func (p *Parameter) SetBool(v bool) error {
	if p.Type != TypeBool {
		return fmt.Errorf("%w: %s %q is not a bool", ErrTypeMismatch, p.Type, p.Name)
	}
	if v {
		return p.SetInts(1)
	}
	return p.SetInts(0)
}

// Walk calls fn for p and every parameter below it (annotations excluded),
// depth first.
func (p *Parameter) Walk(fn func(*Parameter)) {
	fn(p)
	for _, e := range p.Elements {
		e.Walk(fn)
	}
	for _, m := range p.StructMembers {
		m.Walk(fn)
	}
}

func findParameter(list []*Parameter, name string) *Parameter {
	for _, p := range list {
		if p.Name == name {
			return p
		}
	}
	return nil
}
