package state

import "fmt"

// Factor selects a blend source or destination multiplier.
type Factor uint8

// Blend factors.
const (
	FactorOne Factor = iota
	FactorZero
	FactorSourceColor
	FactorInverseSourceColor
	FactorSourceAlpha
	FactorInverseSourceAlpha
	FactorDestinationColor
	FactorInverseDestinationColor
	FactorDestinationAlpha
	FactorInverseDestinationAlpha
	FactorBlendFactor
	FactorInverseBlendFactor
	FactorSourceAlphaSaturation
)

var factorNames = [...]string{
	"One", "Zero", "SourceColor", "InverseSourceColor", "SourceAlpha",
	"InverseSourceAlpha", "DestinationColor", "InverseDestinationColor",
	"DestinationAlpha", "InverseDestinationAlpha", "BlendFactor",
	"InverseBlendFactor", "SourceAlphaSaturation",
}

func (f Factor) String() string { return enumName(factorNames[:], uint8(f), "Factor") }

// Func combines the weighted source and destination.
type Func uint8

// Blend functions.
const (
	FuncAdd Func = iota
	FuncSubtract
	FuncReverseSubtract
	FuncMin
	FuncMax
)

var funcNames = [...]string{"Add", "Subtract", "ReverseSubtract", "Min", "Max"}

func (f Func) String() string { return enumName(funcNames[:], uint8(f), "Func") }

// ColorWrite is a mask of color channels a render target accepts.
type ColorWrite uint8

// Color write channels.
const (
	ColorWriteNone  ColorWrite = 0
	ColorWriteRed   ColorWrite = 1 << 0
	ColorWriteGreen ColorWrite = 1 << 1
	ColorWriteBlue  ColorWrite = 1 << 2
	ColorWriteAlpha ColorWrite = 1 << 3
	ColorWriteAll              = ColorWriteRed | ColorWriteGreen | ColorWriteBlue | ColorWriteAlpha
)

// Compare is a depth, stencil or sampler comparison function.
type Compare uint8

// Comparison functions.
const (
	CompareAlways Compare = iota
	CompareNever
	CompareLess
	CompareLessEqual
	CompareEqual
	CompareGreaterEqual
	CompareGreater
	CompareNotEqual
)

var compareNames = [...]string{
	"Always", "Never", "Less", "LessEqual", "Equal", "GreaterEqual", "Greater", "NotEqual",
}

func (c Compare) String() string { return enumName(compareNames[:], uint8(c), "Compare") }

// StencilOp is the action applied to the stencil buffer.
type StencilOp uint8

// Stencil operations.
const (
	StencilKeep StencilOp = iota
	StencilZero
	StencilReplace
	StencilIncrement
	StencilDecrement
	StencilIncrementSaturation
	StencilDecrementSaturation
	StencilInvert
)

var stencilNames = [...]string{
	"Keep", "Zero", "Replace", "Increment", "Decrement",
	"IncrementSaturation", "DecrementSaturation", "Invert",
}

func (s StencilOp) String() string { return enumName(stencilNames[:], uint8(s), "StencilOp") }

// Cull selects which triangle winding is discarded.
type Cull uint8

// Cull modes.
const (
	CullNone Cull = iota
	CullClockwise
	CullCounterClockwise
)

var cullNames = [...]string{"None", "Clockwise", "CounterClockwise"}

func (c Cull) String() string { return enumName(cullNames[:], uint8(c), "Cull") }

// Fill selects polygon fill.
type Fill uint8

// Fill modes.
const (
	FillSolid Fill = iota
	FillWireFrame
)

var fillNames = [...]string{"Solid", "WireFrame"}

func (f Fill) String() string { return enumName(fillNames[:], uint8(f), "Fill") }

// Address is a texture coordinate addressing mode.
type Address uint8

// Texture address modes.
const (
	AddressWrap Address = iota
	AddressClamp
	AddressMirror
	AddressBorder
)

var addressNames = [...]string{"Wrap", "Clamp", "Mirror", "Border"}

func (a Address) String() string { return enumName(addressNames[:], uint8(a), "Address") }

// Filter is a combined minification, magnification and mip filter.
type Filter uint8

// Texture filters.
const (
	FilterLinear Filter = iota
	FilterPoint
	FilterAnisotropic
	FilterLinearMipPoint
	FilterPointMipLinear
	FilterMinLinearMagPointMipLinear
	FilterMinLinearMagPointMipPoint
	FilterMinPointMagLinearMipLinear
	FilterMinPointMagLinearMipPoint
)

var filterNames = [...]string{
	"Linear", "Point", "Anisotropic", "LinearMipPoint", "PointMipLinear",
	"MinLinearMagPointMipLinear", "MinLinearMagPointMipPoint",
	"MinPointMagLinearMipLinear", "MinPointMagLinearMipPoint",
}

func (f Filter) String() string { return enumName(filterNames[:], uint8(f), "Filter") }

// Components reports whether the minification, magnification and mip
// stages of f are linear.
func (f Filter) Components() (minLinear, magLinear, mipLinear bool) {
	switch f {
	case FilterLinear, FilterAnisotropic:
		return true, true, true
	case FilterPoint:
		return false, false, false
	case FilterLinearMipPoint:
		return true, true, false
	case FilterPointMipLinear:
		return false, false, true
	case FilterMinLinearMagPointMipLinear:
		return true, false, true
	case FilterMinLinearMagPointMipPoint:
		return true, false, false
	case FilterMinPointMagLinearMipLinear:
		return false, true, true
	case FilterMinPointMagLinearMipPoint:
		return false, true, false
	}
	return true, true, true
}

// Color is an 8-bit RGBA color.
type Color struct {
	R, G, B, A uint8
}

// Float returns the color as normalized floats.
func (c Color) Float() [4]float64 {
	return [4]float64{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255, float64(c.A) / 255}
}

func enumName(names []string, v uint8, kind string) string {
	if int(v) < len(names) {
		return names[v]
	}
	return fmt.Sprintf("%s(%d)", kind, v)
}
