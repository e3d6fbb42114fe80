package state

import "math"

// DepthStencil describes depth testing and stencil operations.
//
// The CounterClockwise fields apply to back faces when TwoSided is set.
type DepthStencil struct {
	DepthEnable bool
	DepthFunc   Compare
	DepthWrite  bool

	StencilEnable    bool
	StencilFunc      Compare
	StencilPass      StencilOp
	StencilFail      StencilOp
	StencilDepthFail StencilOp

	TwoSided                         bool
	CounterClockwiseStencilFunc      Compare
	CounterClockwiseStencilPass      StencilOp
	CounterClockwiseStencilFail      StencilOp
	CounterClockwiseStencilDepthFail StencilOp

	ReferenceStencil int32
	StencilMask      int32
	StencilWriteMask int32
}

func newDepth(enable, write bool) *DepthStencil {
	return &DepthStencil{
		DepthEnable:                 enable,
		DepthFunc:                   CompareLessEqual,
		DepthWrite:                  write,
		StencilFunc:                 CompareAlways,
		CounterClockwiseStencilFunc: CompareAlways,
		StencilMask:                 math.MaxInt32,
		StencilWriteMask:            math.MaxInt32,
	}
}

// DefaultDepth enables depth testing and writing.
func DefaultDepth() *DepthStencil { return newDepth(true, true) }

// DepthRead enables depth testing without writing.
func DepthRead() *DepthStencil { return newDepth(true, false) }

// NoDepth disables depth testing.
func NoDepth() *DepthStencil { return newDepth(false, false) }

// BackStencil returns the stencil function and operations for back faces.
// Without TwoSided they equal the front face values.
func (d *DepthStencil) BackStencil() (fn Compare, pass, fail, depthFail StencilOp) {
	if !d.TwoSided {
		return d.StencilFunc, d.StencilPass, d.StencilFail, d.StencilDepthFail
	}
	return d.CounterClockwiseStencilFunc, d.CounterClockwiseStencilPass,
		d.CounterClockwiseStencilFail, d.CounterClockwiseStencilDepthFail
}
