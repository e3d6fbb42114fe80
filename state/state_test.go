package state

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlendPresets(t *testing.T) {
	assert.False(t, Opaque().Enabled())
	assert.True(t, AlphaBlend().Enabled())
	assert.Equal(t, FactorInverseSourceAlpha, AlphaBlend().ColorDestination)
	assert.Equal(t, ColorWriteAll, Additive().ColorWrite[3])

	b := Opaque()
	assert.False(t, b.UsesBlendFactor())
	b.AlphaDestination = FactorInverseBlendFactor
	assert.True(t, b.UsesBlendFactor())
}

func TestDepthPresets(t *testing.T) {
	d := DefaultDepth()
	assert.True(t, d.DepthEnable)
	assert.True(t, d.DepthWrite)
	assert.Equal(t, CompareLessEqual, d.DepthFunc)
	assert.Equal(t, int32(math.MaxInt32), d.StencilMask)

	assert.False(t, DepthRead().DepthWrite)
	assert.False(t, NoDepth().DepthEnable)
}

func TestBackStencil(t *testing.T) {
	d := DefaultDepth()
	d.StencilFunc = CompareEqual
	d.StencilPass = StencilIncrement
	d.CounterClockwiseStencilFunc = CompareNever
	d.CounterClockwiseStencilPass = StencilDecrement

	fn, pass, _, _ := d.BackStencil()
	assert.Equal(t, CompareEqual, fn)
	assert.Equal(t, StencilIncrement, pass)

	d.TwoSided = true
	fn, pass, _, _ = d.BackStencil()
	assert.Equal(t, CompareNever, fn)
	assert.Equal(t, StencilDecrement, pass)
}

func TestFilterComponents(t *testing.T) {
	tests := []struct {
		f             Filter
		min, mag, mip bool
	}{
		{FilterLinear, true, true, true},
		{FilterPoint, false, false, false},
		{FilterLinearMipPoint, true, true, false},
		{FilterPointMipLinear, false, false, true},
		{FilterMinPointMagLinearMipPoint, false, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.f.String(), func(t *testing.T) {
			minL, magL, mipL := tt.f.Components()
			assert.Equal(t, tt.min, minL)
			assert.Equal(t, tt.mag, magL)
			assert.Equal(t, tt.mip, mipL)
		})
	}
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "CounterClockwise", CullCounterClockwise.String())
	assert.Equal(t, "InverseSourceAlpha", FactorInverseSourceAlpha.String())
	assert.Equal(t, "Compare(42)", Compare(42).String())
	assert.Equal(t, "Border", AddressBorder.String())
}

func TestColorFloat(t *testing.T) {
	c := Color{R: 255, G: 0, B: 51, A: 255}.Float()
	assert.InDelta(t, 1.0, c[0], 1e-9)
	assert.InDelta(t, 0.2, c[2], 1e-9)
}

func TestRasterizerPresets(t *testing.T) {
	r := CullCounterClockwiseRasterizer()
	assert.Equal(t, CullCounterClockwise, r.Cull)
	assert.Equal(t, FillSolid, r.Fill)
	assert.True(t, r.MultiSampleAntiAlias)
	assert.Equal(t, CullNone, CullNoneRasterizer().Cull)
	assert.Equal(t, CullClockwise, CullClockwiseRasterizer().Cull)
}
