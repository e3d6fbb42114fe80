package state

// Blend describes how pixel shader output is combined with the render target.
type Blend struct {
	AlphaFunc        Func
	AlphaSource      Factor
	AlphaDestination Factor

	ColorFunc        Func
	ColorSource      Factor
	ColorDestination Factor

	BlendFactor Color

	// ColorWrite holds the channel masks of render targets 0-3.
	ColorWrite [4]ColorWrite

	MultiSampleMask int32
}

func newBlend(src, dst Factor) *Blend {
	return &Blend{
		AlphaFunc:        FuncAdd,
		AlphaSource:      src,
		AlphaDestination: dst,
		ColorFunc:        FuncAdd,
		ColorSource:      src,
		ColorDestination: dst,
		BlendFactor:      Color{R: 255, G: 255, B: 255, A: 255},
		ColorWrite:       [4]ColorWrite{ColorWriteAll, ColorWriteAll, ColorWriteAll, ColorWriteAll},
		MultiSampleMask:  -1,
	}
}

// Opaque returns a blend state that overwrites the destination.
func Opaque() *Blend { return newBlend(FactorOne, FactorZero) }

// AlphaBlend returns premultiplied-alpha blending.
func AlphaBlend() *Blend { return newBlend(FactorOne, FactorInverseSourceAlpha) }

// Additive returns additive blending weighted by source alpha.
func Additive() *Blend { return newBlend(FactorSourceAlpha, FactorOne) }

// NonPremultiplied returns straight-alpha blending.
func NonPremultiplied() *Blend { return newBlend(FactorSourceAlpha, FactorInverseSourceAlpha) }

// Enabled reports whether the state does anything other than overwrite.
func (b *Blend) Enabled() bool {
	return b.ColorSource != FactorOne || b.ColorDestination != FactorZero ||
		b.AlphaSource != FactorOne || b.AlphaDestination != FactorZero
}

// UsesBlendFactor reports whether any factor references BlendFactor.
func (b *Blend) UsesBlendFactor() bool {
	for _, f := range [...]Factor{b.AlphaSource, b.AlphaDestination, b.ColorSource, b.ColorDestination} {
		if f == FactorBlendFactor || f == FactorInverseBlendFactor {
			return true
		}
	}
	return false
}
