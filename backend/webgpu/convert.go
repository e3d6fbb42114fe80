package webgpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/fx/state"
	"github.com/gogpu/fx/vertex"
)

var blendFactors = [...]wgpu.BlendFactor{
	state.FactorOne:                     wgpu.BlendFactorOne,
	state.FactorZero:                    wgpu.BlendFactorZero,
	state.FactorSourceColor:             wgpu.BlendFactorSrc,
	state.FactorInverseSourceColor:      wgpu.BlendFactorOneMinusSrc,
	state.FactorSourceAlpha:             wgpu.BlendFactorSrcAlpha,
	state.FactorInverseSourceAlpha:      wgpu.BlendFactorOneMinusSrcAlpha,
	state.FactorDestinationColor:        wgpu.BlendFactorDst,
	state.FactorInverseDestinationColor: wgpu.BlendFactorOneMinusDst,
	state.FactorDestinationAlpha:        wgpu.BlendFactorDstAlpha,
	state.FactorInverseDestinationAlpha: wgpu.BlendFactorOneMinusDstAlpha,
	state.FactorBlendFactor:             wgpu.BlendFactorConstant,
	state.FactorInverseBlendFactor:      wgpu.BlendFactorOneMinusConstant,
	state.FactorSourceAlphaSaturation:   wgpu.BlendFactorSrcAlphaSaturated,
}

var blendOps = [...]wgpu.BlendOperation{
	state.FuncAdd:             wgpu.BlendOperationAdd,
	state.FuncSubtract:        wgpu.BlendOperationSubtract,
	state.FuncReverseSubtract: wgpu.BlendOperationReverseSubtract,
	state.FuncMin:             wgpu.BlendOperationMin,
	state.FuncMax:             wgpu.BlendOperationMax,
}

var compareFuncs = [...]wgpu.CompareFunction{
	state.CompareAlways:       wgpu.CompareFunctionAlways,
	state.CompareNever:        wgpu.CompareFunctionNever,
	state.CompareLess:         wgpu.CompareFunctionLess,
	state.CompareLessEqual:    wgpu.CompareFunctionLessEqual,
	state.CompareEqual:        wgpu.CompareFunctionEqual,
	state.CompareGreaterEqual: wgpu.CompareFunctionGreaterEqual,
	state.CompareGreater:      wgpu.CompareFunctionGreater,
	state.CompareNotEqual:     wgpu.CompareFunctionNotEqual,
}

var stencilOps = [...]wgpu.StencilOperation{
	state.StencilKeep:                wgpu.StencilOperationKeep,
	state.StencilZero:                wgpu.StencilOperationZero,
	state.StencilReplace:             wgpu.StencilOperationReplace,
	state.StencilIncrement:           wgpu.StencilOperationIncrementWrap,
	state.StencilDecrement:           wgpu.StencilOperationDecrementWrap,
	state.StencilIncrementSaturation: wgpu.StencilOperationIncrementClamp,
	state.StencilDecrementSaturation: wgpu.StencilOperationDecrementClamp,
	state.StencilInvert:              wgpu.StencilOperationInvert,
}

var addressModes = [...]wgpu.AddressMode{
	state.AddressWrap:   wgpu.AddressModeRepeat,
	state.AddressClamp:  wgpu.AddressModeClampToEdge,
	state.AddressMirror: wgpu.AddressModeMirrorRepeat,
	state.AddressBorder: wgpu.AddressModeClampToEdge,
}

var vertexFormats = [...]wgpu.VertexFormat{
	vertex.FormatSingle:           wgpu.VertexFormatFloat32,
	vertex.FormatVector2:          wgpu.VertexFormatFloat32x2,
	vertex.FormatVector3:          wgpu.VertexFormatFloat32x3,
	vertex.FormatVector4:          wgpu.VertexFormatFloat32x4,
	vertex.FormatColor:            wgpu.VertexFormatUnorm8x4,
	vertex.FormatByte4:            wgpu.VertexFormatUint8x4,
	vertex.FormatShort2:           wgpu.VertexFormatSint16x2,
	vertex.FormatShort4:           wgpu.VertexFormatSint16x4,
	vertex.FormatNormalizedShort2: wgpu.VertexFormatSnorm16x2,
	vertex.FormatNormalizedShort4: wgpu.VertexFormatSnorm16x4,
	vertex.FormatHalfVector2:      wgpu.VertexFormatFloat16x2,
	vertex.FormatHalfVector4:      wgpu.VertexFormatFloat16x4,
}

func index[E ~uint8, V any](table []V, v E, what string) (V, error) {
	if int(v) >= len(table) {
		var zero V
		return zero, fmt.Errorf("webgpu: unsupported %s %d", what, v)
	}
	return table[v], nil
}

// BlendState is the pipeline form of a blend state block.
type BlendState struct {
	// Blend is nil when the block disables blending.
	Blend      *wgpu.BlendState
	WriteMask  [4]wgpu.ColorWriteMask
	Constant   wgpu.Color
	SampleMask uint32
}

// RasterizerState is the pipeline form of a rasterizer block.
type RasterizerState struct {
	Primitive           wgpu.PrimitiveState
	DepthBias           int32
	SlopeScaleDepthBias float32
	ScissorTest         bool
	Multisample         bool
}

// DepthStencilState is the pipeline form of a depth-stencil block.
type DepthStencilState struct {
	wgpu.DepthStencilState
	StencilReference uint32
}

func convertBlend(b *state.Blend) (*BlendState, error) {
	c := b.BlendFactor.Float()
	out := &BlendState{
		Constant:   wgpu.Color{R: c[0], G: c[1], B: c[2], A: c[3]},
		SampleMask: uint32(b.MultiSampleMask),
	}
	for i, m := range b.ColorWrite {
		out.WriteMask[i] = wgpu.ColorWriteMask(m & state.ColorWriteAll)
	}
	if !b.Enabled() {
		return out, nil
	}

	color, err := blendComponent(b.ColorFunc, b.ColorSource, b.ColorDestination)
	if err != nil {
		return nil, err
	}
	alpha, err := blendComponent(b.AlphaFunc, b.AlphaSource, b.AlphaDestination)
	if err != nil {
		return nil, err
	}
	out.Blend = &wgpu.BlendState{Color: color, Alpha: alpha}
	return out, nil
}

func blendComponent(fn state.Func, src, dst state.Factor) (wgpu.BlendComponent, error) {
	var c wgpu.BlendComponent
	var err error
	if c.Operation, err = index(blendOps[:], fn, "blend function"); err != nil {
		return c, err
	}
	if c.SrcFactor, err = index(blendFactors[:], src, "blend factor"); err != nil {
		return c, err
	}
	if c.DstFactor, err = index(blendFactors[:], dst, "blend factor"); err != nil {
		return c, err
	}
	return c, nil
}

func convertDepthStencil(d *state.DepthStencil) (*DepthStencilState, error) {
	keep := wgpu.StencilFaceState{
		Compare:     wgpu.CompareFunctionAlways,
		FailOp:      wgpu.StencilOperationKeep,
		DepthFailOp: wgpu.StencilOperationKeep,
		PassOp:      wgpu.StencilOperationKeep,
	}
	out := &DepthStencilState{
		DepthStencilState: wgpu.DepthStencilState{
			Format:       wgpu.TextureFormatDepth24PlusStencil8,
			DepthCompare: wgpu.CompareFunctionAlways,
			StencilFront: keep,
			StencilBack:  keep,
		},
		StencilReference: uint32(d.ReferenceStencil),
	}

	if d.DepthEnable {
		fn, err := index(compareFuncs[:], d.DepthFunc, "depth function")
		if err != nil {
			return nil, err
		}
		out.DepthCompare = fn
		out.DepthWriteEnabled = d.DepthWrite
	}
	if !d.StencilEnable {
		return out, nil
	}

	front, err := stencilFace(d.StencilFunc, d.StencilPass, d.StencilFail, d.StencilDepthFail)
	if err != nil {
		return nil, err
	}
	back, err := stencilFace(d.BackStencil())
	if err != nil {
		return nil, err
	}
	out.StencilFront, out.StencilBack = front, back
	out.StencilReadMask = uint32(d.StencilMask)
	out.StencilWriteMask = uint32(d.StencilWriteMask)
	return out, nil
}

func stencilFace(fn state.Compare, pass, fail, depthFail state.StencilOp) (wgpu.StencilFaceState, error) {
	var f wgpu.StencilFaceState
	var err error
	if f.Compare, err = index(compareFuncs[:], fn, "stencil function"); err != nil {
		return f, err
	}
	if f.PassOp, err = index(stencilOps[:], pass, "stencil operation"); err != nil {
		return f, err
	}
	if f.FailOp, err = index(stencilOps[:], fail, "stencil operation"); err != nil {
		return f, err
	}
	if f.DepthFailOp, err = index(stencilOps[:], depthFail, "stencil operation"); err != nil {
		return f, err
	}
	return f, nil
}

func convertRasterizer(r *state.Rasterizer) (*RasterizerState, error) {
	out := &RasterizerState{
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
		},
		DepthBias:           int32(r.DepthBias * (1 << 24)),
		SlopeScaleDepthBias: r.SlopeScaleDepthBias,
		ScissorTest:         r.ScissorTest,
		Multisample:         r.MultiSampleAntiAlias,
	}
	switch r.Cull {
	case state.CullNone:
		out.Primitive.CullMode = wgpu.CullModeNone
	case state.CullClockwise:
		out.Primitive.CullMode = wgpu.CullModeBack
	case state.CullCounterClockwise:
		out.Primitive.CullMode = wgpu.CullModeFront
	default:
		return nil, fmt.Errorf("webgpu: unsupported cull mode %v", r.Cull)
	}
	if r.Fill != state.FillSolid {
		return nil, fmt.Errorf("webgpu: unsupported fill mode %v", r.Fill)
	}
	return out, nil
}

func convertSampler(label string, s *state.Sampler) (*wgpu.SamplerDescriptor, error) {
	desc := &wgpu.SamplerDescriptor{
		Label:         label,
		LodMinClamp:   float32(max(s.MaxMipLevel, 0)),
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	}

	var err error
	if desc.AddressModeU, err = index(addressModes[:], s.AddressU, "address mode"); err != nil {
		return nil, err
	}
	if desc.AddressModeV, err = index(addressModes[:], s.AddressV, "address mode"); err != nil {
		return nil, err
	}
	if desc.AddressModeW, err = index(addressModes[:], s.AddressW, "address mode"); err != nil {
		return nil, err
	}

	minLinear, magLinear, mipLinear := s.Filter.Components()
	desc.MinFilter = filterMode(minLinear)
	desc.MagFilter = filterMode(magLinear)
	desc.MipmapFilter = wgpu.MipmapFilterModeNearest
	if mipLinear {
		desc.MipmapFilter = wgpu.MipmapFilterModeLinear
	}
	// Anisotropy requires linear filtering in every direction.
	if s.Filter == state.FilterAnisotropic && s.MaxAnisotropy > 1 {
		desc.MaxAnisotropy = uint16(min(s.MaxAnisotropy, 16))
	}
	return desc, nil
}

func filterMode(linear bool) wgpu.FilterMode {
	if linear {
		return wgpu.FilterModeLinear
	}
	return wgpu.FilterModeNearest
}
