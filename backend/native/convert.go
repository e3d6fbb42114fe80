package native

import (
	"fmt"
	"math"

	"github.com/gogpu/fx/state"
	"github.com/gogpu/fx/vertex"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// DepthStencilFormat is the attachment format depth-stencil states target.
const DepthStencilFormat = gputypes.TextureFormatDepth24PlusStencil8

var blendFactors = map[state.Factor]gputypes.BlendFactor{
	state.FactorOne:                     gputypes.BlendFactorOne,
	state.FactorZero:                    gputypes.BlendFactorZero,
	state.FactorSourceColor:             gputypes.BlendFactorSrc,
	state.FactorInverseSourceColor:      gputypes.BlendFactorOneMinusSrc,
	state.FactorSourceAlpha:             gputypes.BlendFactorSrcAlpha,
	state.FactorInverseSourceAlpha:      gputypes.BlendFactorOneMinusSrcAlpha,
	state.FactorDestinationColor:        gputypes.BlendFactorDst,
	state.FactorInverseDestinationColor: gputypes.BlendFactorOneMinusDst,
	state.FactorDestinationAlpha:        gputypes.BlendFactorDstAlpha,
	state.FactorInverseDestinationAlpha: gputypes.BlendFactorOneMinusDstAlpha,
	state.FactorBlendFactor:             gputypes.BlendFactorConstant,
	state.FactorInverseBlendFactor:      gputypes.BlendFactorOneMinusConstant,
	state.FactorSourceAlphaSaturation:   gputypes.BlendFactorSrcAlphaSaturated,
}

var blendOps = map[state.Func]gputypes.BlendOperation{
	state.FuncAdd:             gputypes.BlendOperationAdd,
	state.FuncSubtract:        gputypes.BlendOperationSubtract,
	state.FuncReverseSubtract: gputypes.BlendOperationReverseSubtract,
	state.FuncMin:             gputypes.BlendOperationMin,
	state.FuncMax:             gputypes.BlendOperationMax,
}

var compareFuncs = map[state.Compare]gputypes.CompareFunction{
	state.CompareAlways:       gputypes.CompareFunctionAlways,
	state.CompareNever:        gputypes.CompareFunctionNever,
	state.CompareLess:         gputypes.CompareFunctionLess,
	state.CompareLessEqual:    gputypes.CompareFunctionLessEqual,
	state.CompareEqual:        gputypes.CompareFunctionEqual,
	state.CompareGreaterEqual: gputypes.CompareFunctionGreaterEqual,
	state.CompareGreater:      gputypes.CompareFunctionGreater,
	state.CompareNotEqual:     gputypes.CompareFunctionNotEqual,
}

var stencilOps = map[state.StencilOp]hal.StencilOperation{
	state.StencilKeep:                hal.StencilOperationKeep,
	state.StencilZero:                hal.StencilOperationZero,
	state.StencilReplace:             hal.StencilOperationReplace,
	state.StencilIncrement:           hal.StencilOperationIncrementWrap,
	state.StencilDecrement:           hal.StencilOperationDecrementWrap,
	state.StencilIncrementSaturation: hal.StencilOperationIncrementClamp,
	state.StencilDecrementSaturation: hal.StencilOperationDecrementClamp,
	state.StencilInvert:              hal.StencilOperationInvert,
}

var addressModes = map[state.Address]gputypes.AddressMode{
	state.AddressWrap:   gputypes.AddressModeRepeat,
	state.AddressClamp:  gputypes.AddressModeClampToEdge,
	state.AddressMirror: gputypes.AddressModeMirrorRepeat,
	// No border color addressing in the WebGPU model.
	state.AddressBorder: gputypes.AddressModeClampToEdge,
}

func lookup[K comparable, V any](m map[K]V, k K, what string) (V, error) {
	v, ok := m[k]
	if !ok {
		var zero V
		return zero, fmt.Errorf("native: unsupported %s %v", what, k)
	}
	return v, nil
}

// ConvertBlend converts a blend state block.
func ConvertBlend(b *state.Blend) (*BlendState, error) {
	out := &BlendState{
		SampleMask: uint32(b.MultiSampleMask),
	}
	for i, m := range b.ColorWrite {
		out.WriteMask[i] = gputypes.ColorWriteMask(m & state.ColorWriteAll)
	}
	out.Constant = b.BlendFactor.Float()

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
	out.Blend = &gputypes.BlendState{Color: color, Alpha: alpha}
	return out, nil
}

func blendComponent(fn state.Func, src, dst state.Factor) (gputypes.BlendComponent, error) {
	var c gputypes.BlendComponent
	var err error
	if c.Operation, err = lookup(blendOps, fn, "blend function"); err != nil {
		return c, err
	}
	if c.SrcFactor, err = lookup(blendFactors, src, "blend factor"); err != nil {
		return c, err
	}
	if c.DstFactor, err = lookup(blendFactors, dst, "blend factor"); err != nil {
		return c, err
	}
	return c, nil
}

// ConvertDepthStencil converts a depth-stencil state block.
//
// A disabled depth test compares with Always and never writes. A disabled
// stencil test keeps the stencil buffer untouched on both faces.
func ConvertDepthStencil(d *state.DepthStencil) (*DepthStencilState, error) {
	out := &DepthStencilState{
		DepthStencilState: hal.DepthStencilState{
			Format:       DepthStencilFormat,
			DepthCompare: gputypes.CompareFunctionAlways,
		},
		StencilReference: uint32(d.ReferenceStencil),
	}

	if d.DepthEnable {
		fn, err := lookup(compareFuncs, d.DepthFunc, "depth function")
		if err != nil {
			return nil, err
		}
		out.DepthCompare = fn
		out.DepthWriteEnabled = d.DepthWrite
	}

	keep := hal.StencilFaceState{
		Compare:     gputypes.CompareFunctionAlways,
		FailOp:      hal.StencilOperationKeep,
		DepthFailOp: hal.StencilOperationKeep,
		PassOp:      hal.StencilOperationKeep,
	}
	out.StencilFront, out.StencilBack = keep, keep
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

func stencilFace(fn state.Compare, pass, fail, depthFail state.StencilOp) (hal.StencilFaceState, error) {
	var f hal.StencilFaceState
	var err error
	if f.Compare, err = lookup(compareFuncs, fn, "stencil function"); err != nil {
		return f, err
	}
	if f.PassOp, err = lookup(stencilOps, pass, "stencil operation"); err != nil {
		return f, err
	}
	if f.FailOp, err = lookup(stencilOps, fail, "stencil operation"); err != nil {
		return f, err
	}
	if f.DepthFailOp, err = lookup(stencilOps, depthFail, "stencil operation"); err != nil {
		return f, err
	}
	return f, nil
}

// ConvertRasterizer converts a rasterizer state block.
//
// Front faces wind counter-clockwise, so culling clockwise triangles culls
// back faces.
func ConvertRasterizer(r *state.Rasterizer) (*RasterizerState, error) {
	out := &RasterizerState{
		Primitive: gputypes.PrimitiveState{
			Topology:  gputypes.PrimitiveTopologyTriangleList,
			FrontFace: gputypes.FrontFaceCCW,
		},
		SlopeScaleDepthBias: r.SlopeScaleDepthBias,
		Wireframe:           r.Fill == state.FillWireFrame,
		Multisample:         r.MultiSampleAntiAlias,
		ScissorTest:         r.ScissorTest,
	}

	switch r.Cull {
	case state.CullNone:
		out.Primitive.CullMode = gputypes.CullModeNone
	case state.CullClockwise:
		out.Primitive.CullMode = gputypes.CullModeBack
	case state.CullCounterClockwise:
		out.Primitive.CullMode = gputypes.CullModeFront
	default:
		return nil, fmt.Errorf("native: unsupported cull mode %v", r.Cull)
	}

	// Depth bias is a fraction of the depth range; D24 has 2^24 steps.
	out.DepthBias = int32(math.Round(float64(r.DepthBias) * (1 << 24)))
	return out, nil
}

// ConvertSampler builds a HAL sampler descriptor.
func ConvertSampler(label string, s *state.Sampler) (*hal.SamplerDescriptor, error) {
	desc := &hal.SamplerDescriptor{Label: label}

	var err error
	if desc.AddressModeU, err = lookup(addressModes, s.AddressU, "address mode"); err != nil {
		return nil, err
	}
	if desc.AddressModeV, err = lookup(addressModes, s.AddressV, "address mode"); err != nil {
		return nil, err
	}
	if desc.AddressModeW, err = lookup(addressModes, s.AddressW, "address mode"); err != nil {
		return nil, err
	}

	minLinear, magLinear, mipLinear := s.Filter.Components()
	desc.MinFilter = filterMode(minLinear)
	desc.MagFilter = filterMode(magLinear)
	desc.MipmapFilter = filterMode(mipLinear)
	return desc, nil
}

func filterMode(linear bool) gputypes.FilterMode {
	if linear {
		return gputypes.FilterModeLinear
	}
	return gputypes.FilterModeNearest
}

// VertexBufferLayout describes one vertex buffer slot of an input layout.
type VertexBufferLayout struct {
	// ArrayStride is the byte stride between consecutive vertices.
	ArrayStride uint64

	// StepMode is the input rate (per vertex or per instance).
	StepMode gputypes.VertexStepMode

	// Attributes describes the vertex attributes in this buffer.
	Attributes []gputypes.VertexAttribute
}

// GPU returns the gputypes form used in render pipeline descriptors.
func (l *VertexBufferLayout) GPU() gputypes.VertexBufferLayout {
	return gputypes.VertexBufferLayout{
		ArrayStride: l.ArrayStride,
		StepMode:    l.StepMode,
		Attributes:  l.Attributes,
	}
}

// convertInputLayout groups elements into per-slot buffer layouts.
// Elements whose location is negative are not read by the shader and are
// left out.
func convertInputLayout(elems []inputElement, strides []int) ([]VertexBufferLayout, error) {
	out := make([]VertexBufferLayout, len(strides))
	for i, s := range strides {
		out[i] = VertexBufferLayout{
			ArrayStride: uint64(s),
			StepMode:    gputypes.VertexStepModeVertex,
		}
	}

	for _, e := range elems {
		if e.Slot < 0 || e.Slot >= len(out) {
			return nil, fmt.Errorf("native: element slot %d out of range", e.Slot)
		}
		l := &out[e.Slot]
		if e.StepRate > 0 {
			l.StepMode = gputypes.VertexStepModeInstance
		}
		if e.Location < 0 {
			continue
		}
		format := e.Format.GPUFormat()
		if format == gputypes.VertexFormat(0) {
			return nil, fmt.Errorf("native: unsupported vertex format %v", e.Format)
		}
		l.Attributes = append(l.Attributes, gputypes.VertexAttribute{
			Format:         format,
			Offset:         uint64(e.Offset),
			ShaderLocation: uint32(e.Location),
		})
	}
	return out, nil
}

// inputElement is an element paired with the shader location it feeds.
type inputElement struct {
	Format   vertex.ElementFormat
	Offset   int
	Slot     int
	StepRate int
	Location int
}
