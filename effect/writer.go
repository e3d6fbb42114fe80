package effect

import (
	"fmt"
	"math"

	"github.com/gogpu/fx/backend"
	"github.com/gogpu/fx/internal/binio"
)

// Encode writes b in the dialect of version. Vertex attributes are dropped
// when writing the legacy dialect, which cannot carry them.
func Encode(b *Bundle, version byte) ([]byte, error) {
	dialect, ok := DialectFor(version)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	e := &encoder{w: binio.NewWriter(), dialect: dialect}
	e.bundle(b)
	if e.err != nil {
		return nil, e.err
	}
	return e.w.Bytes(), nil
}

type encoder struct {
	w       *binio.Writer
	dialect Dialect
	err     error
}

func (e *encoder) fail(format string, args ...any) {
	if e.err == nil {
		e.err = fmt.Errorf("%w: "+format, append([]any{ErrNotRepresentable}, args...)...)
	}
}

func (e *encoder) count(n int, what string) {
	if e.dialect.WideCounts {
		e.w.WriteInt32(int32(n))
		return
	}
	if n > 255 {
		e.fail("%d %s in version %d", n, what, e.dialect.Version)
	}
	e.w.WriteUint8(uint8(n))
}

// narrow checks that v fits in [lo, hi] before it is written in a narrower
// wire field.
func (e *encoder) narrow(v, lo, hi int, format string, args ...any) int {
	if v < lo || v > hi {
		e.fail(format+" %d out of range [%d, %d]", append(args, v, lo, hi)...)
		return 0
	}
	return v
}

func (e *encoder) index(i int, what string) {
	if e.dialect.WideIndices {
		if i < 0 {
			i = -1
		}
		e.w.WriteInt32(int32(i))
		return
	}
	switch {
	case i < 0:
		e.w.WriteUint8(legacyNone)
	case i >= legacyNone:
		e.fail("%s %d in version %d", what, i, e.dialect.Version)
	default:
		e.w.WriteUint8(uint8(i))
	}
}

func (e *encoder) bundle(b *Bundle) {
	e.w.WriteBytes(Magic[:])
	e.w.WriteUint8(e.dialect.Version)
	e.w.WriteUint8(uint8(b.Profile))

	e.count(len(b.ConstantBuffers), "constant buffers")
	for _, cb := range b.ConstantBuffers {
		e.constantBuffer(cb)
	}
	e.count(len(b.Shaders), "shaders")
	for _, sh := range b.Shaders {
		e.shader(sh)
	}
	e.parameters(b.Parameters)
	e.count(len(b.Techniques), "techniques")
	for _, t := range b.Techniques {
		e.w.WriteString(t.Name)
		e.parameters(t.Annotations)
		e.count(len(t.Passes), "passes")
		for _, p := range t.Passes {
			e.pass(p)
		}
	}
	if e.dialect.TrailingSignature {
		e.w.WriteBytes(Magic[:])
	}
}

func (e *encoder) constantBuffer(cb *ConstantBuffer) {
	if len(cb.ParameterIndices) != len(cb.ParameterOffsets) {
		e.fail("constant buffer %q has %d parameter indices and %d offsets",
			cb.Name, len(cb.ParameterIndices), len(cb.ParameterOffsets))
		return
	}
	e.w.WriteString(cb.Name)
	e.w.WriteUint16(uint16(e.narrow(cb.SizeInBytes, 0, math.MaxUint16, "constant buffer %q size", cb.Name)))
	if e.dialect.WideParameterCounts {
		e.w.WriteInt32(int32(len(cb.ParameterIndices)))
	} else {
		e.w.Write7BitEncodedInt(len(cb.ParameterIndices))
	}
	for i, idx := range cb.ParameterIndices {
		e.w.WriteInt32(int32(idx))
		e.w.WriteUint16(uint16(e.narrow(cb.ParameterOffsets[i], 0, math.MaxUint16, "constant buffer %q offset", cb.Name)))
	}
}

func (e *encoder) shader(sh *Shader) {
	if e.dialect.StageByte {
		e.w.WriteUint8(uint8(sh.Stage))
	} else {
		if sh.Stage == backend.StageCompute {
			e.fail("compute shader in version %d", e.dialect.Version)
		}
		e.w.WriteBool(sh.Stage == backend.StageVertex)
	}
	e.w.WriteInt32(int32(len(sh.Bytecode)))
	e.w.WriteBytes(sh.Bytecode)

	e.count(len(sh.Samplers), "samplers")
	for _, s := range sh.Samplers {
		e.w.WriteUint8(uint8(s.Type))
		e.w.WriteUint8(uint8(e.narrow(s.TextureSlot, 0, math.MaxUint8, "sampler %q texture slot", s.Name)))
		e.w.WriteUint8(uint8(e.narrow(s.SamplerSlot, 0, math.MaxUint8, "sampler %q sampler slot", s.Name)))
		e.w.WriteBool(s.State != nil)
		if st := s.State; st != nil {
			e.w.WriteUint8(uint8(st.AddressU))
			e.w.WriteUint8(uint8(st.AddressV))
			e.w.WriteUint8(uint8(st.AddressW))
			e.w.WriteUint8(st.BorderColor.R)
			e.w.WriteUint8(st.BorderColor.G)
			e.w.WriteUint8(st.BorderColor.B)
			e.w.WriteUint8(st.BorderColor.A)
			e.w.WriteUint8(uint8(st.Filter))
			e.w.WriteInt32(st.MaxAnisotropy)
			e.w.WriteInt32(st.MaxMipLevel)
			e.w.WriteFloat32(st.MipLODBias)
		}
		e.w.WriteString(s.Name)
		e.index(s.Parameter, "sampler parameter")
	}

	e.count(len(sh.ConstantBufferSlots), "constant buffer slots")
	for _, slot := range sh.ConstantBufferSlots {
		e.index(slot, "constant buffer slot")
	}

	if e.dialect.VertexAttributes {
		e.count(len(sh.VertexAttributes), "vertex attributes")
		for _, a := range sh.VertexAttributes {
			e.w.WriteString(a.Name)
			e.w.WriteUint8(uint8(a.Usage))
			e.w.WriteUint8(uint8(e.narrow(a.Index, 0, math.MaxUint8, "attribute %q index", a.Name)))
			e.w.WriteInt16(int16(e.narrow(a.Location, math.MinInt16, math.MaxInt16, "attribute %q location", a.Name)))
		}
	}
}

func (e *encoder) parameters(params []*Parameter) {
	e.count(len(params), "parameters")
	for _, p := range params {
		e.parameter(p)
	}
}

func (e *encoder) parameter(p *Parameter) {
	e.w.WriteUint8(uint8(p.Class))
	e.w.WriteUint8(uint8(p.Type))
	e.w.WriteString(p.Name)
	e.w.WriteString(p.Semantic)
	e.parameters(p.Annotations)
	e.w.WriteUint8(uint8(e.narrow(p.RowCount, 0, math.MaxUint8, "parameter %q rows", p.Name)))
	e.w.WriteUint8(uint8(e.narrow(p.ColumnCount, 0, math.MaxUint8, "parameter %q columns", p.Name)))
	e.parameters(p.Elements)
	e.parameters(p.StructMembers)
	if !p.IsLeaf() {
		return
	}

	n := p.RowCount * p.ColumnCount
	switch p.Type {
	case TypeString:
		e.fail("string parameter %q", p.Name)
	case TypeBool, TypeInt32:
		v := p.Ints()
		if len(v) != n {
			e.fail("parameter %q holds %d values, want %d", p.Name, len(v), n)
			return
		}
		for _, x := range v {
			e.w.WriteInt32(x)
		}
	case TypeSingle:
		v := p.Floats()
		if len(v) != n {
			e.fail("parameter %q holds %d values, want %d", p.Name, len(v), n)
			return
		}
		for _, x := range v {
			e.w.WriteFloat32(x)
		}
	}
}

func (e *encoder) pass(p *Pass) {
	e.w.WriteString(p.Name)
	e.parameters(p.Annotations)
	e.index(p.VertexShader, "vertex shader")
	e.index(p.PixelShader, "pixel shader")

	e.w.WriteBool(p.Blend != nil)
	if bs := p.Blend; bs != nil {
		e.w.WriteUint8(uint8(bs.AlphaFunc))
		e.w.WriteUint8(uint8(bs.AlphaDestination))
		e.w.WriteUint8(uint8(bs.AlphaSource))
		e.w.WriteUint8(bs.BlendFactor.R)
		e.w.WriteUint8(bs.BlendFactor.G)
		e.w.WriteUint8(bs.BlendFactor.B)
		e.w.WriteUint8(bs.BlendFactor.A)
		e.w.WriteUint8(uint8(bs.ColorFunc))
		e.w.WriteUint8(uint8(bs.ColorDestination))
		e.w.WriteUint8(uint8(bs.ColorSource))
		for _, cw := range bs.ColorWrite {
			e.w.WriteUint8(uint8(cw))
		}
		e.w.WriteInt32(bs.MultiSampleMask)
	}

	e.w.WriteBool(p.DepthStencil != nil)
	if ds := p.DepthStencil; ds != nil {
		e.w.WriteUint8(uint8(ds.CounterClockwiseStencilDepthFail))
		e.w.WriteUint8(uint8(ds.CounterClockwiseStencilFail))
		e.w.WriteUint8(uint8(ds.CounterClockwiseStencilFunc))
		e.w.WriteUint8(uint8(ds.CounterClockwiseStencilPass))
		e.w.WriteBool(ds.DepthEnable)
		e.w.WriteUint8(uint8(ds.DepthFunc))
		e.w.WriteBool(ds.DepthWrite)
		e.w.WriteInt32(ds.ReferenceStencil)
		e.w.WriteUint8(uint8(ds.StencilDepthFail))
		e.w.WriteBool(ds.StencilEnable)
		e.w.WriteUint8(uint8(ds.StencilFail))
		e.w.WriteUint8(uint8(ds.StencilFunc))
		e.w.WriteInt32(ds.StencilMask)
		e.w.WriteUint8(uint8(ds.StencilPass))
		e.w.WriteInt32(ds.StencilWriteMask)
		e.w.WriteBool(ds.TwoSided)
	}

	e.w.WriteBool(p.Rasterizer != nil)
	if rs := p.Rasterizer; rs != nil {
		e.w.WriteUint8(uint8(rs.Cull))
		e.w.WriteFloat32(rs.DepthBias)
		e.w.WriteUint8(uint8(rs.Fill))
		e.w.WriteBool(rs.MultiSampleAntiAlias)
		e.w.WriteBool(rs.ScissorTest)
		e.w.WriteFloat32(rs.SlopeScaleDepthBias)
	}
}
