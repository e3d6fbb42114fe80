package effect

import (
	"fmt"
	"io"

	"github.com/gogpu/fx"
	"github.com/gogpu/fx/backend"
	"github.com/gogpu/fx/internal/binio"
	"github.com/gogpu/fx/state"
	"github.com/gogpu/fx/vertex"
)

// Decode parses a bundle. On error the returned bundle is nil and no
// native handles remain.
func Decode(data []byte, opts ...Option) (*Bundle, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	log := fx.ComponentLogger("effect")

	d := &decoder{r: binio.NewReader(data)}
	b := d.bundle()
	if d.err != nil {
		return nil, d.err
	}
	if err := validate(b); err != nil {
		return nil, err
	}
	b.CurrentTechnique = b.Techniques[0]
	b.label = o.label
	b.link()

	log.Debug("effect decoded",
		"label", o.label,
		"version", b.Version,
		"profile", b.Profile.String(),
		"shaders", len(b.Shaders),
		"parameters", len(b.Parameters),
		"techniques", len(b.Techniques))

	if o.device != nil {
		if err := b.attach(o.device); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Load reads all of r and decodes it.
func Load(r io.Reader, opts ...Option) (*Bundle, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("effect: read: %w", err)
	}
	return Decode(data, opts...)
}

// decoder reads one bundle. The first error sticks; later reads return
// zero values so decode routines only check d.err at loop boundaries.
type decoder struct {
	r       *binio.Reader
	dialect Dialect
	profile Profile
	err     error
}

func (d *decoder) fail(off int, field string, err error) {
	if d.err == nil {
		d.err = &FormatError{Offset: off, Field: field, Err: err}
	}
}

func (d *decoder) u8(field string) uint8 {
	if d.err != nil {
		return 0
	}
	off := d.r.Pos()
	v, err := d.r.ReadUint8()
	if err != nil {
		d.fail(off, field, err)
	}
	return v
}

func (d *decoder) boolean(field string) bool { return d.u8(field) != 0 }

func (d *decoder) u16(field string) uint16 {
	if d.err != nil {
		return 0
	}
	off := d.r.Pos()
	v, err := d.r.ReadUint16()
	if err != nil {
		d.fail(off, field, err)
	}
	return v
}

func (d *decoder) i16(field string) int16 { return int16(d.u16(field)) }

func (d *decoder) i32(field string) int32 {
	if d.err != nil {
		return 0
	}
	off := d.r.Pos()
	v, err := d.r.ReadInt32()
	if err != nil {
		d.fail(off, field, err)
	}
	return v
}

func (d *decoder) f32(field string) float32 {
	if d.err != nil {
		return 0
	}
	off := d.r.Pos()
	v, err := d.r.ReadFloat32()
	if err != nil {
		d.fail(off, field, err)
	}
	return v
}

func (d *decoder) str(field string) string {
	if d.err != nil {
		return ""
	}
	off := d.r.Pos()
	v, err := d.r.ReadString()
	if err != nil {
		d.fail(off, field, err)
	}
	return v
}

// checkLen rejects counts that cannot fit in the remaining input. Every
// list element occupies at least one byte.
func (d *decoder) checkLen(off int, field string, n int) int {
	if n < 0 {
		d.fail(off, field, fmt.Errorf("%w: negative count %d", ErrInvalidValue, n))
		return 0
	}
	if n > d.r.Len() {
		d.fail(off, field, fmt.Errorf("%w: count %d exceeds remaining %d bytes", ErrInvalidValue, n, d.r.Len()))
		return 0
	}
	return n
}

// count reads a list length in the dialect's width.
func (d *decoder) count(field string) int {
	off := d.r.Pos()
	var n int
	if d.dialect.WideCounts {
		n = int(d.i32(field))
	} else {
		n = int(d.u8(field))
	}
	if d.err != nil {
		return 0
	}
	return d.checkLen(off, field, n)
}

// index reads an optional index in the dialect's width, returning NoShader
// for the "none" marker.
func (d *decoder) index(field string) int {
	if d.dialect.WideIndices {
		v := d.i32(field)
		if v < 0 {
			return NoShader
		}
		return int(v)
	}
	v := d.u8(field)
	if v == legacyNone {
		return NoShader
	}
	return int(v)
}

func (d *decoder) bundle() *Bundle {
	var magic [4]byte
	for i := range magic {
		magic[i] = d.u8("magic")
	}
	if d.err != nil {
		return nil
	}
	if magic != Magic {
		d.fail(0, "magic", fmt.Errorf("%w: %q", ErrBadMagic, magic[:]))
		return nil
	}

	version := d.u8("version")
	dialect, ok := DialectFor(version)
	if d.err == nil && !ok {
		d.fail(4, "version", fmt.Errorf("%w: %d", ErrUnsupportedVersion, version))
	}
	d.dialect = dialect

	profile := Profile(d.u8("profile"))
	if d.err == nil && profile > ProfileWGSL {
		d.fail(5, "profile", fmt.Errorf("%w: profile %d", ErrInvalidValue, profile))
	}
	d.profile = profile
	if d.err != nil {
		return nil
	}

	b := &Bundle{Version: version, Profile: profile}

	n := d.count("constant buffer count")
	for i := 0; i < n && d.err == nil; i++ {
		b.ConstantBuffers = append(b.ConstantBuffers, d.constantBuffer())
	}

	n = d.count("shader count")
	for i := 0; i < n && d.err == nil; i++ {
		b.Shaders = append(b.Shaders, d.shader())
	}

	b.Parameters = d.parameters("parameter count")

	n = d.count("technique count")
	for i := 0; i < n && d.err == nil; i++ {
		b.Techniques = append(b.Techniques, d.technique())
	}

	if d.dialect.TrailingSignature && d.err == nil {
		off := d.r.Pos()
		var tail [4]byte
		for i := range tail {
			tail[i] = d.u8("trailing signature")
		}
		if d.err != nil {
			d.err = &FormatError{Offset: off, Field: "trailing signature", Err: ErrSignatureMismatch}
		} else if tail != Magic {
			d.fail(off, "trailing signature", fmt.Errorf("%w: got %q", ErrSignatureMismatch, tail[:]))
		}
	}
	if d.err != nil {
		return nil
	}
	return b
}

func (d *decoder) constantBuffer() *ConstantBuffer {
	cb := &ConstantBuffer{
		Name:        d.str("constant buffer name"),
		SizeInBytes: int(d.u16("constant buffer size")),
	}
	off := d.r.Pos()
	var n int
	if d.dialect.WideParameterCounts {
		n = int(d.i32("constant buffer parameter count"))
	} else if d.err == nil {
		v, err := d.r.Read7BitEncodedInt()
		if err != nil {
			d.fail(off, "constant buffer parameter count", err)
		}
		n = v
	}
	if d.err != nil {
		return cb
	}
	n = d.checkLen(off, "constant buffer parameter count", n)
	cb.ParameterIndices = make([]int, 0, n)
	cb.ParameterOffsets = make([]int, 0, n)
	for i := 0; i < n && d.err == nil; i++ {
		cb.ParameterIndices = append(cb.ParameterIndices, int(d.i32("constant buffer parameter index")))
		cb.ParameterOffsets = append(cb.ParameterOffsets, int(d.u16("constant buffer parameter offset")))
	}
	return cb
}

func (d *decoder) shader() *Shader {
	sh := &Shader{}
	off := d.r.Pos()
	if d.dialect.StageByte {
		stage := backend.ShaderStage(d.u8("shader stage"))
		if d.err == nil && stage > backend.StageCompute {
			d.fail(off, "shader stage", fmt.Errorf("%w: stage %d", ErrInvalidValue, stage))
		}
		sh.Stage = stage
	} else if d.boolean("shader stage") {
		sh.Stage = backend.StageVertex
	} else {
		sh.Stage = backend.StagePixel
	}

	off = d.r.Pos()
	size := int(d.i32("bytecode length"))
	if d.err == nil {
		bc, err := d.r.ReadBytes(size)
		if err != nil {
			d.fail(off, "bytecode", err)
		}
		sh.Bytecode = bc
	}

	n := d.count("sampler count")
	for i := 0; i < n && d.err == nil; i++ {
		sh.Samplers = append(sh.Samplers, d.sampler())
	}

	n = d.count("constant buffer slot count")
	for i := 0; i < n && d.err == nil; i++ {
		sh.ConstantBufferSlots = append(sh.ConstantBufferSlots, d.index("constant buffer slot"))
	}

	if d.dialect.VertexAttributes {
		n = d.count("vertex attribute count")
		for i := 0; i < n && d.err == nil; i++ {
			sh.VertexAttributes = append(sh.VertexAttributes, backend.VertexAttribute{
				Name:     d.str("vertex attribute name"),
				Usage:    vertex.ElementUsage(d.u8("vertex attribute usage")),
				Index:    int(d.u8("vertex attribute index")),
				Location: int(d.i16("vertex attribute location")),
			})
		}
	}
	return sh
}

func (d *decoder) sampler() Sampler {
	s := Sampler{
		Type:        SamplerType(d.u8("sampler type")),
		TextureSlot: int(d.u8("texture slot")),
		SamplerSlot: int(d.u8("sampler slot")),
	}
	if d.boolean("sampler state flag") {
		s.State = &state.Sampler{
			AddressU: state.Address(d.u8("address u")),
			AddressV: state.Address(d.u8("address v")),
			AddressW: state.Address(d.u8("address w")),
			BorderColor: state.Color{
				R: d.u8("border color"),
				G: d.u8("border color"),
				B: d.u8("border color"),
				A: d.u8("border color"),
			},
			Filter:        state.Filter(d.u8("filter")),
			MaxAnisotropy: d.i32("max anisotropy"),
			MaxMipLevel:   d.i32("max mip level"),
			MipLODBias:    d.f32("mip LOD bias"),
		}
	}
	s.Name = d.str("sampler name")
	s.Parameter = d.index("sampler parameter")
	return s
}

func (d *decoder) parameters(field string) []*Parameter {
	n := d.count(field)
	if n == 0 {
		return nil
	}
	params := make([]*Parameter, 0, n)
	for i := 0; i < n && d.err == nil; i++ {
		params = append(params, d.parameter())
	}
	return params
}

func (d *decoder) parameter() *Parameter {
	off := d.r.Pos()
	p := &Parameter{
		Class: ParameterClass(d.u8("parameter class")),
		Type:  ParameterType(d.u8("parameter type")),
	}
	if d.err == nil && (!p.Class.valid() || !p.Type.valid()) {
		d.fail(off, "parameter class", fmt.Errorf("%w: class %d type %d", ErrInvalidValue, p.Class, p.Type))
		return p
	}
	p.Name = d.str("parameter name")
	p.Semantic = d.str("parameter semantic")
	p.Annotations = d.parameters("annotation count")
	p.RowCount = int(d.u8("row count"))
	p.ColumnCount = int(d.u8("column count"))
	p.Elements = d.parameters("element count")
	p.StructMembers = d.parameters("member count")
	if d.err != nil || !p.IsLeaf() {
		return p
	}

	n := p.RowCount * p.ColumnCount
	switch p.Type {
	case TypeString:
		d.fail(off, "parameter "+p.Name, fmt.Errorf("%w: string %q", ErrUnsupportedParameter, p.Name))
	case TypeBool, TypeInt32:
		if d.profile == ProfileOpenGL {
			// OpenGL bundles keep integer uniforms in float storage.
			v := make([]float32, n)
			for i := range v {
				v[i] = float32(d.i32("parameter value"))
			}
			p.Data = v
		} else {
			v := make([]int32, n)
			for i := range v {
				v[i] = d.i32("parameter value")
			}
			p.Data = v
		}
	case TypeSingle:
		v := make([]float32, n)
		for i := range v {
			v[i] = d.f32("parameter value")
		}
		p.Data = v
	}
	return p
}

func (d *decoder) technique() *Technique {
	t := &Technique{
		Name:        d.str("technique name"),
		Annotations: d.parameters("technique annotation count"),
	}
	n := d.count("pass count")
	for i := 0; i < n && d.err == nil; i++ {
		t.Passes = append(t.Passes, d.pass())
	}
	return t
}

func (d *decoder) pass() *Pass {
	p := &Pass{
		Name:         d.str("pass name"),
		Annotations:  d.parameters("pass annotation count"),
		VertexShader: d.index("vertex shader index"),
		PixelShader:  d.index("pixel shader index"),
	}
	if d.boolean("blend flag") {
		p.Blend = &state.Blend{
			AlphaFunc:        state.Func(d.u8("alpha blend function")),
			AlphaDestination: state.Factor(d.u8("alpha destination blend")),
			AlphaSource:      state.Factor(d.u8("alpha source blend")),
			BlendFactor: state.Color{
				R: d.u8("blend factor"),
				G: d.u8("blend factor"),
				B: d.u8("blend factor"),
				A: d.u8("blend factor"),
			},
			ColorFunc:        state.Func(d.u8("color blend function")),
			ColorDestination: state.Factor(d.u8("color destination blend")),
			ColorSource:      state.Factor(d.u8("color source blend")),
		}
		for i := range p.Blend.ColorWrite {
			p.Blend.ColorWrite[i] = state.ColorWrite(d.u8("color write channels"))
		}
		p.Blend.MultiSampleMask = d.i32("multisample mask")
	}
	if d.boolean("depth-stencil flag") {
		p.DepthStencil = &state.DepthStencil{
			CounterClockwiseStencilDepthFail: state.StencilOp(d.u8("ccw stencil depth fail")),
			CounterClockwiseStencilFail:      state.StencilOp(d.u8("ccw stencil fail")),
			CounterClockwiseStencilFunc:      state.Compare(d.u8("ccw stencil function")),
			CounterClockwiseStencilPass:      state.StencilOp(d.u8("ccw stencil pass")),
			DepthEnable:                      d.boolean("depth enable"),
			DepthFunc:                        state.Compare(d.u8("depth function")),
			DepthWrite:                       d.boolean("depth write"),
			ReferenceStencil:                 d.i32("reference stencil"),
			StencilDepthFail:                 state.StencilOp(d.u8("stencil depth fail")),
			StencilEnable:                    d.boolean("stencil enable"),
			StencilFail:                      state.StencilOp(d.u8("stencil fail")),
			StencilFunc:                      state.Compare(d.u8("stencil function")),
			StencilMask:                      d.i32("stencil mask"),
			StencilPass:                      state.StencilOp(d.u8("stencil pass")),
			StencilWriteMask:                 d.i32("stencil write mask"),
			TwoSided:                         d.boolean("two-sided stencil"),
		}
	}
	if d.boolean("rasterizer flag") {
		p.Rasterizer = &state.Rasterizer{
			Cull:                 state.Cull(d.u8("cull mode")),
			DepthBias:            d.f32("depth bias"),
			Fill:                 state.Fill(d.u8("fill mode")),
			MultiSampleAntiAlias: d.boolean("multisample antialias"),
			ScissorTest:          d.boolean("scissor test"),
			SlopeScaleDepthBias:  d.f32("slope scale depth bias"),
		}
	}
	return p
}
