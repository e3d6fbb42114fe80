package effect

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/fx/backend"
	"github.com/gogpu/fx/state"
)

// Profile identifies the bytecode flavor of a bundle's shaders.
type Profile = backend.Profile

// Shader profiles.
const (
	ProfileOpenGL    = backend.ProfileOpenGL
	ProfileDirectX11 = backend.ProfileDirectX11
	ProfileSPIRV     = backend.ProfileSPIRV
	ProfileWGSL      = backend.ProfileWGSL
)

// ConstantBuffer is the layout of one uniform block.
type ConstantBuffer struct {
	Name        string
	SizeInBytes int

	// ParameterIndices and ParameterOffsets are parallel: parameter
	// ParameterIndices[i] lives at byte ParameterOffsets[i].
	ParameterIndices []int
	ParameterOffsets []int

	Handle backend.BufferID
}

// registerSize is the size of one constant register.
const registerSize = 16

// Pack serializes the current values of the buffer's parameters into a
// buffer of SizeInBytes bytes, starting each parameter at its offset and
// laying out its members with the constant register rules: array elements,
// structs and matrix rows start on a 16-byte register, and a vector that
// would straddle a register moves to the next one. Values that would
// overflow are dropped.
func (cb *ConstantBuffer) Pack(params []*Parameter) []byte {
	out := make([]byte, cb.SizeInBytes)
	for i, idx := range cb.ParameterIndices {
		packParameter(out, cb.ParameterOffsets[i], params[idx])
	}
	return out
}

// packParameter writes p at off and returns the offset after it.
func packParameter(out []byte, off int, p *Parameter) int {
	if len(p.Elements) > 0 {
		for _, e := range p.Elements {
			off = packParameter(out, alignRegister(off), e)
		}
		return off
	}
	if len(p.StructMembers) > 0 {
		off = alignRegister(off)
		for _, m := range p.StructMembers {
			off = packParameter(out, off, m)
		}
		return off
	}

	var words []uint32
	switch v := p.Data.(type) {
	case []float32:
		for _, f := range v {
			words = append(words, math.Float32bits(f))
		}
	case []int32:
		for _, n := range v {
			words = append(words, uint32(n))
		}
	}
	if len(words) == 0 {
		return off
	}

	rows, cols := p.RowCount, p.ColumnCount
	if rows < 1 || cols < 1 || rows*cols != len(words) {
		rows, cols = 1, len(words)
	}
	for r := range rows {
		row := words[r*cols : (r+1)*cols]
		if rows > 1 || off%registerSize+4*len(row) > registerSize {
			off = alignRegister(off)
		}
		for _, w := range row {
			if off+4 <= len(out) {
				binary.LittleEndian.PutUint32(out[off:], w)
			}
			off += 4
		}
	}
	return off
}

func alignRegister(off int) int {
	return (off + registerSize - 1) &^ (registerSize - 1)
}

// Pass is one draw configuration of a technique.
type Pass struct {
	Name        string
	Annotations []*Parameter

	// VertexShader and PixelShader index Bundle.Shaders, or are NoShader.
	VertexShader int
	PixelShader  int

	// A nil state leaves the device state unchanged.
	Blend        *state.Blend
	DepthStencil *state.DepthStencil
	Rasterizer   *state.Rasterizer

	BlendHandle        backend.StateID
	DepthStencilHandle backend.StateID
	RasterizerHandle   backend.StateID

	bundle *Bundle
}

// VertexShaderRecord returns the pass's vertex shader, or nil.
func (p *Pass) VertexShaderRecord() *Shader { return p.shader(p.VertexShader) }

// PixelShaderRecord returns the pass's pixel shader, or nil.
func (p *Pass) PixelShaderRecord() *Shader { return p.shader(p.PixelShader) }

func (p *Pass) shader(i int) *Shader {
	if p.bundle == nil || i < 0 || i >= len(p.bundle.Shaders) {
		return nil
	}
	return p.bundle.Shaders[i]
}

// Technique is a named list of passes.
type Technique struct {
	Name        string
	Annotations []*Parameter
	Passes      []*Pass
}

// Pass returns the pass with the given name, or nil.
func (t *Technique) Pass(name string) *Pass {
	for _, p := range t.Passes {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Bundle is a decoded effect.
type Bundle struct {
	Version byte
	Profile Profile

	ConstantBuffers []*ConstantBuffer
	Shaders         []*Shader
	Parameters      []*Parameter
	Techniques      []*Technique

	// CurrentTechnique starts as Techniques[0].
	CurrentTechnique *Technique

	device backend.Device
	label  string
	// shared is set on clones that borrow shaders, samplers and states
	// from the bundle they were cloned from.
	shared bool
}

// Technique returns the technique with the given name, or nil.
func (b *Bundle) Technique(name string) *Technique {
	for _, t := range b.Techniques {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// Parameter returns the top-level parameter with the given name, or nil.
func (b *Bundle) Parameter(name string) *Parameter {
	return findParameter(b.Parameters, name)
}

// Device returns the device the bundle's handles belong to, or nil.
func (b *Bundle) Device() backend.Device { return b.device }

// SetCurrentTechnique selects a technique by name.
func (b *Bundle) SetCurrentTechnique(name string) error {
	t := b.Technique(name)
	if t == nil {
		return fmt.Errorf("%w: no technique %q", ErrInvalidReference, name)
	}
	b.CurrentTechnique = t
	return nil
}

// link points every pass back at b.
func (b *Bundle) link() {
	for _, t := range b.Techniques {
		for _, p := range t.Passes {
			p.bundle = b
		}
	}
}
