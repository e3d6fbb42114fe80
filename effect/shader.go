package effect

import (
	"fmt"

	"github.com/gogpu/fx/backend"
	"github.com/gogpu/fx/inputlayout"
	"github.com/gogpu/fx/state"
)

// NoShader marks an absent shader or parameter reference.
const NoShader = -1

// SamplerType is the texture dimension a sampler reads.
type SamplerType uint8

// Sampler types.
const (
	Sampler1D SamplerType = iota
	Sampler2D
	Sampler3D
	SamplerCube
)

func (s SamplerType) String() string {
	switch s {
	case Sampler1D:
		return "1D"
	case Sampler2D:
		return "2D"
	case Sampler3D:
		return "3D"
	case SamplerCube:
		return "Cube"
	}
	return fmt.Sprintf("SamplerType(%d)", s)
}

// Sampler binds a texture parameter to a shader's texture and sampler slots.
type Sampler struct {
	Type        SamplerType
	TextureSlot int
	SamplerSlot int
	Name        string

	// State is the sampler state baked into the shader, or nil to use
	// whatever the device has bound.
	State *state.Sampler

	// Parameter indexes the texture parameter in Bundle.Parameters, or
	// NoShader when the sampler is not tied to a parameter.
	Parameter int

	Handle backend.SamplerID
}

// Shader is one compiled shader of a bundle.
type Shader struct {
	Stage    backend.ShaderStage
	Bytecode []byte
	Samplers []Sampler

	// ConstantBufferSlots indexes Bundle.ConstantBuffers by binding slot.
	ConstantBufferSlots []int

	// VertexAttributes are the reflected vertex inputs (vertex stage only).
	VertexAttributes []backend.VertexAttribute

	Handle backend.ShaderID

	// Layouts caches input layouts for this vertex shader. It is set when
	// the bundle is decoded with a device.
	Layouts *inputlayout.Cache
}

// Attribute returns the vertex attribute with the given semantic and index.
func (s *Shader) Attribute(name string, index int) (backend.VertexAttribute, bool) {
	for _, a := range s.VertexAttributes {
		if a.Name == name && a.Index == index {
			return a, true
		}
	}
	return backend.VertexAttribute{}, false
}
