package backend

import (
	"fmt"
	"strings"

	"github.com/gogpu/fx/vertex"
)

// Resource IDs
//
// These opaque IDs represent native resources. Each device implementation
// maintains a mapping between IDs and actual backend objects.

// ShaderID is an opaque handle to a compiled shader.
type ShaderID uint64

// BufferID is an opaque handle to a constant buffer.
type BufferID uint64

// SamplerID is an opaque handle to a sampler.
type SamplerID uint64

// StateID is an opaque handle to a blend, depth-stencil or rasterizer state.
type StateID uint64

// InputLayoutID is an opaque handle to a vertex input layout.
type InputLayoutID uint64

// InvalidID is the zero value, representing an invalid/null resource.
const InvalidID = 0

// ShaderStage identifies the pipeline stage a shader runs in.
type ShaderStage uint8

// Shader stages.
const (
	StageVertex ShaderStage = iota
	StagePixel
	StageCompute
)

func (s ShaderStage) String() string {
	switch s {
	case StageVertex:
		return "Vertex"
	case StagePixel:
		return "Pixel"
	case StageCompute:
		return "Compute"
	}
	return fmt.Sprintf("ShaderStage(%d)", s)
}

// Profile identifies the bytecode flavor of compiled shaders.
type Profile uint8

// Shader profiles.
const (
	ProfileOpenGL Profile = iota
	ProfileDirectX11
	ProfileSPIRV
	ProfileWGSL
)

func (p Profile) String() string {
	switch p {
	case ProfileOpenGL:
		return "OpenGL"
	case ProfileDirectX11:
		return "DirectX11"
	case ProfileSPIRV:
		return "SPIR-V"
	case ProfileWGSL:
		return "WGSL"
	}
	return fmt.Sprintf("Profile(%d)", p)
}

// VertexAttribute is one input a vertex shader declares.
type VertexAttribute struct {
	Name     string
	Usage    vertex.ElementUsage
	Index    int
	Location int
}

// ShaderDescriptor describes a shader to create.
type ShaderDescriptor struct {
	Label    string
	Stage    ShaderStage
	Profile  Profile
	Bytecode []byte

	// Attributes are the vertex inputs reflected by the effect compiler.
	// Empty for non-vertex stages and for profiles without reflection.
	Attributes []VertexAttribute
}

// BufferDescriptor describes a constant buffer to create.
type BufferDescriptor struct {
	Label string
	Size  int
}

// InputElement is one flattened attribute of an input layout.
type InputElement struct {
	Semantic      string
	SemanticIndex int
	Format        vertex.ElementFormat
	Offset        int

	// Slot is the vertex buffer binding the element reads from.
	Slot int

	// StepRate is 0 for per-vertex data, or the number of instances drawn
	// before the element advances.
	StepRate int
}

// InputLayoutDescriptor describes a vertex input layout to create.
type InputLayoutDescriptor struct {
	Label    string
	Shader   ShaderID
	Elements []InputElement

	// Strides holds the vertex stride of each slot.
	Strides []int
}

// Semantics lists every "SEMANTICn" pair in the descriptor, in order.
func (d *InputLayoutDescriptor) Semantics() []string {
	out := make([]string, len(d.Elements))
	for i, e := range d.Elements {
		out[i] = fmt.Sprintf("%s%d", e.Semantic, e.SemanticIndex)
	}
	return out
}

// MatchInputSignature assigns a shader location to every element.
//
// Each shader attribute must be provided by an element with the same
// semantic (case-insensitive) and index; elements the shader does not read
// get location -1. With no reflected attributes the elements are assigned
// sequential locations.
func MatchInputSignature(elems []InputElement, attrs []VertexAttribute) ([]int, error) {
	locs := make([]int, len(elems))
	if len(attrs) == 0 {
		for i := range locs {
			locs[i] = i
		}
		return locs, nil
	}
	for i := range locs {
		locs[i] = -1
	}
	for _, a := range attrs {
		found := false
		for i, e := range elems {
			if e.SemanticIndex == a.Index && strings.EqualFold(e.Semantic, a.Name) {
				locs[i] = a.Location
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: shader input %s%d not provided", ErrInputSignature, a.Name, a.Index)
		}
	}
	return locs, nil
}
