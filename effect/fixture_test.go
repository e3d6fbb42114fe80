package effect

import (
	"testing"

	"github.com/gogpu/fx/backend"
	"github.com/gogpu/fx/state"
	"github.com/gogpu/fx/vertex"
	"github.com/stretchr/testify/require"
)

func identity4() []float32 {
	return []float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
}

func light(name string) *Parameter {
	return &Parameter{
		Class: ClassStruct,
		Type:  TypeVoid,
		Name:  name,
		StructMembers: []*Parameter{
			{Class: ClassVector, Type: TypeSingle, Name: "Position", RowCount: 1, ColumnCount: 3, Data: []float32{0, 1, 2}},
			{Class: ClassScalar, Type: TypeSingle, Name: "Intensity", RowCount: 1, ColumnCount: 1, Data: []float32{0.5}},
		},
	}
}

// sampleBundle builds a graph exercising every section of the format.
func sampleBundle(profile Profile) *Bundle {
	b := &Bundle{
		Version: VersionCurrent,
		Profile: profile,
		ConstantBuffers: []*ConstantBuffer{{
			Name:             "Params",
			SizeInBytes:      96,
			ParameterIndices: []int{0, 1, 2},
			ParameterOffsets: []int{0, 64, 80},
		}},
		Shaders: []*Shader{
			{
				Stage:               backend.StageVertex,
				Bytecode:            []byte{1, 2, 3},
				ConstantBufferSlots: []int{0},
				VertexAttributes: []backend.VertexAttribute{
					{Name: "POSITION", Usage: vertex.UsagePosition, Index: 0, Location: 0},
					{Name: "TEXCOORD", Usage: vertex.UsageTextureCoordinate, Index: 0, Location: 1},
				},
			},
			{
				Stage:    backend.StagePixel,
				Bytecode: []byte{4, 5},
				Samplers: []Sampler{{
					Type:      Sampler2D,
					Name:      "TextureSampler",
					State:     state.LinearClamp(),
					Parameter: 4,
				}},
				ConstantBufferSlots: []int{0},
			},
		},
		Parameters: []*Parameter{
			{Class: ClassMatrix, Type: TypeSingle, Name: "WorldViewProj", Semantic: "WORLDVIEWPROJECTION", RowCount: 4, ColumnCount: 4, Data: identity4()},
			{
				Class: ClassVector, Type: TypeSingle, Name: "Tint", RowCount: 1, ColumnCount: 4,
				Annotations: []*Parameter{{Class: ClassScalar, Type: TypeInt32, Name: "UIMin", RowCount: 1, ColumnCount: 1, Data: []int32{0}}},
				Data:        []float32{1, 0.5, 0.25, 1},
			},
			{Class: ClassScalar, Type: TypeBool, Name: "UseFog", RowCount: 1, ColumnCount: 1, Data: []int32{1}},
			{Class: ClassStruct, Type: TypeVoid, Name: "Lights", Elements: []*Parameter{light("Lights[0]"), light("Lights[1]")}},
			{Class: ClassObject, Type: TypeTexture2D, Name: "Texture"},
		},
		Techniques: []*Technique{
			{
				Name: "Main",
				Passes: []*Pass{{
					Name:         "P0",
					VertexShader: 0,
					PixelShader:  1,
					Blend:        state.AlphaBlend(),
					DepthStencil: state.DefaultDepth(),
					Rasterizer:   state.CullCounterClockwiseRasterizer(),
				}},
			},
			{
				Name:        "Unlit",
				Annotations: []*Parameter{{Class: ClassScalar, Type: TypeSingle, Name: "Cost", RowCount: 1, ColumnCount: 1, Data: []float32{2.5}}},
				Passes:      []*Pass{{Name: "P0", VertexShader: 0, PixelShader: NoShader}},
			},
		},
	}
	return b
}

func encode(t *testing.T, b *Bundle, version byte) []byte {
	t.Helper()
	data, err := Encode(b, version)
	require.NoError(t, err)
	return data
}

// unlink clears pass back-pointers so graphs compare structurally.
func unlink(b *Bundle) {
	for _, tq := range b.Techniques {
		for _, p := range tq.Passes {
			p.bundle = nil
		}
	}
}
