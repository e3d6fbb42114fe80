package effect

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/gogpu/fx/backend"
	"github.com/gogpu/fx/vertex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeWithDevice(t *testing.T) {
	dev := backend.NewNullDevice()
	b, err := Decode(encode(t, sampleBundle(ProfileSPIRV), VersionCurrent), WithDevice(dev), WithLabel("sprite"))
	require.NoError(t, err)
	assert.Same(t, dev, b.Device())

	stats := dev.Stats()
	assert.Equal(t, 2, stats.Shaders)
	assert.Equal(t, 1, stats.Samplers)
	assert.Equal(t, 1, stats.Buffers)
	assert.Equal(t, 3, stats.States)

	vs := b.Shaders[0]
	assert.NotEqual(t, backend.ShaderID(backend.InvalidID), vs.Handle)
	require.NotNil(t, vs.Layouts)
	assert.Equal(t, vs.Handle, vs.Layouts.Shader())
	assert.Nil(t, b.Shaders[1].Layouts)

	// The vertex shader declares POSITION, so the cache falls back from SV_Position.
	id, err := vs.Layouts.GetOrCreateFor(vertex.Binding{Declaration: vertex.PositionTexture})
	require.NoError(t, err)
	desc, ok := dev.Layout(id)
	require.True(t, ok)
	assert.Equal(t, []string{"POSITION0", "TEXCOORD0"}, desc.Semantics())

	data, ok := dev.BufferData(b.ConstantBuffers[0].Handle)
	require.True(t, ok)
	require.Len(t, data, 96)
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(data[0:])))
	assert.Equal(t, float32(0.5), math.Float32frombits(binary.LittleEndian.Uint32(data[68:])))
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(data[80:]))

	require.NoError(t, b.Parameter("UseFog").SetBool(false))
	require.NoError(t, b.UpdateConstantBuffers())
	data, _ = dev.BufferData(b.ConstantBuffers[0].Handle)
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(data[80:]))

	b.Release()
	b.Release()
	assert.Zero(t, dev.Live())
	assert.Nil(t, b.Device())
	assert.Nil(t, vs.Layouts)
}

func TestDecodeDeviceFailureCleansUp(t *testing.T) {
	for _, op := range []string{"shader", "sampler", "buffer", "state"} {
		t.Run(op, func(t *testing.T) {
			dev := backend.NewNullDevice()
			calls := 0
			dev.FailOn = func(o string) error {
				if o != op {
					return nil
				}
				calls++
				if calls == 2 || op == "sampler" || op == "buffer" {
					return errors.New("device lost")
				}
				return nil
			}
			b, err := Decode(encode(t, sampleBundle(ProfileSPIRV), VersionCurrent), WithDevice(dev))
			assert.Nil(t, b)
			assert.EqualError(t, errors.Unwrap(err), "device lost")
			assert.Zero(t, dev.Live())
		})
	}
}

func TestDecodeUnsupportedProfile(t *testing.T) {
	dev := backend.NewNullDevice(backend.ProfileWGSL)
	b, err := Decode(encode(t, sampleBundle(ProfileSPIRV), VersionCurrent), WithDevice(dev))
	assert.Nil(t, b)
	assert.ErrorIs(t, err, backend.ErrUnsupportedProfile)
	assert.Zero(t, dev.Live())
}

func TestClone(t *testing.T) {
	b, err := Decode(encode(t, sampleBundle(ProfileSPIRV), VersionCurrent))
	require.NoError(t, err)
	require.NoError(t, b.SetCurrentTechnique("Unlit"))

	c, err := b.Clone()
	require.NoError(t, err)

	assert.Equal(t, "Unlit", c.CurrentTechnique.Name)
	assert.Same(t, c.Techniques[1], c.CurrentTechnique)
	assert.Same(t, c.Shaders[0], c.Techniques[0].Passes[0].VertexShaderRecord())
	assert.NotSame(t, b.Parameters[0], c.Parameters[0])

	require.NoError(t, c.Parameter("Tint").SetFloats(9, 9, 9, 9))
	assert.Equal(t, []float32{1, 0.5, 0.25, 1}, b.Parameter("Tint").Data)

	member := c.Parameter("Lights").Element(0).Member("Intensity")
	require.NoError(t, member.SetFloats(3))
	assert.Equal(t, []float32{0.5}, b.Parameter("Lights").Element(0).Member("Intensity").Data)

	assert.Equal(t, b.Shaders[1].Samplers[0].State, c.Shaders[1].Samplers[0].State)
	assert.NotSame(t, b.Shaders[1].Samplers[0].State, c.Shaders[1].Samplers[0].State)
}

func TestCloneWithDevice(t *testing.T) {
	dev := backend.NewNullDevice()
	b, err := Decode(encode(t, sampleBundle(ProfileSPIRV), VersionCurrent), WithDevice(dev))
	require.NoError(t, err)
	live := dev.Live()

	c, err := b.Clone()
	require.NoError(t, err)
	assert.Equal(t, live+1, dev.Live())
	assert.NotEqual(t, b.ConstantBuffers[0].Handle, c.ConstantBuffers[0].Handle)
	assert.Equal(t, b.Shaders[0].Handle, c.Shaders[0].Handle)
	assert.Same(t, b.Shaders[0].Layouts, c.Shaders[0].Layouts)

	c.Release()
	assert.Equal(t, live, dev.Live())
	b.Release()
	assert.Zero(t, dev.Live())
}

func TestConstantBufferPackRegisters(t *testing.T) {
	scalar := func(name string, v float32) *Parameter {
		return &Parameter{Class: ClassScalar, Type: TypeSingle, Name: name, RowCount: 1, ColumnCount: 1, Data: []float32{v}}
	}
	params := []*Parameter{
		{Class: ClassStruct, Type: TypeVoid, Name: "Surface", StructMembers: []*Parameter{
			{Class: ClassVector, Type: TypeSingle, Name: "UV", RowCount: 1, ColumnCount: 2, Data: []float32{1, 2}},
			{Class: ClassVector, Type: TypeSingle, Name: "Dir", RowCount: 1, ColumnCount: 3, Data: []float32{3, 4, 5}},
			scalar("W", 6),
		}},
		{Class: ClassScalar, Type: TypeSingle, Name: "Weights", Elements: []*Parameter{scalar("Weights[0]", 7), scalar("Weights[1]", 8)}},
		{Class: ClassMatrix, Type: TypeSingle, Name: "Basis", RowCount: 2, ColumnCount: 2, Data: []float32{9, 10, 11, 12}},
	}
	cb := &ConstantBuffer{Name: "Params", SizeInBytes: 96, ParameterIndices: []int{0, 1, 2}, ParameterOffsets: []int{0, 32, 64}}
	data := cb.Pack(params)
	require.Len(t, data, 96)

	at := func(off int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(data[off:])) }
	want := map[int]float32{
		0: 1, 4: 2, // UV
		16: 3, 20: 4, 24: 5, // Dir moves to the next register
		28: 6,        // W fills the rest of it
		32: 7, 48: 8, // one register per array element
		64: 9, 68: 10, 80: 11, 84: 12, // one register per matrix row
	}
	for off, v := range want {
		assert.Equal(t, v, at(off), "offset %d", off)
	}
	for _, off := range []int{8, 12, 36, 72, 88} {
		assert.Zero(t, at(off), "padding at %d", off)
	}
}
