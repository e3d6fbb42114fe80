package inputlayout

import (
	"testing"

	"github.com/gogpu/fx/backend"
	"github.com/gogpu/fx/vertex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVertexShader(t *testing.T, dev *backend.NullDevice, attrs ...backend.VertexAttribute) backend.ShaderID {
	t.Helper()
	id, err := dev.CreateShader(&backend.ShaderDescriptor{
		Label:      "vs",
		Stage:      backend.StageVertex,
		Attributes: attrs,
	})
	require.NoError(t, err)
	return id
}

func declA() *vertex.Declaration {
	return vertex.NewDeclaration(
		vertex.Element{Offset: 0, Format: vertex.FormatVector3, Usage: vertex.UsagePosition},
		vertex.Element{Offset: 12, Format: vertex.FormatVector2, Usage: vertex.UsageTextureCoordinate},
	)
}

func declB() *vertex.Declaration {
	return vertex.NewDeclaration(
		vertex.Element{Offset: 0, Format: vertex.FormatColor, Usage: vertex.UsageColor},
	)
}

func TestCacheIdempotentForEqualKeys(t *testing.T) {
	dev := backend.NewNullDevice()
	c := NewCache(dev, newVertexShader(t, dev), "vs")

	var k1, k2 Key
	k1.Add(declA(), 0)
	k1.Add(declB(), 1)
	k2.Add(declA(), 0)
	k2.Add(declB(), 1)

	id1, err := c.GetOrCreate(&k1)
	require.NoError(t, err)
	id2, err := c.GetOrCreate(&k2)
	require.NoError(t, err)

	assert.Equal(t, id1, id2)
	assert.Equal(t, 1, dev.Stats().InputLayouts)
	assert.Equal(t, 1, c.Len())
	hits, misses := c.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
	assert.InDelta(t, 0.5, c.HitRate(), 1e-9)
}

func TestCacheOrderSensitive(t *testing.T) {
	dev := backend.NewNullDevice()
	c := NewCache(dev, newVertexShader(t, dev), "vs")

	a, b := declA(), declB()
	id1, err := c.GetOrCreateFor(vertex.Binding{Declaration: a}, vertex.Binding{Declaration: b})
	require.NoError(t, err)
	id2, err := c.GetOrCreateFor(vertex.Binding{Declaration: b}, vertex.Binding{Declaration: a})
	require.NoError(t, err)

	assert.NotEqual(t, id1, id2)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 2, dev.Stats().InputLayouts)
}

func TestCacheFrequencyDistinguishes(t *testing.T) {
	dev := backend.NewNullDevice()
	c := NewCache(dev, newVertexShader(t, dev), "vs")

	id1, err := c.GetOrCreateFor(vertex.Binding{Declaration: declA()})
	require.NoError(t, err)
	id2, err := c.GetOrCreateFor(vertex.Binding{Declaration: declA(), InstanceFrequency: 1})
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)
}

func TestCacheStoresFrozenKey(t *testing.T) {
	dev := backend.NewNullDevice()
	c := NewCache(dev, newVertexShader(t, dev), "vs")

	var k Key
	k.Add(declA(), 0)
	id, err := c.GetOrCreate(&k)
	require.NoError(t, err)

	// Mutating the scratch key must not disturb the cached entry.
	k.Reset()
	k.Add(declB(), 0)
	other, err := c.GetOrCreate(&k)
	require.NoError(t, err)
	assert.NotEqual(t, id, other)

	k.Set(vertex.Binding{Declaration: declA()})
	again, err := c.GetOrCreate(&k)
	require.NoError(t, err)
	assert.Equal(t, id, again)
	assert.Equal(t, 2, dev.Stats().InputLayouts)
}

func TestSemanticCollisionBump(t *testing.T) {
	s0 := vertex.NewDeclaration(vertex.Element{Format: vertex.FormatVector2, Usage: vertex.UsageTextureCoordinate})
	s1 := vertex.NewDeclaration(vertex.Element{Format: vertex.FormatVector2, Usage: vertex.UsageTextureCoordinate})

	var k Key
	k.Add(s0, 0)
	k.Add(s1, 0)

	for range 2 {
		desc := BuildDescriptor(&k)
		require.Len(t, desc.Elements, 2)
		assert.Equal(t, "TEXCOORD", desc.Elements[0].Semantic)
		assert.Equal(t, 0, desc.Elements[0].SemanticIndex)
		assert.Equal(t, 0, desc.Elements[0].Slot)
		assert.Equal(t, "TEXCOORD", desc.Elements[1].Semantic)
		assert.Equal(t, 1, desc.Elements[1].SemanticIndex)
		assert.Equal(t, 1, desc.Elements[1].Slot)
	}
}

func TestSemanticCollisionChain(t *testing.T) {
	d := vertex.NewDeclaration(
		vertex.Element{Offset: 0, Format: vertex.FormatVector2, Usage: vertex.UsageTextureCoordinate, UsageIndex: 0},
		vertex.Element{Offset: 8, Format: vertex.FormatVector2, Usage: vertex.UsageTextureCoordinate, UsageIndex: 1},
		vertex.Element{Offset: 16, Format: vertex.FormatVector2, Usage: vertex.UsageTextureCoordinate, UsageIndex: 0},
	)
	var k Key
	k.Add(d, 0)
	desc := BuildDescriptor(&k)
	assert.Equal(t, []string{"TEXCOORD0", "TEXCOORD1", "TEXCOORD2"}, desc.Semantics())
}

func TestDescriptorSlotsAndStepRate(t *testing.T) {
	var k Key
	k.Add(vertex.PositionColorTexture, 0)
	k.Add(declB(), 3)

	desc := BuildDescriptor(&k)
	assert.Equal(t, []int{24, 4}, desc.Strides)
	require.Len(t, desc.Elements, 4)
	assert.Equal(t, "SV_Position", desc.Elements[0].Semantic)
	assert.Equal(t, 16, desc.Elements[2].Offset)
	assert.Equal(t, 0, desc.Elements[2].StepRate)
	assert.Equal(t, "COLOR", desc.Elements[3].Semantic)
	assert.Equal(t, 1, desc.Elements[3].SemanticIndex)
	assert.Equal(t, 1, desc.Elements[3].Slot)
	assert.Equal(t, 3, desc.Elements[3].StepRate)
}

func TestLegacyPositionRetry(t *testing.T) {
	dev := backend.NewNullDevice()
	vs := newVertexShader(t, dev,
		backend.VertexAttribute{Name: "POSITION", Usage: vertex.UsagePosition, Location: 0},
		backend.VertexAttribute{Name: "TEXCOORD", Usage: vertex.UsageTextureCoordinate, Location: 1},
	)
	c := NewCache(dev, vs, "vs")

	id, err := c.GetOrCreateFor(vertex.Binding{Declaration: declA()})
	require.NoError(t, err)

	desc, ok := dev.Layout(id)
	require.True(t, ok)
	assert.Equal(t, []string{"POSITION0", "TEXCOORD0"}, desc.Semantics())
	assert.Equal(t, 1, dev.Stats().FailedLayouts)
}

func TestLayoutErrorAfterRetry(t *testing.T) {
	dev := backend.NewNullDevice()
	vs := newVertexShader(t, dev,
		backend.VertexAttribute{Name: "NORMAL", Usage: vertex.UsageNormal},
	)
	c := NewCache(dev, vs, "lit")

	_, err := c.GetOrCreateFor(vertex.Binding{Declaration: declA()})
	require.Error(t, err)

	var le *LayoutError
	require.ErrorAs(t, err, &le)
	assert.ErrorIs(t, err, backend.ErrInputSignature)
	assert.Equal(t, [][]string{
		{"SV_Position0", "TEXCOORD0"},
		{"POSITION0", "TEXCOORD0"},
	}, le.Attempts)
	assert.Contains(t, err.Error(), `shader "lit"`)
	assert.Zero(t, c.Len())
}

func TestNoRetryWithoutPosition(t *testing.T) {
	dev := backend.NewNullDevice()
	vs := newVertexShader(t, dev, backend.VertexAttribute{Name: "NORMAL"})
	c := NewCache(dev, vs, "vs")

	_, err := c.GetOrCreateFor(vertex.Binding{Declaration: declB()})
	var le *LayoutError
	require.ErrorAs(t, err, &le)
	assert.Len(t, le.Attempts, 1)
	assert.Equal(t, 1, dev.Stats().FailedLayouts)
}

func TestCacheRelease(t *testing.T) {
	dev := backend.NewNullDevice()
	vs := newVertexShader(t, dev)
	c := NewCache(dev, vs, "vs")

	_, err := c.GetOrCreateFor(vertex.Binding{Declaration: declA()})
	require.NoError(t, err)
	_, err = c.GetOrCreateFor(vertex.Binding{Declaration: declB()})
	require.NoError(t, err)
	assert.Equal(t, 3, dev.Live())

	c.Release()
	assert.Equal(t, 1, dev.Live())
	assert.Zero(t, c.Len())
}

func TestCacheNoDevice(t *testing.T) {
	c := NewCache(nil, 1, "vs")
	_, err := c.GetOrCreateFor(vertex.Binding{Declaration: declA()})
	assert.ErrorIs(t, err, ErrNoDevice)
}
