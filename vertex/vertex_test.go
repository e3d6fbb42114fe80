package vertex

import (
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
)

func TestFormatSizes(t *testing.T) {
	tests := []struct {
		f    ElementFormat
		size int
		gpu  gputypes.VertexFormat
	}{
		{FormatSingle, 4, gputypes.VertexFormatFloat32},
		{FormatVector2, 8, gputypes.VertexFormatFloat32x2},
		{FormatVector3, 12, gputypes.VertexFormatFloat32x3},
		{FormatVector4, 16, gputypes.VertexFormatFloat32x4},
		{FormatColor, 4, gputypes.VertexFormatUnorm8x4},
		{FormatShort4, 8, gputypes.VertexFormatSint16x4},
		{FormatHalfVector2, 4, gputypes.VertexFormatFloat16x2},
	}
	for _, tt := range tests {
		t.Run(tt.f.String(), func(t *testing.T) {
			assert.Equal(t, tt.size, tt.f.Size())
			assert.Equal(t, tt.gpu, tt.f.GPUFormat())
		})
	}
	assert.Zero(t, ElementFormat(200).Size())
	assert.False(t, ElementFormat(200).Valid())
}

func TestSemanticNames(t *testing.T) {
	assert.Equal(t, "SV_Position", UsagePosition.SemanticName())
	assert.Equal(t, "COLOR", UsageColor.SemanticName())
	assert.Equal(t, "TEXCOORD", UsageTextureCoordinate.SemanticName())
	assert.Equal(t, "BLENDWEIGHT", UsageBlendWeight.SemanticName())
	assert.Equal(t, "TextureCoordinate", UsageTextureCoordinate.String())
}

func TestDeclarationStride(t *testing.T) {
	assert.Equal(t, 16, PositionColor.Stride())
	assert.Equal(t, 24, PositionColorTexture.Stride())
	assert.Equal(t, 32, PositionNormalTexture.Stride())

	d := NewDeclarationWithStride(64, Element{Format: FormatVector4, Usage: UsagePosition})
	assert.Equal(t, 64, d.Stride())
	assert.Equal(t, 1, d.Len())
}

func TestDeclarationEqual(t *testing.T) {
	a := NewDeclaration(
		Element{Offset: 0, Format: FormatVector3, Usage: UsagePosition},
		Element{Offset: 12, Format: FormatColor, Usage: UsageColor},
	)
	assert.NotSame(t, a, PositionColor)
	assert.True(t, a.Equal(PositionColor))
	assert.Equal(t, a.Hash(), PositionColor.Hash())

	assert.False(t, a.Equal(PositionTexture))
	assert.False(t, a.Equal(nil))

	var n *Declaration
	assert.True(t, n.Equal(nil))

	wider := NewDeclarationWithStride(32, a.Elements()...)
	assert.False(t, a.Equal(wider))
}

func TestDeclarationImmutable(t *testing.T) {
	elems := []Element{{Format: FormatVector2, Usage: UsagePosition}}
	d := NewDeclaration(elems...)
	elems[0].Format = FormatVector4

	assert.Equal(t, FormatVector2, d.Element(0).Format)

	out := d.Elements()
	out[0].Usage = UsageColor
	assert.Equal(t, UsagePosition, d.Element(0).Usage)
}
