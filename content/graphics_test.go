package content

import (
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/fx/backend"
	"github.com/gogpu/fx/effect"
	"github.com/gogpu/fx/internal/binio"
	"github.com/gogpu/fx/vertex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

func TestReadVertexDeclaration(t *testing.T) {
	name := "Microsoft.Xna.Framework.Content.VertexDeclarationReader, Microsoft.Xna.Framework.Graphics"
	write := func(format int32) []byte {
		return payload([]string{name}, 0, func(w *binio.Writer) {
			w.Write7BitEncodedInt(1)
			w.WriteUint32(20)
			w.WriteUint32(2)
			for _, f := range [][4]int32{{0, 2, 0, 0}, {12, format, 2, 0}} {
				for _, v := range f {
					w.WriteInt32(v)
				}
			}
		})
	}

	v, err := readAsset(t, write(int32(vertex.FormatVector2)))
	require.NoError(t, err)
	decl, ok := v.(*vertex.Declaration)
	require.True(t, ok)
	assert.Equal(t, 20, decl.Stride())
	assert.True(t, decl.Equal(vertex.PositionTexture))

	_, err = readAsset(t, write(77))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func writeTexture(w *binio.Writer, format SurfaceFormat, width, height int, levels ...[]byte) {
	w.WriteInt32(int32(format))
	w.WriteUint32(uint32(width))
	w.WriteUint32(uint32(height))
	w.WriteUint32(uint32(len(levels)))
	for _, l := range levels {
		w.WriteUint32(uint32(len(l)))
		w.WriteBytes(l)
	}
}

func TestReadTexture(t *testing.T) {
	pix := []byte{
		255, 0, 0, 255, 0, 255, 0, 255,
		0, 0, 255, 255, 0, 0, 0, 0,
	}
	v, err := readAsset(t, payload([]string{textureReaderName}, 0, func(w *binio.Writer) {
		w.Write7BitEncodedInt(1)
		writeTexture(w, SurfaceColor, 2, 2, pix, []byte{1, 2, 3, 4})
	}))
	require.NoError(t, err)
	tex := v.(*Texture2D)
	assert.Len(t, tex.Levels, 2)
	w, h := tex.LevelDimensions(1)
	assert.Equal(t, [2]int{1, 1}, [2]int{w, h})

	img, err := tex.Image()
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 2), img.Bounds())
	assert.Equal(t, color.RGBA{0, 255, 0, 255}, img.At(1, 0))
}

func TestReadTextureErrors(t *testing.T) {
	_, err := readAsset(t, payload([]string{textureReaderName}, 0, func(w *binio.Writer) {
		w.Write7BitEncodedInt(1)
		writeTexture(w, SurfaceFormat(99), 1, 1, []byte{0})
	}))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = readAsset(t, payload([]string{textureReaderName}, 0, func(w *binio.Writer) {
		w.Write7BitEncodedInt(1)
		writeTexture(w, SurfaceColor, 2, 2, []byte{1, 2, 3, 4})
	}))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	tex := &Texture2D{Format: SurfaceDxt1, Width: 4, Height: 4, Levels: [][]byte{make([]byte, 8)}}
	_, err = tex.Image()
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestSurfaceLevelSize(t *testing.T) {
	assert.Equal(t, 64, SurfaceColor.LevelSize(4, 4))
	assert.Equal(t, 8, SurfaceDxt1.LevelSize(3, 2))
	assert.Equal(t, 32, SurfaceDxt5.LevelSize(8, 4))
	assert.Equal(t, "Bgr565", SurfaceBgr565.String())
}

func TestBgr565Image(t *testing.T) {
	tex := &Texture2D{Format: SurfaceBgr565, Width: 1, Height: 1, Levels: [][]byte{{0x00, 0xf8}}}
	img, err := tex.Image()
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, img.At(0, 0))
}

// spriteFontPayload writes a two-glyph font: 'A' and '?', with '?' as
// the default character.
func spriteFontPayload() []byte {
	names := []string{
		"Microsoft.Xna.Framework.Content.SpriteFontReader, Microsoft.Xna.Framework.Graphics" + xnaQualifiers,
		textureReaderName,
		"Microsoft.Xna.Framework.Content.ListReader`1[[Microsoft.Xna.Framework.Rectangle, Microsoft.Xna.Framework" + xnaQualifiers + "]]",
		rectangleReaderName,
		"Microsoft.Xna.Framework.Content.ListReader`1[[System.Char, mscorlib" + libQualifiers + "]]",
		charReaderName,
		"Microsoft.Xna.Framework.Content.ListReader`1[[Microsoft.Xna.Framework.Vector3, Microsoft.Xna.Framework" + xnaQualifiers + "]]",
		vector3ReaderName,
	}
	rects := func(w *binio.Writer, rs ...Rectangle) {
		w.Write7BitEncodedInt(3)
		w.WriteUint32(uint32(len(rs)))
		for _, r := range rs {
			for _, v := range []int32{r.X, r.Y, r.Width, r.Height} {
				w.WriteInt32(v)
			}
		}
	}
	return payload(names, 0, func(w *binio.Writer) {
		w.Write7BitEncodedInt(1)

		w.Write7BitEncodedInt(2)
		writeTexture(w, SurfaceAlpha8, 8, 8, make([]byte, 64))

		rects(w, Rectangle{0, 0, 4, 6}, Rectangle{4, 0, 3, 6})
		rects(w, Rectangle{0, 2, 5, 10}, Rectangle{0, 2, 4, 10})

		w.Write7BitEncodedInt(5)
		w.WriteUint32(2)
		w.WriteChar('A')
		w.WriteChar('?')

		w.WriteInt32(10)
		w.WriteFloat32(1)

		w.Write7BitEncodedInt(7)
		w.WriteUint32(2)
		for _, v := range []float32{1, 4, 0, 0, 3, 1} {
			w.WriteFloat32(v)
		}

		w.WriteBool(true)
		w.WriteChar('?')
	})
}

func TestReadSpriteFont(t *testing.T) {
	v, err := readAsset(t, spriteFontPayload())
	require.NoError(t, err)
	f, ok := v.(*SpriteFont)
	require.True(t, ok)
	var _ font.Face = f

	assert.Equal(t, []rune{'?', 'A'}, f.Characters())
	assert.Equal(t, int32(10), f.LineSpacing)

	adv, ok := f.GlyphAdvance('A')
	require.True(t, ok)
	assert.Equal(t, fixed.I(5), adv)

	// Missing characters fall back to the default.
	adv, ok = f.GlyphAdvance('Z')
	require.True(t, ok)
	assert.Equal(t, fixed.I(4), adv)

	assert.Equal(t, fixed.I(1), f.Kern('A', 'A'))
	assert.Equal(t, fixed.I(10), f.Metrics().Height)

	dr, mask, maskp, adv, ok := f.Glyph(fixed.P(100, 50), 'A')
	require.True(t, ok)
	assert.Equal(t, image.Rect(101, 42, 105, 48), dr)
	assert.NotNil(t, mask)
	assert.Equal(t, image.Pt(0, 0), maskp)
	assert.Equal(t, fixed.I(5), adv)

	bounds, _, ok := f.GlyphBounds('A')
	require.True(t, ok)
	assert.Equal(t, fixed.I(1), bounds.Min.X)
	assert.Equal(t, fixed.I(-8), bounds.Min.Y)

	w, h := f.MeasureString("AA\nA")
	assert.Equal(t, float32(11), w)
	assert.Equal(t, float32(20), h)
	assert.NoError(t, f.Close())
}

func TestSpriteFontMissingDefault(t *testing.T) {
	c := 'x'
	_, err := NewSpriteFont(nil, 10, 0, &c, []Glyph{{Char: 'a'}})
	assert.Error(t, err)

	f, err := NewSpriteFont(nil, 10, 0, nil, []Glyph{{Char: 'a'}})
	require.NoError(t, err)
	_, ok := f.GlyphAdvance('b')
	assert.False(t, ok)
	_, _, _, _, ok = f.Glyph(fixed.P(0, 0), 'a')
	assert.False(t, ok, "no texture, no mask")
}

func TestReadEffect(t *testing.T) {
	data := minimalEffect(t)
	p := payload([]string{effectReaderName}, 0, func(w *binio.Writer) {
		w.Write7BitEncodedInt(1)
		w.WriteUint32(uint32(len(data)))
		w.WriteBytes(data)
	})

	v, err := readAsset(t, p)
	require.NoError(t, err)
	b, ok := v.(*effect.Bundle)
	require.True(t, ok)
	assert.Nil(t, b.Device())
	assert.Equal(t, "Main", b.CurrentTechnique.Name)

	dev := backend.NewNullDevice()
	m := NewManager("", WithDevice(dev))
	v, err = NewReader(p, "effects/basic", m).ReadAsset()
	require.NoError(t, err)
	b = v.(*effect.Bundle)
	assert.Same(t, dev, b.Device())
	assert.Equal(t, 2, dev.Live())
	b.Release()
	assert.Zero(t, dev.Live())
}

func TestReadEffectCorrupt(t *testing.T) {
	p := payload([]string{effectReaderName}, 0, func(w *binio.Writer) {
		w.Write7BitEncodedInt(1)
		w.WriteUint32(4)
		w.WriteBytes([]byte("NOPE"))
	})
	_, err := readAsset(t, p)
	assert.ErrorIs(t, err, effect.ErrBadMagic)
}
