package content

import (
	"testing"

	"github.com/gogpu/fx/backend"
	"github.com/gogpu/fx/effect"
	"github.com/gogpu/fx/internal/binio"
	"github.com/stretchr/testify/require"
)

// Serialized reader names as the content pipeline writes them.
const (
	xnaQualifiers = ", Version=4.0.0.0, Culture=neutral, PublicKeyToken=842cf8be1de50553"
	libQualifiers = ", Version=4.0.0.0, Culture=neutral, PublicKeyToken=b77a5c561934e089"

	int32ReaderName  = "Microsoft.Xna.Framework.Content.Int32Reader"
	stringReaderName = "Microsoft.Xna.Framework.Content.StringReader, Microsoft.Xna.Framework" + xnaQualifiers
	listOfInt32Name  = "Microsoft.Xna.Framework.Content.ListReader`1[[System.Int32, mscorlib" + libQualifiers + "]]"
	dictionaryName   = "Microsoft.Xna.Framework.Content.DictionaryReader`2[[System.String, mscorlib" + libQualifiers +
		"],[System.Int32, mscorlib" + libQualifiers + "]]"
	rectangleReaderName = "Microsoft.Xna.Framework.Content.RectangleReader"
	charReaderName      = "Microsoft.Xna.Framework.Content.CharReader"
	vector3ReaderName   = "Microsoft.Xna.Framework.Content.Vector3Reader"
	textureReaderName   = "Microsoft.Xna.Framework.Content.Texture2DReader, Microsoft.Xna.Framework.Graphics" + xnaQualifiers
	effectReaderName    = "Microsoft.Xna.Framework.Content.EffectReader, Microsoft.Xna.Framework.Graphics" + xnaQualifiers
)

// payload writes a reader table, a shared resource count and whatever
// body appends.
func payload(readers []string, shared int, body func(w *binio.Writer)) []byte {
	w := binio.NewWriter()
	w.Write7BitEncodedInt(len(readers))
	for _, name := range readers {
		w.WriteString(name)
		w.WriteInt32(0)
	}
	w.Write7BitEncodedInt(shared)
	if body != nil {
		body(w)
	}
	return w.Bytes()
}

func container(t *testing.T, flags byte, p []byte) []byte {
	t.Helper()
	data, err := WriteHeader(PlatformDesktopGL, flags, p)
	require.NoError(t, err)
	return data
}

// readAsset decodes a payload without a manager.
func readAsset(t *testing.T, p []byte) (any, error) {
	t.Helper()
	return NewReader(p, "test", nil).ReadAsset()
}

// minimalEffect encodes a one-pass WGSL effect with a uniform block.
func minimalEffect(t *testing.T) []byte {
	t.Helper()
	b := &effect.Bundle{
		Version: effect.VersionCurrent,
		Profile: effect.ProfileWGSL,
		ConstantBuffers: []*effect.ConstantBuffer{{
			Name:             "Params",
			SizeInBytes:      16,
			ParameterIndices: []int{0},
			ParameterOffsets: []int{0},
		}},
		Shaders: []*effect.Shader{{
			Stage:               backend.StageVertex,
			Bytecode:            []byte("@vertex fn vs_main() -> @builtin(position) vec4<f32> { return vec4<f32>(); }"),
			ConstantBufferSlots: []int{0},
		}},
		Parameters: []*effect.Parameter{{
			Class: effect.ClassVector, Type: effect.TypeSingle, Name: "Tint",
			RowCount: 1, ColumnCount: 4, Data: []float32{1, 1, 1, 1},
		}},
		Techniques: []*effect.Technique{{
			Name:   "Main",
			Passes: []*effect.Pass{{Name: "P0", VertexShader: 0, PixelShader: effect.NoShader}},
		}},
	}
	data, err := effect.Encode(b, effect.VersionCurrent)
	require.NoError(t, err)
	return data
}
