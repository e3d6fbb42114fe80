package content

import (
	"testing"

	"github.com/gogpu/fx/internal/binio"
	"github.com/gogpu/fx/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPrimitive(t *testing.T) {
	v, err := readAsset(t, payload([]string{int32ReaderName}, 0, func(w *binio.Writer) {
		w.Write7BitEncodedInt(1)
		w.WriteInt32(-42)
	}))
	require.NoError(t, err)
	assert.Equal(t, int32(-42), v)
}

func TestReadNullObject(t *testing.T) {
	v, err := readAsset(t, payload([]string{int32ReaderName}, 0, func(w *binio.Writer) {
		w.Write7BitEncodedInt(0)
	}))
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestReadBadReaderIndex(t *testing.T) {
	_, err := readAsset(t, payload([]string{int32ReaderName}, 0, func(w *binio.Writer) {
		w.Write7BitEncodedInt(2)
	}))
	assert.ErrorIs(t, err, ErrBadReaderIndex)
}

func TestReadValues(t *testing.T) {
	readers := []string{
		"Microsoft.Xna.Framework.Content.BooleanReader",
		"Microsoft.Xna.Framework.Content.DoubleReader",
		"Microsoft.Xna.Framework.Content.Vector2Reader",
		"Microsoft.Xna.Framework.Content.ColorReader",
		rectangleReaderName,
		"Microsoft.Xna.Framework.Content.MatrixReader",
		stringReaderName,
		charReaderName,
	}
	tests := []struct {
		index int
		write func(w *binio.Writer)
		want  any
	}{
		{1, func(w *binio.Writer) { w.WriteBool(true) }, true},
		{2, func(w *binio.Writer) { w.WriteFloat64(2.5) }, 2.5},
		{3, func(w *binio.Writer) { w.WriteFloat32(1); w.WriteFloat32(2) }, Vector2{1, 2}},
		{4, func(w *binio.Writer) { w.WriteBytes([]byte{1, 2, 3, 4}) }, state.Color{R: 1, G: 2, B: 3, A: 4}},
		{5, func(w *binio.Writer) {
			for _, n := range []int32{1, 2, 30, 40} {
				w.WriteInt32(n)
			}
		}, Rectangle{1, 2, 30, 40}},
		{6, func(w *binio.Writer) {
			for i := range 16 {
				w.WriteFloat32(float32(i))
			}
		}, Matrix{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}},
		{7, func(w *binio.Writer) { w.WriteString("hello") }, "hello"},
		{8, func(w *binio.Writer) { w.WriteChar('é') }, 'é'},
	}
	for _, tt := range tests {
		v, err := readAsset(t, payload(readers, 0, func(w *binio.Writer) {
			w.Write7BitEncodedInt(tt.index)
			tt.write(w)
		}))
		require.NoError(t, err, readers[tt.index-1])
		assert.Equal(t, tt.want, v, readers[tt.index-1])
	}
}

func TestReadList(t *testing.T) {
	v, err := readAsset(t, payload([]string{int32ReaderName, listOfInt32Name}, 0, func(w *binio.Writer) {
		w.Write7BitEncodedInt(2)
		w.WriteUint32(3)
		for _, n := range []int32{5, 6, 7} {
			w.WriteInt32(n)
		}
	}))
	require.NoError(t, err)
	assert.Equal(t, []any{int32(5), int32(6), int32(7)}, v)
}

func TestReadArrayOfReferences(t *testing.T) {
	names := []string{stringReaderName, "Microsoft.Xna.Framework.Content.ArrayReader`1[[System.String, mscorlib]]"}
	v, err := readAsset(t, payload(names, 0, func(w *binio.Writer) {
		w.Write7BitEncodedInt(2)
		w.WriteUint32(2)
		w.Write7BitEncodedInt(1)
		w.WriteString("a")
		w.Write7BitEncodedInt(0)
	}))
	require.NoError(t, err)
	assert.Equal(t, []any{"a", nil}, v)
}

func TestReadDictionary(t *testing.T) {
	names := []string{stringReaderName, int32ReaderName, dictionaryName}
	v, err := readAsset(t, payload(names, 0, func(w *binio.Writer) {
		w.Write7BitEncodedInt(3)
		w.WriteUint32(2)
		w.Write7BitEncodedInt(1)
		w.WriteString("hp")
		w.WriteInt32(100)
		w.Write7BitEncodedInt(1)
		w.WriteString("mp")
		w.WriteInt32(25)
	}))
	require.NoError(t, err)
	assert.Equal(t, map[any]any{"hp": int32(100), "mp": int32(25)}, v)
}

func TestReadNullableAndEnum(t *testing.T) {
	names := []string{
		int32ReaderName,
		"Microsoft.Xna.Framework.Content.NullableReader`1[[System.Int32, mscorlib]]",
		"Microsoft.Xna.Framework.Content.EnumReader`1[[Game.Direction, Game]]",
		"Microsoft.Xna.Framework.Content.ListReader`1[[System.Nullable`1[[System.Int32, mscorlib]], mscorlib]]",
	}
	v, err := readAsset(t, payload(names, 0, func(w *binio.Writer) {
		w.Write7BitEncodedInt(4)
		w.WriteUint32(2)
		w.WriteBool(true)
		w.WriteInt32(9)
		w.WriteBool(false)
	}))
	require.NoError(t, err)
	assert.Equal(t, []any{int32(9), nil}, v)

	v, err = readAsset(t, payload(names, 0, func(w *binio.Writer) {
		w.Write7BitEncodedInt(3)
		w.WriteInt32(2)
	}))
	require.NoError(t, err)
	assert.Equal(t, int32(2), v)
}

func TestReadTruncatedCount(t *testing.T) {
	_, err := readAsset(t, payload([]string{int32ReaderName, listOfInt32Name}, 0, func(w *binio.Writer) {
		w.Write7BitEncodedInt(2)
		w.WriteUint32(1 << 30)
	}))
	assert.ErrorIs(t, err, ErrTruncated)
}

// holderReader reads a shared resource reference into a holder.
type holderReader struct{}

type holder struct{ Shared any }

func (holderReader) TargetType() string { return "Game.Holder" }

func (holderReader) Read(r *Reader, _ any) (any, error) {
	h := &holder{}
	err := r.ReadSharedResource(func(v any) { h.Shared = v })
	return h, err
}

func TestSharedResources(t *testing.T) {
	g := NewRegistry()
	registerBuiltins(g)
	g.Register("Game.HolderReader, Game", func([]string) (TypeReader, error) { return holderReader{}, nil })
	m := NewManager("", WithRegistry(g), WithFS(nil))

	p := payload([]string{"Game.HolderReader, Game", stringReaderName}, 1, func(w *binio.Writer) {
		w.Write7BitEncodedInt(1)
		w.Write7BitEncodedInt(1)
		w.Write7BitEncodedInt(2)
		w.WriteString("shared")
	})
	v, err := NewReader(p, "holder", m).ReadAsset()
	require.NoError(t, err)
	assert.Equal(t, "shared", v.(*holder).Shared)

	bad := payload([]string{"Game.HolderReader, Game"}, 1, func(w *binio.Writer) {
		w.Write7BitEncodedInt(1)
		w.Write7BitEncodedInt(2)
	})
	_, err = NewReader(bad, "holder", m).ReadAsset()
	assert.ErrorIs(t, err, ErrBadReaderIndex)
}

func TestExternalReferenceWithoutManager(t *testing.T) {
	r := NewReader([]byte{3, 'a', 'b', 'c'}, "dir/asset", nil)
	_, err := r.ReadExternalReference()
	assert.ErrorIs(t, err, ErrNoManager)

	r = NewReader([]byte{0}, "dir/asset", nil)
	v, err := r.ReadExternalReference()
	require.NoError(t, err)
	assert.Nil(t, v)
}
