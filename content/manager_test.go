package content

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gogpu/fx/backend"
	"github.com/gogpu/fx/effect"
	"github.com/gogpu/fx/internal/binio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int32Asset(t *testing.T, v int32) []byte {
	t.Helper()
	return container(t, 0, payload([]string{int32ReaderName}, 0, func(w *binio.Writer) {
		w.Write7BitEncodedInt(1)
		w.WriteInt32(v)
	}))
}

func effectAsset(t *testing.T) []byte {
	t.Helper()
	data := minimalEffect(t)
	return container(t, FlagCompressedLZ4, payload([]string{effectReaderName}, 0, func(w *binio.Writer) {
		w.Write7BitEncodedInt(1)
		w.WriteUint32(uint32(len(data)))
		w.WriteBytes(data)
	}))
}

func TestManagerLoad(t *testing.T) {
	fsys := fstest.MapFS{
		"numbers/answer.gcnt": {Data: int32Asset(t, 42)},
		"fonts/ui.gcnt":       {Data: container(t, FlagCompressedLZ4, spriteFontPayload())},
	}
	m := NewManager("Content", WithFS(fsys))

	v, err := m.Load("numbers/answer")
	require.NoError(t, err)
	assert.Equal(t, int32(42), v)
	assert.True(t, m.Loaded("./numbers/answer.gcnt"))

	n, err := LoadAs[int32](m, `numbers\answer`)
	require.NoError(t, err)
	assert.Equal(t, int32(42), n)
	assert.Equal(t, uint64(1), m.Stats().Hits)

	f, err := LoadAs[*SpriteFont](m, "fonts/ui")
	require.NoError(t, err)
	assert.Len(t, f.Glyphs, 2)

	_, err = LoadAs[string](m, "numbers/answer")
	assert.Error(t, err)

	_, err = m.Load("missing")
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.False(t, m.Loaded("missing"))
}

func TestManagerConcurrentLoadsShareDecode(t *testing.T) {
	dev := backend.NewNullDevice()
	m := NewManager("", WithFS(fstest.MapFS{"fx.gcnt": {Data: effectAsset(t)}}), WithDevice(dev))

	const workers = 12
	got := make([]*effect.Bundle, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, err := LoadAs[*effect.Bundle](m, "fx")
			assert.NoError(t, err)
			got[i] = b
		}()
	}
	wg.Wait()

	for _, b := range got {
		assert.Same(t, got[0], b)
	}
	assert.Equal(t, 1, dev.Stats().Shaders)
	assert.NotNil(t, got[0].CurrentTechnique.Passes[0].VertexShaderRecord().Layouts)
}

func TestManagerUnloadReleases(t *testing.T) {
	dev := backend.NewNullDevice()
	m := NewManager("", WithFS(fstest.MapFS{"fx.gcnt": {Data: effectAsset(t)}}), WithDevice(dev))

	_, err := m.Load("fx")
	require.NoError(t, err)
	assert.Equal(t, 2, dev.Live())

	assert.True(t, m.Unload("fx"))
	assert.False(t, m.Unload("fx"))
	assert.Zero(t, dev.Live())

	_, err = m.Load("fx")
	require.NoError(t, err)
	m.UnloadAll()
	assert.Zero(t, dev.Live())
}

func TestManagerCacheSizeEvicts(t *testing.T) {
	fsys := fstest.MapFS{
		"a.gcnt": {Data: int32Asset(t, 1)},
		"b.gcnt": {Data: int32Asset(t, 2)},
	}
	m := NewManager("", WithFS(fsys), WithCacheSize(1))
	_, err := m.Load("a")
	require.NoError(t, err)
	_, err = m.Load("b")
	require.NoError(t, err)
	assert.False(t, m.Loaded("a"))
	assert.True(t, m.Loaded("b"))
}

func TestManagerPreload(t *testing.T) {
	fsys := fstest.MapFS{}
	names := []string{"a", "b", "c", "d", "e", "f"}
	for i, n := range names {
		fsys[n+".gcnt"] = &fstest.MapFile{Data: int32Asset(t, int32(i))}
	}
	m := NewManager("", WithFS(fsys))

	require.NoError(t, m.Preload(context.Background(), names...))
	for _, n := range names {
		assert.True(t, m.Loaded(n), n)
	}

	err := m.Preload(context.Background(), "a", "nope")
	assert.ErrorIs(t, err, os.ErrNotExist)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.Preload(ctx, "zzz"), context.Canceled)
}

func TestManagerExternalReference(t *testing.T) {
	g := NewRegistry()
	registerBuiltins(g)
	g.Register("Game.RefReader, Game", func([]string) (TypeReader, error) { return refReader{}, nil })

	fsys := fstest.MapFS{
		"levels/one.gcnt": {Data: container(t, 0, payload([]string{"Game.RefReader, Game"}, 0, func(w *binio.Writer) {
			w.Write7BitEncodedInt(1)
			w.WriteString("../numbers/answer")
		}))},
		"numbers/answer.gcnt": {Data: int32Asset(t, 7)},
	}
	m := NewManager("", WithFS(fsys), WithRegistry(g))
	v, err := m.Load("levels/one")
	require.NoError(t, err)
	assert.Equal(t, int32(7), v)
	assert.True(t, m.Loaded("numbers/answer"))
}

func TestManagerFailedLoadReleases(t *testing.T) {
	const effectList = "Microsoft.Xna.Framework.Content.ListReader`1[[Microsoft.Xna.Framework.Graphics.Effect, Microsoft.Xna.Framework.Graphics]]"
	data := minimalEffect(t)
	writeEffect := func(w *binio.Writer) {
		w.Write7BitEncodedInt(1)
		w.WriteUint32(uint32(len(data)))
		w.WriteBytes(data)
	}

	tests := []struct {
		name string
		p    []byte
	}{
		{"shared resource", payload([]string{effectReaderName}, 1, func(w *binio.Writer) {
			writeEffect(w)
			w.Write7BitEncodedInt(9)
		})},
		{"list element", payload([]string{effectReaderName, effectList}, 0, func(w *binio.Writer) {
			w.Write7BitEncodedInt(2)
			w.WriteUint32(2)
			writeEffect(w)
			w.Write7BitEncodedInt(9)
		})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := backend.NewNullDevice()
			m := NewManager("", WithFS(fstest.MapFS{"broken.gcnt": {Data: container(t, 0, tt.p)}}), WithDevice(dev))

			v, err := m.Load("broken")
			require.ErrorIs(t, err, ErrBadReaderIndex)
			assert.Nil(t, v)
			assert.Zero(t, dev.Live())
			assert.False(t, m.Loaded("broken"))
		})
	}
}

func TestManagerFailedLoadKeepsReferencedAssets(t *testing.T) {
	g := NewRegistry()
	registerBuiltins(g)
	g.Register("Game.RefReader, Game", func([]string) (TypeReader, error) { return refReader{}, nil })

	level := payload([]string{"Game.RefReader, Game", "Microsoft.Xna.Framework.Content.ListReader`1[[Game.Ref, Game]]"}, 0, func(w *binio.Writer) {
		w.Write7BitEncodedInt(2)
		w.WriteUint32(2)
		w.Write7BitEncodedInt(1)
		w.WriteString("../fx")
		w.Write7BitEncodedInt(9)
	})
	dev := backend.NewNullDevice()
	fsys := fstest.MapFS{
		"levels/one.gcnt": {Data: container(t, 0, level)},
		"fx.gcnt":         {Data: effectAsset(t)},
	}
	m := NewManager("", WithFS(fsys), WithRegistry(g), WithDevice(dev))

	_, err := m.Load("levels/one")
	require.ErrorIs(t, err, ErrBadReaderIndex)
	assert.True(t, m.Loaded("fx"))
	assert.Equal(t, 2, dev.Live())

	m.UnloadAll()
	assert.Zero(t, dev.Live())
}

type refReader struct{}

func (refReader) TargetType() string { return "Game.Ref" }

func (refReader) Read(r *Reader, _ any) (any, error) { return r.ReadExternalReference() }

func TestManagerWatch(t *testing.T) {
	if testing.Short() {
		t.Skip("filesystem watch")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "counter.gcnt")
	require.NoError(t, os.WriteFile(path, int32Asset(t, 1), 0o600))

	m := NewManager(dir)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, m.Watch(ctx))

	v, err := m.Load("counter")
	require.NoError(t, err)
	assert.Equal(t, int32(1), v)

	require.NoError(t, os.WriteFile(path, int32Asset(t, 2), 0o600))
	assert.Eventually(t, func() bool { return !m.Loaded("counter") }, 5*time.Second, 10*time.Millisecond)

	v, err = m.Load("counter")
	require.NoError(t, err)
	assert.Equal(t, int32(2), v)
}

func TestManagerWatchNeedsRoot(t *testing.T) {
	m := NewManager("", WithFS(fstest.MapFS{}))
	assert.Error(t, m.Watch(context.Background()))
}

func TestAssetKey(t *testing.T) {
	for in, want := range map[string]string{
		"a/b":          "a/b",
		"./a/b.gcnt":   "a/b",
		`a\b.GCNT`:     "a/b",
		"a/../c":       "c",
		"fonts/ui.png": "fonts/ui.png",
	} {
		assert.Equal(t, want, assetKey(in), in)
	}
}
