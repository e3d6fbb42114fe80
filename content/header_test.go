package content

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadHeader(t *testing.T) {
	p := []byte{1, 2, 3}
	data := container(t, FlagHiDef, p)

	h, got, err := ReadHeader(data)
	require.NoError(t, err)
	assert.Equal(t, PlatformDesktopGL, h.Platform)
	assert.Equal(t, VersionCurrent, h.Version)
	assert.True(t, h.HiDef())
	assert.False(t, h.Compressed())
	assert.Equal(t, uint32(len(data)), h.Size)
	assert.Equal(t, p, got)
}

func TestReadHeaderLZ4(t *testing.T) {
	p := bytes.Repeat([]byte("sprite batch "), 64)
	data := container(t, FlagCompressedLZ4, p)
	require.Less(t, len(data), len(p))

	h, got, err := ReadHeader(data)
	require.NoError(t, err)
	assert.True(t, h.Compressed())
	assert.Equal(t, uint32(len(p)), h.DecompressedSize)
	assert.Equal(t, p, got)
}

func TestWriteHeaderIncompressibleFallsBack(t *testing.T) {
	data := container(t, FlagCompressedLZ4, []byte{7})
	h, got, err := ReadHeader(data)
	require.NoError(t, err)
	assert.False(t, h.Compressed())
	assert.Equal(t, []byte{7}, got)
}

func TestReadHeaderErrors(t *testing.T) {
	valid := container(t, 0, []byte{0})
	mutate := func(i int, b byte) []byte {
		d := bytes.Clone(valid)
		d[i] = b
		return d
	}

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"short", valid[:5], ErrTruncated},
		{"signature", mutate(0, 'X'), ErrBadSignature},
		{"platform", mutate(4, 'q'), ErrUnknownPlatform},
		{"version", mutate(5, 3), ErrUnsupportedVersion},
		{"lzx", mutate(6, FlagCompressedLZX), ErrUnsupportedCompression},
		{"length", valid[:len(valid)-1], ErrTruncated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ReadHeader(tt.data)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestReadHeaderVersion4(t *testing.T) {
	data := container(t, 0, []byte{9})
	data[5] = VersionMin
	h, _, err := ReadHeader(data)
	require.NoError(t, err)
	assert.Equal(t, VersionMin, h.Version)
}

func TestReadHeaderLZ4SizeMismatch(t *testing.T) {
	p := bytes.Repeat([]byte{'a'}, 256)
	data := container(t, FlagCompressedLZ4, p)
	binary.LittleEndian.PutUint32(data[headerSize:], 100)
	_, _, err := ReadHeader(data)
	assert.Error(t, err)
}

func TestReadHeaderLZ4SizeBound(t *testing.T) {
	data := []byte{'G', 'C', 'N', 'T', byte(PlatformDesktopGL), VersionCurrent, FlagCompressedLZ4,
		20, 0, 0, 0, 0, 0, 0, 0x40, 0x10, 'a', 0, 0, 0}
	binary.LittleEndian.PutUint32(data[headerSize:], 1<<30)
	require.Len(t, data, 20)

	h, got, err := ReadHeader(data)
	require.ErrorIs(t, err, ErrTruncated)
	assert.Nil(t, h)
	assert.Nil(t, got)
}

func TestPlatforms(t *testing.T) {
	for _, c := range "wxmiadXWnMrPvOSGb" {
		assert.True(t, Platform(c).Valid(), string(c))
	}
	assert.False(t, Platform('z').Valid())
	assert.Equal(t, "DesktopGL", PlatformDesktopGL.String())
}
