package content

import (
	"fmt"
	"image"
	"image/color"
)

// SurfaceFormat is the pixel layout of texture data.
type SurfaceFormat int32

// Surface formats.
const (
	SurfaceColor SurfaceFormat = iota
	SurfaceBgr565
	SurfaceBgra5551
	SurfaceBgra4444
	SurfaceDxt1
	SurfaceDxt3
	SurfaceDxt5
	SurfaceNormalizedByte2
	SurfaceNormalizedByte4
	SurfaceRgba1010102
	SurfaceRg32
	SurfaceRgba64
	SurfaceAlpha8
	SurfaceSingle
	SurfaceVector2
	SurfaceVector4
	SurfaceHalfSingle
	SurfaceHalfVector2
	SurfaceHalfVector4
	SurfaceHdrBlendable
)

type surfaceInfo struct {
	name string
	// size is bytes per pixel, or bytes per 4x4 block for block formats.
	size  int
	block bool
}

var surfaces = [...]surfaceInfo{
	SurfaceColor:           {"Color", 4, false},
	SurfaceBgr565:          {"Bgr565", 2, false},
	SurfaceBgra5551:        {"Bgra5551", 2, false},
	SurfaceBgra4444:        {"Bgra4444", 2, false},
	SurfaceDxt1:            {"Dxt1", 8, true},
	SurfaceDxt3:            {"Dxt3", 16, true},
	SurfaceDxt5:            {"Dxt5", 16, true},
	SurfaceNormalizedByte2: {"NormalizedByte2", 2, false},
	SurfaceNormalizedByte4: {"NormalizedByte4", 4, false},
	SurfaceRgba1010102:     {"Rgba1010102", 4, false},
	SurfaceRg32:            {"Rg32", 4, false},
	SurfaceRgba64:          {"Rgba64", 8, false},
	SurfaceAlpha8:          {"Alpha8", 1, false},
	SurfaceSingle:          {"Single", 4, false},
	SurfaceVector2:         {"Vector2", 8, false},
	SurfaceVector4:         {"Vector4", 16, false},
	SurfaceHalfSingle:      {"HalfSingle", 2, false},
	SurfaceHalfVector2:     {"HalfVector2", 4, false},
	SurfaceHalfVector4:     {"HalfVector4", 8, false},
	SurfaceHdrBlendable:    {"HdrBlendable", 8, false},
}

// Valid reports whether f is a known format.
func (f SurfaceFormat) Valid() bool { return f >= 0 && int(f) < len(surfaces) }

func (f SurfaceFormat) String() string {
	if !f.Valid() {
		return fmt.Sprintf("SurfaceFormat(%d)", int32(f))
	}
	return surfaces[f].name
}

// LevelSize returns the byte size of a w by h image in format f.
func (f SurfaceFormat) LevelSize(w, h int) int {
	info := surfaces[f]
	if info.block {
		return ((w + 3) / 4) * ((h + 3) / 4) * info.size
	}
	return w * h * info.size
}

// Texture2D is the CPU-side data of a 2D texture and its mip chain.
// Creating the GPU texture is left to the caller.
type Texture2D struct {
	Format        SurfaceFormat
	Width, Height int
	// Levels holds mip level data, largest first.
	Levels [][]byte
}

// LevelDimensions returns the size of mip level i.
func (t *Texture2D) LevelDimensions(i int) (w, h int) {
	return max(1, t.Width>>i), max(1, t.Height>>i)
}

// Image decodes the top mip level. Color data is premultiplied.
func (t *Texture2D) Image() (image.Image, error) {
	if len(t.Levels) == 0 {
		return nil, fmt.Errorf("content: texture has no levels")
	}
	pix := t.Levels[0]
	rect := image.Rect(0, 0, t.Width, t.Height)

	switch t.Format {
	case SurfaceColor:
		return &image.RGBA{Pix: pix, Stride: 4 * t.Width, Rect: rect}, nil
	case SurfaceAlpha8:
		return &image.Alpha{Pix: pix, Stride: t.Width, Rect: rect}, nil
	case SurfaceBgr565:
		img := image.NewRGBA(rect)
		for i := 0; i < t.Width*t.Height; i++ {
			v := uint16(pix[2*i]) | uint16(pix[2*i+1])<<8
			img.SetRGBA(i%t.Width, i/t.Width, color.RGBA{
				R: uint8((v >> 11) * 255 / 31),
				G: uint8((v >> 5 & 0x3f) * 255 / 63),
				B: uint8((v & 0x1f) * 255 / 31),
				A: 255,
			})
		}
		return img, nil
	}
	return nil, fmt.Errorf("%w: image from %s", ErrUnsupportedFormat, t.Format)
}

type texture2DReader struct{}

func (texture2DReader) TargetType() string { return graphicsNamespace + "Texture2D" }

func (texture2DReader) Read(r *Reader, _ any) (any, error) {
	format, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	t := &Texture2D{Format: SurfaceFormat(format)}
	if !t.Format.Valid() {
		return nil, fmt.Errorf("%w: surface format %d", ErrUnsupportedFormat, format)
	}

	var dims [2]uint32
	for i := range dims {
		if dims[i], err = r.ReadUint32(); err != nil {
			return nil, err
		}
	}
	t.Width, t.Height = int(dims[0]), int(dims[1])
	levels, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	if levels > 32 {
		return nil, fmt.Errorf("%w: %d mip levels", ErrUnsupportedFormat, levels)
	}

	t.Levels = make([][]byte, levels)
	for i := range t.Levels {
		size, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		w, h := t.LevelDimensions(i)
		if want := t.Format.LevelSize(w, h); int64(size) != int64(want) {
			return nil, fmt.Errorf("content: texture level %d is %d bytes, %s %dx%d needs %d: %w",
				i, size, t.Format, w, h, want, ErrUnsupportedFormat)
		}
		if t.Levels[i], err = r.ReadBytes(int(size)); err != nil {
			return nil, err
		}
	}
	return t, nil
}
