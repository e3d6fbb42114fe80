package content

import (
	"fmt"

	"github.com/gogpu/fx/effect"
	"github.com/gogpu/fx/vertex"
)

type vertexDeclarationReader struct{}

func (vertexDeclarationReader) TargetType() string { return graphicsNamespace + "VertexDeclaration" }

func (vertexDeclarationReader) Read(r *Reader, _ any) (any, error) {
	stride, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	n, err := readCount(r)
	if err != nil {
		return nil, err
	}

	elems := make([]vertex.Element, n)
	for i := range elems {
		var f [4]int32
		for j := range f {
			if f[j], err = r.ReadInt32(); err != nil {
				return nil, err
			}
		}
		e := vertex.Element{
			Offset:     int(f[0]),
			Format:     vertex.ElementFormat(f[1]),
			Usage:      vertex.ElementUsage(f[2]),
			UsageIndex: int(f[3]),
		}
		if f[1] < 0 || !e.Format.Valid() {
			return nil, fmt.Errorf("%w: vertex element %d format %d", ErrUnsupportedFormat, i, f[1])
		}
		if f[2] < 0 || !e.Usage.Valid() {
			return nil, fmt.Errorf("%w: vertex element %d usage %d", ErrUnsupportedFormat, i, f[2])
		}
		elems[i] = e
	}
	return vertex.NewDeclarationWithStride(int(stride), elems...), nil
}

// effectReader hands the embedded effect bytes to effect.Decode, creating
// native handles when the reader has a device.
type effectReader struct{}

func (effectReader) TargetType() string { return graphicsNamespace + "Effect" }

func (effectReader) Read(r *Reader, _ any) (any, error) {
	size, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	if int64(size) > int64(r.Len()) {
		return nil, fmt.Errorf("content: effect of %d bytes: %w", size, ErrTruncated)
	}
	data, err := r.ReadBytes(int(size))
	if err != nil {
		return nil, err
	}

	opts := []effect.Option{effect.WithLabel(r.AssetName())}
	if dev := r.Device(); dev != nil {
		opts = append(opts, effect.WithDevice(dev))
	}
	b, err := effect.Decode(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("content: effect %q: %w", r.AssetName(), err)
	}
	return b, nil
}

// registerBuiltins installs every reader this package ships.
func registerBuiltins(g *Registry) {
	registerValueReaders(g)
	registerGenericReaders(g)

	static := map[string]TypeReader{
		"VertexDeclarationReader": vertexDeclarationReader{},
		"Texture2DReader":         texture2DReader{},
		"SpriteFontReader":        spriteFontReader{},
		"EffectReader":            effectReader{},
	}
	for name, tr := range static {
		g.Register(readerNamespace+name+", "+FrameworkAssembly, func([]string) (TypeReader, error) {
			return tr, nil
		})
	}
}
