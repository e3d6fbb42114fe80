package content

import (
	"github.com/gogpu/fx/state"
)

// Namespaces of the built-in readers and their targets.
const (
	readerNamespace    = "Microsoft.Xna.Framework.Content."
	frameworkNamespace = "Microsoft.Xna.Framework."
	graphicsNamespace  = "Microsoft.Xna.Framework.Graphics."
)

// Vector2 is a two-component vector.
type Vector2 struct{ X, Y float32 }

// Vector3 is a three-component vector.
type Vector3 struct{ X, Y, Z float32 }

// Vector4 is a four-component vector.
type Vector4 struct{ X, Y, Z, W float32 }

// Rectangle is an integer rectangle.
type Rectangle struct{ X, Y, Width, Height int32 }

// Matrix is a row-major 4x4 matrix.
type Matrix [16]float32

// valueReader decodes a value type with a fixed function.
type valueReader[T any] struct {
	target string
	read   func(*Reader) (T, error)
}

func (v *valueReader[T]) TargetType() string { return v.target }
func (v *valueReader[T]) ValueType() bool    { return true }

func (v *valueReader[T]) Read(r *Reader, _ any) (any, error) {
	x, err := v.read(r)
	if err != nil {
		return nil, err
	}
	return x, nil
}

func registerValue[T any](g *Registry, reader, target string, read func(*Reader) (T, error)) {
	g.Register(readerNamespace+reader+", "+FrameworkAssembly, func([]string) (TypeReader, error) {
		return &valueReader[T]{target: target, read: read}, nil
	})
}

// stringReader is the one built-in reference type without a Go pointer.
type stringReader struct{}

func (stringReader) TargetType() string { return "System.String" }

func (stringReader) Read(r *Reader, _ any) (any, error) {
	s, err := r.ReadString()
	if err != nil {
		return nil, err
	}
	return s, nil
}

func registerValueReaders(g *Registry) {
	registerValue(g, "BooleanReader", "System.Boolean", func(r *Reader) (bool, error) { return r.ReadBool() })
	registerValue(g, "ByteReader", "System.Byte", func(r *Reader) (uint8, error) { return r.ReadUint8() })
	registerValue(g, "SByteReader", "System.SByte", func(r *Reader) (int8, error) { return r.ReadInt8() })
	registerValue(g, "CharReader", "System.Char", func(r *Reader) (rune, error) { return r.ReadChar() })
	registerValue(g, "Int16Reader", "System.Int16", func(r *Reader) (int16, error) { return r.ReadInt16() })
	registerValue(g, "Int32Reader", "System.Int32", func(r *Reader) (int32, error) { return r.ReadInt32() })
	registerValue(g, "Int64Reader", "System.Int64", func(r *Reader) (int64, error) { return r.ReadInt64() })
	registerValue(g, "UInt16Reader", "System.UInt16", func(r *Reader) (uint16, error) { return r.ReadUint16() })
	registerValue(g, "UInt32Reader", "System.UInt32", func(r *Reader) (uint32, error) { return r.ReadUint32() })
	registerValue(g, "UInt64Reader", "System.UInt64", func(r *Reader) (uint64, error) { return r.ReadUint64() })
	registerValue(g, "SingleReader", "System.Single", func(r *Reader) (float32, error) { return r.ReadFloat32() })
	registerValue(g, "DoubleReader", "System.Double", func(r *Reader) (float64, error) { return r.ReadFloat64() })
	g.Register(readerNamespace+"StringReader, "+FrameworkAssembly, func([]string) (TypeReader, error) {
		return stringReader{}, nil
	})

	registerValue(g, "Vector2Reader", frameworkNamespace+"Vector2", readVector2)
	registerValue(g, "Vector3Reader", frameworkNamespace+"Vector3", readVector3)
	registerValue(g, "Vector4Reader", frameworkNamespace+"Vector4", readVector4)
	registerValue(g, "ColorReader", frameworkNamespace+"Color", readColor)
	registerValue(g, "RectangleReader", frameworkNamespace+"Rectangle", readRectangle)
	registerValue(g, "MatrixReader", frameworkNamespace+"Matrix", readMatrix)
}

func readFloats(r *Reader, dst []float32) error {
	for i := range dst {
		f, err := r.ReadFloat32()
		if err != nil {
			return err
		}
		dst[i] = f
	}
	return nil
}

func readVector2(r *Reader) (Vector2, error) {
	var v [2]float32
	err := readFloats(r, v[:])
	return Vector2{v[0], v[1]}, err
}

func readVector3(r *Reader) (Vector3, error) {
	var v [3]float32
	err := readFloats(r, v[:])
	return Vector3{v[0], v[1], v[2]}, err
}

func readVector4(r *Reader) (Vector4, error) {
	var v [4]float32
	err := readFloats(r, v[:])
	return Vector4{v[0], v[1], v[2], v[3]}, err
}

func readMatrix(r *Reader) (Matrix, error) {
	var m Matrix
	err := readFloats(r, m[:])
	return m, err
}

func readColor(r *Reader) (state.Color, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return state.Color{}, err
	}
	return state.Color{R: b[0], G: b[1], B: b[2], A: b[3]}, nil
}

func readRectangle(r *Reader) (Rectangle, error) {
	var v [4]int32
	for i := range v {
		n, err := r.ReadInt32()
		if err != nil {
			return Rectangle{}, err
		}
		v[i] = n
	}
	return Rectangle{v[0], v[1], v[2], v[3]}, nil
}
