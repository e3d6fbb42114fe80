package content

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// genericTarget renders def with bracketed type arguments, matching
// TypeName.Target.
func genericTarget(def string, args ...string) string {
	var sb strings.Builder
	sb.WriteString(def)
	sb.WriteByte('[')
	for i, a := range args {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString("[" + a + "]")
	}
	sb.WriteByte(']')
	return sb.String()
}

func requireArgs(args []string, n int, reader string) error {
	if len(args) != n {
		return fmt.Errorf("content: %s takes %d type arguments, got %d", reader, n, len(args))
	}
	return nil
}

func elementReader(l Lookup, target string) (TypeReader, error) {
	tr, ok := l.ReaderFor(target)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoReader, target)
	}
	return tr, nil
}

// readCount reads a u32 element count bounded by the remaining data.
func readCount(r *Reader) (int, error) {
	n, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}
	if int64(n) > int64(r.Len()) {
		return 0, fmt.Errorf("content: element count %d: %w", n, ErrTruncated)
	}
	return int(n), nil
}

// nullableReader reads a presence flag and, when set, the raw value.
type nullableReader struct {
	target, elemTarget string
	elem               TypeReader
}

func (n *nullableReader) TargetType() string { return n.target }
func (n *nullableReader) ValueType() bool    { return true }

func (n *nullableReader) Initialize(l Lookup) (err error) {
	n.elem, err = elementReader(l, n.elemTarget)
	return err
}

func (n *nullableReader) Read(r *Reader, _ any) (any, error) {
	ok, err := r.ReadBool()
	if err != nil || !ok {
		return nil, err
	}
	return n.elem.Read(r, nil)
}

// enumReader reads the 32-bit underlying value of an enum.
type enumReader struct{ target string }

func (e *enumReader) TargetType() string { return e.target }
func (e *enumReader) ValueType() bool    { return true }

func (e *enumReader) Read(r *Reader, _ any) (any, error) {
	v, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	return v, nil
}

// sliceReader reads arrays and lists as []any.
type sliceReader struct {
	target, elemTarget string
	elem               TypeReader
}

func (s *sliceReader) TargetType() string { return s.target }

func (s *sliceReader) Initialize(l Lookup) (err error) {
	s.elem, err = elementReader(l, s.elemTarget)
	return err
}

func (s *sliceReader) Read(r *Reader, existing any) (any, error) {
	n, err := readCount(r)
	if err != nil {
		return nil, err
	}
	out, _ := existing.([]any)
	start := len(out)
	out = slices.Grow(out, n)
	for i := range n {
		v, err := r.ReadElement(s.elem)
		if err != nil {
			r.Discard(out[start:]...)
			return nil, fmt.Errorf("content: %s element %d: %w", s.target, i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// dictionaryReader reads key/value pairs into map[any]any.
type dictionaryReader struct {
	target               string
	keyTarget, valTarget string
	key, val             TypeReader
}

func (d *dictionaryReader) TargetType() string { return d.target }

func (d *dictionaryReader) Initialize(l Lookup) (err error) {
	if d.key, err = elementReader(l, d.keyTarget); err != nil {
		return err
	}
	d.val, err = elementReader(l, d.valTarget)
	return err
}

func (d *dictionaryReader) Read(r *Reader, existing any) (any, error) {
	n, err := readCount(r)
	if err != nil {
		return nil, err
	}
	out, _ := existing.(map[any]any)
	if out == nil {
		out = make(map[any]any, n)
	}
	var added []any
	for i := range n {
		k, err := r.ReadElement(d.key)
		if err != nil {
			r.Discard(added...)
			return nil, fmt.Errorf("content: %s key %d: %w", d.target, i, err)
		}
		if k == nil || !reflect.TypeOf(k).Comparable() {
			r.Discard(append(added, k)...)
			return nil, fmt.Errorf("%w: %s key %d of type %T", ErrUnsupportedFormat, d.target, i, k)
		}
		v, err := r.ReadElement(d.val)
		if err != nil {
			r.Discard(append(added, k)...)
			return nil, fmt.Errorf("content: %s value %d: %w", d.target, i, err)
		}
		out[k] = v
		added = append(added, k, v)
	}
	return out, nil
}

func registerGenericReaders(g *Registry) {
	reg := func(name string, arity int, f func(args []string) TypeReader) {
		g.Register(readerNamespace+name+", "+FrameworkAssembly, func(args []string) (TypeReader, error) {
			if err := requireArgs(args, arity, name); err != nil {
				return nil, err
			}
			return f(args), nil
		})
	}

	reg("NullableReader`1", 1, func(a []string) TypeReader {
		return &nullableReader{target: genericTarget("System.Nullable`1", a[0]), elemTarget: a[0]}
	})
	reg("EnumReader`1", 1, func(a []string) TypeReader {
		return &enumReader{target: a[0]}
	})
	reg("ArrayReader`1", 1, func(a []string) TypeReader {
		return &sliceReader{target: a[0] + "[]", elemTarget: a[0]}
	})
	reg("ListReader`1", 1, func(a []string) TypeReader {
		return &sliceReader{target: genericTarget("System.Collections.Generic.List`1", a[0]), elemTarget: a[0]}
	})
	reg("DictionaryReader`2", 2, func(a []string) TypeReader {
		return &dictionaryReader{
			target:    genericTarget("System.Collections.Generic.Dictionary`2", a[0], a[1]),
			keyTarget: a[0],
			valTarget: a[1],
		}
	})
}
