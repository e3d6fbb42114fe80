package content

import (
	"fmt"
	"path"
	"slices"

	"github.com/gogpu/fx/backend"
	"github.com/gogpu/fx/internal/binio"
)

// Reader decodes the payload of one container.
//
// Reader is not safe for concurrent use.
type Reader struct {
	*binio.Reader

	asset    string
	readers  []TypeReader
	manager  *Manager
	device   backend.Device
	registry *Registry

	// fixups[i] holds the callbacks waiting for shared resource i.
	fixups [][]func(any)

	// external holds assets loaded by reference; the manager owns them.
	external []releaser
}

// NewReader returns a reader over a decompressed payload. asset names the
// content for external references and labels; m may be nil.
func NewReader(payload []byte, asset string, m *Manager) *Reader {
	r := &Reader{
		Reader:   binio.NewReader(payload),
		asset:    asset,
		manager:  m,
		registry: DefaultRegistry(),
	}
	if m != nil {
		r.device = m.device
		r.registry = m.registry
	}
	return r
}

// AssetName returns the name of the asset being read.
func (r *Reader) AssetName() string { return r.asset }

// Device returns the device native resources are created on, or nil.
func (r *Reader) Device() backend.Device { return r.device }

// TypeReaders returns the reader table of the stream.
func (r *Reader) TypeReaders() []TypeReader { return r.readers }

// ReadAsset reads the reader table, the shared resource count, the
// primary object and the shared resources, in that order.
func (r *Reader) ReadAsset() (any, error) {
	if _, err := r.registry.LoadAssetReaders(r); err != nil {
		return nil, err
	}
	shared, err := r.Read7BitEncodedInt()
	if err != nil {
		return nil, fmt.Errorf("content: shared resource count: %w", err)
	}
	if shared < 0 || shared > r.Len() {
		return nil, fmt.Errorf("content: shared resource count %d: %w", shared, ErrTruncated)
	}
	r.fixups = make([][]func(any), shared)

	v, err := r.ReadObject()
	if err != nil {
		return nil, err
	}

	resources := make([]any, 0, shared)
	for i := range shared {
		res, err := r.ReadObject()
		if err != nil {
			r.Discard(append(resources, v)...)
			return nil, fmt.Errorf("content: shared resource %d: %w", i, err)
		}
		resources = append(resources, res)
		for _, fix := range r.fixups[i] {
			fix(res)
		}
	}
	return v, nil
}

// Discard releases the native resources held by values decoded before a
// failed read, looking inside []any and map[any]any collections. Assets
// loaded through ReadExternalReference are left to the manager.
func (r *Reader) Discard(values ...any) {
	r.discard(make(map[releaser]struct{}), values)
}

func (r *Reader) discard(seen map[releaser]struct{}, values []any) {
	for _, v := range values {
		switch v := v.(type) {
		case []any:
			r.discard(seen, v)
		case map[any]any:
			for k, e := range v {
				r.discard(seen, []any{k, e})
			}
		case releaser:
			if _, ok := seen[v]; ok || slices.Contains(r.external, v) {
				continue
			}
			seen[v] = struct{}{}
			v.Release()
		}
	}
}

// ReadObject reads a reader index and the value it decodes. Index zero is nil.
func (r *Reader) ReadObject() (any, error) {
	tr, err := r.readTypeIndex()
	if err != nil || tr == nil {
		return nil, err
	}
	return tr.Read(r, nil)
}

// ReadObjectInto is ReadObject deserializing into existing.
func (r *Reader) ReadObjectInto(existing any) (any, error) {
	tr, err := r.readTypeIndex()
	if err != nil || tr == nil {
		return existing, err
	}
	return tr.Read(r, existing)
}

// ReadRawObject decodes a value with tr and no reader index.
func (r *Reader) ReadRawObject(tr TypeReader) (any, error) {
	return tr.Read(r, nil)
}

// ReadElement reads one element of a collection whose elements are
// decoded by elem. Value types are stored raw, other types carry a
// reader index.
func (r *Reader) ReadElement(elem TypeReader) (any, error) {
	if isValueType(elem) {
		return elem.Read(r, nil)
	}
	return r.ReadObject()
}

// ReadSharedResource reads a shared resource reference. fixup runs with
// the resource once the resources following the primary object are read.
// A zero reference never calls fixup.
func (r *Reader) ReadSharedResource(fixup func(any)) error {
	id, err := r.Read7BitEncodedInt()
	if err != nil {
		return err
	}
	if id == 0 {
		return nil
	}
	if id < 0 || id > len(r.fixups) {
		return fmt.Errorf("content: shared resource %d of %d: %w", id, len(r.fixups), ErrBadReaderIndex)
	}
	r.fixups[id-1] = append(r.fixups[id-1], fixup)
	return nil
}

// ReadExternalReference reads a reference to another asset, named
// relative to this one, and loads it through the manager. An empty
// reference yields nil.
func (r *Reader) ReadExternalReference() (any, error) {
	name, err := r.ReadString()
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, nil
	}
	if r.manager == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoManager, name)
	}
	v, err := r.manager.Load(path.Join(path.Dir(r.asset), name))
	if rel, ok := v.(releaser); ok {
		r.external = append(r.external, rel)
	}
	return v, err
}

func (r *Reader) readTypeIndex() (TypeReader, error) {
	off := r.Pos()
	id, err := r.Read7BitEncodedInt()
	if err != nil {
		return nil, err
	}
	if id == 0 {
		return nil, nil
	}
	if id < 0 || id > len(r.readers) {
		return nil, fmt.Errorf("content: offset %d: reader %d of %d: %w", off, id, len(r.readers), ErrBadReaderIndex)
	}
	return r.readers[id-1], nil
}

// valueTyped is implemented by readers of value types, whose values are
// never null and carry no reader index inside collections.
type valueTyped interface {
	ValueType() bool
}

func isValueType(tr TypeReader) bool {
	v, ok := tr.(valueTyped)
	return ok && v.ValueType()
}
