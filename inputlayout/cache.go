package inputlayout

import (
	"errors"
	"log/slog"

	"github.com/gogpu/fx"
	"github.com/gogpu/fx/backend"
	"github.com/gogpu/fx/vertex"
)

type entry struct {
	key *FrozenKey
	id  backend.InputLayoutID
}

// Cache maps stream bindings to input layouts for one vertex shader.
//
// Lookups hash the key and compare structurally within the bucket, so two
// distinct keys with equal contents share one native layout. The cache owns
// every layout it creates; Release destroys them.
type Cache struct {
	dev    backend.Device
	shader backend.ShaderID
	label  string

	buckets map[uint64][]*entry
	count   int
	scratch Key

	hits   uint64
	misses uint64

	log *slog.Logger
}

// NewCache creates an empty cache for the vertex shader id on dev.
func NewCache(dev backend.Device, shader backend.ShaderID, label string) *Cache {
	return &Cache{
		dev:     dev,
		shader:  shader,
		label:   label,
		buckets: make(map[uint64][]*entry),
		log:     fx.ComponentLogger("inputlayout"),
	}
}

// Shader returns the vertex shader the cache builds layouts for.
func (c *Cache) Shader() backend.ShaderID { return c.shader }

// GetOrCreate returns the layout for the streams in k, creating it on the
// first request. k is not retained.
func (c *Cache) GetOrCreate(k *Key) (backend.InputLayoutID, error) {
	h := k.Hash()
	for _, e := range c.buckets[h] {
		if e.key.Matches(k) {
			c.hits++
			return e.id, nil
		}
	}
	c.misses++

	if c.dev == nil {
		return backend.InvalidID, ErrNoDevice
	}
	id, err := c.create(k)
	if err != nil {
		return backend.InvalidID, err
	}
	frozen := k.Freeze()
	c.buckets[h] = append(c.buckets[h], &entry{key: frozen, id: id})
	c.count++
	c.log.Debug("input layout created", "shader", c.label, "streams", k.Count(), "layouts", c.count)
	return id, nil
}

// GetOrCreateFor is GetOrCreate over bindings, using an internal scratch key.
func (c *Cache) GetOrCreateFor(bindings ...vertex.Binding) (backend.InputLayoutID, error) {
	c.scratch.Set(bindings...)
	id, err := c.GetOrCreate(&c.scratch)
	c.scratch.Reset()
	return id, err
}

func (c *Cache) create(k *Key) (backend.InputLayoutID, error) {
	desc := BuildDescriptor(k)
	desc.Shader = c.shader
	desc.Label = c.label

	attempts := [][]string{desc.Semantics()}
	id, err := c.dev.CreateInputLayout(desc)
	if err == nil {
		return id, nil
	}
	if errors.Is(err, backend.ErrInputSignature) && substitutePosition(desc) {
		c.log.Warn("input signature mismatch, retrying with legacy position semantic",
			"shader", c.label, "err", err)
		attempts = append(attempts, desc.Semantics())
		id, err = c.dev.CreateInputLayout(desc)
		if err == nil {
			return id, nil
		}
	}
	return backend.InvalidID, &LayoutError{Shader: c.label, Attempts: attempts, Err: err}
}

// substitutePosition replaces the system-value position semantic with the
// legacy one and reports whether anything changed.
func substitutePosition(desc *backend.InputLayoutDescriptor) bool {
	changed := false
	for i := range desc.Elements {
		if desc.Elements[i].Semantic == vertex.PositionSemantic {
			desc.Elements[i].Semantic = vertex.PositionSemanticLegacy
			changed = true
		}
	}
	return changed
}

// BuildDescriptor flattens the streams of k into input elements.
//
// Elements are emitted in binding order; each stream reads from the slot
// equal to its position and steps at its instance frequency. When two
// elements end up with the same semantic and index, the later index is
// incremented until the pair is unique.
func BuildDescriptor(k *Key) *backend.InputLayoutDescriptor {
	desc := &backend.InputLayoutDescriptor{
		Strides: make([]int, k.Count()),
	}
	for slot, decl := range k.decls {
		if decl == nil {
			continue
		}
		desc.Strides[slot] = decl.Stride()
		for i := 0; i < decl.Len(); i++ {
			e := decl.Element(i)
			desc.Elements = append(desc.Elements, backend.InputElement{
				Semantic:      e.Usage.SemanticName(),
				SemanticIndex: e.UsageIndex,
				Format:        e.Format,
				Offset:        e.Offset,
				Slot:          slot,
				StepRate:      k.freqs[slot],
			})
		}
	}
	uniquifySemantics(desc.Elements)
	return desc
}

func uniquifySemantics(elems []backend.InputElement) {
	for i := 1; i < len(elems); i++ {
		for taken(elems[:i], elems[i]) {
			elems[i].SemanticIndex++
		}
	}
}

func taken(prev []backend.InputElement, e backend.InputElement) bool {
	for _, p := range prev {
		if p.Semantic == e.Semantic && p.SemanticIndex == e.SemanticIndex {
			return true
		}
	}
	return false
}

// Len returns the number of cached layouts.
func (c *Cache) Len() int { return c.count }

// Stats returns the number of cache hits and misses.
func (c *Cache) Stats() (hits, misses uint64) { return c.hits, c.misses }

// HitRate returns the cache hit rate (0.0 to 1.0).
//
// Returns 0.0 if no requests have been made.
func (c *Cache) HitRate() float64 {
	total := c.hits + c.misses
	if total == 0 {
		return 0.0
	}
	return float64(c.hits) / float64(total)
}

// Release destroys every cached layout and empties the cache.
func (c *Cache) Release() {
	for _, bucket := range c.buckets {
		for _, e := range bucket {
			if c.dev != nil {
				c.dev.DestroyInputLayout(e.id)
			}
		}
	}
	c.buckets = make(map[uint64][]*entry)
	c.count = 0
	c.hits, c.misses = 0, 0
}
