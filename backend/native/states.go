package native

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/gogpu/fx/internal/hashx"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// BlendState is the render pipeline form of a blend state block.
type BlendState struct {
	// Blend is nil when the block disables blending.
	Blend *gputypes.BlendState

	// WriteMask holds the color write mask of each render target.
	WriteMask [4]gputypes.ColorWriteMask

	// Constant is the blend constant color.
	Constant [4]float64

	// SampleMask is the multisample coverage mask.
	SampleMask uint32
}

// DepthStencilState is the render pipeline form of a depth-stencil block.
type DepthStencilState struct {
	hal.DepthStencilState

	// StencilReference is set on the render pass, not the pipeline.
	StencilReference uint32
}

// RasterizerState is the render pipeline form of a rasterizer block.
type RasterizerState struct {
	Primitive gputypes.PrimitiveState

	DepthBias           int32
	SlopeScaleDepthBias float32

	Wireframe   bool
	Multisample bool
	ScissorTest bool
}

type stateKind uint32

const (
	kindBlend stateKind = iota + 1
	kindDepthStencil
	kindRasterizer
)

type stateEntry struct {
	id    uint64
	hash  uint64
	kind  stateKind
	value any
	refs  int
}

// StateCache de-duplicates converted state blocks.
//
// Effects commonly repeat the same blend or depth block across passes;
// structurally equal blocks share one entry and one ID. Entries are
// reference counted and dropped when the last owner releases them.
//
// StateCache is safe for concurrent use.
type StateCache struct {
	mu sync.RWMutex

	byHash map[uint64]*stateEntry
	byID   map[uint64]*stateEntry

	hits   uint64
	misses uint64
}

// NewStateCache creates an empty cache.
func NewStateCache() *StateCache {
	return &StateCache{
		byHash: make(map[uint64]*stateEntry),
		byID:   make(map[uint64]*stateEntry),
	}
}

// acquire returns the ID of an entry equal to value, creating one with
// newID when none exists.
func (c *StateCache) acquire(kind stateKind, value any, newID func() uint64) uint64 {
	h := hashState(kind, value)

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.byHash[h]; ok {
		e.refs++
		atomic.AddUint64(&c.hits, 1)
		return e.id
	}

	e := &stateEntry{id: newID(), hash: h, kind: kind, value: value, refs: 1}
	c.byHash[h] = e
	c.byID[e.id] = e
	atomic.AddUint64(&c.misses, 1)
	return e.id
}

// release drops one reference. It reports whether the ID was known.
func (c *StateCache) release(id uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.byID[id]
	if !ok {
		return false
	}
	e.refs--
	if e.refs <= 0 {
		delete(c.byID, id)
		delete(c.byHash, e.hash)
	}
	return true
}

func (c *StateCache) lookup(id uint64, kind stateKind) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.byID[id]
	if !ok || e.kind != kind {
		return nil, false
	}
	return e.value, true
}

// Stats returns cache hit and miss counts.
func (c *StateCache) Stats() (hits, misses uint64) {
	return atomic.LoadUint64(&c.hits), atomic.LoadUint64(&c.misses)
}

// HitRate returns the cache hit rate (0.0 to 1.0).
// Returns 0 if no lookups have been performed.
func (c *StateCache) HitRate() float64 {
	hits, misses := c.Stats()
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

// Size returns the number of live entries.
func (c *StateCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byID)
}

// Clear drops every entry and resets statistics.
func (c *StateCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.byHash = make(map[uint64]*stateEntry)
	c.byID = make(map[uint64]*stateEntry)
	atomic.StoreUint64(&c.hits, 0)
	atomic.StoreUint64(&c.misses, 0)
}

func hashState(kind stateKind, value any) uint64 {
	h := hashx.New()
	h.Uint32(uint32(kind))

	switch v := value.(type) {
	case *BlendState:
		if v.Blend != nil {
			h.Bool(true)
			// Color blend
			h.Uint32(uint32(v.Blend.Color.SrcFactor))
			h.Uint32(uint32(v.Blend.Color.DstFactor))
			h.Uint32(uint32(v.Blend.Color.Operation))
			// Alpha blend
			h.Uint32(uint32(v.Blend.Alpha.SrcFactor))
			h.Uint32(uint32(v.Blend.Alpha.DstFactor))
			h.Uint32(uint32(v.Blend.Alpha.Operation))
		} else {
			h.Bool(false)
		}
		for _, m := range v.WriteMask {
			h.Uint32(uint32(m))
		}
		for _, c := range v.Constant {
			h.Uint64(math.Float64bits(c))
		}
		h.Uint32(v.SampleMask)

	case *DepthStencilState:
		h.Uint32(uint32(v.Format))
		h.Bool(v.DepthWriteEnabled)
		h.Uint32(uint32(v.DepthCompare))
		for _, f := range [2]*hal.StencilFaceState{&v.StencilFront, &v.StencilBack} {
			h.Uint32(uint32(f.Compare))
			h.Uint32(uint32(f.FailOp))
			h.Uint32(uint32(f.DepthFailOp))
			h.Uint32(uint32(f.PassOp))
		}
		h.Uint32(uint32(v.StencilReadMask))
		h.Uint32(uint32(v.StencilWriteMask))
		h.Uint32(v.StencilReference)

	case *RasterizerState:
		h.Uint32(uint32(v.Primitive.Topology))
		h.Uint32(uint32(v.Primitive.FrontFace))
		h.Uint32(uint32(v.Primitive.CullMode))
		h.Uint32(uint32(v.DepthBias))
		h.Uint32(math.Float32bits(v.SlopeScaleDepthBias))
		h.Bool(v.Wireframe)
		h.Bool(v.Multisample)
		h.Bool(v.ScissorTest)
	}

	return h.Sum64()
}
