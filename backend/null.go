package backend

import (
	"fmt"
	"sync"

	"github.com/gogpu/fx/state"
)

// Stats counts the native calls a NullDevice has served.
type Stats struct {
	Shaders       int
	Buffers       int
	BufferWrites  int
	Samplers      int
	States        int
	InputLayouts  int
	FailedLayouts int
	Destroyed     int
}

// NullDevice is a device that creates no native objects.
//
// It hands out sequential IDs, remembers what each ID was created from and
// validates input layouts against the reflected shader attributes exactly
// like a hardware backend would. It is used for headless tooling and tests.
//
// NullDevice is safe for concurrent use.
type NullDevice struct {
	mu       sync.Mutex
	nextID   uint64
	closed   bool
	profiles map[Profile]bool

	shaders  map[ShaderID]*ShaderDescriptor
	buffers  map[BufferID][]byte
	samplers map[SamplerID]state.Sampler
	states   map[StateID]any
	layouts  map[InputLayoutID]*InputLayoutDescriptor

	stats Stats

	// FailOn, when set, is consulted before each create call with the
	// operation name ("shader", "buffer", "sampler", "state", "layout").
	// A non-nil result fails the call.
	FailOn func(op string) error
}

// init registers the null backend on package import.
func init() {
	Register(BackendNull, func() (Device, error) {
		return NewNullDevice(), nil
	})
}

// NewNullDevice creates a device accepting every profile.
func NewNullDevice(profiles ...Profile) *NullDevice {
	d := &NullDevice{
		shaders:  make(map[ShaderID]*ShaderDescriptor),
		buffers:  make(map[BufferID][]byte),
		samplers: make(map[SamplerID]state.Sampler),
		states:   make(map[StateID]any),
		layouts:  make(map[InputLayoutID]*InputLayoutDescriptor),
	}
	if len(profiles) > 0 {
		d.profiles = make(map[Profile]bool, len(profiles))
		for _, p := range profiles {
			d.profiles[p] = true
		}
	}
	return d
}

// Name returns the backend identifier.
func (d *NullDevice) Name() string { return BackendNull }

// SupportsProfile reports whether p was accepted at construction.
func (d *NullDevice) SupportsProfile(p Profile) bool {
	return d.profiles == nil || d.profiles[p]
}

// Stats returns a snapshot of the call counters.
func (d *NullDevice) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}

// Live returns the number of resources not yet destroyed.
func (d *NullDevice) Live() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.shaders) + len(d.buffers) + len(d.samplers) + len(d.states) + len(d.layouts)
}

// Layout returns the descriptor an input layout was created from.
func (d *NullDevice) Layout(id InputLayoutID) (*InputLayoutDescriptor, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	desc, ok := d.layouts[id]
	return desc, ok
}

// BufferData returns a copy of a constant buffer's contents.
func (d *NullDevice) BufferData(id BufferID) ([]byte, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	b, ok := d.buffers[id]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), b...), true
}

// begin locks the device and runs the failure hook. The caller must unlock.
func (d *NullDevice) begin(op string) error {
	d.mu.Lock()
	if d.closed {
		return ErrClosed
	}
	if d.FailOn != nil {
		if err := d.FailOn(op); err != nil {
			return err
		}
	}
	d.nextID++
	return nil
}

// CreateShader records the descriptor.
func (d *NullDevice) CreateShader(desc *ShaderDescriptor) (ShaderID, error) {
	err := d.begin("shader")
	defer d.mu.Unlock()
	if err != nil {
		return InvalidID, err
	}
	if !d.SupportsProfile(desc.Profile) {
		return InvalidID, fmt.Errorf("%w: %s", ErrUnsupportedProfile, desc.Profile)
	}
	cp := *desc
	cp.Attributes = append([]VertexAttribute(nil), desc.Attributes...)
	id := ShaderID(d.nextID)
	d.shaders[id] = &cp
	d.stats.Shaders++
	return id, nil
}

// DestroyShader forgets a shader.
func (d *NullDevice) DestroyShader(id ShaderID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.shaders[id]; ok {
		delete(d.shaders, id)
		d.stats.Destroyed++
	}
}

// CreateConstantBuffer allocates a zeroed byte slice.
func (d *NullDevice) CreateConstantBuffer(desc *BufferDescriptor) (BufferID, error) {
	err := d.begin("buffer")
	defer d.mu.Unlock()
	if err != nil {
		return InvalidID, err
	}
	id := BufferID(d.nextID)
	d.buffers[id] = make([]byte, desc.Size)
	d.stats.Buffers++
	return id, nil
}

// WriteConstantBuffer copies data into the buffer.
func (d *NullDevice) WriteConstantBuffer(id BufferID, offset int, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	b, ok := d.buffers[id]
	if !ok {
		return fmt.Errorf("%w: buffer %d", ErrUnknownResource, id)
	}
	if offset < 0 || offset+len(data) > len(b) {
		return fmt.Errorf("backend: write [%d,%d) outside buffer of %d bytes", offset, offset+len(data), len(b))
	}
	copy(b[offset:], data)
	d.stats.BufferWrites++
	return nil
}

// DestroyBuffer forgets a buffer.
func (d *NullDevice) DestroyBuffer(id BufferID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.buffers[id]; ok {
		delete(d.buffers, id)
		d.stats.Destroyed++
	}
}

// CreateSampler records the sampler state.
func (d *NullDevice) CreateSampler(_ string, s *state.Sampler) (SamplerID, error) {
	err := d.begin("sampler")
	defer d.mu.Unlock()
	if err != nil {
		return InvalidID, err
	}
	id := SamplerID(d.nextID)
	d.samplers[id] = *s
	d.stats.Samplers++
	return id, nil
}

// DestroySampler forgets a sampler.
func (d *NullDevice) DestroySampler(id SamplerID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.samplers[id]; ok {
		delete(d.samplers, id)
		d.stats.Destroyed++
	}
}

func (d *NullDevice) createState(v any) (StateID, error) {
	err := d.begin("state")
	defer d.mu.Unlock()
	if err != nil {
		return InvalidID, err
	}
	id := StateID(d.nextID)
	d.states[id] = v
	d.stats.States++
	return id, nil
}

// CreateBlendState records a blend state.
func (d *NullDevice) CreateBlendState(_ string, b *state.Blend) (StateID, error) {
	return d.createState(*b)
}

// CreateDepthStencilState records a depth-stencil state.
func (d *NullDevice) CreateDepthStencilState(_ string, s *state.DepthStencil) (StateID, error) {
	return d.createState(*s)
}

// CreateRasterizerState records a rasterizer state.
func (d *NullDevice) CreateRasterizerState(_ string, r *state.Rasterizer) (StateID, error) {
	return d.createState(*r)
}

// DestroyState forgets a state object.
func (d *NullDevice) DestroyState(id StateID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.states[id]; ok {
		delete(d.states, id)
		d.stats.Destroyed++
	}
}

// CreateInputLayout validates the elements against the shader's attributes.
func (d *NullDevice) CreateInputLayout(desc *InputLayoutDescriptor) (InputLayoutID, error) {
	err := d.begin("layout")
	defer d.mu.Unlock()
	if err != nil {
		return InvalidID, err
	}
	sh, ok := d.shaders[desc.Shader]
	if !ok {
		return InvalidID, fmt.Errorf("%w: shader %d", ErrUnknownResource, desc.Shader)
	}
	if sh.Stage != StageVertex {
		return InvalidID, fmt.Errorf("backend: input layout for %s shader", sh.Stage)
	}
	if _, err := MatchInputSignature(desc.Elements, sh.Attributes); err != nil {
		d.stats.FailedLayouts++
		return InvalidID, err
	}
	cp := *desc
	cp.Elements = append([]InputElement(nil), desc.Elements...)
	cp.Strides = append([]int(nil), desc.Strides...)
	id := InputLayoutID(d.nextID)
	d.layouts[id] = &cp
	d.stats.InputLayouts++
	return id, nil
}

// DestroyInputLayout forgets an input layout.
func (d *NullDevice) DestroyInputLayout(id InputLayoutID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.layouts[id]; ok {
		delete(d.layouts, id)
		d.stats.Destroyed++
	}
}

// Close drops every live resource.
func (d *NullDevice) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	clear(d.shaders)
	clear(d.buffers)
	clear(d.samplers)
	clear(d.states)
	clear(d.layouts)
	d.closed = true
}
