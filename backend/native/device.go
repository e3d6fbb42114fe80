package native

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/fx"
	"github.com/gogpu/fx/backend"
	"github.com/gogpu/fx/internal/hashx"
	"github.com/gogpu/fx/internal/wgsl"
	"github.com/gogpu/fx/state"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Device errors.
var (
	// ErrNilDevice is returned when a Device is created without a HAL device.
	ErrNilDevice = errors.New("native: device is nil")

	// ErrNoHALProvider is returned when a device provider does not expose
	// its HAL device and queue.
	ErrNoHALProvider = errors.New("native: provider does not expose HAL types")
)

// ShaderModule is a compiled shader owned by a Device.
type ShaderModule struct {
	label      string
	stage      backend.ShaderStage
	codeHash   uint64
	attributes []backend.VertexAttribute
	halModule  hal.ShaderModule
}

// Label returns the debug label.
func (m *ShaderModule) Label() string { return m.label }

// Stage returns the pipeline stage.
func (m *ShaderModule) Stage() backend.ShaderStage { return m.stage }

// CodeHash returns an FNV-1a hash of the SPIR-V words.
func (m *ShaderModule) CodeHash() uint64 { return m.codeHash }

// Attributes returns the vertex inputs the shader declares.
func (m *ShaderModule) Attributes() []backend.VertexAttribute { return m.attributes }

// Raw returns the underlying HAL shader module.
func (m *ShaderModule) Raw() hal.ShaderModule { return m.halModule }

type uniformBuffer struct {
	buf  hal.Buffer
	size int
}

// Device implements backend.Device over a HAL device and queue.
//
// Resource IDs map to HAL objects; state blocks have no HAL object of their
// own and are kept in converted form until a render pipeline is built.
//
// Device is safe for concurrent use.
type Device struct {
	mu     sync.RWMutex
	device hal.Device
	queue  hal.Queue
	closed bool

	// release runs on Close for devices this package opened.
	release func()

	nextID atomic.Uint64

	shaders  map[backend.ShaderID]*ShaderModule
	buffers  map[backend.BufferID]*uniformBuffer
	samplers map[backend.SamplerID]hal.Sampler
	layouts  map[backend.InputLayoutID][]VertexBufferLayout
	states   *StateCache
}

var _ backend.Device = (*Device)(nil)

// New wraps an existing HAL device and queue. The caller keeps ownership
// of both; Close releases only resources created through the Device.
func New(device hal.Device, queue hal.Queue) (*Device, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	d := &Device{
		device:   device,
		queue:    queue,
		shaders:  make(map[backend.ShaderID]*ShaderModule),
		buffers:  make(map[backend.BufferID]*uniformBuffer),
		samplers: make(map[backend.SamplerID]hal.Sampler),
		layouts:  make(map[backend.InputLayoutID][]VertexBufferLayout),
		states:   NewStateCache(),
	}

	// Start ID generation at 1 (0 is invalid)
	d.nextID.Store(1)
	return d, nil
}

// NewFromProvider shares the GPU device of a host application. The
// provider must implement HalDevice() any and HalQueue() any returning
// hal.Device and hal.Queue.
func NewFromProvider(provider gpucontext.DeviceProvider) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHALProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHALProvider)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHALProvider)
	}
	return New(device, queue)
}

// newID generates a unique resource ID.
func (d *Device) newID() uint64 {
	return d.nextID.Add(1) - 1
}

// Name returns the backend identifier.
func (d *Device) Name() string { return backend.BackendNative }

// SupportsProfile reports whether p can be turned into SPIR-V.
func (d *Device) SupportsProfile(p backend.Profile) bool {
	return p == backend.ProfileSPIRV || p == backend.ProfileWGSL
}

// States returns the state block cache.
func (d *Device) States() *StateCache { return d.states }

func (d *Device) checkOpen() error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return backend.ErrClosed
	}
	return nil
}

// === Shaders ===

// CreateShader creates a shader module from SPIR-V or WGSL bytecode.
//
// Vertex shaders of the WGSL profile without reflected attributes have
// their inputs reflected from the source.
func (d *Device) CreateShader(desc *backend.ShaderDescriptor) (backend.ShaderID, error) {
	if err := d.checkOpen(); err != nil {
		return backend.InvalidID, err
	}

	attrs := desc.Attributes
	var words []uint32
	var err error
	switch desc.Profile {
	case backend.ProfileSPIRV:
		words, err = SPIRVWords(desc.Bytecode)
	case backend.ProfileWGSL:
		source := string(desc.Bytecode)
		words, err = CompileWGSL(source)
		if err == nil && desc.Stage == backend.StageVertex && len(attrs) == 0 {
			attrs, err = wgsl.VertexInputs(source)
		}
	default:
		return backend.InvalidID, fmt.Errorf("%w: %v", backend.ErrUnsupportedProfile, desc.Profile)
	}
	if err != nil {
		return backend.InvalidID, err
	}

	module, err := d.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label: desc.Label,
		Source: hal.ShaderSource{
			SPIRV: words,
		},
	})
	if err != nil {
		return backend.InvalidID, fmt.Errorf("native: create shader module: %w", err)
	}

	h := hashx.New()
	for _, w := range words {
		h.Uint32(w)
	}

	id := backend.ShaderID(d.newID())

	d.mu.Lock()
	d.shaders[id] = &ShaderModule{
		label:      desc.Label,
		stage:      desc.Stage,
		codeHash:   h.Sum64(),
		attributes: attrs,
		halModule:  module,
	}
	d.mu.Unlock()

	return id, nil
}

// Shader returns the module behind id.
func (d *Device) Shader(id backend.ShaderID) (*ShaderModule, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	m, ok := d.shaders[id]
	return m, ok
}

// DestroyShader releases a shader module.
func (d *Device) DestroyShader(id backend.ShaderID) {
	d.mu.Lock()
	m, ok := d.shaders[id]
	if ok {
		delete(d.shaders, id)
	}
	d.mu.Unlock()

	if ok {
		d.device.DestroyShaderModule(m.halModule)
	}
}

// === Constant buffers ===

// CreateConstantBuffer creates a uniform buffer.
func (d *Device) CreateConstantBuffer(desc *backend.BufferDescriptor) (backend.BufferID, error) {
	if err := d.checkOpen(); err != nil {
		return backend.InvalidID, err
	}
	if desc.Size <= 0 {
		return backend.InvalidID, fmt.Errorf("native: buffer size must be positive")
	}

	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: desc.Label,
		Size:  uint64(desc.Size),
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return backend.InvalidID, fmt.Errorf("native: create buffer: %w", err)
	}

	id := backend.BufferID(d.newID())

	d.mu.Lock()
	d.buffers[id] = &uniformBuffer{buf: buf, size: desc.Size}
	d.mu.Unlock()

	return id, nil
}

// WriteConstantBuffer uploads data at offset through the queue.
func (d *Device) WriteConstantBuffer(id backend.BufferID, offset int, data []byte) error {
	d.mu.RLock()
	ub, ok := d.buffers[id]
	closed := d.closed
	d.mu.RUnlock()

	if closed {
		return backend.ErrClosed
	}
	if !ok {
		return fmt.Errorf("%w: buffer %d", backend.ErrUnknownResource, id)
	}
	if offset < 0 || offset+len(data) > ub.size {
		return fmt.Errorf("native: write of %d bytes at %d overflows buffer of %d", len(data), offset, ub.size)
	}
	if len(data) > 0 {
		d.queue.WriteBuffer(ub.buf, uint64(offset), data)
	}
	return nil
}

// DestroyBuffer releases a uniform buffer.
func (d *Device) DestroyBuffer(id backend.BufferID) {
	d.mu.Lock()
	ub, ok := d.buffers[id]
	if ok {
		delete(d.buffers, id)
	}
	d.mu.Unlock()

	if ok {
		d.device.DestroyBuffer(ub.buf)
	}
}

// === Samplers ===

// CreateSampler creates a HAL sampler.
func (d *Device) CreateSampler(label string, s *state.Sampler) (backend.SamplerID, error) {
	if err := d.checkOpen(); err != nil {
		return backend.InvalidID, err
	}
	desc, err := ConvertSampler(label, s)
	if err != nil {
		return backend.InvalidID, err
	}
	sampler, err := d.device.CreateSampler(desc)
	if err != nil {
		return backend.InvalidID, fmt.Errorf("native: create sampler: %w", err)
	}

	id := backend.SamplerID(d.newID())

	d.mu.Lock()
	d.samplers[id] = sampler
	d.mu.Unlock()

	return id, nil
}

// DestroySampler releases a sampler.
func (d *Device) DestroySampler(id backend.SamplerID) {
	d.mu.Lock()
	s, ok := d.samplers[id]
	if ok {
		delete(d.samplers, id)
	}
	d.mu.Unlock()

	if ok {
		d.device.DestroySampler(s)
	}
}

// === States ===

// CreateBlendState converts and interns a blend state block.
func (d *Device) CreateBlendState(_ string, b *state.Blend) (backend.StateID, error) {
	if err := d.checkOpen(); err != nil {
		return backend.InvalidID, err
	}
	v, err := ConvertBlend(b)
	if err != nil {
		return backend.InvalidID, err
	}
	return backend.StateID(d.states.acquire(kindBlend, v, d.newID)), nil
}

// CreateDepthStencilState converts and interns a depth-stencil state block.
func (d *Device) CreateDepthStencilState(_ string, ds *state.DepthStencil) (backend.StateID, error) {
	if err := d.checkOpen(); err != nil {
		return backend.InvalidID, err
	}
	v, err := ConvertDepthStencil(ds)
	if err != nil {
		return backend.InvalidID, err
	}
	return backend.StateID(d.states.acquire(kindDepthStencil, v, d.newID)), nil
}

// CreateRasterizerState converts and interns a rasterizer state block.
func (d *Device) CreateRasterizerState(_ string, r *state.Rasterizer) (backend.StateID, error) {
	if err := d.checkOpen(); err != nil {
		return backend.InvalidID, err
	}
	v, err := ConvertRasterizer(r)
	if err != nil {
		return backend.InvalidID, err
	}
	return backend.StateID(d.states.acquire(kindRasterizer, v, d.newID)), nil
}

// BlendState returns the converted blend block behind id.
func (d *Device) BlendState(id backend.StateID) (*BlendState, bool) {
	v, ok := d.states.lookup(uint64(id), kindBlend)
	if !ok {
		return nil, false
	}
	return v.(*BlendState), true
}

// DepthStencilState returns the converted depth-stencil block behind id.
func (d *Device) DepthStencilState(id backend.StateID) (*DepthStencilState, bool) {
	v, ok := d.states.lookup(uint64(id), kindDepthStencil)
	if !ok {
		return nil, false
	}
	return v.(*DepthStencilState), true
}

// RasterizerState returns the converted rasterizer block behind id.
func (d *Device) RasterizerState(id backend.StateID) (*RasterizerState, bool) {
	v, ok := d.states.lookup(uint64(id), kindRasterizer)
	if !ok {
		return nil, false
	}
	return v.(*RasterizerState), true
}

// DestroyState releases one reference to a state block.
func (d *Device) DestroyState(id backend.StateID) {
	d.states.release(uint64(id))
}

// === Input layouts ===

// CreateInputLayout matches the elements against the shader's declared
// inputs and builds per-slot vertex buffer layouts.
func (d *Device) CreateInputLayout(desc *backend.InputLayoutDescriptor) (backend.InputLayoutID, error) {
	if err := d.checkOpen(); err != nil {
		return backend.InvalidID, err
	}

	m, ok := d.Shader(desc.Shader)
	if !ok {
		return backend.InvalidID, fmt.Errorf("%w: shader %d", backend.ErrUnknownResource, desc.Shader)
	}
	if m.stage != backend.StageVertex {
		return backend.InvalidID, fmt.Errorf("native: input layout for %v shader", m.stage)
	}

	locs, err := backend.MatchInputSignature(desc.Elements, m.attributes)
	if err != nil {
		fx.ComponentLogger("native").Debug("input layout rejected",
			"label", desc.Label, "semantics", desc.Semantics(), "error", err)
		return backend.InvalidID, err
	}

	elems := make([]inputElement, len(desc.Elements))
	for i, e := range desc.Elements {
		elems[i] = inputElement{
			Format:   e.Format,
			Offset:   e.Offset,
			Slot:     e.Slot,
			StepRate: e.StepRate,
			Location: locs[i],
		}
	}
	layouts, err := convertInputLayout(elems, desc.Strides)
	if err != nil {
		return backend.InvalidID, err
	}

	id := backend.InputLayoutID(d.newID())

	d.mu.Lock()
	d.layouts[id] = layouts
	d.mu.Unlock()

	return id, nil
}

// InputLayout returns the vertex buffer layouts behind id.
func (d *Device) InputLayout(id backend.InputLayoutID) ([]VertexBufferLayout, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	l, ok := d.layouts[id]
	return l, ok
}

// DestroyInputLayout forgets an input layout.
func (d *Device) DestroyInputLayout(id backend.InputLayoutID) {
	d.mu.Lock()
	delete(d.layouts, id)
	d.mu.Unlock()
}

// Close destroys every resource still owned by the device. Devices opened
// by Open also release the HAL device and instance.
func (d *Device) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	shaders, buffers, samplers := d.shaders, d.buffers, d.samplers
	d.shaders = make(map[backend.ShaderID]*ShaderModule)
	d.buffers = make(map[backend.BufferID]*uniformBuffer)
	d.samplers = make(map[backend.SamplerID]hal.Sampler)
	d.layouts = make(map[backend.InputLayoutID][]VertexBufferLayout)
	release := d.release
	d.mu.Unlock()

	for _, s := range samplers {
		d.device.DestroySampler(s)
	}
	for _, b := range buffers {
		d.device.DestroyBuffer(b.buf)
	}
	for _, m := range shaders {
		d.device.DestroyShaderModule(m.halModule)
	}
	d.states.Clear()

	if release != nil {
		release()
	}
}
