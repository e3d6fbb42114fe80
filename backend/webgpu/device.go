package webgpu

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/fx"
	"github.com/gogpu/fx/backend"
	"github.com/gogpu/fx/internal/wgsl"
	"github.com/gogpu/fx/state"
)

func init() {
	backend.Register(backend.BackendWebGPU, func() (backend.Device, error) {
		return Open()
	})
}

type shaderModule struct {
	module     *wgpu.ShaderModule
	stage      backend.ShaderStage
	attributes []backend.VertexAttribute
}

type uniformBuffer struct {
	buf  *wgpu.Buffer
	size int
}

// Device implements backend.Device over a WebGPU device.
//
// Device is safe for concurrent use.
type Device struct {
	mu     sync.RWMutex
	device *wgpu.Device
	queue  *wgpu.Queue
	closed bool

	// release runs on Close for devices this package opened.
	release func()

	nextID atomic.Uint64

	shaders  map[backend.ShaderID]*shaderModule
	buffers  map[backend.BufferID]*uniformBuffer
	samplers map[backend.SamplerID]*wgpu.Sampler
	states   map[backend.StateID]any
	layouts  map[backend.InputLayoutID][]wgpu.VertexBufferLayout
}

var _ backend.Device = (*Device)(nil)

// New wraps a WebGPU device owned by the caller.
func New(device *wgpu.Device, queue *wgpu.Queue) (*Device, error) {
	if device == nil || queue == nil {
		return nil, fmt.Errorf("webgpu: device is nil")
	}
	d := &Device{
		device:   device,
		queue:    queue,
		shaders:  make(map[backend.ShaderID]*shaderModule),
		buffers:  make(map[backend.BufferID]*uniformBuffer),
		samplers: make(map[backend.SamplerID]*wgpu.Sampler),
		states:   make(map[backend.StateID]any),
		layouts:  make(map[backend.InputLayoutID][]wgpu.VertexBufferLayout),
	}
	d.nextID.Store(1)
	return d, nil
}

// Open requests a headless adapter and device.
func Open() (*Device, error) {
	instance := wgpu.CreateInstance(nil)
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		instance.Release()
		return nil, fmt.Errorf("%w: %v", backend.ErrBackendNotAvailable, err)
	}
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{Label: "fx"})
	if err != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("webgpu: request device: %w", err)
	}
	queue := device.GetQueue()

	d, err := New(device, queue)
	if err != nil {
		device.Release()
		adapter.Release()
		instance.Release()
		return nil, err
	}
	d.release = func() {
		device.Release()
		adapter.Release()
		instance.Release()
	}

	fx.ComponentLogger("webgpu").Info("device opened")
	return d, nil
}

func (d *Device) newID() uint64 {
	return d.nextID.Add(1) - 1
}

// Name returns the backend identifier.
func (d *Device) Name() string { return backend.BackendWebGPU }

// SupportsProfile reports whether p is the WGSL profile.
func (d *Device) SupportsProfile(p backend.Profile) bool {
	return p == backend.ProfileWGSL
}

func (d *Device) checkOpen() error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return backend.ErrClosed
	}
	return nil
}

// CreateShader creates a shader module from WGSL source.
func (d *Device) CreateShader(desc *backend.ShaderDescriptor) (backend.ShaderID, error) {
	if err := d.checkOpen(); err != nil {
		return backend.InvalidID, err
	}
	if desc.Profile != backend.ProfileWGSL {
		return backend.InvalidID, fmt.Errorf("%w: %v", backend.ErrUnsupportedProfile, desc.Profile)
	}

	source := string(desc.Bytecode)
	attrs := desc.Attributes
	if desc.Stage == backend.StageVertex && len(attrs) == 0 {
		var err error
		if attrs, err = wgsl.VertexInputs(source); err != nil {
			return backend.InvalidID, err
		}
	}

	module, err := d.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: desc.Label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: source,
		},
	})
	if err != nil {
		return backend.InvalidID, fmt.Errorf("webgpu: create shader module: %w", err)
	}

	id := backend.ShaderID(d.newID())
	d.mu.Lock()
	d.shaders[id] = &shaderModule{module: module, stage: desc.Stage, attributes: attrs}
	d.mu.Unlock()
	return id, nil
}

// ShaderModule returns the WebGPU module behind id.
func (d *Device) ShaderModule(id backend.ShaderID) (*wgpu.ShaderModule, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	m, ok := d.shaders[id]
	if !ok {
		return nil, false
	}
	return m.module, true
}

// DestroyShader releases a shader module.
func (d *Device) DestroyShader(id backend.ShaderID) {
	d.mu.Lock()
	m, ok := d.shaders[id]
	delete(d.shaders, id)
	d.mu.Unlock()
	if ok {
		m.module.Release()
	}
}

// CreateConstantBuffer creates a uniform buffer.
func (d *Device) CreateConstantBuffer(desc *backend.BufferDescriptor) (backend.BufferID, error) {
	if err := d.checkOpen(); err != nil {
		return backend.InvalidID, err
	}
	if desc.Size <= 0 {
		return backend.InvalidID, fmt.Errorf("webgpu: buffer size must be positive")
	}
	buf, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: desc.Label,
		Size:  uint64(desc.Size),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return backend.InvalidID, fmt.Errorf("webgpu: create buffer: %w", err)
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

	switch {
	case closed:
		return backend.ErrClosed
	case !ok:
		return fmt.Errorf("%w: buffer %d", backend.ErrUnknownResource, id)
	case offset < 0 || offset+len(data) > ub.size:
		return fmt.Errorf("webgpu: write of %d bytes at %d overflows buffer of %d", len(data), offset, ub.size)
	case len(data) == 0:
		return nil
	}
	return d.queue.WriteBuffer(ub.buf, uint64(offset), data)
}

// DestroyBuffer releases a uniform buffer.
func (d *Device) DestroyBuffer(id backend.BufferID) {
	d.mu.Lock()
	ub, ok := d.buffers[id]
	delete(d.buffers, id)
	d.mu.Unlock()
	if ok {
		ub.buf.Release()
	}
}

// CreateSampler creates a WebGPU sampler.
func (d *Device) CreateSampler(label string, s *state.Sampler) (backend.SamplerID, error) {
	if err := d.checkOpen(); err != nil {
		return backend.InvalidID, err
	}
	desc, err := convertSampler(label, s)
	if err != nil {
		return backend.InvalidID, err
	}
	sampler, err := d.device.CreateSampler(desc)
	if err != nil {
		return backend.InvalidID, fmt.Errorf("webgpu: create sampler: %w", err)
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
	delete(d.samplers, id)
	d.mu.Unlock()
	if ok {
		s.Release()
	}
}

func (d *Device) addState(v any) (backend.StateID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return backend.InvalidID, backend.ErrClosed
	}
	id := backend.StateID(d.newID())
	d.states[id] = v
	return id, nil
}

// CreateBlendState converts a blend state block.
func (d *Device) CreateBlendState(_ string, b *state.Blend) (backend.StateID, error) {
	v, err := convertBlend(b)
	if err != nil {
		return backend.InvalidID, err
	}
	return d.addState(v)
}

// CreateDepthStencilState converts a depth-stencil state block.
func (d *Device) CreateDepthStencilState(_ string, ds *state.DepthStencil) (backend.StateID, error) {
	v, err := convertDepthStencil(ds)
	if err != nil {
		return backend.InvalidID, err
	}
	return d.addState(v)
}

// CreateRasterizerState converts a rasterizer state block. Wireframe fill
// is rejected.
func (d *Device) CreateRasterizerState(_ string, r *state.Rasterizer) (backend.StateID, error) {
	v, err := convertRasterizer(r)
	if err != nil {
		return backend.InvalidID, err
	}
	return d.addState(v)
}

// State returns the converted block behind id: a *BlendState,
// *DepthStencilState or *RasterizerState.
func (d *Device) State(id backend.StateID) (any, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	v, ok := d.states[id]
	return v, ok
}

// DestroyState forgets a state block.
func (d *Device) DestroyState(id backend.StateID) {
	d.mu.Lock()
	delete(d.states, id)
	d.mu.Unlock()
}

// CreateInputLayout builds vertex buffer layouts for a vertex shader.
func (d *Device) CreateInputLayout(desc *backend.InputLayoutDescriptor) (backend.InputLayoutID, error) {
	if err := d.checkOpen(); err != nil {
		return backend.InvalidID, err
	}

	d.mu.RLock()
	m, ok := d.shaders[desc.Shader]
	d.mu.RUnlock()
	if !ok {
		return backend.InvalidID, fmt.Errorf("%w: shader %d", backend.ErrUnknownResource, desc.Shader)
	}
	if m.stage != backend.StageVertex {
		return backend.InvalidID, fmt.Errorf("webgpu: input layout for %v shader", m.stage)
	}

	locs, err := backend.MatchInputSignature(desc.Elements, m.attributes)
	if err != nil {
		return backend.InvalidID, err
	}

	layouts := make([]wgpu.VertexBufferLayout, len(desc.Strides))
	for i, s := range desc.Strides {
		layouts[i] = wgpu.VertexBufferLayout{
			ArrayStride: uint64(s),
			StepMode:    wgpu.VertexStepModeVertex,
		}
	}
	for i, e := range desc.Elements {
		if e.Slot < 0 || e.Slot >= len(layouts) {
			return backend.InvalidID, fmt.Errorf("webgpu: element slot %d out of range", e.Slot)
		}
		l := &layouts[e.Slot]
		if e.StepRate > 0 {
			l.StepMode = wgpu.VertexStepModeInstance
		}
		if locs[i] < 0 {
			continue
		}
		format, err := index(vertexFormats[:], e.Format, "vertex format")
		if err != nil {
			return backend.InvalidID, err
		}
		l.Attributes = append(l.Attributes, wgpu.VertexAttribute{
			Format:         format,
			Offset:         uint64(e.Offset),
			ShaderLocation: uint32(locs[i]),
		})
	}

	id := backend.InputLayoutID(d.newID())
	d.mu.Lock()
	d.layouts[id] = layouts
	d.mu.Unlock()
	return id, nil
}

// InputLayout returns the vertex buffer layouts behind id.
func (d *Device) InputLayout(id backend.InputLayoutID) ([]wgpu.VertexBufferLayout, bool) {
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

// Close releases every resource still owned by the device.
func (d *Device) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	shaders, buffers, samplers := d.shaders, d.buffers, d.samplers
	d.shaders = make(map[backend.ShaderID]*shaderModule)
	d.buffers = make(map[backend.BufferID]*uniformBuffer)
	d.samplers = make(map[backend.SamplerID]*wgpu.Sampler)
	d.states = make(map[backend.StateID]any)
	d.layouts = make(map[backend.InputLayoutID][]wgpu.VertexBufferLayout)
	release := d.release
	d.mu.Unlock()

	for _, s := range samplers {
		s.Release()
	}
	for _, b := range buffers {
		b.buf.Release()
	}
	for _, m := range shaders {
		m.module.Release()
	}
	if release != nil {
		release()
	}
}
