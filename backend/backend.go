package backend

import (
	"errors"

	"github.com/gogpu/fx/state"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not registered
	// or cannot open a device.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrClosed is returned when a device is used after Close.
	ErrClosed = errors.New("backend: device closed")

	// ErrUnknownResource is returned when an ID does not name a live resource.
	ErrUnknownResource = errors.New("backend: unknown resource")

	// ErrUnsupportedProfile is returned when a device cannot consume bytecode
	// of the given profile.
	ErrUnsupportedProfile = errors.New("backend: unsupported shader profile")

	// ErrInputSignature is returned by CreateInputLayout when the layout does
	// not provide an input the vertex shader declares.
	ErrInputSignature = errors.New("backend: input layout does not match shader input signature")
)

// Device is the dispatch contract between format loaders and a native
// graphics backend. Loaders never touch native objects directly; they ask
// the active Device for opaque IDs and hand those IDs back for destruction.
//
// Implementations must tolerate Destroy calls with InvalidID or with IDs
// that were already destroyed.
type Device interface {
	// Name returns the backend identifier (e.g., "null", "native").
	Name() string

	// SupportsProfile reports whether shaders of profile p can be created.
	SupportsProfile(p Profile) bool

	// CreateShader compiles or wraps shader bytecode.
	CreateShader(desc *ShaderDescriptor) (ShaderID, error)
	DestroyShader(id ShaderID)

	// CreateConstantBuffer allocates a uniform buffer.
	CreateConstantBuffer(desc *BufferDescriptor) (BufferID, error)
	// WriteConstantBuffer uploads data at offset.
	WriteConstantBuffer(id BufferID, offset int, data []byte) error
	DestroyBuffer(id BufferID)

	CreateSampler(label string, s *state.Sampler) (SamplerID, error)
	DestroySampler(id SamplerID)

	CreateBlendState(label string, b *state.Blend) (StateID, error)
	CreateDepthStencilState(label string, d *state.DepthStencil) (StateID, error)
	CreateRasterizerState(label string, r *state.Rasterizer) (StateID, error)
	DestroyState(id StateID)

	// CreateInputLayout builds a vertex input layout for a vertex shader.
	// It returns an error wrapping ErrInputSignature when the elements do
	// not cover the shader's declared inputs.
	CreateInputLayout(desc *InputLayoutDescriptor) (InputLayoutID, error)
	DestroyInputLayout(id InputLayoutID)

	// Close releases every resource still owned by the device.
	Close()
}
