// Package webgpu implements backend.Device on top of wgpu-native through
// github.com/cogentcore/webgpu.
//
// The device consumes WGSL-profile shaders only; the WebGPU implementation
// compiles them itself. Importing the package registers the "webgpu"
// backend, which opens a headless device on first use.
package webgpu
