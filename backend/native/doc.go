// Package native implements backend.Device on top of gogpu/wgpu/hal.
//
// Shader bytecode of the SPIR-V profile is handed to the HAL as-is; WGSL
// bytecode is compiled to SPIR-V with naga first. Fixed-function state
// blocks are converted to their gputypes/hal descriptor equivalents and
// de-duplicated, and input layouts become vertex buffer layouts ready for
// render pipeline creation.
//
// A Device either wraps a host's HAL device (New, NewFromProvider) or opens
// its own Vulkan device (Open, registered as the "native" backend unless the
// nogpu build tag is set).
package native
