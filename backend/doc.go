// Package backend provides the resource dispatch layer between format
// loaders and native graphics devices.
//
// Loaders (the effect decoder, the input-layout cache) never build native
// objects themselves. They describe what they need with plain descriptors
// and ask the active Device, which returns opaque IDs. The same loader code
// therefore serves every backend.
//
// # Backend Registration
//
// Backends are registered via init() functions and selected at runtime.
// The null backend is registered on import of this package; hardware
// backends register when their packages are imported:
//
//	import _ "github.com/gogpu/fx/backend/native"
//
// # Backend Selection
//
// Use Default() to open the best available device, or Get() to request a
// specific backend by name:
//
//	dev, err := backend.Default()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer dev.Close()
//
//	dev, err = backend.Get("null")
//
// # Available Backends
//
//   - "null": records calls, creates no native objects (always available)
//   - "native": Pure Go HAL device via gogpu/wgpu (backend/native)
//   - "webgpu": wgpu-native device via cogentcore/webgpu (backend/webgpu)
package backend
