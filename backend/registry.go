package backend

import (
	"fmt"
	"sort"
	"sync"

	"github.com/gogpu/fx"
)

// Backend name constants.
const (
	// BackendNull is the name of the recording device with no native objects.
	BackendNull = "null"
	// BackendNative is the name of the Pure Go HAL device (gogpu/wgpu).
	BackendNative = "native"
	// BackendWebGPU is the name of the wgpu-native device (cogentcore/webgpu).
	BackendWebGPU = "webgpu"
)

// Factory opens a new device.
type Factory func() (Device, error)

// registry holds registered backends.
var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)
	// Priority order for device selection (first that opens wins).
	backendPriority = []string{BackendNative, BackendWebGPU, BackendNull}
)

// Register registers a device factory with the given name.
// This is typically called from init() functions in backend packages.
// If a backend with the same name is already registered, it will be replaced.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories[name] = factory
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(factories, name)
}

// Available returns the sorted names of registered backends.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := factories[name]
	return ok
}

// Get opens a device from the named backend.
func Get(name string) (Device, error) {
	registryMu.RLock()
	factory, ok := factories[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBackendNotAvailable, name)
	}
	d, err := factory()
	if err != nil {
		return nil, fmt.Errorf("backend %q: %w", name, err)
	}
	return d, nil
}

// Default opens the first backend in priority order that succeeds,
// falling back to any other registered backend.
func Default() (Device, error) {
	registryMu.RLock()
	names := make([]string, 0, len(factories))
	names = append(names, backendPriority...)
	rest := make([]string, 0, len(factories))
	for name := range factories {
		rest = append(rest, name)
	}
	registryMu.RUnlock()
	sort.Strings(rest)
	names = append(names, rest...)

	log := fx.ComponentLogger("backend")
	tried := make(map[string]bool, len(names))
	for _, name := range names {
		if tried[name] || !IsRegistered(name) {
			continue
		}
		tried[name] = true
		d, err := Get(name)
		if err != nil {
			log.Debug("backend unavailable", "name", name, "err", err)
			continue
		}
		log.Info("backend selected", "name", name)
		return d, nil
	}
	return nil, ErrBackendNotAvailable
}

// MustDefault returns the default device or panics.
func MustDefault() Device {
	d, err := Default()
	if err != nil {
		panic(err)
	}
	return d
}
