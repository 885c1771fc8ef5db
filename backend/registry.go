package backend

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/gogpu/statetrack"
)

// registry holds registered backends.
var (
	registryMu sync.RWMutex
	backends   = make(map[string]Factory)
	// Priority order for backend selection (first available wins).
	backendPriority = []string{BackendNative, BackendSoftware}
)

// Register registers a backend factory with the given name.
// This is typically called from init() functions in backend packages.
// If a backend with the same name is already registered, it will be replaced.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = factory
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// Available returns the sorted names of the registered backends.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}

// Open opens the backend registered as name.
func Open(name string) (statetrack.Backend, error) {
	registryMu.RLock()
	factory, ok := backends[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q is not registered", ErrBackendNotAvailable, name)
	}
	return factory()
}

// OpenDefault opens the first backend in priority order that can run,
// then any other registered backend. It returns the name of the backend
// it opened.
func OpenDefault() (string, statetrack.Backend, error) {
	names := Available()
	slices.SortStableFunc(names, func(a, b string) int {
		return priority(a) - priority(b)
	})

	var errs []error
	for _, name := range names {
		b, err := Open(name)
		if err == nil {
			return name, b, nil
		}
		slogger().Debug("backend: skipped", "backend", name, "err", err)
		errs = append(errs, fmt.Errorf("%s: %w", name, err))
	}
	if len(errs) == 0 {
		return "", nil, ErrBackendNotAvailable
	}
	return "", nil, fmt.Errorf("%w: %w", ErrBackendNotAvailable, errors.Join(errs...))
}

func priority(name string) int {
	if i := slices.Index(backendPriority, name); i >= 0 {
		return i
	}
	return len(backendPriority)
}
