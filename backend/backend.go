package backend

import (
	"errors"

	"github.com/gogpu/statetrack"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not
	// registered or cannot run on this machine.
	ErrBackendNotAvailable = errors.New("backend: not available")
)

// Backend name constants.
const (
	// BackendSoftware is the name of the CPU reference backend.
	BackendSoftware = "software"
	// BackendNative is the name of the Pure Go GPU backend (gogpu/wgpu).
	BackendNative = "native"
)

// Factory opens a backend. It returns ErrBackendNotAvailable when the
// backend cannot run, for example without a GPU.
type Factory func() (statetrack.Backend, error)
