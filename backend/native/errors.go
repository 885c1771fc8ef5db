//go:build !nogpu

package native

import "errors"

var (
	// ErrNoGPU is returned by Open when no adapter could be opened.
	ErrNoGPU = errors.New("native: no GPU adapter available")

	// ErrNoHALDevice is returned when a device provider does not expose
	// HAL objects.
	ErrNoHALDevice = errors.New("native: provider does not expose a HAL device")

	// ErrForeignStorage is returned when a storage, view or resource was
	// not created by this backend.
	ErrForeignStorage = errors.New("native: storage not owned by backend")

	// ErrUnsupportedTarget is returned for texture targets WebGPU cannot
	// represent, such as texel buffers.
	ErrUnsupportedTarget = errors.New("native: unsupported texture target")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("native: backend closed")
)
