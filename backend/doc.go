// Package backend is the registry of state tracker backends.
//
// Backend packages register themselves from init() functions, so a
// program selects the backends it links with blank imports:
//
//	import (
//		_ "github.com/gogpu/statetrack/backend/native"
//		_ "github.com/gogpu/statetrack/backend/software"
//	)
//
// # Backend Selection
//
// Use OpenDefault to get the best backend that can run, or Open to request
// a specific backend by name:
//
//	name, b, err := backend.OpenDefault()
//	if err != nil {
//		log.Fatal(err)
//	}
//	ctx := statetrack.NewContext(b)
//
// # Available Backends
//
//   - "native": GPU views and blits through gogpu/wgpu HAL
//   - "software": CPU reference implementation (always available)
package backend
