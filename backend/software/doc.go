// Package software is a CPU backend for the state tracker.
//
// It stores textures as linear images in host memory under a byte budget,
// builds sampled views that ReadTexel can fetch through, and implements
// all three blit paths: a tile engine whose jobs copy whole tiles, a
// region copier for plain memory copies, and a draw path that scales with
// golang.org/x/image/draw.
//
// Importing the package registers it with the backend registry under
// backend.BackendSoftware:
//
//	import _ "github.com/gogpu/statetrack/backend/software"
//
// Results are exact and deterministic, which makes the backend useful for
// tests of code built on the state tracker.
package software
