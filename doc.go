// Package statetrack is the sampled-view and blit core of a graphics state
// tracker.
//
// # Overview
//
// A state tracker turns mutable, API-level state into the immutable objects
// a GPU backend consumes. statetrack covers two parts of that job:
//
//   - package view caches one sampled view per (stage, sampler unit) and
//     rebuilds it exactly when the texture state it was derived from
//     changes.
//   - package blit executes pixel copies on the cheapest path that can do
//     them: tile fast-copy, region copy, or a generic textured-quad draw.
//
// Context ties both to a Backend.
//
// # Quick Start
//
//	b := software.New()
//	ctx := statetrack.NewContext(b)
//	defer ctx.Close()
//
//	var progs statetrack.Programs
//	progs[view.StageFragment] = &view.Program{SamplersUsed: 0b1}
//	ctx.UpdateTextures(progs, units)
//
//	res, err := ctx.Blit(req)
//
// # Backends
//
// backend/software keeps textures in memory and implements every optional
// interface, including the tile engine. backend/native runs on a
// gogpu/wgpu HAL device.
//
// # Logging
//
// statetrack is silent by default. SetLogger enables structured logging
// for every sub-package.
package statetrack
