// Package blit picks and runs the execution path of a pixel-copy request.
//
// Three paths are tried in order, and the first whose preconditions hold
// runs:
//
//  1. Tile fast-copy: the tile engine loads the source into the tile buffer
//     and stores it to the destination. Only pure, tile-aligned,
//     same-format copies qualify.
//  2. Region copy: a raw copy of texel memory, for copies that need no
//     scaling, conversion or resolve.
//  3. Generic: a textured-quad draw that can scale, convert formats and
//     resolve multisampled sources. Pipeline state it touches is saved
//     before the draw and restored after it.
//
// Each path checks all of its preconditions before it changes any state.
// A request is never retried on a later path once a path has committed.
package blit
