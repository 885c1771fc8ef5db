package blit

import "fmt"

// Tile sizes of the tile engine, in pixels.
const (
	TileSize     = 64
	MSAATileSize = 32
)

// TileEngine is a tile-based renderer whose load/store units can copy
// between surfaces without a draw.
type TileEngine interface {
	// Flush submits pending rendering and blocks until the backend has
	// accepted it.
	Flush() error

	// TargetState returns the engine's render-target state. The fast path
	// repurposes it for the copy job and restores it afterwards. An engine
	// that returns nil never takes the fast path.
	TargetState() *TargetState

	// CreateSurface returns a surface of level of res, holding one
	// reference for the caller. Surfaces address layer 0.
	CreateSurface(res *Resource, level uint32) (*Surface, error)

	// SubmitJob runs a job that loads ColorRead and stores it to the color
	// write surface within the draw bounds. It blocks until accepted.
	SubmitJob() error
}

// TileStride returns the row stride in bytes the tile engine assumes for
// the source of a copy into a destination dstWidth pixels wide.
func TileStride(src *Resource, srcLevel, dstWidth uint32) uint32 {
	sl, _ := src.Slice(srcLevel)
	switch {
	case src.Multisampled():
		return align(dstWidth, 32) * 4 * src.Cpp
	case sl.Tiling == TilingT:
		return align(dstWidth*src.Cpp, 128)
	default:
		return align(dstWidth*src.Cpp, 16)
	}
}

// CanTileCopy reports whether req qualifies for the tile fast path, and if
// not, why.
func CanTileCopy(req *Request) (bool, string) {
	src, dst := req.Src, req.Dst
	if src.Resource == nil || dst.Resource == nil {
		return false, "missing resource"
	}
	if dst.Resource.Format.IsDepthStencil() {
		return false, "depth/stencil destination"
	}
	if req.ScissorEnable {
		return false, "scissor"
	}
	if !req.Mask.HasColor() {
		return false, "no color channel"
	}
	if src.Box.X != dst.Box.X || src.Box.Y != dst.Box.Y ||
		src.Box.Width != dst.Box.Width || src.Box.Height != dst.Box.Height {
		return false, "boxes differ"
	}
	if dst.Box.X < 0 || dst.Box.Y < 0 || dst.Box.Width <= 0 || dst.Box.Height <= 0 {
		return false, "flipped or empty box"
	}
	// Tile jobs load and store layer 0 of a single level.
	if src.Box.Z != 0 || dst.Box.Z != 0 || max(src.Box.Depth, 1) != 1 || max(dst.Box.Depth, 1) != 1 {
		return false, "not layer 0"
	}

	tile := tileSizeFor(src.Resource, dst.Resource)
	dstW, dstH := dst.Resource.LevelSize(dst.Level)
	b := dst.Box
	if unaligned(b.X, tile) || unaligned(b.Y, tile) ||
		(unaligned(b.Width, tile) && b.X+b.Width != int(dstW)) ||
		(unaligned(b.Height, tile) && b.Y+b.Height != int(dstH)) {
		return false, "not tile aligned"
	}

	sl, ok := src.Resource.Slice(src.Level)
	if !ok {
		return false, "no source level layout"
	}
	if stride := TileStride(src.Resource, src.Level, dstW); stride != sl.Stride {
		return false, fmt.Sprintf("source stride %d, engine assumes %d", sl.Stride, stride)
	}

	if src.Resource.Format != dst.Resource.Format {
		return false, "formats differ"
	}
	return true, ""
}

func tileSizeFor(src, dst *Resource) int {
	if src.Multisampled() || dst.Multisampled() {
		return MSAATileSize
	}
	return TileSize
}

func unaligned(v, tile int) bool {
	return v&(tile-1) != 0
}

func align(v, a uint32) uint32 {
	return (v + a - 1) &^ (a - 1)
}

// tileCopy runs the fast path. It reports false without touching any
// state when req does not qualify.
func tileCopy(te TileEngine, req *Request) (bool, error) {
	if ok, reason := CanTileCopy(req); !ok {
		slogger().Debug("blit: tile path skipped", "reason", reason)
		return false, nil
	}
	ts := te.TargetState()
	if ts == nil {
		slogger().Debug("blit: tile path skipped", "reason", "no target state")
		return false, nil
	}

	if err := te.Flush(); err != nil {
		return false, fmt.Errorf("blit: flush before tile copy: %w", err)
	}

	dstSurf, err := te.CreateSurface(req.Dst.Resource, req.Dst.Level)
	if err != nil {
		return false, fmt.Errorf("blit: destination surface: %w", err)
	}
	defer dstSurf.Unref()
	srcSurf, err := te.CreateSurface(req.Src.Resource, req.Src.Level)
	if err != nil {
		return false, fmt.Errorf("blit: source surface: %w", err)
	}
	defer srcSurf.Unref()

	snap := ts.Snapshot()
	defer ts.Restore(snap)

	setSurface(&ts.ColorRead, srcSurf)
	if req.Dst.Resource.Multisampled() {
		setSurface(&ts.ColorWrite, nil)
		setSurface(&ts.MSAAColorWrite, dstSurf)
	} else {
		setSurface(&ts.ColorWrite, dstSurf)
		setSurface(&ts.MSAAColorWrite, nil)
	}
	setSurface(&ts.ZSRead, nil)
	setSurface(&ts.ZSWrite, nil)
	setSurface(&ts.MSAAZSWrite, nil)

	b := req.Dst.Box
	tile := uint32(tileSizeFor(req.Src.Resource, req.Dst.Resource))
	ts.DrawMinX, ts.DrawMinY = uint32(b.X), uint32(b.Y)
	ts.DrawMaxX, ts.DrawMaxY = uint32(b.X+b.Width), uint32(b.Y+b.Height)
	ts.DrawWidth, ts.DrawHeight = dstSurf.Width, dstSurf.Height
	ts.TileWidth, ts.TileHeight = tile, tile
	ts.MSAA = tile == MSAATileSize
	ts.NeedsFlush = true

	slogger().Debug("blit: tile copy",
		"x", b.X, "y", b.Y, "width", b.Width, "height", b.Height, "msaa", ts.MSAA)

	if err := te.SubmitJob(); err != nil {
		return true, fmt.Errorf("blit: tile job: %w", err)
	}
	return true, nil
}
