package blit

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"
)

// Box is a region of one mip level. A negative Width or Height flips the
// copy along that axis.
type Box struct {
	X, Y, Z              int
	Width, Height, Depth int
}

// Mask selects the aspects a blit writes.
type Mask uint8

const (
	MaskR Mask = 1 << iota
	MaskG
	MaskB
	MaskA
	MaskZ
	MaskS

	MaskRGBA = MaskR | MaskG | MaskB | MaskA
	MaskZS   = MaskZ | MaskS
)

// HasColor reports whether m selects at least one color channel.
func (m Mask) HasColor() bool { return m&MaskRGBA != 0 }

func (m Mask) String() string {
	if m == 0 {
		return "none"
	}
	var b strings.Builder
	for _, c := range []struct {
		bit  Mask
		name byte
	}{{MaskR, 'R'}, {MaskG, 'G'}, {MaskB, 'B'}, {MaskA, 'A'}, {MaskZ, 'Z'}, {MaskS, 'S'}} {
		if m&c.bit != 0 {
			b.WriteByte(c.name)
		}
	}
	return b.String()
}

// FormatMask returns every aspect a resource of format f holds.
func FormatMask(f gputypes.TextureFormat) Mask {
	switch {
	case f.HasDepth() && f.HasStencil():
		return MaskZS
	case f.HasDepth():
		return MaskZ
	case f.HasStencil():
		return MaskS
	default:
		return MaskRGBA
	}
}

// ColorWriteMask converts the color bits of m to a pipeline write mask.
func (m Mask) ColorWriteMask() gputypes.ColorWriteMask {
	var w gputypes.ColorWriteMask
	if m&MaskR != 0 {
		w |= gputypes.ColorWriteMaskRed
	}
	if m&MaskG != 0 {
		w |= gputypes.ColorWriteMaskGreen
	}
	if m&MaskB != 0 {
		w |= gputypes.ColorWriteMaskBlue
	}
	if m&MaskA != 0 {
		w |= gputypes.ColorWriteMaskAlpha
	}
	return w
}

// Filter is the sampling filter used when the generic path scales.
type Filter uint8

const (
	FilterNearest Filter = iota
	FilterLinear
)

// Tiling is the memory layout of one mip level.
type Tiling uint8

const (
	// TilingLinear is raster order.
	TilingLinear Tiling = iota
	// TilingLT is the micro-tiled layout used for small levels.
	TilingLT
	// TilingT is the 4 KiB tiled layout.
	TilingT
)

func (t Tiling) String() string {
	switch t {
	case TilingLinear:
		return "linear"
	case TilingLT:
		return "LT"
	case TilingT:
		return "T"
	default:
		return fmt.Sprintf("tiling(%d)", uint8(t))
	}
}

// Slice is the layout of one mip level of a Resource.
type Slice struct {
	Offset uint32
	Stride uint32
	Tiling Tiling
}

// Resource is a texture as the blitter sees it.
type Resource struct {
	Format  gputypes.TextureFormat
	Width0  uint32
	Height0 uint32

	// SampleCount is 1 for single-sampled resources. Zero means 1.
	SampleCount uint32

	// Cpp is the size of one pixel in bytes.
	Cpp uint32

	// Slices holds the layout of every mip level.
	Slices []Slice

	// Handle is the backend object.
	Handle any
}

// Multisampled reports whether r has more than one sample per pixel.
func (r *Resource) Multisampled() bool { return r.SampleCount > 1 }

// Samples returns the sample count, treating zero as one.
func (r *Resource) Samples() uint32 { return max(r.SampleCount, 1) }

// LevelSize returns the size of mip level.
func (r *Resource) LevelSize(level uint32) (width, height uint32) {
	return minify(r.Width0, level), minify(r.Height0, level)
}

// Slice returns the layout of level and whether it exists.
func (r *Resource) Slice(level uint32) (Slice, bool) {
	if int(level) >= len(r.Slices) {
		return Slice{}, false
	}
	return r.Slices[level], true
}

func minify(size, level uint32) uint32 {
	if level >= 32 {
		return 1
	}
	return max(size>>level, 1)
}

// Side is one end of a blit.
type Side struct {
	Resource *Resource
	Level    uint32
	Box      Box
}

// Request describes a blit. The selector never modifies it.
type Request struct {
	Src Side
	Dst Side

	Mask   Mask
	Filter Filter

	// ScissorEnable clips the destination to Scissor.
	ScissorEnable bool
	Scissor       Box
}

func (r Request) String() string {
	return fmt.Sprintf("%s@%d %+v -> %s@%d %+v mask %s",
		r.Src.Resource.Format, r.Src.Level, r.Src.Box,
		r.Dst.Resource.Format, r.Dst.Level, r.Dst.Box, r.Mask)
}

// Path is a blit execution path.
type Path uint8

const (
	PathNone Path = iota
	PathTile
	PathRegion
	PathGeneric
)

func (p Path) String() string {
	switch p {
	case PathNone:
		return "none"
	case PathTile:
		return "tile"
	case PathRegion:
		return "region"
	case PathGeneric:
		return "generic"
	default:
		return fmt.Sprintf("path(%d)", uint8(p))
	}
}

// Result reports how a blit was executed.
type Result struct {
	Path Path

	// Mask is the mask the chosen path wrote.
	Mask Mask

	// MaskReduced is set when the stencil aspect was dropped because the
	// generic path cannot write it.
	MaskReduced bool
}
