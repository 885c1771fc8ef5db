package blit

import "github.com/gogpu/statetrack/format"

// RegionCopier copies texel memory between resources.
type RegionCopier interface {
	// TryCopyRegion copies req if it is a raw memory copy the backend can
	// do, and reports whether it did. An error means the copy was attempted
	// and failed.
	TryCopyRegion(req *Request) (bool, error)
}

// CanCopyRegion reports whether req is a plain region copy: compatible
// formats, no scaling, flipping, resolve or scissor, the whole aspect mask
// of the format, and both boxes inside their levels.
func CanCopyRegion(req *Request) bool {
	src, dst := req.Src, req.Dst
	if src.Resource == nil || dst.Resource == nil {
		return false
	}
	if !formatsCompatible(src.Resource, dst.Resource) {
		return false
	}
	if want := FormatMask(dst.Resource.Format); req.Mask&want != want {
		return false
	}
	if req.ScissorEnable {
		return false
	}
	if src.Resource.Samples() != dst.Resource.Samples() {
		return false
	}

	sb, db := src.Box, dst.Box
	if sb.Width != db.Width || sb.Height != db.Height || depthOf(sb) != depthOf(db) {
		return false
	}
	if db.Width <= 0 || db.Height <= 0 {
		return false
	}
	if !inLevel(src, sb) || !inLevel(dst, db) {
		return false
	}
	if src.Resource == dst.Resource && src.Level == dst.Level && overlaps(sb, db) {
		return false
	}
	return true
}

// formatsCompatible reports whether a byte copy between the formats keeps
// texel values. sRGB and linear variants share a layout.
func formatsCompatible(src, dst *Resource) bool {
	if src.Format == dst.Format {
		return true
	}
	return format.Linear(src.Format) == format.Linear(dst.Format)
}

func depthOf(b Box) int {
	return max(b.Depth, 1)
}

func inLevel(s Side, b Box) bool {
	w, h := s.Resource.LevelSize(s.Level)
	return b.X >= 0 && b.Y >= 0 && b.Z >= 0 &&
		b.X+b.Width <= int(w) && b.Y+b.Height <= int(h)
}

func overlaps(a, b Box) bool {
	return a.X < b.X+b.Width && b.X < a.X+a.Width &&
		a.Y < b.Y+b.Height && b.Y < a.Y+a.Height &&
		a.Z < b.Z+depthOf(b) && b.Z < a.Z+depthOf(a)
}
