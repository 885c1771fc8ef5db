//go:build !nogpu

package native

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/statetrack/blit"
	"github.com/gogpu/statetrack/format"
)

// TryCopyRegion implements blit.RegionCopier with CopyTextureToTexture.
// Multisample resources are left to the draw path, since WebGPU only
// copies them whole.
func (b *Backend) TryCopyRegion(req *blit.Request) (bool, error) {
	if !blit.CanCopyRegion(req) {
		return false, nil
	}
	src, ok := req.Src.Resource.Handle.(*texture)
	if !ok {
		return false, nil
	}
	dst, ok := req.Dst.Resource.Handle.(*texture)
	if !ok {
		return false, nil
	}
	if src.samples > 1 || dst.samples > 1 {
		return false, nil
	}
	if req.Src.Level >= src.levels || req.Dst.Level >= dst.levels {
		return false, nil
	}

	sb, db := req.Src.Box, req.Dst.Box
	size := hal.Extent3D{
		Width:              uint32(db.Width),
		Height:             uint32(db.Height),
		DepthOrArrayLayers: uint32(max(db.Depth, 1)),
	}
	var regions []hal.TextureCopy
	for _, aspect := range copyAspects(dst.format) {
		regions = append(regions, hal.TextureCopy{
			SrcBase: hal.ImageCopyTexture{
				Texture:  src.raw,
				MipLevel: req.Src.Level,
				Origin:   hal.Origin3D{X: uint32(sb.X), Y: uint32(sb.Y), Z: uint32(sb.Z)},
				Aspect:   aspect,
			},
			DstBase: hal.ImageCopyTexture{
				Texture:  dst.raw,
				MipLevel: req.Dst.Level,
				Origin:   hal.Origin3D{X: uint32(db.X), Y: uint32(db.Y), Z: uint32(db.Z)},
				Aspect:   aspect,
			},
			Size: size,
		})
	}

	b.gpuMu.Lock()
	defer b.gpuMu.Unlock()
	err := b.record(b.label("copy"), func(enc hal.CommandEncoder) error {
		enc.CopyTextureToTexture(src.raw, dst.raw, regions)
		return nil
	})
	if err != nil {
		return false, err
	}
	b.regionCopies.Add(1)
	return true, nil
}

// copyAspects returns the aspects a copy of f is split into. WebGPU copies
// depth and stencil of a combined format separately.
func copyAspects(f gputypes.TextureFormat) []gputypes.TextureAspect {
	if format.IsDepthAndStencil(f) {
		return []gputypes.TextureAspect{gputypes.TextureAspectDepthOnly, gputypes.TextureAspectStencilOnly}
	}
	return []gputypes.TextureAspect{gputypes.TextureAspectAll}
}
