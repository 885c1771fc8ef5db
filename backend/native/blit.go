//go:build !nogpu

package native

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/statetrack/blit"
)

// drawFormats are the formats the blit shader samples as float and renders
// to.
var drawFormats = map[gputypes.TextureFormat]bool{
	gputypes.TextureFormatR8Unorm:        true,
	gputypes.TextureFormatRG8Unorm:       true,
	gputypes.TextureFormatRGBA8Unorm:     true,
	gputypes.TextureFormatRGBA8UnormSrgb: true,
	gputypes.TextureFormatBGRA8Unorm:     true,
	gputypes.TextureFormatBGRA8UnormSrgb: true,
	gputypes.TextureFormatRGB10A2Unorm:   true,
	gputypes.TextureFormatR16Float:       true,
	gputypes.TextureFormatRG16Float:      true,
	gputypes.TextureFormatRGBA16Float:    true,
}

// CanCopyStencil implements blit.Blitter. WebGPU fragment shaders cannot
// export stencil.
func (b *Backend) CanCopyStencil() bool { return false }

// Supported implements blit.Blitter. The draw path scales, flips and
// converts between the float-sampled color formats of single-sampled 2D
// textures.
func (b *Backend) Supported(req *blit.Request) bool {
	if req.Src.Resource == nil || req.Dst.Resource == nil {
		return false
	}
	src, ok := req.Src.Resource.Handle.(*texture)
	if !ok {
		return false
	}
	dst, ok := req.Dst.Resource.Handle.(*texture)
	if !ok {
		return false
	}
	if src.samples > 1 || dst.samples > 1 {
		return false
	}
	if src.dimension == gputypes.TextureDimension3D || dst.dimension == gputypes.TextureDimension3D {
		return false
	}
	if req.Src.Level >= src.levels || req.Dst.Level >= dst.levels {
		return false
	}
	if !drawFormats[src.format] || !drawFormats[dst.format] {
		return false
	}
	if !req.Mask.HasColor() || req.Mask&blit.MaskZS != 0 {
		return false
	}

	sb, db := req.Src.Box, req.Dst.Box
	if sb.Width == 0 || sb.Height == 0 || db.Width == 0 || db.Height == 0 {
		return false
	}
	depth := max(db.Depth, 1)
	if max(sb.Depth, 1) != depth {
		return false
	}
	return sb.Z >= 0 && db.Z >= 0 &&
		uint32(sb.Z+depth) <= src.layers && uint32(db.Z+depth) <= dst.layers
}

// rect is a pixel rectangle, max exclusive.
type rect struct{ x0, y0, x1, y1 int }

func (r rect) empty() bool { return r.x0 >= r.x1 || r.y0 >= r.y1 }

func (r rect) intersect(o rect) rect {
	return rect{max(r.x0, o.x0), max(r.y0, o.y0), min(r.x1, o.x1), min(r.y1, o.y1)}
}

func span(pos, size int) (lo, hi int, flipped bool) {
	if size < 0 {
		return pos + size, pos, true
	}
	return pos, pos + size, false
}

// blitGeometry returns the destination rectangle, the clip rectangle and
// the normalized source rectangle (u0, v0, u1, v1) of req.
func blitGeometry(req *blit.Request, src, dst *texture) (dstRect, clip rect, uv [4]float32) {
	dx0, dx1, dflipX := span(req.Dst.Box.X, req.Dst.Box.Width)
	dy0, dy1, dflipY := span(req.Dst.Box.Y, req.Dst.Box.Height)
	sx0, sx1, sflipX := span(req.Src.Box.X, req.Src.Box.Width)
	sy0, sy1, sflipY := span(req.Src.Box.Y, req.Src.Box.Height)

	dstRect = rect{dx0, dy0, dx1, dy1}
	dw, dh := dst.levelSize(req.Dst.Level)
	clip = dstRect.intersect(rect{0, 0, int(dw), int(dh)})
	if req.ScissorEnable {
		s := req.Scissor
		clip = clip.intersect(rect{s.X, s.Y, s.X + s.Width, s.Y + s.Height})
	}

	sw, sh := src.levelSize(req.Src.Level)
	u0, u1 := float32(sx0)/float32(sw), float32(sx1)/float32(sw)
	v0, v1 := float32(sy0)/float32(sh), float32(sy1)/float32(sh)
	if dflipX != sflipX {
		u0, u1 = u1, u0
	}
	if dflipY != sflipY {
		v0, v1 = v1, v0
	}
	return dstRect, clip, [4]float32{u0, v0, u1, v1}
}

// Blit implements blit.Blitter by drawing a textured quad per layer into
// the destination level. Pixels outside the write mask, the scissor and
// the level are left untouched.
func (b *Backend) Blit(req *blit.Request) error {
	if !b.Supported(req) {
		return fmt.Errorf("native: draw of %s not supported", req)
	}
	src := req.Src.Resource.Handle.(*texture)
	dst := req.Dst.Resource.Handle.(*texture)

	dstRect, clip, uv := blitGeometry(req, src, dst)
	if clip.empty() {
		return nil
	}

	b.gpuMu.Lock()
	defer b.gpuMu.Unlock()

	if err := b.initBlit(); err != nil {
		return err
	}
	pipeline, err := b.pipeline(pipelineKey{format: dst.format, mask: req.Mask.ColorWriteMask()})
	if err != nil {
		return err
	}

	uniforms, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: b.label("blit-uniforms"),
		Size:  blitUniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("native: blit uniforms: %w", err)
	}
	defer b.device.DestroyBuffer(uniforms)

	var data [blitUniformSize]byte
	for i, f := range uv {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(f))
	}
	if err := b.queue.WriteBuffer(uniforms, 0, data[:]); err != nil {
		return fmt.Errorf("native: write blit uniforms: %w", err)
	}

	for z := range max(req.Dst.Box.Depth, 1) {
		err := b.drawLayer(req, pipeline, uniforms, src, dst,
			uint32(req.Src.Box.Z+z), uint32(req.Dst.Box.Z+z), dstRect, clip)
		if err != nil {
			return err
		}
	}
	b.draws.Add(1)
	return nil
}

func (b *Backend) layerView(t *texture, level, layer uint32) (hal.TextureView, error) {
	return b.device.CreateTextureView(t.raw, &hal.TextureViewDescriptor{
		Label:           b.label("blit-view"),
		Format:          t.format,
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          gputypes.TextureAspectAll,
		BaseMipLevel:    level,
		MipLevelCount:   1,
		BaseArrayLayer:  layer,
		ArrayLayerCount: 1,
	})
}

func (b *Backend) drawLayer(req *blit.Request, pipeline hal.RenderPipeline, uniforms hal.Buffer,
	src, dst *texture, srcLayer, dstLayer uint32, dstRect, clip rect) error {
	srcView, err := b.layerView(src, req.Src.Level, srcLayer)
	if err != nil {
		return fmt.Errorf("native: blit source view: %w", err)
	}
	defer b.device.DestroyTextureView(srcView)

	dstView, err := b.layerView(dst, req.Dst.Level, dstLayer)
	if err != nil {
		return fmt.Errorf("native: blit target view: %w", err)
	}
	defer b.device.DestroyTextureView(dstView)

	group, err := b.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  b.label("blit-bind-group"),
		Layout: b.blitRes.BindLayouts[0],
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.TextureViewBinding{TextureView: srcView.NativeHandle()}},
			{Binding: 1, Resource: gputypes.SamplerBinding{Sampler: b.sampler(req.Filter).NativeHandle()}},
			{Binding: 2, Resource: gputypes.BufferBinding{Buffer: uniforms.NativeHandle(), Size: blitUniformSize}},
		},
	})
	if err != nil {
		return fmt.Errorf("native: blit bind group: %w", err)
	}
	defer b.device.DestroyBindGroup(group)

	return b.record(b.label("blit"), func(enc hal.CommandEncoder) error {
		pass := enc.BeginRenderPass(&hal.RenderPassDescriptor{
			Label: b.label("blit-pass"),
			ColorAttachments: []hal.RenderPassColorAttachment{{
				View:    dstView,
				LoadOp:  gputypes.LoadOpLoad,
				StoreOp: gputypes.StoreOpStore,
			}},
		})
		pass.SetPipeline(pipeline)
		pass.SetBindGroup(0, group, nil)
		pass.SetViewport(float32(dstRect.x0), float32(dstRect.y0),
			float32(dstRect.x1-dstRect.x0), float32(dstRect.y1-dstRect.y0), 0, 1)
		pass.SetScissorRect(uint32(clip.x0), uint32(clip.y0),
			uint32(clip.x1-clip.x0), uint32(clip.y1-clip.y0))
		pass.Draw(6, 1, 0, 0)
		pass.End()
		return nil
	})
}
