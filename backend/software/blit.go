package software

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/statetrack/blit"
)

// channelOrder gives the byte index of R, G, B and A for the 8-bit color
// formats the draw path handles.
var channelOrder = map[gputypes.TextureFormat][4]int{
	gputypes.TextureFormatRGBA8Unorm:     {0, 1, 2, 3},
	gputypes.TextureFormatRGBA8UnormSrgb: {0, 1, 2, 3},
	gputypes.TextureFormatBGRA8Unorm:     {2, 1, 0, 3},
	gputypes.TextureFormatBGRA8UnormSrgb: {2, 1, 0, 3},
}

// aspectRange is a byte range of one aspect inside a depth/stencil texel.
type aspectRange struct{ off, n int }

func depthStencilBytes(f gputypes.TextureFormat) (depth, stencil aspectRange) {
	switch f {
	case gputypes.TextureFormatDepth16Unorm:
		return aspectRange{0, 2}, aspectRange{}
	case gputypes.TextureFormatDepth24Plus, gputypes.TextureFormatDepth32Float:
		return aspectRange{0, 4}, aspectRange{}
	case gputypes.TextureFormatDepth24PlusStencil8:
		return aspectRange{0, 3}, aspectRange{3, 1}
	case gputypes.TextureFormatDepth32FloatStencil8:
		return aspectRange{0, 4}, aspectRange{4, 1}
	case gputypes.TextureFormatStencil8:
		return aspectRange{}, aspectRange{0, 1}
	default:
		return aspectRange{}, aspectRange{}
	}
}

// CanCopyStencil implements blit.Blitter.
func (b *Backend) CanCopyStencil() bool { return b.stencilOut }

// Supported implements blit.Blitter. The draw path converts between the
// 8-bit RGBA and BGRA formats, scales, flips and resolves. Depth and
// stencil are copied between equal formats with nearest filtering.
func (b *Backend) Supported(req *blit.Request) bool {
	if req.Src.Resource == nil || req.Dst.Resource == nil {
		return false
	}
	src, ok := req.Src.Resource.Handle.(*Image)
	if !ok {
		return false
	}
	dst, ok := req.Dst.Resource.Handle.(*Image)
	if !ok || dst.Samples() > 1 {
		return false
	}
	if req.Src.Level >= src.Levels() || req.Dst.Level >= dst.Levels() {
		return false
	}
	sb, db := req.Src.Box, req.Dst.Box
	if sb.Width == 0 || sb.Height == 0 || db.Width == 0 || db.Height == 0 {
		return false
	}
	if max(sb.Depth, 1) != max(db.Depth, 1) {
		return false
	}

	_, srcColor := channelOrder[src.Format()]
	_, dstColor := channelOrder[dst.Format()]
	switch {
	case srcColor && dstColor:
		return req.Mask.HasColor() && req.Mask&blit.MaskZS == 0
	case dst.Format().IsDepthStencil():
		if src.Format() != dst.Format() || req.Filter != blit.FilterNearest {
			return false
		}
		if req.Mask == 0 || req.Mask&blit.MaskRGBA != 0 {
			return false
		}
		if req.Mask&blit.MaskS != 0 && !b.stencilOut {
			return false
		}
		return req.Mask&^blit.FormatMask(dst.Format()) == 0
	default:
		return false
	}
}

// Blit implements blit.Blitter. Like a real draw it leaves the blit
// pipeline bound.
func (b *Backend) Blit(req *blit.Request) error {
	if !b.Supported(req) {
		return fmt.Errorf("software: draw of %s not supported", req)
	}
	src := req.Src.Resource.Handle.(*Image)
	dst := req.Dst.Resource.Handle.(*Image)

	b.clobberPipeline()
	layers := max(req.Dst.Box.Depth, 1)
	for z := range layers {
		srcLayer := uint32(req.Src.Box.Z + z)
		dstLayer := uint32(req.Dst.Box.Z + z)
		if srcLayer >= src.Layers() || dstLayer >= dst.Layers() {
			return fmt.Errorf("software: draw layer %d out of range", z)
		}
		if dst.Format().IsDepthStencil() {
			b.blitDepthStencil(req, src, dst, srcLayer, dstLayer)
		} else {
			b.blitColor(req, src, dst, srcLayer, dstLayer)
		}
	}
	b.draws.Add(1)
	return nil
}

func span(pos, size int) (lo, hi int, flipped bool) {
	if size < 0 {
		return pos + size, pos, true
	}
	return pos, pos + size, false
}

// dstPixels walks the destination box in raster order and calls fn with
// the destination pixel and its position (i, j) in the unflipped source
// orientation. Pixels outside the level or the scissor are skipped.
func dstPixels(req *blit.Request, dst *Image, fn func(x, y uint32, i, j int)) {
	db := req.Dst.Box
	x0, x1, dflipX := span(db.X, db.Width)
	y0, y1, dflipY := span(db.Y, db.Height)
	_, _, sflipX := span(req.Src.Box.X, req.Src.Box.Width)
	_, _, sflipY := span(req.Src.Box.Y, req.Src.Box.Height)
	flipX, flipY := dflipX != sflipX, dflipY != sflipY
	w, h := dst.Size(req.Dst.Level)
	dw, dh := x1-x0, y1-y0

	for y := y0; y < y1; y++ {
		if y < 0 || y >= int(h) {
			continue
		}
		if req.ScissorEnable && (y < req.Scissor.Y || y >= req.Scissor.Y+req.Scissor.Height) {
			continue
		}
		j := y - y0
		if flipY {
			j = dh - 1 - j
		}
		for x := x0; x < x1; x++ {
			if x < 0 || x >= int(w) {
				continue
			}
			if req.ScissorEnable && (x < req.Scissor.X || x >= req.Scissor.X+req.Scissor.Width) {
				continue
			}
			i := x - x0
			if flipX {
				i = dw - 1 - i
			}
			fn(uint32(x), uint32(y), i, j)
		}
	}
}

// blitColor scales the source box into a scratch image with x/image/draw
// and merges it into the destination under the channel mask.
func (b *Backend) blitColor(req *blit.Request, src, dst *Image, srcLayer, dstLayer uint32) {
	srcOrder, dstOrder := channelOrder[src.Format()], channelOrder[dst.Format()]

	sw, sh := src.Size(req.Src.Level)
	level := image.NewRGBA(image.Rect(0, 0, int(sw), int(sh)))
	for y := range sh {
		for x := range sw {
			t := src.texel(req.Src.Level, srcLayer, x, y, 0)
			if t == nil {
				continue
			}
			p := level.PixOffset(int(x), int(y))
			for c := range 4 {
				level.Pix[p+c] = t[srcOrder[c]]
			}
		}
	}

	sx0, sx1, _ := span(req.Src.Box.X, req.Src.Box.Width)
	sy0, sy1, _ := span(req.Src.Box.Y, req.Src.Box.Height)
	dw, dh := abs(req.Dst.Box.Width), abs(req.Dst.Box.Height)
	scratch := image.NewRGBA(image.Rect(0, 0, dw, dh))
	scaler(req.Filter).Scale(scratch, scratch.Bounds(), level,
		image.Rect(sx0, sy0, sx1, sy1), xdraw.Src, nil)

	channels := [4]blit.Mask{blit.MaskR, blit.MaskG, blit.MaskB, blit.MaskA}
	dstPixels(req, dst, func(x, y uint32, i, j int) {
		t := dst.texel(req.Dst.Level, dstLayer, x, y, 0)
		if t == nil {
			return
		}
		p := scratch.PixOffset(i, j)
		for c, bit := range channels {
			if req.Mask&bit != 0 {
				t[dstOrder[c]] = scratch.Pix[p+c]
			}
		}
	})
}

// blitDepthStencil copies the masked aspects with nearest filtering,
// reading sample 0 of multisampled sources.
func (b *Backend) blitDepthStencil(req *blit.Request, src, dst *Image, srcLayer, dstLayer uint32) {
	depth, stencil := depthStencilBytes(dst.Format())
	var ranges []aspectRange
	if req.Mask&blit.MaskZ != 0 && depth.n > 0 {
		ranges = append(ranges, depth)
	}
	if req.Mask&blit.MaskS != 0 && stencil.n > 0 {
		ranges = append(ranges, stencil)
	}

	sx0, sx1, _ := span(req.Src.Box.X, req.Src.Box.Width)
	sy0, sy1, _ := span(req.Src.Box.Y, req.Src.Box.Height)
	dw, dh := abs(req.Dst.Box.Width), abs(req.Dst.Box.Height)
	dstPixels(req, dst, func(x, y uint32, i, j int) {
		sx := sx0 + (2*i+1)*(sx1-sx0)/(2*dw)
		sy := sy0 + (2*j+1)*(sy1-sy0)/(2*dh)
		if sx < 0 || sy < 0 {
			return
		}
		from := src.texel(req.Src.Level, srcLayer, uint32(sx), uint32(sy), 0)
		to := dst.texel(req.Dst.Level, dstLayer, x, y, 0)
		if from == nil || to == nil {
			return
		}
		for _, r := range ranges {
			copy(to[r.off:r.off+r.n], from[r.off:r.off+r.n])
		}
	})
}

func scaler(f blit.Filter) xdraw.Scaler {
	if f == blit.FilterLinear {
		return xdraw.ApproxBiLinear
	}
	return xdraw.NearestNeighbor
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
