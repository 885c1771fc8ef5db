package software

import (
	"errors"
	"fmt"

	"github.com/gogpu/statetrack/blit"
)

// Flush implements blit.TileEngine. The software engine renders eagerly,
// so it only clears the pending flag.
func (b *Backend) Flush() error {
	b.flushes.Add(1)
	b.target.NeedsFlush = false
	return nil
}

// TargetState implements blit.TileEngine.
func (b *Backend) TargetState() *blit.TargetState { return &b.target }

// CreateSurface implements blit.TileEngine.
func (b *Backend) CreateSurface(res *blit.Resource, level uint32) (*blit.Surface, error) {
	img, ok := res.Handle.(*Image)
	if !ok {
		return nil, ErrForeignStorage
	}
	if level >= img.Levels() {
		return nil, fmt.Errorf("software: surface of level %d, image has %d", level, img.Levels())
	}
	return blit.NewSurface(res, level, img, nil), nil
}

// SubmitJob implements blit.TileEngine. It loads ColorRead and stores the
// draw bounds to the color write surface, replicating or dropping samples
// as the surfaces require.
func (b *Backend) SubmitJob() error {
	ts := &b.target
	dstSurf := ts.ColorWrite
	if dstSurf == nil {
		dstSurf = ts.MSAAColorWrite
	}
	if ts.ColorRead == nil || dstSurf == nil {
		return errors.New("software: tile job without color surfaces")
	}
	src, ok := ts.ColorRead.Handle.(*Image)
	if !ok {
		return ErrForeignStorage
	}
	dst, ok := dstSurf.Handle.(*Image)
	if !ok {
		return ErrForeignStorage
	}
	if src.Cpp() != dst.Cpp() {
		return fmt.Errorf("software: tile job between %d and %d byte pixels", src.Cpp(), dst.Cpp())
	}

	maxX := min(ts.DrawMaxX, dstSurf.Width, ts.ColorRead.Width)
	maxY := min(ts.DrawMaxY, dstSurf.Height, ts.ColorRead.Height)
	for y := ts.DrawMinY; y < maxY; y++ {
		for x := ts.DrawMinX; x < maxX; x++ {
			for s := range dst.Samples() {
				copy(dst.texel(dstSurf.Level, 0, x, y, s),
					src.texel(ts.ColorRead.Level, 0, x, y, s%src.Samples()))
			}
		}
	}
	b.tileJobs.Add(1)
	ts.NeedsFlush = false
	return nil
}

// TryCopyRegion implements blit.RegionCopier for plain copies between
// images of this backend.
func (b *Backend) TryCopyRegion(req *blit.Request) (bool, error) {
	if !blit.CanCopyRegion(req) {
		return false, nil
	}
	src, ok := req.Src.Resource.Handle.(*Image)
	if !ok {
		return false, nil
	}
	dst, ok := req.Dst.Resource.Handle.(*Image)
	if !ok {
		return false, nil
	}

	sb, db := req.Src.Box, req.Dst.Box
	depth := max(sb.Depth, 1)
	if sb.Z+depth > int(src.Layers()) || db.Z+depth > int(dst.Layers()) {
		return false, nil
	}
	for z := range depth {
		for y := range db.Height {
			from := src.row(req.Src.Level, uint32(sb.Z+z), uint32(sb.X), uint32(sb.Y+y), uint32(sb.Width))
			to := dst.row(req.Dst.Level, uint32(db.Z+z), uint32(db.X), uint32(db.Y+y), uint32(db.Width))
			if from == nil || to == nil {
				return true, fmt.Errorf("software: region row %d out of bounds", y)
			}
			copy(to, from)
		}
	}
	b.regionCopies.Add(1)
	return true, nil
}
