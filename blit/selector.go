package blit

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned when no path can execute a blit. The
// destination is left untouched.
var ErrUnsupported = errors.New("blit: unsupported")

// Option configures a Selector.
type Option func(*Selector)

// WithTileEngine enables the tile fast path.
func WithTileEngine(te TileEngine) Option {
	return func(s *Selector) {
		s.tile = te
	}
}

// WithRegionCopier enables the region copy path.
func WithRegionCopier(rc RegionCopier) Option {
	return func(s *Selector) {
		s.region = rc
	}
}

// WithStateSaver sets the saver the generic path saves pipeline state
// through.
func WithStateSaver(ss StateSaver) Option {
	return func(s *Selector) {
		s.saver = ss
	}
}

// Stats counts blits per path.
type Stats struct {
	Tile        uint64
	Region      uint64
	Generic     uint64
	Unsupported uint64
	MaskReduced uint64
}

// Selector runs each blit on the first path whose preconditions hold.
// A Selector is not safe for concurrent use.
type Selector struct {
	tile    TileEngine
	region  RegionCopier
	blitter Blitter
	saver   StateSaver

	tileCount    uint64
	regionCount  uint64
	genericCount uint64
	unsupported  uint64
	maskReduced  uint64
}

// NewSelector creates a selector whose generic path draws through b.
// Without b only the tile and region paths are available.
func NewSelector(b Blitter, opts ...Option) *Selector {
	s := &Selector{blitter: b}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Blit executes req on the cheapest path that can do it.
//
// Paths that fail their preconditions, or fail before changing any state,
// pass the request on to the next one. Once a path has committed its
// result is final. When only the generic path is left and it cannot write
// stencil, the stencil aspect is dropped and Result.MaskReduced is set.
func (s *Selector) Blit(req Request) (Result, error) {
	if req.Src.Resource == nil || req.Dst.Resource == nil {
		return Result{}, fmt.Errorf("%w: missing resource", ErrUnsupported)
	}

	if s.tile != nil {
		done, err := tileCopy(s.tile, &req)
		if done {
			s.tileCount++
			return Result{Path: PathTile, Mask: req.Mask}, err
		}
		if err != nil {
			slogger().Warn("blit: tile path failed before commit", "error", err)
		}
	}

	if s.region != nil {
		done, err := s.region.TryCopyRegion(&req)
		if done || err != nil {
			s.regionCount++
			slogger().Debug("blit: region copy", "request", req.String())
			return Result{Path: PathRegion, Mask: req.Mask}, err
		}
	}

	res := Result{Path: PathGeneric, Mask: req.Mask}
	if res.Mask&MaskS != 0 && (s.blitter == nil || !s.blitter.CanCopyStencil()) {
		slogger().Warn("blit: cannot blit stencil, skipping")
		res.Mask &^= MaskS
		res.MaskReduced = true
		s.maskReduced++
	}
	req.Mask = res.Mask

	if s.blitter == nil || req.Mask == 0 || !s.blitter.Supported(&req) {
		s.unsupported++
		slogger().Warn("blit: unsupported",
			"src", req.Src.Resource.Format.String(), "dst", req.Dst.Resource.Format.String())
		return Result{Mask: req.Mask, MaskReduced: res.MaskReduced},
			fmt.Errorf("%w: %s -> %s", ErrUnsupported, req.Src.Resource.Format, req.Dst.Resource.Format)
	}

	s.genericCount++
	slogger().Debug("blit: generic", "request", req.String())
	return res, genericBlit(s.blitter, s.saver, &req)
}

// Stats returns the per-path counters.
func (s *Selector) Stats() Stats {
	return Stats{
		Tile:        s.tileCount,
		Region:      s.regionCount,
		Generic:     s.genericCount,
		Unsupported: s.unsupported,
		MaskReduced: s.maskReduced,
	}
}
