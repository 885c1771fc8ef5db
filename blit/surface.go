package blit

import "sync/atomic"

// Surface is a render-target view of one mip level, reference counted.
type Surface struct {
	Resource *Resource
	Level    uint32
	Width    uint32
	Height   uint32

	// Handle is the backend object.
	Handle any

	release func(*Surface)
	refs    atomic.Int32
}

// NewSurface returns a surface of level holding one reference. release,
// if not nil, runs when the last reference is dropped.
func NewSurface(res *Resource, level uint32, handle any, release func(*Surface)) *Surface {
	w, h := res.LevelSize(level)
	s := &Surface{
		Resource: res,
		Level:    level,
		Width:    w,
		Height:   h,
		Handle:   handle,
		release:  release,
	}
	s.refs.Store(1)
	return s
}

// Refs returns the current reference count.
func (s *Surface) Refs() int32 { return s.refs.Load() }

// Ref adds a reference and returns s.
func (s *Surface) Ref() *Surface {
	s.refs.Add(1)
	return s
}

// Unref drops a reference. Unref on a nil Surface is a no-op.
func (s *Surface) Unref() {
	if s == nil {
		return
	}
	switch n := s.refs.Add(-1); {
	case n == 0:
		if s.release != nil {
			s.release(s)
		}
	case n < 0:
		panic("blit: Unref of released surface")
	}
}

// setSurface points *dst at s, taking a reference to s and dropping the
// one *dst held.
func setSurface(dst **Surface, s *Surface) {
	if *dst == s {
		return
	}
	if s != nil {
		s.Ref()
	}
	(*dst).Unref()
	*dst = s
}

// TargetState is the render-target state of a tile engine. The engine owns
// one reference to every surface in it.
type TargetState struct {
	ColorRead      *Surface
	ColorWrite     *Surface
	MSAAColorWrite *Surface
	ZSRead         *Surface
	ZSWrite        *Surface
	MSAAZSWrite    *Surface

	// Draw bounds in pixels, max exclusive.
	DrawMinX, DrawMinY uint32
	DrawMaxX, DrawMaxY uint32

	// DrawWidth and DrawHeight are the size of the render target.
	DrawWidth, DrawHeight uint32

	TileWidth, TileHeight uint32

	MSAA       bool
	NeedsFlush bool
}

func (ts *TargetState) surfaces() [6]**Surface {
	return [6]**Surface{
		&ts.ColorRead, &ts.ColorWrite, &ts.MSAAColorWrite,
		&ts.ZSRead, &ts.ZSWrite, &ts.MSAAZSWrite,
	}
}

// Snapshot returns a copy of ts that holds its own surface references.
// Hand it to Restore exactly once.
func (ts *TargetState) Snapshot() TargetState {
	snap := *ts
	for _, s := range snap.surfaces() {
		if *s != nil {
			(*s).Ref()
		}
	}
	return snap
}

// Restore puts the state captured by Snapshot back and drops the
// snapshot's references.
func (ts *TargetState) Restore(snap TargetState) {
	dst, src := ts.surfaces(), snap.surfaces()
	for i := range dst {
		setSurface(dst[i], *src[i])
		(*src[i]).Unref()
	}
	ts.DrawMinX, ts.DrawMinY = snap.DrawMinX, snap.DrawMinY
	ts.DrawMaxX, ts.DrawMaxY = snap.DrawMaxX, snap.DrawMaxY
	ts.DrawWidth, ts.DrawHeight = snap.DrawWidth, snap.DrawHeight
	ts.TileWidth, ts.TileHeight = snap.TileWidth, snap.TileHeight
	ts.MSAA = snap.MSAA
	ts.NeedsFlush = snap.NeedsFlush
}

// Release drops every surface reference held by ts.
func (ts *TargetState) Release() {
	for _, s := range ts.surfaces() {
		setSurface(s, nil)
	}
}
