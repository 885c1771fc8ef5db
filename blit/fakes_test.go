package blit

import (
	"errors"

	"github.com/gogpu/gputypes"
)

var errBackend = errors.New("backend failure")

type fakeTileEngine struct {
	state TargetState

	flushErr  error
	submitErr error
	noState   bool

	flushes  int
	submits  int
	created  []*Surface
	released int

	// atSubmit is the state seen by the last job.
	atSubmit TargetState
}

func (e *fakeTileEngine) Flush() error {
	e.flushes++
	return e.flushErr
}

func (e *fakeTileEngine) TargetState() *TargetState {
	if e.noState {
		return nil
	}
	return &e.state
}

func (e *fakeTileEngine) CreateSurface(res *Resource, level uint32) (*Surface, error) {
	s := NewSurface(res, level, nil, func(*Surface) { e.released++ })
	e.created = append(e.created, s)
	return s, nil
}

func (e *fakeTileEngine) SubmitJob() error {
	e.submits++
	e.atSubmit = e.state
	return e.submitErr
}

type fakeRegion struct {
	calls int
	last  Request
	err   error
}

func (r *fakeRegion) TryCopyRegion(req *Request) (bool, error) {
	r.calls++
	r.last = *req
	if r.err != nil {
		return false, r.err
	}
	return CanCopyRegion(req), nil
}

type fakeBlitter struct {
	unsupported bool
	stencil     bool
	err         error

	calls int
	last  Request
	log   *[]string
}

func (b *fakeBlitter) Supported(*Request) bool { return !b.unsupported }
func (b *fakeBlitter) CanCopyStencil() bool    { return b.stencil }

func (b *fakeBlitter) Blit(req *Request) error {
	b.calls++
	b.last = *req
	if b.log != nil {
		*b.log = append(*b.log, "blit")
	}
	return b.err
}

type fakeSnapshot struct {
	kind StateKind
	log  *[]string
}

func (s fakeSnapshot) Restore() {
	*s.log = append(*s.log, "restore "+s.kind.String())
}

type fakeSaver struct {
	log []string
}

func (s *fakeSaver) Save(kind StateKind) Snapshot {
	s.log = append(s.log, "save "+kind.String())
	return fakeSnapshot{kind: kind, log: &s.log}
}

// linearResource returns a single-level, single-sampled RGBA8 resource
// with the stride the tile engine expects.
func linearResource(w, h uint32) *Resource {
	return &Resource{
		Format:      gputypes.TextureFormatRGBA8Unorm,
		Width0:      w,
		Height0:     h,
		SampleCount: 1,
		Cpp:         4,
		Slices:      []Slice{{Stride: align(w*4, 16), Tiling: TilingLinear}},
	}
}

func copyRequest(src, dst *Resource, box Box) Request {
	return Request{
		Src:  Side{Resource: src, Box: box},
		Dst:  Side{Resource: dst, Box: box},
		Mask: MaskRGBA,
	}
}
