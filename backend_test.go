package statetrack

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/statetrack/blit"
	"github.com/gogpu/statetrack/view"
)

type nopHandle struct{}

func (nopHandle) Release() {}

// testBackend implements Backend and view.Binder.
type testBackend struct {
	unsupported bool

	creates int
	rebinds int
	blits   int
	bound   map[view.Stage]int
}

func newTestBackend() *testBackend {
	return &testBackend{bound: make(map[view.Stage]int)}
}

func (b *testBackend) Finalize(tex *view.Texture) (*view.Storage, error) {
	return &view.Storage{
		Format:    gputypes.TextureFormatRGBA8Unorm,
		Target:    tex.Target,
		LastLevel: 0,
		ArraySize: 1,
		Width0:    16,
		Height0:   16,
	}, nil
}

func (b *testBackend) CreateView(_ *view.Storage, desc view.Descriptor) (*view.View, error) {
	b.creates++
	return view.NewView(desc, nopHandle{}), nil
}

func (b *testBackend) RebindView(_ *view.Storage, tmpl *view.View, ctx view.ContextID) (*view.View, error) {
	b.rebinds++
	return view.NewView(tmpl.Descriptor().WithContext(ctx), nopHandle{}), nil
}

func (b *testBackend) BindViews(stage view.Stage, views []*view.View) {
	b.bound[stage] = len(views)
}

func (b *testBackend) Supported(*blit.Request) bool { return !b.unsupported }
func (b *testBackend) CanCopyStencil() bool         { return false }

func (b *testBackend) Blit(*blit.Request) error {
	b.blits++
	return nil
}

func testResource(w, h uint32) *blit.Resource {
	return &blit.Resource{
		Format:      gputypes.TextureFormatRGBA8Unorm,
		Width0:      w,
		Height0:     h,
		SampleCount: 1,
		Cpp:         4,
		Slices:      []blit.Slice{{Stride: w * 4}},
	}
}
