package view

import (
	"errors"

	"github.com/gogpu/gputypes"
)

var errOOM = errors.New("out of memory")

type fakeHandle struct {
	b        *fakeBackend
	released bool
}

func (h *fakeHandle) Release() {
	h.released = true
	h.b.releases++
}

// fakeBackend records every call the cache makes into it.
type fakeBackend struct {
	storage  map[*Texture]*Storage
	failTex  map[*Texture]bool
	failView bool

	creates  int
	rebinds  int
	releases int

	bound map[Stage][]*View
	binds int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		storage: make(map[*Texture]*Storage),
		failTex: make(map[*Texture]bool),
		bound:   make(map[Stage][]*View),
	}
}

func (b *fakeBackend) Finalize(tex *Texture) (*Storage, error) {
	if b.failTex[tex] {
		return nil, errOOM
	}
	if st, ok := b.storage[tex]; ok {
		return st, nil
	}
	st := &Storage{
		Format:    gputypes.TextureFormatRGBA8Unorm,
		Target:    tex.Target,
		LastLevel: 9,
		ArraySize: 1,
		Width0:    512,
		Height0:   512,
	}
	b.storage[tex] = st
	return st, nil
}

func (b *fakeBackend) CreateView(_ *Storage, desc Descriptor) (*View, error) {
	if b.failView {
		return nil, errOOM
	}
	b.creates++
	return NewView(desc, &fakeHandle{b: b}), nil
}

func (b *fakeBackend) RebindView(_ *Storage, tmpl *View, ctx ContextID) (*View, error) {
	if b.failView {
		return nil, errOOM
	}
	b.rebinds++
	return NewView(tmpl.Descriptor().WithContext(ctx), &fakeHandle{b: b}), nil
}

func (b *fakeBackend) BindViews(stage Stage, views []*View) {
	b.binds++
	b.bound[stage] = append([]*View(nil), views...)
}

func newTestCache(b *fakeBackend) *Cache {
	return New(b, b)
}

func newTestBindings(b *fakeBackend, opts ...Option) *Bindings {
	return NewBindings(New(b, b), append([]Option{WithBinder(b)}, opts...)...)
}
