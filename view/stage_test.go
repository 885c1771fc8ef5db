package view

import (
	"testing"

	"github.com/gogpu/statetrack/format"
)

func textures(n int) []Unit {
	units := make([]Unit, n)
	for i := range units {
		units[i].Texture = NewTexture(uint64(i + 1))
	}
	return units
}

func TestUpdateStageBindsPrefix(t *testing.T) {
	b := newFakeBackend()
	c := newTestBindings(b)
	units := textures(4)

	prog := &Program{SamplersUsed: 0b0101}
	n := c.UpdateStage(StageFragment, prog, units, Env{})
	if n != 3 {
		t.Fatalf("count = %d, want 3", n)
	}
	bound := b.bound[StageFragment]
	if len(bound) != 3 || bound[0] == nil || bound[1] != nil || bound[2] == nil {
		t.Fatalf("bound = %v", bound)
	}
	if bound[0].Refs() != 2 {
		t.Errorf("bound view refs = %d, want 2 (slot record and stage)", bound[0].Refs())
	}
}

func TestUpdateStageSamplerUnits(t *testing.T) {
	b := newFakeBackend()
	c := newTestBindings(b)
	units := textures(4)
	units[3].Texture.BaseLevel = 3

	prog := &Program{SamplersUsed: 0b1, SamplerUnits: []uint32{3}}
	c.UpdateStage(StageFragment, prog, units, Env{})
	if got := c.Bound(StageFragment)[0].Descriptor().FirstLevel; got != 3 {
		t.Errorf("sampler 0 reads level %d, want texture unit 3's base level 3", got)
	}
}

func TestUpdateStageNoopWhenIdle(t *testing.T) {
	b := newFakeBackend()
	c := newTestBindings(b)

	if n := c.UpdateStage(StageVertex, &Program{}, nil, Env{}); n != 0 {
		t.Errorf("count = %d, want 0", n)
	}
	if b.binds != 0 {
		t.Errorf("binder called %d times for an idle stage", b.binds)
	}
}

func TestUpdateStageUnbindsOldViews(t *testing.T) {
	b := newFakeBackend()
	c := newTestBindings(b)
	units := textures(4)

	c.UpdateStage(StageFragment, &Program{SamplersUsed: 0b1111}, units, Env{})
	old := c.Bound(StageFragment)[3]

	n := c.UpdateStage(StageFragment, &Program{SamplersUsed: 0b0001}, units, Env{})
	if n != 1 {
		t.Fatalf("count = %d, want 1", n)
	}
	if b.binds != 2 {
		t.Errorf("binds = %d, want 2", b.binds)
	}
	if len(b.bound[StageFragment]) != 1 {
		t.Errorf("bound %d views, want 1", len(b.bound[StageFragment]))
	}
	// The slot record still holds unit 3's view; the stage reference is gone.
	if old.Refs() != 1 {
		t.Errorf("unit 3 refs = %d, want 1", old.Refs())
	}

	c.UpdateStage(StageFragment, &Program{}, units, Env{})
	if b.binds != 3 || len(b.bound[StageFragment]) != 0 {
		t.Errorf("binds = %d, bound = %d: clearing the last views must still bind", b.binds, len(b.bound[StageFragment]))
	}
	c.UpdateStage(StageFragment, &Program{}, units, Env{})
	if b.binds != 3 {
		t.Errorf("binds = %d, want no call once the stage is idle", b.binds)
	}
}

func TestUpdateStageUnavailableStillCounts(t *testing.T) {
	b := newFakeBackend()
	c := newTestBindings(b)
	units := textures(2)
	tex, st := bufferTexture(2048, 16)
	b.storage[tex] = st
	units[1].Texture = tex

	n := c.UpdateStage(StageFragment, &Program{SamplersUsed: 0b11}, units, Env{})
	if n != 2 {
		t.Fatalf("count = %d, want 2", n)
	}
	if c.Bound(StageFragment)[1] != nil {
		t.Error("unavailable unit bound a view")
	}
	if c.Cache().Stats().Unavailable != 1 {
		t.Errorf("unavailable = %d, want 1", c.Cache().Stats().Unavailable)
	}
}

func TestUpdateStageExhaustedSkipsUnit(t *testing.T) {
	b := newFakeBackend()
	c := newTestBindings(b)
	units := textures(3)
	b.failTex[units[2].Texture] = true

	n := c.UpdateStage(StageFragment, &Program{SamplersUsed: 0b111}, units, Env{})
	if n != 2 {
		t.Fatalf("count = %d, want 2: the exhausted last unit must not extend the prefix", n)
	}
	if got := len(c.Bound(StageFragment)); got != 2 {
		t.Errorf("bound %d views, want 2", got)
	}

	// A failing unit in the middle is skipped and the rest still resolve.
	delete(b.failTex, units[2].Texture)
	b.failTex[units[1].Texture] = true
	n = c.UpdateStage(StageFragment, &Program{SamplersUsed: 0b111}, units, Env{})
	if n != 3 {
		t.Fatalf("count = %d, want 3", n)
	}
	bound := c.Bound(StageFragment)
	if bound[0] == nil || bound[1] != nil || bound[2] == nil {
		t.Errorf("bound = %v", bound)
	}
}

func TestUpdateStageFallbackTexture(t *testing.T) {
	b := newFakeBackend()
	fallback := NewTexture(99)
	c := newTestBindings(b, WithFallback(fallback))

	n := c.UpdateStage(StageFragment, &Program{SamplersUsed: 0b10}, nil, Env{})
	if n != 2 {
		t.Fatalf("count = %d, want 2", n)
	}
	if c.Bound(StageFragment)[1] == nil {
		t.Error("fallback texture not bound")
	}
	if _, ok := b.storage[fallback]; !ok {
		t.Error("fallback texture not finalized")
	}
}

func TestUpdateStageWithoutFallback(t *testing.T) {
	b := newFakeBackend()
	c := newTestBindings(b)

	n := c.UpdateStage(StageFragment, &Program{SamplersUsed: 0b1}, nil, Env{})
	if n != 1 || c.Bound(StageFragment)[0] != nil {
		t.Errorf("count = %d, bound = %v: empty unit should bind nothing", n, c.Bound(StageFragment))
	}
}

func TestUpdateStageMaxUnits(t *testing.T) {
	b := newFakeBackend()
	c := newTestBindings(b, WithMaxUnits(2))
	units := textures(4)

	n := c.UpdateStage(StageFragment, &Program{SamplersUsed: 0b1111}, units, Env{})
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
	if c.MaxUnits() != 2 {
		t.Errorf("MaxUnits = %d", c.MaxUnits())
	}
}

func TestUpdateStageGLSLVersion(t *testing.T) {
	b := newFakeBackend()
	c := newTestBindings(b)
	units := textures(1)
	units[0].Texture.BaseFormat = format.BaseDepthComponent
	units[0].Texture.DepthMode = format.DepthModeAlpha

	c.UpdateStage(StageFragment, &Program{SamplersUsed: 1, GLSLVersion: 110}, units, Env{})
	legacy := c.Bound(StageFragment)[0].Descriptor().Swizzle
	c.UpdateStage(StageFragment, &Program{SamplersUsed: 1, GLSLVersion: 330}, units, Env{})
	modern := c.Bound(StageFragment)[0].Descriptor().Swizzle
	if legacy == modern {
		t.Errorf("swizzle %s did not change with the program version", legacy)
	}
	if b.creates != 2 {
		t.Errorf("creates = %d, want 2", b.creates)
	}
}

func TestUpdateStageNilProgramSkips(t *testing.T) {
	b := newFakeBackend()
	c := newTestBindings(b)
	units := textures(1)

	c.UpdateStage(StageGeometry, &Program{SamplersUsed: 1}, units, Env{})
	if n := c.UpdateStage(StageGeometry, nil, units, Env{}); n != 1 {
		t.Errorf("count = %d, want the previous count 1", n)
	}
	if b.binds != 1 {
		t.Errorf("binds = %d, want 1", b.binds)
	}
}

func TestUpdateAll(t *testing.T) {
	b := newFakeBackend()
	c := newTestBindings(b)
	units := textures(2)

	progs := make([]*Program, NumStages)
	progs[StageVertex] = &Program{SamplersUsed: 0b01}
	progs[StageFragment] = &Program{SamplersUsed: 0b11}
	c.UpdateAll(progs, units, Env{})

	if len(c.Bound(StageVertex)) != 1 || len(c.Bound(StageFragment)) != 2 {
		t.Errorf("vertex %d, fragment %d", len(c.Bound(StageVertex)), len(c.Bound(StageFragment)))
	}
	if len(c.Bound(StageGeometry)) != 0 {
		t.Error("geometry stage bound without a program")
	}
}

func TestBindingsSharingCache(t *testing.T) {
	b := newFakeBackend()
	other := newFakeBackend()
	c := New(b, b)
	first := NewBindings(c, WithBinder(b))
	second := NewBindings(c, WithBinder(other), WithMaxUnits(4))
	units := textures(2)

	first.UpdateStage(StageFragment, &Program{SamplersUsed: 0b11}, units, Env{Context: 1})
	n := second.UpdateStage(StageFragment, &Program{SamplersUsed: 0b1}, units, Env{Context: 2})
	if n != 1 {
		t.Fatalf("second count = %d, want 1", n)
	}
	if b.binds != 1 || other.binds != 1 {
		t.Errorf("binds = %d and %d, want one call per binder", b.binds, other.binds)
	}
	if got := len(first.Bound(StageFragment)); got != 2 {
		t.Errorf("first bound = %d units, want 2", got)
	}
	if got := first.Bound(StageFragment)[0].Context(); got != 1 {
		t.Errorf("first unit 0 context = %d, want 1", got)
	}
	if got := second.Bound(StageFragment)[0].Context(); got != 2 {
		t.Errorf("second unit 0 context = %d, want 2", got)
	}
	if first.MaxUnits() != DefaultMaxUnits || second.MaxUnits() != 4 {
		t.Errorf("max units = %d and %d", first.MaxUnits(), second.MaxUnits())
	}
	if b.rebinds != 1 {
		t.Errorf("rebinds = %d, want 1", b.rebinds)
	}
}
