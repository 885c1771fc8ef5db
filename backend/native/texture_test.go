//go:build !nogpu

package native

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/statetrack/format"
	"github.com/gogpu/statetrack/view"
)

func TestFinalize(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(*view.Texture)
		wantDim    gputypes.TextureDimension
		wantLevels uint32
		wantLayers uint32
		wantSample uint32
	}{
		{"2d", func(tex *view.Texture) { tex.Width, tex.Height = 64, 32 }, gputypes.TextureDimension2D, 7, 1, 1},
		{"1d", func(tex *view.Texture) { tex.Target, tex.Width = view.Target1D, 16 }, gputypes.TextureDimension1D, 5, 1, 1},
		{"cube", func(tex *view.Texture) {
			tex.Target, tex.Width, tex.Height = view.TargetCube, 8, 8
		}, gputypes.TextureDimension2D, 4, 6, 1},
		{"2d array", func(tex *view.Texture) {
			tex.Target, tex.Width, tex.Height, tex.Depth = view.Target2DArray, 4, 4, 3
		}, gputypes.TextureDimension2D, 3, 3, 1},
		{"3d", func(tex *view.Texture) {
			tex.Target, tex.Width, tex.Height, tex.Depth = view.Target3D, 4, 4, 8
		}, gputypes.TextureDimension3D, 4, 8, 1},
		{"msaa", func(tex *view.Texture) {
			tex.Target, tex.Width, tex.Height = view.Target2DMultisample, 16, 16
		}, gputypes.TextureDimension2D, 1, 1, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBackend(t)
			tex := view.NewTexture(1)
			tt.setup(tex)

			st, err := b.Finalize(tex)
			if err != nil {
				t.Fatalf("Finalize: %v", err)
			}
			again, err := b.Finalize(tex)
			if err != nil || again != st {
				t.Fatalf("second Finalize = %p, %v; want the same storage", again, err)
			}

			tx, ok := st.Handle.(*texture)
			if !ok {
				t.Fatalf("Handle = %T, want *texture", st.Handle)
			}
			if tx.dimension != tt.wantDim {
				t.Errorf("dimension = %v, want %v", tx.dimension, tt.wantDim)
			}
			if tx.levels != tt.wantLevels || tx.layers != tt.wantLayers || tx.samples != tt.wantSample {
				t.Errorf("levels/layers/samples = %d/%d/%d, want %d/%d/%d",
					tx.levels, tx.layers, tx.samples, tt.wantLevels, tt.wantLayers, tt.wantSample)
			}
			if got := b.Stats().Finalized; got != 1 {
				t.Errorf("Finalized = %d, want 1", got)
			}
		})
	}
}

func TestFinalizeBufferUnsupported(t *testing.T) {
	b := newTestBackend(t)
	tex := view.NewTexture(1)
	tex.Target = view.TargetBuffer
	tex.Width = 256

	if _, err := b.Finalize(tex); !errors.Is(err, ErrUnsupportedTarget) {
		t.Errorf("err = %v, want ErrUnsupportedTarget", err)
	}
}

func TestTextureUsage(t *testing.T) {
	if u := textureUsage(gputypes.TextureFormatRGBA8Unorm); u&gputypes.TextureUsageRenderAttachment == 0 {
		t.Error("color textures should be renderable")
	}
	if u := textureUsage(gputypes.TextureFormatBC1RGBAUnorm); u&gputypes.TextureUsageRenderAttachment != 0 {
		t.Error("compressed textures cannot be render attachments")
	}
	if got := viewFormats(gputypes.TextureFormatRGBA8UnormSrgb); len(got) != 1 || got[0] != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("viewFormats(sRGB) = %v, want [RGBA8Unorm]", got)
	}
	if got := viewFormats(gputypes.TextureFormatRGBA8Unorm); got != nil {
		t.Errorf("viewFormats(linear) = %v, want nil", got)
	}
}

func TestViewLifetime(t *testing.T) {
	b := newTestBackend(t)
	tex := view.NewTexture(7)
	tex.Width, tex.Height = 8, 8
	tex.Swizzle = format.NewSwizzle(format.Z, format.Y, format.X, format.One)
	st, err := b.Finalize(tex)
	if err != nil {
		t.Fatal(err)
	}

	desc := view.Descriptor{
		Format:    st.Format,
		Target:    view.Target2D,
		Swizzle:   tex.Swizzle,
		LastLevel: 3,
		Context:   1,
	}
	v, err := b.CreateView(st, desc)
	if err != nil {
		t.Fatalf("CreateView: %v", err)
	}
	if _, sw, ok := TextureView(v); !ok || sw != tex.Swizzle {
		t.Errorf("TextureView swizzle = %v, %v; want %v", sw, ok, tex.Swizzle)
	}

	other, err := b.RebindView(st, v, 2)
	if err != nil {
		t.Fatalf("RebindView: %v", err)
	}
	if other.Context() != 2 || !other.Descriptor().Matches(desc) {
		t.Errorf("rebound view = %s, want %s in context 2", other.Descriptor(), desc)
	}

	s := b.Stats()
	if s.ViewsCreated != 1 || s.ViewsRebound != 1 || s.LiveViews != 2 {
		t.Errorf("Stats = %+v", s)
	}
	v.Unref()
	other.Unref()
	if got := b.Stats().LiveViews; got != 0 {
		t.Errorf("LiveViews = %d after release, want 0", got)
	}
}

func TestCreateViewErrors(t *testing.T) {
	b := newTestBackend(t)
	tex := view.NewTexture(1)
	tex.Width, tex.Height = 4, 4
	st, err := b.Finalize(tex)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := b.CreateView(st, view.Descriptor{Format: st.Format, LastLevel: 3}); err == nil {
		t.Error("level past the mip chain should fail")
	}
	if _, err := b.CreateView(st, view.Descriptor{Format: st.Format, LastLayer: 1}); err == nil {
		t.Error("layer past the array should fail")
	}
	if _, err := b.CreateView(st, view.Descriptor{Target: view.TargetBuffer}); !errors.Is(err, ErrUnsupportedTarget) {
		t.Errorf("buffer view: err = %v, want ErrUnsupportedTarget", err)
	}
	foreign := &view.Storage{Handle: "not a texture"}
	if _, err := b.CreateView(foreign, view.Descriptor{}); !errors.Is(err, ErrForeignStorage) {
		t.Errorf("foreign storage: err = %v, want ErrForeignStorage", err)
	}
	if _, _, ok := TextureView(view.NewView(view.Descriptor{}, nil)); ok {
		t.Error("TextureView of a foreign view should fail")
	}
}

func TestCacheResolvesNativeViews(t *testing.T) {
	b := newTestBackend(t)
	cache := view.New(b, b)
	defer cache.ReleaseAll()

	tex := view.NewTexture(3)
	tex.Width, tex.Height = 32, 32
	tex.BaseLevel = 1

	slot := view.Slot{Stage: view.StageFragment, Unit: 0}
	v, err := cache.Resolve(slot, tex, view.Sampler{}, view.Env{Context: 1})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	d := v.Descriptor()
	if d.FirstLevel != 1 || d.LastLevel != 5 {
		t.Errorf("levels = [%d,%d], want [1,5]", d.FirstLevel, d.LastLevel)
	}
	again, err := cache.Resolve(slot, tex, view.Sampler{}, view.Env{Context: 1})
	if err != nil || again != v {
		t.Errorf("second Resolve = %p, %v; want the cached view", again, err)
	}
	if got := b.Stats().ViewsCreated; got != 1 {
		t.Errorf("ViewsCreated = %d, want 1", got)
	}
}
