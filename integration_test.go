package statetrack_test

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/statetrack"
	"github.com/gogpu/statetrack/backend/software"
	"github.com/gogpu/statetrack/blit"
	"github.com/gogpu/statetrack/format"
	"github.com/gogpu/statetrack/view"
)

func newImage(t *testing.T, b *software.Backend, f gputypes.TextureFormat, w, h uint32) (*blit.Resource, *software.Image) {
	t.Helper()
	res, err := b.NewResource(software.ImageLayout{Format: f, Width0: w, Height0: h})
	if err != nil {
		t.Fatalf("NewResource() error = %v", err)
	}
	return res, res.Handle.(*software.Image)
}

func fill(t *testing.T, img *software.Image, texel []byte) {
	t.Helper()
	w, h := img.Size(0)
	pix := make([]byte, 0, int(w*h)*len(texel))
	for range w * h {
		pix = append(pix, texel...)
	}
	if err := img.Upload(0, 0, pix); err != nil {
		t.Fatal(err)
	}
}

func TestSoftwareSampledViews(t *testing.T) {
	b := software.New()
	defer b.Close()
	ctx := statetrack.NewContext(b)
	defer ctx.Close()

	tex := view.NewTexture(1)
	tex.Width, tex.Height = 4, 4
	prog := &view.Program{SamplersUsed: 0b1, GLSLVersion: 330}
	units := []view.Unit{{Texture: tex}}
	var progs statetrack.Programs
	progs[view.StageFragment] = prog

	ctx.UpdateTextures(progs, units)
	st, ok := b.Storage(tex)
	if !ok {
		t.Fatal("texture not finalized by UpdateTextures")
	}
	if _, ok := st.Handle.(*software.Image); !ok {
		t.Fatalf("storage handle = %T", st.Handle)
	}
	bound := b.Bound(view.StageFragment)
	if len(bound) != 1 || bound[0] == nil {
		t.Fatalf("Bound() = %v", bound)
	}
	first := bound[0]

	// Unchanged state keeps the view.
	ctx.UpdateTextures(progs, units)
	if got := b.Bound(view.StageFragment); got[0] != first {
		t.Error("unchanged texture state rebuilt the view")
	}

	// A new swizzle rebuilds it.
	tex.Swizzle = format.NewSwizzle(format.One, format.Zero, format.Zero, format.One)
	ctx.UpdateTextures(progs, units)
	v := b.Bound(view.StageFragment)[0]
	if v == first {
		t.Fatal("swizzle change kept the old view")
	}
	got, err := software.ReadTexel(v, 0, 0, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got != [4]uint8{255, 0, 0, 255} {
		t.Errorf("ReadTexel() = %v, want red", got)
	}

	stats := ctx.Views().Stats()
	if stats.Rebuilds != 2 || stats.Hits != 1 {
		t.Errorf("stats = %+v, want 2 rebuilds and 1 hit", stats)
	}

	ctx.Close()
	if live := b.Stats().LiveViews; live != 0 {
		t.Errorf("LiveViews after Close = %d, want 0", live)
	}
}

func TestSoftwareDepthTextureSwizzle(t *testing.T) {
	red := format.NewSwizzle(format.X, format.Zero, format.Zero, format.One)
	tests := []struct {
		name  string
		mode  format.DepthMode
		glsl  uint32
		gles3 bool
		want  format.Swizzle
	}{
		{"red", format.DepthModeRed, 330, false, red},
		{"alpha legacy glsl", format.DepthModeAlpha, 120, false, format.NewSwizzle(format.Zero, format.Zero, format.Zero, format.X)},
		{"alpha shadow glsl", format.DepthModeAlpha, 330, false, format.NewSwizzle(format.X, format.X, format.X, format.X)},
		{"gles3 sized depth", format.DepthModeAlpha, 330, true, red},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := software.New()
			defer b.Close()
			var opts []statetrack.Option
			if tt.gles3 {
				opts = append(opts, statetrack.WithGLES3())
			}
			ctx := statetrack.NewContext(b, opts...)
			defer ctx.Close()

			tex := view.NewTexture(1)
			tex.BaseFormat = format.BaseDepthComponent
			tex.FirstImageBase = format.BaseDepthComponent
			tex.SizedInternalFormat = true
			tex.DepthMode = tt.mode
			tex.Format = gputypes.TextureFormatDepth32Float
			tex.Width, tex.Height = 2, 2

			v, err := ctx.Resolve(view.Slot{Stage: view.StageFragment}, tex, view.Sampler{}, tt.glsl)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got := v.Descriptor().Swizzle; got != tt.want {
				t.Errorf("swizzle = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSoftwareBlitPaths(t *testing.T) {
	b := software.New()
	defer b.Close()
	ctx := statetrack.NewContext(b)

	src, srcImg := newImage(t, b, gputypes.TextureFormatRGBA8Unorm, 16, 16)
	same, _ := newImage(t, b, gputypes.TextureFormatRGBA8Unorm, 16, 16)
	bgra, bgraImg := newImage(t, b, gputypes.TextureFormatBGRA8Unorm, 32, 32)
	zsSrc, _ := newImage(t, b, gputypes.TextureFormatDepth24PlusStencil8, 4, 4)
	zsDst, _ := newImage(t, b, gputypes.TextureFormatDepth24PlusStencil8, 8, 8)
	fill(t, srcImg, []byte{10, 20, 30, 255})

	full := func(res *blit.Resource) blit.Box {
		return blit.Box{Width: int(res.Width0), Height: int(res.Height0), Depth: 1}
	}
	tests := []struct {
		name    string
		req     blit.Request
		path    blit.Path
		reduced bool
		err     error
	}{
		{
			name: "region copy",
			req: blit.Request{
				Src:  blit.Side{Resource: src, Box: blit.Box{Width: 4, Height: 4, Depth: 1}},
				Dst:  blit.Side{Resource: same, Box: blit.Box{X: 8, Y: 8, Width: 4, Height: 4, Depth: 1}},
				Mask: blit.MaskRGBA,
			},
			path: blit.PathRegion,
		},
		{
			name: "scaled conversion",
			req: blit.Request{
				Src:  blit.Side{Resource: src, Box: full(src)},
				Dst:  blit.Side{Resource: bgra, Box: full(bgra)},
				Mask: blit.MaskRGBA,
			},
			path: blit.PathGeneric,
		},
		{
			name: "scaled depth stencil",
			req: blit.Request{
				Src:  blit.Side{Resource: zsSrc, Box: full(zsSrc)},
				Dst:  blit.Side{Resource: zsDst, Box: full(zsDst)},
				Mask: blit.MaskZS,
			},
			path:    blit.PathGeneric,
			reduced: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ctx.Blit(tt.req)
			if !errors.Is(err, tt.err) {
				t.Fatalf("Blit() error = %v, want %v", err, tt.err)
			}
			if res.Path != tt.path || res.MaskReduced != tt.reduced {
				t.Errorf("Blit() = %+v, want path %s reduced %v", res, tt.path, tt.reduced)
			}
		})
	}

	pix, err := bgraImg.Download(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got := [4]byte(pix[4*33 : 4*33+4]); got != [4]byte{30, 20, 10, 255} {
		t.Errorf("converted texel = %v, want BGRA order", got)
	}

	stats := ctx.Selector().Stats()
	if stats.Region != 1 || stats.Generic != 2 || stats.MaskReduced != 1 {
		t.Errorf("selector stats = %+v", stats)
	}
}
