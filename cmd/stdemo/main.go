// Command stdemo drives the state tracker on a backend: it binds sampled
// views for a fragment program, changes texture state between updates and
// runs blits that take each of the copy paths.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"

	"github.com/gogpu/gputypes"
	_ "github.com/gogpu/wgpu/hal/allbackends"

	"github.com/gogpu/statetrack"
	"github.com/gogpu/statetrack/backend"
	"github.com/gogpu/statetrack/backend/native"
	"github.com/gogpu/statetrack/backend/software"
	"github.com/gogpu/statetrack/blit"
	"github.com/gogpu/statetrack/format"
	"github.com/gogpu/statetrack/view"
)

type config struct {
	backend string
	size    int
	gles3   bool
	output  string
}

func main() {
	var cfg config
	verbose := flag.Bool("v", false, "log debug messages")
	flag.StringVar(&cfg.backend, "backend", "", "backend to use: software or native (default: best available)")
	flag.IntVar(&cfg.size, "size", 64, "texture size in pixels")
	flag.BoolVar(&cfg.gles3, "gles3", false, "track state as an OpenGL ES 3 context")
	flag.StringVar(&cfg.output, "output", "", "write the scaled blit result as PNG (software backend only)")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	statetrack.SetLogger(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("stdemo failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config, logger *slog.Logger) error {
	if cfg.size < 4 {
		return fmt.Errorf("size %d too small", cfg.size)
	}

	name, b, err := openBackend(cfg.backend)
	if err != nil {
		return err
	}
	if c, ok := b.(interface{ Close() }); ok {
		defer c.Close()
	}
	logger.Info("backend opened", "backend", name)

	var opts []statetrack.Option
	if cfg.gles3 {
		opts = append(opts, statetrack.WithGLES3())
	}
	ctx := statetrack.NewContext(b, opts...)
	defer ctx.Close()

	updateViews(ctx, uint32(cfg.size))

	if err := runBlits(ctx, b, uint32(cfg.size), cfg.output); err != nil {
		return err
	}

	vs := ctx.Views().Stats()
	bs := ctx.Selector().Stats()
	fmt.Printf("views: %d resolves, %d hits, %d rebuilds, %d live\n", vs.Resolves, vs.Hits, vs.Rebuilds, vs.Live)
	fmt.Printf("blits: %d tile, %d region, %d generic, %d unsupported, %d mask reduced\n",
		bs.Tile, bs.Region, bs.Generic, bs.Unsupported, bs.MaskReduced)
	return nil
}

func openBackend(name string) (string, statetrack.Backend, error) {
	if name == "" {
		return backend.OpenDefault()
	}
	b, err := backend.Open(name)
	return name, b, err
}

// updateViews binds three textures to a fragment program and changes their
// state between updates.
func updateViews(ctx *statetrack.Context, size uint32) {
	albedo := view.NewTexture(1)
	albedo.Width, albedo.Height = size, size

	depth := view.NewTexture(2)
	depth.BaseFormat = format.BaseDepthComponent
	depth.FirstImageBase = format.BaseDepthComponent
	depth.SizedInternalFormat = true
	depth.DepthMode = format.DepthModeAlpha
	depth.Format = gputypes.TextureFormatDepth24Plus
	depth.Width, depth.Height = size, size

	sky := view.NewTexture(3)
	sky.Target = view.TargetCube
	sky.Width, sky.Height = size/2, size/2

	prog := &view.Program{SamplersUsed: 0b111, GLSLVersion: 330}
	units := []view.Unit{{Texture: albedo}, {Texture: depth}, {Texture: sky}}
	var progs statetrack.Programs
	progs[view.StageFragment] = prog

	ctx.UpdateTextures(progs, units)
	ctx.UpdateTextures(progs, units)

	albedo.BaseLevel = 1
	albedo.Swizzle = format.NewSwizzle(format.Z, format.Y, format.X, format.One)
	ctx.UpdateTextures(progs, units)

	for unit := range uint32(len(units)) {
		slot := view.Slot{Stage: view.StageFragment, Unit: unit}
		if v := ctx.Views().Lookup(slot); v != nil {
			fmt.Printf("%s: %s\n", slot, v.Descriptor())
		} else {
			fmt.Printf("%s: unbound\n", slot)
		}
	}
}

// resources is the part of a backend that allocates blit resources.
type resources struct {
	alloc func(f gputypes.TextureFormat, w, h uint32) (*blit.Resource, error)
	free  func(*blit.Resource)
}

func resourcesOf(b statetrack.Backend) (resources, error) {
	switch bk := b.(type) {
	case *software.Backend:
		return resources{
			alloc: func(f gputypes.TextureFormat, w, h uint32) (*blit.Resource, error) {
				return bk.NewResource(software.ImageLayout{Format: f, Width0: w, Height0: h, Layers: 1, Levels: 1, Samples: 1})
			},
			free: bk.FreeResource,
		}, nil
	case *native.Backend:
		return resources{
			alloc: func(f gputypes.TextureFormat, w, h uint32) (*blit.Resource, error) {
				return bk.NewResource(native.ResourceDescriptor{Format: f, Width: w, Height: h})
			},
			free: bk.FreeResource,
		}, nil
	default:
		return resources{}, fmt.Errorf("backend %T cannot allocate blit resources", b)
	}
}

// runBlits runs a plain copy, a scaled format conversion and a scaled
// depth/stencil copy. The scaled color result is written to output when it
// is not empty.
func runBlits(ctx *statetrack.Context, b statetrack.Backend, size uint32, output string) error {
	rs, err := resourcesOf(b)
	if err != nil {
		return err
	}
	var (
		errs []error
		made []*blit.Resource
	)
	defer func() {
		for _, res := range made {
			rs.free(res)
		}
	}()
	mk := func(f gputypes.TextureFormat, w, h uint32) *blit.Resource {
		res, err := rs.alloc(f, w, h)
		if err != nil {
			errs = append(errs, err)
			return nil
		}
		made = append(made, res)
		return res
	}
	src := mk(gputypes.TextureFormatRGBA8Unorm, size, size)
	copyDst := mk(gputypes.TextureFormatRGBA8Unorm, size, size)
	scaled := mk(gputypes.TextureFormatBGRA8Unorm, 2*size, 2*size)
	zsSrc := mk(gputypes.TextureFormatDepth24PlusStencil8, size, size)
	zsDst := mk(gputypes.TextureFormatDepth24PlusStencil8, 2*size, 2*size)
	if err := errors.Join(errs...); err != nil {
		return err
	}
	if img, ok := src.Handle.(*software.Image); ok {
		if err := img.Upload(0, 0, checkerboard(size)); err != nil {
			return err
		}
	}

	n := int(size)
	full := func(res *blit.Resource) blit.Box {
		return blit.Box{Width: int(res.Width0), Height: int(res.Height0), Depth: 1}
	}
	requests := []struct {
		name string
		req  blit.Request
	}{
		{"copy", blit.Request{
			Src:  blit.Side{Resource: src, Box: blit.Box{Width: n / 2, Height: n / 2, Depth: 1}},
			Dst:  blit.Side{Resource: copyDst, Box: blit.Box{X: n / 2, Y: n / 2, Width: n / 2, Height: n / 2, Depth: 1}},
			Mask: blit.MaskRGBA,
		}},
		{"scale", blit.Request{
			Src:    blit.Side{Resource: src, Box: full(src)},
			Dst:    blit.Side{Resource: scaled, Box: full(scaled)},
			Mask:   blit.MaskRGBA,
			Filter: blit.FilterLinear,
		}},
		{"depth-stencil", blit.Request{
			Src:  blit.Side{Resource: zsSrc, Box: full(zsSrc)},
			Dst:  blit.Side{Resource: zsDst, Box: full(zsDst)},
			Mask: blit.MaskZS,
		}},
	}

	for _, r := range requests {
		res, err := ctx.Blit(r.req)
		switch {
		case errors.Is(err, blit.ErrUnsupported):
			fmt.Printf("blit %s: unsupported (mask %s)\n", r.name, res.Mask)
		case err != nil:
			return fmt.Errorf("blit %s: %w", r.name, err)
		default:
			fmt.Printf("blit %s: %s path, mask %s, stencil dropped %v\n", r.name, res.Path, res.Mask, res.MaskReduced)
		}
	}
	if output != "" {
		return writePNG(output, scaled)
	}
	return nil
}

func checkerboard(size uint32) []byte {
	pix := make([]byte, 0, size*size*4)
	for y := range size {
		for x := range size {
			if (x/8+y/8)%2 == 0 {
				pix = append(pix, 230, 80, 40, 255)
			} else {
				pix = append(pix, 30, 60, 200, 255)
			}
		}
	}
	return pix
}

func writePNG(path string, res *blit.Resource) error {
	img, ok := res.Handle.(*software.Image)
	if !ok {
		return errors.New("-output needs the software backend")
	}
	pix, err := img.Download(0, 0)
	if err != nil {
		return err
	}
	w, h := img.Size(0)
	out := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	for i := 0; i+3 < len(pix) && i+3 < len(out.Pix); i += 4 {
		// BGRA to RGBA
		out.Pix[i], out.Pix[i+1], out.Pix[i+2], out.Pix[i+3] = pix[i+2], pix[i+1], pix[i], pix[i+3]
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, out); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%dx%d)\n", path, w, h)
	return nil
}
