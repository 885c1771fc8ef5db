//go:build !nogpu

package native

import (
	"fmt"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/statetrack/blit"
	"github.com/gogpu/statetrack/format"
	"github.com/gogpu/statetrack/view"
)

// texture is a HAL texture with the description it was created from.
// It is the Handle of both view.Storage and blit.Resource.
type texture struct {
	raw       hal.Texture
	format    gputypes.TextureFormat
	dimension gputypes.TextureDimension
	width     uint32
	height    uint32
	layers    uint32
	levels    uint32
	samples   uint32

	destroyed atomic.Bool
}

func (t *texture) levelSize(level uint32) (uint32, uint32) {
	return max(t.width>>level, 1), max(t.height>>level, 1)
}

// ResourceDescriptor describes a texture created outside any texture
// object, as a blit source or destination.
type ResourceDescriptor struct {
	Label   string
	Format  gputypes.TextureFormat
	Width   uint32
	Height  uint32
	Layers  uint32
	Levels  uint32
	Samples uint32
}

func textureUsage(f gputypes.TextureFormat) gputypes.TextureUsage {
	usage := gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopySrc | gputypes.TextureUsageCopyDst
	if info, ok := format.Lookup(f); !ok || !info.Compressed() {
		usage |= gputypes.TextureUsageRenderAttachment
	}
	return usage
}

func viewFormats(f gputypes.TextureFormat) []gputypes.TextureFormat {
	if l := format.Linear(f); l != f {
		return []gputypes.TextureFormat{l}
	}
	return nil
}

func (b *Backend) createTexture(label string, t *texture) error {
	raw, err := b.device.CreateTexture(&hal.TextureDescriptor{
		Label: label,
		Size: hal.Extent3D{
			Width:              t.width,
			Height:             t.height,
			DepthOrArrayLayers: t.layers,
		},
		MipLevelCount: t.levels,
		SampleCount:   t.samples,
		Dimension:     t.dimension,
		Format:        t.format,
		Usage:         textureUsage(t.format),
		ViewFormats:   viewFormats(t.format),
	})
	if err != nil {
		return err
	}
	t.raw = raw
	return nil
}

func (b *Backend) destroyTexture(t *texture) {
	if t.raw != nil && t.destroyed.CompareAndSwap(false, true) {
		b.device.DestroyTexture(t.raw)
	}
}

// Finalize implements view.Finalizer. The first call for tex creates a HAL
// texture holding its full mip chain; later calls return the same storage.
func (b *Backend) Finalize(tex *view.Texture) (*view.Storage, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrClosed
	}
	if st, ok := b.storages[tex]; ok {
		return st, nil
	}
	if tex.Target == view.TargetBuffer {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedTarget, tex.Target)
	}

	st := tex.Layout()
	t := &texture{
		format:    st.Format,
		dimension: gputypes.TextureDimension2D,
		width:     st.Width0,
		height:    st.Height0,
		layers:    st.ArraySize,
		levels:    st.LastLevel + 1,
		samples:   1,
	}
	switch st.Target {
	case view.Target1D:
		t.dimension = gputypes.TextureDimension1D
	case view.Target3D:
		t.dimension = gputypes.TextureDimension3D
		t.layers = max(tex.Depth, 1)
	case view.Target2DMultisample, view.Target2DMultisampleArray:
		t.samples = b.opts.msaaSamples
	}

	if err := b.createTexture(fmt.Sprintf("%s-texture-%d", b.opts.label, tex.ID), t); err != nil {
		return nil, fmt.Errorf("native: finalize texture %d: %w", tex.ID, err)
	}
	st.Handle = t
	b.storages[tex] = &st
	b.finalized.Add(1)

	slogger().Debug("native: texture finalized",
		"texture", tex.ID, "format", st.Format, "levels", t.levels, "layers", t.layers)
	return &st, nil
}

// Release destroys the storage of tex. Views of it must be released first.
func (b *Backend) Release(tex *view.Texture) {
	b.mu.Lock()
	st, ok := b.storages[tex]
	delete(b.storages, tex)
	b.mu.Unlock()

	if ok {
		if t, ok := st.Handle.(*texture); ok {
			b.destroyTexture(t)
		}
	}
}

// NewResource creates a texture for use as a blit source or destination.
func (b *Backend) NewResource(desc ResourceDescriptor) (*blit.Resource, error) {
	if desc.Width == 0 || desc.Height == 0 {
		return nil, fmt.Errorf("native: resource size %dx%d", desc.Width, desc.Height)
	}
	t := &texture{
		format:    desc.Format,
		dimension: gputypes.TextureDimension2D,
		width:     desc.Width,
		height:    desc.Height,
		layers:    max(desc.Layers, 1),
		levels:    max(desc.Levels, 1),
		samples:   max(desc.Samples, 1),
	}
	label := desc.Label
	if label == "" {
		label = b.label("resource")
	}
	if err := b.createTexture(label, t); err != nil {
		return nil, fmt.Errorf("native: create resource: %w", err)
	}

	cpp := format.BytesPerPixel(desc.Format)
	res := &blit.Resource{
		Format:      desc.Format,
		Width0:      desc.Width,
		Height0:     desc.Height,
		SampleCount: t.samples,
		Cpp:         cpp,
		Slices:      make([]blit.Slice, t.levels),
		Handle:      t,
	}
	for level := range res.Slices {
		w, _ := t.levelSize(uint32(level))
		res.Slices[level] = blit.Slice{Stride: w * cpp, Tiling: blit.TilingLinear}
	}
	return res, nil
}

// FreeResource destroys a resource made by NewResource.
func (b *Backend) FreeResource(res *blit.Resource) {
	if t, ok := res.Handle.(*texture); ok {
		b.destroyTexture(t)
	}
}
