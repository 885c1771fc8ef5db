package software

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/statetrack/blit"
	"github.com/gogpu/statetrack/format"
)

// Image errors.
var (
	// ErrUnsupportedFormat is returned for formats the software backend
	// cannot store, such as compressed formats.
	ErrUnsupportedFormat = errors.New("software: unsupported format")

	// ErrInvalidLayout is returned for zero-sized layouts and sample counts
	// other than 1 and 4.
	ErrInvalidLayout = errors.New("software: invalid image layout")

	// ErrOutOfBounds is returned when a texel address lies outside the
	// image.
	ErrOutOfBounds = errors.New("software: texel out of bounds")
)

// ImageLayout describes the storage of an image.
type ImageLayout struct {
	Format  gputypes.TextureFormat
	Width0  uint32
	Height0 uint32

	// Layers counts array layers, cube faces or 3D slices. Zero means 1.
	Layers uint32

	// Levels counts mip levels. Zero means 1.
	Levels uint32

	// Samples is 1 or 4. Zero means 1.
	Samples uint32
}

func (l ImageLayout) normalized() ImageLayout {
	l.Layers = max(l.Layers, 1)
	l.Levels = max(l.Levels, 1)
	l.Samples = max(l.Samples, 1)
	return l
}

// Size returns the number of bytes the layout occupies.
func (l ImageLayout) Size() (uint64, error) {
	l = l.normalized()
	cpp := format.BytesPerPixel(l.Format)
	if cpp == 0 {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, l.Format)
	}
	if l.Width0 == 0 || l.Height0 == 0 {
		return 0, fmt.Errorf("%w: %dx%d", ErrInvalidLayout, l.Width0, l.Height0)
	}
	if l.Samples != 1 && l.Samples != 4 {
		return 0, fmt.Errorf("%w: %d samples", ErrInvalidLayout, l.Samples)
	}
	if l.Samples > 1 && l.Levels > 1 {
		return 0, fmt.Errorf("%w: multisampled mip chain", ErrInvalidLayout)
	}

	var total uint64
	for lvl := range l.Levels {
		w, h := minify(l.Width0, lvl), minify(l.Height0, lvl)
		total += uint64(rowStride(w, cpp, l.Samples)) * uint64(h) * uint64(l.Layers)
	}
	return total, nil
}

// rowStride matches the layout the tile engine expects of a linear level.
func rowStride(width, cpp, samples uint32) uint32 {
	if samples > 1 {
		return align(width, 32) * 4 * cpp
	}
	return align(width*cpp, 16)
}

func align(v, a uint32) uint32 {
	return (v + a - 1) &^ (a - 1)
}

func minify(size, level uint32) uint32 {
	if level >= 32 {
		return 1
	}
	return max(size>>level, 1)
}

type imageLevel struct {
	offset    uint32
	stride    uint32
	width     uint32
	height    uint32
	layerSize uint32
}

// Image is texel memory in raster order. Every level holds all layers one
// after another; samples of a pixel are adjacent.
type Image struct {
	layout ImageLayout
	cpp    uint32
	levels []imageLevel
	data   []byte
	res    *blit.Resource
}

func newImage(layout ImageLayout, size uint64) *Image {
	layout = layout.normalized()
	img := &Image{
		layout: layout,
		cpp:    format.BytesPerPixel(layout.Format),
		levels: make([]imageLevel, layout.Levels),
		data:   make([]byte, size),
	}

	var off uint32
	slices := make([]blit.Slice, layout.Levels)
	for lvl := range layout.Levels {
		w, h := minify(layout.Width0, lvl), minify(layout.Height0, lvl)
		stride := rowStride(w, img.cpp, layout.Samples)
		img.levels[lvl] = imageLevel{
			offset:    off,
			stride:    stride,
			width:     w,
			height:    h,
			layerSize: stride * h,
		}
		slices[lvl] = blit.Slice{Offset: off, Stride: stride, Tiling: blit.TilingLinear}
		off += stride * h * layout.Layers
	}

	img.res = &blit.Resource{
		Format:      layout.Format,
		Width0:      layout.Width0,
		Height0:     layout.Height0,
		SampleCount: layout.Samples,
		Cpp:         img.cpp,
		Slices:      slices,
		Handle:      img,
	}
	return img
}

// Layout returns the layout the image was allocated with.
func (img *Image) Layout() ImageLayout { return img.layout }

// Format returns the storage format.
func (img *Image) Format() gputypes.TextureFormat { return img.layout.Format }

// Cpp returns the size of one sample in bytes.
func (img *Image) Cpp() uint32 { return img.cpp }

// Levels returns the number of mip levels.
func (img *Image) Levels() uint32 { return img.layout.Levels }

// Layers returns the number of layers.
func (img *Image) Layers() uint32 { return img.layout.Layers }

// Samples returns the sample count.
func (img *Image) Samples() uint32 { return img.layout.Samples }

// Size returns the size of level, or 0x0 when the level does not exist.
func (img *Image) Size(level uint32) (width, height uint32) {
	if level >= uint32(len(img.levels)) {
		return 0, 0
	}
	l := img.levels[level]
	return l.width, l.height
}

// Resource returns the image as the blitter sees it.
func (img *Image) Resource() *blit.Resource { return img.res }

// Released reports whether the image memory was freed.
func (img *Image) Released() bool { return img.data == nil }

func (img *Image) offset(level, layer, x, y, sample uint32) (int, bool) {
	if level >= uint32(len(img.levels)) || layer >= img.layout.Layers || sample >= img.layout.Samples {
		return 0, false
	}
	l := img.levels[level]
	if x >= l.width || y >= l.height {
		return 0, false
	}
	off := l.offset + layer*l.layerSize + y*l.stride + (x*img.layout.Samples+sample)*img.cpp
	return int(off), true
}

// texel returns the bytes of one sample, or nil when the address is out
// of bounds.
func (img *Image) texel(level, layer, x, y, sample uint32) []byte {
	off, ok := img.offset(level, layer, x, y, sample)
	if !ok || img.data == nil {
		return nil
	}
	return img.data[off : off+int(img.cpp)]
}

// row returns the bytes of count pixels starting at x, all samples
// included.
func (img *Image) row(level, layer, x, y, count uint32) []byte {
	off, ok := img.offset(level, layer, x, y, 0)
	if !ok || count == 0 || img.data == nil {
		return nil
	}
	n := int(count * img.layout.Samples * img.cpp)
	if off+n > len(img.data) {
		return nil
	}
	return img.data[off : off+n]
}

// Upload writes tightly packed pixels to level and layer, replicating them
// to every sample.
func (img *Image) Upload(level, layer uint32, pix []byte) error {
	w, h := img.Size(level)
	if w == 0 || layer >= img.layout.Layers {
		return fmt.Errorf("%w: level %d layer %d", ErrOutOfBounds, level, layer)
	}
	if want := int(w * h * img.cpp); len(pix) != want {
		return fmt.Errorf("software: upload of %d bytes, level needs %d", len(pix), want)
	}
	for y := range h {
		for x := range w {
			src := pix[(y*w+x)*img.cpp:][:img.cpp]
			for s := range img.layout.Samples {
				copy(img.texel(level, layer, x, y, s), src)
			}
		}
	}
	return nil
}

// Download returns the first sample of every pixel of level and layer,
// tightly packed.
func (img *Image) Download(level, layer uint32) ([]byte, error) {
	w, h := img.Size(level)
	if w == 0 || layer >= img.layout.Layers {
		return nil, fmt.Errorf("%w: level %d layer %d", ErrOutOfBounds, level, layer)
	}
	out := make([]byte, 0, w*h*img.cpp)
	for y := range h {
		for x := range w {
			out = append(out, img.texel(level, layer, x, y, 0)...)
		}
	}
	return out, nil
}
