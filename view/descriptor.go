package view

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/statetrack/format"
)

// Descriptor is the complete description of a sampled view. Two views are
// interchangeable exactly when their descriptors are equal.
//
// Textures use the level and layer ranges; buffers use the element span.
// The unused range stays zero.
type Descriptor struct {
	Format  gputypes.TextureFormat
	Target  Target
	Swizzle format.Swizzle

	FirstLevel uint32
	LastLevel  uint32
	FirstLayer uint32
	LastLayer  uint32

	FirstElement uint32
	LastElement  uint32

	Context ContextID
}

// WithContext returns d owned by ctx.
func (d Descriptor) WithContext(ctx ContextID) Descriptor {
	d.Context = ctx
	return d
}

// Matches reports whether d and o describe the same view, ignoring the
// owning context.
func (d Descriptor) Matches(o Descriptor) bool {
	return d.WithContext(0) == o.WithContext(0)
}

// Dimension returns the WebGPU view dimension of the descriptor.
func (d Descriptor) Dimension() gputypes.TextureViewDimension {
	return d.Target.Dimension()
}

// Aspect returns the texture aspect the view samples.
func (d Descriptor) Aspect() gputypes.TextureAspect {
	switch {
	case d.Format == gputypes.TextureFormatStencil8:
		return gputypes.TextureAspectStencilOnly
	case d.Format.HasDepth():
		return gputypes.TextureAspectDepthOnly
	default:
		return gputypes.TextureAspectAll
	}
}

// LevelCount returns the number of mip levels in the view.
func (d Descriptor) LevelCount() uint32 {
	return d.LastLevel - d.FirstLevel + 1
}

// LayerCount returns the number of array layers in the view.
func (d Descriptor) LayerCount() uint32 {
	return d.LastLayer - d.FirstLayer + 1
}

// ElementCount returns the number of buffer elements in the view.
func (d Descriptor) ElementCount() uint32 {
	return d.LastElement - d.FirstElement + 1
}

func (d Descriptor) String() string {
	if d.Target == TargetBuffer {
		return fmt.Sprintf("%s %s %s elements [%d,%d] ctx %d",
			d.Target, d.Format, d.Swizzle, d.FirstElement, d.LastElement, d.Context)
	}
	return fmt.Sprintf("%s %s %s levels [%d,%d] layers [%d,%d] ctx %d",
		d.Target, d.Format, d.Swizzle, d.FirstLevel, d.LastLevel, d.FirstLayer, d.LastLayer, d.Context)
}

// Derive computes the descriptor of the view tex should be sampled
// through. It returns ErrUnavailable when there is nothing to sample.
func Derive(tex *Texture, st *Storage, samp Sampler, env Env) (Descriptor, error) {
	desc := Descriptor{
		Format:  viewFormat(tex, st, samp),
		Swizzle: textureSwizzle(tex, st, env),
		Context: env.Context,
	}

	if tex.Target == TargetBuffer || st.Target == TargetBuffer {
		first, last, err := elementSpan(tex, st, desc.Format)
		if err != nil {
			return Descriptor{}, err
		}
		desc.Target = TargetBuffer
		desc.FirstElement = first
		desc.LastElement = last
		return desc, nil
	}

	desc.Target = tex.Target
	desc.FirstLevel = tex.MinLevel + tex.BaseLevel
	desc.LastLevel = lastLevel(tex, st)
	desc.FirstLayer = tex.MinLayer
	desc.LastLayer = lastLayer(tex, st)
	if desc.FirstLevel > desc.LastLevel {
		return Descriptor{}, fmt.Errorf("%w: levels [%d,%d]", ErrUnavailable, desc.FirstLevel, desc.LastLevel)
	}
	if desc.FirstLayer > desc.LastLayer {
		return Descriptor{}, fmt.Errorf("%w: layers [%d,%d]", ErrUnavailable, desc.FirstLayer, desc.LastLayer)
	}
	return desc, nil
}

// viewFormat picks the format the view reinterprets the storage as.
func viewFormat(tex *Texture, st *Storage, samp Sampler) gputypes.TextureFormat {
	var f gputypes.TextureFormat
	if tex.Target == TargetBuffer {
		f = tex.BufferFormat
	} else {
		f = st.Format
		if tex.SurfaceBased {
			f = tex.SurfaceFormat
		}
		if samp.SkipSRGBDecode {
			f = format.Linear(f)
		}
	}

	if format.IsDepthAndStencil(f) &&
		(tex.StencilSampling || tex.FirstImageBase == format.BaseStencilIndex) {
		f = format.StencilOnly(f)
	}
	return f
}

// textureSwizzle composes the user swizzle with the swizzle implied by the
// base format and the storage format.
func textureSwizzle(tex *Texture, st *Storage, env Env) format.Swizzle {
	if tex.BaseFormat == format.BaseNone {
		return format.Compose(tex.Swizzle, format.Identity)
	}

	mode := tex.DepthMode
	// ES 3.0 samples depth textures with a sized internal format as RED.
	if env.GLES3 && st.Format.IsDepthStencil() && tex.SizedInternalFormat {
		mode = format.DepthModeRed
	}
	fs := format.FormatSwizzle(tex.BaseFormat, mode, st.Format, env.GLSLVersion)
	return format.Compose(tex.Swizzle, fs)
}

func lastLevel(tex *Texture, st *Storage) uint32 {
	last := min(tex.MinLevel+tex.MaxLevel, st.LastLevel)
	if tex.Immutable && tex.NumLevels > 0 {
		last = min(last, tex.MinLevel+tex.NumLevels-1)
	}
	return last
}

func lastLayer(tex *Texture, st *Storage) uint32 {
	size := max(st.ArraySize, 1)
	if tex.Immutable && size > 1 && tex.NumLayers > 0 {
		return min(tex.MinLayer+tex.NumLayers-1, size-1)
	}
	return size - 1
}

// elementSpan converts the buffer byte range of tex into an element range
// of f.
func elementSpan(tex *Texture, st *Storage, f gputypes.TextureFormat) (first, last uint32, err error) {
	base := tex.BufferOffset
	if base >= st.Width0 {
		return 0, 0, fmt.Errorf("%w: buffer offset %d beyond size %d", ErrUnavailable, base, st.Width0)
	}
	info, ok := format.Lookup(f)
	if !ok || info.BlockBytes == 0 {
		return 0, 0, fmt.Errorf("%w: no element size for %s", ErrUnavailable, f)
	}
	size := min(st.Width0-base, tex.BufferSize)

	first = base / info.BlockBytes * info.BlockWidth
	n := size / info.BlockBytes * info.BlockWidth
	if n == 0 {
		return 0, 0, fmt.Errorf("%w: empty buffer range at offset %d", ErrUnavailable, base)
	}
	return first, first + n - 1, nil
}
