package view

import (
	"math/bits"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/statetrack/format"
)

// Texture is the binding state of a texture object as the application set
// it. The cache reads it and never modifies it.
type Texture struct {
	// ID identifies the texture object. It appears in logs only.
	ID uint64

	// Target is the texture target the object was created with.
	Target Target

	// BaseFormat is the application-visible base format.
	BaseFormat format.BaseFormat

	// FirstImageBase is the base format of the base-level image.
	// A STENCIL_INDEX first image makes depth/stencil textures sample stencil.
	FirstImageBase format.BaseFormat

	// SizedInternalFormat reports whether the first image was specified with
	// a sized internal format (DEPTH_COMPONENT24 rather than DEPTH_COMPONENT).
	SizedInternalFormat bool

	// DepthMode controls how depth textures expand to four channels.
	DepthMode format.DepthMode

	// Swizzle is the user swizzle. NewTexture sets it to format.Identity.
	Swizzle format.Swizzle

	// Mip levels. MinLevel and NumLevels describe a texture view object;
	// BaseLevel and MaxLevel are the sampling range inside it.
	MinLevel  uint32
	BaseLevel uint32
	MaxLevel  uint32
	NumLevels uint32

	// Array layers of a texture view object.
	MinLayer  uint32
	NumLayers uint32

	// Immutable reports whether the storage was allocated with a fixed
	// level and layer count.
	Immutable bool

	// StencilSampling selects the stencil aspect of a depth/stencil texture.
	StencilSampling bool

	// Buffer textures: byte range and element format.
	BufferOffset uint32
	BufferSize   uint32
	BufferFormat gputypes.TextureFormat

	// SurfaceBased textures wrap a window-system surface whose format
	// overrides the storage format.
	SurfaceBased  bool
	SurfaceFormat gputypes.TextureFormat

	// Requested allocation: the storage format and base level size.
	// Depth counts layers for array targets. Buffer textures give their
	// size in bytes as Width.
	Format gputypes.TextureFormat
	Width  uint32
	Height uint32
	Depth  uint32
}

// DefaultMaxLevel is the MaxLevel of a new texture.
const DefaultMaxLevel = 1000

// NewTexture returns a 2D RGBA texture with default sampling state: identity
// swizzle, the full mip range, and one layer.
func NewTexture(id uint64) *Texture {
	return &Texture{
		ID:             id,
		Target:         Target2D,
		BaseFormat:     format.BaseRGBA,
		FirstImageBase: format.BaseRGBA,
		DepthMode:      format.DepthModeLuminance,
		Swizzle:        format.Identity,
		MaxLevel:       DefaultMaxLevel,
		NumLevels:      1,
		NumLayers:      1,
		Format:         gputypes.TextureFormatRGBA8Unorm,
		Width:          1,
		Height:         1,
		Depth:          1,
	}
}

// Layout returns the storage a finalizer allocates for t: the full mip
// chain of the base level, or NumLevels levels for immutable textures.
// Handle is left nil.
func (t *Texture) Layout() Storage {
	w, h, d := max(t.Width, 1), max(t.Height, 1), max(t.Depth, 1)
	st := Storage{
		Format:    t.Format,
		Target:    t.Target,
		ArraySize: 1,
		Width0:    w,
		Height0:   h,
	}

	switch t.Target {
	case TargetBuffer:
		st.Format = gputypes.TextureFormatR8Unorm
		st.Height0 = 1
		return st
	case Target1DArray:
		st.ArraySize, st.Height0 = h, 1
		h = 1
	case Target2DArray, Target2DMultisampleArray:
		st.ArraySize = d
	case TargetCube:
		st.ArraySize = 6
	case TargetCubeArray:
		st.ArraySize = 6 * d
	}

	size := max(w, h)
	if t.Target == Target3D {
		size = max(size, d)
	}
	if t.Target != TargetRect && t.Target != Target2DMultisample && t.Target != Target2DMultisampleArray {
		st.LastLevel = uint32(bits.Len32(size)) - 1
	}
	if t.Immutable && t.NumLevels > 0 {
		st.LastLevel = min(st.LastLevel, t.NumLevels-1)
	}
	return st
}

// Storage is the backend allocation behind a texture, produced by a
// Finalizer.
type Storage struct {
	Format gputypes.TextureFormat
	Target Target

	// LastLevel is the index of the last allocated mip level.
	LastLevel uint32

	// ArraySize is the number of allocated layers (faces for cubes).
	ArraySize uint32

	// Width0 is the base level width in texels, or the size in bytes for
	// buffers. Height0 is ignored for buffers.
	Width0  uint32
	Height0 uint32

	// Handle is the backend resource. The cache passes it through untouched.
	Handle any
}

// Sampler is the sampler state that affects the view.
type Sampler struct {
	// SkipSRGBDecode samples sRGB textures without decoding, through the
	// linear equivalent format.
	SkipSRGBDecode bool
}

// Env is the per-call environment of the state tracker.
type Env struct {
	// Context owns the views built during the call.
	Context ContextID

	// GLSLVersion of the program sampling the texture, 0 when the program
	// was not written in GLSL.
	GLSLVersion uint32

	// GLES3 is set for OpenGL ES 3.x contexts.
	GLES3 bool
}
