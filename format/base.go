package format

import "github.com/gogpu/gputypes"

// BaseFormat is the application-visible base format of a texture, which may
// have fewer channels than the storage format actually backing it.
type BaseFormat uint8

const (
	BaseNone BaseFormat = iota
	BaseRGBA
	BaseRGB
	BaseRG
	BaseRed
	BaseAlpha
	BaseLuminance
	BaseLuminanceAlpha
	BaseIntensity
	BaseDepthComponent
	BaseDepthStencil
	BaseStencilIndex
)

var baseNames = [...]string{
	BaseNone:           "NONE",
	BaseRGBA:           "RGBA",
	BaseRGB:            "RGB",
	BaseRG:             "RG",
	BaseRed:            "RED",
	BaseAlpha:          "ALPHA",
	BaseLuminance:      "LUMINANCE",
	BaseLuminanceAlpha: "LUMINANCE_ALPHA",
	BaseIntensity:      "INTENSITY",
	BaseDepthComponent: "DEPTH_COMPONENT",
	BaseDepthStencil:   "DEPTH_STENCIL",
	BaseStencilIndex:   "STENCIL_INDEX",
}

func (b BaseFormat) String() string {
	if int(b) < len(baseNames) {
		return baseNames[b]
	}
	return "UNKNOWN"
}

// IsDepthOrStencil reports whether b is one of the depth/stencil base formats.
func (b BaseFormat) IsDepthOrStencil() bool {
	return b == BaseDepthComponent || b == BaseDepthStencil || b == BaseStencilIndex
}

// DepthMode selects how a depth texture is expanded to four channels when
// sampled by non-shadow lookups.
type DepthMode uint8

const (
	DepthModeLuminance DepthMode = iota
	DepthModeIntensity
	DepthModeAlpha
	DepthModeRed
)

func (m DepthMode) String() string {
	switch m {
	case DepthModeLuminance:
		return "LUMINANCE"
	case DepthModeIntensity:
		return "INTENSITY"
	case DepthModeAlpha:
		return "ALPHA"
	case DepthModeRed:
		return "RED"
	default:
		return "UNKNOWN"
	}
}

// ShadowGLSLVersion is the first shading-language version whose shadow
// lookups return a scalar and ignore the depth mode. ALPHA depth mode would
// make them return zero, so it is sampled as INTENSITY from here on.
const ShadowGLSLVersion = 130

// Swizzle constants shared by the format table.
var (
	swzXYZ1 = Swizzle{X, Y, Z, One}
	swzXY01 = Swizzle{X, Y, Zero, One}
	swzX001 = Swizzle{X, Zero, Zero, One}
	swz000W = Swizzle{Zero, Zero, Zero, W}
	swz000X = Swizzle{Zero, Zero, Zero, X}
	swzXXX1 = Swizzle{X, X, X, One}
	swzXXXW = Swizzle{X, X, X, W}
	swzXXXX = Swizzle{X, X, X, X}
)

// FormatSwizzle returns the swizzle that makes a texture stored as actual
// read back like its base format: channels missing from base read as 0 or 1
// even if the storage holds other values there.
//
// Depth and stencil textures are expanded according to mode. glslVersion is
// the version of the program sampling the texture, or 0 for programs not
// written in GLSL.
//
// The result must still be composed with the user swizzle (see Compose).
func FormatSwizzle(base BaseFormat, mode DepthMode, actual gputypes.TextureFormat, glslVersion uint32) Swizzle {
	comps := Components(actual)
	switch base {
	case BaseNone, BaseRGBA:
		return Identity
	case BaseRGB:
		if HasAlpha(actual) {
			return swzXYZ1
		}
		return Identity
	case BaseRG:
		if comps > 2 {
			return swzXY01
		}
		return Identity
	case BaseRed:
		if comps > 1 {
			return swzX001
		}
		return Identity
	case BaseAlpha:
		if comps > 1 {
			return swz000W
		}
		return Identity
	case BaseLuminance:
		if comps > 1 {
			return swzXXX1
		}
		return Identity
	case BaseLuminanceAlpha:
		if comps > 2 {
			return swzXXXW
		}
		return Identity
	case BaseIntensity:
		if comps > 1 {
			return swzXXXX
		}
		return Identity
	case BaseDepthComponent, BaseDepthStencil, BaseStencilIndex:
		return depthSwizzle(mode, glslVersion)
	default:
		return Identity
	}
}

func depthSwizzle(mode DepthMode, glslVersion uint32) Swizzle {
	switch mode {
	case DepthModeLuminance:
		return swzXXX1
	case DepthModeIntensity:
		return swzXXXX
	case DepthModeAlpha:
		if glslVersion >= ShadowGLSLVersion {
			return swzXXXX
		}
		return swz000X
	case DepthModeRed:
		return swzX001
	default:
		return Identity
	}
}
