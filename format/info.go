package format

import "github.com/gogpu/gputypes"

// Info describes the storage layout of a texture format.
type Info struct {
	// Components is the number of channels the storage holds.
	Components int

	// Alpha reports whether one of those channels is alpha.
	Alpha bool

	// BlockBytes is the size of one block in bytes.
	BlockBytes uint32

	// BlockWidth and BlockHeight are the block dimensions in texels.
	// Uncompressed formats use 1x1 blocks.
	BlockWidth  uint32
	BlockHeight uint32
}

// Compressed reports whether the format uses blocks larger than one texel.
func (i Info) Compressed() bool {
	return i.BlockWidth > 1 || i.BlockHeight > 1
}

func plain(comps int, alpha bool, bytes uint32) Info {
	return Info{Components: comps, Alpha: alpha, BlockBytes: bytes, BlockWidth: 1, BlockHeight: 1}
}

func block(comps int, alpha bool, bytes uint32) Info {
	return Info{Components: comps, Alpha: alpha, BlockBytes: bytes, BlockWidth: 4, BlockHeight: 4}
}

var infos = map[gputypes.TextureFormat]Info{
	gputypes.TextureFormatR8Unorm: plain(1, false, 1),
	gputypes.TextureFormatR8Snorm: plain(1, false, 1),
	gputypes.TextureFormatR8Uint:  plain(1, false, 1),
	gputypes.TextureFormatR8Sint:  plain(1, false, 1),

	gputypes.TextureFormatR16Unorm: plain(1, false, 2),
	gputypes.TextureFormatR16Snorm: plain(1, false, 2),
	gputypes.TextureFormatR16Uint:  plain(1, false, 2),
	gputypes.TextureFormatR16Sint:  plain(1, false, 2),
	gputypes.TextureFormatR16Float: plain(1, false, 2),
	gputypes.TextureFormatRG8Unorm: plain(2, false, 2),
	gputypes.TextureFormatRG8Snorm: plain(2, false, 2),
	gputypes.TextureFormatRG8Uint:  plain(2, false, 2),
	gputypes.TextureFormatRG8Sint:  plain(2, false, 2),

	gputypes.TextureFormatR32Float:       plain(1, false, 4),
	gputypes.TextureFormatR32Uint:        plain(1, false, 4),
	gputypes.TextureFormatR32Sint:        plain(1, false, 4),
	gputypes.TextureFormatRG16Unorm:      plain(2, false, 4),
	gputypes.TextureFormatRG16Snorm:      plain(2, false, 4),
	gputypes.TextureFormatRG16Uint:       plain(2, false, 4),
	gputypes.TextureFormatRG16Sint:       plain(2, false, 4),
	gputypes.TextureFormatRG16Float:      plain(2, false, 4),
	gputypes.TextureFormatRGBA8Unorm:     plain(4, true, 4),
	gputypes.TextureFormatRGBA8UnormSrgb: plain(4, true, 4),
	gputypes.TextureFormatRGBA8Snorm:     plain(4, true, 4),
	gputypes.TextureFormatRGBA8Uint:      plain(4, true, 4),
	gputypes.TextureFormatRGBA8Sint:      plain(4, true, 4),
	gputypes.TextureFormatBGRA8Unorm:     plain(4, true, 4),
	gputypes.TextureFormatBGRA8UnormSrgb: plain(4, true, 4),

	gputypes.TextureFormatRGB10A2Uint:   plain(4, true, 4),
	gputypes.TextureFormatRGB10A2Unorm:  plain(4, true, 4),
	gputypes.TextureFormatRG11B10Ufloat: plain(3, false, 4),
	gputypes.TextureFormatRGB9E5Ufloat:  plain(3, false, 4),

	gputypes.TextureFormatRG32Float:   plain(2, false, 8),
	gputypes.TextureFormatRG32Uint:    plain(2, false, 8),
	gputypes.TextureFormatRG32Sint:    plain(2, false, 8),
	gputypes.TextureFormatRGBA16Unorm: plain(4, true, 8),
	gputypes.TextureFormatRGBA16Snorm: plain(4, true, 8),
	gputypes.TextureFormatRGBA16Uint:  plain(4, true, 8),
	gputypes.TextureFormatRGBA16Sint:  plain(4, true, 8),
	gputypes.TextureFormatRGBA16Float: plain(4, true, 8),
	gputypes.TextureFormatRGBA32Float: plain(4, true, 16),
	gputypes.TextureFormatRGBA32Uint:  plain(4, true, 16),
	gputypes.TextureFormatRGBA32Sint:  plain(4, true, 16),

	gputypes.TextureFormatStencil8:             plain(1, false, 1),
	gputypes.TextureFormatDepth16Unorm:         plain(1, false, 2),
	gputypes.TextureFormatDepth24Plus:          plain(1, false, 4),
	gputypes.TextureFormatDepth24PlusStencil8:  plain(2, false, 4),
	gputypes.TextureFormatDepth32Float:         plain(1, false, 4),
	gputypes.TextureFormatDepth32FloatStencil8: plain(2, false, 8),

	gputypes.TextureFormatBC1RGBAUnorm:     block(4, true, 8),
	gputypes.TextureFormatBC1RGBAUnormSrgb: block(4, true, 8),
	gputypes.TextureFormatBC2RGBAUnorm:     block(4, true, 16),
	gputypes.TextureFormatBC2RGBAUnormSrgb: block(4, true, 16),
	gputypes.TextureFormatBC3RGBAUnorm:     block(4, true, 16),
	gputypes.TextureFormatBC3RGBAUnormSrgb: block(4, true, 16),
	gputypes.TextureFormatBC4RUnorm:        block(1, false, 8),
	gputypes.TextureFormatBC4RSnorm:        block(1, false, 8),
	gputypes.TextureFormatBC5RGUnorm:       block(2, false, 16),
	gputypes.TextureFormatBC5RGSnorm:       block(2, false, 16),
	gputypes.TextureFormatBC6HRGBUfloat:    block(3, false, 16),
	gputypes.TextureFormatBC6HRGBFloat:     block(3, false, 16),
	gputypes.TextureFormatBC7RGBAUnorm:     block(4, true, 16),
	gputypes.TextureFormatBC7RGBAUnormSrgb: block(4, true, 16),

	gputypes.TextureFormatETC2RGB8Unorm:       block(3, false, 8),
	gputypes.TextureFormatETC2RGB8UnormSrgb:   block(3, false, 8),
	gputypes.TextureFormatETC2RGB8A1Unorm:     block(4, true, 8),
	gputypes.TextureFormatETC2RGB8A1UnormSrgb: block(4, true, 8),
	gputypes.TextureFormatETC2RGBA8Unorm:      block(4, true, 16),
	gputypes.TextureFormatETC2RGBA8UnormSrgb:  block(4, true, 16),
	gputypes.TextureFormatEACR11Unorm:         block(1, false, 8),
	gputypes.TextureFormatEACR11Snorm:         block(1, false, 8),
	gputypes.TextureFormatEACRG11Unorm:        block(2, false, 16),
	gputypes.TextureFormatEACRG11Snorm:        block(2, false, 16),
}

// Lookup returns the layout of f. The second result is false for formats
// the table does not describe (ASTC and Undefined).
func Lookup(f gputypes.TextureFormat) (Info, bool) {
	info, ok := infos[f]
	return info, ok
}

// Components returns the number of stored channels of f.
// Unknown formats are treated as four-channel.
func Components(f gputypes.TextureFormat) int {
	if info, ok := infos[f]; ok {
		return info.Components
	}
	return 4
}

// HasAlpha reports whether f stores an alpha channel.
// Unknown formats are assumed to have one.
func HasAlpha(f gputypes.TextureFormat) bool {
	if info, ok := infos[f]; ok {
		return info.Alpha
	}
	return true
}

// BytesPerPixel returns the block size of an uncompressed format, or 0 for
// compressed and unknown formats.
func BytesPerPixel(f gputypes.TextureFormat) uint32 {
	info, ok := infos[f]
	if !ok || info.Compressed() {
		return 0
	}
	return info.BlockBytes
}

// IsDepthAndStencil reports whether f carries both a depth and a stencil
// aspect.
func IsDepthAndStencil(f gputypes.TextureFormat) bool {
	return f.HasDepth() && f.HasStencil()
}

// StencilOnly returns the format that views only the stencil aspect of f.
// Formats without stencil are returned unchanged.
func StencilOnly(f gputypes.TextureFormat) gputypes.TextureFormat {
	if f.HasStencil() {
		return gputypes.TextureFormatStencil8
	}
	return f
}

var linearOf = map[gputypes.TextureFormat]gputypes.TextureFormat{
	gputypes.TextureFormatRGBA8UnormSrgb:      gputypes.TextureFormatRGBA8Unorm,
	gputypes.TextureFormatBGRA8UnormSrgb:      gputypes.TextureFormatBGRA8Unorm,
	gputypes.TextureFormatBC1RGBAUnormSrgb:    gputypes.TextureFormatBC1RGBAUnorm,
	gputypes.TextureFormatBC2RGBAUnormSrgb:    gputypes.TextureFormatBC2RGBAUnorm,
	gputypes.TextureFormatBC3RGBAUnormSrgb:    gputypes.TextureFormatBC3RGBAUnorm,
	gputypes.TextureFormatBC7RGBAUnormSrgb:    gputypes.TextureFormatBC7RGBAUnorm,
	gputypes.TextureFormatETC2RGB8UnormSrgb:   gputypes.TextureFormatETC2RGB8Unorm,
	gputypes.TextureFormatETC2RGB8A1UnormSrgb: gputypes.TextureFormatETC2RGB8A1Unorm,
	gputypes.TextureFormatETC2RGBA8UnormSrgb:  gputypes.TextureFormatETC2RGBA8Unorm,
	gputypes.TextureFormatASTC4x4UnormSrgb:    gputypes.TextureFormatASTC4x4Unorm,
	gputypes.TextureFormatASTC8x8UnormSrgb:    gputypes.TextureFormatASTC8x8Unorm,
}

// Linear returns the non-sRGB equivalent of f, used when sRGB decoding is
// skipped. Formats that are already linear are returned unchanged.
func Linear(f gputypes.TextureFormat) gputypes.TextureFormat {
	if l, ok := linearOf[f]; ok {
		return l
	}
	return f
}
