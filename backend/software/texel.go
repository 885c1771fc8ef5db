package software

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/statetrack/format"
	"github.com/gogpu/statetrack/view"
)

// ReadTexel fetches texel (x, y) of v the way a shader would see it: the
// view format selects the channels and the view swizzle reorders them.
// level and layer count from the first level and layer of the view. For
// buffer views x is the element index and the other coordinates must be 0.
func ReadTexel(v *view.View, level, layer, x, y uint32) ([4]uint8, error) {
	h, ok := v.Handle().(*viewHandle)
	if !ok {
		return [4]uint8{}, ErrForeignStorage
	}
	desc := v.Descriptor()

	var raw []byte
	if desc.Target == view.TargetBuffer {
		size := format.BytesPerPixel(desc.Format)
		el := desc.FirstElement + x
		if el > desc.LastElement || level != 0 || layer != 0 || y != 0 {
			return [4]uint8{}, fmt.Errorf("%w: element %d", ErrOutOfBounds, el)
		}
		for i := range size {
			t := h.img.texel(0, 0, el*size+i, 0, 0)
			if t == nil {
				return [4]uint8{}, fmt.Errorf("%w: element %d", ErrOutOfBounds, el)
			}
			raw = append(raw, t[0])
		}
	} else {
		lvl, lyr := desc.FirstLevel+level, desc.FirstLayer+layer
		if lvl > desc.LastLevel || lyr > desc.LastLayer {
			return [4]uint8{}, fmt.Errorf("%w: level %d layer %d", ErrOutOfBounds, lvl, lyr)
		}
		raw = h.img.texel(lvl, lyr, x, y, 0)
		if raw == nil {
			return [4]uint8{}, fmt.Errorf("%w: (%d, %d) of level %d", ErrOutOfBounds, x, y, lvl)
		}
	}

	rgba, err := decode(desc.Format, h.img.Format(), raw)
	if err != nil {
		return [4]uint8{}, err
	}
	return applySwizzle(desc.Swizzle, rgba), nil
}

// decode expands the bytes of one texel stored as storage to four
// channels of the view format.
func decode(viewFormat, storage gputypes.TextureFormat, raw []byte) ([4]uint8, error) {
	if order, ok := channelOrder[viewFormat]; ok && len(raw) >= 4 {
		return [4]uint8{raw[order[0]], raw[order[1]], raw[order[2]], raw[order[3]]}, nil
	}
	switch viewFormat {
	case gputypes.TextureFormatR8Unorm, gputypes.TextureFormatR8Uint:
		return [4]uint8{raw[0], 0, 0, 255}, nil
	case gputypes.TextureFormatRG8Unorm, gputypes.TextureFormatRG8Uint:
		if len(raw) >= 2 {
			return [4]uint8{raw[0], raw[1], 0, 255}, nil
		}
	case gputypes.TextureFormatStencil8:
		_, stencil := depthStencilBytes(storage)
		if stencil.n > 0 && len(raw) > stencil.off {
			return [4]uint8{raw[stencil.off], 0, 0, 255}, nil
		}
	}
	return [4]uint8{}, fmt.Errorf("%w: cannot read %s texels", ErrUnsupportedFormat, viewFormat)
}

func applySwizzle(s format.Swizzle, in [4]uint8) [4]uint8 {
	var out [4]uint8
	for i, c := range s {
		switch c {
		case format.X, format.Y, format.Z, format.W:
			out[i] = in[c]
		case format.Zero:
			out[i] = 0
		case format.One:
			out[i] = 255
		}
	}
	return out
}
