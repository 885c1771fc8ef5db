package format

import "strings"

// Component selects a source channel or a constant for one output channel
// of a swizzle.
type Component uint8

const (
	X Component = iota
	Y
	Z
	W
	Zero
	One
)

// String returns the single-character name used in swizzle strings.
func (c Component) String() string {
	switch c {
	case X:
		return "X"
	case Y:
		return "Y"
	case Z:
		return "Z"
	case W:
		return "W"
	case Zero:
		return "0"
	case One:
		return "1"
	default:
		return "?"
	}
}

// Swizzle maps the four output channels (r, g, b, a) to components.
type Swizzle [4]Component

// Identity is the pass-through swizzle XYZW.
var Identity = Swizzle{X, Y, Z, W}

// NewSwizzle builds a swizzle from four components.
func NewSwizzle(r, g, b, a Component) Swizzle {
	return Swizzle{r, g, b, a}
}

// String returns the swizzle as four characters, e.g. "XYZ1".
func (s Swizzle) String() string {
	var b strings.Builder
	for _, c := range s {
		b.WriteString(c.String())
	}
	return b.String()
}

// IsIdentity reports whether s is XYZW.
func (s Swizzle) IsIdentity() bool {
	return s == Identity
}

// Compose returns outer applied on top of inner.
//
// For every output channel, a constant selected by outer passes through
// unchanged and a channel index i selected by outer is replaced by inner[i].
// The user swizzle is the outer one and the format-implied swizzle the inner
// one; swapping the arguments gives a different, incorrect result whenever
// both carry constants.
func Compose(outer, inner Swizzle) Swizzle {
	var out Swizzle
	for i, c := range outer {
		switch c {
		case X, Y, Z, W:
			out[i] = inner[c]
		case Zero, One:
			out[i] = c
		default:
			out[i] = X
		}
	}
	return out
}
