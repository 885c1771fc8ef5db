package format

import (
	"testing"

	"github.com/gogpu/gputypes"
)

func TestComposeIdentity(t *testing.T) {
	fmtSwz := Swizzle{X, Y, Z, One}
	if got := Compose(Identity, fmtSwz); got != fmtSwz {
		t.Errorf("Compose(XYZW, XYZ1) = %s, want XYZ1", got)
	}
	user := Swizzle{W, Zero, X, One}
	if got := Compose(user, Identity); got != user {
		t.Errorf("Compose(%s, XYZW) = %s, want %s", user, got, user)
	}
}

func TestComposeSubstitutesFormatComponents(t *testing.T) {
	// RGB texture in RGBA storage, user swaps red and alpha.
	user := Swizzle{W, Y, Z, X}
	fmtSwz := Swizzle{X, Y, Z, One}
	got := Compose(user, fmtSwz)
	want := Swizzle{One, Y, Z, X}
	if got != want {
		t.Errorf("Compose(%s, %s) = %s, want %s", user, fmtSwz, got, want)
	}
}

func TestComposeOrderMatters(t *testing.T) {
	user := Swizzle{W, Y, Z, X}
	fmtSwz := Swizzle{X, Y, Z, One}
	right := Compose(user, fmtSwz)
	wrong := Compose(fmtSwz, user)
	if right == wrong {
		t.Fatalf("composition should not commute here: both gave %s", right)
	}
	if wrong != (Swizzle{W, Y, Z, One}) {
		t.Errorf("reverse composition = %s, want WYZ1", wrong)
	}
	// Reading alpha through the user swizzle must yield the constant the
	// format forces, never the raw storage alpha.
	if right[0] != One {
		t.Errorf("red channel = %s, want 1 (alpha of an RGB texture)", right[0])
	}
}

func TestComposeConstantsPassThrough(t *testing.T) {
	user := Swizzle{Zero, One, Zero, One}
	for _, inner := range []Swizzle{Identity, {X, X, X, X}, {Zero, Zero, Zero, W}} {
		if got := Compose(user, inner); got != user {
			t.Errorf("Compose(%s, %s) = %s, want %s", user, inner, got, user)
		}
	}
}

func TestSwizzleString(t *testing.T) {
	tests := []struct {
		s    Swizzle
		want string
	}{
		{Identity, "XYZW"},
		{Swizzle{X, Y, Z, One}, "XYZ1"},
		{Swizzle{Zero, Zero, Zero, X}, "000X"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
	if !Identity.IsIdentity() {
		t.Error("Identity.IsIdentity() = false")
	}
}

func TestFormatSwizzle(t *testing.T) {
	rgba8 := gputypes.TextureFormatRGBA8Unorm
	tests := []struct {
		name   string
		base   BaseFormat
		mode   DepthMode
		actual gputypes.TextureFormat
		glsl   uint32
		want   Swizzle
	}{
		{"rgba", BaseRGBA, 0, rgba8, 0, Identity},
		{"rgba in 3-channel storage", BaseRGBA, 0, gputypes.TextureFormatRG11B10Ufloat, 0, Identity},
		{"rgb with alpha storage", BaseRGB, 0, rgba8, 0, Swizzle{X, Y, Z, One}},
		{"rgb without alpha storage", BaseRGB, 0, gputypes.TextureFormatRG11B10Ufloat, 0, Identity},
		{"rg in rgba", BaseRG, 0, rgba8, 0, Swizzle{X, Y, Zero, One}},
		{"rg in rg", BaseRG, 0, gputypes.TextureFormatRG8Unorm, 0, Identity},
		{"red in rg", BaseRed, 0, gputypes.TextureFormatRG8Unorm, 0, Swizzle{X, Zero, Zero, One}},
		{"red in r", BaseRed, 0, gputypes.TextureFormatR8Unorm, 0, Identity},
		{"alpha in rgba", BaseAlpha, 0, rgba8, 0, Swizzle{Zero, Zero, Zero, W}},
		{"alpha in r8", BaseAlpha, 0, gputypes.TextureFormatR8Unorm, 0, Identity},
		{"luminance", BaseLuminance, 0, rgba8, 0, Swizzle{X, X, X, One}},
		{"luminance alpha", BaseLuminanceAlpha, 0, rgba8, 0, Swizzle{X, X, X, W}},
		{"luminance alpha in rg", BaseLuminanceAlpha, 0, gputypes.TextureFormatRG8Unorm, 0, Identity},
		{"intensity", BaseIntensity, 0, rgba8, 0, Swizzle{X, X, X, X}},
		{"none", BaseNone, 0, rgba8, 0, Identity},
		{"depth luminance", BaseDepthComponent, DepthModeLuminance, gputypes.TextureFormatDepth24Plus, 0, Swizzle{X, X, X, One}},
		{"depth intensity", BaseDepthComponent, DepthModeIntensity, gputypes.TextureFormatDepth24Plus, 0, Swizzle{X, X, X, X}},
		{"depth red", BaseDepthStencil, DepthModeRed, gputypes.TextureFormatDepth24PlusStencil8, 0, Swizzle{X, Zero, Zero, One}},
		{"depth alpha legacy", BaseDepthComponent, DepthModeAlpha, gputypes.TextureFormatDepth32Float, 120, Swizzle{Zero, Zero, Zero, X}},
		{"depth alpha no glsl", BaseDepthComponent, DepthModeAlpha, gputypes.TextureFormatDepth32Float, 0, Swizzle{Zero, Zero, Zero, X}},
		{"depth alpha glsl 130", BaseDepthComponent, DepthModeAlpha, gputypes.TextureFormatDepth32Float, 130, Swizzle{X, X, X, X}},
		{"depth alpha glsl 450", BaseStencilIndex, DepthModeAlpha, gputypes.TextureFormatStencil8, 450, Swizzle{X, X, X, X}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatSwizzle(tt.base, tt.mode, tt.actual, tt.glsl)
			if got != tt.want {
				t.Errorf("FormatSwizzle(%s, %s, %s, %d) = %s, want %s",
					tt.base, tt.mode, tt.actual, tt.glsl, got, tt.want)
			}
		})
	}
}

func TestRGBAIgnoresUserSwizzleOnTop(t *testing.T) {
	for _, actual := range []gputypes.TextureFormat{
		gputypes.TextureFormatRGBA8Unorm,
		gputypes.TextureFormatRG11B10Ufloat,
		gputypes.TextureFormatR8Unorm,
	} {
		if got := FormatSwizzle(BaseRGBA, 0, actual, 0); got != Identity {
			t.Errorf("RGBA base over %s = %s, want XYZW", actual, got)
		}
	}
}
