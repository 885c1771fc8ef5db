package view

import (
	"testing"

	"github.com/gogpu/gputypes"
)

func TestTextureLayout(t *testing.T) {
	tests := []struct {
		name      string
		edit      func(*Texture)
		lastLevel uint32
		arraySize uint32
		width     uint32
		height    uint32
	}{
		{"1x1", func(*Texture) {}, 0, 1, 1, 1},
		{"256x64", func(tex *Texture) { tex.Width, tex.Height = 256, 64 }, 8, 1, 256, 64},
		{"npot", func(tex *Texture) { tex.Width, tex.Height = 100, 3 }, 6, 1, 100, 3},
		{"immutable levels", func(tex *Texture) {
			tex.Width, tex.Height = 256, 256
			tex.Immutable, tex.NumLevels = true, 3
		}, 2, 1, 256, 256},
		{"2d array", func(tex *Texture) {
			tex.Target = Target2DArray
			tex.Width, tex.Height, tex.Depth = 16, 16, 5
		}, 4, 5, 16, 16},
		{"1d array", func(tex *Texture) {
			tex.Target = Target1DArray
			tex.Width, tex.Height = 32, 4
		}, 5, 4, 32, 1},
		{"cube", func(tex *Texture) {
			tex.Target = TargetCube
			tex.Width, tex.Height = 8, 8
		}, 3, 6, 8, 8},
		{"3d", func(tex *Texture) {
			tex.Target = Target3D
			tex.Width, tex.Height, tex.Depth = 4, 4, 64
		}, 6, 1, 4, 4},
		{"rect has no mips", func(tex *Texture) {
			tex.Target = TargetRect
			tex.Width, tex.Height = 64, 64
		}, 0, 1, 64, 64},
		{"buffer", func(tex *Texture) {
			tex.Target = TargetBuffer
			tex.Width = 4096
		}, 0, 1, 4096, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tex := NewTexture(1)
			tt.edit(tex)
			st := tex.Layout()
			if st.LastLevel != tt.lastLevel || st.ArraySize != tt.arraySize {
				t.Errorf("last level %d, array size %d, want %d, %d", st.LastLevel, st.ArraySize, tt.lastLevel, tt.arraySize)
			}
			if st.Width0 != tt.width || st.Height0 != tt.height {
				t.Errorf("size %dx%d, want %dx%d", st.Width0, st.Height0, tt.width, tt.height)
			}
			if st.Target != tex.Target {
				t.Errorf("target = %s", st.Target)
			}
		})
	}
}

func TestTextureLayoutBufferFormat(t *testing.T) {
	tex := NewTexture(1)
	tex.Target = TargetBuffer
	tex.Format = gputypes.TextureFormatRGBA32Float
	if got := tex.Layout().Format; got != gputypes.TextureFormatR8Unorm {
		t.Errorf("buffer storage format = %s, want R8Unorm", got)
	}
}
