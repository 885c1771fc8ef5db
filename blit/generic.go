package blit

import "fmt"

// Blitter runs blits as textured-quad draws.
type Blitter interface {
	// Supported reports whether the draw path can produce req: its formats,
	// targets and sample counts.
	Supported(req *Request) bool

	// CanCopyStencil reports whether the draw path can write stencil.
	CanCopyStencil() bool

	// Blit draws req. It may scale, convert formats and resolve.
	Blit(req *Request) error
}

// StateKind is a piece of pipeline state the generic path clobbers.
type StateKind uint8

const (
	StateVertexBuffers StateKind = iota
	StateVertexElements
	StateVertexShader
	StateRasterizer
	StateViewport
	StateScissor
	StateFragmentShader
	StateBlend
	StateDepthStencilAlpha
	StateStencilRef
	StateSampleMask
	StateFramebuffer
	StateFragmentSamplers
	StateFragmentViews

	numStateKinds = int(StateFragmentViews) + 1
)

var stateNames = [...]string{
	StateVertexBuffers:     "vertex-buffers",
	StateVertexElements:    "vertex-elements",
	StateVertexShader:      "vertex-shader",
	StateRasterizer:        "rasterizer",
	StateViewport:          "viewport",
	StateScissor:           "scissor",
	StateFragmentShader:    "fragment-shader",
	StateBlend:             "blend",
	StateDepthStencilAlpha: "depth-stencil-alpha",
	StateStencilRef:        "stencil-ref",
	StateSampleMask:        "sample-mask",
	StateFramebuffer:       "framebuffer",
	StateFragmentSamplers:  "fragment-samplers",
	StateFragmentViews:     "fragment-views",
}

func (k StateKind) String() string {
	if int(k) < len(stateNames) {
		return stateNames[k]
	}
	return fmt.Sprintf("state(%d)", uint8(k))
}

// AllStateKinds returns every kind, in save order.
func AllStateKinds() []StateKind {
	kinds := make([]StateKind, numStateKinds)
	for i := range kinds {
		kinds[i] = StateKind(i)
	}
	return kinds
}

// Snapshot is saved pipeline state.
type Snapshot interface {
	// Restore puts the saved state back.
	Restore()
}

// StateSaver captures pipeline state.
type StateSaver interface {
	// Save captures the current value of kind. It never returns nil.
	Save(kind StateKind) Snapshot
}

// genericBlit saves every piece of state, runs the draw and restores the
// state in reverse order, whatever the draw returns.
func genericBlit(b Blitter, saver StateSaver, req *Request) error {
	var snaps []Snapshot
	if saver != nil {
		snaps = make([]Snapshot, 0, numStateKinds)
		for _, k := range AllStateKinds() {
			snaps = append(snaps, saver.Save(k))
		}
	}
	defer func() {
		for i := len(snaps) - 1; i >= 0; i-- {
			snaps[i].Restore()
		}
	}()

	if err := b.Blit(req); err != nil {
		return fmt.Errorf("blit: draw: %w", err)
	}
	return nil
}
