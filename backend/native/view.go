//go:build !nogpu

package native

import (
	"fmt"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/statetrack/format"
	"github.com/gogpu/statetrack/view"
)

// viewHandle is the HAL texture view behind a view.View. WebGPU views
// cannot swizzle, so the swizzle travels with the handle for the shader
// that samples it.
type viewHandle struct {
	b        *Backend
	raw      hal.TextureView
	swizzle  format.Swizzle
	released atomic.Bool
}

func (h *viewHandle) Release() {
	if h.released.CompareAndSwap(false, true) {
		h.b.device.DestroyTextureView(h.raw)
		h.b.liveViews.Add(-1)
	}
}

// TextureView returns the HAL view behind v and the swizzle the sampling
// shader must apply. ok is false for views of another backend.
func TextureView(v *view.View) (raw hal.TextureView, swizzle format.Swizzle, ok bool) {
	if v == nil {
		return nil, format.Identity, false
	}
	h, ok := v.Handle().(*viewHandle)
	if !ok {
		return nil, format.Identity, false
	}
	return h.raw, h.swizzle, true
}

// CreateView implements view.Factory.
func (b *Backend) CreateView(st *view.Storage, desc view.Descriptor) (*view.View, error) {
	t, ok := st.Handle.(*texture)
	if !ok {
		return nil, ErrForeignStorage
	}
	if desc.Target == view.TargetBuffer {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedTarget, desc.Target)
	}
	if desc.LastLevel >= t.levels {
		return nil, fmt.Errorf("native: view level %d past last level %d", desc.LastLevel, t.levels-1)
	}
	if t.dimension != gputypes.TextureDimension3D && desc.LastLayer >= t.layers {
		return nil, fmt.Errorf("native: view layer %d past last layer %d", desc.LastLayer, t.layers-1)
	}

	v, err := b.newView(t, desc)
	if err != nil {
		return nil, err
	}
	b.viewsCreated.Add(1)
	return v, nil
}

// RebindView implements view.Factory.
func (b *Backend) RebindView(st *view.Storage, tmpl *view.View, ctx view.ContextID) (*view.View, error) {
	t, ok := st.Handle.(*texture)
	if !ok {
		return nil, ErrForeignStorage
	}
	v, err := b.newView(t, tmpl.Descriptor().WithContext(ctx))
	if err != nil {
		return nil, err
	}
	b.viewsRebound.Add(1)
	return v, nil
}

func (b *Backend) newView(t *texture, desc view.Descriptor) (*view.View, error) {
	vd := &hal.TextureViewDescriptor{
		Label:           b.label("view"),
		Format:          desc.Format,
		Dimension:       desc.Dimension(),
		Aspect:          desc.Aspect(),
		BaseMipLevel:    desc.FirstLevel,
		MipLevelCount:   desc.LevelCount(),
		BaseArrayLayer:  desc.FirstLayer,
		ArrayLayerCount: desc.LayerCount(),
	}
	if desc.Target == view.Target3D {
		vd.BaseArrayLayer, vd.ArrayLayerCount = 0, 1
	}
	raw, err := b.device.CreateTextureView(t.raw, vd)
	if err != nil {
		return nil, fmt.Errorf("native: create view %s: %w", desc, err)
	}
	b.liveViews.Add(1)
	return view.NewView(desc, &viewHandle{b: b, raw: raw, swizzle: desc.Swizzle}), nil
}
