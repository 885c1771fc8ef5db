package statetrack

import (
	"sync/atomic"

	"github.com/gogpu/statetrack/blit"
	"github.com/gogpu/statetrack/view"
)

// Backend is the driver a Context runs on.
//
// A backend may also implement view.Binder, blit.TileEngine,
// blit.RegionCopier and blit.StateSaver; the Context discovers them with
// type assertions and enables the matching features.
type Backend interface {
	view.Finalizer
	view.Factory
	blit.Blitter
}

// Programs holds the program bound to each shader stage, indexed by
// view.Stage. Nil entries are stages without a program.
type Programs [view.NumStages]*view.Program

var nextContextID atomic.Uint64

// Context is the per-context state tracker: the views bound to every shader
// stage, the sampled-view cache they come from and the blit path selector.
//
// A Context is not safe for concurrent use.
type Context struct {
	id       view.ContextID
	env      view.Env
	views    *view.Cache
	bindings *view.Bindings
	blits    *blit.Selector

	ownsCache bool
}

// NewContext creates a state tracker on top of b.
func NewContext(b Backend, opts ...Option) *Context {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.id == 0 {
		o.id = view.ContextID(nextContextID.Add(1))
	}
	if o.binder == nil {
		if vb, ok := b.(view.Binder); ok {
			o.binder = vb
		}
	}

	c := &Context{
		id:  o.id,
		env: view.Env{Context: o.id, GLES3: o.gles3},
	}

	if o.cache != nil {
		c.views = o.cache
	} else {
		c.views = view.New(b, b)
		c.ownsCache = true
	}
	bindOpts := []view.Option{view.WithMaxUnits(o.maxUnits)}
	if o.binder != nil {
		bindOpts = append(bindOpts, view.WithBinder(o.binder))
	}
	if o.fallback != nil {
		bindOpts = append(bindOpts, view.WithFallback(o.fallback))
	}
	c.bindings = view.NewBindings(c.views, bindOpts...)

	var blitOpts []blit.Option
	if te, ok := b.(blit.TileEngine); ok {
		blitOpts = append(blitOpts, blit.WithTileEngine(te))
	}
	if rc, ok := b.(blit.RegionCopier); ok {
		blitOpts = append(blitOpts, blit.WithRegionCopier(rc))
	}
	if ss, ok := b.(blit.StateSaver); ok {
		blitOpts = append(blitOpts, blit.WithStateSaver(ss))
	}
	c.blits = blit.NewSelector(b, blitOpts...)

	Logger().Debug("statetrack: context created", "id", uint64(c.id), "gles3", o.gles3)
	return c
}

// ID returns the identity carried by views this Context builds.
func (c *Context) ID() view.ContextID { return c.id }

// Views returns the sampled-view cache.
func (c *Context) Views() *view.Cache { return c.views }

// Bindings returns the views bound to each stage of this Context.
func (c *Context) Bindings() *view.Bindings { return c.bindings }

// Selector returns the blit path selector.
func (c *Context) Selector() *blit.Selector { return c.blits }

// Env returns the environment views are resolved in.
func (c *Context) Env() view.Env { return c.env }

// UpdateTextures resolves and binds the sampled views of every stage that
// has a program.
func (c *Context) UpdateTextures(progs Programs, units []view.Unit) {
	c.bindings.UpdateAll(progs[:], units, c.env)
}

// UpdateStage resolves and binds the sampled views of one stage and returns
// the number of bound units.
func (c *Context) UpdateStage(stage view.Stage, prog *view.Program, units []view.Unit) uint32 {
	return c.bindings.UpdateStage(stage, prog, units, c.env)
}

// Resolve returns the view slot samples tex through.
func (c *Context) Resolve(slot view.Slot, tex *view.Texture, samp view.Sampler, glslVersion uint32) (*view.View, error) {
	env := c.env
	env.GLSLVersion = glslVersion
	return c.views.Resolve(slot, tex, samp, env)
}

// Blit copies pixels between resources on the cheapest capable path.
func (c *Context) Blit(req blit.Request) (blit.Result, error) {
	return c.blits.Blit(req)
}

// Close releases the views bound by the Context, and the cache if the
// Context created it.
func (c *Context) Close() {
	c.bindings.Release()
	if c.ownsCache {
		c.views.ReleaseAll()
	}
}
