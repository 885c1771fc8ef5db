package statetrack

import "github.com/gogpu/statetrack/view"

// Option configures a Context during creation.
//
// Example:
//
//	ctx := statetrack.NewContext(backend,
//		statetrack.WithGLES3(),
//		statetrack.WithMaxTextureUnits(16))
type Option func(*contextOptions)

// contextOptions holds optional configuration for Context creation.
type contextOptions struct {
	id       view.ContextID
	gles3    bool
	maxUnits uint32
	fallback *view.Texture
	cache    *view.Cache
	binder   view.Binder
}

// defaultOptions returns the default context options.
func defaultOptions() contextOptions {
	return contextOptions{
		maxUnits: view.DefaultMaxUnits,
	}
}

// WithContextID sets the identity views built by the Context carry.
// Without it every Context gets a fresh identity.
func WithContextID(id view.ContextID) Option {
	return func(o *contextOptions) {
		o.id = id
	}
}

// WithGLES3 marks the Context as an OpenGL ES 3 context. Depth textures
// with a sized internal format then sample as RED.
func WithGLES3() Option {
	return func(o *contextOptions) {
		o.gles3 = true
	}
}

// WithMaxTextureUnits sets the number of sampler units per stage.
// The default is view.DefaultMaxUnits.
func WithMaxTextureUnits(n uint32) Option {
	return func(o *contextOptions) {
		if n > 0 {
			o.maxUnits = n
		}
	}
}

// WithFallbackTexture sets the texture sampled by used units with no
// texture bound.
func WithFallbackTexture(tex *view.Texture) Option {
	return func(o *contextOptions) {
		o.fallback = tex
	}
}

// WithSharedCache makes the Context use views from a cache shared with
// other contexts. Views built by another context are re-created for this
// one on first use. Bound views, the binder, the fallback texture and the
// unit count stay per Context. The Context does not release a shared cache
// on Close.
func WithSharedCache(c *view.Cache) Option {
	return func(o *contextOptions) {
		o.cache = c
	}
}

// WithBinder overrides the binder resolved views are handed to. By default
// the backend is used if it implements view.Binder.
func WithBinder(b view.Binder) Option {
	return func(o *contextOptions) {
		o.binder = b
	}
}
