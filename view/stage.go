package view

import "errors"

// Program is the sampler usage of the program bound to a stage.
type Program struct {
	// SamplersUsed has bit i set when sampler i is read by the program.
	SamplersUsed uint64

	// SamplerUnits maps sampler i to the texture unit it reads.
	// Samplers past the end of the slice read the unit with their own index.
	SamplerUnits []uint32

	// GLSLVersion of the program, 0 for non-GLSL programs.
	GLSLVersion uint32
}

// Unit is the state of one texture unit.
type Unit struct {
	Texture *Texture
	Sampler Sampler
}

func (p *Program) unitOf(sampler uint32) uint32 {
	if int(sampler) < len(p.SamplerUnits) {
		return p.SamplerUnits[sampler]
	}
	return sampler
}

// DefaultMaxUnits is the default number of sampler units per stage.
const DefaultMaxUnits = 32

// Option configures a Bindings.
type Option func(*bindingOptions)

type bindingOptions struct {
	maxUnits uint32
	binder   Binder
	fallback *Texture
}

// WithMaxUnits sets the number of sampler units per stage.
// Values of zero are ignored.
func WithMaxUnits(n uint32) Option {
	return func(o *bindingOptions) {
		if n > 0 {
			o.maxUnits = n
		}
	}
}

// WithBinder sets the binder UpdateStage hands views to.
func WithBinder(b Binder) Option {
	return func(o *bindingOptions) {
		o.binder = b
	}
}

// WithFallback sets the texture sampled by used units that have no
// texture bound.
func WithFallback(tex *Texture) Option {
	return func(o *bindingOptions) {
		o.fallback = tex
	}
}

// Bindings is the sampler view state of one context: the views bound to
// each stage. Views come from a Cache that other contexts may share.
type Bindings struct {
	cache  *Cache
	opts   bindingOptions
	stages [NumStages]stageViews
}

// stageViews are the views last bound to a stage.
type stageViews struct {
	views []*View
	count uint32
}

// NewBindings returns empty bindings resolving views through c.
func NewBindings(c *Cache, opts ...Option) *Bindings {
	o := bindingOptions{maxUnits: DefaultMaxUnits}
	for _, opt := range opts {
		opt(&o)
	}
	return &Bindings{cache: c, opts: o}
}

// Cache returns the cache views are resolved through.
func (bs *Bindings) Cache() *Cache { return bs.cache }

// MaxUnits returns the number of sampler units per stage.
func (bs *Bindings) MaxUnits() uint32 { return bs.opts.maxUnits }

// UpdateStage resolves the views of every sampler prog uses, records them
// as the stage's bound views and hands the bound prefix to the binder.
// It returns the number of bound units: the highest unit that resolved,
// plus one.
//
// Units that resolve to ErrUnavailable are bound to nothing but still
// count. Units whose resources are exhausted are bound to nothing and do
// not extend the prefix. Used units without a texture sample the fallback
// texture, if any. A nil prog leaves the stage untouched. When prog uses
// no samplers and nothing was bound before, UpdateStage does nothing.
func (bs *Bindings) UpdateStage(stage Stage, prog *Program, units []Unit, env Env) uint32 {
	if int(stage) >= NumStages {
		return 0
	}
	sv := &bs.stages[stage]
	if prog == nil {
		return sv.count
	}

	oldMax := sv.count
	used := prog.SamplersUsed
	if used == 0 && oldMax == 0 {
		return 0
	}

	maxUnits := bs.opts.maxUnits
	if uint32(len(sv.views)) < maxUnits {
		grown := make([]*View, maxUnits)
		copy(grown, sv.views)
		sv.views = grown
	}

	env.GLSLVersion = prog.GLSLVersion
	sv.count = 0
	for unit := uint32(0); unit < maxUnits; unit, used = unit+1, used>>1 {
		var v *View

		if used&1 != 0 {
			tex, samp := bs.unitState(units, prog.unitOf(unit))
			resolved, err := bs.cache.Resolve(Slot{Stage: stage, Unit: unit}, tex, samp, env)
			switch {
			case err == nil:
				v = resolved
			case errors.Is(err, ErrUnavailable):
				// Bind nothing, but keep the unit in the prefix.
			default:
				assign(&sv.views[unit], nil)
				continue
			}
			sv.count = unit + 1
		} else if used == 0 && unit >= oldMax {
			// Old views are reset and no new ones follow.
			break
		}

		assign(&sv.views[unit], v)
	}

	if bs.opts.binder != nil {
		bs.opts.binder.BindViews(stage, sv.views[:sv.count])
	}
	return sv.count
}

// unitState returns the texture and sampler of texUnit, substituting the
// fallback texture for an empty unit.
func (bs *Bindings) unitState(units []Unit, texUnit uint32) (*Texture, Sampler) {
	var u Unit
	if int(texUnit) < len(units) {
		u = units[texUnit]
	}
	if u.Texture == nil && bs.opts.fallback != nil {
		return bs.opts.fallback, Sampler{}
	}
	return u.Texture, u.Sampler
}

// Bound returns the views last bound to stage. The slice aliases the
// bindings and is valid until the next update.
func (bs *Bindings) Bound(stage Stage) []*View {
	if int(stage) >= NumStages {
		return nil
	}
	sv := &bs.stages[stage]
	return sv.views[:sv.count]
}

// UpdateAll updates every stage that has a program. progs is indexed by
// Stage; missing entries are treated as stages without a program.
func (bs *Bindings) UpdateAll(progs []*Program, units []Unit, env Env) {
	for i := 0; i < NumStages && i < len(progs); i++ {
		bs.UpdateStage(Stage(i), progs[i], units, env)
	}
}

// Release drops every bound view. The cache keeps its own references.
func (bs *Bindings) Release() {
	for i := range bs.stages {
		sv := &bs.stages[i]
		for u := range sv.views {
			assign(&sv.views[u], nil)
		}
		sv.count = 0
	}
}
