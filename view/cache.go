package view

import (
	"errors"
	"fmt"
)

// Errors returned by Resolve.
var (
	// ErrResourceExhausted is returned when the texture storage could not
	// be finalized or the backend could not create the view.
	ErrResourceExhausted = errors.New("view: resource exhausted")

	// ErrUnavailable is returned when the texture has nothing to sample,
	// such as a buffer range past the end of the buffer.
	ErrUnavailable = errors.New("view: nothing to sample")
)

// Finalizer makes sure a texture has backend storage.
type Finalizer interface {
	// Finalize returns the storage of tex, allocating it if needed.
	// It may fail under memory pressure.
	Finalize(tex *Texture) (*Storage, error)
}

// Factory creates backend views.
type Factory interface {
	// CreateView builds a view of st described by desc.
	CreateView(st *Storage, desc Descriptor) (*View, error)

	// RebindView builds a copy of tmpl owned by ctx, without re-deriving
	// its descriptor.
	RebindView(st *Storage, tmpl *View, ctx ContextID) (*View, error)
}

// Binder hands the resolved views of a stage to the pipeline.
type Binder interface {
	// BindViews binds views to units 0..len(views)-1 of stage. Entries may
	// be nil. The slice is only valid during the call.
	BindViews(stage Stage, views []*View)
}

// Stats holds cache counters.
type Stats struct {
	// Resolves counts Resolve calls.
	Resolves uint64
	// Hits counts resolves that reused the slot's view unchanged.
	Hits uint64
	// Rebuilds counts views created from a fresh descriptor.
	Rebuilds uint64
	// Rebinds counts views re-created for another context.
	Rebinds uint64
	// Unavailable counts resolves that failed with ErrUnavailable.
	Unavailable uint64
	// Exhausted counts resolves that failed with ErrResourceExhausted.
	Exhausted uint64
	// Live is the number of slots holding a view.
	Live int
}

// Cache memoizes one sampled view per slot. Several contexts may share a
// Cache; what each of them binds is tracked by its own Bindings.
type Cache struct {
	factory   Factory
	finalizer Finalizer

	records map[Slot]*View

	resolves    uint64
	hits        uint64
	rebuilds    uint64
	rebinds     uint64
	unavailable uint64
	exhausted   uint64
}

// New creates a cache on top of a backend.
func New(factory Factory, finalizer Finalizer) *Cache {
	return &Cache{
		factory:   factory,
		finalizer: finalizer,
		records:   make(map[Slot]*View),
	}
}

// Lookup returns the view cached for slot without validating it.
func (c *Cache) Lookup(slot Slot) *View {
	return c.records[slot]
}

// Resolve returns the view slot should sample tex through, creating it if
// the cached one no longer matches.
//
// The returned view belongs to the cache; callers that keep it must Ref it.
// A cached view that matches but belongs to another context is re-created
// for env.Context from the cached one. ErrUnavailable and
// ErrResourceExhausted leave the slot empty.
func (c *Cache) Resolve(slot Slot, tex *Texture, samp Sampler, env Env) (*View, error) {
	c.resolves++
	if tex == nil {
		c.unavailable++
		c.Clear(slot)
		return nil, fmt.Errorf("%w: no texture at %s", ErrUnavailable, slot)
	}

	st, err := c.finalizer.Finalize(tex)
	if err != nil {
		c.exhausted++
		slogger().Warn("view: finalize failed", "slot", slot.String(), "texture", tex.ID, "error", err)
		return nil, fmt.Errorf("%w: texture %d: %w", ErrResourceExhausted, tex.ID, err)
	}

	desc, err := Derive(tex, st, samp, env)
	if err != nil {
		c.unavailable++
		c.Clear(slot)
		slogger().Debug("view: unavailable", "slot", slot.String(), "texture", tex.ID, "error", err)
		return nil, err
	}

	cur := c.records[slot]
	if cur != nil && !cur.Descriptor().Matches(desc) {
		slogger().Debug("view: descriptor changed", "slot", slot.String(),
			"old", cur.Descriptor().String(), "new", desc.String())
		c.Clear(slot)
		cur = nil
	}

	if cur == nil {
		v, err := c.factory.CreateView(st, desc)
		if err != nil {
			c.exhausted++
			slogger().Warn("view: create failed", "slot", slot.String(), "texture", tex.ID, "error", err)
			return nil, fmt.Errorf("%w: create view: %w", ErrResourceExhausted, err)
		}
		c.records[slot] = v
		c.rebuilds++
		return v, nil
	}

	if cur.Context() != env.Context {
		v, err := c.factory.RebindView(st, cur, env.Context)
		c.Clear(slot)
		if err != nil {
			c.exhausted++
			slogger().Warn("view: rebind failed", "slot", slot.String(), "texture", tex.ID, "error", err)
			return nil, fmt.Errorf("%w: rebind view: %w", ErrResourceExhausted, err)
		}
		c.records[slot] = v
		c.rebinds++
		slogger().Debug("view: rebound", "slot", slot.String(), "context", uint64(env.Context))
		return v, nil
	}

	c.hits++
	return cur, nil
}

// Clear drops the view cached for slot. Views still bound through a
// Bindings stay alive until the stage is updated.
func (c *Cache) Clear(slot Slot) {
	if v, ok := c.records[slot]; ok {
		delete(c.records, slot)
		v.Unref()
	}
}

// ReleaseAll drops every cached view.
func (c *Cache) ReleaseAll() {
	for slot, v := range c.records {
		delete(c.records, slot)
		v.Unref()
	}
}

// Stats returns the current counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Resolves:    c.resolves,
		Hits:        c.hits,
		Rebuilds:    c.rebuilds,
		Rebinds:     c.rebinds,
		Unavailable: c.unavailable,
		Exhausted:   c.exhausted,
		Live:        len(c.records),
	}
}

// ResetStats zeroes the counters.
func (c *Cache) ResetStats() {
	c.resolves, c.hits, c.rebuilds, c.rebinds = 0, 0, 0, 0
	c.unavailable, c.exhausted = 0, 0
}
