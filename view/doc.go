// Package view caches sampled texture views per binding slot.
//
// A sampled view is the immutable object shader stages read a texture
// through. Its shape depends on mutable texture state: the storage format,
// the user swizzle, the mip and layer ranges, sRGB decoding and, for
// buffer textures, the element span. Cache derives a Descriptor from that
// state on every use and rebuilds the slot's view only when the descriptor
// changes.
//
// Basic usage:
//
//	c := view.New(factory, finalizer)
//	bs := view.NewBindings(c, view.WithBinder(binder))
//	n := bs.UpdateStage(view.StageFragment, prog, units, env)
//
// A Cache may be shared by several contexts; each context binds through
// its own Bindings. Backends plug in through the Finalizer, Factory and
// Binder interfaces. Neither type is safe for concurrent use; callers
// serialize access.
package view
