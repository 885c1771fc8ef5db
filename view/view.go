package view

import "sync/atomic"

// Handle is the backend object behind a view.
type Handle interface {
	// Release frees the backend object. It is called once, when the last
	// reference to the owning View is dropped.
	Release()
}

// View is a reference-counted sampled view.
//
// A new View holds one reference, owned by whoever created it. Ref adds a
// reference and Unref drops one; the last Unref releases the handle.
type View struct {
	desc   Descriptor
	handle Handle
	refs   atomic.Int32
}

// NewView wraps a backend handle. The returned View holds one reference.
func NewView(desc Descriptor, h Handle) *View {
	v := &View{desc: desc, handle: h}
	v.refs.Store(1)
	return v
}

// Descriptor returns the descriptor the view was built from.
func (v *View) Descriptor() Descriptor { return v.desc }

// Handle returns the backend object.
func (v *View) Handle() Handle { return v.handle }

// Context returns the context that owns the view.
func (v *View) Context() ContextID { return v.desc.Context }

// Refs returns the current reference count.
func (v *View) Refs() int32 { return v.refs.Load() }

// Ref adds a reference and returns v.
func (v *View) Ref() *View {
	v.refs.Add(1)
	return v
}

// Unref drops a reference. Dropping the last one releases the handle.
// Unref on a nil View is a no-op.
func (v *View) Unref() {
	if v == nil {
		return
	}
	switch n := v.refs.Add(-1); {
	case n == 0:
		if v.handle != nil {
			v.handle.Release()
		}
	case n < 0:
		panic("view: Unref of released view")
	}
}

// assign points *dst at v, taking a reference to v and dropping the one
// *dst held.
func assign(dst **View, v *View) {
	if *dst == v {
		return
	}
	if v != nil {
		v.Ref()
	}
	(*dst).Unref()
	*dst = v
}
