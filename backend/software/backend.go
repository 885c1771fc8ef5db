package software

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/statetrack/blit"
	"github.com/gogpu/statetrack/view"
)

// ErrForeignStorage is returned when a storage, view or resource was not
// created by this backend.
var ErrForeignStorage = errors.New("software: storage not owned by backend")

// Stats counts the work done by a Backend.
type Stats struct {
	Finalized    uint64
	ViewsCreated uint64
	ViewsRebound uint64
	LiveViews    int64
	Flushes      uint64
	TileJobs     uint64
	RegionCopies uint64
	Draws        uint64
	Memory       MemoryStats
}

// Backend is a CPU implementation of every interface the state tracker
// talks to. It is meant for tests and tools that need exact, inspectable
// results.
//
// Texture storage may be finalized from several goroutines. The tile
// engine, pipeline state and binding table belong to one context at a
// time.
type Backend struct {
	mem        *MemoryManager
	stencilOut bool

	mu       sync.Mutex
	storages map[*view.Texture]*view.Storage

	bound    [view.NumStages][]*view.View
	target   blit.TargetState
	pipeline [numPipelineStates]any

	finalized    atomic.Uint64
	viewsCreated atomic.Uint64
	viewsRebound atomic.Uint64
	liveViews    atomic.Int64
	flushes      atomic.Uint64
	tileJobs     atomic.Uint64
	regionCopies atomic.Uint64
	draws        atomic.Uint64
}

// New creates a software backend.
func New(opts ...Option) *Backend {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Backend{
		mem:        NewMemoryManager(o.budget),
		stencilOut: o.stencilExport,
		storages:   make(map[*view.Texture]*view.Storage),
	}
}

// Memory returns the backend's memory manager.
func (b *Backend) Memory() *MemoryManager { return b.mem }

// Finalize allocates the storage of tex on first use and returns the same
// storage afterwards.
func (b *Backend) Finalize(tex *view.Texture) (*view.Storage, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if st, ok := b.storages[tex]; ok {
		return st, nil
	}

	st := tex.Layout()
	layers := st.ArraySize
	if st.Target == view.Target3D {
		layers = max(tex.Depth, 1)
	}
	img, err := b.mem.Alloc(ImageLayout{
		Format:  st.Format,
		Width0:  st.Width0,
		Height0: st.Height0,
		Layers:  layers,
		Levels:  st.LastLevel + 1,
		Samples: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("software: finalize texture %d: %w", tex.ID, err)
	}
	st.Handle = img
	b.storages[tex] = &st
	b.finalized.Add(1)

	slogger().Debug("software: texture finalized",
		"texture", tex.ID, "format", st.Format, "levels", st.LastLevel+1, "layers", layers)
	return &st, nil
}

// Storage returns the storage of tex, if it was finalized.
func (b *Backend) Storage(tex *view.Texture) (*view.Storage, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	st, ok := b.storages[tex]
	return st, ok
}

// Release frees the storage of tex. Views of it keep reading zeroes.
func (b *Backend) Release(tex *view.Texture) {
	b.mu.Lock()
	st, ok := b.storages[tex]
	delete(b.storages, tex)
	b.mu.Unlock()

	if ok {
		img, _ := st.Handle.(*Image)
		b.mem.Free(img)
	}
}

// NewResource allocates an image outside any texture, for use as a blit
// source or destination.
func (b *Backend) NewResource(layout ImageLayout) (*blit.Resource, error) {
	img, err := b.mem.Alloc(layout)
	if err != nil {
		return nil, err
	}
	return img.Resource(), nil
}

// FreeResource returns the memory of a resource made by NewResource.
func (b *Backend) FreeResource(res *blit.Resource) {
	if img, ok := res.Handle.(*Image); ok {
		b.mem.Free(img)
	}
}

// viewHandle is the backend object behind a view.View.
type viewHandle struct {
	b        *Backend
	img      *Image
	released atomic.Bool
}

func (h *viewHandle) Release() {
	if h.released.CompareAndSwap(false, true) {
		h.b.liveViews.Add(-1)
	}
}

// CreateView implements view.Factory.
func (b *Backend) CreateView(st *view.Storage, desc view.Descriptor) (*view.View, error) {
	img, ok := st.Handle.(*Image)
	if !ok {
		return nil, ErrForeignStorage
	}
	if desc.Target != view.TargetBuffer {
		if desc.LastLevel >= img.Levels() {
			return nil, fmt.Errorf("software: view level %d past last level %d",
				desc.LastLevel, img.Levels()-1)
		}
		if desc.LastLayer >= img.Layers() {
			return nil, fmt.Errorf("software: view layer %d past last layer %d",
				desc.LastLayer, img.Layers()-1)
		}
	}
	b.viewsCreated.Add(1)
	return b.newView(desc, img), nil
}

// RebindView implements view.Factory.
func (b *Backend) RebindView(st *view.Storage, tmpl *view.View, ctx view.ContextID) (*view.View, error) {
	img, ok := st.Handle.(*Image)
	if !ok {
		return nil, ErrForeignStorage
	}
	b.viewsRebound.Add(1)
	return b.newView(tmpl.Descriptor().WithContext(ctx), img), nil
}

func (b *Backend) newView(desc view.Descriptor, img *Image) *view.View {
	b.liveViews.Add(1)
	return view.NewView(desc, &viewHandle{b: b, img: img})
}

// BindViews implements view.Binder. The backend keeps the pointers; it
// takes no references.
func (b *Backend) BindViews(stage view.Stage, views []*view.View) {
	b.bound[stage] = append(b.bound[stage][:0], views...)
}

// Bound returns the views last bound to stage.
func (b *Backend) Bound(stage view.Stage) []*view.View {
	return b.bound[stage]
}

// Stats returns a snapshot of the backend counters.
func (b *Backend) Stats() Stats {
	return Stats{
		Finalized:    b.finalized.Load(),
		ViewsCreated: b.viewsCreated.Load(),
		ViewsRebound: b.viewsRebound.Load(),
		LiveViews:    b.liveViews.Load(),
		Flushes:      b.flushes.Load(),
		TileJobs:     b.tileJobs.Load(),
		RegionCopies: b.regionCopies.Load(),
		Draws:        b.draws.Load(),
		Memory:       b.mem.Stats(),
	}
}

// Close drops the render-target state and frees all memory.
func (b *Backend) Close() {
	b.target.Release()
	b.mu.Lock()
	clear(b.storages)
	b.mu.Unlock()
	b.mem.Close()
}
