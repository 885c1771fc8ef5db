//go:build !nogpu

package native

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/statetrack/internal/cache"
	"github.com/gogpu/statetrack/internal/shader"
	"github.com/gogpu/statetrack/view"
)

// Stats counts the work done by a Backend.
type Stats struct {
	Finalized    uint64
	ViewsCreated uint64
	ViewsRebound uint64
	LiveViews    int64
	RegionCopies uint64
	Draws        uint64
	Pipelines    cache.Stats
}

// Backend runs the state tracker on a wgpu HAL device.
//
// Texture storage may be finalized from several goroutines. Copies and
// draws are serialized on the queue.
type Backend struct {
	device hal.Device
	queue  hal.Queue
	opts   options

	// release destroys the device and instance when Open created them.
	release func()

	mu       sync.Mutex
	closed   bool
	storages map[*view.Texture]*view.Storage
	bound    [view.NumStages][]*view.View

	// gpuMu serializes command recording and submission.
	gpuMu     sync.Mutex
	blitRes   shader.Resources
	pipelines *cache.Cache[pipelineKey, hal.RenderPipeline]

	finalized    atomic.Uint64
	viewsCreated atomic.Uint64
	viewsRebound atomic.Uint64
	liveViews    atomic.Int64
	regionCopies atomic.Uint64
	draws        atomic.Uint64
}

// New creates a backend on an existing device and queue. The caller keeps
// ownership of both.
func New(device hal.Device, queue hal.Queue, opts ...Option) *Backend {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	b := &Backend{
		device:   device,
		queue:    queue,
		opts:     o,
		storages: make(map[*view.Texture]*view.Storage),
	}
	b.pipelines = cache.New(o.pipelineCache, func(_ pipelineKey, p hal.RenderPipeline) {
		b.device.DestroyRenderPipeline(p)
	})
	return b
}

// NewFromProvider creates a backend sharing the device of a host
// application. The provider, or its device and queue, must expose the
// HAL objects through HalDevice() and HalQueue().
func NewFromProvider(provider gpucontext.DeviceProvider, opts ...Option) (*Backend, error) {
	device, queue, err := halFromProvider(provider)
	if err != nil {
		return nil, err
	}
	slogger().Debug("native: using shared device", "adapter", provider.AdapterInfo().Name)
	return New(device, queue, opts...), nil
}

func halFromProvider(provider gpucontext.DeviceProvider) (hal.Device, hal.Queue, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	if hp, ok := provider.(halProvider); ok {
		return assertHAL(hp.HalDevice(), hp.HalQueue())
	}

	var devAny, queueAny any = provider.Device(), provider.Queue()
	if d, ok := devAny.(interface{ HalDevice() any }); ok {
		devAny = d.HalDevice()
	}
	if q, ok := queueAny.(interface{ HalQueue() any }); ok {
		queueAny = q.HalQueue()
	}
	return assertHAL(devAny, queueAny)
}

func assertHAL(devAny, queueAny any) (hal.Device, hal.Queue, error) {
	device, ok := devAny.(hal.Device)
	if !ok || device == nil {
		return nil, nil, fmt.Errorf("%w: device is %T", ErrNoHALDevice, devAny)
	}
	queue, ok := queueAny.(hal.Queue)
	if !ok || queue == nil {
		return nil, nil, fmt.Errorf("%w: queue is %T", ErrNoHALDevice, queueAny)
	}
	return device, queue, nil
}

// Open creates a standalone device on the best registered HAL backend,
// preferring discrete and integrated GPUs. Close destroys it.
func Open(opts ...Option) (*Backend, error) {
	halBackend, err := hal.SelectBestBackend()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoGPU, err)
	}
	instance, err := halBackend.CreateInstance(&hal.InstanceDescriptor{})
	if err != nil {
		return nil, fmt.Errorf("native: create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoGPU
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}

	open, err := selected.Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("%w: open %s: %w", ErrNoGPU, selected.Info.Name, err)
	}

	b := New(open.Device, open.Queue, opts...)
	b.release = func() {
		open.Device.Destroy()
		instance.Destroy()
	}
	slogger().Info("native: device opened",
		"adapter", selected.Info.Name, "backend", selected.Info.Backend)
	return b, nil
}

// Device returns the HAL device.
func (b *Backend) Device() hal.Device { return b.device }

// Queue returns the HAL queue.
func (b *Backend) Queue() hal.Queue { return b.queue }

// Storage returns the storage of tex, if it was finalized.
func (b *Backend) Storage(tex *view.Texture) (*view.Storage, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	st, ok := b.storages[tex]
	return st, ok
}

// BindViews implements view.Binder. The backend keeps the pointers; it
// takes no references.
func (b *Backend) BindViews(stage view.Stage, views []*view.View) {
	b.mu.Lock()
	b.bound[stage] = append(b.bound[stage][:0], views...)
	b.mu.Unlock()
}

// Bound returns a copy of the views last bound to stage.
func (b *Backend) Bound(stage view.Stage) []*view.View {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*view.View(nil), b.bound[stage]...)
}

// Stats returns a snapshot of the backend counters.
func (b *Backend) Stats() Stats {
	return Stats{
		Finalized:    b.finalized.Load(),
		ViewsCreated: b.viewsCreated.Load(),
		ViewsRebound: b.viewsRebound.Load(),
		LiveViews:    b.liveViews.Load(),
		RegionCopies: b.regionCopies.Load(),
		Draws:        b.draws.Load(),
		Pipelines:    b.pipelines.Stats(),
	}
}

// Close destroys every texture and pipeline the backend created, and the
// device if Open created it. Views still held by callers must not be used
// afterwards.
func (b *Backend) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	storages := b.storages
	b.storages = make(map[*view.Texture]*view.Storage)
	for i := range b.bound {
		b.bound[i] = nil
	}
	b.mu.Unlock()

	for _, st := range storages {
		if t, ok := st.Handle.(*texture); ok {
			b.destroyTexture(t)
		}
	}

	b.gpuMu.Lock()
	b.pipelines.Clear()
	b.blitRes.Destroy()
	b.gpuMu.Unlock()

	if b.release != nil {
		b.release()
		b.release = nil
	}
}

func (b *Backend) label(what string) string {
	return b.opts.label + "-" + what
}
