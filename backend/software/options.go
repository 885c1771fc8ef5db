package software

// Option configures a Backend.
type Option func(*options)

type options struct {
	budget        uint64
	stencilExport bool
}

func defaultOptions() options {
	return options{budget: DefaultMaxMemoryMB * 1024 * 1024}
}

// WithMemoryBudget sets the texel memory budget in bytes.
func WithMemoryBudget(bytes uint64) Option {
	return func(o *options) {
		o.budget = bytes
	}
}

// WithStencilExport lets the draw path write stencil, as hardware with
// shader stencil export can.
func WithStencilExport(enabled bool) Option {
	return func(o *options) {
		o.stencilExport = enabled
	}
}
