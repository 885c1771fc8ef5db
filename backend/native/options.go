//go:build !nogpu

package native

// Option configures a Backend during creation.
type Option func(*options)

type options struct {
	label         string
	pipelineCache int
	msaaSamples   uint32
}

// DefaultPipelineCacheSize is the number of blit pipelines kept alive.
// One pipeline exists per destination format and color write mask.
const DefaultPipelineCacheSize = 16

func defaultOptions() options {
	return options{
		label:         "statetrack",
		pipelineCache: DefaultPipelineCacheSize,
		msaaSamples:   4,
	}
}

// WithLabel sets the prefix of every HAL object label.
func WithLabel(label string) Option {
	return func(o *options) {
		o.label = label
	}
}

// WithPipelineCacheSize sets how many blit pipelines are kept. Least
// recently used pipelines beyond n are destroyed.
func WithPipelineCacheSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.pipelineCache = n
		}
	}
}

// WithMSAASamples sets the sample count of multisample texture targets.
func WithMSAASamples(n uint32) Option {
	return func(o *options) {
		if n > 1 {
			o.msaaSamples = n
		}
	}
}
