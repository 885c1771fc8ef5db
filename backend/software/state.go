package software

import "github.com/gogpu/statetrack/blit"

const numPipelineStates = int(blit.StateFragmentViews) + 1

// PipelineState returns the value bound for kind.
func (b *Backend) PipelineState(kind blit.StateKind) any {
	return b.pipeline[kind]
}

// SetPipelineState binds v for kind.
func (b *Backend) SetPipelineState(kind blit.StateKind, v any) {
	b.pipeline[kind] = v
}

type pipelineSnapshot struct {
	b     *Backend
	kind  blit.StateKind
	value any
}

func (s pipelineSnapshot) Restore() { s.b.pipeline[s.kind] = s.value }

// Save implements blit.StateSaver.
func (b *Backend) Save(kind blit.StateKind) blit.Snapshot {
	return pipelineSnapshot{b: b, kind: kind, value: b.pipeline[kind]}
}

// blitState is what a draw leaves bound for every kind of state.
type blitState struct{ kind blit.StateKind }

func (b *Backend) clobberPipeline() {
	for _, k := range blit.AllStateKinds() {
		b.pipeline[k] = blitState{kind: k}
	}
}
