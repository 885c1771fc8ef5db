//go:build !nogpu

package native

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/statetrack/blit"
	"github.com/gogpu/statetrack/internal/shader"
)

//go:embed shaders/blit.wgsl
var blitShaderWGSL string

// blitUniformSize is the size of BlitUniforms in shaders/blit.wgsl.
const blitUniformSize = 16

// pipelineKey selects a blit pipeline. Pipelines differ only in their
// color target.
type pipelineKey struct {
	format gputypes.TextureFormat
	mask   gputypes.ColorWriteMask
}

// initBlit builds the shader module, layouts and samplers shared by every
// blit pipeline. Callers hold gpuMu.
func (b *Backend) initBlit() error {
	if b.blitRes.Module != nil {
		return nil
	}
	res := shader.Resources{Device: b.device}

	module, err := shader.CreateModule(b.device, b.label("blit-shader"), blitShaderWGSL)
	if err != nil {
		return err
	}
	res.Module = module

	bgl, err := b.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: b.label("blit-bind-layout"),
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageVertex,
				Buffer: &gputypes.BufferBindingLayout{
					Type:           gputypes.BufferBindingTypeUniform,
					MinBindingSize: blitUniformSize,
				},
			},
		},
	})
	if err != nil {
		res.Destroy()
		return fmt.Errorf("native: blit bind group layout: %w", err)
	}
	res.BindLayouts = []hal.BindGroupLayout{bgl}

	layout, err := b.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            b.label("blit-pipeline-layout"),
		BindGroupLayouts: res.BindLayouts,
	})
	if err != nil {
		res.Destroy()
		return fmt.Errorf("native: blit pipeline layout: %w", err)
	}
	res.PipelineLayout = layout

	// Indexed by blit.Filter.
	for _, filter := range []gputypes.FilterMode{gputypes.FilterModeNearest, gputypes.FilterModeLinear} {
		s, err := b.device.CreateSampler(&hal.SamplerDescriptor{
			Label:        b.label("blit-sampler"),
			AddressModeU: gputypes.AddressModeClampToEdge,
			AddressModeV: gputypes.AddressModeClampToEdge,
			AddressModeW: gputypes.AddressModeClampToEdge,
			MagFilter:    filter,
			MinFilter:    filter,
			MipmapFilter: gputypes.FilterModeNearest,
			LodMaxClamp:  32,
			Anisotropy:   1,
		})
		if err != nil {
			res.Destroy()
			return fmt.Errorf("native: blit sampler: %w", err)
		}
		res.Samplers = append(res.Samplers, s)
	}

	b.blitRes = res
	slogger().Debug("native: blit resources created")
	return nil
}

func (b *Backend) sampler(f blit.Filter) hal.Sampler {
	if int(f) < len(b.blitRes.Samplers) {
		return b.blitRes.Samplers[f]
	}
	return b.blitRes.Samplers[blit.FilterNearest]
}

// pipeline returns the blit pipeline for key, building it on first use.
// Callers hold gpuMu.
func (b *Backend) pipeline(key pipelineKey) (hal.RenderPipeline, error) {
	return b.pipelines.GetOrCreate(key, func() (hal.RenderPipeline, error) {
		p, err := b.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
			Label:  b.label("blit-pipeline-" + key.format.String()),
			Layout: b.blitRes.PipelineLayout,
			Vertex: hal.VertexState{
				Module:     b.blitRes.Module,
				EntryPoint: "vs_main",
			},
			Primitive: gputypes.PrimitiveState{
				Topology:  gputypes.PrimitiveTopologyTriangleList,
				FrontFace: gputypes.FrontFaceCCW,
				CullMode:  gputypes.CullModeNone,
			},
			Multisample: gputypes.MultisampleState{
				Count: 1,
				Mask:  0xFFFFFFFF,
			},
			Fragment: &hal.FragmentState{
				Module:     b.blitRes.Module,
				EntryPoint: "fs_main",
				Targets: []gputypes.ColorTargetState{{
					Format:    key.format,
					WriteMask: key.mask,
				}},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("native: blit pipeline for %s: %w", key.format, err)
		}
		slogger().Debug("native: blit pipeline created", "format", key.format, "mask", key.mask)
		return p, nil
	})
}
