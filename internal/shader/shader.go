// Package shader compiles WGSL to SPIR-V and wraps the HAL calls that turn
// it into shader modules.
package shader

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// CompileSPIRV compiles WGSL source to SPIR-V words.
func CompileSPIRV(wgsl string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("shader: compile: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("shader: SPIR-V length %d is not word aligned", len(spirvBytes))
	}

	// SPIR-V is little-endian 32-bit words.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(spirvBytes[i*4:])
	}
	return words, nil
}

// CreateModule compiles wgsl and creates a shader module on device.
func CreateModule(device hal.Device, label, wgsl string) (hal.ShaderModule, error) {
	words, err := CompileSPIRV(wgsl)
	if err != nil {
		return nil, err
	}
	module, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: hal.ShaderSource{SPIRV: words},
	})
	if err != nil {
		return nil, fmt.Errorf("shader: create module %q: %w", label, err)
	}
	return module, nil
}

// Resources groups the objects behind one render pipeline so they can be
// released together.
type Resources struct {
	Device         hal.Device
	Module         hal.ShaderModule
	PipelineLayout hal.PipelineLayout
	BindLayouts    []hal.BindGroupLayout
	Samplers       []hal.Sampler
	Pipelines      []hal.RenderPipeline
}

// Destroy releases everything in dependency order. It is safe to call on a
// partially built set and more than once.
func (r *Resources) Destroy() {
	if r.Device == nil {
		return
	}
	for _, p := range r.Pipelines {
		if p != nil {
			r.Device.DestroyRenderPipeline(p)
		}
	}
	if r.PipelineLayout != nil {
		r.Device.DestroyPipelineLayout(r.PipelineLayout)
	}
	for _, l := range r.BindLayouts {
		if l != nil {
			r.Device.DestroyBindGroupLayout(l)
		}
	}
	for _, s := range r.Samplers {
		if s != nil {
			r.Device.DestroySampler(s)
		}
	}
	if r.Module != nil {
		r.Device.DestroyShaderModule(r.Module)
	}
	*r = Resources{}
}
