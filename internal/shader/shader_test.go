package shader

import (
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

const passthroughWGSL = `
@group(0) @binding(0) var src: texture_2d<f32>;
@group(0) @binding(1) var samp: sampler;

@vertex
fn vs_main(@builtin(vertex_index) idx: u32) -> @builtin(position) vec4<f32> {
    let x = f32(i32(idx & 1u)) * 2.0 - 1.0;
    let y = f32(i32(idx >> 1u)) * 2.0 - 1.0;
    return vec4<f32>(x, y, 0.0, 1.0);
}

@fragment
fn fs_main(@builtin(position) pos: vec4<f32>) -> @location(0) vec4<f32> {
    return textureSample(src, samp, pos.xy / 256.0);
}
`

func createNoopDevice(t *testing.T) hal.Device {
	t.Helper()

	instance, err := noop.API{}.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		t.Fatal("no noop adapters")
	}
	open, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		open.Device.Destroy()
		instance.Destroy()
	})
	return open.Device
}

func TestCompileSPIRV(t *testing.T) {
	words, err := CompileSPIRV(passthroughWGSL)
	if err != nil {
		t.Fatalf("CompileSPIRV: %v", err)
	}
	if len(words) == 0 {
		t.Fatal("empty SPIR-V")
	}
	if words[0] != 0x07230203 {
		t.Errorf("magic = %#x, want 0x07230203", words[0])
	}
}

func TestCompileSPIRVError(t *testing.T) {
	if _, err := CompileSPIRV("fn broken( {"); err == nil {
		t.Error("expected a compile error")
	}
}

func TestCreateModule(t *testing.T) {
	device := createNoopDevice(t)

	module, err := CreateModule(device, "passthrough", passthroughWGSL)
	if err != nil {
		t.Fatalf("CreateModule: %v", err)
	}
	res := Resources{Device: device, Module: module}
	res.Destroy()
	if res.Module != nil {
		t.Error("Destroy should reset the set")
	}
	res.Destroy()
}
