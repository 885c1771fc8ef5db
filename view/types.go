package view

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// ContextID identifies the rendering context that owns a view.
type ContextID uint64

// Stage is a shader stage with its own set of sampler views.
type Stage uint8

const (
	StageVertex Stage = iota
	StageTessCtrl
	StageTessEval
	StageGeometry
	StageFragment
	StageCompute

	// NumStages is the number of shader stages.
	NumStages = int(StageCompute) + 1
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageTessCtrl:
		return "tess-ctrl"
	case StageTessEval:
		return "tess-eval"
	case StageGeometry:
		return "geometry"
	case StageFragment:
		return "fragment"
	case StageCompute:
		return "compute"
	default:
		return fmt.Sprintf("stage(%d)", uint8(s))
	}
}

// Slot is a binding point: a sampler unit of one shader stage.
type Slot struct {
	Stage Stage
	Unit  uint32
}

func (s Slot) String() string {
	return fmt.Sprintf("%s/%d", s.Stage, s.Unit)
}

// Target is the kind of texture a view exposes.
type Target uint8

const (
	Target2D Target = iota
	Target1D
	Target3D
	TargetCube
	TargetRect
	Target1DArray
	Target2DArray
	TargetCubeArray
	Target2DMultisample
	Target2DMultisampleArray
	TargetBuffer
)

var targetNames = [...]string{
	Target2D:                 "2D",
	Target1D:                 "1D",
	Target3D:                 "3D",
	TargetCube:               "Cube",
	TargetRect:               "Rect",
	Target1DArray:            "1DArray",
	Target2DArray:            "2DArray",
	TargetCubeArray:          "CubeArray",
	Target2DMultisample:      "2DMultisample",
	Target2DMultisampleArray: "2DMultisampleArray",
	TargetBuffer:             "Buffer",
}

func (t Target) String() string {
	if int(t) < len(targetNames) {
		return targetNames[t]
	}
	return fmt.Sprintf("target(%d)", uint8(t))
}

// Dimension maps t to the closest WebGPU view dimension.
// 1D arrays are exposed as 2D arrays of height one, and buffers as 1D.
func (t Target) Dimension() gputypes.TextureViewDimension {
	switch t {
	case Target1D, TargetBuffer:
		return gputypes.TextureViewDimension1D
	case Target2D, TargetRect, Target2DMultisample:
		return gputypes.TextureViewDimension2D
	case Target1DArray, Target2DArray, Target2DMultisampleArray:
		return gputypes.TextureViewDimension2DArray
	case TargetCube:
		return gputypes.TextureViewDimensionCube
	case TargetCubeArray:
		return gputypes.TextureViewDimensionCubeArray
	case Target3D:
		return gputypes.TextureViewDimension3D
	default:
		return gputypes.TextureViewDimensionUndefined
	}
}

// IsArray reports whether t has array layers.
func (t Target) IsArray() bool {
	switch t {
	case Target1DArray, Target2DArray, TargetCubeArray, Target2DMultisampleArray:
		return true
	default:
		return false
	}
}
