// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"

	"github.com/gogpu/rift/hmd"
)

// Sentinel errors for stage installation.
var (
	// ErrStageExists indicates an append of a stage whose name is already
	// present in the chain.
	ErrStageExists = errors.New("render: stage already in chain")

	// ErrChainUnknown indicates a chain name the compositor does not have.
	ErrChainUnknown = errors.New("render: unknown compositing chain")
)

// Names of the per-eye compositing chains a stereo window exposes.
// InstallDistortionStages appends the left eye's correction stage to
// ChainLeft and the right eye's to ChainRight.
const (
	ChainLeft  = "StereoLeftCompositingBlit"
	ChainRight = "StereoRightCompositingBlit"
)

// DistortionStageName is the name correction stages are registered under
// in a compositing chain.
const DistortionStageName = "LensCorrection"

// Window is the host application's stereo output window. Implementations
// wrap whatever windowing toolkit the host uses.
type Window interface {
	// Acquire takes exclusive use of the window's GPU resources for the
	// duration of stage installation. The returned release function must
	// be called exactly once.
	Acquire() (release func(), err error)

	// Compositor returns the window's compositing pipeline, or nil when
	// the window has no user-modifiable compositor.
	Compositor() Compositor

	// SourceTexture returns the texture holding eye's rendered scene and
	// its size in pixels.
	SourceTexture(eye hmd.Eye) (Texture, hmd.Size, error)
}

// Compositor is the window's compositing pipeline: named chains of
// stages executed when the window presents.
type Compositor interface {
	// HookEnabled reports whether the named chain exists and accepts
	// user stages.
	HookEnabled(chain string) bool

	// ClearChain removes all stages from the named chain.
	ClearChain(chain string) error

	// AppendStage adds a stage to the end of the named chain. The
	// compositor owns the stage afterward and destroys it when the
	// chain is cleared or the window closes.
	AppendStage(chain string, st *Stage) error
}

// Program is a compiled correction shader pipeline. Both eye stages share
// one program; the compositor destroys it with the last stage using it.
type Program interface {
	Destroy()
}

// DrawObject is one eye's encoded correction draw: mesh buffers, uniform
// data, and resource bindings, ready for the compositor to execute.
type DrawObject interface {
	Destroy()
}

// Stage is one entry in a compositing chain.
type Stage struct {
	Name    string
	Program Program
	Draw    DrawObject
}

// Destroy releases the stage's draw object. The shared program is
// released separately by whoever owns the last stage using it.
func (st *Stage) Destroy() {
	if st.Draw != nil {
		st.Draw.Destroy()
		st.Draw = nil
	}
}

// EyeStageConfig carries the resolved parameters a builder needs to
// compile one eye's correction stage.
type EyeStageConfig struct {
	Eye           hmd.Eye
	Mesh          *hmd.DistortionMesh
	UVScale       hmd.Vec2
	UVOffset      hmd.Vec2
	TimewarpStart hmd.Matrix4
	TimewarpEnd   hmd.Matrix4

	// Source is the eye's scene texture and SourceSize its pixel size.
	Source     Texture
	SourceSize hmd.Size
}

// StageBuilder compiles eye configurations into installable stages on the
// host's GPU device. render/wgpu provides the standard implementation.
type StageBuilder interface {
	// BuildStages compiles the shared correction program and both eye
	// stages. Nothing is installed anywhere; on error the builder has
	// already released whatever it created.
	BuildStages(dev DeviceHandle, left, right EyeStageConfig) (leftStage, rightStage *Stage, err error)
}
