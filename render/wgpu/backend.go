// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/rift/render"
)

// Backend builds lens-correction stages on a gogpu/wgpu device. It
// implements render.StageBuilder.
//
// The compiled correction program is cached on the Backend and shared by
// every stage it builds; Destroy releases it along with any device the
// Backend owns.
type Backend struct {
	device   hal.Device
	queue    hal.Queue
	instance hal.Instance // non-nil only for standalone backends
	format   gputypes.TextureFormat

	prog *program
}

var _ render.StageBuilder = (*Backend)(nil)

// New creates a Backend on a device and queue the caller owns.
func New(device hal.Device, queue hal.Queue) *Backend {
	return &Backend{device: device, queue: queue}
}

// NewShared creates a Backend on a device shared by an external provider
// such as a gogpu context. The provider must implement HalDevice() any
// and HalQueue() any returning hal.Device and hal.Queue.
func NewShared(provider any) (*Backend, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("wgpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("wgpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("wgpu: provider HalQueue is not hal.Queue")
	}
	return New(device, queue), nil
}

// NewStandalone creates a Backend that opens its own device on the
// Vulkan backend. Intended for headless use; windowed hosts share their
// device through New or NewShared instead.
func NewStandalone() (*Backend, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("wgpu: vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("wgpu: no GPU adapters found")
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("wgpu: open device: %w", err)
	}
	render.Logger().Info("standalone correction backend initialized", "adapter", selected.Info.Name)
	return &Backend{
		device:   openDev.Device,
		queue:    openDev.Queue,
		instance: instance,
	}, nil
}

// SetSurfaceFormat overrides the color format correction pipelines target.
// Without it, the format comes from the host's DeviceHandle at build time,
// falling back to BGRA8Unorm.
func (b *Backend) SetSurfaceFormat(format gputypes.TextureFormat) {
	b.format = format
}

// BuildStages compiles the shared correction program (once) and records
// both eye draws. Nothing is installed; the stages are handed to the
// compositor by the caller.
func (b *Backend) BuildStages(dev render.DeviceHandle, left, right render.EyeStageConfig) (*render.Stage, *render.Stage, error) {
	if b.device == nil || b.queue == nil {
		return nil, nil, fmt.Errorf("wgpu: backend has no device")
	}

	if b.prog == nil {
		format := b.format
		if format == gputypes.TextureFormatUndefined && dev != nil {
			format = dev.SurfaceFormat()
		}
		if format == gputypes.TextureFormatUndefined {
			format = gputypes.TextureFormatBGRA8Unorm
		}
		prog, err := newProgram(b.device, format)
		if err != nil {
			return nil, nil, err
		}
		b.prog = prog
		render.Logger().Debug("correction program compiled", "format", format)
	}

	leftDraw, err := buildEyeDraw(b.device, b.queue, b.prog, left)
	if err != nil {
		return nil, nil, fmt.Errorf("left eye: %w", err)
	}
	rightDraw, err := buildEyeDraw(b.device, b.queue, b.prog, right)
	if err != nil {
		leftDraw.Destroy()
		return nil, nil, fmt.Errorf("right eye: %w", err)
	}

	leftStage := &render.Stage{Name: render.DistortionStageName, Program: b.prog, Draw: leftDraw}
	rightStage := &render.Stage{Name: render.DistortionStageName, Program: b.prog, Draw: rightDraw}
	return leftStage, rightStage, nil
}

// Destroy releases the cached program and, for standalone backends, the
// owned device and instance. Safe to call twice.
func (b *Backend) Destroy() {
	if b.prog != nil {
		b.prog.Destroy()
		b.prog = nil
	}
	if b.instance != nil {
		if b.device != nil {
			b.device.Destroy()
		}
		b.instance.Destroy()
		b.instance = nil
		b.device = nil
		b.queue = nil
	}
}
