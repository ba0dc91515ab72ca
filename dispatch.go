package rift

import (
	"fmt"
	"math"
	"sort"

	"github.com/gogpu/rift/hmd"
	"github.com/gogpu/rift/render"
)

// WindowResolver maps a numeric window handle from a dispatched command
// to the host window and GPU device it refers to.
type WindowResolver func(windowHandle int) (render.Window, render.DeviceHandle, error)

// Dispatcher routes named commands with flat numeric argument lists to a
// Session. It exists for hosts that drive the driver through a scripting
// bridge; Go callers use the Session directly.
type Dispatcher struct {
	s       *Session
	resolve WindowResolver
	verbs   map[string]verb
}

type verb struct {
	usage   string
	help    string
	minArgs int
	maxArgs int
	run     func(args []float64) ([][]float64, error)
}

// NewDispatcher creates a Dispatcher over s. The resolver may be nil, in
// which case PerformPostWindowOpenSetup reports that no window system is
// available and installs nothing.
func NewDispatcher(s *Session, resolve WindowResolver) *Dispatcher {
	d := &Dispatcher{s: s, resolve: resolve}
	d.verbs = map[string]verb{
		"GetCount": {
			usage: "count = GetCount()",
			help:  "Return the number of attached headsets.",
			run:   d.getCount,
		},
		"Open": {
			usage:   "handle = Open([deviceIndex=0])",
			help:    "Open the headset at deviceIndex. Pass -1 for an emulated headset.",
			maxArgs: 1,
			run:     d.open,
		},
		"Close": {
			usage:   "Close([handle])",
			help:    "Close one headset, or all of them when no handle is given.",
			maxArgs: 1,
			run:     d.close,
		},
		"IsOpen": {
			usage:   "open = IsOpen(handle)",
			help:    "Report 1 when handle refers to an open headset, else 0.",
			minArgs: 1,
			maxArgs: 1,
			run:     d.isOpen,
		},
		"Start": {
			usage:   "Start(handle)",
			help:    "Start head tracking.",
			minArgs: 1,
			maxArgs: 1,
			run:     d.start,
		},
		"Stop": {
			usage:   "Stop(handle)",
			help:    "Stop head tracking.",
			minArgs: 1,
			maxArgs: 1,
			run:     d.stop,
		},
		"GetTrackingState": {
			usage:   "state = GetTrackingState(handle [, predictionTime=0])",
			help:    "Sample the head state as a 20-element vector: time, position, orientation quaternion, linear and angular velocity, linear and angular acceleration.",
			minArgs: 1,
			maxArgs: 2,
			run:     d.getTrackingState,
		},
		"GetFovTextureSize": {
			usage:   "[w, h, viewport, pixelsPerTanAngle, eyeOffset, vertices, indices, uvScale, uvOffset, timewarpStart, timewarpEnd] = GetFovTextureSize(handle, eye [, fovLeft, fovRight, fovUp, fovDown [, pixelDensity=1]])",
			help:    "Resolve one eye's rendering parameters. eye is 0 (left) or 1 (right); the optional FOV is four half-angles in degrees.",
			minArgs: 2,
			maxArgs: 7,
			run:     d.getFovTextureSize,
		},
		"PerformPostWindowOpenSetup": {
			usage:   "success = PerformPostWindowOpenSetup(handle, windowHandle)",
			help:    "Install lens-correction stages into the window's compositing chains. Returns 0 without failing when the window has no usable stereo hook.",
			minArgs: 2,
			maxArgs: 2,
			run:     d.postWindowSetup,
		},
	}
	return d
}

// Call runs the named verb. Results come back as one slice per output in
// the order the verb's usage line documents.
func (d *Dispatcher) Call(name string, args ...float64) ([][]float64, error) {
	v, ok := d.verbs[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown command %q", ErrInvalidArgument, name)
	}
	if len(args) < v.minArgs || len(args) > v.maxArgs {
		return nil, fmt.Errorf("%w: %s takes %d to %d arguments, got %d; usage: %s",
			ErrInvalidArgument, name, v.minArgs, v.maxArgs, len(args), v.usage)
	}
	return v.run(args)
}

// Synopsis returns one usage line per verb, sorted by verb name.
func (d *Dispatcher) Synopsis() []string {
	names := make([]string, 0, len(d.verbs))
	for name := range d.verbs {
		names = append(names, name)
	}
	sort.Strings(names)
	lines := make([]string, len(names))
	for i, name := range names {
		lines[i] = d.verbs[name].usage
	}
	return lines
}

// Usage returns the usage and help text for one verb.
func (d *Dispatcher) Usage(name string) (string, error) {
	v, ok := d.verbs[name]
	if !ok {
		return "", fmt.Errorf("%w: unknown command %q", ErrInvalidArgument, name)
	}
	return v.usage + "\n" + v.help, nil
}

// intArg converts a numeric argument that must be a whole number.
func intArg(what string, v float64) (int, error) {
	if math.IsNaN(v) || v != math.Trunc(v) {
		return 0, fmt.Errorf("%w: %s must be an integer, got %g", ErrInvalidArgument, what, v)
	}
	return int(v), nil
}

func boolResult(b bool) [][]float64 {
	if b {
		return [][]float64{{1}}
	}
	return [][]float64{{0}}
}

func (d *Dispatcher) getCount(_ []float64) ([][]float64, error) {
	n, err := d.s.GetCount()
	if err != nil {
		return nil, err
	}
	return [][]float64{{float64(n)}}, nil
}

func (d *Dispatcher) open(args []float64) ([][]float64, error) {
	index := 0
	if len(args) == 1 {
		var err error
		if index, err = intArg("deviceIndex", args[0]); err != nil {
			return nil, err
		}
	}
	handle, err := d.s.Open(index)
	if err != nil {
		return nil, err
	}
	return [][]float64{{float64(handle)}}, nil
}

func (d *Dispatcher) close(args []float64) ([][]float64, error) {
	if len(args) == 0 {
		d.s.CloseAll()
		return nil, nil
	}
	handle, err := intArg("handle", args[0])
	if err != nil {
		return nil, err
	}
	return nil, d.s.Close(handle)
}

func (d *Dispatcher) isOpen(args []float64) ([][]float64, error) {
	handle, err := intArg("handle", args[0])
	if err != nil {
		return nil, err
	}
	return boolResult(d.s.IsOpen(handle)), nil
}

func (d *Dispatcher) start(args []float64) ([][]float64, error) {
	handle, err := intArg("handle", args[0])
	if err != nil {
		return nil, err
	}
	return nil, d.s.StartTracking(handle)
}

func (d *Dispatcher) stop(args []float64) ([][]float64, error) {
	handle, err := intArg("handle", args[0])
	if err != nil {
		return nil, err
	}
	return nil, d.s.StopTracking(handle)
}

func (d *Dispatcher) getTrackingState(args []float64) ([][]float64, error) {
	handle, err := intArg("handle", args[0])
	if err != nil {
		return nil, err
	}
	prediction := 0.0
	if len(args) == 2 {
		prediction = args[1]
	}
	ts, err := d.s.GetTrackingState(handle, prediction)
	if err != nil {
		return nil, err
	}
	vec := ts.Vector()
	return [][]float64{vec[:]}, nil
}

func (d *Dispatcher) getFovTextureSize(args []float64) ([][]float64, error) {
	handle, err := intArg("handle", args[0])
	if err != nil {
		return nil, err
	}
	eyeIdx, err := intArg("eye", args[1])
	if err != nil {
		return nil, err
	}

	var opts []FovOption
	switch len(args) {
	case 2:
	case 6, 7:
		opts = append(opts, WithFovDegrees(args[2], args[3], args[4], args[5]))
		if len(args) == 7 {
			opts = append(opts, WithPixelDensity(args[6]))
		}
	default:
		return nil, fmt.Errorf("%w: FOV must be four degrees (left, right, up, down)", ErrInvalidArgument)
	}

	er, err := d.s.ResolveEye(handle, hmd.Eye(eyeIdx), opts...)
	if err != nil {
		return nil, err
	}

	start := er.TimewarpStart.Flatten()
	end := er.TimewarpEnd.Flatten()
	return [][]float64{
		{float64(er.TextureSize.W)},
		{float64(er.TextureSize.H)},
		{float64(er.Viewport.X), float64(er.Viewport.Y), float64(er.Viewport.W), float64(er.Viewport.H)},
		{er.PixelsPerTanAngle.X, er.PixelsPerTanAngle.Y},
		{er.HmdShift.X, er.HmdShift.Y, er.HmdShift.Z},
		er.VertexData(),
		indexData(er.Mesh),
		{er.UVScale.X, er.UVScale.Y},
		{er.UVOffset.X, er.UVOffset.Y},
		start[:],
		end[:],
	}, nil
}

func (d *Dispatcher) postWindowSetup(args []float64) ([][]float64, error) {
	handle, err := intArg("handle", args[0])
	if err != nil {
		return nil, err
	}
	windowHandle, err := intArg("windowHandle", args[1])
	if err != nil {
		return nil, err
	}
	if d.resolve == nil {
		Logger().Warn("post-window setup skipped", "reason", "no window resolver")
		return boolResult(false), nil
	}
	win, dev, err := d.resolve(windowHandle)
	if err != nil {
		return nil, fmt.Errorf("%w: window %d: %v", ErrInvalidArgument, windowHandle, err)
	}
	ok, err := d.s.PerformPostWindowOpenSetup(handle, win, dev)
	if err != nil {
		return nil, err
	}
	return boolResult(ok), nil
}

// indexData widens mesh indices for the flat numeric result format.
func indexData(m *hmd.DistortionMesh) []float64 {
	out := make([]float64, len(m.Indices))
	for i, idx := range m.Indices {
		out[i] = float64(idx)
	}
	return out
}
