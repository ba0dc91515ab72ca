// Command riftprobe exercises the headset driver against the emulated
// runtime: it opens a device, samples tracking, resolves both eyes, and
// prints the resulting rendering parameters.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/rift"
	"github.com/gogpu/rift/hmd"
	"github.com/gogpu/rift/hmd/emu"
)

func main() {
	var (
		deviceIndex = flag.Int("device", -1, "device index to open, -1 for the emulated headset")
		profilePath = flag.String("profile", "", "YAML headset profile (default: built-in DK2)")
		fovDeg      = flag.Float64("fov", 0, "symmetric FOV half-angle in degrees, 0 for device default")
		density     = flag.Float64("density", 1.0, "render target pixel density")
		prediction  = flag.Float64("predict", 0, "tracking prediction time in seconds")
		verbose     = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	rift.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	var sessionOpts []rift.SessionOption
	if *profilePath != "" {
		profile, err := emu.LoadProfile(*profilePath)
		if err != nil {
			log.Fatalf("load profile: %v", err)
		}
		sessionOpts = append(sessionOpts, rift.WithSDK(emu.NewRuntime(emu.WithProfile(profile))))
	}

	s := rift.NewSession(sessionOpts...)
	defer s.CloseAll()

	version, err := s.Version()
	if err != nil {
		log.Fatalf("runtime: %v", err)
	}
	count, err := s.GetCount()
	if err != nil {
		log.Fatalf("detect: %v", err)
	}
	fmt.Printf("runtime %s, %d device(s) attached\n", version, count)

	h, err := s.Open(*deviceIndex)
	if err != nil {
		log.Fatalf("open: %v", err)
	}
	info, err := s.Info(h)
	if err != nil {
		log.Fatalf("info: %v", err)
	}
	fmt.Printf("opened %s %s (serial %s, panel %dx%d)\n",
		info.Manufacturer, info.ProductName, info.SerialNumber,
		info.Resolution.W, info.Resolution.H)

	if err := s.StartTracking(h); err != nil {
		log.Fatalf("start tracking: %v", err)
	}
	state, err := s.GetTrackingState(h, *prediction)
	if err != nil {
		log.Fatalf("tracking state: %v", err)
	}
	fmt.Printf("head at t=%.6f: pos=(%.3f, %.3f, %.3f) quat=(%.3f, %.3f, %.3f, %.3f)\n",
		state.Time,
		state.HeadPose.Position.X, state.HeadPose.Position.Y, state.HeadPose.Position.Z,
		state.HeadPose.Orientation.X, state.HeadPose.Orientation.Y,
		state.HeadPose.Orientation.Z, state.HeadPose.Orientation.W)

	var fovOpts []rift.FovOption
	if *fovDeg > 0 {
		fovOpts = append(fovOpts, rift.WithFovDegrees(*fovDeg, *fovDeg, *fovDeg, *fovDeg))
	}
	if *density != 1.0 {
		fovOpts = append(fovOpts, rift.WithPixelDensity(*density))
	}

	for eye := hmd.EyeLeft; eye < hmd.EyeCount; eye++ {
		er, err := s.ResolveEye(h, eye, fovOpts...)
		if err != nil {
			log.Fatalf("resolve %v eye: %v", eye, err)
		}
		fmt.Printf("%v eye: target %dx%d, %d vertices / %d triangles, uvScale=(%.4f, %.4f) uvOffset=(%.4f, %.4f)\n",
			eye, er.TextureSize.W, er.TextureSize.H,
			er.Mesh.VertexCount(), er.Mesh.TriangleCount(),
			er.UVScale.X, er.UVScale.Y, er.UVOffset.X, er.UVOffset.Y)
	}

	if err := s.StopTracking(h); err != nil {
		log.Fatalf("stop tracking: %v", err)
	}
}
